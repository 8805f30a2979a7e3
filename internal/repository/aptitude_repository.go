package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mycareerchoices/compass-backend/internal/model"
	"github.com/mycareerchoices/compass-backend/internal/scoring"
)

// AptitudeRepository handles the aptitude question banks, responses, and
// per-student category tracking.
type AptitudeRepository struct {
	pool *pgxpool.Pool
}

// NewAptitudeRepository creates a new AptitudeRepository.
func NewAptitudeRepository(pool *pgxpool.Pool) *AptitudeRepository {
	return &AptitudeRepository{pool: pool}
}

// ListCategories returns the distinct categories of the image question bank.
func (r *AptitudeRepository) ListCategories(ctx context.Context) ([]string, error) {
	return r.listDistinct(ctx, `SELECT DISTINCT category FROM aptitude_questions ORDER BY category`)
}

// ListTextCategories returns the distinct categories of the text question bank.
func (r *AptitudeRepository) ListTextCategories(ctx context.Context) ([]string, error) {
	return r.listDistinct(ctx, `SELECT DISTINCT category FROM aptitude_text_questions ORDER BY category`)
}

func (r *AptitudeRepository) listDistinct(ctx context.Context, query string) ([]string, error) {
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// SampleByCategory returns up to limit randomly ordered image questions for
// one category.
func (r *AptitudeRepository) SampleByCategory(ctx context.Context, category string, limit int) ([]model.AptitudeQuestion, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, category, question_text, question_image,
		        option_a_text, option_a_image, option_b_text, option_b_image,
		        option_c_text, option_c_image, option_d_text, option_d_image,
		        correct_option
		 FROM aptitude_questions WHERE category = $1
		 ORDER BY random() LIMIT $2`, category, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var questions []model.AptitudeQuestion
	for rows.Next() {
		var q model.AptitudeQuestion
		err := rows.Scan(&q.ID, &q.Category, &q.QuestionText, &q.QuestionImage,
			&q.OptionAText, &q.OptionAImage, &q.OptionBText, &q.OptionBImage,
			&q.OptionCText, &q.OptionCImage, &q.OptionDText, &q.OptionDImage,
			&q.CorrectOption)
		if err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

// SampleTextByCategory returns up to limit randomly ordered text questions
// for one category.
func (r *AptitudeRepository) SampleTextByCategory(ctx context.Context, category string, limit int) ([]model.AptitudeTextQuestion, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, category, question_text, option_a, option_b, option_c, option_d, correct_option
		 FROM aptitude_text_questions WHERE category = $1
		 ORDER BY random() LIMIT $2`, category, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var questions []model.AptitudeTextQuestion
	for rows.Next() {
		var q model.AptitudeTextQuestion
		err := rows.Scan(&q.ID, &q.Category, &q.QuestionText,
			&q.OptionA, &q.OptionB, &q.OptionC, &q.OptionD, &q.CorrectOption)
		if err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

// GetQuestionsByIDs fetches image questions keyed by ID. Unknown IDs are
// simply absent from the result.
func (r *AptitudeRepository) GetQuestionsByIDs(ctx context.Context, ids []int) (map[int]model.AptitudeQuestion, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, category, correct_option FROM aptitude_questions WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	questions := make(map[int]model.AptitudeQuestion, len(ids))
	for rows.Next() {
		var q model.AptitudeQuestion
		if err := rows.Scan(&q.ID, &q.Category, &q.CorrectOption); err != nil {
			return nil, err
		}
		questions[q.ID] = q
	}
	return questions, rows.Err()
}

// CountByCategory returns the number of image questions in one category.
func (r *AptitudeRepository) CountByCategory(ctx context.Context, category string) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM aptitude_questions WHERE category = $1`, category).Scan(&n)
	return n, err
}

// GetTrack retrieves the student's last submitted category, or nil.
func (r *AptitudeRepository) GetTrack(ctx context.Context, studentID int) (*model.CategoryTrack, error) {
	t := &model.CategoryTrack{StudentID: studentID}
	err := r.pool.QueryRow(ctx,
		`SELECT last_category FROM aptitude_track WHERE student_id = $1`, studentID,
	).Scan(&t.LastCategory)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return t, nil
}

// SubmitCategory persists one category's answers atomically with the
// category tracker and, when this is the terminal category, the completion
// flag. Answers are upserts: a re-submission overwrites the stored option
// and correctness for each (student, question) pair.
func (r *AptitudeRepository) SubmitCategory(ctx context.Context, studentID int, category string, answers []model.AptitudeResponse, markComplete bool) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, a := range answers {
		_, err := tx.Exec(ctx,
			`INSERT INTO aptitude_responses (student_id, question_id, selected_option, is_correct, category)
			 VALUES ($1, $2, $3, $4, $5)
			 ON CONFLICT (student_id, question_id) DO UPDATE SET
			   selected_option = EXCLUDED.selected_option,
			   is_correct = EXCLUDED.is_correct,
			   category = EXCLUDED.category,
			   responded_at = NOW()`,
			studentID, a.QuestionID, a.SelectedOption, a.IsCorrect, a.Category)
		if err != nil {
			return err
		}
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO aptitude_track (student_id, last_category)
		 VALUES ($1, $2)
		 ON CONFLICT (student_id) DO UPDATE SET last_category = EXCLUDED.last_category`,
		studentID, category)
	if err != nil {
		return err
	}

	if markComplete {
		_, err = tx.Exec(ctx,
			`INSERT INTO test_status (student_id, aptitude_test_completed)
			 VALUES ($1, TRUE)
			 ON CONFLICT (student_id) DO UPDATE SET aptitude_test_completed = TRUE`,
			studentID)
		if err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// Marks returns the student's responses joined to their question categories.
func (r *AptitudeRepository) Marks(ctx context.Context, studentID int) ([]scoring.CategoryMark, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT q.category, r.is_correct
		 FROM aptitude_responses r
		 JOIN aptitude_questions q ON r.question_id = q.id
		 WHERE r.student_id = $1`, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var marks []scoring.CategoryMark
	for rows.Next() {
		var m scoring.CategoryMark
		if err := rows.Scan(&m.Category, &m.IsCorrect); err != nil {
			return nil, err
		}
		marks = append(marks, m)
	}
	return marks, rows.Err()
}

// CategoryTotals aggregates answered/correct counts per category for the
// categories the student has touched.
func (r *AptitudeRepository) CategoryTotals(ctx context.Context, studentID int) ([]scoring.CategoryTotal, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT q.category,
		        COUNT(r.question_id),
		        COALESCE(SUM(CASE WHEN r.is_correct THEN 1 ELSE 0 END), 0)
		 FROM aptitude_responses r
		 JOIN aptitude_questions q ON r.question_id = q.id
		 WHERE r.student_id = $1
		 GROUP BY q.category`, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var totals []scoring.CategoryTotal
	for rows.Next() {
		var t scoring.CategoryTotal
		if err := rows.Scan(&t.Category, &t.Total, &t.Correct); err != nil {
			return nil, err
		}
		totals = append(totals, t)
	}
	return totals, rows.Err()
}
