package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mycareerchoices/compass-backend/internal/model"
)

// CareerRepository handles the career questionnaire: the question bank,
// student responses, and the per-student progress tracker.
type CareerRepository struct {
	pool *pgxpool.Pool
}

// NewCareerRepository creates a new CareerRepository.
func NewCareerRepository(pool *pgxpool.Pool) *CareerRepository {
	return &CareerRepository{pool: pool}
}

// CountQuestions returns the total number of career questions.
func (r *CareerRepository) CountQuestions(ctx context.Context) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM career_questions`).Scan(&n)
	return n, err
}

// GetQuestion retrieves a career question by its sequence number.
func (r *CareerRepository) GetQuestion(ctx context.Context, number int) (*model.CareerQuestion, error) {
	q := &model.CareerQuestion{}
	err := r.pool.QueryRow(ctx,
		`SELECT question_number, question FROM career_questions WHERE question_number = $1`, number,
	).Scan(&q.QuestionNumber, &q.Question)
	if err != nil {
		return nil, err
	}
	return q, nil
}

// GetProgress retrieves a student's questionnaire progress, or nil if the
// student has not answered anything yet.
func (r *CareerRepository) GetProgress(ctx context.Context, studentID int) (*model.ExamProgress, error) {
	p := &model.ExamProgress{StudentID: studentID}
	err := r.pool.QueryRow(ctx,
		`SELECT last_attempted_question_id FROM exam_progress WHERE student_id = $1`, studentID,
	).Scan(&p.LastAttemptedQuestionID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return p, nil
}

// ListResponses retrieves all of a student's career responses.
func (r *CareerRepository) ListResponses(ctx context.Context, studentID int) ([]model.CareerResponse, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, student_id, question_id, response_weight
		 FROM career_responses WHERE student_id = $1 ORDER BY id`, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var responses []model.CareerResponse
	for rows.Next() {
		var resp model.CareerResponse
		if err := rows.Scan(&resp.ID, &resp.StudentID, &resp.QuestionID, &resp.ResponseWeight); err != nil {
			return nil, err
		}
		responses = append(responses, resp)
	}
	return responses, rows.Err()
}

// SubmitResponse records a career answer atomically together with the
// progress tracker and, when the questionnaire is exhausted, the completion
// flag. Returns false without writing anything when a response for this
// (student, question) pair already exists.
func (r *CareerRepository) SubmitResponse(ctx context.Context, resp *model.CareerResponse) (bool, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	var existingID int
	err = tx.QueryRow(ctx,
		`SELECT id FROM career_responses WHERE student_id = $1 AND question_id = $2`,
		resp.StudentID, resp.QuestionID,
	).Scan(&existingID)
	if err == nil {
		// Already recorded: the whole submission is a no-op.
		return false, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return false, err
	}

	err = tx.QueryRow(ctx,
		`INSERT INTO career_responses (student_id, question_id, response_weight)
		 VALUES ($1, $2, $3) RETURNING id`,
		resp.StudentID, resp.QuestionID, resp.ResponseWeight,
	).Scan(&resp.ID)
	if err != nil {
		return false, err
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO exam_progress (student_id, last_attempted_question_id)
		 VALUES ($1, $2)
		 ON CONFLICT (student_id) DO UPDATE SET last_attempted_question_id = EXCLUDED.last_attempted_question_id`,
		resp.StudentID, resp.QuestionID)
	if err != nil {
		return false, err
	}

	var total int
	if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM career_questions`).Scan(&total); err != nil {
		return false, err
	}
	if resp.QuestionID >= total {
		_, err = tx.Exec(ctx,
			`INSERT INTO test_status (student_id, career_test_completed)
			 VALUES ($1, TRUE)
			 ON CONFLICT (student_id) DO UPDATE SET career_test_completed = TRUE`,
			resp.StudentID)
		if err != nil {
			return false, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("commit tx: %w", err)
	}
	return true, nil
}
