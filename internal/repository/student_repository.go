package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mycareerchoices/compass-backend/internal/model"
)

var ErrDuplicateEmail = errors.New("student with this email already exists")

// StudentRepository handles student data access.
type StudentRepository struct {
	pool *pgxpool.Pool
}

// NewStudentRepository creates a new StudentRepository.
func NewStudentRepository(pool *pgxpool.Pool) *StudentRepository {
	return &StudentRepository{pool: pool}
}

const studentColumns = `id, first_name, last_name, email, mobile_number, country, curriculum,
	school_name, grade, referral_source, password_hash, can_view_career_result, created_at`

func scanStudent(row interface{ Scan(...any) error }) (*model.Student, error) {
	s := &model.Student{}
	err := row.Scan(&s.ID, &s.FirstName, &s.LastName, &s.Email, &s.MobileNumber,
		&s.Country, &s.Curriculum, &s.SchoolName, &s.Grade, &s.ReferralSource,
		&s.PasswordHash, &s.CanViewCareerResult, &s.CreatedAt)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// GetByID retrieves a student by ID.
func (r *StudentRepository) GetByID(ctx context.Context, id int) (*model.Student, error) {
	return scanStudent(r.pool.QueryRow(ctx,
		`SELECT `+studentColumns+` FROM students WHERE id = $1`, id))
}

// GetByEmail retrieves a student by their unique email.
func (r *StudentRepository) GetByEmail(ctx context.Context, email string) (*model.Student, error) {
	return scanStudent(r.pool.QueryRow(ctx,
		`SELECT `+studentColumns+` FROM students WHERE email = $1`, email))
}

// Create inserts a new student.
func (r *StudentRepository) Create(ctx context.Context, s *model.Student) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO students (first_name, last_name, email, mobile_number, country,
		   curriculum, school_name, grade, referral_source, password_hash)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 RETURNING id, created_at`,
		s.FirstName, s.LastName, s.Email, s.MobileNumber, s.Country,
		s.Curriculum, s.SchoolName, s.Grade, s.ReferralSource, s.PasswordHash,
	).Scan(&s.ID, &s.CreatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateEmail
		}
		return err
	}
	return nil
}

// ListOverviews retrieves all students joined to their completion flags,
// ordered by creation time.
func (r *StudentRepository) ListOverviews(ctx context.Context) ([]model.StudentOverview, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT s.id, s.first_name, s.last_name, s.email, s.mobile_number, s.country,
		        s.curriculum, s.school_name, s.grade, s.referral_source, s.password_hash,
		        s.can_view_career_result, s.created_at,
		        COALESCE(t.career_test_completed, FALSE),
		        COALESCE(t.aptitude_test_completed, FALSE)
		 FROM students s
		 LEFT JOIN test_status t ON t.student_id = s.id
		 ORDER BY s.created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var overviews []model.StudentOverview
	for rows.Next() {
		var o model.StudentOverview
		err := rows.Scan(&o.ID, &o.FirstName, &o.LastName, &o.Email, &o.MobileNumber,
			&o.Country, &o.Curriculum, &o.SchoolName, &o.Grade, &o.ReferralSource,
			&o.PasswordHash, &o.CanViewCareerResult, &o.CreatedAt,
			&o.CareerTestCompleted, &o.AptitudeTestCompleted)
		if err != nil {
			return nil, err
		}
		overviews = append(overviews, o)
	}
	return overviews, rows.Err()
}

// GetFacets collects the distinct filter values for the admin dashboard.
func (r *StudentRepository) GetFacets(ctx context.Context) (*model.DashboardFacets, error) {
	facets := &model.DashboardFacets{}
	queries := []struct {
		query string
		dest  *[]string
	}{
		{`SELECT DISTINCT country FROM students ORDER BY country`, &facets.Countries},
		{`SELECT DISTINCT curriculum FROM students ORDER BY curriculum`, &facets.Curricula},
		{`SELECT DISTINCT school_name FROM students ORDER BY school_name`, &facets.Schools},
		{`SELECT DISTINCT referral_source FROM students WHERE referral_source <> '' ORDER BY referral_source`, &facets.Referrals},
	}
	for _, q := range queries {
		rows, err := r.pool.Query(ctx, q.query)
		if err != nil {
			return nil, err
		}
		for rows.Next() {
			var v string
			if err := rows.Scan(&v); err != nil {
				rows.Close()
				return nil, err
			}
			*q.dest = append(*q.dest, v)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return nil, err
		}
	}
	return facets, nil
}

// SetCareerAccess updates the result visibility flag. Returns false when the
// student does not exist.
func (r *StudentRepository) SetCareerAccess(ctx context.Context, id int, canView bool) (bool, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE students SET can_view_career_result = $1 WHERE id = $2`, canView, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// GetTestStatus retrieves a student's completion flags. A missing row means
// nothing has been completed yet.
func (r *StudentRepository) GetTestStatus(ctx context.Context, studentID int) (*model.TestStatus, error) {
	st := &model.TestStatus{StudentID: studentID}
	err := r.pool.QueryRow(ctx,
		`SELECT career_test_completed, aptitude_test_completed
		 FROM test_status WHERE student_id = $1`, studentID,
	).Scan(&st.CareerTestCompleted, &st.AptitudeTestCompleted)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return st, nil
		}
		return nil, err
	}
	return st, nil
}
