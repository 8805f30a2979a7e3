package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/mycareerchoices/compass-backend/internal/model"
	"github.com/mycareerchoices/compass-backend/internal/repository"
)

// ErrEmailTaken is returned when registration hits an existing email.
var ErrEmailTaken = errors.New("email already registered")

// StudentService handles registration and student profile reads.
type StudentService struct {
	students *repository.StudentRepository
	auth     *AuthService
}

// NewStudentService creates a new StudentService.
func NewStudentService(students *repository.StudentRepository, auth *AuthService) *StudentService {
	return &StudentService{students: students, auth: auth}
}

// Register creates a student account from a validated request.
func (s *StudentService) Register(ctx context.Context, req *model.RegisterRequest) (*model.Student, error) {
	hash, err := s.auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	student := &model.Student{
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Email:          req.Email,
		MobileNumber:   req.MobileNumber,
		Country:        req.Country,
		Curriculum:     req.Curriculum,
		SchoolName:     req.SchoolName,
		Grade:          req.Grade,
		ReferralSource: req.ReferralSource,
		PasswordHash:   hash,
	}
	if err := s.students.Create(ctx, student); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("create student: %w", err)
	}
	return student, nil
}

// Authenticate verifies a student's credentials and returns the account.
func (s *StudentService) Authenticate(ctx context.Context, email, password string) (*model.Student, error) {
	student, err := s.students.GetByEmail(ctx, email)
	if err != nil {
		// Credential probes get the same answer as wrong passwords.
		return nil, ErrInvalidCredentials
	}
	if err := s.auth.CheckPassword(student.PasswordHash, password); err != nil {
		return nil, ErrInvalidCredentials
	}
	return student, nil
}

// Profile returns a student together with their test completion flags.
func (s *StudentService) Profile(ctx context.Context, studentID int) (*model.StudentOverview, error) {
	student, err := s.students.GetByID(ctx, studentID)
	if err != nil {
		return nil, err
	}
	status, err := s.students.GetTestStatus(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("get test status: %w", err)
	}
	return &model.StudentOverview{
		Student:               *student,
		CareerTestCompleted:   status.CareerTestCompleted,
		AptitudeTestCompleted: status.AptitudeTestCompleted,
	}, nil
}
