package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/mycareerchoices/compass-backend/internal/events"
	"github.com/mycareerchoices/compass-backend/internal/model"
	"github.com/mycareerchoices/compass-backend/internal/repository"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// ErrStudentNotFound is returned when an admin targets an unknown student.
var ErrStudentNotFound = errors.New("student not found")

// AdminService handles the admin dashboard and result access control.
type AdminService struct {
	admins    *repository.AdminRepository
	students  *repository.StudentRepository
	auth      *AuthService
	publisher *events.Publisher
	log       zerolog.Logger
}

// NewAdminService creates a new AdminService.
func NewAdminService(
	admins *repository.AdminRepository,
	students *repository.StudentRepository,
	auth *AuthService,
	publisher *events.Publisher,
) *AdminService {
	return &AdminService{
		admins:    admins,
		students:  students,
		auth:      auth,
		publisher: publisher,
		log:       log.With().Str("component", "admin_service").Logger(),
	}
}

// Authenticate verifies an admin's credentials and returns the account.
func (s *AdminService) Authenticate(ctx context.Context, username, password string) (*model.Admin, error) {
	admin, err := s.admins.GetByUsername(ctx, username)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if err := s.auth.CheckPassword(admin.PasswordHash, password); err != nil {
		return nil, ErrInvalidCredentials
	}
	return admin, nil
}

// Get returns an admin account by ID.
func (s *AdminService) Get(ctx context.Context, adminID int) (*model.Admin, error) {
	return s.admins.GetByID(ctx, adminID)
}

// Dashboard returns every student with completion flags, plus the distinct
// filter values the dashboard offers.
func (s *AdminService) Dashboard(ctx context.Context) ([]model.StudentOverview, *model.DashboardFacets, error) {
	overviews, err := s.students.ListOverviews(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("list students: %w", err)
	}
	facets, err := s.students.GetFacets(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("load facets: %w", err)
	}
	return overviews, facets, nil
}

// SetCareerAccess flips a student's result visibility and pushes the change
// to the student's live connections. The toggle itself succeeds even when
// the push fails.
func (s *AdminService) SetCareerAccess(ctx context.Context, studentID int, canView bool) error {
	existed, err := s.students.SetCareerAccess(ctx, studentID, canView)
	if err != nil {
		return fmt.Errorf("set career access: %w", err)
	}
	if !existed {
		return ErrStudentNotFound
	}

	err = s.publisher.Publish(ctx, events.Event{
		Type:      events.TypeResultAccessUpdated,
		StudentID: studentID,
		CanView:   canView,
	})
	if err != nil {
		s.log.Warn().Err(err).Int("student_id", studentID).Msg("Failed to publish access change")
	}
	return nil
}
