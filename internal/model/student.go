package model

import "time"

// Curriculum is the school curriculum a student follows.
type Curriculum string

const (
	CurriculumIB        Curriculum = "IB"
	CurriculumCambridge Curriculum = "Cambridge"
	CurriculumAmerican  Curriculum = "American"
	CurriculumOther     Curriculum = "Other"
)

// Student represents a registered student.
type Student struct {
	ID                  int        `json:"id"`
	FirstName           string     `json:"first_name"`
	LastName            string     `json:"last_name"`
	Email               string     `json:"email"`
	MobileNumber        string     `json:"mobile_number"`
	Country             string     `json:"country"`
	Curriculum          Curriculum `json:"curriculum"`
	SchoolName          string     `json:"school_name"`
	Grade               string     `json:"grade"`
	ReferralSource      string     `json:"referral_source,omitempty"`
	PasswordHash        string     `json:"-"`
	CanViewCareerResult bool       `json:"can_view_career_result"`
	CreatedAt           time.Time  `json:"created_at"`
}

// FullName returns the student's display name.
func (s *Student) FullName() string {
	return s.FirstName + " " + s.LastName
}

// RegisterRequest is the payload for student registration.
type RegisterRequest struct {
	FirstName      string     `json:"first_name" binding:"required,min=1,max=100"`
	LastName       string     `json:"last_name" binding:"required,min=1,max=100"`
	Email          string     `json:"email" binding:"required,email,max=100"`
	MobileNumber   string     `json:"mobile_number" binding:"required,mobile"`
	Country        string     `json:"country" binding:"required,max=100"`
	Curriculum     Curriculum `json:"curriculum" binding:"required,oneof=IB Cambridge American Other"`
	SchoolName     string     `json:"school_name" binding:"required,max=255"`
	Grade          string     `json:"grade" binding:"required,max=50"`
	Password       string     `json:"password" binding:"required,min=8,max=128"`
	ReferralSource string     `json:"referral_source" binding:"omitempty,max=255"`
}

// LoginRequest is the payload for student authentication.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email,max=100"`
	Password string `json:"password" binding:"required,max=128"`
}

// TestStatus tracks per-student assessment completion flags.
type TestStatus struct {
	StudentID             int  `json:"student_id"`
	CareerTestCompleted   bool `json:"career_test_completed"`
	AptitudeTestCompleted bool `json:"aptitude_test_completed"`
}

// StudentOverview is a dashboard row: a student plus completion flags.
type StudentOverview struct {
	Student
	CareerTestCompleted   bool `json:"career_test_completed"`
	AptitudeTestCompleted bool `json:"aptitude_test_completed"`
}

// DashboardFacets holds the distinct filter values shown on the admin dashboard.
type DashboardFacets struct {
	Countries []string `json:"countries"`
	Curricula []string `json:"curricula"`
	Schools   []string `json:"schools"`
	Referrals []string `json:"referrals"`
}
