package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mycareerchoices/compass-backend/internal/config"
)

// PDF token errors.
var (
	ErrPDFTokenExpired   = errors.New("pdf token expired")
	ErrPDFTokenSignature = errors.New("pdf token signature mismatch")
)

// PDFToken is a short-lived capability handed to the PDF rendering service
// so it can fetch one student's report without carrying a JWT.
type PDFToken struct {
	Token     string `json:"token"`
	StudentID int    `json:"student_id"`
	Expiry    int64  `json:"expiry"`
	Signature string `json:"signature"`
}

// PDFTokenService signs and verifies report hand-off tokens with a shared
// HMAC secret.
type PDFTokenService struct {
	cfg *config.Config
	now func() time.Time
}

// NewPDFTokenService creates a new PDFTokenService.
func NewPDFTokenService(cfg *config.Config) *PDFTokenService {
	return &PDFTokenService{cfg: cfg, now: time.Now}
}

// Issue creates a signed token for one student's report.
func (s *PDFTokenService) Issue(studentID int) *PDFToken {
	t := &PDFToken{
		Token:     uuid.New().String(),
		StudentID: studentID,
		Expiry:    s.now().Add(s.cfg.PDFTokenTTL).UnixMilli(),
	}
	t.Signature = s.signature(t)
	return t
}

// Verify checks expiry and signature. The signature comparison is
// constant-time.
func (s *PDFTokenService) Verify(t *PDFToken) error {
	if s.now().UnixMilli() > t.Expiry {
		return ErrPDFTokenExpired
	}
	expected := s.signature(t)
	if !hmac.Equal([]byte(expected), []byte(t.Signature)) {
		return ErrPDFTokenSignature
	}
	return nil
}

func (s *PDFTokenService) signature(t *PDFToken) string {
	mac := hmac.New(sha256.New, []byte(s.cfg.PDFTokenSecret))
	fmt.Fprintf(mac, "%s.%d.%d", t.Token, t.StudentID, t.Expiry)
	return hex.EncodeToString(mac.Sum(nil))
}
