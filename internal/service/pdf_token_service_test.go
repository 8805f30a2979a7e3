package service

import (
	"errors"
	"testing"
	"time"

	"github.com/mycareerchoices/compass-backend/internal/config"
)

func testPDFTokenService() *PDFTokenService {
	return NewPDFTokenService(&config.Config{
		PDFTokenSecret: "pdf-secret",
		PDFTokenTTL:    5 * time.Minute,
	})
}

func TestPDFTokenRoundTrip(t *testing.T) {
	svc := testPDFTokenService()

	token := svc.Issue(7)
	if token.StudentID != 7 {
		t.Errorf("student_id = %d, want 7", token.StudentID)
	}
	if err := svc.Verify(token); err != nil {
		t.Errorf("Verify: %v", err)
	}
}

func TestPDFTokenTamperDetected(t *testing.T) {
	svc := testPDFTokenService()

	token := svc.Issue(7)
	token.StudentID = 8
	if err := svc.Verify(token); !errors.Is(err, ErrPDFTokenSignature) {
		t.Errorf("tampered student_id err = %v, want ErrPDFTokenSignature", err)
	}

	token = svc.Issue(7)
	if token.Signature[0] == 'f' {
		token.Signature = "0" + token.Signature[1:]
	} else {
		token.Signature = "f" + token.Signature[1:]
	}
	if err := svc.Verify(token); !errors.Is(err, ErrPDFTokenSignature) {
		t.Errorf("tampered signature err = %v, want ErrPDFTokenSignature", err)
	}
}

func TestPDFTokenExpiry(t *testing.T) {
	svc := testPDFTokenService()
	token := svc.Issue(7)

	svc.now = func() time.Time { return time.Now().Add(10 * time.Minute) }
	if err := svc.Verify(token); !errors.Is(err, ErrPDFTokenExpired) {
		t.Errorf("expired token err = %v, want ErrPDFTokenExpired", err)
	}
}

func TestPDFTokenSecretMismatch(t *testing.T) {
	token := testPDFTokenService().Issue(7)

	other := NewPDFTokenService(&config.Config{
		PDFTokenSecret: "other-secret",
		PDFTokenTTL:    5 * time.Minute,
	})
	if err := other.Verify(token); !errors.Is(err, ErrPDFTokenSignature) {
		t.Errorf("foreign secret err = %v, want ErrPDFTokenSignature", err)
	}
}
