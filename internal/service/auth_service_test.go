package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mycareerchoices/compass-backend/internal/config"
	"github.com/mycareerchoices/compass-backend/internal/model"
)

func testAuthService(t *testing.T) *AuthService {
	t.Helper()
	cfg := &config.Config{
		JWTSecret:     "test-secret",
		AccessExpiry:  time.Hour,
		RefreshExpiry: 30 * 24 * time.Hour,
		BcryptCost:    4,
	}
	return NewAuthService(cfg, NewMemoryDenylist())
}

func testStudent() *model.Student {
	return &model.Student{ID: 42, Email: "jo@example.com", FirstName: "Jo"}
}

func TestIssueAndValidateStudentTokens(t *testing.T) {
	svc := testAuthService(t)

	pair, err := svc.IssueStudentTokens(testStudent())
	if err != nil {
		t.Fatalf("IssueStudentTokens: %v", err)
	}

	claims, err := svc.ValidateToken(context.Background(), pair.AccessToken, TokenClassAccess)
	if err != nil {
		t.Fatalf("ValidateToken(access): %v", err)
	}
	if claims.Role != RoleStudent {
		t.Errorf("role = %q, want student", claims.Role)
	}
	if claims.UserID != 42 {
		t.Errorf("user_id = %d, want 42", claims.UserID)
	}
	if claims.Email != "jo@example.com" || claims.FirstName != "Jo" {
		t.Errorf("identity claims = %q/%q, want jo@example.com/Jo", claims.Email, claims.FirstName)
	}
	if claims.CSRF != pair.AccessCSRF {
		t.Errorf("csrf claim does not match issued value")
	}

	refreshClaims, err := svc.ValidateToken(context.Background(), pair.RefreshToken, TokenClassRefresh)
	if err != nil {
		t.Fatalf("ValidateToken(refresh): %v", err)
	}
	if refreshClaims.CSRF == claims.CSRF {
		t.Errorf("access and refresh tokens must carry independent csrf values")
	}
}

func TestValidateTokenRejectsWrongClass(t *testing.T) {
	svc := testAuthService(t)
	pair, err := svc.IssueStudentTokens(testStudent())
	if err != nil {
		t.Fatalf("IssueStudentTokens: %v", err)
	}

	if _, err := svc.ValidateToken(context.Background(), pair.AccessToken, TokenClassRefresh); !errors.Is(err, ErrWrongTokenClass) {
		t.Errorf("access-as-refresh err = %v, want ErrWrongTokenClass", err)
	}
	if _, err := svc.ValidateToken(context.Background(), pair.RefreshToken, TokenClassAccess); !errors.Is(err, ErrWrongTokenClass) {
		t.Errorf("refresh-as-access err = %v, want ErrWrongTokenClass", err)
	}
}

func TestValidateTokenExpiryBoundary(t *testing.T) {
	svc := testAuthService(t)
	issued := time.Now()
	svc.now = func() time.Time { return issued }

	pair, err := svc.IssueStudentTokens(testStudent())
	if err != nil {
		t.Fatalf("IssueStudentTokens: %v", err)
	}

	svc.now = func() time.Time { return issued.Add(59 * time.Minute) }
	if _, err := svc.ValidateToken(context.Background(), pair.AccessToken, TokenClassAccess); err != nil {
		t.Errorf("token at T+59m should validate, got %v", err)
	}

	svc.now = func() time.Time { return issued.Add(61 * time.Minute) }
	if _, err := svc.ValidateToken(context.Background(), pair.AccessToken, TokenClassAccess); !errors.Is(err, ErrTokenExpired) {
		t.Errorf("token at T+61m err = %v, want ErrTokenExpired", err)
	}
}

func TestRevokedTokenRejected(t *testing.T) {
	svc := testAuthService(t)
	pair, err := svc.IssueStudentTokens(testStudent())
	if err != nil {
		t.Fatalf("IssueStudentTokens: %v", err)
	}

	claims, err := svc.ValidateToken(context.Background(), pair.AccessToken, TokenClassAccess)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if err := svc.Revoke(context.Background(), claims); err != nil {
		t.Fatalf("Revoke: %v", err)
	}

	if _, err := svc.ValidateToken(context.Background(), pair.AccessToken, TokenClassAccess); !errors.Is(err, ErrTokenRevoked) {
		t.Errorf("revoked token err = %v, want ErrTokenRevoked", err)
	}

	// The refresh token carries its own JTI and stays usable.
	if _, err := svc.ValidateToken(context.Background(), pair.RefreshToken, TokenClassRefresh); err != nil {
		t.Errorf("refresh token should survive access revocation, got %v", err)
	}
}

func TestRefreshAccessIssuesNewAccessToken(t *testing.T) {
	svc := testAuthService(t)
	pair, err := svc.IssueStudentTokens(testStudent())
	if err != nil {
		t.Fatalf("IssueStudentTokens: %v", err)
	}

	refreshClaims, err := svc.ValidateToken(context.Background(), pair.RefreshToken, TokenClassRefresh)
	if err != nil {
		t.Fatalf("ValidateToken(refresh): %v", err)
	}

	token, csrf, expiresAt, err := svc.RefreshAccess(refreshClaims)
	if err != nil {
		t.Fatalf("RefreshAccess: %v", err)
	}
	if expiresAt.Before(time.Now()) {
		t.Errorf("new access token already expired")
	}

	claims, err := svc.ValidateToken(context.Background(), token, TokenClassAccess)
	if err != nil {
		t.Fatalf("ValidateToken(new access): %v", err)
	}
	if claims.UserID != 42 || claims.Role != RoleStudent {
		t.Errorf("refreshed claims = %+v, want original identity", claims)
	}
	if claims.CSRF != csrf {
		t.Errorf("csrf claim does not match returned value")
	}

	// Access claims must not mint new access tokens.
	if _, _, _, err := svc.RefreshAccess(claims); !errors.Is(err, ErrWrongTokenClass) {
		t.Errorf("RefreshAccess(access claims) err = %v, want ErrWrongTokenClass", err)
	}
}

func TestValidateTokenRejectsForeignSignature(t *testing.T) {
	svc := testAuthService(t)
	other := testAuthService(t)
	other.cfg.JWTSecret = "different-secret"

	pair, err := other.IssueStudentTokens(testStudent())
	if err != nil {
		t.Fatalf("IssueStudentTokens: %v", err)
	}
	if _, err := svc.ValidateToken(context.Background(), pair.AccessToken, TokenClassAccess); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("foreign signature err = %v, want ErrTokenInvalid", err)
	}
}

func TestMemoryDenylistPurgesExpired(t *testing.T) {
	d := NewMemoryDenylist()
	ctx := context.Background()

	if err := d.Revoke(ctx, "live", time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("Revoke: %v", err)
	}
	if err := d.Revoke(ctx, "dead", time.Now().Add(-time.Minute)); err != nil {
		t.Fatalf("Revoke: %v", err)
	}

	if revoked, _ := d.IsRevoked(ctx, "live"); !revoked {
		t.Errorf("live JTI should be revoked")
	}
	if revoked, _ := d.IsRevoked(ctx, "dead"); revoked {
		t.Errorf("already-expired JTI should not be stored")
	}
}
