package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mycareerchoices/compass-backend/internal/config"
	"github.com/mycareerchoices/compass-backend/internal/model"
	"github.com/mycareerchoices/compass-backend/internal/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testAuth() *service.AuthService {
	return service.NewAuthService(&config.Config{
		JWTSecret:     "test-secret",
		AccessExpiry:  time.Hour,
		RefreshExpiry: 24 * time.Hour,
		BcryptCost:    4,
	}, service.NewMemoryDenylist())
}

// newContext builds a test context with claims already attached, as the
// access token middleware would leave it.
func newContext(t *testing.T, claims *service.Claims) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	if claims != nil {
		c.Set(ContextKeyClaims, claims)
	}
	return c, w
}

func studentClaims(id int) *service.Claims {
	return &service.Claims{
		Role:       service.RoleStudent,
		TokenClass: service.TokenClassAccess,
		CSRF:       "csrf-value",
		UserID:     id,
	}
}

func adminClaims(id int) *service.Claims {
	return &service.Claims{
		Role:       service.RoleAdmin,
		TokenClass: service.TokenClassAccess,
		CSRF:       "csrf-value",
		UserID:     id,
	}
}

func TestRequireCSRF(t *testing.T) {
	c, w := newContext(t, studentClaims(1))
	c.Request.Header.Set(HeaderCSRF, "csrf-value")
	RequireCSRF()(c)
	if c.IsAborted() {
		t.Errorf("matching CSRF header should pass, got status %d", w.Code)
	}

	c, w = newContext(t, studentClaims(1))
	c.Request.Header.Set(HeaderCSRF, "wrong-value")
	RequireCSRF()(c)
	if !c.IsAborted() || w.Code != http.StatusForbidden {
		t.Errorf("mismatched CSRF header: aborted=%v status=%d, want 403", c.IsAborted(), w.Code)
	}

	c, w = newContext(t, studentClaims(1))
	RequireCSRF()(c)
	if !c.IsAborted() || w.Code != http.StatusForbidden {
		t.Errorf("missing CSRF header: aborted=%v status=%d, want 403", c.IsAborted(), w.Code)
	}
}

func TestRequireAdminOrOwner(t *testing.T) {
	cases := []struct {
		name       string
		claims     *service.Claims
		param      string
		wantAbort  bool
		wantStatus int
	}{
		{"admin any student", adminClaims(1), "42", false, http.StatusOK},
		{"student own id", studentClaims(42), "42", false, http.StatusOK},
		{"student other id", studentClaims(42), "43", true, http.StatusForbidden},
		{"student bad id", studentClaims(42), "abc", true, http.StatusBadRequest},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, w := newContext(t, tc.claims)
			c.Params = gin.Params{{Key: "student_id", Value: tc.param}}
			RequireAdminOrOwner("student_id")(c)
			if c.IsAborted() != tc.wantAbort {
				t.Fatalf("aborted = %v, want %v", c.IsAborted(), tc.wantAbort)
			}
			if tc.wantAbort && w.Code != tc.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tc.wantStatus)
			}
		})
	}
}

func TestRoleGuards(t *testing.T) {
	c, w := newContext(t, adminClaims(1))
	RequireStudent()(c)
	if !c.IsAborted() || w.Code != http.StatusForbidden {
		t.Errorf("admin on student route: aborted=%v status=%d, want 403", c.IsAborted(), w.Code)
	}

	c, w = newContext(t, studentClaims(1))
	RequireAdmin()(c)
	if !c.IsAborted() || w.Code != http.StatusForbidden {
		t.Errorf("student on admin route: aborted=%v status=%d, want 403", c.IsAborted(), w.Code)
	}

	c, _ = newContext(t, studentClaims(1))
	RequireStudent()(c)
	if c.IsAborted() {
		t.Errorf("student on student route should pass")
	}
}

func TestRequireAccessTokenFromCookieAndBearer(t *testing.T) {
	auth := testAuth()
	pair, err := auth.IssueStudentTokens(&model.Student{ID: 9, Email: "a@b.c", FirstName: "Ana"})
	if err != nil {
		t.Fatalf("IssueStudentTokens: %v", err)
	}

	c, _ := newContext(t, nil)
	c.Request.AddCookie(&http.Cookie{Name: CookieAccessToken, Value: pair.AccessToken})
	RequireAccessToken(auth)(c)
	if c.IsAborted() {
		t.Fatalf("valid cookie token should pass")
	}
	if claims := GetClaims(c); claims == nil || claims.UserID != 9 {
		t.Errorf("claims = %+v, want user 9", claims)
	}

	c, _ = newContext(t, nil)
	c.Request.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	RequireAccessToken(auth)(c)
	if c.IsAborted() {
		t.Errorf("valid bearer token should pass")
	}

	// A refresh token is not good enough for an access route.
	c, w := newContext(t, nil)
	c.Request.AddCookie(&http.Cookie{Name: CookieAccessToken, Value: pair.RefreshToken})
	RequireAccessToken(auth)(c)
	if !c.IsAborted() || w.Code != http.StatusUnauthorized {
		t.Errorf("refresh token on access route: aborted=%v status=%d, want 401", c.IsAborted(), w.Code)
	}

	c, w = newContext(t, nil)
	RequireAccessToken(auth)(c)
	if !c.IsAborted() || w.Code != http.StatusUnauthorized {
		t.Errorf("missing token: aborted=%v status=%d, want 401", c.IsAborted(), w.Code)
	}
}
