package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/mycareerchoices/compass-backend/internal/config"
	"github.com/mycareerchoices/compass-backend/internal/model"
	"golang.org/x/crypto/bcrypt"
)

// Common auth errors.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenInvalid       = errors.New("token invalid")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenRevoked       = errors.New("token revoked")
	ErrWrongTokenClass    = errors.New("wrong token class")
)

// Role distinguishes student vs admin tokens.
type Role string

const (
	RoleStudent Role = "student"
	RoleAdmin   Role = "admin"
)

// TokenClass distinguishes short-lived access tokens from long-lived
// refresh tokens. Each class is only accepted where it belongs.
type TokenClass string

const (
	TokenClassAccess  TokenClass = "access"
	TokenClassRefresh TokenClass = "refresh"
)

// Claims extends JWT standard claims with app-specific fields.
type Claims struct {
	jwt.RegisteredClaims
	Role       Role       `json:"role"`
	TokenClass TokenClass `json:"token_class"`
	CSRF       string     `json:"csrf"`
	UserID     int        `json:"user_id"`
	Email      string     `json:"email,omitempty"`      // Student only
	FirstName  string     `json:"first_name,omitempty"` // Student only
}

// TokenPair is one issued access/refresh token set. The CSRF values are
// surfaced separately so handlers can place them in readable cookies while
// the tokens themselves stay HTTP-only.
type TokenPair struct {
	AccessToken      string
	RefreshToken     string
	AccessCSRF       string
	RefreshCSRF      string
	AccessExpiresAt  time.Time
	RefreshExpiresAt time.Time
}

// AuthService handles authentication, JWT issuance, and revocation.
type AuthService struct {
	cfg      *config.Config
	denylist TokenDenylist
	now      func() time.Time
}

// NewAuthService creates a new AuthService.
func NewAuthService(cfg *config.Config, denylist TokenDenylist) *AuthService {
	return &AuthService{cfg: cfg, denylist: denylist, now: time.Now}
}

// HashPassword hashes a password with the configured bcrypt cost.
func (s *AuthService) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cfg.BcryptCost)
	return string(hash), err
}

// CheckPassword compares a plaintext password against a bcrypt hash.
func (s *AuthService) CheckPassword(hash, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}

// IssueStudentTokens creates an access/refresh pair for a student.
func (s *AuthService) IssueStudentTokens(student *model.Student) (*TokenPair, error) {
	return s.issuePair(RoleStudent, student.ID, student.Email, student.FirstName)
}

// IssueAdminTokens creates an access/refresh pair for an admin.
func (s *AuthService) IssueAdminTokens(admin *model.Admin) (*TokenPair, error) {
	return s.issuePair(RoleAdmin, admin.ID, "", "")
}

func (s *AuthService) issuePair(role Role, userID int, email, firstName string) (*TokenPair, error) {
	now := s.now()
	pair := &TokenPair{
		AccessCSRF:       uuid.New().String(),
		RefreshCSRF:      uuid.New().String(),
		AccessExpiresAt:  now.Add(s.cfg.AccessExpiry),
		RefreshExpiresAt: now.Add(s.cfg.RefreshExpiry),
	}

	var err error
	pair.AccessToken, err = s.sign(role, TokenClassAccess, userID, email, firstName, pair.AccessCSRF, now, pair.AccessExpiresAt)
	if err != nil {
		return nil, err
	}
	pair.RefreshToken, err = s.sign(role, TokenClassRefresh, userID, email, firstName, pair.RefreshCSRF, now, pair.RefreshExpiresAt)
	if err != nil {
		return nil, err
	}
	return pair, nil
}

// RefreshAccess issues a fresh access token from validated refresh claims.
// The refresh token itself is never reissued here; its lifetime bounds the
// whole session.
func (s *AuthService) RefreshAccess(claims *Claims) (token, csrf string, expiresAt time.Time, err error) {
	if claims.TokenClass != TokenClassRefresh {
		return "", "", time.Time{}, ErrWrongTokenClass
	}
	now := s.now()
	csrf = uuid.New().String()
	expiresAt = now.Add(s.cfg.AccessExpiry)
	token, err = s.sign(claims.Role, TokenClassAccess, claims.UserID, claims.Email, claims.FirstName, csrf, now, expiresAt)
	return token, csrf, expiresAt, err
}

func (s *AuthService) sign(role Role, class TokenClass, userID int, email, firstName, csrf string, now, expiresAt time.Time) (string, error) {
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   strconv.Itoa(userID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		Role:       role,
		TokenClass: class,
		CSRF:       csrf,
		UserID:     userID,
		Email:      email,
		FirstName:  firstName,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken parses a JWT, checks its signature, expiry, class, and
// revocation state, and returns the claims. Errors are the sentinel values
// above so callers can map each failure to a distinct response code.
func (s *AuthService) ValidateToken(ctx context.Context, tokenStr string, wantClass TokenClass) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrTokenInvalid
	}
	if claims.TokenClass != wantClass {
		return nil, ErrWrongTokenClass
	}

	revoked, err := s.denylist.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("check revocation: %w", err)
	}
	if revoked {
		return nil, ErrTokenRevoked
	}
	return claims, nil
}

// Revoke denylists a token until its natural expiry.
func (s *AuthService) Revoke(ctx context.Context, claims *Claims) error {
	return s.denylist.Revoke(ctx, claims.ID, claims.ExpiresAt.Time)
}
