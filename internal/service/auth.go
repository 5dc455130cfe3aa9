package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/crucial707/notehub/internal/errs"
	"github.com/crucial707/notehub/internal/models"
	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// tokenClaims is the signed payload of a session token.
type tokenClaims struct {
	Username string `json:"username"`
	UserID   string `json:"id"`
	jwt.RegisteredClaims
}

type AuthOptions struct {
	Secret []byte
	// TokenTTL of zero issues tokens that never expire.
	TokenTTL   time.Duration
	BcryptCost int
}

// AuthService registers users, checks credentials and issues/verifies session tokens.
type AuthService struct {
	users    UserStore
	secret   []byte
	ttl      time.Duration
	cost     int
	validate *validator.Validate
	now      func() time.Time

	dummyOnce sync.Once
	dummyHash []byte
}

func NewAuthService(users UserStore, opts AuthOptions) *AuthService {
	cost := opts.BcryptCost
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &AuthService{
		users:    users,
		secret:   opts.Secret,
		ttl:      opts.TokenTTL,
		cost:     cost,
		validate: newValidator(),
		now:      time.Now,
	}
}

// Register validates the request, hashes the password and stores the user.
// The returned user never carries the hash out of the process (json:"-").
func (s *AuthService) Register(ctx context.Context, req models.RegisterRequest) (*models.User, error) {
	if err := validate(s.validate, req); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, &errs.ValidationError{Fields: map[string]string{"password": "max=72 bytes"}}
		}
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.users.Create(ctx, &models.User{
		ID:           uuid.New(),
		Name:         req.Name,
		Email:        req.Email,
		Username:     req.Username,
		PasswordHash: string(hash),
	})
	if err != nil {
		if errors.Is(err, errs.ErrConflict) {
			slog.InfoContext(ctx, "register: duplicate email or username", "username", req.Username)
		}
		return nil, err
	}

	slog.InfoContext(ctx, "user registered", "username", user.Username, "user_id", user.ID)
	return user, nil
}

// Login checks the credentials and returns a signed token with the user's
// display name and email. Unknown users and wrong passwords produce the same
// error and roughly the same bcrypt cost.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (models.LoginResponse, error) {
	if err := validate(s.validate, req); err != nil {
		return models.LoginResponse{}, err
	}

	user, err := s.users.GetByUsername(ctx, req.Username)
	if err != nil {
		if !errors.Is(err, errs.ErrNotFound) {
			return models.LoginResponse{}, err
		}
		_ = bcrypt.CompareHashAndPassword(s.dummy(), []byte(req.Password))
		slog.InfoContext(ctx, "login failed", "username", req.Username)
		return models.LoginResponse{}, errs.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		slog.InfoContext(ctx, "login failed", "username", req.Username)
		return models.LoginResponse{}, errs.ErrInvalidCredentials
	}

	token, err := s.IssueToken(user)
	if err != nil {
		return models.LoginResponse{}, err
	}
	return models.LoginResponse{Token: token, Name: user.Name, Email: user.Email}, nil
}

// IssueToken signs an HS256 token asserting {username, id}.
func (s *AuthService) IssueToken(user *models.User) (string, error) {
	now := s.now()
	claims := tokenClaims{
		Username: user.Username,
		UserID:   user.ID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	if s.ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(s.ttl))
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// VerifyToken checks an Authorization header value. A missing or malformed
// header is ErrUnauthenticated; a token that does not verify is ErrForbidden.
func (s *AuthService) VerifyToken(authHeader string) (models.Identity, error) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(authHeader), " ")
	token = strings.TrimSpace(token)
	if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return models.Identity{}, errs.ErrUnauthenticated
	}

	claims := &tokenClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil || !parsed.Valid {
		return models.Identity{}, fmt.Errorf("%w: %v", errs.ErrForbidden, err)
	}

	id, err := uuid.Parse(claims.UserID)
	if err != nil || claims.Username == "" {
		return models.Identity{}, fmt.Errorf("%w: token claims incomplete", errs.ErrForbidden)
	}
	return models.Identity{Username: claims.Username, ID: id}, nil
}

// dummy returns a hash compared against when the username is unknown.
func (s *AuthService) dummy() []byte {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = bcrypt.GenerateFromPassword([]byte("notehub-unknown-user"), s.cost)
	})
	return s.dummyHash
}
