package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/eyeway/uxlens/internal/application"
	domain "github.com/eyeway/uxlens/internal/domain/users"
)

// Service implements use-cases untuk account + token
type Service struct {
	Repo     domain.Repository
	Secret   []byte
	TokenTTL time.Duration
	Clock    application.Clock
}

// SignUpCommand input untuk registrasi
type SignUpCommand struct {
	Email    string
	Password string
	Name     string
	Age      int
}

// SignUp registers a new account in pending state. No token is issued here:
// the account cannot log in until an administrator approves it, so handing
// out a token at signup would only mislead the client.
func (s *Service) SignUp(ctx context.Context, cmd SignUpCommand) (*domain.User, error) {
	existing, err := s.Repo.FindByEmail(ctx, cmd.Email)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cmd.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := s.Clock.Now()
	u := &domain.User{
		ID:           uuid.New().String(),
		Email:        cmd.Email,
		Name:         cmd.Name,
		PasswordHash: string(hash),
		Age:          cmd.Age,
		Status:       domain.StatusPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.Repo.Save(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Login verifies credentials and the approval gate, then issues a token.
func (s *Service) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	u, err := s.Repo.FindByEmail(ctx, email)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, "", domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, "", domain.ErrInvalidCredentials
	}

	if u.Status != domain.StatusApproved {
		return nil, "", domain.ErrNotApproved
	}

	token, err := s.IssueToken(u)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

// EmailAvailable checks whether an email is still free to register.
func (s *Service) EmailAvailable(ctx context.Context, email string) (bool, error) {
	_, err := s.Repo.FindByEmail(ctx, email)
	if errors.Is(err, domain.ErrNotFound) {
		return true, nil
	}
	if err != nil {
		return false, err
	}
	return false, nil
}

// DeleteAccount removes the account itself.
func (s *Service) DeleteAccount(ctx context.Context, userID string) error {
	if _, err := s.Repo.FindByID(ctx, userID); err != nil {
		return err
	}
	return s.Repo.Delete(ctx, userID)
}

// IssueToken signs a bearer token for an authenticated user.
func (s *Service) IssueToken(u *domain.User) (string, error) {
	now := s.Clock.Now()
	claims := jwt.MapClaims{
		"sub":   u.ID,
		"email": u.Email,
		"iat":   now.Unix(),
		"exp":   now.Add(s.TokenTTL).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.Secret)
}

// VerifyToken parses a bearer token and returns the user id it carries.
func (s *Service) VerifyToken(token string) (string, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.Secret, nil
	})
	if err != nil {
		return "", err
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok || !parsed.Valid {
		return "", errors.New("invalid token")
	}
	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return "", errors.New("token has no subject")
	}
	return sub, nil
}
