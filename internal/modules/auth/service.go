package auth

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"homeclean/internal/domain"
	"homeclean/internal/repository"
)

type jwtService interface {
	GenerateToken(user *domain.User) (string, error)
}

// Service contains all business logic for registration and login.
type Service struct {
	users UserRepository
	jwt   jwtService
}

type SessionResult struct {
	User  *domain.User
	Token string
}

func NewService(users UserRepository, jwt jwtService) *Service {
	return &Service{
		users: users,
		jwt:   jwt,
	}
}

// Register creates a client account and starts a session. New accounts are
// always clients; staff roles are provisioned out of band.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*SessionResult, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailAlreadyExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	lang := domain.LangEnglish
	if req.PreferredLanguage == string(domain.LangSpanish) {
		lang = domain.LangSpanish
	}

	user := &domain.User{
		Email:             email,
		PasswordHash:      string(hash),
		Name:              strings.TrimSpace(req.Name),
		Phone:             strings.TrimSpace(req.Phone),
		Role:              domain.RoleClient,
		PreferredLanguage: lang,
	}

	if err := s.users.Create(ctx, user); err != nil {
		// Races with a concurrent registration surface as the constraint error.
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrEmailAlreadyExists
		}
		return nil, err
	}

	token, err := s.jwt.GenerateToken(user)
	if err != nil {
		return nil, err
	}

	user.PasswordHash = ""
	return &SessionResult{User: user, Token: token}, nil
}

// Login verifies credentials and starts a session. Unknown email and wrong
// password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*SessionResult, error) {
	user, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.jwt.GenerateToken(user)
	if err != nil {
		return nil, err
	}

	user.PasswordHash = ""
	return &SessionResult{User: user, Token: token}, nil
}
