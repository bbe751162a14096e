package user

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"regexp"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	defaultPasswordMinLength = 8
	unusablePassword         = "!"
)

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_]{3,32}$`)

type Service struct {
	repo              Repository
	profiles          ProfileInitializer
	passwordMinLength int
	hashCost          int
	dummyOnce         sync.Once
	dummyHash         []byte
}

func NewService(repo Repository, profiles ProfileInitializer, passwordMinLength int) *Service {
	if passwordMinLength <= 0 {
		passwordMinLength = defaultPasswordMinLength
	}
	return &Service{
		repo:              repo,
		profiles:          profiles,
		passwordMinLength: passwordMinLength,
		hashCost:          bcrypt.DefaultCost,
	}
}

func (s *Service) Register(ctx context.Context, input RegisterInput) (*User, error) {
	username := strings.TrimSpace(input.Username)
	if !usernamePattern.MatchString(username) {
		return nil, ErrInvalidUsername
	}

	email := strings.TrimSpace(input.Email)
	if email != "" {
		addr, err := mail.ParseAddress(email)
		if err != nil || addr.Address != email {
			return nil, ErrInvalidEmail
		}
	}

	if len([]rune(input.Password)) < s.passwordMinLength {
		return nil, ErrPasswordTooShort
	}
	if input.Password != input.PasswordConfirm {
		return nil, ErrPasswordMismatch
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.hashCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
	}
	if err := s.repo.Create(ctx, &user); err != nil {
		return nil, err
	}

	if s.profiles != nil {
		if err := s.profiles.EnsureProfile(ctx, user.ID); err != nil {
			return nil, fmt.Errorf("create profile: %w", err)
		}
	}

	return &user, nil
}

// Authenticate returns ErrInvalidCredentials for an unknown username and for a wrong
// password alike.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			s.burnHash(password)
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrUserNotFound
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) GetByUsername(ctx context.Context, username string) (*User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, ErrUserNotFound
	}
	return s.repo.GetByUsername(ctx, username)
}

// EnsureUser creates a password-less account for an externally supplied identity
// (the development mock user) when it does not exist yet.
func (s *Service) EnsureUser(ctx context.Context, id, username string) error {
	if id == "" {
		return fmt.Errorf("user id is required")
	}

	user := User{
		ID:           id,
		Username:     username,
		PasswordHash: unusablePassword,
	}
	if err := s.repo.EnsureUser(ctx, &user); err != nil {
		return err
	}

	if s.profiles != nil {
		return s.profiles.EnsureProfile(ctx, id)
	}
	return nil
}

// burnHash spends the same bcrypt work as a real comparison so unknown usernames do
// not answer faster.
func (s *Service) burnHash(password string) {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = bcrypt.GenerateFromPassword([]byte("unused-password"), s.hashCost)
	})
	if s.dummyHash == nil {
		return
	}
	_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
}
