package service

import (
	"context"
	"errors"
	"strings"

	"github.com/gokulprasathd90/event-ticketing/internal/model"
	"github.com/gokulprasathd90/event-ticketing/internal/repository"
	apperrors "github.com/gokulprasathd90/event-ticketing/pkg/app_errors"
	"github.com/gokulprasathd90/event-ticketing/pkg/auth"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type RegisterParams struct {
	Name     string
	Email    string
	Password string
	Role     model.Role
	Phone    *string
}

type AuthService interface {
	Register(ctx context.Context, params RegisterParams) (*model.User, string, error)
	// Login rejects unknown emails and wrong passwords outright. It never
	// creates accounts or changes the stored role.
	Login(ctx context.Context, email, password string) (*model.User, string, error)
	Profile(ctx context.Context, userID uuid.UUID) (*model.User, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, params model.UpdateUserParams) (*model.User, error)
	ChangePassword(ctx context.Context, userID uuid.UUID, current, next string) error
}

type AuthServiceImpl struct {
	users  repository.UserRepository
	tokens *auth.TokenManager
}

func NewAuthService(users repository.UserRepository, tokens *auth.TokenManager) AuthService {
	return &AuthServiceImpl{users: users, tokens: tokens}
}

func (s *AuthServiceImpl) Register(ctx context.Context, params RegisterParams) (*model.User, string, error) {
	if !params.Role.IsValid() {
		return nil, "", apperrors.ErrInvalidInput
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(params.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}

	user := &model.User{
		Name:         strings.TrimSpace(params.Name),
		Email:        normalizeEmail(params.Email),
		PasswordHash: string(hash),
		Role:         params.Role,
		Phone:        params.Phone,
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		return nil, "", err
	}

	token, err := s.tokens.Issue(created.ID, string(created.Role))
	if err != nil {
		return nil, "", err
	}
	return created, token, nil
}

func (s *AuthServiceImpl) Login(ctx context.Context, email, password string) (*model.User, string, error) {
	user, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, "", apperrors.ErrInvalidCredentials
		}
		return nil, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", apperrors.ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, "", apperrors.ErrAccountDisabled
	}

	token, err := s.tokens.Issue(user.ID, string(user.Role))
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (s *AuthServiceImpl) Profile(ctx context.Context, userID uuid.UUID) (*model.User, error) {
	return s.users.FindByID(ctx, userID)
}

func (s *AuthServiceImpl) UpdateProfile(ctx context.Context, userID uuid.UUID, params model.UpdateUserParams) (*model.User, error) {
	return s.users.Update(ctx, userID, params)
}

// ChangePassword re-verifies the current password before storing the new
// hash. Existing tokens stay valid until they expire.
func (s *AuthServiceImpl) ChangePassword(ctx context.Context, userID uuid.UUID, current, next string) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(current)); err != nil {
		return apperrors.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	return s.users.UpdatePassword(ctx, userID, string(hash))
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
