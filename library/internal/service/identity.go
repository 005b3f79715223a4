package service

import (
	"context"

	"github.com/Astemirdum/library-rental/library/internal/errs"
	"github.com/Astemirdum/library-rental/library/internal/model"
	"github.com/Astemirdum/library-rental/pkg/auth"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func (s *Service) newUser(name, email, password, role string) (model.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return model.User{}, errors.Wrap(err, "hash password")
	}
	now := s.now()
	return model.User{
		ID:             uuid.NewString(),
		Name:           name,
		Email:          email,
		PasswordHash:   string(hash),
		Role:           role,
		MembershipDate: now,
		IsActive:       true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

func (s *Service) authResponse(user model.User) (model.AuthResponse, error) {
	token, expiresAt, err := s.tokens.Issue(user.ID, user.Role)
	if err != nil {
		return model.AuthResponse{}, errors.Wrap(err, "issue token")
	}
	return model.AuthResponse{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

func (s *Service) Register(ctx context.Context, req model.RegisterRequest) (model.AuthResponse, error) {
	user, err := s.newUser(req.Name, req.Email, req.Password, auth.RoleUser)
	if err != nil {
		return model.AuthResponse{}, err
	}
	created, err := s.repo.CreateUser(ctx, user)
	if err != nil {
		return model.AuthResponse{}, err
	}
	return s.authResponse(created)
}

func (s *Service) Login(ctx context.Context, req model.LoginRequest) (model.AuthResponse, error) {
	user, err := s.repo.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, errs.ErrUserNotFound) {
			return model.AuthResponse{}, errs.ErrInvalidCredentials
		}
		return model.AuthResponse{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return model.AuthResponse{}, errs.ErrInvalidCredentials
	}
	if !user.IsActive {
		return model.AuthResponse{}, errs.ErrInactiveUser
	}
	return s.authResponse(user)
}

func (s *Service) Me(ctx context.Context, userID string) (model.User, error) {
	return s.repo.GetUser(ctx, userID)
}

func (s *Service) ListUsers(ctx context.Context) ([]model.User, error) {
	return s.repo.ListUsers(ctx)
}

func (s *Service) UpdateUser(ctx context.Context, id string, patch model.UserPatch) (model.User, error) {
	if patch.Role == nil && patch.IsActive == nil {
		return model.User{}, errs.ErrEmptyPatch
	}
	return s.repo.UpdateUser(ctx, id, patch, s.now())
}

// EnsureAdmin makes sure an administrator with the given email exists,
// promoting an existing account when needed.
func (s *Service) EnsureAdmin(ctx context.Context, name, email, password string) error {
	existing, err := s.repo.GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		if existing.Role == auth.RoleAdmin {
			return nil
		}
		role := auth.RoleAdmin
		_, err = s.repo.UpdateUser(ctx, existing.ID, model.UserPatch{Role: &role}, s.now())
		return err
	case !errors.Is(err, errs.ErrUserNotFound):
		return err
	}

	admin, err := s.newUser(name, email, password, auth.RoleAdmin)
	if err != nil {
		return err
	}
	if _, err := s.repo.CreateUser(ctx, admin); err != nil && !errors.Is(err, errs.ErrEmailTaken) {
		return err
	}
	s.log.Info("admin account created", zap.String("email", email))
	return nil
}
