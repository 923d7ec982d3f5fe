package service

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"aquashop.ca/storefront/api/pkg/auth"
	"aquashop.ca/storefront/api/pkg/global"
	"aquashop.ca/storefront/api/pkg/models"
)

type UserService struct {
	users   UserStore
	tokens  *auth.TokenManager
	revoked TokenRevoker
	now     func() time.Time
}

func NewUserService(users UserStore, tokens *auth.TokenManager, revoked TokenRevoker) *UserService {
	return &UserService{users: users, tokens: tokens, revoked: revoked, now: time.Now}
}

func (s *UserService) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error) {
	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		ID:       bson.NewObjectID(),
		Email:    models.NormalizeEmail(req.Email),
		Password: hashed,
		Name:     req.Name,
		Phone:    req.Phone,
		Address:  req.Address,
		Role:     models.RoleCustomer,
	}
	user.SetTimestamps()

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, global.ErrConflict) {
			return nil, &global.AppError{
				Kind:    global.ErrConflict,
				Message: "Email already registered",
				Field:   "email",
				Code:    "duplicate_email",
			}
		}
		return nil, err
	}
	return s.issue(user)
}

func (s *UserService) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	user, err := s.users.GetByEmail(ctx, models.NormalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, global.ErrNotFound) {
			return nil, global.NewUnauthorizedError("Invalid email or password")
		}
		return nil, err
	}
	if !auth.CheckPassword(user.Password, req.Password) {
		return nil, global.NewUnauthorizedError("Invalid email or password")
	}
	return s.issue(user)
}

// Logout revokes the caller's token for the rest of its lifetime.
func (s *UserService) Logout(ctx context.Context) error {
	session, err := auth.RequireSession(ctx)
	if err != nil {
		return err
	}
	ttl := session.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return nil
	}
	return s.revoked.Revoke(ctx, session.TokenID, ttl)
}

// Authenticate resolves a bearer token to a session, rejecting revoked tokens.
func (s *UserService) Authenticate(ctx context.Context, token string) (*auth.Session, error) {
	session, err := s.tokens.Parse(token)
	if err != nil {
		return nil, global.NewUnauthorizedError("Invalid or expired token")
	}
	revoked, err := s.revoked.IsRevoked(ctx, session.TokenID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, global.NewUnauthorizedError("Token has been revoked")
	}
	return session, nil
}

func (s *UserService) Profile(ctx context.Context) (*models.User, error) {
	session, err := auth.RequireSession(ctx)
	if err != nil {
		return nil, err
	}
	user, err := s.users.GetByID(ctx, session.UserID)
	if err != nil {
		return nil, notFound(err, "id", "User not found")
	}
	return user, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, req models.UpdateProfileRequest) (*models.User, error) {
	session, err := auth.RequireSession(ctx)
	if err != nil {
		return nil, err
	}
	if req.IsEmpty() {
		return nil, global.NewValidationError("body", "Request body must contain at least one field to update")
	}
	user, err := s.users.UpdateProfile(ctx, session.UserID, req)
	if err != nil {
		return nil, notFound(err, "id", "User not found")
	}
	return user, nil
}

func (s *UserService) ChangePassword(ctx context.Context, req models.ChangePasswordRequest) error {
	session, err := auth.RequireSession(ctx)
	if err != nil {
		return err
	}
	user, err := s.users.GetByID(ctx, session.UserID)
	if err != nil {
		return notFound(err, "id", "User not found")
	}
	if !auth.CheckPassword(user.Password, req.CurrentPassword) {
		return global.NewValidationError("current_password", "Current password is incorrect")
	}
	if req.CurrentPassword == req.NewPassword {
		return global.NewValidationError("new_password", "New password must differ from the current one")
	}

	hashed, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		return err
	}
	return notFound(s.users.UpdatePassword(ctx, user.ID, hashed), "id", "User not found")
}

func (s *UserService) issue(user *models.User) (*models.AuthResponse, error) {
	token, expiresAt, err := s.tokens.Issue(user)
	if err != nil {
		return nil, err
	}
	return &models.AuthResponse{User: user, Token: token, ExpiresAt: expiresAt}, nil
}
