package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.uber.org/mock/gomock"

	"aquashop.ca/storefront/api/pkg/auth"
	"aquashop.ca/storefront/api/pkg/global"
	"aquashop.ca/storefront/api/pkg/models"
	"aquashop.ca/storefront/api/pkg/service/mocks"
)

func newUserService(t *testing.T) (*UserService, *mocks.MockUserStore, *mocks.MockTokenRevoker) {
	ctrl := gomock.NewController(t)
	users := mocks.NewMockUserStore(ctrl)
	revoker := mocks.NewMockTokenRevoker(ctrl)
	return NewUserService(users, auth.NewTokenManager("test-secret", time.Hour), revoker), users, revoker
}

func storedUser(t *testing.T, password string) *models.User {
	t.Helper()
	hash, err := auth.HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	return &models.User{ID: bson.NewObjectID(), Email: "diver@example.com", Password: hash, Name: "Diver", Role: models.RoleCustomer}
}

func TestRegisterNormalizesEmail(t *testing.T) {
	s, users, _ := newUserService(t)
	users.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, u *models.User) error {
		if u.Email != "diver@example.com" || u.Password == "hunter2hunter2" || u.Role != models.RoleCustomer {
			t.Errorf("stored user = %+v", u)
		}
		return nil
	})

	resp, err := s.Register(context.Background(), models.RegisterRequest{Email: "  Diver@Example.COM ", Password: "hunter2hunter2", Name: "Diver"})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if resp.Token == "" || resp.User.Email != "diver@example.com" {
		t.Errorf("response = %+v", resp)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	s, users, _ := newUserService(t)
	users.EXPECT().Create(gomock.Any(), gomock.Any()).Return(global.ErrConflict)

	_, err := s.Register(context.Background(), models.RegisterRequest{Email: "diver@example.com", Password: "hunter2hunter2", Name: "Diver"})
	assertKind(t, err, global.ErrConflict)

	var appErr *global.AppError
	if !errors.As(err, &appErr) || appErr.Field != "email" || appErr.Code != "duplicate_email" {
		t.Errorf("error = %+v", err)
	}
}

func TestLogin(t *testing.T) {
	s, users, _ := newUserService(t)
	user := storedUser(t, "correct-horse")
	users.EXPECT().GetByEmail(gomock.Any(), "diver@example.com").Return(user, nil).Times(2)

	if _, err := s.Login(context.Background(), models.LoginRequest{Email: "DIVER@example.com", Password: "correct-horse"}); err != nil {
		t.Fatalf("Login: %v", err)
	}
	_, err := s.Login(context.Background(), models.LoginRequest{Email: "diver@example.com", Password: "wrong-horse"})
	assertKind(t, err, global.ErrUnauthorized)
}

func TestLoginUnknownEmail(t *testing.T) {
	s, users, _ := newUserService(t)
	users.EXPECT().GetByEmail(gomock.Any(), gomock.Any()).Return(nil, global.ErrNotFound)

	_, err := s.Login(context.Background(), models.LoginRequest{Email: "nobody@example.com", Password: "whatever1"})
	assertKind(t, err, global.ErrUnauthorized)
}

func TestAuthenticateRejectsRevokedToken(t *testing.T) {
	s, users, revoker := newUserService(t)
	user := storedUser(t, "correct-horse")
	users.EXPECT().GetByEmail(gomock.Any(), gomock.Any()).Return(user, nil)

	resp, err := s.Login(context.Background(), models.LoginRequest{Email: user.Email, Password: "correct-horse"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	revoker.EXPECT().IsRevoked(gomock.Any(), gomock.Any()).Return(false, nil)
	session, err := s.Authenticate(context.Background(), resp.Token)
	if err != nil || session.UserID != user.ID {
		t.Fatalf("Authenticate = %+v, %v", session, err)
	}

	revoker.EXPECT().IsRevoked(gomock.Any(), session.TokenID).Return(true, nil)
	_, err = s.Authenticate(context.Background(), resp.Token)
	assertKind(t, err, global.ErrUnauthorized)
}

func TestAuthenticateGarbageToken(t *testing.T) {
	s, _, _ := newUserService(t)
	_, err := s.Authenticate(context.Background(), "not.a.jwt")
	assertKind(t, err, global.ErrUnauthorized)
}

func TestLogoutRevokesForRemainingLifetime(t *testing.T) {
	s, _, revoker := newUserService(t)
	s.now = func() time.Time { return fixedNow }
	revoker.EXPECT().Revoke(gomock.Any(), "tok-customer", time.Hour).Return(nil)

	if err := s.Logout(customerCtx(bson.NewObjectID())); err != nil {
		t.Fatalf("Logout: %v", err)
	}
}

func TestChangePassword(t *testing.T) {
	s, users, _ := newUserService(t)
	user := storedUser(t, "old-password")
	ctx := customerCtx(user.ID)
	users.EXPECT().GetByID(gomock.Any(), user.ID).Return(user, nil).Times(3)
	users.EXPECT().UpdatePassword(gomock.Any(), user.ID, gomock.Any()).Return(nil)

	err := s.ChangePassword(ctx, models.ChangePasswordRequest{CurrentPassword: "bad-password", NewPassword: "new-password"})
	assertKind(t, err, global.ErrValidation)
	err = s.ChangePassword(ctx, models.ChangePasswordRequest{CurrentPassword: "old-password", NewPassword: "old-password"})
	assertKind(t, err, global.ErrValidation)
	if err := s.ChangePassword(ctx, models.ChangePasswordRequest{CurrentPassword: "old-password", NewPassword: "new-password"}); err != nil {
		t.Fatalf("ChangePassword: %v", err)
	}
}

func TestUpdateProfileRejectsEmptyBody(t *testing.T) {
	s, _, _ := newUserService(t)
	_, err := s.UpdateProfile(customerCtx(bson.NewObjectID()), models.UpdateProfileRequest{})
	assertKind(t, err, global.ErrValidation)
}
