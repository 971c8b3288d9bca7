package services

import (
	"context"
	"testing"
	"time"

	"team-chat/auth"
	"team-chat/domain"
	"team-chat/errors"
	"team-chat/mocks"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newTokenManager() *auth.TokenManager {
	return auth.NewTokenManager("test-secret-at-least-32-characters!", time.Hour, 7*24*time.Hour)
}

func TestUserService_Register(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockUsers := mocks.NewMockIUserRepository(ctrl)
	mockTeams := mocks.NewMockITeamRepository(ctrl)
	svc := NewUserService(mockUsers, mockTeams, newTokenManager())
	ctx := context.Background()

	t.Run("should register successfully when input is valid", func(t *testing.T) {
		req := require.New(t)

		mockUsers.EXPECT().
			CreateUser(ctx, gomock.Any()).
			DoAndReturn(func(_ context.Context, user domain.User) error {
				// The stored hash must never be the plain password.
				req.NotEqual("ComplexPass123!", user.PasswordHash)
				req.Equal("alice", user.Username)
				return nil
			}).
			Times(1)

		user, err := svc.Register(ctx, "alice", "alice@example.com", "ComplexPass123!")

		req.NoError(err)
		req.NotEqual(uuid.Nil, user.ID)
	})

	t.Run("should fail when password complexity is not met", func(t *testing.T) {
		req := require.New(t)

		// Repository should NEVER be called
		mockUsers.EXPECT().CreateUser(gomock.Any(), gomock.Any()).Times(0)

		_, err := svc.Register(ctx, "alice", "alice@example.com", "simple")

		var derr *errors.DomainError
		req.ErrorAs(err, &derr)
		req.Equal(errors.KindValidation, derr.Kind)
	})

	t.Run("should surface a duplicate email on the email path", func(t *testing.T) {
		req := require.New(t)

		mockUsers.EXPECT().
			CreateUser(ctx, gomock.Any()).
			Return(errors.ErrEmailTaken).
			Times(1)

		_, err := svc.Register(ctx, "bob", "duplicate@example.com", "ComplexPass123!")

		var derr *errors.DomainError
		req.ErrorAs(err, &derr)
		req.Equal(errors.KindValidation, derr.Kind)
		req.Equal("email", derr.Path)
		req.ErrorIs(err, errors.ErrEmailTaken)
	})
}

func TestUserService_Login(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockUsers := mocks.NewMockIUserRepository(ctrl)
	mockTeams := mocks.NewMockITeamRepository(ctrl)
	tokens := newTokenManager()
	svc := NewUserService(mockUsers, mockTeams, tokens)
	ctx := context.Background()

	t.Run("should login successfully with correct credentials", func(t *testing.T) {
		req := require.New(t)
		password := "Secret123456!"
		hashedPassword, _ := auth.HashPassword(password)
		stored := domain.User{
			ID:           uuid.New(),
			Username:     "alice",
			Email:        "user@example.com",
			PasswordHash: hashedPassword,
		}

		mockUsers.EXPECT().GetUserByEmail(ctx, stored.Email).Return(stored, nil).Times(1)
		mockUsers.EXPECT().TouchActivity(ctx, stored.ID).Return(nil).Times(1)

		pair, err := svc.Login(ctx, stored.Email, password)

		req.NoError(err)
		req.NotEmpty(pair.Token)
		req.NotEmpty(pair.RefreshToken)

		claims, err := tokens.Validate(pair.Token, auth.AccessToken)
		req.NoError(err)
		req.Equal(stored.ID.String(), claims.UserID)
	})

	t.Run("should return identical errors for wrong password and unknown email", func(t *testing.T) {
		req := require.New(t)
		hashedPassword, _ := auth.HashPassword("CorrectPassword123!")
		stored := domain.User{
			ID:           uuid.New(),
			Email:        "user@example.com",
			PasswordHash: hashedPassword,
		}

		mockUsers.EXPECT().GetUserByEmail(ctx, stored.Email).Return(stored, nil).Times(1)
		_, wrongPassword := svc.Login(ctx, stored.Email, "WrongPassword123!")

		mockUsers.EXPECT().
			GetUserByEmail(ctx, "unknown@example.com").
			Return(domain.User{}, errors.ErrUserNotFound).
			Times(1)
		_, unknownEmail := svc.Login(ctx, "unknown@example.com", "AnyPassword123!")

		// Enumeration resistance: the two failures are indistinguishable.
		req.Error(wrongPassword)
		req.Error(unknownEmail)
		req.Equal(wrongPassword.Error(), unknownEmail.Error())
		req.ErrorIs(wrongPassword, errors.ErrInvalidCredentials)
		req.ErrorIs(unknownEmail, errors.ErrInvalidCredentials)
	})
}

func TestUserService_UpdateUser(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockUsers := mocks.NewMockIUserRepository(ctrl)
	mockTeams := mocks.NewMockITeamRepository(ctrl)
	svc := NewUserService(mockUsers, mockTeams, newTokenManager())
	ctx := context.Background()

	callerID := uuid.New()
	stored := domain.User{ID: callerID, Username: "alice", Email: "alice@example.com"}

	t.Run("should update the username", func(t *testing.T) {
		req := require.New(t)

		mockUsers.EXPECT().GetUserByID(ctx, callerID).Return(stored, nil).Times(1)
		mockUsers.EXPECT().
			UpdateUser(ctx, gomock.Any()).
			DoAndReturn(func(_ context.Context, user domain.User) error {
				req.Equal("alice2", user.Username)
				return nil
			}).
			Times(1)

		updated, err := svc.UpdateUser(ctx, callerID, domain.UserFieldUsername, "alice2")

		req.NoError(err)
		req.Equal("alice2", updated.Username)
	})

	t.Run("should reject an unknown field", func(t *testing.T) {
		req := require.New(t)

		mockUsers.EXPECT().GetUserByID(ctx, callerID).Return(stored, nil).Times(1)
		mockUsers.EXPECT().UpdateUser(gomock.Any(), gomock.Any()).Times(0)

		_, err := svc.UpdateUser(ctx, callerID, domain.UserField("password"), "whatever")

		var derr *errors.DomainError
		req.ErrorAs(err, &derr)
		req.Equal(errors.KindValidation, derr.Kind)
		req.Equal("option", derr.Path)
	})

	t.Run("should reject a malformed email value", func(t *testing.T) {
		req := require.New(t)

		mockUsers.EXPECT().GetUserByID(ctx, callerID).Return(stored, nil).Times(1)
		mockUsers.EXPECT().UpdateUser(gomock.Any(), gomock.Any()).Times(0)

		_, err := svc.UpdateUser(ctx, callerID, domain.UserFieldEmail, "not-an-email")

		var derr *errors.DomainError
		req.ErrorAs(err, &derr)
		req.Equal("email", derr.Path)
	})
}

func TestUserService_DeleteUser(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockUsers := mocks.NewMockIUserRepository(ctrl)
	mockTeams := mocks.NewMockITeamRepository(ctrl)
	svc := NewUserService(mockUsers, mockTeams, newTokenManager())
	ctx := context.Background()

	callerID := uuid.New()

	t.Run("should refuse deletion while the caller owns a team", func(t *testing.T) {
		req := require.New(t)

		owned := []domain.Team{{ID: uuid.New(), Name: "engineering", AdminID: callerID}}
		mockTeams.EXPECT().ListTeamsFor(ctx, callerID).Return(owned, nil).Times(1)
		mockUsers.EXPECT().DeleteUser(gomock.Any(), gomock.Any()).Times(0)

		err := svc.DeleteUser(ctx, callerID)

		var derr *errors.DomainError
		req.ErrorAs(err, &derr)
		req.Equal(errors.KindConflict, derr.Kind)
		req.ErrorIs(err, errors.ErrOwnsTeams)
	})

	t.Run("should cascade memberships and delete the account", func(t *testing.T) {
		req := require.New(t)

		joined := []domain.Team{{ID: uuid.New(), Name: "engineering", AdminID: uuid.New()}}
		mockTeams.EXPECT().ListTeamsFor(ctx, callerID).Return(joined, nil).Times(1)
		mockTeams.EXPECT().DeleteUserMemberships(ctx, callerID).Return(nil).Times(1)
		mockUsers.EXPECT().DeleteUser(ctx, callerID).Return(nil).Times(1)

		req.NoError(svc.DeleteUser(ctx, callerID))
	})
}

func TestUserService_SearchUsers(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockUsers := mocks.NewMockIUserRepository(ctrl)
	mockTeams := mocks.NewMockITeamRepository(ctrl)
	svc := NewUserService(mockUsers, mockTeams, newTokenManager())
	ctx := context.Background()

	t.Run("should reject an empty query", func(t *testing.T) {
		req := require.New(t)

		mockUsers.EXPECT().SearchUsers(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

		_, err := svc.SearchUsers(ctx, "")

		var derr *errors.DomainError
		req.ErrorAs(err, &derr)
		req.Equal(errors.KindValidation, derr.Kind)
	})

	t.Run("should pass the query through with the search limit", func(t *testing.T) {
		req := require.New(t)
		found := []domain.User{{ID: uuid.New(), Username: "alice"}}

		mockUsers.EXPECT().SearchUsers(ctx, "ali", searchLimit).Return(found, nil).Times(1)

		users, err := svc.SearchUsers(ctx, "ali")
		req.NoError(err)
		req.Equal(found, users)
	})
}
