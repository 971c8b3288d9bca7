package services

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"team-chat/auth"
	"team-chat/domain"
	"team-chat/errors"
	"team-chat/repositories"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

const searchLimit = 20

type IUserService interface {
	Register(ctx context.Context, username, email, password string) (domain.User, error)
	Login(ctx context.Context, email, password string) (auth.TokenPair, error)
	UpdateUser(ctx context.Context, callerID uuid.UUID, field domain.UserField, value string) (domain.User, error)
	DeleteUser(ctx context.Context, callerID uuid.UUID) error
	GetUser(ctx context.Context, id uuid.UUID) (domain.User, error)
	SearchUsers(ctx context.Context, query string) ([]domain.User, error)
}

type UserService struct {
	users  repositories.IUserRepository
	teams  repositories.ITeamRepository
	tokens *auth.TokenManager
}

var fieldValidate = validator.New()

func NewUserService(users repositories.IUserRepository, teams repositories.ITeamRepository,
	tokens *auth.TokenManager) IUserService {
	return &UserService{users: users, teams: teams, tokens: tokens}
}

// Register validates, hashes and persists a new account. Validation runs
// before any expensive cryptographic work.
func (s *UserService) Register(ctx context.Context, username, email, password string) (domain.User, error) {
	valReq := auth.RegisterRequest{
		Username: username,
		Email:    email,
		Password: password,
	}
	if err := auth.ValidateRegister(valReq); err != nil {
		path := auth.FieldOf(err)
		if path == "" {
			path = "password"
		}
		return domain.User{}, errors.Validation(path, validationMessage(path)).Wrap(err)
	}

	hashedPassword, err := auth.HashPassword(password)
	if err != nil {
		return domain.User{}, fmt.Errorf("hashing failed: %w", err)
	}

	user := domain.User{
		ID:           uuid.New(),
		Username:     username,
		Email:        email,
		PasswordHash: hashedPassword,
		CreatedAt:    time.Now().UTC(),
	}

	err = s.users.CreateUser(ctx, user)
	switch {
	case stderrors.Is(err, errors.ErrEmailTaken):
		return domain.User{}, errors.Validation("email", "email already taken").Wrap(err)
	case stderrors.Is(err, errors.ErrUsernameTaken):
		return domain.User{}, errors.Validation("username", "username already taken").Wrap(err)
	case err != nil:
		return domain.User{}, err
	}

	return user, nil
}

// Login issues an access/refresh pair. A wrong password and an unknown
// email return the exact same error, so the endpoint cannot be used to
// enumerate accounts.
func (s *UserService) Login(ctx context.Context, email, password string) (auth.TokenPair, error) {
	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		return auth.TokenPair{}, credentialsError()
	}

	match, err := auth.ComparePassword(password, user.PasswordHash)
	if err != nil || !match {
		return auth.TokenPair{}, credentialsError()
	}

	pair, err := s.tokens.GeneratePair(user.ID)
	if err != nil {
		return auth.TokenPair{}, fmt.Errorf("%w: %v", errors.ErrTokenGeneration, err)
	}

	// Login counts as session activity for the derived online flag.
	if err := s.users.TouchActivity(ctx, user.ID); err != nil {
		return auth.TokenPair{}, err
	}

	return pair, nil
}

// UpdateUser mutates one field out of the closed updatable set. Unknown
// fields are a validation failure, never a silent no-op.
func (s *UserService) UpdateUser(ctx context.Context, callerID uuid.UUID, field domain.UserField, value string) (domain.User, error) {
	user, err := s.users.GetUserByID(ctx, callerID)
	if err != nil {
		return domain.User{}, err
	}

	switch field {
	case domain.UserFieldUsername:
		if err := fieldValidate.Var(value, "required,min=3,max=30,alphanum"); err != nil {
			return domain.User{}, errors.Validation("username", validationMessage("username")).Wrap(err)
		}
		user.Username = value
	case domain.UserFieldEmail:
		if err := fieldValidate.Var(value, "required,email"); err != nil {
			return domain.User{}, errors.Validation("email", validationMessage("email")).Wrap(err)
		}
		user.Email = value
	default:
		return domain.User{}, errors.Validation("option", fmt.Sprintf("unknown field %q", field))
	}

	err = s.users.UpdateUser(ctx, user)
	switch {
	case stderrors.Is(err, errors.ErrEmailTaken):
		return domain.User{}, errors.Validation("email", "email already taken").Wrap(err)
	case stderrors.Is(err, errors.ErrUsernameTaken):
		return domain.User{}, errors.Validation("username", "username already taken").Wrap(err)
	case err != nil:
		return domain.User{}, err
	}

	return user, nil
}

// DeleteUser removes the caller's own account. Deletion is refused while
// the caller still owns teams: ownership must move or the teams must go
// first. Membership rows and DM links cascade away.
func (s *UserService) DeleteUser(ctx context.Context, callerID uuid.UUID) error {
	teams, err := s.teams.ListTeamsFor(ctx, callerID)
	if err != nil {
		return err
	}
	for _, team := range teams {
		if team.AdminID == callerID {
			return errors.Conflict("user",
				fmt.Sprintf("cannot delete account while owning team %q", team.Name)).
				Wrap(errors.ErrOwnsTeams)
		}
	}

	if err := s.teams.DeleteUserMemberships(ctx, callerID); err != nil {
		return err
	}
	return s.users.DeleteUser(ctx, callerID)
}

func (s *UserService) GetUser(ctx context.Context, id uuid.UUID) (domain.User, error) {
	return s.users.GetUserByID(ctx, id)
}

func (s *UserService) SearchUsers(ctx context.Context, query string) ([]domain.User, error) {
	if query == "" {
		return nil, errors.Validation("query", "query must not be empty")
	}
	return s.users.SearchUsers(ctx, query, searchLimit)
}

func credentialsError() error {
	return errors.Validation("credentials", "invalid email or password").
		Wrap(errors.ErrInvalidCredentials)
}

func validationMessage(path string) string {
	switch path {
	case "username":
		return "username must be 3-30 alphanumeric characters"
	case "email":
		return "email format is invalid"
	default:
		return "password must be at least 12 characters with mixed case, digits and symbols"
	}
}
