package users

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/collabhub-app/collabhub-client/pkg/auth"
	"github.com/collabhub-app/collabhub-client/pkg/communication"
	"github.com/collabhub-app/collabhub-client/pkg/logger"
)

// LoginRequest is validated client-side before any network call
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RegisterRequest is validated client-side before any network call
type RegisterRequest struct {
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=8"`
	PasswordConfirm string `json:"-" validate:"eqfield=Password"`
	FirstName       string `json:"firstName" validate:"required"`
	LastName        string `json:"lastName" validate:"required"`
	Department      string `json:"department" validate:"required"`
}

// ProfileUpdate carries the fields a user may change on their own profile
type ProfileUpdate struct {
	FirstName  string `json:"firstName,omitempty"`
	LastName   string `json:"lastName,omitempty"`
	Department string `json:"department,omitempty"`
}

// UserService handles authentication and profile calls
type UserService struct {
	Client  *communication.Client
	Session *auth.Session
	Logger  logger.Interface
}

type authDataWire struct {
	User      userWire `json:"user"`
	Token     string   `json:"token"`
	ExpiresAt string   `json:"expiresAt"`
}

// Login authenticates and stores the returned credentials in the session
func (s *UserService) Login(ctx context.Context, request LoginRequest) (User, error) {
	err := validator.New().Struct(request)
	if err != nil {
		return User{}, err
	}

	data := authDataWire{}
	err = s.Client.Post(ctx, "/auth/login", &request, &data)
	if err != nil {
		return User{}, err
	}

	return s.storeCredentials(data)
}

// Register creates an account and stores the returned credentials
func (s *UserService) Register(ctx context.Context, request RegisterRequest) (User, error) {
	err := validator.New().Struct(request)
	if err != nil {
		return User{}, err
	}

	data := authDataWire{}
	err = s.Client.Post(ctx, "/auth/register", &request, &data)
	if err != nil {
		return User{}, err
	}

	return s.storeCredentials(data)
}

func (s *UserService) storeCredentials(data authDataWire) (User, error) {
	user := normalizeUser(data.User)

	expiresAt, err := time.Parse(time.RFC3339, data.ExpiresAt)
	if err != nil {
		expiresAt = time.Time{}
	}

	err = s.Session.Store(auth.Credentials{
		Token:       data.Token,
		ExpiresAt:   expiresAt,
		UserID:      user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName(),
	})
	if err != nil {
		return User{}, err
	}

	return user, nil
}

// Logout tells the backend goodbye and clears local credentials either way
func (s *UserService) Logout(ctx context.Context) error {
	err := s.Client.Post(ctx, "/auth/logout", nil, nil)
	if err != nil {
		s.Logger.Debug("logout request failed, clearing local session anyway")
	}

	return s.Session.Clear()
}

// Me fetches the authenticated user's profile
func (s *UserService) Me(ctx context.Context) (User, error) {
	data := struct {
		User userWire `json:"user"`
	}{}
	err := s.Client.Get(ctx, "/users/me", &data)
	if err != nil {
		return User{}, err
	}

	return normalizeUser(data.User), nil
}

// UpdateMe updates the authenticated user's profile
func (s *UserService) UpdateMe(ctx context.Context, update ProfileUpdate) (User, error) {
	data := struct {
		User userWire `json:"user"`
	}{}
	err := s.Client.Put(ctx, "/users/me", &update, &data)
	if err != nil {
		return User{}, err
	}

	return normalizeUser(data.User), nil
}

// List fetches all hub users
func (s *UserService) List(ctx context.Context) ([]User, error) {
	data := struct {
		Users []userWire `json:"users"`
	}{}
	err := s.Client.Get(ctx, "/users", &data)
	if err != nil {
		return nil, err
	}

	users := make([]User, 0, len(data.Users))
	for _, wire := range data.Users {
		users = append(users, normalizeUser(wire))
	}
	return users, nil
}
