package form

import (
	"context"
	"errors"
	"fmt"
)

// Storage keys written after a successful login.
const (
	KeyAccessToken = "accessToken"
	KeyName        = "name"
	KeyEmail       = "email"
)

// ErrEmptyResponse is returned by an APIClient when a call succeeds at the
// transport level but carries no usable body.
var ErrEmptyResponse = errors.New("empty response from authentication API")

// Credentials is the body of a login call.
type Credentials struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

// Registration is the body of a register call. Email carries the value the
// user typed into the login field.
type Registration struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Session is the decoded result of a successful login.
type Session struct {
	Token string `json:"token" validate:"required"`
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required"`
}

// ErrorDetail describes a failed API call. Message holds the server-supplied
// error text and is empty when the server did not send one.
type ErrorDetail struct {
	Status  int
	Message string
	Err     error
}

func (e *ErrorDetail) Error() string {
	switch {
	case e.Message != "":
		return fmt.Sprintf("api error (status %d): %s", e.Status, e.Message)
	case e.Err != nil:
		return fmt.Sprintf("api error (status %d): %v", e.Status, e.Err)
	default:
		return fmt.Sprintf("api error (status %d)", e.Status)
	}
}

func (e *ErrorDetail) Unwrap() error { return e.Err }

// ServerMessage extracts the structured server message carried by err, if any.
func ServerMessage(err error) (string, bool) {
	var detail *ErrorDetail
	if errors.As(err, &detail) && detail.Message != "" {
		return detail.Message, true
	}
	return "", false
}

// APIClient is the remote authentication API.
type APIClient interface {
	Login(ctx context.Context, c Credentials) (Session, error)
	Register(ctx context.Context, r Registration) error
}

// Storage is durable client-side key/value storage.
type Storage interface {
	Set(key, value string) error
}

// BatchStorage is a Storage that writes several keys in one operation:
// either every key is stored or none is.
type BatchStorage interface {
	Storage
	SetMany(values map[string]string) error
}

// Deleter is a Storage that can remove keys. The controller uses it to undo
// a partial write.
type Deleter interface {
	Delete(key string) error
}

// TokenFunc receives the access token after a successful login.
type TokenFunc func(token string)

// ValidateSession checks that a decoded login result carries every field.
func ValidateSession(s Session) error {
	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("invalid login response: %w", err)
	}
	return nil
}
