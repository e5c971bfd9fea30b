// Package devapi is an in-memory stand-in for the remote authentication API.
// It serves the same login and register endpoints the form talks to.
package devapi

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
)

// Error texts returned in the {"error": "..."} body.
const (
	ErrTextBadRequest     = "Invalid request"
	ErrTextMissingFields  = "Name, email and password are required"
	ErrTextAlreadyExists  = "E-mail already registered"
	ErrTextBadCredentials = "Invalid login or password"
	ErrTextBadToken       = "Invalid or expired token"
)

type account struct {
	Name     string
	Email    string
	Password []byte
}

type loginRequest struct {
	Login    string `json:"login" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type registerRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// SessionResponse is the body of a successful login.
type SessionResponse struct {
	Token string `json:"token"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// RegisteredResponse is the body of a successful registration.
type RegisteredResponse struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// API keeps accounts in memory and issues signed access tokens.
type API struct {
	mu       sync.RWMutex
	accounts map[string]account // by lower-cased email
	tokens   tokenIssuer
	cost     int
	validate *validator.Validate
}

// Option configures an API.
type Option func(*API)

// WithCost sets the bcrypt cost. Tests use bcrypt.MinCost.
func WithCost(cost int) Option {
	return func(a *API) {
		a.cost = cost
	}
}

// WithSigningKey sets the HMAC key for access tokens. Without it a random
// key is used, so tokens do not survive a restart.
func WithSigningKey(key []byte) Option {
	return func(a *API) {
		a.tokens.key = key
	}
}

// New creates an empty API.
func New(opts ...Option) *API {
	a := &API{
		accounts: make(map[string]account),
		tokens:   tokenIssuer{key: []byte(uuid.NewString()), duration: TokenDuration},
		cost:     bcrypt.DefaultCost,
		validate: validator.New(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Routes mounts the endpoints on g.
func (a *API) Routes(g *echo.Group) {
	g.POST("/login", a.Login)
	g.POST("/register", a.Register)
	g.GET("/me", a.Me)
}

// Seed adds an account directly, bypassing the HTTP layer.
func (a *API) Seed(name, email, password string) error {
	return a.create(name, email, password)
}

var errExists = errors.New("account exists")

func (a *API) create(name, email, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), a.cost)
	if err != nil {
		return err
	}

	key := strings.ToLower(email)
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, ok := a.accounts[key]; ok {
		return errExists
	}
	a.accounts[key] = account{Name: name, Email: email, Password: hash}
	return nil
}

// lookup finds an account by email, or by name when no email matches.
func (a *API) lookup(login string) (account, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if acc, ok := a.accounts[strings.ToLower(login)]; ok {
		return acc, true
	}
	for _, acc := range a.accounts {
		if acc.Name == login {
			return acc, true
		}
	}
	return account{}, false
}

func fail(c echo.Context, status int, msg string) error {
	return c.JSON(status, map[string]string{"error": msg})
}

// Login handles POST /login.
func (a *API) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, ErrTextBadRequest)
	}
	if err := a.validate.Struct(req); err != nil {
		return fail(c, http.StatusBadRequest, ErrTextBadCredentials)
	}

	acc, ok := a.lookup(req.Login)
	if !ok || bcrypt.CompareHashAndPassword(acc.Password, []byte(req.Password)) != nil {
		slog.Info("Rejected login", "login", req.Login)
		return fail(c, http.StatusUnauthorized, ErrTextBadCredentials)
	}

	token, err := a.tokens.issue(acc)
	if err != nil {
		slog.Error("Failed to sign token", "error", err)
		return fail(c, http.StatusInternalServerError, ErrTextBadRequest)
	}
	return c.JSON(http.StatusOK, SessionResponse{Token: token, Name: acc.Name, Email: acc.Email})
}

// Register handles POST /register.
func (a *API) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, ErrTextBadRequest)
	}
	if err := a.validate.Struct(req); err != nil {
		return fail(c, http.StatusBadRequest, ErrTextMissingFields)
	}

	if err := a.create(req.Name, req.Email, req.Password); err != nil {
		if errors.Is(err, errExists) {
			return fail(c, http.StatusConflict, ErrTextAlreadyExists)
		}
		slog.Error("Failed to create account", "error", err)
		return fail(c, http.StatusInternalServerError, ErrTextBadRequest)
	}
	slog.Info("Registered account", "email", req.Email)
	return c.JSON(http.StatusCreated, RegisteredResponse{Name: req.Name, Email: req.Email})
}

// Me handles GET /me: it returns the account the bearer token belongs to.
func (a *API) Me(c echo.Context) error {
	token, ok := strings.CutPrefix(c.Request().Header.Get(echo.HeaderAuthorization), "Bearer ")
	if !ok {
		return fail(c, http.StatusUnauthorized, ErrTextBadToken)
	}
	email, ok := a.TokenOwner(token)
	if !ok {
		return fail(c, http.StatusUnauthorized, ErrTextBadToken)
	}
	acc, ok := a.lookup(email)
	if !ok {
		return fail(c, http.StatusUnauthorized, ErrTextBadToken)
	}
	return c.JSON(http.StatusOK, RegisteredResponse{Name: acc.Name, Email: acc.Email})
}

// TokenOwner returns the email a valid token was issued to.
func (a *API) TokenOwner(token string) (string, bool) {
	claims, err := a.tokens.verify(token)
	if err != nil {
		return "", false
	}
	return claims.Email, true
}
