package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/haimng/Bestopia/internal/domain"
	"github.com/haimng/Bestopia/internal/service"
	apperrors "github.com/haimng/Bestopia/pkg/errors"
	"github.com/haimng/Bestopia/pkg/httputil"
)

const testJWTSecret = "handler-test-secret"

func setupAuthRouter(users *mockUserRepository) *chi.Mux {
	logger := testLogger()
	handler := NewAuthHandler(service.NewAuthService(users, testJWTSecret, logger), logger)

	r := chi.NewRouter()
	r.Post("/auth/signup", handler.SignUp)
	r.Post("/auth/signin", handler.SignIn)
	return r
}

func TestSignUp_CreatesAccount(t *testing.T) {
	users := &mockUserRepository{}
	users.On("Create", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
		return u.Email == "jo@example.com" && u.Role == domain.RoleUser
	})).Return(nil)

	body := []byte(`{"username":"jo","display_name":"Jo Doe","email":"Jo@example.com","password":"correct horse"}`)
	req := httptest.NewRequest(http.MethodPost, "/auth/signup", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	setupAuthRouter(users).ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	// The password hash must never appear in the response.
	assert.NotContains(t, rec.Body.String(), "password")
	users.AssertExpectations(t)
}

func TestSignUp_DuplicateEmail(t *testing.T) {
	users := &mockUserRepository{}
	users.On("Create", mock.Anything, mock.Anything).
		Return(apperrors.AlreadyExists("user", "email", "jo@example.com"))

	body := []byte(`{"username":"jo","display_name":"Jo Doe","email":"jo@example.com","password":"correct horse"}`)
	req := httptest.NewRequest(http.MethodPost, "/auth/signup", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	setupAuthRouter(users).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestSignUp_ValidationFailure(t *testing.T) {
	users := &mockUserRepository{}

	body := []byte(`{"username":"jo","display_name":"Jo Doe","email":"not-an-email","password":"short"}`)
	req := httptest.NewRequest(http.MethodPost, "/auth/signup", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	setupAuthRouter(users).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp httputil.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
	assert.Contains(t, resp.Error.Fields, "Email")
	assert.Contains(t, resp.Error.Fields, "Password")
	users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestSignIn_IssuesToken(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("correct horse"), 10)
	require.NoError(t, err)

	users := &mockUserRepository{}
	users.On("GetByEmail", mock.Anything, "jo@example.com").Return(&domain.User{
		ID: 12, Email: "jo@example.com", Password: string(hash), Role: domain.RoleUser,
	}, nil)

	body := []byte(`{"email":"jo@example.com","password":"correct horse"}`)
	req := httptest.NewRequest(http.MethodPost, "/auth/signin", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	setupAuthRouter(users).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data struct {
			Token string      `json:"token"`
			User  domain.User `json:"user"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Data.Token)
	assert.Equal(t, int64(12), resp.Data.User.ID)
}

func TestSignIn_WrongPassword(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("correct horse"), 10)
	require.NoError(t, err)

	users := &mockUserRepository{}
	users.On("GetByEmail", mock.Anything, "jo@example.com").Return(&domain.User{
		ID: 12, Email: "jo@example.com", Password: string(hash),
	}, nil)

	body := []byte(`{"email":"jo@example.com","password":"wrong horse"}`)
	req := httptest.NewRequest(http.MethodPost, "/auth/signin", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	setupAuthRouter(users).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSignIn_UnknownEmail(t *testing.T) {
	users := &mockUserRepository{}
	users.On("GetByEmail", mock.Anything, "ghost@example.com").Return(nil, apperrors.ErrNotFound)

	body := []byte(`{"email":"ghost@example.com","password":"whatever1"}`)
	req := httptest.NewRequest(http.MethodPost, "/auth/signin", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	setupAuthRouter(users).ServeHTTP(rec, req)

	// Indistinguishable from a wrong password.
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
