package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/phrazzld/todo-api/internal/domain"
	"github.com/phrazzld/todo-api/internal/mocks"
	"github.com/phrazzld/todo-api/internal/service"
	"github.com/phrazzld/todo-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type accountHandlerFixture struct {
	accounts *mocks.MockAccountStore
	tokens   *mocks.MockTokenService
	handler  *AccountHandler
}

func newAccountHandlerFixture(t *testing.T) *accountHandlerFixture {
	t.Helper()

	f := &accountHandlerFixture{
		accounts: mocks.NewMockAccountStore(),
		tokens: &mocks.MockTokenService{
			Token:     "issued-token",
			ExpiresAt: time.Date(2025, 5, 1, 11, 0, 0, 0, time.UTC),
		},
	}
	hasher := &mocks.MockPasswordHasher{}

	svc, err := service.NewAccountService(f.accounts, hasher, hasher, f.tokens, nil)
	require.NoError(t, err)
	f.handler = NewAccountHandler(svc, nil)
	return f
}

func (f *accountHandlerFixture) signup(t *testing.T, body string) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	f.handler.Signup(rr, newRequest(t, http.MethodPost, "/users/signup", body, nil))
	return rr
}

func TestAccountHandlerSignup(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		f := newAccountHandlerFixture(t)

		rr := f.signup(t, `{"username":"alice","email":"alice@example.com","credential":"s3cret-pass"}`)

		require.Equal(t, http.StatusCreated, rr.Code)
		resp := decodeBody[SignupResponse](t, rr)
		assert.Equal(t, int64(1), resp.UserID)
	})

	t.Run("password alias", func(t *testing.T) {
		f := newAccountHandlerFixture(t)

		rr := f.signup(t, `{"username":"alice","email":"alice@example.com","password":"s3cret-pass"}`)

		require.Equal(t, http.StatusCreated, rr.Code)
		stored, err := f.accounts.GetByEmail(context.Background(), "alice@example.com")
		require.NoError(t, err)
		assert.Equal(t, "hashed:s3cret-pass", stored.PasswordHash)
	})

	t.Run("duplicate email", func(t *testing.T) {
		f := newAccountHandlerFixture(t)
		require.Equal(t, http.StatusCreated,
			f.signup(t, `{"username":"alice","email":"alice@example.com","credential":"s3cret-pass"}`).Code)

		rr := f.signup(t, `{"username":"alice2","email":"alice@example.com","credential":"s3cret-pass"}`)

		assert.Equal(t, http.StatusConflict, rr.Code)
		assert.Equal(t, "Email already exists", errorMessage(t, rr))
	})

	badRequests := map[string]string{
		"malformed json":   `{"username":`,
		"empty body":       ``,
		"missing username": `{"email":"a@example.com","credential":"s3cret-pass"}`,
		"invalid email":    `{"username":"a","email":"nope","credential":"s3cret-pass"}`,
		"short credential": `{"username":"a","email":"a@example.com","credential":"short"}`,
	}
	for name, body := range badRequests {
		t.Run(name, func(t *testing.T) {
			f := newAccountHandlerFixture(t)
			rr := f.signup(t, body)
			assert.Equal(t, http.StatusBadRequest, rr.Code)
			assert.NotEmpty(t, errorMessage(t, rr))
		})
	}

	t.Run("store failure", func(t *testing.T) {
		f := newAccountHandlerFixture(t)
		f.accounts.CreateFn = func(context.Context, *domain.Account) error {
			return errors.New("Error 1045: Access denied for user 'todo'@'10.0.0.3'")
		}

		rr := f.signup(t, `{"username":"alice","email":"alice@example.com","credential":"s3cret-pass"}`)

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		assert.Equal(t, "Failed to create user", errorMessage(t, rr))
	})
}

func TestAccountHandlerLogin(t *testing.T) {
	f := newAccountHandlerFixture(t)
	require.Equal(t, http.StatusCreated,
		f.signup(t, `{"username":"alice","email":"alice@example.com","credential":"s3cret-pass"}`).Code)

	login := func(body string) *httptest.ResponseRecorder {
		rr := httptest.NewRecorder()
		f.handler.Login(rr, newRequest(t, http.MethodPost, "/users/login", body, nil))
		return rr
	}

	t.Run("success", func(t *testing.T) {
		rr := login(`{"email":"alice@example.com","credential":"s3cret-pass"}`)

		require.Equal(t, http.StatusOK, rr.Code)
		resp := decodeBody[LoginResponse](t, rr)
		assert.Equal(t, int64(1), resp.UserID)
		assert.Equal(t, "issued-token", resp.Token)
		assert.Equal(t, "2025-05-01T11:00:00Z", resp.ExpiresAt)
	})

	t.Run("password alias", func(t *testing.T) {
		rr := login(`{"email":"alice@example.com","password":"s3cret-pass"}`)
		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("wrong credential", func(t *testing.T) {
		rr := login(`{"email":"alice@example.com","credential":"wrong-pass"}`)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.Equal(t, "Invalid credentials", errorMessage(t, rr))
	})

	t.Run("unknown email looks the same", func(t *testing.T) {
		rr := login(`{"email":"bob@example.com","credential":"s3cret-pass"}`)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.Equal(t, "Invalid credentials", errorMessage(t, rr))
	})

	t.Run("malformed email is a failed login", func(t *testing.T) {
		rr := login(`{"email":"not-an-email","credential":"s3cret-pass"}`)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.Equal(t, "Invalid credentials", errorMessage(t, rr))
	})

	t.Run("missing credential", func(t *testing.T) {
		rr := login(`{"email":"alice@example.com"}`)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestAccountHandlerUpdate(t *testing.T) {
	f := newAccountHandlerFixture(t)
	require.Equal(t, http.StatusCreated,
		f.signup(t, `{"username":"alice","email":"alice@example.com","credential":"s3cret-pass"}`).Code)
	require.Equal(t, http.StatusCreated,
		f.signup(t, `{"username":"bob","email":"bob@example.com","credential":"s3cret-pass"}`).Code)

	alice := &domain.Identity{AccountID: 1, Email: "alice@example.com"}

	update := func(identity *domain.Identity, id, body string) *httptest.ResponseRecorder {
		rr := httptest.NewRecorder()
		f.handler.Update(rr, newRequest(t, http.MethodPut, "/users/"+id, body, identity, "id", id))
		return rr
	}

	t.Run("own account", func(t *testing.T) {
		rr := update(alice, "1", `{"username":"alice-renamed"}`)

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "User updated", decodeBody[MessageResponse](t, rr).Message)

		stored, err := f.accounts.GetByID(context.Background(), 1)
		require.NoError(t, err)
		assert.Equal(t, "alice-renamed", stored.Username)
		assert.Equal(t, "alice@example.com", stored.Email)
	})

	t.Run("password alias rehashes", func(t *testing.T) {
		rr := update(alice, "1", `{"password":"another-pass"}`)
		require.Equal(t, http.StatusOK, rr.Code)

		stored, err := f.accounts.GetByID(context.Background(), 1)
		require.NoError(t, err)
		assert.Equal(t, "hashed:another-pass", stored.PasswordHash)
	})

	t.Run("other account", func(t *testing.T) {
		rr := update(alice, "2", `{"username":"hijacked"}`)
		assert.Equal(t, http.StatusForbidden, rr.Code)

		stored, err := f.accounts.GetByID(context.Background(), 2)
		require.NoError(t, err)
		assert.Equal(t, "bob", stored.Username)
	})

	t.Run("duplicate username", func(t *testing.T) {
		rr := update(alice, "1", `{"username":"bob"}`)
		assert.Equal(t, http.StatusConflict, rr.Code)
	})

	t.Run("no fields", func(t *testing.T) {
		rr := update(alice, "1", `{}`)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("invalid id", func(t *testing.T) {
		rr := update(alice, "abc", `{"username":"x"}`)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("vanished account", func(t *testing.T) {
		f.accounts.UpdateFn = func(context.Context, int64, store.AccountUpdate) error {
			return store.ErrAccountNotFound
		}
		defer func() { f.accounts.UpdateFn = nil }()

		rr := update(alice, "1", `{"username":"ghost"}`)
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("no identity", func(t *testing.T) {
		rr := update(nil, "1", `{"username":"x"}`)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}
