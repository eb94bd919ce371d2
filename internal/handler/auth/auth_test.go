package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"task-board/internal/apperr"
	"task-board/internal/database"
	"task-board/internal/dto"
	"task-board/internal/model"
	"task-board/internal/service"
	"task-board/internal/store"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

type structValidator struct{ v *validator.Validate }

func (s structValidator) Validate(i any) error { return s.v.Struct(i) }

type failingIssuer struct{}

func (failingIssuer) Issue(string) (string, time.Time, error) {
	return "", time.Time{}, errors.New("sign")
}

func newEcho() *echo.Echo {
	e := echo.New()
	e.Validator = structValidator{v: validator.New()}
	return e
}

func newJSONCtx(e *echo.Echo, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func newTokens(t *testing.T) *service.TokenService {
	t.Helper()
	tokens, err := service.NewTokenService("secret", time.Hour)
	require.NoError(t, err)
	return tokens
}

func restore() {
	hashPassword = service.HashPassword
	authenticateUser = service.AuthenticateUser
	getUserByEmail = store.GetUserByEmail
	createUser = store.CreateUser
}

func requireAppErr(t *testing.T, err error, status int, msg string) {
	t.Helper()
	require.Error(t, err)
	require.Equal(t, status, apperr.Status(err))
	var ae *apperr.Error
	require.ErrorAs(t, err, &ae)
	require.Equal(t, msg, ae.Message)
}

func TestRegisterHandler(t *testing.T) {
	e := newEcho()
	tokens := newTokens(t)

	t.Run("bad json", func(t *testing.T) {
		ctx, _ := newJSONCtx(e, "{")
		requireAppErr(t, RegisterHandler(nil, tokens)(ctx), http.StatusBadRequest, "Missing fields")
	})

	for _, body := range []string{
		`{"password":"p","name":"n"}`,
		`{"email":"a@b.c","name":"n"}`,
		`{"email":"a@b.c","password":"p"}`,
		`{"email":"   ","password":"p","name":"n"}`,
	} {
		t.Run("missing "+body, func(t *testing.T) {
			t.Cleanup(restore)
			getUserByEmail = func(context.Context, database.Querier, string) (*model.User, error) {
				t.Fatal("store must not be reached")
				return nil, nil
			}
			ctx, _ := newJSONCtx(e, body)
			requireAppErr(t, RegisterHandler(nil, tokens)(ctx), http.StatusBadRequest, "Missing fields")
		})
	}

	// 已註冊的 email 不論密碼與名稱為何都不會建立帳號
	for name, body := range map[string]string{
		"same credentials": `{"email":" Demo@Example.com ","password":"demo1234","name":"Demo"}`,
		"other password":   `{"email":"demo@example.com","password":"hunter2","name":"Demo"}`,
		"other name":       `{"email":"DEMO@example.com","password":"demo1234","name":"Someone Else"}`,
		"all different":    `{"email":"demo@example.com","password":"x","name":"Mallory"}`,
	} {
		t.Run("email in use "+name, func(t *testing.T) {
			t.Cleanup(restore)
			getUserByEmail = func(_ context.Context, _ database.Querier, email string) (*model.User, error) {
				require.Equal(t, "demo@example.com", email)
				return &model.User{ID: "u1"}, nil
			}
			hashPassword = func(string) (string, error) {
				t.Fatal("password must not be hashed")
				return "", nil
			}
			createUser = func(context.Context, database.Querier, *model.User) (*model.User, error) {
				t.Fatal("user must not be created")
				return nil, nil
			}
			ctx, _ := newJSONCtx(e, body)
			requireAppErr(t, RegisterHandler(nil, tokens)(ctx), http.StatusBadRequest, "Email in use")
		})
	}

	t.Run("lookup error", func(t *testing.T) {
		t.Cleanup(restore)
		getUserByEmail = func(context.Context, database.Querier, string) (*model.User, error) {
			return nil, errors.New("db down")
		}
		ctx, _ := newJSONCtx(e, `{"email":"a@b.c","password":"p","name":"n"}`)
		err := RegisterHandler(nil, tokens)(ctx)
		require.Equal(t, http.StatusInternalServerError, apperr.Status(err))
	})

	t.Run("unique race", func(t *testing.T) {
		t.Cleanup(restore)
		getUserByEmail = func(context.Context, database.Querier, string) (*model.User, error) {
			return nil, store.ErrNotFound
		}
		createUser = func(context.Context, database.Querier, *model.User) (*model.User, error) {
			return nil, fmt.Errorf("CreateUser: %w", store.ErrConflict)
		}
		ctx, _ := newJSONCtx(e, `{"email":"a@b.c","password":"p","name":"n"}`)
		requireAppErr(t, RegisterHandler(nil, tokens)(ctx), http.StatusBadRequest, "Email in use")
	})

	t.Run("create error", func(t *testing.T) {
		t.Cleanup(restore)
		getUserByEmail = func(context.Context, database.Querier, string) (*model.User, error) {
			return nil, store.ErrNotFound
		}
		createUser = func(context.Context, database.Querier, *model.User) (*model.User, error) {
			return nil, errors.New("insert failed")
		}
		ctx, _ := newJSONCtx(e, `{"email":"a@b.c","password":"p","name":"n"}`)
		err := RegisterHandler(nil, tokens)(ctx)
		require.Equal(t, http.StatusInternalServerError, apperr.Status(err))
		require.Contains(t, err.Error(), "insert failed")
	})

	t.Run("hash error", func(t *testing.T) {
		t.Cleanup(restore)
		getUserByEmail = func(context.Context, database.Querier, string) (*model.User, error) {
			return nil, store.ErrNotFound
		}
		hashPassword = func(string) (string, error) { return "", errors.New("hash") }
		ctx, _ := newJSONCtx(e, `{"email":"a@b.c","password":"p","name":"n"}`)
		require.Error(t, RegisterHandler(nil, tokens)(ctx))
	})

	t.Run("issue error", func(t *testing.T) {
		t.Cleanup(restore)
		getUserByEmail = func(context.Context, database.Querier, string) (*model.User, error) {
			return nil, store.ErrNotFound
		}
		hashPassword = func(string) (string, error) { return "hash", nil }
		createUser = func(_ context.Context, _ database.Querier, u *model.User) (*model.User, error) {
			u.ID = "u1"
			return u, nil
		}
		ctx, _ := newJSONCtx(e, `{"email":"a@b.c","password":"p","name":"n"}`)
		require.Error(t, RegisterHandler(nil, failingIssuer{})(ctx))
	})

	t.Run("success", func(t *testing.T) {
		t.Cleanup(restore)
		getUserByEmail = func(context.Context, database.Querier, string) (*model.User, error) {
			return nil, store.ErrNotFound
		}
		var saved *model.User
		createUser = func(_ context.Context, _ database.Querier, u *model.User) (*model.User, error) {
			saved = u
			u.ID = "u1"
			u.CreatedAt = time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
			return u, nil
		}
		ctx, rec := newJSONCtx(e, `{"email":"Demo@Example.com","password":"demo1234","name":"Demo"}`)
		require.NoError(t, RegisterHandler(nil, tokens)(ctx))
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "demo@example.com", saved.Email)
		require.NoError(t, service.ComparePassword(saved.PasswordHash, "demo1234"))

		var resp dto.AuthResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Equal(t, "u1", resp.User.ID)
		require.Equal(t, "Demo", resp.User.Name)
		require.NotContains(t, rec.Body.String(), saved.PasswordHash)

		sub, err := tokens.Verify(resp.Token)
		require.NoError(t, err)
		require.Equal(t, "u1", sub)
	})
}

func TestLoginHandler(t *testing.T) {
	e := newEcho()
	tokens := newTokens(t)
	hash, err := service.HashPassword("demo1234")
	require.NoError(t, err)

	t.Run("missing fields", func(t *testing.T) {
		ctx, _ := newJSONCtx(e, `{"email":"a@b.c"}`)
		requireAppErr(t, LoginHandler(nil, tokens)(ctx), http.StatusBadRequest, "Missing fields")
	})

	t.Run("unknown user and wrong password look the same", func(t *testing.T) {
		t.Cleanup(restore)
		getUserByEmail = func(_ context.Context, _ database.Querier, email string) (*model.User, error) {
			if email == "known@example.com" {
				return &model.User{ID: "u1", Email: email, PasswordHash: hash}, nil
			}
			return nil, store.ErrNotFound
		}

		ctx, rec1 := newJSONCtx(e, `{"email":"nobody@example.com","password":"demo1234"}`)
		err1 := LoginHandler(nil, tokens)(ctx)
		ctx, rec2 := newJSONCtx(e, `{"email":"known@example.com","password":"wrong"}`)
		err2 := LoginHandler(nil, tokens)(ctx)

		requireAppErr(t, err1, http.StatusBadRequest, "Invalid credentials")
		requireAppErr(t, err2, http.StatusBadRequest, "Invalid credentials")
		require.Equal(t, err1.Error(), err2.Error())
		require.Equal(t, rec1.Body.String(), rec2.Body.String())
	})

	t.Run("lookup error", func(t *testing.T) {
		t.Cleanup(restore)
		getUserByEmail = func(context.Context, database.Querier, string) (*model.User, error) {
			return nil, errors.New("db down")
		}
		ctx, _ := newJSONCtx(e, `{"email":"a@b.c","password":"p"}`)
		require.Equal(t, http.StatusInternalServerError, apperr.Status(LoginHandler(nil, tokens)(ctx)))
	})

	t.Run("success", func(t *testing.T) {
		t.Cleanup(restore)
		getUserByEmail = func(_ context.Context, _ database.Querier, email string) (*model.User, error) {
			require.Equal(t, "demo@example.com", email)
			return &model.User{ID: "u1", Email: email, Name: "Demo", PasswordHash: hash}, nil
		}
		ctx, rec := newJSONCtx(e, `{"email":"DEMO@example.com ","password":"demo1234"}`)
		require.NoError(t, LoginHandler(nil, tokens)(ctx))
		require.Equal(t, http.StatusOK, rec.Code)

		var resp dto.AuthResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		sub, err := tokens.Verify(resp.Token)
		require.NoError(t, err)
		require.Equal(t, "u1", sub)
		require.Equal(t, "demo@example.com", resp.User.Email)
	})
}
