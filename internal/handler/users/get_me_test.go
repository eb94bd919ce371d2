package users

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"task-board/internal/apperr"
	"task-board/internal/database"
	"task-board/internal/middleware"
	"task-board/internal/model"
	"task-board/internal/store"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

func newMeCtx(userID string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(middleware.ContextUserKey, userID)
	return c, rec
}

func restore() {
	getUserByID = store.GetUserByID
}

func TestGetMeHandler(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		t.Cleanup(restore)
		getUserByID = func(_ context.Context, _ database.Querier, id string) (*model.User, error) {
			require.Equal(t, "u1", id)
			return &model.User{ID: "u1", Email: "demo@example.com", Name: "Demo", PasswordHash: "secret-hash"}, nil
		}
		ctx, rec := newMeCtx("u1")
		require.NoError(t, GetMeHandler(nil)(ctx))
		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Body.String(), `"email":"demo@example.com"`)
		require.NotContains(t, rec.Body.String(), "secret-hash")
	})

	t.Run("deleted user", func(t *testing.T) {
		t.Cleanup(restore)
		getUserByID = func(context.Context, database.Querier, string) (*model.User, error) {
			return nil, store.ErrNotFound
		}
		ctx, rec := newMeCtx("gone")
		require.NoError(t, GetMeHandler(nil)(ctx))
		require.JSONEq(t, `{"user":null}`, rec.Body.String())
	})

	t.Run("db error", func(t *testing.T) {
		t.Cleanup(restore)
		getUserByID = func(context.Context, database.Querier, string) (*model.User, error) {
			return nil, errors.New("db down")
		}
		ctx, _ := newMeCtx("u1")
		err := GetMeHandler(nil)(ctx)
		require.Equal(t, http.StatusInternalServerError, apperr.Status(err))
	})
}
