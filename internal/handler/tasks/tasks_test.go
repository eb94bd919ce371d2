package tasks

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
	"task-board/internal/cache"
	"task-board/internal/database"
	"task-board/internal/model"
	"task-board/internal/store"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

type structValidator struct{ v *validator.Validate }

func (s structValidator) Validate(i any) error { return s.v.Struct(i) }

func newEcho() *echo.Echo {
	e := echo.New()
	e.Validator = structValidator{v: validator.New()}
	return e
}

func newCreateCtx(body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodPost, "/tasks", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return newEcho().NewContext(req, rec), rec
}

func newPatchCtx(id, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodPatch, "/tasks/"+id, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := newEcho().NewContext(req, rec)
	c.SetPath("/tasks/:id")
	c.SetParamNames("id")
	c.SetParamValues(id)
	return c, rec
}

func restore() {
	createTask = store.CreateTask
	updateTask = store.UpdateTask
	taskProjectID = store.TaskProjectID
	columnProjectID = store.ColumnProjectID
}

func newBoards(t *testing.T) (*miniredis.Miniredis, *cache.BoardCache) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, cache.NewBoardCache(client, time.Minute, nil)
}

func ptr(s string) *string { return &s }

func TestCreateTaskHandler(t *testing.T) {
	t.Run("missing fields", func(t *testing.T) {
		ctx, _ := newCreateCtx(`{"title":"Welcome task"}`)
		err := CreateTaskHandler(nil, nil)(ctx)
		require.Equal(t, http.StatusBadRequest, apperr.Status(err))
		require.Equal(t, "Missing fields", err.Error())
	})

	t.Run("unknown column", func(t *testing.T) {
		t.Cleanup(restore)
		createTask = func(context.Context, database.Querier, *model.Task) (*model.Task, error) {
			return nil, fmt.Errorf("CreateTask: %w", store.ErrInvalidReference)
		}
		ctx, _ := newCreateCtx(`{"columnId":"nope","title":"x"}`)
		err := CreateTaskHandler(nil, nil)(ctx)
		require.Equal(t, http.StatusBadRequest, apperr.Status(err))
		require.Equal(t, "unknown reference", err.Error())
	})

	t.Run("success evicts board", func(t *testing.T) {
		t.Cleanup(restore)
		mr, boards := newBoards(t)
		require.NoError(t, mr.Set("board:p1", `{"columns":[]}`))

		createTask = func(_ context.Context, _ database.Querier, task *model.Task) (*model.Task, error) {
			require.Equal(t, "Drag me!", *task.Description)
			task.ID = "t1"
			task.CreatedAt = time.Now()
			return task, nil
		}
		columnProjectID = func(_ context.Context, _ database.Querier, columnID string) (string, error) {
			require.Equal(t, "c1", columnID)
			return "p1", nil
		}
		ctx, rec := newCreateCtx(`{"columnId":"c1","title":"Welcome task","description":"Drag me!"}`)
		require.NoError(t, CreateTaskHandler(nil, boards)(ctx))
		require.Equal(t, http.StatusOK, rec.Code)

		var task model.Task
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &task))
		require.Equal(t, "t1", task.ID)
		require.Equal(t, "c1", task.ColumnID)
		require.False(t, mr.Exists("board:p1"))
	})

	t.Run("no description", func(t *testing.T) {
		t.Cleanup(restore)
		createTask = func(_ context.Context, _ database.Querier, task *model.Task) (*model.Task, error) {
			require.Nil(t, task.Description)
			task.ID = "t2"
			return task, nil
		}
		ctx, rec := newCreateCtx(`{"columnId":"c1","title":"No body"}`)
		require.NoError(t, CreateTaskHandler(nil, nil)(ctx))
		require.Contains(t, rec.Body.String(), `"description":null`)
	})
}

func TestUpdateTaskHandler(t *testing.T) {
	t.Run("move sends only column", func(t *testing.T) {
		t.Cleanup(restore)
		updateTask = func(_ context.Context, _ database.Querier, id string, patch model.TaskPatch) (*model.Task, error) {
			require.Equal(t, "t1", id)
			require.Equal(t, "c3", *patch.ColumnID)
			require.Nil(t, patch.Title)
			require.Nil(t, patch.Description)
			require.False(t, patch.ClearDescription)
			return &model.Task{ID: id, Title: "Welcome task", ColumnID: "c3"}, nil
		}
		ctx, rec := newPatchCtx("t1", `{"columnId":"c3"}`)
		require.NoError(t, UpdateTaskHandler(nil, nil)(ctx))
		require.Equal(t, http.StatusOK, rec.Code)

		var task model.Task
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &task))
		require.Equal(t, "c3", task.ColumnID)
		require.Equal(t, "Welcome task", task.Title)
	})

	t.Run("null description clears", func(t *testing.T) {
		t.Cleanup(restore)
		updateTask = func(_ context.Context, _ database.Querier, id string, patch model.TaskPatch) (*model.Task, error) {
			require.True(t, patch.ClearDescription)
			return &model.Task{ID: id, Title: "x", ColumnID: "c1"}, nil
		}
		ctx, _ := newPatchCtx("t1", `{"description":null}`)
		require.NoError(t, UpdateTaskHandler(nil, nil)(ctx))
	})

	t.Run("empty body returns task", func(t *testing.T) {
		t.Cleanup(restore)
		updateTask = func(_ context.Context, _ database.Querier, id string, patch model.TaskPatch) (*model.Task, error) {
			require.True(t, patch.Empty())
			return &model.Task{ID: id, Title: "x", ColumnID: "c1", Description: ptr("d")}, nil
		}
		ctx, rec := newPatchCtx("t1", "")
		require.NoError(t, UpdateTaskHandler(nil, nil)(ctx))
		require.Contains(t, rec.Body.String(), `"description":"d"`)
	})

	t.Run("empty title is applied", func(t *testing.T) {
		t.Cleanup(restore)
		var got model.TaskPatch
		called := false
		updateTask = func(_ context.Context, _ database.Querier, id string, patch model.TaskPatch) (*model.Task, error) {
			called = true
			got = patch
			return &model.Task{ID: id, Title: "", ColumnID: "c1"}, nil
		}
		ctx, rec := newPatchCtx("t1", `{"title":""}`)
		require.NoError(t, UpdateTaskHandler(nil, nil)(ctx))
		require.True(t, called)
		require.NotNil(t, got.Title)
		require.Equal(t, "", *got.Title)
		require.Nil(t, got.ColumnID)
		require.Contains(t, rec.Body.String(), `"title":""`)
	})

	t.Run("empty column reaches store", func(t *testing.T) {
		t.Cleanup(restore)
		updateTask = func(_ context.Context, _ database.Querier, _ string, patch model.TaskPatch) (*model.Task, error) {
			require.NotNil(t, patch.ColumnID)
			require.Equal(t, "", *patch.ColumnID)
			return nil, fmt.Errorf("UpdateTask: %w", store.ErrInvalidReference)
		}
		ctx, _ := newPatchCtx("t1", `{"columnId":""}`)
		err := UpdateTaskHandler(nil, nil)(ctx)
		require.Equal(t, http.StatusBadRequest, apperr.Status(err))
		require.Equal(t, "unknown reference", err.Error())
	})

	t.Run("null title rejected", func(t *testing.T) {
		t.Cleanup(restore)
		updateTask = func(context.Context, database.Querier, string, model.TaskPatch) (*model.Task, error) {
			t.Fatal("store must not be reached")
			return nil, nil
		}
		ctx, _ := newPatchCtx("t1", `{"title":null}`)
		err := UpdateTaskHandler(nil, nil)(ctx)
		require.Equal(t, http.StatusBadRequest, apperr.Status(err))
	})

	t.Run("bad json", func(t *testing.T) {
		ctx, _ := newPatchCtx("t1", `{"title":`)
		err := UpdateTaskHandler(nil, nil)(ctx)
		require.Equal(t, http.StatusBadRequest, apperr.Status(err))
	})

	t.Run("not found", func(t *testing.T) {
		t.Cleanup(restore)
		updateTask = func(context.Context, database.Querier, string, model.TaskPatch) (*model.Task, error) {
			return nil, fmt.Errorf("UpdateTask: %w", store.ErrNotFound)
		}
		ctx, _ := newPatchCtx("missing", `{"columnId":"c3"}`)
		err := UpdateTaskHandler(nil, nil)(ctx)
		require.Equal(t, http.StatusNotFound, apperr.Status(err))
		require.Equal(t, "Task not found", err.Error())
	})

	t.Run("unknown column", func(t *testing.T) {
		t.Cleanup(restore)
		updateTask = func(context.Context, database.Querier, string, model.TaskPatch) (*model.Task, error) {
			return nil, store.ErrInvalidReference
		}
		ctx, _ := newPatchCtx("t1", `{"columnId":"nope"}`)
		err := UpdateTaskHandler(nil, nil)(ctx)
		require.Equal(t, http.StatusBadRequest, apperr.Status(err))
	})

	t.Run("write failure", func(t *testing.T) {
		t.Cleanup(restore)
		updateTask = func(context.Context, database.Querier, string, model.TaskPatch) (*model.Task, error) {
			return nil, errors.New("connection reset")
		}
		ctx, _ := newPatchCtx("t1", `{"columnId":"c3"}`)
		err := UpdateTaskHandler(nil, nil)(ctx)
		require.Equal(t, http.StatusInternalServerError, apperr.Status(err))
		require.Contains(t, err.Error(), "connection reset")
	})

	t.Run("move evicts both projects", func(t *testing.T) {
		t.Cleanup(restore)
		mr, boards := newBoards(t)
		for _, key := range []string{"board:p1", "board:p2", "board:p3"} {
			require.NoError(t, mr.Set(key, `{"columns":[]}`))
		}
		taskProjectID = func(context.Context, database.Querier, string) (string, error) { return "p1", nil }
		columnProjectID = func(context.Context, database.Querier, string) (string, error) { return "p2", nil }
		updateTask = func(_ context.Context, _ database.Querier, id string, _ model.TaskPatch) (*model.Task, error) {
			return &model.Task{ID: id, ColumnID: "c9"}, nil
		}

		ctx, _ := newPatchCtx("t1", `{"columnId":"c9"}`)
		require.NoError(t, UpdateTaskHandler(nil, boards)(ctx))
		require.False(t, mr.Exists("board:p1"))
		require.False(t, mr.Exists("board:p2"))
		require.True(t, mr.Exists("board:p3"))
	})

	t.Run("rename evicts own project only", func(t *testing.T) {
		t.Cleanup(restore)
		mr, boards := newBoards(t)
		require.NoError(t, mr.Set("board:p1", `{"columns":[]}`))
		taskProjectID = func(context.Context, database.Querier, string) (string, error) { return "p1", nil }
		columnProjectID = func(context.Context, database.Querier, string) (string, error) {
			t.Fatal("column lookup only needed on move")
			return "", nil
		}
		updateTask = func(_ context.Context, _ database.Querier, id string, _ model.TaskPatch) (*model.Task, error) {
			return &model.Task{ID: id, Title: "Renamed", ColumnID: "c1"}, nil
		}

		ctx, _ := newPatchCtx("t1", `{"title":"Renamed"}`)
		require.NoError(t, UpdateTaskHandler(nil, boards)(ctx))
		require.False(t, mr.Exists("board:p1"))
	})
}
