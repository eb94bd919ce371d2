// File: internal/handler/tasks/tasks.go
package tasks

import (
	"net/http"

	"task-board/internal/apperr"
	"task-board/internal/cache"
	"task-board/internal/database"
	"task-board/internal/dto"
	"task-board/internal/handler"
	"task-board/internal/model"
	"task-board/internal/store"

	"github.com/labstack/echo/v4"
)

var (
	createTask      = store.CreateTask
	updateTask      = store.UpdateTask
	taskProjectID   = store.TaskProjectID
	columnProjectID = store.ColumnProjectID
)

// CreateTaskHandler 在欄位中建立任務
// @Summary     建立任務
// @Tags        tasks
// @Accept      json
// @Produce     json
// @Param       body body     dto.CreateTaskRequest true "task"
// @Success     200  {object} model.Task
// @Failure     400  {object} dto.HTTPError "Missing fields / unknown reference"
// @Failure     401  {object} dto.HTTPError
// @Failure     500  {object} dto.HTTPError
// @Security    BearerAuth
// @Router      /tasks [post]
func CreateTaskHandler(db database.DB, boards *cache.BoardCache) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req dto.CreateTaskRequest
		if err := c.Bind(&req); err != nil {
			return apperr.Validation("Missing fields")
		}
		if err := c.Validate(&req); err != nil {
			return apperr.Validation("Missing fields")
		}

		ctx := c.Request().Context()
		task, err := createTask(ctx, db, &model.Task{
			Title:       req.Title,
			Description: req.Description,
			ColumnID:    req.ColumnID,
		})
		if err != nil {
			return handler.StoreError(err, "")
		}
		if boards.Enabled() {
			if projectID, err := columnProjectID(ctx, db, task.ColumnID); err == nil {
				boards.Evict(ctx, projectID)
			}
		}
		return c.JSON(http.StatusOK, task)
	}
}

// UpdateTaskHandler 部分更新任務，只套用請求中出現的欄位。
// 拖曳移動只會送 columnId；欄內位置不保存。
// @Summary     更新任務
// @Description description 傳 null 會清除；title、columnId 不可為 null。空的 body 回傳原任務。
// @Tags        tasks
// @Accept      json
// @Produce     json
// @Param       id   path     string                true "task id"
// @Param       body body     dto.UpdateTaskRequest true "欄位皆為選填"
// @Success     200  {object} model.Task
// @Failure     400  {object} dto.HTTPError
// @Failure     401  {object} dto.HTTPError
// @Failure     404  {object} dto.HTTPError "Task not found"
// @Failure     500  {object} dto.HTTPError
// @Security    BearerAuth
// @Router      /tasks/{id} [patch]
func UpdateTaskHandler(db database.DB, boards *cache.BoardCache) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req dto.UpdateTaskRequest
		if err := c.Bind(&req); err != nil {
			return apperr.Validation("invalid request body")
		}
		patch, err := req.Patch()
		if err != nil {
			return err
		}

		ctx := c.Request().Context()
		id := c.Param("id")

		// 移動前的專案，更新後要一併清除快取
		var before string
		if boards.Enabled() {
			before, _ = taskProjectID(ctx, db, id)
		}

		task, err := updateTask(ctx, db, id, patch)
		if err != nil {
			return handler.StoreError(err, "Task not found")
		}

		if boards.Enabled() {
			after := before
			if patch.ColumnID != nil {
				after, _ = columnProjectID(ctx, db, task.ColumnID)
			}
			boards.Evict(ctx, before, after)
		}
		return c.JSON(http.StatusOK, task)
	}
}
