// File: internal/handler/projects/projects.go
package projects

import (
	"context"
	"net/http"

	"task-board/internal/apperr"
	"task-board/internal/cache"
	"task-board/internal/database"
	"task-board/internal/dto"
	"task-board/internal/handler"
	"task-board/internal/middleware"
	"task-board/internal/model"
	"task-board/internal/store"

	"github.com/labstack/echo/v4"
)

var (
	createProject  = store.CreateProject
	canReadProject = store.CanReadProject
	getBoard       = store.GetBoard
)

// CreateProjectHandler 在 workspace 下建立專案，呼叫者成為 MANAGER
// @Summary     建立專案
// @Tags        projects
// @Accept      json
// @Produce     json
// @Param       body body     dto.CreateProjectRequest true "project"
// @Success     200  {object} model.Project
// @Failure     400  {object} dto.HTTPError "Missing fields / unknown reference"
// @Failure     401  {object} dto.HTTPError
// @Failure     500  {object} dto.HTTPError
// @Security    BearerAuth
// @Router      /projects [post]
func CreateProjectHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req dto.CreateProjectRequest
		if err := c.Bind(&req); err != nil {
			return apperr.Validation("Missing fields")
		}
		if err := c.Validate(&req); err != nil {
			return apperr.Validation("Missing fields")
		}

		p, err := createProject(c.Request().Context(), db, &model.Project{
			Name:        req.Name,
			Key:         req.Key,
			WorkspaceID: req.WorkspaceID,
		}, middleware.UserID(c))
		if err != nil {
			return handler.StoreError(err, "")
		}
		return c.JSON(http.StatusOK, p)
	}
}

// BoardHandler 回傳專案看板：欄位依 order 排序，任務依建立時間排序。
// checkAccess 為 true 時只有專案成員或 workspace 成員可讀。
// @Summary     讀取看板
// @Tags        projects
// @Produce     json
// @Param       id  path     string true "project id"
// @Success     200 {object} model.Board
// @Failure     401 {object} dto.HTTPError
// @Failure     403 {object} dto.HTTPError
// @Failure     500 {object} dto.HTTPError
// @Security    BearerAuth
// @Router      /projects/{id}/board [get]
func BoardHandler(db database.DB, boards *cache.BoardCache, checkAccess bool) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		projectID := c.Param("id")

		if checkAccess {
			ok, err := canReadProject(ctx, db, projectID, middleware.UserID(c))
			if err != nil {
				return apperr.Persistence(err)
			}
			if !ok {
				return apperr.Forbidden()
			}
		}

		board, err := boards.Fetch(ctx, projectID, func(ctx context.Context) (*model.Board, error) {
			return getBoard(ctx, db, projectID)
		})
		if err != nil {
			return apperr.Persistence(err)
		}
		return c.JSON(http.StatusOK, board)
	}
}
