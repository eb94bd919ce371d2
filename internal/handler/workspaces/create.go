// File: internal/handler/workspaces/create.go
package workspaces

import (
	"errors"
	"net/http"

	"task-board/internal/apperr"
	"task-board/internal/database"
	"task-board/internal/dto"
	"task-board/internal/handler"
	"task-board/internal/middleware"
	"task-board/internal/model"
	"task-board/internal/store"

	"github.com/labstack/echo/v4"
)

var createWorkspace = store.CreateWorkspace

// CreateWorkspaceHandler 建立 workspace，呼叫者成為 OWNER
// @Summary     建立 workspace
// @Tags        workspaces
// @Accept      json
// @Produce     json
// @Param       body body     dto.CreateWorkspaceRequest true "workspace"
// @Success     200  {object} model.Workspace
// @Failure     400  {object} dto.HTTPError "Missing fields / Slug in use"
// @Failure     401  {object} dto.HTTPError
// @Failure     500  {object} dto.HTTPError
// @Security    BearerAuth
// @Router      /workspaces [post]
func CreateWorkspaceHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req dto.CreateWorkspaceRequest
		if err := c.Bind(&req); err != nil {
			return apperr.Validation("Missing fields")
		}
		if err := c.Validate(&req); err != nil {
			return apperr.Validation("Missing fields")
		}

		ws, err := createWorkspace(c.Request().Context(), db, &model.Workspace{
			Name: req.Name,
			Slug: req.Slug,
		}, middleware.UserID(c))
		if err != nil {
			if errors.Is(err, store.ErrConflict) {
				return apperr.Conflict("Slug in use")
			}
			return handler.StoreError(err, "")
		}
		return c.JSON(http.StatusOK, ws)
	}
}
