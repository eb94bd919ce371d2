// File: internal/handler/columns/create.go
package columns

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

var createColumn = store.CreateColumn

// CreateColumnHandler 建立看板欄位並清除該專案的看板快取
// @Summary     建立欄位
// @Tags        columns
// @Accept      json
// @Produce     json
// @Param       body body     dto.CreateColumnRequest true "column"
// @Success     200  {object} model.Column
// @Failure     400  {object} dto.HTTPError "Missing fields / unknown reference"
// @Failure     401  {object} dto.HTTPError
// @Failure     500  {object} dto.HTTPError
// @Security    BearerAuth
// @Router      /columns [post]
func CreateColumnHandler(db database.DB, boards *cache.BoardCache) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req dto.CreateColumnRequest
		if err := c.Bind(&req); err != nil {
			return apperr.Validation("Missing fields")
		}
		if err := c.Validate(&req); err != nil {
			return apperr.Validation("Missing fields")
		}

		ctx := c.Request().Context()
		col, err := createColumn(ctx, db, &model.Column{
			Name:      req.Name,
			Order:     *req.Order,
			ProjectID: req.ProjectID,
		})
		if err != nil {
			return handler.StoreError(err, "")
		}
		boards.Evict(ctx, col.ProjectID)
		return c.JSON(http.StatusOK, col)
	}
}
