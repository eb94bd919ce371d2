// File: internal/handler/users/get_me.go
package users

import (
	"errors"
	"net/http"

	"task-board/internal/apperr"
	"task-board/internal/database"
	"task-board/internal/dto"
	"task-board/internal/middleware"
	"task-board/internal/store"

	"github.com/labstack/echo/v4"
)

var getUserByID = store.GetUserByID

// GetMeHandler 取得目前登入的使用者；帳號已不存在時 user 為 null
// @Summary     取得自己的資料
// @Tags        users
// @Produce     json
// @Success     200 {object} dto.MeResponse
// @Failure     401 {object} dto.HTTPError
// @Failure     500 {object} dto.HTTPError
// @Security    BearerAuth
// @Router      /me [get]
func GetMeHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		user, err := getUserByID(c.Request().Context(), db, middleware.UserID(c))
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return c.JSON(http.StatusOK, dto.MeResponse{})
			}
			return apperr.Persistence(err)
		}
		resp := dto.NewUserResponse(user)
		return c.JSON(http.StatusOK, dto.MeResponse{User: &resp})
	}
}
