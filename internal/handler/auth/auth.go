// File: internal/handler/auth/auth.go
package auth

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"task-board/internal/apperr"
	"task-board/internal/database"
	"task-board/internal/dto"
	"task-board/internal/model"
	"task-board/internal/service"
	"task-board/internal/store"

	"github.com/labstack/echo/v4"
)

var (
	hashPassword     = service.HashPassword
	authenticateUser = service.AuthenticateUser
	getUserByEmail   = store.GetUserByEmail
	createUser       = store.CreateUser
)

// TokenIssuer 簽發 bearer token
type TokenIssuer interface {
	Issue(userID string) (string, time.Time, error)
}

// RegisterHandler 建立帳號並回傳 token
// @Summary     註冊使用者
// @Description email 會去除空白並轉小寫；email、password、name 皆為必填
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       body body     dto.RegisterRequest true "註冊資料"
// @Success     200  {object} dto.AuthResponse
// @Failure     400  {object} dto.HTTPError "Missing fields / Email in use"
// @Failure     500  {object} dto.HTTPError
// @Router      /auth/register [post]
func RegisterHandler(db database.DB, tokens TokenIssuer) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req dto.RegisterRequest
		if err := c.Bind(&req); err != nil {
			return apperr.Validation("Missing fields")
		}
		req.Normalize()
		if err := c.Validate(&req); err != nil {
			return apperr.Validation("Missing fields")
		}

		ctx := c.Request().Context()
		if _, err := getUserByEmail(ctx, db, req.Email); err == nil {
			return apperr.Conflict("Email in use")
		} else if !errors.Is(err, store.ErrNotFound) {
			return apperr.Persistence(err)
		}

		hash, err := hashPassword(req.Password)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}

		user, err := createUser(ctx, db, &model.User{
			Email:        req.Email,
			PasswordHash: hash,
			Name:         req.Name,
		})
		if err != nil {
			// 兩個請求同時註冊同一 email 時由 unique 約束擋下
			if errors.Is(err, store.ErrConflict) {
				return apperr.Conflict("Email in use")
			}
			return apperr.Persistence(err)
		}

		return respondWithToken(c, tokens, user)
	}
}

// LoginHandler 驗證 email/password 並回傳 token
// @Summary     登入使用者
// @Description 查無使用者與密碼錯誤回傳相同訊息
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       body body     dto.LoginRequest true "登入資料"
// @Success     200  {object} dto.AuthResponse
// @Failure     400  {object} dto.HTTPError "Invalid credentials"
// @Failure     500  {object} dto.HTTPError
// @Router      /auth/login [post]
func LoginHandler(db database.DB, tokens TokenIssuer) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req dto.LoginRequest
		if err := c.Bind(&req); err != nil {
			return apperr.Validation("Missing fields")
		}
		req.Normalize()
		if err := c.Validate(&req); err != nil {
			return apperr.Validation("Missing fields")
		}

		user, err := getUserByEmail(c.Request().Context(), db, req.Email)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return apperr.Authentication()
			}
			return apperr.Persistence(err)
		}

		authUser, err := authenticateUser(c.Request().Context(), *user, req.Password)
		if err != nil {
			return apperr.Authentication()
		}

		return respondWithToken(c, tokens, authUser)
	}
}

func respondWithToken(c echo.Context, tokens TokenIssuer, user *model.User) error {
	token, _, err := tokens.Issue(user.ID)
	if err != nil {
		return fmt.Errorf("issue token: %w", err)
	}
	return c.JSON(http.StatusOK, dto.AuthResponse{Token: token, User: dto.NewUserResponse(user)})
}
