package middleware

import (
	"strings"

	"task-board/internal/apperr"

	"github.com/labstack/echo/v4"
)

const ContextUserKey = "user_id"

// TokenVerifier 驗證 bearer token 並回傳使用者 id
type TokenVerifier interface {
	Verify(token string) (string, error)
}

func bearerToken(c echo.Context) (string, bool) {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}

// RequireAuth 驗證失敗一律回 401 Unauthenticated，不會進到下游 handler
func RequireAuth(tokens TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := bearerToken(c)
			if !ok {
				return apperr.Unauthenticated()
			}
			userID, err := tokens.Verify(token)
			if err != nil {
				return apperr.Unauthenticated()
			}
			c.Set(ContextUserKey, userID)
			return next(c)
		}
	}
}

// UserID 取得 RequireAuth 設定的使用者 id
func UserID(c echo.Context) string {
	id, _ := c.Get(ContextUserKey).(string)
	return id
}
