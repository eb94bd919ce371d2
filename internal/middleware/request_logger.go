package middleware

import (
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// RequestLogger 每個請求記一行：method、path、status、耗時、request id 與使用者 id
func RequestLogger(log *zap.SugaredLogger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				// 交給 HTTPErrorHandler 寫出回應，才能拿到最終 status
				c.Error(err)
			}
			dur := time.Since(start)

			reqID := c.Response().Header().Get(echo.HeaderXRequestID)
			if reqID == "" {
				reqID = c.Request().Header.Get(echo.HeaderXRequestID)
			}
			fields := []any{
				"method", c.Request().Method,
				"path", c.Request().URL.Path,
				"status", c.Response().Status,
				"duration_ms", float64(dur.Microseconds()) / 1000.0,
				"request_id", reqID,
			}
			if userID := UserID(c); userID != "" {
				fields = append(fields, "user_id", userID)
			}
			log.Infow("http", fields...)
			return nil
		}
	}
}
