// File: internal/handler/errors.go
package handler

import (
	"errors"
	"fmt"
	"net/http"

	"task-board/internal/apperr"
	"task-board/internal/dto"
	"task-board/internal/store"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const internalErrorMessage = "internal server error"

// NewErrorHandler 將所有錯誤輸出成 {"error": message}。
// exposeInternal 為 false 時 5xx 只回通用訊息，原因寫入日誌。
func NewErrorHandler(exposeInternal bool, log *zap.SugaredLogger) echo.HTTPErrorHandler {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status, msg := describe(err)
		if status >= http.StatusInternalServerError {
			log.Errorw("request failed",
				"method", c.Request().Method,
				"path", c.Request().URL.Path,
				"status", status,
				"error", err,
			)
			if !exposeInternal {
				msg = internalErrorMessage
			}
		}

		var werr error
		if c.Request().Method == http.MethodHead {
			werr = c.NoContent(status)
		} else {
			werr = c.JSON(status, dto.HTTPError{Error: msg})
		}
		if werr != nil {
			log.Warnw("write error response", "error", werr)
		}
	}
}

func describe(err error) (int, string) {
	var ae *apperr.Error
	if errors.As(err, &ae) {
		return apperr.Status(ae), ae.Message
	}
	var he *echo.HTTPError
	if errors.As(err, &he) {
		switch m := he.Message.(type) {
		case string:
			return he.Code, m
		case error:
			return he.Code, m.Error()
		default:
			return he.Code, fmt.Sprint(m)
		}
	}
	return http.StatusInternalServerError, err.Error()
}

// StoreError 將 store 的 sentinel 錯誤轉成 apperr
func StoreError(err error, notFound string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, store.ErrNotFound):
		return apperr.NotFound(notFound)
	case errors.Is(err, store.ErrInvalidReference):
		return apperr.Validation("unknown reference")
	case errors.Is(err, store.ErrConflict):
		return apperr.Conflict("already exists")
	default:
		return apperr.Persistence(err)
	}
}
