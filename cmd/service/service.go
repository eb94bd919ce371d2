// @title        Task Board API
// @version      1.0
// @description  多租戶看板後端 API 文件
// @host         localhost:4000
// @BasePath     /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"task-board/internal/cache"
	"task-board/internal/config"
	"task-board/internal/database"
	"task-board/internal/handler"
	"task-board/internal/logger"
	appmw "task-board/internal/middleware"
	"task-board/internal/router"
	"task-board/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	_ "task-board/docs" // 引入 swag 產出的 docs
)

// CustomValidator wraps go-playground/validator for Echo
// swagger:ignore
type CustomValidator struct {
	validator *validator.Validate
}

// Validate calls the underlying validator
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

var (
	loadConfig      = config.Load
	newLogger       = logger.New
	newPgxPool      = database.NewPgxPool
	newRedisClient  = cache.NewRedisClient
	runMigrationsFn = database.RunMigrations
	notifyContext   = signal.NotifyContext
	serve           = serveUntilDone
	exitFunc        = os.Exit
)

func run() error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("設定載入失敗: %w", err)
	}

	log := newLogger(cfg.IsProduction(), cfg.Logging.Level, "task-board")
	defer func() { _ = log.Sync() }()

	if cfg.IsLegacy() {
		log.Warnw("legacy mode enabled: board reads skip membership checks and datastore errors are returned to clients")
	}
	if cfg.Auth.DevSecretInUse {
		log.Warnw("JWT_SECRET not set, using insecure development secret")
	}

	tokens, err := service.NewTokenService(cfg.Auth.JWTSecret, service.DefaultTokenTTL)
	if err != nil {
		return fmt.Errorf("token service 建立失敗: %w", err)
	}

	db, err := newPgxPool(context.Background(), cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("DB 連線失敗: %w", err)
	}
	defer db.Close()

	if err := runMigrationsFn(cfg.Database.URL); err != nil {
		return fmt.Errorf("Migration 執行失敗: %w", err)
	}

	// Redis 只用於看板快取，連不上時直接讀資料庫
	var cch cache.Cache
	if cfg.Redis.Addr != "" {
		client, err := newRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Warnw("redis unavailable, board cache disabled", "addr", cfg.Redis.Addr, "error", err)
		} else {
			cch = client
			defer client.Close()
		}
	}
	boards := cache.NewBoardCache(cch, cfg.Redis.BoardTTL, log)

	e := newEcho(cfg, log)
	router.Setup(e, db, cch, router.Options{
		Tokens: tokens,
		Boards: boards,
		Legacy: cfg.IsLegacy(),
	})

	ctx, stop := notifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Infow("server starting", "addr", cfg.Addr(), "mode", cfg.App.Mode, "board_cache", boards.Enabled())
	if err := serve(ctx, e, cfg.Addr(), cfg.Server.ShutdownTimeout); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	log.Infow("server stopped")
	return nil
}

func newEcho(cfg *config.Config, log *zap.SugaredLogger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = &CustomValidator{validator: validator.New()}
	e.HTTPErrorHandler = handler.NewErrorHandler(cfg.IsLegacy(), log)

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.CORS.AllowOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderAuthorization, echo.HeaderContentType},
	}))
	e.Use(appmw.RequestLogger(log))
	return e
}

// serveUntilDone 啟動 HTTP server，ctx 結束後在 timeout 內優雅關閉
func serveUntilDone(ctx context.Context, e *echo.Echo, addr string, timeout time.Duration) error {
	errCh := make(chan error, 1)
	go func() { errCh <- e.Start(addr) }()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

func main() {
	if err := run(); err != nil {
		log.Print(err)
		exitFunc(1)
	}
}
