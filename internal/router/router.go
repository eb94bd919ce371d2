// File: internal/router/router.go
package router

import (
	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"

	"task-board/internal/cache"
	"task-board/internal/database"
	"task-board/internal/handler"
	"task-board/internal/handler/auth"
	"task-board/internal/handler/columns"
	"task-board/internal/handler/projects"
	"task-board/internal/handler/tasks"
	"task-board/internal/handler/users"
	"task-board/internal/handler/workspaces"
	"task-board/internal/middleware"
	"task-board/internal/service"
)

// Options 路由需要的共用元件
type Options struct {
	Tokens *service.TokenService
	// Boards 為 nil 時不使用看板快取
	Boards *cache.BoardCache
	// Legacy 為 true 時任何登入者都能讀取看板
	Legacy bool
}

// Setup 註冊所有路由與中介層；cch 可為 nil
func Setup(e *echo.Echo, db database.DB, cch cache.Cache, opts Options) {
	// 健康檢查與 API 文件（不需登入）
	e.GET("/healthz", handler.HealthHandler(db, cch))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// 註冊與登入
	e.POST("/auth/register", auth.RegisterHandler(db, opts.Tokens))
	e.POST("/auth/login", auth.LoginHandler(db, opts.Tokens))

	// 以下皆需 bearer token
	requireAuth := middleware.RequireAuth(opts.Tokens)
	e.GET("/me", users.GetMeHandler(db), requireAuth)
	e.POST("/workspaces", workspaces.CreateWorkspaceHandler(db), requireAuth)
	e.POST("/projects", projects.CreateProjectHandler(db), requireAuth)
	e.GET("/projects/:id/board", projects.BoardHandler(db, opts.Boards, !opts.Legacy), requireAuth)
	e.POST("/columns", columns.CreateColumnHandler(db, opts.Boards), requireAuth)
	e.POST("/tasks", tasks.CreateTaskHandler(db, opts.Boards), requireAuth)
	e.PATCH("/tasks/:id", tasks.UpdateTaskHandler(db, opts.Boards), requireAuth)
}
