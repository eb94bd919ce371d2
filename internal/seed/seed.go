package seed

import (
	"context"
	"errors"
	"fmt"

	"task-board/internal/database"
	"task-board/internal/model"
	"task-board/internal/service"
	"task-board/internal/store"
)

// 示範資料
const (
	DemoEmail    = "demo@example.com"
	DemoPassword = "demo1234"
	DemoName     = "Demo"

	demoWorkspaceName = "Demo Space"
	demoWorkspaceSlug = "demo-space"
	demoProjectName   = "Demo Project"
	demoProjectKey    = "DEMO"
	demoTaskTitle     = "Welcome task"
	demoTaskBody      = "Drag me!"
)

var demoColumns = []struct {
	name  string
	order int
}{
	{"To Do", 1},
	{"Doing", 2},
	{"Done", 3},
}

// ErrAlreadySeeded 表示 demo workspace 已存在
var ErrAlreadySeeded = errors.New("demo data already seeded")

// 測試可覆寫
var (
	getUserByEmail  = store.GetUserByEmail
	createUser      = store.CreateUser
	createWorkspace = store.CreateWorkspace
	createProject   = store.CreateProject
	createColumn    = store.CreateColumn
	createTask      = store.CreateTask
	hashPassword    = service.HashPassword
)

type Result struct {
	User      *model.User
	Workspace *model.Workspace
	Project   *model.Project
	Columns   []*model.Column
	Task      *model.Task
}

// Run 建立 demo 使用者（依 email 冪等）與其 workspace、project、三個欄位和一個任務
func Run(ctx context.Context, db database.DB) (*Result, error) {
	user, err := demoUser(ctx, db)
	if err != nil {
		return nil, err
	}

	ws, err := createWorkspace(ctx, db, &model.Workspace{Name: demoWorkspaceName, Slug: demoWorkspaceSlug}, user.ID)
	if errors.Is(err, store.ErrConflict) {
		return nil, ErrAlreadySeeded
	}
	if err != nil {
		return nil, fmt.Errorf("seed workspace: %w", err)
	}

	proj, err := createProject(ctx, db, &model.Project{Name: demoProjectName, Key: demoProjectKey, WorkspaceID: ws.ID}, user.ID)
	if err != nil {
		return nil, fmt.Errorf("seed project: %w", err)
	}

	res := &Result{User: user, Workspace: ws, Project: proj}
	for _, c := range demoColumns {
		col, err := createColumn(ctx, db, &model.Column{Name: c.name, Order: c.order, ProjectID: proj.ID})
		if err != nil {
			return nil, fmt.Errorf("seed column %q: %w", c.name, err)
		}
		res.Columns = append(res.Columns, col)
	}

	body := demoTaskBody
	res.Task, err = createTask(ctx, db, &model.Task{Title: demoTaskTitle, Description: &body, ColumnID: res.Columns[0].ID})
	if err != nil {
		return nil, fmt.Errorf("seed task: %w", err)
	}
	return res, nil
}

func demoUser(ctx context.Context, db database.DB) (*model.User, error) {
	user, err := getUserByEmail(ctx, db, DemoEmail)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("seed user: %w", err)
	}

	hash, err := hashPassword(DemoPassword)
	if err != nil {
		return nil, fmt.Errorf("seed user: %w", err)
	}
	user, err = createUser(ctx, db, &model.User{Email: DemoEmail, Name: DemoName, PasswordHash: hash})
	if err != nil {
		return nil, fmt.Errorf("seed user: %w", err)
	}
	return user, nil
}
