// Package client 是看板 API 的 JSON HTTP client
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"task-board/internal/dto"
	"task-board/internal/model"
)

// APIError 表示非 2xx 回應，Message 取自 {"error": ...}
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// Client 呼叫 API；Register 或 Login 成功後會保存 token。
// 保存 token 後可在多個 goroutine 間共用。
type Client struct {
	BaseURL string
	Token   string
	HTTP    *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *Client) Register(ctx context.Context, email, password, name string) (*dto.AuthResponse, error) {
	var out dto.AuthResponse
	body := dto.RegisterRequest{Email: email, Password: password, Name: name}
	if err := c.do(ctx, http.MethodPost, "/auth/register", body, &out); err != nil {
		return nil, err
	}
	c.Token = out.Token
	return &out, nil
}

func (c *Client) Login(ctx context.Context, email, password string) (*dto.AuthResponse, error) {
	var out dto.AuthResponse
	body := dto.LoginRequest{Email: email, Password: password}
	if err := c.do(ctx, http.MethodPost, "/auth/login", body, &out); err != nil {
		return nil, err
	}
	c.Token = out.Token
	return &out, nil
}

func (c *Client) Me(ctx context.Context) (*dto.MeResponse, error) {
	var out dto.MeResponse
	if err := c.do(ctx, http.MethodGet, "/me", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateWorkspace(ctx context.Context, name, slug string) (*model.Workspace, error) {
	var out model.Workspace
	body := dto.CreateWorkspaceRequest{Name: name, Slug: slug}
	if err := c.do(ctx, http.MethodPost, "/workspaces", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateProject(ctx context.Context, workspaceID, name, key string) (*model.Project, error) {
	var out model.Project
	body := dto.CreateProjectRequest{WorkspaceID: workspaceID, Name: name, Key: key}
	if err := c.do(ctx, http.MethodPost, "/projects", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Board(ctx context.Context, projectID string) (*model.Board, error) {
	var out model.Board
	if err := c.do(ctx, http.MethodGet, "/projects/"+url.PathEscape(projectID)+"/board", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateColumn(ctx context.Context, projectID, name string, order int) (*model.Column, error) {
	var out model.Column
	body := dto.CreateColumnRequest{ProjectID: projectID, Name: name, Order: &order}
	if err := c.do(ctx, http.MethodPost, "/columns", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateTask(ctx context.Context, columnID, title string, description *string) (*model.Task, error) {
	var out model.Task
	body := dto.CreateTaskRequest{ColumnID: columnID, Title: title, Description: description}
	if err := c.do(ctx, http.MethodPost, "/tasks", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateTask 只送出 patch 中有值的欄位
func (c *Client) UpdateTask(ctx context.Context, taskID string, patch model.TaskPatch) (*model.Task, error) {
	body := map[string]any{}
	if patch.ColumnID != nil {
		body["columnId"] = *patch.ColumnID
	}
	if patch.Title != nil {
		body["title"] = *patch.Title
	}
	switch {
	case patch.ClearDescription:
		body["description"] = nil
	case patch.Description != nil:
		body["description"] = *patch.Description
	}

	var out model.Task
	if err := c.do(ctx, http.MethodPatch, "/tasks/"+url.PathEscape(taskID), body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// MoveTask 把任務移到另一欄，請求只帶 columnId
func (c *Client) MoveTask(ctx context.Context, taskID, columnID string) (*model.Task, error) {
	return c.UpdateTask(ctx, taskID, model.TaskPatch{ColumnID: &columnID})
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		buf := new(bytes.Buffer)
		if err := json.NewEncoder(buf).Encode(body); err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = buf
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var e dto.HTTPError
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
		if err := json.Unmarshal(data, &e); err != nil || e.Error == "" {
			e.Error = strings.TrimSpace(string(data))
			if e.Error == "" {
				e.Error = http.StatusText(resp.StatusCode)
			}
		}
		return &APIError{Status: resp.StatusCode, Message: e.Error}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
