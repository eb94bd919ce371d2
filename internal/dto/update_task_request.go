// File: internal/dto/update_task_request.go
package dto

import (
	"task-board/internal/apperr"
	"task-board/internal/model"
)

// UpdateTaskRequest 只套用請求中出現的欄位
// swagger:model dto.UpdateTaskRequest
type UpdateTaskRequest struct {
	ColumnID    OptionalString `json:"columnId" swaggertype:"string" example:"7a1c2d3e-4f50-4617-8a9b-0c1d2e3f4a5b"`
	Title       OptionalString `json:"title" swaggertype:"string" example:"Renamed task"`
	Description OptionalString `json:"description" swaggertype:"string" example:"null 會清除描述"`
}

// Patch 轉為 model.TaskPatch；columnId、title 不可為 null，空字串照樣套用
func (r UpdateTaskRequest) Patch() (model.TaskPatch, error) {
	var p model.TaskPatch
	if r.ColumnID.Set {
		if r.ColumnID.Null {
			return p, apperr.Validation("columnId must not be null")
		}
		p.ColumnID = r.ColumnID.Ptr()
	}
	if r.Title.Set {
		if r.Title.Null {
			return p, apperr.Validation("title must not be null")
		}
		p.Title = r.Title.Ptr()
	}
	if r.Description.Set {
		if r.Description.Null {
			p.ClearDescription = true
		} else {
			p.Description = r.Description.Ptr()
		}
	}
	return p, nil
}
