package dto

import (
	"ai-course-builder-api/internal/domain/repository"
)

// PageRequest 分页请求参数
type PageRequest struct {
	Page     int `form:"page" json:"page"`
	PageSize int `form:"page_size" json:"page_size"`
}

// ToPagination 规范化为仓储分页参数
func (r *PageRequest) ToPagination() repository.Pagination {
	return repository.NewPagination(r.Page, r.PageSize)
}
