package handler

import (
	"github.com/gin-gonic/gin"

	"ai-course-builder-api/internal/application/course"
	"ai-course-builder-api/internal/application/export"
	"ai-course-builder-api/internal/domain/entity"
	"ai-course-builder-api/internal/interfaces/http/dto"
	"ai-course-builder-api/internal/interfaces/http/middleware"
)

// ExportHandler 导出处理器
type ExportHandler struct {
	courses *course.Service
}

// NewExportHandler 创建导出处理器
func NewExportHandler(courses *course.Service) *ExportHandler {
	return &ExportHandler{courses: courses}
}

// JSON 以 JSON 附件导出课程
func (h *ExportHandler) JSON(c *gin.Context) {
	h.export(c, "application/json", export.JSON)
}

// PDF 以 PDF 附件导出课程
func (h *ExportHandler) PDF(c *gin.Context) {
	h.export(c, "application/pdf", export.PDF)
}

func (h *ExportHandler) export(c *gin.Context, contentType string, render func(*entity.Course) ([]byte, string, error)) {
	found, err := h.courses.Get(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	data, filename, err := render(found)
	if err != nil {
		respondError(c, err)
		return
	}
	dto.Attachment(c, contentType, filename, data)
}
