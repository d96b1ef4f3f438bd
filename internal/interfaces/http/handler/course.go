package handler

import (
	"github.com/gin-gonic/gin"

	"ai-course-builder-api/internal/application/course"
	"ai-course-builder-api/internal/interfaces/http/dto"
	"ai-course-builder-api/internal/interfaces/http/middleware"
	apperrors "ai-course-builder-api/pkg/errors"
	"ai-course-builder-api/pkg/logger"
	"ai-course-builder-api/pkg/metrics"
)

// CourseHandler 课程处理器
type CourseHandler struct {
	svc *course.Service
}

// NewCourseHandler 创建课程处理器
func NewCourseHandler(svc *course.Service) *CourseHandler {
	return &CourseHandler{svc: svc}
}

// Generate 生成大纲并创建课程
// @Summary 生成课程
// @Description 根据标题与主题生成大纲，生成失败时使用占位大纲，总是创建课程
// @Tags Courses
// @Accept json
// @Produce json
// @Param body body dto.CreateCourseRequest true "课程信息"
// @Success 201 {object} dto.Response[dto.CourseResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Router /v1/courses/generate [post]
func (h *CourseHandler) Generate(c *gin.Context) {
	var req dto.CreateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}
	in, err := req.ToInput()
	if err != nil {
		dto.BadRequest(c, err.Error())
		return
	}

	created, err := h.svc.Create(c.Request.Context(), middleware.UserID(c), in)
	if err != nil {
		respondError(c, err)
		return
	}

	metrics.CoursesCreatedTotal.Inc()
	logger.Info(logger.WithCourseID(c.Request.Context(), created.ID), "course created",
		"chapters", len(created.Chapters),
	)
	dto.Created(c, dto.ToCourseResponse(created))
}

// List 获取当前用户的课程，按创建时间倒序
func (h *CourseHandler) List(c *gin.Context) {
	var req dto.PageRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		dto.BadRequest(c, "invalid query: "+err.Error())
		return
	}

	result, err := h.svc.List(c.Request.Context(), middleware.UserID(c), req.ToPagination())
	if err != nil {
		respondError(c, err)
		return
	}
	dto.SuccessWithPage(c, dto.ToCourseListResponse(result.Items),
		dto.NewPageMeta(result.Page, result.PageSize, result.Total))
}

// Get 获取课程
func (h *CourseHandler) Get(c *gin.Context) {
	found, err := h.svc.Get(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	dto.Success(c, dto.ToCourseResponse(found))
}

// Update 编辑课程与已有章节
func (h *CourseHandler) Update(c *gin.Context) {
	var req dto.UpdateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	updated, err := h.svc.Update(c.Request.Context(), middleware.UserID(c), c.Param("id"), req.ToInput())
	if err != nil {
		respondError(c, err)
		return
	}
	dto.Success(c, dto.ToCourseResponse(updated))
}

// Patch 以 JSON Patch 编辑课程
// @Accept application/json-patch+json
func (h *CourseHandler) Patch(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil || len(body) == 0 {
		respondError(c, apperrors.ErrInvalidPatch.WithDetail("patch body required"))
		return
	}

	updated, err := h.svc.Patch(c.Request.Context(), middleware.UserID(c), c.Param("id"), body)
	if err != nil {
		respondError(c, err)
		return
	}
	dto.Success(c, dto.ToCourseResponse(updated))
}

// Delete 删除课程
func (h *CourseHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), middleware.UserID(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	dto.Success(c, gin.H{"ok": true})
}

// GenerateChapter 生成单个章节内容
func (h *CourseHandler) GenerateChapter(c *gin.Context) {
	chapter, err := h.svc.GenerateChapter(c.Request.Context(), middleware.UserID(c), c.Param("id"), c.Param("chapterId"))
	if err != nil {
		respondError(c, err)
		return
	}
	dto.Success(c, dto.ToChapterResponse(chapter))
}

// GenerateAllChapters 同步生成全部章节内容
func (h *CourseHandler) GenerateAllChapters(c *gin.Context) {
	updated, err := h.svc.GenerateAllChapters(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	dto.Success(c, dto.ToCourseResponse(updated))
}

// GenerateAllChaptersAsync 投递批量生成任务
func (h *CourseHandler) GenerateAllChaptersAsync(c *gin.Context) {
	courseID := c.Param("id")
	jobID, err := h.svc.EnqueueGenerateAll(c.Request.Context(), middleware.UserID(c), courseID)
	if err != nil {
		respondError(c, err)
		return
	}
	dto.Accepted(c, &dto.GenerationJobResponse{
		JobID:    jobID,
		CourseID: courseID,
		Status:   "queued",
	})
}

// Share 公开课程
func (h *CourseHandler) Share(c *gin.Context) {
	shared, err := h.svc.Share(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	dto.Success(c, dto.ToCourseResponse(shared))
}

// Unshare 取消公开
func (h *CourseHandler) Unshare(c *gin.Context) {
	unshared, err := h.svc.Unshare(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	dto.Success(c, dto.ToCourseResponse(unshared))
}

// GetShared 匿名获取公开课程
func (h *CourseHandler) GetShared(c *gin.Context) {
	shared, err := h.svc.GetShared(c.Request.Context(), c.Param("shareId"))
	if err != nil {
		respondError(c, err)
		return
	}
	dto.Success(c, dto.ToPublicCourseResponse(shared))
}
