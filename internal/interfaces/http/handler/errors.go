package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ai-course-builder-api/internal/interfaces/http/dto"
	apperrors "ai-course-builder-api/pkg/errors"
	"ai-course-builder-api/pkg/logger"
)

// respondError 将应用错误映射为 HTTP 响应，5xx 记录错误日志
func respondError(c *gin.Context, err error) {
	appErr := apperrors.AsAppError(err)
	status := appErr.HTTPStatus
	if status == 0 {
		status = http.StatusInternalServerError
	}

	if status >= http.StatusInternalServerError {
		logger.Error(c.Request.Context(), "request failed", err,
			"path", c.FullPath(),
			"code", appErr.Code,
		)
		dto.ErrorWithDetail(c, status, appErr.Message, &dto.ErrorDetail{ErrorCode: string(appErr.Code)})
		return
	}

	dto.ErrorWithDetail(c, status, appErr.Message, &dto.ErrorDetail{
		ErrorCode: string(appErr.Code),
		Details:   appErr.Detail,
	})
}
