// Package export 将课程导出为 JSON 或 PDF 附件
package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"

	"github.com/go-pdf/fpdf"

	"ai-course-builder-api/internal/domain/entity"
	apperrors "ai-course-builder-api/pkg/errors"
	"ai-course-builder-api/pkg/metrics"
)

// 导出格式
const (
	FormatJSON = "json"
	FormatPDF  = "pdf"
)

var unsafeFilenameChars = regexp.MustCompile(`(?i)[^a-z0-9_-]+`)

// Filename 由课程标题生成附件文件名，非法字符序列替换为下划线
func Filename(title, ext string) string {
	name := unsafeFilenameChars.ReplaceAllString(title, "_")
	if name == "" {
		name = "course"
	}
	return name + "." + ext
}

// JSON 导出缩进格式的课程文档
func JSON(course *entity.Course) ([]byte, string, error) {
	data, err := json.MarshalIndent(course, "", "  ")
	if err != nil {
		return nil, "", apperrors.ErrExportFailed.WithError(err)
	}
	metrics.CourseExportsTotal.WithLabelValues(FormatJSON).Inc()
	return data, Filename(course.Title, FormatJSON), nil
}

// PDF 排版参数，单位 pt
const (
	pdfMargin     = 50
	lineHeightPct = 1.3
)

// PDF 导出课程 PDF：标题、主题、描述，随后逐章输出正文、讲解、代码示例与参考链接
func PDF(course *entity.Course) ([]byte, string, error) {
	pdf := fpdf.New("P", "pt", "A4", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(true, pdfMargin)
	pdf.SetTitle(course.Title, true)
	pdf.AddPage()

	tr := pdf.UnicodeTranslatorFromDescriptor("")
	write := func(family, style string, size float64, text string) {
		pdf.SetFont(family, style, size)
		pdf.MultiCell(0, size*lineHeightPct, tr(text), "", "L", false)
	}
	gap := func(lines float64) {
		pdf.Ln(12 * lineHeightPct * lines)
	}

	write("Helvetica", "U", 20, course.Title)
	gap(0.5)
	write("Helvetica", "", 12, "Topic: "+course.Topic)
	if course.Description != "" {
		gap(0.5)
		write("Helvetica", "", 12, course.Description)
	}
	gap(1)

	for i, ch := range course.Chapters {
		write("Helvetica", "", 16, fmt.Sprintf("%d. %s", i+1, ch.Title))
		if ch.Content != "" {
			gap(0.25)
			write("Helvetica", "", 12, ch.Content)
		}
		if ch.Explanation != "" {
			gap(0.25)
			write("Helvetica", "", 12, "Explanation: "+ch.Explanation)
		}
		if ch.CodeExample != "" {
			gap(0.25)
			write("Helvetica", "", 12, "Code Example:")
			write("Courier", "", 10, ch.CodeExample)
		}
		if len(ch.References) > 0 {
			gap(0.25)
			write("Helvetica", "", 12, "References:")
			for _, ref := range ch.References {
				write("Helvetica", "", 10, "- "+ref)
			}
		}
		gap(1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", apperrors.ErrExportFailed.WithError(err)
	}
	metrics.CourseExportsTotal.WithLabelValues(FormatPDF).Inc()
	return buf.Bytes(), Filename(course.Title, FormatPDF), nil
}
