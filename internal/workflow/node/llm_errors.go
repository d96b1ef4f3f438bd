package node

import "strings"

// responseFormatMarkers 各家 OpenAI 兼容网关拒绝 response_format 参数时的常见报错片段
var responseFormatMarkers = []string{
	"response_format",
	"response_mime_type",
	"json_object",
	"json_schema",
	"response_schema",
}

// IsResponseFormatUnsupportedError 判断模型服务是否因为不支持 JSON 输出约束而拒绝请求。
// 命中时调用方应去掉 response_format 重试一次，仅依赖提示词约束输出。
func IsResponseFormatUnsupportedError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, marker := range responseFormatMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return strings.Contains(msg, "unknown parameter") && strings.Contains(msg, "response")
}
