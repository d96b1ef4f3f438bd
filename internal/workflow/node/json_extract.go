// Package node 提供工作流节点共享的模型输出处理工具
package node

import (
	"bytes"
	"encoding/json"
	"strings"
)

// ExtractJSONValue 从模型输出中截取第一个完整的 JSON 对象/数组。
// 模型经常在 JSON 前后夹带说明文字或 ``` 代码块围栏；无法定位到合法 JSON 时返回 trim 后的原文，
// 由调用方的解码步骤报错。
func ExtractJSONValue(s string) string {
	raw := strings.TrimSpace(stripCodeFence(s))
	if raw == "" {
		return raw
	}

	start := strings.IndexAny(raw, "{[")
	if start < 0 {
		return raw
	}

	// 用 Decoder 读取恰好一个 JSON 值，避免 LastIndex 误把尾部噪音里的括号算进来
	dec := json.NewDecoder(strings.NewReader(raw[start:]))
	dec.UseNumber()
	var v json.RawMessage
	if err := dec.Decode(&v); err != nil {
		return raw
	}
	return string(bytes.TrimSpace(v))
}

// stripCodeFence 去掉 ```json ... ``` 形式的围栏
func stripCodeFence(s string) string {
	t := strings.TrimSpace(s)
	if !strings.HasPrefix(t, "```") {
		return t
	}
	t = strings.TrimPrefix(t, "```")
	if nl := strings.IndexByte(t, '\n'); nl >= 0 {
		t = t[nl+1:]
	} else {
		return s
	}
	if end := strings.LastIndex(t, "```"); end >= 0 {
		t = t[:end]
	}
	return t
}
