package node

import (
	"encoding/json"
	"fmt"

	"bookforge-api/internal/domain/service"
)

// ExtractJSONObject 从模型输出中截取唯一的顶层 JSON 对象。
//
// 扫描时跟踪括号深度，并识别字符串字面量与转义，字符串中的花括号不计入深度。
// 收集所有平衡的顶层 {...} 片段，跳过无法解析的片段：
//   - 没有任何片段：ErrNoJSONFound
//   - 有片段但都无法解析：ErrJSONParse
//   - 多个可解析且内容不同的片段：ErrAmbiguousJSON
func ExtractJSONObject(text string) (string, error) {
	spans := balancedObjectSpans(text)
	if len(spans) == 0 {
		return "", service.NewGenerationError(service.KindNoJSONFound, fmt.Errorf("no balanced json object in %d bytes of output", len(text)))
	}

	var found string
	valid := 0
	for _, span := range spans {
		if !json.Valid([]byte(span)) {
			continue
		}
		if valid > 0 && span == found {
			continue
		}
		valid++
		found = span
	}

	switch valid {
	case 0:
		return "", service.NewGenerationError(service.KindJSONParse, fmt.Errorf("%d candidate objects, none valid", len(spans)))
	case 1:
		return found, nil
	default:
		return "", service.NewGenerationError(service.KindAmbiguousJSON, fmt.Errorf("%d distinct json objects in output", valid))
	}
}

// balancedObjectSpans 返回所有平衡的顶层对象片段。
// 未闭合的 '{' 会被跳过，从下一个字符继续扫描。
func balancedObjectSpans(s string) []string {
	var spans []string
	for i := 0; i < len(s); {
		if s[i] != '{' {
			i++
			continue
		}
		end := matchingBrace(s, i)
		if end < 0 {
			i++
			continue
		}
		spans = append(spans, s[i:end+1])
		i = end + 1
	}
	return spans
}

func matchingBrace(s string, start int) int {
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		ch := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}
