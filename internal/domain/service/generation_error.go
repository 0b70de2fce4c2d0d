package service

import (
	"errors"
	"fmt"
)

// GenerationErrorKind 生成失败类型
type GenerationErrorKind string

const (
	KindRequestFailed     GenerationErrorKind = "request_failed"
	KindMalformedResponse GenerationErrorKind = "malformed_response"
	KindNoJSONFound       GenerationErrorKind = "no_json_found"
	KindAmbiguousJSON     GenerationErrorKind = "ambiguous_json"
	KindJSONParse         GenerationErrorKind = "json_parse"
)

// 可用 errors.Is 匹配的哨兵
var (
	ErrRequestFailed     = &GenerationError{Kind: KindRequestFailed}
	ErrMalformedResponse = &GenerationError{Kind: KindMalformedResponse}
	ErrNoJSONFound       = &GenerationError{Kind: KindNoJSONFound}
	ErrAmbiguousJSON     = &GenerationError{Kind: KindAmbiguousJSON}
	ErrJSONParse         = &GenerationError{Kind: KindJSONParse}
)

// GenerationError 生成调用失败
type GenerationError struct {
	Kind GenerationErrorKind
	// StatusCode 仅 KindRequestFailed 且收到 HTTP 响应时有值
	StatusCode int
	Err        error
}

// NewGenerationError 创建生成错误
func NewGenerationError(kind GenerationErrorKind, err error) *GenerationError {
	return &GenerationError{Kind: kind, Err: err}
}

// RequestFailed 创建带状态码的请求失败错误
func RequestFailed(statusCode int, err error) *GenerationError {
	return &GenerationError{Kind: KindRequestFailed, StatusCode: statusCode, Err: err}
}

func (e *GenerationError) Error() string {
	msg := string(e.Kind)
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.StatusCode)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// Is 按 Kind 比较
func (e *GenerationError) Is(target error) bool {
	t, ok := target.(*GenerationError)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// GenerationKind 返回错误链中的生成失败类型
func GenerationKind(err error) (GenerationErrorKind, bool) {
	var ge *GenerationError
	if errors.As(err, &ge) {
		return ge.Kind, true
	}
	return "", false
}
