package model

import "fmt"

// ErrorKind 翻译失败的归一化分类
type ErrorKind int

const (
	// ErrMissingCredentials 选择了提供方但未配置密钥，不发起网络请求
	ErrMissingCredentials ErrorKind = iota

	// ErrInvalidInput 输入不满足前置条件（空文本、未知提供方）
	ErrInvalidInput

	// ErrNetworkFailure 超时、DNS、TLS、连接中断等，调用方可重试
	ErrNetworkFailure

	// ErrProviderRejected 远端返回了结构化错误（鉴权失败、配额、参数错误）
	ErrProviderRejected

	// ErrMalformedResponse 2xx 响应但 JSON 结构不符合预期
	ErrMalformedResponse

	// ErrCancelled 调用被取代或显式中止，不作为失败展示
	ErrCancelled
)

func (k ErrorKind) String() string {
	switch k {
	case ErrMissingCredentials:
		return "missing_credentials"
	case ErrInvalidInput:
		return "invalid_input"
	case ErrNetworkFailure:
		return "network_failure"
	case ErrProviderRejected:
		return "provider_rejected"
	case ErrMalformedResponse:
		return "malformed_response"
	case ErrCancelled:
		return "cancelled"
	}
	return "unknown"
}

// TranslationError 携带提供方名称与原始错误码，便于用户诊断
type TranslationError struct {
	Kind     ErrorKind
	Provider Provider
	Code     string // 提供方原始错误码，可为空
	Message  string
}

func (e *TranslationError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s: %s (%s) %s", e.Provider, e.Kind, e.Code, e.Message)
	}
	if e.Provider != "" {
		return fmt.Sprintf("%s: %s %s", e.Provider, e.Kind, e.Message)
	}
	return fmt.Sprintf("%s %s", e.Kind, e.Message)
}

// NewTranslationError 构造归一化的翻译错误
func NewTranslationError(kind ErrorKind, p Provider, code, msg string) *TranslationError {
	return &TranslationError{Kind: kind, Provider: p, Code: code, Message: msg}
}

// KindOf 提取错误的分类；非 TranslationError 一律视为网络失败
func KindOf(err error) ErrorKind {
	if err == nil {
		return ErrNetworkFailure
	}
	if te, ok := err.(*TranslationError); ok {
		return te.Kind
	}
	return ErrNetworkFailure
}

// IsCancelled 判断错误是否为取消，界面据此决定不弹错误提示
func IsCancelled(err error) bool {
	te, ok := err.(*TranslationError)
	return ok && te.Kind == ErrCancelled
}
