package apierror

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Category - 파이프라인 에러 분류
type Category string

const (
	CategoryConfig        Category = "config"
	CategoryValidation    Category = "validation"
	CategoryContentPolicy Category = "content_policy"
	CategoryQuota         Category = "quota"
	CategoryRateLimit     Category = "rate_limit"
	CategoryUsageLimit    Category = "usage_limit"
	CategoryInternal      Category = "internal"
)

// Error - 분류된 에러 (Cause는 로그용, 사용자에게 노출 안 함)
type Error struct {
	Cat   Category
	Msg   string
	Hint  string
	Cause error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Cause)
	}
	return e.Msg
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// New - 분류된 에러 생성
func New(cat Category, msg string, cause error) *Error {
	return &Error{Cat: cat, Msg: msg, Cause: cause}
}

// Validation - 필수 필드 누락 등 (msg는 응답 제목, hint는 안내 문구)
func Validation(msg, hint string) *Error {
	return &Error{Cat: CategoryValidation, Msg: msg, Hint: hint}
}

// Config - 설정 누락
func Config(msg string) *Error {
	return &Error{Cat: CategoryConfig, Msg: msg}
}

// Classify - 에러 체인에서 분류 추출, 없으면 메시지 패턴으로 판단
func Classify(err error) *Error {
	if err == nil {
		return nil
	}

	var ce *Error
	if errors.As(err, &ce) {
		return ce
	}

	return &Error{Cat: CategoryFromText(err.Error()), Msg: "generation failed", Cause: err}
}

// CategoryFromText - 업스트림 메시지 패턴 기반 분류
func CategoryFromText(text string) Category {
	lower := strings.ToLower(text)
	switch {
	case containsAny(lower, "billing", "payment", "insufficient_quota"):
		return CategoryQuota
	case containsAny(lower, "nsfw", "safety", "content_policy", "content policy"):
		return CategoryContentPolicy
	case containsAny(lower, "rate limit", "rate_limit", "429"):
		return CategoryRateLimit
	default:
		return CategoryInternal
	}
}

// CategoryFromStatus - HTTP 상태 코드 기반 분류 (판단 불가 시 빈 문자열)
func CategoryFromStatus(status int) Category {
	switch status {
	case http.StatusPaymentRequired:
		return CategoryQuota
	case http.StatusTooManyRequests:
		return CategoryRateLimit
	default:
		return ""
	}
}

// Body - 클라이언트 응답용 제목/메시지
type Body struct {
	Status  int
	Error   string
	Message string
}

var bodies = map[Category]Body{
	CategoryConfig: {
		Status:  http.StatusInternalServerError,
		Error:   "API key not configured",
		Message: "The image generation service is not configured. Please contact the administrator.",
	},
	CategoryValidation: {
		Status:  http.StatusBadRequest,
		Error:   "Missing required field: style",
		Message: "Please select a style for your sticker",
	},
	CategoryContentPolicy: {
		Status:  http.StatusBadRequest,
		Error:   "Content policy violation",
		Message: "Your prompt was flagged by content policy. Please try a different description.",
	},
	CategoryQuota: {
		Status:  http.StatusPaymentRequired,
		Error:   "API payment required",
		Message: "Please add credits at platform.openai.com/account/billing to generate images.",
	},
	CategoryRateLimit: {
		Status:  http.StatusTooManyRequests,
		Error:   "Rate limit exceeded",
		Message: "Too many requests. Please wait a moment and try again.",
	},
	CategoryUsageLimit: {
		Status:  http.StatusTooManyRequests,
		Error:   "Generation limit reached",
		Message: "You've reached the generation limit for this session. Please try again later.",
	},
	CategoryInternal: {
		Status:  http.StatusInternalServerError,
		Error:   "Failed to generate any images",
		Message: "An error occurred during generation. Please try again.",
	},
}

// BodyFor - 분류별 응답 (Validation은 에러 메시지/힌트로 덮어씀)
func BodyFor(e *Error) Body {
	if e == nil {
		return bodies[CategoryInternal]
	}
	body, ok := bodies[e.Cat]
	if !ok {
		body = bodies[CategoryInternal]
	}
	if e.Cat == CategoryValidation {
		if e.Msg != "" {
			body.Error = e.Msg
		}
		if e.Hint != "" {
			body.Message = e.Hint
		}
	}
	return body
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
