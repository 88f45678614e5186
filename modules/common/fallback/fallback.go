package fallback

import (
	"encoding/json"
	"strconv"
	"strings"
)

// 분석 실패 시 대체 설명 (정책상 안전한 일반 문구)
const (
	EmptyDescription   = "a subject in a simple setting"
	RefusalDescription = "a person with warm expression in casual setting"
	ErrorDescription   = "a subject in a casual setting"
)

var refusalMarkers = []string{"i can't", "i cannot", "sorry", "not able to"}

// ContainsRefusal - 모델 거절 문구 포함 여부 (대소문자 무시)
func ContainsRefusal(text string) bool {
	lower := strings.ToLower(text)
	for _, marker := range refusalMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

// SafeString returns a trimmed string or the provided fallback.
func SafeString(value interface{}, fallback string) string {
	if s, ok := value.(string); ok {
		s = strings.TrimSpace(s)
		if s != "" {
			return s
		}
	}
	return fallback
}

// SafeInt converts common number shapes into int with a fallback.
func SafeInt(value interface{}, fallback int) int {
	switch v := value.(type) {
	case float64:
		if v > 0 {
			return int(v)
		}
	case float32:
		if v > 0 {
			return int(v)
		}
	case int:
		if v > 0 {
			return v
		}
	case int64:
		if v > 0 {
			return int(v)
		}
	case json.Number:
		if n, err := strconv.Atoi(v.String()); err == nil && n > 0 {
			return n
		}
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}
