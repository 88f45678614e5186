package sticker

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// ComposedPrompt - 이미지 생성 요청에 들어가는 프롬프트 쌍
type ComposedPrompt struct {
	Prompt         string `json:"prompt"`
	NegativePrompt string `json:"negativePrompt"`
}

// 모든 스타일 공통 네거티브
var baseNegatives = []string{
	"text", "words", "letters", "numbers", "writing", "labels", "captions",
	"watermark", "signature", "logo", "blurry", "low quality", "distorted",
	"ugly", "bad anatomy", "extra limbs", "extra people", "extra faces",
	"crowd", "deformed", "disfigured", "mutated",
}

// 변형 인덱스별 힌트 (0번은 원본)
var variationHints = []string{"", "playful version", "cute version", "dynamic version"}

const (
	formatDirective  = "sticker design"
	qualityDirective = "high quality, detailed, professional"
	noTextDirective  = "no text, no words, no letters"
	edgesDirective   = "clean sticker edges"

	// 이 길이를 넘는 커스텀 텍스트는 피사체로 사용
	subjectMinCustomLen = 10
)

// ChooseSubject - 명시 subject > 충분히 긴 커스텀 텍스트 > 스타일 기본 피사체
func ChooseSubject(subject, customText string, key StyleKey) string {
	if s := strings.TrimSpace(subject); s != "" {
		return s
	}
	if c := strings.TrimSpace(customText); utf8.RuneCountInString(c) > subjectMinCustomLen {
		return c
	}
	return DefaultSubject(key)
}

// Compose - 스타일 조각 + 피사체 + 고정 지시문으로 결정적 프롬프트 생성
func Compose(subject string, key StyleKey, customText string, includeFormat bool) ComposedPrompt {
	def := key.Definition()
	return ComposedPrompt{
		Prompt:         buildPrompt(def.PromptModifier, subject, customClause(subject, customText), includeFormat),
		NegativePrompt: NegativePrompt(key),
	}
}

// ComposeCustomOnly - 스타일 조각/네거티브 없이 커스텀 텍스트만 피사체로 사용
func ComposeCustomOnly(customText string, includeFormat bool) ComposedPrompt {
	return ComposedPrompt{
		Prompt:         buildPrompt("", customSubject(customText), "", includeFormat),
		NegativePrompt: strings.Join(baseNegatives, ", "),
	}
}

// Variations - 인덱스별 힌트를 커스텀 절에 덧붙인 count개의 프롬프트
func Variations(subject string, key StyleKey, customText string, customOnly bool, count int) []ComposedPrompt {
	if count < 1 {
		count = 1
	}

	out := make([]ComposedPrompt, 0, count)
	for i := 0; i < count; i++ {
		hint := variationHints[i%len(variationHints)]

		if customOnly {
			out = append(out, ComposedPrompt{
				Prompt:         buildPrompt("", customSubject(customText), hint, true),
				NegativePrompt: strings.Join(baseNegatives, ", "),
			})
			continue
		}

		def := key.Definition()
		custom := joinNonEmpty(", ", customClause(subject, customText), hint)
		out = append(out, ComposedPrompt{
			Prompt:         buildPrompt(def.PromptModifier, subject, custom, true),
			NegativePrompt: NegativePrompt(key),
		})
	}
	return out
}

// NegativePrompt - 공통 네거티브 + 스타일 네거티브
func NegativePrompt(key StyleKey) string {
	parts := append([]string{}, baseNegatives...)
	if def, ok := Lookup(key); ok && def.NegativePrompt != "" {
		for _, n := range strings.Split(def.NegativePrompt, ", ") {
			if n = strings.TrimSpace(n); n != "" {
				parts = append(parts, n)
			}
		}
	}
	return strings.Join(parts, ", ")
}

func customSubject(customText string) string {
	if s := strings.TrimSpace(customText); s != "" {
		return s
	}
	return genericSubject
}

// customClause - 피사체로 이미 쓰인 커스텀 텍스트는 다시 붙이지 않음
func customClause(subject, customText string) string {
	c := strings.TrimSpace(customText)
	if c == "" || c == strings.TrimSpace(subject) {
		return ""
	}
	return c
}

func buildPrompt(modifier, subject, custom string, includeFormat bool) string {
	parts := make([]string, 0, 7)
	if modifier != "" {
		parts = append(parts, modifier)
	}
	if includeFormat {
		parts = append(parts, formatDirective)
	}
	parts = append(parts, "of "+strings.TrimSpace(subject))
	if custom != "" {
		parts = append(parts, custom)
	}
	parts = append(parts, qualityDirective, noTextDirective)
	if includeFormat {
		parts = append(parts, edgesDirective)
	}
	return capitalizeFirst(strings.Join(parts, ", "))
}

func capitalizeFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

func joinNonEmpty(sep string, values ...string) string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return strings.Join(out, sep)
}
