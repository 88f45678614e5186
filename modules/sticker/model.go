package sticker

import "time"

const (
	MinVariations = 1
	MaxVariations = 4
)

// GenerateRequest - POST /api/generate 요청 바디
type GenerateRequest struct {
	Style              string `json:"style"`
	CustomPrompt       string `json:"customPrompt,omitempty"`
	Subject            string `json:"subject,omitempty"`
	NumberOfVariations *int   `json:"numberOfVariations,omitempty"`
	ImageBase64        string `json:"imageBase64,omitempty"`
	CustomPromptOnly   bool   `json:"customPromptOnly,omitempty"`
	SessionID          string `json:"sessionId,omitempty"`
}

// VariationCount - 요청 개수를 [1, 4]로 보정 (없거나 0 이하면 1)
func (r *GenerateRequest) VariationCount() int {
	if r.NumberOfVariations == nil || *r.NumberOfVariations < MinVariations {
		return MinVariations
	}
	if *r.NumberOfVariations > MaxVariations {
		return MaxVariations
	}
	return *r.NumberOfVariations
}

// GeneratedDesign - 생성된 스티커 1장
type GeneratedDesign struct {
	ID            int       `json:"id"`
	URL           string    `json:"url"`
	Base64        string    `json:"base64"`
	Prompt        string    `json:"prompt"`
	Style         string    `json:"style"`
	CreatedAt     time.Time `json:"createdAt"`
	RevisedPrompt string    `json:"revisedPrompt,omitempty"`
}

// GenerateResponse - 생성 응답 (성공/실패 공통)
type GenerateResponse struct {
	Success bool              `json:"success"`
	Images  []GeneratedDesign `json:"images,omitempty"`
	Error   string            `json:"error,omitempty"`
	Message string            `json:"message,omitempty"`
}

// StylesResponse - GET /api/styles
type StylesResponse struct {
	Success bool              `json:"success"`
	Styles  []StyleDefinition `json:"styles"`
}

// RecentStylesResponse - GET /api/styles/recent
type RecentStylesResponse struct {
	Success bool              `json:"success"`
	Styles  []StyleDefinition `json:"styles"`
}
