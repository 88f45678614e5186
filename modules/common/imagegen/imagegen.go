package imagegen

import "context"

// VisionRequest - 멀티모달 분석 요청 (이미지 + 지시문)
type VisionRequest struct {
	SystemPrompt string
	UserPrompt   string
	ImageDataURL string // data:image/...;base64,...
	JSONMode     bool
	MaxTokens    int
}

// ImageRequest - 이미지 생성 요청 (1회 호출 = 1장)
type ImageRequest struct {
	Prompt         string
	NegativePrompt string
}

// ImageResult - 생성 결과 (URL 또는 바이트 중 하나 이상)
type ImageResult struct {
	URL           string
	Data          []byte
	MimeType      string
	RevisedPrompt string
}

// VisionClient - 이미지 분석 프로바이더
type VisionClient interface {
	Describe(ctx context.Context, req VisionRequest) (string, error)
}

// ImageClient - 이미지 생성 프로바이더
type ImageClient interface {
	GenerateImage(ctx context.Context, req ImageRequest) (*ImageResult, error)
}

// Provider - 분석 + 생성을 모두 제공하는 클라이언트
type Provider interface {
	VisionClient
	ImageClient
	Name() string
}
