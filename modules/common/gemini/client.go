package gemini

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"google.golang.org/genai"

	"synthetik-sticker-server/modules/common/apierror"
	"synthetik-sticker-server/modules/common/config"
	"synthetik-sticker-server/modules/common/imagegen"
	"synthetik-sticker-server/modules/common/utils"
	"synthetik-sticker-server/modules/common/vertexai"
)

// Client - Gemini 비전 + 이미지 생성 프로바이더 (Gemini API 또는 Vertex AI 백엔드)
type Client struct {
	genaiClient *genai.Client
	visionModel string
	imageModel  string
}

// NewClient - VERTEXAI_PROJECT가 있으면 Vertex, 아니면 API 키 사용
func NewClient(ctx context.Context, cfg *config.Config) (*Client, error) {
	var (
		client *genai.Client
		err    error
	)

	if cfg.VertexAIProject != "" {
		client, err = vertexai.NewVertexAIClient(ctx, cfg.VertexAIProject, cfg.VertexAILocation)
	} else {
		client, err = genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  cfg.GeminiAPIKey,
			Backend: genai.BackendGeminiAPI,
		})
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	log.Printf("✅ [Gemini] Client initialized (vision: %s, image: %s)", cfg.GeminiVisionModel, cfg.GeminiImageModel)
	return &Client{
		genaiClient: client,
		visionModel: cfg.GeminiVisionModel,
		imageModel:  cfg.GeminiImageModel,
	}, nil
}

// Name - 프로바이더 이름
func (c *Client) Name() string {
	return config.ProviderGemini
}

// Describe - 이미지 분석 (JSONMode면 application/json 응답)
func (c *Client) Describe(ctx context.Context, req imagegen.VisionRequest) (string, error) {
	parts := []*genai.Part{genai.NewPartFromText(req.UserPrompt)}

	if req.ImageDataURL != "" {
		mimeType, data, err := utils.DecodeDataURL(req.ImageDataURL)
		if err != nil {
			return "", apierror.New(apierror.CategoryInternal, "invalid reference image", err)
		}
		parts = append(parts, genai.NewPartFromBytes(data, mimeType))
	}

	genCfg := &genai.GenerateContentConfig{
		Temperature: floatPtr(0.3),
	}
	if req.SystemPrompt != "" {
		genCfg.SystemInstruction = &genai.Content{Parts: []*genai.Part{genai.NewPartFromText(req.SystemPrompt)}}
	}
	if req.JSONMode {
		genCfg.ResponseMIMEType = "application/json"
	}
	if req.MaxTokens > 0 {
		genCfg.MaxOutputTokens = int32(req.MaxTokens)
	}

	result, err := c.genaiClient.Models.GenerateContent(ctx, c.visionModel,
		[]*genai.Content{{Role: genai.RoleUser, Parts: parts}}, genCfg)
	if err != nil {
		return "", wrapError(err)
	}

	var sb strings.Builder
	for _, candidate := range result.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part.Text != "" {
				sb.WriteString(part.Text)
			}
		}
		break
	}
	return sb.String(), nil
}

// GenerateImage - 인라인 이미지 바이트로 1장 생성
func (c *Client) GenerateImage(ctx context.Context, req imagegen.ImageRequest) (*imagegen.ImageResult, error) {
	prompt := req.Prompt
	if req.NegativePrompt != "" {
		prompt += "\n\nAvoid: " + req.NegativePrompt
	}

	result, err := c.genaiClient.Models.GenerateContent(ctx, c.imageModel,
		[]*genai.Content{{Role: genai.RoleUser, Parts: []*genai.Part{genai.NewPartFromText(prompt)}}},
		&genai.GenerateContentConfig{
			ImageConfig: &genai.ImageConfig{
				AspectRatio: "1:1",
			},
			Temperature: floatPtr(0.7),
		},
	)
	if err != nil {
		return nil, wrapError(err)
	}

	for _, candidate := range result.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part.InlineData != nil && len(part.InlineData.Data) > 0 {
				log.Printf("✅ [Gemini] Image generated: %d bytes", len(part.InlineData.Data))
				return &imagegen.ImageResult{
					Data:     part.InlineData.Data,
					MimeType: part.InlineData.MIMEType,
				}, nil
			}
		}
	}

	// 이미지 없이 종료된 경우 (safety 차단 등)
	for _, candidate := range result.Candidates {
		if reason := string(candidate.FinishReason); reason != "" && reason != string(genai.FinishReasonStop) {
			return nil, apierror.New(apierror.CategoryFromText(reason), "no image generated: "+reason, nil)
		}
	}
	return nil, apierror.New(apierror.CategoryInternal, "no image data in response", nil)
}

// wrapError - genai 에러를 파이프라인 분류로 변환
func wrapError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		cat := apierror.CategoryFromText(apiErr.Status + " " + apiErr.Message)
		if cat == apierror.CategoryInternal {
			if byStatus := apierror.CategoryFromStatus(apiErr.Code); byStatus != "" {
				cat = byStatus
			}
		}
		return apierror.New(cat, fmt.Sprintf("gemini error (code %d, status %s)", apiErr.Code, apiErr.Status), err)
	}
	if is429Error(err) {
		return apierror.New(apierror.CategoryRateLimit, "gemini rate limited", err)
	}
	return apierror.New(apierror.CategoryFromText(err.Error()), "gemini request failed", err)
}

// is429Error - 429 Rate Limit 에러인지 확인
func is429Error(err error) bool {
	if err == nil {
		return false
	}
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "429") ||
		strings.Contains(errStr, "resource_exhausted") ||
		strings.Contains(errStr, "rate limit")
}

func floatPtr(f float64) *float32 {
	f32 := float32(f)
	return &f32
}
