package openai

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"synthetik-sticker-server/modules/common/apierror"
	"synthetik-sticker-server/modules/common/config"
	"synthetik-sticker-server/modules/common/imagegen"
)

// Client - OpenAI 비전(gpt-4o) + 이미지 생성(dall-e-3) 프로바이더
type Client struct {
	client      *openai.Client
	visionModel string
	imageModel  string
	size        string
	quality     string
	style       string
}

// NewClient - 프로세스 시작 시 1회 생성 후 주입
func NewClient(cfg *config.Config, extra ...option.RequestOption) *Client {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.OpenAIAPIKey),
		option.WithMaxRetries(0), // 실패는 재시도 없이 그대로 보고
	}
	if cfg.OpenAIBaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.OpenAIBaseURL))
	}
	opts = append(opts, extra...)

	client := openai.NewClient(opts...)
	log.Printf("✅ [OpenAI] Client initialized (vision: %s, image: %s)", cfg.OpenAIVisionModel, cfg.OpenAIImageModel)

	return &Client{
		client:      &client,
		visionModel: cfg.OpenAIVisionModel,
		imageModel:  cfg.OpenAIImageModel,
		size:        cfg.ImageSize,
		quality:     cfg.ImageQuality,
		style:       cfg.ImageStyle,
	}
}

// Name - 프로바이더 이름
func (c *Client) Name() string {
	return config.ProviderOpenAI
}

// Describe - 이미지 + 지시문으로 chat completion 호출, 텍스트 응답 반환
func (c *Client) Describe(ctx context.Context, req imagegen.VisionRequest) (string, error) {
	var messages []openai.ChatCompletionMessageParamUnion
	if req.SystemPrompt != "" {
		messages = append(messages, openai.SystemMessage(req.SystemPrompt))
	}

	parts := []openai.ChatCompletionContentPartUnionParam{
		openai.TextContentPart(req.UserPrompt),
	}
	if req.ImageDataURL != "" {
		parts = append(parts, openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{
			URL:    req.ImageDataURL,
			Detail: "high",
		}))
	}
	messages = append(messages, openai.ChatCompletionMessageParamUnion{
		OfUser: &openai.ChatCompletionUserMessageParam{
			Content: openai.ChatCompletionUserMessageParamContentUnion{
				OfArrayOfContentParts: parts,
			},
		},
	})

	params := openai.ChatCompletionNewParams{
		Model:    c.visionModel,
		Messages: messages,
	}
	if req.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(req.MaxTokens))
	}
	if req.JSONMode {
		params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &openai.ResponseFormatJSONObjectParam{
				Type: "json_object",
			},
		}
	}

	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", wrapError(err)
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}

// GenerateImage - dall-e-3 1장 생성 (n=1, URL 응답)
func (c *Client) GenerateImage(ctx context.Context, req imagegen.ImageRequest) (*imagegen.ImageResult, error) {
	params := openai.ImageGenerateParams{
		Model:          openai.ImageModel(c.imageModel),
		Prompt:         req.Prompt,
		N:              openai.Int(1),
		Size:           openai.ImageGenerateParamsSize(c.size),
		ResponseFormat: openai.ImageGenerateParamsResponseFormat("url"),
	}
	if c.quality != "" {
		params.Quality = openai.ImageGenerateParamsQuality(c.quality)
	}
	if c.style != "" {
		params.Style = openai.ImageGenerateParamsStyle(c.style)
	}

	resp, err := c.client.Images.Generate(ctx, params)
	if err != nil {
		return nil, wrapError(err)
	}
	if len(resp.Data) == 0 {
		return nil, apierror.New(apierror.CategoryInternal, "no image data in response", nil)
	}

	img := resp.Data[0]
	if img.URL == "" && img.B64JSON == "" {
		return nil, apierror.New(apierror.CategoryInternal, "empty image in response", nil)
	}

	result := &imagegen.ImageResult{
		URL:           img.URL,
		RevisedPrompt: img.RevisedPrompt,
	}
	if img.B64JSON != "" {
		data, err := base64.StdEncoding.DecodeString(img.B64JSON)
		if err != nil {
			return nil, apierror.New(apierror.CategoryInternal, "invalid b64_json in response", err)
		}
		result.MimeType = "image/png"
		result.Data = data
	}
	return result, nil
}

// wrapError - OpenAI API 에러를 파이프라인 분류로 변환
func wrapError(err error) error {
	if err == nil {
		return nil
	}

	var apiErr *openai.Error
	if !errors.As(err, &apiErr) {
		// 네트워크 에러 등은 메시지 패턴으로 분류
		return apierror.New(apierror.CategoryFromText(err.Error()), "openai request failed", err)
	}

	return apierror.New(categorize(apiErr.StatusCode, apiErr.Code, apiErr.Type, apiErr.Message),
		fmt.Sprintf("openai error (status %d, code %s)", apiErr.StatusCode, apiErr.Code), err)
}

// categorize - 에러 코드 → 메시지 패턴 → 상태 코드 순으로 판단
func categorize(status int, code, errType, message string) apierror.Category {
	switch strings.ToLower(code) {
	case "insufficient_quota", "billing_hard_limit_reached", "billing_not_active":
		return apierror.CategoryQuota
	case "content_policy_violation", "moderation_blocked":
		return apierror.CategoryContentPolicy
	case "rate_limit_exceeded":
		return apierror.CategoryRateLimit
	}

	if cat := apierror.CategoryFromText(code + " " + errType + " " + message); cat != apierror.CategoryInternal {
		return cat
	}
	if cat := apierror.CategoryFromStatus(status); cat != "" {
		return cat
	}
	return apierror.CategoryInternal
}
