package utils

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/gif"  // GIF 디코더 등록
	_ "image/jpeg" // JPEG 디코더 등록
	_ "image/png"  // PNG 디코더 등록
	"io"
	"log"
	"net/http"
	"strings"
	"unicode"

	_ "github.com/kolesa-team/go-webp/decoder" // WebP 디코더 등록
	"github.com/kolesa-team/go-webp/encoder"
	"github.com/kolesa-team/go-webp/webp"
)

const dataURLMarker = ";base64,"

// MaxImageBytes - 원격 이미지 최대 크기 (25MB)
const MaxImageBytes = 25 << 20

// CleanDataURL - data URL이면 페이로드 공백 제거, raw base64면 jpeg data URL로 감싸기
func CleanDataURL(raw string) string {
	if strings.HasPrefix(raw, "data:image/") {
		if idx := strings.Index(raw, ","); idx > 0 {
			return raw[:idx+1] + stripWhitespace(raw[idx+1:])
		}
	}
	return "data:image/jpeg;base64," + stripWhitespace(raw)
}

// DecodeDataURL - data URL을 MIME 타입과 바이트로 분리
func DecodeDataURL(dataURL string) (string, []byte, error) {
	mimeType := "image/jpeg"
	payload := dataURL

	if idx := strings.Index(dataURL, dataURLMarker); idx > 0 && strings.HasPrefix(dataURL, "data:") {
		mimeType = dataURL[len("data:"):idx]
		payload = dataURL[idx+len(dataURLMarker):]
	}

	data, err := base64.StdEncoding.DecodeString(stripWhitespace(payload))
	if err != nil {
		return "", nil, fmt.Errorf("failed to decode base64 image: %w", err)
	}
	return mimeType, data, nil
}

// ToDataURL - 바이트를 data URL로 변환
func ToDataURL(mimeType string, data []byte) string {
	if mimeType == "" {
		mimeType = "image/png"
	}
	return "data:" + mimeType + dataURLMarker + base64.StdEncoding.EncodeToString(data)
}

// ConvertImageToBase64 - 이미지 바이너리를 base64로 변환
func ConvertImageToBase64(imageData []byte) string {
	return base64.StdEncoding.EncodeToString(imageData)
}

// ConvertToWebP - PNG/JPEG/WebP 바이너리를 WebP로 재인코딩
func ConvertToWebP(imageData []byte, quality float32) ([]byte, error) {
	img, format, err := image.Decode(bytes.NewReader(imageData))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	options, err := encoder.NewLossyEncoderOptions(encoder.PresetDefault, quality)
	if err != nil {
		return nil, fmt.Errorf("failed to create WebP encoder options: %w", err)
	}

	var buf bytes.Buffer
	if err := webp.Encode(&buf, img, options); err != nil {
		return nil, fmt.Errorf("failed to encode WebP: %w", err)
	}

	log.Printf("🔄 %s converted to WebP: %d bytes → %d bytes", format, len(imageData), buf.Len())
	return buf.Bytes(), nil
}

// FetchError - 원격 이미지 응답이 2xx가 아님
type FetchError struct {
	StatusCode int
	URL        string
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("failed to fetch image: status %d", e.StatusCode)
}

// Fetcher - 원격 이미지 다운로드
type Fetcher struct {
	client *http.Client
}

// NewFetcher - client가 nil이면 http.DefaultClient 사용
func NewFetcher(client *http.Client) *Fetcher {
	if client == nil {
		client = http.DefaultClient
	}
	return &Fetcher{client: client}
}

// Fetch - URL에서 이미지 바이트와 Content-Type 가져오기
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, "", &FetchError{StatusCode: resp.StatusCode, URL: url}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxImageBytes+1))
	if err != nil {
		return nil, "", fmt.Errorf("failed to read image data: %w", err)
	}
	if len(data) > MaxImageBytes {
		return nil, "", fmt.Errorf("image exceeds %d bytes", MaxImageBytes)
	}

	return data, resp.Header.Get("Content-Type"), nil
}

// TruncateString - 로그용 문자열 자르기
func TruncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}

func stripWhitespace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}
