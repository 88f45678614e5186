package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	"synthetik-sticker-server/modules/common/config"
	"synthetik-sticker-server/modules/common/utils"
)

const webpQuality = 90.0

type Client struct {
	baseURL    string
	serviceKey string
	bucket     string
	httpClient *http.Client
}

// NewClient - Storage 클라이언트 생성 (아카이브 비활성이면 nil)
func NewClient(cfg *config.Config, httpClient *http.Client) *Client {
	if !cfg.StickerArchiveEnabled || !cfg.SupabaseEnabled() {
		return nil
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.SupabaseURL, "/"),
		serviceKey: cfg.SupabaseServiceKey,
		bucket:     cfg.SupabaseStorageBucket,
		httpClient: httpClient,
	}
}

// UploadSticker - WebP로 변환 후 stickers/<batchID>/<index>.webp 로 업로드
func (c *Client) UploadSticker(ctx context.Context, imageData []byte, batchID string, index int) (string, int64, error) {
	webpData, err := utils.ConvertToWebP(imageData, webpQuality)
	if err != nil {
		return "", 0, fmt.Errorf("failed to convert sticker to WebP: %w", err)
	}

	filePath := fmt.Sprintf("stickers/%s/%d.webp", batchID, index)
	uploadURL := fmt.Sprintf("%s/storage/v1/object/%s/%s", c.baseURL, c.bucket, filePath)

	log.Printf("📤 Uploading WebP sticker to storage: %s", filePath)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, uploadURL, bytes.NewReader(webpData))
	if err != nil {
		return "", 0, fmt.Errorf("failed to create upload request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.serviceKey)
	req.Header.Set("Content-Type", "image/webp")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", 0, fmt.Errorf("failed to upload sticker: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", 0, fmt.Errorf("upload failed with status %d: %s", resp.StatusCode, string(body))
	}

	size := int64(len(webpData))
	log.Printf("✅ WebP sticker uploaded: %s (%d bytes)", filePath, size)
	return filePath, size, nil
}

// PublicURL - 공개 버킷 기준 객체 URL
func (c *Client) PublicURL(filePath string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", c.baseURL, c.bucket, filePath)
}
