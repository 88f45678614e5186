package vertexai

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"cloud.google.com/go/auth"
	"cloud.google.com/go/auth/credentials"
	"google.golang.org/genai"
)

const cloudPlatformScope = "https://www.googleapis.com/auth/cloud-platform"

// NewVertexAIClient - Vertex AI 백엔드 genai 클라이언트 생성 (환경 변수 자동 처리)
func NewVertexAIClient(ctx context.Context, project, location string) (*genai.Client, error) {
	creds, err := loadCredentials()
	if err != nil {
		return nil, err
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		Backend:     genai.BackendVertexAI,
		Project:     project,
		Location:    location,
		Credentials: creds,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Vertex AI client: %w", err)
	}

	log.Printf("✅ [VertexAI] Client initialized for project=%s, location=%s", project, location)
	return client, nil
}

// loadCredentials - JSON 환경변수 → 파일 경로 → ADC 순서 (ADC는 nil 반환)
func loadCredentials() (*auth.Credentials, error) {
	var credsJSON []byte

	if raw := os.Getenv("VERTEXAI_CREDENTIALS_JSON"); raw != "" {
		log.Println("✅ [VertexAI] Using VERTEXAI_CREDENTIALS_JSON from environment")
		credsJSON = []byte(raw)
	} else if path := os.Getenv("VERTEXAI_CREDENTIALS_PATH"); path != "" {
		log.Printf("✅ [VertexAI] Using credentials from file: %s", path)
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read credentials file: %w", err)
		}
		credsJSON = data
	} else {
		log.Println("⚠️  [VertexAI] No explicit credentials found, using Application Default Credentials")
		return nil, nil
	}

	if !json.Valid(credsJSON) {
		return nil, fmt.Errorf("invalid JSON credentials")
	}

	creds, err := credentials.DetectDefault(&credentials.DetectOptions{
		Scopes:          []string{cloudPlatformScope},
		CredentialsJSON: credsJSON,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load credentials: %w", err)
	}
	return creds, nil
}
