package database

import (
	"fmt"
	"log"
	"time"

	"github.com/supabase-community/supabase-go"

	"synthetik-sticker-server/modules/common/config"
)

// GenerationRecord - 생성 1건 기록 (sticker_generations 테이블 1행)
type GenerationRecord struct {
	BatchID        string    `json:"batch_id"`
	SessionID      string    `json:"session_id,omitempty"`
	StyleKey       string    `json:"style_key"`
	StyleInput     string    `json:"style_input"`
	Provider       string    `json:"provider"`
	Prompt         string    `json:"prompt"`
	NegativePrompt string    `json:"negative_prompt"`
	HasReference   bool      `json:"has_reference"`
	AnalysisSource string    `json:"analysis_source,omitempty"`
	Requested      int       `json:"requested_count"`
	Generated      int       `json:"generated_count"`
	Status         string    `json:"status"`
	ErrorCategory  string    `json:"error_category,omitempty"`
	ArchivePaths   []string  `json:"archive_paths,omitempty"`
	DurationMs     int64     `json:"duration_ms"`
	CreatedAt      time.Time `json:"created_at"`
}

const (
	StatusCompleted = "completed"
	StatusPartial   = "partial"
	StatusFailed    = "failed"
)

type Client struct {
	supabase *supabase.Client
	table    string
}

// NewClient - Database 클라이언트 생성 (Supabase 미설정이면 nil)
func NewClient(cfg *config.Config) (*Client, error) {
	if !cfg.SupabaseEnabled() {
		log.Printf("⚠️  Supabase not configured - generation log disabled")
		return nil, nil
	}

	supabaseClient, err := supabase.NewClient(cfg.SupabaseURL, cfg.SupabaseServiceKey, &supabase.ClientOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to create Supabase client: %w", err)
	}

	return &Client{
		supabase: supabaseClient,
		table:    cfg.GenerationsTable,
	}, nil
}

// InsertGeneration - 생성 기록 저장
func (c *Client) InsertGeneration(record GenerationRecord) error {
	if c == nil {
		return nil
	}

	_, _, err := c.supabase.From(c.table).
		Insert(record, false, "", "", "").
		Execute()
	if err != nil {
		return fmt.Errorf("failed to insert generation: %w", err)
	}

	log.Printf("✅ Generation %s logged (%s, %d/%d)", record.BatchID, record.Status, record.Generated, record.Requested)
	return nil
}
