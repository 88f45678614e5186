package sticker

import (
	"context"
	"encoding/base64"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"synthetik-sticker-server/modules/common/apierror"
	"synthetik-sticker-server/modules/common/database"
	"synthetik-sticker-server/modules/common/imagegen"
	"synthetik-sticker-server/modules/common/progress"
	"synthetik-sticker-server/modules/common/utils"
	"synthetik-sticker-server/modules/session"
)

const customArtisticHint = "custom artistic"

// SessionStore - 세션 사용량 + 최근 스타일
type SessionStore interface {
	CheckUsage(ctx context.Context, sessionID string) (*session.Usage, bool, error)
	IncrementUsage(ctx context.Context, sessionID string, generated int) (*session.Usage, error)
	RecordStyle(ctx context.Context, sessionID, styleKey string) error
	RecentStyles(ctx context.Context, sessionID string) ([]string, error)
}

// GenerationLogger - 생성 기록 저장소
type GenerationLogger interface {
	InsertGeneration(record database.GenerationRecord) error
}

// Archiver - 생성 결과 보관
type Archiver interface {
	UploadSticker(ctx context.Context, imageData []byte, batchID string, index int) (string, int64, error)
}

// Deps - 서비스 구성 요소. Provider 외에는 모두 optional
type Deps struct {
	Provider imagegen.Provider
	Fetcher  ImageFetcher
	Sessions SessionStore
	Logger   GenerationLogger
	Archiver Archiver
	Progress progress.Publisher
}

type Service struct {
	provider     imagegen.Provider
	analyzer     *Analyzer
	orchestrator *Orchestrator
	sessions     SessionStore
	logger       GenerationLogger
	archiver     Archiver
	progress     progress.Publisher

	now        func() time.Time
	newBatchID func() string
	// 응답 이후 작업 실행 방식 (테스트에서 동기 실행으로 교체)
	background func(func())
}

func NewService(d Deps) *Service {
	if d.Provider == nil {
		log.Println("❌ [Sticker] No image provider configured")
		return nil
	}

	orchestrator := NewOrchestrator(d.Provider, d.Fetcher)
	s := &Service{
		provider:     d.Provider,
		analyzer:     NewAnalyzer(d.Provider),
		orchestrator: orchestrator,
		sessions:     d.Sessions,
		logger:       d.Logger,
		archiver:     d.Archiver,
		progress:     d.Progress,
		now:          time.Now,
		newBatchID:   func() string { return uuid.New().String() },
		background:   func(f func()) { go f() },
	}
	orchestrator.now = func() time.Time { return s.now() }

	log.Printf("✅ [Sticker] Service initialized (provider: %s)", d.Provider.Name())
	return s
}

// plan - 요청 1건의 해석 결과
type plan struct {
	key       StyleKey
	styleName string
	count     int
	prompts   []ComposedPrompt
	source    DescriptionSource
}

// Generate - 스타일 해석 → (참고 이미지 분석) → 프롬프트 → N장 동시 생성
func (s *Service) Generate(ctx context.Context, req *GenerateRequest) (*GenerateResponse, error) {
	if strings.TrimSpace(req.Style) == "" {
		return nil, apierror.Validation("Missing required field: style", "Please select a style for your sticker")
	}

	started := s.now()
	batchID := s.newBatchID()
	hasImage := strings.TrimSpace(req.ImageBase64) != ""

	tracker := progress.NewTracker(s.progress, req.SessionID, batchID, hasImage)
	tracker.Start()

	p := s.buildPlan(ctx, req, tracker)

	log.Printf("🎨 [Sticker] Batch %s: style=%s (%s), count=%d, reference=%v",
		batchID, p.key, req.Style, p.count, hasImage)
	log.Printf("🎨 [Sticker] Prompt: %s", utils.TruncateString(p.prompts[0].Prompt, 500))
	log.Printf("🎨 [Sticker] Negative prompt: %s", utils.TruncateString(p.prompts[0].NegativePrompt, 200))

	tracker.Stage(progress.StageGenerating)
	designs, err := s.orchestrator.Generate(ctx, p.prompts, BatchOptions{
		Style:      req.Style,
		OnComplete: tracker.Generated,
	})

	record := database.GenerationRecord{
		BatchID:        batchID,
		SessionID:      req.SessionID,
		StyleKey:       string(p.key),
		StyleInput:     req.Style,
		Provider:       s.provider.Name(),
		Prompt:         p.prompts[0].Prompt,
		NegativePrompt: p.prompts[0].NegativePrompt,
		HasReference:   hasImage,
		AnalysisSource: string(p.source),
		Requested:      p.count,
		Generated:      len(designs),
		CreatedAt:      started,
	}

	if err != nil {
		classified := apierror.Classify(err)
		log.Printf("❌ [Sticker] Batch %s failed (%s): %v", batchID, classified.Cat, err)
		tracker.Fail(apierror.BodyFor(classified).Message)

		record.Status = database.StatusFailed
		record.ErrorCategory = string(classified.Cat)
		record.DurationMs = s.now().Sub(started).Milliseconds()
		s.afterResponse(record, nil)
		return nil, classified
	}

	record.Status = database.StatusCompleted
	if len(designs) < p.count {
		record.Status = database.StatusPartial
	}
	record.DurationMs = s.now().Sub(started).Milliseconds()

	if s.sessions != nil {
		if err := s.sessions.RecordStyle(ctx, req.SessionID, string(p.key)); err != nil {
			log.Printf("⚠️ [Sticker] Failed to record recent style: %v", err)
		}
	}

	tracker.Complete(len(designs))
	s.afterResponse(record, designs)

	log.Printf("✅ [Sticker] Batch %s: generated %d/%d design(s)", batchID, len(designs), p.count)
	return &GenerateResponse{
		Success: true,
		Images:  designs,
		Message: successMessage(len(designs)),
	}, nil
}

func (s *Service) buildPlan(ctx context.Context, req *GenerateRequest, tracker *progress.Tracker) plan {
	tracker.Stage(progress.StageResolving)

	key := ResolveStyle(req.Style)
	p := plan{
		key:       key,
		styleName: key.Definition().Name,
		count:     req.VariationCount(),
	}

	if strings.TrimSpace(req.ImageBase64) != "" {
		tracker.Stage(progress.StageAnalyzing)

		customMode := UseCustomStyleMode(req.CustomPrompt, req.CustomPromptOnly)
		hint := p.styleName
		if customMode {
			hint = customArtisticHint
		}

		desc := s.analyzer.Analyze(ctx, req.ImageBase64, hint)
		p.source = desc.Source

		negative := NegativePrompt(key)
		if req.CustomPromptOnly {
			negative = ComposeCustomOnly(req.CustomPrompt, true).NegativePrompt
		}
		final := ComposedPrompt{
			Prompt:         Transform(desc, p.styleName, req.CustomPrompt, customMode),
			NegativePrompt: negative,
		}
		p.prompts = make([]ComposedPrompt, p.count)
		for i := range p.prompts {
			p.prompts[i] = final
		}
		return p
	}

	customOnly := req.CustomPromptOnly && strings.TrimSpace(req.CustomPrompt) != ""
	subject := ChooseSubject(req.Subject, req.CustomPrompt, key)
	p.prompts = Variations(subject, key, req.CustomPrompt, customOnly, p.count)
	return p
}

// afterResponse - 보관/기록은 응답과 무관하게 best-effort
func (s *Service) afterResponse(record database.GenerationRecord, designs []GeneratedDesign) {
	if s.logger == nil && (s.archiver == nil || len(designs) == 0) {
		return
	}

	s.background(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if s.archiver != nil {
			for _, d := range designs {
				if d.Base64 == "" {
					continue
				}
				data, err := base64.StdEncoding.DecodeString(d.Base64)
				if err != nil {
					log.Printf("⚠️ [Sticker] Skipping archive of design %d: %v", d.ID, err)
					continue
				}
				path, _, err := s.archiver.UploadSticker(ctx, data, record.BatchID, d.ID)
				if err != nil {
					log.Printf("⚠️ [Sticker] Failed to archive design %d: %v", d.ID, err)
					continue
				}
				record.ArchivePaths = append(record.ArchivePaths, path)
			}
		}

		if s.logger != nil {
			if err := s.logger.InsertGeneration(record); err != nil {
				log.Printf("⚠️ [Sticker] Failed to log generation: %v", err)
			}
		}
	})
}

// CheckUsage - 세션 사용 제한 확인 (저장소 없으면 항상 통과)
func (s *Service) CheckUsage(ctx context.Context, sessionID string) (*session.Usage, bool, error) {
	if s.sessions == nil || sessionID == "" {
		return &session.Usage{SessionID: sessionID}, false, nil
	}
	return s.sessions.CheckUsage(ctx, sessionID)
}

// IncrementUsage - 생성 성공 후 사용량 증가
func (s *Service) IncrementUsage(ctx context.Context, sessionID string, generated int) {
	if s.sessions == nil || sessionID == "" {
		return
	}
	if _, err := s.sessions.IncrementUsage(ctx, sessionID, generated); err != nil {
		log.Printf("⚠️ [Sticker] Failed to increment usage: %v", err)
	}
}

// RecentStyles - 세션의 최근 스타일 정의 (최신순)
func (s *Service) RecentStyles(ctx context.Context, sessionID string) ([]StyleDefinition, error) {
	out := []StyleDefinition{}
	if s.sessions == nil || sessionID == "" {
		return out, nil
	}

	keys, err := s.sessions.RecentStyles(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	for _, k := range keys {
		if def, ok := Lookup(StyleKey(k)); ok {
			out = append(out, def)
		}
	}
	return out, nil
}

func successMessage(n int) string {
	if n == 1 {
		return "Successfully generated 1 sticker design"
	}
	return fmt.Sprintf("Successfully generated %d sticker designs", n)
}
