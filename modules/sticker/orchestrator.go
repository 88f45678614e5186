package sticker

import (
	"context"
	"log"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"synthetik-sticker-server/modules/common/apierror"
	"synthetik-sticker-server/modules/common/imagegen"
	"synthetik-sticker-server/modules/common/utils"
)

// ImageFetcher - 생성된 URL의 바이트를 가져오는 쪽 (base64 임베딩용)
type ImageFetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, string, error)
}

// Orchestrator - 프롬프트 N개를 동시에 생성하고 결과를 요청 순서대로 정리
type Orchestrator struct {
	images  imagegen.ImageClient
	fetcher ImageFetcher
	now     func() time.Time
}

func NewOrchestrator(images imagegen.ImageClient, fetcher ImageFetcher) *Orchestrator {
	return &Orchestrator{images: images, fetcher: fetcher, now: time.Now}
}

// BatchOptions - 배치 공통 정보
type BatchOptions struct {
	Style string
	// 한 장이 끝날 때마다 호출 (완료 수, 전체 수)
	OnComplete func(done, total int)
}

type slot struct {
	design *GeneratedDesign
	err    error
}

// Generate - 프롬프트마다 1회 호출. 전부 실패하면 첫 실패의 분류된 에러 반환
func (o *Orchestrator) Generate(ctx context.Context, prompts []ComposedPrompt, opts BatchOptions) ([]GeneratedDesign, error) {
	total := len(prompts)
	slots := make([]slot, total)

	var (
		mu   sync.Mutex
		done int
	)

	var g errgroup.Group
	for i, p := range prompts {
		g.Go(func() error {
			design, err := o.generateOne(ctx, i, p, opts.Style)
			slots[i] = slot{design: design, err: err}

			if opts.OnComplete != nil {
				mu.Lock()
				done++
				n := done
				mu.Unlock()
				opts.OnComplete(n, total)
			}
			// 한 장 실패가 다른 호출을 취소하지 않도록 항상 nil
			return nil
		})
	}
	_ = g.Wait()

	designs := make([]GeneratedDesign, 0, total)
	var firstErr error
	for _, s := range slots {
		if s.err != nil {
			if firstErr == nil {
				firstErr = s.err
			}
			continue
		}
		d := *s.design
		d.ID = len(designs) + 1
		designs = append(designs, d)
	}

	if len(designs) == 0 {
		if firstErr == nil {
			return nil, apierror.New(apierror.CategoryInternal, "no images generated", nil)
		}
		return nil, apierror.Classify(firstErr)
	}
	if firstErr != nil {
		log.Printf("⚠️ [Orchestrator] %d of %d generations failed", total-len(designs), total)
	}
	return designs, nil
}

func (o *Orchestrator) generateOne(ctx context.Context, index int, p ComposedPrompt, style string) (*GeneratedDesign, error) {
	result, err := o.images.GenerateImage(ctx, imagegen.ImageRequest{
		Prompt:         p.Prompt,
		NegativePrompt: p.NegativePrompt,
	})
	if err != nil {
		log.Printf("❌ [Orchestrator] Generation %d failed: %v", index+1, err)
		return nil, err
	}

	design := &GeneratedDesign{
		URL:           result.URL,
		Prompt:        p.Prompt,
		Style:         style,
		CreatedAt:     o.now(),
		RevisedPrompt: result.RevisedPrompt,
	}

	switch {
	case len(result.Data) > 0:
		mimeType := result.MimeType
		if mimeType == "" {
			mimeType = "image/png"
		}
		design.Base64 = utils.ConvertImageToBase64(result.Data)
		if design.URL == "" {
			design.URL = utils.ToDataURL(mimeType, result.Data)
		}

	case result.URL != "" && o.fetcher != nil:
		// 임베딩 실패는 결과를 버리지 않음 (base64만 비움)
		data, _, err := o.fetcher.Fetch(ctx, result.URL)
		if err != nil {
			log.Printf("⚠️ [Orchestrator] Failed to embed image %d: %v", index+1, err)
		} else {
			design.Base64 = utils.ConvertImageToBase64(data)
		}
	}

	log.Printf("✅ [Orchestrator] Generation %d complete", index+1)
	return design, nil
}
