package sticker

import (
	"context"
	"errors"
	"sync"

	"synthetik-sticker-server/modules/common/database"
	"synthetik-sticker-server/modules/common/imagegen"
	"synthetik-sticker-server/modules/session"
)

type describeReply struct {
	body string
	err  error
}

// fakeProvider - Describe는 등록된 응답을 순서대로, GenerateImage는 generate 함수로 처리
type fakeProvider struct {
	mu sync.Mutex

	replies       []describeReply
	describeCalls []imagegen.VisionRequest

	generate      func(req imagegen.ImageRequest) (*imagegen.ImageResult, error)
	generateCalls []imagegen.ImageRequest
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) Describe(ctx context.Context, req imagegen.VisionRequest) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.describeCalls = append(f.describeCalls, req)
	if len(f.replies) == 0 {
		return "", errors.New("unexpected describe call")
	}
	r := f.replies[0]
	f.replies = f.replies[1:]
	return r.body, r.err
}

func (f *fakeProvider) GenerateImage(ctx context.Context, req imagegen.ImageRequest) (*imagegen.ImageResult, error) {
	f.mu.Lock()
	f.generateCalls = append(f.generateCalls, req)
	gen := f.generate
	f.mu.Unlock()

	if gen == nil {
		return &imagegen.ImageResult{URL: "https://images.test/sticker.png"}, nil
	}
	return gen(req)
}

func (f *fakeProvider) describeCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.describeCalls)
}

func (f *fakeProvider) generateCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.generateCalls)
}

func (f *fakeProvider) prompts() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.generateCalls))
	for i, c := range f.generateCalls {
		out[i] = c.Prompt
	}
	return out
}

type fakeFetcher struct {
	mu    sync.Mutex
	calls []string
	err   error
}

func (f *fakeFetcher) Fetch(ctx context.Context, url string) ([]byte, string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, url)
	if f.err != nil {
		return nil, "", f.err
	}
	return []byte("png:" + url), "image/png", nil
}

type fakeSessions struct {
	mu sync.Mutex

	limitReached bool
	checkErr     error
	recent       []string

	incremented map[string]int
	recorded    []string
}

func (f *fakeSessions) CheckUsage(ctx context.Context, sessionID string) (*session.Usage, bool, error) {
	return &session.Usage{SessionID: sessionID, UsedCount: 6}, f.limitReached, f.checkErr
}

func (f *fakeSessions) IncrementUsage(ctx context.Context, sessionID string, generated int) (*session.Usage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.incremented == nil {
		f.incremented = make(map[string]int)
	}
	f.incremented[sessionID] += generated
	return &session.Usage{SessionID: sessionID, UsedCount: f.incremented[sessionID]}, nil
}

func (f *fakeSessions) RecordStyle(ctx context.Context, sessionID, styleKey string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.recorded = append(f.recorded, styleKey)
	return nil
}

func (f *fakeSessions) RecentStyles(ctx context.Context, sessionID string) ([]string, error) {
	return f.recent, nil
}

type fakeLogger struct {
	mu      sync.Mutex
	records []database.GenerationRecord
}

func (f *fakeLogger) InsertGeneration(record database.GenerationRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records = append(f.records, record)
	return nil
}

type fakeArchiver struct {
	mu      sync.Mutex
	indexes []int
}

func (f *fakeArchiver) UploadSticker(ctx context.Context, imageData []byte, batchID string, index int) (string, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.indexes = append(f.indexes, index)
	return batchID + "/sticker.webp", int64(len(imageData)), nil
}

// newTestService - 백그라운드 작업을 동기로 실행하는 서비스
func newTestService(d Deps) *Service {
	s := NewService(d)
	s.background = func(f func()) { f() }
	s.newBatchID = func() string { return "batch-test" }
	return s
}

func intPtr(n int) *int { return &n }
