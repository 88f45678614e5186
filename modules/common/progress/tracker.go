package progress

import (
	"math/rand"
	"sync"
	"time"
)

const (
	TickInterval   = 800 * time.Millisecond
	StatusInterval = 3 * time.Second
	// 완료 전까지 표시 진행률 상한
	CosmeticCap  = 85
	maxIncrement = 15
)

// 단계 이름
const (
	StageResolving  = "resolving"
	StageAnalyzing  = "analyzing"
	StageGenerating = "generating"
)

var (
	photoStatusTexts = []string{
		"AI is analyzing your photo...",
		"Understanding the composition...",
		"Applying your chosen style...",
		"Creating your unique sticker...",
		"Finalizing the design...",
	}
	textStatusTexts = []string{
		"Preparing your style...",
		"Processing artistic elements...",
		"Generating your design...",
		"Creating your sticker...",
		"Adding final touches...",
	}
)

// Publisher - 이벤트 전송 대상 (Hub)
type Publisher interface {
	Publish(ev Event)
}

// Tracker - 요청 1건의 진행 상황. nil Tracker의 메서드는 아무것도 하지 않음
type Tracker struct {
	pub       Publisher
	sessionID string
	batchID   string

	// 테스트에서 교체
	increment func() int
	interval  time.Duration

	mu          sync.Mutex
	progress    int
	statusTexts []string
	statusIndex int
	lastStatus  time.Time
	finished    bool
	stop        chan struct{}
}

// NewTracker - sessionID가 없거나 pub이 nil이면 nil 반환
func NewTracker(pub Publisher, sessionID, batchID string, withPhoto bool) *Tracker {
	if pub == nil || sessionID == "" {
		return nil
	}
	texts := textStatusTexts
	if withPhoto {
		texts = photoStatusTexts
	}
	return &Tracker{
		pub:         pub,
		sessionID:   sessionID,
		batchID:     batchID,
		increment:   func() int { return rand.Intn(maxIncrement + 1) },
		interval:    TickInterval,
		statusTexts: texts,
		stop:        make(chan struct{}),
	}
}

// Start - 표시용 진행률 타이머 시작 (Complete/Fail까지)
func (t *Tracker) Start() {
	if t == nil {
		return
	}
	t.mu.Lock()
	t.lastStatus = time.Now()
	t.mu.Unlock()

	go func() {
		ticker := time.NewTicker(t.interval)
		defer ticker.Stop()
		for {
			select {
			case <-t.stop:
				return
			case now := <-ticker.C:
				t.tick(now)
			}
		}
	}()
}

func (t *Tracker) tick(now time.Time) {
	t.mu.Lock()
	if t.finished {
		t.mu.Unlock()
		return
	}
	if t.progress < CosmeticCap {
		t.progress = min(t.progress+t.increment(), CosmeticCap)
	}
	if now.Sub(t.lastStatus) >= StatusInterval {
		t.statusIndex = (t.statusIndex + 1) % len(t.statusTexts)
		t.lastStatus = now
	}
	ev := t.event("progress")
	t.mu.Unlock()

	t.pub.Publish(ev)
}

// Stage - 파이프라인 단계 진입 알림
func (t *Tracker) Stage(stage string) {
	if t == nil {
		return
	}
	t.mu.Lock()
	if t.finished {
		t.mu.Unlock()
		return
	}
	ev := t.event("stage")
	ev.Stage = stage
	t.mu.Unlock()

	t.pub.Publish(ev)
}

// Generated - 생성 호출 done/total 완료
func (t *Tracker) Generated(done, total int) {
	if t == nil {
		return
	}
	t.mu.Lock()
	if t.finished {
		t.mu.Unlock()
		return
	}
	ev := t.event("progress")
	ev.Stage = StageGenerating
	ev.Completed = done
	ev.Total = total
	t.mu.Unlock()

	t.pub.Publish(ev)
}

// Complete - 100%로 맞추고 타이머 중단
func (t *Tracker) Complete(count int) {
	if t == nil {
		return
	}
	if !t.finish() {
		return
	}
	t.mu.Lock()
	t.progress = 100
	ev := t.event("done")
	ev.Completed = count
	ev.Total = count
	t.mu.Unlock()

	t.pub.Publish(ev)
}

// Fail - 0%로 되돌리고 타이머 중단
func (t *Tracker) Fail(message string) {
	if t == nil {
		return
	}
	if !t.finish() {
		return
	}
	t.mu.Lock()
	t.progress = 0
	ev := t.event("failed")
	ev.Message = message
	t.mu.Unlock()

	t.pub.Publish(ev)
}

// Progress - 현재 표시 진행률
func (t *Tracker) Progress() int {
	if t == nil {
		return 0
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.progress
}

func (t *Tracker) finish() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.finished {
		return false
	}
	t.finished = true
	close(t.stop)
	return true
}

// mu 보유 상태에서 호출
func (t *Tracker) event(kind string) Event {
	return Event{
		Type:       kind,
		SessionID:  t.sessionID,
		BatchID:    t.batchID,
		StatusText: t.statusTexts[t.statusIndex],
		Progress:   t.progress,
		Timestamp:  time.Now(),
	}
}
