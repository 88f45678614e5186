package session

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// Usage - 세션별 생성 사용량
type Usage struct {
	SessionID string `json:"sessionId"`
	UsedCount int    `json:"usedCount"`
}

// Store - Redis 기반 세션 상태 (최근 스타일, 사용량). redis가 nil이면 기능 비활성
type Store struct {
	redis          *redis.Client
	maxGenerations int
	recentLimit    int
	ttl            time.Duration
}

// NewStore - maxGenerations 0이면 무제한
func NewStore(rdb *redis.Client, maxGenerations, recentLimit int, ttl time.Duration) *Store {
	if recentLimit <= 0 {
		recentLimit = 6
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Store{
		redis:          rdb,
		maxGenerations: maxGenerations,
		recentLimit:    recentLimit,
		ttl:            ttl,
	}
}

func usageKey(sessionID string) string  { return fmt.Sprintf("sticker:usage:%s", sessionID) }
func recentKey(sessionID string) string { return fmt.Sprintf("sticker:recent:%s", sessionID) }

// Enabled - Redis 연결 여부
func (s *Store) Enabled() bool {
	return s != nil && s.redis != nil
}

// CheckUsage - 사용량 조회 + 제한 도달 여부
func (s *Store) CheckUsage(ctx context.Context, sessionID string) (*Usage, bool, error) {
	if !s.Enabled() || sessionID == "" {
		// Redis 없으면 제한 없음 (개발 환경)
		return &Usage{SessionID: sessionID}, false, nil
	}

	used, err := s.redis.Get(ctx, usageKey(sessionID)).Int()
	if err == redis.Nil {
		return &Usage{SessionID: sessionID}, false, nil
	}
	if err != nil {
		log.Printf("⚠️ [Session] Redis error: %v", err)
		return nil, false, err
	}

	return &Usage{SessionID: sessionID, UsedCount: used}, s.limitReached(used), nil
}

func (s *Store) limitReached(used int) bool {
	return s.maxGenerations > 0 && used >= s.maxGenerations
}

// IncrementUsage - 생성된 장수만큼 사용량 증가 (TTL 갱신)
// 동시 요청에서도 합계가 맞도록 INCRBY + EXPIRE를 한 트랜잭션으로 실행
func (s *Store) IncrementUsage(ctx context.Context, sessionID string, generated int) (*Usage, error) {
	if !s.Enabled() || sessionID == "" {
		return &Usage{SessionID: sessionID, UsedCount: generated}, nil
	}

	key := usageKey(sessionID)
	var incr *redis.IntCmd
	_, err := s.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.IncrBy(ctx, key, int64(generated))
		pipe.Expire(ctx, key, s.ttl)
		return nil
	})
	if err != nil {
		log.Printf("⚠️ [Session] Failed to save usage: %v", err)
		return nil, fmt.Errorf("failed to increment usage: %w", err)
	}

	usage := &Usage{SessionID: sessionID, UsedCount: int(incr.Val())}
	log.Printf("📊 [Session] Usage updated: session=%s, count=%d/%d", sessionID, usage.UsedCount, s.maxGenerations)
	return usage, nil
}

// RecordStyle - 최근 사용 스타일 맨 앞에 추가 (중복 제거, 최대 recentLimit개)
func (s *Store) RecordStyle(ctx context.Context, sessionID, styleKey string) error {
	if !s.Enabled() || sessionID == "" || styleKey == "" {
		return nil
	}

	key := recentKey(sessionID)
	_, err := s.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.LRem(ctx, key, 0, styleKey)
		pipe.LPush(ctx, key, styleKey)
		pipe.LTrim(ctx, key, 0, int64(s.recentLimit-1))
		pipe.Expire(ctx, key, s.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to record recent style: %w", err)
	}
	return nil
}

// RecentStyles - 최근 사용 스타일 키 (최신순)
func (s *Store) RecentStyles(ctx context.Context, sessionID string) ([]string, error) {
	if !s.Enabled() || sessionID == "" {
		return []string{}, nil
	}

	keys, err := s.redis.LRange(ctx, recentKey(sessionID), 0, int64(s.recentLimit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load recent styles: %w", err)
	}
	return keys, nil
}
