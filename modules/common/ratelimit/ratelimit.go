package ratelimit

import (
	"context"
	"encoding/json"
	"log"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"synthetik-sticker-server/modules/common/apierror"
)

const idleTTL = 10 * time.Minute

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Limiter - 클라이언트 IP별 토큰 버킷
type Limiter struct {
	visitors   map[string]*visitor
	mutex      sync.Mutex
	limit      rate.Limit
	burst      int
	trustProxy bool // X-Forwarded-For는 리버스 프록시 뒤에서만 신뢰
	now        func() time.Time
}

// New - perMinute가 0 이하면 nil (제한 없음)
func New(perMinute, burst int, trustProxy bool) *Limiter {
	if perMinute <= 0 {
		return nil
	}
	if burst <= 0 {
		burst = 1
	}
	return &Limiter{
		visitors:   make(map[string]*visitor),
		limit:      rate.Every(time.Minute / time.Duration(perMinute)),
		burst:      burst,
		trustProxy: trustProxy,
		now:        time.Now,
	}
}

// Allow - key의 요청 허용 여부
func (l *Limiter) Allow(key string) bool {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	now := l.now()
	v, exists := l.visitors[key]
	if !exists {
		v = &visitor{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.visitors[key] = v
	}
	v.lastSeen = now
	return v.limiter.AllowN(now, 1)
}

// Cleanup - idleTTL 동안 요청이 없던 방문자 제거
func (l *Limiter) Cleanup() int {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	now := l.now()
	removed := 0
	for key, v := range l.visitors {
		if now.Sub(v.lastSeen) > idleTTL {
			delete(l.visitors, key)
			removed++
		}
	}
	return removed
}

// StartCleanupRoutine - 5분마다 오래된 방문자 정리
func (l *Limiter) StartCleanupRoutine(ctx context.Context) {
	if l == nil {
		return
	}
	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := l.Cleanup(); n > 0 {
					log.Printf("🧹 [RateLimit] Removed %d idle clients", n)
				}
			}
		}
	}()
}

// Middleware - 초과 시 429 + 생성 에러와 같은 JSON 형식
func (l *Limiter) Middleware(next http.Handler) http.Handler {
	if l == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}

		key := l.clientIP(r)
		if !l.Allow(key) {
			log.Printf("⚠️ [RateLimit] Too many requests from %s", key)
			body := apierror.BodyFor(apierror.New(apierror.CategoryRateLimit, "rate limited", nil))
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("Retry-After", "60")
			w.WriteHeader(body.Status)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"success": false,
				"error":   body.Error,
				"message": body.Message,
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientIP - 기본은 RemoteAddr, trustProxy일 때만 X-Forwarded-For 첫 값
func (l *Limiter) clientIP(r *http.Request) string {
	if l.trustProxy {
		if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
			if first := strings.TrimSpace(strings.Split(fwd, ",")[0]); first != "" {
				return first
			}
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
