package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "go.uber.org/automaxprocs"

	"synthetik-sticker-server/modules/common/config"
	"synthetik-sticker-server/modules/common/database"
	"synthetik-sticker-server/modules/common/gemini"
	"synthetik-sticker-server/modules/common/imagegen"
	"synthetik-sticker-server/modules/common/openai"
	"synthetik-sticker-server/modules/common/progress"
	"synthetik-sticker-server/modules/common/ratelimit"
	"synthetik-sticker-server/modules/common/redis"
	"synthetik-sticker-server/modules/common/storage"
	"synthetik-sticker-server/modules/common/utils"
	"synthetik-sticker-server/modules/download"
	"synthetik-sticker-server/modules/session"
	"synthetik-sticker-server/modules/sticker"
)

// CORS 헤더 추가
func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withTimeout - 요청 컨텍스트에 생성 제한 시간 적용
func withTimeout(d time.Duration, next http.Handler) http.Handler {
	if d <= 0 {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), d)
		defer cancel()
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// 헬스 체크 엔드포인트
func healthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"status":  "healthy",
		"service": "synthetik-sticker-server",
	})
}

// newProvider - 설정된 이미지 프로바이더 클라이언트 (프로세스당 1회)
func newProvider(ctx context.Context, cfg *config.Config) (imagegen.Provider, error) {
	if cfg.ImageProvider == config.ProviderGemini {
		client, err := gemini.NewClient(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return client, nil
	}
	return openai.NewClient(cfg), nil
}

func main() {
	// 환경변수 로드
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	provider, err := newProvider(ctx, cfg)
	if err != nil {
		log.Fatalf("❌ Failed to initialize image provider: %v", err)
	}

	httpClient := &http.Client{Timeout: cfg.RequestTimeout}
	fetcher := utils.NewFetcher(httpClient)

	hub := progress.NewHub()
	hub.StartCleanupRoutine(ctx)

	limiter := ratelimit.New(cfg.RateLimitPerMinute, cfg.RateLimitBurst, cfg.TrustProxyHeaders)
	limiter.StartCleanupRoutine(ctx)

	deps := sticker.Deps{
		Provider: provider,
		Fetcher:  fetcher,
		Progress: hub,
	}

	// Redis (선택) - 세션 사용량 + 최근 스타일
	if rdb := redis.Connect(cfg); rdb != nil {
		defer rdb.Close()
		deps.Sessions = session.NewStore(rdb, cfg.MaxGenerationsPerSession, cfg.RecentStylesLimit, cfg.SessionTTL)
	}

	// Supabase (선택) - 생성 기록 + 결과 보관
	dbClient, err := database.NewClient(cfg)
	if err != nil {
		log.Printf("⚠️ Generation log disabled: %v", err)
	}
	if dbClient != nil {
		deps.Logger = dbClient
	}
	if storageClient := storage.NewClient(cfg, httpClient); storageClient != nil {
		deps.Archiver = storageClient
		log.Printf("📦 Sticker archive enabled (bucket: %s)", cfg.SupabaseStorageBucket)
	}

	stickerHandler := sticker.NewHandler(sticker.NewService(deps))
	downloadHandler := download.NewHandler(download.NewService(fetcher, cfg.DownloadAllowedHosts))

	// 라우터 설정
	r := mux.NewRouter()

	// CORS 미들웨어 적용
	r.Use(enableCORS)

	// 라우트 설정
	r.HandleFunc("/", healthCheck).Methods("GET")
	r.HandleFunc("/health", healthCheck).Methods("GET")
	r.Handle("/api/generate", limiter.Middleware(withTimeout(cfg.RequestTimeout, http.HandlerFunc(stickerHandler.HandleGenerate)))).Methods("POST", "OPTIONS")
	r.HandleFunc("/api/download", downloadHandler.HandleDownload).Methods("GET", "OPTIONS")
	r.HandleFunc("/api/styles", stickerHandler.HandleStyles).Methods("GET")
	r.HandleFunc("/api/styles/recent", stickerHandler.HandleRecentStyles).Methods("GET")
	r.HandleFunc("/ws/progress", hub.ServeWS)
	r.HandleFunc("/api/progress/metrics", hub.HandleMetrics).Methods("GET")

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	log.Printf("🚀 Synthetik Sticker Server starting on port %s (provider: %s)", cfg.Port, provider.Name())
	log.Printf("🎨 Generate endpoint: http://localhost:%s/api/generate", cfg.Port)
	log.Printf("📡 Progress WebSocket: ws://localhost:%s/ws/progress?session=<id>", cfg.Port)
	log.Printf("❤️  Health check: http://localhost:%s/health", cfg.Port)

	go func() {
		<-ctx.Done()
		log.Println("🛑 Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("❌ Server shutdown error: %v", err)
		}
	}()

	// 서버 시작
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Server failed to start: %v", err)
	}
}
