package sticker

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"synthetik-sticker-server/modules/common/apierror"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// HandleGenerate - POST /api/generate
func (h *Handler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}

	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	// Service 확인 (프로바이더 키 누락)
	if h.service == nil {
		log.Println("❌ [Sticker] Service not initialized")
		writeError(w, apierror.Config("Please set the image provider API key environment variable"))
		return
	}

	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("❌ [Sticker] Invalid request: %v", err)
		writeError(w, apierror.Validation("Invalid request format", "Request body must be valid JSON"))
		return
	}

	// 외부 호출 전에 검증
	if strings.TrimSpace(req.Style) == "" {
		writeError(w, apierror.Validation("Missing required field: style", "Please select a style for your sticker"))
		return
	}

	ctx := r.Context()

	usage, limitReached, err := h.service.CheckUsage(ctx, req.SessionID)
	if err != nil {
		// Redis 오류 시에도 계속 진행 (제한 없이)
		log.Printf("⚠️ [Sticker] Failed to check usage limit: %v", err)
	}
	if limitReached {
		log.Printf("🚫 [Sticker] Usage limit reached: session=%s, count=%d", req.SessionID, usage.UsedCount)
		writeError(w, apierror.New(apierror.CategoryUsageLimit, "session generation limit reached", nil))
		return
	}

	resp, err := h.service.Generate(ctx, &req)
	if err != nil {
		writeError(w, err)
		return
	}

	h.service.IncrementUsage(ctx, req.SessionID, len(resp.Images))

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(resp)
}

// HandleStyles - GET /api/styles
func (h *Handler) HandleStyles(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(StylesResponse{
		Success: true,
		Styles:  Catalog(),
	})
}

// HandleRecentStyles - GET /api/styles/recent?sessionId=
func (h *Handler) HandleRecentStyles(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	sessionID := r.URL.Query().Get("sessionId")
	if sessionID == "" {
		writeError(w, apierror.Validation("Missing required parameter: sessionId", "Provide the sessionId query parameter"))
		return
	}

	if h.service == nil {
		json.NewEncoder(w).Encode(RecentStylesResponse{Success: true, Styles: []StyleDefinition{}})
		return
	}

	styles, err := h.service.RecentStyles(r.Context(), sessionID)
	if err != nil {
		// 최근 스타일은 부가 기능, 실패해도 빈 목록
		log.Printf("⚠️ [Sticker] Failed to load recent styles: %v", err)
		styles = []StyleDefinition{}
	}

	json.NewEncoder(w).Encode(RecentStylesResponse{Success: true, Styles: styles})
}

// writeError - 분류된 에러를 상태 코드 + 고정 메시지로 응답 (원문은 로그에만)
func writeError(w http.ResponseWriter, err error) {
	classified := apierror.Classify(err)
	log.Printf("❌ [Sticker] Request failed (%s): %v", classified.Cat, err)

	body := apierror.BodyFor(classified)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(body.Status)
	json.NewEncoder(w).Encode(GenerateResponse{
		Success: false,
		Error:   body.Error,
		Message: body.Message,
	})
}
