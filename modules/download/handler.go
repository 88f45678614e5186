package download

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"synthetik-sticker-server/modules/common/utils"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// HandleDownload - GET /api/download?url=&id=&format=
func (h *Handler) HandleDownload(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")

	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}

	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	query := r.URL.Query()
	imageURL := query.Get("url")
	if imageURL == "" {
		http.Error(w, "Missing image URL", http.StatusBadRequest)
		return
	}

	file, err := h.service.Download(r.Context(), imageURL, query.Get("id"), query.Get("format"))
	if err != nil {
		var fetchErr *utils.FetchError
		switch {
		case errors.Is(err, ErrInvalidURL):
			http.Error(w, "Invalid image URL", http.StatusBadRequest)
		case errors.Is(err, ErrHostForbidden):
			http.Error(w, "Image host not allowed", http.StatusForbidden)
		case errors.As(err, &fetchErr):
			log.Printf("⚠️ [Download] Upstream returned %d for %s", fetchErr.StatusCode, utils.TruncateString(imageURL, 200))
			http.Error(w, "Failed to fetch image", fetchErr.StatusCode)
		default:
			log.Printf("❌ [Download] Download API error: %v", err)
			http.Error(w, "Internal server error", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", file.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, file.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(file.Data)))
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.Header().Set("Pragma", "no-cache")
	w.Header().Set("Expires", "0")
	w.WriteHeader(http.StatusOK)
	w.Write(file.Data)

	log.Printf("📥 [Download] Served %s (%d bytes)", file.Filename, len(file.Data))
}
