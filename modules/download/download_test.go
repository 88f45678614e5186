package download

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"synthetik-sticker-server/modules/common/utils"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for x := 0; x < 4; x++ {
		for y := 0; y < 4; y++ {
			img.Set(x, y, color.RGBA{R: 255, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func upstream(t *testing.T, status int, contentType string, body []byte) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if contentType != "" {
			w.Header().Set("Content-Type", contentType)
		}
		w.WriteHeader(status)
		w.Write(body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func get(h *Handler, query url.Values) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.HandleDownload(rec, httptest.NewRequest(http.MethodGet, "/api/download?"+query.Encode(), nil))
	return rec
}

// newHandler - 테스트 업스트림(httptest)은 루프백이므로 기본으로 127.0.0.1 허용
func newHandler(allowed ...string) *Handler {
	if len(allowed) == 0 {
		allowed = []string{"127.0.0.1"}
	}
	return NewHandler(NewService(utils.NewFetcher(nil), allowed))
}

type unreachableFetcher struct{ calls int }

func (f *unreachableFetcher) Fetch(ctx context.Context, url string) ([]byte, string, error) {
	f.calls++
	return []byte("img"), "image/png", nil
}

func resolveTo(ips map[string]string) func(ctx context.Context, host string) ([]net.IPAddr, error) {
	return func(ctx context.Context, host string) ([]net.IPAddr, error) {
		ip, ok := ips[host]
		if !ok {
			return nil, errors.New("no such host")
		}
		return []net.IPAddr{{IP: net.ParseIP(ip)}}, nil
	}
}

func TestDownloadServesAttachment(t *testing.T) {
	body := pngBytes(t)
	srv := upstream(t, http.StatusOK, "image/png", body)

	rec := get(newHandler(), url.Values{"url": {srv.URL + "/a.png"}, "id": {"3"}})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, body, rec.Body.Bytes())
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="synthetik-sticker-3.png"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "no-cache, no-store, must-revalidate", rec.Header().Get("Cache-Control"))
	assert.Equal(t, "no-cache", rec.Header().Get("Pragma"))
	assert.Equal(t, "0", rec.Header().Get("Expires"))
}

func TestDownloadDefaultsWithoutIDOrContentType(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Content-Type 자동 감지 방지
		w.Header()["Content-Type"] = nil
		w.Write([]byte("raw"))
	}))
	defer srv.Close()

	rec := get(newHandler(), url.Values{"url": {srv.URL}})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="synthetik-sticker-design.png"`, rec.Header().Get("Content-Disposition"))
}

func TestDownloadMissingURL(t *testing.T) {
	rec := get(newHandler(), url.Values{"id": {"1"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Missing image URL")
}

func TestDownloadPassesThroughUpstreamStatus(t *testing.T) {
	srv := upstream(t, http.StatusNotFound, "text/plain", []byte("gone"))

	rec := get(newHandler(), url.Values{"url": {srv.URL}})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Failed to fetch image")
}

func TestDownloadRejectsUnsupportedURLs(t *testing.T) {
	h := newHandler()
	for _, raw := range []string{"file:///etc/passwd", "ftp://example.com/a.png", "not a url", "http://"} {
		rec := get(h, url.Values{"url": {raw}})
		assert.Equal(t, http.StatusBadRequest, rec.Code, raw)
	}
}

func TestDownloadHostAllowlist(t *testing.T) {
	srv := upstream(t, http.StatusOK, "image/png", []byte("x"))

	rec := get(newHandler("images.example.com"), url.Values{"url": {srv.URL}})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = get(newHandler("127.0.0.1"), url.Values{"url": {srv.URL}})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestDownloadWebP(t *testing.T) {
	srv := upstream(t, http.StatusOK, "image/png", pngBytes(t))

	rec := get(newHandler(), url.Values{"url": {srv.URL}, "id": {"2"}, "format": {"webp"}})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/webp", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="synthetik-sticker-2.webp"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "RIFF", string(rec.Body.Bytes()[:4]))
}

func TestDownloadWebPFailureServesOriginal(t *testing.T) {
	srv := upstream(t, http.StatusOK, "image/png", []byte("not an image"))

	rec := get(newHandler(), url.Values{"url": {srv.URL}, "format": {"webp"}})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "not an image", rec.Body.String())
	assert.Equal(t, `attachment; filename="synthetik-sticker-design.png"`, rec.Header().Get("Content-Disposition"))
}

func TestDownloadMethodNotAllowed(t *testing.T) {
	rec := httptest.NewRecorder()
	newHandler().HandleDownload(rec, httptest.NewRequest(http.MethodPost, "/api/download", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestFilenameSanitizesID(t *testing.T) {
	assert.Equal(t, "synthetik-sticker-12.png", Filename("12", "png"))
	assert.Equal(t, "synthetik-sticker-etcpasswd.png", Filename("../etc/passwd", "png"))
	assert.Equal(t, "synthetik-sticker-design.webp", Filename(` "" `, "webp"))
}

func TestDownloadWithoutAllowlistRejectsInternalAddresses(t *testing.T) {
	fetcher := &unreachableFetcher{}
	service := NewService(fetcher, nil)
	service.lookup = resolveTo(map[string]string{
		"localhost":         "127.0.0.1",
		"metadata.internal": "169.254.169.254",
		"intranet.corp":     "10.1.2.3",
		"cdn.example.com":   "93.184.216.34",
	})
	h := NewHandler(service)

	for _, raw := range []string{
		"http://127.0.0.1:8080/a.png",
		"http://localhost/a.png",
		"http://169.254.169.254/latest/meta-data/",
		"http://metadata.internal/computeMetadata/v1/",
		"http://10.0.0.1/a.png",
		"http://192.168.0.10/a.png",
		"http://intranet.corp/a.png",
		"http://[::1]/a.png",
		"http://[fe80::1]/a.png",
		"http://0.0.0.0/a.png",
	} {
		rec := get(h, url.Values{"url": {raw}})
		assert.Equal(t, http.StatusForbidden, rec.Code, raw)
	}
	assert.Equal(t, 0, fetcher.calls)

	rec := get(h, url.Values{"url": {"https://cdn.example.com/a.png"}})
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = get(h, url.Values{"url": {"https://93.184.216.34/a.png"}})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, fetcher.calls)

	// 해석 실패 호스트는 잘못된 URL
	rec = get(h, url.Values{"url": {"https://unknown.invalid/a.png"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestValidateURLAllowlistSkipsAddressCheck(t *testing.T) {
	service := NewService(&unreachableFetcher{}, []string{"LocalHost"})
	service.lookup = func(ctx context.Context, host string) ([]net.IPAddr, error) {
		t.Fatalf("lookup should not run for allowlisted host %s", host)
		return nil, nil
	}

	u, err := service.ValidateURL(context.Background(), "http://localhost:3000/a.png")
	require.NoError(t, err)
	assert.Equal(t, "localhost", u.Hostname())

	_, err = service.ValidateURL(context.Background(), "http://169.254.169.254/")
	assert.ErrorIs(t, err, ErrHostForbidden)
}
