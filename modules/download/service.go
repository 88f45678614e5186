package download

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/url"
	"regexp"
	"strings"

	"synthetik-sticker-server/modules/common/utils"
)

const (
	FormatOriginal = ""
	FormatWebP     = "webp"

	defaultContentType = "image/png"
	webpQuality        = 90
)

var (
	ErrInvalidURL    = errors.New("invalid image URL")
	ErrHostForbidden = errors.New("image host not allowed")
)

// Fetcher - 원격 이미지 다운로드 (utils.Fetcher)
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, string, error)
}

// File - 응답으로 내려줄 파일
type File struct {
	Data        []byte
	ContentType string
	Filename    string
}

type Service struct {
	fetcher      Fetcher
	allowedHosts map[string]bool
	lookup       func(ctx context.Context, host string) ([]net.IPAddr, error)
}

// NewService - allowedHosts가 비어있으면 공인 주소로 해석되는 http(s) 호스트만 허용
func NewService(fetcher Fetcher, allowedHosts []string) *Service {
	hosts := make(map[string]bool, len(allowedHosts))
	for _, h := range allowedHosts {
		if h = strings.ToLower(strings.TrimSpace(h)); h != "" {
			hosts[h] = true
		}
	}
	return &Service{
		fetcher:      fetcher,
		allowedHosts: hosts,
		lookup:       net.DefaultResolver.LookupIPAddr,
	}
}

// ValidateURL - http/https + 허용 호스트 확인
// 허용 목록이 없으면 루프백/사설/링크로컬(메타데이터) 주소로 해석되는 호스트 거부
func (s *Service) ValidateURL(ctx context.Context, raw string) (*url.URL, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("%w: unsupported scheme %q", ErrInvalidURL, u.Scheme)
	}
	if u.Hostname() == "" {
		return nil, fmt.Errorf("%w: missing host", ErrInvalidURL)
	}
	host := strings.ToLower(u.Hostname())
	if len(s.allowedHosts) > 0 {
		if !s.allowedHosts[host] {
			return nil, fmt.Errorf("%w: %s", ErrHostForbidden, host)
		}
		return u, nil
	}
	if err := s.checkPublicHost(ctx, host); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *Service) checkPublicHost(ctx context.Context, host string) error {
	if ip := net.ParseIP(host); ip != nil {
		if !isPublicIP(ip) {
			return fmt.Errorf("%w: %s", ErrHostForbidden, host)
		}
		return nil
	}

	addrs, err := s.lookup(ctx, host)
	if err != nil || len(addrs) == 0 {
		return fmt.Errorf("%w: cannot resolve %s", ErrInvalidURL, host)
	}
	for _, addr := range addrs {
		if !isPublicIP(addr.IP) {
			log.Printf("⚠️ [Download] Blocked %s (resolves to %s)", host, addr.IP)
			return fmt.Errorf("%w: %s", ErrHostForbidden, host)
		}
	}
	return nil
}

// isPublicIP - 루프백, 사설, 링크로컬, 미지정, 멀티캐스트 주소는 false
func isPublicIP(ip net.IP) bool {
	return !(ip.IsLoopback() ||
		ip.IsPrivate() ||
		ip.IsLinkLocalUnicast() ||
		ip.IsLinkLocalMulticast() ||
		ip.IsInterfaceLocalMulticast() ||
		ip.IsMulticast() ||
		ip.IsUnspecified())
}

// Download - 이미지를 가져와 첨부 파일로 구성. format=webp면 재인코딩 (실패 시 원본 유지)
func (s *Service) Download(ctx context.Context, rawURL, id, format string) (*File, error) {
	u, err := s.ValidateURL(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	data, contentType, err := s.fetcher.Fetch(ctx, u.String())
	if err != nil {
		return nil, err
	}
	if contentType == "" {
		contentType = defaultContentType
	}

	file := &File{
		Data:        data,
		ContentType: contentType,
		Filename:    Filename(id, "png"),
	}

	if strings.EqualFold(format, FormatWebP) {
		webpData, err := utils.ConvertToWebP(data, webpQuality)
		if err != nil {
			log.Printf("⚠️ [Download] WebP conversion failed, serving original: %v", err)
			return file, nil
		}
		file.Data = webpData
		file.ContentType = "image/webp"
		file.Filename = Filename(id, "webp")
	}

	return file, nil
}

var unsafeIDChars = regexp.MustCompile(`[^A-Za-z0-9_-]`)

// Filename - synthetik-sticker-<id>.<ext>, id가 없으면 design
func Filename(id, ext string) string {
	id = unsafeIDChars.ReplaceAllString(strings.TrimSpace(id), "")
	if id == "" {
		id = "design"
	}
	return fmt.Sprintf("synthetik-sticker-%s.%s", id, ext)
}
