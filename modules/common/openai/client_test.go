package openai

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"synthetik-sticker-server/modules/common/apierror"
	"synthetik-sticker-server/modules/common/config"
	"synthetik-sticker-server/modules/common/imagegen"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewClient(&config.Config{
		OpenAIAPIKey:      "sk-test",
		OpenAIBaseURL:     srv.URL + "/v1/",
		OpenAIVisionModel: "gpt-4o",
		OpenAIImageModel:  "dall-e-3",
		ImageSize:         "1024x1024",
		ImageQuality:      "standard",
		ImageStyle:        "vivid",
	})
}

func TestDescribe_SendsImageAndJSONMode(t *testing.T) {
	var body map[string]any
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/chat/completions"), r.URL.Path)
		raw, _ := io.ReadAll(r.Body)
		assert.NoError(t, json.Unmarshal(raw, &body))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"c1","object":"chat.completion","created":1,"model":"gpt-4o",
			"choices":[{"index":0,"finish_reason":"stop","message":{"role":"assistant","content":"{\"totalPeople\":1}"}}]}`))
	})

	out, err := client.Describe(context.Background(), imagegen.VisionRequest{
		SystemPrompt: "system",
		UserPrompt:   "describe",
		ImageDataURL: "data:image/jpeg;base64,AAAA",
		JSONMode:     true,
		MaxTokens:    2000,
	})
	require.NoError(t, err)
	assert.Equal(t, `{"totalPeople":1}`, out)

	assert.Equal(t, "gpt-4o", body["model"])
	assert.EqualValues(t, 2000, body["max_tokens"])
	format, ok := body["response_format"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "json_object", format["type"])

	messages, ok := body["messages"].([]any)
	require.True(t, ok)
	require.Len(t, messages, 2)
	raw, _ := json.Marshal(messages[1])
	assert.Contains(t, string(raw), "data:image/jpeg;base64,AAAA")
	assert.Contains(t, string(raw), `"detail":"high"`)
}

func TestGenerateImage_ReturnsURL(t *testing.T) {
	var body map[string]any
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/images/generations"), r.URL.Path)
		raw, _ := io.ReadAll(r.Body)
		assert.NoError(t, json.Unmarshal(raw, &body))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"created":1,"data":[{"url":"https://cdn.example.com/a.png","revised_prompt":"rp"}]}`))
	})

	res, err := client.GenerateImage(context.Background(), imagegen.ImageRequest{Prompt: "a sticker"})
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/a.png", res.URL)
	assert.Equal(t, "rp", res.RevisedPrompt)

	assert.Equal(t, "dall-e-3", body["model"])
	assert.EqualValues(t, 1, body["n"])
	assert.Equal(t, "url", body["response_format"])
	assert.Equal(t, "vivid", body["style"])
}

func TestGenerateImage_ClassifiesErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   apierror.Category
	}{
		{
			name:   "insufficient quota",
			status: http.StatusTooManyRequests,
			body:   `{"error":{"message":"You exceeded your current quota","type":"insufficient_quota","code":"insufficient_quota"}}`,
			want:   apierror.CategoryQuota,
		},
		{
			name:   "rate limit",
			status: http.StatusTooManyRequests,
			body:   `{"error":{"message":"Rate limit reached","type":"requests","code":"rate_limit_exceeded"}}`,
			want:   apierror.CategoryRateLimit,
		},
		{
			name:   "content policy",
			status: http.StatusBadRequest,
			body:   `{"error":{"message":"Your request was rejected as a result of our safety system.","type":"invalid_request_error","code":"content_policy_violation"}}`,
			want:   apierror.CategoryContentPolicy,
		},
		{
			name:   "server error",
			status: http.StatusInternalServerError,
			body:   `{"error":{"message":"boom","type":"server_error","code":null}}`,
			want:   apierror.CategoryInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				calls++
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := client.GenerateImage(context.Background(), imagegen.ImageRequest{Prompt: "p"})
			require.Error(t, err)

			var ce *apierror.Error
			require.True(t, errors.As(err, &ce))
			assert.Equal(t, tt.want, ce.Cat)
			assert.Equal(t, 1, calls, "no retries")
		})
	}
}

func TestCategorize(t *testing.T) {
	assert.Equal(t, apierror.CategoryQuota, categorize(402, "", "", ""))
	assert.Equal(t, apierror.CategoryRateLimit, categorize(429, "", "", ""))
	assert.Equal(t, apierror.CategoryQuota, categorize(400, "billing_hard_limit_reached", "", ""))
	assert.Equal(t, apierror.CategoryInternal, categorize(500, "", "server_error", "oops"))
}
