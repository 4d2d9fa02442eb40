package update

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestChecker(t *testing.T, handler http.HandlerFunc) *Checker {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c := NewChecker("Furry-Xiyi", "TranslatorApp", 2*time.Second, nil)
	c.apiBase = srv.URL
	return c
}

func TestCheckUpdateAvailable(t *testing.T) {
	c := newTestChecker(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/Furry-Xiyi/TranslatorApp/releases/latest", r.URL.Path)
		assert.NotEmpty(t, r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"tag_name":"v1.3.0","html_url":"https://github.com/Furry-Xiyi/TranslatorApp/releases/tag/v1.3.0"}`))
	})

	res := c.Check(context.Background(), "1.2.0.0", "")
	assert.Equal(t, StatusUpdateAvailable, res.Status)
	assert.Equal(t, "v1.3.0", res.Tag)
	assert.Contains(t, res.URL, "/releases/tag/v1.3.0")
}

func TestCheckUpToDate(t *testing.T) {
	c := newTestChecker(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"tag_name":"v1.2","html_url":"u"}`))
	})
	res := c.Check(context.Background(), "1.2.0.0", "")
	assert.Equal(t, StatusUpToDate, res.Status)
}

func TestCheckIgnoredVersionSuppressed(t *testing.T) {
	c := newTestChecker(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"tag_name":"v9.9.9","html_url":"u"}`))
	})
	// 用户跳过的版本按无更新处理，大小写不敏感
	res := c.Check(context.Background(), "1.2.0.0", "V9.9.9")
	assert.Equal(t, StatusUpToDate, res.Status)

	// 其他版本不受影响
	res = c.Check(context.Background(), "1.2.0.0", "v9.9.8")
	assert.Equal(t, StatusUpdateAvailable, res.Status)
}

func TestCheckFailuresAreSilent(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "http error status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusForbidden)
			},
		},
		{
			name: "missing tag",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"html_url":"u"}`))
			},
		},
		{
			name: "unparseable tag",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"tag_name":"nightly-build","html_url":"u"}`))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestChecker(t, tt.handler)
			res := c.Check(context.Background(), "1.2.0.0", "")
			require.Equal(t, StatusError, res.Status)
		})
	}
}
