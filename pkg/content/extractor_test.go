package content

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/feed2index/pkg/domain"
	"github.com/umputun/feed2index/pkg/fetch"
)

func TestHTTPExtractor_Extract(t *testing.T) {
	article := strings.Repeat("This is the main content of the article about search indexing. ", 10)
	pages := map[string]string{
		"/region": `<html><body><nav>Menu</nav>
			<div id="page-content"><h1>Title</h1><p>Body <em>text</em></p><script>track()</script></div>
			<footer>Foot</footer></body></html>`,
		"/no-region":   `<html><head><title>T</title></head><body><p>Only body</p><script>x()</script></body></html>`,
		"/readability": `<html><head><title>Article</title></head><body><article><h1>Heading</h1><p>` + article + `</p></article></body></html>`,
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page, ok := pages[r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(page))
	}))
	defer server.Close()

	fetcher := fetch.New(fetch.Config{Timeout: 5 * time.Second})

	t.Run("content region", func(t *testing.T) {
		ex := NewHTTPExtractor(fetcher, ExtractorConfig{RegionID: "page-content"})
		text, err := ex.Extract(context.Background(), server.URL+"/region")
		require.NoError(t, err)
		assert.Equal(t, "Title Body text", text)
	})

	t.Run("missing region falls back to whole page", func(t *testing.T) {
		ex := NewHTTPExtractor(fetcher, ExtractorConfig{RegionID: "page-content"})
		text, err := ex.Extract(context.Background(), server.URL+"/no-region")
		require.NoError(t, err)
		assert.Equal(t, "T Only body", text)
	})

	t.Run("missing region with readability", func(t *testing.T) {
		ex := NewHTTPExtractor(fetcher, ExtractorConfig{RegionID: "page-content", Readability: true})
		text, err := ex.Extract(context.Background(), server.URL+"/readability")
		require.NoError(t, err)
		assert.Contains(t, text, "main content of the article")
	})

	t.Run("server error", func(t *testing.T) {
		ex := NewHTTPExtractor(fetcher, ExtractorConfig{RegionID: "page-content"})
		_, err := ex.Extract(context.Background(), server.URL+"/error")
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrSourceUnavailable)
	})

	t.Run("empty url", func(t *testing.T) {
		ex := NewHTTPExtractor(fetcher, ExtractorConfig{RegionID: "page-content"})
		_, err := ex.Extract(context.Background(), "")
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrConfiguration)
	})
}

func TestHTTPExtractor_ExtractBytes_RegionByID(t *testing.T) {
	ex := NewHTTPExtractor(nil, ExtractorConfig{RegionID: "main.content"})
	text, err := ex.ExtractBytes([]byte(`<div>skip</div><div id="main.content"><pre>code</pre>kept</div>`), "http://example.com")
	require.NoError(t, err)
	assert.Equal(t, "kept", text)
}

func TestHTTPExtractor_ExtractBytes_Noscript(t *testing.T) {
	page := `<html><body>
<noscript><iframe src="https://www.googletagmanager.com/ns.html?id=GTM-XXXX" height="0" width="0"></iframe></noscript>
<div id="page-content"><p>Article body</p><noscript><img src="pixel.gif"></noscript></div>
</body></html>`

	t.Run("region", func(t *testing.T) {
		ex := NewHTTPExtractor(nil, ExtractorConfig{RegionID: "page-content"})
		text, err := ex.ExtractBytes([]byte(page), "http://example.com")
		require.NoError(t, err)
		assert.Equal(t, "Article body", text)
	})

	t.Run("whole page", func(t *testing.T) {
		ex := NewHTTPExtractor(nil, ExtractorConfig{RegionID: "missing"})
		text, err := ex.ExtractBytes([]byte(page), "http://example.com")
		require.NoError(t, err)
		assert.Equal(t, "Article body", text)
		assert.NotContains(t, text, "<iframe")
	})
}
