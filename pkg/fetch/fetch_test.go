package fetch

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/feed2index/pkg/domain"
)

func TestClient_Get(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-agent", r.Header.Get("User-Agent"))
		assert.Equal(t, AcceptXML, r.Header.Get("Accept"))
		assert.NotEmpty(t, r.Header.Get("Accept-Language"))
		_, _ = w.Write([]byte("<rss/>"))
	}))
	defer server.Close()

	c := New(Config{Timeout: time.Second, UserAgent: "test-agent"})
	body, err := c.Get(context.Background(), server.URL, AcceptXML)
	require.NoError(t, err)
	defer body.Close()
	data, err := io.ReadAll(body)
	require.NoError(t, err)
	assert.Equal(t, "<rss/>", string(data))
}

func TestClient_Bytes(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok":
			_, _ = w.Write([]byte("hello"))
		case "/big":
			_, _ = w.Write([]byte(strings.Repeat("x", 100)))
		case "/slow":
			time.Sleep(200 * time.Millisecond)
			_, _ = w.Write([]byte("too late"))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	c := New(Config{Timeout: 100 * time.Millisecond, MaxSize: 50})

	t.Run("ok", func(t *testing.T) {
		data, err := c.Bytes(context.Background(), server.URL+"/ok", AcceptHTML)
		require.NoError(t, err)
		assert.Equal(t, "hello", string(data))
	})

	t.Run("not found", func(t *testing.T) {
		_, err := c.Bytes(context.Background(), server.URL+"/missing", AcceptHTML)
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrSourceUnavailable)
		assert.Contains(t, err.Error(), "unexpected status code 404")
	})

	t.Run("too big", func(t *testing.T) {
		_, err := c.Bytes(context.Background(), server.URL+"/big", AcceptHTML)
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrSourceUnavailable)
	})

	t.Run("timeout", func(t *testing.T) {
		_, err := c.Bytes(context.Background(), server.URL+"/slow", AcceptHTML)
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrSourceUnavailable)
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr bool
	}{
		{name: "empty", url: "", wantErr: true},
		{name: "no scheme", url: "example.com/rss", wantErr: true},
		{name: "relative", url: "/rss", wantErr: true},
		{name: "valid", url: "https://example.com/rss"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.url)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, domain.ErrConfiguration)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestClient_Get_Unreachable(t *testing.T) {
	c := New(Config{Timeout: time.Second})
	_, err := c.Get(context.Background(), "http://127.0.0.1:1/feed", AcceptXML)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrSourceUnavailable)
}
