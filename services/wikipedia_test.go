package services

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFetchDestinationImage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/w/api.php":
			assert.Equal(t, "Goa", r.URL.Query().Get("srsearch"))
			fmt.Fprint(w, `{"query": {"search": [{"title": "Goa"}]}}`)
		case strings.HasPrefix(r.URL.Path, "/api/rest_v1/page/summary/"):
			fmt.Fprint(w, `{"thumbnail": {"source": "https://upload.wikimedia.org/goa.jpg"}}`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	client := NewWikipediaClient(srv.URL)
	got := client.FetchDestinationImage(context.Background(), "Goa")

	assert.Equal(t, "https://upload.wikimedia.org/goa.jpg", got)
}

func TestFetchDestinationImageDegradesToEmpty(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "search error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "rate limited", http.StatusTooManyRequests)
			},
		},
		{
			name: "no search results",
			handler: func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, `{"query": {"search": []}}`)
			},
		},
		{
			name: "summary without thumbnail",
			handler: func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path == "/w/api.php" {
					fmt.Fprint(w, `{"query": {"search": [{"title": "Goa"}]}}`)
					return
				}
				fmt.Fprint(w, `{"extract": "Goa is a state on the west coast of India."}`)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			client := NewWikipediaClient(srv.URL)
			assert.Empty(t, client.FetchDestinationImage(context.Background(), "Goa"))
		})
	}
}
