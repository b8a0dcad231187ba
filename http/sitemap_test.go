package http_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sitedigest/sitedigest"
	sdhttp "github.com/sitedigest/sitedigest/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sitemapConfig(rootURL string) *sitedigest.RunConfig {
	return &sitedigest.RunConfig{
		RootURL:      rootURL,
		MaxPages:     100,
		SameHostOnly: true,
	}
}

func urlSet(urls []sitedigest.DiscoveredURL) []string {
	out := make([]string, len(urls))
	for i, u := range urls {
		out[i] = u.URL
	}
	return out
}

func TestSitemapStrategy_Discover(t *testing.T) {
	t.Parallel()

	t.Run("parses a plain sitemap", func(t *testing.T) {
		t.Parallel()

		var srv *httptest.Server
		srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/sitemap.xml" {
				http.NotFound(w, r)
				return
			}
			fmt.Fprintf(w, `<?xml version="1.0" encoding="UTF-8"?>
<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
  <url><loc>%s/page-one</loc></url>
  <url><loc>%s/page-two</loc></url>
</urlset>`, srv.URL, srv.URL)
		}))
		defer srv.Close()

		s := sdhttp.NewSitemapStrategy(srv.Client())
		urls, err := s.Discover(context.Background(), sitemapConfig(srv.URL))

		require.NoError(t, err)
		assert.Equal(t, []string{srv.URL + "/page-one", srv.URL + "/page-two"}, urlSet(urls))
		assert.Equal(t, sitedigest.MethodSitemap, urls[0].Method)
	})

	t.Run("recurses into a sitemap index", func(t *testing.T) {
		t.Parallel()

		var srv *httptest.Server
		srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/sitemap.xml":
				fmt.Fprintf(w, `<?xml version="1.0"?>
<sitemapindex xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
  <sitemap><loc>%s/sitemap-posts.xml</loc></sitemap>
  <sitemap><loc>%s/sitemap-pages.xml</loc></sitemap>
</sitemapindex>`, srv.URL, srv.URL)
			case "/sitemap-posts.xml":
				fmt.Fprintf(w, `<urlset><url><loc>%s/post-1</loc></url></urlset>`, srv.URL)
			case "/sitemap-pages.xml":
				fmt.Fprintf(w, `<urlset><url><loc>%s/about</loc></url></urlset>`, srv.URL)
			default:
				http.NotFound(w, r)
			}
		}))
		defer srv.Close()

		s := sdhttp.NewSitemapStrategy(srv.Client())
		urls, err := s.Discover(context.Background(), sitemapConfig(srv.URL))

		require.NoError(t, err)
		assert.ElementsMatch(t, []string{srv.URL + "/post-1", srv.URL + "/about"}, urlSet(urls))
	})

	t.Run("self-referencing index terminates", func(t *testing.T) {
		t.Parallel()

		var srv *httptest.Server
		srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/sitemap.xml" {
				fmt.Fprintf(w, `<sitemapindex><sitemap><loc>%s/sitemap.xml</loc></sitemap></sitemapindex>`, srv.URL)
				return
			}
			http.NotFound(w, r)
		}))
		defer srv.Close()

		s := sdhttp.NewSitemapStrategy(srv.Client())
		urls, err := s.Discover(context.Background(), sitemapConfig(srv.URL))

		require.NoError(t, err)
		assert.Empty(t, urls)
	})

	t.Run("falls through to later conventional paths", func(t *testing.T) {
		t.Parallel()

		var srv *httptest.Server
		srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/wp-sitemap.xml" {
				fmt.Fprintf(w, `<urlset><url><loc>%s/wp-page</loc></url></urlset>`, srv.URL)
				return
			}
			http.NotFound(w, r)
		}))
		defer srv.Close()

		s := sdhttp.NewSitemapStrategy(srv.Client())
		urls, err := s.Discover(context.Background(), sitemapConfig(srv.URL))

		require.NoError(t, err)
		assert.Equal(t, []string{srv.URL + "/wp-page"}, urlSet(urls))
	})

	t.Run("missing sitemap yields empty without error", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.NotFoundHandler())
		defer srv.Close()

		s := sdhttp.NewSitemapStrategy(srv.Client())
		urls, err := s.Discover(context.Background(), sitemapConfig(srv.URL))

		require.NoError(t, err)
		assert.Empty(t, urls)
	})

	t.Run("malformed XML yields empty without error", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`<urlset><url><loc>unclosed`))
		}))
		defer srv.Close()

		s := sdhttp.NewSitemapStrategy(srv.Client())
		urls, err := s.Discover(context.Background(), sitemapConfig(srv.URL))

		require.NoError(t, err)
		assert.Empty(t, urls)
	})

	t.Run("off-host URLs are dropped when same-host only", func(t *testing.T) {
		t.Parallel()

		var srv *httptest.Server
		srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprintf(w, `<urlset>
  <url><loc>%s/local</loc></url>
  <url><loc>https://cdn.elsewhere.net/asset</loc></url>
</urlset>`, srv.URL)
		}))
		defer srv.Close()

		s := sdhttp.NewSitemapStrategy(srv.Client())
		urls, err := s.Discover(context.Background(), sitemapConfig(srv.URL))

		require.NoError(t, err)
		assert.Equal(t, []string{srv.URL + "/local"}, urlSet(urls))
	})
}
