package scrape

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/foomo/pagetree-mcp/page"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

const testHTML = `<!DOCTYPE html>
<html>
<head>
	<title>Base Typography</title>
	<meta name="description" content="Bare, unstyled HTML elements.">
	<meta name="keywords" content="html, typography , ,lists">
</head>
<body>
	<nav>skip me</nav>
	<main class="content wide" id="main">
		<h1>Hello</h1>
		<p>World</p>
	</main>
</body>
</html>`

func newTestSite(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/base.html", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(testHTML))
	})
	mux.HandleFunc("/plain.html", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><head><title>Plain</title></head><body><main>plain</main></body></html>`))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestScrape(t *testing.T) {
	server := newTestSite(t)

	summary, md, err := Scrape(context.Background(), server.Client(), server.URL+"/base.html", "main")
	require.NoError(t, err)
	assert.Equal(t, "Base Typography", summary.Title)
	assert.Equal(t, "Bare, unstyled HTML elements.", summary.Description)
	assert.Equal(t, []string{"html", "typography", "lists"}, summary.Keywords)
	assert.Contains(t, string(md), "# Hello")
	assert.Contains(t, string(md), "World")
	assert.NotContains(t, string(md), "skip me")
}

func TestScrapeErrors(t *testing.T) {
	server := newTestSite(t)

	_, _, err := Scrape(context.Background(), server.Client(), server.URL+"/missing.html", "main")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")

	_, _, err = Scrape(context.Background(), server.Client(), server.URL+"/base.html", "#nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "element with id 'nope' not found")
}

func TestExtractNodeBySelector(t *testing.T) {
	doc, err := html.Parse(strings.NewReader(testHTML))
	require.NoError(t, err)

	for _, selector := range []string{"main", "#main", ".content", ".wide"} {
		n, err := extractNodeBySelector(doc, selector)
		require.NoError(t, err, selector)
		assert.Equal(t, "main", n.Data, selector)
	}

	_, err = extractNodeBySelector(doc, ".cont")
	require.Error(t, err)
	_, err = extractNodeBySelector(doc, "article")
	require.Error(t, err)
}

func TestEnrich(t *testing.T) {
	server := newTestSite(t)

	base := page.New(page.Info{Name: "Base", URL: "/base.html"})
	plain := page.New(page.Info{Name: "Plain", URL: "/plain.html"}).SetTitle("Kept")
	root := page.New(page.Info{Name: "Root", URL: "/base.html"}).
		SetDescription("Kept description").
		Add(base).
		Add(plain)

	require.NoError(t, Enrich(context.Background(), server.Client(), server.URL, root))

	assert.Equal(t, "Base Typography", root.Title())
	assert.Equal(t, "Kept description", root.Description())
	assert.Equal(t, "Bare, unstyled HTML elements.", base.Description())
	assert.Equal(t, []string{"html", "typography", "lists"}, base.Keywords())
	assert.Equal(t, "Kept", plain.Title())
	assert.Empty(t, plain.Description())
}

func TestEnrichContinuesAfterFailedPage(t *testing.T) {
	server := newTestSite(t)

	draft := page.New(page.Info{Name: "Draft", URL: "/draft.html"}).Hide()
	later := page.New(page.Info{Name: "Later", URL: "/plain.html"})
	root := page.New(page.Info{Name: "Root", URL: "/base.html"}).
		Add(draft).
		Add(later)

	err := Enrich(context.Background(), server.Client(), server.URL, root)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"/draft.html"`)
	assert.Contains(t, err.Error(), "404")
	assert.NotContains(t, err.Error(), "/plain.html")

	assert.Equal(t, "Base Typography", root.Title())
	assert.Empty(t, draft.Title())
	assert.Equal(t, "Plain", later.Title())
}

func TestEnrichJoinsAllFailures(t *testing.T) {
	server := newTestSite(t)

	root := page.New(page.Info{Name: "Root", URL: "/one.html"}).
		Add(page.New(page.Info{Name: "Two", URL: "/two.html"}))

	err := Enrich(context.Background(), server.Client(), server.URL, root)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"/one.html"`)
	assert.Contains(t, err.Error(), `"/two.html"`)
}

func TestEnrichCanceled(t *testing.T) {
	server := newTestSite(t)

	root := page.New(page.Info{Name: "Root", URL: "/base.html"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Enrich(ctx, server.Client(), server.URL, root)
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, root.Title())
}
