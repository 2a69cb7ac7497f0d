package vo

import (
	"encoding/json"
	"testing"

	"github.com/foomo/pagetree-mcp/page"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize(t *testing.T) {
	p := page.New(page.Info{Name: "Italian", URL: "/recipes/italian"}).
		SetTitle("Italian Recipes").
		SetDescription("Discover authentic Italian cuisine.").
		SetKeywords([]string{"pasta", "pizza"}).
		Hide()

	summary := Summarize(p)
	assert.Equal(t, DocumentSummary{
		URL:    "/recipes/italian",
		Name:   "Italian",
		Hidden: true,
		ContentSummary: ContentSummary{
			Title:       "Italian Recipes",
			Description: "Discover authentic Italian cuisine.",
			Keywords:    []string{"pasta", "pizza"},
		},
	}, summary)

	summary.Keywords[0] = "changed"
	assert.Equal(t, []string{"pasta", "pizza"}, p.Keywords())
}

func TestSummarizeAll(t *testing.T) {
	pages := []*page.Page{
		page.New(page.Info{Name: "Pasta", URL: "/pasta"}),
		page.New(page.Info{Name: "Secret", URL: "/secret"}).Hide(),
		page.New(page.Info{Name: "Pizza", URL: "/pizza"}),
	}
	visible := SummarizeAll(pages, false)
	require.Len(t, visible, 2)
	assert.Equal(t, "/pasta", visible[0].URL)
	assert.Equal(t, "/pizza", visible[1].URL)

	assert.Len(t, SummarizeAll(pages, true), 3)
	assert.NotNil(t, SummarizeAll(nil, true))
}

func TestDocumentJSON(t *testing.T) {
	doc := Document{
		DocumentSummary: DocumentSummary{
			URL:  "/recipes/italian",
			Name: "Italian",
			ContentSummary: ContentSummary{
				Title: "Italian Recipes",
			},
		},
		Markdown: "# Italian Recipes",
		Breadcrumb: []DocumentSummary{
			{URL: "/", Name: "Home"},
			{URL: "/recipes", Name: "Recipes"},
		},
		NextSiblings: []DocumentSummary{
			{URL: "/recipes/spanish", Name: "Spanish"},
		},
	}

	jsonData, err := json.Marshal(doc)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(jsonData, &raw))
	assert.Contains(t, raw, "summary")
	assert.Contains(t, raw, "breadcrumb")
	assert.Contains(t, raw, "next")
	assert.NotContains(t, raw, "prev")
	assert.NotContains(t, raw, "children")
	summary := raw["summary"].(map[string]any)
	assert.NotContains(t, summary, "hidden")
	assert.Equal(t, "Italian Recipes", summary["contentSummary"].(map[string]any)["title"])
}
