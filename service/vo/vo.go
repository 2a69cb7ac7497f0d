package vo

import "github.com/foomo/pagetree-mcp/page"

type Markdown string

type ContentSummary struct {
	Title       string   `json:"title"`       // Page title
	Description string   `json:"description"` // 2-3 sentence abstract
	Keywords    []string `json:"keywords"`    // Keywords
}

type DocumentSummary struct {
	URL            string `json:"url"` // Unique identifier within the tree
	Name           string `json:"name"`
	Hidden         bool   `json:"hidden,omitempty"`
	ContentSummary `json:"contentSummary"`
}

type Document struct {
	DocumentSummary DocumentSummary `json:"summary"`
	Markdown        Markdown        `json:"markdown,omitempty"` // Full content in markdown

	Breadcrumb   []DocumentSummary `json:"breadcrumb,omitempty"` // Root first, parent last
	Children     []DocumentSummary `json:"children,omitempty"`
	PrevSiblings []DocumentSummary `json:"prev,omitempty"`
	NextSiblings []DocumentSummary `json:"next,omitempty"`
}

type ChangeKind string

const (
	ChangeKindAdded   ChangeKind = "added"
	ChangeKindRemoved ChangeKind = "removed"
	ChangeKindUpdated ChangeKind = "updated"
)

// ChangeEvent describes a mutation of the page tree
type ChangeEvent struct {
	Kind      ChangeKind `json:"kind"`
	URL       string     `json:"url"`
	ParentURL string     `json:"parentUrl,omitempty"`
}

// Summarize copies the identity and metadata of p
func Summarize(p *page.Page) DocumentSummary {
	return DocumentSummary{
		URL:    p.URL(),
		Name:   p.Name(),
		Hidden: p.IsHidden(),
		ContentSummary: ContentSummary{
			Title:       p.Title(),
			Description: p.Description(),
			Keywords:    p.Keywords(),
		},
	}
}

// SummarizeAll summarizes pages, leaving out hidden ones unless includeHidden is set
func SummarizeAll(pages []*page.Page, includeHidden bool) []DocumentSummary {
	ret := []DocumentSummary{}
	for _, p := range pages {
		if p.IsHidden() && !includeHidden {
			continue
		}
		ret = append(ret, Summarize(p))
	}
	return ret
}
