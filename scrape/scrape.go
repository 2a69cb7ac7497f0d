package scrape

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/foomo/pagetree-mcp/page"
	"github.com/foomo/pagetree-mcp/service/vo"
	"golang.org/x/net/html"
)

// Scrape downloads url, reads title, description and keywords from the head
// and converts the element matched by selector to markdown
func Scrape(ctx context.Context, client *http.Client, url, selector string) (*vo.ContentSummary, vo.Markdown, error) {
	doc, err := fetch(ctx, client, url)
	if err != nil {
		return nil, "", err
	}

	summary := &vo.ContentSummary{
		Title:       extractTitle(doc),
		Description: extractMetaDescription(doc),
		Keywords:    extractMetaKeywords(doc),
	}

	selectedNode, err := extractNodeBySelector(doc, selector)
	if err != nil {
		return nil, "", fmt.Errorf("failed to extract node with selector '%s': %w", selector, err)
	}

	markdownBytes, err := htmltomarkdown.ConvertNode(selectedNode)
	if err != nil {
		return nil, "", fmt.Errorf("failed to convert HTML to markdown: %w", err)
	}

	return summary, vo.Markdown(string(markdownBytes)), nil
}

func fetch(ctx context.Context, client *http.Client, url string) (*html.Node, error) {
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download HTML: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP request failed with status: %d", resp.StatusCode)
	}

	doc, err := html.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return doc, nil
}

// Enrich fills in empty titles, descriptions and keywords of root and all its
// descendants from the pages found at baseURL + page url.
// Metadata that is already set is kept. A page that cannot be fetched does not
// stop the walk; all such failures are returned joined. Only a done ctx ends
// the walk early.
func Enrich(ctx context.Context, client *http.Client, baseURL string, root *page.Page) error {
	var errs []error
	root.Walk(func(_ int, p *page.Page) bool {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return false
		}
		doc, err := fetch(ctx, client, baseURL+p.URL())
		if err != nil {
			errs = append(errs, fmt.Errorf("failed to enrich %q: %w", p.URL(), err))
			return true
		}
		if p.Title() == "" {
			p.SetTitle(extractTitle(doc))
		}
		if p.Description() == "" {
			p.SetDescription(extractMetaDescription(doc))
		}
		if len(p.Keywords()) == 0 {
			p.SetKeywords(extractMetaKeywords(doc))
		}
		return true
	})
	if err := ctx.Err(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
