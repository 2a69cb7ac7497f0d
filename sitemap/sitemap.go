package sitemap

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/foomo/pagetree-mcp/page"
	"gopkg.in/yaml.v3"
)

// ErrFileNotFound is returned when the definition file does not exist.
var ErrFileNotFound = errors.New("sitemap file not found")

// ErrMissingURL is returned for a page definition without a url.
var ErrMissingURL = errors.New("page definition without url")

// DuplicateURLError lists urls used by more than one page.
type DuplicateURLError struct {
	URLs []string
}

func (e *DuplicateURLError) Error() string {
	return "duplicate page urls: " + strings.Join(e.URLs, ", ")
}

// Definition is the file representation of a page and its sub pages.
type Definition struct {
	Name        string        `yaml:"name"`
	URL         string        `yaml:"url"`
	Title       string        `yaml:"title,omitempty"`
	Description string        `yaml:"description,omitempty"`
	Keywords    []string      `yaml:"keywords,omitempty"`
	Hidden      bool          `yaml:"hidden,omitempty"`
	Pages       []*Definition `yaml:"pages,omitempty"`
}

// Build creates the page tree described by d
func (d *Definition) Build() (*page.Page, error) {
	if d.URL == "" {
		return nil, fmt.Errorf("%w (name %q)", ErrMissingURL, d.Name)
	}
	p := page.New(page.Info{Name: d.Name, URL: d.URL}).
		SetTitle(d.Title).
		SetDescription(d.Description).
		SetKeywords(d.Keywords).
		SetHidden(d.Hidden)
	for _, sub := range d.Pages {
		child, err := sub.Build()
		if err != nil {
			return nil, err
		}
		p.Add(child)
	}
	return p, nil
}

// Describe is the inverse of Build
func Describe(p *page.Page) *Definition {
	d := &Definition{
		Name:        p.Name(),
		URL:         p.URL(),
		Title:       p.Title(),
		Description: p.Description(),
		Keywords:    p.Keywords(),
		Hidden:      p.IsHidden(),
	}
	for _, child := range p.FindAll() {
		d.Pages = append(d.Pages, Describe(child))
	}
	return d
}

// Decode reads a yaml page tree. With strict set, urls used more than once
// are reported as a *DuplicateURLError.
func Decode(r io.Reader, strict bool) (*page.Page, error) {
	var d Definition
	if err := yaml.NewDecoder(r).Decode(&d); err != nil {
		return nil, fmt.Errorf("failed to decode sitemap: %w", err)
	}
	root, err := d.Build()
	if err != nil {
		return nil, err
	}
	if strict {
		if duplicates := root.DuplicateURLs(); len(duplicates) > 0 {
			return nil, &DuplicateURLError{URLs: duplicates}
		}
	}
	return root, nil
}

// Load reads the page tree from a yaml file
func Load(path string, strict bool) (*page.Page, error) {
	f, err := os.Open(path) //nolint:gosec // path is provided by the operator
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrFileNotFound
		}
		return nil, err
	}
	defer f.Close()
	return Decode(f, strict)
}

// Encode writes p and its descendants as yaml
func Encode(w io.Writer, p *page.Page) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(Describe(p)); err != nil {
		return fmt.Errorf("failed to encode sitemap: %w", err)
	}
	return enc.Close()
}
