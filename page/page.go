package page

import "slices"

// Info holds the identity of a page. Name and URL are fixed once the page is created.
type Info struct {
	Name string `json:"name" yaml:"name"`
	URL  string `json:"url" yaml:"url"`
}

// Page is a node in a page tree. The URL identifies the page; no two pages
// reachable from the same root should share a URL, though nothing here enforces it.
type Page struct {
	name        string
	url         string
	title       string
	description string
	keywords    []string
	hidden      bool
	pages       []*Page
}

// New creates a visible page without metadata or children
func New(info Info) *Page {
	return &Page{
		name:     info.Name,
		url:      info.URL,
		keywords: []string{},
		pages:    []*Page{},
	}
}

func (p *Page) Name() string {
	return p.name
}

func (p *Page) URL() string {
	return p.url
}

// Title should be a more formal version of the name
func (p *Page) Title() string {
	return p.title
}

func (p *Page) SetTitle(title string) *Page {
	p.title = title
	return p
}

// SetTitleWith stores the result of fn, which receives the page itself
func (p *Page) SetTitleWith(fn func(p *Page) string) *Page {
	return p.SetTitle(fn(p))
}

func (p *Page) Description() string {
	return p.description
}

func (p *Page) SetDescription(description string) *Page {
	p.description = description
	return p
}

func (p *Page) SetDescriptionWith(fn func(p *Page) string) *Page {
	return p.SetDescription(fn(p))
}

// Keywords returns a copy; changing it does not affect the page
func (p *Page) Keywords() []string {
	return append([]string{}, p.keywords...)
}

func (p *Page) SetKeywords(keywords []string) *Page {
	p.keywords = append([]string{}, keywords...)
	return p
}

func (p *Page) SetKeywordsWith(fn func(p *Page) []string) *Page {
	return p.SetKeywords(fn(p))
}

// Hide marks the page hidden, same as SetHidden(true)
func (p *Page) Hide() *Page {
	return p.SetHidden(true)
}

func (p *Page) SetHidden(hidden bool) *Page {
	p.hidden = hidden
	return p
}

func (p *Page) IsHidden() bool {
	return p.hidden
}

// Add appends child to the sub pages
func (p *Page) Add(child *Page) *Page {
	return p.Insert(child, len(p.pages))
}

// Insert puts child at index, shifting later sub pages back by one.
// A negative index counts back from the end, so -1 inserts before the last
// sub page. Indexes out of range are clamped to the front or the end.
func (p *Page) Insert(child *Page, index int) *Page {
	if child == nil {
		return p
	}
	p.pages = slices.Insert(p.pages, spliceIndex(index, len(p.pages)), child)
	return p
}

func spliceIndex(index, length int) int {
	if index < 0 {
		index += length
		if index < 0 {
			return 0
		}
	}
	if index > length {
		return length
	}
	return index
}

// Remove drops the first direct sub page that is target. Descendants
// deeper down are never touched.
func (p *Page) Remove(target *Page) *Page {
	if target == nil {
		return p
	}
	if i := slices.Index(p.pages, target); i >= 0 {
		p.pages = slices.Delete(p.pages, i, i+1)
	}
	return p
}

// RemoveURL resolves url with Find and removes the result if it is a direct
// sub page. A match further down the tree is left in place.
func (p *Page) RemoveURL(url string) *Page {
	return p.Remove(p.Find(url))
}

// RemoveWith removes the page returned by fn, which receives p
func (p *Page) RemoveWith(fn func(p *Page) *Page) *Page {
	return p.Remove(fn(p))
}

// RemoveAll drops all direct sub pages. They stay valid for anyone holding a reference.
func (p *Page) RemoveAll() *Page {
	p.pages = []*Page{}
	return p
}

// Find returns the descendant with the given url, or nil.
// All direct sub pages are compared before any of them is searched, so a
// shallow match always wins over a deeper one in an earlier branch.
// The page itself is not a candidate.
func (p *Page) Find(url string) *Page {
	for _, child := range p.pages {
		if child.url == url {
			return child
		}
	}
	for _, child := range p.pages {
		if descendant := child.Find(url); descendant != nil {
			return descendant
		}
	}
	return nil
}

// FindAll returns a shallow copy of the direct sub pages
func (p *Page) FindAll() []*Page {
	return append([]*Page{}, p.pages...)
}
