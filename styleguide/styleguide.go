package styleguide

import "github.com/foomo/pagetree-mcp/page"

// Guide is a page tree with a preset set of style guide pages
type Guide struct {
	*page.Page
	initialized bool
}

// New creates an empty style guide. Set title and description before calling Init,
// the index page takes over the guide's description.
func New(name, url string) *Guide {
	return &Guide{
		Page: page.New(page.Info{Name: name, URL: url}),
	}
}

// Init adds the starting pages once, later calls do nothing
func (g *Guide) Init() *Guide {
	if g.initialized {
		return g
	}
	g.initialized = true
	g.
		Add(newPage(g.Name(), "index.html").
			SetDescription(g.Description()),
		).
		Add(newPage("Visual Design", "visual.html").
			SetDescription("Color and font schemes, look-and-feel, overall voice and tone."),
		).
		Add(newPage("Base Typography", "base.html").
			SetDescription("Bare, unstyled HTML elements. No classes.").
			Add(newPage("Table of Contents", "base.html#table-contents")).
			Add(newPage("Headings & Paragraphs", "base.html#headings-paragraphs")).
			Add(newPage("Lists", "base.html#lists")).
			Add(newPage("Tables", "base.html#tables")).
			Add(newPage("Text-Level Elements", "base.html#text-level-elements").
				Add(newPage("Links", "base.html#links")).
				Add(newPage("Stress", "base.html#stress")).
				Add(newPage("Documentation", "base.html#documentation")).
				Add(newPage("Data", "base.html#data")),
			).
			Add(newPage("Embedded Elements", "base.html#embedded-elements")).
			Add(newPage("Forms", "base.html#forms")).
			Add(newPage("Interactive Elements", "base.html#interactive-elements")),
		).
		Add(newPage("Objects", "obj.html").
			SetDescription("Patterns of structure that can be reused many times for many different purposes."),
		).
		Add(newPage("Components", "comp.html").
			SetDescription("Patterns of look-and-feel that are each only used for one purpose."),
		).
		Add(newPage("Helpers", "help.html").
			SetDescription("Somewhat explicit classes used for enhancing default styles."),
		).
		Add(newPage("Atoms", "atom.html").
			SetDescription("Very specific classes used for creating anomalies or fixing broken styles."),
		)
	return g
}

// Initialized reports whether Init has run
func (g *Guide) Initialized() bool {
	return g.initialized
}

func newPage(name, url string) *page.Page {
	return page.New(page.Info{Name: name, URL: url})
}
