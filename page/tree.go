package page

// PathTo returns the chain of pages leading from a direct sub page of p down
// to the page Find(url) would return, both ends included. It follows the same
// search order as Find and returns nil when there is no match.
func (p *Page) PathTo(url string) []*Page {
	for _, child := range p.pages {
		if child.url == url {
			return []*Page{child}
		}
	}
	for _, child := range p.pages {
		if path := child.PathTo(url); path != nil {
			return append([]*Page{child}, path...)
		}
	}
	return nil
}

// Walk visits p and its descendants in pre-order. Returning false from fn
// skips the sub pages of the visited page.
func (p *Page) Walk(fn func(depth int, p *Page) bool) {
	p.walk(0, fn)
}

func (p *Page) walk(depth int, fn func(depth int, p *Page) bool) {
	if !fn(depth, p) {
		return
	}
	for _, child := range p.pages {
		child.walk(depth+1, fn)
	}
}

// DuplicateURLs lists every url that occurs more than once in the tree
// rooted at p, in order of first occurrence
func (p *Page) DuplicateURLs() []string {
	seen := map[string]int{}
	var order []string
	p.Walk(func(_ int, n *Page) bool {
		if seen[n.url] == 0 {
			order = append(order, n.url)
		}
		seen[n.url]++
		return true
	})
	var duplicates []string
	for _, url := range order {
		if seen[url] > 1 {
			duplicates = append(duplicates, url)
		}
	}
	return duplicates
}
