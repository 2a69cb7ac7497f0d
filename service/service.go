package service

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/foomo/pagetree-mcp/page"
	"github.com/foomo/pagetree-mcp/scrape"
	"github.com/foomo/pagetree-mcp/service/vo"
	"go.uber.org/zap"
)

type Service interface {
	GetDocument(ctx context.Context, url string) (*vo.Document, error)
	FindPage(ctx context.Context, url string) (*vo.DocumentSummary, error)
	ListChildren(ctx context.Context, url string, includeHidden bool) ([]vo.DocumentSummary, error)
	AddPage(ctx context.Context, parentURL string, info page.Info, index *int) (*vo.DocumentSummary, error)
	RemovePage(ctx context.Context, parentURL, url string) (bool, error)
	UpdatePage(ctx context.Context, url string, update Update) (*vo.DocumentSummary, error)
	HidePage(ctx context.Context, url string, hidden bool) (*vo.DocumentSummary, error)
	Subscribe(listener func(event vo.ChangeEvent))
}

type SiteSettings struct {
	// BaseURL is prepended to page urls to scrape markdown, no scraping when empty
	BaseURL         string
	ContentSelector string
}

// Update changes page metadata, nil fields are left alone
type Update struct {
	Title       *string  `json:"title,omitempty"`
	Description *string  `json:"description,omitempty"`
	Keywords    []string `json:"keywords,omitempty"`
}

type service struct {
	logger       *zap.Logger
	httpClient   *http.Client
	siteSettings SiteSettings

	// guards the whole tree, pages are not safe for concurrent mutation
	lock sync.RWMutex
	root *page.Page

	listenersLock sync.RWMutex
	listeners     []func(event vo.ChangeEvent)
}

func NewService(
	logger *zap.Logger,
	root *page.Page,
	siteSettings SiteSettings,
	httpClient *http.Client,
) Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &service{
		logger:       logger,
		root:         root,
		siteSettings: siteSettings,
		httpClient:   httpClient,
	}
}

// resolve returns the page for url and its ancestors, root first.
// Callers must hold the lock.
func (s *service) resolve(url string) (*page.Page, []*page.Page, error) {
	if url == "" || url == s.root.URL() {
		return s.root, nil, nil
	}
	path := s.root.PathTo(url)
	if path == nil {
		return nil, nil, fmt.Errorf("%w: %s", ErrPageNotFound, url)
	}
	ancestors := append([]*page.Page{s.root}, path[:len(path)-1]...)
	return path[len(path)-1], ancestors, nil
}

func (s *service) GetDocument(ctx context.Context, url string) (*vo.Document, error) {
	doc, err := s.document(url)
	if err != nil {
		return nil, err
	}

	if s.siteSettings.BaseURL != "" {
		_, markdown, err := scrape.Scrape(ctx, s.httpClient, s.siteSettings.BaseURL+doc.DocumentSummary.URL, s.siteSettings.ContentSelector)
		if err != nil {
			return nil, fmt.Errorf("failed to scrape %q: %w", doc.DocumentSummary.URL, err)
		}
		doc.Markdown = markdown
	}
	return doc, nil
}

// document builds everything but the markdown under the read lock
func (s *service) document(url string) (*vo.Document, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	target, ancestors, err := s.resolve(url)
	if err != nil {
		return nil, err
	}

	doc := &vo.Document{
		DocumentSummary: vo.Summarize(target),
		Breadcrumb:      vo.SummarizeAll(ancestors, true),
		Children:        vo.SummarizeAll(target.FindAll(), false),
	}

	if len(ancestors) > 0 {
		parent := ancestors[len(ancestors)-1]
		isPrevious := true
		for _, sibling := range parent.FindAll() {
			if sibling == target {
				isPrevious = false
				continue
			}
			if sibling.IsHidden() {
				continue
			}
			if isPrevious {
				doc.PrevSiblings = append(doc.PrevSiblings, vo.Summarize(sibling))
			} else {
				doc.NextSiblings = append(doc.NextSiblings, vo.Summarize(sibling))
			}
		}
	}
	return doc, nil
}

func (s *service) FindPage(ctx context.Context, url string) (*vo.DocumentSummary, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	target, _, err := s.resolve(url)
	if err != nil {
		return nil, err
	}
	summary := vo.Summarize(target)
	return &summary, nil
}

func (s *service) ListChildren(ctx context.Context, url string, includeHidden bool) ([]vo.DocumentSummary, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	target, _, err := s.resolve(url)
	if err != nil {
		return nil, err
	}
	return vo.SummarizeAll(target.FindAll(), includeHidden), nil
}

func (s *service) AddPage(ctx context.Context, parentURL string, info page.Info, index *int) (*vo.DocumentSummary, error) {
	if info.URL == "" {
		return nil, ErrMissingURL
	}
	summary, err := s.mutate(func() (*page.Page, error) {
		if info.URL == s.root.URL() || s.root.Find(info.URL) != nil {
			return nil, fmt.Errorf("%w: %s", ErrConflict, info.URL)
		}
		parent, _, err := s.resolve(parentURL)
		if err != nil {
			return nil, err
		}
		child := page.New(info)
		if index != nil {
			parent.Insert(child, *index)
		} else {
			parent.Add(child)
		}
		return child, nil
	})
	if err != nil {
		return nil, err
	}
	s.notify(vo.ChangeEvent{Kind: vo.ChangeKindAdded, URL: info.URL, ParentURL: parentURL})
	return summary, nil
}

// RemovePage removes url from the direct children of parentURL and reports
// whether anything was removed
func (s *service) RemovePage(ctx context.Context, parentURL, url string) (bool, error) {
	s.lock.Lock()
	parent, _, err := s.resolve(parentURL)
	if err != nil {
		s.lock.Unlock()
		return false, err
	}
	before := len(parent.FindAll())
	parent.RemoveURL(url)
	removed := len(parent.FindAll()) < before
	s.lock.Unlock()

	if removed {
		s.logger.Debug("page removed", zap.String("url", url), zap.String("parent", parentURL))
		s.notify(vo.ChangeEvent{Kind: vo.ChangeKindRemoved, URL: url, ParentURL: parentURL})
	}
	return removed, nil
}

func (s *service) UpdatePage(ctx context.Context, url string, update Update) (*vo.DocumentSummary, error) {
	summary, err := s.mutate(func() (*page.Page, error) {
		target, _, err := s.resolve(url)
		if err != nil {
			return nil, err
		}
		if update.Title != nil {
			target.SetTitle(*update.Title)
		}
		if update.Description != nil {
			target.SetDescription(*update.Description)
		}
		if update.Keywords != nil {
			target.SetKeywords(update.Keywords)
		}
		return target, nil
	})
	if err != nil {
		return nil, err
	}
	s.notify(vo.ChangeEvent{Kind: vo.ChangeKindUpdated, URL: summary.URL})
	return summary, nil
}

func (s *service) HidePage(ctx context.Context, url string, hidden bool) (*vo.DocumentSummary, error) {
	summary, err := s.mutate(func() (*page.Page, error) {
		target, _, err := s.resolve(url)
		if err != nil {
			return nil, err
		}
		return target.SetHidden(hidden), nil
	})
	if err != nil {
		return nil, err
	}
	s.notify(vo.ChangeEvent{Kind: vo.ChangeKindUpdated, URL: summary.URL})
	return summary, nil
}

// mutate runs fn under the write lock and summarizes the page it returns
func (s *service) mutate(fn func() (*page.Page, error)) (*vo.DocumentSummary, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	p, err := fn()
	if err != nil {
		return nil, err
	}
	summary := vo.Summarize(p)
	s.logger.Debug("page changed", zap.String("url", summary.URL))
	return &summary, nil
}

func (s *service) Subscribe(listener func(event vo.ChangeEvent)) {
	s.listenersLock.Lock()
	defer s.listenersLock.Unlock()
	s.listeners = append(s.listeners, listener)
}

func (s *service) notify(event vo.ChangeEvent) {
	s.listenersLock.RLock()
	defer s.listenersLock.RUnlock()
	for _, listener := range s.listeners {
		listener(event)
	}
}
