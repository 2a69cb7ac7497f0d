package main

import (
	"context"
	"log"
	"net/http"
	"os"

	contentserverclient "github.com/foomo/contentserver/client"
	"github.com/foomo/pagetree-mcp/config"
	"github.com/foomo/pagetree-mcp/contentsource"
	"github.com/foomo/pagetree-mcp/mcp"
	"github.com/foomo/pagetree-mcp/page"
	"github.com/foomo/pagetree-mcp/scrape"
	"github.com/foomo/pagetree-mcp/service"
	"github.com/foomo/pagetree-mcp/sitemap"
	"github.com/foomo/pagetree-mcp/styleguide"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()
	httpClient := http.DefaultClient

	root, err := loadTree(ctx, cfg, httpClient)
	if err != nil {
		logger.Fatal("failed to load page tree", zap.Error(err))
	}
	if cfg.Site.Enrich && cfg.Site.BaseURL != "" {
		if err := scrape.Enrich(ctx, httpClient, cfg.Site.BaseURL, root); err != nil {
			logger.Warn("failed to enrich page tree", zap.Error(err))
		}
	}
	if duplicates := root.DuplicateURLs(); len(duplicates) > 0 {
		logger.Warn("page tree contains duplicate urls, lookups return the first match", zap.Strings("urls", duplicates))
	}

	serviceInstance := service.NewService(logger, root, service.SiteSettings{
		BaseURL:         cfg.Site.BaseURL,
		ContentSelector: cfg.Site.ContentSelector,
	}, httpClient)
	s := mcp.NewServer(httpClient, serviceInstance)

	if cfg.HTTPAddr != "" {
		logger.Info("Starting MCP server", zap.String("addr", cfg.HTTPAddr), zap.String("endpoint", cfg.Endpoint))
		handler := mcp.NewMcpHTTPSSEServer(logger, s, serviceInstance, cfg.Endpoint, nil)
		if err := http.ListenAndServe(cfg.HTTPAddr, handler); err != nil {
			logger.Fatal("http server stopped", zap.Error(err))
		}
		return
	}

	logger.Info("Starting MCP server in stdio mode")
	if err := server.ServeStdio(s); err != nil {
		logger.Fatal("stdio server stopped", zap.Error(err))
	}
}

// newLogger logs to stderr, stdout belongs to the stdio transport
func newLogger(level string) (*zap.Logger, error) {
	atomicLevel, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, err
	}
	zapConfig := zap.NewProductionConfig()
	zapConfig.Level = atomicLevel
	return zapConfig.Build()
}

func loadTree(ctx context.Context, cfg *config.Config, httpClient *http.Client) (*page.Page, error) {
	switch {
	case cfg.Tree.File != "":
		return sitemap.Load(cfg.Tree.File, cfg.Tree.Strict)
	case cfg.ContentServer.URL != "":
		client := contentserverclient.New(
			contentserverclient.NewHTTPTransport(
				cfg.ContentServer.URL,
				contentserverclient.HTTPTransportWithHTTPClient(httpClient),
			))
		return contentsource.Load(ctx, client, contentsource.Settings{
			NodeID:            cfg.ContentServer.NodeID,
			Dimension:         cfg.ContentServer.Dimension,
			MimeTypes:         cfg.ContentServer.MimeTypes,
			ExposeHiddenNodes: cfg.ContentServer.ExposeHidden,
		})
	default:
		guide := styleguide.New(cfg.Tree.Name, cfg.Tree.URL)
		guide.SetTitle(cfg.Tree.Title).SetDescription(cfg.Tree.Description)
		return guide.Init().Page, nil
	}
}
