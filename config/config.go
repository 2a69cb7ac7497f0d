package config

import (
	"errors"
	"flag"
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
)

const PresetStyleGuide = "styleguide"

var (
	ErrConflictingSources = errors.New("only one of tree file, preset and contentserver can be used")
	ErrUnknownPreset      = errors.New("unknown preset")
	ErrMissingNodeID      = errors.New("contentserver node id is required")
)

// Config is read from PAGETREE_* environment variables first, command line flags win
type Config struct {
	HTTPAddr      string              `env:"PAGETREE_HTTP_ADDR"`
	Endpoint      string              `env:"PAGETREE_ENDPOINT" envDefault:"/mcp"`
	LogLevel      string              `env:"PAGETREE_LOG_LEVEL" envDefault:"info"`
	Tree          TreeConfig          `envPrefix:"PAGETREE_TREE_"`
	Site          SiteConfig          `envPrefix:"PAGETREE_SITE_"`
	ContentServer ContentServerConfig `envPrefix:"PAGETREE_CONTENTSERVER_"`
}

type TreeConfig struct {
	File   string `env:"FILE"`
	Strict bool   `env:"STRICT"`
	// Preset is used when neither a file nor a contentserver is configured
	Preset      string `env:"PRESET"`
	Name        string `env:"NAME" envDefault:"Style Guide"`
	URL         string `env:"URL" envDefault:"/"`
	Title       string `env:"TITLE"`
	Description string `env:"DESCRIPTION"`
}

type SiteConfig struct {
	BaseURL         string `env:"BASE_URL"`
	ContentSelector string `env:"CONTENT_SELECTOR" envDefault:"main"`
	// Enrich scrapes missing page metadata from BaseURL at startup
	Enrich bool `env:"ENRICH"`
}

type ContentServerConfig struct {
	URL       string   `env:"URL"`
	NodeID    string   `env:"NODE_ID"`
	Dimension string   `env:"DIMENSION"`
	MimeTypes []string `env:"MIME_TYPES" envSeparator:","`
	// ExposeHidden imports hidden nodes as hidden pages instead of dropping them
	ExposeHidden bool `env:"EXPOSE_HIDDEN"`
}

func parseEnv(cfg *Config) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("error getting env configs: %w", err)
	}
	return nil
}

// Load builds the configuration from the environment and args (without the program name)
func Load(args []string) (*Config, error) {
	cfg := &Config{}
	if err := parseEnv(cfg); err != nil {
		return nil, err
	}

	fs := flag.NewFlagSet("pagetree-mcp", flag.ContinueOnError)
	fs.StringVar(&cfg.HTTPAddr, "http", cfg.HTTPAddr, "HTTP server address (e.g., ':8080'), stdio mode when empty")
	fs.StringVar(&cfg.Endpoint, "endpoint", cfg.Endpoint, "MCP endpoint path in HTTP mode")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	fs.StringVar(&cfg.Tree.File, "tree", cfg.Tree.File, "YAML page tree definition file")
	fs.BoolVar(&cfg.Tree.Strict, "strict", cfg.Tree.Strict, "Reject tree files with duplicate urls")
	fs.StringVar(&cfg.Tree.Preset, "preset", cfg.Tree.Preset, "Preset page tree (styleguide)")
	fs.StringVar(&cfg.Tree.Name, "name", cfg.Tree.Name, "Name of the preset root page")
	fs.StringVar(&cfg.Tree.URL, "url", cfg.Tree.URL, "URL of the preset root page")
	fs.StringVar(&cfg.Tree.Title, "title", cfg.Tree.Title, "Title of the preset root page")
	fs.StringVar(&cfg.Tree.Description, "description", cfg.Tree.Description, "Description of the preset root page")
	fs.StringVar(&cfg.Site.BaseURL, "base-url", cfg.Site.BaseURL, "Base URL of the rendered site, enables markdown in documents")
	fs.StringVar(&cfg.Site.ContentSelector, "selector", cfg.Site.ContentSelector, "Selector of the page content")
	fs.BoolVar(&cfg.Site.Enrich, "enrich", cfg.Site.Enrich, "Scrape missing page metadata from the site at startup")
	fs.StringVar(&cfg.ContentServer.URL, "contentserver", cfg.ContentServer.URL, "Contentserver URL to import the tree from")
	fs.StringVar(&cfg.ContentServer.NodeID, "contentserver-node", cfg.ContentServer.NodeID, "Contentserver navigation node id")
	fs.StringVar(&cfg.ContentServer.Dimension, "contentserver-dimension", cfg.ContentServer.Dimension, "Contentserver dimension")
	fs.BoolVar(&cfg.ContentServer.ExposeHidden, "contentserver-expose-hidden", cfg.ContentServer.ExposeHidden, "Import hidden contentserver nodes as hidden pages")
	mimeTypes := fs.String("contentserver-mime-types", strings.Join(cfg.ContentServer.MimeTypes, ","), "Comma separated mime types to import")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	cfg.ContentServer.MimeTypes = splitList(*mimeTypes)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func splitList(s string) []string {
	var ret []string
	for _, v := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			ret = append(ret, trimmed)
		}
	}
	return ret
}

// Validate checks that exactly one tree source is configured, defaulting to the style guide preset
func (c *Config) Validate() error {
	sources := 0
	for _, set := range []bool{c.Tree.File != "", c.Tree.Preset != "", c.ContentServer.URL != ""} {
		if set {
			sources++
		}
	}
	if sources > 1 {
		return ErrConflictingSources
	}
	if sources == 0 {
		c.Tree.Preset = PresetStyleGuide
	}
	if c.Tree.Preset != "" && c.Tree.Preset != PresetStyleGuide {
		return fmt.Errorf("%w: %s", ErrUnknownPreset, c.Tree.Preset)
	}
	if c.ContentServer.URL != "" && c.ContentServer.NodeID == "" {
		return ErrMissingNodeID
	}
	return nil
}
