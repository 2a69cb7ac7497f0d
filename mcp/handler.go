package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/foomo/pagetree-mcp/page"
	"github.com/foomo/pagetree-mcp/scrape"
	"github.com/foomo/pagetree-mcp/service"
	"github.com/foomo/pagetree-mcp/service/vo"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const Version = "0.1.0"

type ScrapeRequest struct {
	URL      string `json:"url"`      // The URL to scrape
	Selector string `json:"selector"` // CSS selector to extract content
}

type ScrapeResponse struct {
	Summary  *vo.ContentSummary `json:"summary"`
	Markdown string             `json:"markdown"` // The extracted content in markdown format
}

type PageRequest struct {
	URL string `json:"url"` // Page url, empty for the root
}

type ListChildrenRequest struct {
	URL           string `json:"url"`
	IncludeHidden bool   `json:"includeHidden"`
}

type ListChildrenResponse struct {
	Children []vo.DocumentSummary `json:"children"`
}

type GetDocumentResponse struct {
	Document *vo.Document `json:"document"` // The document with full structure
}

type AddPageRequest struct {
	ParentURL string `json:"parentUrl"`
	Name      string `json:"name"`
	URL       string `json:"url"`
	Index     *int   `json:"index,omitempty"`
}

type RemovePageRequest struct {
	ParentURL string `json:"parentUrl"`
	URL       string `json:"url"`
}

type RemovePageResponse struct {
	Removed bool `json:"removed"`
}

type UpdatePageRequest struct {
	URL string `json:"url"`
	service.Update
}

type HidePageRequest struct {
	URL    string `json:"url"`
	Hidden *bool  `json:"hidden,omitempty"`
}

// NewServer creates a new MCP server with the scrape tool and, given a
// service, the page tree tools
func NewServer(client *http.Client, serviceInstance service.Service) *server.MCPServer {
	if client == nil {
		client = http.DefaultClient
	}
	s := server.NewMCPServer(
		"Page Tree MCP",
		Version,
		server.WithToolCapabilities(false),
	)

	scrapeTool := mcp.NewTool("scrape",
		mcp.WithDescription("Scrape content from a webpage and convert it to markdown"),
		mcp.WithString("url",
			mcp.Required(),
			mcp.Description("The URL of the webpage to scrape"),
		),
		mcp.WithString("selector",
			mcp.Required(),
			mcp.Description("CSS selector to extract specific content (e.g., '#content', '.article', 'article')"),
		),
	)
	s.AddTool(scrapeTool, mcp.NewTypedToolHandler(getScrapeHandler(client)))

	if serviceInstance == nil {
		return s
	}

	s.AddTool(mcp.NewTool("findPage",
		mcp.WithDescription("Find a page of the tree by its url"),
		mcp.WithString("url", mcp.Required(), mcp.Description("The url of the page")),
	), mcp.NewTypedToolHandler(getFindPageHandler(serviceInstance)))

	s.AddTool(mcp.NewTool("listChildren",
		mcp.WithDescription("List the direct sub pages of a page in navigation order"),
		mcp.WithString("url", mcp.Description("The url of the parent page, empty for the root")),
		mcp.WithBoolean("includeHidden", mcp.Description("Include hidden pages")),
	), mcp.NewTypedToolHandler(getListChildrenHandler(serviceInstance)))

	s.AddTool(mcp.NewTool("getDocument",
		mcp.WithDescription("Get a document with full structure including breadcrumbs, siblings, and children"),
		mcp.WithString("url", mcp.Required(), mcp.Description("The url of the page")),
	), mcp.NewTypedToolHandler(getDocumentHandler(serviceInstance)))

	s.AddTool(mcp.NewTool("addPage",
		mcp.WithDescription("Add a page below a parent page"),
		mcp.WithString("parentUrl", mcp.Description("The url of the parent page, empty for the root")),
		mcp.WithString("name", mcp.Required(), mcp.Description("The name of the new page")),
		mcp.WithString("url", mcp.Required(), mcp.Description("The url of the new page, must not be in use")),
		mcp.WithNumber("index", mcp.Description("Position among the sub pages, negative counts from the end; appends when omitted")),
	), mcp.NewTypedToolHandler(getAddPageHandler(serviceInstance)))

	s.AddTool(mcp.NewTool("removePage",
		mcp.WithDescription("Remove a direct sub page from a parent page"),
		mcp.WithString("parentUrl", mcp.Description("The url of the parent page, empty for the root")),
		mcp.WithString("url", mcp.Required(), mcp.Description("The url of the page to remove")),
	), mcp.NewTypedToolHandler(getRemovePageHandler(serviceInstance)))

	s.AddTool(mcp.NewTool("updatePage",
		mcp.WithDescription("Change title, description or keywords of a page"),
		mcp.WithString("url", mcp.Required(), mcp.Description("The url of the page")),
		mcp.WithString("title", mcp.Description("New title")),
		mcp.WithString("description", mcp.Description("New description")),
		mcp.WithArray("keywords", mcp.Description("New keywords"), mcp.Items(map[string]any{"type": "string"})),
	), mcp.NewTypedToolHandler(getUpdatePageHandler(serviceInstance)))

	s.AddTool(mcp.NewTool("hidePage",
		mcp.WithDescription("Hide or show a page in the navigation"),
		mcp.WithString("url", mcp.Required(), mcp.Description("The url of the page")),
		mcp.WithBoolean("hidden", mcp.Description("Hidden state, defaults to true")),
	), mcp.NewTypedToolHandler(getHidePageHandler(serviceInstance)))

	return s
}

func jsonResult(response any) *mcp.CallToolResult {
	responseBytes, err := json.Marshal(response)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err))
	}
	return mcp.NewToolResultText(string(responseBytes))
}

func getScrapeHandler(client *http.Client) func(ctx context.Context, request mcp.CallToolRequest, args ScrapeRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest, args ScrapeRequest) (*mcp.CallToolResult, error) {
		if args.URL == "" {
			return mcp.NewToolResultError("url is required"), nil
		}
		if args.Selector == "" {
			return mcp.NewToolResultError("selector is required"), nil
		}

		summary, markdown, err := scrape.Scrape(ctx, client, args.URL, args.Selector)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to scrape content: %v", err)), nil
		}

		return jsonResult(ScrapeResponse{
			Summary:  summary,
			Markdown: string(markdown),
		}), nil
	}
}

func getFindPageHandler(serviceInstance service.Service) func(ctx context.Context, request mcp.CallToolRequest, args PageRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest, args PageRequest) (*mcp.CallToolResult, error) {
		if args.URL == "" {
			return mcp.NewToolResultError("url is required"), nil
		}
		summary, err := serviceInstance.FindPage(ctx, args.URL)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to find page: %v", err)), nil
		}
		return jsonResult(summary), nil
	}
}

func getListChildrenHandler(serviceInstance service.Service) func(ctx context.Context, request mcp.CallToolRequest, args ListChildrenRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest, args ListChildrenRequest) (*mcp.CallToolResult, error) {
		children, err := serviceInstance.ListChildren(ctx, args.URL, args.IncludeHidden)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to list children: %v", err)), nil
		}
		return jsonResult(ListChildrenResponse{Children: children}), nil
	}
}

func getDocumentHandler(serviceInstance service.Service) func(ctx context.Context, request mcp.CallToolRequest, args PageRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest, args PageRequest) (*mcp.CallToolResult, error) {
		if args.URL == "" {
			return mcp.NewToolResultError("url is required"), nil
		}
		document, err := serviceInstance.GetDocument(ctx, args.URL)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to get document: %v", err)), nil
		}
		return jsonResult(GetDocumentResponse{Document: document}), nil
	}
}

func getAddPageHandler(serviceInstance service.Service) func(ctx context.Context, request mcp.CallToolRequest, args AddPageRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest, args AddPageRequest) (*mcp.CallToolResult, error) {
		if args.URL == "" {
			return mcp.NewToolResultError("url is required"), nil
		}
		summary, err := serviceInstance.AddPage(ctx, args.ParentURL, page.Info{Name: args.Name, URL: args.URL}, args.Index)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to add page: %v", err)), nil
		}
		return jsonResult(summary), nil
	}
}

func getRemovePageHandler(serviceInstance service.Service) func(ctx context.Context, request mcp.CallToolRequest, args RemovePageRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest, args RemovePageRequest) (*mcp.CallToolResult, error) {
		if args.URL == "" {
			return mcp.NewToolResultError("url is required"), nil
		}
		removed, err := serviceInstance.RemovePage(ctx, args.ParentURL, args.URL)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to remove page: %v", err)), nil
		}
		return jsonResult(RemovePageResponse{Removed: removed}), nil
	}
}

func getUpdatePageHandler(serviceInstance service.Service) func(ctx context.Context, request mcp.CallToolRequest, args UpdatePageRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest, args UpdatePageRequest) (*mcp.CallToolResult, error) {
		if args.URL == "" {
			return mcp.NewToolResultError("url is required"), nil
		}
		summary, err := serviceInstance.UpdatePage(ctx, args.URL, args.Update)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to update page: %v", err)), nil
		}
		return jsonResult(summary), nil
	}
}

func getHidePageHandler(serviceInstance service.Service) func(ctx context.Context, request mcp.CallToolRequest, args HidePageRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest, args HidePageRequest) (*mcp.CallToolResult, error) {
		if args.URL == "" {
			return mcp.NewToolResultError("url is required"), nil
		}
		hidden := true
		if args.Hidden != nil {
			hidden = *args.Hidden
		}
		summary, err := serviceInstance.HidePage(ctx, args.URL, hidden)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to hide page: %v", err)), nil
		}
		return jsonResult(summary), nil
	}
}
