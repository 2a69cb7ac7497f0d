package contentsource

import (
	"context"
	"errors"
	"fmt"
	"strings"

	contentserverclient "github.com/foomo/contentserver/client"
	"github.com/foomo/contentserver/content"
	"github.com/foomo/contentserver/requests"
	"github.com/foomo/pagetree-mcp/page"
)

var ErrNodeNotFound = errors.New("content node not found")

// Settings select the navigation node that becomes the root page
type Settings struct {
	Env               *requests.Env
	NodeID            string
	Dimension         string
	MimeTypes         []string
	ExposeHiddenNodes bool
}

// Load fetches the expanded navigation below settings.NodeID and converts it
func Load(ctx context.Context, client *contentserverclient.Client, settings Settings) (*page.Page, error) {
	env := settings.Env
	if env == nil {
		env = &requests.Env{}
	}
	nodes, err := client.GetNodes(ctx, env, map[string]*requests.Node{
		settings.NodeID: nodeRequest(settings),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get nodes: %w", err)
	}
	node, ok := nodes[settings.NodeID]
	if !ok || node == nil || node.Item == nil {
		return nil, fmt.Errorf("%w: %s", ErrNodeNotFound, settings.NodeID)
	}
	return FromNode(node), nil
}

func nodeRequest(settings Settings) *requests.Node {
	return &requests.Node{
		ID:                settings.NodeID,
		Dimension:         settings.Dimension,
		MimeTypes:         settings.MimeTypes,
		Expand:            true,
		ExposeHiddenNodes: settings.ExposeHiddenNodes,
	}
}

// FromNode converts a content node and its children, in index order.
// Title, description and keywords are taken from the item data when present.
func FromNode(node *content.Node) *page.Page {
	item := node.Item
	p := page.New(page.Info{Name: item.Name, URL: item.URI}).
		SetTitle(dataString(item.Data, "title")).
		SetDescription(dataString(item.Data, "description")).
		SetKeywords(dataStrings(item.Data, "keywords")).
		SetHidden(item.Hidden)
	for _, id := range node.Index {
		child, ok := node.Nodes[id]
		if !ok || child == nil || child.Item == nil {
			continue
		}
		p.Add(FromNode(child))
	}
	return p
}

func dataString(data map[string]interface{}, key string) string {
	if v, ok := data[key].(string); ok {
		return v
	}
	return ""
}

func dataStrings(data map[string]interface{}, key string) []string {
	switch v := data[key].(type) {
	case []string:
		return v
	case []interface{}:
		ret := make([]string, 0, len(v))
		for _, s := range v {
			if str, ok := s.(string); ok {
				ret = append(ret, str)
			}
		}
		return ret
	case string:
		var ret []string
		for _, s := range strings.Split(v, ",") {
			if trimmed := strings.TrimSpace(s); trimmed != "" {
				ret = append(ret, trimmed)
			}
		}
		return ret
	}
	return nil
}
