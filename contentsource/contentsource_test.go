package contentsource

import (
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/foomo/contentserver/content"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func node(id, name, uri string, data map[string]interface{}, children ...*content.Node) *content.Node {
	n := &content.Node{
		Item: &content.Item{
			ID:   id,
			Name: name,
			URI:  uri,
			Data: data,
		},
		Nodes: map[string]*content.Node{},
	}
	for _, child := range children {
		n.Nodes[child.Item.ID] = child
		n.Index = append(n.Index, child.Item.ID)
	}
	return n
}

func TestFromNode(t *testing.T) {
	hidden := node("drafts", "Drafts", "/drafts", nil)
	hidden.Item.Hidden = true

	root := node("root", "Home", "/", map[string]interface{}{"title": "Lifestyle Homepage"},
		node("recipes", "Recipes", "/recipes", map[string]interface{}{
			"description": "Collection of cooking recipes",
			"keywords":    []interface{}{"cooking", 42, "food"},
		},
			node("italian", "Italian", "/recipes/italian", map[string]interface{}{"keywords": "pasta, pizza,"}),
		),
		hidden,
	)
	root.Index = append(root.Index, "dangling")

	p := FromNode(root)
	assert.Equal(t, "Home", p.Name())
	assert.Equal(t, "/", p.URL())
	assert.Equal(t, "Lifestyle Homepage", p.Title())

	children := p.FindAll()
	require.Len(t, children, 2, spew.Sdump(root))
	assert.Equal(t, "/recipes", children[0].URL())
	assert.Equal(t, "/drafts", children[1].URL())
	assert.True(t, children[1].IsHidden())

	recipes := children[0]
	assert.Equal(t, "Collection of cooking recipes", recipes.Description())
	assert.Equal(t, []string{"cooking", "food"}, recipes.Keywords())

	italian := p.Find("/recipes/italian")
	require.NotNil(t, italian)
	assert.Equal(t, []string{"pasta", "pizza"}, italian.Keywords())
	assert.Empty(t, italian.Title())
}

func TestFromNodeKeepsIndexOrder(t *testing.T) {
	root := node("root", "Home", "/", nil,
		node("b", "B", "/b", nil),
		node("a", "A", "/a", nil),
	)
	var got []string
	for _, child := range FromNode(root).FindAll() {
		got = append(got, child.URL())
	}
	assert.Equal(t, []string{"/b", "/a"}, got)
}

func TestNodeRequest(t *testing.T) {
	req := nodeRequest(Settings{
		NodeID:            "main",
		Dimension:         "de",
		MimeTypes:         []string{"text/html"},
		ExposeHiddenNodes: true,
	})
	assert.Equal(t, "main", req.ID)
	assert.Equal(t, "de", req.Dimension)
	assert.Equal(t, []string{"text/html"}, req.MimeTypes)
	assert.True(t, req.Expand)
	assert.True(t, req.ExposeHiddenNodes)

	assert.False(t, nodeRequest(Settings{NodeID: "main"}).ExposeHiddenNodes)
}
