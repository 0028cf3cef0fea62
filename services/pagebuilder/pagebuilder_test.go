package pagebuilder

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderHeadingEscapesContent(t *testing.T) {
	out := Render([]Block{
		{Type: BlockHeading, Content: "<script>alert(1)</script>", Meta: map[string]string{"size": "1"}},
	})
	assert.Contains(t, out, "<h1>")
	assert.NotContains(t, out, "<script>")
	assert.Contains(t, out, "&lt;script&gt;")
}

func TestRenderHeadingLevelDefaultsAndClamps(t *testing.T) {
	assert.Contains(t, Render([]Block{{Type: BlockHeading, Content: "x"}}), "<h2>")
	assert.Contains(t, Render([]Block{{Type: BlockHeading, Content: "x", Meta: map[string]string{"size": "7"}}}), "<h2>")
	assert.Contains(t, Render([]Block{{Type: BlockHeading, Content: "x", Meta: map[string]string{"size": "3"}}}), "<h3>")
}

func TestRenderUnknownTypeRendersNothing(t *testing.T) {
	out := Render([]Block{
		{Type: "carousel", Content: "something"},
		{Type: BlockText, Content: "kept"},
	})
	assert.NotContains(t, out, "something")
	assert.Contains(t, out, "<p>kept</p>")
}

func TestRenderLinkRejectsUnsafeSchemes(t *testing.T) {
	out := Render([]Block{
		{Type: BlockLink, Content: "click", Meta: map[string]string{"url": "javascript:alert(1)"}},
	})
	assert.Empty(t, out)

	out = Render([]Block{
		{Type: BlockLink, Content: "click", Meta: map[string]string{"url": "https://example.com", "style": "button"}},
	})
	assert.Contains(t, out, `href="https://example.com"`)
	assert.Contains(t, out, "link-button")
}

func TestRenderImageAttributes(t *testing.T) {
	out := Render([]Block{
		{Type: BlockImage, Content: "https://cdn.example.com/a.png", Meta: map[string]string{"alt": "hero", "width": "640"}},
	})
	assert.Contains(t, out, `src="https://cdn.example.com/a.png"`)
	assert.Contains(t, out, `alt="hero"`)
	assert.Contains(t, out, `width="640"`)

	// data: URIs are dropped entirely
	out = Render([]Block{{Type: BlockImage, Content: "data:text/html,x"}})
	assert.Empty(t, out)
}

func TestRenderSpacerDefaultHeight(t *testing.T) {
	out := Render([]Block{{Type: BlockSpacer}})
	assert.Contains(t, out, "height:24px")

	out = Render([]Block{{Type: BlockSpacer, Meta: map[string]string{"height": "64"}}})
	assert.Contains(t, out, "height:64px")
}

func TestRenderPreservesBlockOrder(t *testing.T) {
	out := Render([]Block{
		{Type: BlockHeading, Content: "first"},
		{Type: BlockText, Content: "second"},
	})
	assert.Less(t, strings.Index(out, "first"), strings.Index(out, "second"))
}

func TestParseBlocks(t *testing.T) {
	blocks, err := ParseBlocks([]byte(`[{"type":"text","content":"hi"}]`))
	require.NoError(t, err)
	require.Len(t, blocks, 1)
	assert.Equal(t, BlockText, blocks[0].Type)

	blocks, err = ParseBlocks(nil)
	require.NoError(t, err)
	assert.Nil(t, blocks)

	blocks, err = ParseBlocks([]byte("null"))
	require.NoError(t, err)
	assert.Nil(t, blocks)

	_, err = ParseBlocks([]byte("{not json"))
	assert.Error(t, err)
}

func TestValidateBlocks(t *testing.T) {
	err := ValidateBlocks([]Block{
		{Type: BlockHeading}, {Type: BlockText}, {Type: BlockImage},
		{Type: BlockVideo}, {Type: BlockLink}, {Type: BlockSpacer},
	})
	assert.NoError(t, err)

	err = ValidateBlocks([]Block{{Type: "carousel"}})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "carousel")
}
