package showcase

import (
	"bytes"
	"context"
	"testing"

	"github.com/conneroisu/fluentcarousel/internal/carousel"
	"github.com/conneroisu/fluentcarousel/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func snapshot(index int) carousel.Snapshot {
	c := carousel.New(
		carousel.WithItems([]types.Item{
			{ID: "a", Title: "Alpha"},
			{ID: "b", Title: "Beta <b>", Image: "/img/b.png"},
			{ID: "c", Title: "Gamma", Description: "third"},
		}),
		carousel.WithActiveIndex(index),
	)
	defer c.Close()
	return c.Snapshot()
}

func render(t *testing.T, opts Options, snap carousel.Snapshot) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, Carousel(opts, snap).Render(context.Background(), &buf))
	return buf.String()
}

func TestSizeLabel(t *testing.T) {
	assert.Equal(t, "Large", SizeLabel("large"))
	assert.Equal(t, "Small", SizeLabel("SMALL"))
	assert.Equal(t, "Medium", SizeLabel(""))
	assert.Equal(t, "fluent-carousel--large", SizeClass("Large"))
	assert.Equal(t, "fluent-carousel--medium", SizeClass(""))
}

func TestCarousel_MarksActiveItem(t *testing.T) {
	html := render(t, DefaultOptions(), snapshot(1))

	assert.Contains(t, html, `data-index="1"`)
	assert.Contains(t, html, `class="fluent-carousel__item fluent-carousel__item--active" data-id="b"`)
	assert.Contains(t, html, `aria-selected="true" aria-label="Go to item 2"`)
	assert.Contains(t, html, `<p>third</p>`)
}

func TestCarousel_EscapesItemContent(t *testing.T) {
	html := render(t, DefaultOptions(), snapshot(0))

	assert.Contains(t, html, "Beta &lt;b&gt;")
	assert.NotContains(t, html, "Beta <b>")
}

func TestCarousel_ControlsFollowBoundaries(t *testing.T) {
	first := render(t, DefaultOptions(), snapshot(0))
	assert.Contains(t, first, `data-action="previous" aria-label="Previous" disabled>`)
	assert.Contains(t, first, `data-action="next" aria-label="Next">`)

	last := render(t, DefaultOptions(), snapshot(2))
	assert.Contains(t, last, `data-action="next" aria-label="Next" disabled>`)
}

func TestCarousel_HidesOptionalParts(t *testing.T) {
	opts := DefaultOptions()
	opts.ShowControls = false
	opts.ShowIndicators = false
	opts.Size = "small"

	html := render(t, opts, snapshot(0))
	assert.NotContains(t, html, "fluent-carousel__control")
	assert.NotContains(t, html, "fluent-carousel__indicators")
	assert.Contains(t, html, "fluent-carousel--small")
	assert.Contains(t, html, `aria-label="Small carousel"`)
}

func TestCarousel_Empty(t *testing.T) {
	c := carousel.New()
	defer c.Close()

	html := render(t, DefaultOptions(), c.Snapshot())
	assert.Contains(t, html, "No items")
	assert.NotContains(t, html, "fluent-carousel__indicators")
}

func TestPage_WrapsCarousel(t *testing.T) {
	var buf bytes.Buffer
	opts := DefaultOptions()
	opts.Title = "Demo & Co"

	require.NoError(t, Page(opts, snapshot(0)).Render(context.Background(), &buf))

	html := buf.String()
	assert.Contains(t, html, "<!doctype html>")
	assert.Contains(t, html, "<title>Demo &amp; Co</title>")
	assert.Contains(t, html, `<div id="carousel"><div class="fluent-carousel`)
	assert.Contains(t, html, `"/ws"`)
}

func TestCarousel_EscapesAttributes(t *testing.T) {
	opts := DefaultOptions()
	opts.Size = `x" onmouseover="alert(1)`

	snap := snapshot(0)
	snap.Items[0].ID = `a" onclick="alert(2)`
	snap.Scheduler = `idle"><script>`

	html := render(t, opts, snap)
	assert.NotContains(t, html, `onmouseover="alert(1)"`)
	assert.NotContains(t, html, `onclick="alert(2)"`)
	assert.NotContains(t, html, `<script>`)
	assert.Contains(t, html, `class="fluent-carousel fluent-carousel--x&#34; onmouseover=&#34;alert(1)"`)
	assert.Contains(t, html, `data-id="a&#34; onclick=&#34;alert(2)"`)
}
