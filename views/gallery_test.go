package views

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGallery_Sections(t *testing.T) {
	g := NewGallery()
	sections := g.Sections()
	require.Len(t, sections, 3)
	assert.Equal(t, "annual-tech-fest-2024", sections[0].Slug)
	assert.Equal(t, "Hackathon Champions 2024", sections[2].Name)
}

func TestGallery_DownloadAllKeepsOrder(t *testing.T) {
	g := NewGallery()
	urls, ok := g.DownloadAll("robotics-workshop-series")
	require.True(t, ok)
	assert.Equal(t, g.Sections()[1].Images, urls)

	// Callers cannot mutate the fixed list
	urls[0] = "changed"
	again, _ := g.DownloadAll("robotics-workshop-series")
	assert.NotEqual(t, "changed", again[0])

	_, ok = g.DownloadAll("missing")
	assert.False(t, ok)
}
