package components

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectGlamourStyle_EnvOverride(t *testing.T) {
	t.Setenv("GLAMOUR_STYLE", "dracula")
	assert.Equal(t, "dracula", DetectGlamourStyle(time.Millisecond))
}

func TestDetectGlamourStyle_AutoFallsBackToDetection(t *testing.T) {
	t.Setenv("GLAMOUR_STYLE", "auto")
	style := DetectGlamourStyle(time.Millisecond)
	assert.Contains(t, []string{"dark", "light"}, style)
}

func TestMarkdownRenderer_CachesByKeyAndWidth(t *testing.T) {
	r := NewMarkdownRenderer("notty")
	assert.Equal(t, "notty", r.Style())

	first, err := r.Render("doc", "# Hello\n\nSome text.", 40)
	require.NoError(t, err)
	assert.Contains(t, first, "Hello")
	assert.Equal(t, 1, r.cache.Len())

	// same key is served from the cache even if content changed
	again, err := r.Render("doc", "# Other", 40)
	require.NoError(t, err)
	assert.Equal(t, first, again)
	assert.Equal(t, 1, r.cache.Len())

	_, err = r.Render("doc", "# Hello\n\nSome text.", 60)
	require.NoError(t, err)
	assert.Equal(t, 2, r.cache.Len())
}

func TestMarkdownRenderer_DefaultWidth(t *testing.T) {
	r := NewMarkdownRenderer("notty")
	_, err := r.Render("doc", "text", 0)
	require.NoError(t, err)

	_, ok := r.cache.Get("doc|80")
	assert.True(t, ok)
}

func TestMarkdownRenderer_UnknownStyle(t *testing.T) {
	r := NewMarkdownRenderer("no-such-style")
	_, err := r.Render("doc", "text", 40)
	assert.Error(t, err)
	assert.Equal(t, 0, r.cache.Len())
}
