package components

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/muesli/termenv"
)

const (
	defaultGlamourStyle = "dark"
	defaultRenderWidth  = 80
	markdownCacheBytes  = 1 << 20 // 1 MiB
	styleDetectTimeout  = 50 * time.Millisecond
)

// MarkdownRenderer renders markdown with glamour and keeps recent output in
// a byte-capped LRU cache keyed by document key and width. It is safe for use
// from tea.Cmd goroutines.
type MarkdownRenderer struct {
	mu    sync.Mutex
	style string
	cache *lruCache
}

// NewMarkdownRenderer uses style, or detects one from the terminal when
// style is empty.
func NewMarkdownRenderer(style string) *MarkdownRenderer {
	if style == "" {
		style = DetectGlamourStyle(styleDetectTimeout)
	}
	return &MarkdownRenderer{style: style, cache: newLRU(markdownCacheBytes)}
}

func (r *MarkdownRenderer) Style() string { return r.style }

// Render returns content rendered for width columns. Output for the same key
// and width is served from the cache.
func (r *MarkdownRenderer) Render(key, content string, width int) (string, error) {
	if width <= 0 {
		width = defaultRenderWidth
	}
	cacheKey := fmt.Sprintf("%s|%d", key, width)

	r.mu.Lock()
	if cached, ok := r.cache.Get(cacheKey); ok {
		r.mu.Unlock()
		return cached, nil
	}
	r.mu.Unlock()

	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(r.style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", fmt.Errorf("failed to create markdown renderer: %w", err)
	}
	out, err := renderer.Render(content)
	if err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}

	r.mu.Lock()
	r.cache.Add(cacheKey, out)
	r.mu.Unlock()
	return out, nil
}

// DetectGlamourStyle attempts to detect terminal background using termenv,
// but will respect GLAMOUR_STYLE if set to a concrete value (not "auto").
// A timeout ensures we never hang on terminals that don't respond.
func DetectGlamourStyle(timeout time.Duration) string {
	style := os.Getenv("GLAMOUR_STYLE")
	if style != "" && style != "auto" {
		return style
	}

	ch := make(chan string, 1)
	go func() {
		out := termenv.NewOutput(os.Stdout)
		if out.HasDarkBackground() {
			ch <- "dark"
			return
		}
		ch <- "light"
	}()

	select {
	case s := <-ch:
		return s
	case <-time.After(timeout):
		return defaultGlamourStyle
	}
}
