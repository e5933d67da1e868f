package format

import (
	"strings"
	"sync"

	"charm.land/glamour/v2"
	"charm.land/glamour/v2/styles"
)

// Markdown renders text for the terminal at width columns. Rendering
// failures fall back to word-wrapped plain text.
type Markdown struct {
	mu        sync.Mutex
	renderers map[int]*glamour.TermRenderer
}

// NewMarkdown returns a renderer cache keyed by width.
func NewMarkdown() *Markdown {
	return &Markdown{renderers: make(map[int]*glamour.TermRenderer)}
}

// Render renders text as markdown.
func (m *Markdown) Render(text string, width int) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}
	r, err := m.renderer(width)
	if err != nil {
		log.WithError(err).Debug("markdown renderer unavailable")
		return Wrap(text, width)
	}
	out, err := r.Render(text)
	if err != nil {
		log.WithError(err).Debug("markdown render failed")
		return Wrap(text, width)
	}
	return strings.Trim(out, "\n")
}

func (m *Markdown) renderer(width int) (*glamour.TermRenderer, error) {
	if width <= 0 {
		width = 80
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.renderers[width]; ok {
		return r, nil
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithWordWrap(width),
		glamour.WithStyles(styles.DarkStyleConfig),
	)
	if err != nil {
		return nil, err
	}
	m.renderers[width] = r
	return r, nil
}
