package reports

import (
	"bytes"
	"fmt"
	"html/template"
	"sync"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"

	"roomclimate/internal/charts"
)

// HTMLBuilder handles HTML generation with goldmark
type HTMLBuilder struct {
	templateLoader *TemplateLoader
	goldmark       goldmark.Markdown

	once sync.Once
	tmpl *template.Template
	err  error
}

// NewHTMLBuilder creates an HTML builder
func NewHTMLBuilder(loader *TemplateLoader) *HTMLBuilder {
	if loader == nil {
		loader = NewTemplateLoader()
	}

	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			html.WithHardWraps(),
			html.WithUnsafe(),
		),
	)

	return &HTMLBuilder{
		templateLoader: loader,
		goldmark:       md,
	}
}

// TemplateData represents the data structure for the HTML template
type TemplateData struct {
	Dashboard   *Dashboard
	CSSFilePath string
	EChartsCDN  template.HTML
	Live        bool
}

// ConvertMarkdownToHTML converts markdown to HTML using goldmark
func (h *HTMLBuilder) ConvertMarkdownToHTML(markdownContent string) (string, error) {
	var buf bytes.Buffer
	if err := h.goldmark.Convert([]byte(markdownContent), &buf); err != nil {
		return "", fmt.Errorf("failed to convert markdown: %w", err)
	}
	return buf.String(), nil
}

// LoadStaticCSS loads the static CSS content without template processing
func (h *HTMLBuilder) LoadStaticCSS() (string, error) {
	return h.templateLoader.LoadCSSStyles()
}

// BuildDashboardHTML renders the full dashboard page. cssPath is the href of
// the stylesheet; live pages get the slider script.
func (h *HTMLBuilder) BuildDashboardHTML(d *Dashboard, cssPath string, live bool) (string, error) {
	tmpl, err := h.template()
	if err != nil {
		return "", err
	}

	data := TemplateData{
		Dashboard:   d,
		CSSFilePath: cssPath,
		EChartsCDN:  template.HTML(charts.EChartsCDN),
		Live:        live,
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.String(), nil
}

func (h *HTMLBuilder) template() (*template.Template, error) {
	h.once.Do(func() {
		var src string
		src, h.err = h.templateLoader.LoadHTMLTemplate()
		if h.err != nil {
			h.err = fmt.Errorf("failed to load HTML template: %w", h.err)
			return
		}
		h.tmpl, h.err = template.New("dashboard").Parse(src)
		if h.err != nil {
			h.err = fmt.Errorf("failed to parse template: %w", h.err)
		}
	})
	return h.tmpl, h.err
}
