package reports

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
)

//go:embed templates/*
var embedded embed.FS

const (
	htmlTemplateName = "dashboard.html"
	cssName          = "styles.css"
)

// TemplateLoader handles loading HTML templates and CSS styles
type TemplateLoader struct {
	fsys fs.FS
}

// NewTemplateLoader creates a loader over the templates built into the binary
func NewTemplateLoader() *TemplateLoader {
	sub, err := fs.Sub(embedded, "templates")
	if err != nil {
		panic(err)
	}
	return &TemplateLoader{fsys: sub}
}

// NewTemplateLoaderFromDir reads templates from dir, for editing them
// without a rebuild
func NewTemplateLoaderFromDir(dir string) *TemplateLoader {
	return &TemplateLoader{fsys: os.DirFS(dir)}
}

// LoadHTMLTemplate loads the dashboard HTML template
func (t *TemplateLoader) LoadHTMLTemplate() (string, error) {
	return t.read(htmlTemplateName)
}

// LoadCSSStyles loads the dashboard stylesheet
func (t *TemplateLoader) LoadCSSStyles() (string, error) {
	return t.read(cssName)
}

func (t *TemplateLoader) read(name string) (string, error) {
	content, err := fs.ReadFile(t.fsys, name)
	if err != nil {
		return "", fmt.Errorf("failed to read template %s: %w", name, err)
	}
	return string(content), nil
}
