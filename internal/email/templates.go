package email

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"os"
	"path"
	"strings"
	"sync"
)

//go:embed templates/*.html
var builtinTemplates embed.FS

// TemplateManager хранит html шаблоны писем по имени файла без расширения
type TemplateManager struct {
	mu  sync.RWMutex
	set map[string]*template.Template
}

// NewTemplateManager загружает встроенные шаблоны
func NewTemplateManager() *TemplateManager {
	tm := &TemplateManager{set: make(map[string]*template.Template)}
	if err := tm.loadFS(builtinTemplates, "templates"); err != nil {
		panic(fmt.Sprintf("email: broken builtin templates: %v", err))
	}
	return tm
}

func (tm *TemplateManager) Render(name string, data TemplateData) (string, error) {
	tm.mu.RLock()
	tpl, ok := tm.set[name]
	tm.mu.RUnlock()
	if !ok {
		return "", fmt.Errorf("template not found: %s", name)
	}

	var buf bytes.Buffer
	if err := tpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return buf.String(), nil
}

// AddTemplate разбирает src и заменяет шаблон с тем же именем
func (tm *TemplateManager) AddTemplate(name, src string) error {
	tpl, err := template.New(name).Parse(src)
	if err != nil {
		return fmt.Errorf("parse %s: %w", name, err)
	}
	tm.mu.Lock()
	tm.set[name] = tpl
	tm.mu.Unlock()
	return nil
}

// LoadTemplates перекрывает встроенные шаблоны файлами *.html из dir
func (tm *TemplateManager) LoadTemplates(dir string) error {
	return tm.loadFS(os.DirFS(dir), ".")
}

func (tm *TemplateManager) loadFS(fsys fs.FS, root string) error {
	return fs.WalkDir(fsys, root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || path.Ext(p) != ".html" {
			return nil
		}
		src, err := fs.ReadFile(fsys, p)
		if err != nil {
			return err
		}
		return tm.AddTemplate(strings.TrimSuffix(d.Name(), ".html"), string(src))
	})
}
