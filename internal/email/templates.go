package email

import (
	"fmt"
	"html/template"
	"strings"
	"sync"
)

// TemplateDigest is the weekly unread-notifications digest.
const TemplateDigest = "digest"

const digestTemplate = `<html>
<body style="font-family: sans-serif; color: #222;">
	<h2>Hi {{.Name}},</h2>
	<p>You have <strong>{{.UnreadCount}}</strong> unread notification{{if ne .UnreadCount 1}}s{{end}} waiting for you on DevLink.</p>
	<p><a href="{{.DashboardURL}}">Open your dashboard</a> to catch up.</p>
	<p style="color: #888; font-size: 12px;">You receive this digest while you have unread notifications.</p>
</body>
</html>`

// TemplateManager is a concurrency-safe registry of parsed templates.
type TemplateManager struct {
	templates map[string]*template.Template
	mutex     sync.RWMutex
}

// NewTemplateManager returns a manager preloaded with the built-in templates.
func NewTemplateManager() *TemplateManager {
	tm := &TemplateManager{templates: make(map[string]*template.Template)}
	// Built-ins cannot fail to parse; a panic here is a programming error.
	if err := tm.AddTemplate(TemplateDigest, digestTemplate); err != nil {
		panic(err)
	}
	return tm
}

func (tm *TemplateManager) Render(templateName string, data TemplateData) (string, error) {
	tm.mutex.RLock()
	tpl, exists := tm.templates[templateName]
	tm.mutex.RUnlock()

	if !exists {
		return "", fmt.Errorf("template not found: %s", templateName)
	}

	var buf strings.Builder
	if err := tpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.String(), nil
}

func (tm *TemplateManager) AddTemplate(name, templateStr string) error {
	tpl, err := template.New(name).Parse(templateStr)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	tm.mutex.Lock()
	tm.templates[name] = tpl
	tm.mutex.Unlock()
	return nil
}
