package dal

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"rollcall/models"

	"gopkg.in/yaml.v3"
)

//go:embed default_templates.yaml
var defaultTemplates []byte

// DefaultTemplates returns the templates seeded into an empty store.
func DefaultTemplates() ([]models.RoleTemplate, error) {
	return ParseTemplates(defaultTemplates)
}

// LoadTemplatesFile reads a template set in the same format as the defaults.
func LoadTemplatesFile(path string) ([]models.RoleTemplate, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read templates file: %w", err)
	}
	return ParseTemplates(data)
}

// ParseTemplates decodes and validates a YAML list of templates. Template
// names are lower-cased, matching how events look them up.
func ParseTemplates(data []byte) ([]models.RoleTemplate, error) {
	var templates []models.RoleTemplate
	if err := yaml.Unmarshal(data, &templates); err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	seen := make(map[string]bool, len(templates))
	for i := range templates {
		tmpl := &templates[i]
		tmpl.Name = strings.ToLower(strings.TrimSpace(tmpl.Name))
		if err := tmpl.Validate(); err != nil {
			return nil, err
		}
		if seen[tmpl.Name] {
			return nil, fmt.Errorf("%w: %v declared twice", models.ErrInvalidTemplate, tmpl.Name)
		}
		seen[tmpl.Name] = true
	}

	return templates, nil
}
