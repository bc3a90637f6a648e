package models

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidTemplate is returned when a template fails validation at load time.
var ErrInvalidTemplate = errors.New("invalid template")

// RoleSlot is one claimable role within a template.
type RoleSlot struct {
	Emoji    string `yaml:"emoji"`
	Name     string `yaml:"name"`
	Capacity int    `yaml:"capacity"`
}

// RoleTemplate is a named, ordered set of role slots reusable across events.
type RoleTemplate struct {
	Name  string     `yaml:"name"`
	Slots []RoleSlot `yaml:"slots"`
}

// TemplateRole is a single row of the templates table.
type TemplateRole struct {
	TemplateName string `gorm:"primaryKey;not null"`
	Emoji        string `gorm:"primaryKey;not null"`
	RoleName     string `gorm:"not null"`
	RoleLimit    int    `gorm:"not null"`
}

// TableName keeps slot rows in the "templates" table.
func (TemplateRole) TableName() string {
	return "templates"
}

// Validate checks the template is well formed.
func (t RoleTemplate) Validate() error {
	if t.Name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidTemplate)
	}
	if t.Name != strings.ToLower(t.Name) {
		return fmt.Errorf("%w: name %v must be lower case", ErrInvalidTemplate, t.Name)
	}
	if len(t.Slots) == 0 {
		return fmt.Errorf("%w: %v has no role slots", ErrInvalidTemplate, t.Name)
	}

	seen := make(map[string]bool, len(t.Slots))
	for _, slot := range t.Slots {
		switch {
		case slot.Emoji == "":
			return fmt.Errorf("%w: %v has a slot without an emoji", ErrInvalidTemplate, t.Name)
		case slot.Name == "":
			return fmt.Errorf("%w: %v slot %v has no name", ErrInvalidTemplate, t.Name, slot.Emoji)
		case slot.Capacity <= 0:
			return fmt.Errorf(
				"%w: %v slot %v has capacity %d",
				ErrInvalidTemplate,
				t.Name,
				slot.Emoji,
				slot.Capacity,
			)
		case seen[slot.Emoji]:
			return fmt.Errorf("%w: %v repeats emoji %v", ErrInvalidTemplate, t.Name, slot.Emoji)
		}
		seen[slot.Emoji] = true
	}

	return nil
}

// Slot returns the role slot claimed with the given emoji.
func (t RoleTemplate) Slot(emoji string) (RoleSlot, bool) {
	for _, slot := range t.Slots {
		if slot.Emoji == emoji {
			return slot, true
		}
	}
	return RoleSlot{}, false
}

// Emojis returns the slot emojis in template order.
func (t RoleTemplate) Emojis() []string {
	emojis := make([]string, len(t.Slots))
	for i, slot := range t.Slots {
		emojis[i] = slot.Emoji
	}
	return emojis
}

// Rows flattens the template into table rows.
func (t RoleTemplate) Rows() []TemplateRole {
	rows := make([]TemplateRole, len(t.Slots))
	for i, slot := range t.Slots {
		rows[i] = TemplateRole{
			TemplateName: t.Name,
			Emoji:        slot.Emoji,
			RoleName:     slot.Name,
			RoleLimit:    slot.Capacity,
		}
	}
	return rows
}
