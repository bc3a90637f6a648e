package dal

import (
	"context"
	"fmt"

	"rollcall/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// TemplateStore reads role templates from the templates table.
type TemplateStore struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewTemplateStore returns a template store backed by db.
func NewTemplateStore(db *gorm.DB, logger *zap.Logger) *TemplateStore {
	return &TemplateStore{db: db, logger: logger.Named("templates")}
}

// ListTemplateNames returns every distinct template name in ascending order.
func (s *TemplateStore) ListTemplateNames(ctx context.Context) ([]string, error) {
	var names []string
	err := s.db.WithContext(ctx).
		Model(&models.TemplateRole{}).
		Distinct().
		Order("template_name").
		Pluck("template_name", &names).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}
	return names, nil
}

// GetRoleSlots returns the slots of the named template in declared order.
func (s *TemplateStore) GetRoleSlots(ctx context.Context, name string) ([]models.RoleSlot, error) {
	var rows []models.TemplateRole
	// rowid follows insertion order, which is the declared slot order.
	err := s.db.WithContext(ctx).
		Where(&models.TemplateRole{TemplateName: name}).
		Order("rowid").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get roles of template %v: %w", name, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("template %v: %w", name, ErrNotFound)
	}

	slots := make([]models.RoleSlot, len(rows))
	for i, row := range rows {
		slots[i] = models.RoleSlot{
			Emoji:    row.Emoji,
			Name:     row.RoleName,
			Capacity: row.RoleLimit,
		}
	}
	return slots, nil
}

// GetTemplate loads and validates the named template.
func (s *TemplateStore) GetTemplate(ctx context.Context, name string) (*models.RoleTemplate, error) {
	slots, err := s.GetRoleSlots(ctx, name)
	if err != nil {
		return nil, err
	}

	tmpl := &models.RoleTemplate{Name: name, Slots: slots}
	if err := tmpl.Validate(); err != nil {
		return nil, err
	}
	return tmpl, nil
}

// Seed inserts the given templates if the store is empty. It reports whether
// anything was inserted.
func (s *TemplateStore) Seed(ctx context.Context, templates []models.RoleTemplate) (bool, error) {
	for _, tmpl := range templates {
		if err := tmpl.Validate(); err != nil {
			return false, err
		}
	}

	inserted := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.TemplateRole{}).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			s.logger.Info("Template store already populated.", zap.Int64("rows", count))
			return nil
		}

		s.logger.Info("Populating template store.", zap.Int("templates", len(templates)))
		for _, tmpl := range templates {
			rows := tmpl.Rows()
			if err := tx.Create(&rows).Error; err != nil {
				return fmt.Errorf("failed to insert template %v: %w", tmpl.Name, err)
			}
		}
		inserted = len(templates) > 0
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to seed templates: %w", err)
	}

	return inserted, nil
}
