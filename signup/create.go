package signup

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"rollcall/models"
	"rollcall/roster"

	"go.uber.org/zap"
)

// UnknownTemplateError is returned when an event names a template that does
// not exist.
type UnknownTemplateError struct {
	Name  string
	Known []string
}

func (e *UnknownTemplateError) Error() string {
	return fmt.Sprintf(
		"template `%v` not found. Try: `%v`",
		e.Name,
		strings.Join(e.Known, ", "),
	)
}

// CreateEventRequest describes a new event to post.
type CreateEventRequest struct {
	GuildID          string
	ChannelID        string
	OrganizerMention string
	TemplateName     string
	Title            string
	When             string
	Description      string
}

// CreateEvent posts a new event message, registers it and seeds one reaction
// per role slot.
func (e *Engine) CreateEvent(ctx context.Context, req CreateEventRequest) (*models.ActiveEvent, error) {
	name := strings.ToLower(strings.TrimSpace(req.TemplateName))

	known, err := e.templates.ListTemplateNames(ctx)
	if err != nil {
		return nil, err
	}
	if !slices.Contains(known, name) {
		return nil, &UnknownTemplateError{Name: name, Known: known}
	}

	tmpl, err := e.templates.GetTemplate(ctx, name)
	if err != nil {
		return nil, err
	}

	msg, err := e.gateway.SendEmbed(ctx, req.ChannelID, roster.EventEmbed(tmpl, roster.EventDetails{
		Title:            req.Title,
		When:             req.When,
		Description:      req.Description,
		OrganizerMention: req.OrganizerMention,
	}))
	if err != nil {
		return nil, fmt.Errorf("failed to post event: %w", err)
	}

	event := models.ActiveEvent{
		MessageID:    msg.ID,
		ChannelID:    req.ChannelID,
		GuildID:      req.GuildID,
		TemplateName: name,
	}
	if err := e.registry.Register(ctx, event); err != nil {
		if delErr := e.gateway.DeleteMessage(ctx, req.ChannelID, msg.ID); delErr != nil {
			e.logger.Warn("Failed to delete unregistered event message.",
				zap.String("message", msg.ID),
				zap.Error(delErr))
		}
		return nil, err
	}

	for _, emoji := range tmpl.Emojis() {
		if err := e.gateway.AddReaction(ctx, req.ChannelID, msg.ID, emoji); err != nil {
			e.logger.Warn("Failed to seed reaction.",
				zap.String("message", msg.ID),
				zap.String("emoji", emoji),
				zap.Error(err))
		}
	}

	e.logger.Info("Created event.",
		zap.String("message", msg.ID),
		zap.String("guild", req.GuildID),
		zap.String("template", name))

	return &event, nil
}
