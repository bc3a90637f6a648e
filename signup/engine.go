// Package signup reconciles role sign-ups on event messages with the rules of
// their template.
package signup

import (
	"context"
	"fmt"

	"rollcall/discordutils"
	"rollcall/models"
	"rollcall/roster"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

// Engine applies capacity and exclusivity rules to reactions on event messages
// and keeps their rosters current.
type Engine struct {
	gateway   Gateway
	templates TemplateStore
	registry  EventRegistry
	locks     *keyedMutex
	logger    *zap.Logger
}

// NewEngine returns an engine driving gateway.
func NewEngine(
	gateway Gateway,
	templates TemplateStore,
	registry EventRegistry,
	logger *zap.Logger,
) *Engine {
	return &Engine{
		gateway:   gateway,
		templates: templates,
		registry:  registry,
		locks:     newKeyedMutex(),
		logger:    logger.Named("signup"),
	}
}

// target is an event message together with the rules that apply to it.
type target struct {
	event models.ActiveEvent
	tmpl  *models.RoleTemplate
	slot  models.RoleSlot
}

// resolve returns false when the reaction is not a sign-up: the bot's own
// reaction, an untracked message or an emoji outside the template.
func (e *Engine) resolve(ctx context.Context, r ReactionEvent) (target, bool, error) {
	if r.UserID == e.gateway.BotUserID() {
		return target{}, false, nil
	}

	maybeEvent, err := e.registry.Lookup(ctx, r.MessageID)
	if err != nil {
		return target{}, false, err
	}
	event, ok := maybeEvent.Get()
	if !ok {
		return target{}, false, nil
	}

	tmpl, err := e.templates.GetTemplate(ctx, event.TemplateName)
	if err != nil {
		return target{}, false, fmt.Errorf("failed to load template of event %v: %w", event.MessageID, err)
	}

	slot, ok := tmpl.Slot(r.Emoji)
	if !ok {
		return target{}, false, nil
	}

	return target{event: event, tmpl: tmpl, slot: slot}, true, nil
}

// fetchOwnMessage returns nil when the message was not posted by the bot.
func (e *Engine) fetchOwnMessage(ctx context.Context, event models.ActiveEvent) (*discordgo.Message, error) {
	msg, err := e.gateway.Message(ctx, event.ChannelID, event.MessageID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch event message %v: %w", event.MessageID, err)
	}
	if msg.Author == nil || msg.Author.ID != e.gateway.BotUserID() {
		return nil, nil
	}
	return msg, nil
}

// OnReactionAdded accepts or rejects a sign-up.
func (e *Engine) OnReactionAdded(ctx context.Context, r ReactionEvent) error {
	t, ok, err := e.resolve(ctx, r)
	if err != nil || !ok {
		return err
	}

	unlock := e.locks.Lock(r.MessageID)
	defer unlock()

	msg, err := e.fetchOwnMessage(ctx, t.event)
	if err != nil || msg == nil {
		return err
	}

	state, err := e.readState(ctx, t.event, msg, t.tmpl)
	if err != nil {
		return err
	}

	// The reaction may have been withdrawn before this event was handled.
	if !state.Holds(t.slot.Emoji, r.UserID) {
		e.logger.Debug("Ignoring withdrawn reaction.",
			zap.String("message", t.event.MessageID),
			zap.String("emoji", t.slot.Emoji),
			zap.String("user", r.UserID))
		return nil
	}

	if state.HumansExcept(t.slot.Emoji, r.UserID) >= t.slot.Capacity {
		return e.reject(ctx, t, msg, r.UserID)
	}

	for _, other := range t.tmpl.Slots {
		if other.Emoji == t.slot.Emoji || !state.Holds(other.Emoji, r.UserID) {
			continue
		}

		err := e.gateway.RemoveReaction(ctx, t.event.ChannelID, t.event.MessageID, other.Emoji, r.UserID)
		if err != nil {
			if discordutils.IsPermissionError(err) {
				e.logger.Debug("No permission to retract reaction.",
					zap.String("message", t.event.MessageID),
					zap.String("emoji", other.Emoji),
					zap.String("user", r.UserID))
				continue
			}
			return fmt.Errorf("failed to retract %v reaction: %w", other.Emoji, err)
		}
		state.remove(other.Emoji, r.UserID)
	}

	e.logger.Info("Accepted sign-up.",
		zap.String("message", t.event.MessageID),
		zap.String("role", t.slot.Name),
		zap.String("user", r.UserID))

	return e.render(ctx, t.event, msg, t.tmpl, state)
}

// OnReactionRemoved re-renders the roster after a sign-up is withdrawn.
func (e *Engine) OnReactionRemoved(ctx context.Context, r ReactionEvent) error {
	t, ok, err := e.resolve(ctx, r)
	if err != nil || !ok {
		return err
	}

	unlock := e.locks.Lock(r.MessageID)
	defer unlock()

	return e.rerender(ctx, t.event, t.tmpl)
}

func (e *Engine) reject(
	ctx context.Context,
	t target,
	msg *discordgo.Message,
	userID string,
) error {
	err := e.gateway.RemoveReaction(ctx, t.event.ChannelID, t.event.MessageID, t.slot.Emoji, userID)
	if err != nil {
		if !discordutils.IsPermissionError(err) {
			return fmt.Errorf("failed to retract %v reaction: %w", t.slot.Emoji, err)
		}
		e.logger.Warn("No permission to retract over-capacity reaction, role limit not enforced in this channel.",
			zap.String("message", t.event.MessageID),
			zap.String("channel", t.event.ChannelID),
			zap.String("emoji", t.slot.Emoji),
			zap.String("user", userID))
		return nil
	}

	e.logger.Info("Rejected sign-up, role is full.",
		zap.String("message", t.event.MessageID),
		zap.String("role", t.slot.Name),
		zap.String("user", userID))

	notice := fmt.Sprintf(
		"Signing up as **%v** for '%v' failed, all of its slots are taken!",
		t.slot.Name,
		eventTitle(msg),
	)
	if err := e.gateway.SendDirectMessage(ctx, userID, notice); err != nil {
		e.logger.Debug("Could not notify user.",
			zap.String("user", userID),
			zap.Bool("dmsClosed", discordutils.IsUnreachableUser(err)),
			zap.Error(err))
	}

	return nil
}

// rerender reads the live state of an event message and redraws its roster.
// Callers hold the message lock.
func (e *Engine) rerender(ctx context.Context, event models.ActiveEvent, tmpl *models.RoleTemplate) error {
	msg, err := e.fetchOwnMessage(ctx, event)
	if err != nil || msg == nil {
		return err
	}

	state, err := e.readState(ctx, event, msg, tmpl)
	if err != nil {
		return err
	}

	return e.render(ctx, event, msg, tmpl, state)
}

func (e *Engine) render(
	ctx context.Context,
	event models.ActiveEvent,
	msg *discordgo.Message,
	tmpl *models.RoleTemplate,
	state ReactionState,
) error {
	var embed *discordgo.MessageEmbed
	if len(msg.Embeds) > 0 {
		embed = msg.Embeds[0]
	}

	updated := roster.Render(tmpl, state.Holders).Apply(embed)
	if err := e.gateway.EditEmbed(ctx, event.ChannelID, event.MessageID, updated); err != nil {
		return fmt.Errorf("failed to update roster of %v: %w", event.MessageID, err)
	}
	return nil
}

// RefreshRosters redraws the roster of every registered event. Events whose
// message can no longer be read are logged and skipped.
func (e *Engine) RefreshRosters(ctx context.Context) error {
	events, err := e.registry.List(ctx)
	if err != nil {
		return err
	}

	refreshed := 0
	for _, event := range events {
		if err := ctx.Err(); err != nil {
			return err
		}

		if err := e.refresh(ctx, event); err != nil {
			if discordutils.IsUnknownMessage(err) {
				e.logger.Debug("Event message is gone.", zap.String("message", event.MessageID))
			} else {
				e.logger.Warn("Failed to refresh roster.",
					zap.String("message", event.MessageID),
					zap.Error(err))
			}
			continue
		}
		refreshed++
	}

	e.logger.Info("Refreshed rosters.", zap.Int("events", len(events)), zap.Int("refreshed", refreshed))
	return nil
}

func (e *Engine) refresh(ctx context.Context, event models.ActiveEvent) error {
	tmpl, err := e.templates.GetTemplate(ctx, event.TemplateName)
	if err != nil {
		return err
	}

	unlock := e.locks.Lock(event.MessageID)
	defer unlock()

	return e.rerender(ctx, event, tmpl)
}

func eventTitle(msg *discordgo.Message) string {
	if len(msg.Embeds) == 0 {
		return ""
	}
	return msg.Embeds[0].Title
}
