package bot

import (
	"context"
	"time"

	"rollcall/signup"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

// reactionTimeout bounds the reconciliation of a single reaction.
const reactionTimeout = 30 * time.Second

func (bot *Bot) onReactionAdd(_ *discordgo.Session, r *discordgo.MessageReactionAdd) {
	defer bot.recoverEvent("reaction add")

	ctx, cancel := context.WithTimeout(context.Background(), reactionTimeout)
	defer cancel()

	if err := bot.engine.OnReactionAdded(ctx, reactionEvent(r.MessageReaction)); err != nil {
		bot.logger.Error("Failed to handle reaction.",
			zap.String("message", r.MessageID),
			zap.String("emoji", r.Emoji.APIName()),
			zap.String("user", r.UserID),
			zap.Error(err))
	}
}

func (bot *Bot) onReactionRemove(_ *discordgo.Session, r *discordgo.MessageReactionRemove) {
	defer bot.recoverEvent("reaction remove")

	ctx, cancel := context.WithTimeout(context.Background(), reactionTimeout)
	defer cancel()

	if err := bot.engine.OnReactionRemoved(ctx, reactionEvent(r.MessageReaction)); err != nil {
		bot.logger.Error("Failed to handle reaction removal.",
			zap.String("message", r.MessageID),
			zap.String("emoji", r.Emoji.APIName()),
			zap.String("user", r.UserID),
			zap.Error(err))
	}
}

func reactionEvent(r *discordgo.MessageReaction) signup.ReactionEvent {
	return signup.ReactionEvent{
		MessageID: r.MessageID,
		ChannelID: r.ChannelID,
		GuildID:   r.GuildID,
		UserID:    r.UserID,
		Emoji:     r.Emoji.APIName(),
	}
}
