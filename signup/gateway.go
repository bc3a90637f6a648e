package signup

import (
	"context"

	"rollcall/models"

	"github.com/bwmarrin/discordgo"
	"github.com/samber/mo"
)

// Gateway is the slice of the chat platform the engine drives.
type Gateway interface {
	// BotUserID is the user ID the bot is connected as.
	BotUserID() string
	Message(ctx context.Context, channelID, messageID string) (*discordgo.Message, error)
	// ReactionUsers lists every user reacting to a message with emoji.
	ReactionUsers(ctx context.Context, channelID, messageID, emoji string) ([]*discordgo.User, error)
	RemoveReaction(ctx context.Context, channelID, messageID, emoji, userID string) error
	AddReaction(ctx context.Context, channelID, messageID, emoji string) error
	SendEmbed(ctx context.Context, channelID string, embed *discordgo.MessageEmbed) (*discordgo.Message, error)
	EditEmbed(ctx context.Context, channelID, messageID string, embed *discordgo.MessageEmbed) error
	DeleteMessage(ctx context.Context, channelID, messageID string) error
	SendDirectMessage(ctx context.Context, userID, content string) error
}

// TemplateStore is the read side of the role template store.
type TemplateStore interface {
	ListTemplateNames(ctx context.Context) ([]string, error)
	GetTemplate(ctx context.Context, name string) (*models.RoleTemplate, error)
}

// EventRegistry tracks which messages are events.
type EventRegistry interface {
	Register(ctx context.Context, event models.ActiveEvent) error
	Lookup(ctx context.Context, messageID string) (mo.Option[models.ActiveEvent], error)
	List(ctx context.Context) ([]models.ActiveEvent, error)
}

// ReactionEvent is a reaction being added to or removed from a message.
type ReactionEvent struct {
	MessageID string
	ChannelID string
	GuildID   string
	UserID    string
	Emoji     string
}
