package bot

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
)

// reactionPageSize is the largest page the reactions endpoint returns.
const reactionPageSize = 100

// sessionGateway drives a discord session on behalf of the sign-up engine.
type sessionGateway struct {
	session *discordgo.Session
}

func (g *sessionGateway) BotUserID() string {
	if g.session.State == nil || g.session.State.User == nil {
		return ""
	}
	return g.session.State.User.ID
}

func (g *sessionGateway) Message(
	ctx context.Context,
	channelID, messageID string,
) (*discordgo.Message, error) {
	return g.session.ChannelMessage(channelID, messageID, discordgo.WithContext(ctx))
}

func (g *sessionGateway) ReactionUsers(
	ctx context.Context,
	channelID, messageID, emoji string,
) ([]*discordgo.User, error) {
	var users []*discordgo.User
	after := ""
	for {
		page, err := g.session.MessageReactions(
			channelID,
			messageID,
			emoji,
			reactionPageSize,
			"",
			after,
			discordgo.WithContext(ctx),
		)
		if err != nil {
			return nil, err
		}
		users = append(users, page...)
		if len(page) < reactionPageSize {
			return users, nil
		}
		after = page[len(page)-1].ID
	}
}

func (g *sessionGateway) RemoveReaction(
	ctx context.Context,
	channelID, messageID, emoji, userID string,
) error {
	return g.session.MessageReactionRemove(channelID, messageID, emoji, userID, discordgo.WithContext(ctx))
}

func (g *sessionGateway) AddReaction(ctx context.Context, channelID, messageID, emoji string) error {
	return g.session.MessageReactionAdd(channelID, messageID, emoji, discordgo.WithContext(ctx))
}

func (g *sessionGateway) SendEmbed(
	ctx context.Context,
	channelID string,
	embed *discordgo.MessageEmbed,
) (*discordgo.Message, error) {
	return g.session.ChannelMessageSendEmbed(channelID, embed, discordgo.WithContext(ctx))
}

func (g *sessionGateway) EditEmbed(
	ctx context.Context,
	channelID, messageID string,
	embed *discordgo.MessageEmbed,
) error {
	_, err := g.session.ChannelMessageEditEmbed(channelID, messageID, embed, discordgo.WithContext(ctx))
	return err
}

func (g *sessionGateway) DeleteMessage(ctx context.Context, channelID, messageID string) error {
	return g.session.ChannelMessageDelete(channelID, messageID, discordgo.WithContext(ctx))
}

func (g *sessionGateway) SendDirectMessage(ctx context.Context, userID, content string) error {
	channel, err := g.session.UserChannelCreate(userID, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to open DM channel: %w", err)
	}
	_, err = g.session.ChannelMessageSend(channel.ID, content, discordgo.WithContext(ctx))
	return err
}
