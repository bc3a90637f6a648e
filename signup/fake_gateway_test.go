package signup

import (
	"context"
	"fmt"
	"net/http"
	"slices"
	"strconv"
	"sync"

	"github.com/bwmarrin/discordgo"
)

const botID = "bot"

type fakeMessage struct {
	channelID string
	authorID  string
	embed     *discordgo.MessageEmbed
	emojis    []string
	reactions map[string][]string
}

type directMessage struct {
	userID  string
	content string
}

// fakeGateway keeps messages and reactions in memory.
type fakeGateway struct {
	mu        sync.Mutex
	messages  map[string]*fakeMessage
	nextID    int
	dms       []directMessage
	edits     int
	dmErr     error
	removeErr map[string]error
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		messages:  make(map[string]*fakeMessage),
		removeErr: make(map[string]error),
	}
}

func unknownMessageError() error {
	return &discordgo.RESTError{
		Response: &http.Response{StatusCode: http.StatusNotFound, Status: "404 Not Found"},
		Message:  &discordgo.APIErrorMessage{Code: discordgo.ErrCodeUnknownMessage},
	}
}

func permissionError() error {
	return &discordgo.RESTError{
		Response: &http.Response{StatusCode: http.StatusForbidden, Status: "403 Forbidden"},
		Message:  &discordgo.APIErrorMessage{Code: discordgo.ErrCodeMissingPermissions},
	}
}

func dmClosedError() error {
	return &discordgo.RESTError{
		Response: &http.Response{StatusCode: http.StatusForbidden, Status: "403 Forbidden"},
		Message:  &discordgo.APIErrorMessage{Code: discordgo.ErrCodeCannotSendMessagesToThisUser},
	}
}

func user(id string) *discordgo.User {
	return &discordgo.User{ID: id, Bot: id == botID}
}

func (g *fakeGateway) BotUserID() string {
	return botID
}

func (g *fakeGateway) Message(_ context.Context, channelID, messageID string) (*discordgo.Message, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	m, ok := g.messages[messageID]
	if !ok || m.channelID != channelID {
		return nil, unknownMessageError()
	}

	msg := &discordgo.Message{
		ID:        messageID,
		ChannelID: channelID,
		Author:    user(m.authorID),
	}
	if m.embed != nil {
		embed := *m.embed
		msg.Embeds = []*discordgo.MessageEmbed{&embed}
	}
	for _, emoji := range m.emojis {
		if n := len(m.reactions[emoji]); n > 0 {
			msg.Reactions = append(msg.Reactions, &discordgo.MessageReactions{
				Count: n,
				Emoji: &discordgo.Emoji{Name: emoji},
			})
		}
	}
	return msg, nil
}

func (g *fakeGateway) ReactionUsers(_ context.Context, _, messageID, emoji string) ([]*discordgo.User, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	m, ok := g.messages[messageID]
	if !ok {
		return nil, unknownMessageError()
	}

	var users []*discordgo.User
	for _, id := range m.reactions[emoji] {
		users = append(users, user(id))
	}
	return users, nil
}

func (g *fakeGateway) RemoveReaction(_ context.Context, _, messageID, emoji, userID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.removeErr[emoji]; err != nil {
		return err
	}
	m, ok := g.messages[messageID]
	if !ok {
		return unknownMessageError()
	}
	m.reactions[emoji] = slices.DeleteFunc(m.reactions[emoji], func(id string) bool { return id == userID })
	return nil
}

func (g *fakeGateway) AddReaction(_ context.Context, _, messageID, emoji string) error {
	g.react(messageID, emoji, botID)
	return nil
}

func (g *fakeGateway) SendEmbed(
	_ context.Context,
	channelID string,
	embed *discordgo.MessageEmbed,
) (*discordgo.Message, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.nextID++
	id := strconv.Itoa(g.nextID)
	g.messages[id] = &fakeMessage{
		channelID: channelID,
		authorID:  botID,
		embed:     embed,
		reactions: make(map[string][]string),
	}
	return &discordgo.Message{ID: id, ChannelID: channelID, Author: user(botID)}, nil
}

func (g *fakeGateway) EditEmbed(_ context.Context, _, messageID string, embed *discordgo.MessageEmbed) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	m, ok := g.messages[messageID]
	if !ok {
		return unknownMessageError()
	}
	m.embed = embed
	g.edits++
	return nil
}

func (g *fakeGateway) DeleteMessage(_ context.Context, _, messageID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	delete(g.messages, messageID)
	return nil
}

func (g *fakeGateway) SendDirectMessage(_ context.Context, userID, content string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.dmErr != nil {
		return g.dmErr
	}
	g.dms = append(g.dms, directMessage{userID: userID, content: content})
	return nil
}

// react attaches a reaction the way the platform would before notifying the bot.
func (g *fakeGateway) react(messageID, emoji, userID string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	m := g.messages[messageID]
	if !slices.Contains(m.emojis, emoji) {
		m.emojis = append(m.emojis, emoji)
	}
	if !slices.Contains(m.reactions[emoji], userID) {
		m.reactions[emoji] = append(m.reactions[emoji], userID)
	}
}

func (g *fakeGateway) unreact(messageID, emoji, userID string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	m := g.messages[messageID]
	m.reactions[emoji] = slices.DeleteFunc(m.reactions[emoji], func(id string) bool { return id == userID })
}

// holders returns the human users reacting with emoji.
func (g *fakeGateway) holders(messageID, emoji string) []string {
	g.mu.Lock()
	defer g.mu.Unlock()

	var ids []string
	for _, id := range g.messages[messageID].reactions[emoji] {
		if id != botID {
			ids = append(ids, id)
		}
	}
	return ids
}

func (g *fakeGateway) holds(messageID, emoji, userID string) bool {
	return slices.Contains(g.holders(messageID, emoji), userID)
}

// field returns the rendered roster field at index i.
func (g *fakeGateway) field(messageID string, i int) string {
	g.mu.Lock()
	defer g.mu.Unlock()

	f := g.messages[messageID].embed.Fields[i]
	return fmt.Sprintf("%v | %v", f.Name, f.Value)
}

func (g *fakeGateway) editCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.edits
}
