package signup

import (
	"context"
	"fmt"

	"rollcall/models"

	"github.com/bwmarrin/discordgo"
)

// ReactionState is the live reaction state of a message, keyed by emoji.
type ReactionState map[string][]*discordgo.User

// Holders returns everyone reacting with emoji, bots included.
func (s ReactionState) Holders(emoji string) []*discordgo.User {
	return s[emoji]
}

// HumansExcept counts human users reacting with emoji other than userID.
func (s ReactionState) HumansExcept(emoji, userID string) int {
	count := 0
	for _, user := range s[emoji] {
		if !user.Bot && user.ID != userID {
			count++
		}
	}
	return count
}

// Holds returns true if userID reacts with emoji.
func (s ReactionState) Holds(emoji, userID string) bool {
	for _, user := range s[emoji] {
		if user.ID == userID {
			return true
		}
	}
	return false
}

func (s ReactionState) remove(emoji, userID string) {
	users := s[emoji]
	kept := users[:0:0]
	for _, user := range users {
		if user.ID != userID {
			kept = append(kept, user)
		}
	}
	s[emoji] = kept
}

// readState fetches the reactors of every slot emoji present on msg.
func (e *Engine) readState(
	ctx context.Context,
	event models.ActiveEvent,
	msg *discordgo.Message,
	tmpl *models.RoleTemplate,
) (ReactionState, error) {
	present := make(map[string]bool, len(msg.Reactions))
	for _, reaction := range msg.Reactions {
		if reaction.Emoji != nil && reaction.Count > 0 {
			present[reaction.Emoji.APIName()] = true
		}
	}

	state := make(ReactionState, len(tmpl.Slots))
	for _, slot := range tmpl.Slots {
		if !present[slot.Emoji] {
			continue
		}
		users, err := e.gateway.ReactionUsers(ctx, event.ChannelID, event.MessageID, slot.Emoji)
		if err != nil {
			return nil, fmt.Errorf("failed to read %v reactions: %w", slot.Emoji, err)
		}
		state[slot.Emoji] = users
	}

	return state, nil
}
