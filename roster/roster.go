// Package roster renders the sign-up roster of an event message.
package roster

import (
	"fmt"
	"strings"

	"rollcall/models"

	"github.com/bwmarrin/discordgo"
)

// EmptySlot is shown for a role nobody has claimed.
const EmptySlot = "Nobody signed up yet."

// EventColor is the embed colour of event messages.
const EventColor = 0xC27C0E

// Field is the display of one role slot.
type Field struct {
	Name  string
	Value string
}

// Roster is the full set of role fields in template order.
type Roster struct {
	Fields []Field
}

// HoldersFunc returns the users currently reacting with emoji.
type HoldersFunc func(emoji string) []*discordgo.User

// Render builds the roster of tmpl. Bot accounts are never listed or counted.
func Render(tmpl *models.RoleTemplate, holders HoldersFunc) Roster {
	fields := make([]Field, 0, len(tmpl.Slots))

	for _, slot := range tmpl.Slots {
		var mentions []string
		if holders != nil {
			for _, user := range holders(slot.Emoji) {
				if user == nil || user.Bot {
					continue
				}
				mentions = append(mentions, user.Mention())
			}
		}

		value := EmptySlot
		if len(mentions) > 0 {
			value = strings.Join(mentions, "\n")
		}

		fields = append(fields, Field{
			Name:  fmt.Sprintf("%v %v (%d/%d)", slot.Emoji, slot.Name, len(mentions), slot.Capacity),
			Value: value,
		})
	}

	return Roster{Fields: fields}
}

// EmbedFields converts the roster into embed fields.
func (r Roster) EmbedFields() []*discordgo.MessageEmbedField {
	fields := make([]*discordgo.MessageEmbedField, len(r.Fields))
	for i, field := range r.Fields {
		fields[i] = &discordgo.MessageEmbedField{
			Name:   field.Name,
			Value:  field.Value,
			Inline: false,
		}
	}
	return fields
}

// Apply returns a copy of embed with its whole field set replaced by the roster.
func (r Roster) Apply(embed *discordgo.MessageEmbed) *discordgo.MessageEmbed {
	var updated discordgo.MessageEmbed
	if embed != nil {
		updated = *embed
	}
	updated.Fields = r.EmbedFields()
	return &updated
}

// EventDetails is what the organizer supplies when creating an event.
type EventDetails struct {
	Title            string
	When             string
	Description      string
	OrganizerMention string
}

// EventEmbed builds the embed of a freshly created event with an empty roster.
func EventEmbed(tmpl *models.RoleTemplate, details EventDetails) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: "📅 Event: " + details.Title,
		Description: fmt.Sprintf(
			"**When:** %v\n**Organizer:** %v\n\n**📝 Description:**\n%v",
			details.When,
			details.OrganizerMention,
			details.Description,
		),
		Color: EventColor,
		Footer: &discordgo.MessageEmbedFooter{
			Text: "Event created with the " + tmpl.Name + " template",
		},
	}
	return Render(tmpl, nil).Apply(embed)
}

// Describe summarises the slots of a template on one line.
func Describe(tmpl *models.RoleTemplate) string {
	parts := make([]string, len(tmpl.Slots))
	for i, slot := range tmpl.Slots {
		parts[i] = fmt.Sprintf("%v %v (%d)", slot.Emoji, slot.Name, slot.Capacity)
	}
	return strings.Join(parts, ", ")
}
