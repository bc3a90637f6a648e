package roster

import (
	"testing"

	"rollcall/models"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var raid = &models.RoleTemplate{
	Name: "raid",
	Slots: []models.RoleSlot{
		{Emoji: "🛡️", Name: "Tank", Capacity: 1},
		{Emoji: "➕", Name: "Healer", Capacity: 1},
		{Emoji: "⚔️", Name: "DPS", Capacity: 3},
	},
}

func holdersOf(state map[string][]*discordgo.User) HoldersFunc {
	return func(emoji string) []*discordgo.User { return state[emoji] }
}

func TestRender(t *testing.T) {
	state := map[string][]*discordgo.User{
		"🛡️": {{ID: "1"}, {ID: "99", Bot: true}},
		"⚔️": {{ID: "2"}, {ID: "3"}},
	}

	r := Render(raid, holdersOf(state))

	assert.Equal(t, []Field{
		{Name: "🛡️ Tank (1/1)", Value: "<@1>"},
		{Name: "➕ Healer (0/1)", Value: EmptySlot},
		{Name: "⚔️ DPS (2/3)", Value: "<@2>\n<@3>"},
	}, r.Fields)
}

func TestRender_Idempotent(t *testing.T) {
	state := map[string][]*discordgo.User{"➕": {{ID: "7"}}}

	first := Render(raid, holdersOf(state))
	second := Render(raid, holdersOf(state))

	assert.Equal(t, first, second)
}

func TestApply_ReplacesFields(t *testing.T) {
	embed := &discordgo.MessageEmbed{
		Title:  "📅 Event: Friday",
		Fields: []*discordgo.MessageEmbedField{{Name: "stale", Value: "stale"}},
	}

	updated := Render(raid, nil).Apply(embed)

	require.Len(t, updated.Fields, 3)
	assert.Equal(t, "🛡️ Tank (0/1)", updated.Fields[0].Name)
	assert.Equal(t, "📅 Event: Friday", updated.Title)
	assert.Equal(t, "stale", embed.Fields[0].Name, "input embed must not be modified")
}

func TestEventEmbed(t *testing.T) {
	embed := EventEmbed(raid, EventDetails{
		Title:            "Friday clear",
		When:             "Friday 21:00",
		Description:      "Bring potions.",
		OrganizerMention: "<@42>",
	})

	assert.Equal(t, "📅 Event: Friday clear", embed.Title)
	assert.Contains(t, embed.Description, "**When:** Friday 21:00")
	assert.Contains(t, embed.Description, "**Organizer:** <@42>")
	assert.Contains(t, embed.Description, "Bring potions.")
	assert.Equal(t, EventColor, embed.Color)
	require.NotNil(t, embed.Footer)
	assert.Contains(t, embed.Footer.Text, "raid")
	require.Len(t, embed.Fields, 3)
	for _, field := range embed.Fields {
		assert.Equal(t, EmptySlot, field.Value)
		assert.False(t, field.Inline)
	}
}

func TestDescribe(t *testing.T) {
	assert.Equal(t, "🛡️ Tank (1), ➕ Healer (1), ⚔️ DPS (3)", Describe(raid))
}
