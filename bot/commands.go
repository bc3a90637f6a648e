package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"rollcall/discordutils"
	"rollcall/models"
	"rollcall/roster"
	"rollcall/signup"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

// commandTimeout bounds the work done for a single command.
const commandTimeout = time.Minute

var botCommands = []*discordgo.ApplicationCommand{
	{
		Name:        "create-event",
		Description: "Posts a sign-up event built from a role template.",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "template",
				Description: "The role template to use, e.g. raid.",
				Required:    true,
			},
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "title",
				Description: "The event title.",
				Required:    true,
			},
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "when",
				Description: "When the event takes place.",
				Required:    true,
			},
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "description",
				Description: "What the event is about.",
				Required:    true,
			},
		},
	}, {
		Name:        "templates",
		Description: "Lists the event templates and their roles.",
	},
}

// CreateEvent posts a new event from a template.
func (bot *Bot) CreateEvent(i *discordgo.InteractionCreate) {
	if err := discordutils.AckInteraction(i.Interaction, bot.session); err != nil {
		bot.logger.Warn("Failed to acknowledge interaction.", zap.Error(err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	options := discordutils.OptionStrings(i.ApplicationCommandData().Options)

	var reply string
	if i.GuildID == "" {
		reply = "Events can only be created inside a server."
	} else {
		event, err := bot.engine.CreateEvent(ctx, signup.CreateEventRequest{
			GuildID:          i.GuildID,
			ChannelID:        i.ChannelID,
			OrganizerMention: discordutils.InteractionUser(i.Interaction).Mention(),
			TemplateName:     options["template"],
			Title:            options["title"],
			When:             options["when"],
			Description:      options["description"],
		})
		reply = createEventReply(options["title"], event, err)
		if err != nil {
			bot.logger.Info("Event not created.",
				zap.String("guild", i.GuildID),
				zap.String("template", options["template"]),
				zap.Error(err))
		}
	}

	if err := discordutils.SendFollowup(reply, i.Interaction, bot.session); err != nil {
		bot.logger.Warn("Failed to send followup.", zap.Error(err))
	}
}

func createEventReply(title string, event *models.ActiveEvent, err error) string {
	var unknown *signup.UnknownTemplateError
	switch {
	case errors.As(err, &unknown):
		return "Error: " + unknown.Error()
	case err != nil:
		return fmt.Sprintf("Failed to create the event: %v", err)
	default:
		return fmt.Sprintf(
			"Created **%v** with the `%v` template. React below to sign up!",
			title,
			event.TemplateName,
		)
	}
}

// Templates lists the available templates.
func (bot *Bot) Templates(i *discordgo.InteractionCreate) {
	if err := discordutils.AckInteraction(i.Interaction, bot.session); err != nil {
		bot.logger.Warn("Failed to acknowledge interaction.", zap.Error(err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	var reply string
	templates, err := LoadTemplates(ctx, bot.templates)
	if err != nil {
		bot.logger.Error("Failed to load templates.", zap.Error(err))
		reply = fmt.Sprintf("I couldn't read my templates: %v", err)
	} else {
		reply = describeTemplates(templates)
	}

	if err := discordutils.SendFollowup(reply, i.Interaction, bot.session); err != nil {
		bot.logger.Warn("Failed to send followup.", zap.Error(err))
	}
}

// LoadTemplates reads every template in the store, ordered by name.
func LoadTemplates(ctx context.Context, store signup.TemplateStore) ([]*models.RoleTemplate, error) {
	names, err := store.ListTemplateNames(ctx)
	if err != nil {
		return nil, err
	}

	templates := make([]*models.RoleTemplate, 0, len(names))
	for _, name := range names {
		tmpl, err := store.GetTemplate(ctx, name)
		if err != nil {
			return nil, err
		}
		templates = append(templates, tmpl)
	}
	return templates, nil
}

func describeTemplates(templates []*models.RoleTemplate) string {
	if len(templates) == 0 {
		return "There are no templates yet."
	}

	var b strings.Builder
	b.WriteString("Available templates:")
	for _, tmpl := range templates {
		fmt.Fprintf(&b, "\n**%v**: %v", tmpl.Name, roster.Describe(tmpl))
	}
	return b.String()
}
