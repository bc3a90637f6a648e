package bot

import (
	"fmt"

	"rollcall/dal"
	"rollcall/signup"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

type commandHandler = func(*discordgo.InteractionCreate)

// Bot represents an instance of the rollcall discord bot.
type Bot struct {
	session            *discordgo.Session
	engine             *signup.Engine
	templates          *dal.TemplateStore
	guildID            string
	registeredCommands []*discordgo.ApplicationCommand
	commandHandlers    map[string]commandHandler
	logger             *zap.Logger
}

func (bot *Bot) initSession(token string) error {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return fmt.Errorf("failed to create discord session: %w", err)
	}

	session.ShouldRetryOnRateLimit = true
	session.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsGuildMessageReactions

	session.AddHandler(func(_ *discordgo.Session, r *discordgo.Ready) {
		bot.logger.Info("Bot is up!", zap.String("user", r.User.Username))
	})
	session.AddHandler(func(
		_ *discordgo.Session,
		i *discordgo.InteractionCreate,
	) {
		if i.Type != discordgo.InteractionApplicationCommand {
			return
		}
		if handler, ok := bot.commandHandlers[i.ApplicationCommandData().Name]; ok {
			defer bot.recoverEvent("command")
			handler(i)
		}
	})
	session.AddHandler(bot.onReactionAdd)
	session.AddHandler(bot.onReactionRemove)

	bot.session = session
	return nil
}

func (bot *Bot) registerCommands() error {
	for _, command := range botCommands {
		newCommand, err := bot.session.ApplicationCommandCreate(
			bot.session.State.User.ID,
			bot.guildID,
			command,
		)
		if err != nil {
			return fmt.Errorf("failed to create %v command: %w", command.Name, err)
		}
		bot.registeredCommands = append(bot.registeredCommands, newCommand)
		bot.logger.Info("Created command.", zap.String("command", command.Name))
	}
	return nil
}

// New connects a new rollcall bot and registers its commands. Commands are
// registered in guildID only when it is set, globally otherwise.
func New(
	token string,
	guildID string,
	templates *dal.TemplateStore,
	registry *dal.EventRegistry,
	logger *zap.Logger,
) (*Bot, error) {
	bot := &Bot{
		templates: templates,
		guildID:   guildID,
		logger:    logger.Named("bot"),
	}

	bot.commandHandlers = map[string]commandHandler{
		"create-event": bot.CreateEvent,
		"templates":    bot.Templates,
	}

	if err := bot.initSession(token); err != nil {
		return nil, err
	}
	bot.engine = signup.NewEngine(&sessionGateway{session: bot.session}, templates, registry, logger)

	if err := bot.session.Open(); err != nil {
		return nil, fmt.Errorf("failed to open session: %w", err)
	}

	if err := bot.registerCommands(); err != nil {
		bot.Shutdown()
		return nil, err
	}

	return bot, nil
}

// Shutdown removes the bot's commands and closes its session.
func (bot *Bot) Shutdown() {
	bot.logger.Info("Shutting down.")

	for _, command := range bot.registeredCommands {
		err := bot.session.ApplicationCommandDelete(
			bot.session.State.User.ID,
			bot.guildID,
			command.ID,
		)
		if err != nil {
			bot.logger.Warn("Failed to delete command.", zap.String("command", command.Name), zap.Error(err))
		} else {
			bot.logger.Info("Deleted command.", zap.String("command", command.Name))
		}
	}
	bot.registeredCommands = nil

	if err := bot.session.Close(); err != nil {
		bot.logger.Warn("Failed to close session.", zap.Error(err))
	}
}

// recoverEvent keeps a panic in one event handler from taking the process down.
func (bot *Bot) recoverEvent(kind string) {
	if r := recover(); r != nil {
		bot.logger.Error("Recovered from panic while handling event.",
			zap.String("event", kind),
			zap.Any("panic", r),
			zap.Stack("stack"))
	}
}
