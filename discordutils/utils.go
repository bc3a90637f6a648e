package discordutils

import (
	"errors"
	"net/http"

	"github.com/bwmarrin/discordgo"
)

// AckInteraction sends a deferred response for the given interaction.
func AckInteraction(
	interaction *discordgo.Interaction,
	session *discordgo.Session,
) error {
	return session.InteractionRespond(interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	})
}

// SendFollowup creates a followup message with the given content.
func SendFollowup(
	content string,
	interaction *discordgo.Interaction,
	session *discordgo.Session,
) error {
	_, err := session.FollowupMessageCreate(
		interaction,
		true,
		&discordgo.WebhookParams{
			Content: content,
		},
	)
	return err
}

// InteractionUser returns the user who invoked an interaction, in a guild or a DM.
func InteractionUser(interaction *discordgo.Interaction) *discordgo.User {
	if interaction.Member != nil && interaction.Member.User != nil {
		return interaction.Member.User
	}
	return interaction.User
}

// OptionStrings maps the string options of a slash command by name.
func OptionStrings(
	options []*discordgo.ApplicationCommandInteractionDataOption,
) map[string]string {
	values := make(map[string]string, len(options))
	for _, option := range options {
		if option.Type == discordgo.ApplicationCommandOptionString {
			values[option.Name] = option.StringValue()
		}
	}
	return values
}

// IsPermissionError returns true if err is Discord refusing an action the bot
// lacks permission or access for.
func IsPermissionError(err error) bool {
	if hasErrorCode(err, discordgo.ErrCodeMissingPermissions, discordgo.ErrCodeMissingAccess) {
		return true
	}
	var restErr *discordgo.RESTError
	return errors.As(err, &restErr) &&
		restErr.Response != nil &&
		restErr.Response.StatusCode == http.StatusForbidden
}

// IsUnreachableUser returns true if err means a direct message could not be
// delivered, usually because the user has DMs disabled.
func IsUnreachableUser(err error) bool {
	return hasErrorCode(err, discordgo.ErrCodeCannotSendMessagesToThisUser)
}

// IsUnknownMessage returns true if err means the message no longer exists.
func IsUnknownMessage(err error) bool {
	if hasErrorCode(err, discordgo.ErrCodeUnknownMessage) {
		return true
	}
	var restErr *discordgo.RESTError
	return errors.As(err, &restErr) &&
		restErr.Response != nil &&
		restErr.Response.StatusCode == http.StatusNotFound
}

func hasErrorCode(err error, codes ...int) bool {
	var restErr *discordgo.RESTError
	if !errors.As(err, &restErr) || restErr.Message == nil {
		return false
	}
	for _, code := range codes {
		if restErr.Message.Code == code {
			return true
		}
	}
	return false
}
