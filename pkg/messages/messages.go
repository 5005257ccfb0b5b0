// Package messages builds every user-facing payload the bot sends. Builders
// are pure; no state is kept here.
package messages

import (
	"github.com/Jacobbrewer1/discordgo"
)

// ErrUserErrorProcessing is the generic user-facing error message.
const ErrUserErrorProcessing = "Une erreur est survenue lors du traitement de votre demande. Veuillez réessayer."

// ErrUserUnknownAction is the user-facing message for unrecognised component
// interactions.
const ErrUserUnknownAction = "Cette action n'est pas reconnue."

// Embed colours.
const (
	ColorPrimary = 0x5865f2
	ColorSuccess = 0x57f287
	ColorWarning = 0xfee75c
	ColorDanger  = 0xed4245
	ColorInfo    = 0x3498db
	ColorTicket  = 0x9b59b6
)

// ErrorEmbed builds a red error embed.
func ErrorEmbed(title, description string) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       title,
		Description: description,
		Color:       ColorDanger,
	}
}

// SuccessEmbed builds a green success embed.
func SuccessEmbed(title, description string) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       title,
		Description: description,
		Color:       ColorSuccess,
	}
}

// InfoEmbed builds a blue informational embed.
func InfoEmbed(title, description string) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       title,
		Description: description,
		Color:       ColorInfo,
	}
}

// WarningEmbed builds a yellow warning embed.
func WarningEmbed(title, description string) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       title,
		Description: description,
		Color:       ColorWarning,
	}
}
