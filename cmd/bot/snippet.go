package main

import (
	"fmt"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/guichet-bot/guichet/pkg/messages"
)

const (
	// snippetCmdName posts a pre-authored reply into the current channel.
	snippetCmdName = "snippet"

	// snippetIDOptName selects the snippet.
	snippetIDOptName = "id"

	// snippetModeOptName selects how the snippet is delivered.
	snippetModeOptName = "mode"

	// snippetModeBot posts the snippet publicly in the channel.
	snippetModeBot = "bot"

	// snippetModeEphemeral shows a private copyable preview instead.
	snippetModeEphemeral = "ephemere"
)

// snippetCmd posts one of the pre-authored staff replies.
var snippetCmd = &discordgo.ApplicationCommand{
	Name:        snippetCmdName,
	Type:        discordgo.ChatApplicationCommand,
	Description: "Envoyer une réponse pré-rédigée dans ce salon.",
	Options: []*discordgo.ApplicationCommandOption{
		{
			Name:        snippetIDOptName,
			Type:        discordgo.ApplicationCommandOptionString,
			Description: "La réponse pré-rédigée à envoyer.",
			Required:    true,
			Choices:     snippetChoices(),
		},
		{
			Name:        snippetModeOptName,
			Type:        discordgo.ApplicationCommandOptionString,
			Description: "Envoyer dans le salon ou afficher un aperçu privé.",
			Choices: []*discordgo.ApplicationCommandOptionChoice{
				{Name: "Envoyer dans le salon", Value: snippetModeBot},
				{Name: "Aperçu privé", Value: snippetModeEphemeral},
			},
		},
	},
}

func snippetChoices() []*discordgo.ApplicationCommandOptionChoice {
	choices := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(messages.Snippets))
	for _, s := range messages.Snippets {
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{
			Name:  fmt.Sprintf("[%s] %s", s.Category, s.Label),
			Value: string(s.ID),
		})
	}
	return choices
}

func snippetCmdController(a IApp, i *discordgo.InteractionCreate) (commandProcessor, error) {
	return staffOnly(snippetCmdProcessor)(a, i)
}

func snippetCmdProcessor(a IApp, i *discordgo.InteractionCreate) error {
	var id messages.SnippetID
	mode := snippetModeBot
	for _, opt := range i.ApplicationCommandData().Options {
		switch opt.Name {
		case snippetIDOptName:
			id = messages.SnippetID(opt.StringValue())
		case snippetModeOptName:
			mode = opt.StringValue()
		}
	}

	s := messages.SnippetByID(id)
	if s == nil {
		return respondEphemeral(a, i, "Snippet introuvable.")
	}

	if mode == snippetModeEphemeral {
		return respondData(a, i, messages.SnippetPreview(s))
	}

	if _, err := a.Session().ChannelMessageSendComplex(i.ChannelID, s.Message()); err != nil {
		return fmt.Errorf("error sending snippet: %w", err)
	}

	return respondEphemeral(a, i, fmt.Sprintf("Le snippet **%s** a été envoyé.", s.Label))
}
