package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/guichet-bot/guichet/cmd/bot/monitoring"
	"github.com/guichet-bot/guichet/pkg/logging"
	"github.com/guichet-bot/guichet/pkg/messages"
	"github.com/guichet-bot/guichet/pkg/tickets"
	"github.com/guichet-bot/guichet/pkg/transcripts"
)

const (
	// deleteCmdName immediately closes the current ticket.
	deleteCmdName = "delete"

	// renameCmdName renames the current ticket channel.
	renameCmdName = "rename"

	// transcriptCmdName generates a transcript of the current ticket.
	transcriptCmdName = "transcript"

	// transcriptFormatOptName is the transcript format option.
	transcriptFormatOptName = "format"

	// transcriptMemberOptName is the optional member to DM a copy to.
	transcriptMemberOptName = "membre"
)

var (
	// deleteCmd closes the ticket the command is executed in.
	deleteCmd = &discordgo.ApplicationCommand{
		Name:        deleteCmdName,
		Type:        discordgo.ChatApplicationCommand,
		Description: "Fermer et supprimer ce ticket.",
	}

	// renameCmd renames the ticket channel via a modal.
	renameCmd = &discordgo.ApplicationCommand{
		Name:        renameCmdName,
		Type:        discordgo.ChatApplicationCommand,
		Description: "Renommer ce salon de ticket.",
	}

	// transcriptCmd generates a transcript of the ticket channel.
	transcriptCmd = &discordgo.ApplicationCommand{
		Name:        transcriptCmdName,
		Type:        discordgo.ChatApplicationCommand,
		Description: "Générer un transcript de ce ticket.",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Name:        transcriptFormatOptName,
				Type:        discordgo.ApplicationCommandOptionString,
				Description: "Le format du transcript.",
				Choices: []*discordgo.ApplicationCommandOptionChoice{
					{Name: "Texte", Value: string(transcripts.FormatText)},
					{Name: "Markdown", Value: string(transcripts.FormatMarkdown)},
				},
			},
			{
				Name:        transcriptMemberOptName,
				Type:        discordgo.ApplicationCommandOptionUser,
				Description: "Envoyer une copie du transcript à ce membre en message privé.",
			},
		},
	}
)

func deleteCmdController(a IApp, i *discordgo.InteractionCreate) (commandProcessor, error) {
	return staffOnly(deleteCmdProcessor)(a, i)
}

func deleteCmdProcessor(a IApp, i *discordgo.InteractionCreate) error {
	channel, err := ticketOnly(a, i)
	if err != nil || channel == nil {
		return err
	}

	if err := respondEphemeral(a, i, "Suppression du ticket en cours..."); err != nil {
		return err
	}

	go func() {
		if err := a.Manager().CloseTicket(context.Background(), channel); err != nil {
			a.Log().Error("Error deleting ticket", slog.String(logging.KeyError, err.Error()))
		}
		monitoring.OpenTickets.Set(float64(a.Manager().ActiveCount()))
	}()
	return nil
}

func renameCmdController(a IApp, i *discordgo.InteractionCreate) (commandProcessor, error) {
	return staffOnly(renameCmdProcessor)(a, i)
}

func renameCmdProcessor(a IApp, i *discordgo.InteractionCreate) error {
	channel, err := ticketOnly(a, i)
	if err != nil || channel == nil {
		return err
	}
	return respondModal(a, i, messages.RenameModal())
}

// renameModalHandler applies the name submitted through the rename modal.
func renameModalHandler(a IApp, i *discordgo.InteractionCreate) error {
	channel, err := a.Session().Channel(i.ChannelID)
	if err != nil {
		return fmt.Errorf("error getting channel: %w", err)
	}
	if !a.Manager().IsTicketChannel(channel) {
		return respondEphemeral(a, i, "Cette commande ne peut être utilisée que dans un salon de ticket.")
	}

	var raw string
	for _, row := range i.ModalSubmitData().Components {
		actionsRow, ok := row.(*discordgo.ActionsRow)
		if !ok {
			continue
		}
		for _, comp := range actionsRow.Components {
			if input, ok := comp.(*discordgo.TextInput); ok && input.CustomID == messages.TicketRenameInputID {
				raw = input.Value
			}
		}
	}

	name := tickets.SimplifyHandle(raw)
	if name == "" {
		return respondEphemeral(a, i, "Ce nom ne contient aucun caractère utilisable.")
	}

	if _, err := a.Session().ChannelEditComplex(channel.ID, &discordgo.ChannelEdit{Name: name}); err != nil {
		return fmt.Errorf("error renaming channel: %w", err)
	}

	return respondEphemeral(a, i, fmt.Sprintf("Le salon a été renommé en **%s**.", name))
}

func transcriptCmdController(a IApp, i *discordgo.InteractionCreate) (commandProcessor, error) {
	return staffOnly(transcriptCmdProcessor)(a, i)
}

func transcriptCmdProcessor(a IApp, i *discordgo.InteractionCreate) error {
	channel, err := ticketOnly(a, i)
	if err != nil || channel == nil {
		return err
	}

	format := transcripts.FormatText
	var target *discordgo.User
	for _, opt := range i.ApplicationCommandData().Options {
		switch opt.Name {
		case transcriptFormatOptName:
			format = transcripts.Format(opt.StringValue())
		case transcriptMemberOptName:
			target = opt.UserValue(a.Session())
		}
	}

	// Fetching the history can take longer than the interaction deadline.
	if err := respondDeferred(a, i); err != nil {
		return err
	}

	msgs, err := transcripts.FetchAll(a.Session(), channel.ID)
	if err != nil {
		return fmt.Errorf("error fetching channel history: %w", err)
	}

	content := transcripts.Generate(msgs, format, channel.Name)
	fileName := transcripts.FileName(channel.Name, format)

	cfg, err := guildConfig(a, i)
	if err != nil {
		return err
	}

	caption := fmt.Sprintf("Transcript de **%s** (%d messages).", channel.Name, len(msgs))

	if target != nil {
		sendTranscriptDM(a, target, caption, fileName, content)
	}

	if cfg != nil && cfg.TranscriptChannelID != "" {
		_, err = a.Session().ChannelMessageSendComplex(cfg.TranscriptChannelID, &discordgo.MessageSend{
			Content: caption,
			Files: []*discordgo.File{
				{
					Name:        fileName,
					ContentType: "text/plain",
					Reader:      strings.NewReader(content),
				},
			},
		})
		if err != nil {
			return fmt.Errorf("error uploading transcript: %w", err)
		}
		return followupEphemeral(a, i, fmt.Sprintf("Transcript envoyé dans <#%s>.", cfg.TranscriptChannelID))
	}

	// No transcript channel configured; attach the file to the reply instead.
	_, err = a.Session().FollowupMessageCreate(i.Interaction, true, &discordgo.WebhookParams{
		Content: caption,
		Flags:   discordgo.MessageFlagsEphemeral,
		Files: []*discordgo.File{
			{
				Name:        fileName,
				ContentType: "text/plain",
				Reader:      strings.NewReader(content),
			},
		},
	})
	if err != nil {
		return fmt.Errorf("error sending transcript: %w", err)
	}
	return nil
}

// sendTranscriptDM sends a copy of the transcript to a user in private. DM
// failures (closed DMs, privacy settings) are logged, not fatal.
func sendTranscriptDM(a IApp, user *discordgo.User, caption, fileName, content string) {
	dm, err := a.Session().UserChannelCreate(user.ID)
	if err == nil {
		_, err = a.Session().ChannelMessageSendComplex(dm.ID, &discordgo.MessageSend{
			Content: caption,
			Files: []*discordgo.File{
				{
					Name:        fileName,
					ContentType: "text/plain",
					Reader:      strings.NewReader(content),
				},
			},
		})
	}
	if err != nil {
		a.Log().Warn("Could not DM the transcript",
			slog.String(logging.KeyUser, user.ID),
			slog.String(logging.KeyError, err.Error()))
	}
}
