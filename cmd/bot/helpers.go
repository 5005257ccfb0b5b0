package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/guichet-bot/guichet/pkg/dataaccess"
	"github.com/guichet-bot/guichet/pkg/entities"
	"github.com/guichet-bot/guichet/pkg/messages"
	"github.com/guichet-bot/guichet/pkg/permissions"
)

func respondSlashError(a IApp, i *discordgo.InteractionCreate) error {
	return respondData(a, i, &discordgo.InteractionResponseData{
		Flags: discordgo.MessageFlagsEphemeral,
		Embeds: []*discordgo.MessageEmbed{
			messages.ErrorEmbed("Erreur", messages.ErrUserErrorProcessing),
		},
	})
}

func respondEphemeral(a IApp, i *discordgo.InteractionCreate, content string) error {
	return a.Session().InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
}

func respondData(a IApp, i *discordgo.InteractionCreate, data *discordgo.InteractionResponseData) error {
	return a.Session().InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: data,
	})
}

func respondModal(a IApp, i *discordgo.InteractionCreate, data *discordgo.InteractionResponseData) error {
	return a.Session().InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseModal,
		Data: data,
	})
}

// respondDeferred acknowledges the interaction so a slow handler can follow
// up past the 3 second deadline.
func respondDeferred(a IApp, i *discordgo.InteractionCreate) error {
	return a.Session().InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Flags: discordgo.MessageFlagsEphemeral,
		},
	})
}

func followupEphemeral(a IApp, i *discordgo.InteractionCreate, content string) error {
	_, err := a.Session().FollowupMessageCreate(i.Interaction, true, &discordgo.WebhookParams{
		Content: content,
		Flags:   discordgo.MessageFlagsEphemeral,
	})
	return err
}

// guildConfig loads the configuration for the interaction's guild, or nil
// when the guild has not been set up.
func guildConfig(a IApp, i *discordgo.InteractionCreate) (*entities.GuildConfig, error) {
	cfg, err := a.Guilds().Get(context.Background(), i.GuildID)
	if err != nil {
		if errors.Is(err, dataaccess.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("error getting guild configuration: %w", err)
	}
	return cfg, nil
}

// staffOnly wraps a processor so only staff members can run it. When the
// guard rejects, it responds itself and returns a nil processor.
func staffOnly(next commandProcessor) commandController {
	return func(a IApp, i *discordgo.InteractionCreate) (commandProcessor, error) {
		cfg, err := guildConfig(a, i)
		if err != nil {
			return nil, err
		}

		var staffRoles []string
		if cfg != nil {
			staffRoles = cfg.StaffRoleIDs
		}

		if !permissions.IsStaff(i.Member, staffRoles) {
			if err := respondEphemeral(a, i, "Cette commande est réservée au staff."); err != nil {
				return nil, err
			}
			return nil, nil
		}
		return next, nil
	}
}

// ticketOnly rejects the interaction when it is not executed inside a ticket
// channel.
func ticketOnly(a IApp, i *discordgo.InteractionCreate) (*discordgo.Channel, error) {
	channel, err := a.Session().Channel(i.ChannelID)
	if err != nil {
		return nil, fmt.Errorf("error getting channel: %w", err)
	}

	if !a.Manager().IsTicketChannel(channel) {
		if err := respondEphemeral(a, i, "Cette commande ne peut être utilisée que dans un salon de ticket."); err != nil {
			return nil, err
		}
		return nil, nil
	}
	return channel, nil
}
