package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/guichet-bot/guichet/cmd/bot/monitoring"
	"github.com/guichet-bot/guichet/pkg/logging"
	"github.com/guichet-bot/guichet/pkg/messages"
	"github.com/guichet-bot/guichet/pkg/permissions"
	"github.com/guichet-bot/guichet/pkg/tickets"
)

const (
	// ticketCmdName is the command for opening a ticket.
	ticketCmdName = "ticket"

	// ticketTypeOptName is the ticket type option.
	ticketTypeOptName = "type"

	// ticketMemberOptName is the optional member to open the ticket for.
	ticketMemberOptName = "membre"
)

// ticketCmd is the command for opening a ticket.
var ticketCmd = &discordgo.ApplicationCommand{
	Name:        ticketCmdName,
	Type:        discordgo.ChatApplicationCommand,
	Description: "Ouvrir un ticket de support.",
	Options: []*discordgo.ApplicationCommandOption{
		{
			Name:        ticketTypeOptName,
			Type:        discordgo.ApplicationCommandOptionString,
			Description: "Le sujet du ticket.",
			Required:    true,
			Choices:     ticketTypeChoices(),
		},
		{
			Name:        ticketMemberOptName,
			Type:        discordgo.ApplicationCommandOptionUser,
			Description: "Ouvrir le ticket pour un autre membre (staff uniquement).",
		},
	},
}

func ticketTypeChoices() []*discordgo.ApplicationCommandOptionChoice {
	choices := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(tickets.Types))
	for _, t := range tickets.Types {
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{
			Name:  fmt.Sprintf("%s %s", t.Emoji, t.Label),
			Value: string(t.ID),
		})
	}
	return choices
}

func ticketCmdController(_ IApp, _ *discordgo.InteractionCreate) (commandProcessor, error) {
	return ticketCmdProcessor, nil
}

func ticketCmdProcessor(a IApp, i *discordgo.InteractionCreate) error {
	data := i.ApplicationCommandData()

	var typeID tickets.TypeID
	var target *discordgo.User
	for _, opt := range data.Options {
		switch opt.Name {
		case ticketTypeOptName:
			typeID = tickets.TypeID(opt.StringValue())
		case ticketMemberOptName:
			target = opt.UserValue(a.Session())
		}
	}

	t := tickets.TypeByID(typeID)
	if t == nil {
		return respondEphemeral(a, i, "Ce type de ticket n'existe pas.")
	}

	user := i.Member.User
	if target != nil && target.ID != user.ID {
		// Only staff can open tickets on behalf of someone else.
		cfg, err := guildConfig(a, i)
		if err != nil {
			return err
		}

		var staffRoles []string
		if cfg != nil {
			staffRoles = cfg.StaffRoleIDs
		}
		if !permissions.IsStaff(i.Member, staffRoles) {
			return respondEphemeral(a, i, "Seul le staff peut ouvrir un ticket pour un autre membre.")
		}
		user = target
	}

	return openTicket(a, i, user, t)
}

// openTicket runs the duplicate check then provisions the channel, shared by
// the slash command and the panel select menu.
func openTicket(a IApp, i *discordgo.InteractionCreate, user *discordgo.User, t *tickets.Type) error {
	if existing := a.Manager().FindExistingTicket(i.GuildID, user.ID, t.ID); existing != nil {
		return respondData(a, i, messages.TicketAlreadyOpen(t, existing.ID))
	}

	channel, err := a.Manager().CreateTicket(context.Background(), i.GuildID, user, t)
	if err != nil {
		if errors.Is(err, tickets.ErrInvalidCategory) {
			return respondEphemeral(a, i, "Le serveur n'est pas configuré pour les tickets. Un administrateur doit exécuter /setup.")
		}
		return fmt.Errorf("error creating ticket: %w", err)
	}

	monitoring.OpenTickets.Set(float64(a.Manager().ActiveCount()))

	return respondData(a, i, messages.TicketCreated(channel.ID))
}

// ticketPanelSelectHandler opens a ticket from the pinned panel select menu.
func ticketPanelSelectHandler(a IApp, i *discordgo.InteractionCreate) error {
	values := i.MessageComponentData().Values
	if len(values) != 1 {
		return respondEphemeral(a, i, messages.ErrUserUnknownAction)
	}

	t := tickets.TypeByID(tickets.TypeID(values[0]))
	if t == nil {
		return respondEphemeral(a, i, messages.ErrUserUnknownAction)
	}

	return openTicket(a, i, i.Member.User, t)
}

// changeTypeButtonHandler offers the change-type select menu.
func changeTypeButtonHandler(a IApp, i *discordgo.InteractionCreate) error {
	channel, err := ticketOnly(a, i)
	if err != nil || channel == nil {
		return err
	}
	return respondData(a, i, messages.ChangeTypeSelect())
}

// changeTypeSelectHandler switches the ticket to the selected type.
func changeTypeSelectHandler(a IApp, i *discordgo.InteractionCreate) error {
	channel, err := ticketOnly(a, i)
	if err != nil || channel == nil {
		return err
	}

	values := i.MessageComponentData().Values
	if len(values) != 1 {
		return respondEphemeral(a, i, messages.ErrUserUnknownAction)
	}

	newType := tickets.TypeByID(tickets.TypeID(values[0]))
	if newType == nil {
		return respondEphemeral(a, i, messages.ErrUserUnknownAction)
	}

	if err := a.Manager().ChangeTicketType(context.Background(), channel, newType.ID, i.Member.User); err != nil {
		if errors.Is(err, tickets.ErrTicketNotFound) {
			return respondEphemeral(a, i, "Ce salon n'est pas un ticket actif.")
		}
		return fmt.Errorf("error changing ticket type: %w", err)
	}

	return respondEphemeral(a, i, fmt.Sprintf("Le sujet du ticket est maintenant %s **%s**.", newType.Emoji, newType.Label))
}

// closeButtonHandler asks for confirmation before closing.
func closeButtonHandler(a IApp, i *discordgo.InteractionCreate) error {
	channel, err := ticketOnly(a, i)
	if err != nil || channel == nil {
		return err
	}
	return respondData(a, i, messages.CloseConfirm())
}

// closeConfirmHandler closes the ticket. The interaction is answered before
// the close runs; the channel deletion is delayed inside the manager.
func closeConfirmHandler(a IApp, i *discordgo.InteractionCreate) error {
	channel, err := ticketOnly(a, i)
	if err != nil || channel == nil {
		return err
	}

	if err := respondEphemeral(a, i, "Fermeture du ticket en cours..."); err != nil {
		return err
	}

	go func() {
		if err := a.Manager().CloseTicket(context.Background(), channel); err != nil {
			a.Log().Error("Error closing ticket", slog.String(logging.KeyError, err.Error()))
		}
		monitoring.OpenTickets.Set(float64(a.Manager().ActiveCount()))
	}()
	return nil
}

// closeCancelHandler aborts the close.
func closeCancelHandler(a IApp, i *discordgo.InteractionCreate) error {
	return respondEphemeral(a, i, "Fermeture annulée.")
}

// channelDeleteHandler drops the registry entry when a ticket channel is
// deleted outside the close flow (e.g. by a moderator, by hand).
func channelDeleteHandler(a IApp) func(s *discordgo.Session, c *discordgo.ChannelDelete) {
	return func(_ *discordgo.Session, c *discordgo.ChannelDelete) {
		a.Manager().RemoveTicket(c.ID)
		monitoring.OpenTickets.Set(float64(a.Manager().ActiveCount()))
	}
}
