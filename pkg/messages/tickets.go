package messages

import (
	"fmt"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/guichet-bot/guichet/pkg/tickets"
)

// TicketActionPrefix marks every ticket-related component custom ID; the
// interaction router routes on it.
const TicketActionPrefix = "ticket_"

const (
	// TicketTypeSelectID is the panel select menu for opening a ticket.
	TicketTypeSelectID = "ticket_type_select"

	// TicketChangeTypeSelectID is the select menu for switching a ticket's type.
	TicketChangeTypeSelectID = "ticket_change_type"

	// TicketChangeTypeButtonID opens the change-type select menu.
	TicketChangeTypeButtonID = "ticket_change_type_btn"

	// TicketCloseButtonID asks for close confirmation.
	TicketCloseButtonID = "ticket_close"

	// TicketCloseConfirmButtonID confirms closing the ticket.
	TicketCloseConfirmButtonID = "ticket_close_confirm"

	// TicketCloseCancelButtonID aborts closing the ticket.
	TicketCloseCancelButtonID = "ticket_close_cancel"

	// TicketRenameModalID is the rename modal.
	TicketRenameModalID = "ticket_rename_modal"

	// TicketRenameInputID is the text input of the rename modal.
	TicketRenameInputID = "new_name"
)

// Builder implements tickets.MessageBuilder.
type Builder struct{}

// NewBuilder creates the message builder.
func NewBuilder() *Builder {
	return &Builder{}
}

func typeSelectOptions() []discordgo.SelectMenuOption {
	options := make([]discordgo.SelectMenuOption, 0, len(tickets.Types))
	for _, t := range tickets.Types {
		options = append(options, discordgo.SelectMenuOption{
			Label:       t.Label,
			Value:       string(t.ID),
			Description: t.Description,
			Emoji:       discordgo.ComponentEmoji{Name: t.Emoji},
		})
	}
	return options
}

// TicketPanel is the pinned panel posted in the base channel, offering the
// ticket type select menu.
func (b *Builder) TicketPanel() *discordgo.MessageSend {
	return &discordgo.MessageSend{
		Embeds: []*discordgo.MessageEmbed{
			{
				Title: "\U0001F39F Ouvrir un ticket",
				Description: "Besoin d'aide ? Sélectionnez le sujet de votre demande ci-dessous " +
					"et un salon privé sera créé pour vous avec notre équipe.",
				Color: ColorTicket,
			},
		},
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{
				Components: []discordgo.MessageComponent{
					discordgo.SelectMenu{
						CustomID:    TicketTypeSelectID,
						Placeholder: "Choisissez le sujet de votre ticket",
						Options:     typeSelectOptions(),
					},
				},
			},
		},
	}
}

// TicketInitial is the pinned welcome message of a new ticket.
func (b *Builder) TicketInitial(t *tickets.Type, userID string) *discordgo.MessageSend {
	return &discordgo.MessageSend{
		Content: fmt.Sprintf("<@%s>", userID),
		Embeds: []*discordgo.MessageEmbed{
			{
				Title: fmt.Sprintf("%s %s", t.Emoji, t.Label),
				Description: fmt.Sprintf(
					"Bienvenue <@%s> ! Votre ticket **%s** a été créé.\n"+
						"Décrivez votre demande, un membre du staff vous répondra dès que possible.",
					userID, t.Label,
				),
				Color: ColorTicket,
			},
		},
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{
				Components: []discordgo.MessageComponent{
					discordgo.Button{
						Label:    "\U0001F510 Fermer",
						Style:    discordgo.DangerButton,
						CustomID: TicketCloseButtonID,
					},
					discordgo.Button{
						Label:    "\U0001F501 Changer de sujet",
						Style:    discordgo.SecondaryButton,
						CustomID: TicketChangeTypeButtonID,
					},
				},
			},
		},
	}
}

// TypeChanged is the notice posted after a ticket switches type.
func (b *Builder) TypeChanged(oldType, newType *tickets.Type, actorID string) *discordgo.MessageSend {
	return &discordgo.MessageSend{
		Embeds: []*discordgo.MessageEmbed{
			{
				Title: "\U0001F501 Sujet modifié",
				Description: fmt.Sprintf(
					"<@%s> a changé le sujet du ticket : %s **%s** → %s **%s**",
					actorID, oldType.Emoji, oldType.Label, newType.Emoji, newType.Label,
				),
				Color: ColorInfo,
			},
		},
	}
}

// Closing is the notice posted just before the channel is deleted.
func (b *Builder) Closing() *discordgo.MessageSend {
	return &discordgo.MessageSend{
		Embeds: []*discordgo.MessageEmbed{
			{
				Title:       "\U0001F510 Fermeture du ticket",
				Description: "Ce ticket va être supprimé dans quelques secondes. Merci de nous avoir contactés !",
				Color:       ColorWarning,
			},
		},
	}
}

// ChangeTypeSelect is the ephemeral select menu offered by the change-type
// button.
func ChangeTypeSelect() *discordgo.InteractionResponseData {
	return &discordgo.InteractionResponseData{
		Flags: discordgo.MessageFlagsEphemeral,
		Embeds: []*discordgo.MessageEmbed{
			InfoEmbed("Changer de sujet", "Sélectionnez le nouveau sujet de ce ticket."),
		},
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{
				Components: []discordgo.MessageComponent{
					discordgo.SelectMenu{
						CustomID:    TicketChangeTypeSelectID,
						Placeholder: "Nouveau sujet",
						Options:     typeSelectOptions(),
					},
				},
			},
		},
	}
}

// CloseConfirm is the ephemeral confirmation asked before closing a ticket.
func CloseConfirm() *discordgo.InteractionResponseData {
	return &discordgo.InteractionResponseData{
		Flags: discordgo.MessageFlagsEphemeral,
		Embeds: []*discordgo.MessageEmbed{
			WarningEmbed("Fermer le ticket ?",
				"Le salon sera supprimé définitivement. Pensez à générer un transcript avant."),
		},
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{
				Components: []discordgo.MessageComponent{
					discordgo.Button{
						Label:    "Confirmer la fermeture",
						Style:    discordgo.DangerButton,
						CustomID: TicketCloseConfirmButtonID,
					},
					discordgo.Button{
						Label:    "Annuler",
						Style:    discordgo.SecondaryButton,
						CustomID: TicketCloseCancelButtonID,
					},
				},
			},
		},
	}
}

// TicketCreated is the ephemeral confirmation after a successful creation.
func TicketCreated(channelID string) *discordgo.InteractionResponseData {
	return &discordgo.InteractionResponseData{
		Flags: discordgo.MessageFlagsEphemeral,
		Embeds: []*discordgo.MessageEmbed{
			SuccessEmbed("Ticket créé", fmt.Sprintf("Votre ticket a été créé : <#%s>", channelID)),
		},
	}
}

// TicketAlreadyOpen points the user at their existing ticket of the same type.
func TicketAlreadyOpen(t *tickets.Type, channelID string) *discordgo.InteractionResponseData {
	return &discordgo.InteractionResponseData{
		Flags: discordgo.MessageFlagsEphemeral,
		Embeds: []*discordgo.MessageEmbed{
			InfoEmbed("Ticket déjà ouvert",
				fmt.Sprintf("Un ticket %s **%s** existe déjà : <#%s>", t.Emoji, t.Label, channelID)),
		},
	}
}

// RenameModal is the modal asking for a new channel name.
func RenameModal() *discordgo.InteractionResponseData {
	return &discordgo.InteractionResponseData{
		CustomID: TicketRenameModalID,
		Title:    "Renommer le salon",
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{
				Components: []discordgo.MessageComponent{
					discordgo.TextInput{
						CustomID:    TicketRenameInputID,
						Label:       "Nouveau nom du salon",
						Style:       discordgo.TextInputShort,
						Placeholder: "exemple: support-jean",
						Required:    true,
						MinLength:   1,
						MaxLength:   100,
					},
				},
			},
		},
	}
}
