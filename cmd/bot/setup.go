package main

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/guichet-bot/guichet/pkg/custom"
	"github.com/guichet-bot/guichet/pkg/entities"
	"github.com/guichet-bot/guichet/pkg/logging"
	"github.com/guichet-bot/guichet/pkg/messages"
)

const (
	// setupCmdName is the command for all configuration commands.
	setupCmdName = "setup"

	// setupTicketsCmdName configures the ticket system.
	setupTicketsCmdName = "tickets"

	// setupCheckCmdName reports the current configuration state.
	setupCheckCmdName = "check"

	// baseChannelOptName is the channel holding the ticket panel.
	baseChannelOptName = "salon_tickets"

	// categoryOptName is the category ticket channels are created under.
	categoryOptName = "categorie"

	// staffRolesOptName is the comma separated staff role list.
	staffRolesOptName = "roles_staff"

	// transcriptChannelOptName is the channel transcripts are uploaded to.
	transcriptChannelOptName = "salon_transcripts"
)

// maxStaffRoles bounds the staff role list.
const maxStaffRoles = 10

// roleMention strips the <@&...> wrapper off a role mention.
var roleMention = regexp.MustCompile(`^<@&(\d+)>$`)

// setupCmd is the command for all configuration commands.
var setupCmd = &discordgo.ApplicationCommand{
	Name:        setupCmdName,
	Type:        discordgo.ChatApplicationCommand,
	Description: "Configurer le système de tickets.",
	Options: []*discordgo.ApplicationCommandOption{
		{
			Name:        setupTicketsCmdName,
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Description: "Configurer les salons et rôles du système de tickets.",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Name:        baseChannelOptName,
					Type:        discordgo.ApplicationCommandOptionChannel,
					Description: "Le salon où publier le panneau d'ouverture de tickets.",
					Required:    true,
				},
				{
					Name:        categoryOptName,
					Type:        discordgo.ApplicationCommandOptionChannel,
					Description: "La catégorie sous laquelle créer les salons de tickets.",
					Required:    true,
				},
				{
					Name:        staffRolesOptName,
					Type:        discordgo.ApplicationCommandOptionString,
					Description: "Les rôles staff, séparés par des virgules (mentions ou IDs).",
					Required:    true,
				},
				{
					Name:        transcriptChannelOptName,
					Type:        discordgo.ApplicationCommandOptionChannel,
					Description: "Le salon où envoyer les transcripts.",
				},
			},
		},
		{
			Name:        setupCheckCmdName,
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Description: "Vérifier la configuration actuelle du système de tickets.",
		},
	},
}

func setupCmdController(a IApp, i *discordgo.InteractionCreate) (commandProcessor, error) {
	// Ensure the user is an administrator.
	if i.Member.Permissions&discordgo.PermissionAdministrator != discordgo.PermissionAdministrator {
		if err := respondEphemeral(a, i, "Cette commande est réservée aux administrateurs."); err != nil {
			return nil, err
		}
		return nil, nil
	}

	// Extract the sub command.
	subCmd := i.ApplicationCommandData().Options[0].Name

	switch subCmd {
	case setupTicketsCmdName:
		return setupTicketsProcessor, nil
	case setupCheckCmdName:
		return setupCheckProcessor, nil
	default:
		return nil, fmt.Errorf("unhandled sub command %s", subCmd)
	}
}

// parseStaffRoles splits the comma separated option into role IDs. Entries
// may be raw IDs or role mentions.
func parseStaffRoles(raw string) ([]string, error) {
	parts := strings.Split(raw, ",")
	roles := make([]string, 0, len(parts))

	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		if m := roleMention.FindStringSubmatch(part); m != nil {
			part = m[1]
		}

		for _, r := range part {
			if r < '0' || r > '9' {
				return nil, fmt.Errorf("invalid role reference: %s", part)
			}
		}

		roles = append(roles, part)
	}

	if len(roles) == 0 || len(roles) > maxStaffRoles {
		return nil, fmt.Errorf("between 1 and %d staff roles required, got %d", maxStaffRoles, len(roles))
	}
	return roles, nil
}

// setupTicketsProcessor stores the guild configuration and (re)publishes the
// pinned ticket panel.
func setupTicketsProcessor(a IApp, i *discordgo.InteractionCreate) error {
	opts := i.ApplicationCommandData().Options[0].Options

	var baseChannel, category, transcriptChannel *discordgo.Channel
	var staffRolesRaw string
	for _, opt := range opts {
		switch opt.Name {
		case baseChannelOptName:
			baseChannel = opt.ChannelValue(a.Session())
		case categoryOptName:
			category = opt.ChannelValue(a.Session())
		case staffRolesOptName:
			staffRolesRaw = opt.StringValue()
		case transcriptChannelOptName:
			transcriptChannel = opt.ChannelValue(a.Session())
		}
	}

	if baseChannel == nil || baseChannel.Type != discordgo.ChannelTypeGuildText {
		return respondEphemeral(a, i, "Le salon des tickets doit être un salon textuel.")
	}
	if category == nil || category.Type != discordgo.ChannelTypeGuildCategory {
		return respondEphemeral(a, i, "La catégorie doit être une catégorie de salons.")
	}
	if transcriptChannel != nil && transcriptChannel.Type != discordgo.ChannelTypeGuildText {
		return respondEphemeral(a, i, "Le salon des transcripts doit être un salon textuel.")
	}

	staffRoles, err := parseStaffRoles(staffRolesRaw)
	if err != nil {
		a.Log().Warn("Invalid staff roles option",
			slog.String(logging.KeyGuild, i.GuildID),
			slog.String(logging.KeyError, err.Error()),
		)
		return respondEphemeral(a, i,
			fmt.Sprintf("Les rôles staff doivent être des mentions ou des IDs séparés par des virgules (1 à %d rôles).", maxStaffRoles))
	}

	cfg := &entities.GuildConfig{
		GuildID:             i.GuildID,
		TicketBaseChannelID: baseChannel.ID,
		TicketCategoryID:    category.ID,
		StaffRoleIDs:        staffRoles,
		UpdatedAt:           custom.Now(),
	}
	if transcriptChannel != nil {
		cfg.TranscriptChannelID = transcriptChannel.ID
	}

	if err := a.Guilds().Set(context.Background(), cfg); err != nil {
		return fmt.Errorf("error saving guild configuration: %w", err)
	}

	// Publish the panel and pin it so members always find it.
	panel, err := a.Session().ChannelMessageSendComplex(baseChannel.ID, a.Builder().TicketPanel())
	if err != nil {
		return fmt.Errorf("error sending ticket panel: %w", err)
	}

	if err := a.Session().ChannelMessagePin(baseChannel.ID, panel.ID); err != nil {
		a.Log().Warn("Could not pin the ticket panel",
			slog.String(logging.KeyChannel, baseChannel.ID),
			slog.String(logging.KeyError, err.Error()),
		)
	}

	if _, err := a.Guilds().Update(context.Background(), i.GuildID, &entities.GuildConfigPatch{
		TicketPanelMessageID: &panel.ID,
	}); err != nil {
		return fmt.Errorf("error saving panel message ID: %w", err)
	}

	return respondData(a, i, &discordgo.InteractionResponseData{
		Flags: discordgo.MessageFlagsEphemeral,
		Embeds: []*discordgo.MessageEmbed{
			messages.SuccessEmbed("Configuration enregistrée",
				fmt.Sprintf("Panneau publié dans <#%s>, tickets créés sous <#%s>.", baseChannel.ID, category.ID)),
		},
	})
}

// checkStaffRoles renders the configured staff roles as mentions, flagging
// the ones no longer present in the guild's role list.
func checkStaffRoles(configured []string, guildRoles []*discordgo.Role) []string {
	existing := make(map[string]struct{}, len(guildRoles))
	for _, r := range guildRoles {
		existing[r.ID] = struct{}{}
	}

	out := make([]string, 0, len(configured))
	for _, id := range configured {
		if _, ok := existing[id]; ok {
			out = append(out, fmt.Sprintf("<@&%s>", id))
		} else {
			out = append(out, fmt.Sprintf("<@&%s> (introuvable)", id))
		}
	}
	return out
}

// setupCheckProcessor reports the stored configuration and whether each
// referenced channel and role still exists.
func setupCheckProcessor(a IApp, i *discordgo.InteractionCreate) error {
	cfg, err := guildConfig(a, i)
	if err != nil {
		return err
	}
	if cfg == nil {
		return respondEphemeral(a, i, "Aucune configuration trouvée. Exécutez /setup tickets pour commencer.")
	}

	check := func(channelID string) string {
		if channelID == "" {
			return "non configuré"
		}
		if _, err := a.Session().Channel(channelID); err != nil {
			return fmt.Sprintf("<#%s> (introuvable)", channelID)
		}
		return fmt.Sprintf("<#%s>", channelID)
	}

	guildRoles, err := a.Session().GuildRoles(i.GuildID)
	if err != nil {
		return fmt.Errorf("error getting guild roles: %w", err)
	}
	roleList := checkStaffRoles(cfg.StaffRoleIDs, guildRoles)

	embed := messages.InfoEmbed("Configuration des tickets", "")
	embed.Fields = []*discordgo.MessageEmbedField{
		{Name: "Salon des tickets", Value: check(cfg.TicketBaseChannelID)},
		{Name: "Catégorie", Value: check(cfg.TicketCategoryID)},
		{Name: "Salon des transcripts", Value: check(cfg.TranscriptChannelID)},
		{Name: "Rôles staff", Value: strings.Join(roleList, ", ")},
	}

	return respondData(a, i, &discordgo.InteractionResponseData{
		Flags:  discordgo.MessageFlagsEphemeral,
		Embeds: []*discordgo.MessageEmbed{embed},
	})
}
