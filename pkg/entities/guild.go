package entities

import "github.com/guichet-bot/guichet/pkg/custom"

// GuildConfig is the per-guild configuration of the ticket system. It is owned
// by the guild configuration store; the ticket lifecycle only ever reads it.
type GuildConfig struct {
	// GuildID is the ID of the guild.
	GuildID string `json:"guildId" bson:"guild_id"`

	// TicketBaseChannelID is the channel holding the pinned ticket panel.
	TicketBaseChannelID string `json:"ticketBaseChannelId" bson:"ticket_base_channel_id"`

	// TicketCategoryID is the category that ticket channels are created under.
	TicketCategoryID string `json:"ticketCategoryId" bson:"ticket_category_id"`

	// TranscriptChannelID is the channel that transcripts are uploaded to.
	TranscriptChannelID string `json:"transcriptChannelId" bson:"transcript_channel_id"`

	// StaffRoleIDs are the roles granted access to ticket channels (1-10).
	StaffRoleIDs []string `json:"staffRoleIds" bson:"staff_role_ids"`

	// TicketPanelMessageID is the ID of the pinned panel message, if posted.
	TicketPanelMessageID string `json:"ticketPanelMessageId,omitempty" bson:"ticket_panel_message_id,omitempty"`

	// UpdatedAt is the time the configuration was last written.
	UpdatedAt custom.Datetime `json:"updatedAt,omitempty" bson:"updated_at,omitempty"`
}

// GuildConfigPatch is a partial update of a GuildConfig. Nil fields are left
// untouched.
type GuildConfigPatch struct {
	TicketBaseChannelID  *string
	TicketCategoryID     *string
	TranscriptChannelID  *string
	StaffRoleIDs         *[]string
	TicketPanelMessageID *string
}

// Apply applies the patch to the given configuration.
func (p *GuildConfigPatch) Apply(cfg *GuildConfig) {
	if p.TicketBaseChannelID != nil {
		cfg.TicketBaseChannelID = *p.TicketBaseChannelID
	}
	if p.TicketCategoryID != nil {
		cfg.TicketCategoryID = *p.TicketCategoryID
	}
	if p.TranscriptChannelID != nil {
		cfg.TranscriptChannelID = *p.TranscriptChannelID
	}
	if p.StaffRoleIDs != nil {
		cfg.StaffRoleIDs = *p.StaffRoleIDs
	}
	if p.TicketPanelMessageID != nil {
		cfg.TicketPanelMessageID = *p.TicketPanelMessageID
	}
}
