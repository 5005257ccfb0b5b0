package tickets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/guichet-bot/guichet/pkg/dataaccess"
	"github.com/guichet-bot/guichet/pkg/logging"
)

const (
	// DefaultTemplateDelay is how long after creation the auto-template is
	// sent into a new ticket.
	DefaultTemplateDelay = 20 * time.Second

	// DefaultCloseDelay is how long the closing notice stays visible before
	// the channel is deleted.
	DefaultCloseDelay = 5 * time.Second
)

var (
	// ErrTicketNotFound is returned when an operation requires a registered
	// ticket and the channel has none.
	ErrTicketNotFound = errors.New("no ticket registered for channel")

	// ErrUnknownType is returned when a ticket type ID does not resolve.
	ErrUnknownType = errors.New("unknown ticket type")

	// ErrInvalidCategory is returned when the configured ticket category is
	// missing or is not a category channel.
	ErrInvalidCategory = errors.New("ticket category missing or not a category")
)

// ChannelAPI is the subset of the platform session the lifecycle manager
// needs. *discordgo.Session satisfies it.
type ChannelAPI interface {
	Channel(channelID string, options ...discordgo.RequestOption) (*discordgo.Channel, error)
	GuildChannels(guildID string, options ...discordgo.RequestOption) ([]*discordgo.Channel, error)
	GuildChannelCreateComplex(guildID string, data discordgo.GuildChannelCreateData, options ...discordgo.RequestOption) (*discordgo.Channel, error)
	ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessagePin(channelID, messageID string, options ...discordgo.RequestOption) error
	ChannelMessageDelete(channelID, messageID string, options ...discordgo.RequestOption) error
	ChannelDelete(channelID string, options ...discordgo.RequestOption) (*discordgo.Channel, error)
	ChannelEditComplex(channelID string, data *discordgo.ChannelEdit, options ...discordgo.RequestOption) (*discordgo.Channel, error)
	GuildMember(guildID, userID string, options ...discordgo.RequestOption) (*discordgo.Member, error)
}

// MessageBuilder constructs the user-facing payloads the lifecycle posts into
// ticket channels. Implementations are pure; the manager never formats
// content itself.
type MessageBuilder interface {
	// TicketInitial is the pinned welcome message of a new ticket.
	TicketInitial(t *Type, userID string) *discordgo.MessageSend

	// AutoTemplate is the pre-authored guidance message for a type, or nil
	// when the type has none.
	AutoTemplate(t *Type) *discordgo.MessageSend

	// TypeChanged is the notice posted when a ticket changes type.
	TypeChanged(oldType, newType *Type, actorID string) *discordgo.MessageSend

	// Closing is the notice posted just before a ticket channel is deleted.
	Closing() *discordgo.MessageSend
}

// TicketInfo is the registry entry for an active ticket. It is created and
// mutated exclusively by the Manager.
type TicketInfo struct {
	// ChannelID is the ticket channel, and the registry key.
	ChannelID string

	// GuildID is the guild the ticket belongs to.
	GuildID string

	// UserID is the user the ticket was opened for.
	UserID string

	// TypeID is the current ticket type.
	TypeID TypeID

	// CreatedAt is when the ticket channel was provisioned.
	CreatedAt time.Time

	// templateMessageIDs are the messages of the last auto-template dispatch
	// for the current type. They are deleted before being replaced.
	templateMessageIDs []string

	// pendingTemplate is the outstanding deferred dispatch, if any. At most
	// one exists per ticket; it is cancelled on type change and close.
	pendingTemplate *scheduledTask
}

// TemplateMessageIDs returns the message IDs of the currently displayed
// auto-template.
func (t *TicketInfo) TemplateMessageIDs() []string {
	out := make([]string, len(t.templateMessageIDs))
	copy(out, t.templateMessageIDs)
	return out
}

// Manager owns the in-memory ticket registry and the ticket lifecycle. State
// is process-lifetime only; after a restart tickets are recognised solely via
// the channel-name fallback.
type Manager struct {
	// l is the logger.
	l *slog.Logger

	// api is the platform channel API.
	api ChannelAPI

	// store is the external guild configuration store, read-only here.
	store dataaccess.GuildDal

	// builder constructs the user-facing payloads.
	builder MessageBuilder

	// mu guards active. Deferred tasks fire on timer goroutines, so the
	// registry needs the lock even though interaction handling is serial.
	mu sync.RWMutex

	// active maps channel ID to ticket metadata.
	active map[string]*TicketInfo

	// templateDelay and closeDelay are the lifecycle timings; tests shrink
	// them to milliseconds.
	templateDelay time.Duration
	closeDelay    time.Duration
}

// NewManager creates a ticket lifecycle manager.
func NewManager(l *slog.Logger, api ChannelAPI, store dataaccess.GuildDal, builder MessageBuilder) *Manager {
	return &Manager{
		l:             l,
		api:           api,
		store:         store,
		builder:       builder,
		active:        make(map[string]*TicketInfo),
		templateDelay: DefaultTemplateDelay,
		closeDelay:    DefaultCloseDelay,
	}
}

// IsTicketChannel reports whether the channel is a ticket channel. The
// registry is authoritative; the channel name pattern is the fallback for
// tickets that predate the process.
func (m *Manager) IsTicketChannel(channel *discordgo.Channel) bool {
	if channel == nil || channel.Type != discordgo.ChannelTypeGuildText {
		return false
	}

	m.mu.RLock()
	_, ok := m.active[channel.ID]
	m.mu.RUnlock()
	if ok {
		return true
	}

	parsed := ParseChannelName(channel.Name)
	if parsed == nil {
		return false
	}
	return TypeByPrefix(parsed.Prefix) != nil
}

// GetTicketInfo returns a snapshot of the registry entry for a channel.
func (m *Manager) GetTicketInfo(channelID string) (*TicketInfo, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	info, ok := m.active[channelID]
	if !ok {
		return nil, false
	}

	snapshot := &TicketInfo{
		ChannelID:          info.ChannelID,
		GuildID:            info.GuildID,
		UserID:             info.UserID,
		TypeID:             info.TypeID,
		CreatedAt:          info.CreatedAt,
		templateMessageIDs: append([]string(nil), info.templateMessageIDs...),
	}
	return snapshot, true
}

// RemoveTicket drops the registry entry for a channel without touching the
// channel itself. Used when the channel was deleted out-of-band.
func (m *Manager) RemoveTicket(channelID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if info, ok := m.active[channelID]; ok {
		info.pendingTemplate.Cancel()
		delete(m.active, channelID)
	}
}

// ActiveCount returns the number of tickets currently in the registry.
func (m *Manager) ActiveCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.active)
}

// FindExistingTicket returns the live channel of an open ticket matching
// guild, user and type, or nil. Channel existence is re-validated at call
// time; stale entries for already-deleted channels are skipped, not purged.
func (m *Manager) FindExistingTicket(guildID, userID string, typeID TypeID) *discordgo.Channel {
	m.mu.RLock()
	var candidates []string
	for _, info := range m.active {
		if info.GuildID == guildID && info.UserID == userID && info.TypeID == typeID {
			candidates = append(candidates, info.ChannelID)
		}
	}
	m.mu.RUnlock()

	for _, channelID := range candidates {
		channel, err := m.api.Channel(channelID)
		if err != nil || channel == nil {
			continue
		}
		if channel.Type == discordgo.ChannelTypeGuildText {
			return channel
		}
	}
	return nil
}

// CreateTicket provisions a ticket channel for the user, registers it, sends
// and pins the welcome message, and arms the deferred auto-template dispatch.
func (m *Manager) CreateTicket(ctx context.Context, guildID string, user *discordgo.User, t *Type) (*discordgo.Channel, error) {
	cfg, err := m.store.Get(ctx, guildID)
	if err != nil {
		return nil, fmt.Errorf("error getting guild configuration: %w", err)
	}

	category, err := m.api.Channel(cfg.TicketCategoryID)
	if err != nil || category == nil || category.Type != discordgo.ChannelTypeGuildCategory {
		return nil, ErrInvalidCategory
	}

	name := GenerateChannelName(t, user.Username, m.siblingNames(guildID, category.ID))

	overwrites := []*discordgo.PermissionOverwrite{
		// Deny @everyone from seeing the ticket.
		{
			ID:   guildID,
			Type: discordgo.PermissionOverwriteTypeRole,
			Deny: discordgo.PermissionAll,
		},
		// The user the ticket is for can see the ticket.
		{
			ID:    user.ID,
			Type:  discordgo.PermissionOverwriteTypeMember,
			Allow: discordgo.PermissionAllText,
			Deny:  discordgo.PermissionMentionEveryone | discordgo.PermissionManageMessages,
		},
	}
	// Staff roles additionally keep message management.
	for _, roleID := range cfg.StaffRoleIDs {
		overwrites = append(overwrites, &discordgo.PermissionOverwrite{
			ID:    roleID,
			Type:  discordgo.PermissionOverwriteTypeRole,
			Allow: discordgo.PermissionAllText,
			Deny:  discordgo.PermissionMentionEveryone,
		})
	}

	channel, err := m.api.GuildChannelCreateComplex(guildID, discordgo.GuildChannelCreateData{
		Name:                 name,
		Type:                 discordgo.ChannelTypeGuildText,
		Topic:                fmt.Sprintf("%s %s", t.Emoji, t.Label),
		PermissionOverwrites: overwrites,
		ParentID:             category.ID,
	})
	if err != nil {
		return nil, fmt.Errorf("error creating ticket channel: %w", err)
	}

	info := &TicketInfo{
		ChannelID: channel.ID,
		GuildID:   guildID,
		UserID:    user.ID,
		TypeID:    t.ID,
		CreatedAt: time.Now().UTC(),
	}

	m.mu.Lock()
	m.active[channel.ID] = info
	m.mu.Unlock()

	// Welcome message failures are soft; the channel is already usable.
	if msg, err := m.api.ChannelMessageSendComplex(channel.ID, m.builder.TicketInitial(t, user.ID)); err != nil {
		m.l.Error("Error sending ticket welcome message",
			slog.String(logging.KeyChannel, channel.ID),
			slog.String(logging.KeyError, err.Error()))
	} else if err := m.api.ChannelMessagePin(channel.ID, msg.ID); err != nil {
		m.l.Error("Error pinning ticket welcome message",
			slog.String(logging.KeyChannel, channel.ID),
			slog.String(logging.KeyError, err.Error()))
	}

	task := schedule(m.templateDelay, func() {
		m.fireAutoTemplate(channel.ID, t.ID)
	})

	m.mu.Lock()
	if current, ok := m.active[channel.ID]; ok {
		current.pendingTemplate = task
	} else {
		// Closed before we got here; the template must not fire.
		task.Cancel()
	}
	m.mu.Unlock()

	m.l.Info("Ticket created",
		slog.String(logging.KeyGuild, guildID),
		slog.String(logging.KeyChannel, channel.ID),
		slog.String(logging.KeyUser, user.ID),
		slog.String(logging.KeyTicketType, string(t.ID)))
	return channel, nil
}

// fireAutoTemplate runs when the deferred dispatch elapses. It re-validates
// that the ticket still exists and its type is unchanged since scheduling.
func (m *Manager) fireAutoTemplate(channelID string, scheduledFor TypeID) {
	m.mu.RLock()
	info, ok := m.active[channelID]
	valid := ok && info.TypeID == scheduledFor
	m.mu.RUnlock()
	if !valid {
		return
	}

	t := TypeByID(scheduledFor)
	if t == nil {
		return
	}

	template := m.builder.AutoTemplate(t)
	if template == nil {
		m.l.Warn("No auto template for ticket type",
			slog.String(logging.KeyChannel, channelID),
			slog.String(logging.KeyTicketType, string(scheduledFor)))
		return
	}

	msg, err := m.api.ChannelMessageSendComplex(channelID, template)
	if err != nil {
		m.l.Error("Error sending auto template",
			slog.String(logging.KeyChannel, channelID),
			slog.String(logging.KeyError, err.Error()))
		return
	}

	m.mu.Lock()
	info, ok = m.active[channelID]
	if ok && info.TypeID == scheduledFor {
		info.templateMessageIDs = append(info.templateMessageIDs, msg.ID)
		info.pendingTemplate = nil
		m.mu.Unlock()
		return
	}
	m.mu.Unlock()

	// The ticket changed type or closed while the send was in flight; the
	// message no longer matches the recorded type.
	if err := m.api.ChannelMessageDelete(channelID, msg.ID); err != nil {
		m.l.Warn("Error deleting orphaned auto template",
			slog.String(logging.KeyChannel, channelID),
			slog.String(logging.KeyError, err.Error()))
	}
}

// ChangeTicketType switches the ticket to a new type: the pending dispatch is
// cancelled, old template messages are deleted, the channel is optionally
// renamed, and the new type's template is sent immediately.
func (m *Manager) ChangeTicketType(ctx context.Context, channel *discordgo.Channel, newTypeID TypeID, actor *discordgo.User) error {
	newType := TypeByID(newTypeID)
	if newType == nil {
		return ErrUnknownType
	}

	m.mu.Lock()
	info, ok := m.active[channel.ID]
	if !ok {
		m.mu.Unlock()
		return ErrTicketNotFound
	}

	oldType := TypeByID(info.TypeID)
	if oldType == nil {
		m.mu.Unlock()
		return ErrUnknownType
	}

	info.pendingTemplate.Cancel()
	info.pendingTemplate = nil
	staleIDs := info.templateMessageIDs
	info.templateMessageIDs = nil
	info.TypeID = newTypeID
	userID := info.UserID
	m.mu.Unlock()

	// Best effort: a template message already gone is skipped, not fatal.
	m.deleteMessages(channel.ID, staleIDs)

	m.maybeRenameChannel(ctx, channel, newType, userID)

	if _, err := m.api.ChannelMessageSendComplex(channel.ID, m.builder.TypeChanged(oldType, newType, actor.ID)); err != nil {
		m.l.Error("Error sending type change notice",
			slog.String(logging.KeyChannel, channel.ID),
			slog.String(logging.KeyError, err.Error()))
	}

	if template := m.builder.AutoTemplate(newType); template != nil {
		msg, err := m.api.ChannelMessageSendComplex(channel.ID, template)
		if err != nil {
			m.l.Error("Error sending auto template",
				slog.String(logging.KeyChannel, channel.ID),
				slog.String(logging.KeyError, err.Error()))
		} else {
			m.mu.Lock()
			if info, ok := m.active[channel.ID]; ok && info.TypeID == newTypeID {
				info.templateMessageIDs = []string{msg.ID}
			}
			m.mu.Unlock()
		}
	} else {
		m.l.Warn("No auto template for ticket type",
			slog.String(logging.KeyChannel, channel.ID),
			slog.String(logging.KeyTicketType, string(newTypeID)))
	}

	m.l.Info("Ticket type changed",
		slog.String(logging.KeyChannel, channel.ID),
		slog.String("from", string(oldType.ID)),
		slog.String("to", string(newType.ID)))
	return nil
}

// CloseTicket unregisters the ticket immediately, posts the closing notice,
// waits for it to be seen and deletes the channel. The ticket stops being
// addressable the instant closure begins.
func (m *Manager) CloseTicket(ctx context.Context, channel *discordgo.Channel) error {
	m.mu.Lock()
	if info, ok := m.active[channel.ID]; ok {
		info.pendingTemplate.Cancel()
		delete(m.active, channel.ID)
	}
	m.mu.Unlock()

	if _, err := m.api.ChannelMessageSendComplex(channel.ID, m.builder.Closing()); err != nil {
		m.l.Warn("Error sending closing notice",
			slog.String(logging.KeyChannel, channel.ID),
			slog.String(logging.KeyError, err.Error()))
	}

	select {
	case <-time.After(m.closeDelay):
	case <-ctx.Done():
		return ctx.Err()
	}

	if _, err := m.api.ChannelDelete(channel.ID); err != nil {
		m.l.Error("Error deleting ticket channel",
			slog.String(logging.KeyChannel, channel.ID),
			slog.String(logging.KeyError, err.Error()))
		return fmt.Errorf("error deleting ticket channel: %w", err)
	}

	m.l.Info("Ticket closed", slog.String(logging.KeyChannel, channel.ID))
	return nil
}

// deleteMessages attempts to delete each message, recording failures without
// escalating them.
func (m *Manager) deleteMessages(channelID string, messageIDs []string) {
	for _, id := range messageIDs {
		if err := m.api.ChannelMessageDelete(channelID, id); err != nil {
			m.l.Warn("Error deleting stale template message",
				slog.String(logging.KeyChannel, channelID),
				slog.String("message", id),
				slog.String(logging.KeyError, err.Error()))
		}
	}
}

// maybeRenameChannel renames the ticket after a type change when both the
// configured category and the original creator can still be resolved.
func (m *Manager) maybeRenameChannel(ctx context.Context, channel *discordgo.Channel, newType *Type, userID string) {
	cfg, err := m.store.Get(ctx, channel.GuildID)
	if err != nil {
		return
	}

	member, err := m.api.GuildMember(channel.GuildID, userID)
	if err != nil || member == nil || member.User == nil {
		return
	}

	name := GenerateChannelName(newType, member.User.Username, m.siblingNames(channel.GuildID, cfg.TicketCategoryID))
	if _, err := m.api.ChannelEditComplex(channel.ID, &discordgo.ChannelEdit{Name: name}); err != nil {
		m.l.Warn("Error renaming ticket channel",
			slog.String(logging.KeyChannel, channel.ID),
			slog.String(logging.KeyError, err.Error()))
	}
}

// siblingNames lists the names of the channels directly under a category.
func (m *Manager) siblingNames(guildID, categoryID string) []string {
	channels, err := m.api.GuildChannels(guildID)
	if err != nil {
		return nil
	}

	var names []string
	for _, ch := range channels {
		if ch.ParentID == categoryID && ch.Type == discordgo.ChannelTypeGuildText {
			names = append(names, ch.Name)
		}
	}
	return names
}
