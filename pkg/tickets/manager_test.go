package tickets

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/guichet-bot/guichet/pkg/dataaccess"
	"github.com/guichet-bot/guichet/pkg/entities"
	"github.com/stretchr/testify/require"
)

type sentMessage struct {
	ID        string
	ChannelID string
	Content   string
}

// fakeAPI is an in-memory stand-in for the platform channel API.
type fakeAPI struct {
	mu              sync.Mutex
	nextID          int
	channels        map[string]*discordgo.Channel
	sent            []sentMessage
	pinned          []string
	deletedMessages []string
	deletedChannels []string
	members         map[string]*discordgo.Member
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		channels: make(map[string]*discordgo.Channel),
		members:  make(map[string]*discordgo.Member),
	}
}

func (f *fakeAPI) addChannel(id, guildID, name, parentID string, chanType discordgo.ChannelType) *discordgo.Channel {
	f.mu.Lock()
	defer f.mu.Unlock()

	ch := &discordgo.Channel{
		ID:       id,
		GuildID:  guildID,
		Name:     name,
		ParentID: parentID,
		Type:     chanType,
	}
	f.channels[id] = ch
	return ch
}

func (f *fakeAPI) Channel(channelID string, _ ...discordgo.RequestOption) (*discordgo.Channel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	ch, ok := f.channels[channelID]
	if !ok {
		return nil, fmt.Errorf("unknown channel %s", channelID)
	}
	return ch, nil
}

func (f *fakeAPI) GuildChannels(guildID string, _ ...discordgo.RequestOption) ([]*discordgo.Channel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []*discordgo.Channel
	for _, ch := range f.channels {
		if ch.GuildID == guildID {
			out = append(out, ch)
		}
	}
	return out, nil
}

func (f *fakeAPI) GuildChannelCreateComplex(guildID string, data discordgo.GuildChannelCreateData, _ ...discordgo.RequestOption) (*discordgo.Channel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.nextID++
	ch := &discordgo.Channel{
		ID:       fmt.Sprintf("chan-%d", f.nextID),
		GuildID:  guildID,
		Name:     data.Name,
		Type:     data.Type,
		ParentID: data.ParentID,
	}
	f.channels[ch.ID] = ch
	return ch, nil
}

func (f *fakeAPI) ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.nextID++
	msg := sentMessage{
		ID:        fmt.Sprintf("msg-%d", f.nextID),
		ChannelID: channelID,
		Content:   data.Content,
	}
	f.sent = append(f.sent, msg)
	return &discordgo.Message{ID: msg.ID, ChannelID: channelID, Content: msg.Content}, nil
}

func (f *fakeAPI) ChannelMessagePin(_, messageID string, _ ...discordgo.RequestOption) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.pinned = append(f.pinned, messageID)
	return nil
}

func (f *fakeAPI) ChannelMessageDelete(_, messageID string, _ ...discordgo.RequestOption) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.deletedMessages = append(f.deletedMessages, messageID)
	return nil
}

func (f *fakeAPI) ChannelDelete(channelID string, _ ...discordgo.RequestOption) (*discordgo.Channel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	ch, ok := f.channels[channelID]
	if !ok {
		return nil, fmt.Errorf("unknown channel %s", channelID)
	}
	delete(f.channels, channelID)
	f.deletedChannels = append(f.deletedChannels, channelID)
	return ch, nil
}

func (f *fakeAPI) ChannelEditComplex(channelID string, data *discordgo.ChannelEdit, _ ...discordgo.RequestOption) (*discordgo.Channel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	ch, ok := f.channels[channelID]
	if !ok {
		return nil, fmt.Errorf("unknown channel %s", channelID)
	}
	ch.Name = data.Name
	return ch, nil
}

func (f *fakeAPI) GuildMember(guildID, userID string, _ ...discordgo.RequestOption) (*discordgo.Member, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	member, ok := f.members[guildID+"/"+userID]
	if !ok {
		return nil, fmt.Errorf("unknown member %s", userID)
	}
	return member, nil
}

func (f *fakeAPI) sentWithPrefix(prefix string) []sentMessage {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []sentMessage
	for _, msg := range f.sent {
		if strings.HasPrefix(msg.Content, prefix) {
			out = append(out, msg)
		}
	}
	return out
}

func (f *fakeAPI) channelName(channelID string) string {
	f.mu.Lock()
	defer f.mu.Unlock()

	ch, ok := f.channels[channelID]
	if !ok {
		return ""
	}
	return ch.Name
}

// fakeStore is an in-memory guild configuration store.
type fakeStore struct {
	mu   sync.Mutex
	cfgs map[string]*entities.GuildConfig
}

func newFakeStore() *fakeStore {
	return &fakeStore{cfgs: make(map[string]*entities.GuildConfig)}
}

func (s *fakeStore) Get(_ context.Context, guildID string) (*entities.GuildConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg, ok := s.cfgs[guildID]
	if !ok {
		return nil, dataaccess.ErrNotFound
	}
	return cfg, nil
}

func (s *fakeStore) Set(_ context.Context, cfg *entities.GuildConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cfgs[cfg.GuildID] = cfg
	return nil
}

func (s *fakeStore) Update(_ context.Context, guildID string, patch *entities.GuildConfigPatch) (*entities.GuildConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg, ok := s.cfgs[guildID]
	if !ok {
		return nil, dataaccess.ErrNotFound
	}
	patch.Apply(cfg)
	return cfg, nil
}

func (s *fakeStore) Delete(_ context.Context, guildID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.cfgs[guildID]; !ok {
		return dataaccess.ErrNotFound
	}
	delete(s.cfgs, guildID)
	return nil
}

func (s *fakeStore) Ping(_ context.Context) error {
	return nil
}

// stubBuilder tags every payload so tests can tell them apart by content.
type stubBuilder struct{}

func (stubBuilder) TicketInitial(t *Type, userID string) *discordgo.MessageSend {
	return &discordgo.MessageSend{Content: "welcome:" + string(t.ID) + ":" + userID}
}

func (stubBuilder) AutoTemplate(t *Type) *discordgo.MessageSend {
	return &discordgo.MessageSend{Content: "template:" + string(t.ID)}
}

func (stubBuilder) TypeChanged(oldType, newType *Type, actorID string) *discordgo.MessageSend {
	return &discordgo.MessageSend{Content: "changed:" + string(oldType.ID) + ">" + string(newType.ID)}
}

func (stubBuilder) Closing() *discordgo.MessageSend {
	return &discordgo.MessageSend{Content: "closing"}
}

const (
	testGuildID    = "guild-1"
	testCategoryID = "cat-1"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestManager(t *testing.T) (*Manager, *fakeAPI, *fakeStore) {
	t.Helper()

	api := newFakeAPI()
	api.addChannel(testCategoryID, testGuildID, "tickets", "", discordgo.ChannelTypeGuildCategory)

	store := newFakeStore()
	require.NoError(t, store.Set(context.Background(), &entities.GuildConfig{
		GuildID:          testGuildID,
		TicketCategoryID: testCategoryID,
		StaffRoleIDs:     []string{"role-staff"},
	}))

	m := NewManager(testLogger(), api, store, stubBuilder{})
	m.templateDelay = 20 * time.Millisecond
	m.closeDelay = 5 * time.Millisecond
	return m, api, store
}

func testUser() *discordgo.User {
	return &discordgo.User{ID: "user-1", Username: "Jean Dupont"}
}

func TestCreateTicket(t *testing.T) {
	m, api, _ := newTestManager(t)

	eclipse := TypeByID(TypeEclipse)
	channel, err := m.CreateTicket(context.Background(), testGuildID, testUser(), eclipse)
	require.NoError(t, err)
	require.Equal(t, "eclipse-jean-dupont", channel.Name)
	require.Equal(t, testCategoryID, channel.ParentID)

	info, ok := m.GetTicketInfo(channel.ID)
	require.True(t, ok)
	require.Equal(t, testGuildID, info.GuildID)
	require.Equal(t, "user-1", info.UserID)
	require.Equal(t, TypeEclipse, info.TypeID)

	// The welcome message is sent and pinned straight away.
	welcomes := api.sentWithPrefix("welcome:eclipse:user-1")
	require.Len(t, welcomes, 1)
	require.Contains(t, api.pinned, welcomes[0].ID)

	// The auto template only arrives after the deferred delay.
	require.Empty(t, api.sentWithPrefix("template:"))
	require.Eventually(t, func() bool {
		return len(api.sentWithPrefix("template:eclipse")) == 1
	}, time.Second, 2*time.Millisecond)

	// The fired dispatch is recorded on the ticket.
	info, ok = m.GetTicketInfo(channel.ID)
	require.True(t, ok)
	require.Len(t, info.TemplateMessageIDs(), 1)
}

func TestCreateTicketDuplicateName(t *testing.T) {
	m, api, _ := newTestManager(t)
	api.addChannel("existing", testGuildID, "eclipse-jean-dupont", testCategoryID, discordgo.ChannelTypeGuildText)

	channel, err := m.CreateTicket(context.Background(), testGuildID, testUser(), TypeByID(TypeEclipse))
	require.NoError(t, err)
	require.Equal(t, "eclipse-jean-dupont-2", channel.Name)
}

func TestCreateTicketInvalidCategory(t *testing.T) {
	m, _, store := newTestManager(t)
	require.NoError(t, store.Set(context.Background(), &entities.GuildConfig{
		GuildID:          testGuildID,
		TicketCategoryID: "missing",
	}))

	_, err := m.CreateTicket(context.Background(), testGuildID, testUser(), TypeByID(TypeEclipse))
	require.ErrorIs(t, err, ErrInvalidCategory)
}

func TestCreateTicketUnconfiguredGuild(t *testing.T) {
	m, _, _ := newTestManager(t)

	_, err := m.CreateTicket(context.Background(), "guild-unconfigured", testUser(), TypeByID(TypeEclipse))
	require.ErrorIs(t, err, dataaccess.ErrNotFound)
}

func TestFindExistingTicket(t *testing.T) {
	m, api, _ := newTestManager(t)

	channel, err := m.CreateTicket(context.Background(), testGuildID, testUser(), TypeByID(TypeEclipse))
	require.NoError(t, err)

	found := m.FindExistingTicket(testGuildID, "user-1", TypeEclipse)
	require.NotNil(t, found)
	require.Equal(t, channel.ID, found.ID)

	// Different type, user or guild does not match.
	require.Nil(t, m.FindExistingTicket(testGuildID, "user-1", TypeTechnique))
	require.Nil(t, m.FindExistingTicket(testGuildID, "user-2", TypeEclipse))
	require.Nil(t, m.FindExistingTicket("guild-2", "user-1", TypeEclipse))

	// A stale entry whose channel is gone is skipped.
	api.mu.Lock()
	delete(api.channels, channel.ID)
	api.mu.Unlock()
	require.Nil(t, m.FindExistingTicket(testGuildID, "user-1", TypeEclipse))
}

func TestChangeTicketType(t *testing.T) {
	m, api, _ := newTestManager(t)
	api.mu.Lock()
	api.members[testGuildID+"/user-1"] = &discordgo.Member{User: testUser()}
	api.mu.Unlock()

	channel, err := m.CreateTicket(context.Background(), testGuildID, testUser(), TypeByID(TypeEclipse))
	require.NoError(t, err)

	// Let the first template fire so there is something to clean up.
	require.Eventually(t, func() bool {
		return len(api.sentWithPrefix("template:eclipse")) == 1
	}, time.Second, 2*time.Millisecond)
	oldTemplate := api.sentWithPrefix("template:eclipse")[0]

	require.NoError(t, m.ChangeTicketType(context.Background(), channel, TypeTechnique, testUser()))

	// The stale template is deleted, the notice and the new template arrive.
	require.Contains(t, api.deletedMessages, oldTemplate.ID)
	require.Len(t, api.sentWithPrefix("changed:eclipse>technique"), 1)
	require.Len(t, api.sentWithPrefix("template:technique"), 1)

	// Registry and channel name follow the new type.
	info, ok := m.GetTicketInfo(channel.ID)
	require.True(t, ok)
	require.Equal(t, TypeTechnique, info.TypeID)
	require.Equal(t, "tech-jean-dupont", api.channelName(channel.ID))
}

func TestChangeTicketTypeCancelsPendingTemplate(t *testing.T) {
	m, api, _ := newTestManager(t)

	channel, err := m.CreateTicket(context.Background(), testGuildID, testUser(), TypeByID(TypeEclipse))
	require.NoError(t, err)

	// Switch type before the deferred dispatch fires.
	require.NoError(t, m.ChangeTicketType(context.Background(), channel, TypeQuestions, testUser()))

	// Well past the original delay, the old type's template never arrived.
	time.Sleep(60 * time.Millisecond)
	require.Empty(t, api.sentWithPrefix("template:eclipse"))
	require.Len(t, api.sentWithPrefix("template:questions"), 1)
}

func TestChangeTicketTypeErrors(t *testing.T) {
	m, api, _ := newTestManager(t)
	unknown := api.addChannel("not-a-ticket", testGuildID, "general", "", discordgo.ChannelTypeGuildText)

	require.ErrorIs(t, m.ChangeTicketType(context.Background(), unknown, "nope", testUser()), ErrUnknownType)
	require.ErrorIs(t, m.ChangeTicketType(context.Background(), unknown, TypeEclipse, testUser()), ErrTicketNotFound)
}

func TestCloseTicket(t *testing.T) {
	m, api, _ := newTestManager(t)

	channel, err := m.CreateTicket(context.Background(), testGuildID, testUser(), TypeByID(TypeEclipse))
	require.NoError(t, err)

	require.NoError(t, m.CloseTicket(context.Background(), channel))

	require.Len(t, api.sentWithPrefix("closing"), 1)
	require.Contains(t, api.deletedChannels, channel.ID)

	_, ok := m.GetTicketInfo(channel.ID)
	require.False(t, ok)
	require.Zero(t, m.ActiveCount())

	// The pending template was cancelled by the close.
	time.Sleep(60 * time.Millisecond)
	require.Empty(t, api.sentWithPrefix("template:"))
}

func TestCloseTicketUnregistersBeforeDeletion(t *testing.T) {
	m, api, _ := newTestManager(t)
	m.closeDelay = 200 * time.Millisecond

	channel, err := m.CreateTicket(context.Background(), testGuildID, testUser(), TypeByID(TypeEclipse))
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() {
		done <- m.CloseTicket(context.Background(), channel)
	}()

	// Once the closing notice is out the registry entry is already gone,
	// while the channel itself still awaits deletion.
	require.Eventually(t, func() bool {
		return len(api.sentWithPrefix("closing")) == 1
	}, time.Second, 2*time.Millisecond)

	_, ok := m.GetTicketInfo(channel.ID)
	require.False(t, ok)
	require.Zero(t, m.ActiveCount())

	api.mu.Lock()
	deleted := len(api.deletedChannels)
	api.mu.Unlock()
	require.Zero(t, deleted)
	require.NotEmpty(t, api.channelName(channel.ID))

	require.NoError(t, <-done)
	require.Contains(t, api.deletedChannels, channel.ID)
}

func TestCloseTicketCancelledContext(t *testing.T) {
	m, api, _ := newTestManager(t)
	m.closeDelay = time.Minute

	channel, err := m.CreateTicket(context.Background(), testGuildID, testUser(), TypeByID(TypeEclipse))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.ErrorIs(t, m.CloseTicket(ctx, channel), context.Canceled)
	require.NotContains(t, api.deletedChannels, channel.ID)
}

func TestIsTicketChannel(t *testing.T) {
	m, api, _ := newTestManager(t)

	registered, err := m.CreateTicket(context.Background(), testGuildID, testUser(), TypeByID(TypeEclipse))
	require.NoError(t, err)

	tests := []struct {
		name    string
		channel *discordgo.Channel
		want    bool
	}{
		{
			name:    "RegisteredTicket",
			channel: registered,
			want:    true,
		},
		{
			name:    "UnregisteredWithTicketName",
			channel: api.addChannel("old", testGuildID, "tech-bob-2", testCategoryID, discordgo.ChannelTypeGuildText),
			want:    true,
		},
		{
			name:    "UnknownPrefix",
			channel: api.addChannel("other", testGuildID, "archive-bob", testCategoryID, discordgo.ChannelTypeGuildText),
			want:    false,
		},
		{
			name:    "PlainChannel",
			channel: api.addChannel("gen", testGuildID, "general", "", discordgo.ChannelTypeGuildText),
			want:    false,
		},
		{
			name:    "Category",
			channel: api.addChannel("cat-x", testGuildID, "eclipse-bob", "", discordgo.ChannelTypeGuildCategory),
			want:    false,
		},
		{
			name:    "Nil",
			channel: nil,
			want:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, m.IsTicketChannel(tt.channel))
		})
	}
}

func TestRemoveTicket(t *testing.T) {
	m, api, _ := newTestManager(t)

	channel, err := m.CreateTicket(context.Background(), testGuildID, testUser(), TypeByID(TypeEclipse))
	require.NoError(t, err)
	require.Equal(t, 1, m.ActiveCount())

	m.RemoveTicket(channel.ID)
	require.Zero(t, m.ActiveCount())

	// The channel itself is untouched and the pending dispatch is cancelled.
	require.NotContains(t, api.deletedChannels, channel.ID)
	time.Sleep(60 * time.Millisecond)
	require.Empty(t, api.sentWithPrefix("template:"))

	// Removing an unknown channel is a no-op.
	m.RemoveTicket("does-not-exist")
}
