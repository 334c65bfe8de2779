package creategiveaway

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/mock/gomock"

	discord "github.com/glowmart/discord-giveaway-bot/app/discordgo"
	eventbusmocks "github.com/glowmart/discord-giveaway-bot/app/eventbus/mocks"
	giveawayevents "github.com/glowmart/discord-giveaway-bot/app/events/giveaway"
	"github.com/glowmart/discord-giveaway-bot/app/giveaway/store"
	"github.com/glowmart/discord-giveaway-bot/app/shared/utils"
	"github.com/glowmart/discord-giveaway-bot/config"
)

func testConfig() *config.Config {
	return &config.Config{
		Discord: config.DiscordConfig{
			AdminRoleID: "admin-role",
		},
		Giveaway: config.GiveawayConfig{
			MaxWinners:         10,
			MaxDurationMinutes: 10080,
		},
	}
}

func testStore(t *testing.T) store.GiveawayStore {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return store.NewInMemoryStore(ctx, store.Limits{MaxWinners: 10, MaxDurationMinutes: 10080}, time.Hour)
}

func createInteraction(roles []string, opts ...*discordgo.ApplicationCommandInteractionDataOption) *discordgo.InteractionCreate {
	return &discordgo.InteractionCreate{
		Interaction: &discordgo.Interaction{
			Type:      discordgo.InteractionApplicationCommand,
			GuildID:   "guild-1",
			ChannelID: "chan-1",
			Member: &discordgo.Member{
				User:  &discordgo.User{ID: "admin-user"},
				Roles: roles,
			},
			Data: discordgo.ApplicationCommandInteractionData{
				Name: "giveaway",
				Options: []*discordgo.ApplicationCommandInteractionDataOption{
					{
						Name:    "create",
						Type:    discordgo.ApplicationCommandOptionSubCommand,
						Options: opts,
					},
				},
			},
		},
	}
}

func defaultCreateOptions() []*discordgo.ApplicationCommandInteractionDataOption {
	return []*discordgo.ApplicationCommandInteractionDataOption{
		{Name: "prize", Type: discordgo.ApplicationCommandOptionString, Value: "Mystery Box"},
		{Name: "winners", Type: discordgo.ApplicationCommandOptionInteger, Value: float64(2)},
		{Name: "duration", Type: discordgo.ApplicationCommandOptionInteger, Value: float64(60)},
	}
}

func TestHandleCreateGiveaway_PostsTracksAndPublishes(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	fake := discord.NewFakeSession()
	var posted *discordgo.MessageSend
	fake.ChannelMessageSendComplexFunc = func(channelID string, data *discordgo.MessageSend, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
		posted = data
		return &discordgo.Message{ID: "msg-100", ChannelID: channelID}, nil
	}
	var confirmation string
	fake.InteractionRespondFunc = func(_ *discordgo.Interaction, resp *discordgo.InteractionResponse, _ ...discordgo.RequestOption) error {
		confirmation = resp.Data.Content
		if resp.Data.Flags&discordgo.MessageFlagsEphemeral == 0 {
			t.Error("confirmation must be ephemeral")
		}
		return nil
	}

	mockBus := eventbusmocks.NewMockEventBus(ctrl)
	mockBus.EXPECT().Publish(giveawayevents.GiveawayCreatedTopic, gomock.Any()).Return(nil)

	giveaways := testStore(t)
	logger := slog.New(slog.DiscardHandler)
	manager := NewCreateGiveawayManager(fake, mockBus, logger, utils.NewHelper(logger), testConfig(), giveaways, nil)

	result, err := manager.HandleCreateGiveaway(context.Background(), createInteraction([]string{"admin-role"}, defaultCreateOptions()...))
	if err != nil {
		t.Fatalf("HandleCreateGiveaway() error = %v", err)
	}
	if result.Success != "msg-100" {
		t.Errorf("result.Success = %v, want msg-100", result.Success)
	}

	tracked, err := giveaways.Get("msg-100")
	if err != nil {
		t.Fatalf("giveaway not tracked: %v", err)
	}
	if tracked.Prize != "Mystery Box" || tracked.WinnerCount != 2 || len(tracked.Participants) != 0 {
		t.Errorf("tracked giveaway = %+v", tracked)
	}

	if posted == nil {
		t.Fatal("announcement was not posted")
	}
	row := posted.Components[0].(discordgo.ActionsRow)
	button := row.Components[0].(discordgo.Button)
	if button.CustomID != JoinButtonID {
		t.Errorf("join button custom ID = %q, want %q", button.CustomID, JoinButtonID)
	}
	if !strings.Contains(confirmation, "Mystery Box") {
		t.Errorf("confirmation = %q", confirmation)
	}
}

func TestHandleCreateGiveaway_DeniesNonAdmin(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	fake := discord.NewFakeSession()
	mockBus := eventbusmocks.NewMockEventBus(ctrl)
	giveaways := testStore(t)
	logger := slog.New(slog.DiscardHandler)
	manager := NewCreateGiveawayManager(fake, mockBus, logger, utils.NewHelper(logger), testConfig(), giveaways, nil)

	if _, err := manager.HandleCreateGiveaway(context.Background(), createInteraction([]string{"member-role"}, defaultCreateOptions()...)); err != nil {
		t.Fatalf("HandleCreateGiveaway() error = %v", err)
	}

	if giveaways.ActiveCount() != 0 {
		t.Error("giveaway tracked despite denied command")
	}
	for _, call := range fake.Calls() {
		if call == "ChannelMessageSendComplex" {
			t.Error("announcement posted despite denied command")
		}
	}
}

func TestHandleCreateGiveaway_RejectsOutOfRangeParameters(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	fake := discord.NewFakeSession()
	var response string
	fake.InteractionRespondFunc = func(_ *discordgo.Interaction, resp *discordgo.InteractionResponse, _ ...discordgo.RequestOption) error {
		response = resp.Data.Content
		return nil
	}
	mockBus := eventbusmocks.NewMockEventBus(ctrl)
	giveaways := testStore(t)
	logger := slog.New(slog.DiscardHandler)
	manager := NewCreateGiveawayManager(fake, mockBus, logger, utils.NewHelper(logger), testConfig(), giveaways, nil)

	opts := []*discordgo.ApplicationCommandInteractionDataOption{
		{Name: "prize", Type: discordgo.ApplicationCommandOptionString, Value: "Mystery Box"},
		{Name: "winners", Type: discordgo.ApplicationCommandOptionInteger, Value: float64(0)},
		{Name: "duration", Type: discordgo.ApplicationCommandOptionInteger, Value: float64(60)},
	}
	result, err := manager.HandleCreateGiveaway(context.Background(), createInteraction([]string{"admin-role"}, opts...))
	if err != nil {
		t.Fatalf("HandleCreateGiveaway() error = %v", err)
	}
	if !errors.Is(result.Error, store.ErrValidation) {
		t.Errorf("result.Error = %v, want ErrValidation", result.Error)
	}
	if response == "" || !strings.Contains(response, "winner count") {
		t.Errorf("validation response = %q", response)
	}
	if giveaways.ActiveCount() != 0 {
		t.Error("invalid giveaway was tracked")
	}
}

func TestHandleCreateGiveaway_AnnouncementFailureLeavesNothingTracked(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	fake := discord.NewFakeSession()
	fake.ChannelMessageSendComplexFunc = func(string, *discordgo.MessageSend, ...discordgo.RequestOption) (*discordgo.Message, error) {
		return nil, errors.New("missing permissions")
	}
	mockBus := eventbusmocks.NewMockEventBus(ctrl)
	giveaways := testStore(t)
	logger := slog.New(slog.DiscardHandler)
	manager := NewCreateGiveawayManager(fake, mockBus, logger, utils.NewHelper(logger), testConfig(), giveaways, nil)

	result, err := manager.HandleCreateGiveaway(context.Background(), createInteraction([]string{"admin-role"}, defaultCreateOptions()...))
	if err != nil {
		t.Fatalf("HandleCreateGiveaway() error = %v", err)
	}
	if result.Error == nil {
		t.Error("expected result error when the announcement cannot be posted")
	}
	if giveaways.ActiveCount() != 0 {
		t.Error("giveaway tracked despite failed announcement")
	}
}

func forceEndInteraction(messageID string) *discordgo.InteractionCreate {
	return &discordgo.InteractionCreate{
		Interaction: &discordgo.Interaction{
			Type:    discordgo.InteractionApplicationCommand,
			GuildID: "guild-1",
			Member: &discordgo.Member{
				User:  &discordgo.User{ID: "admin-user"},
				Roles: []string{"admin-role"},
			},
			Data: discordgo.ApplicationCommandInteractionData{
				Name: "giveaway",
				Options: []*discordgo.ApplicationCommandInteractionDataOption{
					{
						Name: "end",
						Type: discordgo.ApplicationCommandOptionSubCommand,
						Options: []*discordgo.ApplicationCommandInteractionDataOption{
							{Name: "message_id", Type: discordgo.ApplicationCommandOptionString, Value: messageID},
						},
					},
				},
			},
		},
	}
}

func TestHandleForceEnd_MakesGiveawayClaimable(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	fake := discord.NewFakeSession()
	mockBus := eventbusmocks.NewMockEventBus(ctrl)
	giveaways := testStore(t)
	logger := slog.New(slog.DiscardHandler)
	manager := NewCreateGiveawayManager(fake, mockBus, logger, utils.NewHelper(logger), testConfig(), giveaways, nil)

	if _, err := giveaways.Create(store.CreateSpec{
		MessageID:       "msg-200",
		ChannelID:       "chan-1",
		GuildID:         "guild-1",
		Prize:           "Gift Card",
		WinnerCount:     1,
		DurationMinutes: 60,
		CreatedBy:       "admin-user",
	}); err != nil {
		t.Fatalf("seeding store: %v", err)
	}

	if _, err := manager.HandleForceEnd(context.Background(), forceEndInteraction("msg-200")); err != nil {
		t.Fatalf("HandleForceEnd() error = %v", err)
	}

	claimed := giveaways.ClaimExpired(time.Now().Add(time.Second))
	if len(claimed) != 1 || claimed[0].MessageID != "msg-200" {
		t.Fatalf("claimed = %v, want msg-200", claimed)
	}
}

func TestHandleForceEnd_UnknownGiveaway(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	fake := discord.NewFakeSession()
	var response string
	fake.InteractionRespondFunc = func(_ *discordgo.Interaction, resp *discordgo.InteractionResponse, _ ...discordgo.RequestOption) error {
		response = resp.Data.Content
		return nil
	}
	mockBus := eventbusmocks.NewMockEventBus(ctrl)
	giveaways := testStore(t)
	logger := slog.New(slog.DiscardHandler)
	manager := NewCreateGiveawayManager(fake, mockBus, logger, utils.NewHelper(logger), testConfig(), giveaways, nil)

	if _, err := manager.HandleForceEnd(context.Background(), forceEndInteraction("msg-404")); err != nil {
		t.Fatalf("HandleForceEnd() error = %v", err)
	}
	if !strings.Contains(response, "not found") {
		t.Errorf("response = %q, want a not-found notice", response)
	}
}
