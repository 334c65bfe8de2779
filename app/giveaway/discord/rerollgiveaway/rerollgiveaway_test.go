package rerollgiveaway

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"

	discord "github.com/glowmart/discord-giveaway-bot/app/discordgo"
	"github.com/glowmart/discord-giveaway-bot/app/giveaway/discord/finalizegiveaway"
	"github.com/glowmart/discord-giveaway-bot/app/giveaway/store"
)

func pickFirstN(participants []string, count int) ([]string, error) {
	if count > len(participants) {
		count = len(participants)
	}
	return participants[:count], nil
}

func testStore(t *testing.T) store.GiveawayStore {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return store.NewInMemoryStore(ctx, store.Limits{MaxWinners: 10, MaxDurationMinutes: 10080}, time.Hour)
}

// endGiveaway seeds the store with a finalized giveaway so the retained
// record is available for recovery.
func endGiveaway(t *testing.T, s store.GiveawayStore, messageID string, winnerCount int, participants ...string) {
	t.Helper()
	if _, err := s.Create(store.CreateSpec{
		MessageID:       messageID,
		ChannelID:       "chan-1",
		GuildID:         "guild-1",
		Prize:           "Mystery Box",
		WinnerCount:     winnerCount,
		DurationMinutes: 60,
		CreatedBy:       "host-1",
	}); err != nil {
		t.Fatal(err)
	}
	for _, userID := range participants {
		if _, _, err := s.ToggleParticipant(messageID, userID); err != nil {
			t.Fatal(err)
		}
	}
	if err := s.ForceEnd(messageID); err != nil {
		t.Fatal(err)
	}
	if claimed := s.ClaimExpired(time.Now().Add(time.Second)); len(claimed) != 1 {
		t.Fatalf("claimed = %d, want 1", len(claimed))
	}
}

func terminalMessage(messageID string) *discordgo.Message {
	return &discordgo.Message{
		ID:        messageID,
		ChannelID: "chan-1",
		Embeds: []*discordgo.MessageEmbed{
			{Title: finalizegiveaway.TerminalTitlePrefix + "Mystery Box"},
		},
	}
}

func buttonPress(messageID string) *discordgo.InteractionCreate {
	return &discordgo.InteractionCreate{
		Interaction: &discordgo.Interaction{
			Type:      discordgo.InteractionMessageComponent,
			ChannelID: "chan-1",
			Member: &discordgo.Member{
				User: &discordgo.User{ID: "presser-1"},
			},
			Data: discordgo.MessageComponentInteractionData{
				CustomID:      finalizegiveaway.RerollButtonPrefix + messageID,
				ComponentType: discordgo.ButtonComponent,
			},
		},
	}
}

func rerollCommand(messageID string) *discordgo.InteractionCreate {
	return &discordgo.InteractionCreate{
		Interaction: &discordgo.Interaction{
			Type:      discordgo.InteractionApplicationCommand,
			ChannelID: "chan-1",
			Member: &discordgo.Member{
				User: &discordgo.User{ID: "admin-user"},
			},
			Data: discordgo.ApplicationCommandInteractionData{
				Name: "giveaway",
				Options: []*discordgo.ApplicationCommandInteractionDataOption{
					{
						Name: "reroll",
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

func TestHandleRerollButton_UsesTrackedRecord(t *testing.T) {
	fake := discord.NewFakeSession()
	fake.ChannelMessageFunc = func(channelID, messageID string, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
		return terminalMessage(messageID), nil
	}
	var announcement string
	fake.ChannelMessageSendFunc = func(_, content string, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
		announcement = content
		return &discordgo.Message{}, nil
	}

	giveaways := testStore(t)
	endGiveaway(t, giveaways, "msg-1", 2, "u1", "u2", "u3")

	manager := NewRerollGiveawayManager(fake, slog.New(slog.DiscardHandler), giveaways, nil, pickFirstN)

	result, err := manager.HandleRerollButton(context.Background(), buttonPress("msg-1"))
	if err != nil {
		t.Fatalf("HandleRerollButton() error = %v", err)
	}
	winners, ok := result.Success.([]string)
	if !ok || len(winners) != 2 {
		t.Fatalf("result.Success = %v, want two winners", result.Success)
	}
	if !strings.Contains(announcement, "<@u1>") || !strings.Contains(announcement, "<@u2>") {
		t.Errorf("announcement = %q", announcement)
	}
	for _, call := range fake.Calls() {
		if call == "MessageReactions" {
			t.Error("reaction fallback used despite a tracked record")
		}
	}
}

func TestHandleRerollButton_ReactionFallbackExcludesBots(t *testing.T) {
	fake := discord.NewFakeSession()
	fake.ChannelMessageFunc = func(channelID, messageID string, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
		return terminalMessage(messageID), nil
	}
	fake.MessageReactionsFunc = func(_, _, emojiID string, _ int, _, _ string, _ ...discordgo.RequestOption) ([]*discordgo.User, error) {
		if emojiID != "🎉" {
			t.Errorf("fallback emoji = %q, want 🎉", emojiID)
		}
		return []*discordgo.User{
			{ID: "bot-1", Bot: true},
			{ID: "u1"},
			{ID: "u2"},
		}, nil
	}

	manager := NewRerollGiveawayManager(fake, slog.New(slog.DiscardHandler), testStore(t), nil, pickFirstN)

	result, err := manager.HandleRerollButton(context.Background(), buttonPress("msg-untracked"))
	if err != nil {
		t.Fatalf("HandleRerollButton() error = %v", err)
	}
	winners, ok := result.Success.([]string)
	if !ok {
		t.Fatalf("result.Success = %v", result.Success)
	}
	// Winner count is unknown without the record, so only one is drawn.
	if len(winners) != 1 || winners[0] != "u1" {
		t.Errorf("winners = %v, want [u1]", winners)
	}
}

func TestHandleRerollButton_RejectsActiveAnnouncement(t *testing.T) {
	fake := discord.NewFakeSession()
	fake.ChannelMessageFunc = func(channelID, messageID string, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
		return &discordgo.Message{
			ID:        messageID,
			ChannelID: channelID,
			Embeds:    []*discordgo.MessageEmbed{{Title: "🎉 Giveaway: Mystery Box"}},
		}, nil
	}
	var response string
	fake.InteractionRespondFunc = func(_ *discordgo.Interaction, resp *discordgo.InteractionResponse, _ ...discordgo.RequestOption) error {
		response = resp.Data.Content
		return nil
	}

	manager := NewRerollGiveawayManager(fake, slog.New(slog.DiscardHandler), testStore(t), nil, pickFirstN)

	if _, err := manager.HandleRerollButton(context.Background(), buttonPress("msg-1")); err != nil {
		t.Fatalf("HandleRerollButton() error = %v", err)
	}
	if !strings.Contains(response, "not an ended giveaway") {
		t.Errorf("response = %q", response)
	}
	for _, call := range fake.Calls() {
		if call == "ChannelMessageSend" {
			t.Error("public announcement posted for a live giveaway")
		}
	}
}

func TestHandleRerollButton_NoParticipants(t *testing.T) {
	fake := discord.NewFakeSession()
	fake.ChannelMessageFunc = func(channelID, messageID string, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
		return terminalMessage(messageID), nil
	}
	var response string
	fake.InteractionRespondFunc = func(_ *discordgo.Interaction, resp *discordgo.InteractionResponse, _ ...discordgo.RequestOption) error {
		response = resp.Data.Content
		return nil
	}

	manager := NewRerollGiveawayManager(fake, slog.New(slog.DiscardHandler), testStore(t), nil, pickFirstN)

	result, err := manager.HandleRerollButton(context.Background(), buttonPress("msg-1"))
	if err != nil {
		t.Fatalf("HandleRerollButton() error = %v", err)
	}
	if !errors.Is(result.Error, ErrNoParticipants) {
		t.Errorf("result.Error = %v, want ErrNoParticipants", result.Error)
	}
	if !strings.Contains(response, "no participants") {
		t.Errorf("response = %q", response)
	}
}

func TestHandleRerollCommand_FetchesByMessageID(t *testing.T) {
	fake := discord.NewFakeSession()
	var fetched string
	fake.ChannelMessageFunc = func(channelID, messageID string, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
		fetched = messageID
		return terminalMessage(messageID), nil
	}

	giveaways := testStore(t)
	endGiveaway(t, giveaways, "msg-9", 1, "u1")

	manager := NewRerollGiveawayManager(fake, slog.New(slog.DiscardHandler), giveaways, nil, pickFirstN)

	result, err := manager.HandleRerollCommand(context.Background(), rerollCommand("msg-9"))
	if err != nil {
		t.Fatalf("HandleRerollCommand() error = %v", err)
	}
	if fetched != "msg-9" {
		t.Errorf("fetched message = %q, want msg-9", fetched)
	}
	if winners, ok := result.Success.([]string); !ok || len(winners) != 1 {
		t.Errorf("result.Success = %v, want one winner", result.Success)
	}
}

func TestHandleRerollButton_MissingMessage(t *testing.T) {
	fake := discord.NewFakeSession()
	fake.ChannelMessageFunc = func(string, string, ...discordgo.RequestOption) (*discordgo.Message, error) {
		return nil, errors.New("unknown message")
	}
	var response string
	fake.InteractionRespondFunc = func(_ *discordgo.Interaction, resp *discordgo.InteractionResponse, _ ...discordgo.RequestOption) error {
		response = resp.Data.Content
		return nil
	}

	manager := NewRerollGiveawayManager(fake, slog.New(slog.DiscardHandler), testStore(t), nil, pickFirstN)

	result, err := manager.HandleRerollButton(context.Background(), buttonPress("msg-404"))
	if err != nil {
		t.Fatalf("HandleRerollButton() error = %v", err)
	}
	if result.Error == nil {
		t.Error("expected result error for a missing message")
	}
	if !strings.Contains(response, "not found") {
		t.Errorf("response = %q", response)
	}
}
