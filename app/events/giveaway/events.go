package giveawayevents

import "time"

// --- Topics (for Watermill) ---
const (
	// GiveawayExpiredTopic carries a claimed giveaway from the sweeper to the
	// finalization handler.
	GiveawayExpiredTopic = "discord.giveaway.expired"
	// GiveawayFinalizedTopic carries the finalization outcome to the audit
	// log handler.
	GiveawayFinalizedTopic = "discord.giveaway.finalized"
	// GiveawayCreatedTopic carries a freshly created giveaway to the audit
	// log handler.
	GiveawayCreatedTopic = "discord.giveaway.created"
)

// GiveawayCreatedPayload: from the create interaction to the audit handler.
type GiveawayCreatedPayload struct {
	MessageID       string    `json:"message_id"`
	ChannelID       string    `json:"channel_id"`
	GuildID         string    `json:"guild_id"`
	Prize           string    `json:"prize"`
	WinnerCount     int       `json:"winner_count"`
	DurationMinutes int       `json:"duration_minutes"`
	Description     string    `json:"description,omitempty"`
	CreatedBy       string    `json:"created_by"`
	EndTime         time.Time `json:"end_time"`
}

// GiveawayExpiredPayload: from the sweeper to the finalization handler. It
// carries the full claimed snapshot so finalization never needs to consult
// the store again.
type GiveawayExpiredPayload struct {
	MessageID    string    `json:"message_id"`
	ChannelID    string    `json:"channel_id"`
	GuildID      string    `json:"guild_id"`
	Prize        string    `json:"prize"`
	WinnerCount  int       `json:"winner_count"`
	Description  string    `json:"description,omitempty"`
	ImageURL     string    `json:"image_url,omitempty"`
	CreatedBy    string    `json:"created_by"`
	EndTime      time.Time `json:"end_time"`
	Participants []string  `json:"participants"`
}

// Finalization outcome reasons.
const (
	FinalizeReasonWinnersDrawn   = "winners_drawn"
	FinalizeReasonNoParticipants = "no_participants"
	FinalizeReasonAbandoned      = "abandoned"
)

// GiveawayFinalizedPayload: from the finalization handler to the audit
// handler.
type GiveawayFinalizedPayload struct {
	MessageID        string   `json:"message_id"`
	ChannelID        string   `json:"channel_id"`
	Prize            string   `json:"prize"`
	ParticipantCount int      `json:"participant_count"`
	WinnerCount      int      `json:"winner_count"`
	Winners          []string `json:"winners"`
	Reason           string   `json:"reason"`
}
