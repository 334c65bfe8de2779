// Package store holds the authoritative in-memory table of giveaways. All
// state is memory-resident by design; a restart drops every active giveaway.
package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

var (
	// ErrNotFound is returned when a giveaway is not tracked (anymore).
	ErrNotFound = errors.New("giveaway not found")
	// ErrValidation is returned for out-of-range creation parameters.
	ErrValidation = errors.New("invalid giveaway parameters")
	// ErrAlreadyTracked is returned when a message ID is already an active
	// giveaway.
	ErrAlreadyTracked = errors.New("giveaway already tracked")
)

// Status is the explicit lifecycle state of a giveaway. Active giveaways
// live in the store's active table; once claimed for finalization they move
// to the ended retention table and can never be claimed again.
type Status string

const (
	StatusActive     Status = "ACTIVE"
	StatusFinalizing Status = "FINALIZING"
	StatusEnded      Status = "ENDED"
)

// Giveaway is a snapshot of one giveaway. Snapshots returned by the store
// are copies; mutating them does not affect stored state.
type Giveaway struct {
	MessageID    string
	ChannelID    string
	GuildID      string
	Prize        string
	WinnerCount  int
	Description  string
	ImageURL     string
	CreatedBy    string
	CreatedAt    time.Time
	EndTime      time.Time
	Status       Status
	Participants []string
}

// CreateSpec carries the parameters for a new giveaway.
type CreateSpec struct {
	MessageID       string
	ChannelID       string
	GuildID         string
	Prize           string
	WinnerCount     int
	DurationMinutes int
	Description     string
	ImageURL        string
	CreatedBy       string
}

// Limits bounds creation parameters.
type Limits struct {
	MaxWinners         int
	MaxDurationMinutes int
}

// GiveawayStore is the storage contract consumed by the interaction managers
// and the sweeper.
type GiveawayStore interface {
	Create(spec CreateSpec) (*Giveaway, error)
	Get(messageID string) (*Giveaway, error)
	// Remove deletes an active giveaway. Returns false when it was already
	// absent; callers report, never fail.
	Remove(messageID string) bool
	ListActive() []*Giveaway
	ActiveCount() int
	// ForceEnd collapses the end time to now; the sweeper finalizes on its
	// next tick.
	ForceEnd(messageID string) error
	// ToggleParticipant adds the user when absent and removes them when
	// present, returning the resulting membership and count.
	ToggleParticipant(messageID, userID string) (joined bool, count int, err error)
	// ClaimExpired atomically moves every active giveaway whose end time has
	// passed into ended retention and returns their snapshots. A giveaway is
	// returned by exactly one claim, ever.
	ClaimExpired(now time.Time) []*Giveaway
	// GetEnded returns the retained record of a finalized giveaway, for
	// reroll recovery.
	GetEnded(messageID string) (*Giveaway, error)
	// Clear drops all state. Test lifecycle hook.
	Clear()
}

type record struct {
	giveaway Giveaway
}

type endedRecord struct {
	giveaway  Giveaway
	expiresAt time.Time
}

// InMemoryStore is the GiveawayStore implementation. Ended records are
// retained for reroll recovery and pruned by a janitor goroutine.
type InMemoryStore struct {
	mu        sync.RWMutex
	active    map[string]*record
	ended     map[string]endedRecord
	limits    Limits
	retention time.Duration
}

const defaultJanitorInterval = time.Minute

// NewInMemoryStore creates a store. The janitor stops when ctx is cancelled.
func NewInMemoryStore(ctx context.Context, limits Limits, retention time.Duration) *InMemoryStore {
	s := &InMemoryStore{
		active:    make(map[string]*record),
		ended:     make(map[string]endedRecord),
		limits:    limits,
		retention: retention,
	}
	go s.startJanitor(ctx, defaultJanitorInterval)
	return s
}

// ValidateSpec checks creation parameters against limits. Exposed so the
// create interaction can reject before posting the announcement.
func ValidateSpec(winnerCount, durationMinutes int, limits Limits) error {
	if winnerCount < 1 || winnerCount > limits.MaxWinners {
		return fmt.Errorf("%w: winner count %d out of range [1,%d]", ErrValidation, winnerCount, limits.MaxWinners)
	}
	if durationMinutes < 1 || durationMinutes > limits.MaxDurationMinutes {
		return fmt.Errorf("%w: duration %d minutes out of range [1,%d]", ErrValidation, durationMinutes, limits.MaxDurationMinutes)
	}
	return nil
}

func (s *InMemoryStore) Create(spec CreateSpec) (*Giveaway, error) {
	if err := ValidateSpec(spec.WinnerCount, spec.DurationMinutes, s.limits); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.active[spec.MessageID]; exists {
		return nil, fmt.Errorf("%w: %s", ErrAlreadyTracked, spec.MessageID)
	}

	now := time.Now()
	rec := &record{
		giveaway: Giveaway{
			MessageID:    spec.MessageID,
			ChannelID:    spec.ChannelID,
			GuildID:      spec.GuildID,
			Prize:        spec.Prize,
			WinnerCount:  spec.WinnerCount,
			Description:  spec.Description,
			ImageURL:     spec.ImageURL,
			CreatedBy:    spec.CreatedBy,
			CreatedAt:    now,
			EndTime:      now.Add(time.Duration(spec.DurationMinutes) * time.Minute),
			Status:       StatusActive,
			Participants: make([]string, 0),
		},
	}
	s.active[spec.MessageID] = rec

	snapshot := snapshotOf(&rec.giveaway)
	return &snapshot, nil
}

func (s *InMemoryStore) Get(messageID string) (*Giveaway, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.active[messageID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, messageID)
	}
	snapshot := snapshotOf(&rec.giveaway)
	return &snapshot, nil
}

func (s *InMemoryStore) Remove(messageID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.active[messageID]
	delete(s.active, messageID)
	return ok
}

func (s *InMemoryStore) ListActive() []*Giveaway {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Giveaway, 0, len(s.active))
	for _, rec := range s.active {
		snapshot := snapshotOf(&rec.giveaway)
		out = append(out, &snapshot)
	}
	return out
}

func (s *InMemoryStore) ActiveCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.active)
}

func (s *InMemoryStore) ForceEnd(messageID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.active[messageID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, messageID)
	}
	rec.giveaway.EndTime = time.Now()
	return nil
}

func (s *InMemoryStore) ToggleParticipant(messageID, userID string) (bool, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.active[messageID]
	if !ok {
		return false, 0, fmt.Errorf("%w: %s", ErrNotFound, messageID)
	}

	participants := rec.giveaway.Participants
	for i, id := range participants {
		if id == userID {
			rec.giveaway.Participants = append(participants[:i], participants[i+1:]...)
			return false, len(rec.giveaway.Participants), nil
		}
	}
	rec.giveaway.Participants = append(participants, userID)
	return true, len(rec.giveaway.Participants), nil
}

func (s *InMemoryStore) ClaimExpired(now time.Time) []*Giveaway {
	s.mu.Lock()
	defer s.mu.Unlock()

	var claimed []*Giveaway
	for id, rec := range s.active {
		if rec.giveaway.EndTime.After(now) {
			continue
		}
		delete(s.active, id)

		retained := snapshotOf(&rec.giveaway)
		retained.Status = StatusEnded
		s.ended[id] = endedRecord{
			giveaway:  retained,
			expiresAt: now.Add(s.retention),
		}

		snapshot := snapshotOf(&rec.giveaway)
		snapshot.Status = StatusFinalizing
		claimed = append(claimed, &snapshot)
	}
	return claimed
}

func (s *InMemoryStore) GetEnded(messageID string) (*Giveaway, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.ended[messageID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, messageID)
	}
	snapshot := snapshotOf(&rec.giveaway)
	return &snapshot, nil
}

func (s *InMemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = make(map[string]*record)
	s.ended = make(map[string]endedRecord)
}

func (s *InMemoryStore) startJanitor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			s.pruneEnded(now)
		}
	}
}

func (s *InMemoryStore) pruneEnded(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, rec := range s.ended {
		if now.After(rec.expiresAt) {
			delete(s.ended, id)
		}
	}
}

func snapshotOf(g *Giveaway) Giveaway {
	out := *g
	out.Participants = make([]string, len(g.Participants))
	copy(out.Participants, g.Participants)
	return out
}
