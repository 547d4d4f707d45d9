package domain

import (
	"context"
	"time"
)

// ReportageID is the primary key of the single shared engagement record.
const ReportageID int64 = 1

// EngagementRecord is the shared, authoritative counter row for the reportage.
// Version grows by one with every committed write, in commit order; UpdatedAt
// is informational only.
type EngagementRecord struct {
	ID        int64     `json:"id"`
	Views     int64     `json:"views"`
	Likes     int64     `json:"likes"`
	Dislikes  int64     `json:"dislikes"`
	Version   int64     `json:"version"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Vote is the per-device reaction state.
type Vote string

const (
	VoteNone    Vote = "none"
	VoteLike    Vote = "like"
	VoteDislike Vote = "dislike"
)

func (v Vote) Valid() bool {
	return v == VoteNone || v == VoteLike || v == VoteDislike
}

// VoteState is what one device remembers about its own interaction.
type VoteState struct {
	Vote   Vote
	Viewed bool
}

// Unsubscribe stops a push subscription. Calling it more than once is safe.
type Unsubscribe func()

// CounterStore is the shared record as seen by a client. Write operations take
// absolute values and echo the stored record back.
type CounterStore interface {
	Read(ctx context.Context) (EngagementRecord, error)
	IncrementViews(ctx context.Context, currentViews int64) (EngagementRecord, error)
	UpdateReactions(ctx context.Context, likes, dislikes int64) (EngagementRecord, error)
	Subscribe(ctx context.Context, onChange func(EngagementRecord)) (Unsubscribe, error)
}

// LocalStore is device-local string key/value persistence. A missing key
// reports ok=false without an error.
type LocalStore interface {
	GetItem(key string) (value string, ok bool, err error)
	SetItem(key, value string) error
	RemoveItem(key string) error
}

// StatsRepository persists the authoritative record on the server side.
type StatsRepository interface {
	Get(ctx context.Context) (*EngagementRecord, error)
	SetViews(ctx context.Context, views int64) (*EngagementRecord, error)
	SetReactions(ctx context.Context, likes, dislikes int64) (*EngagementRecord, error)
}
