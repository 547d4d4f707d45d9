package engagement

import "github.com/kevinbibang94/baol-digital-show-clean/internal/domain"

type Action int

const (
	ActionLike Action = iota + 1
	ActionDislike
)

func (a Action) String() string {
	switch a {
	case ActionLike:
		return "like"
	case ActionDislike:
		return "dislike"
	default:
		return "unknown"
	}
}

// Delta is the change a transition applies to the shared reaction counters.
type Delta struct {
	Likes    int64
	Dislikes int64
}

// Transition returns the next vote and counter delta for action taken from
// current. Repeating the active vote toggles it off; choosing the other one
// moves the vote across in a single step.
func Transition(current domain.Vote, action Action) (domain.Vote, Delta) {
	switch action {
	case ActionLike:
		switch current {
		case domain.VoteLike:
			return domain.VoteNone, Delta{Likes: -1}
		case domain.VoteDislike:
			return domain.VoteLike, Delta{Likes: 1, Dislikes: -1}
		default:
			return domain.VoteLike, Delta{Likes: 1}
		}
	case ActionDislike:
		switch current {
		case domain.VoteDislike:
			return domain.VoteNone, Delta{Dislikes: -1}
		case domain.VoteLike:
			return domain.VoteDislike, Delta{Likes: -1, Dislikes: 1}
		default:
			return domain.VoteDislike, Delta{Dislikes: 1}
		}
	}
	return current, Delta{}
}

// Counters are the display values last known for the shared record.
type Counters struct {
	Views    int64 `json:"views"`
	Likes    int64 `json:"likes"`
	Dislikes int64 `json:"dislikes"`
}

// Apply adds d to the reaction counters, never going below zero.
func (c Counters) Apply(d Delta) Counters {
	c.Likes = max(0, c.Likes+d.Likes)
	c.Dislikes = max(0, c.Dislikes+d.Dislikes)
	return c
}

func countersOf(rec domain.EngagementRecord) Counters {
	return Counters{Views: rec.Views, Likes: rec.Likes, Dislikes: rec.Dislikes}
}
