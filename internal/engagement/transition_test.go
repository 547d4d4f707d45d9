package engagement

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kevinbibang94/baol-digital-show-clean/internal/domain"
)

func TestTransition_Table(t *testing.T) {
	tests := []struct {
		current domain.Vote
		action  Action
		next    domain.Vote
		delta   Delta
	}{
		{domain.VoteNone, ActionLike, domain.VoteLike, Delta{Likes: 1}},
		{domain.VoteNone, ActionDislike, domain.VoteDislike, Delta{Dislikes: 1}},
		{domain.VoteLike, ActionLike, domain.VoteNone, Delta{Likes: -1}},
		{domain.VoteLike, ActionDislike, domain.VoteDislike, Delta{Likes: -1, Dislikes: 1}},
		{domain.VoteDislike, ActionDislike, domain.VoteNone, Delta{Dislikes: -1}},
		{domain.VoteDislike, ActionLike, domain.VoteLike, Delta{Likes: 1, Dislikes: -1}},
	}

	for _, tt := range tests {
		t.Run(string(tt.current)+"_"+tt.action.String(), func(t *testing.T) {
			next, delta := Transition(tt.current, tt.action)
			assert.Equal(t, tt.next, next)
			assert.Equal(t, tt.delta, delta)
		})
	}
}

func TestTransition_TogglesBack(t *testing.T) {
	for _, action := range []Action{ActionLike, ActionDislike} {
		first, _ := Transition(domain.VoteNone, action)
		second, _ := Transition(first, action)
		assert.Equal(t, domain.VoteNone, second, action.String())
	}
}

func TestTransition_NeverIncrementsBoth(t *testing.T) {
	for _, current := range []domain.Vote{domain.VoteNone, domain.VoteLike, domain.VoteDislike} {
		for _, action := range []Action{ActionLike, ActionDislike} {
			_, d := Transition(current, action)
			assert.False(t, d.Likes > 0 && d.Dislikes > 0, "%s/%s", current, action)
		}
	}
}

// Net delta over any sequence equals the counters implied by the final vote.
func TestTransition_FoldMatchesFinalVote(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))

	for range 200 {
		vote := domain.VoteNone
		var likes, dislikes int64
		for range rng.IntN(30) {
			action := ActionLike
			if rng.IntN(2) == 1 {
				action = ActionDislike
			}
			var d Delta
			vote, d = Transition(vote, action)
			likes += d.Likes
			dislikes += d.Dislikes
		}

		switch vote {
		case domain.VoteNone:
			assert.Equal(t, [2]int64{0, 0}, [2]int64{likes, dislikes})
		case domain.VoteLike:
			assert.Equal(t, [2]int64{1, 0}, [2]int64{likes, dislikes})
		case domain.VoteDislike:
			assert.Equal(t, [2]int64{0, 1}, [2]int64{likes, dislikes})
		}
	}
}

func TestCounters_ApplyClampsAtZero(t *testing.T) {
	c := Counters{Views: 7}
	got := c.Apply(Delta{Likes: -1, Dislikes: -1})
	assert.Equal(t, Counters{Views: 7}, got)

	got = Counters{Likes: 1, Dislikes: 0}.Apply(Delta{Likes: -1, Dislikes: 1})
	assert.Equal(t, Counters{Likes: 0, Dislikes: 1}, got)
}

func TestAction_String(t *testing.T) {
	assert.Equal(t, "like", ActionLike.String())
	assert.Equal(t, "dislike", ActionDislike.String())
	assert.Equal(t, "unknown", Action(0).String())
}
