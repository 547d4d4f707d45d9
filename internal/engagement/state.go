package engagement

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/kevinbibang94/baol-digital-show-clean/internal/domain"
)

// Storage keys shared with the web client, so a device keeps its vote across
// both surfaces.
const (
	VoteKey   = "reportage_vote"
	ViewedKey = "reportage_viewed_once"
)

// LoadState reads the device's VoteState. Missing or unreadable values fall
// back to no vote and not viewed, with a warning on logger (slog.Default()
// when nil).
func LoadState(local domain.LocalStore, logger *slog.Logger) domain.VoteState {
	if logger == nil {
		logger = slog.Default()
	}
	state := domain.VoteState{Vote: domain.VoteNone}

	raw, ok, err := local.GetItem(VoteKey)
	switch {
	case err != nil:
		logger.Warn("Failed to read stored vote", "error", err)
	case ok:
		var v domain.Vote
		if err := json.Unmarshal([]byte(raw), &v); err != nil || !v.Valid() {
			logger.Warn("Ignoring corrupt stored vote", "value", raw)
		} else {
			state.Vote = v
		}
	}

	viewed, ok, err := local.GetItem(ViewedKey)
	if err != nil {
		logger.Warn("Failed to read stored viewed flag", "error", err)
	} else if ok {
		state.Viewed = viewed == "true"
	}

	return state
}

// SaveState writes the vote as a JSON string and the viewed flag as "true".
// A false viewed flag is left untouched; it is only ever cleared by ResetState.
func SaveState(local domain.LocalStore, state domain.VoteState) error {
	raw, err := json.Marshal(state.Vote)
	if err != nil {
		return fmt.Errorf("failed to encode vote: %w", err)
	}
	if err := local.SetItem(VoteKey, string(raw)); err != nil {
		return fmt.Errorf("failed to store vote: %w", err)
	}
	if state.Viewed {
		if err := local.SetItem(ViewedKey, "true"); err != nil {
			return fmt.Errorf("failed to store viewed flag: %w", err)
		}
	}
	return nil
}

// ResetState forgets this device's vote and view.
func ResetState(local domain.LocalStore) error {
	if err := local.RemoveItem(VoteKey); err != nil {
		return fmt.Errorf("failed to remove vote: %w", err)
	}
	if err := local.RemoveItem(ViewedKey); err != nil {
		return fmt.Errorf("failed to remove viewed flag: %w", err)
	}
	return nil
}
