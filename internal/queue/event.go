// Package queue defines message payloads exchanged over the message broker.
package queue

import (
	"time"

	"github.com/iliyamo/program-selection/internal/model"
)

// ProgramSelectedEvent is published after a selection is stored.  It carries
// the whole selection so consumers never need to query the store.
type ProgramSelectedEvent struct {
	SelectionID string  `json:"selection_id"`
	ProgramID   string  `json:"program_id"`
	ProgramName string  `json:"program_name"`
	UserSession *string `json:"user_session"`
	SelectedAt  string  `json:"selected_at"` // RFC 3339, UTC
}

// NewProgramSelectedEvent builds the event for a stored selection.
func NewProgramSelectedEvent(s model.Selection) ProgramSelectedEvent {
	return ProgramSelectedEvent{
		SelectionID: s.ID,
		ProgramID:   s.ProgramID,
		ProgramName: s.ProgramName,
		UserSession: s.UserSession,
		SelectedAt:  s.SelectedAt.UTC().Format(time.RFC3339Nano),
	}
}
