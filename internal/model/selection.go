package model

import "time"

// Selection records a client choosing a program.  ProgramName is a copy
// supplied by the caller and is not cross-checked against the program.
// ProgramID is validated at creation only; a later catalog reset can leave
// it dangling.
//
// Fields:
//  ID          – UUID generated at creation.
//  ProgramID   – id of the chosen program at creation time.
//  ProgramName – caller-supplied program name.
//  SelectedAt  – creation timestamp.
//  UserSession – optional caller session identifier (null when absent).
type Selection struct {
	ID          string    `json:"id"`           // selections.id
	ProgramID   string    `json:"program_id"`   // selections.program_id
	ProgramName string    `json:"program_name"` // selections.program_name
	SelectedAt  time.Time `json:"selected_at"`  // selections.selected_at
	UserSession *string   `json:"user_session"` // selections.user_session (nullable)
}
