package model

import "time"

// Program represents one entry of the selectable catalog.  The catalog is
// rebuilt from a fixed seed list at startup, so programs are never updated
// or deleted individually.  This struct corresponds to a row in the
// `programs` table and is also the wire format of the API.
//
// Fields:
//  ID          – UUID generated when the seed batch is built.
//  Name        – short machine-oriented label, unique within a batch.
//  Title       – display label ("Program N").
//  Description – free-text description.
//  CreatedAt   – timestamp of insertion.
type Program struct {
	ID          string    `json:"id"`          // programs.id
	Name        string    `json:"name"`        // programs.name
	Title       string    `json:"title"`       // programs.title
	Description string    `json:"description"` // programs.description
	CreatedAt   time.Time `json:"created_at"`  // programs.created_at
}
