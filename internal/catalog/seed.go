// Package catalog owns the fixed program catalog: the seed list, the batch
// built from it and the startup initializer that writes it to the store.
package catalog

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/program-selection/internal/model"
)

// SeedNames is the ordered seed list.  Position i (0-based) becomes the
// title "Program i+1".
var SeedNames = []string{
	"CSV-to-blacklist",
	"csv-to-enduser",
	"csv-to-functional",
	"csv-to-newenduser",
	"csv-to-newfunctional",
	"csv-to-silentuser",
	"csv-to-swapalias",
	"csv-to-antispoofing",
	"csv-to-globalalias",
	"csv-to-autoblockattachment",
	"csv-to-block-by-body-content",
	"csv-to-blocklist",
	"Archive tools",
	"autoblockHeader",
	"autorelay",
}

// Description is shared by every seeded program.
const Description = "This is a testing program and soon it will be a program to execute to complete a specific functionality. To be determined soon...."

// Title returns the display title for the 1-indexed seed position.
func Title(position int) string {
	return fmt.Sprintf("Program %d", position)
}

// Batch builds a fresh program for every seed name, in seed order, each with
// a new UUID and the given creation time.
func Batch(now time.Time) []model.Program {
	out := make([]model.Program, 0, len(SeedNames))
	for i, name := range SeedNames {
		out = append(out, model.Program{
			ID:          uuid.NewString(),
			Name:        name,
			Title:       Title(i + 1),
			Description: Description,
			CreatedAt:   now,
		})
	}
	return out
}

// Matches reports whether stored holds exactly the seed catalog: one program
// per seed name with the expected title and description, and nothing else.
// Order of stored is irrelevant.
func Matches(stored []model.Program) bool {
	if len(stored) != len(SeedNames) {
		return false
	}
	byName := make(map[string]model.Program, len(stored))
	for _, p := range stored {
		if p.ID == "" {
			return false
		}
		if _, dup := byName[p.Name]; dup {
			return false
		}
		byName[p.Name] = p
	}
	for i, name := range SeedNames {
		p, ok := byName[name]
		if !ok || p.Title != Title(i+1) || p.Description != Description {
			return false
		}
	}
	return true
}
