package domain

import "time"

// BuildStats holds statistics about one static content build.
type BuildStats struct {
	Loaded    int
	New       int
	Updated   int
	Removed   int
	Unchanged int
	Published int
	Errors    int
	Duration  time.Duration
	LoadedAt  time.Time
}

// ContentChange describes a post that differs from the previous build.
type ContentChange struct {
	Action     ChangeAction
	Source     string
	Slug       string
	ModifiedAt time.Time
}

type ChangeAction string

const (
	ChangeCreate ChangeAction = "create"
	ChangeUpdate ChangeAction = "update"
	ChangeDelete ChangeAction = "delete"
)
