package domain

import "time"

// Video is a catalog entry. The gate only ever asks two things of it: does
// it exist, and may this viewer stream it right now.
type Video struct {
	ID        string
	Title     string
	Available bool
	// Premium videos additionally require an Entitlement row for the viewer.
	Premium   bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Entitlement grants one viewer access to one premium video.
type Entitlement struct {
	UserID    string
	VideoID   string
	CreatedAt time.Time
}
