package models

import "time"

// Session is the caller identity extracted from the bearer token and passed
// explicitly into every store call.
type Session struct {
	BuildingID string
	UserID     string
	ExpiresAt  time.Time
}

func (s Session) Valid() bool {
	return s.BuildingID != "" && s.UserID != ""
}
