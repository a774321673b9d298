package domain

import "time"

// Map is a location pin attached to a site; its owner is the site's owner.
type Map struct {
	ID         string
	SiteID     string
	Title      string
	Address    string
	Latitude   float64
	Longitude  float64
	CreatedAt  time.Time
	ModifiedAt time.Time
}
