package domain

import "time"

// Article belongs to a site; its owner is the site's owner.
type Article struct {
	ID         string
	SiteID     string
	Title      string
	Content    string
	Tags       string
	Author     string
	Image      string
	CreatedAt  time.Time
	ModifiedAt time.Time
}
