package domain

import "time"

// Site is a tenant: a subdomain owned by exactly one user. All sub-resources
// (articles, maps) hang off a site and inherit its ownership for
// authorization purposes.
type Site struct {
	ID          string
	OwnerID     string
	Name        string
	Subdomain   string // unique
	Description string
	LogoImage   string
	IsActive    string // "yes" | "no"; toggled by superAdmin only
	CreatedAt   time.Time
	ModifiedAt  time.Time
}
