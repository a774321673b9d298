package http

import (
	"time"

	"github.com/sou2aq/platform/internal/platform/domain"
)

// JSON views. Password hashes and verification codes never leave the server.

type userView struct {
	ID              string     `json:"id"`
	FullName        string     `json:"fullName"`
	UserName        string     `json:"userName"`
	Email           string     `json:"email"`
	Role            string     `json:"role"`
	DoB             string     `json:"dob"`
	Phone           string     `json:"phone,omitempty"`
	ProfileImage    string     `json:"profileImage,omitempty"`
	IsActive        string     `json:"isActive"`
	EmailVerifiedAt *time.Time `json:"emailVerifiedAt,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
	ModifiedAt      time.Time  `json:"modifiedAt"`
}

func toUserView(u domain.User) userView {
	return userView{
		ID:              u.ID,
		FullName:        u.FullName,
		UserName:        u.UserName,
		Email:           u.Email,
		Role:            u.Role,
		DoB:             u.DoB,
		Phone:           u.Phone,
		ProfileImage:    u.ProfileImage,
		IsActive:        u.IsActive,
		EmailVerifiedAt: u.EmailVerifiedAt,
		CreatedAt:       u.CreatedAt,
		ModifiedAt:      u.ModifiedAt,
	}
}

func toUserViews(users []domain.User) []userView {
	views := make([]userView, 0, len(users))
	for _, u := range users {
		views = append(views, toUserView(u))
	}
	return views
}

type tokenView struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    int64  `json:"expiresIn"`
	TokenType    string `json:"tokenType"`
}

func toTokenView(p domain.TokenPair) tokenView {
	return tokenView{
		AccessToken:  p.AccessToken,
		RefreshToken: p.RefreshToken,
		ExpiresIn:    p.ExpiresIn,
		TokenType:    p.TokenType,
	}
}

type siteView struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"ownerId"`
	Name        string    `json:"name"`
	Subdomain   string    `json:"subdomain"`
	Description string    `json:"description,omitempty"`
	LogoImage   string    `json:"logoImage,omitempty"`
	IsActive    string    `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
	ModifiedAt  time.Time `json:"modifiedAt"`
}

func toSiteView(s domain.Site) siteView {
	return siteView{
		ID:          s.ID,
		OwnerID:     s.OwnerID,
		Name:        s.Name,
		Subdomain:   s.Subdomain,
		Description: s.Description,
		LogoImage:   s.LogoImage,
		IsActive:    s.IsActive,
		CreatedAt:   s.CreatedAt,
		ModifiedAt:  s.ModifiedAt,
	}
}

func toSiteViews(sites []domain.Site) []siteView {
	views := make([]siteView, 0, len(sites))
	for _, s := range sites {
		views = append(views, toSiteView(s))
	}
	return views
}

type articleView struct {
	ID         string    `json:"id"`
	SiteID     string    `json:"siteId"`
	Title      string    `json:"title"`
	Content    string    `json:"content,omitempty"`
	Tags       string    `json:"tags,omitempty"`
	Author     string    `json:"author,omitempty"`
	Image      string    `json:"image,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	ModifiedAt time.Time `json:"modifiedAt"`
}

func toArticleView(a domain.Article) articleView {
	return articleView{
		ID:         a.ID,
		SiteID:     a.SiteID,
		Title:      a.Title,
		Content:    a.Content,
		Tags:       a.Tags,
		Author:     a.Author,
		Image:      a.Image,
		CreatedAt:  a.CreatedAt,
		ModifiedAt: a.ModifiedAt,
	}
}

func toArticleViews(articles []domain.Article) []articleView {
	views := make([]articleView, 0, len(articles))
	for _, a := range articles {
		views = append(views, toArticleView(a))
	}
	return views
}

type mapView struct {
	ID         string    `json:"id"`
	SiteID     string    `json:"siteId"`
	Title      string    `json:"title"`
	Address    string    `json:"address,omitempty"`
	Latitude   float64   `json:"latitude"`
	Longitude  float64   `json:"longitude"`
	CreatedAt  time.Time `json:"createdAt"`
	ModifiedAt time.Time `json:"modifiedAt"`
}

func toMapView(m domain.Map) mapView {
	return mapView{
		ID:         m.ID,
		SiteID:     m.SiteID,
		Title:      m.Title,
		Address:    m.Address,
		Latitude:   m.Latitude,
		Longitude:  m.Longitude,
		CreatedAt:  m.CreatedAt,
		ModifiedAt: m.ModifiedAt,
	}
}

func toMapViews(maps []domain.Map) []mapView {
	views := make([]mapView, 0, len(maps))
	for _, m := range maps {
		views = append(views, toMapView(m))
	}
	return views
}
