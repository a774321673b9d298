package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sou2aq/platform/internal/platform/domain"
)

func seedSiteServices(t *testing.T) (*testServices, *SiteService, *ArticleService, *MapService, *OwnershipService) {
	t.Helper()

	ts := newTestServices(t)
	return ts,
		&SiteService{Store: ts.store},
		&ArticleService{Store: ts.store},
		&MapService{Store: ts.store},
		&OwnershipService{Store: ts.store}
}

func TestCreateSite(t *testing.T) {
	ts, sites, _, _, _ := seedSiteServices(t)
	owner := seedVerifiedUser(t, ts, "owner@example.com", "owner")
	ctx := context.Background()

	site, err := sites.CreateSite(ctx, owner.ID, SiteInput{Name: "My Blog", Subdomain: "my-blog"})
	require.NoError(t, err)
	assert.Equal(t, owner.ID, site.OwnerID)
	assert.Equal(t, domain.ActiveYes, site.IsActive)

	_, err = sites.CreateSite(ctx, owner.ID, SiteInput{Name: "Other", Subdomain: "my-blog"})
	assert.ErrorIs(t, err, ErrSubdomainTaken)

	for _, bad := range []string{"", "Has Caps", "-leading", "trailing-", "under_score"} {
		_, err = sites.CreateSite(ctx, owner.ID, SiteInput{Name: "Bad", Subdomain: bad})
		assert.ErrorIs(t, err, ErrInvalidSubdomain, "subdomain %q", bad)
	}
}

func TestListSitesByOwner(t *testing.T) {
	ts, sites, _, _, _ := seedSiteServices(t)
	a := seedVerifiedUser(t, ts, "a@example.com", "usera")
	b := seedVerifiedUser(t, ts, "b@example.com", "userb")
	ctx := context.Background()

	_, err := sites.CreateSite(ctx, a.ID, SiteInput{Name: "A1", Subdomain: "a1"})
	require.NoError(t, err)
	_, err = sites.CreateSite(ctx, a.ID, SiteInput{Name: "A2", Subdomain: "a2"})
	require.NoError(t, err)
	_, err = sites.CreateSite(ctx, b.ID, SiteInput{Name: "B1", Subdomain: "b1"})
	require.NoError(t, err)

	mine, err := sites.ListSitesByOwner(ctx, a.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	all, err := sites.ListSites(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestSetSiteActive(t *testing.T) {
	ts, sites, _, _, _ := seedSiteServices(t)
	owner := seedVerifiedUser(t, ts, "o@example.com", "ownero")
	ctx := context.Background()

	site, err := sites.CreateSite(ctx, owner.ID, SiteInput{Name: "Toggle", Subdomain: "toggle"})
	require.NoError(t, err)

	require.NoError(t, sites.SetSiteActive(ctx, site.ID, false))
	got, err := sites.GetSiteByID(ctx, site.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ActiveNo, got.IsActive)

	assert.ErrorIs(t, sites.SetSiteActive(ctx, "missing", true), ErrSiteNotFound)
}

func TestArticleLifecycle(t *testing.T) {
	ts, sites, articles, _, _ := seedSiteServices(t)
	owner := seedVerifiedUser(t, ts, "w@example.com", "writer")
	ctx := context.Background()

	site, err := sites.CreateSite(ctx, owner.ID, SiteInput{Name: "News", Subdomain: "news"})
	require.NoError(t, err)

	_, err = articles.CreateArticle(ctx, "no-such-site", ArticleInput{Title: "Lost"})
	assert.ErrorIs(t, err, ErrSiteNotFound)

	article, err := articles.CreateArticle(ctx, site.ID, ArticleInput{
		Title: "Hello", Content: "First post", Tags: "intro", Author: "writer",
	})
	require.NoError(t, err)

	updated, err := articles.UpdateArticle(ctx, article.ID, ArticleInput{Title: "Hello Again"})
	require.NoError(t, err)
	assert.Equal(t, "Hello Again", updated.Title)
	assert.Equal(t, "First post", updated.Content)

	list, err := articles.ListArticlesBySite(ctx, site.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, articles.DeleteArticle(ctx, article.ID))
	_, err = articles.GetArticleByID(ctx, article.ID)
	assert.ErrorIs(t, err, ErrArticleNotFound)
}

func TestMapLifecycle(t *testing.T) {
	ts, sites, _, maps, _ := seedSiteServices(t)
	owner := seedVerifiedUser(t, ts, "m@example.com", "mapper")
	ctx := context.Background()

	site, err := sites.CreateSite(ctx, owner.ID, SiteInput{Name: "Shops", Subdomain: "shops"})
	require.NoError(t, err)

	_, err = maps.CreateMap(ctx, site.ID, MapInput{Title: "Bad", Latitude: 91, Longitude: 0})
	assert.ErrorIs(t, err, ErrInvalidCoordinates)

	pin, err := maps.CreateMap(ctx, site.ID, MapInput{
		Title: "Cairo HQ", Address: "Downtown", Latitude: 30.0444, Longitude: 31.2357,
	})
	require.NoError(t, err)

	list, err := maps.ListMapsBySite(ctx, site.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, pin.ID, list[0].ID)

	require.NoError(t, maps.DeleteMap(ctx, pin.ID))
	assert.ErrorIs(t, maps.DeleteMap(ctx, pin.ID), ErrMapNotFound)
}

func TestOwnershipResolution(t *testing.T) {
	ts, sites, articles, maps, ownership := seedSiteServices(t)
	owner := seedVerifiedUser(t, ts, "boss@example.com", "boss")
	ctx := context.Background()

	site, err := sites.CreateSite(ctx, owner.ID, SiteInput{Name: "Owned", Subdomain: "owned"})
	require.NoError(t, err)
	article, err := articles.CreateArticle(ctx, site.ID, ArticleInput{Title: "Mine"})
	require.NoError(t, err)
	pin, err := maps.CreateMap(ctx, site.ID, MapInput{Title: "Here", Latitude: 1, Longitude: 1})
	require.NoError(t, err)

	got, err := ownership.SiteOwner(ctx, site.ID)
	require.NoError(t, err)
	assert.Equal(t, owner.ID, got)

	got, err = ownership.ArticleOwner(ctx, article.ID)
	require.NoError(t, err)
	assert.Equal(t, owner.ID, got)

	got, err = ownership.MapOwner(ctx, pin.ID)
	require.NoError(t, err)
	assert.Equal(t, owner.ID, got)

	// Missing resources resolve to their own not-found errors, never to a
	// permission decision.
	_, err = ownership.SiteOwner(ctx, "missing")
	assert.ErrorIs(t, err, ErrSiteNotFound)
	_, err = ownership.ArticleOwner(ctx, "missing")
	assert.ErrorIs(t, err, ErrArticleNotFound)
	_, err = ownership.MapOwner(ctx, "missing")
	assert.ErrorIs(t, err, ErrMapNotFound)
}

func TestDeleteSiteRemovesChildren(t *testing.T) {
	ts, sites, articles, maps, _ := seedSiteServices(t)
	owner := seedVerifiedUser(t, ts, "gone@example.com", "goner")
	ctx := context.Background()

	site, err := sites.CreateSite(ctx, owner.ID, SiteInput{Name: "Doomed", Subdomain: "doomed"})
	require.NoError(t, err)
	article, err := articles.CreateArticle(ctx, site.ID, ArticleInput{Title: "Last words"})
	require.NoError(t, err)
	pin, err := maps.CreateMap(ctx, site.ID, MapInput{Title: "X", Latitude: 0, Longitude: 0})
	require.NoError(t, err)

	require.NoError(t, sites.DeleteSite(ctx, site.ID))

	_, err = articles.GetArticleByID(ctx, article.ID)
	assert.ErrorIs(t, err, ErrArticleNotFound)
	_, err = maps.GetMapByID(ctx, pin.ID)
	assert.ErrorIs(t, err, ErrMapNotFound)
}
