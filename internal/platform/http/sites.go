package http

import (
	"net/http"

	"github.com/sou2aq/platform/internal/platform/service"
	"github.com/sou2aq/platform/pkg/httpx"
	"github.com/sou2aq/platform/pkg/slogx"
)

// SiteHandler serves the /v1/sites routes. Creation is limited to admin and
// superAdmin roles; mutation to the owner or superAdmin; the activation
// toggle to superAdmin only. Reads by id or subdomain are public.
type SiteHandler struct {
	SiteService *service.SiteService
}

func (h *SiteHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	principal, ok := httpx.PrincipalFromContext(ctx)
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, httpx.TypeAuthentication, "Unauthorized: token missing")
		return
	}

	var req struct {
		Name        string `json:"name"`
		Subdomain   string `json:"subdomain"`
		Description string `json:"description"`
		LogoImage   string `json:"logoImage"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Name == "" || req.Subdomain == "" {
		httpx.WriteError(w, http.StatusBadRequest, httpx.TypeValidation, "Name and subdomain are required")
		return
	}

	site, err := h.SiteService.CreateSite(ctx, principal.ID, service.SiteInput{
		Name:        req.Name,
		Subdomain:   req.Subdomain,
		Description: req.Description,
		LogoImage:   req.LogoImage,
	})
	if err != nil {
		apiErr := mapServiceError(err)
		if apiErr.Status == http.StatusInternalServerError {
			slogx.FromContext(ctx).Error("create site failed", "err", err)
		}
		apiErr.WriteError(w)
		return
	}

	httpx.WriteSuccess(w, http.StatusCreated, "Site created", toSiteView(site))
}

func (h *SiteHandler) Get(w http.ResponseWriter, r *http.Request) {
	site, err := h.SiteService.GetSiteByID(r.Context(), r.PathValue("id"))
	if err != nil {
		mapServiceError(err).WriteError(w)
		return
	}
	httpx.WriteSuccess(w, http.StatusOK, "", toSiteView(site))
}

func (h *SiteHandler) GetBySubdomain(w http.ResponseWriter, r *http.Request) {
	site, err := h.SiteService.GetSiteBySubdomain(r.Context(), r.PathValue("subdomain"))
	if err != nil {
		mapServiceError(err).WriteError(w)
		return
	}
	httpx.WriteSuccess(w, http.StatusOK, "", toSiteView(site))
}

// List returns every site for superAdmin and the caller's own otherwise.
func (h *SiteHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	principal, ok := httpx.PrincipalFromContext(ctx)
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, httpx.TypeAuthentication, "Unauthorized: token missing")
		return
	}

	var list []siteView
	if principal.IsSuperAdmin() {
		all, err := h.SiteService.ListSites(ctx)
		if err != nil {
			slogx.FromContext(ctx).Error("list sites failed", "err", err)
			httpx.WriteError(w, http.StatusInternalServerError, httpx.TypeServer, "Internal server error")
			return
		}
		list = toSiteViews(all)
	} else {
		own, err := h.SiteService.ListSitesByOwner(ctx, principal.ID)
		if err != nil {
			slogx.FromContext(ctx).Error("list sites failed", "err", err)
			httpx.WriteError(w, http.StatusInternalServerError, httpx.TypeServer, "Internal server error")
			return
		}
		list = toSiteViews(own)
	}

	httpx.WriteSuccess(w, http.StatusOK, "", list)
}

func (h *SiteHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		LogoImage   string `json:"logoImage"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	site, err := h.SiteService.UpdateSite(ctx, r.PathValue("id"), service.SiteInput{
		Name:        req.Name,
		Description: req.Description,
		LogoImage:   req.LogoImage,
	})
	if err != nil {
		apiErr := mapServiceError(err)
		if apiErr.Status == http.StatusInternalServerError {
			slogx.FromContext(ctx).Error("update site failed", "err", err)
		}
		apiErr.WriteError(w)
		return
	}

	httpx.WriteSuccess(w, http.StatusOK, "Site updated", toSiteView(site))
}

func (h *SiteHandler) SetActive(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req struct {
		IsActive bool `json:"isActive"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.SiteService.SetSiteActive(ctx, r.PathValue("id"), req.IsActive); err != nil {
		mapServiceError(err).WriteError(w)
		return
	}

	httpx.WriteSuccess(w, http.StatusOK, "Site activation updated", nil)
}

func (h *SiteHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.SiteService.DeleteSite(r.Context(), r.PathValue("id")); err != nil {
		mapServiceError(err).WriteError(w)
		return
	}
	httpx.WriteSuccess(w, http.StatusOK, "Site deleted", nil)
}
