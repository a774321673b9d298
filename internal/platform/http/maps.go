package http

import (
	"net/http"

	"github.com/sou2aq/platform/internal/platform/service"
	"github.com/sou2aq/platform/pkg/httpx"
	"github.com/sou2aq/platform/pkg/slogx"
)

// MapHandler serves the map-pin routes. Reads are public per site; writes go
// through the map -> site -> owner chain at the route layer.
type MapHandler struct {
	MapService *service.MapService
}

func (h *MapHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req struct {
		SiteID    string  `json:"siteId"`
		Title     string  `json:"title"`
		Address   string  `json:"address"`
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Title == "" {
		httpx.WriteError(w, http.StatusBadRequest, httpx.TypeValidation, "Title is required")
		return
	}

	pin, err := h.MapService.CreateMap(ctx, req.SiteID, service.MapInput{
		Title:     req.Title,
		Address:   req.Address,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
	})
	if err != nil {
		apiErr := mapServiceError(err)
		if apiErr.Status == http.StatusInternalServerError {
			slogx.FromContext(ctx).Error("create map failed", "err", err)
		}
		apiErr.WriteError(w)
		return
	}

	httpx.WriteSuccess(w, http.StatusCreated, "Map created", toMapView(pin))
}

func (h *MapHandler) Get(w http.ResponseWriter, r *http.Request) {
	pin, err := h.MapService.GetMapByID(r.Context(), r.PathValue("id"))
	if err != nil {
		mapServiceError(err).WriteError(w)
		return
	}
	httpx.WriteSuccess(w, http.StatusOK, "", toMapView(pin))
}

func (h *MapHandler) ListBySite(w http.ResponseWriter, r *http.Request) {
	pins, err := h.MapService.ListMapsBySite(r.Context(), r.PathValue("id"))
	if err != nil {
		mapServiceError(err).WriteError(w)
		return
	}
	httpx.WriteSuccess(w, http.StatusOK, "", toMapViews(pins))
}

func (h *MapHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req struct {
		Title     string  `json:"title"`
		Address   string  `json:"address"`
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	pin, err := h.MapService.UpdateMap(ctx, r.PathValue("id"), service.MapInput{
		Title:     req.Title,
		Address:   req.Address,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
	})
	if err != nil {
		apiErr := mapServiceError(err)
		if apiErr.Status == http.StatusInternalServerError {
			slogx.FromContext(ctx).Error("update map failed", "err", err)
		}
		apiErr.WriteError(w)
		return
	}

	httpx.WriteSuccess(w, http.StatusOK, "Map updated", toMapView(pin))
}

func (h *MapHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.MapService.DeleteMap(r.Context(), r.PathValue("id")); err != nil {
		mapServiceError(err).WriteError(w)
		return
	}
	httpx.WriteSuccess(w, http.StatusOK, "Map deleted", nil)
}
