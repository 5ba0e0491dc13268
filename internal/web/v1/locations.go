package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/duynhne/fishfile-service/internal/core/domain"
)

// CreateLocation adds a location for :username.
// POST /users/:username/locations
func (h *Handler) CreateLocation(c *gin.Context) {
	ctx, span, log := startSpan(c, "http.locations.create")
	defer span.End()

	var req domain.NewLocation
	if !bindJSON(c, span, &req) {
		return
	}

	location, err := h.locations.Create(ctx, c.Param("username"), req)
	if err != nil {
		respondError(c, span, log, "Create location failed", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"location": location})
}

// ListLocations returns the owner's locations with their record ids.
// GET /users/:username/locations
func (h *Handler) ListLocations(c *gin.Context) {
	ctx, span, log := startSpan(c, "http.locations.list")
	defer span.End()

	locations, err := h.locations.FindAllForOwner(ctx, c.Param("username"))
	if err != nil {
		respondError(c, span, log, "List locations failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"locations": locations})
}

// GetLocation returns one of the owner's locations.
// GET /users/:username/locations/:id
func (h *Handler) GetLocation(c *gin.Context) {
	ctx, span, log := startSpan(c, "http.locations.get")
	defer span.End()

	id, ok := pathID(c)
	if !ok {
		return
	}
	location, err := h.locations.Get(ctx, c.Param("username"), id)
	if err != nil {
		respondError(c, span, log, "Get location failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"location": location})
}

// UpdateLocation applies a partial update to one of the owner's locations.
// PATCH /users/:username/locations/:id
func (h *Handler) UpdateLocation(c *gin.Context) {
	ctx, span, log := startSpan(c, "http.locations.update")
	defer span.End()

	id, ok := pathID(c)
	if !ok {
		return
	}
	var req domain.LocationUpdate
	if !bindJSON(c, span, &req) {
		return
	}

	location, err := h.locations.Update(ctx, c.Param("username"), id, req)
	if err != nil {
		respondError(c, span, log, "Update location failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"location": location})
}

// RemoveLocation deletes a location and its records.
// DELETE /users/:username/locations/:id
func (h *Handler) RemoveLocation(c *gin.Context) {
	ctx, span, log := startSpan(c, "http.locations.remove")
	defer span.End()

	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.locations.Remove(ctx, c.Param("username"), id); err != nil {
		respondError(c, span, log, "Remove location failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": id})
}

// GetWeather reports current conditions and the week's forecast at a
// location's stored coordinates.
// GET /users/:username/locations/:id/weather
func (h *Handler) GetWeather(c *gin.Context) {
	ctx, span, log := startSpan(c, "http.locations.weather")
	defer span.End()

	id, ok := pathID(c)
	if !ok {
		return
	}
	report, err := h.weather.ForLocation(ctx, c.Param("username"), id)
	if err != nil {
		respondError(c, span, log, "Weather lookup failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"weather": report})
}
