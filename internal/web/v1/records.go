package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/duynhne/fishfile-service/internal/core/domain"
)

// CreateRecord logs a record at one of the owner's locations.
// POST /users/:username/records
func (h *Handler) CreateRecord(c *gin.Context) {
	ctx, span, log := startSpan(c, "http.records.create")
	defer span.End()

	var req domain.NewRecord
	if !bindJSON(c, span, &req) {
		return
	}

	record, err := h.records.Create(ctx, c.Param("username"), req)
	if err != nil {
		respondError(c, span, log, "Create record failed", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"record": record})
}

// ListRecords returns all of the owner's records, newest first.
// GET /users/:username/records
func (h *Handler) ListRecords(c *gin.Context) {
	ctx, span, log := startSpan(c, "http.records.list")
	defer span.End()

	records, err := h.records.FindAllForOwner(ctx, c.Param("username"))
	if err != nil {
		respondError(c, span, log, "List records failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"records": records})
}

// ListLocationRecords returns the records of one of the owner's locations.
// GET /users/:username/locations/:id/records
func (h *Handler) ListLocationRecords(c *gin.Context) {
	ctx, span, log := startSpan(c, "http.records.list_for_location")
	defer span.End()

	id, ok := pathID(c)
	if !ok {
		return
	}
	records, err := h.records.FindAllForLocation(ctx, c.Param("username"), id)
	if err != nil {
		respondError(c, span, log, "List location records failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"records": records})
}

// GetRecord returns one of the owner's records.
// GET /users/:username/records/:id
func (h *Handler) GetRecord(c *gin.Context) {
	ctx, span, log := startSpan(c, "http.records.get")
	defer span.End()

	id, ok := pathID(c)
	if !ok {
		return
	}
	record, err := h.records.Get(ctx, c.Param("username"), id)
	if err != nil {
		respondError(c, span, log, "Get record failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"record": record})
}

// UpdateRecord applies a partial update to one of the owner's records.
// PATCH /users/:username/records/:id
func (h *Handler) UpdateRecord(c *gin.Context) {
	ctx, span, log := startSpan(c, "http.records.update")
	defer span.End()

	id, ok := pathID(c)
	if !ok {
		return
	}
	var req domain.RecordUpdate
	if !bindJSON(c, span, &req) {
		return
	}

	record, err := h.records.Update(ctx, c.Param("username"), id, req)
	if err != nil {
		respondError(c, span, log, "Update record failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"record": record})
}

// RemoveRecord deletes one of the owner's records.
// DELETE /users/:username/records/:id
func (h *Handler) RemoveRecord(c *gin.Context) {
	ctx, span, log := startSpan(c, "http.records.remove")
	defer span.End()

	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.records.Remove(ctx, c.Param("username"), id); err != nil {
		respondError(c, span, log, "Remove record failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": id})
}
