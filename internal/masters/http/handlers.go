package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/tenderops/procurement-backend/internal/masters/domain"
	"github.com/tenderops/procurement-backend/internal/masters/repository"
)

// Handler exposes the reference masters (organisations, items, locations).
// These are plain pass-through CRUD surfaces; the interesting consumer is
// project code generation, which reads them through the same store.
type Handler struct {
	store repository.Store
}

func NewHandler(store repository.Store) *Handler {
	return &Handler{store: store}
}

type createMasterReq struct {
	Name    string `json:"name" binding:"required"`
	Acronym string `json:"acronym"`
}

func (h *Handler) listOrganisations(c *gin.Context) {
	out, err := h.store.ListOrganisations(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list organisations"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": out})
}

func (h *Handler) getOrganisation(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	o, err := h.store.GetOrganisation(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get organisation"})
		return
	}
	if o == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "organisation not found"})
		return
	}
	c.JSON(http.StatusOK, o)
}

func (h *Handler) createOrganisation(c *gin.Context) {
	var req createMasterReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	o, err := h.store.CreateOrganisation(c.Request.Context(), req.Name, req.Acronym)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create organisation"})
		return
	}
	c.JSON(http.StatusCreated, o)
}

func (h *Handler) deleteOrganisation(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	h.finishDelete(c, h.store.DeleteOrganisation(c.Request.Context(), id))
}

func (h *Handler) listItems(c *gin.Context) {
	out, err := h.store.ListItems(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list items"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": out})
}

func (h *Handler) getItem(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	it, err := h.store.GetItem(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get item"})
		return
	}
	if it == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "item not found"})
		return
	}
	c.JSON(http.StatusOK, it)
}

func (h *Handler) createItem(c *gin.Context) {
	var req createMasterReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	it, err := h.store.CreateItem(c.Request.Context(), req.Name)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create item"})
		return
	}
	c.JSON(http.StatusCreated, it)
}

func (h *Handler) deleteItem(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	h.finishDelete(c, h.store.DeleteItem(c.Request.Context(), id))
}

func (h *Handler) listLocations(c *gin.Context) {
	out, err := h.store.ListLocations(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list locations"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": out})
}

func (h *Handler) getLocation(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	l, err := h.store.GetLocation(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get location"})
		return
	}
	if l == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "location not found"})
		return
	}
	c.JSON(http.StatusOK, l)
}

func (h *Handler) createLocation(c *gin.Context) {
	var req createMasterReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	l, err := h.store.CreateLocation(c.Request.Context(), req.Name, req.Acronym)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create location"})
		return
	}
	c.JSON(http.StatusCreated, l)
}

func (h *Handler) deleteLocation(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	h.finishDelete(c, h.store.DeleteLocation(c.Request.Context(), id))
}

func (h *Handler) finishDelete(c *gin.Context, err error) {
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete"})
		return
	}
	c.Status(http.StatusNoContent)
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}
