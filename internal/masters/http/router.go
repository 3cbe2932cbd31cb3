package http

import "github.com/gin-gonic/gin"

// Register attaches master-data routes to the given router group.
func (h *Handler) Register(rg *gin.RouterGroup) {
	orgs := rg.Group("/organisations")
	orgs.GET("", h.listOrganisations)
	orgs.POST("", h.createOrganisation)
	orgs.GET("/:id", h.getOrganisation)
	orgs.DELETE("/:id", h.deleteOrganisation)

	items := rg.Group("/items")
	items.GET("", h.listItems)
	items.POST("", h.createItem)
	items.GET("/:id", h.getItem)
	items.DELETE("/:id", h.deleteItem)

	locs := rg.Group("/locations")
	locs.GET("", h.listLocations)
	locs.POST("", h.createLocation)
	locs.GET("/:id", h.getLocation)
	locs.DELETE("/:id", h.deleteLocation)
}
