// README: Read-only listings of pricing master data.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ridefare/internal/modules/pricing"
	"ridefare/internal/modules/zone"
)

// AdminHandler exposes the active master data the engine prices with. Writes
// stay with the admin CRUD layer; these reads exist so operators can see what
// a quote was computed from.
type AdminHandler struct {
	rules pricing.RuleSource
	zones pricing.ZoneSource
}

func NewAdminHandler(rules pricing.RuleSource, zones pricing.ZoneSource) *AdminHandler {
	return &AdminHandler{rules: rules, zones: zones}
}

func (h *AdminHandler) ListRules(c *gin.Context) {
	rules, err := h.rules.ListActive(c.Request.Context())
	if err != nil {
		writeError(c, http.StatusInternalServerError, "internal error")
		return
	}
	if rules == nil {
		rules = []pricing.Rule{}
	}
	c.JSON(http.StatusOK, gin.H{"rules": rules})
}

func (h *AdminHandler) ListZones(c *gin.Context) {
	zones, err := h.zones.ListActive(c.Request.Context())
	if err != nil {
		writeError(c, http.StatusInternalServerError, "internal error")
		return
	}
	if zones == nil {
		zones = []zone.Zone{}
	}
	c.JSON(http.StatusOK, gin.H{"zones": zones})
}
