// README: Promo redemption endpoint.
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"ridefare/internal/modules/promo"
	"ridefare/internal/types"
)

type PromoHandler struct {
	promo *promo.Service
}

func NewPromoHandler(svc *promo.Service) *PromoHandler {
	return &PromoHandler{promo: svc}
}

type applyPromoReq struct {
	Code     string `json:"code"`
	UserID   string `json:"user_id"`
	TripID   string `json:"trip_id"`
	Subtotal string `json:"subtotal"`
}

// Apply consumes one usage slot; call it at most once per trip, at charge
// time. A rejected promo leaves the trip payable at full fare.
func (h *PromoHandler) Apply(c *gin.Context) {
	var req applyPromoReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Code == "" || req.UserID == "" || req.TripID == "" {
		writeError(c, http.StatusBadRequest, "missing fields")
		return
	}
	subtotal, err := decimal.NewFromString(req.Subtotal)
	if err != nil || subtotal.IsNegative() {
		writeError(c, http.StatusBadRequest, "subtotal must be a non-negative decimal")
		return
	}

	u, err := h.promo.Reserve(c.Request.Context(),
		req.Code, types.ID(req.UserID), types.ID(req.TripID), subtotal, time.Now())
	if err != nil {
		writePromoError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"usage": u,
		"total": subtotal.Sub(u.DiscountApplied),
	})
}
