// README: Fare quote endpoint.
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"ridefare/internal/modules/pricing"
	"ridefare/internal/types"
)

type FareHandler struct {
	pricing *pricing.Service
}

func NewFareHandler(svc *pricing.Service) *FareHandler {
	return &FareHandler{pricing: svc}
}

type estimateFareReq struct {
	PickupLat   float64 `json:"pickup_lat"`
	PickupLng   float64 `json:"pickup_lng"`
	DropoffLat  float64 `json:"dropoff_lat"`
	DropoffLng  float64 `json:"dropoff_lng"`
	DistanceKm  float64 `json:"distance_km"`
	DurationMin float64 `json:"duration_min"`
	Timestamp   string  `json:"timestamp"` // RFC3339, defaults to now
}

// Estimate is read-only and idempotent; clients may re-quote freely. Promo
// codes are not accepted here: redemption consumes a slot and belongs to
// charge time.
func (h *FareHandler) Estimate(c *gin.Context) {
	var req estimateFareReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}

	var at time.Time
	if req.Timestamp != "" {
		parsed, err := time.Parse(time.RFC3339, req.Timestamp)
		if err != nil {
			writeError(c, http.StatusBadRequest, "timestamp must be RFC3339")
			return
		}
		at = parsed
	}

	res, err := h.pricing.Estimate(c.Request.Context(), pricing.EstimateRequest{
		Origin:      types.Point{Lat: req.PickupLat, Lng: req.PickupLng},
		Destination: types.Point{Lat: req.DropoffLat, Lng: req.DropoffLng},
		DistanceKm:  req.DistanceKm,
		DurationMin: req.DurationMin,
		Timestamp:   at,
	})
	if err != nil {
		writePricingError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
