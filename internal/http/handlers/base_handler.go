// README: Base handler utilities (JSON helpers, error mapping).
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"ridefare/internal/geo"
	"ridefare/internal/modules/pricing"
	"ridefare/internal/modules/promo"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(c *gin.Context, status int, msg string) {
	c.JSON(status, errorResponse{Error: msg})
}

// writePricingError maps engine errors to HTTP statuses. Configuration errors
// (missing base rule, bad geometry) are server-side failures that need admin
// correction; input errors are the caller's to fix.
func writePricingError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, pricing.ErrInvalidInput):
		writeError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, pricing.ErrNoBaseRule),
		errors.Is(err, pricing.ErrMultipleBaseRules),
		errors.Is(err, pricing.ErrInvalidRule),
		errors.Is(err, geo.ErrInvalidGeometry):
		writeError(c, http.StatusInternalServerError, err.Error())
	default:
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}

// writePromoError maps redemption outcomes. Every promo error is a recoverable
// business result: the trip proceeds at full fare and the client shows the
// reason.
func writePromoError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, promo.ErrPromoNotFound):
		writeError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, promo.ErrPromoExpired),
		errors.Is(err, promo.ErrPromoNotYetValid),
		errors.Is(err, promo.ErrPromoBelowMinimum),
		errors.Is(err, promo.ErrPromoUsageExceeded),
		errors.Is(err, promo.ErrPromoUserLimitExceeded):
		writeError(c, http.StatusUnprocessableEntity, err.Error())
	default:
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}
