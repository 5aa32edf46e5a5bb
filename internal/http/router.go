// README: HTTP router registration.
package http

import (
	nethttp "net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"ridefare/internal/http/handlers"
	"ridefare/internal/http/middleware"
	"ridefare/internal/modules/pricing"
	"ridefare/internal/modules/promo"
)

func NewRouter(
	pricingService *pricing.Service,
	promoService *promo.Service,
	rules pricing.RuleSource,
	zones pricing.ZoneSource,
	logger *zap.Logger,
) nethttp.Handler {
	r := gin.New()
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logging(logger))

	fareHandler := handlers.NewFareHandler(pricingService)
	r.POST("/api/fare/estimate", fareHandler.Estimate)

	promoHandler := handlers.NewPromoHandler(promoService)
	r.POST("/api/promos/apply", promoHandler.Apply)

	adminHandler := handlers.NewAdminHandler(rules, zones)
	r.GET("/api/pricing/rules", adminHandler.ListRules)
	r.GET("/api/zones", adminHandler.ListZones)

	r.GET("/health", func(c *gin.Context) {
		c.String(nethttp.StatusOK, "OK")
	})

	return r
}
