package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/everton-web/BPay/internal/billing"
)

// SetupRoutes builds the gin engine with every API route registered. The
// store, cache and billing service are passed in so tests can assemble the
// same router over their own database.
func SetupRoutes(db *gorm.DB, rdb *redis.Client, svc *billing.Service) *gin.Engine {
	r := gin.Default()
	RegisterAPIRoutes(r, db, rdb, svc)
	return r
}
