package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/everton-web/BPay/internal/billing"
	"github.com/everton-web/BPay/internal/handlers"
)

// RegisterAPIRoutes wires every handler under /api.
func RegisterAPIRoutes(r *gin.Engine, db *gorm.DB, rdb *redis.Client, svc *billing.Service) {
	campusHandler := handlers.NewCampusHandler(db)
	studentHandler := handlers.NewStudentHandler(db)
	guardianHandler := handlers.NewGuardianHandler(db)
	chargeHandler := handlers.NewChargeHandler(db, svc)
	dashboardHandler := handlers.NewDashboardHandler(db, rdb)
	recurrenceHandler := handlers.NewRecurrenceHandler(svc)
	settingsHandler := handlers.NewSettingsHandler(db)

	api := r.Group("/api")
	{
		campuses := api.Group("/campuses")
		{
			campuses.GET("", campusHandler.List)
			campuses.POST("", campusHandler.Create)
		}

		students := api.Group("/students")
		{
			students.GET("", studentHandler.List)
			students.POST("", studentHandler.Create)
			students.PATCH("/:id", studentHandler.Update)
			students.POST("/bulk-delete", studentHandler.BulkDelete)
			students.GET("/:id/guardians", studentHandler.GuardiansOf)
		}

		guardians := api.Group("/guardians")
		{
			guardians.GET("", guardianHandler.List)
			guardians.POST("", guardianHandler.Create)
			guardians.GET("/:id", guardianHandler.Get)
			guardians.PATCH("/:id", guardianHandler.Update)
			guardians.DELETE("/:id", guardianHandler.Delete)
			guardians.GET("/:id/students", guardianHandler.StudentsOf)
		}

		api.POST("/student-guardians", guardianHandler.Associate)
		api.DELETE("/student-guardians/:id", guardianHandler.Dissociate)

		charges := api.Group("/charges")
		{
			charges.GET("", chargeHandler.List)
			charges.POST("", chargeHandler.Create)
			charges.GET("/export", chargeHandler.Export)
			charges.POST("/generate-recurring", recurrenceHandler.Generate)
			charges.GET("/:id", chargeHandler.Get)
			charges.PATCH("/:id/status", chargeHandler.UpdateStatus)
		}

		api.POST("/webhook/payment", chargeHandler.PaymentWebhook)
		api.GET("/generation-logs", recurrenceHandler.Logs)

		dashboard := api.Group("/dashboard")
		{
			dashboard.GET("/metrics", dashboardHandler.Metrics)
			dashboard.GET("/monthly-receipts", dashboardHandler.MonthlyReceipts)
		}

		settings := api.Group("/settings")
		{
			settings.GET("", settingsHandler.Get)
			settings.POST("", settingsHandler.Update)
		}
	}
}
