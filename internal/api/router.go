package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"apnagate-backend/config"
	"apnagate-backend/internal/auth"
	"apnagate-backend/internal/mw"
	"apnagate-backend/internal/realtime"
	"apnagate-backend/internal/store"
)

// NewRouter creates and configures a new Gin router.
func NewRouter(s store.Store, tokens *auth.Tokens, dispatcher Dispatcher, hub *realtime.Hub, cfg *config.Config) *gin.Engine {
	r := gin.Default()

	handler := NewHandler(s, tokens, dispatcher, cfg.Upload.Dir,
		time.Duration(cfg.Server.VehicleCacheTTL)*time.Second)

	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "ApnaGate API is running!")
	})

	// Uploaded profile pictures are served statically by filename.
	r.Static("/uploads/profile_pics", cfg.Upload.Dir)

	// Realtime channel for connected resident and guard clients.
	r.GET("/ws", func(c *gin.Context) {
		realtime.ServeWS(hub, c.Writer, c.Request)
	})

	// Guard-facing routes are unauthenticated by design (guards are not
	// resident accounts) but rate limited per IP against PIN guessing.
	gate := r.Group("/api/gate")
	gate.Use(mw.RateLimiter(rate.Limit(cfg.Server.GateRateLimit), cfg.Server.GateRateBurst))
	{
		gate.POST("/check-vehicle", handler.CheckVehicle)
		gate.POST("/generate-pin", handler.GeneratePin)
		gate.POST("/verify-pin", handler.VerifyPin)
	}

	resident := r.Group("/api/resident")
	{
		resident.POST("/register", handler.Register)
		resident.POST("/login", handler.Login)

		protected := resident.Group("")
		protected.Use(mw.TokenRequired(tokens))
		{
			protected.GET("/notifications", handler.GetNotifications)
			protected.POST("/notifications/mark-as-read", handler.MarkNotificationsRead)
			protected.GET("/history", handler.GetHistory)
			protected.POST("/change-password", handler.ChangePassword)
			protected.GET("/vehicles", handler.GetVehicles)
			protected.POST("/vehicles/add", handler.AddVehicle)
			protected.POST("/vehicles/delete", handler.DeleteVehicle)
			protected.GET("/me", handler.GetProfile)
			protected.POST("/picture", handler.UploadPicture)
			protected.DELETE("/picture", handler.DeletePicture)
			protected.POST("/update-fcm-token", handler.UpdateFCMToken)
			protected.PUT("/push-subscription", handler.PutPushSubscription)
			protected.DELETE("/push-subscription", handler.DeletePushSubscription)
		}
	}

	return r
}
