package routes

import (
	tb "github.com/didip/tollbooth/v7"
	"github.com/didip/tollbooth/v7/limiter"
	toll_gin "github.com/didip/tollbooth_gin"
	"github.com/gin-gonic/gin"
	"github.com/silsin/VPN-Backend/config"
	"github.com/silsin/VPN-Backend/internal/handler/admin_handler"
	"github.com/silsin/VPN-Backend/internal/handler/handshake_handler"
	"github.com/silsin/VPN-Backend/internal/handler/mobile_handler"
	"github.com/silsin/VPN-Backend/internal/middleware"
)

func RegisterRoutes(r *gin.Engine, cfg *config.Config, hsHandler *handshake_handler.HSHandler,
	mobileHandler *mobile_handler.MobileHandler, adminHandler *admin_handler.AdminHandler,
	secureChannel middleware.SecureChannel,
) {
	// Phase 1: bootstrap handshake
	hsLimiter := tb.NewLimiter(cfg.HSLimiter.RPC, &limiter.ExpirableOptions{DefaultExpirationTTL: cfg.HSLimiter.TTL})
	hsLimiter.SetBurst(cfg.HSLimiter.Burst)

	r.POST("/handshake",
		toll_gin.LimitHandler(hsLimiter),
		middleware.BootstrapAttemptLimiter(),
		hsHandler.Bootstrap,
	)

	// Phase 2: защищённые мобильные маршруты.
	// ResponseEncryptor стоит раньше guard-а, чтобы обернуть ответ после хендлера.
	secLimiter := tb.NewLimiter(cfg.SecLimiter.RPC, &limiter.ExpirableOptions{DefaultExpirationTTL: cfg.SecLimiter.TTL})
	secLimiter.SetBurst(cfg.SecLimiter.Burst)

	mobileGroup := r.Group("/mobile")
	mobileGroup.Use(
		toll_gin.LimitHandler(secLimiter),
		middleware.ResponseEncryptor(secureChannel),
		middleware.SecureChannelGuard(secureChannel),
	)
	{
		mobileGroup.POST("/secure-echo", mobileHandler.SecureEcho)
		mobileGroup.POST("/servers/available", mobileHandler.AvailableServers)
		mobileGroup.POST("/connect", mobileHandler.Connect)
		mobileGroup.POST("/disconnect", mobileHandler.Disconnect)
		mobileGroup.POST("/dialogs", mobileHandler.ActiveDialogs)
		mobileGroup.POST("/dialogs/click", mobileHandler.DialogClick)
		mobileGroup.POST("/ads", mobileHandler.ActiveAds)
	}

	// админский CRUD каталога, живёт за обычным JWT
	adminGroup := r.Group("/admin")
	adminGroup.Use(middleware.JWTMiddleware(cfg.JWT.Secret))
	{
		adminGroup.POST("/servers", adminHandler.CreateServer)
		adminGroup.GET("/servers", adminHandler.ListServers)
		adminGroup.PATCH("/servers/:id", adminHandler.UpdateServer)
		adminGroup.DELETE("/servers/:id", adminHandler.DeleteServer)
		adminGroup.POST("/dialogs", adminHandler.CreateDialog)
		adminGroup.POST("/ads", adminHandler.CreateAd)
	}
}
