package api

import (
	"log"
	stdhttp "net/http"

	"krishilink/internal/auth"
	"krishilink/internal/domain"
	h "krishilink/internal/http/handlers"
	"krishilink/internal/http/middleware"

	"github.com/gin-gonic/gin"
)

// Deps carries everything the router mounts.
type Deps struct {
	Issuer      auth.Issuer
	Origins     []string
	UploadDir   string
	System      h.SystemHandler
	Auth        h.AuthHandler
	Listings    h.ListingHandler
	Tools       h.ToolHandler
	Community   h.CommunityHandler
	Market      h.MarketHandler
	Marketplace h.MarketplaceHandler
}

func NewRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Tracing(), middleware.Logger(), gin.Recovery(), middleware.CORS(d.Origins))
	r.MaxMultipartMemory = 8 << 20

	if err := r.SetTrustedProxies(nil); err != nil {
		log.Printf("warning: failed to set trusted proxies: %v", err)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(stdhttp.StatusNotFound, gin.H{
			"error":  "route not found",
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		})
	})

	if d.UploadDir != "" {
		r.Static("/uploads", d.UploadDir)
	}

	authed := middleware.RequireAuth(d.Issuer)

	api := r.Group("/api")
	{
		api.GET("/health", d.System.Health)
		api.GET("/db-check", d.System.DBCheck)
		api.GET("/routes", d.System.Routes)

		// Auth
		authGroup := api.Group("/auth")
		authGroup.POST("/register", d.Auth.Register)
		authGroup.POST("/login", d.Auth.Login)
		authGroup.POST("/refresh", d.Auth.Refresh)
		authGroup.POST("/logout", authed, d.Auth.Logout)
		authGroup.GET("/me", authed, d.Auth.Me)
		authGroup.PUT("/profile", authed, d.Auth.UpdateProfile)

		// Listings
		listings := api.Group("/listings")
		listings.GET("", d.Listings.List)
		listings.GET("/mine", authed, d.Listings.Mine)
		listings.GET("/:id", d.Listings.Get)
		listings.POST("", authed, middleware.RequireRoles(domain.SellingRoles...), d.Listings.Create)
		listings.PUT("/:id", authed, d.Listings.Update)
		listings.DELETE("/:id", authed, d.Listings.Delete)
		listings.POST("/:id/contact", authed, middleware.RequireRoles(domain.BuyingRoles...), d.Listings.Contact)

		// Tool rentals and sales
		tools := api.Group("/services/tools")
		tools.GET("", d.Tools.List)
		tools.GET("/mine", authed, d.Tools.Mine)
		tools.GET("/:id", d.Tools.Get)
		tools.POST("", authed, d.Tools.Create)
		tools.PUT("/:id", authed, d.Tools.Update)
		tools.DELETE("/:id", authed, d.Tools.Delete)

		// Community board
		questions := api.Group("/community/questions")
		questions.GET("", d.Community.List)
		questions.GET("/:id", d.Community.Get)
		questions.POST("", authed, d.Community.Ask)
		questions.POST("/:id/answers", authed, d.Community.Answer)
		questions.DELETE("/:id", authed, d.Community.Delete)

		// Market prices
		prices := api.Group("/market-prices")
		prices.GET("", d.Market.List)
		prices.GET("/report", d.Market.Report)
		prices.GET("/trends/:crop", d.Market.Trend)
		prices.POST("", authed, d.Market.Create)

		// Marketplace flat records
		marketplace := api.Group("/marketplace")
		marketplace.GET("/mandi-prices", d.Marketplace.MandiPrices)
		marketplace.POST("/mandi-prices", d.Marketplace.AddMandiPrice)
		marketplace.GET("/farmer-listings", d.Marketplace.FarmerListings)
		marketplace.POST("/farmer-listings", d.Marketplace.AddFarmerListing)
		marketplace.GET("/buyer-requirements", d.Marketplace.BuyerRequirements)
		marketplace.POST("/buyer-requirements", d.Marketplace.AddBuyerRequirement)
	}

	h.SetRouter(r)
	return r
}
