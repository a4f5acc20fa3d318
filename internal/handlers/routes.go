package handlers

import (
	"net/http"

	"oversound/internal/service"
	"oversound/pkg/oversound"

	"github.com/gin-gonic/gin"
)

// Services bundles what the gateway routes depend on.
type Services struct {
	Sessions        *service.SessionService
	Catalog         *service.CatalogService
	Commerce        *service.CommerceService
	Tracks          *service.TrackService
	Recommendations *service.RecommendationService
	// Redis is optional; it only feeds /health.
	Redis        Pinger
	SecureCookie bool
}

// Register mounts every gateway route on r.
func Register(r *gin.Engine, s Services) {
	auth := NewAuthHandler(s.Sessions, s.SecureCookie)
	catalog := NewCatalogHandler(s.Catalog)
	labels := NewLabelHandler(s.Catalog)
	profiles := NewProfileHandler(s.Sessions)
	commerce := NewCommerceHandler(s.Commerce)
	shop := NewShopHandler(s.Catalog)
	tracks := NewTrackHandler(s.Tracks)
	recs := NewRecommendationHandler(s.Recommendations)
	health := NewHealthHandler(s.Redis)

	r.GET("/health", health.Health)

	api := r.Group("/", RequestID(), LoadSession(s.Sessions))
	{
		// Session
		api.GET("/me", auth.Me)
		api.POST("/login", auth.Login)
		api.POST("/register", auth.Register)
		api.POST("/logout", auth.Logout)
		api.POST("/forgot-password", auth.ForgotPassword)

		// Catalog
		api.GET("/shop", shop.Shop)
		for _, kind := range []oversound.Kind{oversound.KindSong, oversound.KindAlbum, oversound.KindMerch} {
			path := "/" + string(kind) + "/:id"
			api.DELETE(path, catalog.Delete(kind))
			api.PUT(path, catalog.Update(kind))
			api.POST("/upload-"+string(kind), catalog.Upload(kind))
		}
		api.GET("/song/:id", catalog.GetSong)
		api.GET("/album/:id", catalog.GetAlbum)
		api.GET("/merch/:id", catalog.GetMerch)
		api.GET("/artist/:id", catalog.GetArtist)
		api.GET("/artist/:id/label", catalog.ArtistLabel)
		api.POST("/artist/create", catalog.CreateArtist)

		// Labels
		api.GET("/label/:id", labels.Get)
		api.POST("/label/create", labels.Create)
		api.PUT("/label/:id/edit", labels.Update)
		api.DELETE("/label/:id", labels.Delete())
		api.POST("/label/:id/join", labels.Join())
		api.POST("/label/:id/leave", labels.Leave())
		api.DELETE("/label/:id/artist/:artistId", labels.RemoveArtist)
		api.GET("/user/label", labels.UserLabel)

		// Users
		api.GET("/profile", profiles.Own)
		api.GET("/profile/:username", profiles.Public)
		api.GET("/user/:username", profiles.User)
		api.POST("/favs/:type/:id", profiles.Favorite)
		api.DELETE("/favs/:type/:id", profiles.Favorite)

		// Commerce
		api.GET("/cart", commerce.Cart)
		api.POST("/cart", commerce.AddToCart)
		api.DELETE("/cart/:id", commerce.RemoveFromCart)
		api.POST("/purchase", commerce.Purchase)
		api.GET("/payment", commerce.PaymentMethods)
		api.POST("/payment", commerce.AddPaymentMethod)
		api.DELETE("/payment/:id", commerce.DeletePaymentMethod)
		api.POST("/giftcard", CreateGiftCard)

		api.GET("/recommendations", recs.Feed)
		api.GET("/track/:id", tracks.Stream)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	})
}
