// /cmd/web/main.go
package main

import (
	"os"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
	"github.com/joho/godotenv"

	"github.com/rmedina-dev/inventario/internal/database"
	"github.com/rmedina-dev/inventario/internal/handler"
	"github.com/rmedina-dev/inventario/internal/logger"
)

func main() {
	isDev := os.Getenv("APP_ENV") != "production"
	logger.Init("inventario", isDev)

	if err := godotenv.Load(); err != nil {
		logger.Log.Warn().Msg("no .env file found, relying on the environment")
	}

	database.ConnectDB()
	database.SeedAdmin()

	secret := os.Getenv("SESSION_SECRET")
	if secret == "" {
		if !isDev {
			logger.Log.Fatal().Msg("SESSION_SECRET must be set in production")
		}
		logger.Log.Warn().Msg("SESSION_SECRET not set, using an insecure development key")
		secret = "dev-secret-change-me"
	}
	store := sessions.NewCookieStore([]byte(secret))

	if !isDev {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery(), handler.RequestLogger())
	router.LoadHTMLGlob("internal/view/templates/*.html")
	router.Static("/static", "./static")

	authHandler := &handler.AuthHandler{Store: store}
	productHandler := &handler.ProductHandler{Store: store}
	inventoryHandler := &handler.InventoryHandler{Store: store}

	router.GET("/login", authHandler.ShowLoginPage)
	router.POST("/login", authHandler.ProcessLoginForm)
	router.GET("/register", authHandler.ShowRegisterPage)
	router.POST("/register", authHandler.ProcessRegisterForm)
	router.GET("/logout", authHandler.Logout)

	private := router.Group("/")
	private.Use(authHandler.AuthRequired())
	{
		private.GET("/", productHandler.ShowProductsPage)
		private.POST("/", productHandler.SearchProducts)
		private.GET("/add_product", productHandler.ShowAddProductForm)
		private.POST("/add_product", productHandler.ProcessAddProductForm)
		private.GET("/edit_product/:id", productHandler.ShowEditProductForm)
		private.POST("/edit_product/:id", productHandler.ProcessEditProductForm)
		private.POST("/delete_product/:id", productHandler.DeleteProduct)
		private.GET("/inventory/:id", inventoryHandler.ShowInventoryPage)
		private.POST("/inventory/:id", inventoryHandler.ProcessInventoryForm)
		private.GET("/delete_inventory/:id", inventoryHandler.ShowDeleteConfirmPage)
		private.POST("/delete_inventory/:id", inventoryHandler.ProcessDeleteForm)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	logger.Log.Info().Str("port", port).Msg("server listening")
	if err := router.Run(":" + port); err != nil {
		logger.Log.Fatal().Err(err).Msg("server stopped")
	}
}
