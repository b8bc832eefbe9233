// The dev backend stands in for the managed auth, document and image
// services during development and end-to-end testing.
package main

import (
	"database/sql"
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	_ "github.com/go-sql-driver/mysql"

	"cleancity/api"
	"cleancity/devbackend/config"
	"cleancity/devbackend/database"
	"cleancity/devbackend/email"
	"cleancity/devbackend/handlers"
	"cleancity/devbackend/middleware"
)

func main() {
	cfg := config.Load()

	db, err := setupDatabase(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database: ", err)
	}
	defer db.Close()

	log.Println("Initializing database schema...")
	if err := database.InitializeSchema(db); err != nil {
		log.Fatal("Failed to initialize database schema: ", err)
	}

	svc := database.NewService(db, cfg.JWTSecret)
	mail := email.NewSender(cfg.SendGridAPIKey, cfg.FromName, cfg.FromEmail)
	h := handlers.NewHandlers(svc, mail, cfg.MediaDir, cfg.BaseURL, cfg.ResetURLBase)

	router := setupRouter(svc, h, cfg)

	log.Printf("Dev backend starting on port %s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server: ", err)
	}
}

func setupDatabase(cfg *config.Config) (*sql.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true",
		cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName)

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}
	return db, nil
}

func setupRouter(svc *database.Service, h *handlers.Handlers, cfg *config.Config) *gin.Engine {
	router := gin.Default()

	router.GET(api.HealthEndpoint, h.Health)
	router.Static("/media", cfg.MediaDir)

	router.POST(api.SignUpEndpoint, h.SignUp)
	router.POST(api.LoginEndpoint, h.Login)
	router.POST(api.ResetEndpoint, h.Reset)
	router.GET(api.DocsEndpoint+"/:collection", h.QueryDocuments)

	protected := router.Group("")
	protected.Use(middleware.Auth(svc))
	{
		protected.POST(api.ProfileEndpoint, h.UpdateProfile)
		protected.POST(api.DocsEndpoint+"/:collection", h.InsertDocument)
		protected.PATCH(api.DocsEndpoint+"/:collection/:id", h.MergeDocument)
		protected.POST(api.MediaEndpoint, h.UploadMedia)
	}

	return router
}
