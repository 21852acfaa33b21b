package main

import (
	"log"
	"net/http"

	"github.com/clementus360/chat-backend/config"
	"github.com/clementus360/chat-backend/database"
	"github.com/clementus360/chat-backend/handlers"
)

func main() {
	// Initialize PostgreSQL and the optional Redis presence cache
	database.InitPostgres()
	database.InitRedis()

	// Run database migrations
	database.RunMigrations()

	// Set up http routes, each with its own CORS policy
	mux := http.NewServeMux()
	mux.Handle("/api/auth", handlers.WithCORS(http.HandlerFunc(handlers.Auth), http.MethodPost))
	mux.Handle("/api/profile", handlers.WithCORS(http.HandlerFunc(handlers.Profile), http.MethodGet, http.MethodPost))
	mux.Handle("/api/users", handlers.WithCORS(http.HandlerFunc(handlers.Users), http.MethodGet, http.MethodPost))
	mux.Handle("/api/messages", handlers.WithCORS(http.HandlerFunc(handlers.Messages), http.MethodGet, http.MethodPost))
	mux.Handle("/api/groups", handlers.WithCORS(http.HandlerFunc(handlers.Groups), http.MethodGet, http.MethodPost))

	port := config.GetEnv("PORT", "8080")
	log.Println("Chat backend is running...")
	log.Println("Listening on port " + port)
	log.Fatal(http.ListenAndServe(":"+port, mux))
}
