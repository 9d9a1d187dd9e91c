// Package server contain implementation of go-gin-server and route registration
package server

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	// Load env file into environments.
	_ "github.com/joho/godotenv/autoload"

	"jobboard-backend/internal/database"
	"jobboard-backend/internal/filestore"
	"jobboard-backend/internal/mail"
)

// Server holds the database instance and the external collaborators the
// route handlers depend on.
type Server struct {
	DB     *database.DBService
	Store  *filestore.Store
	Mailer mail.Mailer
}

// NewServer constructs the http.Server with routes registered and
// collaborators wired from environment configuration.
func NewServer() *http.Server {
	port, _ := strconv.Atoi(os.Getenv("PORT"))
	if port == 0 {
		port = 8080
	}

	db, err := database.GetMainDB()
	if err != nil {
		log.Fatalf("Database failed to initialize: %s", err)
	}

	var storageClient filestore.StorageClient
	if bucket := os.Getenv("CLOUD_STORAGE_BUCKET"); bucket != "" {
		client, err := filestore.NewCloudStorageClient(bucket)
		if err != nil {
			log.Fatalf("Cloud storage failed to initialize: %s", err)
		}
		storageClient = client
	}

	var mailer mail.Mailer
	if m := mail.NewSMTPMailer(); m != nil {
		mailer = m
	}

	s := &Server{
		DB:     db,
		Store:  filestore.NewStore(storageClient),
		Mailer: mailer,
	}

	// Declare Server config
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      s.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	return server
}
