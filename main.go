package main

import (
	"context"
	"log"
	"path/filepath"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/eebmagic/lagnuage-immersion-app/config"
	"github.com/eebmagic/lagnuage-immersion-app/routes"
	"github.com/eebmagic/lagnuage-immersion-app/services"
	"github.com/eebmagic/lagnuage-immersion-app/store"
)

func main() {
	log.Println("Starting application...")

	cfg := config.Load()

	var (
		vocabStore   store.VocabStore
		snippetStore store.SnippetStore
		userStore    store.UserStore
	)

	switch cfg.StoreBackend {
	case "file":
		log.Printf("Using file-backed stores in %s", cfg.DataDir)
		var err error
		vocabStore, err = store.NewFileVocabStore(filepath.Join(cfg.DataDir, "vocab.json"))
		if err != nil {
			log.Fatalf("Failed to open vocab store: %v", err)
		}
		snippetStore, err = store.NewFileSnippetStore(filepath.Join(cfg.DataDir, "snippets.json"))
		if err != nil {
			log.Fatalf("Failed to open snippet store: %v", err)
		}
		userStore, err = store.NewFileUserStore(filepath.Join(cfg.DataDir, "users.json"))
		if err != nil {
			log.Fatalf("Failed to open user store: %v", err)
		}
	default:
		client, err := config.ConnectDB(cfg.MongoURI)
		if err != nil {
			log.Fatalf("Failed to connect to MongoDB: %v", err)
		}
		defer client.Disconnect(context.Background())

		db := client.Database(cfg.DatabaseName)
		vocabStore = store.NewMongoVocabStore(db)
		snippetStore = store.NewMongoSnippetStore(db)
		userStore = store.NewMongoUserStore(db)
	}

	svc := routes.Services{
		Retrieval: services.NewRetrieval(vocabStore, snippetStore, userStore),
		Users:     services.NewUsers(userStore),
		Loader:    services.NewLoader(vocabStore, snippetStore),
	}

	r := gin.Default()
	r.Use(cors.Default())
	routes.SetupRoutes(r.Group("/"), svc)

	log.Printf("Server is running on %s", cfg.Addr)
	if err := r.Run(cfg.Addr); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}
