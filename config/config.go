package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Config holds process configuration, read once at startup.
type Config struct {
	Addr         string
	StoreBackend string // "mongo" or "file"
	MongoURI     string
	DatabaseName string
	DataDir      string // file backend collection directory
}

// Load reads configuration from a .env file when present, the environment
// otherwise.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading config from environment")
	}

	return Config{
		Addr:         getEnv("ADDR", ":8080"),
		StoreBackend: getEnv("STORE_BACKEND", "mongo"),
		MongoURI:     getEnv("MONGO_URI", "mongodb://localhost:27017"),
		DatabaseName: getEnv("DB_NAME", "language"),
		DataDir:      getEnv("DATA_DIR", "./entries"),
	}
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
