package config

import (
	"os"
	"strings"
)

type Config struct {
	HTTPAddr     string
	MongoURI     string
	MongoDB      string
	RedisAddr    string
	KafkaBrokers []string
	MediaHostURL string
	MediaAPIKey  string
	UploadDir    string
	ServiceName  string
	Env          string
}

func Load() Config {
	return Config{
		HTTPAddr:     getenv("HTTP_ADDR", ":8080"),
		MongoURI:     getenv("MONGODB_URI", "mongodb://mongodb:27017"),
		MongoDB:      getenv("MONGODB_DB", "storefront"),
		RedisAddr:    getenv("REDIS_ADDR", "redis:6379"),
		KafkaBrokers: splitCSV(getenv("KAFKA_BROKERS", "kafka:9092")),
		MediaHostURL: getenv("MEDIA_HOST_URL", "http://media-host:9000"),
		MediaAPIKey:  getenv("MEDIA_API_KEY", ""),
		UploadDir:    getenv("UPLOAD_DIR", "uploads"),
		ServiceName:  getenv("SERVICE_NAME", "storefront-api"),
		Env:          getenv("APP_ENV", "development"),
	}
}

// Production gates error detail in responses.
func (c Config) Production() bool { return c.Env == "production" }

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
