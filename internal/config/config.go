package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPAddr             string
	DatabaseURL          string
	CORSAllowedOrigins   []string
	CORSAllowCredentials bool

	JWTSecret string

	OAuthServerURL string
	AppID          string
	OwnerOpenID    string

	MediaProvider string // "cloudinary" or "s3"

	CloudinaryCloudName string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string

	S3Endpoint     string
	S3Region       string
	S3Bucket       string
	S3AccessKey    string
	S3SecretKey    string
	S3UsePathStyle bool
}

// Load reads the environment once. Every value has a safe default so the
// process comes up (in a degraded mode) even with nothing configured.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		HTTPAddr:             getenv("HTTP_ADDR", ":8080"),
		DatabaseURL:          getenv("DATABASE_URL", ""),
		CORSAllowCredentials: getenv("CORS_ALLOW_CREDENTIALS", "false") == "true",

		JWTSecret: getenv("JWT_SECRET", ""),

		OAuthServerURL: getenv("OAUTH_SERVER_URL", ""),
		AppID:          getenv("APP_ID", ""),
		OwnerOpenID:    getenv("OWNER_OPEN_ID", ""),

		MediaProvider: getenv("MEDIA_PROVIDER", "cloudinary"),

		CloudinaryCloudName: getenv("CLOUDINARY_CLOUD_NAME", ""),
		CloudinaryAPIKey:    getenv("CLOUDINARY_API_KEY", ""),
		CloudinaryAPISecret: getenv("CLOUDINARY_API_SECRET", ""),

		S3Endpoint:     getenv("S3_ENDPOINT", ""),
		S3Region:       getenv("AWS_REGION", "us-east-1"),
		S3Bucket:       getenv("S3_BUCKET_NAME", ""),
		S3AccessKey:    getenv("AWS_ACCESS_KEY_ID", ""),
		S3SecretKey:    getenv("AWS_SECRET_ACCESS_KEY", ""),
		S3UsePathStyle: getenv("S3_USE_PATH_STYLE", "false") == "true",
	}

	origins := strings.Split(getenv("CORS_ALLOWED_ORIGINS", ""), ",")
	for _, o := range origins {
		o = strings.TrimSpace(o)
		if o != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, o)
		}
	}

	return cfg, nil
}

func getenv(key, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}
