package config

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
)

var AppEnv Config

type Config struct {
	Port string

	StorageDriver         string
	MongoURI              string
	DBName                string
	DataDir               string
	FirestoreProjectID    string
	GoogleCredentialsFile string
	PostgresDSN           string
	SQLitePath            string

	JWTSecret        string
	AccessTokenTTL   time.Duration
	CustomerTokenTTL time.Duration
	AdminEmail       string
	AdminPassword    string

	UploadDriver  string
	PublicDir     string
	PublicBaseURL string
	GCSBucket     string

	CORSOrigins []string

	StoreName        string
	WhatsAppNumber   string
	ShippingFee      float64
	DubaiShippingETA string
}

func Load() {
	if err := godotenv.Load(); err != nil {
		log.Println(".env not loaded:", err)
	}
	AppEnv = FromEnv()
}

// FromEnv reads the configuration from the process environment.
func FromEnv() Config {
	return Config{
		Port: getEnvOrDefault("PORT", "8080"),

		StorageDriver:         getEnvOrDefault("STORAGE_DRIVER", "file"),
		MongoURI:              getEnvOrDefault("MONGO_URI", ""),
		DBName:                getEnvOrDefault("DB_NAME", "storefront"),
		DataDir:               getEnvOrDefault("DATA_DIR", "data"),
		FirestoreProjectID:    getEnvOrDefault("FIRESTORE_PROJECT_ID", ""),
		GoogleCredentialsFile: getEnvOrDefault("GOOGLE_CREDENTIALS_FILE", ""),
		PostgresDSN:           getEnvOrDefault("POSTGRES_DSN", ""),
		SQLitePath:            getEnvOrDefault("SQLITE_PATH", "data/storefront.db"),

		JWTSecret:        getEnvOrDefault("JWT_SECRET", ""),
		AccessTokenTTL:   getDurationEnv("ACCESS_TOKEN_TTL", 12, time.Hour),
		CustomerTokenTTL: getDurationEnv("CUSTOMER_TOKEN_TTL", 90, 24*time.Hour),
		AdminEmail:       getEnvOrDefault("ADMIN_EMAIL", ""),
		AdminPassword:    getEnvOrDefault("ADMIN_PASSWORD", ""),

		UploadDriver:  getEnvOrDefault("UPLOAD_DRIVER", "local"),
		PublicDir:     getEnvOrDefault("PUBLIC_DIR", "public"),
		PublicBaseURL: getEnvOrDefault("PUBLIC_BASE_URL", ""),
		GCSBucket:     getEnvOrDefault("GCS_BUCKET", ""),

		CORSOrigins: getListEnv("CORS_ORIGINS", []string{"*"}),

		StoreName:        getEnvOrDefault("STORE_NAME", "متجر الفخامة"),
		WhatsAppNumber:   getEnvOrDefault("WHATSAPP_NUMBER", ""),
		ShippingFee:      getFloatEnv("SHIPPING_FEE", 5000),
		DubaiShippingETA: getEnvOrDefault("DUBAI_SHIPPING_ETA", "7-14 يوم"),
	}
}

// Validate reports the first setting the selected drivers need but lack.
func (c Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}

	switch c.StorageDriver {
	case "mongo":
		if c.MongoURI == "" {
			return errors.New("MONGO_URI is required for the mongo driver")
		}
	case "firestore":
		if c.FirestoreProjectID == "" {
			return errors.New("FIRESTORE_PROJECT_ID is required for the firestore driver")
		}
	case "postgres":
		if c.PostgresDSN == "" {
			return errors.New("POSTGRES_DSN is required for the postgres driver")
		}
	case "file", "sqlite", "memory":
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.StorageDriver)
	}

	switch c.UploadDriver {
	case "local":
	case "gcs":
		if c.GCSBucket == "" {
			return errors.New("GCS_BUCKET is required for the gcs upload driver")
		}
	default:
		return fmt.Errorf("unknown UPLOAD_DRIVER %q", c.UploadDriver)
	}
	return nil
}
