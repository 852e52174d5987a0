package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"cloud.google.com/go/storage"
	"github.com/gin-gonic/gin"
	"github.com/go-chi/cors"
	"google.golang.org/api/option"

	"storefront/internal/catalog"
	"storefront/internal/config"
	"storefront/internal/database"
	"storefront/internal/dubai"
	"storefront/internal/handlers"
	"storefront/internal/media"
	"storefront/internal/metrics"
	"storefront/internal/models"
	"storefront/internal/orders"
	"storefront/internal/session"
	"storefront/internal/settings"
	"storefront/internal/store"
)

func main() {
	config.Load()
	env := config.AppEnv
	if err := env.Validate(); err != nil {
		log.Fatal("[BOOT] [FATAL] ", err)
	}

	ctx := context.Background()

	backend, ping, closeBackend, err := openBackend(ctx, env)
	if err != nil {
		log.Fatal("[BOOT] [FATAL] ", err)
	}
	defer closeBackend()

	productColl, err := store.Open[models.Product](backend, database.ProductsCollection, store.Int64Key)
	if err != nil {
		log.Fatal(err)
	}
	orderColl, err := store.Open[models.Order](backend, database.OrdersCollection, store.StringKey)
	if err != nil {
		log.Fatal(err)
	}
	requestColl, err := store.Open[models.DubaiRequest](backend, database.RequestsCollection, store.StringKey)
	if err != nil {
		log.Fatal(err)
	}
	settingsColl, err := store.Open[models.Settings](backend, database.SettingsCollection, store.StringKey)
	if err != nil {
		log.Fatal(err)
	}
	userColl, err := store.Open[models.User](backend, database.UsersCollection, store.StringKey)
	if err != nil {
		log.Fatal(err)
	}
	adminColl, err := store.Open[models.Admin](backend, database.AdminsCollection, store.StringKey)
	if err != nil {
		log.Fatal(err)
	}

	products, err := catalog.NewService(ctx, productColl)
	if err != nil {
		log.Fatal("[BOOT] [FATAL] load catalog: ", err)
	}

	cfg := settings.NewService(settingsColl, models.Settings{
		StoreName:        env.StoreName,
		WhatsAppNumber:   env.WhatsAppNumber,
		ShippingFee:      env.ShippingFee,
		DubaiShippingETA: env.DubaiShippingETA,
		AdminEmail:       env.AdminEmail,
	})

	sessions := session.NewService(adminColl, userColl, env.JWTSecret, env.AccessTokenTTL, env.CustomerTokenTTL)
	if err := sessions.SeedAdmin(ctx, env.AdminEmail, env.AdminPassword); err != nil {
		log.Fatal("[BOOT] [FATAL] seed admin: ", err)
	}

	m := metrics.New()
	orderManager := orders.NewManager(orderColl,
		orders.WithStock(products),
		orders.WithUsers(sessions),
		orders.WithFees(cfg),
		orders.WithObserver(m),
	)
	requests := dubai.NewManager(requestColl,
		dubai.WithUsers(sessions),
		dubai.WithObserver(m),
	)

	uploader, err := newUploader(ctx, env)
	if err != nil {
		log.Fatal("[BOOT] [FATAL] ", err)
	}

	r := gin.Default()
	r.Static("/public", env.PublicDir)
	handlers.RegisterRoutes(r, handlers.Services{
		Catalog:       products,
		Orders:        orderManager,
		Requests:      requests,
		Settings:      cfg,
		Sessions:      sessions,
		Media:         media.NewIngestor(uploader),
		Metrics:       m,
		Ping:          ping,
		SecureCookies: strings.HasPrefix(env.PublicBaseURL, "https://"),
	})

	withCORS := cors.Handler(cors.Options{
		AllowedOrigins:   env.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           600,
	})

	srv := &http.Server{
		Addr:              ":" + env.Port,
		Handler:           withCORS(r),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	idleConnsClosed := make(chan struct{})
	go func() {
		c := make(chan os.Signal, 1)
		signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
		sig := <-c
		log.Printf("[BOOT] [INFO] received %v, shutting down", sig)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("[BOOT] [ERROR] shutdown: %v", err)
		}
		close(idleConnsClosed)
	}()

	log.Printf("[BOOT] [INFO] listening on :%s (storage: %s, uploads: %s)", env.Port, env.StorageDriver, env.UploadDriver)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal("[BOOT] [FATAL] ", err)
	}
	<-idleConnsClosed
}

// openBackend connects the configured storage driver. The returned ping is
// nil for drivers without a remote connection.
func openBackend(ctx context.Context, env config.Config) (store.Backend, handlers.PingFunc, func(), error) {
	backend := store.Backend{Driver: env.StorageDriver, DataDir: env.DataDir}
	noop := func() {}

	switch env.StorageDriver {
	case store.DriverMongo:
		client, err := database.Connect(env.MongoURI)
		if err != nil {
			return backend, nil, noop, err
		}
		db := client.Database(env.DBName)
		log.Println("[DB] [INFO] using database:", db.Name())

		if err := database.EnsureProductIndexes(db); err != nil {
			log.Printf("[DB] [WARN] product index: %v", err)
		}
		if err := database.EnsureUserIndexes(db); err != nil {
			log.Printf("[DB] [WARN] user index: %v", err)
		}
		if err := database.EnsureOrderIndexes(db); err != nil {
			log.Printf("[DB] [WARN] order index: %v", err)
		}
		if err := database.EnsureRequestIndexes(db); err != nil {
			log.Printf("[DB] [WARN] request index: %v", err)
		}

		backend.Mongo = db
		ping := func(ctx context.Context) error { return client.Ping(ctx, nil) }
		return backend, ping, func() { _ = client.Disconnect(context.Background()) }, nil

	case store.DriverFirestore:
		client, err := database.NewFirestoreClient(ctx, env.FirestoreProjectID, env.GoogleCredentialsFile)
		if err != nil {
			return backend, nil, noop, err
		}
		backend.Firestore = client
		return backend, nil, func() { _ = client.Close() }, nil

	case store.DriverPostgres, store.DriverSQLite:
		dsn := env.PostgresDSN
		if env.StorageDriver == store.DriverSQLite {
			if err := os.MkdirAll(filepath.Dir(env.SQLitePath), 0o755); err != nil {
				return backend, nil, noop, err
			}
			dsn = env.SQLitePath
		}
		db, err := database.OpenSQL(env.StorageDriver, dsn)
		if err != nil {
			return backend, nil, noop, err
		}
		if err := store.EnsureBinsTable(ctx, db); err != nil {
			db.Close()
			return backend, nil, noop, err
		}
		backend.SQL = db
		return backend, db.PingContext, func() { _ = db.Close() }, nil
	}

	return backend, nil, noop, nil
}

func newUploader(ctx context.Context, env config.Config) (media.Uploader, error) {
	if env.UploadDriver != "gcs" {
		return media.NewLocalUploader(env.PublicDir, env.PublicBaseURL), nil
	}

	var opts []option.ClientOption
	if env.GoogleCredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(env.GoogleCredentialsFile))
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, err
	}
	return media.NewGCSUploader(client, env.GCSBucket), nil
}
