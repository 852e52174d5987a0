package database

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names shared by every storage driver.
const (
	ProductsCollection = "products"
	OrdersCollection   = "orders"
	RequestsCollection = "dubai_requests"
	SettingsCollection = "settings"
	UsersCollection    = "users"
	AdminsCollection   = "admins"
)

func EnsureProductIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexes := db.Collection(ProductsCollection).Indexes()

	categorySourceIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "category", Value: 1}, {Key: "source", Value: 1}},
		Options: options.Index().SetName("category_source_index"),
	}

	log.Println("EnsureProductIndexes: creating category_source_index index")
	if _, err := indexes.CreateOne(ctx, categorySourceIndex); err != nil {
		log.Println("EnsureProductIndexes: category_source index error:", err)
		return err
	}
	log.Println("EnsureProductIndexes: category_source_index index created")
	return nil
}

func EnsureUserIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexes := db.Collection(UsersCollection).Indexes()

	phoneIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "phone", Value: 1}},
		Options: options.Index().SetName("phone_index"),
	}

	log.Println("EnsureUserIndexes: creating phone_index index")
	if _, err := indexes.CreateOne(ctx, phoneIndex); err != nil {
		log.Println("EnsureUserIndexes: phone index error:", err)
		return err
	}
	log.Println("EnsureUserIndexes: phone_index index created")
	return nil
}

func EnsureOrderIndexes(db *mongo.Database) error {
	return ensureOwnerIndex(db, OrdersCollection)
}

func EnsureRequestIndexes(db *mongo.Database) error {
	return ensureOwnerIndex(db, RequestsCollection)
}

// ensureOwnerIndex backs the per-customer listings of orders and requests.
func ensureOwnerIndex(db *mongo.Database, collection string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexes := db.Collection(collection).Indexes()

	userIDIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}},
		Options: options.Index().SetName("userId_createdAt_index"),
	}

	log.Printf("ensureOwnerIndex: creating userId_createdAt_index on %s", collection)
	if _, err := indexes.CreateOne(ctx, userIDIndex); err != nil {
		log.Printf("ensureOwnerIndex: %s userId index error: %v", collection, err)
		return err
	}
	log.Printf("ensureOwnerIndex: userId_createdAt_index created on %s", collection)
	return nil
}
