package store

import (
	"database/sql"
	"fmt"

	"cloud.google.com/go/firestore"
	"go.mongodb.org/mongo-driver/mongo"
)

// Storage drivers selectable with STORAGE_DRIVER.
const (
	DriverMongo     = "mongo"
	DriverFile      = "file"
	DriverFirestore = "firestore"
	DriverPostgres  = "postgres"
	DriverSQLite    = "sqlite"
	DriverMemory    = "memory"
)

// Backend carries the connection used by the configured driver. Only the
// field matching Driver needs to be set.
type Backend struct {
	Driver    string
	Mongo     *mongo.Database
	Firestore *firestore.Client
	SQL       *sql.DB
	DataDir   string
}

// Open returns the collection called name on backend b.
func Open[T Record](b Backend, name string, keyOf KeyFunc) (Collection[T], error) {
	switch b.Driver {
	case DriverMongo:
		if b.Mongo == nil {
			return nil, fmt.Errorf("store: %s driver without database", b.Driver)
		}
		return NewMongoCollection[T](b.Mongo, name, keyOf), nil
	case DriverFile:
		return NewBinCollection[T](NewFileBin(b.DataDir, name)), nil
	case DriverFirestore:
		if b.Firestore == nil {
			return nil, fmt.Errorf("store: %s driver without client", b.Driver)
		}
		return NewBinCollection[T](NewFirestoreBin(b.Firestore, name)), nil
	case DriverPostgres:
		if b.SQL == nil {
			return nil, fmt.Errorf("store: %s driver without database", b.Driver)
		}
		return NewBinCollection[T](NewSQLBin(b.SQL, DialectPostgres, name)), nil
	case DriverSQLite:
		if b.SQL == nil {
			return nil, fmt.Errorf("store: %s driver without database", b.Driver)
		}
		return NewBinCollection[T](NewSQLBin(b.SQL, DialectSQLite, name)), nil
	case DriverMemory:
		return NewBinCollection[T](&MemoryBin{}), nil
	default:
		return nil, fmt.Errorf("store: unknown driver %q", b.Driver)
	}
}
