package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// BinsCollection is the Firestore collection that holds one document per bin.
const BinsCollection = "bins"

// FirestoreBin keeps the JSON array of a collection in the "payload" field of
// a single Firestore document, the same shape a hosted JSON bin has.
type FirestoreBin struct {
	Client *firestore.Client
	Name   string
}

func NewFirestoreBin(client *firestore.Client, name string) *FirestoreBin {
	return &FirestoreBin{Client: client, Name: name}
}

func (b *FirestoreBin) doc() *firestore.DocumentRef {
	return b.Client.Collection(BinsCollection).Doc(b.Name)
}

func (b *FirestoreBin) Load(ctx context.Context) ([]byte, error) {
	if b == nil || b.Client == nil {
		return nil, errors.New("firestore_bin: firestore client is nil")
	}

	snap, err := b.doc().Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, nil
		}
		return nil, err
	}

	raw, err := snap.DataAt("payload")
	if err != nil {
		return nil, nil
	}
	payload, ok := raw.(string)
	if !ok {
		return nil, fmt.Errorf("firestore_bin: %s payload is %T, want string", b.Name, raw)
	}
	return []byte(payload), nil
}

// Save overwrites the whole document.
func (b *FirestoreBin) Save(ctx context.Context, data []byte) error {
	if b == nil || b.Client == nil {
		return errors.New("firestore_bin: firestore client is nil")
	}

	_, err := b.doc().Set(ctx, map[string]interface{}{
		"payload":   string(data),
		"updatedAt": time.Now().UTC(),
	})
	return err
}
