package store

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson"
)

var _ Mutator[note] = (*MongoCollection[note])(nil)

func TestCASFilterMatchesEveryStoredField(t *testing.T) {
	raw, err := bson.Marshal(bson.D{
		{Key: "_id", Value: int64(7)},
		{Key: "quantity", Value: 1},
		{Key: "images", Value: bson.A{"/a.jpg"}},
	})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	filter, err := casFilter(raw)
	if err != nil {
		t.Fatalf("casFilter: %v", err)
	}
	if len(filter) != 3 {
		t.Fatalf("expected 3 conditions, got %d", len(filter))
	}
	if filter[0].Key != "_id" || filter[1].Key != "quantity" || filter[2].Key != "images" {
		t.Fatalf("unexpected keys %v", filter)
	}

	// the filter pins the quantity that was read
	stale, err := bson.Marshal(filter)
	if err != nil {
		t.Fatalf("marshal filter: %v", err)
	}
	var decoded struct {
		Quantity int `bson:"quantity"`
	}
	if err := bson.Unmarshal(stale, &decoded); err != nil {
		t.Fatalf("unmarshal filter: %v", err)
	}
	if decoded.Quantity != 1 {
		t.Fatalf("filter must pin the read quantity, got %d", decoded.Quantity)
	}
}

func TestCASFilterRejectsCorruptDocument(t *testing.T) {
	if _, err := casFilter(bson.Raw{0x01, 0x02}); err == nil {
		t.Fatal("expected error for malformed document")
	}
}
