package mongo

import (
	"errors"
	"fmt"
	"reflect"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"aquashop.ca/storefront/api/pkg/global"
	"aquashop.ca/storefront/api/pkg/models"
)

func TestProductFilterDefaultsToActive(t *testing.T) {
	got := productFilter(models.ProductFilter{})
	want := bson.D{{Key: "status", Value: models.ProductStatusActive}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("filter = %v, want %v", got, want)
	}
}

func TestProductFilterAllFields(t *testing.T) {
	lo, hi := 5.0, 50.0
	got := productFilter(models.ProductFilter{
		Category: "plants",
		Brand:    "Tropica",
		MinPrice: &lo,
		MaxPrice: &hi,
		InStock:  true,
	})
	want := bson.D{
		{Key: "status", Value: models.ProductStatusActive},
		{Key: "category", Value: "plants"},
		{Key: "brand", Value: "Tropica"},
		{Key: "price", Value: bson.D{{Key: "$gte", Value: 5.0}, {Key: "$lte", Value: 50.0}}},
		{Key: "stock", Value: bson.D{{Key: "$gt", Value: 0}}},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("filter = %v\nwant %v", got, want)
	}
}

func TestProductSort(t *testing.T) {
	tests := map[string]string{
		"":                  "created_at",
		models.SortNewest:   "created_at",
		models.SortPriceAsc: "price",
		models.SortRating:   "ratings.average",
		models.SortName:     "name",
	}
	for sort, firstKey := range tests {
		got := productSort(sort)
		if got[0].Key != firstKey {
			t.Errorf("productSort(%q) starts with %q, want %q", sort, got[0].Key, firstKey)
		}
		if last := got[len(got)-1].Key; last != "_id" {
			t.Errorf("productSort(%q) has no _id tie-breaker", sort)
		}
	}
	if productSort(models.SortPriceDesc)[0].Value != -1 {
		t.Error("price_desc should sort descending")
	}
}

func TestOrderStatusUpdateStampsTimeline(t *testing.T) {
	at := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	got := orderStatusUpdate(models.StatusShipping, at)
	want := bson.D{{Key: "$set", Value: bson.D{
		{Key: "status", Value: models.StatusShipping},
		{Key: "updated_at", Value: at},
		{Key: "timeline.shipped_at", Value: at},
	}}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("update = %v, want %v", got, want)
	}
}

func TestProfileUpdateOnlySetsProvidedFields(t *testing.T) {
	at := time.Now()
	name := "Coral"
	got := profileUpdate(models.UpdateProfileRequest{Name: &name}, at)
	want := bson.D{{Key: "$set", Value: bson.D{
		{Key: "name", Value: "Coral"},
		{Key: "updated_at", Value: at},
	}}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("update = %v, want %v", got, want)
	}
}

func TestMapError(t *testing.T) {
	if mapError(nil) != nil {
		t.Error("nil should stay nil")
	}
	if !errors.Is(mapError(mongo.ErrNoDocuments), global.ErrNotFound) {
		t.Error("ErrNoDocuments should map to ErrNotFound")
	}
	dup := mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000, Message: "E11000 duplicate key"}}}
	if !errors.Is(mapError(dup), global.ErrConflict) {
		t.Error("duplicate key should map to ErrConflict")
	}
	other := fmt.Errorf("boom")
	if mapError(other) != other {
		t.Error("unknown errors pass through")
	}
}

func TestRequiredIndexesCoverKnownCollections(t *testing.T) {
	known := map[string]bool{
		usersCollection: true, productsCollection: true, ordersCollection: true,
		reviewsCollection: true, blogsCollection: true, inventoryLogsCollection: true,
	}
	for _, idx := range requiredIndexes {
		if !known[idx.CollectionName] {
			t.Errorf("index on unknown collection %q", idx.CollectionName)
		}
		if idx.IndexModel.Options == nil {
			t.Errorf("index on %s has no name", idx.CollectionName)
		}
	}
}
