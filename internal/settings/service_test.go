package settings

import (
	"context"
	"errors"
	"testing"

	"storefront/internal/apperr"
	"storefront/internal/models"
	"storefront/internal/store"
)

func newTestService() *Service {
	return NewService(store.NewBinCollection[models.Settings](&store.MemoryBin{}), models.Settings{
		StoreName:      "Luxe",
		WhatsAppNumber: "9647700000000",
		ShippingFee:    5000,
	})
}

func ptr[T any](v T) *T { return &v }

func TestGetReturnsDefaultsWhenEmpty(t *testing.T) {
	svc := newTestService()
	got, err := svc.Get(context.Background())
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.StoreName != "Luxe" || got.ShippingFee != 5000 {
		t.Fatalf("unexpected defaults %+v", got)
	}
}

func TestUpdatePreservesUntouchedFields(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	if _, err := svc.Update(ctx, Patch{StoreName: ptr("Maison Noor"), Announcement: ptr("شحن مجاني")}); err != nil {
		t.Fatalf("first update: %v", err)
	}
	got, err := svc.Update(ctx, Patch{ShippingFee: ptr(7500.0)})
	if err != nil {
		t.Fatalf("second update: %v", err)
	}

	if got.StoreName != "Maison Noor" || got.Announcement != "شحن مجاني" {
		t.Fatalf("untouched fields changed: %+v", got)
	}
	if got.ShippingFee != 7500 {
		t.Fatalf("expected shipping fee 7500, got %v", got.ShippingFee)
	}

	fee, _ := svc.ShippingFee(ctx)
	if fee != 7500 {
		t.Fatalf("expected stored fee 7500, got %v", fee)
	}
}

func TestUpdateCanZeroFields(t *testing.T) {
	svc := newTestService()
	got, err := svc.Update(context.Background(), Patch{ShippingFee: ptr(0.0), SalesMode: ptr(true)})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.ShippingFee != 0 || !got.SalesMode {
		t.Fatalf("unexpected settings %+v", got)
	}
}

func TestUpdateValidation(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	_, err := svc.Update(ctx, Patch{AdminEmail: ptr("not-an-email")})
	var verr *apperr.ValidationError
	if !errors.As(err, &verr) || verr.Field != "adminEmail" {
		t.Fatalf("expected adminEmail validation error, got %v", err)
	}

	if _, err := svc.Update(ctx, Patch{ShippingFee: ptr(-1.0)}); !errors.As(err, &verr) || verr.Field != "shippingFee" {
		t.Fatalf("expected shippingFee validation error, got %v", err)
	}

	got, _ := svc.Get(ctx)
	if got.ShippingFee != 5000 {
		t.Fatalf("rejected patch must not be stored, got %+v", got)
	}
}

func TestPublicHidesAdminEmail(t *testing.T) {
	svc := newTestService()
	got, err := svc.Update(context.Background(), Patch{AdminEmail: ptr("owner@example.com")})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.Public().AdminEmail != "" {
		t.Fatal("public settings must not expose the admin email")
	}
}
