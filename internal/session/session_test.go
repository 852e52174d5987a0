package session

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"storefront/internal/apperr"
	"storefront/internal/models"
	"storefront/internal/store"
)

func newTestService(t *testing.T) (*Service, store.Collection[models.Admin]) {
	t.Helper()
	admins := store.NewBinCollection[models.Admin](&store.MemoryBin{})
	users := store.NewBinCollection[models.User](&store.MemoryBin{})
	return NewService(admins, users, "test-secret", time.Hour, 24*time.Hour), admins
}

func TestSeedAdminStoresHashOnce(t *testing.T) {
	svc, admins := newTestService(t)
	ctx := context.Background()

	if err := svc.SeedAdmin(ctx, "Owner@Example.com ", "s3cret-pass"); err != nil {
		t.Fatalf("seed: %v", err)
	}
	stored, err := admins.Get(ctx, models.AdminKey)
	if err != nil {
		t.Fatalf("load admin: %v", err)
	}
	if stored.Email != "owner@example.com" {
		t.Fatalf("expected normalized email, got %q", stored.Email)
	}
	if stored.PasswordHash == "" || strings.Contains(stored.PasswordHash, "s3cret-pass") {
		t.Fatal("password must be stored hashed")
	}

	if err := svc.SeedAdmin(ctx, "other@example.com", "another-pass"); err != nil {
		t.Fatalf("second seed: %v", err)
	}
	again, _ := admins.Get(ctx, models.AdminKey)
	if again.Email != "owner@example.com" {
		t.Fatal("seeding must not overwrite an existing credential")
	}
}

func TestAdminLogin(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	if err := svc.SeedAdmin(ctx, "owner@example.com", "s3cret-pass"); err != nil {
		t.Fatalf("seed: %v", err)
	}

	if _, err := svc.AdminLogin(ctx, "owner@example.com", "wrong-pass"); !errors.Is(err, apperr.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}

	token, err := svc.AdminLogin(ctx, "OWNER@example.com", "s3cret-pass")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	claims, err := svc.Parse(token.Value)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.Role != RoleAdmin || !claims.Viewer().Admin {
		t.Fatalf("unexpected claims %+v", claims)
	}
}

func TestLoginWithoutSeededAdminFails(t *testing.T) {
	svc, _ := newTestService(t)
	if err := svc.SeedAdmin(context.Background(), "", ""); err != nil {
		t.Fatalf("seed with empty env should not fail: %v", err)
	}
	if _, err := svc.AdminLogin(context.Background(), "a@b.co", "whatever1"); !errors.Is(err, apperr.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestChangeCredentials(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	svc.SeedAdmin(ctx, "owner@example.com", "s3cret-pass")

	var verr *apperr.ValidationError
	if err := svc.ChangeCredentials(ctx, "s3cret-pass", "new@example.com", "short"); !errors.As(err, &verr) || verr.Field != "password" {
		t.Fatalf("expected password validation error, got %v", err)
	}
	if err := svc.ChangeCredentials(ctx, "s3cret-pass", "nope", "long-enough-pass"); !errors.As(err, &verr) || verr.Field != "email" {
		t.Fatalf("expected email validation error, got %v", err)
	}
	if err := svc.ChangeCredentials(ctx, "bad-current", "new@example.com", "long-enough-pass"); !errors.Is(err, apperr.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}

	if err := svc.ChangeCredentials(ctx, "s3cret-pass", "new@example.com", "long-enough-pass"); err != nil {
		t.Fatalf("change: %v", err)
	}
	if _, err := svc.AdminLogin(ctx, "owner@example.com", "s3cret-pass"); err == nil {
		t.Fatal("old credential must stop working")
	}
	if _, err := svc.AdminLogin(ctx, "new@example.com", "long-enough-pass"); err != nil {
		t.Fatalf("new credential: %v", err)
	}
}

func TestRecordCustomerKeepsExistingDetails(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	first, err := svc.RecordCustomer(ctx, "Ali", "0770-123-4567", "Basra")
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if first.ID != "USER-07701234567" {
		t.Fatalf("unexpected id %q", first.ID)
	}

	second, err := svc.RecordCustomer(ctx, "Someone Else", "07701234567", "Attacker Street")
	if err != nil {
		t.Fatalf("record again: %v", err)
	}
	if second.ID != first.ID || second.Name != "Ali" || second.Address != "Basra" {
		t.Fatalf("existing details were overwritten: %+v", second)
	}
	if !second.CreatedAt.Equal(first.CreatedAt) {
		t.Fatal("createdAt must survive an upsert")
	}

	if _, err := svc.RecordCustomer(ctx, "x", "no digits", ""); err == nil {
		t.Fatal("expected error for phone without digits")
	}
}

func TestRecordCustomerFillsBlankAddress(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.RecordCustomer(ctx, "Sara", "0780", ""); err != nil {
		t.Fatalf("record: %v", err)
	}
	user, err := svc.RecordCustomer(ctx, "Sara", "0780", "Erbil")
	if err != nil {
		t.Fatalf("record again: %v", err)
	}
	if user.Address != "Erbil" {
		t.Fatalf("blank address should be filled, got %q", user.Address)
	}
}

func TestSessionForOnlyFirstClaimantOrHolder(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	user, err := svc.RecordCustomer(ctx, "Ali", "0770", "Basra")
	if err != nil {
		t.Fatalf("record: %v", err)
	}

	first, err := svc.SessionFor(ctx, models.Viewer{}, user.ID)
	if err != nil || first == nil {
		t.Fatalf("first session: token=%v err=%v", first, err)
	}

	stranger, err := svc.SessionFor(ctx, models.Viewer{}, user.ID)
	if err != nil {
		t.Fatalf("stranger: %v", err)
	}
	if stranger != nil {
		t.Fatal("an anonymous caller must not receive a token for a claimed identity")
	}

	other, err := svc.SessionFor(ctx, models.Viewer{UserID: "USER-999"}, user.ID)
	if err != nil || other != nil {
		t.Fatalf("holder of another identity got token=%v err=%v", other, err)
	}

	claims, err := svc.Parse(first.Value)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	renewed, err := svc.SessionFor(ctx, claims.Viewer(), user.ID)
	if err != nil || renewed == nil {
		t.Fatalf("holder renewal: token=%v err=%v", renewed, err)
	}
}

func TestCustomerTokenRoundTrip(t *testing.T) {
	svc, _ := newTestService(t)

	token, err := svc.IssueCustomerToken("USER-111")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	claims, err := svc.Parse(token.Value)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	viewer := claims.Viewer()
	if viewer.Admin || viewer.UserID != "USER-111" {
		t.Fatalf("unexpected viewer %+v", viewer)
	}
}

func TestParseRejectsForeignAndExpiredTokens(t *testing.T) {
	svc, _ := newTestService(t)
	other := NewService(nil, nil, "other-secret", time.Hour, time.Hour)

	foreign, _ := other.IssueCustomerToken("USER-1")
	if _, err := svc.Parse(foreign.Value); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for foreign signature, got %v", err)
	}

	token, _ := svc.IssueCustomerToken("USER-1")
	svc.now = func() time.Time { return time.Now().Add(48 * time.Hour) }
	if _, err := svc.Parse(token.Value); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for expired token, got %v", err)
	}

	if _, err := svc.Parse("garbage"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}
