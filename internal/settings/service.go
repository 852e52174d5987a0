package settings

import (
	"context"
	"errors"
	"fmt"
	"log"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"storefront/internal/apperr"
	"storefront/internal/models"
	"storefront/internal/store"
)

// Patch is a merge-patch over the settings record. Nil fields are left as
// they are.
type Patch struct {
	StoreName        *string  `json:"storeName" validate:"omitempty,max=120"`
	LogoURL          *string  `json:"logoUrl" validate:"omitempty,url"`
	WhatsAppNumber   *string  `json:"whatsappNumber" validate:"omitempty,max=32"`
	PaymentNumber    *string  `json:"paymentNumber" validate:"omitempty,max=64"`
	ShippingFee      *float64 `json:"shippingFee" validate:"omitempty,gte=0"`
	DubaiShippingETA *string  `json:"dubaiShippingEta" validate:"omitempty,max=120"`
	SalesMode        *bool    `json:"salesMode"`
	Announcement     *string  `json:"announcement" validate:"omitempty,max=500"`
	AdminEmail       *string  `json:"adminEmail" validate:"omitempty,email"`
}

func (p Patch) Apply(s *models.Settings) {
	setIf(&s.StoreName, p.StoreName)
	setIf(&s.LogoURL, p.LogoURL)
	setIf(&s.WhatsAppNumber, p.WhatsAppNumber)
	setIf(&s.PaymentNumber, p.PaymentNumber)
	setIf(&s.ShippingFee, p.ShippingFee)
	setIf(&s.DubaiShippingETA, p.DubaiShippingETA)
	setIf(&s.SalesMode, p.SalesMode)
	setIf(&s.Announcement, p.Announcement)
	setIf(&s.AdminEmail, p.AdminEmail)
}

func setIf[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validationError converts the first validator failure into a field error.
func validationError(err error) error {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) || len(errs) == 0 {
		return err
	}
	fe := errs[0]
	switch fe.Tag() {
	case "email":
		return apperr.Invalid(fe.Field(), "must be a valid email address")
	case "url":
		return apperr.Invalid(fe.Field(), "must be a valid URL")
	case "gte":
		return apperr.Invalid(fe.Field(), "must be greater than or equal to "+fe.Param())
	case "max":
		return apperr.Invalid(fe.Field(), "must be at most "+fe.Param()+" characters")
	default:
		return apperr.Invalid(fe.Field(), "is invalid")
	}
}

// Service owns the singleton settings record.
type Service struct {
	mu       sync.Mutex
	records  store.Collection[models.Settings]
	defaults models.Settings
	now      func() time.Time
}

// NewService returns a service that falls back to defaults for anything not
// stored yet.
func NewService(records store.Collection[models.Settings], defaults models.Settings) *Service {
	defaults.ID = models.SettingsKey
	return &Service{
		records:  records,
		defaults: defaults,
		now:      time.Now,
	}
}

func (s *Service) load(ctx context.Context) (models.Settings, error) {
	stored, err := s.records.Get(ctx, models.SettingsKey)
	if errors.Is(err, store.ErrNotFound) {
		return s.defaults, nil
	}
	if err != nil {
		return models.Settings{}, fmt.Errorf("load settings: %w", err)
	}

	stored.ID = models.SettingsKey
	if strings.TrimSpace(stored.StoreName) == "" {
		stored.StoreName = s.defaults.StoreName
	}
	if strings.TrimSpace(stored.WhatsAppNumber) == "" {
		stored.WhatsAppNumber = s.defaults.WhatsAppNumber
	}
	if strings.TrimSpace(stored.DubaiShippingETA) == "" {
		stored.DubaiShippingETA = s.defaults.DubaiShippingETA
	}
	return stored, nil
}

func (s *Service) Get(ctx context.Context) (models.Settings, error) {
	return s.load(ctx)
}

// Update merges patch into the stored settings. Fields absent from the patch
// keep their current value.
func (s *Service) Update(ctx context.Context, patch Patch) (models.Settings, error) {
	if err := validate.Struct(patch); err != nil {
		return models.Settings{}, validationError(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.load(ctx)
	if err != nil {
		return models.Settings{}, err
	}
	patch.Apply(&current)
	current.ID = models.SettingsKey
	current.UpdatedAt = s.now().UTC()

	if err := s.records.Put(ctx, current); err != nil {
		return models.Settings{}, fmt.Errorf("save settings: %w", err)
	}
	log.Println("[SETTINGS] [INFO] settings updated")
	return current, nil
}

// ShippingFee is the fee charged on new orders.
func (s *Service) ShippingFee(ctx context.Context) (float64, error) {
	current, err := s.load(ctx)
	if err != nil {
		return 0, err
	}
	return current.ShippingFee, nil
}
