package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"storefront/internal/apperr"
	"storefront/internal/models"
	"storefront/internal/store"
)

const (
	RoleAdmin    = "admin"
	RoleCustomer = "customer"
)

const minPasswordLength = 8

var ErrInvalidToken = errors.New("invalid token")

// Claims are carried by every token the service issues.
type Claims struct {
	Role   string `json:"role"`
	UserID string `json:"userId,omitempty"`
	Email  string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// Viewer is the listing identity the claims grant.
func (c *Claims) Viewer() models.Viewer {
	return models.Viewer{UserID: c.UserID, Admin: c.Role == RoleAdmin}
}

// Token is a signed token and its expiry.
type Token struct {
	Value     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Service issues and verifies session tokens and owns the admin credential
// and the customer identities.
type Service struct {
	admins      store.Collection[models.Admin]
	users       store.Collection[models.User]
	secret      []byte
	adminTTL    time.Duration
	customerTTL time.Duration
	validate    *validator.Validate
	now         func() time.Time
}

func NewService(admins store.Collection[models.Admin], users store.Collection[models.User], secret string, adminTTL, customerTTL time.Duration) *Service {
	return &Service{
		admins:      admins,
		users:       users,
		secret:      []byte(secret),
		adminTTL:    adminTTL,
		customerTTL: customerTTL,
		validate:    validator.New(),
		now:         time.Now,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// SeedAdmin stores the initial admin credential unless one exists already.
func (s *Service) SeedAdmin(ctx context.Context, email, password string) error {
	_, err := s.admins.Get(ctx, models.AdminKey)
	if err == nil {
		return nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("load admin: %w", err)
	}

	if strings.TrimSpace(email) == "" || password == "" {
		log.Println("[AUTH] [WARN] no admin credential stored and ADMIN_EMAIL/ADMIN_PASSWORD unset; admin login disabled")
		return nil
	}
	if err := s.putAdmin(ctx, email, password); err != nil {
		return err
	}
	log.Println("[AUTH] [INFO] admin credential seeded for", normalizeEmail(email))
	return nil
}

func (s *Service) checkCredentials(email, password string) error {
	if err := s.validate.Var(normalizeEmail(email), "required,email"); err != nil {
		return apperr.Invalid("email", "must be a valid email address")
	}
	if len(password) < minPasswordLength {
		return apperr.Invalid("password", fmt.Sprintf("must be at least %d characters", minPasswordLength))
	}
	return nil
}

func (s *Service) putAdmin(ctx context.Context, email, password string) error {
	if err := s.checkCredentials(email, password); err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	admin := models.Admin{
		ID:           models.AdminKey,
		Email:        normalizeEmail(email),
		PasswordHash: string(hash),
		UpdatedAt:    s.now().UTC(),
	}
	if err := s.admins.Put(ctx, admin); err != nil {
		return fmt.Errorf("save admin: %w", err)
	}
	return nil
}

func (s *Service) verifyAdmin(ctx context.Context, email, password string) (models.Admin, error) {
	admin, err := s.admins.Get(ctx, models.AdminKey)
	if errors.Is(err, store.ErrNotFound) {
		return models.Admin{}, apperr.ErrInvalidCredentials
	}
	if err != nil {
		return models.Admin{}, fmt.Errorf("load admin: %w", err)
	}
	if admin.Email != normalizeEmail(email) {
		return models.Admin{}, apperr.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)); err != nil {
		return models.Admin{}, apperr.ErrInvalidCredentials
	}
	return admin, nil
}

// AdminLogin checks the credential and returns an admin token.
func (s *Service) AdminLogin(ctx context.Context, email, password string) (Token, error) {
	admin, err := s.verifyAdmin(ctx, email, password)
	if err != nil {
		return Token{}, err
	}
	return s.sign(Claims{Role: RoleAdmin, Email: admin.Email}, admin.ID, s.adminTTL)
}

// ChangeCredentials replaces the admin email and password after checking the
// current password.
func (s *Service) ChangeCredentials(ctx context.Context, currentPassword, email, password string) error {
	admin, err := s.admins.Get(ctx, models.AdminKey)
	if err != nil {
		return fmt.Errorf("load admin: %w", err)
	}
	if _, err := s.verifyAdmin(ctx, admin.Email, currentPassword); err != nil {
		return err
	}
	if err := s.putAdmin(ctx, email, password); err != nil {
		return err
	}
	log.Println("[AUTH] [INFO] admin credential changed")
	return nil
}

// RecordCustomer creates the customer identity derived from phone on first
// use. An existing identity keeps its name and address; only blank fields are
// filled, since the caller is not authenticated.
func (s *Service) RecordCustomer(ctx context.Context, name, phone, address string) (models.User, error) {
	id := models.UserIDFromPhone(phone)
	if id == "" {
		return models.User{}, apperr.Invalid("phone", "must contain digits")
	}

	name, phone, address = strings.TrimSpace(name), strings.TrimSpace(phone), strings.TrimSpace(address)
	now := s.now().UTC()

	user, err := store.Update(ctx, s.users, id, func(u *models.User) error {
		if u.Name == "" {
			u.Name = name
		}
		if u.Address == "" {
			u.Address = address
		}
		u.UpdatedAt = now
		return nil
	})
	if !errors.Is(err, store.ErrNotFound) {
		if err != nil {
			return models.User{}, fmt.Errorf("update user: %w", err)
		}
		return user, nil
	}

	user = models.User{ID: id, Name: name, Phone: phone, Address: address, CreatedAt: now, UpdatedAt: now}
	if err := s.users.Put(ctx, user); err != nil {
		return models.User{}, fmt.Errorf("save user: %w", err)
	}
	return user, nil
}

var errAlreadyClaimed = errors.New("customer already claimed")

// claimCustomer marks userID as owned by the first session ever issued for
// it. It reports false when a session was issued before.
func (s *Service) claimCustomer(ctx context.Context, userID string) (bool, error) {
	_, err := store.Update(ctx, s.users, userID, func(u *models.User) error {
		if u.ClaimedAt != nil {
			return errAlreadyClaimed
		}
		now := s.now().UTC()
		u.ClaimedAt = &now
		return nil
	})
	switch {
	case errors.Is(err, errAlreadyClaimed):
		return false, nil
	case err != nil:
		return false, fmt.Errorf("claim user: %w", err)
	}
	return true, nil
}

// SessionFor returns a customer token for userID after a checkout or request
// submission, or nil when the caller has not proven it owns that identity.
// The caller owns it when it already holds a token for userID, or when this
// is the first session issued for the identity.
func (s *Service) SessionFor(ctx context.Context, viewer models.Viewer, userID string) (*Token, error) {
	if viewer.UserID == "" || viewer.UserID != userID {
		claimed, err := s.claimCustomer(ctx, userID)
		if err != nil {
			return nil, err
		}
		if !claimed {
			log.Printf("[AUTH] [WARN] no session issued for %s: identity already claimed", userID)
			return nil, nil
		}
	}
	token, err := s.IssueCustomerToken(userID)
	if err != nil {
		return nil, err
	}
	return &token, nil
}

func (s *Service) User(ctx context.Context, id string) (models.User, error) {
	return s.users.Get(ctx, id)
}

// IssueCustomerToken returns a token scoped to userID.
func (s *Service) IssueCustomerToken(userID string) (Token, error) {
	if strings.TrimSpace(userID) == "" {
		return Token{}, apperr.Invalid("userId", "is required")
	}
	return s.sign(Claims{Role: RoleCustomer, UserID: userID}, userID, s.customerTTL)
}

func (s *Service) sign(claims Claims, subject string, ttl time.Duration) (Token, error) {
	now := s.now()
	expires := now.Add(ttl)
	claims.RegisteredClaims = jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expires),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return Token{}, fmt.Errorf("sign token: %w", err)
	}
	return Token{Value: signed, ExpiresAt: expires}, nil
}

// Parse verifies the signature and expiry of raw and returns its claims.
func (s *Service) Parse(raw string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	switch claims.Role {
	case RoleAdmin:
	case RoleCustomer:
		if claims.UserID == "" {
			return nil, fmt.Errorf("%w: customer token without userId", ErrInvalidToken)
		}
	default:
		return nil, fmt.Errorf("%w: unknown role %q", ErrInvalidToken, claims.Role)
	}
	return claims, nil
}
