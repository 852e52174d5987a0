package models

import (
	"strings"
	"time"
	"unicode"
)

// UserIDPrefix prefixes the phone digits to build a customer id.
const UserIDPrefix = "USER-"

// User is the lightweight customer identity created at checkout or when a
// Dubai request is submitted.
type User struct {
	ID        string    `bson:"_id" json:"id"`
	Name      string    `bson:"name" json:"name"`
	Phone     string    `bson:"phone" json:"phone"`
	Address   string    `bson:"address,omitempty" json:"address,omitempty"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
	// ClaimedAt is set when the first customer session is issued.
	ClaimedAt *time.Time `bson:"claimedAt,omitempty" json:"claimedAt,omitempty"`
}

func (u User) Key() string {
	return u.ID
}

// PhoneDigits keeps only the ASCII and Arabic-Indic digits of a phone number,
// converted to ASCII.
func PhoneDigits(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if !unicode.IsDigit(r) {
			continue
		}
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r >= '٠' && r <= '٩':
			b.WriteRune('0' + (r - '٠'))
		case r >= '۰' && r <= '۹':
			b.WriteRune('0' + (r - '۰'))
		}
	}
	return b.String()
}

// UserIDFromPhone derives the deterministic customer id. It returns "" when
// the phone contains no digits.
func UserIDFromPhone(phone string) string {
	digits := PhoneDigits(phone)
	if digits == "" {
		return ""
	}
	return UserIDPrefix + digits
}

// Viewer identifies who is asking for a listing. It is built from a verified
// session token, never from client-supplied flags.
type Viewer struct {
	UserID string
	Admin  bool
}

// Sees reports whether the viewer may see a record owned by userID.
func (v Viewer) Sees(userID string) bool {
	return v.Admin || (v.UserID != "" && v.UserID == userID)
}
