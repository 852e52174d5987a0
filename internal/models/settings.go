package models

import "time"

// SettingsKey is the id of the single settings record.
const SettingsKey = "global"

type Settings struct {
	ID               string    `bson:"_id" json:"-"`
	StoreName        string    `bson:"storeName" json:"storeName"`
	LogoURL          string    `bson:"logoUrl,omitempty" json:"logoUrl,omitempty"`
	WhatsAppNumber   string    `bson:"whatsappNumber" json:"whatsappNumber"`
	PaymentNumber    string    `bson:"paymentNumber,omitempty" json:"paymentNumber,omitempty"`
	ShippingFee      float64   `bson:"shippingFee" json:"shippingFee"`
	DubaiShippingETA string    `bson:"dubaiShippingEta,omitempty" json:"dubaiShippingEta,omitempty"`
	SalesMode        bool      `bson:"salesMode" json:"salesMode"`
	Announcement     string    `bson:"announcement,omitempty" json:"announcement,omitempty"`
	AdminEmail       string    `bson:"adminEmail,omitempty" json:"adminEmail,omitempty"`
	UpdatedAt        time.Time `bson:"updatedAt" json:"updatedAt"`
}

func (s Settings) Key() string {
	return SettingsKey
}

// Public strips fields that only the back-office should see.
func (s Settings) Public() Settings {
	s.AdminEmail = ""
	return s
}
