package models

import "time"

// AdminKey is the id of the single back-office account.
const AdminKey = "admin"

type Admin struct {
	ID           string    `bson:"_id" json:"id"`
	Email        string    `bson:"email" json:"email"`
	PasswordHash string    `bson:"passwordHash" json:"passwordHash"` // bcrypt
	UpdatedAt    time.Time `bson:"updatedAt" json:"updatedAt"`
}

func (a Admin) Key() string {
	return AdminKey
}
