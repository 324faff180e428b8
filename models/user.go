// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents a registered account. The password field holds the bcrypt
// digest, never plaintext, and is excluded from every JSON response.
type User struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Username string             `bson:"username" json:"username"`
	Email    string             `bson:"email" json:"email,omitempty"`
	Password string             `bson:"password" json:"-"`
	Date     time.Time          `bson:"date" json:"date"`
}

// PublicProfile returns a copy safe to expose on the public profile
// endpoint: email stripped in addition to the password.
func (u User) PublicProfile() User {
	u.Email = ""
	u.Password = ""
	return u
}
