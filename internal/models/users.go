package models

import "time"

// User is an account in a two-person space. Partner linking is a single
// mutual partner_user_id reference on both documents.
type User struct {
	ID            string    `bson:"_id" json:"id"`
	Email         string    `bson:"email" json:"email"`
	Name          string    `bson:"name" json:"name"`
	PartnerUserID string    `bson:"partner_user_id,omitempty" json:"partner_user_id,omitempty"`
	PushTokens    []string  `bson:"push_tokens" json:"-"`
	CreatedAt     time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt     time.Time `bson:"updated_at" json:"updated_at"`
}

// HasPartner reports whether the user is currently linked to a partner.
func (u *User) HasPartner() bool {
	return u != nil && u.PartnerUserID != ""
}

// UserUpdate is used for partial profile updates.
type UserUpdate struct {
	Name       *string  `json:"name"`
	PushTokens []string `json:"push_tokens"`
}
