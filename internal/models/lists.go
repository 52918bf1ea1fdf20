package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ListItem is a single entry in a shared list. Position is a fractional
// ordering key: inserting between two items takes the midpoint of their
// positions, appending takes max+1.
type ListItem struct {
	ID       string          `bson:"id" json:"id"`
	Text     string          `bson:"text" json:"text"`
	Checked  bool            `bson:"checked" json:"checked"`
	Position decimal.Decimal `bson:"position" json:"position"`
	AddedBy  string          `bson:"added_by" json:"added_by"`
}

// List is a shared checklist (groceries, packing, ...).
type List struct {
	ID        string     `bson:"_id" json:"id"`
	Title     string     `bson:"title" json:"title"`
	OwnerID   string     `bson:"owner_id" json:"owner_id"`
	CreatedBy string     `bson:"created_by" json:"created_by"`
	Items     []ListItem `bson:"items" json:"items"`
	CreatedAt time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time  `bson:"updated_at" json:"updated_at"`
}
