package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Note is an append-only free-text annotation on a lead or customer.
// Notes are never edited or removed except via soft-deletion of the
// owning entity.
type Note struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`

	// Exactly one of LeadID/CustomerID is set
	LeadID     *string `gorm:"type:uuid;index" json:"lead_id,omitempty"`
	CustomerID *string `gorm:"type:uuid;index" json:"customer_id,omitempty"`

	Text string `gorm:"type:text;not null" json:"text"`

	AddedByID *string `gorm:"type:uuid" json:"added_by_id,omitempty"`
	AddedBy   *User   `gorm:"foreignKey:AddedByID" json:"added_by,omitempty"`
}

// BeforeCreate hook to generate UUID
func (n *Note) BeforeCreate(tx *gorm.DB) error {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for Note model
func (Note) TableName() string {
	return "notes"
}
