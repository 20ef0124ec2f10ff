package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Customer status constants
const (
	CustomerStatusActive   = "ACTIVE"
	CustomerStatusInactive = "INACTIVE"
)

// CustomerSourceLead is the source value stamped on customers derived
// from a converted lead.
const CustomerSourceLead = "lead"

// Customer represents a contact with an active or inactive commercial
// relationship, possibly derived from a converted Lead.
type Customer struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Name    string `gorm:"not null" json:"name"`
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Company string `json:"company,omitempty"`
	Source  string `gorm:"default:lead" json:"source"`

	Status string `gorm:"not null;default:ACTIVE;index" json:"status"`

	AssignedToID *string `gorm:"type:uuid;index" json:"assigned_to_id,omitempty"`
	AssignedTo   *User   `gorm:"foreignKey:AssignedToID" json:"assigned_to,omitempty"`

	Notes        []Note        `gorm:"foreignKey:CustomerID" json:"notes,omitempty"`
	Interactions []Interaction `gorm:"foreignKey:CustomerID" json:"interactions,omitempty"`

	IsDeleted bool `gorm:"not null;default:false;index" json:"is_deleted"`

	// Set when the customer was produced by a lead conversion. The unique
	// index guarantees at most one derived customer per lead even if two
	// conversions race, and lets a retry after a partial failure find the
	// customer that was already created.
	SourceLeadID *string `gorm:"type:uuid;uniqueIndex" json:"source_lead_id,omitempty"`
}

// BeforeCreate hook to generate UUID
func (c *Customer) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for Customer model
func (Customer) TableName() string {
	return "customers"
}

// IsValidCustomerStatus checks if the status is valid
func IsValidCustomerStatus(status string) bool {
	return status == CustomerStatusActive || status == CustomerStatusInactive
}
