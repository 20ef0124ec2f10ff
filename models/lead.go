package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Lead status constants
const (
	LeadStatusNew        = "NEW"
	LeadStatusContacted  = "CONTACTED"
	LeadStatusInterested = "INTERESTED"
	LeadStatusQualified  = "QUALIFIED"
	LeadStatusConverted  = "CONVERTED"
	LeadStatusLost       = "LOST"
)

// Lead represents a prospective contact that is not yet a customer.
// Invariant: ConvertedTo is set iff Status == CONVERTED. CONVERTED and
// LOST are terminal; no further status transition is permitted.
type Lead struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Name     string `gorm:"not null" json:"name"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Company  string `json:"company,omitempty"`
	Source   string `gorm:"default:website" json:"source"` // e.g., website, referral
	Interest string `json:"interest,omitempty"`            // product/service interested in

	Status string `gorm:"not null;default:NEW;index" json:"status"`

	// Weak reference to the owning operator; no lifecycle coupling
	AssignedToID *string `gorm:"type:uuid;index" json:"assigned_to_id,omitempty"`
	AssignedTo   *User   `gorm:"foreignKey:AssignedToID" json:"assigned_to,omitempty"`

	Notes []Note `gorm:"foreignKey:LeadID" json:"notes,omitempty"`

	// Soft delete: excluded from listings/lookups, still addressable by id for audit
	IsDeleted bool `gorm:"not null;default:false;index" json:"is_deleted"`

	// Back-reference to the customer produced by conversion
	ConvertedTo *string `gorm:"type:uuid" json:"converted_to,omitempty"`
}

// BeforeCreate hook to generate UUID
func (l *Lead) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for Lead model
func (Lead) TableName() string {
	return "leads"
}

// IsTerminal reports whether the lead has reached a terminal status
func (l *Lead) IsTerminal() bool {
	return l.Status == LeadStatusConverted || l.Status == LeadStatusLost
}

// IsConverted checks if the lead has been converted to a customer
func (l *Lead) IsConverted() bool {
	return l.Status == LeadStatusConverted
}

// IsValidLeadStatus checks if the status is valid
func IsValidLeadStatus(status string) bool {
	validStatuses := []string{
		LeadStatusNew,
		LeadStatusContacted,
		LeadStatusInterested,
		LeadStatusQualified,
		LeadStatusConverted,
		LeadStatusLost,
	}
	for _, s := range validStatuses {
		if s == status {
			return true
		}
	}
	return false
}
