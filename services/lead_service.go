package services

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"ai_crm_app_go/models"

	"gorm.io/gorm"
)

// Error kinds surfaced by the lead lifecycle
var (
	ErrLeadNotFound     = errors.New("lead not found")
	ErrCustomerNotFound = errors.New("customer not found")
	ErrInvalidStatus    = errors.New("invalid lead status")
	// ErrTerminalStatus is returned for any transition attempt on a lead
	// already in CONVERTED or LOST
	ErrTerminalStatus = errors.New("lead is in a terminal status")
	// ErrConvertViaStatus is returned when a caller tries to set CONVERTED
	// through the plain status update; conversion must go through Convert
	ErrConvertViaStatus = errors.New("status CONVERTED can only be reached through conversion")
)

// Convert step identifiers carried by ConvertError
const (
	ConvertStepCreateCustomer = "create_customer"
	ConvertStepUpdateLead     = "update_lead"
)

// ConvertError wraps a persistence failure during conversion with the
// identity of the failing step, so a caller can decide whether a safe
// retry (re-checking for an existing derived customer first) is possible.
type ConvertError struct {
	Step string
	Err  error
}

func (e *ConvertError) Error() string {
	return fmt.Sprintf("lead conversion failed at %s: %v", e.Step, e.Err)
}

func (e *ConvertError) Unwrap() error {
	return e.Err
}

// ConvertResult is the outcome of a (possibly idempotent) conversion
type ConvertResult struct {
	Converted bool             `json:"converted"`
	Customer  *models.Customer `json:"customer"`
	Message   string           `json:"message,omitempty"`
}

// CreateLead persists a new lead after validating required fields
func CreateLead(db *gorm.DB, lead *models.Lead) error {
	if strings.TrimSpace(lead.Name) == "" {
		return fmt.Errorf("lead name is required")
	}
	if lead.Status == "" {
		lead.Status = models.LeadStatusNew
	}
	if !models.IsValidLeadStatus(lead.Status) {
		return ErrInvalidStatus
	}
	if err := db.Create(lead).Error; err != nil {
		return fmt.Errorf("failed to create lead: %w", err)
	}
	return nil
}

// GetLeadByID fetches a lead by id. With excludeDeleted, soft-deleted
// leads are treated as absent; without it, the record stays addressable
// for audit.
func GetLeadByID(db *gorm.DB, id string, excludeDeleted bool) (*models.Lead, error) {
	var lead models.Lead
	query := db.Preload("AssignedTo").Preload("Notes", func(db *gorm.DB) *gorm.DB {
		return db.Order("notes.created_at ASC")
	})
	if excludeDeleted {
		query = query.Where("is_deleted = ?", false)
	}
	if err := query.First(&lead, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLeadNotFound
		}
		return nil, fmt.Errorf("failed to fetch lead: %w", err)
	}
	return &lead, nil
}

// LeadPatch holds the updatable lead fields; nil means "leave unchanged"
type LeadPatch struct {
	Name         *string `json:"name"`
	Email        *string `json:"email"`
	Phone        *string `json:"phone"`
	Company      *string `json:"company"`
	Source       *string `json:"source"`
	Interest     *string `json:"interest"`
	AssignedToID *string `json:"assigned_to_id"`
}

// UpdateLead applies a patch to a non-deleted lead. Status is not part
// of the patch; transitions go through UpdateLeadStatus or Convert.
func UpdateLead(db *gorm.DB, id string, patch LeadPatch) (*models.Lead, error) {
	lead, err := GetLeadByID(db, id, true)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if patch.Name != nil {
		if strings.TrimSpace(*patch.Name) == "" {
			return nil, fmt.Errorf("lead name is required")
		}
		updates["name"] = *patch.Name
	}
	if patch.Email != nil {
		updates["email"] = *patch.Email
	}
	if patch.Phone != nil {
		updates["phone"] = *patch.Phone
	}
	if patch.Company != nil {
		updates["company"] = *patch.Company
	}
	if patch.Source != nil {
		updates["source"] = *patch.Source
	}
	if patch.Interest != nil {
		updates["interest"] = *patch.Interest
	}
	if patch.AssignedToID != nil {
		updates["assigned_to_id"] = *patch.AssignedToID
	}

	if len(updates) > 0 {
		if err := db.Model(lead).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update lead: %w", err)
		}
	}
	return lead, nil
}

// UpdateLeadStatus performs a guarded status transition. Any caller may
// move between non-terminal statuses; LOST may be set directly as a
// terminal state; CONVERTED is reachable only through Convert. Once a
// lead is terminal no further transition is permitted.
func UpdateLeadStatus(db *gorm.DB, id string, newStatus string) (*models.Lead, error) {
	if !models.IsValidLeadStatus(newStatus) {
		return nil, ErrInvalidStatus
	}
	if newStatus == models.LeadStatusConverted {
		return nil, ErrConvertViaStatus
	}

	lead, err := GetLeadByID(db, id, true)
	if err != nil {
		return nil, err
	}
	if lead.IsTerminal() {
		return nil, ErrTerminalStatus
	}

	// Guarded write: the status predicate rejects a concurrent move into
	// a terminal state between our read and this update
	result := db.Model(&models.Lead{}).
		Where("id = ? AND status NOT IN ?", id, []string{models.LeadStatusConverted, models.LeadStatusLost}).
		Update("status", newStatus)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to update lead status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrTerminalStatus
	}

	lead.Status = newStatus
	return lead, nil
}

// SoftDeleteLead marks a lead as deleted; the record remains
// addressable by id for audit
func SoftDeleteLead(db *gorm.DB, id string) error {
	result := db.Model(&models.Lead{}).Where("id = ?", id).Update("is_deleted", true)
	if result.Error != nil {
		return fmt.Errorf("failed to delete lead: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrLeadNotFound
	}
	return nil
}

// AddLeadNote appends a note to a non-deleted lead
func AddLeadNote(db *gorm.DB, leadID, text, addedByID string) (*models.Note, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("note text is required")
	}
	if _, err := GetLeadByID(db, leadID, true); err != nil {
		return nil, err
	}

	note := &models.Note{
		LeadID: &leadID,
		Text:   SanitizeText(text),
	}
	if addedByID != "" {
		note.AddedByID = &addedByID
	}
	if err := db.Create(note).Error; err != nil {
		return nil, fmt.Errorf("failed to add note: %w", err)
	}
	return note, nil
}

// ListQuery holds pagination, search, filter and sort parameters
type ListQuery struct {
	Page         int
	Limit        int
	Search       string
	Status       string
	Source       string
	AssignedToID string
	SortBy       string // "field:asc" or "field:desc"
}

// ListResult is a paginated listing
type ListResult[T any] struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int   `json:"pages"`
	Items []T   `json:"items"`
}

// leadSortFields whitelists the sortable columns
var leadSortFields = map[string]bool{
	"name": true, "email": true, "company": true, "source": true,
	"status": true, "created_at": true, "updated_at": true,
}

func normalizeListQuery(q *ListQuery) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = 20
	}
	if q.Limit > 100 {
		q.Limit = 100
	}
}

func orderClause(sortBy string, allowed map[string]bool, fallback string) string {
	if sortBy == "" {
		return fallback
	}
	field, dir, _ := strings.Cut(sortBy, ":")
	if !allowed[field] {
		return fallback
	}
	if dir == "desc" {
		return field + " DESC"
	}
	return field + " ASC"
}

// ListLeads returns non-deleted leads with pagination, search over
// name/email/phone/company, status/source/assignee filters and sorting
func ListLeads(db *gorm.DB, q ListQuery) (*ListResult[models.Lead], error) {
	normalizeListQuery(&q)

	query := db.Model(&models.Lead{}).Where("is_deleted = ?", false)
	if q.Status != "" {
		query = query.Where("status = ?", q.Status)
	}
	if q.Source != "" {
		query = query.Where("source = ?", q.Source)
	}
	if q.AssignedToID != "" {
		query = query.Where("assigned_to_id = ?", q.AssignedToID)
	}
	if q.Search != "" {
		pattern := "%" + q.Search + "%"
		query = query.Where("name LIKE ? OR email LIKE ? OR phone LIKE ? OR company LIKE ?",
			pattern, pattern, pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count leads: %w", err)
	}

	var leads []models.Lead
	err := query.Preload("AssignedTo").
		Order(orderClause(q.SortBy, leadSortFields, "created_at DESC")).
		Offset((q.Page - 1) * q.Limit).
		Limit(q.Limit).
		Find(&leads).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list leads: %w", err)
	}

	return &ListResult[models.Lead]{
		Page:  q.Page,
		Limit: q.Limit,
		Total: total,
		Pages: int(math.Ceil(float64(total) / float64(q.Limit))),
		Items: leads,
	}, nil
}

// ConvertLeadToCustomer converts a lead into a customer exactly once.
//
// The fast path is read-only and idempotent: a lead already CONVERTED
// returns its existing customer without creating anything or touching
// the lead again. Otherwise the conversion runs in a transaction with
// an atomic compare-and-set on the lead status as the exclusive gate,
// so two concurrent calls cannot both proceed to customer creation.
// Customers derived from a lead carry a unique source_lead_id
// back-reference; should a retry ever race past the gate, the unique
// index rejects the duplicate and the existing customer is returned.
func ConvertLeadToCustomer(db *gorm.DB, leadID string) (*ConvertResult, error) {
	lead, err := GetLeadByID(db, leadID, true)
	if err != nil {
		return nil, err
	}

	// Idempotent fast path: already converted
	if lead.Status == models.LeadStatusConverted && lead.ConvertedTo != nil {
		existing, err := GetCustomerByID(db, *lead.ConvertedTo, false)
		if err != nil {
			return nil, err
		}
		return &ConvertResult{Converted: false, Customer: existing, Message: "Already converted"}, nil
	}
	if lead.IsTerminal() {
		return nil, ErrTerminalStatus
	}

	var customer *models.Customer
	txErr := db.Transaction(func(tx *gorm.DB) error {
		// Atomic gate: move the lead out of the non-terminal set before
		// creating the customer. A concurrent converter loses this race
		// and sees zero rows affected.
		gate := tx.Model(&models.Lead{}).
			Where("id = ? AND status NOT IN ?", leadID,
				[]string{models.LeadStatusConverted, models.LeadStatusLost}).
			Update("status", models.LeadStatusConverted)
		if gate.Error != nil {
			return &ConvertError{Step: ConvertStepUpdateLead, Err: gate.Error}
		}
		if gate.RowsAffected == 0 {
			return ErrTerminalStatus
		}

		// Snapshot the lead into a new customer
		customer = &models.Customer{
			Name:         lead.Name,
			Email:        lead.Email,
			Phone:        lead.Phone,
			Company:      lead.Company,
			Source:       models.CustomerSourceLead,
			Status:       models.CustomerStatusActive,
			AssignedToID: lead.AssignedToID,
			SourceLeadID: &lead.ID,
		}
		if err := tx.Create(customer).Error; err != nil {
			return &ConvertError{Step: ConvertStepCreateCustomer, Err: err}
		}

		// Copy the lead's notes onto the customer
		for _, note := range lead.Notes {
			copied := models.Note{
				CustomerID: &customer.ID,
				Text:       note.Text,
				AddedByID:  note.AddedByID,
				CreatedAt:  note.CreatedAt,
			}
			if err := tx.Create(&copied).Error; err != nil {
				return &ConvertError{Step: ConvertStepCreateCustomer, Err: err}
			}
		}

		// Record the back-reference on the lead
		if err := tx.Model(&models.Lead{}).Where("id = ?", leadID).
			Update("converted_to", customer.ID).Error; err != nil {
			return &ConvertError{Step: ConvertStepUpdateLead, Err: err}
		}
		return nil
	})

	if txErr != nil {
		// A lost race is not a failure: resolve the customer the winner
		// created, either via the lead back-reference or the unique
		// source_lead_id correlation.
		if errors.Is(txErr, ErrTerminalStatus) {
			if existing, findErr := findCustomerBySourceLead(db, leadID); findErr == nil {
				return &ConvertResult{Converted: false, Customer: existing, Message: "Already converted"}, nil
			}
			return nil, ErrTerminalStatus
		}
		return nil, txErr
	}

	return &ConvertResult{Converted: true, Customer: customer}, nil
}

// findCustomerBySourceLead resolves the customer derived from a lead
// via the unique back-reference established at creation time
func findCustomerBySourceLead(db *gorm.DB, leadID string) (*models.Customer, error) {
	var customer models.Customer
	if err := db.First(&customer, "source_lead_id = ?", leadID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, fmt.Errorf("failed to fetch derived customer: %w", err)
	}
	return &customer, nil
}
