package services

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"ai_crm_app_go/models"

	"gorm.io/gorm"
)

var ErrInteractionNotFound = errors.New("interaction not found")

// CreateCustomer persists a directly-created customer (as opposed to
// one derived from a lead conversion)
func CreateCustomer(db *gorm.DB, customer *models.Customer) error {
	if strings.TrimSpace(customer.Name) == "" {
		return fmt.Errorf("customer name is required")
	}
	if customer.Status == "" {
		customer.Status = models.CustomerStatusActive
	}
	if !models.IsValidCustomerStatus(customer.Status) {
		return fmt.Errorf("invalid customer status: %s", customer.Status)
	}
	if err := db.Create(customer).Error; err != nil {
		return fmt.Errorf("failed to create customer: %w", err)
	}
	return nil
}

// GetCustomerByID fetches a customer by id, optionally treating
// soft-deleted records as absent
func GetCustomerByID(db *gorm.DB, id string, excludeDeleted bool) (*models.Customer, error) {
	var customer models.Customer
	query := db.Preload("AssignedTo").
		Preload("Notes", func(db *gorm.DB) *gorm.DB {
			return db.Order("notes.created_at ASC")
		}).
		Preload("Interactions", func(db *gorm.DB) *gorm.DB {
			return db.Order("interactions.occurred_at ASC")
		})
	if excludeDeleted {
		query = query.Where("is_deleted = ?", false)
	}
	if err := query.First(&customer, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, fmt.Errorf("failed to fetch customer: %w", err)
	}
	return &customer, nil
}

// CustomerPatch holds the updatable customer fields
type CustomerPatch struct {
	Name         *string `json:"name"`
	Email        *string `json:"email"`
	Phone        *string `json:"phone"`
	Company      *string `json:"company"`
	Status       *string `json:"status"`
	AssignedToID *string `json:"assigned_to_id"`
}

// UpdateCustomer applies a patch to a non-deleted customer
func UpdateCustomer(db *gorm.DB, id string, patch CustomerPatch) (*models.Customer, error) {
	customer, err := GetCustomerByID(db, id, true)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if patch.Name != nil {
		if strings.TrimSpace(*patch.Name) == "" {
			return nil, fmt.Errorf("customer name is required")
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
	if patch.Status != nil {
		if !models.IsValidCustomerStatus(*patch.Status) {
			return nil, fmt.Errorf("invalid customer status: %s", *patch.Status)
		}
		updates["status"] = *patch.Status
	}
	if patch.AssignedToID != nil {
		updates["assigned_to_id"] = *patch.AssignedToID
	}

	if len(updates) > 0 {
		if err := db.Model(customer).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update customer: %w", err)
		}
	}
	return customer, nil
}

// SoftDeleteCustomer marks a customer as deleted
func SoftDeleteCustomer(db *gorm.DB, id string) error {
	result := db.Model(&models.Customer{}).Where("id = ?", id).Update("is_deleted", true)
	if result.Error != nil {
		return fmt.Errorf("failed to delete customer: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrCustomerNotFound
	}
	return nil
}

// AddCustomerNote appends a note to a non-deleted customer
func AddCustomerNote(db *gorm.DB, customerID, text, addedByID string) (*models.Note, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("note text is required")
	}
	if _, err := GetCustomerByID(db, customerID, true); err != nil {
		return nil, err
	}

	note := &models.Note{
		CustomerID: &customerID,
		Text:       SanitizeText(text),
	}
	if addedByID != "" {
		note.AddedByID = &addedByID
	}
	if err := db.Create(note).Error; err != nil {
		return nil, fmt.Errorf("failed to add note: %w", err)
	}
	return note, nil
}

// AddInteraction appends a contact event to a non-deleted customer
func AddInteraction(db *gorm.DB, customerID string, interaction *models.Interaction) error {
	if !models.IsValidInteractionType(interaction.Type) {
		return fmt.Errorf("invalid interaction type: %s", interaction.Type)
	}
	if interaction.Sentiment != nil && !models.IsValidSentiment(*interaction.Sentiment) {
		return fmt.Errorf("invalid sentiment label: %s", *interaction.Sentiment)
	}
	if _, err := GetCustomerByID(db, customerID, true); err != nil {
		return err
	}

	interaction.CustomerID = customerID
	interaction.Summary = SanitizeText(interaction.Summary)
	if err := db.Create(interaction).Error; err != nil {
		return fmt.Errorf("failed to add interaction: %w", err)
	}
	return nil
}

// ListInteractions returns a customer's interactions, newest first
func ListInteractions(db *gorm.DB, customerID string) ([]models.Interaction, error) {
	if _, err := GetCustomerByID(db, customerID, true); err != nil {
		return nil, err
	}

	var interactions []models.Interaction
	err := db.Where("customer_id = ?", customerID).
		Order("occurred_at DESC").
		Find(&interactions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list interactions: %w", err)
	}
	return interactions, nil
}

// GetInteraction fetches one interaction of a customer
func GetInteraction(db *gorm.DB, customerID, interactionID string) (*models.Interaction, error) {
	var interaction models.Interaction
	err := db.First(&interaction, "id = ? AND customer_id = ?", interactionID, customerID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInteractionNotFound
		}
		return nil, fmt.Errorf("failed to fetch interaction: %w", err)
	}
	return &interaction, nil
}

// AnalyzeInteraction runs the sentiment scorer over an interaction's
// stored transcript and persists the resulting label
func AnalyzeInteraction(db *gorm.DB, customerID, interactionID string) (*models.Interaction, *SentimentResult, error) {
	interaction, err := GetInteraction(db, customerID, interactionID)
	if err != nil {
		return nil, nil, err
	}

	result := AnalyzeSentiment(interaction.Summary)
	if err := db.Model(interaction).Update("sentiment", result.OverallSentiment).Error; err != nil {
		return nil, nil, fmt.Errorf("failed to store sentiment: %w", err)
	}
	sentiment := result.OverallSentiment
	interaction.Sentiment = &sentiment
	return interaction, &result, nil
}

// AttachRecording stores the storage key and public URL of an uploaded
// call recording on an interaction
func AttachRecording(db *gorm.DB, customerID, interactionID, key, url string) (*models.Interaction, error) {
	interaction, err := GetInteraction(db, customerID, interactionID)
	if err != nil {
		return nil, err
	}
	updates := map[string]interface{}{
		"recording_key": key,
		"recording_url": url,
	}
	if err := db.Model(interaction).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to attach recording: %w", err)
	}
	interaction.RecordingKey = key
	interaction.RecordingURL = url
	return interaction, nil
}

// customerSortFields whitelists the sortable columns
var customerSortFields = map[string]bool{
	"name": true, "email": true, "company": true, "source": true,
	"status": true, "created_at": true, "updated_at": true,
}

// ListCustomers returns non-deleted customers with pagination, search
// and filters, mirroring ListLeads
func ListCustomers(db *gorm.DB, q ListQuery) (*ListResult[models.Customer], error) {
	normalizeListQuery(&q)

	query := db.Model(&models.Customer{}).Where("is_deleted = ?", false)
	if q.Status != "" {
		query = query.Where("status = ?", q.Status)
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
		return nil, fmt.Errorf("failed to count customers: %w", err)
	}

	var customers []models.Customer
	err := query.Preload("AssignedTo").
		Order(orderClause(q.SortBy, customerSortFields, "created_at DESC")).
		Offset((q.Page - 1) * q.Limit).
		Limit(q.Limit).
		Find(&customers).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}

	return &ListResult[models.Customer]{
		Page:  q.Page,
		Limit: q.Limit,
		Total: total,
		Pages: int(math.Ceil(float64(total) / float64(q.Limit))),
		Items: customers,
	}, nil
}
