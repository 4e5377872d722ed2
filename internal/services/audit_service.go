package services

import (
	"encoding/json"

	apperrors "bliq/internal/errors"
	"bliq/internal/logger"
	"bliq/internal/models"
	"bliq/internal/pagination"

	"gorm.io/gorm"
)

// Audit actions recorded by the HTTP layer.
const (
	AuditCreateTransaction  = "CREATE_TRANSACTION"
	AuditUpdateTransaction  = "UPDATE_TRANSACTION"
	AuditDeleteTransaction  = "DELETE_TRANSACTION"
	AuditConfirmTransaction = "CONFIRM_TRANSACTION"
	AuditToggleCarryOver    = "TOGGLE_CARRY_OVER"
	AuditCreateCategory     = "CREATE_CATEGORY"
	AuditDeleteCategory     = "DELETE_CATEGORY"
	AuditPasswordReset      = "PASSWORD_RESET"
)

// auditService handles audit log recording.
type auditService struct {
	db *gorm.DB
}

// NewAuditService creates a new AuditServicer.
func NewAuditService(db *gorm.DB) AuditServicer {
	return &auditService{db: db}
}

// Log records an audit event. Errors are logged but never propagate
// to avoid disrupting the main operation.
func (s *auditService) Log(userID, action, resourceType, resourceID, ipAddress string, changes map[string]interface{}) {
	var changesJSON string
	if changes != nil {
		data, err := json.Marshal(changes)
		if err != nil {
			logger.Get().Errorw("failed to marshal audit log changes", "error", err, "action", action)
			changesJSON = "{}"
		} else {
			changesJSON = string(data)
		}
	}

	entry := &models.AuditLog{
		UserID:       userID,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		IPAddress:    ipAddress,
		Changes:      changesJSON,
	}

	if err := s.db.Create(entry).Error; err != nil {
		logger.Get().Errorw("failed to create audit log entry",
			"error", err,
			"user_id", userID,
			"action", action,
			"resource_type", resourceType,
			"resource_id", resourceID,
		)
	}
}

// ListUserLogs returns the user's audit trail, newest first.
func (s *auditService) ListUserLogs(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.AuditLog], error) {
	page.Defaults()

	var total int64
	if err := s.db.Model(&models.AuditLog{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var logs []models.AuditLog
	if err := s.db.Where("user_id = ?", userID).Order("created_at DESC").Order("id DESC").Scopes(pagination.Paginate(page)).Find(&logs).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	resp := pagination.NewPageResponse(logs, page.Page, page.PageSize, total)
	return &resp, nil
}
