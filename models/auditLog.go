package models

import (
	"context"
	"encoding/json"
	"time"

	"bitbucket.org/mmdatafocus/pawnshop_backend/config"
	"bitbucket.org/mmdatafocus/pawnshop_backend/utils"
)

type AuditLog struct {
	ID        int       `gorm:"primary_key" json:"id"`
	TableName string    `gorm:"size:50;not null;index" json:"table_name"`
	RecordId  int       `gorm:"not null;index" json:"record_id"`
	Action    string    `gorm:"size:50;not null" json:"action"`
	ChangedBy string    `gorm:"size:36" json:"changed_by"`
	Payload   string    `gorm:"type:text" json:"payload"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// WriteAuditLog records a lifecycle transition. Audit writes never fail the
// calling operation, errors are logged and dropped.
func WriteAuditLog(ctx context.Context, tableName string, recordId int, action string, payload map[string]interface{}) {
	logger := config.GetLogger()

	changedBy, _ := utils.GetProfileIdFromContext(ctx)

	var payloadJSON string
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			config.LogError(logger, "auditLog", "WriteAuditLog", "payload marshal failed", payload, err)
		} else {
			payloadJSON = string(raw)
		}
	}

	entry := AuditLog{
		TableName: tableName,
		RecordId:  recordId,
		Action:    action,
		ChangedBy: changedBy,
		Payload:   payloadJSON,
	}
	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&entry).Error; err != nil {
		config.LogError(logger, "auditLog", "WriteAuditLog", "insert failed", entry, err)
	}
}
