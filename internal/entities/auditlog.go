package entities

import (
	"database/sql"
	"encoding/json"

	"gorm.io/gorm"
)

// ChangeRecord describes one tracked field whose value changed, with both
// values already formatted for display.
type ChangeRecord struct {
	Field string `json:"field"`
	Old   string `json:"old"`
	New   string `json:"new"`
}

type ChangeList []ChangeRecord

// Serialize renders the change list for storage in the audit log's text
// payload column.
func (c ChangeList) Serialize() (string, error) {
	b, err := json.Marshal(c)
	if err != nil {
		return "", err
	}

	return string(b), nil
}

// ParseChangeList is the inverse of Serialize. System events store a plain
// descriptive string in the payload column, those do not parse.
func ParseChangeList(payload string) (ChangeList, error) {
	var list ChangeList
	if err := json.Unmarshal([]byte(payload), &list); err != nil {
		return nil, err
	}

	return list, nil
}

// AuditLogEntry is one immutable trail entry for a payment request.
//
// This table is append only. The soft delete column comes with gorm.Model
// but is never used, no code path deletes or updates an entry.
type AuditLogEntry struct {
	gorm.Model
	PaymentRequestID uint           `gorm:"index;NOT NULL"`
	Code             string         `gorm:"uniqueIndex:idx_uq_audit_code;type:varchar(6);NOT NULL"`
	ActingUser       sql.NullString `gorm:"type:varchar(180);NULL;default:NULL"`
	StatusFrom       string         `gorm:"type:varchar(20)"`
	StatusInto       string         `gorm:"type:varchar(20)"`
	Changes          string         `gorm:"type:text"`
	Remarks          string         `gorm:"type:text"`
}
