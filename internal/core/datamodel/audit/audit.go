package audit

import "time"

type AuditLog struct {
	ID        int64     `db:"id" gorm:"primaryKey"`
	UserID    int64     `db:"user_id" gorm:"column:user_id;not null;index"`
	Action    string    `db:"action" gorm:"column:action;not null"`
	CreatedAt time.Time `db:"created_at" gorm:"column:created_at;not null"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}
