package models

import "time"

// IPBan blocks a client address from creating orders. Bans are deactivated,
// never deleted, so the history stays auditable.
type IPBan struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement"`
	IP        string    `gorm:"column:ip;not null"`
	Reason    *string   `gorm:"column:reason"`
	IsActive  bool      `gorm:"column:is_active;not null;default:true"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (IPBan) TableName() string { return "ip_bans" }
