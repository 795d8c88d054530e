package models

import "time"

// SiteSetting is one key/value row of operator configuration. Payment
// credentials live here so they can be rotated without a deploy.
type SiteSetting struct {
	Key       string    `gorm:"column:key;primaryKey"`
	Value     string    `gorm:"column:value;not null;default:''"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
