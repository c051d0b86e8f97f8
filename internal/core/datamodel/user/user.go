package user

import "time"

type User struct {
	ID                int64     `gorm:"primaryKey"`
	Email             string    `gorm:"column:email;uniqueIndex;not null"`
	Name              string    `gorm:"column:name;not null"`
	PasswordHash      string    `gorm:"column:password_hash;not null"`
	IsAdmin           bool      `gorm:"column:is_admin;not null;default:false"`
	Grade             int       `gorm:"column:grade;not null;default:0"`
	Department        string    `gorm:"column:department"`
	Designation       *string   `gorm:"column:designation"`
	ProfilePictureURL *string   `gorm:"column:profile_picture_url"`
	ExternalUID       *string   `gorm:"column:external_uid"`
	CreatedAt         time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (User) TableName() string {
	return "users"
}
