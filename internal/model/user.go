package model

import (
	"time"
)

// UserModel 用户资料
type UserModel struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	WalletAddress  string `json:"wallet_address" gorm:"uniqueIndex;not null"`
	Name           string `json:"name"`
	Bio            string `json:"bio" gorm:"type:text"`
	Email          string `json:"email"`
	ProfilePicture string `json:"profile_picture"`
}

// TableName 自定义表名
func (UserModel) TableName() string {
	return "user"
}
