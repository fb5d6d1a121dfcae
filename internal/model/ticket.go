package model

import (
	"time"
)

// TicketModel 购票记录
type TicketModel struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	CauseId int64  `json:"cause_id" gorm:"not null;index"`
	User    string `json:"user" gorm:"not null;index"`
	Amount  int64  `json:"amount" gorm:"not null"`
	TxHash  string `json:"tx_hash" gorm:"uniqueIndex"`
}

// TableName 自定义表名
func (TicketModel) TableName() string {
	return "ticket"
}
