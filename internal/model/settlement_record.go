package model

import (
	"time"
)

// SettlementRecordModel 结算对账记录
type SettlementRecordModel struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	CauseId  int64  `json:"cause_id" gorm:"not null;index"`
	User     string `json:"user"`
	Amount   int64  `json:"amount"`
	TxHash   string `json:"tx_hash" gorm:"uniqueIndex"`
	BlockNum int64  `json:"block_num"`
	Status   string `json:"status" gorm:"default:'pending'"`
	Detail   string `json:"detail" gorm:"type:text"`
}

// TableName 自定义表名
func (SettlementRecordModel) TableName() string {
	return "settlement_record"
}

// SettlementStatus 对账状态
type SettlementStatus string

const (
	SettlementStatusPending  SettlementStatus = "pending"  // 待处理
	SettlementStatusMatched  SettlementStatus = "matched"  // 链上与账本一致
	SettlementStatusMismatch SettlementStatus = "mismatch" // 链上与账本不一致，需人工对账
)
