package model

import (
	"time"
)

// CauseModel 筹款项目模型
type CauseModel struct {
	Id        int64     `json:"id" gorm:"primaryKey"` // 创建者分配，不自增
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// 基本信息
	Title       string `json:"title" gorm:"not null" binding:"required"`
	Description string `json:"description" gorm:"type:text"`
	Image       string `json:"image"`

	// 筹款信息（最小货币单位）
	Goal              int64 `json:"goal" gorm:"not null" binding:"required,min=1"`
	TicketPrice       int64 `json:"ticket_price" gorm:"not null"`
	CharityPercentage int   `json:"charity_percentage" gorm:"not null"`

	// 时间信息
	Deadline time.Time `json:"deadline" gorm:"not null"`

	// 创建者信息
	CreatedBy string `json:"created_by" gorm:"not null;index"`

	// 关闭状态：一旦为true不可逆转
	Closed bool `json:"closed" gorm:"default:false"`
}

// TableName 自定义表名
func (CauseModel) TableName() string {
	return "cause"
}

// CauseStatus 项目状态
type CauseStatus string

const (
	CauseStatusOpen     CauseStatus = "open"     // 进行中
	CauseStatusFinished CauseStatus = "finished" // 已到期
	CauseStatusClosed   CauseStatus = "closed"   // 已关闭
)

// Status 根据当前时间推导项目状态，到期状态不落库
func (c *CauseModel) Status(now time.Time) CauseStatus {
	if c.Closed {
		return CauseStatusClosed
	}
	if !now.Before(c.Deadline) {
		return CauseStatusFinished
	}
	return CauseStatusOpen
}
