package logic

import (
	"github.com/Hossein-79/Fortuna/internal/model"
)

// UserStore 用户存储接口，由 store.Store 实现
type UserStore interface {
	GetUserByWallet(address string) (*model.UserModel, error)
	UpsertUser(user *model.UserModel) error
	ListTicketsForUser(user string) ([]model.TicketModel, error)
	GetCause(causeId int64) (*model.CauseModel, error)
}

// UserLogic 用户资料业务逻辑
type UserLogic struct {
	store UserStore
}

// NewUserLogic 创建用户业务逻辑
func NewUserLogic(s UserStore) *UserLogic {
	return &UserLogic{store: s}
}

// GetUser 获取用户资料
func (l *UserLogic) GetUser(address string) (*model.UserModel, error) {
	return l.store.GetUserByWallet(address)
}

// UpsertUser 更新用户资料，不存在时创建
func (l *UserLogic) UpsertUser(user *model.UserModel) error {
	return l.store.UpsertUser(user)
}

// TicketWithCause 购票记录及其所属项目
type TicketWithCause struct {
	Ticket model.TicketModel `json:"ticket"`
	Cause  model.CauseModel  `json:"cause"`
}

// ListUserTickets 获取用户购票记录及所属项目
func (l *UserLogic) ListUserTickets(address string) ([]TicketWithCause, error) {
	tickets, err := l.store.ListTicketsForUser(address)
	if err != nil {
		return nil, err
	}

	result := make([]TicketWithCause, 0, len(tickets))
	for _, t := range tickets {
		cause, err := l.store.GetCause(t.CauseId)
		if err != nil {
			return nil, err
		}
		result = append(result, TicketWithCause{Ticket: t, Cause: *cause})
	}

	return result, nil
}
