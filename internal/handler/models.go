package handler

import (
	"time"

	"github.com/Hossein-79/Fortuna/internal/logic"
	"github.com/Hossein-79/Fortuna/internal/model"
)

// CauseResponse 项目响应模型，聚合字段始终由票据推导
type CauseResponse struct {
	Id                int64     `json:"id"`
	Title             string    `json:"title"`
	Description       string    `json:"description"`
	Image             string    `json:"image"`
	Goal              int64     `json:"goal"`
	TicketPrice       int64     `json:"ticketPrice"`
	CharityPercentage int       `json:"charityPercentage"`
	Deadline          time.Time `json:"deadline"`
	CreatedBy         string    `json:"createdBy"`
	Closed            bool      `json:"closed"`
	Status            string    `json:"status"`
	TotalTicketsSold  int64     `json:"totalTicketsSold"`
	TotalFundsRaised  int64     `json:"totalFundsRaised"`
	PercentComplete   int       `json:"percentComplete"`
	Remaining         string    `json:"remaining"`
	CreatedAt         time.Time `json:"createdAt"`
}

// TicketResponse 购票记录响应模型
type TicketResponse struct {
	Id        int64     `json:"id"`
	CauseId   int64     `json:"causeId"`
	User      string    `json:"user"`
	Amount    int64     `json:"amount"`
	TxHash    string    `json:"txHash"`
	CreatedAt time.Time `json:"createdAt"`
}

// CauseBrief 票据列表里携带的项目简要信息
type CauseBrief struct {
	Id          int64     `json:"id"`
	Title       string    `json:"title"`
	Image       string    `json:"image"`
	TicketPrice int64     `json:"ticketPrice"`
	Deadline    time.Time `json:"deadline"`
	CreatedBy   string    `json:"createdBy"`
	Closed      bool      `json:"closed"`
}

// UserTicketResponse 用户购票记录及所属项目
type UserTicketResponse struct {
	Ticket TicketResponse `json:"ticket"`
	Cause  CauseBrief     `json:"cause"`
}

// ToUserTicketResponseList 将用户票据列表转换为响应模型列表
func ToUserTicketResponseList(items []logic.TicketWithCause) []UserTicketResponse {
	result := make([]UserTicketResponse, len(items))
	for i, item := range items {
		result[i] = UserTicketResponse{
			Ticket: ToTicketResponse(&item.Ticket),
			Cause: CauseBrief{
				Id:          item.Cause.Id,
				Title:       item.Cause.Title,
				Image:       item.Cause.Image,
				TicketPrice: item.Cause.TicketPrice,
				Deadline:    item.Cause.Deadline,
				CreatedBy:   item.Cause.CreatedBy,
				Closed:      item.Cause.Closed,
			},
		}
	}
	return result
}

// UserResponse 用户资料响应模型
type UserResponse struct {
	WalletAddress  string    `json:"walletAddress"`
	Name           string    `json:"name"`
	Bio            string    `json:"bio"`
	Email          string    `json:"email"`
	ProfilePicture string    `json:"profilePicture"`
	CreatedAt      time.Time `json:"createdAt"`
}

// ToCauseResponse 将项目详情转换为响应模型
func ToCauseResponse(detail *logic.CauseDetail) CauseResponse {
	return CauseResponse{
		Id:                detail.Cause.Id,
		Title:             detail.Cause.Title,
		Description:       detail.Cause.Description,
		Image:             detail.Cause.Image,
		Goal:              detail.Cause.Goal,
		TicketPrice:       detail.Cause.TicketPrice,
		CharityPercentage: detail.Cause.CharityPercentage,
		Deadline:          detail.Cause.Deadline,
		CreatedBy:         detail.Cause.CreatedBy,
		Closed:            detail.Cause.Closed,
		Status:            string(detail.Status),
		TotalTicketsSold:  detail.Summary.TotalTicketsSold,
		TotalFundsRaised:  detail.Summary.TotalFundsRaised,
		PercentComplete:   detail.Summary.PercentComplete,
		Remaining:         detail.Remaining,
		CreatedAt:         detail.Cause.CreatedAt,
	}
}

// ToCauseResponseList 将项目详情列表转换为响应模型列表
func ToCauseResponseList(details []logic.CauseDetail) []CauseResponse {
	result := make([]CauseResponse, len(details))
	for i := range details {
		result[i] = ToCauseResponse(&details[i])
	}
	return result
}

// ToTicketResponse 将票据模型转换为响应模型
func ToTicketResponse(ticket *model.TicketModel) TicketResponse {
	return TicketResponse{
		Id:        ticket.Id,
		CauseId:   ticket.CauseId,
		User:      ticket.User,
		Amount:    ticket.Amount,
		TxHash:    ticket.TxHash,
		CreatedAt: ticket.CreatedAt,
	}
}

// ToTicketResponseList 将票据模型列表转换为响应模型列表
func ToTicketResponseList(tickets []model.TicketModel) []TicketResponse {
	result := make([]TicketResponse, len(tickets))
	for i := range tickets {
		result[i] = ToTicketResponse(&tickets[i])
	}
	return result
}

// ToUserResponse 将用户模型转换为响应模型
func ToUserResponse(user *model.UserModel) UserResponse {
	return UserResponse{
		WalletAddress:  user.WalletAddress,
		Name:           user.Name,
		Bio:            user.Bio,
		Email:          user.Email,
		ProfilePicture: user.ProfilePicture,
		CreatedAt:      user.CreatedAt,
	}
}
