package logic

import (
	"errors"
	"fmt"
	"time"

	"github.com/Hossein-79/Fortuna/internal/clock"
	"github.com/Hossein-79/Fortuna/internal/funding"
	"github.com/Hossein-79/Fortuna/internal/model"
	"github.com/Hossein-79/Fortuna/internal/settlement"
	"github.com/Hossein-79/Fortuna/internal/store"
)

// CauseStore 项目存储接口，由 store.Store 实现
type CauseStore interface {
	CreateCause(cause *model.CauseModel) error
	GetCause(causeId int64) (*model.CauseModel, error)
	GetCauseWithTickets(causeId int64) (*model.CauseModel, []model.TicketModel, error)
	ListCauses(createdBy string) ([]model.CauseModel, error)
	AppendTicketIfOpen(ticket *model.TicketModel, now time.Time) error
	ListTicketsForCause(causeId int64) ([]model.TicketModel, error)
	ListTicketsForUser(user string) ([]model.TicketModel, error)
	CloseCause(causeId int64) error
}

// CauseLogic 项目生命周期业务逻辑
// 状态机：Open →（到期，读取时推导）Finished →（创建者显式关闭）Closed
type CauseLogic struct {
	store    CauseStore
	verifier settlement.Verifier
	clock    clock.Clock
}

// NewCauseLogic 创建项目业务逻辑
func NewCauseLogic(s CauseStore, verifier settlement.Verifier, clk clock.Clock) *CauseLogic {
	return &CauseLogic{
		store:    s,
		verifier: verifier,
		clock:    clk,
	}
}

// CauseDetail 项目详情与聚合数据
type CauseDetail struct {
	Cause     *model.CauseModel `json:"cause"`
	Summary   funding.Summary   `json:"summary"`
	Remaining string            `json:"remaining"`
	Status    model.CauseStatus `json:"status"`
}

// CreateCause 创建筹款项目
func (l *CauseLogic) CreateCause(cause *model.CauseModel) error {
	cause.Closed = false
	return l.store.CreateCause(cause)
}

// GetCauseDetail 获取项目详情
// 聚合数据在单次快照读上推导，避免多处重复计算导致的不一致
func (l *CauseLogic) GetCauseDetail(causeId int64) (*CauseDetail, error) {
	cause, tickets, err := l.store.GetCauseWithTickets(causeId)
	if err != nil {
		return nil, err
	}

	summary, err := funding.Aggregate(cause, tickets)
	if err != nil {
		return nil, err
	}

	now := l.clock.Now()
	return &CauseDetail{
		Cause:     cause,
		Summary:   summary,
		Remaining: funding.TimeRemaining(cause.Deadline, now).String(),
		Status:    cause.Status(now),
	}, nil
}

// ListCauseDetails 获取项目列表及聚合数据，createdBy非空时按创建者过滤
func (l *CauseLogic) ListCauseDetails(createdBy string) ([]CauseDetail, error) {
	causes, err := l.store.ListCauses(createdBy)
	if err != nil {
		return nil, err
	}

	now := l.clock.Now()
	details := make([]CauseDetail, 0, len(causes))
	for i := range causes {
		cause := &causes[i]
		tickets, err := l.store.ListTicketsForCause(cause.Id)
		if err != nil {
			return nil, err
		}
		summary, err := funding.Aggregate(cause, tickets)
		if err != nil {
			return nil, err
		}
		details = append(details, CauseDetail{
			Cause:     cause,
			Summary:   summary,
			Remaining: funding.TimeRemaining(cause.Deadline, now).String(),
			Status:    cause.Status(now),
		})
	}

	return details, nil
}

// ListCauseTickets 获取项目的购票记录
func (l *CauseLogic) ListCauseTickets(causeId int64) ([]model.TicketModel, error) {
	if _, err := l.store.GetCause(causeId); err != nil {
		return nil, err
	}
	return l.store.ListTicketsForCause(causeId)
}

// PurchaseTickets 购票
// 链上转账由调用方先行发起，txHash为其交易哈希；
// 校验顺序：存在 → 数量合法（与项目状态无关）→ 未关闭 → 未到期 → 链上已确认 → 锁内复查状态并写账本
func (l *CauseLogic) PurchaseTickets(causeId int64, buyer string, amount int64, txHash string) (*CauseDetail, error) {
	cause, err := l.store.GetCause(causeId)
	if err != nil {
		return nil, err
	}

	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	if cause.Closed {
		return nil, ErrCauseClosed
	}

	if !l.clock.Now().Before(cause.Deadline) {
		return nil, ErrCauseExpired
	}

	if err := l.verifier.VerifyTicketPurchase(buyer, causeId, amount, txHash); err != nil {
		if errors.Is(err, settlement.ErrTransferNotConfirmed) {
			return nil, fmt.Errorf("%w: %v", ErrSettlementMismatch, err)
		}
		// 链上查询本身失败，属于可重试的基础设施错误
		return nil, err
	}

	ticket := &model.TicketModel{
		CauseId: causeId,
		User:    buyer,
		Amount:  amount,
		TxHash:  txHash,
	}
	// 链上校验期间项目可能被关闭或到期，写入前在项目锁内重新校验状态
	if err := l.store.AppendTicketIfOpen(ticket, l.clock.Now()); err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			return nil, err
		case errors.Is(err, store.ErrAlreadyClosed):
			return nil, ErrCauseClosed
		case errors.Is(err, store.ErrDeadlinePassed):
			return nil, ErrCauseExpired
		}
		// 转账已确认但账本写入失败，上报为结算不一致而非普通存储错误
		return nil, fmt.Errorf("%w: 转账 %s 已确认但账本写入失败: %v", ErrSettlementMismatch, txHash, err)
	}

	return l.GetCauseDetail(causeId)
}

// CloseCause 关闭项目
// 校验顺序：存在 → 请求者是创建者 → 已到期 → 未重复关闭；
// 关闭成功后才向结算方发出分配信号，重复关闭失败于 AlreadyClosed，不会重复发信号
func (l *CauseLogic) CloseCause(causeId int64, requester string) error {
	cause, err := l.store.GetCause(causeId)
	if err != nil {
		return err
	}

	if requester != cause.CreatedBy {
		return ErrForbidden
	}

	if l.clock.Now().Before(cause.Deadline) {
		return ErrCauseStillOpen
	}

	if err := l.store.CloseCause(causeId); err != nil {
		return err
	}

	if err := l.verifier.SignalDistribution(causeId, cause.CreatedBy); err != nil {
		// 关闭已落库但信号未送达，上报为结算不一致等待对账
		return fmt.Errorf("%w: 项目 %d 已关闭但分配信号发送失败: %v", ErrSettlementMismatch, causeId, err)
	}

	return nil
}
