package store

import (
	"errors"
	"fmt"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/Hossein-79/Fortuna/internal/model"
	"gorm.io/gorm"
)

// Store 项目与票据的持久化存储
// 同一项目的所有变更通过每项目互斥锁串行执行，不同项目互不阻塞
type Store struct {
	db    *gorm.DB
	locks sync.Map // causeId -> *sync.Mutex
}

// New 创建存储
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// lockCause 获取指定项目的互斥锁，返回解锁函数
func (s *Store) lockCause(causeId int64) func() {
	v, _ := s.locks.LoadOrStore(causeId, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// CreateCause 创建筹款项目
func (s *Store) CreateCause(cause *model.CauseModel) error {
	if err := validateCause(cause); err != nil {
		return err
	}

	unlock := s.lockCause(cause.Id)
	defer unlock()

	var existing model.CauseModel
	err := s.db.First(&existing, cause.Id).Error
	if err == nil {
		return ErrDuplicateId
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to check cause existence: %w", err)
	}

	if err := s.db.Create(cause).Error; err != nil {
		return fmt.Errorf("failed to create cause: %w", err)
	}

	return nil
}

// GetCause 获取项目详情
func (s *Store) GetCause(causeId int64) (*model.CauseModel, error) {
	var cause model.CauseModel
	if err := s.db.First(&cause, causeId).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch cause: %w", err)
	}
	return &cause, nil
}

// GetCauseWithTickets 在单个事务内读取项目及其全部票据，保证聚合计算用的是一致快照
func (s *Store) GetCauseWithTickets(causeId int64) (*model.CauseModel, []model.TicketModel, error) {
	var cause model.CauseModel
	var tickets []model.TicketModel

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&cause, causeId).Error; err != nil {
			return err
		}
		return tx.Where("cause_id = ?", causeId).Find(&tickets).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, fmt.Errorf("failed to fetch cause snapshot: %w", err)
	}

	return &cause, tickets, nil
}

// ListCauses 获取项目列表，createdBy非空时按创建者过滤
func (s *Store) ListCauses(createdBy string) ([]model.CauseModel, error) {
	var causes []model.CauseModel
	query := s.db
	if createdBy != "" {
		query = query.Where("created_by = ?", createdBy)
	}
	if err := query.Find(&causes).Error; err != nil {
		return nil, fmt.Errorf("failed to list causes: %w", err)
	}
	return causes, nil
}

// AppendTicketIfOpen 追加购票记录
// 关闭与截止校验和写入在同一把项目锁内完成，
// 校验通过后到写入前项目不可能被并发关闭
func (s *Store) AppendTicketIfOpen(ticket *model.TicketModel, now time.Time) error {
	unlock := s.lockCause(ticket.CauseId)
	defer unlock()

	return s.db.Transaction(func(tx *gorm.DB) error {
		var cause model.CauseModel
		if err := tx.First(&cause, ticket.CauseId).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("failed to fetch cause: %w", err)
		}

		if cause.Closed {
			return ErrAlreadyClosed
		}
		if !now.Before(cause.Deadline) {
			return ErrDeadlinePassed
		}

		if err := tx.Create(ticket).Error; err != nil {
			return fmt.Errorf("failed to append ticket: %w", err)
		}
		return nil
	})
}

// ListTicketsForCause 获取项目的购票记录
func (s *Store) ListTicketsForCause(causeId int64) ([]model.TicketModel, error) {
	var tickets []model.TicketModel
	if err := s.db.Where("cause_id = ?", causeId).Find(&tickets).Error; err != nil {
		return nil, fmt.Errorf("failed to list tickets: %w", err)
	}
	return tickets, nil
}

// ListTicketsForUser 获取用户的购票记录
func (s *Store) ListTicketsForUser(user string) ([]model.TicketModel, error) {
	var tickets []model.TicketModel
	if err := s.db.Where(`"user" = ?`, user).Find(&tickets).Error; err != nil {
		return nil, fmt.Errorf("failed to list tickets: %w", err)
	}
	return tickets, nil
}

// CloseCause 标记项目关闭
// 重复关闭返回 ErrAlreadyClosed，调用方应将其视为正常的状态检查而非异常
func (s *Store) CloseCause(causeId int64) error {
	unlock := s.lockCause(causeId)
	defer unlock()

	return s.db.Transaction(func(tx *gorm.DB) error {
		var cause model.CauseModel
		if err := tx.First(&cause, causeId).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("failed to fetch cause: %w", err)
		}

		if cause.Closed {
			return ErrAlreadyClosed
		}

		if err := tx.Model(&cause).Update("closed", true).Error; err != nil {
			return fmt.Errorf("failed to close cause: %w", err)
		}

		return nil
	})
}

// validateCause 校验项目的不可变字段约束
func validateCause(cause *model.CauseModel) error {
	if cause.Id <= 0 {
		return fmt.Errorf("%w: 项目ID必须为正整数", ErrInvalidField)
	}
	titleLen := utf8.RuneCountInString(cause.Title)
	if titleLen < 2 || titleLen > 50 {
		return fmt.Errorf("%w: 标题长度必须在2到50之间", ErrInvalidField)
	}
	if utf8.RuneCountInString(cause.Description) > 500 {
		return fmt.Errorf("%w: 描述长度不能超过500", ErrInvalidField)
	}
	if cause.Goal <= 0 {
		return fmt.Errorf("%w: 目标金额必须大于0", ErrInvalidField)
	}
	if cause.TicketPrice < 0 {
		return fmt.Errorf("%w: 票价不能为负数", ErrInvalidField)
	}
	if cause.CharityPercentage < 0 || cause.CharityPercentage > 100 {
		return fmt.Errorf("%w: 公益比例必须在0到100之间", ErrInvalidField)
	}
	if cause.CreatedBy == "" {
		return fmt.Errorf("%w: 创建者地址不能为空", ErrInvalidField)
	}
	return nil
}
