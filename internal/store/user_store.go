package store

import (
	"errors"
	"fmt"

	"github.com/Hossein-79/Fortuna/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GetUserByWallet 根据钱包地址获取用户资料
func (s *Store) GetUserByWallet(address string) (*model.UserModel, error) {
	var user model.UserModel
	if err := s.db.Where("wallet_address = ?", address).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}
	return &user, nil
}

// UpsertUser 按钱包地址插入或更新用户资料
func (s *Store) UpsertUser(user *model.UserModel) error {
	if user.WalletAddress == "" {
		return fmt.Errorf("%w: 钱包地址不能为空", ErrInvalidField)
	}

	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "wallet_address"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "bio", "email", "profile_picture", "updated_at"}),
	}).Create(user).Error
	if err != nil {
		return fmt.Errorf("failed to upsert user: %w", err)
	}

	return nil
}
