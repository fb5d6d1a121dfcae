package store

import (
	"errors"
)

// 领域错误，调用方用 errors.Is 区分
// 存储层故障（连接、序列化）不会映射到这些哨兵值，而是以 %w 包装原始错误返回，
// 调用方据此判断可重试（存储故障）还是直接拒绝（领域校验失败）
var (
	ErrNotFound       = errors.New("记录不存在")
	ErrDuplicateId    = errors.New("项目ID已存在")
	ErrInvalidField   = errors.New("字段校验失败")
	ErrAlreadyClosed  = errors.New("项目已关闭")
	ErrDeadlinePassed = errors.New("项目已到期")
)
