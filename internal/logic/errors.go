package logic

import (
	"errors"
)

// 生命周期校验错误，调用方用 errors.Is 区分
var (
	ErrInvalidAmount  = errors.New("购票数量必须大于0")
	ErrCauseClosed    = errors.New("项目已关闭，无法购票")
	ErrCauseExpired   = errors.New("项目已到期，无法购票")
	ErrCauseStillOpen = errors.New("项目尚未到期，无法关闭")
	ErrForbidden      = errors.New("只有创建者可以关闭项目")

	// ErrSettlementMismatch 链上转账与账本写入之间出现部分失败
	// 绝不折叠成 NotFound 或成功，必须原样上报等待对账
	ErrSettlementMismatch = errors.New("链上结算与账本状态不一致")
)
