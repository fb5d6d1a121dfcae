package settlement

import (
	"errors"
)

// ErrTransferNotConfirmed 链上转账不存在或未达确认数
var ErrTransferNotConfirmed = errors.New("链上转账未确认")

// Verifier 结算协作方
// 资金转移发生在链上，由调用方在写账本之前发起；
// 这里只负责确认转账已提交，以及在项目关闭后发出可分配资金的信号，
// 实际的资金分配不在本服务范围内
type Verifier interface {
	// VerifyTicketPurchase 确认购票对应的链上转账已落块
	VerifyTicketPurchase(buyer string, causeId, amount int64, txHash string) error

	// SignalDistribution 通知结算方项目已关闭，可以分配资金
	SignalDistribution(causeId int64, creator string) error
}
