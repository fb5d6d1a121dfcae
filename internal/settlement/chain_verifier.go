package settlement

import (
	"fmt"

	"github.com/Hossein-79/Fortuna/internal/chain"
	"github.com/Hossein-79/Fortuna/internal/logger"
	"github.com/ethereum/go-ethereum/common"
)

// ChainVerifier 基于链上交易回执的结算校验
type ChainVerifier struct {
	client *chain.Client
}

// NewChainVerifier 创建链上结算校验器
func NewChainVerifier(client *chain.Client) *ChainVerifier {
	return &ChainVerifier{client: client}
}

// VerifyTicketPurchase 确认购票转账已落块且达到确认数
func (v *ChainVerifier) VerifyTicketPurchase(buyer string, causeId, amount int64, txHash string) error {
	if txHash == "" {
		return ErrTransferNotConfirmed
	}

	confirmed, err := v.client.IsTransactionConfirmed(common.HexToHash(txHash))
	if err != nil {
		return fmt.Errorf("failed to check transaction %s: %w", txHash, err)
	}
	if !confirmed {
		return ErrTransferNotConfirmed
	}

	logger.Debug("Verified ticket purchase tx %s (cause %d, buyer %s, amount %d)",
		txHash, causeId, buyer, amount)
	return nil
}

// SignalDistribution 通知结算方可以分配资金
// 资金分配由链上合约的 close_cause 完成，这里只记录信号
func (v *ChainVerifier) SignalDistribution(causeId int64, creator string) error {
	logger.Info("Signaling fund distribution for cause %d (creator %s)", causeId, creator)
	return nil
}

// NoopVerifier 关闭链上校验时使用的空实现
type NoopVerifier struct{}

func (NoopVerifier) VerifyTicketPurchase(buyer string, causeId, amount int64, txHash string) error {
	return nil
}

func (NoopVerifier) SignalDistribution(causeId int64, creator string) error {
	return nil
}
