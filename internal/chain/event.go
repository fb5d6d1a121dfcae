package chain

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// 事件类型
const (
	EventCauseCreated    = "CauseCreated"
	EventTicketPurchased = "TicketPurchased"
	EventCauseClosed     = "CauseClosed"
)

// Event 解析后的合约事件
type Event struct {
	Type     string
	CauseId  int64
	Address  string // creator 或 buyer，取决于事件类型
	Amount   int64  // 仅 TicketPurchased
	TxHash   string
	BlockNum int64
	LogIndex uint
}

// ParseEvent 解析事件日志
func (c *Client) ParseEvent(log types.Log) (*Event, error) {
	if len(log.Topics) == 0 {
		return nil, fmt.Errorf("log has no topics")
	}

	// 检查事件签名
	eventSignature := log.Topics[0].Hex()

	switch eventSignature {
	case c.contractABI.Events[EventCauseCreated].ID.Hex():
		return c.parseIndexedEvent(EventCauseCreated, log)
	case c.contractABI.Events[EventTicketPurchased].ID.Hex():
		return c.parseTicketPurchasedEvent(log)
	case c.contractABI.Events[EventCauseClosed].ID.Hex():
		return c.parseIndexedEvent(EventCauseClosed, log)
	default:
		return nil, fmt.Errorf("unknown event signature: %s", eventSignature)
	}
}

// parseTicketPurchasedEvent 解析购票事件
func (c *Client) parseTicketPurchasedEvent(log types.Log) (*Event, error) {
	event, err := c.parseIndexedEvent(EventTicketPurchased, log)
	if err != nil {
		return nil, err
	}

	// 解析非索引参数
	if len(log.Data) > 0 {
		event.Amount = new(big.Int).SetBytes(log.Data).Int64()
	}

	return event, nil
}

// parseIndexedEvent 解析索引参数（causeId与地址）
func (c *Client) parseIndexedEvent(eventType string, log types.Log) (*Event, error) {
	if len(log.Topics) < 3 {
		return nil, fmt.Errorf("invalid %s event: insufficient topics", eventType)
	}

	return &Event{
		Type:     eventType,
		CauseId:  new(big.Int).SetBytes(log.Topics[1].Bytes()).Int64(),
		Address:  common.BytesToAddress(log.Topics[2].Bytes()).Hex(),
		TxHash:   log.TxHash.Hex(),
		BlockNum: int64(log.BlockNumber),
		LogIndex: log.Index,
	}, nil
}
