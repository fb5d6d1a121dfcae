package chain

import (
	"math/big"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()
	parsedABI, err := abi.JSON(strings.NewReader(contractABI))
	require.NoError(t, err)
	return &Client{contractABI: parsedABI}
}

func ticketPurchasedLog(c *Client, causeId, amount int64, buyer string) types.Log {
	return types.Log{
		Topics: []common.Hash{
			c.contractABI.Events[EventTicketPurchased].ID,
			common.BigToHash(big.NewInt(causeId)),
			common.HexToHash(buyer),
		},
		Data:        common.BigToHash(big.NewInt(amount)).Bytes(),
		TxHash:      common.HexToHash("0x01"),
		BlockNumber: 100,
		Index:       2,
	}
}

func TestParseTicketPurchasedEvent(t *testing.T) {
	c := newTestClient(t)
	buyer := "0x000000000000000000000000a1b2c3d4e5f6a1b2c3d4e5f6a1b2c3d4e5f6a1b2"

	event, err := c.ParseEvent(ticketPurchasedLog(c, 42, 3, buyer))
	require.NoError(t, err)
	assert.Equal(t, EventTicketPurchased, event.Type)
	assert.Equal(t, int64(42), event.CauseId)
	assert.Equal(t, int64(3), event.Amount)
	assert.Equal(t, int64(100), event.BlockNum)
	assert.Equal(t, uint(2), event.LogIndex)
}

func TestParseCauseClosedEvent(t *testing.T) {
	c := newTestClient(t)

	log := types.Log{
		Topics: []common.Hash{
			c.contractABI.Events[EventCauseClosed].ID,
			common.BigToHash(big.NewInt(7)),
			common.HexToHash("0x0000000000000000000000001111111111111111111111111111111111111111"),
		},
		TxHash:      common.HexToHash("0x02"),
		BlockNumber: 200,
	}

	event, err := c.ParseEvent(log)
	require.NoError(t, err)
	assert.Equal(t, EventCauseClosed, event.Type)
	assert.Equal(t, int64(7), event.CauseId)
	assert.Equal(t, common.HexToAddress("0x1111111111111111111111111111111111111111").Hex(), event.Address)
}

func TestParseEventUnknownSignature(t *testing.T) {
	c := newTestClient(t)

	log := types.Log{
		Topics: []common.Hash{common.HexToHash("0xdead")},
	}

	_, err := c.ParseEvent(log)
	assert.Error(t, err)
}

func TestParseEventInsufficientTopics(t *testing.T) {
	c := newTestClient(t)

	log := types.Log{
		Topics: []common.Hash{c.contractABI.Events[EventCauseCreated].ID},
	}

	_, err := c.ParseEvent(log)
	assert.Error(t, err)
}
