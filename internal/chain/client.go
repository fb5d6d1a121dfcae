package chain

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/Hossein-79/Fortuna/internal/config"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
)

// Client Fortuna合约客户端
type Client struct {
	client        *ethclient.Client
	ContractAddr  common.Address
	startBlock    int64
	confirmations int
	contractABI   abi.ABI
}

// Fortuna合约ABI定义（简化版）
const contractABI = `[
	{
		"anonymous": false,
		"inputs": [
			{"indexed": true, "name": "causeId", "type": "uint256"},
			{"indexed": true, "name": "creator", "type": "address"},
			{"indexed": false, "name": "goal", "type": "uint256"},
			{"indexed": false, "name": "ticketPrice", "type": "uint256"}
		],
		"name": "CauseCreated",
		"type": "event"
	},
	{
		"anonymous": false,
		"inputs": [
			{"indexed": true, "name": "causeId", "type": "uint256"},
			{"indexed": true, "name": "buyer", "type": "address"},
			{"indexed": false, "name": "amount", "type": "uint256"}
		],
		"name": "TicketPurchased",
		"type": "event"
	},
	{
		"anonymous": false,
		"inputs": [
			{"indexed": true, "name": "causeId", "type": "uint256"},
			{"indexed": true, "name": "creator", "type": "address"}
		],
		"name": "CauseClosed",
		"type": "event"
	}
]`

func Init(cfg config.ChainConfig) (*Client, error) {
	// 连接以太坊客户端
	client, err := ethclient.Dial(cfg.RpcUrl)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to ethereum client: %w", err)
	}

	// 解析合约地址
	contractAddr := common.HexToAddress(cfg.ContractAddr)

	// 解析ABI
	parsedABI, err := abi.JSON(strings.NewReader(contractABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse contract ABI: %w", err)
	}

	return &Client{
		client:        client,
		startBlock:    cfg.StartBlock,
		ContractAddr:  contractAddr,
		confirmations: cfg.Confirmations,
		contractABI:   parsedABI,
	}, nil
}

// StartBlock 获取合约部署区块号
func (c *Client) StartBlock() int64 {
	return c.startBlock
}

// GetLatestBlock 获取最新区块号
func (c *Client) GetLatestBlock() (int64, error) {
	header, err := c.client.HeaderByNumber(context.Background(), nil)
	if err != nil {
		return 0, err
	}
	return header.Number.Int64(), nil
}

// GetLogs 获取指定区块范围内的合约日志
func (c *Client) GetLogs(fromBlock, toBlock int64) ([]types.Log, error) {
	query := ethereum.FilterQuery{
		FromBlock: big.NewInt(fromBlock),
		ToBlock:   big.NewInt(toBlock),
		Addresses: []common.Address{c.ContractAddr},
	}

	return c.client.FilterLogs(context.Background(), query)
}

// GetTransactionReceipt 获取交易回执
func (c *Client) GetTransactionReceipt(txHash common.Hash) (*types.Receipt, error) {
	return c.client.TransactionReceipt(context.Background(), txHash)
}

// IsTransactionConfirmed 检查交易是否已确认
func (c *Client) IsTransactionConfirmed(txHash common.Hash) (bool, error) {
	receipt, err := c.GetTransactionReceipt(txHash)
	if err != nil {
		return false, err
	}

	if receipt == nil || receipt.Status != types.ReceiptStatusSuccessful {
		return false, nil
	}

	latestBlock, err := c.GetLatestBlock()
	if err != nil {
		return false, err
	}

	return latestBlock >= receipt.BlockNumber.Int64()+int64(c.confirmations), nil
}
