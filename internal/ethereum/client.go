package ethereum

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/Fundify-GHRCE-Final-Year-Project/fundify-service/internal/config"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
)

// Fundify合约ABI定义（仅事件部分，服务端只读事件不发交易）
const contractABI = `[
	{
		"anonymous": false,
		"inputs": [
			{"indexed": true, "name": "owner", "type": "address"},
			{"indexed": true, "name": "index", "type": "uint256"},
			{"indexed": false, "name": "goal", "type": "uint256"},
			{"indexed": false, "name": "milestones", "type": "uint256"},
			{"indexed": false, "name": "timestamp", "type": "uint256"}
		],
		"name": "ProjectCreated",
		"type": "event"
	},
	{
		"anonymous": false,
		"inputs": [
			{"indexed": true, "name": "funder", "type": "address"},
			{"indexed": true, "name": "investmentIndex", "type": "uint256"},
			{"indexed": false, "name": "projectOwner", "type": "address"},
			{"indexed": false, "name": "projectIndex", "type": "uint256"},
			{"indexed": false, "name": "amount", "type": "uint256"},
			{"indexed": false, "name": "timestamp", "type": "uint256"}
		],
		"name": "ProjectFunded",
		"type": "event"
	},
	{
		"anonymous": false,
		"inputs": [
			{"indexed": true, "name": "owner", "type": "address"},
			{"indexed": true, "name": "index", "type": "uint256"},
			{"indexed": false, "name": "amount", "type": "uint256"}
		],
		"name": "FundsReleased",
		"type": "event"
	},
	{
		"anonymous": false,
		"inputs": [
			{"indexed": true, "name": "owner", "type": "address"},
			{"indexed": true, "name": "index", "type": "uint256"}
		],
		"name": "ProjectEnded",
		"type": "event"
	}
]`

// ProjectCreatedEvent 项目创建事件
type ProjectCreatedEvent struct {
	Owner      string
	Index      int64
	Goal       *big.Int
	Milestones int64
	Timestamp  int64
	TxHash     string
	BlockNum   int64
}

// ProjectFundedEvent 项目投资事件
type ProjectFundedEvent struct {
	Funder          string
	InvestmentIndex int64
	ProjectOwner    string
	ProjectIndex    int64
	Amount          *big.Int
	Timestamp       int64
	TxHash          string
	BlockNum        int64
}

// FundsReleasedEvent 资金释放事件
type FundsReleasedEvent struct {
	Owner    string
	Index    int64
	Amount   *big.Int
	TxHash   string
	BlockNum int64
}

// ProjectEndedEvent 项目结束事件
type ProjectEndedEvent struct {
	Owner    string
	Index    int64
	TxHash   string
	BlockNum int64
}

// Client 以太坊客户端封装
type Client struct {
	client       *ethclient.Client
	ContractAddr common.Address
	contractABI  abi.ABI
}

func Init(cfg config.ChainConfig) (*Client, error) {
	// 连接以太坊客户端
	client, err := ethclient.Dial(cfg.RpcUrl)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to ethereum client: %w", err)
	}

	// 解析ABI
	parsedABI, err := abi.JSON(strings.NewReader(contractABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse contract ABI: %w", err)
	}

	return &Client{
		client:       client,
		ContractAddr: common.HexToAddress(cfg.ContractAddress),
		contractABI:  parsedABI,
	}, nil
}

// LatestBlock 获取最新区块号
func (c *Client) LatestBlock(ctx context.Context) (int64, error) {
	header, err := c.client.HeaderByNumber(ctx, nil)
	if err != nil {
		return 0, err
	}
	return header.Number.Int64(), nil
}

// GetLogs 获取指定区块范围内合约的日志
func (c *Client) GetLogs(ctx context.Context, fromBlock, toBlock int64) ([]types.Log, error) {
	query := ethereum.FilterQuery{
		FromBlock: big.NewInt(fromBlock),
		ToBlock:   big.NewInt(toBlock),
		Addresses: []common.Address{c.ContractAddr},
	}
	return c.client.FilterLogs(ctx, query)
}

// ParseEvent 将日志解析为类型化事件
// 未知事件签名返回 (nil, nil)，合约后续新增的事件不会让同步中断。
func (c *Client) ParseEvent(log types.Log) (interface{}, error) {
	if len(log.Topics) == 0 {
		return nil, nil
	}

	switch log.Topics[0] {
	case c.contractABI.Events["ProjectCreated"].ID:
		return c.parseProjectCreated(log)
	case c.contractABI.Events["ProjectFunded"].ID:
		return c.parseProjectFunded(log)
	case c.contractABI.Events["FundsReleased"].ID:
		return c.parseFundsReleased(log)
	case c.contractABI.Events["ProjectEnded"].ID:
		return c.parseProjectEnded(log)
	default:
		return nil, nil
	}
}

// parseProjectCreated 解析项目创建事件
func (c *Client) parseProjectCreated(log types.Log) (*ProjectCreatedEvent, error) {
	if len(log.Topics) < 3 {
		return nil, fmt.Errorf("invalid ProjectCreated event: insufficient topics")
	}

	values, err := c.contractABI.Events["ProjectCreated"].Inputs.NonIndexed().Unpack(log.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to unpack ProjectCreated event: %w", err)
	}

	return &ProjectCreatedEvent{
		Owner:      common.BytesToAddress(log.Topics[1].Bytes()).Hex(),
		Index:      new(big.Int).SetBytes(log.Topics[2].Bytes()).Int64(),
		Goal:       values[0].(*big.Int),
		Milestones: values[1].(*big.Int).Int64(),
		Timestamp:  values[2].(*big.Int).Int64(),
		TxHash:     log.TxHash.Hex(),
		BlockNum:   int64(log.BlockNumber),
	}, nil
}

// parseProjectFunded 解析项目投资事件
func (c *Client) parseProjectFunded(log types.Log) (*ProjectFundedEvent, error) {
	if len(log.Topics) < 3 {
		return nil, fmt.Errorf("invalid ProjectFunded event: insufficient topics")
	}

	values, err := c.contractABI.Events["ProjectFunded"].Inputs.NonIndexed().Unpack(log.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to unpack ProjectFunded event: %w", err)
	}

	return &ProjectFundedEvent{
		Funder:          common.BytesToAddress(log.Topics[1].Bytes()).Hex(),
		InvestmentIndex: new(big.Int).SetBytes(log.Topics[2].Bytes()).Int64(),
		ProjectOwner:    values[0].(common.Address).Hex(),
		ProjectIndex:    values[1].(*big.Int).Int64(),
		Amount:          values[2].(*big.Int),
		Timestamp:       values[3].(*big.Int).Int64(),
		TxHash:          log.TxHash.Hex(),
		BlockNum:        int64(log.BlockNumber),
	}, nil
}

// parseFundsReleased 解析资金释放事件
func (c *Client) parseFundsReleased(log types.Log) (*FundsReleasedEvent, error) {
	if len(log.Topics) < 3 {
		return nil, fmt.Errorf("invalid FundsReleased event: insufficient topics")
	}

	values, err := c.contractABI.Events["FundsReleased"].Inputs.NonIndexed().Unpack(log.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to unpack FundsReleased event: %w", err)
	}

	return &FundsReleasedEvent{
		Owner:    common.BytesToAddress(log.Topics[1].Bytes()).Hex(),
		Index:    new(big.Int).SetBytes(log.Topics[2].Bytes()).Int64(),
		Amount:   values[0].(*big.Int),
		TxHash:   log.TxHash.Hex(),
		BlockNum: int64(log.BlockNumber),
	}, nil
}

// parseProjectEnded 解析项目结束事件
func (c *Client) parseProjectEnded(log types.Log) (*ProjectEndedEvent, error) {
	if len(log.Topics) < 3 {
		return nil, fmt.Errorf("invalid ProjectEnded event: insufficient topics")
	}

	return &ProjectEndedEvent{
		Owner:    common.BytesToAddress(log.Topics[1].Bytes()).Hex(),
		Index:    new(big.Int).SetBytes(log.Topics[2].Bytes()).Int64(),
		TxHash:   log.TxHash.Hex(),
		BlockNum: int64(log.BlockNumber),
	}, nil
}

// Close 关闭底层连接
func (c *Client) Close() {
	c.client.Close()
}
