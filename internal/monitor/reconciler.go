package monitor

import (
	"errors"
	"fmt"
	"sync"

	"github.com/Hossein-79/Fortuna/internal/chain"
	"github.com/Hossein-79/Fortuna/internal/logger"
	"github.com/Hossein-79/Fortuna/internal/model"
	"github.com/panjf2000/ants/v2"
	"gorm.io/gorm"
)

// 单次拉取的区块批量大小，避免RPC限流
const batchSize = int64(500)

// Reconciler 链上事件对账器
// 扫描Fortuna合约日志，核对链上购票/关闭事件与本地账本，
// 不一致只落settlement_record等待人工对账，绝不自动修复账本
type Reconciler struct {
	client        *chain.Client
	db            *gorm.DB
	startBlockNum int64
	mu            sync.Mutex // 保护 startBlockNum
}

// NewReconciler 创建对账器
func NewReconciler(client *chain.Client, db *gorm.DB) *Reconciler {
	return &Reconciler{
		client:        client,
		db:            db,
		startBlockNum: client.StartBlock(),
	}
}

// RunOnce 执行一轮对账
func (r *Reconciler) RunOnce() error {
	currentBlock, err := r.client.GetLatestBlock()
	if err != nil {
		return fmt.Errorf("failed to get current block number: %w", err)
	}

	r.mu.Lock()
	fromBlock := r.startBlockNum
	r.mu.Unlock()

	if fromBlock > currentBlock {
		return nil
	}

	logger.Debug("Reconciling blocks %d to %d", fromBlock, currentBlock)

	// 分批处理区块
	for currentFrom := fromBlock; currentFrom <= currentBlock; currentFrom += batchSize {
		currentTo := currentFrom + batchSize - 1
		if currentTo > currentBlock {
			currentTo = currentBlock
		}

		if err := r.processBatch(currentFrom, currentTo); err != nil {
			logger.Error("Error reconciling blocks %d-%d: %v", currentFrom, currentTo, err)
			return err
		}

		r.mu.Lock()
		r.startBlockNum = currentTo + 1
		r.mu.Unlock()
	}

	return nil
}

// processBatch 处理一批区块的日志
func (r *Reconciler) processBatch(fromBlock, toBlock int64) error {
	logs, err := r.client.GetLogs(fromBlock, toBlock)
	if err != nil {
		return fmt.Errorf("error getting logs for blocks %d-%d: %w", fromBlock, toBlock, err)
	}

	if len(logs) == 0 {
		return nil
	}

	logger.Debug("Found %d logs for blocks %d-%d", len(logs), fromBlock, toBlock)

	// 解析并按项目分组
	eventsByCause := make(map[int64][]*chain.Event)
	for _, log := range logs {
		event, err := r.client.ParseEvent(log)
		if err != nil {
			logger.Warn("Skipping unparseable log in tx %s: %v", log.TxHash.Hex(), err)
			continue
		}
		eventsByCause[event.CauseId] = append(eventsByCause[event.CauseId], event)
	}

	groupCount := len(eventsByCause)
	if groupCount == 0 {
		return nil
	}

	// 协程池按项目并发对账，同一项目的事件顺序处理
	pool, err := ants.NewPool(groupCount)
	if err != nil {
		return fmt.Errorf("failed to create pool for %d groups: %w", groupCount, err)
	}
	defer pool.Release()

	var wg sync.WaitGroup
	for causeId, events := range eventsByCause {
		causeId, events := causeId, events
		wg.Add(1)
		err := pool.Submit(func() {
			defer wg.Done()
			r.reconcileCauseEvents(causeId, events)
		})
		if err != nil {
			wg.Done()
			logger.Error("Failed to submit reconcile task: %v", err)
		}
	}
	wg.Wait()

	return nil
}

// reconcileCauseEvents 核对单个项目的链上事件
func (r *Reconciler) reconcileCauseEvents(causeId int64, events []*chain.Event) {
	for _, event := range events {
		switch event.Type {
		case chain.EventTicketPurchased:
			r.reconcileTicketPurchase(event)
		case chain.EventCauseClosed:
			r.reconcileCauseClose(event)
		case chain.EventCauseCreated:
			// 创建事件不参与对账，账本以创建接口为准
		}
	}
}

// reconcileTicketPurchase 核对链上购票与账本票据
func (r *Reconciler) reconcileTicketPurchase(event *chain.Event) {
	var ticket model.TicketModel
	err := r.db.Where("tx_hash = ?", event.TxHash).First(&ticket).Error

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		r.recordMismatch(event, "链上购票在账本中无对应票据")
	case err != nil:
		logger.Error("Failed to look up ticket for tx %s: %v", event.TxHash, err)
	case ticket.Amount != event.Amount || ticket.CauseId != event.CauseId:
		r.recordMismatch(event, fmt.Sprintf("票据与链上事件不一致: 账本(cause=%d, amount=%d) 链上(cause=%d, amount=%d)",
			ticket.CauseId, ticket.Amount, event.CauseId, event.Amount))
	default:
		r.recordMatched(event)
	}
}

// reconcileCauseClose 核对链上关闭事件与账本关闭状态
func (r *Reconciler) reconcileCauseClose(event *chain.Event) {
	var cause model.CauseModel
	err := r.db.First(&cause, event.CauseId).Error

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		r.recordMismatch(event, "链上关闭事件对应的项目在账本中不存在")
	case err != nil:
		logger.Error("Failed to look up cause %d: %v", event.CauseId, err)
	case !cause.Closed:
		r.recordMismatch(event, "链上已关闭但账本仍为未关闭")
	default:
		r.recordMatched(event)
	}
}

// recordMismatch 落不一致记录，tx_hash唯一索引保证重复扫描不重复落库
func (r *Reconciler) recordMismatch(event *chain.Event, detail string) {
	record := model.SettlementRecordModel{
		CauseId:  event.CauseId,
		User:     event.Address,
		Amount:   event.Amount,
		TxHash:   event.TxHash,
		BlockNum: event.BlockNum,
		Status:   string(model.SettlementStatusMismatch),
		Detail:   detail,
	}
	if err := r.db.Where("tx_hash = ?", event.TxHash).FirstOrCreate(&record).Error; err != nil {
		logger.Error("Failed to record settlement mismatch for tx %s: %v", event.TxHash, err)
		return
	}
	logger.Warn("Settlement mismatch for cause %d tx %s: %s", event.CauseId, event.TxHash, detail)
}

// recordMatched 落一致记录
func (r *Reconciler) recordMatched(event *chain.Event) {
	record := model.SettlementRecordModel{
		CauseId:  event.CauseId,
		User:     event.Address,
		Amount:   event.Amount,
		TxHash:   event.TxHash,
		BlockNum: event.BlockNum,
		Status:   string(model.SettlementStatusMatched),
	}
	if err := r.db.Where("tx_hash = ?", event.TxHash).FirstOrCreate(&record).Error; err != nil {
		logger.Error("Failed to record settlement match for tx %s: %v", event.TxHash, err)
	}
}
