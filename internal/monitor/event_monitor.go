package monitor

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"

	"github.com/Fundify-GHRCE-Final-Year-Project/fundify-service/internal/config"
	"github.com/Fundify-GHRCE-Final-Year-Project/fundify-service/internal/ethereum"
	"github.com/Fundify-GHRCE-Final-Year-Project/fundify-service/internal/logger"
	"github.com/Fundify-GHRCE-Final-Year-Project/fundify-service/internal/logic"
	"github.com/Fundify-GHRCE-Final-Year-Project/fundify-service/internal/model"
	"github.com/panjf2000/ants/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// EventMonitor 链上事件镜像器
// 扫描 Fundify 合约日志并镜像到 projects / investments 表。
// 游标持久化在 sync_cursors 表，重启后从上次处理过的区块之后继续。
type EventMonitor struct {
	db            *gorm.DB
	client        *ethereum.Client
	pool          *ants.Pool
	startBlock    int64
	confirmations int64
	batchSize     int64
}

// projectKey 项目在合约中的唯一标识
type projectKey struct {
	owner string
	index int64
}

// NewEventMonitor 创建事件镜像器
func NewEventMonitor(db *gorm.DB, client *ethereum.Client, cfg *config.Config) (*EventMonitor, error) {
	poolSize := cfg.Sync.PoolSize
	if poolSize <= 0 {
		poolSize = 4
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create worker pool: %w", err)
	}

	batchSize := int64(cfg.Sync.BatchSize)
	if batchSize <= 0 {
		batchSize = 2000
	}

	return &EventMonitor{
		db:            db,
		client:        client,
		pool:          pool,
		startBlock:    cfg.Chain.StartBlock,
		confirmations: cfg.Chain.Confirmations,
		batchSize:     batchSize,
	}, nil
}

// SyncOnce 执行一轮同步：从游标扫描到已确认的链头
func (m *EventMonitor) SyncOnce(ctx context.Context) error {
	head, err := m.client.LatestBlock(ctx)
	if err != nil {
		return fmt.Errorf("failed to get latest block: %w", err)
	}
	confirmedHead := head - m.confirmations
	if confirmedHead < 0 {
		return nil
	}

	cursor, err := m.loadCursor()
	if err != nil {
		return err
	}

	fromBlock := cursor.LastBlock + 1
	if fromBlock > confirmedHead {
		return nil
	}

	logger.Info("Syncing contract events from block %d to %d", fromBlock, confirmedHead)

	for batchStart := fromBlock; batchStart <= confirmedHead; batchStart += m.batchSize {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		batchEnd := batchStart + m.batchSize - 1
		if batchEnd > confirmedHead {
			batchEnd = confirmedHead
		}

		if err := m.processBatch(ctx, batchStart, batchEnd); err != nil {
			return err
		}

		// 游标按批推进，失败的批次下一轮重扫
		if err := m.saveCursor(cursor, batchEnd); err != nil {
			return err
		}
	}

	return nil
}

// processBatch 处理一个区块区间的全部日志
func (m *EventMonitor) processBatch(ctx context.Context, fromBlock, toBlock int64) error {
	logs, err := m.client.GetLogs(ctx, fromBlock, toBlock)
	if err != nil {
		return fmt.Errorf("failed to get logs for blocks %d-%d: %w", fromBlock, toBlock, err)
	}
	if len(logs) == 0 {
		return nil
	}

	events := make([]interface{}, 0, len(logs))
	for _, log := range logs {
		event, err := m.client.ParseEvent(log)
		if err != nil {
			return err
		}
		if event == nil {
			continue
		}
		events = append(events, event)
	}

	return m.applyEvents(events)
}

// applyEvents 按项目分组并发镜像事件
// 同一项目的事件必须按日志顺序落库：乱序时 ProjectFunded 可能先于
// 同批次的 ProjectCreated 应用，金额累加落空，而交易哈希唯一索引
// 会让重扫跳过这笔投资，丢掉的金额无法恢复。
// 不同项目之间没有顺序依赖，每个分组作为一个池任务并发执行。
func (m *EventMonitor) applyEvents(events []interface{}) error {
	groups := make(map[projectKey][]interface{})
	order := make([]projectKey, 0, len(events))
	for _, event := range events {
		key := eventProject(event)
		if _, seen := groups[key]; !seen {
			order = append(order, key)
		}
		groups[key] = append(groups[key], event)
	}

	var wg sync.WaitGroup
	var firstErr error
	var errMu sync.Mutex

	for _, key := range order {
		group := groups[key]
		wg.Add(1)
		if err := m.pool.Submit(func() {
			defer wg.Done()
			for _, event := range group {
				if applyErr := m.applyEvent(event); applyErr != nil {
					errMu.Lock()
					if firstErr == nil {
						firstErr = applyErr
					}
					errMu.Unlock()
					return
				}
			}
		}); err != nil {
			wg.Done()
			return fmt.Errorf("failed to submit event group to pool: %w", err)
		}
	}
	wg.Wait()

	return firstErr
}

// eventProject 提取事件归属的项目标识
func eventProject(event interface{}) projectKey {
	switch e := event.(type) {
	case *ethereum.ProjectCreatedEvent:
		return projectKey{e.Owner, e.Index}
	case *ethereum.ProjectFundedEvent:
		return projectKey{e.ProjectOwner, e.ProjectIndex}
	case *ethereum.FundsReleasedEvent:
		return projectKey{e.Owner, e.Index}
	case *ethereum.ProjectEndedEvent:
		return projectKey{e.Owner, e.Index}
	default:
		return projectKey{}
	}
}

// applyEvent 镜像单个事件
func (m *EventMonitor) applyEvent(event interface{}) error {
	switch e := event.(type) {
	case *ethereum.ProjectCreatedEvent:
		return m.applyProjectCreated(e)
	case *ethereum.ProjectFundedEvent:
		return m.applyProjectFunded(e)
	case *ethereum.FundsReleasedEvent:
		return m.applyFundsReleased(e)
	case *ethereum.ProjectEndedEvent:
		return m.applyProjectEnded(e)
	case nil:
		return nil
	default:
		return nil
	}
}

// applyProjectCreated 镜像项目创建事件，(owner, idx) 已存在时跳过
func (m *EventMonitor) applyProjectCreated(event *ethereum.ProjectCreatedEvent) error {
	milestones := int(event.Milestones)
	if milestones < model.MinMilestones {
		milestones = model.MinMilestones
	}
	if milestones > model.MaxMilestones {
		milestones = model.MaxMilestones
	}

	project := model.ProjectModel{
		Owner:      event.Owner,
		Idx:        event.Index,
		Goal:       event.Goal.String(),
		Funded:     "0",
		Released:   "0",
		Milestones: milestones,
		Timestamp:  event.Timestamp,
	}
	if err := m.db.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&project).Error; err != nil {
		return fmt.Errorf("failed to mirror ProjectCreated %s/%d: %w", event.Owner, event.Index, err)
	}

	logger.Info("Mirrored ProjectCreated %s/%d at block %d", event.Owner, event.Index, event.BlockNum)
	return nil
}

// applyProjectFunded 镜像投资事件：插入投资记录并累加项目已募金额
// 交易哈希唯一索引保证重扫不会重复入账。
func (m *EventMonitor) applyProjectFunded(event *ethereum.ProjectFundedEvent) error {
	investment := model.InvestmentModel{
		Funder:          event.Funder,
		InvestmentIndex: event.InvestmentIndex,
		ProjectOwner:    event.ProjectOwner,
		ProjectIdx:      event.ProjectIndex,
		Amount:          event.Amount.String(),
		Timestamp:       event.Timestamp,
		TxHash:          event.TxHash,
	}
	result := m.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&investment)
	if result.Error != nil {
		return fmt.Errorf("failed to mirror ProjectFunded %s: %w", event.TxHash, result.Error)
	}
	if result.RowsAffected == 0 {
		// 已经镜像过这笔交易
		return nil
	}

	// 项目可能尚未被观察到（悬空引用），投资记录照常保留
	if err := m.bumpProjectAmount(event.ProjectOwner, event.ProjectIndex, "funded", event.Amount); err != nil {
		return err
	}

	logger.Info("Mirrored ProjectFunded %s -> %s/%d amount %s",
		event.Funder, event.ProjectOwner, event.ProjectIndex, event.Amount.String())
	return nil
}

// applyFundsReleased 镜像资金释放事件，累加项目已释放金额
func (m *EventMonitor) applyFundsReleased(event *ethereum.FundsReleasedEvent) error {
	if err := m.bumpProjectAmount(event.Owner, event.Index, "released", event.Amount); err != nil {
		return err
	}

	logger.Info("Mirrored FundsReleased %s/%d amount %s", event.Owner, event.Index, event.Amount.String())
	return nil
}

// applyProjectEnded 镜像项目结束事件
func (m *EventMonitor) applyProjectEnded(event *ethereum.ProjectEndedEvent) error {
	if err := m.db.Model(&model.ProjectModel{}).
		Where("owner = ? AND idx = ?", event.Owner, event.Index).
		Update("ended", true).Error; err != nil {
		return fmt.Errorf("failed to mirror ProjectEnded %s/%d: %w", event.Owner, event.Index, err)
	}

	logger.Info("Mirrored ProjectEnded %s/%d", event.Owner, event.Index)
	return nil
}

// bumpProjectAmount 在整数域累加项目的某个金额字段
// 读改写不加锁：同一项目的事件由同一个分组顺序应用，不会并发到这里。
func (m *EventMonitor) bumpProjectAmount(owner string, index int64, column string, delta *big.Int) error {
	var project model.ProjectModel
	err := m.db.Where("owner = ? AND idx = ?", owner, index).First(&project).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Project %s/%d not mirrored yet, skipping %s update", owner, index, column)
			return nil
		}
		return fmt.Errorf("failed to load project %s/%d: %w", owner, index, err)
	}

	current := logic.ParseWei(project.Funded)
	if column == "released" {
		current = logic.ParseWei(project.Released)
	}
	updated := new(big.Int).Add(current, delta).String()

	if err := m.db.Model(&project).Update(column, updated).Error; err != nil {
		return fmt.Errorf("failed to update project %s/%d %s: %w", owner, index, column, err)
	}
	return nil
}

// loadCursor 加载同步游标，首次同步从配置的起始区块开始
func (m *EventMonitor) loadCursor() (*model.SyncCursorModel, error) {
	cursor := model.SyncCursorModel{
		ContractAddress: m.client.ContractAddr.Hex(),
		LastBlock:       m.startBlock,
	}
	if err := m.db.Where(model.SyncCursorModel{ContractAddress: cursor.ContractAddress}).
		FirstOrCreate(&cursor).Error; err != nil {
		return nil, fmt.Errorf("failed to load sync cursor: %w", err)
	}
	return &cursor, nil
}

// saveCursor 推进同步游标
func (m *EventMonitor) saveCursor(cursor *model.SyncCursorModel, block int64) error {
	cursor.LastBlock = block
	if err := m.db.Model(cursor).Update("last_block", block).Error; err != nil {
		return fmt.Errorf("failed to save sync cursor: %w", err)
	}
	return nil
}

// Release 释放协程池
func (m *EventMonitor) Release() {
	m.pool.Release()
}
