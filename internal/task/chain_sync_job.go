package task

import (
	"context"
	"time"

	"github.com/Fundify-GHRCE-Final-Year-Project/fundify-service/internal/config"
	"github.com/Fundify-GHRCE-Final-Year-Project/fundify-service/internal/ethereum"
	"github.com/Fundify-GHRCE-Final-Year-Project/fundify-service/internal/logger"
	"github.com/Fundify-GHRCE-Final-Year-Project/fundify-service/internal/monitor"
	"github.com/go-co-op/gocron/v2"
	"gorm.io/gorm"
)

// ChainSyncJob 链上事件同步任务
type ChainSyncJob struct {
	monitor  *monitor.EventMonitor
	interval time.Duration
}

// NewChainSyncJob 创建链上事件同步任务
func NewChainSyncJob(db *gorm.DB, ethClient *ethereum.Client, cfg *config.Config) (*ChainSyncJob, error) {
	eventMonitor, err := monitor.NewEventMonitor(db, ethClient, cfg)
	if err != nil {
		return nil, err
	}

	interval := time.Duration(cfg.Sync.Interval) * time.Second
	if interval <= 0 {
		interval = time.Minute
	}

	return &ChainSyncJob{
		monitor:  eventMonitor,
		interval: interval,
	}, nil
}

// GetName 任务名称
func (j *ChainSyncJob) GetName() string {
	return "chain_sync"
}

// GetSchedule 任务调度定义
func (j *ChainSyncJob) GetSchedule() gocron.JobDefinition {
	return gocron.DurationJob(j.interval)
}

// Execute 执行一轮同步
func (j *ChainSyncJob) Execute() {
	ctx, cancel := context.WithTimeout(context.Background(), j.interval)
	defer cancel()

	if err := j.monitor.SyncOnce(ctx); err != nil {
		logger.Error("Chain sync failed: %v", err)
	}
}
