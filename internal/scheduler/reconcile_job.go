package scheduler

import (
	"time"

	"github.com/Hossein-79/Fortuna/internal/chain"
	"github.com/Hossein-79/Fortuna/internal/config"
	"github.com/Hossein-79/Fortuna/internal/logger"
	"github.com/Hossein-79/Fortuna/internal/monitor"
	"github.com/go-co-op/gocron/v2"
	"gorm.io/gorm"
)

// ReconcileJob 结算对账任务
// 周期性核对链上事件与本地账本，不一致落库等待人工处理
type ReconcileJob struct {
	config     *config.Config
	reconciler *monitor.Reconciler
}

// NewReconcileJob 创建结算对账任务
func NewReconcileJob(db *gorm.DB, cfg *config.Config, client *chain.Client) *ReconcileJob {
	return &ReconcileJob{
		config:     cfg,
		reconciler: monitor.NewReconciler(client, db),
	}
}

// GetName 获取任务名称
func (j *ReconcileJob) GetName() string {
	return "settlement_reconciler"
}

// GetSchedule 获取调度配置
func (j *ReconcileJob) GetSchedule() gocron.JobDefinition {
	return gocron.DurationJob(time.Duration(j.config.Task.Interval) * time.Second)
}

// Execute 执行任务
func (j *ReconcileJob) Execute() {
	logger.Info("Starting settlement reconcile task")

	if err := j.reconciler.RunOnce(); err != nil {
		logger.Error("Settlement reconcile task failed: %v", err)
		return
	}

	logger.Info("Settlement reconcile task completed")
}
