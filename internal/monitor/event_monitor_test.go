package monitor

import (
	"fmt"
	"math/big"
	"strings"
	"testing"

	"github.com/Fundify-GHRCE-Final-Year-Project/fundify-service/internal/config"
	"github.com/Fundify-GHRCE-Final-Year-Project/fundify-service/internal/ethereum"
	"github.com/Fundify-GHRCE-Final-Year-Project/fundify-service/internal/model"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupMonitor 创建带独立内存数据库的事件镜像器
// 链客户端不参与事件应用，置空即可。
func setupMonitor(t *testing.T) (*EventMonitor, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared",
		strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	if err := db.AutoMigrate(
		&model.ProjectModel{},
		&model.InvestmentModel{},
		&model.SyncCursorModel{},
	); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	m, err := NewEventMonitor(db, nil, &config.Config{})
	if err != nil {
		t.Fatalf("failed to create monitor: %v", err)
	}
	t.Cleanup(m.Release)

	return m, db
}

// 同一批次内，同一项目的创建和投资事件必须按日志顺序入账：
// 多个项目并发应用时，每个项目的金额都不能丢。
func TestApplyEventsSameBatchFundedAfterCreated(t *testing.T) {
	m, db := setupMonitor(t)

	const projects = 25
	events := make([]interface{}, 0, projects*3)
	for i := int64(0); i < projects; i++ {
		owner := fmt.Sprintf("0xAAA%02d", i)
		events = append(events,
			&ethereum.ProjectCreatedEvent{
				Owner:      owner,
				Index:      0,
				Goal:       big.NewInt(1000),
				Milestones: 2,
				Timestamp:  1700000000,
				TxHash:     fmt.Sprintf("0xc%02d", i),
			},
			&ethereum.ProjectFundedEvent{
				Funder:          "0xF00D",
				InvestmentIndex: i * 2,
				ProjectOwner:    owner,
				ProjectIndex:    0,
				Amount:          big.NewInt(42),
				Timestamp:       1700000001,
				TxHash:          fmt.Sprintf("0xf%02da", i),
			},
			&ethereum.ProjectFundedEvent{
				Funder:          "0xF00D",
				InvestmentIndex: i*2 + 1,
				ProjectOwner:    owner,
				ProjectIndex:    0,
				Amount:          big.NewInt(8),
				Timestamp:       1700000002,
				TxHash:          fmt.Sprintf("0xf%02db", i),
			},
		)
	}

	if err := m.applyEvents(events); err != nil {
		t.Fatalf("applyEvents: %v", err)
	}

	var mirrored []model.ProjectModel
	if err := db.Find(&mirrored).Error; err != nil {
		t.Fatalf("failed to load projects: %v", err)
	}
	if len(mirrored) != projects {
		t.Fatalf("mirrored %d projects, want %d", len(mirrored), projects)
	}
	for _, project := range mirrored {
		if project.Funded != "50" {
			t.Errorf("project %s funded = %s, want 50", project.Owner, project.Funded)
		}
	}

	var investments int64
	db.Model(&model.InvestmentModel{}).Count(&investments)
	if investments != projects*2 {
		t.Errorf("mirrored %d investments, want %d", investments, projects*2)
	}
}

// 投资引用了从未镜像过的项目：投资记录保留，金额更新跳过，不报错
func TestApplyEventsDanglingProject(t *testing.T) {
	m, db := setupMonitor(t)

	err := m.applyEvents([]interface{}{
		&ethereum.ProjectFundedEvent{
			Funder:          "0xF00D",
			InvestmentIndex: 0,
			ProjectOwner:    "0xDEAD",
			ProjectIndex:    7,
			Amount:          big.NewInt(42),
			Timestamp:       1700000000,
			TxHash:          "0xfeed",
		},
	})
	if err != nil {
		t.Fatalf("applyEvents: %v", err)
	}

	var investments int64
	db.Model(&model.InvestmentModel{}).Count(&investments)
	if investments != 1 {
		t.Errorf("mirrored %d investments, want 1", investments)
	}
	var mirroredProjects int64
	db.Model(&model.ProjectModel{}).Count(&mirroredProjects)
	if mirroredProjects != 0 {
		t.Errorf("mirrored %d projects, want 0", mirroredProjects)
	}
}

// 投资、释放、结束事件同批应用，各字段按日志顺序推进
func TestApplyEventsFullLifecycle(t *testing.T) {
	m, db := setupMonitor(t)

	err := m.applyEvents([]interface{}{
		&ethereum.ProjectCreatedEvent{
			Owner: "0xAAA", Index: 0, Goal: big.NewInt(100),
			Milestones: 2, Timestamp: 1700000000, TxHash: "0xc1",
		},
		&ethereum.ProjectFundedEvent{
			Funder: "0xF00D", InvestmentIndex: 0,
			ProjectOwner: "0xAAA", ProjectIndex: 0,
			Amount: big.NewInt(100), Timestamp: 1700000001, TxHash: "0xf1",
		},
		&ethereum.FundsReleasedEvent{
			Owner: "0xAAA", Index: 0, Amount: big.NewInt(50), TxHash: "0xr1",
		},
		&ethereum.ProjectEndedEvent{
			Owner: "0xAAA", Index: 0, TxHash: "0xe1",
		},
	})
	if err != nil {
		t.Fatalf("applyEvents: %v", err)
	}

	var project model.ProjectModel
	if err := db.Where("owner = ? AND idx = ?", "0xAAA", 0).First(&project).Error; err != nil {
		t.Fatalf("failed to load project: %v", err)
	}
	if project.Funded != "100" {
		t.Errorf("funded = %s, want 100", project.Funded)
	}
	if project.Released != "50" {
		t.Errorf("released = %s, want 50", project.Released)
	}
	if !project.Ended {
		t.Error("ended = false, want true")
	}
}

// 里程碑数量镜像时收敛到合法区间
func TestApplyProjectCreatedClampsMilestones(t *testing.T) {
	m, db := setupMonitor(t)

	cases := []struct {
		index      int64
		milestones int64
		want       int
	}{
		{0, 0, model.MinMilestones},
		{1, 99, model.MaxMilestones},
		{2, 5, 5},
	}
	for _, tc := range cases {
		err := m.applyProjectCreated(&ethereum.ProjectCreatedEvent{
			Owner:      "0xAAA",
			Index:      tc.index,
			Goal:       big.NewInt(100),
			Milestones: tc.milestones,
			Timestamp:  1700000000,
		})
		if err != nil {
			t.Fatalf("applyProjectCreated: %v", err)
		}

		var project model.ProjectModel
		if err := db.Where("owner = ? AND idx = ?", "0xAAA", tc.index).First(&project).Error; err != nil {
			t.Fatalf("failed to load project %d: %v", tc.index, err)
		}
		if project.Milestones != tc.want {
			t.Errorf("milestones %d mirrored as %d, want %d", tc.milestones, project.Milestones, tc.want)
		}
	}
}

// 重复的交易哈希不会二次入账
func TestApplyEventsRescanIdempotent(t *testing.T) {
	m, db := setupMonitor(t)

	batch := []interface{}{
		&ethereum.ProjectCreatedEvent{
			Owner: "0xAAA", Index: 0, Goal: big.NewInt(100),
			Milestones: 1, Timestamp: 1700000000, TxHash: "0xc1",
		},
		&ethereum.ProjectFundedEvent{
			Funder: "0xF00D", InvestmentIndex: 0,
			ProjectOwner: "0xAAA", ProjectIndex: 0,
			Amount: big.NewInt(42), Timestamp: 1700000001, TxHash: "0xf1",
		},
	}
	if err := m.applyEvents(batch); err != nil {
		t.Fatalf("first applyEvents: %v", err)
	}
	if err := m.applyEvents(batch); err != nil {
		t.Fatalf("second applyEvents: %v", err)
	}

	var project model.ProjectModel
	if err := db.Where("owner = ? AND idx = ?", "0xAAA", 0).First(&project).Error; err != nil {
		t.Fatalf("failed to load project: %v", err)
	}
	if project.Funded != "42" {
		t.Errorf("funded after rescan = %s, want 42", project.Funded)
	}
	var investments int64
	db.Model(&model.InvestmentModel{}).Count(&investments)
	if investments != 1 {
		t.Errorf("investments after rescan = %d, want 1", investments)
	}
}
