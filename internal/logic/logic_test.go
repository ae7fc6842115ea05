package logic

import (
	"fmt"
	"strings"
	"testing"

	"github.com/Fundify-GHRCE-Final-Year-Project/fundify-service/internal/model"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB 创建每个测试独立的内存数据库
// cache=shared 让 gorm 连接池里的多个连接看到同一个库。
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared",
		strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}

	err = db.AutoMigrate(
		&model.ProjectModel{},
		&model.InvestmentModel{},
		&model.UserModel{},
		&model.SyncCursorModel{},
	)
	if err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}

	return db
}
