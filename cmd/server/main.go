package main

import (
	"github.com/Fundify-GHRCE-Final-Year-Project/fundify-service/internal/config"
	"github.com/Fundify-GHRCE-Final-Year-Project/fundify-service/internal/database"
	"github.com/Fundify-GHRCE-Final-Year-Project/fundify-service/internal/ethereum"
	"github.com/Fundify-GHRCE-Final-Year-Project/fundify-service/internal/logger"
	"github.com/Fundify-GHRCE-Final-Year-Project/fundify-service/internal/router"
	"github.com/Fundify-GHRCE-Final-Year-Project/fundify-service/internal/task"
	"github.com/gin-gonic/gin"
)

func main() {
	// 加载配置
	cfg := config.Load()

	// 初始化日志
	level := logger.ParseLogLevel(cfg.Log.Level)
	if cfg.Log.Output == "file" {
		fileLogger, err := logger.NewWithFileRotation(level, cfg.Log.File)
		if err != nil {
			logger.Fatal("Failed to initialize file logger: %v", err)
		}
		logger.SetDefaultLogger(fileLogger)
	} else if stdLogger, err := logger.New(level); err == nil {
		logger.SetDefaultLogger(stdLogger)
	}
	defer logger.Sync()

	// 初始化数据库
	db, err := database.Init(cfg.Database)
	if err != nil {
		logger.Fatal("Failed to initialize database: %v", err)
	}

	// 链上事件镜像可关闭，本地开发时只读已有数据
	if cfg.Chain.Enabled {
		ethClient, err := ethereum.Init(cfg.Chain)
		if err != nil {
			logger.Fatal("Failed to initialize ethereum client: %v", err)
		}
		defer ethClient.Close()

		manager := task.Start(db, ethClient, cfg)
		defer manager.Stop()
	} else {
		logger.Warn("Chain sync disabled, serving mirrored data only")
	}

	// 设置Gin模式
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// 初始化路由
	r := router.Setup(db, cfg)

	// 启动服务器
	logger.Info("Server starting on port %s", cfg.Server.Port)
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		logger.Fatal("Failed to start server: %v", err)
	}
}
