package main

import (
	"github.com/Hossein-79/Fortuna/internal/chain"
	"github.com/Hossein-79/Fortuna/internal/clock"
	"github.com/Hossein-79/Fortuna/internal/config"
	"github.com/Hossein-79/Fortuna/internal/logger"
	"github.com/Hossein-79/Fortuna/internal/logic"
	"github.com/Hossein-79/Fortuna/internal/repository"
	"github.com/Hossein-79/Fortuna/internal/router"
	"github.com/Hossein-79/Fortuna/internal/scheduler"
	"github.com/Hossein-79/Fortuna/internal/settlement"
	"github.com/Hossein-79/Fortuna/internal/storage"
	"github.com/Hossein-79/Fortuna/internal/store"
	"github.com/gin-gonic/gin"
)

func main() {
	// 加载配置
	cfg := config.Load()

	// 初始化日志
	if cfg.Log.Output == "file" {
		fileLogger, err := logger.NewWithFileRotation(logger.ParseLogLevel(cfg.Log.Level), cfg.Log.File)
		if err != nil {
			logger.Fatal("Failed to initialize file logger: %v", err)
		}
		logger.SetDefaultLogger(fileLogger)
	}
	defer logger.Sync()

	// 初始化数据库
	db, err := repository.Init(cfg.Database)
	if err != nil {
		logger.Fatal("Failed to initialize database: %v", err)
	}

	// 初始化链上结算校验
	var verifier settlement.Verifier = settlement.NoopVerifier{}
	var chainClient *chain.Client
	if cfg.Chain.Enabled {
		chainClient, err = chain.Init(cfg.Chain)
		if err != nil {
			logger.Fatal("Failed to initialize chain client: %v", err)
		}
		verifier = settlement.NewChainVerifier(chainClient)
	}

	// 初始化对象存储
	objectStorage, err := storage.New(cfg.Storage)
	if err != nil {
		logger.Fatal("Failed to initialize object storage: %v", err)
	}

	// 组装业务逻辑
	causeStore := store.New(db)
	causeLogic := logic.NewCauseLogic(causeStore, verifier, clock.SystemClock{})
	userLogic := logic.NewUserLogic(causeStore)

	// 设置Gin模式
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// 初始化路由
	r := router.Setup(causeLogic, userLogic, objectStorage)

	// 启动结算对账任务
	if cfg.Chain.Enabled {
		manager := scheduler.Start(db, chainClient, cfg)
		defer manager.Stop()
	}

	// 启动服务器
	logger.Info("Server starting on port %s", cfg.Server.Port)
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		logger.Fatal("Failed to start server: %v", err)
	}
}
