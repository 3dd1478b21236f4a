package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"reservo/internal/database"
	"reservo/internal/router"
	"reservo/internal/services"
	"reservo/pkg/config"
	"reservo/pkg/logger"

	"github.com/gin-gonic/gin"
)

func main() {
	// 加载配置
	cfg := config.GetConfig()

	// 初始化日志
	if err := logger.Initialize(cfg); err != nil {
		fmt.Printf("初始化日志失败: %v\n", err)
		os.Exit(1)
	}
	log := logger.GetLogger()

	// 设置运行模式
	gin.SetMode(cfg.Server.Mode)

	// 初始化数据库
	if err := database.Initialize(cfg); err != nil {
		log.Fatalf("初始化数据库失败: %v", err)
	}
	defer database.Close()
	defer database.CloseRedis()

	// 数据库迁移
	if err := database.Migrate(); err != nil {
		log.Fatalf("数据库迁移失败: %v", err)
	}

	// 初始化种子数据
	if err := seedData(); err != nil {
		log.Fatalf("初始化种子数据失败: %v", err)
	}

	// 启动角色过期清扫任务
	sweeper := services.NewSweeperService(services.NewAuthzService())
	if err := sweeper.Start(); err != nil {
		log.Fatalf("启动清扫任务失败: %v", err)
	}
	defer sweeper.Stop()

	// 初始化路由并启动服务
	r := router.SetupRouter()
	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: r,
	}

	go func() {
		log.Infof("服务启动，监听端口 %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("服务启动失败: %v", err)
		}
	}()

	// 优雅关停
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("收到退出信号，开始关停服务")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Errorf("服务关停失败: %v", err)
	}
	log.Info("服务已退出")
}
