package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"duet-server/configs"
	httpEngine "duet-server/internal/app/http"
	"duet-server/internal/logics"
	"duet-server/internal/repositories"
	"duet-server/internal/scheduler"
	"duet-server/internal/utils"
	"duet-server/pkg/messaging"

	"go.uber.org/zap"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "c", "", "Path to config file (short)")
	flag.StringVar(&configPath, "config", "", "Path to config file (long)")
	flag.Parse()

	if err := configs.Init(configPath); err != nil {
		panic("Failed to initialize configuration: " + err.Error())
	}
	defer configs.Logger.Sync()

	configs.Logger.Info("Configuration loaded.",
		zap.String("configPath", configPath),
	)

	// Initialize shared clients (MongoDB, Redis, S3)
	repositories.Init()

	// Background services for the scheduler. The HTTP layer wires its own
	// instances in RegisterRoutes.
	taskRepository := repositories.NewTaskRepository()
	userRepository := repositories.NewUserRepository()
	notificationRepository := repositories.NewNotificationRepository()
	pushGateway := utils.NewPushGateway(
		configs.Configs.Push.GatewayUrl,
		time.Duration(configs.Configs.Push.TimeoutSeconds)*time.Second,
	)
	publisher := messaging.NewRedisPublisher(repositories.DBS.Redis)
	pushService := logics.NewPushService(userRepository, notificationRepository, pushGateway, publisher, configs.Configs.Push.Channel, configs.Logger)
	reminderService := logics.NewReminderService(taskRepository, userRepository, pushService, configs.Logger)
	templateService := logics.NewTemplateSchedulerService(taskRepository, userRepository, pushService, configs.Logger)

	sched := scheduler.NewScheduler(reminderService, templateService, configs.Logger)
	sched.Start()

	// Create HTTP server and run it in a separate goroutine.
	httpServer := httpEngine.NewServer()
	go func() {
		if err := httpServer.Start(); err != nil {
			if err.Error() != "http: Server closed" {
				configs.Logger.Fatal("HTTP server error", zap.Error(err))
			}
		}
	}()

	// Graceful shutdown on SIGINT/SIGTERM.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	configs.Logger.Info("Shutdown signal received")

	sched.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		configs.Logger.Error("HTTP server shutdown error", zap.Error(err))
	} else {
		configs.Logger.Info("HTTP server shutdown gracefully")
	}

	configs.Logger.Info("Server exited")
}
