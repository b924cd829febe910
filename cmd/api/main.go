package main

import (
	"go.uber.org/zap"

	"taskhub/config"
	"taskhub/internal/handler"
	"taskhub/internal/httpserver"
	"taskhub/internal/mq"
	"taskhub/internal/repository"
	"taskhub/internal/service/auth"
	"taskhub/internal/service/milestone"
	"taskhub/internal/service/project"
	"taskhub/internal/service/task"
	"taskhub/pkg/db"
	"taskhub/pkg/logger"
	redisclient "taskhub/pkg/redis"
)

func main() {
	cfg := config.Load()

	log := logger.NewLogger()
	defer log.Sync()

	dbConn, err := db.NewConnection(cfg.DB, log)
	if err != nil {
		log.Fatal("DB initialization failed", zap.Error(err))
	}
	defer dbConn.Close()

	rdb := redisclient.NewClient(cfg.Redis)
	defer rdb.Close()

	// MQ is optional: without a broker the API still serves requests, it
	// just publishes no task events.
	var publisher *mq.Publisher
	if cfg.MQ.URL != "" {
		publisher, err = mq.NewPublisher(cfg.MQ.URL)
		if err != nil {
			log.Warn("MQ publisher unavailable, task events disabled", zap.Error(err))
			publisher = nil
		} else {
			defer publisher.Close()
		}
	}

	userRepo := repository.NewUserRepository(dbConn)
	projectRepo := repository.NewProjectRepository(dbConn, log)
	milestoneRepo := repository.NewMilestoneRepository(dbConn, log)
	taskRepo := repository.NewTaskRepository(dbConn, log)

	authService := auth.NewService(userRepo, cfg.JWT.Secret, log)
	projectService := project.NewService(projectRepo, milestoneRepo, taskRepo, log)
	milestoneService := milestone.NewService(milestoneRepo, projectRepo, log)
	// A typed-nil publisher must not reach the service as a non-nil
	// interface.
	var eventPub task.EventPublisher
	if publisher != nil {
		eventPub = publisher
	}
	taskService := task.NewService(taskRepo, projectRepo, rdb, eventPub, log)

	authHandler := handler.NewAuthHandler(authService, log)
	projectHandler := handler.NewProjectHandler(projectService, log)
	milestoneHandler := handler.NewMilestoneHandler(milestoneService, log)
	taskHandler := handler.NewTaskHandler(taskService, log)

	router := httpserver.NewRouter(
		authHandler,
		taskHandler,
		projectHandler,
		milestoneHandler,
		cfg.JWT.Secret,
		log,
		dbConn,
		publisher,
	)

	if err := router.Run(cfg.Server.Port); err != nil {
		log.Fatal("server start failed", zap.Error(err))
	}
}
