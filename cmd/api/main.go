package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/taskflow-dev/taskflow/backend/internal/config"
	"github.com/taskflow-dev/taskflow/backend/internal/handler"
	"github.com/taskflow-dev/taskflow/backend/internal/notify"
	"github.com/taskflow-dev/taskflow/backend/internal/repository"
	"github.com/taskflow-dev/taskflow/backend/internal/service"
	"github.com/taskflow-dev/taskflow/backend/internal/throttle"
	"github.com/taskflow-dev/taskflow/backend/internal/token"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func main() {
	/**********************************************
	 * 创建 logger
	 **********************************************/
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	/**********************************************
	 * 加载配置
	 **********************************************/
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("无法加载配置文件", "error", err)
		return
	}

	/**********************************************
	 * 连接数据库
	 **********************************************/
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Database.ConnectTimeout)*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().
		ApplyURI(cfg.Database.URI).
		SetMaxPoolSize(cfg.Database.MaxPoolSize).
		SetConnectTimeout(time.Duration(cfg.Database.ConnectTimeout)*time.Second))
	if err != nil {
		logger.Error("无法创建数据库客户端", "error", err)
		return
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			logger.Error("断开数据库连接失败", "error", err)
		}
	}()

	// mongo.Connect 不会等待连接建立，因此需要显式地 ping 一下
	if err := client.Ping(ctx, nil); err != nil {
		logger.Error("无法连接到数据库", "error", err)
		return
	}

	/**********************************************
	 * 创建 repository
	 **********************************************/
	repo := repository.NewRepository(cfg, client.Database(cfg.Database.Name))
	if err := repo.EnsureIndexes(context.Background()); err != nil {
		logger.Error("无法创建索引", "error", err)
		return
	}

	/**********************************************
	 * 连接 redis
	 **********************************************/
	rdb := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer rdb.Close()

	redisCtx, redisCancel := context.WithTimeout(context.Background(), time.Duration(cfg.Redis.ConnectTimeout)*time.Second)
	defer redisCancel()
	if err := rdb.Ping(redisCtx).Err(); err != nil {
		logger.Error("无法连接到 redis", "error", err)
		return
	}

	/**********************************************
	 * 连接 rabbitmq
	 **********************************************/
	conn, err := amqp.Dial(cfg.RabbitMQ.DSN)
	if err != nil {
		logger.Error("无法连接到 rabbitmq", "error", err)
		return
	}
	defer conn.Close()

	// 建立通道
	ch, err := conn.Channel()
	if err != nil {
		logger.Error("无法建立通道", "error", err)
		return
	}
	defer ch.Close()

	// 声明队列
	if _, err := notify.DeclareQueue(ch); err != nil {
		logger.Error("无法声明队列", "error", err)
		return
	}

	/**********************************************
	 * 创建 service
	 **********************************************/
	tokens, err := token.NewManager(cfg.JWT.Secret, cfg.JWT.Algorithm, time.Duration(cfg.JWT.Expiration)*time.Minute)
	if err != nil {
		logger.Error("无法创建令牌管理器", "error", err)
		return
	}

	loginThrottle := throttle.New(rdb, cfg.LoginThrottle.MaxAttempts, time.Duration(cfg.LoginThrottle.Window)*time.Second)
	publisher := notify.NewPublisher(ch, time.Duration(cfg.RabbitMQ.PublishTimeout)*time.Second)

	authService := service.NewAuthService(repo, tokens, loginThrottle)
	services := handler.Services{
		Sessions: service.NewSessionResolver(tokens, repo),
		Auth:     authService,
		Tasks:    service.NewTaskService(repo, publisher),
		Users:    service.NewUserService(repo),
		Health:   repo,
	}

	/**********************************************
	 * 确保数据库中存在初始管理员
	 **********************************************/
	if cfg.InitialAdmin.Email != "" {
		created, err := authService.BootstrapAdmin(context.Background(), cfg.InitialAdmin.Email, cfg.InitialAdmin.Password)
		if err != nil {
			logger.Error("无法创建初始管理员", "error", err)
			return
		}
		if created {
			logger.Info("已创建初始管理员", "email", cfg.InitialAdmin.Email)
		}
	}

	/**********************************************
	 * 创建 handler
	 **********************************************/
	handler, err := handler.NewHandler(cfg, services)
	if err != nil {
		logger.Error("无法创建 handler", "error", err)
		return
	}
	handler.RegisterRoutes()

	/**********************************************
	 * 启动 HTTP 服务器
	 **********************************************/
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      handler.Mux,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("正在启动服务器...", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("无法启动服务器", slog.String("error", err.Error()))
			return
		}
	}()

	<-quit
	logger.Info("正在关闭服务器...")

	ctx, cancel = context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("关闭服务器失败", slog.String("error", err.Error()))
	}
	logger.Info("服务器已成功关闭")
}
