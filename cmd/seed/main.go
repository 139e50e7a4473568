package main

import (
	"context"
	"flag"
	"log/slog"
	"math/rand"
	"os"
	"time"

	"github.com/taskflow-dev/taskflow/backend/internal/config"
	"github.com/taskflow-dev/taskflow/backend/internal/domain"
	"github.com/taskflow-dev/taskflow/backend/internal/repository"
	"github.com/taskflow-dev/taskflow/backend/internal/utils"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func main() {
	var op int
	var n int
	var createdBy string

	flag.IntVar(&op, "op", 0, "要执行的操作 (1: 插入随机用户, 2: 插入随机任务)")
	flag.IntVar(&n, "n", 5, "要插入的记录数量")
	flag.StringVar(&createdBy, "created-by", "", "随机任务的创建者邮箱，默认使用 INITIAL_ADMIN_EMAIL")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	// 读取配置文件
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("无法读取配置文件", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Database.ConnectTimeout)*time.Second)
	defer cancel()

	// 创建数据库客户端
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.Database.URI))
	if err != nil {
		logger.Error("无法创建数据库客户端", "error", err)
		return
	}
	defer client.Disconnect(context.Background())

	// mongo.Connect 不会等待连接建立，因此需要显式地 ping 一下
	if err := client.Ping(ctx, nil); err != nil {
		logger.Error("无法连接到数据库", "error", err)
		return
	}

	// 创建 repository
	repo := repository.NewRepository(cfg, client.Database(cfg.Database.Name))
	if err := repo.EnsureIndexes(context.Background()); err != nil {
		logger.Error("无法创建索引", "error", err)
		return
	}

	// 执行操作
	switch op {
	case 0:
		logger.Error("未指定操作")
	case 1:
		if n <= 0 {
			logger.Error("请输入合法的用户数量")
			return
		}

		cnt := 0
		for i := 0; i < n; i++ {
			user, err := utils.GenerateRandomUser(cfg.Seed.User.Password, cfg.Seed.UserDomain)
			if err != nil {
				logger.Error("无法生成随机用户", slog.String("error", err.Error()))
				continue
			}

			if err := repo.CreateUser(context.Background(), user); err != nil {
				logger.Error("无法插入用户", slog.String("email", user.Email), slog.String("error", err.Error()))
				continue
			}

			cnt++
		}

		logger.Info("插入用户成功", slog.Int("count", cnt))
	case 2:
		if n <= 0 {
			logger.Error("请输入合法的任务数量")
			return
		}

		if createdBy == "" {
			createdBy = cfg.InitialAdmin.Email
		}
		admin, err := repo.GetUserByEmail(context.Background(), createdBy)
		if err != nil {
			logger.Error("无法获取任务创建者", slog.String("email", createdBy), slog.String("error", err.Error()))
			return
		}
		if !admin.IsAdmin() {
			logger.Error("任务创建者必须是管理员", slog.String("email", createdBy))
			return
		}

		// 只把任务分配给普通用户
		users, err := repo.FindUsers(context.Background(), domain.UserFilter{}, 0, 0)
		if err != nil {
			logger.Error("无法获取用户列表", slog.String("error", err.Error()))
			return
		}
		assignees := make([]string, 0, len(users))
		for _, u := range users {
			if u.Role == domain.RoleUser {
				assignees = append(assignees, u.Email)
			}
		}
		if len(assignees) == 0 {
			logger.Error("没有可以分配任务的普通用户，请先使用 -op 1 插入用户")
			return
		}

		cnt := 0
		for i := 0; i < n; i++ {
			task := utils.GenerateRandomTask(admin.Email, assignees[rand.Intn(len(assignees))])
			if err := repo.CreateTask(context.Background(), task); err != nil {
				logger.Error("无法插入任务", slog.String("error", err.Error()))
				continue
			}

			cnt++
		}

		logger.Info("插入任务成功", slog.Int("count", cnt))
	default:
		logger.Error("指定的操作非法")
	}
}
