package main

import (
	"flag"
	"fmt"
	"net/http"

	"github.com/GarageBook/GarageBook/internal/common/config"
	"github.com/GarageBook/GarageBook/internal/common/db"
	"github.com/GarageBook/GarageBook/internal/common/logger"
	"github.com/GarageBook/GarageBook/internal/common/server"
	"github.com/GarageBook/GarageBook/internal/common/tracing"
	"github.com/GarageBook/GarageBook/internal/maintenance"
	"github.com/GarageBook/GarageBook/internal/user"
	"github.com/GarageBook/GarageBook/internal/vehicle"
	"github.com/gin-gonic/gin"
)

var (
	configPath  = flag.String("config", "configs/garagebook.json", "配置文件路径")
	consulKVKey = flag.String("consul-kv", "", "可选：从 Consul KV 读取配置的 key（覆盖本地配置文件）")
)

func main() {
	flag.Parse()

	// 加载配置
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}

	// 初始化日志
	log, err := logger.NewLogger(cfg.Log.Level, cfg.Log.Format, cfg.Log.Output, cfg.Log.Path)
	if err != nil {
		panic(fmt.Sprintf("failed to init logger: %v", err))
	}

	// 可选：Consul KV 配置覆盖
	if *consulKVKey != "" {
		kvCfg, err := config.LoadConfigFromConsulKV(cfg.Consul.Host, cfg.Consul.Port, *consulKVKey)
		if err != nil {
			log.Warnf("failed to load config from consul kv: %v", err)
		} else {
			cfg = kvCfg
		}
	}

	// 初始化链路追踪
	_, closer, err := tracing.InitTracer(
		cfg.Server.Name,
		cfg.Jaeger.Endpoint,
		cfg.Jaeger.Sampler,
	)
	if err != nil {
		log.Warnf("failed to init tracer: %v", err)
	} else {
		defer closer.Close()
	}

	// 初始化数据库
	gormDB, err := db.NewMySQL(
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.Database,
		cfg.Database.MaxIdle,
		cfg.Database.MaxOpen,
	)
	if err != nil {
		log.Fatalf("failed to init mysql: %v", err)
	}
	if err := gormDB.AutoMigrate(&user.User{}, &vehicle.Vehicle{}, &maintenance.Service{}); err != nil {
		log.Fatalf("failed to migrate mysql schema: %v", err)
	}

	// 组装领域层
	userSvc := user.NewService(gormDB, cfg.Auth)
	// 车辆删除时由服务台账 Repo 在同一事务里级联清理服务记录
	registry := vehicle.NewRegistry(gormDB, maintenance.NewRepo(gormDB))
	ledger := maintenance.NewLedger(gormDB)

	// 组装路由
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(
		server.Recovery(log),
		server.Tracing(cfg.Server.Name),
		server.AccessLog(log),
	)
	router.GET("/healthz", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	authed := router.Group("/", server.JWTAuth(cfg.Auth, log))

	user.NewHandler(userSvc, log).Register(router, authed)
	vehicle.NewHandler(registry, log).Register(authed)
	maintenance.NewHandler(ledger, log).Register(authed)

	// 启动统一的 HTTP 服务模板
	if err := server.RunHTTPServer(cfg, log, router); err != nil {
		log.Fatalf("garagebook exited with error: %v", err)
	}
}
