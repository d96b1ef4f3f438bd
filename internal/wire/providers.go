// Package wire 提供依赖注入配置
package wire

import (
	"context"
	"fmt"
	"os"

	"github.com/google/wire"

	"ai-course-builder-api/internal/application/auth"
	"ai-course-builder-api/internal/application/course"
	"ai-course-builder-api/internal/application/generation"
	"ai-course-builder-api/internal/config"
	"ai-course-builder-api/internal/domain/repository"
	"ai-course-builder-api/internal/infrastructure/llm"
	"ai-course-builder-api/internal/infrastructure/messaging"
	"ai-course-builder-api/internal/infrastructure/persistence/postgres"
	"ai-course-builder-api/internal/infrastructure/persistence/redis"
	"ai-course-builder-api/internal/interfaces/http/handler"
	"ai-course-builder-api/internal/interfaces/http/middleware"
	"ai-course-builder-api/internal/interfaces/http/router"
	"ai-course-builder-api/pkg/utils"
)

// Worker 异步任务进程依赖容器
type Worker struct {
	Consumer *messaging.Consumer
	Courses  *course.Service
}

// PostgresSet PostgreSQL 提供者集合
var PostgresSet = wire.NewSet(
	ProvidePostgresClient,
	postgres.NewTxManager,
	postgres.NewCourseRepository,
	postgres.NewUserRepository,
)

// RepoSet 整合了具体实现与接口绑定的集合
var RepoSet = wire.NewSet(
	PostgresSet,
	wire.Bind(new(repository.Transactor), new(*postgres.TxManager)),
	wire.Bind(new(repository.CourseRepository), new(*postgres.CourseRepository)),
	wire.Bind(new(repository.UserRepository), new(*postgres.UserRepository)),
)

// RedisSet Redis 提供者集合
var RedisSet = wire.NewSet(
	ProvideRedisClient,
	redis.NewCache,
	redis.NewRateLimiter,
	wire.Bind(new(course.ShareCache), new(*redis.Cache)),
	wire.Bind(new(middleware.RateLimiter), new(*redis.RateLimiter)),
)

// MessagingSet 消息队列提供者集合
var MessagingSet = wire.NewSet(
	ProvideMessagingProducer,
	wire.Bind(new(course.JobPublisher), new(*messaging.Producer)),
)

// GenerationSet 生成管线提供者集合。客户端在启动时选定一次。
var GenerationSet = wire.NewSet(
	ProvideEinoFactory,
	ProvideGenerationClient,
	ProvideGenerationPolicy,
	ProvideOutlineGenerator,
	ProvideChapterGenerator,
	wire.Bind(new(course.OutlineGenerator), new(*generation.OutlineGenerator)),
	wire.Bind(new(course.ChapterGenerator), new(*generation.ChapterContentGenerator)),
)

// ServiceSet 应用服务提供者集合
var ServiceSet = wire.NewSet(
	ProvideCourseConfig,
	course.NewService,
	ProvideJWTManager,
	auth.NewService,
)

// RouterSet 路由器提供者集合
var RouterSet = wire.NewSet(
	ProvideHealthHandler,
	handler.NewAuthHandler,
	handler.NewCourseHandler,
	handler.NewExportHandler,
	ProvideRouterHandlers,
	router.New,
)

// ProvidePostgresClient 提供 PostgreSQL 客户端
func ProvidePostgresClient(cfg *config.Config) (*postgres.Client, func(), error) {
	client, err := postgres.NewClient(&cfg.Database.Postgres)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		_ = client.Close()
	}
	return client, cleanup, nil
}

// ProvideRedisClient 提供 Redis 客户端
func ProvideRedisClient(cfg *config.Config) (*redis.Client, func(), error) {
	client, err := redis.NewClient(&cfg.Cache.Redis)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		_ = client.Close()
	}
	return client, cleanup, nil
}

// ProvideMessagingProducer 提供消息生产者
func ProvideMessagingProducer(redisClient *redis.Client, cfg *config.Config) *messaging.Producer {
	return messaging.NewProducer(redisClient.Redis(), cfg.Messaging.RedisStream.MaxLen)
}

func ProvideEinoFactory(cfg *config.Config) *llm.EinoFactory {
	return llm.NewEinoFactory(cfg.LLM)
}

// ProvideGenerationClient 按配置选择在线客户端或占位客户端
func ProvideGenerationClient(ctx context.Context, factory *llm.EinoFactory, cfg *config.Config) (generation.Client, error) {
	return llm.NewGenerationClient(ctx, factory, cfg.LLM)
}

// ProvideGenerationPolicy 根据配置构造重试策略，未配置的字段沿用默认值
func ProvideGenerationPolicy(cfg *config.Config) generation.Policy {
	p := generation.DefaultPolicy()
	if cfg.Generation.MaxAttempts > 0 {
		p.MaxAttempts = cfg.Generation.MaxAttempts
	}
	if cfg.Generation.BackoffBase > 0 {
		p.Backoff = generation.LinearBackoff(cfg.Generation.BackoffBase)
	}
	return p
}

func ProvideOutlineGenerator(client generation.Client, p generation.Policy) *generation.OutlineGenerator {
	return generation.NewOutlineGenerator(client, generation.WithPolicy(p))
}

func ProvideChapterGenerator(client generation.Client, p generation.Policy) *generation.ChapterContentGenerator {
	return generation.NewChapterContentGenerator(client, generation.WithPolicy(p))
}

// ProvideCourseConfig 提供课程服务配置
func ProvideCourseConfig(cfg *config.Config) course.Config {
	return course.Config{
		MaxParallelChapters: cfg.Generation.MaxParallelChapters,
		ShareTTL:            cfg.Cache.ShareTTL,
	}
}

// ProvideJWTManager 提供 JWT 管理器
func ProvideJWTManager(cfg *config.Config) *utils.JWTManager {
	jwtCfg := cfg.Security.JWT
	return utils.NewJWTManager(jwtCfg.Secret, jwtCfg.Issuer, jwtCfg.Expiration)
}

// ProvideHealthHandler 提供健康检查处理器
func ProvideHealthHandler(cfg *config.Config, pg *postgres.Client, rdb *redis.Client) *handler.HealthHandler {
	return handler.NewHealthHandler(cfg.App.Version, map[string]handler.HealthChecker{
		"postgres": pg,
		"redis":    rdb,
	})
}

func ProvideRouterHandlers(
	health *handler.HealthHandler,
	authHandler *handler.AuthHandler,
	courseHandler *handler.CourseHandler,
	exportHandler *handler.ExportHandler,
) *router.Handlers {
	return &router.Handlers{
		Health: health,
		Auth:   authHandler,
		Course: courseHandler,
		Export: exportHandler,
	}
}

// ProvideCourseGenConsumer 创建批量章节生成消费者并注册处理器
func ProvideCourseGenConsumer(redisClient *redis.Client, cfg *config.Config, svc *course.Service) *messaging.Consumer {
	streamCfg := cfg.Messaging.RedisStream
	consumer := messaging.NewConsumer(redisClient.Redis(), messaging.ConsumerConfig{
		Stream:        messaging.StreamCourseGen,
		Group:         messaging.GroupWithPrefix(streamCfg.ConsumerGroupPrefix, messaging.ConsumerGroupCourseGenWorker),
		ConsumerName:  hostnameConsumerName(),
		BlockTimeout:  streamCfg.BlockTimeout,
		ClaimInterval: streamCfg.ClaimInterval,
		ReclaimIdle:   streamCfg.ClaimMinIdle,
		RetryLimit:    streamCfg.RetryLimit,
	})
	consumer.RegisterHandler(messaging.MessageTypeGenerateAllChapters, svc.HandleGenerateAllJob)
	return consumer
}

func hostnameConsumerName() string {
	host, err := os.Hostname()
	if err != nil || host == "" {
		host = "worker"
	}
	return fmt.Sprintf("%s-%d", host, os.Getpid())
}
