//go:build wireinject
// +build wireinject

package wire

import (
	"context"

	"github.com/google/wire"

	"ai-course-builder-api/internal/config"
	"ai-course-builder-api/internal/infrastructure/persistence/postgres"
	"ai-course-builder-api/internal/interfaces/http/router"
)

// InitializePostgresOnly 仅初始化 PostgreSQL 客户端（用于 bootstrap）
func InitializePostgresOnly(ctx context.Context, cfg *config.Config) (*postgres.Client, func(), error) {
	wire.Build(ProvidePostgresClient)
	return nil, nil, nil
}

// InitializeApp 初始化整个应用（带路由器）
func InitializeApp(ctx context.Context, cfg *config.Config) (*router.Router, func(), error) {
	wire.Build(
		RepoSet,
		RedisSet,
		MessagingSet,
		GenerationSet,
		ServiceSet,
		RouterSet,
	)
	return nil, nil, nil
}

// InitializeWorker 初始化异步任务进程
func InitializeWorker(ctx context.Context, cfg *config.Config) (*Worker, func(), error) {
	wire.Build(
		RepoSet,
		RedisSet,
		MessagingSet,
		GenerationSet,
		ServiceSet,
		ProvideCourseGenConsumer,
		wire.Struct(new(Worker), "*"),
	)
	return nil, nil, nil
}
