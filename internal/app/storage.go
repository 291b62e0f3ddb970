package app

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	"github.com/m04kA/SMC-CoachBooking/internal/config"
	"github.com/m04kA/SMC-CoachBooking/internal/infra/storage/migrations"
	slotRepo "github.com/m04kA/SMC-CoachBooking/internal/infra/storage/slot"
)

// newSlotStore создает хранилище по storage.driver.
// Возвращаемая функция освобождает соединения.
func newSlotStore(ctx context.Context, cfg *config.Config, log Logger) (SlotStore, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Storage.Driver {
	case config.DriverMemory:
		log.Warn("Storage: using in-memory store, data is lost on restart")
		return slotRepo.NewMemoryRepository(), noop, nil

	case config.DriverRedis:
		opts, err := RedisOptions(cfg.Redis)
		if err != nil {
			return nil, nil, err
		}
		client := redis.NewClient(opts)
		store := slotRepo.NewRedisRepository(client, cfg.Storage.KeyPrefix, log)
		if err := store.Ping(ctx); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("redis: %w", err)
		}
		log.Info("Storage: connected to redis addr=%s, prefix=%s", opts.Addr, cfg.Storage.KeyPrefix)
		return store, client.Close, nil

	case config.DriverPostgres:
		db, err := sql.Open("postgres", cfg.Database.DSN())
		if err != nil {
			return nil, nil, fmt.Errorf("postgres: open: %w", err)
		}
		db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
		db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
		db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

		if err := db.PingContext(ctx); err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("postgres: ping: %w", err)
		}

		migrator, err := migrations.NewMigrator(db, log)
		if err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		if err := migrator.Run(ctx); err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("postgres: %w", err)
		}
		log.Info("Storage: connected to postgres host=%s, db=%s", cfg.Database.Host, cfg.Database.DBName)
		return slotRepo.NewPostgresRepository(db), db.Close, nil

	case config.DriverDynamoDB:
		awsCfg, err := LoadAWSConfig(ctx, DynamoDBAWSOptions(cfg.DynamoDB))
		if err != nil {
			return nil, nil, err
		}
		client := dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
			if cfg.DynamoDB.Endpoint != "" {
				o.BaseEndpoint = aws.String(cfg.DynamoDB.Endpoint)
			}
		})
		log.Info("Storage: using dynamodb table=%s, region=%s", cfg.DynamoDB.Table, awsCfg.Region)
		return slotRepo.NewDynamoRepository(client, cfg.DynamoDB.Table, log), noop, nil

	default:
		return nil, nil, fmt.Errorf("%w: unknown storage driver %q", config.ErrInvalidConfig, cfg.Storage.Driver)
	}
}
