package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"cloudnotes-be/internal/config"
	"cloudnotes-be/internal/pkg/logger"
	"cloudnotes-be/internal/repository/contract"
	"cloudnotes-be/internal/repository/dynamo"
	"cloudnotes-be/internal/repository/implementation"
	"cloudnotes-be/internal/repository/kv"
	"cloudnotes-be/internal/repository/memory"
	"cloudnotes-be/pkg/awsutil"
	"cloudnotes-be/pkg/database"
	pktNats "cloudnotes-be/pkg/nats"
	"cloudnotes-be/pkg/storage"
)

// Infrastructure holds the external collaborators chosen by configuration.
type Infrastructure struct {
	NoteRepository contract.NoteRepository
	Presigner      storage.Presigner
	// Forwarder is nil when NATS_URL is empty or unreachable.
	Forwarder *pktNats.Publisher

	closers []func() error
}

func NewInfrastructure(ctx context.Context, cfg *config.Config, sysLogger logger.ILogger) (*Infrastructure, error) {
	infra := &Infrastructure{}

	repo, err := infra.newNoteRepository(ctx, cfg.Store)
	if err != nil {
		_ = infra.Close()
		return nil, err
	}
	infra.NoteRepository = repo
	sysLogger.Info("BOOTSTRAP", "Note store ready", map[string]interface{}{"Driver": cfg.Store.Driver})

	awsCfg, err := awsutil.Load(ctx, awsutil.Options{
		Region:    cfg.Files.Region,
		AccessKey: cfg.Files.AccessKey,
		SecretKey: cfg.Files.SecretKey,
	})
	if err != nil {
		_ = infra.Close()
		return nil, err
	}
	if cfg.Files.Bucket == "" {
		sysLogger.Warn("BOOTSTRAP", "BUCKET_NAME is not set, presigned URLs will not resolve", nil)
	}
	infra.Presigner = storage.NewS3Presigner(awsCfg, storage.S3Config{
		Bucket:       cfg.Files.Bucket,
		Endpoint:     cfg.Files.Endpoint,
		UsePathStyle: cfg.Files.UsePathStyle,
	})

	if cfg.Events.NatsURL != "" {
		pub, err := pktNats.NewPublisher(ctx, cfg.Events.NatsURL)
		if err != nil {
			sysLogger.Warn("BOOTSTRAP", "NATS publisher degraded", map[string]interface{}{"error": err.Error()})
		}
		if pub != nil {
			infra.Forwarder = pub
			infra.closers = append(infra.closers, func() error { pub.Close(); return nil })
		}
	}

	return infra, nil
}

func (i *Infrastructure) newNoteRepository(ctx context.Context, cfg config.StoreConfig) (contract.NoteRepository, error) {
	switch cfg.Driver {
	case config.DriverMemory:
		return memory.NewNoteRepository(), nil

	case config.DriverPostgres:
		db, err := database.NewGormDBFromDSN(cfg.Connection)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		i.closers = append(i.closers, sqlDB.Close)
		return implementation.NewNoteRepository(db), nil

	case config.DriverDynamoDB:
		client, err := database.NewDynamoDBClient(ctx, database.DynamoDBConfig{
			Region:   cfg.Region,
			Endpoint: cfg.DynamoDBEndpoint,
		})
		if err != nil {
			return nil, fmt.Errorf("create dynamodb client: %w", err)
		}
		return dynamo.NewNoteRepository(client, cfg.TableName), nil

	case config.DriverRedis:
		rdb, err := database.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		i.closers = append(i.closers, rdb.Close)
		return kv.NewNoteRepository(rdb), nil

	default:
		return nil, fmt.Errorf("unknown NOTE_STORE_DRIVER %q", cfg.Driver)
	}
}

func (i *Infrastructure) Close() error {
	var errs []error
	for j := len(i.closers) - 1; j >= 0; j-- {
		if err := i.closers[j](); err != nil {
			errs = append(errs, err)
		}
	}
	i.closers = nil
	return errors.Join(errs...)
}
