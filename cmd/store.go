package cmd

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/vibast-solutions/ms-go-contacts/app/repository"
	"github.com/vibast-solutions/ms-go-contacts/config"

	"github.com/go-sql-driver/mysql"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

type stores struct {
	records  repository.RecordStore
	attempts repository.AttemptStore
	closers  []func()
}

func (s *stores) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
}

// openStores connects to the configured backends and ensures the unique indexes exist.
func openStores(ctx context.Context, cfg *config.Config) (*stores, error) {
	st := &stores{}

	switch cfg.Store.Driver {
	case config.StoreDriverMongo:
		client, err := openMongo(ctx, cfg)
		if err != nil {
			return nil, err
		}
		st.closers = append(st.closers, func() { _ = client.Disconnect(context.Background()) })

		db := client.Database(cfg.Store.MongoDatabase)
		recordRepo := repository.NewMongoRecordRepository(db)
		if err = recordRepo.EnsureIndexes(ctx); err != nil {
			st.Close()
			return nil, fmt.Errorf("ensure indexes: %w", err)
		}
		st.records = recordRepo
		st.attempts = repository.NewMongoAttemptRepository(db)
	default:
		db, err := openMySQL(ctx, cfg)
		if err != nil {
			return nil, err
		}
		st.closers = append(st.closers, func() { _ = db.Close() })

		if err = repository.EnsureSchema(ctx, db); err != nil {
			st.Close()
			return nil, fmt.Errorf("ensure schema: %w", err)
		}
		st.records = repository.NewRecordRepository(db)
		st.attempts = repository.NewAttemptRepository(db)
	}

	if cfg.Store.AttemptBackend == config.AttemptBackendRedis {
		client, err := openRedis(ctx, cfg)
		if err != nil {
			st.Close()
			return nil, err
		}
		st.closers = append(st.closers, func() { _ = client.Close() })
		st.attempts = repository.NewRedisAttemptRepository(client, cfg.Redis.AttemptKey, cfg.Redis.AttemptLogCap)
	}

	return st, nil
}

// openStoresOrDegrade keeps the process up when the database is unreachable; every
// store call then fails with repository.ErrNotConnected.
func openStoresOrDegrade(ctx context.Context, cfg *config.Config) *stores {
	st, err := openStores(ctx, cfg)
	if err != nil {
		logrus.WithError(err).WithField("driver", cfg.Store.Driver).Error("Database not connected, serving in degraded mode")
		return &stores{
			records:  repository.NewDisconnectedStore(err),
			attempts: repository.DisconnectedAttemptStore{},
		}
	}
	return st
}

func openMySQL(ctx context.Context, cfg *config.Config) (*sql.DB, error) {
	mysqlCfg, err := mysql.ParseDSN(cfg.Store.MySQLDSN)
	if err != nil {
		return nil, fmt.Errorf("parse mysql dsn: %w", err)
	}
	mysqlCfg.ParseTime = true
	if mysqlCfg.Timeout == 0 {
		mysqlCfg.Timeout = cfg.Store.Timeout
	}
	if mysqlCfg.ReadTimeout == 0 {
		mysqlCfg.ReadTimeout = cfg.Store.Timeout
	}
	if mysqlCfg.WriteTimeout == 0 {
		mysqlCfg.WriteTimeout = cfg.Store.Timeout
	}

	db, err := sql.Open("mysql", mysqlCfg.FormatDSN())
	if err != nil {
		return nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, cfg.Store.Timeout)
	defer cancel()
	if err = db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping mysql: %w", err)
	}
	return db, nil
}

func openMongo(ctx context.Context, cfg *config.Config) (*mongo.Client, error) {
	opts := options.Client().
		ApplyURI(cfg.Store.MongoURI).
		SetServerSelectionTimeout(cfg.Store.Timeout).
		SetConnectTimeout(cfg.Store.Timeout).
		SetTimeout(cfg.Store.Timeout).
		SetReadPreference(readpref.Primary())

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, cfg.Store.Timeout)
	defer cancel()
	if err = client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return client, nil
}

func openRedis(ctx context.Context, cfg *config.Config) (*redis.Client, error) {
	opts, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}
	opts.DialTimeout = cfg.Store.Timeout
	opts.ReadTimeout = cfg.Store.Timeout
	opts.WriteTimeout = cfg.Store.Timeout

	client := redis.NewClient(opts)
	if err = client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return client, nil
}
