package container

import (
	"database/sql"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-social-accounts/config"
	"github.com/oksasatya/go-ddd-social-accounts/internal/application"
	"github.com/oksasatya/go-ddd-social-accounts/internal/domain/repository"
	"github.com/oksasatya/go-ddd-social-accounts/pkg/helpers"
)

// app-level container to share constructed components across packages.
// cmd/main sets what it built; router modules read from here.

var (
	cfg         *config.Config
	logger      *logrus.Logger
	pgPool      *pgxpool.Pool
	sqlDB       *sql.DB
	redisClient *redis.Client
	avatars     application.AvatarStore

	jwtManager *helpers.JWTManager

	userRepo  repository.UserRepository
	rabbitPub *helpers.RabbitPublisher
	esClient  *elasticsearch.Client
)

func SetConfig(c *config.Config) { cfg = c }
func GetConfig() *config.Config {
	if cfg == nil {
		cfg = config.Load()
	}
	return cfg
}
func SetLogger(l *logrus.Logger) { logger = l }
func GetLogger() *logrus.Logger {
	if logger == nil {
		logger = helpers.NewDiscardLogger()
	}
	return logger
}
func SetPGPool(p *pgxpool.Pool)                      { pgPool = p }
func GetPGPool() *pgxpool.Pool                       { return pgPool }
func SetDB(db *sql.DB)                               { sqlDB = db }
func GetDB() *sql.DB                                 { return sqlDB }
func SetRedis(r *redis.Client)                       { redisClient = r }
func GetRedis() *redis.Client                        { return redisClient }
func SetAvatarStore(s application.AvatarStore)       { avatars = s }
func GetAvatarStore() application.AvatarStore        { return avatars }
func SetUserRepository(r repository.UserRepository) { userRepo = r }
func GetUserRepository() repository.UserRepository  { return userRepo }
func SetJWT(m *helpers.JWTManager)                   { jwtManager = m }
func GetJWT() *helpers.JWTManager {
	if jwtManager == nil {
		jwtManager = helpers.NewJWTManager(GetConfig().JWTSecret)
	}
	return jwtManager
}

func SetRabbitPub(p *helpers.RabbitPublisher) { rabbitPub = p }
func GetRabbitPub() *helpers.RabbitPublisher  { return rabbitPub }
func SetES(c *elasticsearch.Client)           { esClient = c }
func GetES() *elasticsearch.Client            { return esClient }

// Publisher returns the email publisher as an interface value, nil when
// RabbitMQ is not connected.
func Publisher() application.Publisher {
	if rabbitPub == nil {
		return nil
	}
	return rabbitPub
}

// Reset clears every singleton; used by tests.
func Reset() {
	cfg, logger, pgPool, sqlDB, redisClient, avatars = nil, nil, nil, nil, nil, nil
	jwtManager, userRepo, rabbitPub, esClient = nil, nil, nil, nil
}
