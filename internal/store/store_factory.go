package store

import (
	"database/sql"

	_ "github.com/go-sql-driver/mysql"
	"go.uber.org/zap"

	"donation_hub/internal/config"
	"donation_hub/internal/repository"
	"donation_hub/internal/store/memory"
	"donation_hub/internal/store/mysql"
)

// Store is the full persistence surface. Both backends implement it.
type Store interface {
	repository.NotificationRepository
	repository.ChatRepository
	repository.CommentRepository
}

func NewStore(cfg *config.Config, logger *zap.Logger) (Store, error) {
	if cfg.MySQLDSN == "" {
		return memory.New(logger), nil
	}
	sqlDB, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		logger.Error("mysql open failed", zap.Error(err))
		return nil, err
	}
	if err := sqlDB.Ping(); err != nil {
		logger.Error("mysql ping failed", zap.Error(err))
		return nil, err
	}
	return mysql.New(sqlDB, logger), nil
}

// Narrowing providers for wire.

func Notifications(s Store) repository.NotificationRepository { return s }

func Chat(s Store) repository.ChatRepository { return s }

func Comments(s Store) repository.CommentRepository { return s }
