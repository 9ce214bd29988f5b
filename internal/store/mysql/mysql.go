package mysql

import (
	"database/sql"
	"strings"

	"go.uber.org/zap"
)

type Store struct {
	db  *sql.DB
	log *zap.Logger
}

func New(db *sql.DB, logger *zap.Logger) *Store {
	return &Store{db: db, log: logger}
}

// placeholders builds "?,?,?" for IN clauses.
func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat("?,", n-1) + "?"
}

func int64Args(ids []int64) []any {
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return args
}
