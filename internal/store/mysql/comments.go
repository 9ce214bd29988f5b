package mysql

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"go.uber.org/zap"

	"donation_hub/internal/domain"
	"donation_hub/internal/model"
)

func (s *Store) CreateComment(ctx context.Context, comment model.Comment) (model.Comment, error) {
	now := time.Now().UTC()
	if comment.CreatedAt.IsZero() {
		comment.CreatedAt = now
	}
	comment.UpdatedAt = comment.CreatedAt
	result, err := s.db.ExecContext(ctx,
		`INSERT INTO comments (item_id, author_id, content, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)`,
		comment.ItemID, comment.AuthorID, comment.Content, comment.CreatedAt, comment.UpdatedAt,
	)
	if err != nil {
		s.log.Error("sql create comment failed", zap.Int64("item_id", comment.ItemID), zap.Error(err))
		return model.Comment{}, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return model.Comment{}, err
	}
	comment.ID = id
	return comment, nil
}

func (s *Store) GetComment(ctx context.Context, id int64) (model.Comment, error) {
	var c model.Comment
	err := s.db.QueryRowContext(ctx,
		`SELECT id, item_id, author_id, content, created_at, updated_at
		 FROM comments WHERE id = ?`,
		id,
	).Scan(&c.ID, &c.ItemID, &c.AuthorID, &c.Content, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Comment{}, domain.ErrNotFound
	}
	if err != nil {
		s.log.Error("sql get comment failed", zap.Int64("id", id), zap.Error(err))
		return model.Comment{}, err
	}
	return c, nil
}

func (s *Store) UpdateComment(ctx context.Context, id, authorID int64, content string) (model.Comment, error) {
	comment, err := s.GetComment(ctx, id)
	if err != nil {
		return model.Comment{}, err
	}
	if comment.AuthorID != authorID {
		return model.Comment{}, domain.ErrForbidden
	}
	comment.Content = content
	comment.UpdatedAt = time.Now().UTC()
	if _, err := s.db.ExecContext(ctx,
		`UPDATE comments SET content = ?, updated_at = ? WHERE id = ?`,
		comment.Content, comment.UpdatedAt, id,
	); err != nil {
		s.log.Error("sql update comment failed", zap.Int64("id", id), zap.Error(err))
		return model.Comment{}, err
	}
	return comment, nil
}

func (s *Store) DeleteComment(ctx context.Context, id, authorID int64) error {
	comment, err := s.GetComment(ctx, id)
	if err != nil {
		return err
	}
	if comment.AuthorID != authorID {
		return domain.ErrForbidden
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM comments WHERE id = ?`, id); err != nil {
		s.log.Error("sql delete comment failed", zap.Int64("id", id), zap.Error(err))
		return err
	}
	return nil
}

func (s *Store) ListCommentsByItem(ctx context.Context, itemID int64) ([]model.Comment, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, item_id, author_id, content, created_at, updated_at
		 FROM comments WHERE item_id = ?
		 ORDER BY id ASC`,
		itemID,
	)
	if err != nil {
		s.log.Error("sql list comments failed", zap.Int64("item_id", itemID), zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var result []model.Comment
	for rows.Next() {
		var c model.Comment
		if err := rows.Scan(&c.ID, &c.ItemID, &c.AuthorID, &c.Content, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	return result, rows.Err()
}
