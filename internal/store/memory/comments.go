package memory

import (
	"context"
	"time"

	"donation_hub/internal/domain"
	"donation_hub/internal/model"
)

func (s *Store) CreateComment(_ context.Context, comment model.Comment) (model.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	comment.ID = s.nextCommentID
	s.nextCommentID++
	now := time.Now().UTC()
	if comment.CreatedAt.IsZero() {
		comment.CreatedAt = now
	}
	comment.UpdatedAt = comment.CreatedAt
	s.comments = append(s.comments, comment)
	return comment, nil
}

func (s *Store) GetComment(_ context.Context, id int64) (model.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.comments {
		if c.ID == id {
			return c, nil
		}
	}
	return model.Comment{}, domain.ErrNotFound
}

func (s *Store) UpdateComment(_ context.Context, id, authorID int64, content string) (model.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.comments {
		if s.comments[i].ID != id {
			continue
		}
		if s.comments[i].AuthorID != authorID {
			return model.Comment{}, domain.ErrForbidden
		}
		s.comments[i].Content = content
		s.comments[i].UpdatedAt = time.Now().UTC()
		return s.comments[i], nil
	}
	return model.Comment{}, domain.ErrNotFound
}

func (s *Store) DeleteComment(_ context.Context, id, authorID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.comments {
		if s.comments[i].ID != id {
			continue
		}
		if s.comments[i].AuthorID != authorID {
			return domain.ErrForbidden
		}
		s.comments = append(s.comments[:i], s.comments[i+1:]...)
		return nil
	}
	return domain.ErrNotFound
}

func (s *Store) ListCommentsByItem(_ context.Context, itemID int64) ([]model.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var result []model.Comment
	for _, c := range s.comments {
		if c.ItemID == itemID {
			result = append(result, c)
		}
	}
	return result, nil
}
