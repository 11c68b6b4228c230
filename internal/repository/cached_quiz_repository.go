package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"chat-quiz/internal/cache"
	"chat-quiz/internal/domain"
	"chat-quiz/internal/logger"
	"chat-quiz/internal/repository/models"
)

// CachedQuizRepository serves GetQuizByID from the cache and invalidates on writes.
// Cache failures are logged and fall through to the underlying repository.
type CachedQuizRepository struct {
	next    domain.QuizRepository
	cache   domain.Cache
	ttl     time.Duration
	sfGroup singleflight.Group
}

func NewCachedQuizRepository(next domain.QuizRepository, c domain.Cache, ttl time.Duration) domain.QuizRepository {
	return &CachedQuizRepository{next: next, cache: c, ttl: ttl}
}

func (r *CachedQuizRepository) SaveQuiz(ctx context.Context, quiz *domain.Quiz) error {
	return r.next.SaveQuiz(ctx, quiz)
}

func (r *CachedQuizRepository) GetQuizByID(ctx context.Context, id string) (*domain.Quiz, error) {
	key := cache.QuizDetailKey(id)

	if cached, err := r.cache.Get(ctx, key); err == nil {
		var row models.Quiz
		if errDecode := json.Unmarshal([]byte(cached), &row); errDecode == nil {
			return toDomainQuiz(&row), nil
		} else {
			logger.Get().Warn("Failed to decode cached quiz", zap.String("cacheKey", key), zap.Error(errDecode))
		}
	} else if !errors.Is(err, domain.ErrCacheMiss) {
		logger.Get().Warn("Failed to read quiz from cache", zap.String("cacheKey", key), zap.Error(err))
	}

	res, err, _ := r.sfGroup.Do(key, func() (interface{}, error) {
		quiz, err := r.next.GetQuizByID(ctx, id)
		if err != nil || quiz == nil {
			return quiz, err
		}
		if encoded, errEncode := json.Marshal(toModelQuiz(quiz)); errEncode != nil {
			logger.Get().Warn("Failed to encode quiz for caching", zap.String("cacheKey", key), zap.Error(errEncode))
		} else if errSet := r.cache.Set(ctx, key, string(encoded), r.ttl); errSet != nil {
			logger.Get().Warn("Failed to cache quiz", zap.String("cacheKey", key), zap.Error(errSet))
		}
		return quiz, nil
	})
	if err != nil {
		return nil, err
	}
	quiz, ok := res.(*domain.Quiz)
	if !ok {
		return nil, fmt.Errorf("unexpected type from singleflight.Do for quiz: %T", res)
	}
	return quiz, nil
}

func (r *CachedQuizRepository) ListQuizzesByUser(ctx context.Context, userID string, limit, offset int) ([]*domain.Quiz, error) {
	return r.next.ListQuizzesByUser(ctx, userID, limit, offset)
}

func (r *CachedQuizRepository) UpdateQuizDetails(ctx context.Context, id string, update domain.QuizUpdate) error {
	if err := r.next.UpdateQuizDetails(ctx, id, update); err != nil {
		return err
	}
	r.invalidate(ctx, id)
	return nil
}

func (r *CachedQuizRepository) DeleteQuiz(ctx context.Context, id string) error {
	if err := r.next.DeleteQuiz(ctx, id); err != nil {
		return err
	}
	r.invalidate(ctx, id)
	return nil
}

func (r *CachedQuizRepository) invalidate(ctx context.Context, id string) {
	if err := r.cache.Delete(ctx, cache.QuizDetailKey(id)); err != nil {
		logger.Get().Warn("Failed to invalidate cached quiz", zap.String("quizID", id), zap.Error(err))
	}
}
