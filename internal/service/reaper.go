package service

import (
	"context"
	"log"
	"time"

	"social-scheduler/internal/ports"

	"github.com/jmoiron/sqlx"
)

// TokenReaper : периодически обнуляет истекшие токены подтверждения и сброса пароля
type TokenReaper struct {
	db             sqlx.ExtContext
	userRepository ports.UserRepository
	interval       time.Duration
	now            func() time.Time
}

func NewTokenReaper(db sqlx.ExtContext, userRepository ports.UserRepository, interval time.Duration) *TokenReaper {
	return &TokenReaper{
		db:             db,
		userRepository: userRepository,
		interval:       interval,
		now:            time.Now,
	}
}

// Run : блокируется до отмены ctx
func (r *TokenReaper) Run(ctx context.Context) {
	if r.interval <= 0 {
		return
	}

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := r.Sweep(ctx); err != nil {
				log.Printf("[TokenReaper] ошибка очистки токенов: %v", err)
			}
		}
	}
}

func (r *TokenReaper) Sweep(ctx context.Context) (int64, error) {
	cleared, err := r.userRepository.ClearExpiredTokens(ctx, r.db, r.now())
	if err != nil {
		return 0, err
	}
	if cleared > 0 {
		log.Printf("[TokenReaper] очищено истекших токенов: %d", cleared)
	}
	return cleared, nil
}
