package client

import (
	"context"
	"sync"
)

// RefreshFunc : один вызов эндпоинта обновления токена
type RefreshFunc func(ctx context.Context) error

// RefreshCoordinator гарантирует, что одновременно выполняется не больше одного обновления токена.
// Вызовы, пришедшие во время обновления, встают в очередь и получают его результат
// в порядке постановки. Координатор не привязан к конкретному клиенту и может быть общим.
type RefreshCoordinator struct {
	mu         sync.Mutex
	refreshing bool
	// generation : число успешных обновлений
	generation uint64
	queue      []chan error
	onFailure  func(err error)
}

// NewRefreshCoordinator : onFailure вызывается ровно один раз на каждую неудачную попытку,
// уже после того, как все ожидающие получили ошибку
func NewRefreshCoordinator(onFailure func(err error)) *RefreshCoordinator {
	return &RefreshCoordinator{onFailure: onFailure}
}

// Do выполняет refresh, если обновление еще не идет, иначе ждет результата текущего.
// Отмена ctx освобождает только ожидающего, само обновление продолжается.
func (c *RefreshCoordinator) Do(ctx context.Context, refresh RefreshFunc) error {
	return c.do(ctx, refresh, nil)
}

// DoAfter : как Do, но если после поколения seen уже прошло успешное обновление,
// сразу возвращает nil. seen берется из Generation до отправки запроса,
// так что поздний 401 на старый токен не запускает второе обновление.
func (c *RefreshCoordinator) DoAfter(ctx context.Context, seen uint64, refresh RefreshFunc) error {
	return c.do(ctx, refresh, &seen)
}

// Generation : сколько обновлений завершилось успешно
func (c *RefreshCoordinator) Generation() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generation
}

func (c *RefreshCoordinator) do(ctx context.Context, refresh RefreshFunc, seen *uint64) error {
	c.mu.Lock()
	if c.refreshing {
		wait := make(chan error, 1)
		c.queue = append(c.queue, wait)
		c.mu.Unlock()

		select {
		case err := <-wait:
			return err
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if seen != nil && *seen != c.generation {
		c.mu.Unlock()
		return nil
	}
	c.refreshing = true
	c.mu.Unlock()

	err := refresh(ctx)

	c.mu.Lock()
	if err == nil {
		c.generation++
	}
	queued := c.queue
	c.queue = nil
	c.refreshing = false
	c.mu.Unlock()

	for _, wait := range queued {
		wait <- err
	}

	if err != nil && c.onFailure != nil {
		c.onFailure(err)
	}
	return err
}

// Pending : сколько вызовов ждут текущего обновления
func (c *RefreshCoordinator) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.queue)
}

// Refreshing : идет ли сейчас обновление
func (c *RefreshCoordinator) Refreshing() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.refreshing
}
