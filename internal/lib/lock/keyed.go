// Package lock реализует мьютексы, привязанные к строковому ключу.
//
// Используется для сериализации записей в одну и ту же запись хранилища:
// справочник учётных записей контекста, карту подписок, подписку на профиль.
package lock

import (
	"context"
	"sync"
)

// Keyed набор мьютексов по ключам. Нулевое значение готово к использованию.
// Мьютекс ключа живёт, пока его кто-то держит или ждёт.
type Keyed struct {
	mu    sync.Mutex
	locks map[string]*entry
}

type entry struct {
	sem  chan struct{}
	refs int
}

// Lock захватывает мьютекс ключа, ожидая не дольше, чем живёт ctx.
// Возвращает функцию освобождения.
func (k *Keyed) Lock(ctx context.Context, key string) (func(), error) {
	e := k.acquire(key)

	select {
	case e.sem <- struct{}{}:
	case <-ctx.Done():
		k.release(key, e)
		return nil, ctx.Err()
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-e.sem
			k.release(key, e)
		})
	}, nil
}

func (k *Keyed) acquire(key string) *entry {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.locks == nil {
		k.locks = make(map[string]*entry)
	}
	e, ok := k.locks[key]
	if !ok {
		e = &entry{sem: make(chan struct{}, 1)}
		k.locks[key] = e
	}
	e.refs++
	return e
}

func (k *Keyed) release(key string, e *entry) {
	k.mu.Lock()
	defer k.mu.Unlock()
	e.refs--
	if e.refs == 0 {
		delete(k.locks, key)
	}
}

// Len возвращает количество ключей, которые сейчас заняты или ожидаются.
func (k *Keyed) Len() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.locks)
}
