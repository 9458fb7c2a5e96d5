// Package store реализует хранилище ключ-значение, разделённое по браузерным контекстам.
// Значения сериализуются в JSON. Доступны реализации в памяти, в Redis и в PostgreSQL.
package store

import (
	"context"
	"errors"
	"strings"
)

// ErrCorrupt значение по ключу есть, но не разбирается как JSON.
var ErrCorrupt = errors.New("corrupt value")

// Имена записей внутри одного браузерного контекста.
const (
	KeyUsers         = "users"
	KeyCurrentUser   = "currentUser"
	KeySubscriptions = "subscriptions"
)

const keyPrefix = "momentA"

// Store описывает методы хранилища, общие для всех реализаций.
type Store interface {
	// Get читает значение по ключу в result. Возвращает false, если ключа нет.
	Get(ctx context.Context, key string, result any) (bool, error)
	// Set сохраняет значение по ключу, полностью перезаписывая прежнее.
	Set(ctx context.Context, key string, value any) error
	// Delete удаляет ключ. Отсутствующий ключ не является ошибкой.
	Delete(ctx context.Context, key string) error
}

// Key формирует ключ записи name внутри браузерного контекста contextID.
func Key(contextID, name string) string {
	return strings.Join([]string{keyPrefix, contextID, name}, ":")
}
