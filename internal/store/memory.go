package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// Memory хранилище в памяти процесса. Данные теряются при перезапуске.
type Memory struct {
	mu   sync.RWMutex
	data map[string][]byte
}

var _ Store = (*Memory)(nil)

// NewMemory создаёт пустое хранилище в памяти.
func NewMemory() *Memory {
	return &Memory{data: make(map[string][]byte)}
}

func (m *Memory) Get(_ context.Context, key string, result any) (bool, error) {
	const op = "store.Memory.Get"
	m.mu.RLock()
	raw, ok := m.data[key]
	m.mu.RUnlock()
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, result); err != nil {
		return false, fmt.Errorf("%s: %w: %w", op, ErrCorrupt, err)
	}
	return true, nil
}

func (m *Memory) Set(_ context.Context, key string, value any) error {
	const op = "store.Memory.Set"
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	m.mu.Lock()
	m.data[key] = raw
	m.mu.Unlock()
	return nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.data, key)
	m.mu.Unlock()
	return nil
}

// SetRaw кладёт байты без сериализации. Нужен, чтобы воспроизвести повреждённые данные.
func (m *Memory) SetRaw(key string, raw []byte) {
	m.mu.Lock()
	m.data[key] = append([]byte(nil), raw...)
	m.mu.Unlock()
}

// Ping всегда успешен.
func (m *Memory) Ping(context.Context) error {
	return nil
}
