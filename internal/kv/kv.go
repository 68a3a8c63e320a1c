// Package kv provides the string key-value store the task list persists into.
package kv

import "errors"

// ErrWriteFailed marks a rejected write on stores that can refuse them.
var ErrWriteFailed = errors.New("kv: write failed")

// Store is the persistence capability injected into the task store.
// Get reports ok=false when the key has never been written.
type Store interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
	Close() error
}

// Memory is a map-backed Store for tests and ephemeral runs.
type Memory struct {
	values map[string]string

	// FailWrites makes every Set return ErrWriteFailed without storing.
	FailWrites bool
}

func NewMemory() *Memory {
	return &Memory{values: map[string]string{}}
}

func (m *Memory) Get(key string) (string, bool, error) {
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *Memory) Set(key, value string) error {
	if m.FailWrites {
		return ErrWriteFailed
	}
	m.values[key] = value
	return nil
}

func (m *Memory) Close() error {
	return nil
}
