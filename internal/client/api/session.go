package api

import (
	"context"
	"sync"
)

// Tokens is the access/refresh pair issued by the server.
type Tokens struct {
	AccessToken  string
	RefreshToken string
}

// Session holds the caller's tokens between calls.
type Session interface {
	Tokens(ctx context.Context) (Tokens, error)
	Save(ctx context.Context, t Tokens) error
	Clear(ctx context.Context) error
}

// MemorySession keeps tokens in process memory.
type MemorySession struct {
	mu sync.Mutex
	t  Tokens
}

func NewMemorySession(t Tokens) *MemorySession {
	return &MemorySession{t: t}
}

func (m *MemorySession) Tokens(context.Context) (Tokens, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.t, nil
}

func (m *MemorySession) Save(_ context.Context, t Tokens) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.t = t
	return nil
}

func (m *MemorySession) Clear(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.t = Tokens{}
	return nil
}
