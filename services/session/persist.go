package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

const sessionPrefix = "sanketSession:"

// Persister keeps a visitor's credential between page loads.
type Persister interface {
	Save(ctx context.Context, visitorID string, cred Credential) error
	// Load returns nil without error when nothing is stored.
	Load(ctx context.Context, visitorID string) (*Credential, error)
	Delete(ctx context.Context, visitorID string) error
}

// RedisPersister stores credentials as JSON with a TTL.
type RedisPersister struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisPersister(client *redis.Client, ttl time.Duration) *RedisPersister {
	return &RedisPersister{client: client, ttl: ttl}
}

func (p *RedisPersister) Save(ctx context.Context, visitorID string, cred Credential) error {
	data, err := json.Marshal(cred)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	if err := p.client.Set(ctx, sessionPrefix+visitorID, data, p.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func (p *RedisPersister) Load(ctx context.Context, visitorID string) (*Credential, error) {
	data, err := p.client.Get(ctx, sessionPrefix+visitorID).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var cred Credential
	if err := json.Unmarshal([]byte(data), &cred); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &cred, nil
}

func (p *RedisPersister) Delete(ctx context.Context, visitorID string) error {
	return p.client.Del(ctx, sessionPrefix+visitorID).Err()
}

// MemoryPersister keeps credentials in process memory.
type MemoryPersister struct {
	mu    sync.Mutex
	creds map[string]Credential
}

func NewMemoryPersister() *MemoryPersister {
	return &MemoryPersister{creds: make(map[string]Credential)}
}

func (p *MemoryPersister) Save(_ context.Context, visitorID string, cred Credential) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.creds[visitorID] = cred
	return nil
}

func (p *MemoryPersister) Load(_ context.Context, visitorID string) (*Credential, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	cred, ok := p.creds[visitorID]
	if !ok {
		return nil, nil
	}
	return &cred, nil
}

func (p *MemoryPersister) Delete(_ context.Context, visitorID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.creds, visitorID)
	return nil
}
