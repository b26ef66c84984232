package cart

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/demolux/storefront/pkg/db/models"
	"github.com/demolux/storefront/pkg/redis"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Storage persists serialized cart state per session. Load returns nil, nil when
// nothing is stored.
type Storage interface {
	Load(ctx context.Context, sessionID string) ([]byte, error)
	Save(ctx context.Context, sessionID string, state []byte) error
}

type memoryCart struct {
	state     []byte
	expiresAt time.Time
}

// MemoryStorage keeps carts in process memory. Carts expire ttl after their
// last save; a non-positive ttl keeps them for the life of the process.
type MemoryStorage struct {
	mu    sync.RWMutex
	carts map[string]memoryCart
	ttl   time.Duration
	now   func() time.Time
}

func NewMemoryStorage(ttl time.Duration) *MemoryStorage {
	return &MemoryStorage{carts: map[string]memoryCart{}, ttl: ttl, now: time.Now}
}

func (m *MemoryStorage) Load(_ context.Context, sessionID string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	stored, ok := m.carts[sessionID]
	if !ok || stored.expired(m.now()) {
		return nil, nil
	}
	return stored.state, nil
}

func (m *MemoryStorage) Save(_ context.Context, sessionID string, state []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := memoryCart{state: append([]byte(nil), state...)}
	if m.ttl > 0 {
		stored.expiresAt = m.now().Add(m.ttl)
	}
	m.carts[sessionID] = stored
	return nil
}

// PurgeExpired deletes carts past their expiry and returns how many were removed.
func (m *MemoryStorage) PurgeExpired(context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	var removed int64
	for id, stored := range m.carts {
		if stored.expired(now) {
			delete(m.carts, id)
			removed++
		}
	}
	return removed, nil
}

func (c memoryCart) expired(now time.Time) bool {
	return !c.expiresAt.IsZero() && !now.Before(c.expiresAt)
}

// RedisStorage stores carts under the demolux-cart key namespace.
type RedisStorage struct {
	kv  redis.KV
	ttl time.Duration
}

func NewRedisStorage(kv redis.KV, ttl time.Duration) *RedisStorage {
	return &RedisStorage{kv: kv, ttl: ttl}
}

func (r *RedisStorage) Load(ctx context.Context, sessionID string) ([]byte, error) {
	val, err := r.kv.Get(ctx, redis.CartKey(sessionID))
	if errors.Is(err, redis.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return []byte(val), nil
}

func (r *RedisStorage) Save(ctx context.Context, sessionID string, state []byte) error {
	return r.kv.Set(ctx, redis.CartKey(sessionID), string(state), r.ttl)
}

// DBStorage keeps carts in the cart_sessions table.
type DBStorage struct {
	db  *gorm.DB
	ttl time.Duration
	now func() time.Time
}

func NewDBStorage(db *gorm.DB, ttl time.Duration) *DBStorage {
	return &DBStorage{db: db, ttl: ttl, now: time.Now}
}

func (d *DBStorage) Load(ctx context.Context, sessionID string) ([]byte, error) {
	var row models.CartSession
	err := d.db.WithContext(ctx).
		Where("session_id = ? AND expires_at > ?", sessionID, d.now().UTC()).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return []byte(row.State), nil
}

func (d *DBStorage) Save(ctx context.Context, sessionID string, state []byte) error {
	now := d.now().UTC()
	row := models.CartSession{
		SessionID: sessionID,
		State:     string(state),
		ExpiresAt: now.Add(d.ttl),
		UpdatedAt: now,
	}
	return d.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "session_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"state", "expires_at", "updated_at"}),
		}).
		Create(&row).Error
}

// PurgeExpired deletes carts past their expiry and returns how many were removed.
func (d *DBStorage) PurgeExpired(ctx context.Context) (int64, error) {
	res := d.db.WithContext(ctx).
		Where("expires_at <= ?", d.now().UTC()).
		Delete(&models.CartSession{})
	return res.RowsAffected, res.Error
}
