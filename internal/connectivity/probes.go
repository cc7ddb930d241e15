package connectivity

import (
	"context"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// GormPinger checks the shared gorm connection pool. The pool dials lazily,
// so a ping doubles as the connect attempt.
type GormPinger struct {
	db *gorm.DB
}

func NewGormPinger(db *gorm.DB) *GormPinger {
	return &GormPinger{db: db}
}

func (p *GormPinger) Ping(ctx context.Context) error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// RedisPinger checks the shared redis client.
type RedisPinger struct {
	rdb *redis.Client
}

func NewRedisPinger(rdb *redis.Client) *RedisPinger {
	return &RedisPinger{rdb: rdb}
}

func (p *RedisPinger) Ping(ctx context.Context) error {
	return p.rdb.Ping(ctx).Err()
}

// StaticPinger always succeeds. Used for in-process fallbacks (memory cache)
// so they report connected in health output.
type StaticPinger struct{}

func (StaticPinger) Ping(ctx context.Context) error {
	return nil
}
