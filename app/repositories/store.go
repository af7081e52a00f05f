package repositories

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

const (
	DefaultTimeout          = 3 * time.Second
	DefaultReadRetryBackoff = 100 * time.Millisecond
)

type Options struct {
	// Timeout bounds every statement and every transaction.
	Timeout time.Duration
	// ReadRetryBackoff is the pause before the single retry of a failed read.
	ReadRetryBackoff time.Duration
}

func (o Options) withDefaults() Options {
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	if o.ReadRetryBackoff <= 0 {
		o.ReadRetryBackoff = DefaultReadRetryBackoff
	}
	return o
}

// conn is the shared plumbing of every repository: a handle (the pool or an
// open transaction) plus the timeout and retry policy.
type conn struct {
	db   *gorm.DB
	opts Options
	inTx bool
}

// read runs an idempotent lookup. Outside a transaction a failure other than
// "not found" or caller cancellation is retried once after the backoff.
func (c conn) read(ctx context.Context, fn func(db *gorm.DB) error) error {
	err := c.run(ctx, fn)
	if err == nil || c.inTx || !retryable(ctx, err) {
		return err
	}

	timer := time.NewTimer(c.opts.ReadRetryBackoff)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return err
	case <-timer.C:
	}
	return c.run(ctx, fn)
}

// write runs a mutation exactly once.
func (c conn) write(ctx context.Context, fn func(db *gorm.DB) error) error {
	return c.run(ctx, fn)
}

func (c conn) run(ctx context.Context, fn func(db *gorm.DB) error) error {
	ctx, cancel := context.WithTimeout(ctx, c.opts.Timeout)
	defer cancel()
	return fn(c.db.WithContext(ctx))
}

func retryable(ctx context.Context, err error) bool {
	if errors.Is(err, gorm.ErrRecordNotFound) || errors.Is(err, context.Canceled) {
		return false
	}
	return ctx.Err() == nil
}

// Store groups the repositories over one database handle.
type Store struct {
	db   *gorm.DB
	opts Options

	Products  ProductRepositoryImpl
	Campaigns CampaignRepositoryImpl
	Carts     CartRepositoryImpl
	CartItems CartItemRepositoryImpl
	Reviews   ReviewRepositoryImpl
}

func NewStore(db *gorm.DB, opts Options) *Store {
	return newStore(conn{db: db, opts: opts.withDefaults()})
}

func newStore(c conn) *Store {
	return &Store{
		db:        c.db,
		opts:      c.opts,
		Products:  &productRepository{c},
		Campaigns: &campaignRepository{c},
		Carts:     &cartRepository{c},
		CartItems: &cartItemRepository{c},
		Reviews:   &reviewRepository{c},
	}
}

// Transaction runs fn against repositories bound to a single database
// transaction. fn's error rolls everything back.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	ctx, cancel := context.WithTimeout(ctx, s.opts.Timeout)
	defer cancel()

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(newStore(conn{db: tx, opts: s.opts, inTx: true}))
	})
}

func (s *Store) DB() *gorm.DB {
	return s.db
}
