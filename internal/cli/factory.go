// Package cli turns configuration into a ready-to-serve wizard stack: store
// selection, persistence middleware, archive recorder, per-user gate. The
// cmd layer parses flags and environment; this package owns construction, so
// every command assembles the same stack the same way.
package cli

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/aretw0/espalier"
	"github.com/aretw0/espalier/internal/archive"
	"github.com/aretw0/espalier/internal/config"
	"github.com/aretw0/espalier/internal/logging"
	"github.com/aretw0/espalier/pkg/adapters/bolt"
	"github.com/aretw0/espalier/pkg/adapters/file"
	"github.com/aretw0/espalier/pkg/adapters/memory"
	"github.com/aretw0/espalier/pkg/adapters/redis"
	"github.com/aretw0/espalier/pkg/persistence/middleware"
	"github.com/aretw0/espalier/pkg/ports"
	"github.com/aretw0/espalier/pkg/session"
	goredis "github.com/redis/go-redis/v9"
)

// Runtime bundles everything a command needs to serve conversations.
// Build one with NewRuntime and Close it when the command exits.
type Runtime struct {
	Config config.Config
	Logger *slog.Logger

	// Wizard is the bare engine facade, for read paths (Peek, Catalog).
	Wizard *espalier.Wizard

	// Handler is the gate-wrapped event entrypoint. All transports must
	// dispatch through it so concurrent events for one user serialize.
	Handler ports.EventHandler

	// Archive is the completions recorder, nil when archiving is disabled.
	Archive *archive.Store

	closers []func() error
}

// NewRuntime builds the stack described by cfg. Extra options apply to the
// wizard after the config-derived ones, so callers can attach hooks or
// override the catalog. Any error here is a startup error: report it and
// exit, there is nothing to retry.
func NewRuntime(cfg config.Config, extra ...espalier.Option) (*Runtime, error) {
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	rt := &Runtime{
		Config: cfg,
		Logger: logging.New(level),
	}

	store, locker, err := rt.openStore()
	if err != nil {
		return nil, errors.Join(err, rt.Close())
	}

	opts := []espalier.Option{
		espalier.WithStore(store),
		espalier.WithLogger(rt.Logger),
	}
	if cfg.CatalogPath != "" {
		opts = append(opts, espalier.WithCatalogFile(cfg.CatalogPath))
	}
	if cfg.ArchivePath != "" {
		rec, err := archive.Open(cfg.ArchivePath)
		if err != nil {
			return nil, errors.Join(fmt.Errorf("open archive: %w", err), rt.Close())
		}
		rt.Archive = rec
		rt.closers = append(rt.closers, rec.Close)
		opts = append(opts, espalier.WithRecorder(rec))
	}
	opts = append(opts, extra...)

	wiz, err := espalier.New(opts...)
	if err != nil {
		return nil, errors.Join(err, rt.Close())
	}
	rt.Wizard = wiz

	gateOpts := []session.Option{session.WithLogger(rt.Logger)}
	if locker != nil {
		gateOpts = append(gateOpts, session.WithLocker(locker))
	}
	rt.Handler = session.NewGate(wiz, gateOpts...)

	return rt, nil
}

// openStore builds the configured backend, wraps it in middleware, and
// registers any resources that need closing. The redis backend also yields
// a distributed locker so replicas sharing the store serialize per user.
func (rt *Runtime) openStore() (ports.SessionStore, ports.DistributedLocker, error) {
	cfg := rt.Config.Store

	var base ports.SessionStore
	var locker ports.DistributedLocker

	switch cfg.Backend {
	case config.StoreMemory:
		base = memory.New()

	case config.StoreFile:
		base = file.New(cfg.Path)

	case config.StoreBolt:
		st, err := bolt.New(cfg.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("open bolt store: %w", err)
		}
		rt.closers = append(rt.closers, st.Close)
		base = st

	case config.StoreRedis:
		ropts, err := goredis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, nil, fmt.Errorf("parse redis url: %w", err)
		}
		client := goredis.NewClient(ropts)
		rt.closers = append(rt.closers, client.Close)
		base = redis.NewFromClient(client,
			redis.WithPrefix(cfg.RedisPrefix),
			redis.WithTTL(cfg.SessionTTL),
		)
		locker = redis.NewLocker(client, cfg.RedisPrefix)

	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}

	mws := []middleware.Middleware{middleware.NewLogging(rt.Logger)}
	if key := rt.Config.EncryptionKey; key != "" {
		if len(key) != 32 {
			return nil, nil, fmt.Errorf("encryption key must be exactly 32 bytes, got %d", len(key))
		}
		mws = append(mws, middleware.NewEncryption(middleware.EncryptionConfig{
			ActiveKey: []byte(key),
		}))
	}

	return middleware.Chain(base, mws...), locker, nil
}

// Close releases every resource the runtime opened, in reverse order.
func (rt *Runtime) Close() error {
	var errs []error
	for i := len(rt.closers) - 1; i >= 0; i-- {
		if err := rt.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	rt.closers = nil
	return errors.Join(errs...)
}
