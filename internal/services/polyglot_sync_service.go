package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/phoenixvc/mystira-backend/internal/data/docstore"
	"github.com/phoenixvc/mystira-backend/internal/data/repos"
	types "github.com/phoenixvc/mystira-backend/internal/domain"
	"github.com/phoenixvc/mystira-backend/internal/pkg/dbctx"
	"github.com/phoenixvc/mystira-backend/internal/pkg/logger"
)

// DocWriter is the slice of the document store the sync worker uses.
type DocWriter interface {
	Put(ctx context.Context, entityType string, doc docstore.Document) error
	Delete(ctx context.Context, entityType, id, partitionValue string) error
	Registry() *docstore.Registry
}

// PolyglotSyncService replays pending sync-log intents to the document
// store. The relational store is the transactional primary; every primary
// write commits an intent row, and this worker is the only thing that
// touches the document store afterwards. A replay failure bumps the retry
// counter and re-queues the row until the retry budget is spent, after
// which the row parks as failed for out-of-band reconciliation.
type PolyglotSyncService interface {
	Run(ctx context.Context) error
	SweepOnce(ctx context.Context) (int, error)
}

type SyncConfig struct {
	BatchSize   int
	MaxRetries  int
	Interval    time.Duration
	Parallelism int
}

func (c *SyncConfig) applyDefaults() {
	if c.BatchSize <= 0 {
		c.BatchSize = 100
	}
	if c.MaxRetries <= 0 {
		c.MaxRetries = 5
	}
	if c.Interval <= 0 {
		c.Interval = 15 * time.Second
	}
	if c.Parallelism <= 0 {
		c.Parallelism = 4
	}
}

type polyglotSyncService struct {
	log     *logger.Logger
	syncLog repos.SyncLogRepo
	store   DocWriter
	cfg     SyncConfig
}

func NewPolyglotSyncService(baseLog *logger.Logger, syncLog repos.SyncLogRepo, store DocWriter, cfg SyncConfig) PolyglotSyncService {
	cfg.applyDefaults()
	return &polyglotSyncService{
		log:     baseLog.With("service", "PolyglotSyncService"),
		syncLog: syncLog,
		store:   store,
		cfg:     cfg,
	}
}

func (s *polyglotSyncService) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	s.log.Info("Polyglot sync worker started", "interval", s.cfg.Interval.String())
	for {
		select {
		case <-ctx.Done():
			s.log.Info("Polyglot sync worker stopping")
			return nil
		case <-ticker.C:
			replayed, err := s.SweepOnce(ctx)
			if err != nil {
				if errors.Is(err, context.Canceled) {
					return nil
				}
				s.log.Error("Sync sweep failed", "error", err)
				continue
			}
			if replayed > 0 {
				s.log.Debug("Sync sweep complete", "replayed", replayed)
			}
		}
	}
}

// SweepOnce replays one batch. Entries for the same entity replay
// sequentially in ledger order; distinct entities replay in parallel up
// to the configured limit.
func (s *polyglotSyncService) SweepOnce(ctx context.Context) (int, error) {
	entries, err := s.syncLog.ListPending(dbctx.Context{Ctx: ctx}, s.cfg.BatchSize)
	if err != nil {
		return 0, fmt.Errorf("list pending sync entries: %w", err)
	}
	if len(entries) == 0 {
		return 0, nil
	}

	groups := map[string][]*types.SyncLogEntry{}
	order := []string{}
	for _, entry := range entries {
		key := entry.EntityType + "/" + entry.EntityID
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], entry)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Parallelism)
	for _, key := range order {
		group := groups[key]
		g.Go(func() error {
			for _, entry := range group {
				if err := s.replay(gctx, entry); err != nil {
					// A failed entry parks its group for this sweep so a
					// later update cannot overtake it.
					return nil
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}
	return len(entries), nil
}

func (s *polyglotSyncService) replay(ctx context.Context, entry *types.SyncLogEntry) error {
	var replayErr error
	switch entry.Operation {
	case types.SyncOpInsert, types.SyncOpUpdate:
		var doc docstore.Document
		if err := json.Unmarshal(entry.Payload, &doc); err != nil {
			replayErr = fmt.Errorf("decode payload: %w", err)
		} else {
			replayErr = s.store.Put(ctx, entry.EntityType, doc)
		}
	case types.SyncOpDelete:
		id, partition, err := s.deleteTarget(entry)
		if err != nil {
			replayErr = err
		} else {
			replayErr = s.store.Delete(ctx, entry.EntityType, id, partition)
		}
	default:
		replayErr = fmt.Errorf("unknown sync operation %q", entry.Operation)
	}

	dbc := dbctx.Context{Ctx: context.WithoutCancel(ctx)}
	if replayErr == nil {
		if err := s.syncLog.MarkSynced(dbc, entry.ID); err != nil {
			s.log.Error("Failed to mark entry synced", "entry_id", entry.ID, "error", err)
			return err
		}
		return nil
	}

	terminal := entry.RetryCount+1 >= s.cfg.MaxRetries
	s.log.Warn("Sync replay failed",
		"entry_id", entry.ID,
		"entity_type", entry.EntityType,
		"entity_id", entry.EntityID,
		"retry_count", entry.RetryCount+1,
		"terminal", terminal,
		"error", replayErr,
	)
	if err := s.syncLog.MarkFailed(dbc, entry.ID, replayErr.Error(), terminal); err != nil {
		s.log.Error("Failed to mark entry failed", "entry_id", entry.ID, "error", err)
	}
	return replayErr
}

// deleteTarget extracts the container key from the payload snapshot taken
// at delete time; the source row no longer exists.
func (s *polyglotSyncService) deleteTarget(entry *types.SyncLogEntry) (id, partition string, err error) {
	route, err := s.store.Registry().RouteFor(entry.EntityType)
	if err != nil {
		return "", "", err
	}

	var doc map[string]interface{}
	if len(entry.Payload) > 0 {
		if err := json.Unmarshal(entry.Payload, &doc); err != nil {
			return "", "", fmt.Errorf("decode delete payload: %w", err)
		}
	}

	id = entry.EntityID
	if id == "" {
		id, _ = doc["id"].(string)
	}
	partition, _ = doc[route.PartitionSource].(string)
	return id, partition, nil
}
