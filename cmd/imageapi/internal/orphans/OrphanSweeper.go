package orphans

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/adampresley/imagegallery/pkg/models"
	"github.com/adampresley/imagegallery/pkg/services"
	"github.com/alitto/pond/v2"
)

type OrphanSweeper interface {
	Sweep() int
	StartSweepRoutine(interval time.Duration)
	StopSweepRoutine()
}

type OrphanSweeperConfig struct {
	ImageService services.ImageServicer
	MaxWorkers   int
	MinAge       time.Duration
	ShutdownCtx  context.Context
	Storage      services.StorageServicer
}

/*
OrphanSweeperService removes image objects from the bucket that have no row
in the images table. Objects younger than MinAge are left alone so an upload
that has stored its bytes but not yet its row is never swept.
*/
type OrphanSweeperService struct {
	imageService services.ImageServicer
	maxWorkers   int
	minAge       time.Duration
	shutdownCtx  context.Context
	storage      services.StorageServicer

	running     atomic.Bool
	ticker      *time.Ticker
	stopSweeper chan struct{}
	wg          sync.WaitGroup
}

func NewOrphanSweeperService(config OrphanSweeperConfig) *OrphanSweeperService {
	if config.MaxWorkers <= 0 {
		config.MaxWorkers = 4
	}

	if config.ShutdownCtx == nil {
		config.ShutdownCtx = context.Background()
	}

	return &OrphanSweeperService{
		imageService: config.ImageService,
		maxWorkers:   config.MaxWorkers,
		minAge:       config.MinAge,
		shutdownCtx:  config.ShutdownCtx,
		storage:      config.Storage,
	}
}

/*
Sweep runs one pass and returns how many objects were removed. A pass that
starts while another is running is skipped.
*/
func (s *OrphanSweeperService) Sweep() int {
	var (
		err     error
		objects []services.StoredObject
		removed atomic.Int64
	)

	if !s.running.CompareAndSwap(false, true) {
		slog.Info("orphan sweep already running. skipping...")
		return 0
	}

	defer s.running.Store(false)

	if objects, err = s.storage.List(); err != nil {
		slog.Error("error listing stored images", "error", err)
		return 0
	}

	slog.Info("sweeping orphaned images...", "numObjects", len(objects))

	cutoff := time.Now().Add(-s.minAge)
	pool := pond.NewPool(s.maxWorkers, pond.WithContext(s.shutdownCtx))

	for _, object := range objects {
		if object.LastModified.After(cutoff) {
			continue
		}

		pool.Submit(func() {
			if !s.isOrphan(object.Identity) {
				return
			}

			if err := s.storage.Remove(object.Identity); err != nil {
				slog.Error("error removing orphaned image", "identity", object.Identity, "error", err)
				return
			}

			slog.Info("removed orphaned image", "identity", object.Identity)
			removed.Add(1)
		})
	}

	_ = pool.Stop().Wait()

	slog.Info("orphan sweep finished", "removed", removed.Load())
	return int(removed.Load())
}

func (s *OrphanSweeperService) isOrphan(identity string) bool {
	filename, _, err := models.SplitIdentity(identity)

	if err != nil {
		slog.Warn("skipping object with unusable name", "identity", identity, "error", err)
		return false
	}

	exists, err := s.imageService.Exists(filename)

	if err != nil {
		slog.Error("error checking image row for object", "identity", identity, "error", err)
		return false
	}

	return !exists
}

// StartSweepRoutine sweeps once immediately and then on every tick.
func (s *OrphanSweeperService) StartSweepRoutine(interval time.Duration) {
	s.stopSweeper = make(chan struct{})
	s.ticker = time.NewTicker(interval)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		s.Sweep()

		for {
			select {
			case <-s.ticker.C:
				s.Sweep()
			case <-s.stopSweeper:
				s.ticker.Stop()
				return
			case <-s.shutdownCtx.Done():
				s.ticker.Stop()
				return
			}
		}
	}()

	slog.Info("orphan sweep routine started", "interval", interval)
}

func (s *OrphanSweeperService) StopSweepRoutine() {
	if s.ticker != nil {
		close(s.stopSweeper)
		s.wg.Wait()
		s.ticker = nil
		slog.Info("orphan sweep routine stopped")
	}
}
