// Package service is the coordination point composing the validator, store,
// persistence codec, aggregation engine, and query cache. It is the only
// surface the presentation layer talks to.
package service

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"chatlytics/internal/config"
	"chatlytics/internal/engine"
	"chatlytics/internal/model"
	"chatlytics/internal/persist"
	"chatlytics/internal/querycache"
	"chatlytics/internal/sample"
	"chatlytics/internal/schema"
	"chatlytics/internal/store"
)

// ErrNotInitialized is returned by every operation invoked before Init.
var ErrNotInitialized = errors.New("data service not initialized")

// DBFileName is the store database file under the data dir.
const DBFileName = "sessions.db"

// Service owns the store, engine, cache, and codec. Construct with New and
// call Init before use; there is no package-level shared state, so tests can
// run isolated instances side by side.
type Service struct {
	cfg   config.Config
	log   *logrus.Logger
	codec *persist.Codec
	cache *querycache.Cache

	mu     sync.Mutex
	store  *store.Store
	engine *engine.Engine
}

// New constructs an uninitialized service from configuration.
func New(cfg config.Config, log *logrus.Logger) *Service {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Service{
		cfg:   cfg,
		log:   log,
		codec: persist.New(cfg.DataDir(), cfg.Persist.MaxSnapshotBytes, log),
		cache: querycache.New(
			time.Duration(cfg.Cache.TTLMinutes)*time.Minute,
			cfg.Cache.MaxEntries,
		),
	}
}

// Init restores the store from a persisted snapshot when one exists, falling
// back to a fresh empty store, and applies the schema either way.
func (s *Service) Init() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.store != nil {
		return nil
	}

	dbPath := filepath.Join(s.cfg.DataDir(), DBFileName)
	restored, err := s.codec.Restore(dbPath)
	if err != nil {
		return fmt.Errorf("restoring snapshot: %w", err)
	}

	st, err := store.Open(dbPath, s.log)
	if err != nil {
		if !restored {
			return fmt.Errorf("opening store: %w", err)
		}
		// Restored bytes may be garbage that happened to base64-decode.
		// Fall back to a fresh store rather than failing.
		s.log.WithError(err).Warn("restored snapshot unusable, starting fresh")
		if clearErr := s.codec.Clear(); clearErr != nil {
			s.log.WithError(clearErr).Warn("clearing bad snapshot")
		}
		_ = os.Remove(dbPath)
		st, err = store.Open(dbPath, s.log)
		if err != nil {
			return fmt.Errorf("opening fresh store: %w", err)
		}
	}

	s.store = st
	s.engine = engine.New(st, engine.Options{
		TopCategories: s.cfg.Engine.TopCategories,
		TopQuestions:  s.cfg.Engine.TopQuestions,
		LabelMaxChars: s.cfg.Engine.LabelMaxChars,
	})

	if restored {
		s.log.WithField("sessions", st.Stats().TotalSessions).Info("restored persisted dataset")
	}
	return nil
}

// Close releases the store. The service can not be reused afterwards.
func (s *Service) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.store == nil {
		return nil
	}
	err := s.store.Close()
	s.store = nil
	s.engine = nil
	return err
}

func (s *Service) ready() (*store.Store, *engine.Engine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.store == nil {
		return nil, nil, ErrNotInitialized
	}
	return s.store, s.engine, nil
}

// GetMetrics returns the KPI summary for the range, served from cache when
// a fresh entry exists.
func (s *Service) GetMetrics(r model.DateRange) (model.Metrics, error) {
	_, eng, err := s.ready()
	if err != nil {
		return model.Metrics{}, err
	}

	if m, ok := s.cache.GetMetrics(r); ok {
		return m, nil
	}
	m, err := eng.Metrics(r)
	if err != nil {
		return model.Metrics{}, err
	}
	s.cache.SetMetrics(r, m)
	return m, nil
}

// GetChartData returns the chart series for the range, served from cache
// when a fresh entry exists.
func (s *Service) GetChartData(r model.DateRange) (model.ChartData, error) {
	_, eng, err := s.ready()
	if err != nil {
		return model.ChartData{}, err
	}

	if cd, ok := s.cache.GetChartData(r); ok {
		return cd, nil
	}
	cd, err := eng.ChartData(r)
	if err != nil {
		return model.ChartData{}, err
	}
	s.cache.SetChartData(r, cd)
	return cd, nil
}

// RangeData bundles both aggregation families for one range.
type RangeData struct {
	Metrics   model.Metrics   `json:"metrics"`
	ChartData model.ChartData `json:"chart_data"`
}

// GetDataForDateRange runs the metrics and chart aggregations concurrently
// and returns both.
func (s *Service) GetDataForDateRange(r model.DateRange) (RangeData, error) {
	if _, _, err := s.ready(); err != nil {
		return RangeData{}, err
	}

	var (
		wg         sync.WaitGroup
		data       RangeData
		mErr, cErr error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		data.Metrics, mErr = s.GetMetrics(r)
	}()
	go func() {
		defer wg.Done()
		data.ChartData, cErr = s.GetChartData(r)
	}()
	wg.Wait()

	if mErr != nil {
		return RangeData{}, mErr
	}
	if cErr != nil {
		return RangeData{}, cErr
	}
	return data, nil
}

// LoadSessions validates a raw JSON dataset, bulk-replaces the store
// contents, invalidates the whole cache, and persists a snapshot. Snapshot
// size overruns are reported as a warning, never as a load failure.
func (s *Service) LoadSessions(data []byte) (model.LoadReport, error) {
	sessions, err := schema.ParseAndValidate(data)
	if err != nil {
		return model.LoadReport{}, err
	}
	return s.loadValidated(sessions)
}

// LoadSampleData generates a synthetic dataset and loads it through the same
// path as uploaded data.
func (s *Service) LoadSampleData(opts sample.Options) (model.LoadReport, error) {
	return s.loadValidated(sample.Generate(opts))
}

func (s *Service) loadValidated(sessions []model.Session) (model.LoadReport, error) {
	st, _, err := s.ready()
	if err != nil {
		return model.LoadReport{}, err
	}

	report, err := st.BulkLoad(sessions)
	if err != nil {
		return model.LoadReport{}, err
	}

	// Old cached ranges may now disagree with the store.
	s.cache.InvalidateAll()

	if err := s.saveSnapshot(st); err != nil {
		s.log.WithError(err).Warn("dataset loaded but not persisted")
	}
	return report, nil
}

func (s *Service) saveSnapshot(st *store.Store) error {
	if st.Path() == "" {
		return nil
	}
	if err := st.Checkpoint(); err != nil {
		return err
	}
	return s.codec.Save(st.Path())
}

// ExportCSV renders the range as CSV and returns a file name carrying the
// exported range's dates.
func (s *Service) ExportCSV(r model.DateRange) (fileName, csv string, err error) {
	_, eng, err := s.ready()
	if err != nil {
		return "", "", err
	}

	out, err := eng.ExportCSV(r)
	if err != nil {
		return "", "", err
	}
	fileName = fmt.Sprintf("chatlytics_%s_%s.csv",
		r.Start.UTC().Format("2006-01-02"), r.End.UTC().Format("2006-01-02"))
	return fileName, out, nil
}

// CostTrend compares total cost between two ranges.
func (s *Service) CostTrend(current, previous model.DateRange) (model.CostTrend, error) {
	_, eng, err := s.ready()
	if err != nil {
		return model.CostTrend{}, err
	}
	return eng.CostTrend(current, previous)
}

// DatabaseStats reports the stored dataset summary.
func (s *Service) DatabaseStats() (model.DatabaseStats, error) {
	st, _, err := s.ready()
	if err != nil {
		return model.DatabaseStats{}, err
	}
	return st.Stats(), nil
}

// ClearAllData empties the store, the cache, and the persisted snapshot.
func (s *Service) ClearAllData() error {
	st, _, err := s.ready()
	if err != nil {
		return err
	}
	if err := st.Clear(); err != nil {
		return err
	}
	s.cache.InvalidateAll()
	return s.codec.Clear()
}

// CacheStats exposes cache introspection.
func (s *Service) CacheStats() (querycache.Stats, error) {
	if _, _, err := s.ready(); err != nil {
		return querycache.Stats{}, err
	}
	return s.cache.Stats(), nil
}

// InvalidateCache removes the exact-key entry for r, or everything when r is
// nil.
func (s *Service) InvalidateCache(r *model.DateRange) error {
	if _, _, err := s.ready(); err != nil {
		return err
	}
	if r == nil {
		s.cache.InvalidateAll()
		return nil
	}
	s.cache.Invalidate(*r)
	return nil
}

// InvalidateOverlapping removes every cached range overlapping r.
func (s *Service) InvalidateOverlapping(r model.DateRange) error {
	if _, _, err := s.ready(); err != nil {
		return err
	}
	s.cache.InvalidateOverlapping(r)
	return nil
}
