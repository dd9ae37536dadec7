package app

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"rssdigest/domain"
)

// Purger is implemented by caches that can drop expired entries.
type Purger interface {
	Purge(ctx context.Context) (int64, error)
}

// Service rebuilds the digest on a fixed interval and keeps only the latest result in memory.
type Service struct {
	agg    *Aggregator
	feeds  []domain.Feed
	purger Purger
	logger *slog.Logger

	mu             sync.Mutex
	interval       time.Duration
	workers        int
	ctx            context.Context
	cancel         context.CancelFunc
	tickerStopChan chan struct{}
	done           chan struct{}
	started        bool

	latest   []domain.Article
	latestAt time.Time
}

func NewService(agg *Aggregator, feeds []domain.Feed, interval time.Duration, workers int, logger *slog.Logger) *Service {
	return &Service{agg: agg, feeds: feeds, interval: interval, workers: workers, logger: logger}
}

// WithPurger makes each cycle drop expired cache entries first.
func (s *Service) WithPurger(p Purger) *Service {
	s.purger = p
	return s
}

func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return errors.New("digest service already started")
	}
	if s.interval <= 0 {
		return errors.New("interval must be > 0")
	}
	s.ctx, s.cancel = context.WithCancel(ctx)
	s.tickerStopChan = make(chan struct{})
	s.done = make(chan struct{})
	go s.loop()
	s.started = true
	return nil
}

// Stop cancels the loop and waits for an in-flight cycle to return.
func (s *Service) Stop() error {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return nil
	}
	cancel := s.cancel
	done := s.done
	s.started = false
	s.mu.Unlock()

	cancel()
	<-done
	return nil
}

func (s *Service) SetInterval(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		s.interval = d
		return
	}
	close(s.tickerStopChan)
	s.tickerStopChan = make(chan struct{})
	s.interval = d
}

// Resize changes the pool size used from the next cycle on.
func (s *Service) Resize(workers int) error {
	if workers <= 0 {
		return errors.New("workers must be > 0")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.workers = workers
	return nil
}

func (s *Service) CurrentInterval() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.interval
}

func (s *Service) CurrentWorkers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.workers
}

// Latest returns the most recent digest and when it was built. The slice is a copy.
func (s *Service) Latest() ([]domain.Article, time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Article(nil), s.latest...), s.latestAt
}

// RunOnce builds one digest and stores it as the latest.
func (s *Service) RunOnce(ctx context.Context) []domain.Article {
	if s.purger != nil {
		if n, err := s.purger.Purge(ctx); err != nil {
			s.logger.Warn("cache purge failed", "error", err)
		} else if n > 0 {
			s.logger.Debug("purged expired cache entries", "count", n)
		}
	}
	articles := s.agg.FetchAll(ctx, s.feeds, s.CurrentWorkers())

	s.mu.Lock()
	s.latest = articles
	s.latestAt = time.Now()
	s.mu.Unlock()
	return articles
}

func (s *Service) loop() {
	defer close(s.done)
	s.RunOnce(s.ctx)
	for {
		s.mu.Lock()
		interval := s.interval
		stopCh := s.tickerStopChan
		s.mu.Unlock()

		ticker := time.NewTicker(interval)
		select {
		case <-s.ctx.Done():
			ticker.Stop()
			return
		case <-stopCh:
			ticker.Stop()
			continue
		case <-ticker.C:
		}
		ticker.Stop()
		s.RunOnce(s.ctx)
	}
}
