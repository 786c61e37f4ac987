package metrics

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// BusinessMetricsCollector collects business metrics periodically
type BusinessMetricsCollector struct {
	db       *gorm.DB
	metrics  *Metrics
	logger   *zap.Logger
	interval time.Duration
	done     chan struct{}
	stopOnce sync.Once
}

// NewBusinessMetricsCollector creates a new collector
func NewBusinessMetricsCollector(db *gorm.DB, metrics *Metrics, logger *zap.Logger, interval time.Duration) *BusinessMetricsCollector {
	if interval <= 0 {
		interval = 60 * time.Second
	}
	return &BusinessMetricsCollector{
		db:       db,
		metrics:  metrics,
		logger:   logger,
		interval: interval,
		done:     make(chan struct{}),
	}
}

// Start begins collecting metrics
func (c *BusinessMetricsCollector) Start() {
	go func() {
		ticker := time.NewTicker(c.interval)
		defer ticker.Stop()

		// 즉시 한 번 수집
		c.Collect()

		for {
			select {
			case <-ticker.C:
				c.Collect()
			case <-c.done:
				return
			}
		}
	}()
}

// Stop stops the collector
func (c *BusinessMetricsCollector) Stop() {
	c.stopOnce.Do(func() { close(c.done) })
}

// Collect counts users, topics and threads once
func (c *BusinessMetricsCollector) Collect() {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("Panic in business metrics collection", zap.Any("panic", r))
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	gauges := []struct {
		table string
		set   func(int64)
	}{
		{"users", c.metrics.SetUsersTotal},
		{"topics", c.metrics.SetTopicsTotal},
		{"threads", c.metrics.SetThreadsTotal},
	}

	for _, g := range gauges {
		var count int64
		if err := c.db.WithContext(ctx).Table(g.table).Count(&count).Error; err != nil {
			c.logger.Error("Failed to count table", zap.String("table", g.table), zap.Error(err))
			continue
		}
		g.set(count)
	}
}
