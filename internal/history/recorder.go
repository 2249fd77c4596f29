// Viridis - Satellite Vegetation and Land Surface Temperature Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/viridis

package history

import (
	"context"
	"sync"
	"time"

	"github.com/tomtom215/viridis/internal/logging"
	"github.com/tomtom215/viridis/internal/metrics"
	"github.com/tomtom215/viridis/internal/models"
)

// writeTimeout bounds a single history insert.
const writeTimeout = 5 * time.Second

// RunSaver persists one analysis run. *Store implements it.
type RunSaver interface {
	SaveRun(ctx context.Context, detail *models.AnalysisRunDetail) error
}

// Recorder persists analysis runs asynchronously so request handlers never
// block on DuckDB writes. Records are dropped, not queued unboundedly, when
// the buffer is full.
type Recorder struct {
	store    RunSaver
	runChan  chan *models.AnalysisRunDetail
	stopChan chan struct{}
	wg       sync.WaitGroup
}

// NewRecorder creates a recorder with the given queue capacity and starts its
// writer goroutine.
func NewRecorder(store RunSaver, queueSize int) *Recorder {
	if queueSize <= 0 {
		queueSize = 1024
	}
	r := &Recorder{
		store:    store,
		runChan:  make(chan *models.AnalysisRunDetail, queueSize),
		stopChan: make(chan struct{}),
	}
	r.wg.Add(1)
	go r.asyncWriter()
	return r
}

// Record enqueues a run without blocking. If the buffer is full the run is
// dropped and counted.
func (r *Recorder) Record(detail *models.AnalysisRunDetail) {
	if detail == nil {
		return
	}

	select {
	case r.runChan <- detail:
		metrics.HistoryQueueDepth.Set(float64(len(r.runChan)))
	default:
		metrics.HistoryWritesDropped.Inc()
		logging.Warn().
			Str("run_id", detail.Run.ID).
			Str("kind", detail.Run.Kind).
			Msg("Analysis history buffer full, dropping run")
	}
}

// asyncWriter processes queued runs until stopped, then drains the buffer.
func (r *Recorder) asyncWriter() {
	defer r.wg.Done()

	for {
		select {
		case <-r.stopChan:
			// Drain remaining runs
			for {
				select {
				case detail := <-r.runChan:
					r.writeRun(detail)
				default:
					return
				}
			}
		case detail := <-r.runChan:
			r.writeRun(detail)
			metrics.HistoryQueueDepth.Set(float64(len(r.runChan)))
		}
	}
}

// writeRun persists a single run with a timeout.
func (r *Recorder) writeRun(detail *models.AnalysisRunDetail) {
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()

	if err := r.store.SaveRun(ctx, detail); err != nil {
		logging.Error().
			Err(err).
			Str("run_id", detail.Run.ID).
			Str("kind", detail.Run.Kind).
			Msg("Failed to persist analysis run")
	}
}

// Close stops the writer goroutine after draining queued runs.
func (r *Recorder) Close() error {
	close(r.stopChan)
	r.wg.Wait()
	metrics.HistoryQueueDepth.Set(0)
	return nil
}
