package queue

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/99minutos/forum-system/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// Metrics are the collectors a Dispatcher reports to. Nil fields are replaced
// by unregistered collectors.
type Metrics struct {
	QueueDepth *prometheus.GaugeVec // label: worker_id
	Errors     prometheus.Counter
	Drift      prometheus.Counter
}

func (m Metrics) withDefaults() Metrics {
	if m.QueueDepth == nil {
		m.QueueDepth = prometheus.NewGaugeVec(prometheus.GaugeOpts{Name: "reconcile_queue_depth"}, []string{"worker_id"})
	}
	if m.Errors == nil {
		m.Errors = prometheus.NewCounter(prometheus.CounterOpts{Name: "reconcile_errors_total"})
	}
	if m.Drift == nil {
		m.Drift = prometheus.NewCounter(prometheus.CounterOpts{Name: "post_count_drift_total"})
	}
	return m
}

// Dispatcher routes board ids to a fixed set of workers that repair the
// board's post_count. A board always lands on the same worker, so two
// reconciliations of one board never run concurrently.
type Dispatcher struct {
	workers    []chan int64
	reconciler ports.PostCountReconciler
	metrics    Metrics
	log        zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, reconciler ports.PostCountReconciler, m Metrics, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers:    make([]chan int64, numWorkers),
		reconciler: reconciler,
		metrics:    m.withDefaults(),
		log:        log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan int64, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue sends a board id to its worker. It blocks once the worker's buffer
// is full and gives up when ctx is done.
func (d *Dispatcher) Enqueue(ctx context.Context, boardID int64) bool {
	idx := d.shardIndex(boardID)
	select {
	case d.workers[idx] <- boardID:
		d.metrics.QueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
		return true
	case <-ctx.Done():
		return false
	}
}

// EnqueueBatch enqueues every id and stops early when ctx is done.
func (d *Dispatcher) EnqueueBatch(ctx context.Context, boardIDs []int64) int {
	n := 0
	for _, id := range boardIDs {
		if !d.Enqueue(ctx, id) {
			break
		}
		n++
	}
	return n
}

// RunPeriodic sweeps all boards returned by ids every interval until ctx is
// cancelled. The first sweep starts after one interval.
func (d *Dispatcher) RunPeriodic(ctx context.Context, interval time.Duration, ids func(context.Context) ([]int64, error)) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			boardIDs, err := ids(ctx)
			if err != nil {
				d.log.Error().Err(err).Msg("reconcile sweep: list boards failed")
				continue
			}
			queued := d.EnqueueBatch(ctx, boardIDs)
			d.log.Debug().Int("boards", queued).Msg("reconcile sweep queued")
		}
	}
}

// shardIndex maps a board id deterministically to a worker index.
func (d *Dispatcher) shardIndex(boardID int64) int {
	if boardID < 0 {
		boardID = -boardID
	}
	return int(boardID % int64(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan int64) {
	depth := d.metrics.QueueDepth.WithLabelValues(strconv.Itoa(id))
	for {
		select {
		case <-ctx.Done():
			return
		case boardID, ok := <-ch:
			if !ok {
				return
			}
			depth.Set(float64(len(ch)))

			drift, err := d.reconciler.Reconcile(ctx, boardID)
			if err != nil {
				d.metrics.Errors.Inc()
				d.log.Error().Err(err).
					Int64("board_id", boardID).
					Int("worker_id", id).
					Msg("post_count reconciliation failed")
				continue
			}
			if drift < 0 {
				drift = -drift
			}
			d.metrics.Drift.Add(float64(drift))
		}
	}
}
