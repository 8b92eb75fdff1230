package accessworker

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
)

// ErrQueueFull se retorna cuando la cola del worker asignado a la clave está llena
var ErrQueueFull = errors.New("access worker queue is full")

// ErrPoolStopped se retorna cuando se intenta despachar sobre un pool detenido
var ErrPoolStopped = errors.New("access worker pool is stopped")

// AccessJob es una unidad de trabajo asociada a una clave (la cédula).
// Todos los jobs con la misma clave se ejecutan en el mismo worker, en orden.
type AccessJob struct {
	Key     string
	Handler func(ctx context.Context) error
}

// PoolStats contiene métricas en tiempo real del worker pool
type PoolStats struct {
	NumWorkers      int            `json:"num_workers"`
	QueueSize       int            `json:"queue_size"`
	ActiveWorkers   int            `json:"active_workers"`
	TotalDispatched int64          `json:"total_dispatched"`
	TotalProcessed  int64          `json:"total_processed"`
	TotalDropped    int64          `json:"total_dropped"`
	TotalErrors     int64          `json:"total_errors"`
	WorkerStats     []WorkerStats  `json:"worker_stats"`
	ActiveKeys      map[string]int `json:"active_keys"` // key -> worker_id
}

// WorkerStats contiene métricas por worker individual
type WorkerStats struct {
	WorkerID      int   `json:"worker_id"`
	QueueDepth    int   `json:"queue_depth"`
	IsProcessing  bool  `json:"is_processing"`
	JobsProcessed int64 `json:"jobs_processed"`
}

type activeKeyEntry struct {
	workerID  int
	updatedAt time.Time
}

// Pool serializa las validaciones por cédula repartiéndolas entre N workers por hash
type Pool struct {
	numWorkers int
	queueSize  int
	workers    []*worker
	wg         sync.WaitGroup
	stopOnce   sync.Once
	stopped    int32
	stopCh     chan struct{}

	totalDispatched int64
	totalProcessed  int64
	totalDropped    int64
	totalErrors     int64
	activeKeysMu    sync.Mutex
	activeKeys      map[string]activeKeyEntry
}

type worker struct {
	id            int
	jobQueue      chan AccessJob
	ctx           context.Context
	cancel        context.CancelFunc
	isProcessing  int32
	jobsProcessed int64
	pool          *Pool
}

// NewPool crea un pool con numWorkers workers y una cola de queueSize por worker
func NewPool(numWorkers, queueSize int) *Pool {
	if numWorkers <= 0 {
		numWorkers = 8
	}
	if queueSize <= 0 {
		queueSize = 256
	}

	return &Pool{
		numWorkers: numWorkers,
		queueSize:  queueSize,
		workers:    make([]*worker, numWorkers),
		activeKeys: make(map[string]activeKeyEntry),
		stopCh:     make(chan struct{}),
	}
}

// Start inicia todos los workers del pool
func (p *Pool) Start(ctx context.Context) {
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		ticker := time.NewTicker(1 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-p.stopCh:
				return
			case <-ticker.C:
				p.pruneActiveKeys(time.Now())
			}
		}
	}()

	for i := 0; i < p.numWorkers; i++ {
		workerCtx, cancel := context.WithCancel(ctx)
		w := &worker{
			id:       i,
			jobQueue: make(chan AccessJob, p.queueSize),
			ctx:      workerCtx,
			cancel:   cancel,
			pool:     p,
		}
		p.workers[i] = w

		p.wg.Add(1)
		go w.run(&p.wg)
	}

	logrus.Infof("[ACCESS_WORKER] Started with %d workers, queue size: %d", p.numWorkers, p.queueSize)
}

// TryDispatch encola el job sin bloquear y retorna si pudo encolarse
func (p *Pool) TryDispatch(job AccessJob) bool {
	if atomic.LoadInt32(&p.stopped) == 1 {
		atomic.AddInt64(&p.totalDropped, 1)
		return false
	}

	shard := p.shardFor(job.Key)
	atomic.AddInt64(&p.totalDispatched, 1)

	p.activeKeysMu.Lock()
	p.activeKeys[job.Key] = activeKeyEntry{workerID: shard, updatedAt: time.Now()}
	p.activeKeysMu.Unlock()

	sent := func() (ok bool) {
		defer func() {
			// send on closed channel si Stop corre en paralelo
			if r := recover(); r != nil {
				ok = false
			}
		}()
		select {
		case p.workers[shard].jobQueue <- job:
			return true
		default:
			return false
		}
	}()

	if sent {
		return true
	}
	p.activeKeysMu.Lock()
	delete(p.activeKeys, job.Key)
	p.activeKeysMu.Unlock()

	atomic.AddInt64(&p.totalDropped, 1)
	logrus.Warnf("[ACCESS_WORKER] Worker %d queue full (or stopped), dropping job for %s", shard, job.Key)
	return false
}

// Do ejecuta fn en el worker de key y espera su resultado.
// Si la cola está llena retorna ErrQueueFull sin ejecutar fn.
func (p *Pool) Do(ctx context.Context, key string, fn func(ctx context.Context) error) error {
	if atomic.LoadInt32(&p.stopped) == 1 {
		return ErrPoolStopped
	}

	done := make(chan error, 1)
	job := AccessJob{
		Key: key,
		Handler: func(workerCtx context.Context) (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("access job panic: %v", r)
				}
				done <- err
			}()
			// el job corre con el contexto del llamador para respetar su timeout
			if err = ctx.Err(); err != nil {
				return err
			}
			return fn(ctx)
		},
	}

	if !p.TryDispatch(job) {
		return ErrQueueFull
	}

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stop detiene el pool procesando lo que quede en las colas
func (p *Pool) Stop() {
	p.stopOnce.Do(func() {
		atomic.StoreInt32(&p.stopped, 1)
		close(p.stopCh)
		logrus.Info("[ACCESS_WORKER] Stopping workers...")

		for _, w := range p.workers {
			if w == nil {
				continue
			}
			w.cancel()
			close(w.jobQueue)
		}

		p.wg.Wait()

		logrus.Info("[ACCESS_WORKER] All workers stopped")
	})
}

// shardFor calcula el worker de una clave usando hash consistente
func (p *Pool) shardFor(key string) int {
	h := fnv.New32a()
	h.Write([]byte(key))
	return int(h.Sum32() % uint32(p.numWorkers))
}

func (p *Pool) pruneActiveKeys(now time.Time) {
	p.activeKeysMu.Lock()
	defer p.activeKeysMu.Unlock()
	for k, v := range p.activeKeys {
		if !v.updatedAt.IsZero() && now.Sub(v.updatedAt) > 2*time.Second {
			delete(p.activeKeys, k)
		}
	}
}

// GetStats retorna estadísticas en tiempo real del pool
func (p *Pool) GetStats() PoolStats {
	workerStats := make([]WorkerStats, 0, len(p.workers))
	activeWorkers := 0

	for _, w := range p.workers {
		if w == nil {
			continue
		}
		isProcessing := atomic.LoadInt32(&w.isProcessing) == 1
		if isProcessing {
			activeWorkers++
		}

		workerStats = append(workerStats, WorkerStats{
			WorkerID:      w.id,
			QueueDepth:    len(w.jobQueue),
			IsProcessing:  isProcessing,
			JobsProcessed: atomic.LoadInt64(&w.jobsProcessed),
		})
	}

	p.pruneActiveKeys(time.Now())
	p.activeKeysMu.Lock()
	snapshot := make(map[string]int, len(p.activeKeys))
	for k, v := range p.activeKeys {
		snapshot[k] = v.workerID
	}
	p.activeKeysMu.Unlock()

	return PoolStats{
		NumWorkers:      p.numWorkers,
		QueueSize:       p.queueSize,
		ActiveWorkers:   activeWorkers,
		TotalDispatched: atomic.LoadInt64(&p.totalDispatched),
		TotalProcessed:  atomic.LoadInt64(&p.totalProcessed),
		TotalDropped:    atomic.LoadInt64(&p.totalDropped),
		TotalErrors:     atomic.LoadInt64(&p.totalErrors),
		WorkerStats:     workerStats,
		ActiveKeys:      snapshot,
	}
}

func (w *worker) run(wg *sync.WaitGroup) {
	defer wg.Done()

	logrus.Debugf("[ACCESS_WORKER] Worker %d started", w.id)

	for {
		select {
		case job, ok := <-w.jobQueue:
			if !ok {
				logrus.Debugf("[ACCESS_WORKER] Worker %d shutting down", w.id)
				return
			}
			w.process(job)

		case <-w.ctx.Done():
			logrus.Debugf("[ACCESS_WORKER] Worker %d context cancelled, draining queue...", w.id)
			w.drainQueue()
			return
		}
	}
}

func (w *worker) process(job AccessJob) {
	atomic.StoreInt32(&w.isProcessing, 1)
	defer func() {
		if r := recover(); r != nil {
			atomic.AddInt64(&w.pool.totalErrors, 1)
			logrus.Errorf("[ACCESS_WORKER] Worker %d panic for %s: %v", w.id, job.Key, r)
		}
		atomic.StoreInt32(&w.isProcessing, 0)
		atomic.AddInt64(&w.jobsProcessed, 1)
		atomic.AddInt64(&w.pool.totalProcessed, 1)
	}()

	if err := job.Handler(w.ctx); err != nil {
		atomic.AddInt64(&w.pool.totalErrors, 1)
		logrus.WithError(err).Debugf("[ACCESS_WORKER] Worker %d job failed for %s", w.id, job.Key)
	}
}

// drainQueue procesa jobs pendientes antes del shutdown
func (w *worker) drainQueue() {
	for {
		select {
		case job, ok := <-w.jobQueue:
			if !ok {
				return
			}
			w.process(job)
		default:
			return
		}
	}
}
