package analysis

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"streambox/internal/catalog"
	"streambox/internal/config"
	"streambox/internal/events"
	"streambox/internal/logging"
	"streambox/internal/notifications"
)

// VerdictStore is the slice of the catalog the worker mutates.
type VerdictStore interface {
	ApplyVerdict(ctx context.Context, id string, status catalog.Status, sensitivity catalog.Sensitivity) error
}

// Job identifies one freshly created video record to analyze.
type Job struct {
	VideoID    string
	StorageRef string
	Title      string
}

// Worker schedules one background classification job per uploaded video.
type Worker struct {
	store    VerdictStore
	hub      *events.Hub
	notifier notifications.Service
	logger   *slog.Logger
	classify Classifier
	delay    time.Duration

	mu       sync.Mutex
	inFlight map[string]struct{}
	wg       sync.WaitGroup
}

// WorkerOption configures optional Worker behavior.
type WorkerOption func(*Worker)

// WithClassifier substitutes the classification policy.
func WithClassifier(classify Classifier) WorkerOption {
	return func(w *Worker) {
		if classify != nil {
			w.classify = classify
		}
	}
}

// NewWorker constructs a worker using the configured heuristic and delay.
func NewWorker(cfg *config.Config, store VerdictStore, hub *events.Hub, notifier notifications.Service, logger *slog.Logger, opts ...WorkerOption) *Worker {
	if logger == nil {
		logger = logging.NewNop()
	}
	w := &Worker{
		store:    store,
		hub:      hub,
		notifier: notifier,
		logger:   logger.With(logging.Component("analysis")),
		classify: HeuristicClassifier(cfg.Analysis.SuspiciousTokens),
		delay:    time.Duration(cfg.Analysis.DelaySeconds) * time.Second,
		inFlight: make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Enqueue starts the analysis job for a record. It returns false when a job
// for that record is already in flight; only the upload path calls it, so a
// record can never have two concurrent analyses.
func (w *Worker) Enqueue(job Job) bool {
	w.mu.Lock()
	if _, running := w.inFlight[job.VideoID]; running {
		w.mu.Unlock()
		return false
	}
	w.inFlight[job.VideoID] = struct{}{}
	w.wg.Add(1)
	w.mu.Unlock()

	go w.run(job)
	return true
}

// Wait blocks until all in-flight jobs have finished. Jobs are not
// cancellable; the daemon calls this during shutdown.
func (w *Worker) Wait() {
	w.wg.Wait()
}

func (w *Worker) run(job Job) {
	defer w.wg.Done()
	defer func() {
		w.mu.Lock()
		delete(w.inFlight, job.VideoID)
		w.mu.Unlock()
	}()

	logger := w.logger.With(logging.VideoID(job.VideoID))
	logger.Info("analysis started", logging.String("storage_ref", job.StorageRef))

	if w.delay > 0 {
		time.Sleep(w.delay)
	}

	verdict := w.classify(job.StorageRef)

	// Commit before broadcast: viewers must never learn a state that was
	// not durably stored.
	ctx := context.Background()
	if err := w.store.ApplyVerdict(ctx, job.VideoID, verdict.Status, verdict.Sensitivity); err != nil {
		logger.Error("metadata write failed; verdict event suppressed",
			logging.Error(err),
			logging.String("status", string(verdict.Status)))
		if w.notifier != nil {
			if nerr := w.notifier.NotifyError(ctx, err, "analysis verdict"); nerr != nil {
				logger.Warn("failed to send error notification", logging.Error(nerr))
			}
		}
		return
	}

	w.hub.Publish(events.ProcessingEvent{
		VideoID:     job.VideoID,
		Status:      string(verdict.Status),
		Sensitivity: string(verdict.Sensitivity),
	})
	logger.Info("analysis completed",
		logging.String("status", string(verdict.Status)),
		logging.String("sensitivity", string(verdict.Sensitivity)))

	w.notifyVerdict(ctx, logger, job, verdict)
}

func (w *Worker) notifyVerdict(ctx context.Context, logger *slog.Logger, job Job, verdict Verdict) {
	if w.notifier == nil {
		return
	}
	title := job.Title
	if title == "" {
		title = job.StorageRef
	}
	var err error
	if verdict.Status == catalog.StatusFlagged {
		err = w.notifier.NotifyVideoFlagged(ctx, title)
	} else {
		err = w.notifier.NotifyAnalysisCompleted(ctx, title, string(verdict.Status))
	}
	if err != nil {
		logger.Warn("failed to send verdict notification", logging.Error(err))
	}
}
