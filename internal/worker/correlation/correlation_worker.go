package correlation

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"os"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/parking-zone-service/internal/domain"
	"github.com/parking-zone-service/internal/domain/repository"
	"github.com/parking-zone-service/internal/observability"
	"github.com/parking-zone-service/internal/pkg/errors"
	"github.com/parking-zone-service/internal/usecase"
	"github.com/parking-zone-service/internal/worker"
)

const (
	maxBatchSize    = 10                     // задача может содержать тысячи адресов
	emptyQueueSleep = 100 * time.Millisecond // пауза если очередь пуста
)

// Worker обрабатывает задачи привязки адресов из stream:correlation:request
type Worker struct {
	*worker.BaseWorker
	streamRepo   repository.StreamRepository
	correlator   usecase.JobCorrelator
	metrics      *observability.Metrics
	consumerName string
	maxRetries   int
	errorBackoff time.Duration

	// сообщения, висящие в pending дольше pendingMinIdle, забираются повторно
	pendingMinIdle time.Duration
	lastClaim      time.Time
}

// NewWorker создает новый Worker
func NewWorker(
	streamRepo repository.StreamRepository,
	correlator usecase.JobCorrelator,
	metrics *observability.Metrics,
	consumerGroup string,
	maxRetries int,
	errorBackoff time.Duration,
	pendingMinIdle time.Duration,
	clock clockwork.Clock,
	logger *zap.Logger,
) *Worker {
	hostname, _ := os.Hostname()
	consumerName := fmt.Sprintf("%s-%d", hostname, os.Getpid())

	return &Worker{
		BaseWorker:     worker.NewBaseWorker("zone-correlation", consumerGroup, clock, logger),
		streamRepo:     streamRepo,
		correlator:     correlator,
		metrics:        metrics,
		consumerName:   consumerName,
		maxRetries:     maxRetries,
		errorBackoff:   errorBackoff,
		pendingMinIdle: pendingMinIdle,
	}
}

// Start запускает воркер
func (w *Worker) Start(ctx context.Context) error {
	logger := w.Logger()
	logger.Info("Starting correlation worker",
		zap.String("consumer_group", w.ConsumerGroup()),
		zap.String("consumer_name", w.consumerName),
		zap.Int("max_retries", w.maxRetries),
		zap.Duration("pending_min_idle", w.pendingMinIdle))

	if err := w.streamRepo.CreateConsumerGroup(ctx, domain.StreamCorrelationRequest, w.ConsumerGroup()); err != nil {
		return fmt.Errorf("failed to create consumer group: %w", err)
	}

	for {
		select {
		case <-w.StopChan():
			logger.Info("Worker stopped")
			return nil
		case <-ctx.Done():
			logger.Info("Context cancelled")
			return ctx.Err()
		default:
		}

		processed, err := w.ProcessBatch(ctx)
		if err != nil {
			logger.Error("Failed to process batch", zap.Error(err))
			w.Pause(ctx, w.errorBackoff)
			continue
		}
		if processed == 0 {
			w.Pause(ctx, emptyQueueSleep)
		}
	}
}

// ProcessBatch читает и обрабатывает пачку задач, возвращает число прочитанных сообщений.
// Сначала забирает зависшие в pending сообщения, затем читает новые.
func (w *Worker) ProcessBatch(ctx context.Context) (int, error) {
	messages, err := w.claimPending(ctx)
	if err != nil {
		return 0, err
	}
	if len(messages) == 0 {
		messages, err = w.streamRepo.ConsumeBatch(
			ctx,
			domain.StreamCorrelationRequest,
			w.ConsumerGroup(),
			w.consumerName,
			maxBatchSize,
		)
		if err != nil {
			return 0, fmt.Errorf("failed to consume batch: %w", err)
		}
	}
	if len(messages) == 0 {
		return 0, nil
	}

	acked := make([]string, 0, len(messages))
	for _, msg := range messages {
		if w.handle(ctx, msg) {
			acked = append(acked, msg.ID)
		}
	}

	// неподтверждённые сообщения заберёт claimPending через pendingMinIdle
	if err := w.streamRepo.AckMessages(ctx, domain.StreamCorrelationRequest, w.ConsumerGroup(), acked); err != nil {
		w.Logger().Error("Failed to ack messages", zap.Error(err))
	}

	return len(messages), nil
}

// claimPending проверяет pending не чаще раза в pendingMinIdle; первый вызов
// после старта проверяет сразу. Пока приходят полные пачки, проверка повторяется.
func (w *Worker) claimPending(ctx context.Context) ([]domain.StreamMessage, error) {
	now := w.Clock().Now()
	if !w.lastClaim.IsZero() && now.Sub(w.lastClaim) < w.pendingMinIdle {
		return nil, nil
	}

	messages, err := w.streamRepo.ClaimPending(
		ctx,
		domain.StreamCorrelationRequest,
		w.ConsumerGroup(),
		w.consumerName,
		w.pendingMinIdle,
		maxBatchSize,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to claim pending messages: %w", err)
	}
	if len(messages) < maxBatchSize {
		w.lastClaim = now
	}
	if len(messages) > 0 {
		w.metrics.JobsReclaimed.Add(float64(len(messages)))
	}
	return messages, nil
}

// handle обрабатывает одно сообщение; true, если его можно подтвердить
func (w *Worker) handle(ctx context.Context, msg domain.StreamMessage) bool {
	logger := w.Logger().With(zap.String("message_id", msg.ID))

	var job domain.CorrelationJob
	if err := json.Unmarshal([]byte(msg.Data), &job); err != nil {
		logger.Warn("Failed to parse job, skipping", zap.Error(err))
		w.metrics.JobsProcessed.WithLabelValues("invalid").Inc()
		return true
	}
	logger = logger.With(zap.String("job_id", job.JobID.String()))

	if !job.HasWork() {
		w.metrics.JobsProcessed.WithLabelValues("invalid").Inc()
		return w.publishDone(ctx, logger, &domain.CorrelationJobDone{
			JobID:     job.JobID,
			Algorithm: job.Algorithm,
			Error:     "job has no addresses or zones",
		})
	}

	done, err := w.correlator.CorrelateJob(ctx, &job)
	if err != nil {
		return w.handleFailure(ctx, logger, &job, err)
	}

	w.metrics.JobsProcessed.WithLabelValues("success").Inc()
	logger.Info("Job processed",
		zap.Int("addresses", len(job.Addresses)),
		zap.Int("matched", done.Matched))
	return w.publishDone(ctx, logger, done)
}

// handleFailure: ошибки клиента не повторяются, остальные переотправляются с Attempt+1
func (w *Worker) handleFailure(ctx context.Context, logger *zap.Logger, job *domain.CorrelationJob, cause error) bool {
	var appErr *errors.AppError
	retriable := !stderrors.As(cause, &appErr) || appErr.StatusCode >= 500

	if retriable && job.Attempt+1 < w.maxRetries {
		retry := *job
		retry.Attempt++
		if err := w.streamRepo.PublishToStream(ctx, domain.StreamCorrelationRequest, &retry); err != nil {
			logger.Error("Failed to requeue job", zap.Error(err))
			return false
		}
		w.metrics.JobsProcessed.WithLabelValues("retried").Inc()
		logger.Warn("Job failed, requeued",
			zap.Int("attempt", retry.Attempt),
			zap.Error(cause))
		return true
	}

	w.metrics.JobsProcessed.WithLabelValues("failed").Inc()
	logger.Error("Job failed", zap.Int("attempt", job.Attempt), zap.Error(cause))
	return w.publishDone(ctx, logger, &domain.CorrelationJobDone{
		JobID:     job.JobID,
		Algorithm: job.Algorithm,
		Error:     cause.Error(),
	})
}

func (w *Worker) publishDone(ctx context.Context, logger *zap.Logger, done *domain.CorrelationJobDone) bool {
	if err := w.streamRepo.PublishToStream(ctx, domain.StreamCorrelationDone, done); err != nil {
		logger.Error("Failed to publish done event", zap.Error(err))
		return false
	}
	return true
}
