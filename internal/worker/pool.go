package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"RentReport/internal/email"
	"RentReport/internal/metrics"
	"RentReport/internal/models"
)

type Mailer interface {
	SendWithRetry(ctx context.Context, msg email.Message, retries int) error
}

type Recorder interface {
	InsertEmailLog(ctx context.Context, entry *models.EmailLogEntry) error
}

// Job is one recipient's copy of a report. Entry is the audit record
// template; recipients, status and timestamp are filled in per outcome.
type Job struct {
	Message email.Message
	Entry   models.EmailLogEntry
}

type Result struct {
	Recipient string
	Err       error
}

type Options struct {
	Workers int
	Retries int
	// RecordFailures also writes a failed audit entry for each recipient
	// whose send did not succeed.
	RecordFailures bool
}

// NewLimiter allows perSecond sends per second with an equal burst. Zero or
// a negative value means no limit.
func NewLimiter(perSecond int) *rate.Limiter {
	if perSecond <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	return rate.NewLimiter(rate.Limit(perSecond), perSecond)
}

// Dispatch sends every job and waits for all of them to settle. One
// recipient's failure never stops the others. Results are returned in job
// order.
func Dispatch(
	ctx context.Context,
	jobs []Job,
	mailer Mailer,
	limiter *rate.Limiter,
	store Recorder,
	logger *zap.Logger,
	opts Options,
) []Result {

	results := make([]Result, len(jobs))
	if len(jobs) == 0 {
		return results
	}

	workers := opts.Workers
	if workers <= 0 || workers > len(jobs) {
		workers = len(jobs)
	}

	queue := make(chan int, len(jobs))
	for i := range jobs {
		queue <- i
	}
	close(queue)

	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)

		go func(id int) {
			defer wg.Done()

			for idx := range queue {
				job := jobs[idx]
				results[idx] = Result{
					Recipient: job.Message.To,
					Err:       deliver(ctx, id, job, mailer, limiter, store, logger, opts),
				}
			}
		}(w)
	}

	wg.Wait()

	return results
}

func deliver(
	ctx context.Context,
	workerID int,
	job Job,
	mailer Mailer,
	limiter *rate.Limiter,
	store Recorder,
	logger *zap.Logger,
	opts Options,
) error {

	// ----------------------------
	// Rate Limit
	// ----------------------------
	if err := limiter.Wait(ctx); err != nil {
		logger.Warn("rate limiter stopped by context",
			zap.Int("worker_id", workerID),
			zap.String("to", job.Message.To),
			zap.Error(err),
		)
		metrics.EmailFailures.Inc()
		return fmt.Errorf("%s: %w", job.Message.To, err)
	}

	// ----------------------------
	// Send Email
	// ----------------------------
	if err := mailer.SendWithRetry(ctx, job.Message, opts.Retries); err != nil {

		logger.Error("email send failed",
			zap.Int("worker_id", workerID),
			zap.String("to", job.Message.To),
			zap.Error(err),
		)

		metrics.EmailFailures.Inc()

		if opts.RecordFailures {
			entry := job.Entry
			entry.Recipients = []string{job.Message.To}
			entry.Status = models.StatusFailed
			entry.Error = err.Error()
			entry.SentAt = time.Now().UTC()

			if dbErr := store.InsertEmailLog(ctx, &entry); dbErr != nil {
				logger.Error("failed to record email failure",
					zap.String("to", job.Message.To),
					zap.Error(dbErr),
				)
			}
		}

		return fmt.Errorf("%s: %w", job.Message.To, err)
	}

	metrics.EmailsSent.Inc()

	// ----------------------------
	// Record as Sent
	// ----------------------------
	entry := job.Entry
	entry.Recipients = []string{job.Message.To}
	entry.Status = models.StatusSent
	entry.Error = ""
	entry.SentAt = time.Now().UTC()

	if err := store.InsertEmailLog(ctx, &entry); err != nil {
		logger.Error("failed to record sent email",
			zap.String("to", job.Message.To),
			zap.Error(err),
		)
		return fmt.Errorf("%s: record email log: %w", job.Message.To, err)
	}

	logger.Info("email sent successfully",
		zap.Int("worker_id", workerID),
		zap.String("to", job.Message.To),
	)

	return nil
}
