package report

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"RentReport/internal/config"
	"RentReport/internal/email"
	"RentReport/internal/metrics"
	"RentReport/internal/models"
	"RentReport/internal/recipients"
	"RentReport/internal/worker"
)

type Stage string

const (
	StageIdle             Stage = "idle"
	StageValidatingConfig Stage = "validating_config"
	StageAggregating      Stage = "aggregating"
	StageRendering        Stage = "rendering"
	StageSending          Stage = "sending"
	StageLoggingFailure   Stage = "logging_failure"
	StageDone             Stage = "done"
)

var ErrMissingConfig = errors.New("report recipients or landlord id not configured")

// Outcome describes a completed run. Run returns nil when the job was
// skipped for missing configuration.
type Outcome struct {
	RunID      string             `json:"run_id"`
	Stage      Stage              `json:"stage"`
	Period     models.PeriodRange `json:"period"`
	Recipients []string           `json:"recipients"`
	Sent       int                `json:"sent"`
	Failures   []string           `json:"failures,omitempty"`
	Summary    *models.Summary    `json:"summary,omitempty"`
	Error      string             `json:"error,omitempty"`
}

type Runner struct {
	Source  Source
	Audit   worker.Recorder
	Mailer  worker.Mailer
	Limiter *rate.Limiter
	Log     *zap.Logger

	// Settings is read on every run. Defaults to config.LoadReport.
	Settings func() (config.Report, error)
	// Now defaults to time.Now.
	Now func() time.Time

	Workers int
	Retries int
}

type rendered struct {
	summary models.Summary
	html    string
	csv     string
}

func (r *Runner) now() time.Time {
	if r.Now != nil {
		return r.Now().UTC()
	}
	return time.Now().UTC()
}

func (r *Runner) settings() (config.Report, error) {
	if r.Settings != nil {
		return r.Settings()
	}
	return config.LoadReport()
}

func (r *Runner) enter(log *zap.Logger, out *Outcome, stage Stage) {
	out.Stage = stage
	log.Debug("report stage", zap.String("stage", string(stage)))
}

// Run executes one monthly report: resolve the period, aggregate, render,
// and send to each configured recipient. It never returns an error; every
// outcome is logged and recorded in the audit trail.
func (r *Runner) Run(ctx context.Context) *Outcome {
	started := time.Now()
	defer func() {
		metrics.ReportDuration.Observe(time.Since(started).Seconds())
	}()

	runID := uuid.NewString()
	log := r.Log.With(zap.String("run_id", runID))
	out := &Outcome{RunID: runID, Stage: StageIdle}

	// ----------------------------
	// Validate Config
	// ----------------------------
	r.enter(log, out, StageValidatingConfig)

	settings, err := r.settings()
	if err == nil && (settings.Recipients == "" || settings.LandlordID == "") {
		err = ErrMissingConfig
	}
	if err != nil {
		log.Warn("summary report skipped",
			zap.Bool("has_recipients", settings.Recipients != ""),
			zap.Bool("has_landlord_id", settings.LandlordID != ""),
			zap.Error(err),
		)
		metrics.ReportRuns.WithLabelValues("skipped").Inc()
		return nil
	}

	now := r.now()
	out.Period = ResolvePeriod(now)
	log = log.With(
		zap.String("landlord_id", settings.LandlordID),
		zap.String("period", out.Period.Label),
	)

	// ----------------------------
	// Aggregate + Render
	// ----------------------------
	res, err := r.build(ctx, log, out, settings.LandlordID, now)
	if err != nil {
		r.recordFailure(ctx, log, out, settings, err)
		r.enter(log, out, StageDone)
		metrics.ReportRuns.WithLabelValues("failed").Inc()
		return out
	}
	out.Summary = &res.summary

	addrs := recipients.Parse(settings.Recipients)
	out.Recipients = addrs
	if len(addrs) == 0 {
		log.Warn("summary report has no valid recipients",
			zap.String("recipients", settings.Recipients),
		)
		r.enter(log, out, StageDone)
		metrics.ReportRuns.WithLabelValues("skipped").Inc()
		return out
	}

	// ----------------------------
	// Send
	// ----------------------------
	r.enter(log, out, StageSending)

	subject := "Monthly Report: " + out.Period.Label
	attachment := email.Attachment{
		Filename:    fmt.Sprintf("payments-%s.csv", out.Period.RentalPeriodKey()),
		ContentType: "text/csv",
		Content:     []byte(res.csv),
	}

	jobs := make([]worker.Job, 0, len(addrs))
	for _, addr := range addrs {
		jobs = append(jobs, worker.Job{
			Message: email.Message{
				To:          addr,
				Subject:     subject,
				HTML:        res.html,
				Attachments: []email.Attachment{attachment},
			},
			Entry: models.EmailLogEntry{
				RunID:      runID,
				Subject:    subject,
				Content:    res.html,
				TemplateID: models.SummaryReportTemplate,
			},
		})
	}

	limiter := r.Limiter
	if limiter == nil {
		limiter = worker.NewLimiter(0)
	}

	results := worker.Dispatch(ctx, jobs, r.Mailer, limiter, r.Audit, log, worker.Options{
		Workers:        r.Workers,
		Retries:        r.Retries,
		RecordFailures: settings.AuditSendFailures,
	})

	for _, result := range results {
		if result.Err != nil {
			out.Failures = append(out.Failures, result.Err.Error())
			continue
		}
		out.Sent++
	}

	if len(out.Failures) > 0 {
		log.Error("summary report delivery failed",
			zap.Int("sent", out.Sent),
			zap.Int("failed", len(out.Failures)),
			zap.Strings("errors", out.Failures),
		)
		metrics.ReportRuns.WithLabelValues("partial").Inc()
	} else {
		log.Info("summary report sent",
			zap.Strings("recipients", addrs),
		)
		metrics.ReportRuns.WithLabelValues("sent").Inc()
	}

	r.enter(log, out, StageDone)
	return out
}

// build runs the aggregation and rendering stages. A panic in either is
// reported as an error so the run can still record its failure.
func (r *Runner) build(
	ctx context.Context,
	log *zap.Logger,
	out *Outcome,
	landlordID string,
	now time.Time,
) (res *rendered, err error) {

	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic during %s: %v", out.Stage, p)
		}
	}()

	r.enter(log, out, StageAggregating)

	snap, err := Fetch(ctx, r.Source, landlordID)
	if err != nil {
		return nil, fmt.Errorf("fetch report data: %w", err)
	}

	summary := Summarize(snap, out.Period)
	details := BuildDetails(snap, out.Period, now)

	r.enter(log, out, StageRendering)

	html, err := RenderHTML(View{
		LandlordID:  landlordID,
		Period:      out.Period,
		Summary:     summary,
		Details:     details,
		GeneratedAt: now,
	})
	if err != nil {
		return nil, err
	}

	return &rendered{summary: summary, html: html, csv: details.CSV}, nil
}

// recordFailure writes one failed audit entry covering every configured
// recipient. Errors while recording are logged and dropped.
func (r *Runner) recordFailure(
	ctx context.Context,
	log *zap.Logger,
	out *Outcome,
	settings config.Report,
	cause error,
) {

	log.Error("summary report failed",
		zap.String("stage", string(out.Stage)),
		zap.Error(cause),
	)

	r.enter(log, out, StageLoggingFailure)
	out.Error = cause.Error()

	entry := &models.EmailLogEntry{
		RunID:      out.RunID,
		Recipients: recipients.Parse(settings.Recipients),
		Subject:    "Monthly Report: " + out.Period.Label,
		Content:    "Summary report generation failed: " + cause.Error(),
		SentAt:     r.now(),
		Status:     models.StatusFailed,
		TemplateID: models.SummaryReportTemplate,
		Error:      cause.Error(),
	}

	if err := r.Audit.InsertEmailLog(ctx, entry); err != nil {
		log.Error("failed to record summary report failure",
			zap.Error(err),
		)
	}
}
