// Package report owns the report request lifecycle.
//
// Controller is not safe for concurrent use. It is driven from a single
// event loop: Trigger when the user asks for a report, Resolve when the
// matching Outcome comes back. Execute is the only part that runs off the
// loop.
package report

import (
	"context"
	"errors"
	"strings"

	"github.com/alexanderramin/prreport/internal/api"
	"github.com/alexanderramin/prreport/internal/domain"
	"github.com/alexanderramin/prreport/internal/reportdate"
	"go.uber.org/zap"
)

// GenericFailure is shown when the server gave no usable error text.
const GenericFailure = "failed to generate report"

// Fetcher retrieves the report body for a date.
type Fetcher interface {
	Report(ctx context.Context, date reportdate.Date) (string, error)
}

// Request is one issued report query. Ctx is cancelled as soon as a newer
// request supersedes this one.
type Request struct {
	ID   uint64
	Date reportdate.Date
	Ctx  context.Context
}

// Outcome is the result of executing a Request.
type Outcome struct {
	ID   uint64
	Date reportdate.Date
	Text string
	Err  error
}

// Controller holds the single ReportState cell.
type Controller struct {
	log    *zap.Logger
	state  domain.ReportState
	lastID uint64
	cancel context.CancelFunc
}

// NewController creates a Controller in ReportIdle.
func NewController(log *zap.Logger) *Controller {
	if log == nil {
		log = zap.NewNop()
	}
	return &Controller{log: log, state: domain.ReportIdle{}}
}

// State returns the current report state.
func (c *Controller) State() domain.ReportState {
	return c.state
}

// Trigger validates v and, when it normalizes, supersedes whatever request is
// in flight and moves to ReportPending with a fresh id. A validation error
// leaves the state untouched and no Request is issued.
func (c *Controller) Trigger(parent context.Context, v reportdate.Value) (Request, error) {
	date, err := reportdate.Normalize(v)
	if err != nil {
		return Request{}, err
	}

	if c.cancel != nil {
		c.cancel()
	}
	ctx, cancel := context.WithCancel(parent)
	c.cancel = cancel
	c.lastID++

	c.state = domain.ReportPending{RequestID: c.lastID, Date: date.String()}
	c.log.Debug("report requested", zap.Uint64("request_id", c.lastID), zap.String("date", date.String()))
	return Request{ID: c.lastID, Date: date, Ctx: ctx}, nil
}

// Resolve stores o when it answers the newest request. Outcomes for
// superseded requests are dropped and Resolve returns false.
func (c *Controller) Resolve(o Outcome) bool {
	pending, ok := c.state.(domain.ReportPending)
	if !ok || pending.RequestID != o.ID {
		c.log.Debug("stale report response discarded",
			zap.Uint64("request_id", o.ID), zap.Uint64("latest", c.lastID))
		return false
	}

	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}

	if o.Err != nil {
		c.state = domain.ReportFailed{Message: FailureMessage(o.Err), Date: o.Date.String()}
		c.log.Info("report failed", zap.Uint64("request_id", o.ID), zap.Error(o.Err))
		return true
	}
	c.state = domain.ReportSucceeded{Text: o.Text, Date: o.Date.String()}
	c.log.Info("report generated", zap.Uint64("request_id", o.ID), zap.Int("bytes", len(o.Text)))
	return true
}

// Close cancels the in-flight request, if any.
func (c *Controller) Close() {
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}

// Generate runs one full Trigger/Execute/Resolve cycle synchronously.
func (c *Controller) Generate(ctx context.Context, f Fetcher, v reportdate.Value) (domain.ReportState, error) {
	req, err := c.Trigger(ctx, v)
	if err != nil {
		return c.state, err
	}
	c.Resolve(Execute(f, req))
	return c.state, nil
}

// Execute performs the query for req. It is safe to call off the event loop.
func Execute(f Fetcher, req Request) Outcome {
	text, err := f.Report(req.Ctx, req.Date)
	return Outcome{ID: req.ID, Date: req.Date, Text: text, Err: err}
}

// FailureMessage maps a request error to the text shown in ReportFailed:
// the server's error body when it has one, GenericFailure otherwise.
func FailureMessage(err error) string {
	var statusErr *api.StatusError
	if errors.As(err, &statusErr) {
		if msg := strings.TrimSpace(statusErr.Body); msg != "" {
			return msg
		}
	}
	return GenericFailure
}
