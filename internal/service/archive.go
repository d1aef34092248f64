package service

import (
	"context"

	"printsync/internal/logger"
	"printsync/internal/models"
	"printsync/internal/repository"
)

const archiveQueueSize = 256

// Archiver persists console entries and chart samples as the core emits
// them. Sink callbacks run on the core's event loop and must not block, so
// they only enqueue; Run drains the queue into the repositories. Overflow
// drops the oldest-pending write rather than stalling the core.
type Archiver struct {
	console repository.ConsoleRepo
	samples repository.SampleRepo
	log     *logger.Logger
	queue   chan archiveOp
}

type archiveOp struct {
	entry  *models.ConsoleEntry
	sample *models.ChartPoint
}

func NewArchiver(console repository.ConsoleRepo, samples repository.SampleRepo, log *logger.Logger) *Archiver {
	if log == nil {
		log = logger.Nop()
	}
	return &Archiver{
		console: console,
		samples: samples,
		log:     log,
		queue:   make(chan archiveOp, archiveQueueSize),
	}
}

var _ Archive = (*Archiver)(nil)

// Run writes queued archive operations until ctx is canceled.
func (a *Archiver) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case op := <-a.queue:
			a.write(ctx, op)
		}
	}
}

func (a *Archiver) write(ctx context.Context, op archiveOp) {
	switch {
	case op.entry != nil:
		if err := a.console.Append(ctx, *op.entry); err != nil {
			a.log.Warnw("archive_console_append_failed", "err", err)
		}
	case op.sample != nil:
		if err := a.samples.Append(ctx, *op.sample); err != nil {
			a.log.Warnw("archive_sample_append_failed", "err", err)
		}
	}
}

// enqueue adds an operation, evicting the oldest pending one when full.
func (a *Archiver) enqueue(op archiveOp) {
	for {
		select {
		case a.queue <- op:
			return
		default:
		}
		select {
		case <-a.queue:
			a.log.Warnw("archive_queue_overflow")
		default:
		}
	}
}

// ConsoleHistory reads archived console entries.
func (a *Archiver) ConsoleHistory(ctx context.Context, f HistoryFilter) ([]models.ConsoleEntry, error) {
	return a.console.List(ctx, f.From, f.To, f.Limit)
}

// SampleHistory reads archived chart samples.
func (a *Archiver) SampleHistory(ctx context.Context, f HistoryFilter) ([]models.ChartPoint, error) {
	return a.samples.List(ctx, f.From, f.To, f.Limit)
}

// client.Sink implementation.

func (a *Archiver) ConsoleAppended(e models.ConsoleEntry) { a.enqueue(archiveOp{entry: &e}) }
func (a *Archiver) ChartPointAdded(p models.ChartPoint)   { a.enqueue(archiveOp{sample: &p}) }

func (a *Archiver) ConnStateChanged(models.ConnState) {}
func (a *Archiver) PrinterUpdated(models.PrinterInfo) {}
func (a *Archiver) RequestError(string)               {}
func (a *Archiver) SessionReady()                     {}
