package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Manvithareddyk/PDF-Parser-and-JSON-Extraction/internal/model"
)

// ResultStore persists finished documents.
type ResultStore interface {
	StoreDocument(ctx context.Context, docID, filename string, doc *model.Document) error
}

// Worker processes a single extraction job.
type Worker struct {
	open      Opener
	processor *Processor
	store     ResultStore // nil disables persistence
	log       *slog.Logger
}

func NewWorker(open Opener, processor *Processor, store ResultStore, log *slog.Logger) *Worker {
	return &Worker{
		open:      open,
		processor: processor,
		store:     store,
		log:       log,
	}
}

// Process runs open, extract and store for a job.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "doc_id", job.DocID, "filename", job.Filename)

	// Phase 1: Open
	job.SetStatus(StatusOpening, "opening")
	src, err := w.open(job.Filename, job.FileData())
	if err != nil {
		log.Error("open failed", "error", err)
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, "opening")
		return
	}
	defer src.Close()
	job.SetTotalPages(src.NumPages())

	// Phase 2: Extract
	job.SetStatus(StatusExtracting, "extracting")
	res, err := w.processor.ProcessDocument(ctx, src, func(int) { job.IncrPagesProcessed() })
	hadErrors := len(res.PageErrors) > 0
	for _, pe := range res.PageErrors {
		job.AddError(pe.Error())
	}
	if err != nil {
		log.Error("extraction interrupted", "error", err, "pages", len(res.Document.Pages))
		job.AddError(err.Error())
		job.SetResult(res.Document)
		job.SetStatus(StatusFailed, "extracting")
		return
	}
	job.SetResult(res.Document)

	summary := res.Document.Summary()
	log.Info("extraction complete", "pages", summary.Pages, "items", summary.Items, "page_errors", len(res.PageErrors))

	// Phase 3: Store
	if w.store != nil {
		job.SetStatus(StatusStoring, "storing")
		if err := w.store.StoreDocument(ctx, job.DocID, job.Filename, res.Document); err != nil {
			log.Error("store failed", "error", err)
			job.AddError(fmt.Sprintf("store: %s", err))
			hadErrors = true
		}
	}

	if hadErrors {
		job.SetStatus(StatusPartial, "done")
	} else {
		job.SetStatus(StatusCompleted, "done")
	}
}

// Extract opens data and processes it synchronously. Open failures are
// reported as model.ErrSourceUnavailable.
func Extract(ctx context.Context, open Opener, processor *Processor, filename string, data []byte) (*Result, error) {
	src, err := open(filename, data)
	if err != nil {
		if !errors.Is(err, model.ErrSourceUnavailable) {
			err = fmt.Errorf("%w: %w", model.ErrSourceUnavailable, err)
		}
		return nil, err
	}
	defer src.Close()
	return processor.ProcessDocument(ctx, src, nil)
}
