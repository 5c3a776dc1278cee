package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Manvithareddyk/PDF-Parser-and-JSON-Extraction/internal/layout"
	"github.com/Manvithareddyk/PDF-Parser-and-JSON-Extraction/internal/model"
)

// Options configures a Processor.
type Options struct {
	// PageWorkers bounds how many pages are processed at once.
	PageWorkers int

	// FallbackPosition positions the index-th table or image of a page when
	// its source has no geometry. Defaults to layout.StackingPosition.
	FallbackPosition func(index int) float64

	// Charts reads chart rows for images that arrive without data. Optional.
	Charts ChartReader

	// Stats receives per-page latency. Optional.
	Stats *PageStats
}

// Processor turns document sources into documents.
type Processor struct {
	opts Options
	log  *slog.Logger
}

func NewProcessor(opts Options, log *slog.Logger) *Processor {
	if opts.PageWorkers <= 0 {
		opts.PageWorkers = 1
	}
	if opts.FallbackPosition == nil {
		opts.FallbackPosition = layout.StackingPosition
	}
	if log == nil {
		log = slog.Default()
	}
	return &Processor{opts: opts, log: log}
}

// Result is a processed document plus the page-level failures that were
// isolated while producing it.
type Result struct {
	Document   *model.Document
	PageErrors []error
}

// BuildPage merges one page's classified text with its table and chart blocks.
func BuildPage(pageNumber int, words []model.Token, tables, charts []layout.Block) model.Page {
	return model.Page{
		PageNumber: pageNumber,
		Content:    layout.Merge(layout.BuildBlocks(words), tables, charts),
	}
}

// ProcessPage extracts, classifies and merges a single page. Extractor
// failures are returned alongside the page built from whatever succeeded.
func (p *Processor) ProcessPage(ctx context.Context, src PageSource, pageNumber int) (model.Page, []error) {
	start := time.Now()
	log := p.log.With("page", pageNumber)
	var errs []error

	fail := func(extractor string, err error) {
		pe := &model.PageExtractionError{Page: pageNumber, Extractor: extractor, Err: err}
		log.Warn("page extraction failed", "extractor", extractor, "error", err)
		errs = append(errs, pe)
	}

	words, err := extract(src.Words)
	if err != nil {
		fail("words", err)
	}
	rawTables, err := extract(src.Tables)
	if err != nil {
		fail("tables", err)
	}
	rawImages, err := extract(src.Images)
	if err != nil {
		fail("images", err)
	}

	locator, _ := src.(SectionLocator)
	tables := p.tableBlocks(rawTables, locator)
	charts := p.chartBlocks(ctx, rawImages, locator, func(err error) { fail("charts", err) })

	page := BuildPage(pageNumber, words, tables, charts)
	p.opts.Stats.Record(time.Since(start), len(page.Content))
	log.Debug("page processed", "words", len(words), "tables", len(tables), "charts", len(charts), "items", len(page.Content))
	return page, errs
}

// extract calls one extractor, converting a panic from a malformed page into
// an error.
func extract[T any](fn func() ([]T, error)) (out []T, err error) {
	defer func() {
		if r := recover(); r != nil {
			out, err = nil, fmt.Errorf("panic: %v", r)
		}
	}()
	return fn()
}

func (p *Processor) tableBlocks(raw []model.RawTable, locator SectionLocator) []layout.Block {
	var blocks []layout.Block
	for i, t := range raw {
		rows := cleanRows(t.Rows)
		if len(rows) == 0 {
			continue
		}
		pos := p.position(t.Position, i)
		blocks = append(blocks, layout.Block{
			Position: pos,
			Content:  model.NewTable(sectionFor(t.Section, pos, locator), nil, rows),
		})
	}
	return blocks
}

func (p *Processor) chartBlocks(ctx context.Context, raw []model.RawImage, locator SectionLocator, fail func(error)) []layout.Block {
	var blocks []layout.Block
	for i, img := range raw {
		data := img.Data
		if data == nil && p.opts.Charts != nil {
			rows, err := readChart(ctx, p.opts.Charts, img)
			if err != nil {
				fail(fmt.Errorf("image %d: %w", i, err))
			}
			data = rows
		}
		pos := p.position(img.Position, i)
		blocks = append(blocks, layout.Block{
			Position: pos,
			Content:  model.NewChart(sectionFor(img.Section, pos, locator), img.Description, data),
		})
	}
	return blocks
}

// readChart runs the chart reader, converting a panic into an error so a
// broken reader only costs the chart data.
func readChart(ctx context.Context, charts ChartReader, img model.RawImage) (rows [][]string, err error) {
	defer func() {
		if r := recover(); r != nil {
			rows, err = nil, fmt.Errorf("panic: %v", r)
		}
	}()
	return charts.ReadChart(ctx, img)
}

func (p *Processor) position(pos *float64, index int) float64 {
	if pos != nil {
		return *pos
	}
	return p.opts.FallbackPosition(index)
}

func sectionFor(section *string, pos float64, locator SectionLocator) *string {
	if section != nil || locator == nil {
		return section
	}
	return locator.NearestSection(pos)
}

// cleanRows trims every cell and drops rows with no content.
func cleanRows(rows [][]string) [][]string {
	var out [][]string
	for _, row := range rows {
		cleaned := make([]string, len(row))
		empty := true
		for i, cell := range row {
			cleaned[i] = strings.TrimSpace(cell)
			if cleaned[i] != "" {
				empty = false
			}
		}
		if !empty {
			out = append(out, cleaned)
		}
	}
	return out
}

// ProcessDocument processes every page, in parallel up to PageWorkers, and
// reassembles them in page order. When ctx is cancelled no further pages are
// started; the result holds the leading run of finished pages, so it never
// skips a page number, and the context error is returned with it.
// progress, if set, is called after each page.
func (p *Processor) ProcessDocument(ctx context.Context, doc DocumentSource, progress func(pageNumber int)) (*Result, error) {
	n := doc.NumPages()
	pages := make([]*model.Page, n)
	pageErrs := make([][]error, n)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.opts.PageWorkers)

	for i := 1; i <= n; i++ {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			page, errs := p.processNumbered(gctx, doc, i)
			pages[i-1] = &page
			pageErrs[i-1] = errs
			if progress != nil {
				progress(i)
			}
			return nil
		})
	}
	err := g.Wait()
	if err == nil {
		err = ctx.Err()
	}

	res := assemble(pages, pageErrs)
	if err != nil {
		return res, fmt.Errorf("process document: %w", err)
	}
	return res, nil
}

// assemble builds the result from per-page slots, stopping at the first page
// that never finished.
func assemble(pages []*model.Page, pageErrs [][]error) *Result {
	res := &Result{Document: &model.Document{Pages: make([]model.Page, 0, len(pages))}}
	for i, page := range pages {
		if page == nil {
			break
		}
		res.Document.Pages = append(res.Document.Pages, *page)
		res.PageErrors = append(res.PageErrors, pageErrs[i]...)
	}
	return res
}

func (p *Processor) processNumbered(ctx context.Context, doc DocumentSource, number int) (page model.Page, errs []error) {
	defer func() {
		if r := recover(); r != nil {
			err := &model.PageExtractionError{Page: number, Extractor: "page", Err: fmt.Errorf("panic: %v", r)}
			p.log.Error("page failed", "page", number, "error", err)
			page, errs = model.Page{PageNumber: number}, append(errs, err)
		}
	}()

	src, err := doc.Page(number)
	if err != nil {
		pe := &model.PageExtractionError{Page: number, Extractor: "page", Err: err}
		p.log.Warn("page unavailable", "page", number, "error", err)
		return model.Page{PageNumber: number}, []error{pe}
	}
	return p.ProcessPage(ctx, src, number)
}

// IsPageError reports whether err is an isolated page extraction failure.
func IsPageError(err error) bool {
	var pe *model.PageExtractionError
	return errors.As(err, &pe)
}
