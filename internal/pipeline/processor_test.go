package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Manvithareddyk/PDF-Parser-and-JSON-Extraction/internal/layout"
	"github.com/Manvithareddyk/PDF-Parser-and-JSON-Extraction/internal/model"
)

func TestBuildPage(t *testing.T) {
	t.Run("Should interleave classified text with tables and charts", func(t *testing.T) {
		words := []model.Token{
			{Text: "Introduction", Top: 700, X0: 50, Size: 16},
			{Text: "Body", Top: 650, X0: 50, Size: 11},
			{Text: "text.", Top: 650, X0: 80, Size: 11},
			{Text: "Closing", Top: 300, X0: 50, Size: 11},
		}
		tables := []layout.Block{{Position: 500, Content: model.NewTable(nil, nil, [][]string{{"a"}})}}
		charts := []layout.Block{{Position: 400, Content: model.NewChart(nil, model.String("Trend"), nil)}}

		page := BuildPage(3, words, tables, charts)

		assert.Equal(t, 3, page.PageNumber)
		require.Len(t, page.Content, 4)
		assert.Equal(t, "Body text.", page.Content[0].Text)
		assert.Equal(t, "Introduction", *page.Content[0].Section)
		assert.Equal(t, model.TypeTable, page.Content[1].Type)
		assert.Equal(t, model.TypeChart, page.Content[2].Type)
		assert.Equal(t, "Closing", page.Content[3].Text)
	})
}

func TestProcessor_ProcessPage(t *testing.T) {
	ctx := context.Background()

	t.Run("Should isolate a failing extractor", func(t *testing.T) {
		src := textPage("Still here.")
		src.tablesErr = errors.New("bad table")
		src.images = []model.RawImage{{Position: model.Float(100)}}

		page, errs := NewProcessor(Options{}, nil).ProcessPage(ctx, src, 2)

		require.Len(t, errs, 1)
		var pe *model.PageExtractionError
		require.ErrorAs(t, errs[0], &pe)
		assert.Equal(t, 2, pe.Page)
		assert.Equal(t, "tables", pe.Extractor)
		assert.True(t, IsPageError(errs[0]))

		require.Len(t, page.Content, 2)
		assert.Equal(t, "Still here.", page.Content[0].Text)
		assert.Equal(t, model.TypeChart, page.Content[1].Type)
	})

	t.Run("Should recover from a panicking extractor", func(t *testing.T) {
		src := &fakePage{
			panicOn: "words",
			tables:  []model.RawTable{{Rows: [][]string{{"x"}}, Position: model.Float(10)}},
		}

		page, errs := NewProcessor(Options{}, nil).ProcessPage(ctx, src, 1)

		require.Len(t, errs, 1)
		assert.Contains(t, errs[0].Error(), "panic")
		require.Len(t, page.Content, 1)
		assert.Equal(t, model.TypeTable, page.Content[0].Type)
	})

	t.Run("Should stack items without geometry at synthetic positions", func(t *testing.T) {
		src := textPage("Top paragraph.")
		src.tables = []model.RawTable{{Rows: [][]string{{"t0"}}}, {Rows: [][]string{{"t1"}}}}
		src.images = []model.RawImage{{Description: model.String("c0")}}

		page, errs := NewProcessor(Options{}, nil).ProcessPage(ctx, src, 1)
		require.Empty(t, errs)

		require.Len(t, page.Content, 4)
		assert.Equal(t, "Top paragraph.", page.Content[0].Text)
		assert.Equal(t, [][]string{{"t0"}}, page.Content[1].TableData)
		assert.Equal(t, "c0", *page.Content[2].Description)
		assert.Equal(t, [][]string{{"t1"}}, page.Content[3].TableData)
	})

	t.Run("Should use a custom fallback position", func(t *testing.T) {
		src := textPage("Middle.")
		src.tables = []model.RawTable{{Rows: [][]string{{"low"}}}}

		opts := Options{FallbackPosition: func(int) float64 { return 0 }}
		page, _ := NewProcessor(opts, nil).ProcessPage(ctx, src, 1)

		require.Len(t, page.Content, 2)
		assert.Equal(t, model.TypeParagraph, page.Content[0].Type)
		assert.Equal(t, model.TypeTable, page.Content[1].Type)
	})

	t.Run("Should clean table rows and drop empty tables", func(t *testing.T) {
		src := &fakePage{tables: []model.RawTable{
			{Rows: [][]string{{" a ", "b"}, {"", "  "}, {"c", ""}}, Position: model.Float(20)},
			{Rows: [][]string{{" ", ""}}, Position: model.Float(10)},
		}}

		page, _ := NewProcessor(Options{}, nil).ProcessPage(ctx, src, 1)

		require.Len(t, page.Content, 1)
		assert.Equal(t, [][]string{{"a", "b"}, {"c", ""}}, page.Content[0].TableData)
	})

	t.Run("Should take sections from the source or its locator", func(t *testing.T) {
		base := &fakePage{
			tables: []model.RawTable{
				{Rows: [][]string{{"own"}}, Position: model.Float(20), Section: model.String("Given")},
				{Rows: [][]string{{"located"}}, Position: model.Float(10)},
			},
		}

		page, _ := NewProcessor(Options{}, nil).ProcessPage(ctx, base, 1)
		require.Len(t, page.Content, 2)
		assert.Equal(t, "Given", *page.Content[0].Section)
		assert.Nil(t, page.Content[1].Section)

		page, _ = NewProcessor(Options{}, nil).ProcessPage(ctx, locatingPage{fakePage: base, section: "Nearby"}, 1)
		require.Len(t, page.Content, 2)
		assert.Equal(t, "Given", *page.Content[0].Section)
		assert.Equal(t, "Nearby", *page.Content[1].Section)
	})

	t.Run("Should read chart data for images without it", func(t *testing.T) {
		src := &fakePage{images: []model.RawImage{
			{Position: model.Float(30)},
			{Position: model.Float(20), Data: [][]string{{"given"}}},
		}}
		opts := Options{Charts: fakeCharts{rows: [][]string{{"Q1", "10"}}}}

		page, errs := NewProcessor(opts, nil).ProcessPage(ctx, src, 1)
		require.Empty(t, errs)
		require.Len(t, page.Content, 2)
		assert.Equal(t, [][]string{{"Q1", "10"}}, page.Content[0].TableData)
		assert.Equal(t, [][]string{{"given"}}, page.Content[1].TableData)
	})

	t.Run("Should keep the chart when reading its data fails", func(t *testing.T) {
		src := &fakePage{images: []model.RawImage{{Position: model.Float(30)}}}
		opts := Options{Charts: fakeCharts{err: errors.New("ocr down")}}

		page, errs := NewProcessor(opts, nil).ProcessPage(ctx, src, 4)
		require.Len(t, errs, 1)
		var pe *model.PageExtractionError
		require.ErrorAs(t, errs[0], &pe)
		assert.Equal(t, "charts", pe.Extractor)
		require.Len(t, page.Content, 1)
		assert.Empty(t, page.Content[0].TableData)
	})

	t.Run("Should keep the page text when the chart reader panics", func(t *testing.T) {
		src := textPage("Survives.")
		src.images = []model.RawImage{{Position: model.Float(30)}}
		opts := Options{Charts: fakeCharts{panics: true}}

		page, errs := NewProcessor(opts, nil).ProcessPage(ctx, src, 1)
		require.Len(t, errs, 1)
		var pe *model.PageExtractionError
		require.ErrorAs(t, errs[0], &pe)
		assert.Equal(t, "charts", pe.Extractor)
		assert.Contains(t, pe.Error(), "ocr crash")

		require.Len(t, page.Content, 2)
		assert.Equal(t, "Survives.", page.Content[0].Text)
		assert.Equal(t, model.TypeChart, page.Content[1].Type)
		assert.Nil(t, page.Content[1].TableData)
	})

	t.Run("Should record page latency", func(t *testing.T) {
		stats := NewPageStats(time.Hour)
		_, _ = NewProcessor(Options{Stats: stats}, nil).ProcessPage(ctx, textPage("One."), 1)

		snap := stats.Snapshot()
		assert.Equal(t, 1, snap.Pages)
		assert.Equal(t, 1, snap.Items)
	})
}

func TestProcessor_ProcessDocument(t *testing.T) {
	t.Run("Should keep page order under parallel processing", func(t *testing.T) {
		doc := &fakeDoc{}
		for i := 1; i <= 8; i++ {
			p := textPage(fmt.Sprintf("Page %d body.", i))
			p.delay = time.Duration(8-i) * time.Millisecond
			doc.pages = append(doc.pages, p)
		}
		var calls atomic.Int32

		res, err := NewProcessor(Options{PageWorkers: 4}, nil).ProcessDocument(context.Background(), doc, func(int) { calls.Add(1) })
		require.NoError(t, err)

		require.Len(t, res.Document.Pages, 8)
		for i, page := range res.Document.Pages {
			assert.Equal(t, i+1, page.PageNumber)
			require.Len(t, page.Content, 1)
			assert.Equal(t, fmt.Sprintf("Page %d body.", i+1), page.Content[0].Text)
		}
		assert.Equal(t, int32(8), calls.Load())
		assert.Empty(t, res.PageErrors)
	})

	t.Run("Should keep a page that cannot be opened as an empty page", func(t *testing.T) {
		doc := &fakeDoc{
			pages:   []PageSource{textPage("First."), nil, textPage("Third.")},
			pageErr: map[int]error{2: errors.New("missing page object")},
		}

		res, err := NewProcessor(Options{PageWorkers: 2}, nil).ProcessDocument(context.Background(), doc, nil)
		require.NoError(t, err)

		require.Len(t, res.Document.Pages, 3)
		assert.Empty(t, res.Document.Pages[1].Content)
		assert.Equal(t, 2, res.Document.Pages[1].PageNumber)
		require.Len(t, res.PageErrors, 1)
		assert.True(t, IsPageError(res.PageErrors[0]))
	})

	t.Run("Should return no pages for an empty document", func(t *testing.T) {
		res, err := NewProcessor(Options{}, nil).ProcessDocument(context.Background(), &fakeDoc{}, nil)
		require.NoError(t, err)
		assert.NotNil(t, res.Document.Pages)
		assert.Empty(t, res.Document.Pages)
	})

	t.Run("Should stop on cancellation and report the context error", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		doc := &fakeDoc{pages: []PageSource{textPage("A."), textPage("B.")}}

		res, err := NewProcessor(Options{}, nil).ProcessDocument(ctx, doc, nil)
		require.Error(t, err)
		assert.ErrorIs(t, err, context.Canceled)
		require.NotNil(t, res)
		assert.Empty(t, res.Document.Pages)
	})
}

func TestAssemble(t *testing.T) {
	t.Run("Should stop at the first unfinished page", func(t *testing.T) {
		p1, p3 := model.Page{PageNumber: 1}, model.Page{PageNumber: 3}
		e1 := errors.New("page 1 warning")
		e3 := errors.New("page 3 warning")

		res := assemble([]*model.Page{&p1, nil, &p3}, [][]error{{e1}, nil, {e3}})

		require.Len(t, res.Document.Pages, 1)
		assert.Equal(t, 1, res.Document.Pages[0].PageNumber)
		assert.Equal(t, []error{e1}, res.PageErrors)
	})

	t.Run("Should keep every page when all finished", func(t *testing.T) {
		p1, p2 := model.Page{PageNumber: 1}, model.Page{PageNumber: 2}

		res := assemble([]*model.Page{&p1, &p2}, make([][]error, 2))

		require.Len(t, res.Document.Pages, 2)
		assert.Equal(t, 2, res.Document.Pages[1].PageNumber)
		assert.Empty(t, res.PageErrors)
	})
}
