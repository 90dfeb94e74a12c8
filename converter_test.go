package mdtoc_test

// Notes:
// - Tests Converter.Convert with a mocked Renderer and TextExtractor so no
//   browser is needed; the end-to-end case feeds a generated PDF through the
//   real text extractor and outline writer
// - The two pass cases check that pass 2 prints the pages resolved from the
//   pass 1 text, including the fallback for a heading never found
// - Stage errors must stay reachable through both ErrStage and the cause

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"
	"testing"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"go.uber.org/mock/gomock"

	"github.com/pagemark/mdtoc"
	"github.com/pagemark/mdtoc/internal/pdftest"
	"github.com/pagemark/mdtoc/internal/pdftext"
	"github.com/pagemark/mdtoc/mocks"
)

func init() {
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

const guideDoc = "# Guide\n\n[TOC]\n\n## Intro\n\ntext\n\n## Details\n\ntext\n\n## Appendix\n"

// newConverter builds a Converter around the given mocks.
func newConverter(t *testing.T, r mdtoc.Renderer, e mdtoc.TextExtractor, opts ...mdtoc.Option) *mdtoc.Converter {
	t.Helper()

	opts = append([]mdtoc.Option{mdtoc.WithRenderer(r), mdtoc.WithTextExtractor(e)}, opts...)
	conv, err := mdtoc.NewConverter(opts...)
	if err != nil {
		t.Fatalf("NewConverter() error = %v", err)
	}
	t.Cleanup(func() { _ = conv.Close() })
	return conv
}

// ---------------------------------------------------------------------------
// TestConvert_Passes - Render Pass Count
// ---------------------------------------------------------------------------

func TestConvert_SinglePassWithoutPlaceholder(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	renderer := mocks.NewMockRenderer(ctrl)
	extractor := mocks.NewMockTextExtractor(ctrl)

	renderer.EXPECT().RenderPDF(gomock.Any(), gomock.Any(), gomock.Any()).Return([]byte("%PDF-1"), nil).Times(1)
	renderer.EXPECT().Close().Return(nil)

	conv := newConverter(t, renderer, extractor,
		mdtoc.WithTOC(mdtoc.TOCOptions{PageNumbers: &mdtoc.PageNumberOptions{}}))

	res, err := conv.Convert(context.Background(), mdtoc.Input{Markdown: "# One\n\n## Two\n"})
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	if res.Passes != 1 {
		t.Errorf("Passes = %d, want 1", res.Passes)
	}
	if string(res.PDF) != "%PDF-1" {
		t.Errorf("PDF = %q", res.PDF)
	}
	if strings.Contains(string(res.HTML), "table-of-contents\">") {
		t.Error("HTML has a TOC without a placeholder")
	}
}

func TestConvert_SinglePassPlainLinks(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	renderer := mocks.NewMockRenderer(ctrl)
	extractor := mocks.NewMockTextExtractor(ctrl)

	renderer.EXPECT().RenderPDF(gomock.Any(), gomock.Any(), gomock.Any()).Return([]byte("%PDF-1"), nil).Times(1)
	renderer.EXPECT().Close().Return(nil)

	conv := newConverter(t, renderer, extractor)

	res, err := conv.Convert(context.Background(), mdtoc.Input{Markdown: guideDoc})
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	if res.Passes != 1 {
		t.Errorf("Passes = %d, want 1", res.Passes)
	}
	if !strings.Contains(string(res.HTML), `<a href="#details">Details</a>`) {
		t.Errorf("HTML missing plain TOC entry:\n%s", res.HTML)
	}
}

func TestConvert_TwoPassesWithPageNumbers(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	renderer := mocks.NewMockRenderer(ctrl)
	extractor := mocks.NewMockTextExtractor(ctrl)

	var rendered []string
	renderer.EXPECT().RenderPDF(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, html string, page *mdtoc.PageSettings) ([]byte, error) {
			if page == nil || page.Size != mdtoc.PageSizeA4 {
				t.Errorf("page = %+v, want a4", page)
			}
			rendered = append(rendered, html)
			return []byte("%PDF-" + string(rune('0'+len(rendered)))), nil
		}).Times(2)
	renderer.EXPECT().Close().Return(nil)

	// Only the first render is inspected.
	extractor.EXPECT().ExtractPages([]byte("%PDF-1")).
		Return([]string{"Intro0\nDetails0\nAppendix0\nIntro", "body", "Details"}, nil).Times(1)

	conv := newConverter(t, renderer, extractor,
		mdtoc.WithTOC(mdtoc.TOCOptions{MinDepthLevel: 2, PageNumbers: &mdtoc.PageNumberOptions{}}))

	res, err := conv.Convert(context.Background(), mdtoc.Input{
		Markdown: guideDoc,
		Page:     &mdtoc.PageSettings{Size: mdtoc.PageSizeA4, Orientation: mdtoc.OrientationPortrait, Margin: 1},
	})
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}

	if res.Passes != 2 {
		t.Errorf("Passes = %d, want 2", res.Passes)
	}
	if string(res.PDF) != "%PDF-2" {
		t.Errorf("PDF = %q, want the second render", res.PDF)
	}
	if !slices.Equal(res.Unresolved, []string{"Appendix"}) {
		t.Errorf("Unresolved = %v, want [Appendix]", res.Unresolved)
	}
	if res.Pages["intro"] != 1 || res.Pages["details"] != 3 {
		t.Errorf("Pages = %v", res.Pages)
	}

	if !strings.Contains(rendered[0], `<span class="title">Intro</span><span class="page-number">0</span>`) {
		t.Error("pass 1 should print placeholder page numbers")
	}
	for _, want := range []string{
		`<span class="title">Intro</span><span class="page-number">1</span>`,
		`<span class="title">Details</span><span class="page-number">3</span>`,
		`<span class="title">Appendix</span><span class="page-number">3</span>`,
	} {
		if !strings.Contains(rendered[1], want) {
			t.Errorf("pass 2 HTML missing %q", want)
		}
	}
	if string(res.HTML) != rendered[1] {
		t.Error("Result.HTML is not the final render")
	}
}

func TestConvert_HTMLOnly(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	renderer := mocks.NewMockRenderer(ctrl)
	extractor := mocks.NewMockTextExtractor(ctrl)
	renderer.EXPECT().Close().Return(nil)

	conv := newConverter(t, renderer, extractor,
		mdtoc.WithTOC(mdtoc.TOCOptions{PageNumbers: &mdtoc.PageNumberOptions{}}),
		mdtoc.WithLang("de"))

	res, err := conv.Convert(context.Background(), mdtoc.Input{
		Markdown: guideDoc,
		CSS:      "body { color: red; }",
		HTMLOnly: true,
	})
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	if res.PDF != nil || res.Passes != 0 {
		t.Errorf("PDF = %v, Passes = %d, want nothing rendered", res.PDF, res.Passes)
	}

	html := string(res.HTML)
	for _, want := range []string{
		`lang="de"`,
		"<title>Guide</title>",
		`<a href="#intro">Intro</a>`,
		"body { color: red; }",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("HTML missing %q", want)
		}
	}
	if strings.Contains(html, `class="page-number"`) {
		t.Error("preview HTML should not carry page numbers")
	}
}

// ---------------------------------------------------------------------------
// TestConvert_Errors - Error Propagation
// ---------------------------------------------------------------------------

func TestConvert_Errors(t *testing.T) {
	t.Parallel()

	pageNumbers := mdtoc.WithTOC(mdtoc.TOCOptions{PageNumbers: &mdtoc.PageNumberOptions{}})
	outline := mdtoc.WithTOC(mdtoc.TOCOptions{Outline: true})

	tests := []struct {
		name     string
		opt      mdtoc.Option
		input    mdtoc.Input
		setup    func(r *mocks.MockRenderer, e *mocks.MockTextExtractor)
		wantErrs []error
	}{
		{
			name:     "empty markdown",
			opt:      pageNumbers,
			input:    mdtoc.Input{},
			setup:    func(*mocks.MockRenderer, *mocks.MockTextExtractor) {},
			wantErrs: []error{mdtoc.ErrEmptyMarkdown},
		},
		{
			name:     "invalid page settings",
			opt:      pageNumbers,
			input:    mdtoc.Input{Markdown: guideDoc, Page: &mdtoc.PageSettings{Size: "b5"}},
			setup:    func(*mocks.MockRenderer, *mocks.MockTextExtractor) {},
			wantErrs: []error{mdtoc.ErrInvalidPageSize},
		},
		{
			name:  "renderer fails",
			opt:   pageNumbers,
			input: mdtoc.Input{Markdown: guideDoc},
			setup: func(r *mocks.MockRenderer, _ *mocks.MockTextExtractor) {
				r.EXPECT().RenderPDF(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil, mdtoc.ErrPDFGeneration)
			},
			wantErrs: []error{mdtoc.ErrPDFGeneration},
		},
		{
			name:  "page text extraction fails",
			opt:   pageNumbers,
			input: mdtoc.Input{Markdown: guideDoc},
			setup: func(r *mocks.MockRenderer, e *mocks.MockTextExtractor) {
				r.EXPECT().RenderPDF(gomock.Any(), gomock.Any(), gomock.Any()).Return([]byte("%PDF"), nil)
				e.EXPECT().ExtractPages(gomock.Any()).Return(nil, errors.New("malformed xref"))
			},
			wantErrs: []error{mdtoc.ErrStage, mdtoc.ErrPageText},
		},
		{
			name:  "outline on a broken PDF",
			opt:   outline,
			input: mdtoc.Input{Markdown: guideDoc},
			setup: func(r *mocks.MockRenderer, e *mocks.MockTextExtractor) {
				r.EXPECT().RenderPDF(gomock.Any(), gomock.Any(), gomock.Any()).Return([]byte("not a pdf"), nil)
				e.EXPECT().ExtractPages(gomock.Any()).Return([]string{"Guide\nIntro"}, nil)
			},
			wantErrs: []error{mdtoc.ErrStage, mdtoc.ErrOutline},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			renderer := mocks.NewMockRenderer(ctrl)
			extractor := mocks.NewMockTextExtractor(ctrl)
			renderer.EXPECT().Close().Return(nil)
			tt.setup(renderer, extractor)

			conv := newConverter(t, renderer, extractor, tt.opt)

			res, err := conv.Convert(context.Background(), tt.input)
			if err == nil {
				t.Fatalf("Convert() = %+v, want error", res)
			}
			for _, want := range tt.wantErrs {
				if !errors.Is(err, want) {
					t.Errorf("Convert() error = %v, want %v", err, want)
				}
			}
		})
	}
}

func TestConvert_CanceledContext(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	renderer := mocks.NewMockRenderer(ctrl)
	renderer.EXPECT().Close().Return(nil)
	conv := newConverter(t, renderer, mocks.NewMockTextExtractor(ctrl))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := conv.Convert(ctx, mdtoc.Input{Markdown: guideDoc}); !errors.Is(err, context.Canceled) {
		t.Errorf("Convert() error = %v, want context.Canceled", err)
	}
}

// ---------------------------------------------------------------------------
// TestConvert_Extension - User Stages
// ---------------------------------------------------------------------------

// passRecorder is an extension that records the passes it sees and always
// asks for another render.
type passRecorder struct {
	instances int
	markdown  []int
	render    []int
}

func (p *passRecorder) extension(conv *mdtoc.Conversion) mdtoc.Stages {
	p.instances++
	return mdtoc.Stages{
		Name: "recorder",
		Markdown: func(_ context.Context, in mdtoc.MarkdownInput) (string, error) {
			p.markdown = append(p.markdown, in.Pass)
			return in.Markdown + "\nfooter\n", nil
		},
		Model: func(_ context.Context, m mdtoc.TemplateModel) (mdtoc.TemplateModel, error) {
			if phase, _ := conv.Phase(); phase != mdtoc.PhaseRendering {
				return nil, fmt.Errorf("model stage in phase %s", phase)
			}
			return m, nil
		},
		Render: func(_ context.Context, r *mdtoc.Rendering) (mdtoc.RenderOutcome, error) {
			p.render = append(p.render, r.Pass)
			return mdtoc.RenderOutcome{NeedsSecondPass: true}, nil
		},
	}
}

func TestConvert_Extension(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	renderer := mocks.NewMockRenderer(ctrl)
	extractor := mocks.NewMockTextExtractor(ctrl)

	renderer.EXPECT().RenderPDF(gomock.Any(), gomock.Any(), gomock.Any()).Return([]byte("%PDF"), nil).Times(4)
	renderer.EXPECT().Close().Return(nil)

	rec := &passRecorder{}
	conv := newConverter(t, renderer, extractor, mdtoc.WithExtension(rec.extension))

	for range 2 {
		res, err := conv.Convert(context.Background(), mdtoc.Input{Markdown: "# Title\n"})
		if err != nil {
			t.Fatalf("Convert() error = %v", err)
		}
		if res.Passes != 2 {
			t.Errorf("Passes = %d, want 2 (a request after pass 2 is ignored)", res.Passes)
		}
		if !strings.Contains(string(res.HTML), "<p>footer</p>") {
			t.Error("markdown stage output missing from HTML")
		}
	}

	if rec.instances != 2 {
		t.Errorf("extension instantiated %d times, want once per Convert", rec.instances)
	}
	if want := []int{1, 2, 1, 2}; !slices.Equal(rec.markdown, want) || !slices.Equal(rec.render, want) {
		t.Errorf("passes seen: markdown %v, render %v, want %v", rec.markdown, rec.render, want)
	}
}

func TestConvert_ExtensionError(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	renderer := mocks.NewMockRenderer(ctrl)
	renderer.EXPECT().Close().Return(nil)

	cause := errors.New("boom")
	failing := func(*mdtoc.Conversion) mdtoc.Stages {
		return mdtoc.Stages{
			Name: "failing",
			Markdown: func(context.Context, mdtoc.MarkdownInput) (string, error) {
				return "", cause
			},
		}
	}
	conv := newConverter(t, renderer, mocks.NewMockTextExtractor(ctrl), mdtoc.WithExtension(failing))

	_, err := conv.Convert(context.Background(), mdtoc.Input{Markdown: "# Title\n"})
	if !errors.Is(err, mdtoc.ErrStage) || !errors.Is(err, cause) {
		t.Errorf("Convert() error = %v, want ErrStage wrapping cause", err)
	}
	if !strings.Contains(err.Error(), "failing") {
		t.Errorf("error %q does not name the stage", err)
	}
}

// ---------------------------------------------------------------------------
// TestConvert_EndToEnd - Generated PDF Through Real Extraction
// ---------------------------------------------------------------------------

func TestConvert_EndToEndOutline(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	renderer := mocks.NewMockRenderer(ctrl)
	renderer.EXPECT().Close().Return(nil)

	// Pass 1 and 2 lay out the same: TOC on page 1, sections after.
	renderer.EXPECT().RenderPDF(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, string, *mdtoc.PageSettings) ([]byte, error) {
			return pdftest.Build(
				[]string{"Guide", "Intro 2", "Details 3", "Appendix 3"},
				[]string{"Intro", "text"},
				[]string{"Details", "text", "Appendix"},
			), nil
		}).Times(2)

	conv, err := mdtoc.NewConverter(
		mdtoc.WithRenderer(renderer),
		mdtoc.WithTextExtractor(pdftext.Extractor{}),
		mdtoc.WithTOC(mdtoc.TOCOptions{
			MinDepthLevel: 2,
			PageNumbers:   &mdtoc.PageNumberOptions{Leader: mdtoc.LeaderNone},
			Outline:       true,
		}),
	)
	if err != nil {
		t.Fatalf("NewConverter() error = %v", err)
	}
	defer conv.Close()

	res, err := conv.Convert(context.Background(), mdtoc.Input{Markdown: guideDoc})
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	if len(res.Unresolved) != 0 {
		t.Errorf("Unresolved = %v, want none", res.Unresolved)
	}
	if res.Pages["intro"] != 2 || res.Pages["details"] != 3 || res.Pages["appendix"] != 3 {
		t.Errorf("Pages = %v", res.Pages)
	}

	bookmarks, err := api.Bookmarks(bytes.NewReader(res.PDF), nil)
	if err != nil {
		t.Fatalf("reading bookmarks: %v", err)
	}
	var got []string
	for _, b := range bookmarks {
		got = append(got, fmt.Sprintf("%s@%d", b.Title, b.PageFrom))
	}
	if want := []string{"Intro@2", "Details@3", "Appendix@3"}; !slices.Equal(got, want) {
		t.Errorf("bookmarks = %v, want %v", got, want)
	}
}

// ---------------------------------------------------------------------------
// TestNewConverter - Option Validation
// ---------------------------------------------------------------------------

func TestNewConverter_InvalidOptions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		opt     mdtoc.Option
		wantErr error
	}{
		{"depth range", mdtoc.WithTOC(mdtoc.TOCOptions{MinDepthLevel: 5, MaxDepthLevel: 2}), mdtoc.ErrInvalidTOCDepth},
		{"list style", mdtoc.WithTOC(mdtoc.TOCOptions{ListStyle: "roman"}), mdtoc.ErrInvalidListStyle},
		{"leader", mdtoc.WithTOC(mdtoc.TOCOptions{PageNumbers: &mdtoc.PageNumberOptions{Leader: "stars"}}), mdtoc.ErrInvalidLeader},
		{"page size", mdtoc.WithPage(&mdtoc.PageSettings{Size: "b5", Orientation: "portrait", Margin: 1}), mdtoc.ErrInvalidPageSize},
		{"margin", mdtoc.WithPage(&mdtoc.PageSettings{Size: "a4", Orientation: "portrait", Margin: 9}), mdtoc.ErrInvalidMargin},
		{"style name", mdtoc.WithStyle("no-such-style"), mdtoc.ErrStyleNotFound},
		{"style name traversal", mdtoc.WithStyle("..evil"), mdtoc.ErrInvalidAssetName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			_, err := mdtoc.NewConverter(mdtoc.WithRenderer(mocks.NewMockRenderer(ctrl)), tt.opt)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("NewConverter() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewConverter_DecimalStyle(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	renderer := mocks.NewMockRenderer(ctrl)
	renderer.EXPECT().Close().Return(nil)

	conv := newConverter(t, renderer, mocks.NewMockTextExtractor(ctrl),
		mdtoc.WithTOC(mdtoc.TOCOptions{ListStyle: mdtoc.ListStyleDecimal}))

	res, err := conv.Convert(context.Background(), mdtoc.Input{Markdown: guideDoc, HTMLOnly: true})
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	if !strings.Contains(string(res.HTML), "<ol>") {
		t.Error("decimal style should render ordered lists")
	}
	if !strings.Contains(string(res.HTML), "counter") {
		t.Error("decimal style CSS missing from document")
	}
}
