//go:build integration

package mdtoc_test

// Notes:
// - Runs the full pipeline with headless Chrome (go-rod downloads Chromium
//   on first run if ROD_BROWSER_BIN is unset). Set ROD_NO_SANDBOX=1 in
//   containers.
// - A shared pool is created in TestMain and closed after all tests.
// - We check observable output: PDF magic bytes, resolved page numbers and
//   bookmarks. Exact layout depends on the Chrome version.

import (
	"bytes"
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/pagemark/mdtoc"
)

const testTimeout = 60 * time.Second

var testPool *mdtoc.ConverterPool

func TestMain(m *testing.M) {
	testPool = mdtoc.NewConverterPool(min(mdtoc.ResolvePoolSize(0), 2),
		mdtoc.WithTOC(mdtoc.TOCOptions{
			ListStyle:   mdtoc.ListStyleDecimal,
			PageNumbers: &mdtoc.PageNumberOptions{Leader: mdtoc.LeaderDots},
			Outline:     true,
		}),
		mdtoc.WithTimeout(testTimeout),
	)

	code := m.Run()
	testPool.Close()
	os.Exit(code)
}

func acquireConverter(t *testing.T) *mdtoc.Converter {
	t.Helper()
	conv := testPool.Acquire()
	if conv == nil {
		t.Fatalf("Acquire() failed: %v", testPool.InitErr())
	}
	t.Cleanup(func() { testPool.Release(conv) })
	return conv
}

// longDocument puts each chapter on its own page.
func longDocument() string {
	var b strings.Builder
	b.WriteString("# Handbook\n\n[TOC]\n\n")
	for _, chapter := range []string{"Getting Started", "Configuration", "Troubleshooting"} {
		b.WriteString("<div style=\"page-break-before: always\"></div>\n\n")
		b.WriteString("## " + chapter + "\n\n")
		b.WriteString(strings.Repeat("Some paragraph text. ", 40) + "\n\n")
	}
	return b.String()
}

func TestConvert_Integration_PageNumbers(t *testing.T) {
	t.Parallel()

	conv := acquireConverter(t)
	ctx, cancel := context.WithTimeout(context.Background(), 2*testTimeout)
	defer cancel()

	res, err := conv.Convert(ctx, mdtoc.Input{Markdown: longDocument()})
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}

	if !bytes.HasPrefix(res.PDF, []byte("%PDF-")) {
		t.Fatalf("output is not a PDF, prefix %q", res.PDF[:min(8, len(res.PDF))])
	}
	if res.Passes != 2 {
		t.Errorf("Passes = %d, want 2", res.Passes)
	}
	if len(res.Unresolved) != 0 {
		t.Errorf("Unresolved = %v, want none", res.Unresolved)
	}

	prev := 0
	for _, anchor := range []string{"getting-started", "configuration", "troubleshooting"} {
		page, ok := res.Pages[anchor]
		if !ok {
			t.Errorf("Pages missing %q: %v", anchor, res.Pages)
			continue
		}
		if page <= prev {
			t.Errorf("page for %q = %d, want after %d", anchor, page, prev)
		}
		prev = page
	}

	bookmarks, err := api.Bookmarks(bytes.NewReader(res.PDF), nil)
	if err != nil {
		t.Fatalf("reading bookmarks: %v", err)
	}
	if len(bookmarks) == 0 {
		t.Error("expected PDF bookmarks")
	}
}

func TestConvert_Integration_HTMLOnly(t *testing.T) {
	t.Parallel()

	conv := acquireConverter(t)
	res, err := conv.Convert(context.Background(), mdtoc.Input{Markdown: longDocument(), HTMLOnly: true})
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	if res.PDF != nil {
		t.Error("PDF should be nil for HTML only")
	}
	if res.Passes != 1 {
		t.Errorf("Passes = %d, want 1", res.Passes)
	}
	if !strings.Contains(string(res.HTML), `href="#configuration"`) {
		t.Error("HTML should link to the configuration heading")
	}
}
