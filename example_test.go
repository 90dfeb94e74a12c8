package mdtoc_test

import (
	"context"
	"fmt"
	"strings"

	"github.com/pagemark/mdtoc"
)

// Example writes a table of contents at the [TOC] placeholder.
// HTMLOnly skips rendering, so no browser is needed; for a PDF leave it
// unset.
func Example() {
	conv, err := mdtoc.NewConverter()
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	defer conv.Close()

	result, err := conv.Convert(context.Background(), mdtoc.Input{
		Markdown: "# Guide\n\n[TOC]\n\n## Install\n\n## Usage\n",
		HTMLOnly: true,
	})
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	html := string(result.HTML)
	start := strings.Index(html, "<nav")
	end := strings.Index(html, "</nav>") + len("</nav>")
	fmt.Println(html[start:end])
	// Output:
	// <nav class="table-of-contents">
	// <ol>
	// <li><a href="#guide">Guide</a>
	// <ol>
	// <li><a href="#install">Install</a></li>
	// <li><a href="#usage">Usage</a>
	// </li>
	// </ol>
	// </li>
	// </ol>
	// </nav>
}

// Example_pageNumbers enables page numbers. A document with a placeholder is
// then rendered twice: once to find where each heading lands and once with
// the numbers printed.
func Example_pageNumbers() {
	conv, err := mdtoc.NewConverter(
		mdtoc.WithTOC(mdtoc.TOCOptions{
			ListStyle:     mdtoc.ListStyleDecimal,
			MinDepthLevel: 2,
			MaxDepthLevel: 3,
			PageNumbers:   &mdtoc.PageNumberOptions{Leader: mdtoc.LeaderDots},
			Outline:       true,
		}),
		mdtoc.WithPage(&mdtoc.PageSettings{
			Size:        mdtoc.PageSizeA4,
			Orientation: mdtoc.OrientationPortrait,
			Margin:      1,
		}),
	)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	defer conv.Close()

	fmt.Println("converter ready")
	// Output: converter ready
}

// Example_extension adds a stage that appends a footer on every pass.
func Example_extension() {
	footer := func(conv *mdtoc.Conversion) mdtoc.Stages {
		return mdtoc.Stages{
			Name: "footer",
			Markdown: func(_ context.Context, in mdtoc.MarkdownInput) (string, error) {
				return in.Markdown + "\n---\n\nGenerated from " + conv.Input.Name + "\n", nil
			},
		}
	}

	conv, err := mdtoc.NewConverter(mdtoc.WithExtension(footer))
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	defer conv.Close()

	result, err := conv.Convert(context.Background(), mdtoc.Input{
		Markdown: "# Notes\n",
		Name:     "notes.md",
		HTMLOnly: true,
	})
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	fmt.Println(strings.Contains(string(result.HTML), "<p>Generated from notes.md</p>"))
	// Output: true
}

// ExampleConverterPool converts documents in parallel, one browser per
// converter.
func ExampleConverterPool() {
	pool := mdtoc.NewConverterPool(mdtoc.ResolvePoolSize(0))
	defer pool.Close()

	conv := pool.Acquire()
	if conv == nil {
		fmt.Println("error:", pool.InitErr())
		return
	}
	defer pool.Release(conv)

	result, err := conv.Convert(context.Background(), mdtoc.Input{
		Markdown: "# Report\n",
		HTMLOnly: true,
	})
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Println(strings.Contains(string(result.HTML), "<title>Report</title>"))
	// Output: true
}
