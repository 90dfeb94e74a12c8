package mdtoc

import (
	"context"

	"github.com/pagemark/mdtoc/internal/pdfoutline"
	"github.com/pagemark/mdtoc/internal/toc"
)

// tocStages is the request-scoped state of the table of contents.
type tocStages struct {
	opts     TOCOptions
	style    string
	conv     *Conversion
	headings []Heading
	placed   bool
}

// tocExtension writes the TOC at placeholders, resolves page numbers after
// the first render and optionally writes the PDF outline. style is the CSS
// contributed to the template model.
func tocExtension(opts TOCOptions, style string) Extension {
	return func(conv *Conversion) Stages {
		t := &tocStages{
			opts:     opts,
			style:    style,
			conv:     conv,
			headings: conv.Headings(conv.Markdown, opts.MinDepthLevel, opts.MaxDepthLevel),
		}
		return Stages{
			Name:     "toc",
			Markdown: t.insert,
			Model:    t.model,
			Render:   t.resolve,
			Finish:   t.outline,
		}
	}
}

func (t *tocStages) insert(_ context.Context, in MarkdownInput) (string, error) {
	if !toc.HasPlaceholder(in.Markdown) {
		return in.Markdown, nil
	}
	t.placed = true

	list := toc.ListOptions{
		Ordered:  t.opts.ListStyle.ordered(),
		MinDepth: t.opts.MinDepthLevel - 1,
	}
	if t.opts.PageNumbers != nil && !in.Preview {
		if in.Pass == 1 {
			// Same size as the final entries, but never equal to a bare title.
			list.Page = func(Heading) int { return 0 }
		} else {
			list.Page = in.Pages.Lookup(t.headings)
		}
	}

	t.conv.Logger.Debug("toc inserted", "pass", in.Pass, "headings", len(t.headings))
	return toc.InsertFragment(in.Markdown, toc.RenderList(t.headings, list)), nil
}

func (t *tocStages) model(_ context.Context, m TemplateModel) (TemplateModel, error) {
	return m.With("tocStyle", t.style), nil
}

func (t *tocStages) resolve(_ context.Context, r *Rendering) (RenderOutcome, error) {
	if r.Pass != 1 || !t.placed || t.opts.PageNumbers == nil || len(t.headings) == 0 {
		return RenderOutcome{}, nil
	}

	texts, err := r.PageTexts()
	if err != nil {
		return RenderOutcome{}, err
	}

	pages := toc.ResolvePages(t.headings, texts)
	unresolved := unresolvedTitles(t.headings, pages)
	for _, title := range unresolved {
		t.conv.Logger.Debug("heading not found in rendered pages", "title", title)
	}
	t.conv.Logger.Debug("pages resolved", "resolved", len(pages), "headings", len(t.headings), "pages", len(texts))

	return RenderOutcome{NeedsSecondPass: true, Pages: pages, Unresolved: unresolved}, nil
}

func (t *tocStages) outline(_ context.Context, r *Rendering, pdf []byte) ([]byte, error) {
	if !t.opts.Outline || len(t.headings) == 0 {
		return pdf, nil
	}

	texts, err := r.PageTexts()
	if err != nil {
		return nil, err
	}

	pages := t.bodyPages(texts).Pages(t.headings)
	entries := make([]pdfoutline.Entry, len(t.headings))
	for i, h := range t.headings {
		entries[i] = pdfoutline.Entry{Title: h.Title, Depth: h.Depth, Page: pages[i]}
	}
	return pdfoutline.Apply(pdf, entries)
}

// bodyPages resolves headings against the final render. Plain TOC entries
// print exactly the heading titles, so each heading is matched twice: the
// first occurrence is taken as its TOC entry and the second as the heading.
// A heading with a single occurrence keeps it, since its entry did not
// match (a wrapped title, say) and that occurrence is the heading itself.
func (t *tocStages) bodyPages(texts []string) PageMap {
	if !t.placed || t.opts.PageNumbers != nil {
		return toc.ResolvePages(t.headings, texts)
	}

	const entryPrefix = "toc-entry:"
	doubled := make([]Heading, 0, 2*len(t.headings))
	for _, h := range t.headings {
		h.Anchor = entryPrefix + h.Anchor
		doubled = append(doubled, h)
	}
	doubled = append(doubled, t.headings...)

	all := toc.ResolvePages(doubled, texts)
	body := make(PageMap, len(t.headings))
	for _, h := range t.headings {
		if p, ok := all[h.Anchor]; ok {
			body[h.Anchor] = p
		} else if p, ok := all[entryPrefix+h.Anchor]; ok {
			body[h.Anchor] = p
		}
	}
	return body
}

// unresolvedTitles lists the titles of headings missing from pages.
func unresolvedTitles(headings []Heading, pages PageMap) []string {
	var out []string
	for _, h := range headings {
		if _, ok := pages[h.Anchor]; !ok {
			out = append(out, h.Title)
		}
	}
	return out
}
