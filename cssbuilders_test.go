package mdtoc

import (
	"strings"
	"testing"
)

func TestBuildTOCCSS(t *testing.T) {
	t.Parallel()

	const decimal = "/* counters */"

	tests := []struct {
		name        string
		opts        TOCOptions
		wantContain []string
		wantAbsent  []string
	}{
		{
			name:        "unordered plain links",
			opts:        TOCOptions{ListStyle: ListStyleUnordered},
			wantContain: []string{".table-of-contents a {\n  color: inherit;"},
			wantAbsent:  []string{"list-style: none", decimal, "page-number"},
		},
		{
			name:        "none removes markers",
			opts:        TOCOptions{ListStyle: ListStyleNone},
			wantContain: []string{".table-of-contents ul,\n.table-of-contents ol {\n  list-style: none;"},
		},
		{
			name:        "decimal appends counters",
			opts:        TOCOptions{ListStyle: ListStyleDecimal},
			wantContain: []string{decimal},
		},
		{
			name:       "ordered adds nothing for markers",
			opts:       TOCOptions{ListStyle: ListStyleOrdered, HasColoredLinks: true},
			wantAbsent: []string{"list-style", decimal, "color: inherit"},
		},
		{
			name:        "dots leader",
			opts:        TOCOptions{PageNumbers: &PageNumberOptions{Leader: LeaderDots}},
			wantContain: []string{"display: flex", "1px dotted currentColor", ".page-number"},
		},
		{
			name:        "underline leader",
			opts:        TOCOptions{PageNumbers: &PageNumberOptions{Leader: LeaderUnderline}},
			wantContain: []string{"1px solid currentColor"},
		},
		{
			name:        "dashes leader",
			opts:        TOCOptions{PageNumbers: &PageNumberOptions{Leader: LeaderDashes}},
			wantContain: []string{"1px dashed currentColor"},
		},
		{
			name:        "no leader keeps the number aligned",
			opts:        TOCOptions{PageNumbers: &PageNumberOptions{Leader: LeaderNone}},
			wantContain: []string{"margin-left: auto"},
			wantAbsent:  []string{"::after"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := buildTOCCSS(tt.opts, decimal)
			for _, want := range tt.wantContain {
				if !strings.Contains(got, want) {
					t.Errorf("missing %q in:\n%s", want, got)
				}
			}
			for _, absent := range tt.wantAbsent {
				if strings.Contains(got, absent) {
					t.Errorf("unexpected %q in:\n%s", absent, got)
				}
			}
		})
	}
}
