package yamlutil_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/pagemark/mdtoc/internal/yamlutil"
)

type tocSection struct {
	ListStyle string `yaml:"listStyle"`
	MaxDepth  int    `yaml:"maxDepth"`
	Outline   bool   `yaml:"outline"`
}

// ---------------------------------------------------------------------------
// TestUnmarshal
// ---------------------------------------------------------------------------

func TestUnmarshal(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		data    []byte
		dest    any
		wantErr error
	}{
		{name: "valid", data: []byte("listStyle: decimal\nmaxDepth: 3\noutline: true"), dest: &tocSection{}},
		{name: "unknown keys ignored", data: []byte("listStyle: none\nextra: 1"), dest: &tocSection{}},
		{name: "nil data", data: nil, dest: &tocSection{}, wantErr: yamlutil.ErrNilData},
		{name: "nil destination", data: []byte("a: 1"), dest: nil, wantErr: yamlutil.ErrNilDestination},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := yamlutil.Unmarshal(tt.data, tt.dest)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Unmarshal() error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	var got tocSection
	if err := yamlutil.Unmarshal([]byte("listStyle: decimal\nmaxDepth: 3\noutline: true"), &got); err != nil {
		t.Fatal(err)
	}
	if got != (tocSection{ListStyle: "decimal", MaxDepth: 3, Outline: true}) {
		t.Errorf("Unmarshal() = %+v", got)
	}
}

func TestUnmarshal_SyntaxError(t *testing.T) {
	t.Parallel()

	err := yamlutil.Unmarshal([]byte("listStyle: [unclosed"), &tocSection{})

	var syntaxErr *yamlutil.SyntaxError
	if !errors.As(err, &syntaxErr) {
		t.Fatalf("Unmarshal() error = %T %v, want *SyntaxError", err, err)
	}
	if !strings.HasPrefix(err.Error(), "yamlutil: ") || syntaxErr.Unwrap() == nil {
		t.Errorf("SyntaxError = %q", err)
	}
}

// ---------------------------------------------------------------------------
// TestUnmarshalStrict
// ---------------------------------------------------------------------------

func TestUnmarshalStrict(t *testing.T) {
	t.Parallel()

	if err := yamlutil.UnmarshalStrict([]byte("maxDepth: 2"), &tocSection{}); err != nil {
		t.Errorf("UnmarshalStrict(known) error = %v", err)
	}

	err := yamlutil.UnmarshalStrict([]byte("maxDepth: 2\ntypo: x"), &tocSection{})
	var syntaxErr *yamlutil.SyntaxError
	if !errors.As(err, &syntaxErr) {
		t.Errorf("UnmarshalStrict(unknown) error = %v, want *SyntaxError", err)
	}
}

func TestUnmarshal_InputTooLarge(t *testing.T) {
	// Not parallel: mutates MaxInputSize.
	orig := yamlutil.MaxInputSize
	yamlutil.MaxInputSize = 8
	defer func() { yamlutil.MaxInputSize = orig }()

	err := yamlutil.Unmarshal([]byte("listStyle: decimal"), &tocSection{})
	if !errors.Is(err, yamlutil.ErrInputTooLarge) {
		t.Errorf("Unmarshal() error = %v, want ErrInputTooLarge", err)
	}
}

func TestMarshal(t *testing.T) {
	t.Parallel()

	out, err := yamlutil.Marshal(tocSection{ListStyle: "none", MaxDepth: 2})
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if !strings.Contains(string(out), "listStyle: none") {
		t.Errorf("Marshal() = %q", out)
	}
}
