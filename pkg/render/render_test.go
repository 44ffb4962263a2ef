package render

import (
	"bytes"
	"context"
	"reflect"
	"strings"
	"testing"

	"github.com/matzehuels/pkgtopo/pkg/errors"
	"github.com/matzehuels/pkgtopo/pkg/graph"
	"github.com/matzehuels/pkgtopo/pkg/layered"
	"github.com/matzehuels/pkgtopo/pkg/registry"
)

func TestParseFormats(t *testing.T) {
	tests := []struct {
		in      string
		want    []Format
		wantErr bool
	}{
		{"", nil, false},
		{"svg", []Format{FormatSVG}, false},
		{"SVG, dot,svg", []Format{FormatSVG, FormatDOT}, false},
		{"json,png", []Format{FormatJSON, FormatPNG}, false},
		{"svg,,", []Format{FormatSVG}, false},
		{"pdf", nil, true},
	}
	for _, tt := range tests {
		got, err := ParseFormats(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseFormats(%q) error = %v", tt.in, err)
			continue
		}
		if err != nil && !errors.Is(err, errors.ErrCodeInvalidFormat) {
			t.Errorf("ParseFormats(%q) code = %s", tt.in, errors.GetCode(err))
		}
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("ParseFormats(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestFormatMeta(t *testing.T) {
	if FormatSVG.ContentType() != "image/svg+xml" || FormatPNG.Ext() != ".png" {
		t.Error("unexpected format metadata")
	}
	if Format("x").ContentType() != "application/octet-stream" {
		t.Error("unknown formats should be octet-stream")
	}
}

func TestRender(t *testing.T) {
	l := layered.Compute(registry.Nodes([]registry.Package{
		{Name: "app", Kind: "composite", Dependencies: []registry.Dependency{{PackageName: "lib"}}},
		{Name: "lib", Kind: "graphql"},
	}), layered.DefaultConfig)
	ctx := context.Background()

	out, err := Render(ctx, l, FormatJSON, Options{})
	if err != nil {
		t.Fatal(err)
	}
	parsed, err := graph.UnmarshalLayout(out)
	if err != nil || len(parsed.Nodes) != 2 {
		t.Errorf("json artifact: %v %+v", err, parsed)
	}

	out, err = Render(ctx, l, FormatSVG, Options{Title: "demo", Highlight: []string{"app"}})
	if err != nil || !bytes.Contains(out, []byte("<title>demo</title>")) || !bytes.Contains(out, []byte(`class="halo"`)) {
		t.Errorf("svg artifact: %v\n%s", err, out)
	}

	out, err = Render(ctx, l, FormatDOT, Options{Detailed: true})
	if err != nil || !strings.Contains(string(out), `"app" -> "lib"`) {
		t.Errorf("dot artifact: %v\n%s", err, out)
	}

	out, err = Render(ctx, l, FormatPNG, Options{})
	if err != nil || !bytes.HasPrefix(out, []byte("\x89PNG")) {
		t.Errorf("png artifact: %v (%d bytes)", err, len(out))
	}

	if _, err := Render(ctx, l, Format("pdf"), Options{}); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("unknown format error = %v", err)
	}
}
