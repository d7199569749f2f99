package extractor

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/assafc-claroty/hack-2025/internal/model"
	"github.com/assafc-claroty/hack-2025/internal/nlp"
	"github.com/assafc-claroty/hack-2025/internal/nlp/nlptest"
	"github.com/assafc-claroty/hack-2025/internal/schema"
)

// oneToken builds a single-token document.
func oneToken(text, pos string) *nlp.Doc {
	return nlp.NewDoc(text, []nlp.Token{{Text: text, POS: pos, Dep: "ROOT"}})
}

func runChain(doc *nlp.Doc) *Context {
	ctx := NewContext(doc, schema.Default())
	DefaultChain().Run(ctx)
	return ctx
}

func TestDefaultChain_Order(t *testing.T) {
	want := []string{"cve", "ip", "mac", "numeric", "quoted", "proper_noun", "identifier"}
	if got := DefaultChain().Names(); !reflect.DeepEqual(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}
}

func TestChain_SingleTokenValues(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		pos       string
		wantType  model.ValueType
		wantValue any
		wantCol   string
	}{
		{"cve", "cve-2021-44228", "PROPN", model.ValueCVE, "CVE-2021-44228", "CVE"},
		{"full ip", "10.89.46.34", "NUM", model.ValueIPAddress, "10.89.46.34", "ipv4"},
		{"wildcard ip", "10.89.*.*", "NUM", model.ValueIPAddress, "10.89.*.*", "ipv4"},
		{"ip prefix", "192.168.1", "NUM", model.ValueIPPrefix, "192.168.1", "ipv4"},
		{"wildcard prefix", "10.89.*", "NUM", model.ValueIPPrefix, "10.89.", "ipv4"},
		{"two wildcard parts", "10.*.*", "X", model.ValueIPPrefix, "10.", "ipv4"},
		{"mac colon", "00:1A:2B:3C:4D:5E", "NUM", model.ValueMACAddress, "00:1A:2B:3C:4D:5E", "mac"},
		{"mac hyphen", "00-1a-2b-3c-4d-5e", "X", model.ValueMACAddress, "00-1a-2b-3c-4d-5e", "mac"},
		{"integer", "54", "NUM", model.ValueInteger, int64(54), ""},
		{"thousands", "1,200", "NUM", model.ValueInteger, int64(1200), ""},
		{"float with exponent", "2e3", "NUM", model.ValueFloat, float64(2000), ""},
		{"quoted", "'maintenance'", "PUNCT", model.ValueString, "maintenance", ""},
		{"vendor", "Rockwell", "PROPN", model.ValueVendor, "Rockwell", ""},
		{"proper noun", "Haifa", "PROPN", model.ValueString, "Haifa", ""},
		{"identifier", "server01", "NOUN", model.ValueString, "server01", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := runChain(oneToken(tt.text, tt.pos))

			if len(ctx.Entities.Values) != 1 {
				t.Fatalf("expected one value, got %+v", ctx.Entities.Values)
			}
			v := ctx.Entities.Values[0]
			if v.Type != tt.wantType || !reflect.DeepEqual(v.Value, tt.wantValue) {
				t.Errorf("got (%s, %#v), want (%s, %#v)", v.Type, v.Value, tt.wantType, tt.wantValue)
			}
			if tt.wantCol == "" {
				if len(ctx.Entities.Columns) != 0 {
					t.Errorf("unexpected columns %+v", ctx.Entities.Columns)
				}
				return
			}
			if len(ctx.Entities.Columns) != 1 || ctx.Entities.Columns[0].Column != tt.wantCol {
				t.Errorf("columns = %+v, want %s", ctx.Entities.Columns, tt.wantCol)
			}
		})
	}
}

func TestChain_Rejections(t *testing.T) {
	tests := []struct {
		name string
		text string
		pos  string
	}{
		{"octet out of range", "10.89.46.256", "NUM"},
		{"too many octets", "1.2.3.4.5", "NUM"},
		{"inner wildcard prefix", "10.*.89", "NUM"},
		{"only wildcards", "*.*", "X"},
		{"short mac", "00:1A:2B:3C:4D", "X"},
		{"single letter tagged number", "a", "NUM"},
		{"stop word proper noun", "Site", "PROPN"},
		{"column synonym proper noun", "MAC", "PROPN"},
		{"device word", "PLCs", "PROPN"},
		{"noun without digit", "server", "NOUN"},
		{"number word", "five", "NUM"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := runChain(oneToken(tt.text, tt.pos))
			if len(ctx.Entities.Values) != 0 {
				t.Errorf("expected no value for %q, got %+v", tt.text, ctx.Entities.Values)
			}
		})
	}
}

func TestChain_MultiTokenCVE(t *testing.T) {
	doc := nlptest.Doc(t, "Has CVE-2017-12819 been remediated on our assets?")
	ctx := runChain(doc)

	if len(ctx.Entities.Values) != 1 {
		t.Fatalf("expected one value, got %+v", ctx.Entities.Values)
	}
	v := ctx.Entities.Values[0]
	want := model.ValueEntity{Text: "CVE-2017-12819", Value: "CVE-2017-12819", Type: model.ValueCVE, Start: 1, End: 4}
	if !reflect.DeepEqual(v, want) {
		t.Errorf("value = %+v, want %+v", v, want)
	}
	for _, i := range []int{1, 2, 3} {
		if _, ok := ctx.Claimed[i]; !ok {
			t.Errorf("position %d not claimed", i)
		}
	}
	if len(ctx.Entities.Columns) != 1 || ctx.Entities.Columns[0] != (model.ColumnEntity{Text: "CVE-2017-12819", Column: "CVE", Start: 1, End: 4}) {
		t.Errorf("columns = %+v", ctx.Entities.Columns)
	}
}

func TestChain_FirstMatchWins(t *testing.T) {
	// "10.89" is both number-like and an IP prefix; the IP extractor runs first
	ctx := runChain(oneToken("10.89", "NUM"))
	if ctx.Entities.Values[0].Type != model.ValueIPPrefix {
		t.Errorf("type = %s, want ip_prefix", ctx.Entities.Values[0].Type)
	}
}

func TestContext_AddColumn(t *testing.T) {
	ctx := NewContext(oneToken("x", "X"), schema.Default())

	if !ctx.AddColumn("site", "site", 0, 1) {
		t.Errorf("AddColumn() rejected a known column")
	}
	if ctx.AddColumn("site", "site", 0, 1) {
		t.Errorf("AddColumn() accepted a duplicate (column, start)")
	}
	if ctx.AddColumn("floor", "floor", 0, 1) {
		t.Errorf("AddColumn() accepted an unknown column")
	}
	if len(ctx.Entities.Columns) != 1 {
		t.Errorf("expected 1 column, got %d", len(ctx.Entities.Columns))
	}
}

func TestLineExtractor_Extract(t *testing.T) {
	content := "# inventory questions\nShow me all assets in site 54\n\n  How many assets are there?  \n"

	segments, err := NewLineExtractor().Extract("q.txt", []byte(content))
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}

	want := []model.SQLSegment{
		{Question: "Show me all assets in site 54", Location: model.Location{FilePath: "q.txt", Line: 2}},
		{Question: "How many assets are there?", Location: model.Location{FilePath: "q.txt", Line: 4}},
	}
	if !reflect.DeepEqual(segments, want) {
		t.Errorf("Extract() got = %+v, want %+v", segments, want)
	}
}

func TestListExtractor_Extract(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		expected []string
	}{
		{
			name:     "Dash items",
			content:  "# Questions\n- Show me all assets in site 54\n- `Count assets in site 5`\n",
			expected: []string{"Show me all assets in site 54", "Count assets in site 5"},
		},
		{
			name:     "Numbered items",
			content:  "1. Do we have any PLCs?\n2) Total assets in site 5",
			expected: []string{"Do we have any PLCs?", "Total assets in site 5"},
		},
		{
			name:     "Prose only",
			content:  "Nothing to see here.",
			expected: nil,
		},
	}

	extractor := NewListExtractor()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			segments, err := extractor.Extract("q.md", []byte(tt.content))
			if err != nil {
				t.Fatalf("Extract() error = %v", err)
			}

			var got []string
			for _, seg := range segments {
				got = append(got, seg.Question)
			}

			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("Extract() got = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestManager_Extract(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "questions.md")
	if err := os.WriteFile(path, []byte("- Show assets with interfaces\nnot an item\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	segments, err := DefaultManager().Extract(path)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if len(segments) != 1 || segments[0].Question != "Show assets with interfaces" {
		t.Errorf("Extract() got = %+v", segments)
	}
}
