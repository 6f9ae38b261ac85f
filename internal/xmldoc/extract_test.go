package xmldoc

import (
	"strings"
	"testing"

	"github.com/antchfx/xmlquery"
)

func loadSample(t *testing.T) *Document {
	t.Helper()
	d, err := Load(strings.NewReader(sampleDoc))
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func TestEvaluateKinds(t *testing.T) {
	d := loadSample(t)

	v, err := d.Evaluate("count(//sec)", nil)
	if err != nil {
		t.Fatal(err)
	}
	if n, ok := v.(float64); !ok || n != 2 {
		t.Errorf("count(//sec) = %v, want 2", v)
	}

	v, err = d.Evaluate("count(//sec) > 1", nil)
	if err != nil {
		t.Fatal(err)
	}
	if b, ok := v.(bool); !ok || !b {
		t.Errorf("count(//sec) > 1 = %v, want true", v)
	}

	v, err = d.Evaluate("string(//abstract)", nil)
	if err != nil {
		t.Fatal(err)
	}
	if s, ok := v.(string); !ok || strings.TrimSpace(s) != "padded" {
		t.Errorf("string(//abstract) = %q, want padded", v)
	}

	v, err = d.Evaluate("//sec", nil)
	if err != nil {
		t.Fatal(err)
	}
	if nodes, ok := v.([]*xmlquery.Node); !ok || len(nodes) != 2 {
		t.Errorf("//sec = %T with %v, want 2 nodes", v, v)
	}
}

func TestEvaluateBadExpression(t *testing.T) {
	d := loadSample(t)
	if _, err := d.Evaluate("//sec[", nil); err == nil {
		t.Error("expected error for unparseable expression")
	}
}

func TestSelect(t *testing.T) {
	d := loadSample(t)

	nodes, err := d.Select("//sec", nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(nodes) != 2 {
		t.Fatalf("got %d nodes, want 2", len(nodes))
	}
	if got := nodes[0].InnerText(); got != "one" {
		t.Errorf("first sec = %q, want one", got)
	}

	first, err := d.SelectFirst("//sec", nil)
	if err != nil {
		t.Fatal(err)
	}
	if first == nil || first.InnerText() != "one" {
		t.Errorf("SelectFirst(//sec) = %v, want one", first)
	}

	missing, err := d.SelectFirst("//nonexistent", nil)
	if err != nil {
		t.Fatal(err)
	}
	if missing != nil {
		t.Errorf("SelectFirst(//nonexistent) = %v, want nil", missing)
	}
}

func TestSelectRelativeToContext(t *testing.T) {
	d := loadSample(t)

	root := d.Root()
	nodes, err := d.Select("sec", root)
	if err != nil {
		t.Fatal(err)
	}
	if len(nodes) != 2 {
		t.Errorf("got %d nodes relative to root, want 2", len(nodes))
	}
}

func TestSelectText(t *testing.T) {
	d := loadSample(t)

	tests := []struct {
		name string
		expr string
		want string
	}{
		{"markup stripped", "//title", "An inline title"},
		{"whitespace trimmed", "//abstract", "padded"},
		{"number formatted", "count(//sec)", "2"},
		{"boolean formatted", "count(//sec) > 1", "true"},
		{"no match", "//nonexistent", ""},
		{"attribute", "//article/@locale", "fr_FR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := d.SelectText(tt.expr, nil)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("SelectText(%q) = %q, want %q", tt.expr, got, tt.want)
			}
		})
	}
}
