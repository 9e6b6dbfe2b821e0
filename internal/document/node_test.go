package document

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/nao1215/procgen/internal/config"
)

func TestParse(t *testing.T) {
	t.Parallel()

	t.Run("empty input is null", func(t *testing.T) {
		t.Parallel()
		doc, err := Parse(nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if doc.Kind != KindNull {
			t.Errorf("expected null, got %s", doc.Kind)
		}
	})

	t.Run("yaml mapping with subs", func(t *testing.T) {
		t.Parallel()
		doc, err := Parse([]byte("subs:\n  - http://a.example/sub\n  - 42\n  - ~\n"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if doc.Kind != KindMapping {
			t.Fatalf("expected mapping, got %s", doc.Kind)
		}
		subs, ok := doc.Lookup("subs")
		if !ok || subs.Kind != KindSequence {
			t.Fatalf("expected subs sequence, got %+v", subs)
		}
		if len(subs.Items) != 3 {
			t.Fatalf("expected 3 items, got %d", len(subs.Items))
		}
		if s, ok := subs.Items[0].StringValue(); !ok || s != "http://a.example/sub" {
			t.Errorf("expected string item, got %q (%v)", s, ok)
		}
		if _, ok := subs.Items[1].StringValue(); ok {
			t.Error("expected integer scalar not to be a string")
		}
		if subs.Items[2].Kind != KindNull {
			t.Errorf("expected null item, got %s", subs.Items[2].Kind)
		}
	})

	t.Run("json document", func(t *testing.T) {
		t.Parallel()
		doc, err := Parse([]byte(`[{"url": "https://x.example"}, "http://y.example"]`))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if doc.Kind != KindSequence || len(doc.Items) != 2 {
			t.Fatalf("expected 2-item sequence, got %+v", doc)
		}
		v, ok := doc.Items[0].Lookup("url")
		if !ok {
			t.Fatal("expected url key")
		}
		if s, _ := v.StringValue(); s != "https://x.example" {
			t.Errorf("unexpected url %q", s)
		}
	})

	t.Run("quoted number is a string", func(t *testing.T) {
		t.Parallel()
		doc, err := Parse([]byte(`- "123"`))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, ok := doc.Items[0].StringValue(); !ok {
			t.Error("expected quoted scalar to be a string")
		}
	})

	t.Run("aliases resolve to anchored value", func(t *testing.T) {
		t.Parallel()
		doc, err := Parse([]byte("base: &u http://a.example\nsubs:\n  - *u\n"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		subs, _ := doc.Lookup("subs")
		if s, ok := subs.Items[0].StringValue(); !ok || s != "http://a.example" {
			t.Errorf("expected alias to resolve, got %q", s)
		}
	})

	t.Run("mapping keeps document order", func(t *testing.T) {
		t.Parallel()
		doc, err := Parse([]byte("z: 1\na: 2\nm: 3\n"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := []string{"z", "a", "m"}
		for i, e := range doc.Entries {
			if e.Key != want[i] {
				t.Errorf("entry %d: expected key %q, got %q", i, want[i], e.Key)
			}
		}
	})

	t.Run("invalid yaml returns error", func(t *testing.T) {
		t.Parallel()
		if _, err := Parse([]byte("invalid: yaml: content: [}")); err == nil {
			t.Error("expected parse error")
		}
	})
}

func TestParseMergeKeys(t *testing.T) {
	t.Parallel()

	t.Run("single mapping is merged before explicit keys", func(t *testing.T) {
		t.Parallel()
		doc, err := Parse([]byte("base: &b\n  url: http://m.example\n  name: base\nitem:\n  <<: *b\n  name: own\n"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		item, _ := doc.Lookup("item")
		if len(item.Entries) != 2 {
			t.Fatalf("expected 2 entries, got %+v", item.Entries)
		}
		if s, _ := item.Entries[0].Value.StringValue(); item.Entries[0].Key != "url" || s != "http://m.example" {
			t.Errorf("expected merged url first, got %+v", item.Entries[0])
		}
		name, _ := item.Lookup("name")
		if s, _ := name.StringValue(); s != "own" {
			t.Errorf("expected explicit key to win, got %q", s)
		}
		if _, ok := item.Lookup("<<"); ok {
			t.Error("merge key must not remain as an entry")
		}
	})

	t.Run("earlier mappings in a merge list win", func(t *testing.T) {
		t.Parallel()
		src := "a: &a {url: http://a.example}\nb: &b {url: http://b.example, link: http://l.example}\nitem:\n  <<: [*a, *b]\n"
		doc, err := Parse([]byte(src))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		item, _ := doc.Lookup("item")
		url, _ := item.Lookup("url")
		if s, _ := url.StringValue(); s != "http://a.example" {
			t.Errorf("expected first merged mapping to win, got %q", s)
		}
		if _, ok := item.Lookup("link"); !ok {
			t.Error("expected key from second mapping")
		}
	})

	t.Run("repeated key keeps first position", func(t *testing.T) {
		t.Parallel()
		doc, err := Parse([]byte("x: 1\ny: 2\nx: 3\n"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(doc.Entries) != 2 || doc.Entries[0].Key != "x" {
			t.Fatalf("unexpected entries %+v", doc.Entries)
		}
		if doc.Entries[0].Value.text != "3" {
			t.Errorf("expected last value, got %q", doc.Entries[0].Value.text)
		}
	})
}

func TestTruthy(t *testing.T) {
	t.Parallel()

	tests := []struct {
		src  string
		want bool
	}{
		{src: "~", want: false},
		{src: "''", want: false},
		{src: "' '", want: true},
		{src: "false", want: false},
		{src: "true", want: true},
		{src: "0", want: false},
		{src: "0.0", want: false},
		{src: "123", want: true},
		{src: "[]", want: false},
		{src: "[1]", want: true},
		{src: "{}", want: false},
		{src: "{x: 1}", want: true},
		{src: "http://a.example", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			t.Parallel()
			doc, err := Parse([]byte("v: " + tt.src + "\n"))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			v, _ := doc.Lookup("v")
			if got := v.Truthy(); got != tt.want {
				t.Errorf("Truthy(%s) = %v, want %v", tt.src, got, tt.want)
			}
		})
	}
}

func TestLookup(t *testing.T) {
	t.Parallel()

	m := Mapping(
		Entry{Key: "url", Value: String("first")},
		Entry{Key: "url", Value: String("second")},
	)

	v, ok := m.Lookup("url")
	if !ok {
		t.Fatal("expected key to be found")
	}
	if s, _ := v.StringValue(); s != "second" {
		t.Errorf("expected last occurrence to win, got %q", s)
	}

	if _, ok := m.Lookup("missing"); ok {
		t.Error("expected missing key")
	}
	if _, ok := String("x").Lookup("url"); ok {
		t.Error("expected lookup on scalar to fail")
	}
}

func TestLoad(t *testing.T) {
	t.Parallel()

	t.Run("missing file is ErrMissingInput", func(t *testing.T) {
		t.Parallel()
		_, err := Load(filepath.Join(t.TempDir(), "crawledsubs.yaml"))
		if !errors.Is(err, config.ErrMissingInput) {
			t.Errorf("expected ErrMissingInput, got %v", err)
		}
	})

	t.Run("reads file", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "crawledsubs.yaml")
		if err := os.WriteFile(path, []byte("- http://a.example\n"), 0600); err != nil {
			t.Fatalf("failed to write input: %v", err)
		}
		doc, err := Load(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if doc.Kind != KindSequence || len(doc.Items) != 1 {
			t.Errorf("unexpected document %+v", doc)
		}
	})
}

func TestKindString(t *testing.T) {
	t.Parallel()

	tests := map[Kind]string{
		KindNull:     "null",
		KindScalar:   "scalar",
		KindSequence: "sequence",
		KindMapping:  "mapping",
		Kind(99):     "unknown",
	}
	for k, want := range tests {
		if got := k.String(); got != want {
			t.Errorf("Kind(%d).String() = %q, want %q", k, got, want)
		}
	}
}
