package sample

import (
	"fmt"
	"slices"
	"testing"
)

func makeURLs(n int) []string {
	urls := make([]string, n)
	for i := range n {
		urls[i] = fmt.Sprintf("http://sub%d.example/link", i)
	}
	return urls
}

func TestPick(t *testing.T) {
	t.Parallel()

	t.Run("fewer than limit is identity", func(t *testing.T) {
		t.Parallel()
		urls := makeURLs(3)
		got := Pick(urls, 10, nil)
		if !slices.Equal(got, urls) {
			t.Errorf("expected identity, got %q", got)
		}
	})

	t.Run("exactly limit is identity", func(t *testing.T) {
		t.Parallel()
		urls := makeURLs(10)
		got := Pick(urls, 10, NewRand(7))
		if !slices.Equal(got, urls) {
			t.Errorf("expected identity, got %q", got)
		}
	})

	t.Run("more than limit returns limit distinct members", func(t *testing.T) {
		t.Parallel()
		urls := makeURLs(37)
		original := slices.Clone(urls)

		for _, rng := range []*randSource{{"global", 0}, {"seeded", 99}} {
			got := Pick(urls, 10, NewRand(rng.seed))
			if len(got) != 10 {
				t.Fatalf("%s: expected 10 elements, got %d", rng.name, len(got))
			}
			seen := map[string]bool{}
			for _, u := range got {
				if seen[u] {
					t.Errorf("%s: duplicate %q", rng.name, u)
				}
				seen[u] = true
				if !slices.Contains(urls, u) {
					t.Errorf("%s: %q is not a member of the input", rng.name, u)
				}
			}
		}

		if !slices.Equal(urls, original) {
			t.Error("expected input slice to be left untouched")
		}
	})

	t.Run("same seed gives same sample", func(t *testing.T) {
		t.Parallel()
		urls := makeURLs(50)
		a := Pick(urls, 10, NewRand(12345))
		b := Pick(urls, 10, NewRand(12345))
		if !slices.Equal(a, b) {
			t.Errorf("expected reproducible sample, got %q and %q", a, b)
		}
	})

	t.Run("non-positive limit on non-empty input", func(t *testing.T) {
		t.Parallel()
		if got := Pick(makeURLs(3), 0, nil); len(got) != 0 {
			t.Errorf("expected empty sample, got %q", got)
		}
	})
}

type randSource struct {
	name string
	seed uint64
}

func TestNewRand(t *testing.T) {
	t.Parallel()

	if NewRand(0) != nil {
		t.Error("expected nil source for zero seed")
	}
	if NewRand(1) == nil {
		t.Error("expected seeded source")
	}
}
