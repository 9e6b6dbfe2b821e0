package model

import (
	"errors"
	"testing"

	"github.com/nao1215/procgen/internal/config"
)

func TestParseDestination(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		raw       string
		wantOwner string
		wantID    string
		wantErr   error
	}{
		{
			name:      "valid destination",
			raw:       "alice/abc123",
			wantOwner: "alice",
			wantID:    "abc123",
		},
		{
			name:      "parts are not trimmed",
			raw:       " alice/abc123 ",
			wantOwner: " alice",
			wantID:    "abc123 ",
		},
		{
			name:      "case is preserved",
			raw:       "Alice/ABC",
			wantOwner: "Alice",
			wantID:    "ABC",
		},
		{
			name:    "no separator",
			raw:     "badstring",
			wantErr: config.ErrMalformedDestination,
		},
		{
			name:    "too many separators",
			raw:     "a/b/c",
			wantErr: config.ErrMalformedDestination,
		},
		{
			name:    "empty string",
			raw:     "",
			wantErr: config.ErrMalformedDestination,
		},
		{
			name:    "empty owner",
			raw:     "/id",
			wantErr: config.ErrMalformedDestination,
		},
		{
			name:    "empty id",
			raw:     "owner/",
			wantErr: config.ErrMalformedDestination,
		},
		{
			name:    "separator only",
			raw:     "/",
			wantErr: config.ErrMalformedDestination,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			d, err := ParseDestination(tt.raw)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				if !d.IsZero() {
					t.Errorf("expected zero destination on error, got %v", d)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if d.Owner() != tt.wantOwner {
				t.Errorf("expected owner %q, got %q", tt.wantOwner, d.Owner())
			}
			if d.ResourceID() != tt.wantID {
				t.Errorf("expected id %q, got %q", tt.wantID, d.ResourceID())
			}
			if d.String() != tt.raw {
				t.Errorf("expected String() %q, got %q", tt.raw, d.String())
			}
		})
	}
}

func TestDestinationFromEnv(t *testing.T) {
	t.Parallel()

	env := func(vars map[string]string) func(string) (string, bool) {
		return func(k string) (string, bool) {
			v, ok := vars[k]
			return v, ok
		}
	}

	t.Run("valid variable", func(t *testing.T) {
		t.Parallel()
		d, err := DestinationFromEnv("GIST_LINK", env(map[string]string{"GIST_LINK": "alice/gid1"}))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if d.Owner() != "alice" || d.ResourceID() != "gid1" {
			t.Errorf("unexpected destination %v", d)
		}
	})

	t.Run("unset variable", func(t *testing.T) {
		t.Parallel()
		_, err := DestinationFromEnv("GIST_LINK", env(nil))
		if !errors.Is(err, config.ErrMissingDestinationEnv) {
			t.Errorf("expected ErrMissingDestinationEnv, got %v", err)
		}
	})

	t.Run("blank variable", func(t *testing.T) {
		t.Parallel()
		_, err := DestinationFromEnv("GIST_LINK", env(map[string]string{"GIST_LINK": "   "}))
		if !errors.Is(err, config.ErrMissingDestinationEnv) {
			t.Errorf("expected ErrMissingDestinationEnv, got %v", err)
		}
	})

	t.Run("malformed variable", func(t *testing.T) {
		t.Parallel()
		_, err := DestinationFromEnv("GIST_LINK", env(map[string]string{"GIST_LINK": "a/b/c"}))
		if !errors.Is(err, config.ErrMalformedDestination) {
			t.Errorf("expected ErrMalformedDestination, got %v", err)
		}
	})
}

func TestMustParseDestinationPanics(t *testing.T) {
	t.Parallel()

	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	MustParseDestination("invalid")
}
