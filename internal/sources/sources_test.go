package sources

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Adda-Baaj/podcast-harvester/internal/domain"
)

func TestReadSkipsBlanksAndComments(t *testing.T) {
	input := "https://a.example/feed\n\n# comment\n  https://b.example/rss  \nnot a url\n"
	got, err := Read(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Read returned error: %v", err)
	}
	want := []string{"https://a.example/feed", "https://b.example/rss", "not a url"}
	if len(got) != len(want) {
		t.Fatalf("got %v; want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("line %d = %q; want %q", i, got[i], want[i])
		}
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "urls.txt")
	if err := os.WriteFile(path, []byte("https://a.example/feed\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile returned error: %v", err)
	}
	if len(got) != 1 || got[0] != "https://a.example/feed" {
		t.Fatalf("got %v", got)
	}
}

func TestLoadFileMissingIsSourceIO(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.txt"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if domain.KindOf(err) != domain.KindSourceIO {
		t.Fatalf("kind = %v; want source_io", domain.KindOf(err))
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("error %v does not wrap os.ErrNotExist", err)
	}
}

func TestLoadFileEmptyPath(t *testing.T) {
	if _, err := LoadFile("  "); domain.KindOf(err) != domain.KindSourceIO {
		t.Fatalf("expected source_io error, got %v", err)
	}
}
