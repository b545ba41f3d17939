package denylist

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestContains(t *testing.T) {
	l := New([]string{"totally legit app", "  Free Coins Generator  ", ""})

	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"exact", "totally legit app", true},
		{"mixed case", "Totally Legit App", true},
		{"surrounding whitespace", "  TOTALLY LEGIT APP\t", true},
		{"stored with whitespace", "free coins generator", true},
		{"not listed", "calculator", false},
		{"empty", "", false},
		{"inner whitespace differs", "totally  legit app", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := l.Contains(tt.input); got != tt.want {
				t.Errorf("Contains(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}

	if l.Len() != 2 {
		t.Errorf("Len() = %d, want 2", l.Len())
	}
}

func TestNilListContainsNothing(t *testing.T) {
	var l *List
	if l.Contains("anything") {
		t.Error("nil list should contain nothing")
	}
	if l.Len() != 0 {
		t.Error("nil list should be empty")
	}
}

func TestReadCSV(t *testing.T) {
	doc := "\ufeffId,App name,Category\n1,Totally Legit App,Finance\n2, Crypto Doubler ,Finance\n3\n"
	names, err := ReadCSV(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if len(names) != 2 || names[0] != "Totally Legit App" || names[1] != "Crypto Doubler " {
		t.Errorf("names = %q", names)
	}

	if _, err := ReadCSV(strings.NewReader("Title\nfoo\n")); !errors.Is(err, ErrNoNameColumn) {
		t.Errorf("missing column: err = %v, want ErrNoNameColumn", err)
	}
	if _, err := ReadCSV(strings.NewReader("")); !errors.Is(err, ErrNoNameColumn) {
		t.Errorf("empty doc: err = %v, want ErrNoNameColumn", err)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()

	csvPath := filepath.Join(dir, "fraud_apps.csv")
	if err := os.WriteFile(csvPath, []byte("App name\nTotally Legit App\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	l, err := LoadFile(csvPath)
	if err != nil {
		t.Fatalf("LoadFile csv: %v", err)
	}
	if !l.Contains("totally legit app") {
		t.Error("csv list should contain totally legit app")
	}

	txtPath := filepath.Join(dir, "fraud_apps.txt")
	if err := os.WriteFile(txtPath, []byte("# curated\nCoin Doubler\n\n  Fake Bank  \n"), 0o644); err != nil {
		t.Fatal(err)
	}
	l, err = LoadFile(txtPath)
	if err != nil {
		t.Fatalf("LoadFile txt: %v", err)
	}
	if l.Len() != 2 || !l.Contains("fake bank") || l.Contains("# curated") {
		t.Errorf("unexpected text list contents, len=%d", l.Len())
	}

	if _, err := LoadFile(filepath.Join(dir, "missing.csv")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestNames(t *testing.T) {
	l := New([]string{"Zeta", " alpha ", "ALPHA"})
	got := l.Names()
	if len(got) != 2 || got[0] != "alpha" || got[1] != "zeta" {
		t.Errorf("Names() = %q", got)
	}
}
