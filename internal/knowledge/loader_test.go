package knowledge

import (
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
)

func TestLoadReadsSortedTxtDocuments(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	write := func(name, text string) {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(text), 0o644); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	write("noise_policy.txt", "Quiet hours are 22:00 to 07:00.\n")
	write("emergency.txt", "  Gas leaks are always emergencies.  ")
	write("notes.md", "ignored")
	if err := os.Mkdir(filepath.Join(dir, "archive.txt"), 0o755); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	docs, err := Load(dir, zap.NewNop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("expected 2 documents, got %d", len(docs))
	}
	if docs[0].Name != "emergency" || docs[1].Name != "noise_policy" {
		t.Fatalf("unexpected order: %s, %s", docs[0].Name, docs[1].Name)
	}
	if docs[0].Text != "Gas leaks are always emergencies." {
		t.Fatalf("text not trimmed: %q", docs[0].Text)
	}

	texts := Texts(docs)
	if len(texts) != 2 || texts[1] != "Quiet hours are 22:00 to 07:00." {
		t.Fatalf("unexpected texts: %v", texts)
	}
}

func TestLoadMissingDirIsNotAnError(t *testing.T) {
	t.Parallel()

	docs, err := Load(filepath.Join(t.TempDir(), "absent"), zap.NewNop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if docs != nil {
		t.Fatalf("expected no documents, got %v", docs)
	}
}
