package knowledge

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"
)

// Document is one policy text surfaced verbatim to the engine prompt.
type Document struct {
	Name string
	Text string
}

// Load reads every .txt document under dir, sorted by file name so the
// prompt is stable across restarts. A missing directory yields an empty
// corpus rather than an error; the hotline works without policy documents.
func Load(dir string, logger *zap.Logger) ([]Document, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		logger.Warn("knowledge directory missing, continuing without policy documents", zap.String("dir", dir))
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read knowledge dir: %w", err)
	}

	var docs []Document
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".txt") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		text, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read knowledge document %s: %w", path, err)
		}
		docs = append(docs, Document{
			Name: strings.TrimSuffix(entry.Name(), ".txt"),
			Text: strings.TrimSpace(string(text)),
		})
	}

	sort.Slice(docs, func(i, j int) bool { return docs[i].Name < docs[j].Name })
	logger.Info("knowledge base loaded", zap.Int("documents", len(docs)), zap.String("dir", dir))
	return docs, nil
}

// Texts flattens documents to the strings appended to the engine prompt.
func Texts(docs []Document) []string {
	texts := make([]string, 0, len(docs))
	for _, doc := range docs {
		texts = append(texts, doc.Text)
	}
	return texts
}
