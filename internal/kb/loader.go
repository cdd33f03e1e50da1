// Package kb loads the knowledge base from JSON source files.
package kb

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/RazakHamidu/lottomatica-support-ai/internal/domain"
)

// record mirrors one knowledge-base source object.
type record struct {
	ID       entryID `json:"id"`
	Category string  `json:"category"`
	Question string  `json:"question"`
	Answer   string  `json:"answer"`
}

// entryID accepts both string and numeric ids from source files.
type entryID string

func (id *entryID) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("parse id: %w", err)
		}
		*id = entryID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("parse id: %w", err)
	}
	*id = entryID(n.String())
	return nil
}

// Load reads every .json file in dir (sorted by filename), validates the
// records and returns the flattened entry list. Malformed records are
// rejected here rather than surfacing as missing-field failures at query
// time.
func Load(dir string) ([]domain.KnowledgeEntry, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read knowledge base dir: %w", err)
	}

	names := make([]string, 0, len(files))
	for _, f := range files {
		if f.IsDir() || !strings.HasSuffix(f.Name(), ".json") {
			continue
		}
		names = append(names, f.Name())
	}
	sort.Strings(names)

	var entries []domain.KnowledgeEntry
	for _, name := range names {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(filepath.Clean(path))
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}

		var records []record
		if err := json.Unmarshal(data, &records); err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}

		for i, r := range records {
			entry, err := domain.NewKnowledgeEntry(string(r.ID), r.Category, r.Question, r.Answer)
			if err != nil {
				return nil, fmt.Errorf("%s record %d: %w", name, i, err)
			}
			entries = append(entries, entry)
		}
	}

	return entries, nil
}

// Texts returns the canonical embedding text of each entry, in order.
func Texts(entries []domain.KnowledgeEntry) []string {
	texts := make([]string, len(entries))
	for i, e := range entries {
		texts[i] = e.Text()
	}
	return texts
}
