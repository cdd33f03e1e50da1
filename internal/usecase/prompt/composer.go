// Package prompt assembles the generation prompt from the instruction
// template, retrieved context, and bounded conversation history.
package prompt

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/RazakHamidu/lottomatica-support-ai/internal/domain"
)

// Role labels used when rendering history turns.
const (
	userLabel      = "Cliente"
	assistantLabel = "LottAssist"
)

// Composer builds generation-ready prompts. Composition is deterministic:
// the same inputs always yield byte-identical output.
type Composer struct {
	template      string
	includeScore  float32
	historyWindow int
}

// NewComposer creates a composer around the fixed instruction template.
// includeScore is the prompt-inclusion relevance bar, stricter than the
// retriever's bar so the two stay independently tunable.
func NewComposer(template string, includeScore float32, historyWindow int) *Composer {
	return &Composer{
		template:      template,
		includeScore:  includeScore,
		historyWindow: historyWindow,
	}
}

// LoadTemplate reads the instruction template from disk, once at startup.
func LoadTemplate(path string) (string, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return "", fmt.Errorf("read system prompt: %w", err)
	}
	return string(data), nil
}

// Compose merges the template, the qualifying context docs, and the last
// historyWindow turns with the current message. Context and history blocks
// are omitted entirely when empty, never rendered blank.
func (c *Composer) Compose(userMessage string, docs []domain.ScoredDoc, history []domain.Turn) string {
	var b strings.Builder
	b.WriteString(c.template)

	if block := c.contextBlock(docs); block != "" {
		b.WriteString("\n\n## Informazioni rilevanti dalla knowledge base:\n")
		b.WriteString(block)
	}

	if len(history) > 0 {
		b.WriteString("\n\n## Conversazione precedente:\n")
		b.WriteString(c.historyBlock(history))
	}

	b.WriteString("\n\n## Messaggio attuale del cliente:\n")
	b.WriteString(userMessage)
	b.WriteString("\n\n## Risposta di LottAssist:")

	return b.String()
}

func (c *Composer) contextBlock(docs []domain.ScoredDoc) string {
	lines := make([]string, 0, len(docs))
	for _, d := range docs {
		if d.Score > c.includeScore {
			lines = append(lines, fmt.Sprintf("[%s] %s", d.Entry.Category(), d.Entry.Text()))
		}
	}
	return strings.Join(lines, "\n\n")
}

func (c *Composer) historyBlock(history []domain.Turn) string {
	start := 0
	if len(history) > c.historyWindow {
		start = len(history) - c.historyWindow
	}

	lines := make([]string, 0, len(history)-start)
	for _, turn := range history[start:] {
		label := assistantLabel
		if turn.Role == domain.RoleUser {
			label = userLabel
		}
		lines = append(lines, label+": "+turn.Content)
	}
	return strings.Join(lines, "\n")
}
