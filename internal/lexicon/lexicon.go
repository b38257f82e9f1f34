// Package lexicon provides the rule-based classification data used by the
// classifier's fallback path.
//
// Rules live in a YAML resource rather than code so the word lists can be
// replaced and tested independently of the matching logic. A default rule
// set is embedded in the binary; an on-disk override can be supplied and
// is hot-reloaded when it changes.
package lexicon

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/kokoro-ai/kokoro/internal/model"
)

//go:embed data/lexicon.yaml
var defaultRules []byte

// Category is one classification rule: an emotion with its fixed
// intensity/confidence pair and the patterns that select it.
type Category struct {
	Emotion    model.Emotion `yaml:"emotion"`
	Intensity  float64       `yaml:"intensity"`
	Confidence float64       `yaml:"confidence"`
	Patterns   []string      `yaml:"patterns"`
}

type ruleFile struct {
	Categories []Category `yaml:"categories"`
}

// Lexicon holds the rule set. Categories are checked in file order; the
// first category with a matching pattern wins. Safe for concurrent reads
// while a watcher reloads.
type Lexicon struct {
	mu         sync.RWMutex
	categories []Category
}

// Load parses the embedded default rule set.
func Load() (*Lexicon, error) {
	return parse(defaultRules)
}

// LoadFile parses a rule set from disk, replacing the embedded default.
func LoadFile(path string) (*Lexicon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("lexicon: read %s: %w", path, err)
	}
	return parse(data)
}

func parse(data []byte) (*Lexicon, error) {
	var f ruleFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("lexicon: parse rules: %w", err)
	}
	if len(f.Categories) == 0 {
		return nil, fmt.Errorf("lexicon: rule set has no categories")
	}
	for i, c := range f.Categories {
		if !c.Emotion.IsBase() {
			return nil, fmt.Errorf("lexicon: categories[%d]: unknown emotion %q", i, c.Emotion)
		}
		if c.Intensity < 0 || c.Intensity > 1 || c.Confidence < 0 || c.Confidence > 1 {
			return nil, fmt.Errorf("lexicon: categories[%d] (%s): intensity/confidence out of [0,1]", i, c.Emotion)
		}
		if len(c.Patterns) == 0 {
			return nil, fmt.Errorf("lexicon: categories[%d] (%s): no patterns", i, c.Emotion)
		}
	}
	return &Lexicon{categories: f.Categories}, nil
}

// Match finds the first category whose pattern set matches the lower-cased
// text. Returns false when no category matches.
func (l *Lexicon) Match(text string) (Category, bool) {
	lowered := strings.ToLower(text)

	l.mu.RLock()
	defer l.mu.RUnlock()
	for _, c := range l.categories {
		for _, p := range c.Patterns {
			if strings.Contains(lowered, p) {
				return c, true
			}
		}
	}
	return Category{}, false
}

// Replace swaps in a new rule set. Used by the file watcher.
func (l *Lexicon) Replace(other *Lexicon) {
	other.mu.RLock()
	cats := other.categories
	other.mu.RUnlock()

	l.mu.Lock()
	l.categories = cats
	l.mu.Unlock()
}

// Categories returns a copy of the current rule set, in precedence order.
func (l *Lexicon) Categories() []Category {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]Category, len(l.categories))
	copy(out, l.categories)
	return out
}
