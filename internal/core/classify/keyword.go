package classify

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	ahocorasick "github.com/cloudflare/ahocorasick"
	"gopkg.in/yaml.v3"

	"github.com/joseph-ayodele/docmind/constants"
	"github.com/joseph-ayodele/docmind/internal/entity"
)

// DefaultPrefixChars is how much of the document the keyword scorer reads.
const DefaultPrefixChars = 3000

// KeywordSets are the cue words scored per category.
type KeywordSets struct {
	Invoice  []string `yaml:"invoice"`
	Contract []string `yaml:"contract"`
}

// DefaultKeywordSets returns the built-in cue words.
func DefaultKeywordSets() KeywordSets {
	return KeywordSets{
		Invoice: []string{
			"invoice", "bill to", "amount due", "total balance",
			"receipt", "payment", "subtotal", "tax",
		},
		Contract: []string{
			"agreement", "mutual", "confidentiality", "party",
			"parties", "witnesseth", "whereas", "governing law",
		},
	}
}

// LoadKeywordSets reads a YAML file with "invoice" and "contract" lists.
// A list missing from the file keeps its default.
func LoadKeywordSets(path string) (KeywordSets, error) {
	sets := DefaultKeywordSets()
	b, err := os.ReadFile(path)
	if err != nil {
		return sets, fmt.Errorf("read keywords file: %w", err)
	}
	var fromFile KeywordSets
	if err := yaml.Unmarshal(b, &fromFile); err != nil {
		return sets, fmt.Errorf("parse keywords file: %w", err)
	}
	if len(fromFile.Invoice) > 0 {
		sets.Invoice = fromFile.Invoice
	}
	if len(fromFile.Contract) > 0 {
		sets.Contract = fromFile.Contract
	}
	return sets, nil
}

// KeywordClassifier scores distinct cue words of each set in one pass over the
// lower-cased document prefix. The automaton is built once and only read after.
type KeywordClassifier struct {
	matcher     *ahocorasick.Matcher
	keywords    []string
	isContract  []bool
	prefixChars int
	logger      *slog.Logger
}

// Scores is the number of distinct keywords of each set found.
type Scores struct {
	Invoice  int
	Contract int
}

func NewKeywordClassifier(sets KeywordSets, prefixChars int, logger *slog.Logger) *KeywordClassifier {
	if logger == nil {
		logger = slog.Default()
	}
	if prefixChars <= 0 {
		prefixChars = DefaultPrefixChars
	}
	kc := &KeywordClassifier{prefixChars: prefixChars, logger: logger}
	add := func(words []string, contract bool) {
		dup := make(map[string]bool, len(words))
		for _, w := range words {
			w = strings.ToLower(strings.TrimSpace(w))
			if w == "" || dup[w] {
				continue
			}
			dup[w] = true
			kc.keywords = append(kc.keywords, w)
			kc.isContract = append(kc.isContract, contract)
		}
	}
	add(sets.Invoice, false)
	add(sets.Contract, true)
	if len(kc.keywords) > 0 {
		kc.matcher = ahocorasick.NewStringMatcher(kc.keywords)
	}
	return kc
}

// Score counts distinct keyword hits in the first prefixChars runes of text.
func (k *KeywordClassifier) Score(text string) Scores {
	var s Scores
	if k.matcher == nil {
		return s
	}
	prefix := strings.ToLower(truncateRunes(text, k.prefixChars))

	seen := make(map[int]bool, len(k.keywords))
	for _, idx := range k.matcher.MatchThreadSafe([]byte(prefix)) {
		if idx < 0 || idx >= len(k.keywords) || seen[idx] {
			continue
		}
		seen[idx] = true
		if k.isContract[idx] {
			s.Contract++
		} else {
			s.Invoice++
		}
	}
	return s
}

// Classify never fails. Contract wins when it has at least one hit and does
// not trail invoice; everything else, all-zero included, is an invoice.
func (k *KeywordClassifier) Classify(_ context.Context, text string) (entity.Classification, error) {
	s := k.Score(text)
	cat := constants.Invoice
	if s.Contract >= 1 && s.Contract >= s.Invoice {
		cat = constants.Contract
	}
	k.logger.Info("classify.keyword",
		"category", cat,
		"invoice_score", s.Invoice,
		"contract_score", s.Contract,
	)
	return entity.Classification{Category: cat, Method: entity.MethodKeyword}, nil
}

func truncateRunes(s string, n int) string {
	if len(s) <= n {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
