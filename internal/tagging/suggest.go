// Package tagging suggests chat tags from conversation text.
package tagging

import (
	"fmt"
	"iter"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Rule maps a tag to the keywords that trigger it. Keywords are matched as
// lower-case substrings.
type Rule struct {
	Tag      string   `yaml:"tag"`
	Keywords []string `yaml:"keywords"`
}

// DefaultRules is the built-in rule table.
var DefaultRules = []Rule{
	{Tag: "Urgent", Keywords: []string{"urgent", "mendesak", "segera", "darurat"}},
	{Tag: "NIB", Keywords: []string{"nib", "nomor induk berusaha"}},
	{Tag: "Perizinan", Keywords: []string{"izin", "perizinan", "lisensi"}},
	{Tag: "OSS", Keywords: []string{"oss", "online single submission"}},
	{Tag: "Investasi", Keywords: []string{"investasi", "investor", "penanaman modal"}},
	{Tag: "Pembayaran", Keywords: []string{"bayar", "pembayaran", "tagihan", "invoice"}},
	{Tag: "Technical Issue", Keywords: []string{"error", "gagal", "bug", "tidak bisa"}},
	{Tag: "Complaint", Keywords: []string{"komplain", "keluhan", "kecewa"}},
	{Tag: "Account", Keywords: []string{"akun", "password", "login"}},
	{Tag: "Follow Up", Keywords: []string{"follow up", "tindak lanjut"}},
}

// Suggester evaluates a fixed rule table.
type Suggester struct {
	rules []Rule
}

// NewSuggester builds a suggester. Nil or empty rules fall back to
// DefaultRules.
func NewSuggester(rules []Rule) *Suggester {
	if len(rules) == 0 {
		rules = DefaultRules
	}
	normalized := make([]Rule, 0, len(rules))
	for _, r := range rules {
		tag := strings.TrimSpace(r.Tag)
		if tag == "" {
			continue
		}
		keywords := make([]string, 0, len(r.Keywords))
		for _, kw := range r.Keywords {
			if kw = strings.ToLower(strings.TrimSpace(kw)); kw != "" {
				keywords = append(keywords, kw)
			}
		}
		normalized = append(normalized, Rule{Tag: tag, Keywords: keywords})
	}
	return &Suggester{rules: normalized}
}

// LoadRules reads a YAML rule file of the form:
//
//   - tag: Urgent
//     keywords: [urgent, mendesak]
func LoadRules(path string) ([]Rule, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read tag rules: %w", err)
	}
	var rules []Rule
	if err := yaml.Unmarshal(raw, &rules); err != nil {
		return nil, fmt.Errorf("parse tag rules %s: %w", path, err)
	}
	return rules, nil
}

// Suggest yields every tag whose keywords occur in text, in rule order, each
// at most once, skipping tags already present in current. Tag names are
// compared case-insensitively. Nothing is computed until the sequence is
// ranged over.
func (s *Suggester) Suggest(text string, current []string) iter.Seq[string] {
	return func(yield func(string) bool) {
		lowered := strings.ToLower(text)
		seen := make(map[string]struct{}, len(current))
		for _, tag := range current {
			seen[strings.ToLower(strings.TrimSpace(tag))] = struct{}{}
		}
		for _, rule := range s.rules {
			key := strings.ToLower(rule.Tag)
			if _, dup := seen[key]; dup {
				continue
			}
			if !matchesAny(lowered, rule.Keywords) {
				continue
			}
			seen[key] = struct{}{}
			if !yield(rule.Tag) {
				return
			}
		}
	}
}

func matchesAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
