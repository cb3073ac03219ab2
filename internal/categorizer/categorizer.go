// Package categorizer implements the keyword rule engine that assigns a
// spending category to each transaction.
//
// The raw rule table maps each category to a set of merchant-name keywords.
// At load time it is inverted into a single keyword lookup. Matching is
// case- and script-sensitive substring containment against the merchant text.
package categorizer

import (
	"strings"

	"github.com/shopspring/decimal"

	"bankmerge/internal/logging"
	"bankmerge/internal/models"
)

// RuleSet associates one category with its merchant keywords.
// The order of rule sets, and of keywords within a set, is significant:
// it fixes the precedence of the substring scan.
type RuleSet struct {
	Category models.Category `yaml:"category"`
	Keywords []string        `yaml:"keywords"`
}

// Rules is the inverted, immutable keyword lookup built from a rule table.
//
// Two precedence behaviors coexist and are both preserved here:
//   - construction: a keyword duplicated across categories keeps its first
//     insertion position but takes the last-assigned category
//     (dictionary-overwrite semantics);
//   - lookup: the substring scan walks keywords in insertion order and the
//     first containing keyword wins.
type Rules struct {
	keywords  []string
	byKeyword map[string]models.Category
	logger    logging.Logger
}

// NewRules inverts the given rule table into a keyword lookup.
// Nothing is rejected: a duplicate keyword overwrites, with a warning.
func NewRules(sets []RuleSet, logger logging.Logger) *Rules {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	r := &Rules{
		byKeyword: make(map[string]models.Category),
		logger:    logger,
	}
	for _, set := range sets {
		for _, keyword := range set.Keywords {
			if prev, ok := r.byKeyword[keyword]; ok {
				logger.Warn("duplicate keyword across categories, later mapping wins",
					logging.Field{Key: logging.FieldKeyword, Value: keyword},
					logging.Field{Key: "previous", Value: string(prev)},
					logging.Field{Key: logging.FieldCategory, Value: string(set.Category)})
			} else {
				r.keywords = append(r.keywords, keyword)
			}
			r.byKeyword[keyword] = set.Category
		}
	}
	return r
}

// Categorize derives the category for a transaction. A negative amount is
// income regardless of merchant text; otherwise the first keyword (in table
// insertion order) contained in the merchant text decides, falling back to
// the catch-all category.
func (r *Rules) Categorize(amount decimal.Decimal, business string) models.Category {
	if amount.IsNegative() {
		return models.CategoryIncome
	}
	for _, keyword := range r.keywords {
		if strings.Contains(business, keyword) {
			category := r.byKeyword[keyword]
			r.logger.Debug("merchant matched keyword",
				logging.Field{Key: logging.FieldBusiness, Value: business},
				logging.Field{Key: logging.FieldKeyword, Value: keyword},
				logging.Field{Key: logging.FieldCategory, Value: string(category)})
			return category
		}
	}
	return models.CategoryOther
}

// Lookup returns the category mapped to an exact keyword.
func (r *Rules) Lookup(keyword string) (models.Category, bool) {
	category, ok := r.byKeyword[keyword]
	return category, ok
}

// KeywordCount returns the number of distinct keywords in the table.
func (r *Rules) KeywordCount() int {
	return len(r.byKeyword)
}
