// Package models provides the data structures used throughout the application.
package models

// Category represents a spending class assigned to a transaction.
// The set is closed and fixed at compile time.
type Category string

const (
	CategoryMortgage        Category = "mortgage"
	CategoryFood            Category = "food"
	CategoryEducation       Category = "education"
	CategoryRunningExpenses Category = "running_expenses"
	CategoryMentoring       Category = "mentoring"
	CategoryDonation        Category = "donation"
	CategoryTax             Category = "tax"
	CategoryInsurance       Category = "insurance"
	CategoryATM             Category = "atm"
	CategoryFuel            Category = "fuel"
	CategorySavings         Category = "savings"
	CategoryTransport       Category = "transport"
	CategoryOther           Category = "other"
	CategoryIncome          Category = "income"
)

// Categories lists every category in its fixed enumeration order.
// The summary block of the report is emitted in this order, so it must
// stay stable.
var Categories = []Category{
	CategoryMortgage,
	CategoryFood,
	CategoryEducation,
	CategoryRunningExpenses,
	CategoryMentoring,
	CategoryDonation,
	CategoryTax,
	CategoryInsurance,
	CategoryATM,
	CategoryFuel,
	CategorySavings,
	CategoryTransport,
	CategoryOther,
	CategoryIncome,
}

var categoryLabels = map[Category]string{
	CategoryMortgage:        "משכנתא",
	CategoryFood:            "אוכל",
	CategoryEducation:       "חינוך",
	CategoryRunningExpenses: "שוטף",
	CategoryMentoring:       "הדרכה",
	CategoryDonation:        "תרומה",
	CategoryTax:             "מס",
	CategoryInsurance:       "ביטוח",
	CategoryATM:             "כספומט",
	CategoryFuel:            "דלק",
	CategorySavings:         "חסכון",
	CategoryTransport:       "תחבורה",
	CategoryOther:           "אחר",
	CategoryIncome:          "הכנסות",
}

// Label returns the display label written to the report's category column
// and matched by the summary formulas.
func (c Category) Label() string {
	if label, ok := categoryLabels[c]; ok {
		return label
	}
	return string(c)
}

// IsValid reports whether c is one of the known categories.
func (c Category) IsValid() bool {
	_, ok := categoryLabels[c]
	return ok
}

// CategoryFromName returns the category with the given identifier.
func CategoryFromName(name string) (Category, bool) {
	c := Category(name)
	return c, c.IsValid()
}
