package categorizer

import "bankmerge/internal/models"

// DefaultRuleSets is the built-in category rule table. A rules file loaded
// through the store replaces it entirely.
//
// Keywords are merchant-name substrings as they appear in the source files,
// including non-merchant tokens such as phone-provider names. Order matters:
// it is the precedence of the substring scan.
func DefaultRuleSets() []RuleSet {
	return []RuleSet{
		{Category: models.CategoryMortgage, Keywords: []string{
			"משכנתא",
		}},
		{Category: models.CategoryTax, Keywords: []string{
			"מסים",
		}},
		{Category: models.CategoryRunningExpenses, Keywords: []string{
			"ועד",
			"אינטרנט",
			"חברת החשמל",
			"019",
			"פלאפון",
			"בזק",
			"אמישרגז",
		}},
		{Category: models.CategorySavings, Keywords: []string{
			"חסכון",
		}},
		{Category: models.CategoryDonation, Keywords: []string{
			"פעמונים",
			"מוסדות חב\"ד",
			"מכון מאיר",
			"עטרת",
			"מה יפו פעמי",
			"התורה והארץ",
			"גרעין יפו",
			"בית דוד בית שמש",
			"המרכז העולמי לחסד",
		}},
		{Category: models.CategoryInsurance, Keywords: []string{
			"מכבי",
			"שירותי ברי",
			"ביטוח",
			"פניקס",
			"מגדל",
		}},
		{Category: models.CategoryEducation, Keywords: []string{
			"אמונה",
		}},
		{Category: models.CategoryATM, Keywords: []string{
			"כספומט",
		}},
		{Category: models.CategoryMentoring, Keywords: []string{
			"שר שלום",
		}},
		{Category: models.CategoryFuel, Keywords: []string{
			"פנגו",
			"פז",
			"כלל חובה",
			"כלל אלמנטרי",
		}},
		{Category: models.CategoryFood, Keywords: []string{
			"מכולת",
			"יינות ביתן",
			"שופרסל",
			"רמי לוי",
		}},
	}
}
