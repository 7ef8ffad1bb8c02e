package parse

import (
	"regexp"
	"strings"
)

// ExpenseCategory is one of the fixed expense categories a receipt can be
// filed under.
type ExpenseCategory string

const (
	CategoryFlight         ExpenseCategory = "Flight"
	CategoryTrainTube      ExpenseCategory = "Train/Tube"
	CategoryTaxi           ExpenseCategory = "Taxi"
	CategoryCarHireFuel    ExpenseCategory = "Car Hire/Fuel"
	CategoryHotel          ExpenseCategory = "Hotel"
	CategorySubsistence    ExpenseCategory = "Subsistence"
	CategoryOfficeSupplies ExpenseCategory = "Office Supplies"
	CategorySoftwareIT     ExpenseCategory = "Software/IT"
	CategoryOther          ExpenseCategory = "Other"
)

// categoryRule maps a category to the keywords that select it. Rules are
// evaluated in order and the first matching rule wins, so more specific
// travel categories sit above the generic ones.
type categoryRule struct {
	category ExpenseCategory
	keywords []string
}

var categoryRules = []categoryRule{
	{CategoryFlight, []string{"air", "flight", "airline", "aviation"}},
	{CategoryTrainTube, []string{"train", "tube", "metro", "rail", "underground"}},
	{CategoryTaxi, []string{"taxi", "uber", "lyft", "cab"}},
	{CategoryCarHireFuel, []string{"fuel", "petrol", "rental", "car hire", "gas station"}},
	{CategoryHotel, []string{"hotel", "inn", "resort", "accommodation", "lodge"}},
	{CategorySubsistence, []string{"meal", "lunch", "dinner", "breakfast", "restaurant", "food", "cafe"}},
	{CategoryOfficeSupplies, []string{"stationery", "office supplies", "paper", "printer", "stapler"}},
	{CategorySoftwareIT, []string{"software", "license", "subscription", "hosting", "saas"}},
}

// Keywords match on word boundaries so that e.g. "air" does not fire on
// "airport" inside an otherwise unrelated receipt.
var categoryMatchers = buildCategoryMatchers()

func buildCategoryMatchers() []*regexp.Regexp {
	matchers := make([]*regexp.Regexp, len(categoryRules))
	for i, rule := range categoryRules {
		quoted := make([]string, len(rule.keywords))
		for j, kw := range rule.keywords {
			quoted[j] = regexp.QuoteMeta(kw)
		}
		matchers[i] = regexp.MustCompile(`\b(?:` + strings.Join(quoted, "|") + `)\b`)
	}
	return matchers
}

// Category classifies receipt text into exactly one expense category. It is a
// total function: any input, including the empty string, maps to a category,
// with CategoryOther as the default when no keyword matches.
func Category(text string) ExpenseCategory {
	lowered := strings.ToLower(text)
	for i, matcher := range categoryMatchers {
		if matcher.MatchString(lowered) {
			return categoryRules[i].category
		}
	}
	return CategoryOther
}

// Categories lists every category in table order, ending with the default.
func Categories() []ExpenseCategory {
	out := make([]ExpenseCategory, 0, len(categoryRules)+1)
	for _, rule := range categoryRules {
		out = append(out, rule.category)
	}
	return append(out, CategoryOther)
}
