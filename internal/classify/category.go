package classify

import (
	"strings"

	"github.com/cardwiz/cardwiz/internal/model"
)

// categoryGroup binds a spend category to its trigger keywords.
type categoryGroup struct {
	category model.Category
	keywords []string
}

// categoryGroups are scanned in order; the first group with a matching
// keyword wins. The order is fixed so the same text always infers the
// same category.
var categoryGroups = []categoryGroup{
	{model.CategoryFuel, []string{"fuel", "gas", "petrol", "diesel"}},
	{model.CategoryGrocery, []string{"grocery", "groceries", "supermarket", "bigbasket", "dmart"}},
	{model.CategoryTravel, []string{"travel", "flight", "hotel", "airline", "train", "makemytrip"}},
	{model.CategoryDining, []string{"dining", "restaurant", "food", "cafe", "coffee", "swiggy", "zomato", "starbucks"}},
	{model.CategoryOnline, []string{"online", "marketplace", "amazon", "flipkart", "myntra"}},
}

// InferCategory scans text for category keyword groups and returns the
// first match, defaulting to general.
func InferCategory(text string) model.Category {
	lower := strings.ToLower(text)
	for _, group := range categoryGroups {
		for _, keyword := range group.keywords {
			if strings.Contains(lower, keyword) {
				return group.category
			}
		}
	}
	return model.CategoryGeneral
}
