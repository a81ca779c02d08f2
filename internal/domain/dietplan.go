package domain

type DietPurpose string

const (
	DietPurposeWeightLoss DietPurpose = "Weight Loss"
	DietPurposeWeightGain DietPurpose = "Weight Gain"
	DietPurposeMaintain   DietPurpose = "Maintain"
)

type DietCategory string

const (
	DietCategoryVegetarian    DietCategory = "Vegetarian"
	DietCategoryNonVegetarian DietCategory = "Non-Vegetarian"
	DietCategoryVegan         DietCategory = "Vegan"
)

type Nutrition struct {
	Calories string
	Protein  string
	Carbs    string
	Fat      string
}

// Meal is one timed entry of a diet plan.
type Meal struct {
	ID        string
	Time      string
	Items     string
	Nutrition Nutrition
}

type DietCategoryPlan struct {
	Category DietCategory
	Meals    []Meal
}

// DietPlan groups meal plans by dietary category for one training purpose.
type DietPlan struct {
	Purpose    DietPurpose
	Categories []DietCategoryPlan
}

func (p DietPurpose) Valid() bool {
	return p == DietPurposeWeightLoss || p == DietPurposeWeightGain || p == DietPurposeMaintain
}

func (c DietCategory) Valid() bool {
	return c == DietCategoryVegetarian || c == DietCategoryNonVegetarian || c == DietCategoryVegan
}
