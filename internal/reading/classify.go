package reading

// Category is the clinical severity label for a reading.
type Category string

const (
	CategoryNormal   Category = "Normal"
	CategoryElevated Category = "Elevated"
	CategoryStage1   Category = "Stage 1"
	CategoryStage2   Category = "Stage 2"
	CategoryCrisis   Category = "Crisis"
)

// Categories in ascending severity order.
var Categories = []Category{
	CategoryNormal,
	CategoryElevated,
	CategoryStage1,
	CategoryStage2,
	CategoryCrisis,
}

type rule struct {
	match    func(sys, dia int) bool
	category Category
}

// AHA staging, most severe first. First matching rule wins, so the Elevated
// rule only needs the lower bound: dia >= 80 is already Stage 1.
var stagingRules = []rule{
	{func(sys, dia int) bool { return sys >= 180 || dia >= 120 }, CategoryCrisis},
	{func(sys, dia int) bool { return sys >= 140 || dia >= 90 }, CategoryStage2},
	{func(sys, dia int) bool { return sys >= 130 || dia >= 80 }, CategoryStage1},
	{func(sys, dia int) bool { return sys >= 120 }, CategoryElevated},
}

// Classify maps a validated systolic/diastolic pair to its category.
// Pure and deterministic; inputs are assumed to be within the documented
// domain (see ValidateVitals).
func Classify(systolic, diastolic int) Category {
	for _, r := range stagingRules {
		if r.match(systolic, diastolic) {
			return r.category
		}
	}
	return CategoryNormal
}

// IsHighRisk reports whether a category warrants attention (Stage 2 or Crisis).
func (c Category) IsHighRisk() bool {
	return c == CategoryStage2 || c == CategoryCrisis
}

// CategoryInfo describes a category for display.
type CategoryInfo struct {
	Name           string `json:"name"`
	Description    string `json:"description"`
	Color          string `json:"color"`
	Recommendation string `json:"recommendation"`
}

var categoryInfos = map[Category]CategoryInfo{
	CategoryNormal: {
		Name:           "Normal",
		Description:    "Less than 120/80 mmHg",
		Color:          "green",
		Recommendation: "Maintain healthy lifestyle",
	},
	CategoryElevated: {
		Name:           "Elevated",
		Description:    "120-129 systolic and less than 80 diastolic",
		Color:          "yellow",
		Recommendation: "Focus on lifestyle changes",
	},
	CategoryStage1: {
		Name:           "High Blood Pressure Stage 1",
		Description:    "130-139/80-89 mmHg",
		Color:          "orange",
		Recommendation: "Lifestyle changes and possibly medication",
	},
	CategoryStage2: {
		Name:           "High Blood Pressure Stage 2",
		Description:    "140/90 mmHg or higher",
		Color:          "red",
		Recommendation: "Lifestyle changes and medication",
	},
	CategoryCrisis: {
		Name:           "Hypertensive Crisis",
		Description:    "Higher than 180/120 mmHg",
		Color:          "darkred",
		Recommendation: "Seek immediate medical attention",
	},
}

// Info returns display metadata for the category. Unknown categories get a
// zero value; stored categories always come from Classify so that does not
// happen in practice.
func (c Category) Info() CategoryInfo {
	return categoryInfos[c]
}
