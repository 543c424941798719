package geo

// GradeLevel is a school grade as taught in Chile
type GradeLevel struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
}

// Grade categories
const (
	CategoryParvularia = "Educación Parvularia"
	CategoryBasica     = "Educación Básica"
	CategoryMedia      = "Educación Media"
)

var gradeLevels = []GradeLevel{
	{ID: 1, Name: "Sala Cuna Menor", Category: CategoryParvularia},
	{ID: 2, Name: "Sala Cuna Mayor", Category: CategoryParvularia},
	{ID: 3, Name: "Medio Menor", Category: CategoryParvularia},
	{ID: 4, Name: "Medio Mayor", Category: CategoryParvularia},
	{ID: 5, Name: "Pre-Kinder", Category: CategoryParvularia},
	{ID: 6, Name: "Kinder", Category: CategoryParvularia},
	{ID: 7, Name: "1° Básico", Category: CategoryBasica},
	{ID: 8, Name: "2° Básico", Category: CategoryBasica},
	{ID: 9, Name: "3° Básico", Category: CategoryBasica},
	{ID: 10, Name: "4° Básico", Category: CategoryBasica},
	{ID: 11, Name: "5° Básico", Category: CategoryBasica},
	{ID: 12, Name: "6° Básico", Category: CategoryBasica},
	{ID: 13, Name: "7° Básico", Category: CategoryBasica},
	{ID: 14, Name: "8° Básico", Category: CategoryBasica},
	{ID: 15, Name: "1° Medio", Category: CategoryMedia},
	{ID: 16, Name: "2° Medio", Category: CategoryMedia},
	{ID: 17, Name: "3° Medio", Category: CategoryMedia},
	{ID: 18, Name: "4° Medio", Category: CategoryMedia},
}

// AllGradeLevels returns every grade level in teaching order
func AllGradeLevels() []GradeLevel {
	out := make([]GradeLevel, len(gradeLevels))
	copy(out, gradeLevels)
	return out
}

// GradeCategories returns the distinct categories in teaching order
func GradeCategories() []string {
	seen := make(map[string]bool)
	var out []string
	for _, g := range gradeLevels {
		if !seen[g.Category] {
			seen[g.Category] = true
			out = append(out, g.Category)
		}
	}
	return out
}

// GradeLevelsByCategory returns the grades of one category, matching
// the category name case and accent insensitively
func GradeLevelsByCategory(category string) []GradeLevel {
	folded := Fold(category)
	var out []GradeLevel
	for _, g := range gradeLevels {
		if Fold(g.Category) == folded {
			out = append(out, g)
		}
	}
	return out
}

// SearchGradeLevels finds grades whose name or category contains the
// term, ignoring case and accents
func SearchGradeLevels(term string) []GradeLevel {
	folded := Fold(term)
	if folded == "" {
		return nil
	}
	var out []GradeLevel
	for _, g := range gradeLevels {
		if matches(g.Name, folded) || matches(g.Category, folded) {
			out = append(out, g)
		}
	}
	return out
}

// IsValidGrade reports whether name is a known grade level
func IsValidGrade(name string) bool {
	folded := Fold(name)
	for _, g := range gradeLevels {
		if Fold(g.Name) == folded {
			return true
		}
	}
	return false
}
