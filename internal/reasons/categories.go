package reasons

import "slices"

// categories is the fixed set of labels a category filter may name, in display order.
var categories = []string{
	"philosophical",
	"sassy",
	"playful",
	"absurd",
	"tech-humor",
	"sarcastic",
	"workplace",
	"fantasy",
	"modern",
	"gaming",
	"science",
	"dark-humor",
}

// Categories returns the recognized category labels.
func Categories() []string {
	return slices.Clone(categories)
}

// IsCategory reports whether name is a recognized category label. Matching is case-sensitive.
func IsCategory(name string) bool {
	return slices.Contains(categories, name)
}
