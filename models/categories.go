package models

import "strings"

// Categories is the fixed vocabulary shared by post categorization and
// preference validation. Matching is case-insensitive; stored values are
// always lowercase.
var Categories = []string{
	"technology",
	"programming",
	"web-development",
	"mobile-development",
	"data-science",
	"artificial-intelligence",
	"machine-learning",
	"cybersecurity",
	"cloud-computing",
	"devops",
	"design",
	"ui-ux",
	"business",
	"entrepreneurship",
	"finance",
	"marketing",
	"productivity",
	"career",
	"education",
	"tutorials",
	"reviews",
	"news",
	"opinion",
	"lifestyle",
	"health",
	"travel",
	"food",
	"entertainment",
	"sports",
	"science",
	"others",
}

// NormalizeCategory lowercases the input and reports vocabulary membership.
// The empty string is valid (category is optional on posts).
func NormalizeCategory(category string) (string, bool) {
	if category == "" {
		return "", true
	}
	lower := strings.ToLower(category)
	for _, c := range Categories {
		if c == lower {
			return lower, true
		}
	}
	return lower, false
}
