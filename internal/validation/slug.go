package validation

import "fmt"

// Slugs that collide with API routes or built-in pages.
var reservedPlatformSlugs = map[string]struct{}{
	"admin":            {},
	"api":              {},
	"auth":             {},
	"settings":         {},
	"users":            {},
	"posts":            {},
	"hooks":            {},
	"ideas":            {},
	"profiles":         {},
	"projects":         {},
	"platforms":        {},
	"historical-posts": {},
	"health":           {},
	"metrics":          {},
	"login":            {},
	"signup":           {},
	"logout":           {},
	"refresh":          {},
}

// ValidatePlatformSlug validates platform slug format and reserved names.
func ValidatePlatformSlug(slug string) error {
	if err := ValidateSlug(slug); err != nil {
		return err
	}

	if _, exists := reservedPlatformSlugs[slug]; exists {
		return fmt.Errorf("slug is reserved")
	}

	return nil
}
