package link

import "github.com/jaevor/go-nanoid"

// SlugLength is the length of generated slugs. With nanoid's 64-character
// URL-safe alphabet this gives 64^6 (~68 billion) possible values; collisions
// are additionally guarded by a creation-time uniqueness check.
const SlugLength = 6

// SlugGenerator produces short random URL-safe identifiers.
type SlugGenerator func() string

// NewSlugGenerator creates a nanoid-backed slug generator.
func NewSlugGenerator() (SlugGenerator, error) {
	gen, err := nanoid.Standard(SlugLength)
	if err != nil {
		return nil, err
	}

	return SlugGenerator(gen), nil
}
