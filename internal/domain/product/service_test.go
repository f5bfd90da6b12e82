package product

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Classic T-Shirt":      "classic-t-shirt",
		"  Spaced  Out  ":      "spaced-out",
		"Été Spécial":           "t-sp-cial",
		"UPPER case 123":       "upper-case-123",
		"trailing punctuation!": "trailing-punctuation",
	}

	for input, expected := range cases {
		assert.Equal(t, expected, Slugify(input), "input: %q", input)
	}
}

func TestBuildOrderClause(t *testing.T) {
	assert.Equal(t, "price asc", buildOrderClause("price", "asc"))
	assert.Equal(t, "name desc", buildOrderClause("name", "desc"))

	// Unknown fields and orders fall back to defaults
	assert.Equal(t, "created_at desc", buildOrderClause("evil; DROP TABLE", "asc; --"))
	assert.Equal(t, "created_at desc", buildOrderClause("", ""))
}

func TestVariantStock(t *testing.T) {
	v := ProductVariant{Stock: 3}
	assert.True(t, v.HasStock(3))
	assert.False(t, v.HasStock(4))
	assert.False(t, (&ProductVariant{}).HasStock(1))
}

func TestProductIsInStock(t *testing.T) {
	p := Product{Variants: []ProductVariant{{Stock: 0}, {Stock: 2}}}
	assert.True(t, p.IsInStock())

	soldOut := Product{Variants: []ProductVariant{{Stock: 0}}}
	assert.False(t, soldOut.IsInStock())
	assert.False(t, (&Product{}).IsInStock())
}

func TestGetFormattedPrice(t *testing.T) {
	p := Product{Price: 2500}
	assert.Equal(t, 25.0, p.GetFormattedPrice())
}
