package slugify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Hello World":          "hello-world",
		"  Trimmed  Title  ":   "trimmed-title",
		"Already-kebab_case":   "already-kebab_case",
		"Punctuation, kept()?": "punctuation-kept",
		"تاريخ الأندلس":        "tarykh-alandls",
		"":                     "",
	}
	for in, want := range cases {
		assert.Equal(t, want, Slugify(in), "input %q", in)
	}
}

func TestSlugifyCollapsesDashes(t *testing.T) {
	assert.Equal(t, "a-b", Slugify("a --- b"))
	assert.Equal(t, "edge", Slugify("--edge--"))
}

func TestNormalizeAlef(t *testing.T) {
	assert.Equal(t, "الاندلس", NormalizeAlef("الأندلس"))
	assert.Equal(t, "اسلام", NormalizeAlef("إسلام"))
	assert.Equal(t, "القران", NormalizeAlef("القرآن"))
	assert.Equal(t, "", NormalizeAlef(""))
	assert.Equal(t, "plain", NormalizeAlef("plain"))
}
