package slugify

import (
	"regexp"
	"strings"
)

// arabicToLatin is the transliteration table the site has always used for
// URL slugs. It is intentionally lossy (hamza variants collapse).
var arabicToLatin = map[rune]string{
	'ا': "a", 'أ': "a", 'إ': "i", 'آ': "a",
	'ب': "b", 'ت': "t", 'ث': "th",
	'ج': "j", 'ح': "h", 'خ': "kh",
	'د': "d", 'ذ': "dh", 'ر': "r", 'ز': "z",
	'س': "s", 'ش': "sh", 'ص': "s", 'ض': "d",
	'ط': "t", 'ظ': "z", 'ع': "a", 'غ': "gh",
	'ف': "f", 'ق': "q", 'ك': "k", 'ل': "l",
	'م': "m", 'ن': "n", 'ه': "h", 'و': "w",
	'ي': "y", 'ى': "a", 'ة': "h", 'ئ': "e",
	'ء': "a", 'ؤ': "o",
}

var (
	nonWordPattern  = regexp.MustCompile(`[^a-z0-9\-_]+`)
	multiDashRegexp = regexp.MustCompile(`-{2,}`)
)

// Slugify turns a title (English or Arabic) into a URL-safe kebab-case slug.
func Slugify(text string) string {
	s := strings.ToLower(strings.TrimSpace(text))

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if latin, ok := arabicToLatin[r]; ok {
			b.WriteString(latin)
			continue
		}
		b.WriteRune(r)
	}

	slug := strings.Join(strings.Fields(b.String()), "-")
	slug = nonWordPattern.ReplaceAllString(slug, "")
	slug = multiDashRegexp.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

// NormalizeAlef collapses the alef hamza variants so Arabic search matches
// regardless of how the writer spelled them.
func NormalizeAlef(text string) string {
	if text == "" {
		return text
	}
	return strings.NewReplacer("أ", "ا", "إ", "ا", "آ", "ا").Replace(text)
}
