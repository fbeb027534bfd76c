package property

import (
	"crypto/rand"
	"encoding/hex"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// slugFolder strips diacritics so accented addresses slugify cleanly.
var slugFolder = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// GenerateSlug derives a URL slug from address parts, lowercased with
// hyphens, diacritics folded, plus a short random suffix so regeneration
// always produces a fresh value for the same address.
func GenerateSlug(parts ...string) string {
	joined := strings.Join(parts, " ")
	folded, _, err := transform.String(slugFolder, joined)
	if err != nil {
		folded = joined
	}

	var b strings.Builder
	lastHyphen := true // suppress leading hyphen
	for _, r := range strings.ToLower(folded) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	slug := strings.TrimSuffix(b.String(), "-")
	if slug == "" {
		slug = "property"
	}

	return slug + "-" + slugSuffix()
}

// slugSuffix returns 4 random hex bytes.
func slugSuffix() string {
	buf := make([]byte, 4)
	if _, err := rand.Read(buf); err != nil {
		// math/rand fallback is not worth the import; a fixed suffix only
		// costs an extra uniqueness retry.
		return "00000000"
	}
	return hex.EncodeToString(buf)
}
