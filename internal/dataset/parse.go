package dataset

import (
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/reciperadar/reciperadar/pkg/recipe"
)

// ParseListLiteral parses a Python-style list literal such as
// ['flour', "rolled oats"] into its string elements. Anything that is
// not a list literal yields nil.
func ParseListLiteral(s string) []string {
	s = strings.TrimSpace(s)
	if len(s) < 2 || s[0] != '[' || s[len(s)-1] != ']' {
		return nil
	}
	body := s[1 : len(s)-1]
	if strings.TrimSpace(body) == "" {
		return nil
	}

	var (
		out     []string
		cur     strings.Builder
		quote   byte
		inQuote bool
	)
	flush := func() {
		v := strings.TrimSpace(cur.String())
		cur.Reset()
		if v != "" {
			out = append(out, norm.NFKC.String(v))
		}
	}
	for i := 0; i < len(body); i++ {
		c := body[i]
		switch {
		case inQuote:
			if c == '\\' && i+1 < len(body) {
				i++
				cur.WriteByte(body[i])
				continue
			}
			if c == quote {
				inQuote = false
				continue
			}
			cur.WriteByte(c)
		case c == '\'' || c == '"':
			inQuote = true
			quote = c
		case c == ',':
			flush()
		default:
			cur.WriteByte(c)
		}
	}
	flush()
	return out
}

// ParseNutrients parses the raw nutrition field into the fixed-order
// nutrient vector. Malformed or short vectors come back fully missing;
// a well-shaped vector with unreadable entries keeps NaN in those
// positions only.
func ParseNutrients(s string) recipe.Nutrients {
	s = strings.TrimSpace(s)
	if len(s) < 2 || s[0] != '[' || s[len(s)-1] != ']' {
		return recipe.Missing()
	}
	parts := strings.Split(s[1:len(s)-1], ",")
	if len(parts) != recipe.NutrientCount {
		return recipe.Missing()
	}
	n := recipe.Missing()
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			continue
		}
		n[i] = v
	}
	return n
}
