package str

import (
	"strings"
	"unicode"
)

// ToScreamingSnakeCase transforms a given string into screaming snake case format
func ToScreamingSnakeCase(in string) string {
	in = strings.TrimSpace(in)
	if len(in) == 0 {
		return in
	}

	sb := strings.Builder{}
	sb.Grow(len(in) + len(in)/3) // estimate space for underscores

	for i, b := range []byte(in) {
		shouldWrite := true
		needsSeparator := false

		switch {
		case 'a' <= b && b <= 'z':
			b -= 'a' - 'A' // convert to uppercase
		case 'A' <= b && b <= 'Z':
			needsSeparator = true
		case b == '_' || b == '-':
			shouldWrite = false
			needsSeparator = true
		case '0' <= b && b <= '9':
			needsSeparator = true
		}

		if i > 0 && needsSeparator {
			sb.WriteByte('_')
		}

		if shouldWrite {
			sb.WriteByte(b)
		}
	}

	return sb.String()
}

// ToSnakeCase transforms a Go identifier into snake case, keeping acronyms together:
// "FooBar" gives "foo_bar" and "HTTPServer" gives "http_server".
func ToSnakeCase(in string) string {
	runes := []rune(strings.TrimSpace(in))
	if len(runes) == 0 {
		return ""
	}

	sb := strings.Builder{}
	sb.Grow(len(runes) + len(runes)/3)

	for i, r := range runes {
		switch {
		case unicode.IsUpper(r):
			if i > 0 && startsWord(runes, i) {
				sb.WriteByte('_')
			}
			sb.WriteRune(unicode.ToLower(r))
		case r == '-' || r == ' ':
			sb.WriteByte('_')
		default:
			sb.WriteRune(r)
		}
	}

	return sb.String()
}

func startsWord(runes []rune, i int) bool {
	prev := runes[i-1]
	if unicode.IsLower(prev) || unicode.IsDigit(prev) {
		return true
	}
	return unicode.IsUpper(prev) && i+1 < len(runes) && unicode.IsLower(runes[i+1])
}
