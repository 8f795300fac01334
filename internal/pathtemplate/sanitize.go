package pathtemplate

import "strings"

// SanitizePathComponent applies the rules in: replace path
// separators with a space, drop control characters, replace characters
// illegal on common filesystems with underscore, trim edge whitespace
// and trailing dots, and guarantee a non-empty result. Running this
// function twice on its own output yields the same output.
func SanitizePathComponent(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r == '/' || r == '\\':
			b.WriteRune(' ')
		case r < 0x20 || r == 0x7f:
			// drop C0 controls and DEL
		case r == ':' || r == '*' || r == '?' || r == '"' || r == '<' || r == '>' || r == '|':
			b.WriteRune('_')
		default:
			b.WriteRune(r)
		}
	}
	out := strings.TrimSpace(b.String())
	out = strings.TrimRight(out, ".")
	out = strings.TrimSpace(out)
	if out == "" {
		return "_"
	}
	return out
}

var asciifyTable = map[rune]string{
	'á': "a", 'à': "a", 'â': "a", 'ä': "a", 'ã': "a", 'å': "a", 'ā': "a",
	'Á': "A", 'À': "A", 'Â': "A", 'Ä': "A", 'Ã': "A", 'Å': "A", 'Ā': "A",
	'é': "e", 'è': "e", 'ê': "e", 'ë': "e", 'ē': "e",
	'É': "E", 'È': "E", 'Ê': "E", 'Ë': "E", 'Ē': "E",
	'í': "i", 'ì': "i", 'î': "i", 'ï': "i", 'ī': "i",
	'Í': "I", 'Ì': "I", 'Î': "I", 'Ï': "I", 'Ī': "I",
	'ó': "o", 'ò': "o", 'ô': "o", 'ö': "o", 'õ': "o", 'ō': "o", 'ø': "o",
	'Ó': "O", 'Ò': "O", 'Ô': "O", 'Ö': "O", 'Õ': "O", 'Ō': "O", 'Ø': "O",
	'ú': "u", 'ù': "u", 'û': "u", 'ü': "u", 'ū': "u",
	'Ú': "U", 'Ù': "U", 'Û': "U", 'Ü': "U", 'Ū': "U",
	'ñ': "n", 'Ñ': "N",
	'ç': "c", 'Ç': "C",
	'ý': "y", 'ÿ': "y", 'Ý': "Y",
	'ß': "ss",
	'æ': "ae", 'Æ': "AE",
	'œ': "oe", 'Œ': "OE",
	'–': "-", '—': "-", '‐': "-", '‑': "-",
	'‘': "'", '’': "'", '“': "\"", '”': "\"",
	'…': "...",
}

// Asciify transliterates common diacritics, dash variants, and curly
// quotes to their closest ASCII equivalent, dropping any remaining
// non-ASCII code point. The result is always valid ASCII.
func Asciify(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r < 0x80 {
			b.WriteRune(r)
			continue
		}
		if repl, ok := asciifyTable[r]; ok {
			b.WriteString(repl)
			continue
		}
		// Unmapped non-ASCII: drop.
	}
	return b.String()
}
