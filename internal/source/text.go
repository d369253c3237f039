package source

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

func isIdentRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// leadingIdent returns the identifier at the start of s.
func leadingIdent(s string) string {
	if strings.HasPrefix(s, "`") {
		if end := strings.IndexByte(s[1:], '`'); end >= 0 {
			return s[1 : end+1]
		}
		return ""
	}
	for i, r := range s {
		if !isIdentRune(r) {
			return s[:i]
		}
	}
	return s
}

// trailingIdent returns the identifier at the end of s.
func trailingIdent(s string) string {
	i := len(s)
	for i > 0 {
		r, size := utf8.DecodeLastRuneInString(s[:i])
		if !isIdentRune(r) {
			break
		}
		i -= size
	}
	return s[i:]
}

// hasKeyword reports whether s starts with kw as a whole word.
func hasKeyword(s, kw string) bool {
	if !strings.HasPrefix(s, kw) {
		return false
	}
	r, _ := utf8.DecodeRuneInString(s[len(kw):])
	return len(s) == len(kw) || !isIdentRune(r)
}

// jumpKeywords take an `@label` suffix that names a target, not a label.
var jumpKeywords = map[string]bool{
	"return": true, "break": true, "continue": true, "this": true, "super": true,
}

// labelPrefix extracts `name` from text starting with `name@`.
func labelPrefix(text string) string {
	text = strings.TrimSpace(text)
	id := leadingIdent(text)
	if id == "" || jumpKeywords[id] {
		return ""
	}
	rest := text[len(id):]
	if strings.HasPrefix(text, "`") {
		rest = text[len(id)+2:]
	}
	if strings.HasPrefix(rest, "@") {
		return id
	}
	return ""
}

// labelBefore extracts `name` when the text preceding a statement ends with
// `name@`.
func labelBefore(prefix string) string {
	p := strings.TrimRightFunc(prefix, unicode.IsSpace)
	if !strings.HasSuffix(p, "@") {
		return ""
	}
	return trailingIdent(p[:len(p)-1])
}

// returnTarget extracts `l` from `return@l ...`.
func returnTarget(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "return@") {
		return ""
	}
	return leadingIdent(text[len("return@"):])
}

// namedArgumentBefore recognises `name =` directly before an argument inside
// an argument list.
func namedArgumentBefore(prefix string) string {
	p := strings.TrimRightFunc(prefix, unicode.IsSpace)
	if !strings.HasSuffix(p, "=") {
		return ""
	}
	p = p[:len(p)-1]
	if strings.HasSuffix(p, "=") || strings.HasSuffix(p, "!") || strings.HasSuffix(p, "<") || strings.HasSuffix(p, ">") {
		return ""
	}
	p = strings.TrimSuffix(strings.TrimRightFunc(p, unicode.IsSpace), "`")
	name := trailingIdent(p)
	if name == "" {
		return ""
	}
	before := strings.TrimSuffix(p[:len(p)-len(name)], "`")
	before = strings.TrimRightFunc(before, unicode.IsSpace)
	if strings.HasSuffix(before, "(") || strings.HasSuffix(before, ",") {
		return name
	}
	return ""
}

// skipBalanced returns the index just past the bracket matching s[0].
func skipBalanced(s string, open, close byte) int {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return i + 1
			}
		}
	}
	return -1
}

// declaresTypeText answers HasExplicitType from declaration text alone.
func declaresTypeText(text string) bool {
	text = stripModifiers(strings.TrimSpace(text))
	switch {
	case hasKeyword(text, "fun"):
		open := strings.IndexByte(text, '(')
		if open < 0 {
			return false
		}
		end := skipBalanced(text[open:], '(', ')')
		if end < 0 {
			return false
		}
		return strings.HasPrefix(strings.TrimSpace(text[open+end:]), ":")
	case hasKeyword(text, "val"), hasKeyword(text, "var"):
		rest := strings.TrimSpace(text[3:])
		if strings.HasPrefix(rest, "(") {
			return false
		}
		rest = skipReceiver(rest)
		id := leadingIdent(rest)
		return strings.HasPrefix(strings.TrimSpace(rest[len(id):]), ":")
	}
	id := leadingIdent(text)
	return id != "" && strings.HasPrefix(strings.TrimSpace(text[len(id):]), ":")
}

// skipReceiver drops an extension receiver such as `String.` or `List<T>.`.
func skipReceiver(s string) string {
	id := leadingIdent(s)
	rest := s[len(id):]
	if strings.HasPrefix(rest, "<") {
		if end := skipBalanced(rest, '<', '>'); end > 0 {
			rest = rest[end:]
		}
	}
	rest = strings.TrimPrefix(rest, "?")
	if strings.HasPrefix(rest, ".") {
		return rest[1:]
	}
	return s
}

var modifierWords = []string{
	"private", "protected", "internal", "public", "final", "open", "abstract",
	"sealed", "override", "lateinit", "const", "inline", "suspend", "tailrec",
	"operator", "infix", "external", "data", "inner", "vararg", "noinline",
	"crossinline", "actual", "expect",
}

func stripModifiers(text string) string {
	for {
		text = strings.TrimSpace(text)
		if strings.HasPrefix(text, "@") {
			id := leadingIdent(text[1:])
			rest := text[1+len(id):]
			if strings.HasPrefix(rest, "(") {
				if end := skipBalanced(rest, '(', ')'); end > 0 {
					rest = rest[end:]
				}
			}
			text = rest
			continue
		}
		stripped := false
		for _, m := range modifierWords {
			if hasKeyword(text, m) {
				text = text[len(m):]
				stripped = true
				break
			}
		}
		if !stripped {
			return text
		}
	}
}

func numberBase(text string) int {
	t := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(text), "-"))
	switch {
	case strings.HasPrefix(t, "0x"):
		return 16
	case strings.HasPrefix(t, "0b"):
		return 2
	}
	return 10
}

func isScientific(text string) bool {
	t := strings.ToLower(strings.TrimSpace(text))
	if t == "" || strings.HasPrefix(t, "0x") || strings.HasPrefix(t, "-0x") {
		return false
	}
	return strings.ContainsRune(t, 'e')
}
