package javaast

import "strings"

var modifierKeywords = map[string]bool{
	"public": true, "private": true, "protected": true, "static": true,
	"final": true, "abstract": true, "synchronized": true, "native": true,
	"transient": true, "volatile": true, "strictfp": true, "default": true,
}

var controlKeywords = map[string]bool{
	"if": true, "for": true, "while": true, "switch": true, "catch": true,
	"synchronized": true, "try": true, "do": true, "return": true,
	"else": true, "static": true, "finally": true,
}

// indexWord finds the first occurrence of word as a standalone identifier
// (not a substring of a longer identifier) in s, starting at from.
func indexWord(s, word string, from int) int {
	for i := from; i+len(word) <= len(s); i++ {
		if s[i:i+len(word)] != word {
			continue
		}
		if i > 0 && isIdentPart(s[i-1]) {
			continue
		}
		if i+len(word) < len(s) && isIdentPart(s[i+len(word)]) {
			continue
		}
		return i
	}
	return -1
}

// firstIdent returns the first identifier token in s, skipping leading
// whitespace.
func firstIdent(s string) string {
	i := 0
	for i < len(s) && isSpace(s[i]) {
		i++
	}
	start := i
	for i < len(s) && isIdentPart(s[i]) {
		i++
	}
	return s[start:i]
}

// lastIdent returns the last identifier token in s.
func lastIdent(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	last := fields[len(fields)-1]
	// Strip trailing punctuation such as array brackets if present.
	end := len(last)
	for end > 0 && !isIdentPart(last[end-1]) {
		end--
	}
	start := end
	for start > 0 && isIdentPart(last[start-1]) {
		start--
	}
	return last[start:end]
}

func endsWithControlKeyword(s string) bool {
	last := lastIdent(s)
	return controlKeywords[last]
}

// stripModifiersAndAnnotations removes leading annotation tokens (@Foo or
// @Foo(...)) and modifier keywords from s, returning the collected
// modifiers and the remaining text.
func stripModifiersAndAnnotations(s string) (mods []string, rest string) {
	tokens := tokenizeTopLevel(s)
	i := 0
	for i < len(tokens) {
		t := tokens[i]
		if strings.HasPrefix(t, "@") {
			i++
			continue
		}
		if modifierKeywords[t] {
			mods = append(mods, t)
			i++
			continue
		}
		break
	}
	rest = strings.Join(tokens[i:], " ")
	return
}

// tokenizeTopLevel splits s on whitespace, but keeps an annotation's
// parenthesized argument list glued to its "@Name" token so it is skipped
// as one unit.
func tokenizeTopLevel(s string) []string {
	var out []string
	i := 0
	n := len(s)
	for i < n {
		for i < n && isSpace(s[i]) {
			i++
		}
		if i >= n {
			break
		}
		start := i
		if s[i] == '@' {
			i++
			for i < n && isIdentPart(s[i]) {
				i++
			}
			if i < n && s[i] == '(' {
				depth := 1
				i++
				for i < n && depth > 0 {
					if s[i] == '(' {
						depth++
					} else if s[i] == ')' {
						depth--
					}
					i++
				}
			}
		} else {
			for i < n && !isSpace(s[i]) {
				i++
			}
		}
		out = append(out, s[start:i])
	}
	return out
}

// matchParen returns the index (in s) of the ')' matching the '(' at
// openIdx, or -1 if unbalanced.
func matchParen(s string, openIdx int) int {
	depth := 0
	for i := openIdx; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// matchBrace returns the index (in masked) of the '}' matching the '{' at
// openIdx, or len(masked)-1 if unbalanced.
func matchBrace(masked []byte, openIdx int) int {
	depth := 0
	for i := openIdx; i < len(masked); i++ {
		switch masked[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return len(masked) - 1
}

// splitTopLevelCommas splits s on commas that are not nested inside
// <>, (), or [] — needed for parameter lists with generic types.
func splitTopLevelCommas(s string) []string {
	var out []string
	depth := 0
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '<', '(', '[':
			depth++
		case '>', ')', ']':
			if depth > 0 {
				depth--
			}
		case ',':
			if depth == 0 {
				out = append(out, s[start:i])
				start = i + 1
			}
		}
	}
	out = append(out, s[start:])
	return out
}

func extractParamTypes(paramsStr string) []string {
	paramsStr = strings.TrimSpace(paramsStr)
	if paramsStr == "" {
		return nil
	}
	parts := splitTopLevelCommas(paramsStr)
	var types []string
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		_, rest := stripModifiersAndAnnotations(p)
		if rest == "" {
			rest = p
		}
		fields := strings.Fields(rest)
		if len(fields) == 0 {
			continue
		}
		if len(fields) == 1 {
			types = append(types, fields[0])
			continue
		}
		types = append(types, strings.Join(fields[:len(fields)-1], " "))
	}
	return types
}

func findPackage(masked []byte) string {
	idx := indexWord(string(masked), "package", 0)
	if idx < 0 {
		return ""
	}
	rest := string(masked[idx+len("package"):])
	i := 0
	for i < len(rest) && isSpace(rest[i]) {
		i++
	}
	start := i
	for i < len(rest) && (isIdentPart(rest[i]) || rest[i] == '.') {
		i++
	}
	return strings.Trim(rest[start:i], ".")
}
