package javaast

import (
	"context"
	"fmt"
	"strings"

	"github.com/olexmal/megabrain-parsekit/internal/chunk"
	"github.com/olexmal/megabrain-parsekit/internal/coords"
)

var typeKeywords = []string{"class", "interface", "enum", "record"}

// Parser is the built-in Java parser: a structural, lexical scan that
// does not depend on Tree-sitter. It qualifies members with "#" against
// their enclosing type's dotted name, e.g. "com.example.Foo#bar(String)".
type Parser struct{}

// New returns the built-in Java parser.
func New() *Parser {
	return &Parser{}
}

// Language reports the registry key this parser answers to.
func (p *Parser) Language() string { return "java" }

// Parse scans source for package/type/member/anonymous-class boundaries and
// returns one chunk per entity found. It never returns a non-nil error for
// malformed input — a best-effort partial tree is preferred over a failure,
// consistent with the rest of the engine's failure-isolation design.
func (p *Parser) Parse(_ context.Context, source []byte, sourceFile string) ([]chunk.Chunk, error) {
	m := mask(source)
	w := &walker{
		source:     source,
		mask:       m,
		sc:         coords.New(string(source)),
		sourceFile: sourceFile,
		pkg:        findPackage(m),
	}
	w.scanMembers(0, len(source), "", "")
	return w.out, nil
}

type walker struct {
	source      []byte
	mask        []byte
	sc          *coords.SourceCoordinates
	sourceFile  string
	pkg         string
	anonCounter int
	out         []chunk.Chunk
}

// scanMembers walks a byte range looking for top-level statements: type
// declarations, method/constructor declarations, field declarations, and
// (inside anything else) anonymous-class instantiations.
func (w *walker) scanMembers(start, end int, enclosingFQN, enclosingSimple string) {
	i := start
	stmtStart := start
	for i < end {
		switch w.mask[i] {
		case '{':
			header := strings.TrimSpace(string(w.source[stmtStart:i]))
			closeBrace := matchBrace(w.mask, i)
			if closeBrace >= end {
				closeBrace = end - 1
			}
			if !w.handleBraceHeader(header, stmtStart, i, closeBrace, enclosingFQN, enclosingSimple) {
				w.scanAnonymousClasses(i+1, closeBrace, enclosingFQN)
			}
			i = closeBrace + 1
			stmtStart = i
		case ';':
			header := strings.TrimSpace(string(w.source[stmtStart:i]))
			w.handleSemicolonHeader(header, stmtStart, i, enclosingFQN, enclosingSimple)
			i++
			stmtStart = i
		default:
			i++
		}
	}
}

func (w *walker) handleBraceHeader(header string, hstart, openBrace, closeBrace int, enclosingFQN, enclosingSimple string) bool {
	if kw, name, ok := matchTypeDecl(header); ok {
		fqn := name
		switch {
		case enclosingFQN != "":
			fqn = enclosingFQN + "." + name
		case w.pkg != "":
			fqn = w.pkg + "." + name
		}
		attrs := chunk.NewAttributeMap()
		if w.pkg != "" {
			attrs.Set(chunk.AttrPackage, w.pkg)
		}
		if enclosingFQN != "" {
			attrs.Set(chunk.AttrParent, enclosingFQN)
		}
		attrs.Set(chunk.AttrKind, kw)
		w.emit(typeKeywordToEntity(kw), fqn, hstart, closeBrace+1, attrs)
		w.scanMembers(openBrace+1, closeBrace, fqn, name)
		return true
	}

	name, params, retType, mods, ok := matchMethodLike(header)
	if !ok {
		return false
	}
	isCtor := retType == "" && enclosingSimple != ""
	sig := name + "(" + strings.Join(extractParamTypes(params), ", ") + ")"

	entityName := sig
	if enclosingFQN != "" {
		entityName = enclosingFQN + "#" + sig
	}
	attrs := chunk.NewAttributeMap()
	if len(mods) > 0 {
		attrs.Set(chunk.AttrModifiers, strings.Join(mods, " "))
	}
	attrs.Set(chunk.AttrSignature, sig)
	attrs.Set(chunk.AttrParameters, strings.TrimSpace(params))
	if enclosingFQN != "" {
		attrs.Set(chunk.AttrParent, enclosingFQN)
	}
	entityType := chunk.EntityMethod
	if isCtor {
		entityType = chunk.EntityConstructor
	} else {
		attrs.Set(chunk.AttrReturnTypeJava, retType)
	}
	w.emit(entityType, entityName, hstart, closeBrace+1, attrs)
	w.scanAnonymousClasses(openBrace+1, closeBrace, enclosingFQN)
	return true
}

func (w *walker) handleSemicolonHeader(header string, hstart, semiPos int, enclosingFQN, enclosingSimple string) {
	if header == "" || enclosingFQN == "" {
		return
	}
	if strings.HasPrefix(header, "package ") || strings.HasPrefix(header, "import ") {
		return
	}
	if name, params, retType, mods, ok := matchMethodLike(header); ok {
		sig := name + "(" + strings.Join(extractParamTypes(params), ", ") + ")"
		entityName := enclosingFQN + "#" + sig
		attrs := chunk.NewAttributeMap()
		if len(mods) > 0 {
			attrs.Set(chunk.AttrModifiers, strings.Join(mods, " "))
		}
		attrs.Set(chunk.AttrSignature, sig)
		attrs.Set(chunk.AttrParameters, strings.TrimSpace(params))
		attrs.Set(chunk.AttrParent, enclosingFQN)
		entityType := chunk.EntityMethod
		if retType == "" && enclosingSimple != "" {
			entityType = chunk.EntityConstructor
		} else {
			attrs.Set(chunk.AttrReturnTypeJava, retType)
		}
		w.emit(entityType, entityName, hstart, semiPos+1, attrs)
		return
	}

	rest := header
	if eq := strings.Index(rest, "="); eq >= 0 {
		rest = rest[:eq]
	}
	mods, rest := stripModifiersAndAnnotations(strings.TrimSpace(rest))
	name := lastIdent(rest)
	if name == "" {
		return
	}
	fieldType := strings.TrimSpace(strings.TrimSuffix(rest, name))
	if fieldType == "" {
		return
	}
	attrs := chunk.NewAttributeMap()
	if len(mods) > 0 {
		attrs.Set(chunk.AttrModifiers, strings.Join(mods, " "))
	}
	attrs.Set(chunk.AttrFieldType, fieldType)
	attrs.Set(chunk.AttrParent, enclosingFQN)
	w.emit(chunk.EntityField, enclosingFQN+"#"+name, hstart, semiPos+1, attrs)
}

// scanAnonymousClasses looks for `new Type(...) {` inside a byte range
// (typically a method body or initializer block) and emits an
// EntityAnonymousClass chunk per occurrence found; it does not recurse
// into the anonymous body looking for further members.
func (w *walker) scanAnonymousClasses(start, end int, enclosingFQN string) {
	i := start
	for i < end {
		idx := indexWord(string(w.mask[i:end]), "new", 0)
		if idx < 0 {
			return
		}
		pos := i + idx + len("new")
		j := pos
		for j < end && isSpace(w.mask[j]) {
			j++
		}
		typeStart := j
		depth := 0
		for j < end && (isIdentPart(w.mask[j]) || w.mask[j] == '.' || w.mask[j] == '<' || w.mask[j] == '>' || depth > 0) {
			if w.mask[j] == '<' {
				depth++
			} else if w.mask[j] == '>' {
				depth--
			}
			j++
		}
		typeName := strings.TrimSpace(string(w.source[typeStart:j]))
		if typeName == "" {
			i = pos
			continue
		}
		k := j
		for k < end && isSpace(w.mask[k]) {
			k++
		}
		if k >= end || w.mask[k] != '(' {
			i = pos
			continue
		}
		closeParen := matchParen(string(w.mask[k:end]), 0)
		if closeParen < 0 {
			i = pos
			continue
		}
		closeParen += k
		b := closeParen + 1
		for b < end && isSpace(w.mask[b]) {
			b++
		}
		if b >= end || w.mask[b] != '{' {
			i = pos
			continue
		}
		closeBrace := matchBrace(w.mask, b)
		if closeBrace > end {
			closeBrace = end - 1
		}
		w.anonCounter++
		name := fmt.Sprintf("AnonymousClass%d", w.anonCounter)
		if enclosingFQN != "" {
			name = enclosingFQN + "#" + name
		}
		attrs := chunk.NewAttributeMap()
		attrs.Set(chunk.AttrSuperclass, typeName)
		w.emit(chunk.EntityAnonymousClass, name, pos-len("new"), closeBrace+1, attrs)
		i = closeBrace + 1
	}
}

func matchTypeDecl(header string) (kw, name string, ok bool) {
	for _, k := range typeKeywords {
		idx := indexWord(header, k, 0)
		if idx < 0 {
			continue
		}
		n := firstIdent(header[idx+len(k):])
		if n != "" {
			return k, n, true
		}
	}
	return "", "", false
}

// matchMethodLike recognizes "[modifiers] [type] name(params)" headers; a
// constructor is reported with an empty retType.
func matchMethodLike(header string) (name, params, retType string, mods []string, ok bool) {
	open := strings.Index(header, "(")
	if open < 0 {
		return
	}
	closeParen := matchParen(header, open)
	if closeParen < 0 || closeParen <= open {
		return
	}
	before := strings.TrimSpace(header[:open])
	if before == "" || endsWithControlKeyword(before) {
		return
	}
	mods, rest := stripModifiersAndAnnotations(before)
	name = lastIdent(rest)
	if name == "" {
		return
	}
	retType = strings.TrimSpace(strings.TrimSuffix(rest, name))
	params = header[open+1 : closeParen]
	ok = true
	return
}

func typeKeywordToEntity(kw string) chunk.EntityType {
	switch kw {
	case "interface":
		return chunk.EntityInterface
	case "enum":
		return chunk.EntityEnum
	case "record":
		return chunk.EntityRecord
	default:
		return chunk.EntityClass
	}
}

func (w *walker) emit(entityType chunk.EntityType, name string, startByte, endByte int, attrs *chunk.AttributeMap) {
	if startByte < 0 {
		startByte = 0
	}
	if endByte > len(w.source) {
		endByte = len(w.source)
	}
	if endByte <= startByte {
		return
	}
	content := string(w.source[startByte:endByte])
	startLine := w.sc.ToLineNumber(startByte)
	endLine := w.sc.ToLineNumber(endByte - 1)
	if endLine < startLine {
		endLine = startLine
	}
	c, err := chunk.New(content, "java", entityType, name, w.sourceFile, startLine, endLine, startByte, endByte, attrs)
	if err != nil {
		return
	}
	w.out = append(w.out, c)
}
