package jtl

import (
	"fmt"
	"reflect"

	"github.com/itsatony/go-jtl/internal"
	"go.uber.org/zap"
)

// Position is a location in template source.
type Position = internal.Position

// MatchMode selects how opening and closing block markers are paired.
type MatchMode = internal.MatchMode

const (
	// MatchModeNested balances nested blocks of the same kind. Conditionals inside a loop
	// body are evaluated once per iteration against the iteration scope, so
	// "{{#each xs}}{{#if this}}x{{/if}}{{/each}}" renders "x" for xs [true] where
	// MatchModeLegacy, which runs every conditional before any loop, renders "".
	// Rendered output is never re-scanned.
	MatchModeNested = internal.MatchModeNested
	// MatchModeLegacy ends a block at the first closing marker of its kind and lets every
	// substitution pass scan the whole text, including output of earlier passes.
	MatchModeLegacy = internal.MatchModeLegacy
)

// ParseMatchMode converts "nested" or "legacy" to a MatchMode. An empty name is nested.
func ParseMatchMode(name string) (MatchMode, error) {
	mode, ok := internal.ParseMatchMode(name)
	if !ok {
		return MatchModeNested, NewInvalidMatchModeError(name)
	}
	return mode, nil
}

// ElementKind identifies the variant of a CodeElement.
type ElementKind int

const (
	ElementKindText ElementKind = iota
	ElementKindHTMLTag
	ElementKindConditional
	ElementKindForEach
	ElementKindInclude
)

// String returns the string representation of the element kind
func (k ElementKind) String() string {
	switch k {
	case ElementKindText:
		return ElementKindNameText
	case ElementKindHTMLTag:
		return ElementKindNameHTMLTag
	case ElementKindConditional:
		return ElementKindNameConditional
	case ElementKindForEach:
		return ElementKindNameForEach
	case ElementKindInclude:
		return ElementKindNameInclude
	default:
		return ElementKindNameUnknown
	}
}

// CodeElement is a structural unit of a template. The set of variants is closed:
// TextElement, HTMLTagElement, ConditionalStatement, ForEachStatement and IncludeStatement.
type CodeElement interface {
	Kind() ElementKind
	// OpeningTag is empty for variants without tags.
	OpeningTag() string
	// ClosingTag is empty for variants without a closing tag.
	ClosingTag() string
	TagName() string
	// Line is the raw source text the element was scanned from.
	Line() string
	Content() string
	Children() []CodeElement
	Pos() Position

	sealed()
}

// Statement is implemented by the control-construct variants.
type Statement interface {
	CodeElement
	// Statement is the semantic form, e.g. "if age >= 18", "each items", "include header".
	Statement() string
}

type element struct {
	line    string
	content string
	pos     Position
}

func (e element) Line() string    { return e.line }
func (e element) Content() string { return e.content }
func (e element) Pos() Position   { return e.pos }
func (element) sealed()           {}

// TextElement is literal template text.
type TextElement struct {
	element
}

// NewTextElement creates a text element.
func NewTextElement(text string, pos Position) *TextElement {
	return &TextElement{element{line: text, content: text, pos: pos}}
}

func (*TextElement) Kind() ElementKind       { return ElementKindText }
func (*TextElement) OpeningTag() string      { return "" }
func (*TextElement) ClosingTag() string      { return "" }
func (*TextElement) TagName() string         { return "" }
func (*TextElement) Children() []CodeElement { return nil }

// HTMLTagElement is an HTML element with optional children.
type HTMLTagElement struct {
	element
	name     string
	opening  string
	closing  string
	children []CodeElement
}

// NewHTMLTagElement creates an HTML tag element. children is copied.
func NewHTMLTagElement(name, opening, closing, line string, pos Position, children ...CodeElement) *HTMLTagElement {
	content := ""
	for _, child := range children {
		content += child.Content()
	}
	return &HTMLTagElement{
		element:  element{line: line, content: content, pos: pos},
		name:     name,
		opening:  opening,
		closing:  closing,
		children: append([]CodeElement(nil), children...),
	}
}

func (*HTMLTagElement) Kind() ElementKind    { return ElementKindHTMLTag }
func (h *HTMLTagElement) OpeningTag() string { return h.opening }
func (h *HTMLTagElement) ClosingTag() string { return h.closing }
func (h *HTMLTagElement) TagName() string    { return h.name }

// Children returns a copy of the child elements.
func (h *HTMLTagElement) Children() []CodeElement {
	return append([]CodeElement(nil), h.children...)
}

// ConditionalStatement is an {{#if}} block. Its single child holds the inner content verbatim.
type ConditionalStatement struct {
	element
	condition string
	body      *TextElement
}

// NewConditionalStatement creates a conditional statement.
func NewConditionalStatement(condition, inner, line string, pos Position) *ConditionalStatement {
	return &ConditionalStatement{
		element:   element{line: line, content: inner, pos: pos},
		condition: condition,
		body:      NewTextElement(inner, pos),
	}
}

func (*ConditionalStatement) Kind() ElementKind { return ElementKindConditional }
func (c *ConditionalStatement) OpeningTag() string {
	return fmt.Sprintf(OpeningIfFmt, c.condition)
}
func (*ConditionalStatement) ClosingTag() string        { return ClosingIf }
func (*ConditionalStatement) TagName() string           { return TagNameIf }
func (c *ConditionalStatement) Children() []CodeElement { return []CodeElement{c.body} }
func (c *ConditionalStatement) Statement() string       { return fmt.Sprintf(StatementIfFmt, c.condition) }
func (c *ConditionalStatement) Condition() string       { return c.condition }

// ForEachStatement is an {{#each}} block. Its single child holds the inner content verbatim.
type ForEachStatement struct {
	element
	itemsPath string
	body      *TextElement
}

// NewForEachStatement creates a loop statement.
func NewForEachStatement(itemsPath, inner, line string, pos Position) *ForEachStatement {
	return &ForEachStatement{
		element:   element{line: line, content: inner, pos: pos},
		itemsPath: itemsPath,
		body:      NewTextElement(inner, pos),
	}
}

func (*ForEachStatement) Kind() ElementKind { return ElementKindForEach }
func (f *ForEachStatement) OpeningTag() string {
	return fmt.Sprintf(OpeningEachFmt, f.itemsPath)
}
func (*ForEachStatement) ClosingTag() string        { return ClosingEach }
func (*ForEachStatement) TagName() string           { return TagNameEach }
func (f *ForEachStatement) Children() []CodeElement { return []CodeElement{f.body} }
func (f *ForEachStatement) Statement() string       { return fmt.Sprintf(StatementEachFmt, f.itemsPath) }
func (f *ForEachStatement) ItemsPath() string       { return f.itemsPath }

// IncludeStatement is a {{> name}} marker. It has no closing tag and no children.
type IncludeStatement struct {
	element
	name string
}

// NewIncludeStatement creates an include statement.
func NewIncludeStatement(name, line string, pos Position) *IncludeStatement {
	return &IncludeStatement{
		element: element{line: line, content: name, pos: pos},
		name:    name,
	}
}

func (*IncludeStatement) Kind() ElementKind       { return ElementKindInclude }
func (i *IncludeStatement) OpeningTag() string    { return fmt.Sprintf(OpeningIncFmt, i.name) }
func (*IncludeStatement) ClosingTag() string      { return "" }
func (*IncludeStatement) TagName() string         { return TagNameInclude }
func (*IncludeStatement) Children() []CodeElement { return nil }
func (i *IncludeStatement) Statement() string     { return fmt.Sprintf(StatementIncFmt, i.name) }
func (i *IncludeStatement) TemplateName() string  { return i.name }

// CodeStructure is the ordered element list extracted from a template.
// Elements are grouped by kind: conditionals, then loops, then includes.
type CodeStructure struct {
	structureType string
	elements      []CodeElement
}

// NewCodeStructure creates a structure. An empty type defaults to "HTML".
func NewCodeStructure(structureType string, elements []CodeElement) *CodeStructure {
	if structureType == "" {
		structureType = DefaultStructureType
	}
	return &CodeStructure{
		structureType: structureType,
		elements:      append([]CodeElement(nil), elements...),
	}
}

// Type returns the structure type tag.
func (s *CodeStructure) Type() string {
	return s.structureType
}

// Elements returns a copy of the elements.
func (s *CodeStructure) Elements() []CodeElement {
	return append([]CodeElement(nil), s.elements...)
}

// Len returns the number of elements.
func (s *CodeStructure) Len() int {
	return len(s.elements)
}

// Equal reports whether both structures have the same type and elements.
func (s *CodeStructure) Equal(other *CodeStructure) bool {
	if s == nil || other == nil {
		return s == other
	}
	return s.structureType == other.structureType && reflect.DeepEqual(s.elements, other.elements)
}

// StructureParser extracts the control constructs of a template for introspection.
type StructureParser struct {
	mode          MatchMode
	structureType string
	logger        *zap.Logger
}

// NewStructureParser creates a parser. An empty structureType defaults to "HTML".
func NewStructureParser(mode MatchMode, structureType string, logger *zap.Logger) *StructureParser {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StructureParser{
		mode:          mode,
		structureType: structureType,
		logger:        logger,
	}
}

// Parse scans raw in three passes over the whole text: conditional blocks, loop blocks,
// include markers. Each pass appends its matches in textual order before the next runs.
// Block contents are kept verbatim as a single text child; nested constructs are not
// decomposed.
func (p *StructureParser) Parse(raw string) *CodeStructure {
	tokens := internal.NewScanner(raw, p.logger).Scan()

	var elements []CodeElement
	for _, b := range internal.MatchBlocks(tokens, internal.BlockKindIf, p.mode) {
		elements = append(elements, NewConditionalStatement(b.Argument(), b.Inner(raw), b.Raw(raw), b.Open.Position))
	}
	for _, b := range internal.MatchBlocks(tokens, internal.BlockKindEach, p.mode) {
		elements = append(elements, NewForEachStatement(b.Argument(), b.Inner(raw), b.Raw(raw), b.Open.Position))
	}
	for _, tok := range tokens {
		if tok.Type == internal.TokenTypeInclude {
			elements = append(elements, NewIncludeStatement(tok.Value, raw[tok.Start:tok.End], tok.Position))
		}
	}

	return NewCodeStructure(p.structureType, elements)
}
