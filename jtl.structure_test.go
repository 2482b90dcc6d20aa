package jtl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStructureParser_GroupsByKind(t *testing.T) {
	raw := "{{> head}}\n{{#each items}}<li>{{this}}</li>{{/each}}\n{{#if a}}A{{/if}}{{#if b}}B{{/if}}"
	structure := NewStructureParser(MatchModeNested, "", nil).Parse(raw)

	assert.Equal(t, DefaultStructureType, structure.Type())
	elements := structure.Elements()
	require.Len(t, elements, 4)

	first, ok := elements[0].(*ConditionalStatement)
	require.True(t, ok)
	assert.Equal(t, "a", first.Condition())
	assert.Equal(t, "A", first.Content())
	assert.Equal(t, "{{#if a}}A{{/if}}", first.Line())
	assert.Equal(t, 3, first.Pos().Line)
	assert.Equal(t, 1, first.Pos().Column)

	second, ok := elements[1].(*ConditionalStatement)
	require.True(t, ok)
	assert.Equal(t, "b", second.Condition())

	loop, ok := elements[2].(*ForEachStatement)
	require.True(t, ok)
	assert.Equal(t, "items", loop.ItemsPath())
	assert.Equal(t, "<li>{{this}}</li>", loop.Content())
	assert.Equal(t, 2, loop.Pos().Line)

	include, ok := elements[3].(*IncludeStatement)
	require.True(t, ok)
	assert.Equal(t, "head", include.TemplateName())
	assert.Equal(t, "{{> head}}", include.Line())
}

func TestStructureParser_SynthesizedTags(t *testing.T) {
	structure := NewStructureParser(MatchModeNested, "", nil).Parse(
		"{{#if  age >= 18 }}x{{/if}}{{#each  users }}y{{/each}}{{>  footer }}")
	elements := structure.Elements()
	require.Len(t, elements, 3)

	tests := []struct {
		kind      ElementKind
		opening   string
		closing   string
		tagName   string
		statement string
		children  int
	}{
		{ElementKindConditional, "{{#if age >= 18}}", ClosingIf, TagNameIf, "if age >= 18", 1},
		{ElementKindForEach, "{{#each users}}", ClosingEach, TagNameEach, "each users", 1},
		{ElementKindInclude, "{{>footer}}", "", TagNameInclude, "include footer", 0},
	}

	for i, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			el := elements[i]
			assert.Equal(t, tt.kind, el.Kind())
			assert.Equal(t, tt.opening, el.OpeningTag())
			assert.Equal(t, tt.closing, el.ClosingTag())
			assert.Equal(t, tt.tagName, el.TagName())
			assert.Len(t, el.Children(), tt.children)

			stmt, ok := el.(Statement)
			require.True(t, ok)
			assert.Equal(t, tt.statement, stmt.Statement())
		})
	}

	body := elements[0].Children()[0]
	assert.Equal(t, ElementKindText, body.Kind())
	assert.Equal(t, "x", body.Content())
}

func TestStructureParser_MatchModes(t *testing.T) {
	raw := "{{#if a}}[{{#if b}}x{{/if}}]{{/if}}"

	nested := NewStructureParser(MatchModeNested, "", nil).Parse(raw).Elements()
	require.Len(t, nested, 1)
	assert.Equal(t, "[{{#if b}}x{{/if}}]", nested[0].Content())

	legacy := NewStructureParser(MatchModeLegacy, "", nil).Parse(raw).Elements()
	require.Len(t, legacy, 1)
	assert.Equal(t, "[{{#if b}}x", legacy[0].Content())
}

func TestStructureParser_PlainText(t *testing.T) {
	structure := NewStructureParser(MatchModeNested, "TEXT", nil).Parse("no constructs {{ here")
	assert.Equal(t, 0, structure.Len())
	assert.Equal(t, "TEXT", structure.Type())
}

func TestCodeStructure_Equal(t *testing.T) {
	parser := NewStructureParser(MatchModeNested, "", nil)
	a := parser.Parse("{{#if a}}x{{/if}}")
	b := parser.Parse("{{#if a}}x{{/if}}")
	c := parser.Parse("{{#if b}}x{{/if}}")

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.False(t, a.Equal(nil))
	assert.True(t, (*CodeStructure)(nil).Equal(nil))
	assert.False(t, a.Equal(NewCodeStructure("TEXT", a.Elements())))
}

func TestCodeStructure_ElementsCopy(t *testing.T) {
	structure := NewCodeStructure("", []CodeElement{NewTextElement("x", Position{Line: 1, Column: 1})})
	elements := structure.Elements()
	elements[0] = NewTextElement("y", Position{})

	assert.Equal(t, "x", structure.Elements()[0].Content())
}

func TestHTMLTagElement(t *testing.T) {
	child := NewTextElement("hello", Position{Line: 1, Column: 4})
	el := NewHTMLTagElement("p", "<p>", "</p>", "<p>hello</p>", Position{Line: 1, Column: 1}, child)

	assert.Equal(t, ElementKindHTMLTag, el.Kind())
	assert.Equal(t, "p", el.TagName())
	assert.Equal(t, "<p>", el.OpeningTag())
	assert.Equal(t, "</p>", el.ClosingTag())
	assert.Equal(t, "hello", el.Content())
	assert.Equal(t, "<p>hello</p>", el.Line())
	require.Len(t, el.Children(), 1)

	_, isStatement := CodeElement(el).(Statement)
	assert.False(t, isStatement)
}

func TestElementKind_String(t *testing.T) {
	assert.Equal(t, ElementKindNameText, ElementKindText.String())
	assert.Equal(t, ElementKindNameHTMLTag, ElementKindHTMLTag.String())
	assert.Equal(t, ElementKindNameConditional, ElementKindConditional.String())
	assert.Equal(t, ElementKindNameForEach, ElementKindForEach.String())
	assert.Equal(t, ElementKindNameInclude, ElementKindInclude.String())
	assert.Equal(t, ElementKindNameUnknown, ElementKind(99).String())
}

func TestParseMatchMode(t *testing.T) {
	mode, err := ParseMatchMode("legacy")
	require.NoError(t, err)
	assert.Equal(t, MatchModeLegacy, mode)

	mode, err = ParseMatchMode("")
	require.NoError(t, err)
	assert.Equal(t, MatchModeNested, mode)

	_, err = ParseMatchMode("greedy")
	require.Error(t, err)
	assert.Contains(t, err.Error(), ErrMsgInvalidMatchMode)
}
