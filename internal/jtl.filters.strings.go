package internal

import (
	"net/url"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// stringFilter lifts a string transform into a FilterFunc. nil passes through;
// any other value is transformed through its string form.
func stringFilter(fn func(string) string) FilterFunc {
	return func(v any) any {
		if v == nil {
			return nil
		}
		return fn(Stringify(v))
	}
}

func registerStringFilters(filters map[string]FilterFunc) {
	upper := cases.Upper(language.Und)
	lower := cases.Lower(language.Und)

	filters[FilterNameUppercase] = stringFilter(func(s string) string {
		return upper.String(s)
	})
	filters[FilterNameLowercase] = stringFilter(func(s string) string {
		return lower.String(s)
	})
	filters[FilterNameTrim] = stringFilter(strings.TrimSpace)
	filters[FilterNameCapitalize] = stringFilter(capitalize)
	filters[FilterNameTitlecase] = stringFilter(func(s string) string {
		words := strings.Split(s, TitlecaseWordSep)
		for i, w := range words {
			words[i] = capitalize(w)
		}
		return strings.Join(words, TitlecaseWordSep)
	})
}

// capitalize upper-cases the first grapheme (a base rune plus its combining marks)
// and leaves the rest unchanged.
func capitalize(s string) string {
	if s == StringValueEmpty {
		return s
	}
	_, size := utf8.DecodeRuneInString(s)
	for size < len(s) {
		r, n := utf8.DecodeRuneInString(s[size:])
		if !unicode.Is(unicode.M, r) {
			break
		}
		size += n
	}
	return cases.Upper(language.Und).String(s[:size]) + s[size:]
}

// percentEncode escapes s for use in a URL component. Spaces become %20.
func percentEncode(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), FormEncodedSpace, PercentEncodedSpace)
}

func registerEncodingFilters(filters map[string]FilterFunc) {
	filters[FilterNameURLEncode] = stringFilter(percentEncode)
	filters[FilterNameHTMLEscape] = stringFilter(EscapeHTML)
}

func registerShapeFilters(filters map[string]FilterFunc) {
	length := func(v any) any {
		if s, ok := v.(string); ok {
			return utf8.RuneCountInString(s)
		}
		if seq, ok := AsSequence(v); ok {
			return len(seq)
		}
		if dict, ok := AsDictionary(v); ok {
			return len(dict)
		}
		return 0
	}
	filters[FilterNameLength] = length
	filters[FilterNameSize] = length

	filters[FilterNameReverse] = func(v any) any {
		if s, ok := v.(string); ok {
			runes := []rune(s)
			for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
				runes[i], runes[j] = runes[j], runes[i]
			}
			return string(runes)
		}
		if seq, ok := AsSequence(v); ok {
			out := make([]any, len(seq))
			for i, item := range seq {
				out[len(seq)-1-i] = item
			}
			return out
		}
		return v
	}

	filters[FilterNameSubstring] = func(v any) any {
		s, ok := v.(string)
		if !ok || utf8.RuneCountInString(s) <= SubstringMaxRunes {
			return v
		}
		return string([]rune(s)[:SubstringMaxRunes]) + SubstringEllipsis
	}
}

func registerConditionalFilters(filters map[string]FilterFunc) {
	filters[FilterNameDefault] = func(v any) any {
		if isBlank(v) {
			return StringValueEmpty
		}
		return v
	}
	filters[FilterNameEmptyCheck] = func(v any) any {
		if isBlank(v) {
			return EmptyCheckFallback
		}
		return v
	}
}

func isBlank(v any) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && s == StringValueEmpty
}
