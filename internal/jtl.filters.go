package internal

// FilterFunc transforms a resolved value. Filters never fail; a value they do not
// handle passes through unchanged.
type FilterFunc func(v any) any

// Built-in filter names
const (
	FilterNameUppercase  = "uppercase"
	FilterNameLowercase  = "lowercase"
	FilterNameTrim       = "trim"
	FilterNameCapitalize = "capitalize"
	FilterNameTitlecase  = "titlecase"
	FilterNameLength     = "length"
	FilterNameSize       = "size"
	FilterNameReverse    = "reverse"
	FilterNameSubstring  = "substring"
	FilterNameAbs        = "abs"
	FilterNameRound      = "round"
	FilterNameCeil       = "ceil"
	FilterNameFloor      = "floor"
	FilterNameToFixed    = "toFixed"
	FilterNameDefault    = "default"
	FilterNameEmptyCheck = "emptycheck"
	FilterNameFirst      = "first"
	FilterNameLast       = "last"
	FilterNameJoin       = "join"
	FilterNameURLEncode  = "urlencode"
	FilterNameHTMLEscape = "htmlescape"
)

// Filter tuning constants
const (
	SubstringMaxRunes  = 10
	SubstringEllipsis  = "..."
	EmptyCheckFallback = "N/A"
	ToFixedFormat      = "%.2f"
	TitlecaseWordSep   = " "
)

// BuiltinFilters returns a fresh table of all built-in filters.
func BuiltinFilters() map[string]FilterFunc {
	filters := make(map[string]FilterFunc)
	registerStringFilters(filters)
	registerShapeFilters(filters)
	registerNumericFilters(filters)
	registerConditionalFilters(filters)
	registerCollectionFilters(filters)
	registerEncodingFilters(filters)
	return filters
}

// ApplyFilters runs value through the named filters left to right.
// Unknown names are skipped.
func ApplyFilters(value any, names []string, lookup func(name string) (FilterFunc, bool)) any {
	for _, name := range names {
		fn, ok := lookup(name)
		if !ok || fn == nil {
			continue
		}
		value = fn(value)
	}
	return value
}
