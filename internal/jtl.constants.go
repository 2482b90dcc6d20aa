package internal

// Delimiters and markers of the template grammar
const (
	StrOpenDelim     = "{{"
	StrCloseDelim    = "}}"
	StrIfPrefix      = "#if"
	StrEachPrefix    = "#each"
	StrIfClose       = "/if"
	StrEachClose     = "/each"
	StrIncludePrefix = ">"
	StrFilterPipe    = "|"
	StrPathSeparator = "."
)

// Delimiter lengths
const (
	LenOpenDelim  = 2 // {{
	LenCloseDelim = 2 // }}
)

// Keyword names used for synthesized tags
const (
	KeywordIf   = "if"
	KeywordEach = "each"
)

// Loop variable names exposed to the body of an each block
const (
	LoopVarThis  = "this"
	LoopVarIndex = "@index"
	LoopVarFirst = "@first"
	LoopVarLast  = "@last"
)

// Expression operators, in the order they are tried
const (
	OpAnd      = "&&"
	OpOr       = "||"
	OpEq       = "=="
	OpNeq      = "!="
	OpGte      = ">="
	OpLte      = "<="
	OpGt       = ">"
	OpLt       = "<"
	OpCoalesce = "??"
)

// Literal keywords recognised as expression operands
const (
	LiteralTrue  = "true"
	LiteralFalse = "false"
	LiteralNull  = "null"
)

// String value constants for conversions
const (
	StringValueTrue  = "true"
	StringValueFalse = "false"
	StringValueEmpty = ""
	SequenceJoiner   = ", "
	DictOpen         = "{"
	DictClose        = "}"
	DictKeyValueSep  = "="
)

const (
	FormEncodedSpace    = "+"
	PercentEncodedSpace = "%20"
)

// Numeric constants for conversions
const (
	FloatFormatFlag   = 'f'
	FloatPrecisionAll = -1
	FloatBitSize64    = 64
	IntBase10         = 10
	IntBitSize64      = 64
)

// Character constants
const (
	CharNewline     = '\n'
	CharDoubleQuote = '"'
	CharSingleQuote = '\''
	CharSpace       = ' '
	CharTab         = '\t'
	CharCarriageRet = '\r'
)

// Error message constants
const (
	ErrMsgExprOperandCount = "comparison requires exactly two operands"
	ErrMsgExprEmptyOperand = "comparison operand cannot be empty"
	ErrMsgExprPanic        = "expression evaluation panicked"
	ErrFmtExprWithDetail   = "%s: %s"
	ErrFmtExprWithExpr     = "%s in %q"
)
