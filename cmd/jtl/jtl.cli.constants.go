package main

// Command names
const (
	CmdNameRender    = "render"
	CmdNameStructure = "structure"
	CmdNameVersion   = "version"
	CmdNameHelp      = "help"
)

// Flag names - long form
const (
	FlagTemplate = "template"
	FlagData     = "data"
	FlagDataFile = "data-file"
	FlagOutput   = "output"
	FlagFormat   = "format"
	FlagLegacy   = "legacy"
	FlagIncludes = "includes"
	FlagConfig   = "config"
	FlagVerbose  = "verbose"
)

// Flag names - short form
const (
	FlagTemplateShort = "t"
	FlagDataShort     = "d"
	FlagDataFileShort = "f"
	FlagOutputShort   = "o"
	FlagFormatShort   = "F"
	FlagIncludesShort = "I"
	FlagConfigShort   = "c"
	FlagVerboseShort  = "v"
)

// Flag default values
const (
	FlagDefaultOutput = "-" // stdout
	FlagDefaultFormat = "text"
)

// Output formats
const (
	OutputFormatText = "text"
	OutputFormatJSON = "json"
)

// Exit codes
const (
	ExitCodeSuccess    = 0
	ExitCodeError      = 1
	ExitCodeUsageError = 2
	ExitCodeInputError = 4
)

// Input source indicators
const (
	InputSourceStdin = "-"
)

// Data file extensions decoded as YAML; everything else is JSON.
const (
	DataExtYAML = ".yaml"
	DataExtYML  = ".yml"
)

// Error messages
const (
	ErrMsgUnknownCommand    = "unknown command"
	ErrMsgMissingTemplate   = "template source required"
	ErrMsgInvalidData       = "invalid template data"
	ErrMsgReadFileFailed    = "failed to read file"
	ErrMsgWriteOutputFailed = "failed to write output"
	ErrMsgEngineFailed      = "failed to create engine"
	ErrMsgRenderFailed      = "template rendering failed"
	ErrMsgInvalidFormat     = "invalid output format"
	ErrMsgInvalidFlags      = "invalid flags"
	ErrMsgJSONMarshalFailed = "failed to marshal JSON"
)

// Help text templates
const (
	HelpMainUsage = `go-jtl - HTML and text template renderer

Usage:
    jtl <command> [options]

Commands:
    render      Render a template with data
    structure   Show the control constructs of a template
    version     Show version information
    help        Show help for a command

Use "jtl help <command>" for more information about a command.`

	HelpRenderUsage = `Render a template with data

Usage:
    jtl render [options]

Options:
    -t, --template <file>   Template file (use "-" for stdin)
    -d, --data <json>       JSON data string
    -f, --data-file <file>  JSON or YAML data file
    -o, --output <file>     Output file (default: stdout)
    -I, --includes <dir>    Expand {{> name}} from templates in dir
    -c, --config <file>     Engine configuration file
    --legacy                Use legacy block matching
    -v, --verbose           Log render passes to stderr

Examples:
    jtl render -t page.html -d '{"name": "Alice"}'
    jtl render -t page.html -f data.yaml -I partials
    cat page.html | jtl render -t - -d '{"name": "Bob"}'
    jtl render -t page.html -f data.json -o page.out.html`

	HelpStructureUsage = `Show the control constructs of a template

Usage:
    jtl structure [options]

Options:
    -t, --template <file>   Template file (use "-" for stdin)
    -F, --format <format>   Output format: text, json (default: text)
    --legacy                Use legacy block matching

Examples:
    jtl structure -t page.html
    jtl structure -t page.html -F json`

	HelpVersionUsage = `Show version information

Usage:
    jtl version [options]

Options:
    -F, --format <format>   Output format: text, json (default: text)`

	HelpHelpUsage = `Show help for a command

Usage:
    jtl help [command]

Commands:
    render      Show help for render command
    structure   Show help for structure command
    version     Show help for version command`
)

// Version output format templates
const (
	VersionTextTemplate = "go-jtl version %s\nCommit: %s\nBranch: %s\nBuilt: %s\nGo: %s"
	VersionUnknown      = "unknown"
)

// Structure output format templates
const (
	StructureTextHeader = "%s structure, %d element(s)"
	StructureTextFormat = "  %d:%d %s %s"
)

// CLI metadata
const (
	CLIName        = "jtl"
	CLIDescription = "HTML and text template renderer"
)

// File permission constant
const (
	FilePermissions = 0644
)

// Format string constants
const (
	FmtErrorWithDetail = "%s: %s\n"
	FmtErrorWithCause  = "%s: %v\n"
	FmtNewline         = "\n"
)
