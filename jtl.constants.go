package jtl

import (
	"time"

	"github.com/itsatony/go-jtl/internal"
)

// Template syntax markers re-exported for callers building templates programmatically
const (
	OpenDelim  = "{{"
	CloseDelim = "}}"
)

// Default configuration values
const (
	DefaultStructureType   = "HTML"
	DefaultMaxIncludeDepth = 10
	DefaultCacheEnabled    = true
)

// Include placeholder emitted when includes are not expanded
const (
	IncludePlaceholderFormat = "<!-- include: %s -->"
)

// Tag names and statement keywords of the code element model
const (
	TagNameIf        = "if"
	TagNameEach      = "each"
	TagNameInclude   = "include"
	StatementIfFmt   = "if %s"
	StatementEachFmt = "each %s"
	StatementIncFmt  = "include %s"
	OpeningIfFmt     = "{{#if %s}}"
	OpeningEachFmt   = "{{#each %s}}"
	OpeningIncFmt    = "{{>%s}}"
	ClosingIf        = "{{/if}}"
	ClosingEach      = "{{/each}}"
)

// Loop variables visible inside an {{#each}} body
const (
	LoopVarThis  = internal.LoopVarThis
	LoopVarIndex = internal.LoopVarIndex
	LoopVarFirst = internal.LoopVarFirst
	LoopVarLast  = internal.LoopVarLast
)

// Element kind names
const (
	ElementKindNameText        = "text"
	ElementKindNameHTMLTag     = "html_tag"
	ElementKindNameConditional = "conditional"
	ElementKindNameForEach     = "for_each"
	ElementKindNameInclude     = "include"
	ElementKindNameUnknown     = "unknown"
)

// Splice markers delimit already-rendered fragments in nested match mode
const (
	spliceOpen  = "\x00"
	spliceClose = "\x01"
)

// Asset driver names
const (
	AssetDriverNameMemory     = "memory"
	AssetDriverNameFilesystem = "filesystem"
	AssetDriverNamePostgres   = "postgres"
	AssetDriverNameSQLite     = "sqlite"
)

// Filesystem asset provider settings
const (
	FilesystemDirPermissions  = 0755
	FilesystemFilePermissions = 0644
	FilesystemPathSeparator   = "/"
	FilesystemParentDir       = ".."
)

// PostgreSQL asset provider settings
const (
	PostgresTablePrefix            = "jtl_"
	PostgresDefaultMaxOpenConns    = 25
	PostgresDefaultMaxIdleConns    = 5
	PostgresDefaultConnMaxLifetime = 5 * time.Minute
	PostgresDefaultConnMaxIdleTime = 5 * time.Minute
	PostgresDefaultQueryTimeout    = 30 * time.Second
	PostgresDriverName             = "postgres"
)

// SQLite asset provider settings
const (
	SQLiteTablePrefix         = "jtl_"
	SQLiteDefaultQueryTimeout = 10 * time.Second
	SQLiteMemoryDSN           = ":memory:"
)

// Asset table name suffix shared by the SQL providers
const (
	assetTableSuffix = "assets"
)

// Log messages
const (
	LogMsgEngineCreated     = "engine created"
	LogMsgEngineClosed      = "engine closed"
	LogMsgRenderStart       = "render started"
	LogMsgRenderComplete    = "render complete"
	LogMsgRenderFailed      = "render failed"
	LogMsgCacheHit          = "template cache hit"
	LogMsgCacheMiss         = "template cache miss"
	LogMsgCacheStore        = "template cache store"
	LogMsgCacheRemove       = "template cache entry removed"
	LogMsgCacheInvalidate   = "template cache invalidated"
	LogMsgAssetLoaded       = "asset loaded"
	LogMsgIncludeExpanded   = "include expanded"
	LogMsgLoopRendered      = "loop rendered"
	LogMsgLoopNotSequence   = "loop target is not a sequence"
	LogMsgExprMalformed     = "malformed expression evaluated as false"
	LogMsgFilterUnknown     = "unknown filter skipped"
	LogMsgFilterRegistered  = "filter registered"
	LogMsgVariablesReplaced = "variables replaced"
	LogMsgWatcherStarted    = "cache watcher started"
	LogMsgWatcherStopped    = "cache watcher stopped"
	LogMsgWatcherEvent      = "cache watcher event"
	LogMsgWatcherError      = "cache watcher error"
	LogMsgWatcherAddFailed  = "cache watcher could not watch directory"
	LogMsgConfigLoaded      = "configuration loaded"
	LogMsgAssetStoreClosed  = "asset store close failed"
)

// Log field names
const (
	LogFieldLocation   = "location"
	LogFieldMatchMode  = "match_mode"
	LogFieldDuration   = "duration"
	LogFieldRawLength  = "raw_length"
	LogFieldOutLength  = "output_length"
	LogFieldExpression = "expression"
	LogFieldPath       = "path"
	LogFieldIterations = "iterations"
	LogFieldFilter     = "filter"
	LogFieldInclude    = "include"
	LogFieldDepth      = "depth"
	LogFieldDriver     = "driver"
	LogFieldCacheSize  = "cache_size"
	LogFieldEvent      = "event"
	LogFieldFile       = "file"
	LogFieldRoot       = "root"
	LogFieldVariables  = "variables"
	LogFieldCache      = "cache"
)
