package jtl

import (
	"errors"
	"strconv"

	"github.com/itsatony/go-cuserr"
)

// Error message constants
const (
	// Asset errors
	ErrMsgAssetNotFound       = "asset not found"
	ErrMsgAssetReadFailed     = "asset could not be read"
	ErrMsgAssetWriteFailed    = "asset could not be written"
	ErrMsgAssetDeleteFailed   = "asset could not be deleted"
	ErrMsgAssetListFailed     = "assets could not be listed"
	ErrMsgInvalidLocation     = "invalid asset location"
	ErrMsgNoAssetProvider     = "no asset provider configured"
	ErrMsgAssetStoreClosed    = "asset store is closed"
	ErrMsgAssetNotWritable    = "asset provider does not accept writes"
	ErrMsgNilAssetDriver      = "asset driver is nil"
	ErrMsgAssetDriverExists   = "asset driver already registered"
	ErrMsgAssetDriverNotFound = "asset driver not found"
	ErrMsgInvalidAssetRoot    = "asset root directory cannot be empty"
	ErrMsgCreateAssetRoot     = "asset root directory could not be created"

	// SQL asset store errors
	ErrMsgEmptyConnString    = "connection string cannot be empty"
	ErrMsgConnectionFailed   = "database connection failed"
	ErrMsgMigrationFailed    = "database migration failed"
	ErrMsgQueryFailed        = "database query failed"
	ErrMsgStoreAlreadyClosed = "asset store already closed"

	// Render errors
	ErrMsgRenderFailed         = "template render failed"
	ErrMsgIncludeDepthExceeded = "maximum include depth exceeded"
	ErrMsgIncludeFailed        = "include could not be expanded"
	ErrMsgNilTemplate          = "template cannot be nil"

	// Validation errors
	ErrMsgEmptyFilterName  = "filter name cannot be empty"
	ErrMsgNilFilter        = "filter function cannot be nil"
	ErrMsgInvalidMatchMode = "invalid match mode"
	ErrMsgInvalidMaxDepth  = "max include depth must be positive"

	// Config errors
	ErrMsgConfigRead  = "configuration file could not be read"
	ErrMsgConfigParse = "configuration could not be parsed"

	// Watcher errors
	ErrMsgWatcherCreate = "file watcher could not be created"
	ErrMsgWatcherAdd    = "file watcher could not watch directory"
)

// Error code constants for categorization
const (
	ErrCodeAsset      = "JTL_ASSET"
	ErrCodeRender     = "JTL_RENDER"
	ErrCodeConfig     = "JTL_CONFIG"
	ErrCodeValidation = "JTL_VALIDATION"
)

// Metadata key constants
const (
	MetaKeyAsset    = "asset"
	MetaKeyLocation = "location"
	MetaKeyInclude  = "include"
	MetaKeyDepth    = "depth"
	MetaKeyMaxDepth = "max_depth"
	MetaKeyDriver   = "driver"
	MetaKeyFilter   = "filter"
	MetaKeyValue    = "value"
	MetaKeyPath     = "path"
	MetaKeyReason   = "reason"
)

// Metadata reason values
const (
	ReasonNotFound = "not_found"
)

// NewAssetNotFoundError creates an error for a location no asset exists for.
func NewAssetNotFoundError(location string) error {
	return cuserr.NewNotFoundError(MetaKeyAsset, ErrMsgAssetNotFound).
		WithMetadata(MetaKeyLocation, location).
		WithMetadata(MetaKeyReason, ReasonNotFound)
}

// IsAssetNotFound reports whether err (or anything it wraps) is an asset-not-found error.
func IsAssetNotFound(err error) bool {
	var customErr *cuserr.CustomError
	if !errors.As(err, &customErr) {
		return false
	}
	reason, ok := customErr.GetMetadata(MetaKeyReason)
	return ok && reason == ReasonNotFound
}

// NewAssetError wraps an asset I/O failure with the location it concerns.
func NewAssetError(msg, location string, cause error) error {
	var err *cuserr.CustomError
	if cause != nil {
		err = cuserr.WrapStdError(cause, ErrCodeAsset, msg)
	} else {
		err = cuserr.NewValidationError(ErrCodeAsset, msg)
	}
	return err.WithMetadata(MetaKeyLocation, location)
}

// NewInvalidLocationError creates an error for locations that escape the asset root.
func NewInvalidLocationError(location string) error {
	return cuserr.NewValidationError(ErrCodeAsset, ErrMsgInvalidLocation).
		WithMetadata(MetaKeyLocation, location)
}

// NewAssetStoreClosedError creates an error for operations on a closed store.
func NewAssetStoreClosedError() error {
	return cuserr.NewValidationError(ErrCodeAsset, ErrMsgAssetStoreClosed)
}

// NewAssetDriverNotFoundError creates an error for an unregistered driver name.
func NewAssetDriverNotFoundError(driver string) error {
	return cuserr.NewNotFoundError(MetaKeyDriver, ErrMsgAssetDriverNotFound).
		WithMetadata(MetaKeyDriver, driver)
}

// NewStoreError wraps a database failure of a SQL asset store.
func NewStoreError(msg, driver string, cause error) error {
	var err *cuserr.CustomError
	if cause != nil {
		err = cuserr.WrapStdError(cause, ErrCodeAsset, msg)
	} else {
		err = cuserr.NewValidationError(ErrCodeAsset, msg)
	}
	return err.WithMetadata(MetaKeyDriver, driver)
}

// NewNoAssetProviderError creates an error for renders that need an asset but have no provider.
func NewNoAssetProviderError(location string) error {
	return cuserr.NewValidationError(ErrCodeRender, ErrMsgNoAssetProvider).
		WithMetadata(MetaKeyLocation, location)
}

// NewIncludeDepthError creates an error for include chains deeper than allowed.
func NewIncludeDepthError(name string, maxDepth int) error {
	return cuserr.NewValidationError(ErrCodeRender, ErrMsgIncludeDepthExceeded).
		WithMetadata(MetaKeyInclude, name).
		WithMetadata(MetaKeyMaxDepth, strconv.Itoa(maxDepth))
}

// NewIncludeError wraps a failure while expanding an include.
func NewIncludeError(name string, depth int, cause error) error {
	return cuserr.WrapStdError(cause, ErrCodeRender, ErrMsgIncludeFailed).
		WithMetadata(MetaKeyInclude, name).
		WithMetadata(MetaKeyDepth, strconv.Itoa(depth))
}

// NewNilTemplateError creates an error for a render call without a template.
func NewNilTemplateError() error {
	return cuserr.NewValidationError(ErrCodeRender, ErrMsgNilTemplate)
}

// NewFilterRegistrationError creates an error for rejected filter registrations.
func NewFilterRegistrationError(msg, name string) error {
	return cuserr.NewValidationError(ErrCodeValidation, msg).
		WithMetadata(MetaKeyFilter, name)
}

// NewInvalidMatchModeError creates an error for unknown match mode names.
func NewInvalidMatchModeError(value string) error {
	return cuserr.NewValidationError(ErrCodeConfig, ErrMsgInvalidMatchMode).
		WithMetadata(MetaKeyValue, value)
}

// NewInvalidMaxDepthError creates an error for a non-positive include depth.
func NewInvalidMaxDepthError(depth int) error {
	return cuserr.NewValidationError(ErrCodeConfig, ErrMsgInvalidMaxDepth).
		WithMetadata(MetaKeyValue, strconv.Itoa(depth))
}

// NewConfigError wraps a configuration read or parse failure.
func NewConfigError(msg, path string, cause error) error {
	return cuserr.WrapStdError(cause, ErrCodeConfig, msg).
		WithMetadata(MetaKeyPath, path)
}

// NewWatcherError wraps a file watcher failure.
func NewWatcherError(msg, path string, cause error) error {
	return cuserr.WrapStdError(cause, ErrCodeConfig, msg).
		WithMetadata(MetaKeyPath, path)
}

// NewAssetNotWritableError creates an error for writes to a read-only asset provider.
func NewAssetNotWritableError(location string) error {
	return cuserr.NewValidationError(ErrCodeAsset, ErrMsgAssetNotWritable).
		WithMetadata(MetaKeyLocation, location)
}
