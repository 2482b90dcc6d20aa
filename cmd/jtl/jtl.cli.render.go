package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	jtl "github.com/itsatony/go-jtl"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// renderConfig holds parsed render command configuration
type renderConfig struct {
	templatePath string
	dataJSON     string
	dataFilePath string
	outputPath   string
	includesDir  string
	configPath   string
	legacy       bool
	verbose      bool
}

func runRender(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cfg, err := parseRenderFlags(args)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgInvalidFlags, err)
		return ExitCodeUsageError
	}

	templateSource, err := readInput(cfg.templatePath, stdin)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgReadFileFailed, err)
		return ExitCodeInputError
	}

	data, err := loadData(cfg.dataJSON, cfg.dataFilePath)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgInvalidData, err)
		return ExitCodeInputError
	}

	engine, err := newEngine(cfg, stderr)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgEngineFailed, err)
		return ExitCodeError
	}
	defer engine.Close()

	result, err := engine.Execute(context.Background(), string(templateSource), data)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgRenderFailed, err)
		return ExitCodeError
	}

	if err := writeOutput(cfg.outputPath, []byte(result), stdout); err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgWriteOutputFailed, err)
		return ExitCodeError
	}

	return ExitCodeSuccess
}

func parseRenderFlags(args []string) (*renderConfig, error) {
	fs := flag.NewFlagSet(CmdNameRender, flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	cfg := &renderConfig{}

	fs.StringVar(&cfg.templatePath, FlagTemplate, "", "")
	fs.StringVar(&cfg.templatePath, FlagTemplateShort, "", "")
	fs.StringVar(&cfg.dataJSON, FlagData, "", "")
	fs.StringVar(&cfg.dataJSON, FlagDataShort, "", "")
	fs.StringVar(&cfg.dataFilePath, FlagDataFile, "", "")
	fs.StringVar(&cfg.dataFilePath, FlagDataFileShort, "", "")
	fs.StringVar(&cfg.outputPath, FlagOutput, FlagDefaultOutput, "")
	fs.StringVar(&cfg.outputPath, FlagOutputShort, FlagDefaultOutput, "")
	fs.StringVar(&cfg.includesDir, FlagIncludes, "", "")
	fs.StringVar(&cfg.includesDir, FlagIncludesShort, "", "")
	fs.StringVar(&cfg.configPath, FlagConfig, "", "")
	fs.StringVar(&cfg.configPath, FlagConfigShort, "", "")
	fs.BoolVar(&cfg.legacy, FlagLegacy, false, "")
	fs.BoolVar(&cfg.verbose, FlagVerbose, false, "")
	fs.BoolVar(&cfg.verbose, FlagVerboseShort, false, "")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if cfg.templatePath == "" {
		return nil, errors.New(ErrMsgMissingTemplate)
	}

	return cfg, nil
}

// newEngine builds the render engine. Flags are applied after the configuration
// file, so they win; an include directory replaces (and closes) a configured store.
func newEngine(cfg *renderConfig, stderr io.Writer) (*jtl.Engine, error) {
	var includes *jtl.FilesystemAssetStore
	if cfg.includesDir != "" {
		store, err := jtl.NewFilesystemAssetStore(cfg.includesDir, "")
		if err != nil {
			return nil, err
		}
		includes = store
	}

	var opts []jtl.Option
	if cfg.configPath != "" {
		fileOpts, err := configOptions(cfg.configPath)
		if err != nil {
			if includes != nil {
				includes.Close()
			}
			return nil, err
		}
		opts = append(opts, fileOpts...)
	}

	if includes != nil {
		opts = append(opts, jtl.WithAssetStore(includes), jtl.WithIncludeExpansion(true))
	}

	if cfg.legacy {
		opts = append(opts, jtl.WithMatchMode(jtl.MatchModeLegacy))
	}

	if cfg.verbose {
		opts = append(opts, jtl.WithLogger(newLogger(stderr)))
	}

	return jtl.New(opts...)
}

func configOptions(path string) ([]jtl.Option, error) {
	fileConfig, err := jtl.LoadConfig(path)
	if err != nil {
		return nil, err
	}
	return fileConfig.Options()
}

// newLogger returns a development-style console logger writing to w.
func newLogger(w io.Writer) *zap.Logger {
	encoder := zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	return zap.New(zapcore.NewCore(encoder, zapcore.AddSync(w), zapcore.DebugLevel))
}
