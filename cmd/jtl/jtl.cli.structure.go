package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"

	jtl "github.com/itsatony/go-jtl"
)

// structureConfig holds parsed structure command configuration
type structureConfig struct {
	templatePath string
	format       string
	legacy       bool
}

// structureOutput is the JSON form of a parsed template.
type structureOutput struct {
	Type     string          `json:"type"`
	Elements []elementOutput `json:"elements"`
}

type elementOutput struct {
	Kind      string `json:"kind"`
	Statement string `json:"statement,omitempty"`
	Opening   string `json:"opening_tag,omitempty"`
	Closing   string `json:"closing_tag,omitempty"`
	Content   string `json:"content,omitempty"`
	Line      int    `json:"line"`
	Column    int    `json:"column"`
}

func runStructure(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cfg, err := parseStructureFlags(args)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgInvalidFlags, err)
		return ExitCodeUsageError
	}

	source, err := readInput(cfg.templatePath, stdin)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgReadFileFailed, err)
		return ExitCodeInputError
	}

	mode := jtl.MatchModeNested
	if cfg.legacy {
		mode = jtl.MatchModeLegacy
	}
	structure := jtl.NewStructureParser(mode, "", nil).Parse(string(source))
	output := toStructureOutput(structure)

	if cfg.format == OutputFormatJSON {
		jsonBytes, err := json.MarshalIndent(output, "", "  ")
		if err != nil {
			fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgJSONMarshalFailed, err)
			return ExitCodeError
		}
		fmt.Fprintln(stdout, string(jsonBytes))
		return ExitCodeSuccess
	}

	fmt.Fprintf(stdout, StructureTextHeader+FmtNewline, output.Type, len(output.Elements))
	for _, el := range output.Elements {
		fmt.Fprintf(stdout, StructureTextFormat+FmtNewline, el.Line, el.Column, el.Kind, el.Statement)
	}
	return ExitCodeSuccess
}

func parseStructureFlags(args []string) (*structureConfig, error) {
	fs := flag.NewFlagSet(CmdNameStructure, flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	cfg := &structureConfig{}
	fs.StringVar(&cfg.templatePath, FlagTemplate, "", "")
	fs.StringVar(&cfg.templatePath, FlagTemplateShort, "", "")
	fs.StringVar(&cfg.format, FlagFormat, FlagDefaultFormat, "")
	fs.StringVar(&cfg.format, FlagFormatShort, FlagDefaultFormat, "")
	fs.BoolVar(&cfg.legacy, FlagLegacy, false, "")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if cfg.templatePath == "" {
		return nil, errors.New(ErrMsgMissingTemplate)
	}
	if cfg.format != OutputFormatText && cfg.format != OutputFormatJSON {
		return nil, errors.New(ErrMsgInvalidFormat)
	}

	return cfg, nil
}

func toStructureOutput(structure *jtl.CodeStructure) structureOutput {
	output := structureOutput{
		Type:     structure.Type(),
		Elements: make([]elementOutput, 0, structure.Len()),
	}
	for _, el := range structure.Elements() {
		out := elementOutput{
			Kind:    el.Kind().String(),
			Opening: el.OpeningTag(),
			Closing: el.ClosingTag(),
			Content: el.Content(),
			Line:    el.Pos().Line,
			Column:  el.Pos().Column,
		}
		if stmt, ok := el.(jtl.Statement); ok {
			out.Statement = stmt.Statement()
		}
		output.Elements = append(output.Elements, out)
	}
	return output
}
