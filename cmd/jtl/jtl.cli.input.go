package main

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/natefinch/atomic"
	"gopkg.in/yaml.v3"
)

// readInput reads content from a file or stdin
func readInput(path string, stdin io.Reader) ([]byte, error) {
	if path == InputSourceStdin {
		return io.ReadAll(stdin)
	}

	return os.ReadFile(path)
}

// writeOutput writes content to stdout or atomically replaces the file at path.
func writeOutput(path string, data []byte, stdout io.Writer) error {
	if path == FlagDefaultOutput {
		_, err := stdout.Write(data)
		return err
	}

	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return err
	}
	return os.Chmod(path, FilePermissions)
}

// loadData decodes template attributes from a data file or an inline JSON string.
// Files ending in .yaml or .yml are decoded as YAML.
func loadData(jsonStr, filePath string) (map[string]any, error) {
	result := make(map[string]any)

	switch {
	case filePath != "":
		data, err := os.ReadFile(filePath)
		if err != nil {
			return nil, err
		}
		ext := strings.ToLower(filepath.Ext(filePath))
		if ext == DataExtYAML || ext == DataExtYML {
			err = yaml.Unmarshal(data, &result)
		} else {
			err = json.Unmarshal(data, &result)
		}
		if err != nil {
			return nil, err
		}
	case jsonStr != "":
		if err := json.Unmarshal([]byte(jsonStr), &result); err != nil {
			return nil, err
		}
	}

	if result == nil {
		result = make(map[string]any)
	}
	return result, nil
}
