// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package settings

import (
	"fmt"
	"path"
	"strings"

	"github.com/mitchellh/mapstructure"
)

type Options struct {
	// EntryPath is the virtual path of the main source
	EntryPath string `mapstructure:"entryPath"`

	// Inputs are exposed to documents as sys.inputs
	Inputs map[string]string `mapstructure:"inputs"`

	// FontPaths describes a list of directories to load fonts from.
	// Only native hosts with access to a filesystem use these.
	FontPaths []string `mapstructure:"fontPaths"`
}

func (o *Options) Validate() error {
	if o.EntryPath != "" {
		p := strings.ReplaceAll(o.EntryPath, "\\", "/")
		if strings.HasPrefix(p, "/") {
			return fmt.Errorf("expected relative entry path, got %q", o.EntryPath)
		}
		clean := path.Clean(p)
		if clean == ".." || strings.HasPrefix(clean, "../") {
			return fmt.Errorf("entry path %q points outside of the project", o.EntryPath)
		}
		if clean == "." {
			return fmt.Errorf("expected file as entry path, got %q", o.EntryPath)
		}
	}

	for _, fp := range o.FontPaths {
		if strings.TrimSpace(fp) == "" {
			return fmt.Errorf("font path must not be empty")
		}
	}

	return nil
}

type DecodedOptions struct {
	Options    *Options
	UnusedKeys []string
}

func DecodeOptions(input interface{}) (*DecodedOptions, error) {
	var md mapstructure.Metadata
	var options Options

	config := &mapstructure.DecoderConfig{
		Metadata:         &md,
		Result:           &options,
		WeaklyTypedInput: true,
	}
	decoder, err := mapstructure.NewDecoder(config)
	if err != nil {
		panic(err)
	}

	if err := decoder.Decode(input); err != nil {
		return nil, err
	}

	return &DecodedOptions{
		Options:    &options,
		UnusedKeys: md.Unused,
	}, nil
}
