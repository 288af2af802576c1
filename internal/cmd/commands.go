// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"flag"
	"fmt"
	"io/ioutil"
	"sort"
	"strings"

	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
)

func defaultFlagSet(cmdName string) *flag.FlagSet {
	f := flag.NewFlagSet(cmdName, flag.ContinueOnError)
	f.SetOutput(ioutil.Discard)

	// Set the default Usage to empty
	f.Usage = func() {}

	return f
}

func helpForFlags(fs *flag.FlagSet) string {
	buf := &strings.Builder{}
	buf.WriteString("Options:\n\n")

	w := fs.Output()
	defer fs.SetOutput(w)
	fs.SetOutput(buf)
	fs.PrintDefaults()

	return buf.String()
}

// stringSlice is a flag which can be repeated
type stringSlice []string

func (s *stringSlice) String() string {
	return strings.Join(*s, ",")
}

func (s *stringSlice) Set(value string) error {
	*s = append(*s, value)
	return nil
}

// inputsFlag collects repeated key=value pairs
type inputsFlag map[string]string

func (f inputsFlag) String() string {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+f[k])
	}
	return strings.Join(pairs, ",")
}

func (f inputsFlag) Set(value string) error {
	key, val, ok := strings.Cut(value, "=")
	if !ok || key == "" {
		return fmt.Errorf("expected key=value, got %q", value)
	}
	f[key] = val
	return nil
}

// expandPaths expands a leading ~ in each path
func expandPaths(paths []string) ([]string, error) {
	expanded := make([]string, 0, len(paths))
	for _, p := range paths {
		ep, err := homedir.Expand(p)
		if err != nil {
			return nil, fmt.Errorf("failed to expand %q: %w", p, err)
		}
		expanded = append(expanded, ep)
	}
	return expanded, nil
}

// readInputs merges inputs from an env-style file with inputs
// given on the command line, the latter taking precedence
func readInputs(filePath string, overrides map[string]string) (map[string]string, error) {
	inputs := make(map[string]string)
	if filePath != "" {
		path, err := homedir.Expand(filePath)
		if err != nil {
			return nil, err
		}
		fileInputs, err := godotenv.Read(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read inputs file: %w", err)
		}
		for k, v := range fileInputs {
			inputs[k] = v
		}
	}
	for k, v := range overrides {
		inputs[k] = v
	}
	return inputs, nil
}
