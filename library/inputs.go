// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package library

import (
	"encoding/json"
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// DecodeInputs decodes input variables from an untyped value
// as received from a host (e.g. decoded JSON or a JS object).
//
// Scalar values are coerced to strings, i.e. 42 becomes "42".
func DecodeInputs(raw interface{}) (map[string]string, error) {
	inputs := make(map[string]string, 0)
	if raw == nil {
		return inputs, nil
	}

	config := &mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &inputs,
	}
	decoder, err := mapstructure.NewDecoder(config)
	if err != nil {
		return nil, err
	}

	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("invalid inputs: %w", err)
	}

	return inputs, nil
}

// DecodeInputsJSON decodes input variables from a JSON object
// with the same coercion rules as DecodeInputs
func DecodeInputsJSON(data []byte) (map[string]string, error) {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("invalid inputs: %w", err)
	}
	return DecodeInputs(raw)
}
