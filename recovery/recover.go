// Copyright 2025 Quellwerk
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package recovery

import (
	"encoding/json"
	"fmt"
)

// Recover extracts a JSON document from raw model output and validates it
// against the schema.
//
// The sequence is fixed: strip markdown fences, extract the balanced JSON
// substring, parse. If parsing fails, a bounded list of repairs is applied
// cumulatively with a reparse after each: unquoted-key repair, trailing-comma
// removal, bracket balancing. Input that still does not parse is rejected
// with ErrUnparseable; parsed documents that violate the schema are rejected
// with ErrSchemaMismatch. Recovery never invents content: repairs only touch
// JSON syntax, never string values.
func Recover(raw string, schema *Schema) (map[string]any, error) {
	candidate := stripFences(raw)
	candidate, _ = extractBalanced(candidate)
	if candidate == "" {
		return nil, fmt.Errorf("%w: no JSON document in input", ErrUnparseable)
	}

	value, err := parse(candidate)
	if err != nil {
		repairs := []func(string) string{
			repairUnquotedKeys,
			stripTrailingCommas,
			balanceBrackets,
		}
		for _, repair := range repairs {
			candidate = repair(candidate)
			if value, err = parse(candidate); err == nil {
				break
			}
		}
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnparseable, err)
	}

	return schema.apply(value)
}

func parse(s string) (any, error) {
	var value any
	if err := json.Unmarshal([]byte(s), &value); err != nil {
		return nil, err
	}
	return value, nil
}
