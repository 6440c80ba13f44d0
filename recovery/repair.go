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

import "strings"

// stripFences removes markdown code fences surrounding a model response.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// extractBalanced finds the first JSON document embedded in s: the substring
// from the first opening brace or bracket to its balanced closer. The scan is
// string-aware, so brackets inside string values are ignored. If the document
// never balances, the remainder of the input is returned with ok=false so the
// repair steps can still work on it.
func extractBalanced(s string) (extracted string, ok bool) {
	start := -1
	for i, r := range s {
		if r == '{' || r == '[' {
			start = i
			break
		}
	}
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		ch := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '{', '[':
			depth++
		case '}', ']':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return s[start:], false
}

// repairUnquotedKeys restores the opening quote models drop from object keys.
// After { or , a bare identifier running into ": gains the missing quote
// (`, keywords": [` becomes `, "keywords": [`). String contents are left
// untouched.
func repairUnquotedKeys(s string) string {
	out := make([]byte, 0, len(s)+16)
	inString := false
	escaped := false

	for i := 0; i < len(s); i++ {
		ch := s[i]
		out = append(out, ch)

		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		if ch == '"' {
			inString = true
			continue
		}
		if ch != '{' && ch != ',' {
			continue
		}

		// Lookahead: optional whitespace, then an identifier ending in ":
		j := i + 1
		for j < len(s) && (s[j] == ' ' || s[j] == '\t' || s[j] == '\n' || s[j] == '\r') {
			j++
		}
		k := j
		for k < len(s) && isKeyByte(s[k]) {
			k++
		}
		if k > j && k+1 < len(s) && s[k] == '"' && s[k+1] == ':' {
			out = append(out, s[i+1:j]...)
			out = append(out, '"')
			out = append(out, s[j:k]...)
			out = append(out, '"', ':')
			// The closing quote belongs to the key, not a string value; skip
			// the scanner past it and the colon.
			i = k + 1
		}
	}

	return string(out)
}

func isKeyByte(ch byte) bool {
	return ch >= 'a' && ch <= 'z' || ch >= 'A' && ch <= 'Z' || ch >= '0' && ch <= '9' || ch == '_'
}

// stripTrailingCommas removes commas that directly precede a closing brace
// or bracket. String contents are left untouched.
func stripTrailingCommas(s string) string {
	inString := false
	escaped := false
	pendingComma := -1 // index into out of a comma awaiting a verdict

	flushPending := func() {
		pendingComma = -1
	}

	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if inString {
			out = append(out, ch)
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
			flushPending()
			out = append(out, ch)
		case ',':
			pendingComma = len(out)
			out = append(out, ch)
		case '}', ']':
			if pendingComma >= 0 {
				// Drop the comma and any whitespace that followed it
				out = out[:pendingComma]
				pendingComma = -1
			}
			out = append(out, ch)
		case ' ', '\t', '\n', '\r':
			out = append(out, ch)
		default:
			flushPending()
			out = append(out, ch)
		}
	}

	return string(out)
}

// balanceBrackets appends the closers needed to balance an unterminated JSON
// document. Input that ends inside a string value cannot be balanced reliably
// and is returned unchanged.
func balanceBrackets(s string) string {
	var stack []byte
	inString := false
	escaped := false
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '{':
			stack = append(stack, '}')
		case '[':
			stack = append(stack, ']')
		case '}', ']':
			if len(stack) > 0 && stack[len(stack)-1] == ch {
				stack = stack[:len(stack)-1]
			}
		}
	}

	if inString || len(stack) == 0 {
		return s
	}

	trimmed := strings.TrimRight(s, " \t\n\r")
	// A dangling comma before the synthesized closers would re-break the JSON
	trimmed = strings.TrimSuffix(trimmed, ",")

	var b strings.Builder
	b.WriteString(trimmed)
	for i := len(stack) - 1; i >= 0; i-- {
		b.WriteByte(stack[i])
	}
	return b.String()
}
