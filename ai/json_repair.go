// Copyright 2025 Poiesic Systems
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


package ai

// repairJSON fixes common formatting slips in model replies: keys missing
// their opening quote (`, type":` becomes `, "type":`) and trailing commas
// before a closing brace or bracket. String contents are never altered.
func repairJSON(s string) string {
	in := []rune(s)
	out := make([]rune, 0, len(in)+16)
	inString, escaped := false, false

	i := 0
	for i < len(in) {
		ch := in[i]

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
			i++
			continue
		}

		switch ch {
		case '"':
			inString = true
			out = append(out, ch)
			i++
		case ',':
			next := skipSpace(in, i+1)
			if next < len(in) && (in[next] == '}' || in[next] == ']') {
				// Trailing comma
				i++
				continue
			}
			out = append(out, ch)
			i = quoteKey(in, i+1, &out)
		case '{':
			out = append(out, ch)
			i = quoteKey(in, i+1, &out)
		default:
			out = append(out, ch)
			i++
		}
	}

	return string(out)
}

// quoteKey copies the whitespace at in[start:] and, when it is followed by a
// key that lacks its opening quote, writes the repaired key including its
// closing quote and colon. It returns the index to continue from.
func quoteKey(in []rune, start int, out *[]rune) int {
	i := skipSpace(in, start)
	*out = append(*out, in[start:i]...)

	if i >= len(in) || !isLetter(in[i]) {
		return i
	}

	end := i
	for end < len(in) && (isLetter(in[end]) || isDigit(in[end]) || in[end] == '_') {
		end++
	}
	if end+1 < len(in) && in[end] == '"' && in[end+1] == ':' {
		*out = append(*out, '"')
		*out = append(*out, in[i:end]...)
		*out = append(*out, '"', ':')
		return end + 2
	}
	return i
}

func skipSpace(in []rune, i int) int {
	for i < len(in) && (in[i] == ' ' || in[i] == '\n' || in[i] == '\t' || in[i] == '\r') {
		i++
	}
	return i
}

// isLetter returns true if the rune is an ASCII letter.
func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}
