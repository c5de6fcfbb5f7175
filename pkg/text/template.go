// Copyright 2025 walteh LLC
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


package text

import (
	"strconv"
	"strings"

	"gitlab.com/tozd/go/errors"
)

// compileTemplate rewrites a replacement template into the ${ref} form both engines
// expand, checking every reference with hasGroup. Accepted references are \N, \g<ref>,
// $N and ${ref}. $$ is a literal dollar, as is any other $, and \\ is a literal backslash.
func compileTemplate(template string, hasGroup func(ref string) bool) (string, error) {
	var b strings.Builder
	b.Grow(len(template))

	ref := func(r string) error {
		if !validRef(r) {
			return errors.Errorf("malformed group reference %q", r)
		}
		if !hasGroup(r) {
			return errors.Errorf("replacement references unknown group %q", r)
		}
		if allDigits(r) {
			n, _ := strconv.Atoi(r)
			r = strconv.Itoa(n)
		}
		b.WriteString("${" + r + "}")
		return nil
	}

	for i := 0; i < len(template); i++ {
		c := template[i]
		rest := template[i+1:]

		switch {
		case c == '\\' && strings.HasPrefix(rest, "\\"):
			b.WriteByte('\\')
			i++
		case c == '\\' && len(rest) > 0 && isDigit(rest[0]):
			n := digitPrefix(rest)
			if err := ref(rest[:n]); err != nil {
				return "", err
			}
			i += n
		case c == '\\' && strings.HasPrefix(rest, "g<"):
			end := strings.IndexByte(rest, '>')
			if end < 0 {
				return "", errors.Errorf("unterminated group reference %q", template[i:])
			}
			if err := ref(rest[2:end]); err != nil {
				return "", err
			}
			i += end + 1
		case c == '$' && strings.HasPrefix(rest, "$"):
			b.WriteString("$$")
			i++
		case c == '$' && len(rest) > 0 && isDigit(rest[0]):
			n := digitPrefix(rest)
			if err := ref(rest[:n]); err != nil {
				return "", err
			}
			i += n
		case c == '$' && strings.HasPrefix(rest, "{"):
			end := strings.IndexByte(rest, '}')
			if end < 0 {
				return "", errors.Errorf("unterminated group reference %q", template[i:])
			}
			if err := ref(rest[1:end]); err != nil {
				return "", err
			}
			i += end + 1
		case c == '$':
			b.WriteString("$$")
		default:
			b.WriteByte(c)
		}
	}

	return b.String(), nil
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func digitPrefix(s string) int {
	n := 0
	for n < len(s) && isDigit(s[n]) {
		n++
	}
	return n
}

func allDigits(s string) bool {
	return s != "" && digitPrefix(s) == len(s)
}

// validRef accepts group numbers and identifiers.
func validRef(s string) bool {
	if s == "" {
		return false
	}
	if allDigits(s) {
		return true
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '_' && !isDigit(c) && !(c >= 'a' && c <= 'z') && !(c >= 'A' && c <= 'Z') {
			return false
		}
	}
	return !isDigit(s[0])
}
