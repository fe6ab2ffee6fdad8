// Copyright 2026 Google Inc. All rights reserved.
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

// Package proptools escapes rendered command lines for the Ninja manifest and
// the shell that Ninja runs them with.
package proptools

import "strings"

// NinjaEscapeList returns a new slice with every element passed through
// NinjaEscape.
func NinjaEscapeList(slice []string) []string {
	slice = append([]string(nil), slice...)
	for i, s := range slice {
		slice[i] = NinjaEscape(s)
	}
	return slice
}

// NinjaEscape escapes the characters that are meaningful to ninja ($) so that
// s reaches the shell unchanged.  Paths in build statements are escaped
// separately by the manifest writer.
func NinjaEscape(s string) string {
	return ninjaEscaper.Replace(s)
}

var ninjaEscaper = strings.NewReplacer(
	"$", "$$")

func shellUnsafeChar(r rune) bool {
	switch {
	case 'A' <= r && r <= 'Z',
		'a' <= r && r <= 'z',
		'0' <= r && r <= '9',
		r == '_',
		r == '+',
		r == '-',
		r == '=',
		r == '.',
		r == ',',
		r == '/',
		r == ':',
		r == '@':
		return false
	default:
		return true
	}
}

// ShellEscape wraps s in single quotes if it contains characters other than
// spaces that are meaningful to the shell.  Internal single quotes become
// '\'' (end the quoting, insert an escaped quote, restart the quoting).
func ShellEscape(s string) string {
	shellUnsafeCharNotSpace := func(r rune) bool {
		return r != ' ' && shellUnsafeChar(r)
	}

	if strings.IndexFunc(s, shellUnsafeCharNotSpace) == -1 {
		return s
	}

	return `'` + singleQuoteReplacer.Replace(s) + `'`
}

// ShellEscapeIncludingSpaces is like ShellEscape but also quotes spaces, so
// the result is always a single shell word.  The empty string becomes ''.
func ShellEscapeIncludingSpaces(s string) string {
	if s == "" {
		return `''`
	}
	if strings.IndexFunc(s, shellUnsafeChar) == -1 {
		return s
	}

	return `'` + singleQuoteReplacer.Replace(s) + `'`
}

// ShellJoin quotes every element of argv as one shell word and joins them
// with spaces.
func ShellJoin(argv []string) string {
	words := make([]string, len(argv))
	for i, arg := range argv {
		words[i] = ShellEscapeIncludingSpaces(arg)
	}
	return strings.Join(words, " ")
}

// NinjaAndShellJoin is ShellJoin followed by NinjaEscape.
func NinjaAndShellJoin(argv []string) string {
	return NinjaEscape(ShellJoin(argv))
}

var singleQuoteReplacer = strings.NewReplacer(`'`, `'\''`)
