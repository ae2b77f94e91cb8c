// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package params

import (
	"errors"
	"fmt"
	"iter"
	"maps"
	"strings"
)

// ErrMalformed is wrapped by every error Parse returns.
var ErrMalformed = errors.New("malformed parameter syntax")

const (
	escapeCharacter = '\\'
	lineSeparator   = '%'
	pairSeparator   = '&'
	valueSeparator  = '='
)

// Parameters is an ordered name/value mapping. The zero value is an
// empty mapping. Parameters is immutable and safe for concurrent use.
type Parameters struct {
	names  []string
	values map[string]string
}

// New builds Parameters from alternating name/value arguments. It
// panics on an odd argument count and is meant for tests and
// literals.
func New(pairs ...string) Parameters {
	if len(pairs)%2 != 0 {
		panic("params.New: odd number of arguments")
	}
	var builder builder
	for index := 0; index < len(pairs); index += 2 {
		builder.set(pairs[index], pairs[index+1])
	}
	return builder.build()
}

// Len returns the number of distinct names.
func (p Parameters) Len() int { return len(p.names) }

// Names returns the names in declaration order.
func (p Parameters) Names() []string {
	return append([]string(nil), p.names...)
}

// Get returns the value for name, or "" when absent.
func (p Parameters) Get(name string) string {
	return p.values[name]
}

// Lookup returns the value for name and whether it is present.
func (p Parameters) Lookup(name string) (string, bool) {
	value, ok := p.values[name]
	return value, ok
}

// Map returns a copy of the mapping. Order is lost.
func (p Parameters) Map() map[string]string {
	result := make(map[string]string, len(p.values))
	maps.Copy(result, p.values)
	return result
}

// Pair is one name=value assignment. A slice of pairs is the wire form
// of Parameters, since JSON objects and CBOR maps do not keep order.
type Pair struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Pairs returns the assignments in declaration order. The result is
// never nil.
func (p Parameters) Pairs() []Pair {
	pairs := make([]Pair, 0, len(p.names))
	for _, name := range p.names {
		pairs = append(pairs, Pair{Name: name, Value: p.values[name]})
	}
	return pairs
}

// FromPairs builds Parameters from pairs, keeping their order. A
// repeated name keeps its first position and its last value.
func FromPairs(pairs []Pair) Parameters {
	var builder builder
	for _, pair := range pairs {
		builder.set(pair.Name, pair.Value)
	}
	return builder.build()
}

// All yields name/value pairs in declaration order.
func (p Parameters) All() iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		for _, name := range p.names {
			if !yield(name, p.values[name]) {
				return
			}
		}
	}
}

// Equal reports whether both mappings hold the same pairs in the same
// order.
func (p Parameters) Equal(other Parameters) bool {
	if len(p.names) != len(other.names) {
		return false
	}
	for index, name := range p.names {
		if other.names[index] != name || other.values[name] != p.values[name] {
			return false
		}
	}
	return true
}

// String renders the mapping as {name=value, name=value}, the form
// used in trigger cause descriptions.
func (p Parameters) String() string {
	var builder strings.Builder
	builder.WriteByte('{')
	for index, name := range p.names {
		if index > 0 {
			builder.WriteString(", ")
		}
		builder.WriteString(name)
		builder.WriteByte('=')
		builder.WriteString(p.values[name])
	}
	builder.WriteByte('}')
	return builder.String()
}

type builder struct {
	names  []string
	values map[string]string
}

func (b *builder) set(name, value string) {
	if b.values == nil {
		b.values = make(map[string]string)
	}
	if _, exists := b.values[name]; !exists {
		b.names = append(b.names, name)
	}
	b.values[name] = value
}

func (b *builder) build() Parameters {
	return Parameters{names: b.names, values: b.values}
}

// SplitLine splits a schedule line at its first unescaped "%". The
// returned cron part is trimmed; the parameter region is returned as
// written. hasParameters is false when the line has no "%".
func SplitLine(line string) (cronPart, region string, hasParameters bool) {
	index := indexUnescaped(line, lineSeparator)
	if index < 0 {
		return strings.TrimSpace(line), "", false
	}
	return strings.TrimSpace(line[:index]), line[index+1:], true
}

// Parse parses an assignment region (the text after "%").
func Parse(region string) (Parameters, error) {
	var result builder
	if strings.TrimSpace(region) == "" {
		return result.build(), nil
	}

	if index := indexUnescaped(region, lineSeparator); index >= 0 {
		return Parameters{}, fmt.Errorf("%w: only one %% is allowed per line", ErrMalformed)
	}

	pairs := splitUnescaped(region, pairSeparator)
	// A single trailing separator is tolerated.
	if len(pairs) > 1 && strings.TrimSpace(pairs[len(pairs)-1]) == "" {
		pairs = pairs[:len(pairs)-1]
	}

	for index, pair := range pairs {
		rawName, rawValue, ok := strings.Cut(pair, string(valueSeparator))
		if !ok {
			return Parameters{}, fmt.Errorf("%w: assignment %d %q has no %q",
				ErrMalformed, index+1, strings.TrimSpace(unescape(pair)), string(valueSeparator))
		}
		name := strings.TrimSpace(unescape(rawName))
		if name == "" {
			return Parameters{}, fmt.Errorf("%w: assignment %d has an empty name", ErrMalformed, index+1)
		}
		if strings.ContainsAny(name, "&%") {
			return Parameters{}, fmt.Errorf("%w: parameter name %q contains a reserved character", ErrMalformed, name)
		}
		result.set(name, unescape(rawValue))
	}

	return result.build(), nil
}

// Format renders Parameters back into an assignment region that
// Parse reads as the same mapping.
func Format(parameters Parameters) string {
	var builder strings.Builder
	for index, name := range parameters.names {
		if index > 0 {
			builder.WriteByte(pairSeparator)
		}
		builder.WriteString(escape(name))
		builder.WriteByte(valueSeparator)
		builder.WriteString(escape(parameters.values[name]))
	}
	return builder.String()
}

// indexUnescaped returns the index of the first occurrence of target
// not preceded by an escape, or -1.
func indexUnescaped(text string, target byte) int {
	for index := 0; index < len(text); index++ {
		switch text[index] {
		case escapeCharacter:
			index++
		case target:
			return index
		}
	}
	return -1
}

// splitUnescaped splits text at every unescaped separator. Escapes are
// left in place for unescape.
func splitUnescaped(text string, separator byte) []string {
	var parts []string
	start := 0
	for index := 0; index < len(text); index++ {
		switch text[index] {
		case escapeCharacter:
			index++
		case separator:
			parts = append(parts, text[start:index])
			start = index + 1
		}
	}
	return append(parts, text[start:])
}

// unescape resolves \&, \% and \\. Other backslashes are kept.
func unescape(text string) string {
	if strings.IndexByte(text, escapeCharacter) < 0 {
		return text
	}
	var builder strings.Builder
	for index := 0; index < len(text); index++ {
		character := text[index]
		if character == escapeCharacter && index+1 < len(text) {
			switch next := text[index+1]; next {
			case pairSeparator, lineSeparator, escapeCharacter:
				builder.WriteByte(next)
				index++
				continue
			}
		}
		builder.WriteByte(character)
	}
	return builder.String()
}

// escape is the inverse of unescape for the reserved characters.
// A backslash is only doubled when unescape would otherwise consume
// it.
func escape(text string) string {
	var builder strings.Builder
	for index := 0; index < len(text); index++ {
		character := text[index]
		switch character {
		case pairSeparator, lineSeparator:
			builder.WriteByte(escapeCharacter)
		case escapeCharacter:
			if index+1 == len(text) || isEscapable(text[index+1]) {
				builder.WriteByte(escapeCharacter)
			}
		}
		builder.WriteByte(character)
	}
	return builder.String()
}

func isEscapable(character byte) bool {
	return character == pairSeparator || character == lineSeparator || character == escapeCharacter
}
