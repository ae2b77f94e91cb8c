// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package messages

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// Catalog turns a message key and arguments into text.
type Catalog interface {
	Format(key string, args ...string) string
}

var englishMessages = map[string]string{
	"cron.everyMinute":               `Do you really mean "every minute" when you say "{0}"? Perhaps you meant "{1}"`,
	"cron.shortDayOfMonthCycles":     "Short cycles in the day of month field will behave oddly near the end of a month",
	"cron.spreadLoad":                `To spread load evenly, consider "{0}" rather than "{1}"`,
	"schedule.missingWhitespace":     "You appear to be missing whitespace between * and *.",
	"schedule.undefinedParameters":   "The parameters {0} are not defined by this job. Defined parameters: {1}",
	"schedule.causeShortDescription": "Started by parameterized timer with parameters {0}",
}

var english = &Table{tag: language.English, messages: englishMessages}

// English returns the built-in English catalog.
func English() *Table { return english }

// Table is a Catalog backed by a key/template map. Keys it lacks are
// resolved through its fallback, ending at English.
type Table struct {
	tag      language.Tag
	messages map[string]string
	fallback *Table
}

// Tag returns the locale the table was declared for.
func (t *Table) Tag() language.Tag { return t.tag }

// Format renders key with args substituted for {0}, {1}, ... Unknown
// keys render as the key followed by the arguments, so a missing
// translation is visible rather than silent.
func (t *Table) Format(key string, args ...string) string {
	for table := t; table != nil; table = table.fallback {
		if template, ok := table.messages[key]; ok {
			return substitute(template, args)
		}
	}
	if len(args) == 0 {
		return key
	}
	return key + ": " + strings.Join(args, ", ")
}

func substitute(template string, args []string) string {
	if len(args) == 0 {
		return template
	}
	pairs := make([]string, 0, 2*len(args))
	for index, arg := range args {
		pairs = append(pairs, "{"+strconv.Itoa(index)+"}", arg)
	}
	return strings.NewReplacer(pairs...).Replace(template)
}

// catalogFile is the YAML layout of a catalog file.
type catalogFile struct {
	Locale   string            `yaml:"locale"`
	Messages map[string]string `yaml:"messages"`
}

// ParseCatalog parses a YAML catalog. The locale must be a valid BCP
// 47 tag. Missing keys fall back to English.
func ParseCatalog(data []byte) (*Table, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing message catalog: %w", err)
	}
	if file.Locale == "" {
		return nil, fmt.Errorf("message catalog has no locale")
	}
	tag, err := language.Parse(file.Locale)
	if err != nil {
		return nil, fmt.Errorf("message catalog locale %q: %w", file.Locale, err)
	}
	return &Table{tag: tag, messages: file.Messages, fallback: english}, nil
}

// LoadCatalog reads and parses a YAML catalog file.
func LoadCatalog(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading message catalog: %w", err)
	}
	table, err := ParseCatalog(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return table, nil
}

// Bundle selects among catalogs by locale. English is always present
// and is the default match.
type Bundle struct {
	tables  []*Table
	matcher language.Matcher
}

// NewBundle builds a Bundle from English plus the given tables. A
// later table for the same tag replaces an earlier one.
func NewBundle(tables ...*Table) *Bundle {
	all := []*Table{english}
	for _, table := range tables {
		replaced := false
		for index, existing := range all {
			if existing.tag == table.tag {
				all[index] = table
				replaced = true
				break
			}
		}
		if !replaced {
			all = append(all, table)
		}
	}

	tags := make([]language.Tag, len(all))
	for index, table := range all {
		tags[index] = table.tag
	}
	return &Bundle{tables: all, matcher: language.NewMatcher(tags)}
}

// Catalog returns the best catalog for a BCP 47 locale string such as
// "de-CH" or "en". Unparseable or unmatched locales get the default.
func (b *Bundle) Catalog(locale string) Catalog {
	requested, err := language.Parse(locale)
	if err != nil {
		return b.tables[0]
	}
	_, index, confidence := b.matcher.Match(requested)
	if confidence == language.No {
		return b.tables[0]
	}
	return b.tables[index]
}
