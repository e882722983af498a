// Copyright (c) 2026 Viewforge Contributors
// All rights reserved. See LICENSE for details.

// Package codegen translates template items into generated programs: the
// intermediate representation the unit compiler turns into a loadable
// unit. Generation strips directive lines into metadata and, for .md
// templates, renders the Markdown body to HTML first.
package codegen

import (
	"context"
	"fmt"
	"path"
	"strings"

	"viewforge/internal/markdown"
	"viewforge/internal/source"
)

// Program is the generated-program representation of a template: a name,
// the executable template text, and the directive metadata stripped from
// the item's header.
type Program struct {
	Name string
	Text string
	Meta map[string]string
}

// Generator translates source items into programs.
type Generator struct{}

// NewGenerator creates a generator.
func NewGenerator() *Generator {
	return &Generator{}
}

// Generate reads the item content, strips leading @directive lines into
// metadata, and converts Markdown bodies to HTML. The item must exist.
func (g *Generator) Generate(ctx context.Context, item *source.Item) (*Program, error) {
	text, err := item.Content()
	if err != nil {
		return nil, err
	}

	meta, body := splitDirectives(text)

	if strings.HasSuffix(strings.ToLower(item.Key), ".md") {
		rendered, err := markdown.ToHTML(body)
		if err != nil {
			return nil, fmt.Errorf("render markdown body: %w", err)
		}
		body = rendered
		meta["format"] = "markdown"
	}

	return &Program{
		Name: path.Base(item.Key),
		Text: body,
		Meta: meta,
	}, nil
}

// splitDirectives peels `@name value` lines off the top of the template.
// The first line that is not a directive ends the header; everything
// after it is the template body. A lone "@" or a line without a value is
// left in the body untouched.
func splitDirectives(text string) (map[string]string, string) {
	meta := make(map[string]string)
	rest := text

	for {
		line, tail, found := strings.Cut(rest, "\n")
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, "@") {
			break
		}
		name, value, ok := strings.Cut(strings.TrimPrefix(trimmed, "@"), " ")
		if !ok || name == "" {
			break
		}
		meta[name] = strings.TrimSpace(value)
		if !found {
			rest = ""
			break
		}
		rest = tail
	}

	return meta, rest
}
