// Copyright (c) 2026 Viewforge Contributors
// All rights reserved. See LICENSE for details.

// Package unit compiles generated programs into loaded, invokable units.
// A unit wraps a parsed html/template plus the directive metadata carried
// over from generation.
package unit

import (
	"html/template"
	"sort"
	"strings"

	"viewforge/internal/codegen"
)

// Unit is a loaded template unit, ready to execute.
type Unit struct {
	Template *template.Template
	Meta     map[string]string
}

// Compiler parses program text into executable templates with a shared
// function map.
type Compiler struct {
	funcs template.FuncMap
}

// NewCompiler creates a unit compiler with the default function map.
func NewCompiler() *Compiler {
	return &Compiler{
		funcs: template.FuncMap{
			"upper": strings.ToUpper,
			"lower": strings.ToLower,
			"trim":  strings.TrimSpace,
			"safe":  func(s string) template.HTML { return template.HTML(s) },
		},
	}
}

// CompileAndLoad parses the program into an executable unit. Parse
// failures surface to the caller as compilation errors.
func (c *Compiler) CompileAndLoad(p *codegen.Program) (*Unit, error) {
	tmpl, err := template.New(p.Name).Funcs(c.funcs).Parse(p.Text)
	if err != nil {
		return nil, err
	}
	return &Unit{Template: tmpl, Meta: p.Meta}, nil
}

// ExtractMetadata returns the unit's directive metadata and a sorted
// "name=value" attribute list derived from it.
func (c *Compiler) ExtractMetadata(u *Unit) (map[string]string, []string) {
	if len(u.Meta) == 0 {
		return u.Meta, nil
	}
	attrs := make([]string, 0, len(u.Meta))
	for k, v := range u.Meta {
		attrs = append(attrs, k+"="+v)
	}
	sort.Strings(attrs)
	return u.Meta, attrs
}
