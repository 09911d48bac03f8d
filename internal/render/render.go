// Package render loads text templates and substitutes {name} placeholders.
//
// Placeholders follow the brace style of the shipped templates: {name} is
// replaced, {{ and }} stand for literal braces. Substitution is strict; a
// placeholder without a value is an error, never left in place.
package render

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// TemplateError reports a template that could not be loaded or rendered.
type TemplateError struct {
	Template    string
	Placeholder string
	Err         error
}

func (e *TemplateError) Error() string {
	name := e.Template
	if name == "" {
		name = "template"
	}
	if e.Placeholder != "" {
		return fmt.Sprintf("%s: placeholder {%s}: %v", name, e.Placeholder, e.Err)
	}
	return fmt.Sprintf("%s: %v", name, e.Err)
}

func (e *TemplateError) Unwrap() error { return e.Err }

// Load reads the template called name from dir.
func Load(dir, name string) (string, error) {
	path := filepath.Join(dir, name)
	data, err := os.ReadFile(path)
	if err != nil {
		return "", &TemplateError{Template: path, Err: err}
	}
	return string(data), nil
}

// Execute loads the template called name from dir and renders it with values.
func Execute(dir, name string, values map[string]string) (string, error) {
	tmpl, err := Load(dir, name)
	if err != nil {
		return "", err
	}
	out, err := Render(tmpl, values)
	if err != nil {
		var terr *TemplateError
		if errors.As(err, &terr) {
			terr.Template = filepath.Join(dir, name)
		}
		return "", err
	}
	return out, nil
}

// Render replaces every placeholder in tmpl with its entry in values.
func Render(tmpl string, values map[string]string) (string, error) {
	var b strings.Builder
	b.Grow(len(tmpl))

	for i := 0; i < len(tmpl); i++ {
		c := tmpl[i]
		switch c {
		case '{':
			if i+1 < len(tmpl) && tmpl[i+1] == '{' {
				b.WriteByte('{')
				i++
				continue
			}
			end := strings.IndexByte(tmpl[i+1:], '}')
			if end < 0 {
				return "", &TemplateError{Err: fmt.Errorf("unclosed '{' at offset %d", i)}
			}
			name := tmpl[i+1 : i+1+end]
			if !validName(name) {
				return "", &TemplateError{Placeholder: name, Err: fmt.Errorf("invalid placeholder name")}
			}
			v, ok := values[name]
			if !ok {
				return "", &TemplateError{Placeholder: name, Err: fmt.Errorf("no value")}
			}
			b.WriteString(v)
			i += end + 1
		case '}':
			if i+1 < len(tmpl) && tmpl[i+1] == '}' {
				b.WriteByte('}')
				i++
				continue
			}
			return "", &TemplateError{Err: fmt.Errorf("single '}' at offset %d", i)}
		default:
			b.WriteByte(c)
		}
	}
	return b.String(), nil
}

// validName accepts identifiers made of letters, digits and underscores that
// do not start with a digit.
func validName(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}
