package templates

import (
	"bytes"
	"html/template"
	texttemplate "text/template"
)

// Parser normalizes and validates a context before rendering.
type Parser[T any] func(context T) (T, error)

// TypedTemplate renders an HTML body and an optional plain-text body from the
// same context.
type TypedTemplate[T any] struct {
	Name         string
	HTMLTemplate *template.Template
	TextTemplate *texttemplate.Template
	Parse        Parser[T]
}

func (t *TypedTemplate[T]) GetName() string {
	return t.Name
}

func (t *TypedTemplate[T]) Render(context T) (string, string, error) {
	if t.Parse != nil {
		parsed, err := t.Parse(context)
		if err != nil {
			return "", "", err
		}
		context = parsed
	}

	var htmlBuf bytes.Buffer
	if err := t.HTMLTemplate.Execute(&htmlBuf, context); err != nil {
		return "", "", err
	}

	var textBuf bytes.Buffer
	if t.TextTemplate != nil {
		if err := t.TextTemplate.Execute(&textBuf, context); err != nil {
			return "", "", err
		}
	}

	return htmlBuf.String(), textBuf.String(), nil
}

func NewTemplate[T any](name string, htmlTmpl string, textTmpl string, parser Parser[T]) (*TypedTemplate[T], error) {
	htmlTemplate, err := template.New(name + "_html").Parse(htmlTmpl)
	if err != nil {
		return nil, err
	}

	var textTemplate *texttemplate.Template
	if textTmpl != "" {
		textTemplate, err = texttemplate.New(name + "_text").Parse(textTmpl)
		if err != nil {
			return nil, err
		}
	}

	return &TypedTemplate[T]{
		Name:         name,
		HTMLTemplate: htmlTemplate,
		TextTemplate: textTemplate,
		Parse:        parser,
	}, nil
}

// MustTemplate is NewTemplate for package-level templates known to parse.
func MustTemplate[T any](name string, htmlTmpl string, textTmpl string, parser Parser[T]) *TypedTemplate[T] {
	t, err := NewTemplate(name, htmlTmpl, textTmpl, parser)
	if err != nil {
		panic(err)
	}
	return t
}
