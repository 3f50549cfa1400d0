package phrasing

import (
	"context"
	_ "embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/spigell/hh-screener/internal/screening"
)

//go:embed templates.tmpl
var templateSource string

var funcs = template.FuncMap{
	"join":  func(items []string) string { return strings.Join(items, ", ") },
	"lower": lowerFirst,
	"period": func(s string) string {
		if strings.HasSuffix(s, ".") {
			return s
		}
		return s + "."
	},
	"first": func(n int, items []string) []string {
		if len(items) > n {
			return items[:n]
		}
		return items
	},
	"companyName": func(c *screening.CompanyFacts) string {
		if c == nil || c.Name == "" {
			return "our company"
		}
		return c.Name
	},
	"jobTitle": func(j *screening.JobProfile) string {
		if j == nil || j.Title == "" {
			return "open"
		}
		return j.Title
	},
}

// Template renders directives from fixed templates. It never fails for a
// known directive kind.
type Template struct {
	tmpl *template.Template
}

func NewTemplate() (*Template, error) {
	tmpl, err := template.New("phrasing").Funcs(funcs).Option("missingkey=zero").Parse(templateSource)
	if err != nil {
		return nil, fmt.Errorf("parse phrasing templates: %w", err)
	}
	return &Template{tmpl: tmpl}, nil
}

// MustTemplate is NewTemplate for the embedded templates, which are known to parse.
func MustTemplate() *Template {
	t, err := NewTemplate()
	if err != nil {
		panic(err)
	}
	return t
}

func (t *Template) Render(ctx context.Context, req Request) (string, error) {
	name, err := templateName(req.Directive)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	if err := t.tmpl.ExecuteTemplate(&sb, name, req); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}

	text := strings.Join(strings.Fields(sb.String()), " ")
	if text == "" {
		return t.Render(ctx, Request{Directive: screening.Directive{Kind: screening.DirectiveFollowUp}})
	}
	return text, nil
}

func templateName(d screening.Directive) (string, error) {
	switch d.Kind {
	case screening.DirectiveGreet,
		screening.DirectiveAlreadyClosed,
		screening.DirectiveApology,
		screening.DirectiveFollowUp,
		screening.DirectiveAcknowledgeInfo:
		return string(d.Kind), nil
	case screening.DirectiveAskQuestion:
		if d.Question == nil {
			return "", fmt.Errorf("ask_question directive without a question")
		}
		return string(d.Kind), nil
	case screening.DirectiveAnswerTopic:
		if !d.Intent.IsTopical() {
			return "answer_topic_unknown", nil
		}
		return "answer_topic_" + string(d.Intent), nil
	case screening.DirectiveClose:
		if verdict, ok := d.Verdict(); ok {
			return "close_" + string(verdict), nil
		}
		return "close", nil
	default:
		return "", fmt.Errorf("unknown directive %q", d.Kind)
	}
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
