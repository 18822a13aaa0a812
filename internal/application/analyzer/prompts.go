package analyzer

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/XCodeIsGoldX/ollamaland/internal/domain"
)

// Prompt names beyond the analysis kinds.
const (
	promptCompare  = "compare"
	promptOrganize = "organize"
)

const (
	compareTemplate = "Compare and contrast the following web pages:\n\n" +
		"{{range .Pages}}URL: {{.URL}}\nContent: {{.Excerpt}}...\n\n{{end}}" +
		"Provide a detailed comparison focusing on similarities, differences, and unique aspects of each page."
	organizeTemplate = "Read the following unstructured notes and organize them into structured notes. " +
		"You can decide how to structure the notes and where each piece of text should go. " +
		"Please provide your organized response in plain text. Here is the content: {{.Content}}"
)

var defaultPrompts = map[string]string{
	string(domain.KindSummarize): "Provide a concise summary of the following text:\n\n{{.Excerpt}}...",
	string(domain.KindKeywords):  "Extract and list the 5-10 most important keywords or key phrases from the following text:\n\n{{.Excerpt}}...",
	string(domain.KindSentiment): "Analyze the overall sentiment of the following text. Classify it as positive, negative, or neutral, and provide a brief explanation:\n\n{{.Excerpt}}...",
	string(domain.KindCustom):    "Based on the following content, {{.Question}}\n\nContent: {{.Excerpt}}...",
	promptCompare:                compareTemplate,
	promptOrganize:               organizeTemplate,
}

// promptData is the template input; each prompt uses a subset.
type promptData struct {
	Excerpt  string
	Question string
	Content  string
	Pages    []pageExcerpt
}

type pageExcerpt struct {
	URL     string
	Excerpt string
}

// Prompts renders the per-operation templates.
type Prompts struct {
	templates map[string]*template.Template
}

// NewPrompts parses the built-in templates, replacing any named in overrides.
func NewPrompts(overrides map[string]string) (*Prompts, error) {
	p := &Prompts{templates: make(map[string]*template.Template, len(defaultPrompts))}
	for name, text := range defaultPrompts {
		if override := strings.TrimSpace(overrides[name]); override != "" {
			text = override
		}
		tmpl, err := template.New(name).Option("missingkey=error").Parse(text)
		if err != nil {
			return nil, fmt.Errorf("parse %s prompt: %w", name, err)
		}
		p.templates[name] = tmpl
	}
	return p, nil
}

var builtinPrompts = mustPrompts(NewPrompts(nil))

// DefaultPrompts returns the built-in templates.
func DefaultPrompts() *Prompts {
	return builtinPrompts
}

func mustPrompts(p *Prompts, err error) *Prompts {
	if err != nil {
		panic(err)
	}
	return p
}

func (p *Prompts) render(name string, data promptData) (string, error) {
	tmpl, ok := p.templates[name]
	if !ok {
		return "", &domain.InputError{Op: "render prompt", Reason: fmt.Sprintf("no prompt named %s", name)}
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render %s prompt: %w", name, err)
	}
	return buf.String(), nil
}

// excerpt returns the first n characters of s.
func excerpt(s string, n int) string {
	if n <= 0 {
		return s
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
