package prompt

import (
	"bytes"
	"fmt"
	"text/template"
)

const analystTemplate = `You are a data analyst. Answer the user's question about the CSV data below.

Question: {{.Question}}

CSV data:
{{.Data}}`

var analystPrompt = template.Must(template.New("analyst").Parse(analystTemplate))

type promptData struct {
	Question string
	Data     string
}

// Builder renders the fixed analyst prompt. Neither input is escaped or
// truncated.
type Builder struct {
	tmpl *template.Template
}

func NewBuilder() *Builder {
	return &Builder{tmpl: analystPrompt}
}

// Build executes the template with the question and the flattened CSV data
func (b *Builder) Build(question string, data string) (string, error) {
	var buf bytes.Buffer
	if err := b.tmpl.Execute(&buf, promptData{Question: question, Data: data}); err != nil {
		return "", fmt.Errorf("template execution failed: %w", err)
	}
	return buf.String(), nil
}
