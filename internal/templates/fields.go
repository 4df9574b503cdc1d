package templates

import (
	"regexp"
	"strings"
)

// placeholder matches {{name}} markers; the body is any run of characters
// not containing a closing brace.
var placeholder = regexp.MustCompile(`\{\{([^}]+)\}\}`)

// Field describes one fillable marker extracted from template content.
type Field struct {
	Name     string `json:"name"`
	Label    string `json:"label"`
	Type     string `json:"type"`
	Required bool   `json:"required"`
}

// ExtractFields returns a descriptor per {{name}} occurrence in content, in
// first-occurrence order. Names are trimmed of surrounding whitespace and
// labels replace underscores with spaces. Duplicate names yield duplicate
// descriptors; the stored fields JSON mirrors the raw markers on purpose.
func ExtractFields(content string) []Field {
	matches := placeholder.FindAllStringSubmatch(content, -1)
	fields := make([]Field, 0, len(matches))
	for _, m := range matches {
		name := strings.TrimSpace(m[1])
		fields = append(fields, Field{
			Name:     name,
			Label:    strings.ReplaceAll(name, "_", " "),
			Type:     "text",
			Required: true,
		})
	}
	return fields
}

// Fill substitutes every {{name}} occurrence with its value, one field at a
// time. Unmatched placeholders stay untouched. Replacement is literal and
// independent per field, so a value containing {{other}} syntax can itself
// be substituted by a later field; order of fields is unspecified.
func Fill(content string, values map[string]string) string {
	for name, value := range values {
		content = strings.ReplaceAll(content, "{{"+name+"}}", value)
	}
	return content
}
