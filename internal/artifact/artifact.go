// Package artifact turns raw generation-backend output into a well-formed
// project and renders that project as a single preview document.
package artifact

import (
	"encoding/json"
	"regexp"
	"strings"

	apperrors "promptforge/pkg/errors"
)

// GeneratedFile is one file of a generated project. Language is advisory
// and kept only when the backend supplied it as a string.
type GeneratedFile struct {
	Name     string `json:"name"`
	Language string `json:"language,omitempty"`
	Content  string `json:"content"`
}

// GeneratedProject is the transient output of one generation call: a
// summary plus an ordered file list. It is accepted or rejected as a whole;
// there is no partially valid project.
type GeneratedProject struct {
	Summary string          `json:"summary"`
	Files   []GeneratedFile `json:"files"`
}

var (
	openFence  = regexp.MustCompile("(?i)^```(?:json)?\\s*")
	closeFence = regexp.MustCompile("```\\s*$")
)

// stripCodeFence removes a leading/trailing markdown code fence. Models
// wrap JSON in fenced blocks often enough that this is the first step of
// every parse.
func stripCodeFence(raw string) string {
	trimmed := strings.TrimSpace(raw)
	trimmed = openFence.ReplaceAllString(trimmed, "")
	trimmed = closeFence.ReplaceAllString(trimmed, "")
	return strings.TrimSpace(trimmed)
}

// Parse validates an untrusted text blob into a GeneratedProject.
//
// The hard line is drawn only at "not JSON" (MALFORMED_OUTPUT) and "not a
// JSON object" (UNEXPECTED_SHAPE). Everything past that is coerced:
// a missing or non-string summary becomes "", and file entries without a
// string name or string content are dropped rather than failing the whole
// project. A project with zero surviving files is still valid.
func Parse(raw string) (GeneratedProject, error) {
	cleaned := stripCodeFence(raw)

	var parsed any
	if err := json.Unmarshal([]byte(cleaned), &parsed); err != nil {
		return GeneratedProject{}, apperrors.ErrMalformedOutput(err)
	}

	object, ok := parsed.(map[string]any)
	if !ok {
		return GeneratedProject{}, apperrors.ErrUnexpectedShape
	}

	project := GeneratedProject{}
	if summary, ok := object["summary"].(string); ok {
		project.Summary = summary
	}

	rawFiles, _ := object["files"].([]any)
	for _, entry := range rawFiles {
		fields, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		name, nameOK := fields["name"].(string)
		content, contentOK := fields["content"].(string)
		if !nameOK || !contentOK {
			continue
		}
		file := GeneratedFile{Name: name, Content: content}
		if language, ok := fields["language"].(string); ok {
			file.Language = language
		}
		project.Files = append(project.Files, file)
	}

	return project, nil
}
