// Package todolist validates the agent task list document.
package todolist

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

// ValidStatuses are the accepted values of a task status.
var ValidStatuses = []string{"pending", "in_progress", "completed", "blocked"}

const contextRadius = 2

var syntaxHints = []struct {
	fragment string
	hint     string
}{
	{"looking for beginning of object key string", "Possible cause: trailing comma before closing brace/bracket"},
	{"looking for beginning of value", "Possible cause: missing value after colon or in array"},
	{"after object key:value pair", "Possible cause: missing comma between elements"},
	{"after array element", "Possible cause: missing comma between elements"},
	{"after object key", "Possible cause: missing colon after key in object"},
	{"in string literal", "Possible cause: unescaped newline or tab in string (use \\n or \\t)"},
	{"in string escape code", "Possible cause: unescaped backslash - use \\\\ for literal backslash"},
	{"unexpected end of JSON input", "Possible cause: unclosed brace, bracket or string"},
}

type todoList struct {
	Meta  *json.RawMessage `json:"meta" validate:"required"`
	Tasks *json.RawMessage `json:"tasks" validate:"required"`
}

type todoMeta struct {
	ExecutionStarted     *json.RawMessage `json:"execution_started" validate:"required"`
	AllGoalsAccomplished *json.RawMessage `json:"all_goals_accomplished" validate:"required"`
}

type todoTask struct {
	ID     *json.RawMessage `json:"id" validate:"required"`
	Title  *json.RawMessage `json:"title" validate:"required"`
	Status *json.RawMessage `json:"status" validate:"required"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		return name
	})
	return v
}

// Validate returns every finding in content; none means the document is valid.
func Validate(content []byte) []string {
	if len(bytes.TrimSpace(content)) == 0 {
		return []string{"File is empty"}
	}

	var root any
	if err := json.Unmarshal(content, &root); err != nil {
		var syntaxErr *json.SyntaxError
		if errors.As(err, &syntaxErr) {
			return syntaxFindings(content, syntaxErr)
		}
		return []string{fmt.Sprintf("JSON parse error: %v", err)}
	}

	findings := structureFindings(content)

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, bytes.TrimSpace(content), "", "  "); err == nil {
		if !bytes.Equal(bytes.TrimSpace(content), pretty.Bytes()) {
			findings = append(findings, "Warning: JSON is not prettified with 2-space indent")
		}
	}
	return findings
}

func syntaxFindings(content []byte, syntaxErr *json.SyntaxError) []string {
	line, column := position(content, syntaxErr.Offset)
	findings := []string{fmt.Sprintf("JSON parse error at line %d, column %d: %s", line, column, syntaxErr.Error())}

	for _, candidate := range syntaxHints {
		if strings.Contains(syntaxErr.Error(), candidate.fragment) {
			findings = append(findings, candidate.hint)
			break
		}
	}

	if !bytes.Contains(content, []byte(`\"`)) && bytes.Count(content, []byte(`"`))%2 != 0 {
		findings = append(findings, "Possible cause: unmatched quote - check for unescaped quotes in strings")
	}

	lines := strings.Split(string(content), "\n")
	if line > 0 && line <= len(lines) {
		findings = append(findings, "\nContext around error:")
		start := max(0, line-1-contextRadius)
		end := min(len(lines), line+contextRadius)
		for i := start; i < end; i++ {
			prefix := "    "
			if i+1 == line {
				prefix = ">>> "
			}
			findings = append(findings, fmt.Sprintf("%s%4d | %s", prefix, i+1, lines[i]))
		}
	}
	return findings
}

// position converts the byte offset reported by the decoder into a 1-based
// line and column of the offending character.
func position(content []byte, offset int64) (int, int) {
	end := int(offset) - 1
	if end < 0 {
		end = 0
	}
	if end > len(content) {
		end = len(content)
	}

	prefix := content[:end]
	line := bytes.Count(prefix, []byte("\n")) + 1
	lineStart := bytes.LastIndexByte(prefix, '\n') + 1
	return line, utf8.RuneCount(prefix[lineStart:]) + 1
}

func structureFindings(content []byte) []string {
	var object map[string]json.RawMessage
	if err := json.Unmarshal(content, &object); err != nil {
		return []string{"Root must be a JSON object"}
	}

	var doc todoList
	if err := json.Unmarshal(content, &doc); err != nil {
		return []string{fmt.Sprintf("JSON parse error: %v", err)}
	}

	var findings []string
	for _, field := range missingFields(&doc) {
		findings = append(findings, fmt.Sprintf("Missing required key: '%s'", field))
	}

	if doc.Meta != nil {
		var meta todoMeta
		if err := json.Unmarshal(*doc.Meta, &meta); err != nil {
			findings = append(findings, "'meta' must be an object")
		} else {
			for _, field := range missingFields(&meta) {
				findings = append(findings, fmt.Sprintf("Missing 'meta.%s'", field))
			}
		}
	}

	if doc.Tasks != nil {
		var tasks []json.RawMessage
		if err := json.Unmarshal(*doc.Tasks, &tasks); err != nil {
			findings = append(findings, "'tasks' must be an array")
		} else {
			for i, raw := range tasks {
				findings = append(findings, taskFindings(i, raw)...)
			}
		}
	}
	return findings
}

func taskFindings(index int, raw json.RawMessage) []string {
	var task todoTask
	if err := json.Unmarshal(raw, &task); err != nil {
		return []string{fmt.Sprintf("tasks[%d] must be an object", index)}
	}

	var findings []string
	for _, field := range missingFields(&task) {
		findings = append(findings, fmt.Sprintf("tasks[%d] missing '%s'", index, field))
	}

	if task.Status != nil {
		var status string
		if err := json.Unmarshal(*task.Status, &status); err != nil ||
			validate.Var(status, "oneof="+strings.Join(ValidStatuses, " ")) != nil {
			findings = append(findings, fmt.Sprintf("tasks[%d].status %s is invalid. Must be one of: %s",
				index, string(*task.Status), strings.Join(ValidStatuses, ", ")))
		}
	}
	return findings
}

// missingFields returns the json names of required fields absent from s, in declaration order.
func missingFields(s any) []string {
	err := validate.Struct(s)
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return nil
	}

	fields := make([]string, 0, len(validationErrors))
	for _, fieldErr := range validationErrors {
		if fieldErr.Tag() == "required" {
			fields = append(fields, fieldErr.Field())
		}
	}
	return fields
}
