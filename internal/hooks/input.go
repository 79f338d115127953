package hooks

import (
	"encoding/json"
	"fmt"
	"io"
)

// HookEvent represents a PostToolUse notification from Claude Code.
type HookEvent struct {
	SessionID      string          `json:"session_id"`
	TranscriptPath string          `json:"transcript_path"`
	Cwd            string          `json:"cwd"`
	HookEventName  string          `json:"hook_event_name"`
	ToolName       string          `json:"tool_name"`
	ToolInput      json.RawMessage `json:"tool_input"`
	ToolResponse   json.RawMessage `json:"tool_response"`
	parsed         map[string]interface{}
}

// ParseHookEvent reads and parses hook event JSON from a reader.
func ParseHookEvent(reader io.Reader) (*HookEvent, error) {
	var event HookEvent
	if err := json.NewDecoder(reader).Decode(&event); err != nil {
		return nil, fmt.Errorf("failed to decode JSON: %w", err)
	}

	if len(event.ToolInput) > 0 {
		var parsed map[string]interface{}
		if err := json.Unmarshal(event.ToolInput, &parsed); err != nil {
			return nil, fmt.Errorf("failed to parse tool_input: %w", err)
		}
		event.parsed = parsed
	}

	return &event, nil
}

// FilePath returns the edited file: file_path, or notebook_path when file_path is empty.
func (e *HookEvent) FilePath() string {
	if path, ok := e.GetStringArg("file_path"); ok && path != "" {
		return path
	}
	if path, ok := e.GetStringArg("notebook_path"); ok && path != "" {
		return path
	}
	return ""
}

// GetStringArg retrieves a string argument from the tool input.
// Returns the value and true if found, empty string and false if not found.
func (e *HookEvent) GetStringArg(name string) (string, bool) {
	if e.parsed == nil {
		return "", false
	}

	value, ok := e.parsed[name]
	if !ok {
		return "", false
	}

	strValue, ok := value.(string)
	if !ok {
		return "", false
	}

	return strValue, true
}
