package hooks

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/michael-freling/claude-code-quality-gate/internal/rules"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newMockChecker(name, language string, accepts bool) *MockChecker {
	m := &MockChecker{}
	m.On("Name").Return(name).Maybe()
	m.On("Description").Return("test checker " + name).Maybe()
	m.On("Language").Return(language).Maybe()
	m.On("Accepts", mock.Anything).Return(accepts).Maybe()
	return m
}

func eventFor(t *testing.T, filePath string) *HookEvent {
	t.Helper()

	toolInput, err := json.Marshal(map[string]string{"file_path": filePath})
	require.NoError(t, err)

	event, err := ParseHookEvent(strings.NewReader(`{"tool_name": "Write", "tool_input": ` + string(toolInput) + `}`))
	require.NoError(t, err)
	return event
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestNewEngine(t *testing.T) {
	tests := []struct {
		name     string
		checkers []Checker
	}{
		{
			name:     "creates engine with no checkers",
			checkers: []Checker{},
		},
		{
			name: "creates engine with multiple checkers",
			checkers: []Checker{
				newMockChecker("checker1", "", true),
				newMockChecker("checker2", "", true),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewEngine(nil, nil, tt.checkers...)
			assert.NotNil(t, got)
			assert.Equal(t, len(tt.checkers), len(got.checkers))
			assert.NotNil(t, got.logger)
		})
	}
}

func TestEngine_Evaluate(t *testing.T) {
	dir := t.TempDir()
	existing := writeFile(t, dir, "main.py", "x = 1\n")
	missing := filepath.Join(dir, "missing.py")

	tests := []struct {
		name      string
		filePath  string
		setup     func() []*MockChecker
		want      *Verdict
		wantErr   string
		wantCheck []bool
	}{
		{
			name:     "event without file path is skipped",
			filePath: "",
			setup: func() []*MockChecker {
				return []*MockChecker{newMockChecker("checker1", "", true)}
			},
			want:      NewSkipVerdict("", "Skipping: no valid file path provided"),
			wantCheck: []bool{false},
		},
		{
			name:     "no checker accepts the file",
			filePath: existing,
			setup: func() []*MockChecker {
				return []*MockChecker{newMockChecker("checker1", "", false)}
			},
			want:      NewSkipVerdict("", "Skipping: no checker applies to "+existing),
			wantCheck: []bool{false},
		},
		{
			name:     "missing file is skipped",
			filePath: missing,
			setup: func() []*MockChecker {
				return []*MockChecker{newMockChecker("checker1", "", true)}
			},
			want:      NewSkipVerdict("", "Skipping: file does not exist: "+missing),
			wantCheck: []bool{false},
		},
		{
			name:     "first blocking verdict wins",
			filePath: existing,
			setup: func() []*MockChecker {
				first := newMockChecker("checker1", "", true)
				first.On("Check", mock.Anything, existing).Return(NewBlockVerdict("checker1", "bad"), nil)
				second := newMockChecker("checker2", "", true)
				return []*MockChecker{first, second}
			},
			want:      NewBlockVerdict("checker1", "bad"),
			wantCheck: []bool{true, false},
		},
		{
			name:     "second checker blocks after a pass",
			filePath: existing,
			setup: func() []*MockChecker {
				first := newMockChecker("checker1", "", true)
				first.On("Check", mock.Anything, existing).Return(NewPassVerdict("checker1", "ok"), nil)
				second := newMockChecker("checker2", "", true)
				second.On("Check", mock.Anything, existing).Return(NewBlockVerdict("checker2", "bad"), nil)
				return []*MockChecker{first, second}
			},
			want:      NewBlockVerdict("checker2", "bad"),
			wantCheck: []bool{true, true},
		},
		{
			name:     "all checkers pass",
			filePath: existing,
			setup: func() []*MockChecker {
				first := newMockChecker("checker1", "", true)
				first.On("Check", mock.Anything, existing).Return(NewPassVerdict("checker1", "first ok"), nil)
				second := newMockChecker("checker2", "", true)
				second.On("Check", mock.Anything, existing).Return(NewSkipVerdict("checker2", "tool missing"), nil)
				return []*MockChecker{first, second}
			},
			want:      NewPassVerdict("checker2", "first ok\ntool missing"),
			wantCheck: []bool{true, true},
		},
		{
			name:     "only skips stay a skip",
			filePath: existing,
			setup: func() []*MockChecker {
				first := newMockChecker("checker1", "", true)
				first.On("Check", mock.Anything, existing).Return(NewSkipVerdict("checker1", "tool missing"), nil)
				return []*MockChecker{first}
			},
			want:      NewSkipVerdict("checker1", "tool missing"),
			wantCheck: []bool{true},
		},
		{
			name:     "checker error is returned",
			filePath: existing,
			setup: func() []*MockChecker {
				first := newMockChecker("checker1", "", true)
				first.On("Check", mock.Anything, existing).Return(nil, errors.New("boom"))
				return []*MockChecker{first}
			},
			wantErr:   "checker checker1 failed: boom",
			wantCheck: []bool{true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mocks := tt.setup()
			checkers := make([]Checker, 0, len(mocks))
			for _, m := range mocks {
				checkers = append(checkers, m)
			}

			engine := NewEngine(nil, zap.NewNop(), checkers...)
			got, err := engine.Evaluate(context.Background(), eventFor(t, tt.filePath))

			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Equal(t, tt.wantErr, err.Error())
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}

			for i, m := range mocks {
				m.AssertExpectations(t)
				if !tt.wantCheck[i] {
					m.AssertNotCalled(t, "Check", mock.Anything, mock.Anything)
				}
			}
		})
	}
}

func TestEngine_Evaluate_NilEvent(t *testing.T) {
	engine := NewEngine(nil, nil)

	_, err := engine.Evaluate(context.Background(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "event cannot be nil")
}

func TestEngine_Evaluate_LanguageIndexSelectsCheckers(t *testing.T) {
	rulesDir := t.TempDir()
	writeFile(t, rulesDir, "python.json", `{"extensions": [".py"]}`)
	store := rules.NewStore(rulesDir, rules.NewState(), zap.NewNop())

	dir := t.TempDir()
	target := writeFile(t, dir, "main.py", "x = 1\n")

	python := newMockChecker("python-lint", "python", true)
	python.On("Check", mock.Anything, target).Return(NewPassVerdict("python-lint", "ok"), nil)
	typescript := newMockChecker("typescript-any", "typescript", true)
	anyLanguage := newMockChecker("validate-todolist", "", true)
	anyLanguage.On("Check", mock.Anything, target).Return(NewPassVerdict("validate-todolist", ""), nil)

	engine := NewEngine(store, zap.NewNop(), typescript, python, anyLanguage)
	got, err := engine.Evaluate(context.Background(), eventFor(t, target))
	require.NoError(t, err)

	assert.Equal(t, NewPassVerdict("validate-todolist", "ok"), got)
	typescript.AssertNotCalled(t, "Accepts", mock.Anything)
	typescript.AssertNotCalled(t, "Check", mock.Anything, mock.Anything)
	python.AssertExpectations(t)
	anyLanguage.AssertExpectations(t)
}

func TestEngine_Run(t *testing.T) {
	dir := t.TempDir()
	target := writeFile(t, dir, "main.py", "x = 1\n")

	tests := []struct {
		name  string
		input string
		want  *Verdict
	}{
		{
			name:  "malformed input is not applicable",
			input: `{not json`,
			want:  NewSkipVerdict("", "Skipping: no valid file path provided"),
		},
		{
			name:  "valid input is evaluated",
			input: `{"tool_name": "Edit", "tool_input": {"file_path": "` + filepath.ToSlash(target) + `"}}`,
			want:  NewPassVerdict("checker1", "ok"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checker := newMockChecker("checker1", "", true)
			checker.On("Check", mock.Anything, mock.Anything).Return(NewPassVerdict("checker1", "ok"), nil).Maybe()

			engine := NewEngine(nil, zap.NewNop(), checker)
			got, err := engine.Run(context.Background(), strings.NewReader(tt.input))

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
