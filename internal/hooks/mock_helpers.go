package hooks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockChecker is a mock implementation of Checker for testing.
type MockChecker struct {
	mock.Mock
}

// Name is a mock implementation of Checker.Name.
func (m *MockChecker) Name() string {
	args := m.Called()
	return args.String(0)
}

// Description is a mock implementation of Checker.Description.
func (m *MockChecker) Description() string {
	args := m.Called()
	return args.String(0)
}

// Language is a mock implementation of Checker.Language.
func (m *MockChecker) Language() string {
	args := m.Called()
	return args.String(0)
}

// Accepts is a mock implementation of Checker.Accepts.
func (m *MockChecker) Accepts(filePath string) bool {
	args := m.Called(filePath)
	return args.Bool(0)
}

// Check is a mock implementation of Checker.Check.
func (m *MockChecker) Check(ctx context.Context, filePath string) (*Verdict, error) {
	args := m.Called(ctx, filePath)
	verdict, _ := args.Get(0).(*Verdict)
	return verdict, args.Error(1)
}
