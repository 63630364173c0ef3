package mock

import (
	"context"
	"fmt"

	"github.com/poiesic/docflow/ai"
)

// MockImageDescriber is a test double for ai.ImageDescriber.
// It allows custom behavior injection via function fields.
type MockImageDescriber struct {
	// DescribeImageFunc is called by DescribeImage if set.
	// If nil, uses default deterministic behavior.
	DescribeImageFunc func(ctx context.Context, img ai.Image, contextText string) (string, error)

	callCount int
}

// NewMockImageDescriber creates a mock describer with default deterministic behavior.
// Note: Returns concrete type to allow test assertions via GetMockDescriber().
func NewMockImageDescriber() *MockImageDescriber {
	return &MockImageDescriber{}
}

// DescribeImage returns a deterministic description derived from the image
// format and size, so the same input always yields the same text.
func (m *MockImageDescriber) DescribeImage(ctx context.Context, img ai.Image, contextText string) (string, error) {
	m.callCount++

	if m.DescribeImageFunc != nil {
		return m.DescribeImageFunc(ctx, img, contextText)
	}

	return fmt.Sprintf("A %s image of %d bytes.", img.Format, len(img.Data)), nil
}

// CallCount returns the number of times DescribeImage was called.
func (m *MockImageDescriber) CallCount() int {
	return m.callCount
}

// Reset clears the call count and any injected behavior.
func (m *MockImageDescriber) Reset() {
	m.callCount = 0
	m.DescribeImageFunc = nil
}
