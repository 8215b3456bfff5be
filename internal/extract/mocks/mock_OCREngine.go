// Package mocks provides test doubles for the extraction collaborators.
package mocks

import (
	"context"

	model "github.com/sells-group/cardscan/internal/model"
	mock "github.com/stretchr/testify/mock"
)

// MockOCREngine is a mock type for the OCREngine type.
type MockOCREngine struct {
	mock.Mock
}

// ExtractText provides a mock function with given fields: ctx, img
func (_m *MockOCREngine) ExtractText(ctx context.Context, img model.Image) (string, error) {
	ret := _m.Called(ctx, img)

	if len(ret) == 0 {
		panic("no return value specified for ExtractText")
	}

	var r0 string
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, model.Image) (string, error)); ok {
		return rf(ctx, img)
	}
	if rf, ok := ret.Get(0).(func(context.Context, model.Image) string); ok {
		r0 = rf(ctx, img)
	} else {
		r0 = ret.Get(0).(string)
	}

	if rf, ok := ret.Get(1).(func(context.Context, model.Image) error); ok {
		r1 = rf(ctx, img)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// NewMockOCREngine creates a new instance of MockOCREngine.
func NewMockOCREngine(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockOCREngine {
	mock := &MockOCREngine{}
	mock.Test(t)

	t.Cleanup(func() { mock.AssertExpectations(t) })

	return mock
}
