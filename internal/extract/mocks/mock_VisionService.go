package mocks

import (
	"context"

	model "github.com/sells-group/cardscan/internal/model"
	mock "github.com/stretchr/testify/mock"
)

// MockVisionService is a mock type for the VisionService type.
type MockVisionService struct {
	mock.Mock
}

// ExtractFromImage provides a mock function with given fields: ctx, img, instruction
func (_m *MockVisionService) ExtractFromImage(ctx context.Context, img model.Image, instruction string) (string, error) {
	ret := _m.Called(ctx, img, instruction)

	if len(ret) == 0 {
		panic("no return value specified for ExtractFromImage")
	}

	var r0 string
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, model.Image, string) (string, error)); ok {
		return rf(ctx, img, instruction)
	}
	if rf, ok := ret.Get(0).(func(context.Context, model.Image, string) string); ok {
		r0 = rf(ctx, img, instruction)
	} else {
		r0 = ret.Get(0).(string)
	}

	if rf, ok := ret.Get(1).(func(context.Context, model.Image, string) error); ok {
		r1 = rf(ctx, img, instruction)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// NewMockVisionService creates a new instance of MockVisionService.
func NewMockVisionService(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockVisionService {
	mock := &MockVisionService{}
	mock.Test(t)

	t.Cleanup(func() { mock.AssertExpectations(t) })

	return mock
}
