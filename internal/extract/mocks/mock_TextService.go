package mocks

import (
	"context"

	mock "github.com/stretchr/testify/mock"
)

// MockTextService is a mock type for the TextService type.
type MockTextService struct {
	mock.Mock
}

// Complete provides a mock function with given fields: ctx, text, instruction
func (_m *MockTextService) Complete(ctx context.Context, text string, instruction string) (string, error) {
	ret := _m.Called(ctx, text, instruction)

	if len(ret) == 0 {
		panic("no return value specified for Complete")
	}

	var r0 string
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, string, string) (string, error)); ok {
		return rf(ctx, text, instruction)
	}
	if rf, ok := ret.Get(0).(func(context.Context, string, string) string); ok {
		r0 = rf(ctx, text, instruction)
	} else {
		r0 = ret.Get(0).(string)
	}

	if rf, ok := ret.Get(1).(func(context.Context, string, string) error); ok {
		r1 = rf(ctx, text, instruction)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// NewMockTextService creates a new instance of MockTextService.
func NewMockTextService(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockTextService {
	mock := &MockTextService{}
	mock.Test(t)

	t.Cleanup(func() { mock.AssertExpectations(t) })

	return mock
}
