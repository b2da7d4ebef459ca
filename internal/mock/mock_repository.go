package mock

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/stackfold/stackfold/pkg/model"
)

// MockRepository is a mock implementation of internal/repository.Repository.
type MockRepository struct {
	mock.Mock
}

// Save mocks Save.
func (m *MockRepository) Save(ctx context.Context, rec *model.ProfileRecord) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

// ListByName mocks ListByName.
func (m *MockRepository) ListByName(ctx context.Context, name string, limit int) ([]*model.ProfileRecord, error) {
	args := m.Called(ctx, name, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.ProfileRecord), args.Error(1)
}

// Get mocks Get.
func (m *MockRepository) Get(ctx context.Context, sampleID string) (*model.ProfileRecord, error) {
	args := m.Called(ctx, sampleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ProfileRecord), args.Error(1)
}

// Names mocks Names.
func (m *MockRepository) Names(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// ExpectSave sets up an expectation for Save.
func (m *MockRepository) ExpectSave(err error) *mock.Call {
	return m.On("Save", mock.Anything, mock.Anything).Return(err)
}

// ExpectListByName sets up an expectation for ListByName.
func (m *MockRepository) ExpectListByName(name string, records []*model.ProfileRecord, err error) *mock.Call {
	return m.On("ListByName", mock.Anything, name, mock.Anything).Return(records, err)
}
