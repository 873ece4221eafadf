package mocks

import (
	"github.com/stretchr/testify/mock"

	"github.com/gravitrone/reqdesk/internal/api"
)

// Service is a mock for edit.Service.
type Service struct {
	mock.Mock
}

func (m *Service) UpdateRequest(list string, id int, fields api.RequestFields) (*api.UpdateHandle, error) {
	args := m.Called(list, id, fields)
	if h, ok := args.Get(0).(*api.UpdateHandle); ok {
		return h, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Service) ResolveField(list, title string) (*api.FieldInfo, error) {
	args := m.Called(list, title)
	if f, ok := args.Get(0).(*api.FieldInfo); ok {
		return f, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Service) UpdateTagField(handle *api.UpdateHandle, storageName, value string) error {
	args := m.Called(handle, storageName, value)
	return args.Error(0)
}
