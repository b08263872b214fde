package mocks

import (
	"github.com/stretchr/testify/mock"

	"github.com/Artin0123/API-backend/internal/domain"
)

type MockGeoLookup struct {
	mock.Mock
}

func (m *MockGeoLookup) Lookup(ip string) domain.Location {
	args := m.Called(ip)
	return args.Get(0).(domain.Location)
}

type MockUserAgentParser struct {
	mock.Mock
}

func (m *MockUserAgentParser) Parse(uaString string) domain.Agent {
	args := m.Called(uaString)
	return args.Get(0).(domain.Agent)
}

type MockClientResolver struct {
	mock.Mock
}

func (m *MockClientResolver) Resolve(req domain.VisitRequest) domain.ClientInfo {
	args := m.Called(req)
	return args.Get(0).(domain.ClientInfo)
}
