package mocks

import (
	"github.com/stretchr/testify/mock"
)

// CloserMock stands in for the hub's connection teardown.
type CloserMock struct {
	mock.Mock
}

func (m *CloserMock) CloseConn(connID string) {
	m.Called(connID)
}

// BlockCheckerMock answers block lookups with canned verdicts.
type BlockCheckerMock struct {
	mock.Mock
}

func (m *BlockCheckerMock) IsBlocked(ownerID, otherID string) bool {
	args := m.Called(ownerID, otherID)
	return args.Bool(0)
}
