package contract

import (
	"context"

	"github.com/huangsam/pkgpulse/schema"
	"github.com/stretchr/testify/mock"
)

// MockCountSource is a testify mock for the CountSource interface.
type MockCountSource struct {
	mock.Mock
}

var _ CountSource = &MockCountSource{} // Compile-time check

// Fetch implements the CountSource interface.
func (m *MockCountSource) Fetch(ctx context.Context, asOf schema.Date) (schema.Snapshot, error) {
	ret := m.Called(ctx, asOf)
	snap, _ := ret.Get(0).(schema.Snapshot)
	return snap, ret.Error(1)
}

// MockRecordStore is a testify mock for the RecordStore interface.
type MockRecordStore struct {
	mock.Mock
}

var _ RecordStore = &MockRecordStore{} // Compile-time check

// Load implements the RecordStore interface.
func (m *MockRecordStore) Load(key schema.Key) (*schema.LevelRecord, error) {
	ret := m.Called(key)
	rec, _ := ret.Get(0).(*schema.LevelRecord)
	return rec, ret.Error(1)
}

// Save implements the RecordStore interface.
func (m *MockRecordStore) Save(key schema.Key, rec *schema.LevelRecord) error {
	ret := m.Called(key, rec)
	return ret.Error(0)
}

// Keys implements the RecordStore interface.
func (m *MockRecordStore) Keys() ([]schema.Key, error) {
	ret := m.Called()
	keys, _ := ret.Get(0).([]schema.Key)
	return keys, ret.Error(1)
}

// Status implements the RecordStore interface.
func (m *MockRecordStore) Status() (schema.StoreStatus, error) {
	ret := m.Called()
	status, _ := ret.Get(0).(schema.StoreStatus)
	return status, ret.Error(1)
}

// Close implements the RecordStore interface.
func (m *MockRecordStore) Close() error {
	ret := m.Called()
	return ret.Error(0)
}
