package schema

import "time"

// StoreBackend identifies a record store implementation.
type StoreBackend string

// Supported store backends.
const (
	FileBackend       StoreBackend = "file"
	SQLiteBackend     StoreBackend = "sqlite"
	MySQLBackend      StoreBackend = "mysql"
	PostgreSQLBackend StoreBackend = "postgresql"
	NoneBackend       StoreBackend = "none"
)

// StoreStatus holds status information about a record store.
type StoreStatus struct {
	Backend         string
	Connected       bool
	TotalRecords    int64
	LastWriteTime   time.Time
	OldestWriteTime time.Time
	SizeBytes       int64
}
