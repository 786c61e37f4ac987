package database

import (
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/vuongngo/reactive-forum-api/internal/domain"
)

type queryRecord struct {
	operation string
	table     string
	err       error
}

// recordingRecorder captures what the callbacks report
type recordingRecorder struct {
	mu      sync.Mutex
	queries []queryRecord
	stats   []sql.DBStats
}

func (r *recordingRecorder) RecordDBQuery(operation, table string, _ time.Duration, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.queries = append(r.queries, queryRecord{operation: operation, table: table, err: err})
}

func (r *recordingRecorder) UpdateDBStats(stats interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := stats.(sql.DBStats); ok {
		r.stats = append(r.stats, s)
	}
}

func (r *recordingRecorder) statsCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.stats)
}

func setupTestDB(t *testing.T) *gorm.DB {
	cfg := GormConfig()
	cfg.DisableForeignKeyConstraintWhenMigrating = true

	db, err := gorm.Open(sqlite.Open(":memory:"), cfg)
	require.NoError(t, err, "Failed to open test database")
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, AutoMigrate(db))
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

func TestRegisterMetricsCallbacks_RecordsEveryOperation(t *testing.T) {
	db := setupTestDB(t)
	recorder := &recordingRecorder{}
	require.NoError(t, RegisterMetricsCallbacks(db, recorder))

	topic := &domain.Topic{Name: "Go"}
	require.NoError(t, db.Create(topic).Error)

	var found domain.Topic
	require.NoError(t, db.First(&found, "id = ?", topic.ID).Error)
	require.NoError(t, db.Model(&domain.Topic{}).Where("id = ?", topic.ID).Update("name", "Rust").Error)
	require.NoError(t, db.Delete(&domain.Topic{}, "id = ?", topic.ID).Error)

	ops := make([]string, 0, len(recorder.queries))
	for _, q := range recorder.queries {
		assert.Equal(t, "topics", q.table)
		assert.NoError(t, q.err)
		ops = append(ops, q.operation)
	}
	assert.Equal(t, []string{"insert", "select", "update", "delete"}, ops)
}

func TestRegisterMetricsCallbacks_RecordsErrors(t *testing.T) {
	db := setupTestDB(t)
	recorder := &recordingRecorder{}
	require.NoError(t, RegisterMetricsCallbacks(db, recorder))

	var missing domain.Topic
	err := db.First(&missing, "id = ?", uuid.New()).Error
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	require.Len(t, recorder.queries, 1)
	assert.Equal(t, "select", recorder.queries[0].operation)
	assert.Error(t, recorder.queries[0].err)
}

func TestRegisterMetricsCallbacks_RawStatements(t *testing.T) {
	db := setupTestDB(t)
	recorder := &recordingRecorder{}
	require.NoError(t, RegisterMetricsCallbacks(db, recorder))

	require.NoError(t, db.Exec("UPDATE topics SET name = name").Error)

	require.Len(t, recorder.queries, 1)
	assert.Equal(t, "raw", recorder.queries[0].operation)
	assert.Equal(t, "unknown", recorder.queries[0].table)
}

func TestStartDBStatsCollector(t *testing.T) {
	db := setupTestDB(t)
	recorder := &recordingRecorder{}

	done := StartDBStatsCollector(db, recorder, 10*time.Millisecond)
	defer close(done)

	require.Eventually(t, func() bool { return recorder.statsCount() > 0 }, time.Second, 5*time.Millisecond)
}
