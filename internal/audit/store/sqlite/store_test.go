package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"certifier/internal/audit"
)

type SQLiteStoreSuite struct {
	suite.Suite
	store *Store
}

func TestSQLiteStoreSuite(t *testing.T) {
	suite.Run(t, new(SQLiteStoreSuite))
}

func (s *SQLiteStoreSuite) SetupTest() {
	var err error
	s.store, err = New(filepath.Join(s.T().TempDir(), "audit_log.db"))
	s.Require().NoError(err)
}

func (s *SQLiteStoreSuite) TearDownTest() {
	s.Require().NoError(s.store.Close())
}

func sampleRecord(filename string) audit.Record {
	return audit.Record{
		Timestamp:      "2026-08-28 10:30:00",
		Filename:       filename,
		TotalRows:      100,
		AnomaliesFound: 5,
		RiskValue:      50412.75,
		User:           "Francesco Pagliara",
		HashSignature:  "ab12cd34ab12cd34ab12cd34ab12cd34ab12cd34ab12cd34ab12cd34ab12cd34",
	}
}

func (s *SQLiteStoreSuite) TestAppendListRoundTrip() {
	ctx := context.Background()

	s.Require().NoError(s.store.Append(ctx, sampleRecord("q1.csv")))

	records, err := s.store.List(ctx)
	s.Require().NoError(err)
	s.Require().Len(records, 1)

	rec := records[0]
	s.Equal(int64(1), rec.ID)
	s.Equal("2026-08-28 10:30:00", rec.Timestamp)
	s.Equal("q1.csv", rec.Filename)
	s.Equal(100, rec.TotalRows)
	s.Equal(5, rec.AnomaliesFound)
	s.InDelta(50412.75, rec.RiskValue, 1e-9)
	s.Equal("Francesco Pagliara", rec.User)
	s.Equal(sampleRecord("q1.csv").HashSignature, rec.HashSignature)
}

func (s *SQLiteStoreSuite) TestListMostRecentFirst() {
	ctx := context.Background()

	for _, name := range []string{"first.csv", "second.csv", "third.csv"} {
		s.Require().NoError(s.store.Append(ctx, sampleRecord(name)))
	}

	records, err := s.store.List(ctx)
	s.Require().NoError(err)
	s.Require().Len(records, 3)
	s.Equal("third.csv", records[0].Filename)
	s.Equal("second.csv", records[1].Filename)
	s.Equal("first.csv", records[2].Filename)
	s.Greater(records[0].ID, records[1].ID)
}

func (s *SQLiteStoreSuite) TestListEmpty() {
	records, err := s.store.List(context.Background())
	s.Require().NoError(err)
	s.Empty(records)
}

// Reopening the same file must surface previously appended records: the
// audit log survives process restarts.
func TestStoreSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "audit_log.db")

	store, err := New(path)
	require.NoError(t, err)
	require.NoError(t, store.Append(ctx, sampleRecord("durable.csv")))
	require.NoError(t, store.Close())

	reopened, err := New(path)
	require.NoError(t, err)
	defer reopened.Close()

	records, err := reopened.List(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, "durable.csv", records[0].Filename)
}
