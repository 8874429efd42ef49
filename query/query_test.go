package query

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"phishsafe/entity"
)

func newTestDB(t *testing.T) *Database {
	t.Helper()
	db, err := InitDatabase("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestMigrateIsRepeatable(t *testing.T) {
	db := newTestDB(t)

	v, err := db.GetDbVersion()
	require.NoError(t, err)
	assert.Equal(t, currentDbVersion, v)

	require.NoError(t, db.Migrate())
	v, err = db.GetDbVersion()
	require.NoError(t, err)
	assert.Equal(t, currentDbVersion, v)

	for _, table := range []string{"detections", "recorder_keywords"} {
		ok, err := db.TableExists(table)
		require.NoError(t, err)
		assert.True(t, ok, table)
	}
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := Open("postgres", "x")
	assert.Error(t, err)
}

func TestDetectionsRoundTrip(t *testing.T) {
	db := newTestDB(t)
	base := time.Date(2025, 7, 20, 18, 21, 45, 0, time.UTC)

	first := entity.DetectionRecord{CheckID: "a", CheckedAt: base, Policy: "keyword"}
	second := entity.DetectionRecord{
		CheckID: "b", CheckedAt: base.Add(1500 * time.Millisecond), Recording: true,
		MatchedProcess: "com.duapps.recorder", Keyword: "recorder", Policy: "keyword",
	}
	id1, err := db.SaveDetection(first)
	require.NoError(t, err)
	id2, err := db.SaveDetection(second)
	require.NoError(t, err)

	all, err := db.GetDetections(0)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, id2, all[0].ID)
	assert.Equal(t, id1, all[1].ID)
	assert.True(t, all[0].Recording)
	assert.Equal(t, "com.duapps.recorder", all[0].MatchedProcess)
	assert.True(t, second.CheckedAt.Equal(all[0].CheckedAt))

	limited, err := db.GetDetections(1)
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, "b", limited[0].CheckID)

	got, err := db.GetDetection(id1)
	require.NoError(t, err)
	assert.Equal(t, "a", got.CheckID)
	assert.False(t, got.Recording)

	_, err = db.GetDetection(999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteDetections(t *testing.T) {
	db := newTestDB(t)
	id, err := db.SaveDetection(entity.DetectionRecord{CheckID: "a", CheckedAt: time.Now(), Policy: "stub"})
	require.NoError(t, err)

	deleted, notFound, err := db.DeleteDetections([]int64{id, 42})
	require.NoError(t, err)
	assert.Equal(t, []int64{id}, deleted)
	assert.Equal(t, []int64{42}, notFound)

	all, err := db.GetDetections(0)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestDetectionStats(t *testing.T) {
	db := newTestDB(t)

	s, err := db.GetDetectionStats()
	require.NoError(t, err)
	assert.Equal(t, DetectionStats{}, s)

	at := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	_, err = db.SaveDetection(entity.DetectionRecord{CheckID: "a", CheckedAt: at, Recording: true, Policy: "keyword"})
	require.NoError(t, err)
	_, err = db.SaveDetection(entity.DetectionRecord{CheckID: "b", CheckedAt: at.Add(time.Hour), Policy: "keyword"})
	require.NoError(t, err)

	s, err = db.GetDetectionStats()
	require.NoError(t, err)
	assert.Equal(t, 2, s.Total)
	assert.Equal(t, 1, s.Recording)
	assert.Equal(t, at.Format(timeLayout), s.LastSeen)
}

func TestKeywords(t *testing.T) {
	db := newTestDB(t)

	require.NoError(t, db.InsertKeyword("screencam"))
	require.NoError(t, db.InsertKeyword("screencam"))
	require.NoError(t, db.InsertKeyword("adv recorder"))

	names, err := db.GetAllKeywords()
	require.NoError(t, err)
	assert.Equal(t, []string{"adv recorder", "screencam"}, names)

	require.NoError(t, db.DeleteKeyword("screencam"))
	names, err = db.GetAllKeywords()
	require.NoError(t, err)
	assert.Equal(t, []string{"adv recorder"}, names)
}

func TestMalformedCheckedAtIsReported(t *testing.T) {
	db := newTestDB(t)
	res, err := db.Exec(`INSERT INTO detections (check_id, checked_at, policy) VALUES ('x', 'yesterday', 'keyword')`)
	require.NoError(t, err)
	id, err := res.LastInsertId()
	require.NoError(t, err)

	_, err = db.GetDetections(0)
	assert.ErrorContains(t, err, "bad checked_at")
	_, err = db.GetDetection(id)
	assert.ErrorContains(t, err, "bad checked_at")
}
