package record_test

import (
	"context"
	"testing"
	"time"

	"keepsake/internal/record"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, gdb.AutoMigrate(&record.Memory{}, &record.Task{}, &record.Event{}))
	return gdb
}

func strPtr(s string) *string { return &s }

func TestMemoryScopedToOwner(t *testing.T) {
	svc := &record.Service{DB: testDB(t)}
	ctx := context.Background()

	_, err := svc.CreateMemory(ctx, 7, record.CreateMemoryInput{
		Title: "أول لقاء",
		Date:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	mine, err := svc.ListMemories(ctx, 7)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	require.Equal(t, "أول لقاء", mine[0].Title)

	theirs, err := svc.ListMemories(ctx, 8)
	require.NoError(t, err)
	require.Empty(t, theirs)
}

func TestMemoryListOrderedByDateDesc(t *testing.T) {
	svc := &record.Service{DB: testDB(t)}
	ctx := context.Background()

	dates := []time.Time{
		time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 2, 14, 0, 0, 0, 0, time.UTC),
		time.Date(2022, 12, 31, 0, 0, 0, 0, time.UTC),
	}
	for i, d := range dates {
		_, err := svc.CreateMemory(ctx, 1, record.CreateMemoryInput{
			Title: string(rune('a' + i)),
			Date:  d,
		})
		require.NoError(t, err)
	}

	rows, err := svc.ListMemories(ctx, 1)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	for i := 1; i < len(rows); i++ {
		require.False(t, rows[i].Date.After(rows[i-1].Date))
	}
}

func TestMemoryEndToEnd(t *testing.T) {
	svc := &record.Service{DB: testDB(t)}
	ctx := context.Background()

	id, err := svc.CreateMemory(ctx, 7, record.CreateMemoryInput{
		Title: "أول لقاء",
		Date:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	rows, err := svc.ListMemories(ctx, 7)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, "أول لقاء", rows[0].Title)

	require.NoError(t, svc.DeleteMemory(ctx, 7, id))

	rows, err = svc.ListMemories(ctx, 7)
	require.NoError(t, err)
	require.Empty(t, rows)
}

func TestMemoryUpdateCrossOwnerRejected(t *testing.T) {
	svc := &record.Service{DB: testDB(t)}
	ctx := context.Background()

	id, err := svc.CreateMemory(ctx, 1, record.CreateMemoryInput{
		Title: "ours",
		Date:  time.Now(),
	})
	require.NoError(t, err)

	err = svc.UpdateMemory(ctx, 2, id, record.UpdateMemoryInput{Title: strPtr("stolen")})
	require.ErrorIs(t, err, record.ErrNotFound)

	// cross-owner delete is a silent no-op, the row survives
	require.NoError(t, svc.DeleteMemory(ctx, 2, id))
	rows, err := svc.ListMemories(ctx, 1)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, "ours", rows[0].Title)
}

func TestTaskListOrderedByCreationDesc(t *testing.T) {
	svc := &record.Service{DB: testDB(t)}
	ctx := context.Background()

	for _, title := range []string{"first", "second", "third"} {
		_, err := svc.CreateTask(ctx, 1, record.CreateTaskInput{Title: title})
		require.NoError(t, err)
		time.Sleep(5 * time.Millisecond)
	}

	rows, err := svc.ListTasks(ctx, 1)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	require.Equal(t, "third", rows[0].Title)
	require.Equal(t, "first", rows[2].Title)
	for i := 1; i < len(rows); i++ {
		require.False(t, rows[i].CreatedAt.After(rows[i-1].CreatedAt))
	}
}

func TestTaskDefaultsAndToggle(t *testing.T) {
	svc := &record.Service{DB: testDB(t)}
	ctx := context.Background()

	id, err := svc.CreateTask(ctx, 1, record.CreateTaskInput{Title: "surprise dinner", Priority: record.PriorityHigh})
	require.NoError(t, err)

	rows, err := svc.ListTasks(ctx, 1)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, 0, rows[0].Completed)
	require.Equal(t, record.PriorityHigh, rows[0].Priority)
	require.Nil(t, rows[0].DueDate)
	created := rows[0].UpdatedAt

	toggle := func(v int) record.UpdateTaskInput {
		return record.UpdateTaskInput{Completed: &v}
	}

	time.Sleep(5 * time.Millisecond)
	require.NoError(t, svc.UpdateTask(ctx, 1, id, toggle(1)))

	rows, err = svc.ListTasks(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, 1, rows[0].Completed)
	afterFirst := rows[0].UpdatedAt
	require.True(t, afterFirst.After(created))

	time.Sleep(5 * time.Millisecond)
	require.NoError(t, svc.UpdateTask(ctx, 1, id, toggle(0)))

	rows, err = svc.ListTasks(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, 0, rows[0].Completed)
	require.True(t, rows[0].UpdatedAt.After(afterFirst))
}

func TestTaskCreateDefaultsPriorityMedium(t *testing.T) {
	svc := &record.Service{DB: testDB(t)}
	ctx := context.Background()

	_, err := svc.CreateTask(ctx, 1, record.CreateTaskInput{Title: "call the florist"})
	require.NoError(t, err)

	rows, err := svc.ListTasks(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, record.PriorityMedium, rows[0].Priority)
}

func TestEventListOrderedByDateDesc(t *testing.T) {
	svc := &record.Service{DB: testDB(t)}
	ctx := context.Background()

	dates := []time.Time{
		time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2023, 8, 20, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC),
	}
	for _, d := range dates {
		_, err := svc.CreateEvent(ctx, 1, record.CreateEventInput{Title: "x", Date: d, Type: record.EventMilestone})
		require.NoError(t, err)
	}

	rows, err := svc.ListEvents(ctx, 1)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	for i := 1; i < len(rows); i++ {
		require.False(t, rows[i].Date.After(rows[i-1].Date))
	}
}

func TestEventCreateDefaultsTypeOther(t *testing.T) {
	svc := &record.Service{DB: testDB(t)}
	ctx := context.Background()

	_, err := svc.CreateEvent(ctx, 1, record.CreateEventInput{Title: "moved in", Date: time.Now()})
	require.NoError(t, err)

	rows, err := svc.ListEvents(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, record.EventOther, rows[0].Type)
}

func TestDeleteNonexistentIsNoError(t *testing.T) {
	svc := &record.Service{DB: testDB(t)}
	ctx := context.Background()

	_, err := svc.CreateMemory(ctx, 1, record.CreateMemoryInput{Title: "keep", Date: time.Now()})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteMemory(ctx, 1, 999))
	require.NoError(t, svc.DeleteTask(ctx, 1, 999))
	require.NoError(t, svc.DeleteEvent(ctx, 1, 999))

	rows, err := svc.ListMemories(ctx, 1)
	require.NoError(t, err)
	require.Len(t, rows, 1)
}

func TestNilDatabaseDegrades(t *testing.T) {
	svc := &record.Service{DB: nil}
	ctx := context.Background()

	// reads degrade to empty, never error
	memories, err := svc.ListMemories(ctx, 1)
	require.NoError(t, err)
	require.Empty(t, memories)

	tasks, err := svc.ListTasks(ctx, 1)
	require.NoError(t, err)
	require.Empty(t, tasks)

	events, err := svc.ListEvents(ctx, 1)
	require.NoError(t, err)
	require.Empty(t, events)

	// writes surface the condition
	_, err = svc.CreateMemory(ctx, 1, record.CreateMemoryInput{Title: "x", Date: time.Now()})
	require.ErrorIs(t, err, record.ErrDatabaseUnavailable)

	err = svc.UpdateTask(ctx, 1, 1, record.UpdateTaskInput{})
	require.ErrorIs(t, err, record.ErrDatabaseUnavailable)

	err = svc.DeleteEvent(ctx, 1, 1)
	require.ErrorIs(t, err, record.ErrDatabaseUnavailable)
}
