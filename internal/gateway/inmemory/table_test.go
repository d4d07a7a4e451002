package inmemory

import (
	"context"
	"testing"
	"time"

	"taskhub/internal/gateway"
	"taskhub/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTable_InsertAssignsID(t *testing.T) {
	ctx := context.Background()
	tbl := NewTable[models.Task]()

	first, err := tbl.Insert(ctx, models.Task{UserID: 1, Title: "a", DueDate: time.Now()})
	require.NoError(t, err)
	second, err := tbl.Insert(ctx, models.Task{UserID: 1, Title: "b", DueDate: time.Now()})
	require.NoError(t, err)

	assert.Equal(t, int64(1), first.ID)
	assert.Equal(t, int64(2), second.ID)
}

func TestTable_InsertKeepsExplicitID(t *testing.T) {
	ctx := context.Background()
	tbl := NewTable[models.Badge]()

	seeded, err := tbl.Insert(ctx, models.Badge{ID: 10, Type: "first_task"})
	require.NoError(t, err)
	assert.Equal(t, int64(10), seeded.ID)

	// счётчик перескакивает за явный id
	next, err := tbl.Insert(ctx, models.Badge{Type: "taskmaster"})
	require.NoError(t, err)
	assert.Equal(t, int64(11), next.ID)
}

func TestTable_NoIDColumn(t *testing.T) {
	ctx := context.Background()
	tbl := NewTable[models.UserCollaboration]()

	// у мостовой таблицы нет суррогатного ключа — вставка не должна паниковать
	_, err := tbl.Insert(ctx, models.UserCollaboration{UserID: 1, CollaborationID: 2, Role: "Owner"})
	require.NoError(t, err)

	row, err := tbl.FetchOne(ctx, gateway.Filter{"userid": 1, "collaborationid": 2})
	require.NoError(t, err)
	require.NotNil(t, row)
	assert.Equal(t, "Owner", row.Role)
}

func TestTable_FetchAllFilters(t *testing.T) {
	ctx := context.Background()
	tbl := NewTable[models.Task]()

	_, err := tbl.Insert(ctx, models.Task{UserID: 1, Title: "a", Status: models.StatusCompleted, DueDate: time.Now()})
	require.NoError(t, err)
	_, err = tbl.Insert(ctx, models.Task{UserID: 1, Title: "b", Status: models.StatusInProgress, DueDate: time.Now()})
	require.NoError(t, err)
	_, err = tbl.Insert(ctx, models.Task{UserID: 2, Title: "c", Status: models.StatusCompleted, DueDate: time.Now()})
	require.NoError(t, err)

	byUser, err := tbl.FetchAll(ctx, gateway.Filter{"userid": 1})
	require.NoError(t, err)
	assert.Len(t, byUser, 2)

	byBoth, err := tbl.FetchAll(ctx, gateway.Filter{"userid": 1, "status": "completed"})
	require.NoError(t, err)
	require.Len(t, byBoth, 1)
	assert.Equal(t, "a", byBoth[0].Title)

	all, err := tbl.FetchAll(ctx, gateway.Filter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestTable_FetchAllUnknownColumn(t *testing.T) {
	tbl := NewTable[models.Task]()

	_, err := tbl.FetchAll(context.Background(), gateway.Filter{"нет_такой": 1})
	assert.Error(t, err)
}

func TestTable_FetchOne(t *testing.T) {
	ctx := context.Background()
	tbl := NewTable[models.User]()

	_, err := tbl.Insert(ctx, models.User{FirstName: "a", Email: "a@b.c"})
	require.NoError(t, err)
	_, err = tbl.Insert(ctx, models.User{FirstName: "b", Email: "b@b.c"})
	require.NoError(t, err)

	one, err := tbl.FetchOne(ctx, gateway.Filter{"email": "a@b.c"})
	require.NoError(t, err)
	require.NotNil(t, one)
	assert.Equal(t, "a", one.FirstName)

	none, err := tbl.FetchOne(ctx, gateway.Filter{"email": "x@b.c"})
	require.NoError(t, err)
	assert.Nil(t, none, "промах — это nil, а не ошибка")

	_, err = tbl.Insert(ctx, models.User{FirstName: "a2", Email: "a@b.c"})
	require.NoError(t, err)
	_, err = tbl.FetchOne(ctx, gateway.Filter{"email": "a@b.c"})
	assert.ErrorIs(t, err, gateway.ErrAmbiguous)
}

func TestTable_Update(t *testing.T) {
	ctx := context.Background()
	tbl := NewTable[models.Task]()

	created, err := tbl.Insert(ctx, models.Task{UserID: 1, Title: "a", Status: models.StatusInProgress, DueDate: time.Now()})
	require.NoError(t, err)

	count, err := tbl.Update(ctx,
		gateway.Filter{"id": created.ID},
		gateway.Patch{"status": "completed"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	got, _ := tbl.FetchOne(ctx, gateway.Filter{"id": created.ID})
	require.NotNil(t, got)
	assert.Equal(t, models.StatusCompleted, got.Status)

	count, err = tbl.Update(ctx, gateway.Filter{"id": 999}, gateway.Patch{"status": "completed"})
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestTable_Delete(t *testing.T) {
	ctx := context.Background()
	tbl := NewTable[models.Reminder]()

	_, err := tbl.Insert(ctx, models.Reminder{TaskID: 1, Type: "email", NotifyAt: time.Now()})
	require.NoError(t, err)
	_, err = tbl.Insert(ctx, models.Reminder{TaskID: 2, Type: "push", NotifyAt: time.Now()})
	require.NoError(t, err)

	require.NoError(t, tbl.Delete(ctx, gateway.Filter{"taskid": 1}))

	left, err := tbl.FetchAll(ctx, gateway.Filter{})
	require.NoError(t, err)
	require.Len(t, left, 1)
	assert.Equal(t, int64(2), left[0].TaskID)

	// удаление без совпадений — не ошибка
	require.NoError(t, tbl.Delete(ctx, gateway.Filter{"taskid": 99}))
}

func TestNewGateway_AllTablesReady(t *testing.T) {
	gw := NewGateway()

	require.NotNil(t, gw.Users)
	require.NotNil(t, gw.Tasks)
	require.NotNil(t, gw.Reminders)
	require.NotNil(t, gw.Collaborations)
	require.NotNil(t, gw.UserCollaborations)
	require.NotNil(t, gw.Badges)
	require.NotNil(t, gw.UserBadges)
	require.NotNil(t, gw.Exports)
	require.NotNil(t, gw.Messages)
}
