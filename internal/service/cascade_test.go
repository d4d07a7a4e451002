package service_test

import (
	"context"
	"testing"
	"time"

	"taskhub/internal/gateway"
	"taskhub/internal/gateway/inmemory"
	"taskhub/internal/models"
	"taskhub/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// заводит пользователя со всеми видами зависимых строк
func seedUserAggregate(t *testing.T, gw *gateway.Gateway) *models.User {
	t.Helper()
	ctx := context.Background()

	user, err := gw.Users.Insert(ctx, models.User{FirstName: "Пётр", Email: "petr@example.com", PasswordHash: "x"})
	require.NoError(t, err)

	due := time.Now().Add(24 * time.Hour)
	task1, err := gw.Tasks.Insert(ctx, models.Task{UserID: user.ID, Title: "t1", DueDate: due, Status: models.StatusCompleted})
	require.NoError(t, err)
	task2, err := gw.Tasks.Insert(ctx, models.Task{UserID: user.ID, Title: "t2", DueDate: due, Status: models.StatusInProgress})
	require.NoError(t, err)

	_, err = gw.Reminders.Insert(ctx, models.Reminder{TaskID: task1.ID, Type: "email", NotifyAt: due})
	require.NoError(t, err)
	_, err = gw.Reminders.Insert(ctx, models.Reminder{TaskID: task2.ID, Type: "push", NotifyAt: due})
	require.NoError(t, err)

	_, err = gw.UserCollaborations.Insert(ctx, models.UserCollaboration{UserID: user.ID, CollaborationID: 1, Role: "Owner"})
	require.NoError(t, err)
	_, err = gw.UserBadges.Insert(ctx, models.UserBadge{UserID: user.ID, BadgeID: 1, DateEarned: time.Now()})
	require.NoError(t, err)
	_, err = gw.Exports.Insert(ctx, models.Export{UserID: user.ID, TaskID: task1.ID, Format: "csv", RequestedAt: time.Now()})
	require.NoError(t, err)

	return user
}

// TestCascade_DeleteUserComplete тестирует полноту каскада
func TestCascade_DeleteUserComplete(t *testing.T) {
	ctx := context.Background()
	gw := inmemory.NewGateway()
	user := seedUserAggregate(t, gw)

	// чужие строки каскад задевать не должен
	other, err := gw.Users.Insert(ctx, models.User{FirstName: "Мария", Email: "m@example.com", PasswordHash: "x"})
	require.NoError(t, err)
	otherTask, err := gw.Tasks.Insert(ctx, models.Task{UserID: other.ID, Title: "чужая", DueDate: time.Now(), Status: models.StatusInProgress})
	require.NoError(t, err)
	_, err = gw.Reminders.Insert(ctx, models.Reminder{TaskID: otherTask.ID, Type: "email", NotifyAt: time.Now()})
	require.NoError(t, err)

	deleter := service.NewCascadeDeleter(gw, service.NewResolver(gw))
	require.NoError(t, deleter.DeleteUserAccount(ctx, user.ID))

	left, err := gw.Users.FetchOne(ctx, gateway.Filter{"id": user.ID})
	require.NoError(t, err)
	assert.Nil(t, left, "пользователь больше не читается")

	tasks, _ := gw.Tasks.FetchAll(ctx, gateway.Filter{"userid": user.ID})
	assert.Empty(t, tasks)
	links, _ := gw.UserCollaborations.FetchAll(ctx, gateway.Filter{"userid": user.ID})
	assert.Empty(t, links)
	badges, _ := gw.UserBadges.FetchAll(ctx, gateway.Filter{"userid": user.ID})
	assert.Empty(t, badges)
	exports, _ := gw.Exports.FetchAll(ctx, gateway.Filter{"userid": user.ID})
	assert.Empty(t, exports)

	allReminders, _ := gw.Reminders.FetchAll(ctx, gateway.Filter{})
	require.Len(t, allReminders, 1, "напоминания удалённого пользователя выметены через его задачи")
	assert.Equal(t, otherTask.ID, allReminders[0].TaskID)

	otherLeft, _ := gw.Users.FetchOne(ctx, gateway.Filter{"id": other.ID})
	assert.NotNil(t, otherLeft, "второй пользователь не тронут")
}

// TestCascade_VerificationGate тестирует финальную проверку: хранилище
// молча игнорирует delete пользователя — операция проваливается целиком
func TestCascade_VerificationGate(t *testing.T) {
	ctx := context.Background()
	gw := inmemory.NewGateway()
	user := seedUserAggregate(t, gw)

	gw.Users = &stubbornTable[models.User]{Table: gw.Users}

	deleter := service.NewCascadeDeleter(gw, service.NewResolver(gw))
	err := deleter.DeleteUserAccount(ctx, user.ID)

	require.Error(t, err)
	var businessErr *service.BusinessError
	require.ErrorAs(t, err, &businessErr)
	assert.Equal(t, "INTEGRITY_ERROR", businessErr.Code)
}

// TestCascade_MissingUserFailsFast — без пользователя каскад не стартует
func TestCascade_MissingUserFailsFast(t *testing.T) {
	ctx := context.Background()
	gw := inmemory.NewGateway()

	tasks := &countingTable[models.Task]{Table: gw.Tasks}
	gw.Tasks = tasks

	deleter := service.NewCascadeDeleter(gw, service.NewResolver(gw))
	err := deleter.DeleteUserAccount(ctx, 42)

	require.Error(t, err)
	var businessErr *service.BusinessError
	require.ErrorAs(t, err, &businessErr)
	assert.Equal(t, "NOT_FOUND", businessErr.Code)
	assert.Zero(t, tasks.fetchAll, "до задач дело не дошло")
}

// TestCascade_DeleteCollaboration тестирует порядок: сначала членства,
// затем сама коллаборация; проверочное перечитывание не выполняется
func TestCascade_DeleteCollaboration(t *testing.T) {
	ctx := context.Background()
	gw := inmemory.NewGateway()

	collab, err := gw.Collaborations.Insert(ctx, models.Collaboration{TaskID: 1, Title: "Команда", JoinToken: "tok"})
	require.NoError(t, err)
	_, err = gw.UserCollaborations.Insert(ctx, models.UserCollaboration{UserID: 1, CollaborationID: collab.ID, Role: "Owner"})
	require.NoError(t, err)
	_, err = gw.UserCollaborations.Insert(ctx, models.UserCollaboration{UserID: 2, CollaborationID: collab.ID, Role: "Member"})
	require.NoError(t, err)

	collabs := &countingTable[models.Collaboration]{Table: gw.Collaborations}
	gw.Collaborations = collabs

	deleter := service.NewCascadeDeleter(gw, service.NewResolver(gw))
	require.NoError(t, deleter.DeleteCollaboration(ctx, collab.ID))

	links, _ := gw.UserCollaborations.FetchAll(ctx, gateway.Filter{"collaborationid": collab.ID})
	assert.Empty(t, links, "членства выметены раньше корня")

	left, _ := collabs.Table.FetchAll(ctx, gateway.Filter{"id": collab.ID})
	assert.Empty(t, left)

	// асимметрия с удалением пользователя закреплена сознательно
	assert.Zero(t, collabs.fetchOne, "перечитывания после удаления нет")
	assert.Zero(t, collabs.fetchAll)
}

// TestCascade_Rerunnable — повтор после частичного провала сходится
func TestCascade_Rerunnable(t *testing.T) {
	ctx := context.Background()
	gw := inmemory.NewGateway()
	user := seedUserAggregate(t, gw)

	// первый прогон срывается на шаге удаления пользователя
	stubborn := &stubbornTable[models.User]{Table: gw.Users}
	gw.Users = stubborn

	deleter := service.NewCascadeDeleter(gw, service.NewResolver(gw))
	require.Error(t, deleter.DeleteUserAccount(ctx, user.ID))

	// хранилище "починилось" — повторный прогон добивает остатки
	gw.Users = stubborn.Table
	deleter = service.NewCascadeDeleter(gw, service.NewResolver(gw))
	require.NoError(t, deleter.DeleteUserAccount(ctx, user.ID))

	left, _ := gw.Users.FetchOne(ctx, gateway.Filter{"id": user.ID})
	assert.Nil(t, left)
}
