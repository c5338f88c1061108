package services

import (
	"testing"

	"github.com/socialhub/backend/internal/apperr"
	"github.com/socialhub/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newNotifierEnv() (*NotifierService, *fakeNotificationRepo, *recordingPublisher) {
	repo := newFakeNotificationRepo()
	publisher := newRecordingPublisher()
	return NewNotifierService(repo, publisher), repo, publisher
}

func TestDispatchPersistsThenPublishes(t *testing.T) {
	notifier, repo, publisher := newNotifierEnv()
	actor := &models.User{ID: 1, Username: "alice"}

	require.NoError(t, notifier.NotifyFollow(actor, 2))

	require.Len(t, repo.notifications, 1)
	require.Len(t, publisher.published[2], 1)

	sent, ok := publisher.published[2][0].(*models.Notification)
	require.True(t, ok)
	// The delivered payload carries the ID assigned by the durable write.
	assert.NotZero(t, sent.ID)
	assert.Equal(t, models.NotificationTypeFollow, sent.Type)
}

func TestDispatchDeliveryFailureIsSwallowed(t *testing.T) {
	notifier, repo, publisher := newNotifierEnv()
	publisher.fail = true
	actor := &models.User{ID: 1, Username: "alice"}

	// The durable record survives even when no connection accepts the push.
	require.NoError(t, notifier.NotifyFollow(actor, 2))
	assert.Len(t, repo.notifications, 1)
}

func TestDispatchPersistFailureAborts(t *testing.T) {
	notifier, repo, publisher := newNotifierEnv()
	repo.failCreate = true
	actor := &models.User{ID: 1, Username: "alice"}

	require.Error(t, notifier.NotifyFollow(actor, 2))
	assert.Empty(t, publisher.published)
}

func TestNotifierWithoutPublisher(t *testing.T) {
	repo := newFakeNotificationRepo()
	notifier := NewNotifierService(repo, nil)
	actor := &models.User{ID: 1, Username: "alice"}

	require.NoError(t, notifier.NotifyFollow(actor, 2))
	assert.Len(t, repo.notifications, 1)
}

func TestListNewestFirst(t *testing.T) {
	notifier, _, _ := newNotifierEnv()
	actor := &models.User{ID: 1, Username: "alice"}

	require.NoError(t, notifier.NotifyFollow(actor, 2))
	require.NoError(t, notifier.NotifyFollow(&models.User{ID: 3, Username: "carol"}, 2))

	notifications, total, err := notifier.List(2, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, notifications, 2)
	assert.Equal(t, uint(3), notifications[0].ActorID)
	assert.Equal(t, uint(1), notifications[1].ActorID)
}

func TestMarkAsReadOwnershipAndIdempotence(t *testing.T) {
	notifier, repo, _ := newNotifierEnv()
	actor := &models.User{ID: 1, Username: "alice"}
	require.NoError(t, notifier.NotifyFollow(actor, 2))

	var id uint
	for nid := range repo.notifications {
		id = nid
	}

	// Another user cannot mark it.
	assert.ErrorIs(t, notifier.MarkAsRead(3, id), apperr.ErrForbidden)

	count, err := notifier.UnreadCount(2)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	require.NoError(t, notifier.MarkAsRead(2, id))
	// Marking again is a no-op, not an error.
	require.NoError(t, notifier.MarkAsRead(2, id))

	count, err = notifier.UnreadCount(2)
	require.NoError(t, err)
	assert.EqualValues(t, 0, count)
}

func TestMarkAsReadUnknownNotificationNotFound(t *testing.T) {
	notifier, _, _ := newNotifierEnv()
	assert.ErrorIs(t, notifier.MarkAsRead(2, 99), apperr.ErrNotFound)
}

func TestMarkAllAsRead(t *testing.T) {
	notifier, _, _ := newNotifierEnv()
	actor := &models.User{ID: 1, Username: "alice"}
	require.NoError(t, notifier.NotifyFollow(actor, 2))
	require.NoError(t, notifier.NotifyFollow(actor, 3))

	require.NoError(t, notifier.MarkAllAsRead(2))

	count, err := notifier.UnreadCount(2)
	require.NoError(t, err)
	assert.EqualValues(t, 0, count)

	// Other recipients are untouched.
	count, err = notifier.UnreadCount(3)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	// No unread notifications left is not an error.
	require.NoError(t, notifier.MarkAllAsRead(2))
}

func TestDeleteOwnershipEnforced(t *testing.T) {
	notifier, repo, _ := newNotifierEnv()
	actor := &models.User{ID: 1, Username: "alice"}
	require.NoError(t, notifier.NotifyFollow(actor, 2))

	var id uint
	for nid := range repo.notifications {
		id = nid
	}

	assert.ErrorIs(t, notifier.Delete(3, id), apperr.ErrForbidden)
	require.NoError(t, notifier.Delete(2, id))
	assert.Empty(t, repo.notifications)
}

func TestDeleteAllOnlyRecipients(t *testing.T) {
	notifier, repo, _ := newNotifierEnv()
	actor := &models.User{ID: 1, Username: "alice"}
	require.NoError(t, notifier.NotifyFollow(actor, 2))
	require.NoError(t, notifier.NotifyFollow(actor, 3))

	require.NoError(t, notifier.DeleteAll(2))

	assert.Len(t, repo.notifications, 1)
	for _, n := range repo.notifications {
		assert.Equal(t, uint(3), n.RecipientID)
	}
}
