package pac_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/facturacion/internal/pac"
)

func TestNotification_MarkFailed_Backoff(t *testing.T) {
	at := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	n := &pac.Notification{MaxAttempts: 3}

	n.MarkFailed("refused", at)
	assert.Equal(t, 1, n.Attempts)
	assert.Equal(t, at.Add(time.Second), n.NextAttemptAt)
	assert.False(t, n.IsDead())

	n.MarkFailed("refused", at)
	assert.Equal(t, at.Add(2*time.Second), n.NextAttemptAt)

	n.MarkFailed("refused", at)
	assert.Equal(t, at.Add(4*time.Second), n.NextAttemptAt)
	assert.Equal(t, "refused", n.LastError)
	assert.True(t, n.IsDead())
}

func TestNotification_MarkDelivered(t *testing.T) {
	at := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	n := &pac.Notification{MaxAttempts: 1, LastError: "refused"}

	n.MarkDelivered(at)

	assert.Equal(t, 1, n.Attempts)
	assert.Empty(t, n.LastError)
	require.NotNil(t, n.DeliveredAt)
	assert.Equal(t, at, *n.DeliveredAt)
	assert.False(t, n.IsDead())
}

func TestDispatcher_Dispatch(t *testing.T) {
	type testCase struct {
		name          string
		notifyErr     error
		setupMock     func(m *pac.MockOutboxRepository, n *pac.Notification)
		wantDelivered int
		wantErr       bool
		check         func(t *testing.T, n *pac.Notification)
	}

	tests := []testCase{
		{
			name: "Delivered",
			setupMock: func(m *pac.MockOutboxRepository, n *pac.Notification) {
				m.EXPECT().DueNotifications(gomock.Any(), policyNow, 10).Return([]*pac.Notification{n}, nil)
				m.EXPECT().UpdateNotification(gomock.Any(), n).Return(nil)
			},
			wantDelivered: 1,
			check: func(t *testing.T, n *pac.Notification) {
				require.NotNil(t, n.DeliveredAt)
				assert.Equal(t, policyNow, *n.DeliveredAt)
				assert.Equal(t, 1, n.Attempts)
			},
		},
		{
			name:      "FailedIsRescheduled",
			notifyErr: errors.New("connection refused"),
			setupMock: func(m *pac.MockOutboxRepository, n *pac.Notification) {
				m.EXPECT().DueNotifications(gomock.Any(), policyNow, 10).Return([]*pac.Notification{n}, nil)
				m.EXPECT().UpdateNotification(gomock.Any(), n).Return(nil)
			},
			check: func(t *testing.T, n *pac.Notification) {
				assert.Nil(t, n.DeliveredAt)
				assert.Equal(t, 1, n.Attempts)
				assert.Equal(t, "connection refused", n.LastError)
				assert.Equal(t, policyNow.Add(time.Second), n.NextAttemptAt)
			},
		},
		{
			name: "UpdateErrorStillCountsDelivery",
			setupMock: func(m *pac.MockOutboxRepository, n *pac.Notification) {
				m.EXPECT().DueNotifications(gomock.Any(), policyNow, 10).Return([]*pac.Notification{n}, nil)
				m.EXPECT().UpdateNotification(gomock.Any(), n).Return(errors.New("db error"))
			},
			wantDelivered: 1,
		},
		{
			name: "LoadError",
			setupMock: func(m *pac.MockOutboxRepository, _ *pac.Notification) {
				m.EXPECT().DueNotifications(gomock.Any(), policyNow, 10).Return(nil, errors.New("db error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := pac.NewMockOutboxRepository(ctrl)
			n := &pac.Notification{
				ID:          uuid.New(),
				UUID:        "A",
				Status:      pac.StatusCancelada,
				MaxAttempts: pac.DefaultMaxAttempts,
			}
			tt.setupMock(repo, n)

			notifier := &recordingNotifier{err: tt.notifyErr}
			d := pac.NewDispatcher(repo, notifier, pac.DispatcherConfig{PollInterval: time.Second, BatchSize: 10, Now: fixedClock(policyNow)})

			got, err := d.Dispatch(context.Background())
			if tt.wantErr {
				assert.Error(t, err)
				assert.Empty(t, notifier.Calls())

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantDelivered, got)
			assert.Equal(t, []notifyCall{{UUID: "A", Status: pac.StatusCancelada}}, notifier.Calls())

			if tt.check != nil {
				tt.check(t, n)
			}
		})
	}
}
