package notify

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alaazayood/viatica-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type memStore struct {
	mu    sync.Mutex
	saved []*models.Notification
}

func (s *memStore) Save(ctx context.Context, n *models.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saved = append(s.saved, n)
	return nil
}

func (s *memStore) all() []*models.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*models.Notification, len(s.saved))
	copy(out, s.saved)
	return out
}

func TestNotifyPersistsThroughQueue(t *testing.T) {
	store := &memStore{}
	svc := NewService(store, zap.NewNop().Sugar())
	defer svc.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, svc.Start(ctx))

	svc.Notify(7, "New purchase order", "Sami placed a new purchase order #abc123.")
	svc.Notify(8, "Order status update", "Your order #abc123 has been confirmed and is being prepared.")

	require.Eventually(t, func() bool {
		return len(store.all()) == 2
	}, 2*time.Second, 10*time.Millisecond)

	saved := store.all()
	assert.Equal(t, uint(7), saved[0].UserID)
	assert.Equal(t, "New purchase order", saved[0].Title)
	assert.False(t, saved[0].Read)
	assert.Equal(t, uint(8), saved[1].UserID)
}

func TestNotifyNeverBlocksCaller(t *testing.T) {
	store := &memStore{}
	svc := NewService(store, zap.NewNop().Sugar())
	defer svc.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, svc.Start(ctx))

	done := make(chan struct{})
	go func() {
		for i := 0; i < 50; i++ {
			svc.Notify(uint(i), "t", "m")
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("publishing blocked")
	}

	require.Eventually(t, func() bool {
		return len(store.all()) == 50
	}, 3*time.Second, 10*time.Millisecond)
}
