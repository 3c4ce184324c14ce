package notification

import (
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestPublishNeverBlocksOnSlowClient(t *testing.T) {
	hub := NewHub()
	userID := uuid.New()

	// A connection nobody drains: the send buffer fills up and stays full
	conn := NewConnection(userID, nil)
	hub.Register(conn)

	done := make(chan struct{})
	go func() {
		var wg sync.WaitGroup
		for i := 0; i < 32; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for j := 0; j < 10; j++ {
					hub.Publish(userID, View{ID: uuid.New(), Title: "t", Message: "m"})
				}
			}()
		}
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("publishers blocked on a connection that is not reading")
	}

	if len(conn.Send) != sendBufferSize {
		t.Errorf("send buffer = %d, want full at %d", len(conn.Send), sendBufferSize)
	}
}

func TestPublishReachesBufferedConnection(t *testing.T) {
	hub := NewHub()
	userID := uuid.New()

	conn := NewConnection(userID, nil)
	hub.Register(conn)

	hub.Publish(userID, View{ID: uuid.New(), Title: "hello", Message: "m"})

	select {
	case data := <-conn.Send:
		if len(data) == 0 {
			t.Error("empty payload queued")
		}
	default:
		t.Fatal("nothing queued for a registered connection")
	}
}

func TestUnregisterClosesSendOnce(t *testing.T) {
	hub := NewHub()
	userID := uuid.New()

	conn := NewConnection(userID, nil)
	hub.Register(conn)

	hub.Unregister(conn)
	hub.Unregister(conn)

	if _, ok := <-conn.Send; ok {
		t.Error("send channel still open after unregister")
	}

	// Publishing after unregister must not panic or queue anything
	hub.Publish(userID, View{ID: uuid.New(), Title: "t", Message: "m"})
}

func TestPublishIsScopedToUser(t *testing.T) {
	hub := NewHub()
	alice := NewConnection(uuid.New(), nil)
	bob := NewConnection(uuid.New(), nil)
	hub.Register(alice)
	hub.Register(bob)

	hub.Publish(alice.UserID, View{ID: uuid.New(), Title: "t", Message: "m"})

	if len(alice.Send) != 1 {
		t.Errorf("alice queued = %d, want 1", len(alice.Send))
	}
	if len(bob.Send) != 0 {
		t.Errorf("bob queued = %d, want 0", len(bob.Send))
	}
}
