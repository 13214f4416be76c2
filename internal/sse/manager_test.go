package sse

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/researchqueue/researchqueue-server/internal/domain"
)

func startManager(t *testing.T) *Manager {
	t.Helper()
	m := NewManager(nil)
	ctx, cancel := context.WithCancel(context.Background())
	go m.Start(ctx)
	t.Cleanup(func() {
		_ = m.Shutdown(context.Background())
		cancel()
	})
	return m
}

func receive(t *testing.T, c *Client) Event {
	t.Helper()
	select {
	case evt := <-c.EventChan:
		return evt
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
		return Event{}
	}
}

func TestManager_ConnectDisconnect(t *testing.T) {
	m := NewManager(nil)

	c, err := m.Connect()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(c.ID, "sse-"))
	assert.Equal(t, 1, m.ClientCount())

	m.Disconnect(c.ID)
	assert.Equal(t, 0, m.ClientCount())

	_, open := <-c.Done
	assert.False(t, open)

	m.Disconnect(c.ID) // second disconnect is a no-op
}

func TestManager_Broadcast(t *testing.T) {
	m := startManager(t)

	a, err := m.Connect()
	require.NoError(t, err)
	b, err := m.Connect()
	require.NoError(t, err)

	m.Emit(NewBoardCreatedEvent(domain.Board{ID: "b1", Name: "ML"}))

	for _, c := range []*Client{a, b} {
		evt := receive(t, c)
		assert.Equal(t, EventBoardCreated, evt.Type)
		data, ok := evt.Data.(BoardEventData)
		require.True(t, ok)
		assert.Equal(t, "ML", data.Board.Name)
	}
}

func TestManager_EmitIgnoresForeignValues(t *testing.T) {
	m := NewManager(nil)
	assert.NotPanics(t, func() { m.Emit("not an event") })
}

func TestManager_TracksBusy(t *testing.T) {
	m := startManager(t)
	c, err := m.Connect()
	require.NoError(t, err)

	m.Emit(NewBusyEvent(2))
	evt := receive(t, c)
	assert.Equal(t, EventStoreBusy, evt.Type)
	assert.Equal(t, BusyEventData{Busy: true, InFlight: 2}, evt.Data)
	assert.Equal(t, 2, m.LastInFlight())
}

func TestManager_SlowClientDropsInsteadOfBlocking(t *testing.T) {
	m := NewManager(nil)
	c, err := m.Connect()
	require.NoError(t, err)

	for range cap(c.EventChan) + 10 {
		m.broadcast(NewItemDeletedEvent("i1", nil))
	}
	assert.Len(t, c.EventChan, cap(c.EventChan))
}

func TestManager_ShutdownClosesClients(t *testing.T) {
	m := NewManager(nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go m.Start(ctx)

	c, err := m.Connect()
	require.NoError(t, err)

	require.NoError(t, m.Shutdown(context.Background()))
	assert.True(t, m.IsShutdown())
	assert.Equal(t, 0, m.ClientCount())

	select {
	case <-c.Done:
	case <-time.After(time.Second):
		t.Fatal("client not closed")
	}

	assert.NotPanics(t, func() { m.Emit(NewHeartbeatEvent()) })
	require.NoError(t, m.Shutdown(context.Background()))
}

func TestHandler_StreamsEvents(t *testing.T) {
	m := startManager(t)
	srv := httptest.NewServer(NewHandler(m, nil))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL, nil)
	require.NoError(t, err)
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	lines := bufio.NewScanner(resp.Body)
	readEvent := func() (string, string) {
		var name, data string
		for lines.Scan() {
			line := lines.Text()
			switch {
			case strings.HasPrefix(line, "event: "):
				name = strings.TrimPrefix(line, "event: ")
			case strings.HasPrefix(line, "data: "):
				data = strings.TrimPrefix(line, "data: ")
			case line == "" && name != "":
				return name, data
			}
		}
		return name, data
	}

	name, data := readEvent()
	assert.Equal(t, "connected", name)
	assert.Contains(t, data, `"client_id":"sse-`)

	require.Eventually(t, func() bool { return m.ClientCount() == 1 }, time.Second, 10*time.Millisecond)
	m.Emit(NewItemDeletedEvent("item-1", []string{"b1"}))

	name, data = readEvent()
	assert.Equal(t, string(EventItemDeleted), name)
	assert.Contains(t, data, `"item_id":"item-1"`)
}

func TestHandler_RejectsNonGet(t *testing.T) {
	rec := httptest.NewRecorder()
	NewHandler(NewManager(nil), nil).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
