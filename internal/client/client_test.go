package client

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskloop/internal/config"
	"taskloop/internal/events"
	"taskloop/internal/query"
	"taskloop/internal/serverapp"
	"taskloop/internal/task"
)

func newServer(t *testing.T) (*Client, *httptest.Server) {
	t.Helper()
	h, err := serverapp.NewHandler(serverapp.Options{
		Config: config.Default(),
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	require.NoError(t, err)
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	c, err := New(srv.URL + "/")
	require.NoError(t, err)
	return c, srv
}

func TestNew_RejectsBadURL(t *testing.T) {
	_, err := New("localhost:5000")
	assert.Error(t, err)
	_, err = New("ftp://example.com")
	assert.Error(t, err)
}

func TestList_SendsOnlyNonDefaultParams(t *testing.T) {
	var got []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = append(got, r.URL.RawQuery)
		_, _ = io.WriteString(w, "[]")
	}))
	defer srv.Close()

	c, err := New(srv.URL)
	require.NoError(t, err)
	ctx := context.Background()

	tasks, err := c.List(ctx, query.Options{})
	require.NoError(t, err)
	assert.NotNil(t, tasks)
	assert.Empty(t, tasks)

	pending := false
	_, err = c.List(ctx, query.Options{Completed: &pending, Search: "  milk ", Sort: query.SortTitleDesc})
	require.NoError(t, err)

	require.Len(t, got, 2)
	assert.Equal(t, "", got[0])
	assert.Equal(t, "completed=false&search=milk&sort=title_desc", got[1])
}

func TestCRUDAgainstServer(t *testing.T) {
	c, _ := newServer(t)
	ctx := context.Background()

	created, err := c.Create(ctx, task.Input{Title: "Buy milk", Description: "2% milk", Priority: task.PriorityLow})
	require.NoError(t, err)
	assert.Equal(t, int64(6), created.ID)
	assert.False(t, created.Completed)

	done := true
	updated, err := c.Update(ctx, created.ID, task.Input{
		Title:       "Buy oat milk",
		Description: "2% milk",
		Priority:    task.PriorityHigh,
		Completed:   &done,
	})
	require.NoError(t, err)
	assert.Equal(t, "Buy oat milk", updated.Title)
	assert.True(t, updated.Completed)
	assert.True(t, updated.CreatedAt.Equal(created.CreatedAt))

	toggled, err := c.Toggle(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, toggled.Completed)

	search, err := c.List(ctx, query.Options{Search: "OAT"})
	require.NoError(t, err)
	require.Len(t, search, 1)
	assert.Equal(t, created.ID, search[0].ID)

	removed, err := c.Delete(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, removed.ID)

	all, err := c.List(ctx, query.Options{})
	require.NoError(t, err)
	assert.Len(t, all, 5)
}

func TestServerErrorsBecomeTransportErrors(t *testing.T) {
	c, _ := newServer(t)
	ctx := context.Background()

	_, err := c.Toggle(ctx, 9999)
	var te *TransportError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, http.StatusNotFound, te.Status)
	assert.Equal(t, "Task not found", te.Error())
	assert.True(t, IsNotFound(err))

	_, err = c.Create(ctx, task.Input{Title: strings.Repeat("x", 26), Description: "d", Priority: task.PriorityLow})
	require.ErrorAs(t, err, &te)
	assert.Equal(t, http.StatusBadRequest, te.Status)
	assert.Equal(t, task.MsgTitleTooLong, te.Error())
}

func TestGenericMessageWithoutBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c, err := New(srv.URL)
	require.NoError(t, err)
	_, err = c.List(context.Background(), query.Options{})
	require.Error(t, err)
	assert.Equal(t, "request failed with status 502", err.Error())
}

func TestNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c, err := New(url, WithTimeout(time.Second))
	require.NoError(t, err)
	_, err = c.List(context.Background(), query.Options{})

	var te *TransportError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, 0, te.Status)
	assert.NotNil(t, te.Err)
	assert.True(t, strings.HasPrefix(err.Error(), "request failed: "))
}

func TestSubscribe_ReceivesMutations(t *testing.T) {
	c, _ := newServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var (
		mu  sync.Mutex
		got []events.Event
	)
	done := make(chan error, 1)
	go func() {
		done <- c.Subscribe(ctx, func(ev events.Event) {
			mu.Lock()
			got = append(got, ev)
			mu.Unlock()
		})
	}()

	// keep mutating until the subscriber is attached and sees one
	require.Eventually(t, func() bool {
		if _, err := c.Toggle(ctx, 1); err != nil {
			return false
		}
		mu.Lock()
		defer mu.Unlock()
		return len(got) > 0
	}, 3*time.Second, 50*time.Millisecond)

	mu.Lock()
	first := got[0]
	mu.Unlock()
	assert.Equal(t, events.KindToggled, first.Type)
	assert.Equal(t, int64(1), first.Task.ID)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("Subscribe did not return after cancel")
	}
}

func TestSubscribe_DialFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	c, err := New(srv.URL)
	require.NoError(t, err)
	srv.Close()

	err = c.Subscribe(context.Background(), func(events.Event) {})
	var te *TransportError
	assert.True(t, errors.As(err, &te))
}
