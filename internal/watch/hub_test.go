package watch

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/svgjww/viewer/internal/document"
)

func recv(t *testing.T, c *Client) *Message {
	t.Helper()
	select {
	case msg, ok := <-c.send:
		require.True(t, ok, "send channel closed")
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for message")
		return nil
	}
}

func runHub(t *testing.T) *Hub {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	h := NewHub("drawing.json", nil)
	go h.Run(ctx)
	return h
}

func TestHubWelcomesAndReplaysLatest(t *testing.T) {
	h := runHub(t)
	h.PublishDocument([]byte(`{"entities":[]}`))

	c := NewClient(h, nil, "c1")
	require.True(t, h.Register(c))

	welcome := recv(t, c)
	assert.Equal(t, TypeWelcome, welcome.Type)
	assert.Equal(t, "c1", welcome.ClientID)
	var wp WelcomePayload
	require.NoError(t, json.Unmarshal(welcome.Payload, &wp))
	assert.Equal(t, "drawing.json", wp.Source)
	assert.Equal(t, int64(1), wp.Seq)

	latest := recv(t, c)
	assert.Equal(t, TypeDocReload, latest.Type)
	assert.Equal(t, int64(1), latest.Seq)
	assert.JSONEq(t, `{"entities":[]}`, string(latest.Payload))
}

func TestHubBroadcasts(t *testing.T) {
	h := runHub(t)
	a := NewClient(h, nil, "a")
	b := NewClient(h, nil, "b")
	require.True(t, h.Register(a))
	require.True(t, h.Register(b))
	recv(t, a)
	recv(t, b)
	assert.Equal(t, 2, h.ClientCount())

	h.PublishError(&document.ParseError{Message: "unsupported version"})
	for _, c := range []*Client{a, b} {
		msg := recv(t, c)
		assert.Equal(t, TypeDocError, msg.Type)
		require.NotNil(t, msg.Error)
		assert.Equal(t, "unsupported version", msg.Error.Message)
		assert.Equal(t, "drawing.json", msg.Source)
	}

	h.Unregister(a)
	_, ok := <-a.send
	assert.False(t, ok)
	assert.Equal(t, 1, h.ClientCount())
}

func TestHubPublishErrorPlain(t *testing.T) {
	h := NewHub("x", nil)
	h.PublishError(errors.New("read x: no such file"))
	latest := h.Latest()
	require.NotNil(t, latest)
	assert.Equal(t, "read x: no such file", latest.Error.Message)
	assert.Equal(t, int64(1), latest.Seq)
}

func TestHubStopped(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	h := NewHub("x", nil)
	stopped := make(chan struct{})
	go func() {
		h.Run(ctx)
		close(stopped)
	}()
	c := NewClient(h, nil, "c")
	require.True(t, h.Register(c))
	cancel()
	<-stopped

	assert.False(t, h.Register(NewClient(h, nil, "late")))
	h.Unregister(c)
	assert.Zero(t, h.ClientCount())
}

func TestHubServeHTTP(t *testing.T) {
	h := runHub(t)
	h.PublishDocument([]byte(`{"version":600}`))

	srv := httptest.NewServer(h)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	conn, _, err := websocket.Dial(ctx, "ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	defer conn.Close(websocket.StatusNormalClosure, "")

	var msg Message
	require.NoError(t, wsjson.Read(ctx, conn, &msg))
	assert.Equal(t, TypeWelcome, msg.Type)
	assert.NotEmpty(t, msg.ClientID)

	require.NoError(t, wsjson.Read(ctx, conn, &msg))
	assert.Equal(t, TypeDocReload, msg.Type)
	assert.JSONEq(t, `{"version":600}`, string(msg.Payload))

	h.PublishDocument([]byte(`{"version":700}`))
	require.NoError(t, wsjson.Read(ctx, conn, &msg))
	assert.Equal(t, int64(2), msg.Seq)
}

func TestClientSendKeepsNewest(t *testing.T) {
	c := NewClient(nil, nil, "slow")
	for i := 1; i <= sendBuffer+3; i++ {
		c.Send(&Message{Type: TypeDocReload, Seq: int64(i)})
	}
	require.Len(t, c.send, sendBuffer)

	var last *Message
	for len(c.send) > 0 {
		last = <-c.send
	}
	assert.Equal(t, int64(sendBuffer+3), last.Seq)
}
