package posefeed

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tochemey/goakt/v3/actor"
	golog "github.com/tochemey/goakt/v3/log"
	"go.uber.org/zap"

	"github.com/lao-tseu-is-alive/go-pose-flock/pkg/pose"
)

const frameJSON = `[{"pose": {"nose": {"x": 320, "y": 40, "confidence": 0.9}, "leftHip": {"x": 300, "y": 300, "confidence": 0.8}}}]`

func startFeed(t *testing.T) (context.Context, *pose.Slot, *actor.PID) {
	t.Helper()
	ctx := context.Background()
	system, err := actor.NewActorSystem("posefeed-test-"+uuid.NewString(),
		actor.WithLogger(golog.DiscardLogger))
	require.NoError(t, err)
	require.NoError(t, system.Start(ctx))
	t.Cleanup(func() { _ = system.Stop(ctx) })

	slot := &pose.Slot{}
	pid, err := Spawn(ctx, system, slot, 640, 480)
	require.NoError(t, err)
	return ctx, slot, pid
}

func TestPoseActor_PublishesFrames(t *testing.T) {
	ctx, slot, pid := startFeed(t)

	require.NoError(t, Submit(ctx, pid, []byte(frameJSON)))

	require.Eventually(t, func() bool { return slot.Version() == 1 }, 2*time.Second, 10*time.Millisecond)
	f := slot.Latest()
	require.Len(t, f.Detections, 1)
	assert.Equal(t, 640.0, f.CameraWidth, "camera size filled from defaults")
	assert.Equal(t, 480.0, f.CameraHeight)
	assert.False(t, f.ReceivedAt.IsZero())

	stats, err := QueryStats(ctx, pid, time.Second)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.Frames)
	assert.Equal(t, int64(1), stats.Persons)
	assert.Zero(t, stats.Rejected)
	assert.False(t, stats.LastFrame.IsZero())
}

func TestPoseActor_RejectsMalformedFrames(t *testing.T) {
	ctx, slot, pid := startFeed(t)

	assert.ErrorIs(t, Submit(ctx, pid, []byte(`not json`)), pose.ErrMalformedFrame)
	require.NoError(t, Submit(ctx, pid, []byte(`"a string"`)))
	require.NoError(t, Submit(ctx, pid, []byte(`{"width": 320, "poses": []}`)))

	require.Eventually(t, func() bool {
		stats, err := QueryStats(ctx, pid, time.Second)
		return err == nil && stats.Frames == 1 && stats.Rejected == 1
	}, 2*time.Second, 10*time.Millisecond)
	f := slot.Latest()
	assert.True(t, f.Empty(), "an empty poses list clears the person")
	assert.Equal(t, 320.0, f.CameraWidth)
}

func TestReadLines(t *testing.T) {
	ctx, slot, pid := startFeed(t)
	input := strings.Join([]string{
		frameJSON,
		"",
		"garbage",
		`{"poses": [{"nose": {"x": 1, "y": 2}}]}`,
	}, "\n")

	require.NoError(t, ReadLines(ctx, strings.NewReader(input), pid, zap.NewNop()))

	require.Eventually(t, func() bool { return slot.Version() == 2 }, 2*time.Second, 10*time.Millisecond)
	f := slot.Latest()
	require.Len(t, f.Detections, 1)
	assert.Equal(t, 2.0, f.Detections[0][pose.Nose].Position.Y)
}

func TestServer_WebsocketToSlot(t *testing.T) {
	ctx, slot, pid := startFeed(t)
	srv := NewServer(pid, zap.NewNop())
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + PosesPath
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{{`)))
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(frameJSON)))

	require.Eventually(t, func() bool { return slot.Version() == 1 }, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, 320.0, slot.Latest().Detections[0][pose.Nose].Position.X)
	assert.Equal(t, int64(1), srv.Clients())

	stats, err := QueryStats(ctx, pid, time.Second)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.Frames)
}

func TestServer_Health(t *testing.T) {
	_, _, pid := startFeed(t)
	srv := NewServer(pid, zap.NewNop())

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, HealthPath, nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","clients":0}`, rec.Body.String())

	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, HealthPath, nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestServer_ListenAndServeStopsOnCancel(t *testing.T) {
	_, _, pid := startFeed(t)
	srv := NewServer(pid, zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- srv.ListenAndServe(ctx, "127.0.0.1:0") }()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestServer_ShutdownClosesEstimators(t *testing.T) {
	_, _, pid := startFeed(t)
	srv := NewServer(pid, zap.NewNop())
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	conn, _, err := websocket.DefaultDialer.Dial("ws://"+ln.Addr().String()+PosesPath, nil)
	require.NoError(t, err)
	defer conn.Close()
	require.Eventually(t, func() bool { return srv.Clients() == 1 }, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("server did not stop")
	}

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err = conn.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseGoingAway), "got %v", err)
	require.Eventually(t, func() bool { return srv.Clients() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestServer_ListenAndServeAddressInUse(t *testing.T) {
	_, _, pid := startFeed(t)
	taken, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer taken.Close()

	err = NewServer(pid, zap.NewNop()).ListenAndServe(context.Background(), taken.Addr().String())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "pose feed server failed")
}

func TestPoseActor_SurvivesBursts(t *testing.T) {
	ctx, slot, pid := startFeed(t)

	for range 5 * mailboxSize {
		_ = Submit(ctx, pid, []byte(frameJSON))
	}

	var stats Stats
	require.Eventually(t, func() bool {
		var err error
		stats, err = QueryStats(ctx, pid, time.Second)
		return err == nil && stats.Frames > 0
	}, 3*time.Second, 20*time.Millisecond)
	assert.Positive(t, slot.Version())
	assert.LessOrEqual(t, stats.Frames, int64(5*mailboxSize))
	assert.Zero(t, stats.Rejected)
}
