package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Fresh4774/aquin-offline-arcade/internal/config"
	"github.com/Fresh4774/aquin-offline-arcade/internal/game"
	"github.com/Fresh4774/aquin-offline-arcade/internal/protocol"
	"github.com/Fresh4774/aquin-offline-arcade/internal/store"
)

// ---------- helpers ----------

type testServer struct {
	srv   *httptest.Server
	hub   *Hub
	wsURL string
}

// startTestServer spins up an httptest.Server with a Hub. pass guards
// session creation when non-empty; runs may be nil.
func startTestServer(t *testing.T, pass string, runs RunLister) *testServer {
	t.Helper()

	tmpDir := t.TempDir()
	os.WriteFile(filepath.Join(tmpDir, "index.html"), []byte("<html>test</html>"), 0o644)

	auth, err := NewAuth(pass, nil)
	if err != nil {
		t.Fatal(err)
	}
	sessions := NewSessionManager(config.Default(), nil)
	hub := NewHub(sessions, auth, runs)
	go hub.Run()

	srv := httptest.NewServer(SetupRoutes(hub, tmpDir))
	t.Cleanup(func() {
		srv.Close()
		sessions.Close()
	})
	return &testServer{
		srv:   srv,
		hub:   hub,
		wsURL: "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws",
	}
}

// dialWS opens a WebSocket connection to the test server.
func dialWS(t *testing.T, wsURL string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial WS: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

// sendMsg sends a typed message over the WebSocket.
func sendMsg(t *testing.T, conn *websocket.Conn, msgType string, data interface{}) {
	t.Helper()
	raw, _ := json.Marshal(protocol.Envelope{T: msgType, Data: data})
	if err := conn.WriteMessage(websocket.TextMessage, raw); err != nil {
		t.Fatalf("write WS: %v", err)
	}
}

// readText reads the next text message, skipping snapshot frames.
func readText(t *testing.T, conn *websocket.Conn) protocol.InEnvelope {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	for {
		msgType, raw, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("read WS: %v", err)
		}
		if msgType == websocket.BinaryMessage {
			continue
		}
		env, err := protocol.DecodeEnvelope(raw)
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		return env
	}
}

// readUntil skips messages until one of type want arrives.
func readUntil(t *testing.T, conn *websocket.Conn, want string) protocol.InEnvelope {
	t.Helper()
	for i := 0; i < 500; i++ {
		env := readText(t, conn)
		if env.T == want {
			return env
		}
	}
	t.Fatalf("no %s message", want)
	return protocol.InEnvelope{}
}

// readFrame skips text messages until a snapshot frame arrives.
func readFrame(t *testing.T, conn *websocket.Conn) game.State {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	for {
		msgType, raw, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("read WS: %v", err)
		}
		if msgType != websocket.BinaryMessage {
			continue
		}
		s, err := protocol.DecodeFrame(raw)
		if err != nil {
			t.Fatalf("decode frame: %v", err)
		}
		return s
	}
}

// createSession creates a session on conn and returns its ID.
func createSession(t *testing.T, conn *websocket.Conn) protocol.CreatedMsg {
	t.Helper()
	sendMsg(t, conn, protocol.MsgCreate, protocol.CreateMsg{})
	env := readText(t, conn)
	if env.T != protocol.MsgCreated {
		t.Fatalf("expected created, got %s (%s)", env.T, env.D)
	}
	created, err := protocol.DecodePayload[protocol.CreatedMsg](env)
	if err != nil {
		t.Fatal(err)
	}
	return created
}

// ---------- tests ----------

func TestCreateStreamsFrames(t *testing.T) {
	ts := startTestServer(t, "", nil)
	conn := dialWS(t, ts.wsURL)
	created := createSession(t, conn)

	if created.SID == "" || created.Pair != "/pair/"+created.SID+".png" {
		t.Errorf("unexpected created reply %+v", created)
	}
	s := readFrame(t, conn)
	if s.WorldW != 3000 || s.WorldH != 3000 {
		t.Errorf("unexpected world size %vx%v", s.WorldW, s.WorldH)
	}
	if !s.Player.Alive || s.HUD.Health != 100 {
		t.Errorf("fresh run should have a healthy player: %+v", s.HUD)
	}
}

func TestSPAIndexForSessionPath(t *testing.T) {
	ts := startTestServer(t, "", nil)
	resp, err := http.Get(ts.srv.URL + "/123e4567-e89b-42d3-a456-426614174000")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK || !strings.Contains(string(body), "test") {
		t.Errorf("expected index.html, got %d %q", resp.StatusCode, body)
	}
}

func TestBinaryInputFires(t *testing.T) {
	ts := startTestServer(t, "", nil)
	conn := dialWS(t, ts.wsURL)
	createSession(t, conn)

	msg := protocol.EncodeInput(900, 360, 1<<uint(game.Fire))
	if err := conn.WriteMessage(websocket.BinaryMessage, msg); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 500; i++ {
		env := readUntil(t, conn, protocol.MsgEvent)
		ev, err := protocol.DecodePayload[game.Event](env)
		if err != nil {
			t.Fatal(err)
		}
		if ev.Kind == game.EventShot {
			return
		}
	}
	t.Fatal("binary fire input never produced a shot")
}

func TestJoinAndCheck(t *testing.T) {
	ts := startTestServer(t, "", nil)
	host := dialWS(t, ts.wsURL)
	created := createSession(t, host)

	other := dialWS(t, ts.wsURL)
	sendMsg(t, other, protocol.MsgJoin, protocol.JoinMsg{SID: "nope"})
	if env := readText(t, other); env.T != protocol.MsgError {
		t.Errorf("joining unknown session should fail, got %s", env.T)
	}

	sendMsg(t, other, protocol.MsgJoin, protocol.JoinMsg{SID: created.SID})
	if env := readText(t, other); env.T != protocol.MsgJoined {
		t.Fatalf("expected joined, got %s", env.T)
	}

	sendMsg(t, other, protocol.MsgCheck, protocol.CheckMsg{SID: created.SID})
	checked, _ := protocol.DecodePayload[protocol.CheckedMsg](readUntil(t, other, protocol.MsgChecked))
	if !checked.Exists || checked.Viewers != 2 {
		t.Errorf("expected 2 viewers, got %+v", checked)
	}

	sendMsg(t, other, protocol.MsgCheck, protocol.CheckMsg{SID: "missing"})
	checked, _ = protocol.DecodePayload[protocol.CheckedMsg](readUntil(t, other, protocol.MsgChecked))
	if checked.Exists {
		t.Error("missing session should not exist")
	}
}

func TestGuardedCreate(t *testing.T) {
	ts := startTestServer(t, "hunter2", nil)
	conn := dialWS(t, ts.wsURL)

	sendMsg(t, conn, protocol.MsgCreate, protocol.CreateMsg{Pass: "wrong"})
	if env := readText(t, conn); env.T != protocol.MsgError {
		t.Fatalf("wrong pass should be refused, got %s", env.T)
	}
	if ts.hub.sessions.Count() != 0 {
		t.Error("no session should be created")
	}

	sendMsg(t, conn, protocol.MsgCreate, protocol.CreateMsg{Pass: "hunter2"})
	if env := readText(t, conn); env.T != protocol.MsgCreated {
		t.Fatalf("expected created, got %s", env.T)
	}
}

func TestPairingController(t *testing.T) {
	ts := startTestServer(t, "", nil)
	host := dialWS(t, ts.wsURL)
	created := createSession(t, host)

	resp, err := http.Get(ts.srv.URL + created.Pair)
	if err != nil {
		t.Fatal(err)
	}
	png, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK || resp.Header.Get("Content-Type") != "image/png" {
		t.Fatalf("expected a png, got %d %s", resp.StatusCode, resp.Header.Get("Content-Type"))
	}
	if !bytes.HasPrefix(png, []byte("\x89PNG")) {
		t.Error("pairing image is not a png")
	}

	resp, err = http.Get(ts.srv.URL + "/pair/unknown.png")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("unknown session should 404, got %d", resp.StatusCode)
	}

	phone := dialWS(t, ts.wsURL)
	other, _ := ts.hub.auth.IssueControlToken("another-session")
	sendMsg(t, phone, protocol.MsgControl, protocol.ControlMsg{SID: created.SID, Token: other})
	if env := readText(t, phone); env.T != protocol.MsgError {
		t.Errorf("token for another session should be refused, got %s", env.T)
	}

	token, _ := ts.hub.auth.IssueControlToken(created.SID)
	sendMsg(t, phone, protocol.MsgControl, protocol.ControlMsg{SID: created.SID, Token: token})
	readUntil(t, phone, protocol.MsgControlOK)
	readUntil(t, host, protocol.MsgCtrlOn)

	phone.Close()
	readUntil(t, host, protocol.MsgCtrlOff)
}

func TestRunsEndpoint(t *testing.T) {
	ts := startTestServer(t, "", nil)
	resp, err := http.Get(ts.srv.URL + "/api/runs")
	if err != nil {
		t.Fatal(err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if strings.TrimSpace(string(body)) != "[]" {
		t.Errorf("expected empty list without a database, got %s", body)
	}

	db, err := store.OpenDB(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	db.RecordRun(store.Run{Session: "s1", Score: 700, Seconds: 50, Level: 2, Seed: 4, EndedAt: time.Now()})

	ts = startTestServer(t, "", db)
	resp, err = http.Get(ts.srv.URL + "/api/runs?limit=5")
	if err != nil {
		t.Fatal(err)
	}
	var runs []store.Run
	json.NewDecoder(resp.Body).Decode(&runs)
	resp.Body.Close()
	if len(runs) != 1 || runs[0].Score != 700 || runs[0].Seed != 4 {
		t.Errorf("unexpected runs %+v", runs)
	}
}

func TestSessionsEndpoint(t *testing.T) {
	ts := startTestServer(t, "", nil)
	conn := dialWS(t, ts.wsURL)
	created := createSession(t, conn)

	resp, err := http.Get(ts.srv.URL + "/api/sessions")
	if err != nil {
		t.Fatal(err)
	}
	var list []protocol.SessionInfo
	json.NewDecoder(resp.Body).Decode(&list)
	resp.Body.Close()
	if len(list) != 1 || list[0].ID != created.SID {
		t.Errorf("unexpected session list %+v", list)
	}
}
