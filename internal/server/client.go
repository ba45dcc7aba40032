package server

import (
	"encoding/json"
	"log"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Fresh4774/aquin-offline-arcade/internal/protocol"
)

const (
	writeWait         = 10 * time.Second
	pongWait          = 60 * time.Second
	pingPeriod        = (pongWait * 9) / 10
	maxMessageSize    = 4096
	sendBufSize       = 256
	maxMessagesPerSec = 90
	binaryMarker      = 0xFF
)

// Client represents a WebSocket connection. It is a viewer of at most one
// session, or that session's controller.
type Client struct {
	hub          *Hub
	conn         *websocket.Conn
	send         chan []byte
	session      *Session
	remoteAddr   string
	isController bool
	msgCount     int
	msgResetAt   time.Time
}

// NewClient creates a new Client
func NewClient(hub *Hub, conn *websocket.Conn, remoteAddr string) *Client {
	return &Client{
		hub:        hub,
		conn:       conn,
		send:       make(chan []byte, sendBufSize),
		remoteAddr: remoteAddr,
	}
}

// ReadPump reads messages from the WebSocket connection
func (c *Client) ReadPump() {
	defer func() {
		c.detach()
		c.hub.TrackDisconnect(c.remoteAddr)
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		msgType, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("ws error: %v", err)
			}
			break
		}

		// Rate limiting
		now := time.Now()
		if now.After(c.msgResetAt) {
			c.msgCount = 0
			c.msgResetAt = now.Add(time.Second)
		}
		c.msgCount++
		if c.msgCount > maxMessagesPerSec {
			log.Printf("rate limit exceeded for %s, disconnecting", c.remoteAddr)
			break
		}

		if msgType == websocket.BinaryMessage {
			if in, ok := protocol.DecodeInput(message); ok {
				c.handleBinaryInput(in)
			}
			continue
		}
		c.handleMessage(message)
	}
}

// WritePump writes messages to the WebSocket connection
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			var err error
			if len(message) > 0 && message[0] == binaryMarker {
				err = c.conn.WriteMessage(websocket.BinaryMessage, message[1:])
			} else {
				err = c.conn.WriteMessage(websocket.TextMessage, message)
			}
			if err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// SendJSON sends a JSON message to the client
func (c *Client) SendJSON(msg interface{}) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("marshal error: %v", err)
		return
	}
	c.SendRaw(data)
}

// SendRaw sends pre-marshaled bytes as a text message to the client
func (c *Client) SendRaw(data []byte) {
	defer func() { recover() }()
	select {
	case c.send <- data:
	default:
		// Client too slow, drop message
	}
}

// SendBinary sends pre-marshaled bytes as a binary WebSocket message.
// The marker byte tells WritePump to strip it and send a binary frame.
func (c *Client) SendBinary(data []byte) {
	defer func() { recover() }()
	msg := make([]byte, len(data)+1)
	msg[0] = binaryMarker
	copy(msg[1:], data)
	select {
	case c.send <- msg:
	default:
	}
}

func (c *Client) sendError(msg string) {
	c.SendJSON(protocol.Envelope{T: protocol.MsgError, Data: protocol.ErrorMsg{Msg: msg}})
}

// handleMessage routes incoming messages (single-pass decode via InEnvelope)
func (c *Client) handleMessage(raw []byte) {
	env, err := protocol.DecodeEnvelope(raw)
	if err != nil {
		log.Printf("unmarshal error: %v", err)
		return
	}

	switch env.T {
	case protocol.MsgCreate:
		c.handleCreate(env)
	case protocol.MsgJoin:
		c.handleJoin(env)
	case protocol.MsgControl:
		c.handleControl(env)
	case protocol.MsgInput:
		c.handleInput(env)
	case protocol.MsgReset:
		c.handleReset()
	case protocol.MsgViewport:
		c.handleViewport(env)
	case protocol.MsgCheck:
		c.handleCheck(env)
	case protocol.MsgLeave:
		c.detach()
	}
}

func (c *Client) handleCreate(env protocol.InEnvelope) {
	var msg protocol.CreateMsg
	if len(env.D) > 0 {
		if err := json.Unmarshal(env.D, &msg); err != nil {
			return
		}
	}
	if err := c.hub.auth.CheckPass(msg.Pass, c.remoteAddr); err != nil {
		c.sendError(err.Error())
		return
	}

	sess := c.hub.sessions.CreateSession()
	if sess == nil {
		c.sendError("too many active sessions")
		return
	}
	c.detach()
	c.SendJSON(protocol.Envelope{T: protocol.MsgCreated, Data: protocol.CreatedMsg{
		SID:  sess.ID,
		Seed: sess.Runner.Seed(),
		Pair: "/pair/" + sess.ID + ".png",
	}})
	c.session = sess
	sess.Runner.Attach(c)
}

func (c *Client) handleJoin(env protocol.InEnvelope) {
	msg, err := protocol.DecodePayload[protocol.JoinMsg](env)
	if err != nil {
		return
	}
	if err := c.hub.auth.CheckPass(msg.Pass, c.remoteAddr); err != nil {
		c.sendError(err.Error())
		return
	}
	sess := c.hub.sessions.GetSession(msg.SID)
	if sess == nil {
		c.sendError("session not found")
		return
	}
	c.detach()
	c.SendJSON(protocol.Envelope{T: protocol.MsgJoined, Data: map[string]string{"sid": sess.ID}})
	c.session = sess
	sess.Runner.Attach(c)
}

func (c *Client) handleControl(env protocol.InEnvelope) {
	msg, err := protocol.DecodePayload[protocol.ControlMsg](env)
	if err != nil {
		return
	}
	sid, err := c.hub.auth.ValidateControlToken(msg.Token)
	if err != nil || sid != msg.SID {
		c.sendError("invalid controller token")
		return
	}
	sess := c.hub.sessions.GetSession(sid)
	if sess == nil {
		c.sendError("session not found")
		return
	}
	c.detach()
	c.SendJSON(protocol.Envelope{T: protocol.MsgControlOK, Data: map[string]string{"sid": sid}})
	c.session = sess
	c.isController = true
	sess.Runner.SetController(c)
}

// handleBinaryInput applies a compact 8-byte input message
func (c *Client) handleBinaryInput(in protocol.Input) {
	if c.session == nil {
		return
	}
	c.session.Runner.SetInput(float64(in.X), float64(in.Y), in.Bits)
}

func (c *Client) handleInput(env protocol.InEnvelope) {
	if c.session == nil {
		return
	}
	msg, err := protocol.DecodePayload[protocol.InputMsg](env)
	if err != nil {
		return
	}
	c.session.Runner.SetInput(msg.PX, msg.PY, msg.Actions())
}

func (c *Client) handleReset() {
	if c.session == nil {
		return
	}
	c.session.Runner.RequestReset()
}

func (c *Client) handleViewport(env protocol.InEnvelope) {
	if c.session == nil || c.isController {
		return
	}
	msg, err := protocol.DecodePayload[protocol.ViewportMsg](env)
	if err != nil {
		return
	}
	c.session.Runner.SetViewport(msg.W, msg.H)
}

func (c *Client) handleCheck(env protocol.InEnvelope) {
	msg, err := protocol.DecodePayload[protocol.CheckMsg](env)
	if err != nil {
		return
	}
	sess := c.hub.sessions.GetSession(msg.SID)
	if sess == nil {
		c.SendJSON(protocol.Envelope{T: protocol.MsgChecked, Data: protocol.CheckedMsg{SID: msg.SID, Exists: false}})
		return
	}
	info := sess.Runner.Status()
	c.SendJSON(protocol.Envelope{T: protocol.MsgChecked, Data: protocol.CheckedMsg{
		SID:        msg.SID,
		Exists:     true,
		Viewers:    info.Viewers,
		Controller: sess.Runner.HasController(),
		Score:      info.Score,
		Seconds:    sess.Runner.Seconds(),
	}})
}

// detach leaves the current session, if any
func (c *Client) detach() {
	if c.session == nil {
		return
	}
	c.session.Runner.Detach(c)
	c.session = nil
	c.isController = false
}
