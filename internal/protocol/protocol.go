// Package protocol defines the messages exchanged between the remote host
// and its browser or phone clients.
package protocol

import (
	"encoding/json"

	"github.com/Fresh4774/aquin-offline-arcade/internal/game"
)

// Client -> Server message types
const (
	MsgCreate   = "create"   // start a session and watch it
	MsgJoin     = "join"     // watch an existing session
	MsgLeave    = "leave"    // stop watching or controlling
	MsgInput    = "input"    // held actions and pointer
	MsgReset    = "reset"    // restart the run at the next tick
	MsgViewport = "viewport" // viewer's canvas size
	MsgCheck    = "check"    // check if session exists
	MsgControl  = "control"  // phone controller attach
)

// Server -> Client message types
const (
	MsgCreated   = "created"
	MsgJoined    = "joined"
	MsgEvent     = "event" // HUD or sound cue from the world
	MsgError     = "error"
	MsgChecked   = "checked"
	MsgControlOK = "control_ok"
	MsgCtrlOn    = "ctrl_on"  // notify viewers: controller attached
	MsgCtrlOff   = "ctrl_off" // notify viewers: controller detached
)

// Envelope wraps all outgoing messages with a type field
type Envelope struct {
	T    string      `json:"t"`
	Data interface{} `json:"d,omitempty"`
}

// InEnvelope is used for incoming messages. D stays raw until the type is known.
type InEnvelope struct {
	T string          `json:"t"`
	D json.RawMessage `json:"d,omitempty"`
}

// CreateMsg starts a session. Pass is checked when the host is guarded.
type CreateMsg struct {
	Pass string `json:"pass,omitempty"`
}

// CreatedMsg answers CreateMsg
type CreatedMsg struct {
	SID  string `json:"sid"`
	Seed uint32 `json:"seed"`
	Pair string `json:"pair"` // path of the controller pairing QR image
}

// JoinMsg attaches a viewer to a session
type JoinMsg struct {
	SID  string `json:"sid"`
	Pass string `json:"pass,omitempty"`
}

// InputMsg is the JSON form of a viewer's or controller's input.
// PX/PY are screen coordinates; A lists the held action names.
type InputMsg struct {
	PX float64  `json:"px"`
	PY float64  `json:"py"`
	A  []string `json:"a,omitempty"`
}

// ViewportMsg reports the viewer's canvas size in world units
type ViewportMsg struct {
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// ControlMsg is sent by a phone controller with the token from the pairing QR
type ControlMsg struct {
	SID   string `json:"sid"`
	Token string `json:"token"`
}

// CheckMsg is sent by client to check if a session exists
type CheckMsg struct {
	SID string `json:"sid"`
}

// CheckedMsg is the response to a session check
type CheckedMsg struct {
	SID        string `json:"sid"`
	Exists     bool   `json:"exists"`
	Viewers    int    `json:"viewers,omitempty"`
	Controller bool   `json:"ctl,omitempty"`
	Score      int    `json:"score,omitempty"`
	Seconds    int    `json:"secs,omitempty"`
}

// ErrorMsg sends error to client
type ErrorMsg struct {
	Msg string `json:"msg"`
}

// SessionInfo is used in the session list
type SessionInfo struct {
	ID      string `json:"id"`
	Viewers int    `json:"viewers"`
	Score   int    `json:"score"`
	Level   int    `json:"level"`
	Over    bool   `json:"over"`
}

// Actions converts held action names into the packed bit form used by
// game.InputState. Unknown names are ignored.
func (m InputMsg) Actions() uint8 {
	var bits uint8
	for _, name := range m.A {
		if a, ok := game.ParseAction(name); ok {
			bits |= 1 << uint(a)
		}
	}
	return bits
}
