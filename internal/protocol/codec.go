package protocol

import (
	"encoding/json"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/Fresh4774/aquin-offline-arcade/internal/game"
)

// Binary input messages: 8 bytes [0x01, px_hi, px_lo, py_hi, py_lo, bits, 0, 0]
const (
	InputMarker = 0x01
	InputLen    = 8
)

// Input is a decoded binary input message. X/Y are screen coordinates.
type Input struct {
	X, Y int16
	Bits uint8
}

// Encode marshals a JSON envelope for t
func Encode(t string, payload any) ([]byte, error) {
	if t == "" {
		return nil, fmt.Errorf("encode envelope: empty type")
	}
	return json.Marshal(Envelope{T: t, Data: payload})
}

// DecodeEnvelope reads the type of an incoming message
func DecodeEnvelope(b []byte) (InEnvelope, error) {
	if len(b) == 0 {
		return InEnvelope{}, fmt.Errorf("decode envelope: empty message")
	}
	var env InEnvelope
	if err := json.Unmarshal(b, &env); err != nil {
		return InEnvelope{}, fmt.Errorf("decode envelope: %w", err)
	}
	return env, nil
}

// DecodePayload unmarshals the body of env into T
func DecodePayload[T any](env InEnvelope) (T, error) {
	var out T
	if len(env.D) == 0 {
		return out, fmt.Errorf("empty payload for type %q", env.T)
	}
	err := json.Unmarshal(env.D, &out)
	return out, err
}

// EncodeFrame packs a world snapshot for a binary websocket frame
func EncodeFrame(s *game.State) ([]byte, error) {
	return msgpack.Marshal(s)
}

// DecodeFrame is the inverse of EncodeFrame
func DecodeFrame(b []byte) (game.State, error) {
	var s game.State
	if err := msgpack.Unmarshal(b, &s); err != nil {
		return game.State{}, fmt.Errorf("decode frame: %w", err)
	}
	return s, nil
}

// EncodeInput packs a pointer and held-action bits into a binary input message.
// Coordinates outside the int16 range are clamped.
func EncodeInput(px, py float64, bits uint8) []byte {
	x, y := clampInt16(px), clampInt16(py)
	return []byte{
		InputMarker,
		byte(uint16(x) >> 8), byte(uint16(x)),
		byte(uint16(y) >> 8), byte(uint16(y)),
		bits,
		0, 0,
	}
}

// DecodeInput decodes a binary input message. ok is false for anything that
// is not exactly InputLen bytes with the input marker.
func DecodeInput(msg []byte) (in Input, ok bool) {
	if len(msg) != InputLen || msg[0] != InputMarker {
		return Input{}, false
	}
	in.X = int16(uint16(msg[1])<<8 | uint16(msg[2]))
	in.Y = int16(uint16(msg[3])<<8 | uint16(msg[4]))
	in.Bits = msg[5]
	return in, true
}

func clampInt16(v float64) int16 {
	if v > 32767 {
		return 32767
	}
	if v < -32768 {
		return -32768
	}
	return int16(v)
}
