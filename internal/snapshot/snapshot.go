// Package snapshot defines the per-actor save record and the store that
// buffers records in memory until an explicit flush.
package snapshot

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Flag is a boolean that also decodes from "true"/"false" strings and numbers.
// Older records wrote alive as a string.
type Flag bool

// UnmarshalJSON implements json.Unmarshaler.
func (f *Flag) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return errors.New("snapshot: null flag")
	}

	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		*f = Flag(b)
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		v, err := strconv.ParseBool(strings.TrimSpace(s))
		if err != nil {
			return fmt.Errorf("snapshot: invalid flag %q", s)
		}
		*f = Flag(v)
		return nil
	}

	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		*f = n != 0
		return nil
	}

	return fmt.Errorf("snapshot: invalid flag %s", data)
}

// Position is the actor's top-left corner in world units.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Stats holds the persisted vitals.
type Stats struct {
	Speed  float64 `json:"speed"`
	Health int     `json:"health"`
}

// Snapshot is the persisted record of one actor.
type Snapshot struct {
	Alive    Flag     `json:"alive" jsonschema:"description=false once the actor has died"`
	ID       string   `json:"id" jsonschema:"description=actor id and storage key"`
	Position Position `json:"position"`
	Stats    Stats    `json:"stats"`
}

// Encode returns the record as indented JSON.
func (s Snapshot) Encode() ([]byte, error) {
	return json.MarshalIndent(s, "", "    ")
}

// Record is a partially decoded snapshot. Nil fields were missing or unreadable.
type Record struct {
	Alive  *bool
	ID     *string
	X, Y   *float64
	Speed  *float64
	Health *int
}

// ErrNotObject is returned by Decode when the document is not a JSON object.
var ErrNotObject = errors.New("snapshot: record is not a JSON object")

// Decode reads a snapshot document field by field. A field that is missing
// or has the wrong type is left nil; only a document that is not an object
// at all is an error.
func Decode(data []byte) (Record, error) {
	var rec Record

	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil || top == nil {
		return rec, ErrNotObject
	}

	if raw, ok := top["alive"]; ok {
		var f Flag
		if f.UnmarshalJSON(raw) == nil {
			v := bool(f)
			rec.Alive = &v
		}
	}
	if raw, ok := top["id"]; ok {
		var id string
		if string(raw) != "null" && json.Unmarshal(raw, &id) == nil {
			rec.ID = &id
		}
	}
	if raw, ok := top["position"]; ok {
		var pos map[string]json.RawMessage
		if json.Unmarshal(raw, &pos) == nil {
			rec.X = number(pos["x"])
			rec.Y = number(pos["y"])
		}
	}
	if raw, ok := top["stats"]; ok {
		var stats map[string]json.RawMessage
		if json.Unmarshal(raw, &stats) == nil {
			rec.Speed = number(stats["speed"])
			if h := number(stats["health"]); h != nil {
				v := int(math.Max(math.Min(*h, math.MaxInt32), math.MinInt32))
				rec.Health = &v
			}
		}
	}

	return rec, nil
}

// number decodes a JSON number or numeric string. NaN, infinities and
// values outside the float64 range count as missing.
func number(raw json.RawMessage) *float64 {
	if raw == nil || string(raw) == "null" {
		return nil
	}
	var n float64
	if json.Unmarshal(raw, &n) == nil {
		return finite(n)
	}
	var s string
	if json.Unmarshal(raw, &s) == nil {
		if v, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			return finite(v)
		}
	}
	return nil
}

func finite(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// Present names the fields that were read successfully, in document order.
func (r Record) Present() []string {
	var fields []string
	if r.Alive != nil {
		fields = append(fields, "alive")
	}
	if r.ID != nil {
		fields = append(fields, "id")
	}
	if r.X != nil {
		fields = append(fields, "position.x")
	}
	if r.Y != nil {
		fields = append(fields, "position.y")
	}
	if r.Speed != nil {
		fields = append(fields, "stats.speed")
	}
	if r.Health != nil {
		fields = append(fields, "stats.health")
	}
	return fields
}

// Apply overlays the fields present in the record onto def.
func (r Record) Apply(def Snapshot) Snapshot {
	out := def
	if r.Alive != nil {
		out.Alive = Flag(*r.Alive)
	}
	if r.ID != nil {
		out.ID = *r.ID
	}
	if r.X != nil {
		out.Position.X = *r.X
	}
	if r.Y != nil {
		out.Position.Y = *r.Y
	}
	if r.Speed != nil {
		out.Stats.Speed = *r.Speed
	}
	if r.Health != nil {
		out.Stats.Health = *r.Health
	}
	return out
}
