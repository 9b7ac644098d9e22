package model

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

type CommandStatus string

const (
	CommandPending  CommandStatus = "pending"
	CommandExecuted CommandStatus = "executed"
	CommandFailed   CommandStatus = "failed"
)

// Terminal reports whether no further transition is allowed.
func (s CommandStatus) Terminal() bool {
	return s == CommandExecuted || s == CommandFailed
}

// PlayerCommand is a remote-control instruction queued for one device.
type PlayerCommand struct {
	ID         string        `db:"id"          json:"id"`
	DeviceID   int           `db:"device_id"   json:"deviceId"`
	Command    string        `db:"command"     json:"command"`
	Params     Params        `db:"params"      json:"params,omitempty"`
	Status     CommandStatus `db:"status"      json:"status"`
	Message    *string       `db:"message"     json:"message,omitempty"`
	CreatedAt  time.Time     `db:"created_at"  json:"createdAt"`
	ExecutedAt *time.Time    `db:"executed_at" json:"executedAt,omitempty"`
}

// Params is an opaque JSON document attached to a command. A nil Params is
// stored as SQL NULL and omitted from responses.
type Params json.RawMessage

func (p Params) Value() (driver.Value, error) {
	if len(p) == 0 {
		return nil, nil
	}
	return []byte(p), nil
}

func (p *Params) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*p = nil
	case []byte:
		*p = append(Params(nil), v...)
	case string:
		*p = Params(v)
	default:
		return fmt.Errorf("params: unsupported scan type %T", src)
	}
	return nil
}

func (p Params) MarshalJSON() ([]byte, error) {
	if len(p) == 0 {
		return []byte("null"), nil
	}
	return []byte(p), nil
}

func (p *Params) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*p = nil
		return nil
	}
	*p = append((*p)[:0], data...)
	return nil
}
