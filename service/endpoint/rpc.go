package endpoint

import (
	"errors"
	"fmt"
)

// RPC provides an RPC endpoint string.
// It is an interface so that configs can provide richer endpoint
// types (e.g. with custom dial behavior) where needed.
type RPC interface {
	RPC() string
}

// URL is a generic RPC endpoint URL.
type URL string

var _ RPC = URL("")

func (u URL) RPC() string {
	return string(u)
}

// MustRPC forces the RPC URL string to be non-empty when decoding or encoding.
type MustRPC struct {
	Value RPC
}

func (u *MustRPC) UnmarshalText(data []byte) error {
	if u == nil {
		return fmt.Errorf("cannot unmarshal %q into nil MustRPC", string(data))
	}
	v := URL(data)
	if v == "" {
		return errors.New("empty RPC URL")
	}
	u.Value = v
	return nil
}

func (u MustRPC) MarshalText() ([]byte, error) {
	if u.Value == nil {
		return nil, errors.New("missing RPC")
	}
	out := u.Value.RPC()
	if out == "" {
		return nil, errors.New("missing RPC")
	}
	return []byte(out), nil
}
