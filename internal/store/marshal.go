package store

import (
	"fmt"

	"github.com/roach88/kitchen/internal/ir"
)

// marshalPayload converts an event payload to canonical JSON TEXT for
// storage, so identical payloads are byte-identical in the journal.
func marshalPayload(p ir.Object) (string, error) {
	if p == nil {
		p = ir.Object{}
	}
	data, err := ir.MarshalCanonical(p)
	if err != nil {
		return "", fmt.Errorf("marshal payload: %w", err)
	}
	return string(data), nil
}

// unmarshalPayload parses canonical JSON TEXT back to an Object.
func unmarshalPayload(data string) (ir.Object, error) {
	if data == "" || data == "{}" {
		return ir.Object{}, nil
	}
	obj, err := ir.UnmarshalObject([]byte(data))
	if err != nil {
		return nil, fmt.Errorf("unmarshal payload: %w", err)
	}
	return obj, nil
}
