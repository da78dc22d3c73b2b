package models

import (
	"bytes"
	"encoding/json"
)

// UnmarshalJSON accepts both URL strings (the aggregator's format) and
// booleans (what the enrollment widget hands over for freshly linked
// accounts). true becomes a non-empty placeholder so capability checks work.
func (l *AccountLinks) UnmarshalJSON(b []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	fields := map[string]*string{
		"self":         &l.Self,
		"details":      &l.Details,
		"balances":     &l.Balances,
		"transactions": &l.Transactions,
	}

	for name, dst := range fields {
		v, ok := raw[name]
		if !ok {
			continue
		}
		s, err := linkValue(name, v)
		if err != nil {
			return err
		}
		*dst = s
	}
	return nil
}

func linkValue(name string, v json.RawMessage) (string, error) {
	v = bytes.TrimSpace(v)
	switch {
	case bytes.Equal(v, []byte("null")), bytes.Equal(v, []byte("false")):
		return "", nil
	case bytes.Equal(v, []byte("true")):
		return name, nil
	}

	var s string
	if err := json.Unmarshal(v, &s); err != nil {
		return "", err
	}
	return s, nil
}
