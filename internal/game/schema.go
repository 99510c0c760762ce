package game

import (
	"encoding/json"
	"fmt"
)

// SchemaVersion is the save schema this engine reads and writes. Older
// versions are adapted at the boundary; the engine itself only ever sees the
// current struct.
const SchemaVersion = 2

// saveV1 predates founder share accounting: ownership was stored as a
// fraction rather than a share count.
type saveV1 struct {
	GameState
	FounderBps int32 `json:"founder_bps"`
}

// Decode parses a persisted state, migrating known prior versions and
// rejecting unknown ones.
func Decode(raw []byte) (*GameState, error) {
	var probe struct {
		SchemaVersion int `json:"schema_version"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, fmt.Errorf("decode save: %w", err)
	}
	switch probe.SchemaVersion {
	case SchemaVersion:
		var st GameState
		if err := json.Unmarshal(raw, &st); err != nil {
			return nil, fmt.Errorf("decode save: %w", err)
		}
		return &st, nil
	case 1:
		var v1 saveV1
		if err := json.Unmarshal(raw, &v1); err != nil {
			return nil, fmt.Errorf("decode save v1: %w", err)
		}
		st := v1.GameState
		st.SchemaVersion = SchemaVersion
		if st.FounderShares == 0 && st.SharesOut > 0 {
			st.FounderShares = st.SharesOut * int64(v1.FounderBps) / BpsScale
		}
		return &st, nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrSchemaVersion, probe.SchemaVersion)
	}
}

// Encode serializes a state at the current schema version.
func Encode(st *GameState) ([]byte, error) {
	st.SchemaVersion = SchemaVersion
	return json.Marshal(st)
}
