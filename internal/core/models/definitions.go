package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// DecodeDefinitions parses a definitions document keeping numbers verbatim.
func DecodeDefinitions(data []byte) (Definitions, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var defs Definitions
	if err := dec.Decode(&defs); err != nil {
		return nil, fmt.Errorf("failed to decode definitions: %w", err)
	}
	if defs == nil {
		defs = Definitions{}
	}
	return defs, nil
}
