package gateway

import (
	"encoding/json"
	"fmt"
	"io"
)

// Pagination is backend-derived response metadata, consumed read-only.
type Pagination struct {
	Total           int  `json:"total"`
	CurrentPage     int  `json:"currentPage"`
	PageSize        int  `json:"pageSize"`
	TotalPage       int  `json:"totalPage"`
	HasNextPage     bool `json:"hasNextPage"`
	HasPreviousPage bool `json:"hasPreviousPage"`
}

// Metadata accompanies listing payloads.
type Metadata struct {
	Pagination *Pagination     `json:"pagination,omitempty"`
	Filters    json.RawMessage `json:"filters,omitempty"`
	Sorting    json.RawMessage `json:"sorting,omitempty"`
}

// envelope is the transport wrapper for single payloads. Callers never see
// it: the gateway unwraps data before returning.
type envelope struct {
	Data json.RawMessage `json:"data"`
}

type listEnvelope struct {
	Data     json.RawMessage `json:"data"`
	Metadata *Metadata       `json:"metadata,omitempty"`
}

// errorBody is the backend's failure shape.
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func unwrap(r io.Reader, out any) error {
	// listEnvelope consumers decode through GetList; everything else gets
	// the single {data} unwrap. A raw target of *listEnvelope skips it.
	if le, ok := out.(*listEnvelope); ok {
		return json.NewDecoder(r).Decode(le)
	}
	var env envelope
	if err := json.NewDecoder(r).Decode(&env); err != nil {
		return err
	}
	if len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("payload shape mismatch: %w", err)
	}
	return nil
}

func readErrorMessage(r io.Reader) string {
	var body errorBody
	if err := json.NewDecoder(r).Decode(&body); err != nil {
		return "request failed"
	}
	if body.Message != "" {
		return body.Message
	}
	if body.Error != "" {
		return body.Error
	}
	return "request failed"
}
