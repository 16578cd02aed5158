package resource

import (
	"bytes"
	"encoding/json"

	"github.com/example/admin-dashboard/internal/readmodel"
	"github.com/pkg/errors"
)

// Decoder turns a raw response body into a collection
type Decoder[T any] func(body []byte) ([]T, error)

// DecodeArray expects the body to be a bare JSON array
func DecodeArray[T any](body []byte) ([]T, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, errors.New("expected a JSON array")
	}

	var items []T
	if err := json.Unmarshal(trimmed, &items); err != nil {
		return nil, errors.Wrap(err, "decode array")
	}
	return items, nil
}

// DecodeEnvelope expects {"success": true, "data": [...]} and unwraps data
func DecodeEnvelope[T any](body []byte) ([]T, error) {
	var env readmodel.MedicineEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, errors.Wrap(err, "decode envelope")
	}
	if env.Success == nil {
		return nil, errors.New("envelope has no success flag")
	}
	if !*env.Success {
		return nil, errors.New("envelope reports success=false")
	}
	if len(env.Data) == 0 {
		return nil, errors.New("envelope has no data")
	}

	items, err := DecodeArray[T](env.Data)
	if err != nil {
		return nil, errors.Wrap(err, "envelope data")
	}
	return items, nil
}
