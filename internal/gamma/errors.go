package gamma

import "errors"

var (
	// ErrNetwork marks failures reaching the Gamma API: transport errors,
	// truncated bodies and non-200 responses.
	ErrNetwork = errors.New("gamma: network error")

	// ErrDataFormat marks responses that do not match the market schema.
	ErrDataFormat = errors.New("gamma: data format error")
)
