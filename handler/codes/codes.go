package codes

import (
	"errors"
	"net/http"

	"oracle/core"
)

const (
	// InvalidArguments invalid arguments
	InvalidArguments = 100001
)

// Get get the error code and http status of err
func Get(err error) (int, int) {
	var code core.ErrorCode
	if !errors.As(err, &code) {
		return int(core.ErrUnknown), http.StatusInternalServerError
	}

	switch code {
	case core.ErrUnknownAsset:
		return int(code), http.StatusNotFound
	case core.ErrCorruptState, core.ErrUnknown:
		return int(code), http.StatusInternalServerError
	default:
		return int(code), http.StatusBadRequest
	}
}
