package core

import "strconv"

// ErrorCode int
type ErrorCode int

const (
	// ErrUnknown unkown
	ErrUnknown ErrorCode = 100000
	// ErrInvalidAmount invalid amount
	ErrInvalidAmount ErrorCode = 100101
	// ErrInvalidPrice invalid price
	ErrInvalidPrice ErrorCode = 100108

	// ErrCapacityExceeded oracle list size limit exceeded
	ErrCapacityExceeded ErrorCode = 100200
	// ErrUnknownAsset asset not registered
	ErrUnknownAsset ErrorCode = 100201
	// ErrDuplicateAsset asset already registered
	ErrDuplicateAsset ErrorCode = 100202
	// ErrInvalidPriceSource price source failed its check
	ErrInvalidPriceSource ErrorCode = 100203
	// ErrValidationFailed oracle configuration is inconsistent
	ErrValidationFailed ErrorCode = 100204
	// ErrCorruptState valuation invariants violated
	ErrCorruptState ErrorCode = 100205
)

var errorMessages = map[ErrorCode]string{
	ErrUnknown:            "unknown error",
	ErrInvalidAmount:      "invalid amount",
	ErrInvalidPrice:       "invalid price",
	ErrCapacityExceeded:   "capacity exceeded",
	ErrUnknownAsset:       "unknown asset",
	ErrDuplicateAsset:     "duplicate asset",
	ErrInvalidPriceSource: "invalid price source",
	ErrValidationFailed:   "validation failed",
	ErrCorruptState:       "corrupt state",
}

func (e ErrorCode) String() string {
	return strconv.Itoa(int(e))
}

// Message human readable description of the code
func (e ErrorCode) Message() string {
	if msg, ok := errorMessages[e]; ok {
		return msg
	}

	return errorMessages[ErrUnknown]
}

func (e ErrorCode) Error() string {
	return e.Message()
}
