package id

import (
	"github.com/gofrs/uuid"
)

// GenTraceID new normal traceID
func GenTraceID() string {
	return uuid.Must(uuid.NewV4()).String()
}

// TraceIDFrom derives a stable traceID from text
func TraceIDFrom(text string) string {
	return uuid.NewV5(uuid.NamespaceOID, text).String()
}
