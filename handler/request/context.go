package request

import (
	"context"
)

type key int

const (
	adminKey key = iota
)

// ContextX context extension
type ContextX struct {
	context.Context
}

// NewContext context extension
func NewContext(ctx context.Context) ContextX {
	return ContextX{
		Context: ctx,
	}
}

// WithAdmin context with the authenticated admin token
func (c ContextX) WithAdmin(token string) context.Context {
	return context.WithValue(c, adminKey, token)
}

// IsAdmin whether the request is authenticated as admin
func (c ContextX) IsAdmin() bool {
	token, ok := c.Value(adminKey).(string)
	return ok && token != ""
}
