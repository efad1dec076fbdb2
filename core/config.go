package core

import (
	"github.com/asaskevich/govalidator"
	"github.com/fox-one/pkg/store/db"
)

// Config oracle config
type Config struct {
	DB       db.Config `json:"db"`
	Chain    Chain     `json:"chain"`
	Registry Registry  `json:"registry"`
	Oracle   Oracle    `json:"oracle"`
	Worker   Worker    `json:"worker"`
	Admins   []string  `json:"admins"`
}

// IsAdmin check if the user is admin
func (c *Config) IsAdmin(userID string) bool {
	return govalidator.IsIn(userID, c.Admins...)
}

// Chain chain lcd config
type Chain struct {
	EndPoint string `json:"end_point"`
	// Timeout request timeout in seconds
	Timeout int64 `json:"timeout"`
	// CacheTTL seconds a queried balance is reused, 0 disables caching
	CacheTTL int64 `json:"cache_ttl"`
}

// Registry asset registry config
type Registry struct {
	// File yaml file with assets and pools
	File string `json:"file"`
}

// Oracle oracle config
type Oracle struct {
	// Account default account valued by the oracle
	Account string `json:"account"`
	// Store sql or memory
	Store string `json:"store"`
	// Assets registered at startup when the store is memory
	Assets []*AssetConfig `json:"assets"`
}

// Worker worker config
type Worker struct {
	// Schedule cron spec of the valuation worker
	Schedule string   `json:"schedule"`
	Location string   `json:"location"`
	Accounts []string `json:"accounts"`
	// Retention days account snapshots are kept
	Retention int `json:"retention"`
}

const (
	// StoreSQL relational store
	StoreSQL = "sql"
	// StoreMemory in memory kv store
	StoreMemory = "memory"
)
