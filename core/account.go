package core

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx/types"
	"github.com/shopspring/decimal"
)

// AccountSnapshot account value recorded at some point in time
type AccountSnapshot struct {
	ID         int64           `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id,omitempty"`
	Account    string          `sql:"size:128;index:idx_account_values_account" json:"account,omitempty"`
	BaseAsset  string          `sql:"size:160" json:"base_asset,omitempty"`
	TotalValue decimal.Decimal `sql:"type:decimal(64,0)" json:"total_value,omitempty"`
	Breakdown  types.JSONText  `sql:"type:TEXT" json:"breakdown,omitempty"`
	CreatedAt  time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"created_at,omitempty"`
}

// TableName gorm table name
func (AccountSnapshot) TableName() string {
	return "account_values"
}

// IAccountSnapshotStore account snapshot store interface
type IAccountSnapshotStore interface {
	Save(ctx context.Context, snapshot *AccountSnapshot) error
	// List snapshots of the account with id greater than fromID
	List(ctx context.Context, account string, fromID int64, limit int) ([]*AccountSnapshot, error)
	DeleteByTime(ctx context.Context, t time.Time) error
}
