package cmd

import (
	"context"
	"time"

	"oracle/core"
	"oracle/service/chain"
	oracleservice "oracle/service/oracle"
	"oracle/service/registry"
	"oracle/store/oracle"
	"oracle/store/snapshot"

	"github.com/fox-one/pkg/property"
	"github.com/fox-one/pkg/store/db"
	propertystore "github.com/fox-one/pkg/store/property"
)

func provideDatabase() *db.DB {
	return db.MustOpen(cfg.DB)
}

func provideConfig() *core.Config {
	return &cfg
}

// ---------------store-----------------------------------------

func provideOracleStore(database func() *db.DB) core.OracleStore {
	if cfg.Oracle.Store == core.StoreMemory {
		return oracle.NewMemory()
	}

	return oracle.New(database())
}

func providePropertyStore(db *db.DB) property.Store {
	return propertystore.New(db)
}

func provideSnapshotStore(db *db.DB) core.IAccountSnapshotStore {
	return snapshot.New(db)
}

// ------------------service------------------------------------

func provideRegistry() core.IAssetRegistry {
	r, err := registry.Load(cfg.Registry.File)
	if err != nil {
		panic(err)
	}

	return r
}

func provideBalanceReader() core.IBalanceReader {
	return chain.Cache(chain.New(cfg.Chain), time.Duration(cfg.Chain.CacheTTL)*time.Second)
}

func provideOracleService(ctx context.Context, store core.OracleStore) core.IOracleService {
	s := oracleservice.New(store, provideRegistry(), provideBalanceReader())

	if cfg.Oracle.Store == core.StoreMemory && len(cfg.Oracle.Assets) > 0 {
		if err := s.UpdateAssets(ctx, cfg.Oracle.Assets, nil); err != nil {
			panic(err)
		}
	}

	return s
}
