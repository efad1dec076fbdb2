package oracle

import (
	"bytes"
	"context"
	"encoding/json"
	"sync"

	"oracle/core"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/database/memdb"
	"github.com/ava-labs/avalanchego/database/prefixdb"
	"github.com/ava-labs/avalanchego/database/versiondb"
)

var (
	// It's important to set different prefixes for each relation.
	configPrefix     = []byte("oracle_config")
	assetsPrefix     = []byte("assets")
	complexityPrefix = []byte("complexity")

	_ core.OracleStore = (*kvStore)(nil)
)

type kvStore struct {
	mu   *sync.Mutex
	inTx bool

	db        database.Database
	configDB  database.Database
	assetsDB  database.Database
	complexDB database.Database
}

// NewKV oracle store on top of a key value database
func NewKV(db database.Database) core.OracleStore {
	return newKVStore(db, &sync.Mutex{}, false)
}

// NewMemory in memory oracle store
func NewMemory() core.OracleStore {
	return NewKV(memdb.New())
}

func newKVStore(db database.Database, mu *sync.Mutex, inTx bool) *kvStore {
	return &kvStore{
		mu:        mu,
		inTx:      inTx,
		db:        db,
		configDB:  prefixdb.New(configPrefix, db),
		assetsDB:  prefixdb.New(assetsPrefix, db),
		complexDB: prefixdb.New(complexityPrefix, db),
	}
}

// Tx buffers writes in a versiondb, committed to the base database only when fn succeeds
func (s *kvStore) Tx(ctx context.Context, fn func(tx core.OracleStore) error) error {
	if s.inTx {
		return fn(s)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	vdb := versiondb.New(s.db)
	if err := fn(newKVStore(vdb, s.mu, true)); err != nil {
		vdb.Abort()
		return err
	}

	return vdb.Commit()
}

func (s *kvStore) CountConfigs(ctx context.Context) (int, error) {
	it := s.configDB.NewIterator()
	defer it.Release()

	count := 0
	for it.Next() {
		count++
	}

	return count, it.Error()
}

func (s *kvStore) FindConfig(ctx context.Context, entry core.AssetEntry) (*core.AssetConfig, bool, error) {
	var source core.UncheckedPriceSource
	found, err := get(s.configDB, []byte(entry), &source)
	if err != nil || !found {
		return nil, false, err
	}

	return &core.AssetConfig{Entry: entry, Source: source}, true, nil
}

func (s *kvStore) SaveConfig(ctx context.Context, config *core.AssetConfig) error {
	return put(s.configDB, []byte(config.Entry), config.Source)
}

func (s *kvStore) DeleteConfig(ctx context.Context, entry core.AssetEntry) error {
	return s.configDB.Delete([]byte(entry))
}

func (s *kvStore) ListConfigs(ctx context.Context, after core.AssetEntry, limit int) ([]*core.AssetConfig, error) {
	var configs []*core.AssetConfig
	err := iterate(s.configDB, []byte(after), after != "", limit, func(key, value []byte) error {
		var source core.UncheckedPriceSource
		if err := json.Unmarshal(value, &source); err != nil {
			return err
		}

		configs = append(configs, &core.AssetConfig{Entry: core.AssetEntry(key), Source: source})
		return nil
	})

	return configs, err
}

func (s *kvStore) FindAsset(ctx context.Context, info core.AssetInfo) (*core.OracleAsset, bool, error) {
	var asset core.OracleAsset
	found, err := get(s.assetsDB, []byte(info.Key()), &asset)
	if err != nil || !found {
		return nil, false, err
	}

	return &asset, true, nil
}

func (s *kvStore) SaveAsset(ctx context.Context, asset *core.OracleAsset) error {
	return put(s.assetsDB, []byte(asset.Info.Key()), asset)
}

func (s *kvStore) DeleteAsset(ctx context.Context, info core.AssetInfo) error {
	return s.assetsDB.Delete([]byte(info.Key()))
}

func (s *kvStore) ListAssets(ctx context.Context, after *core.AssetInfo, limit int) ([]*core.OracleAsset, error) {
	var start []byte
	if after != nil {
		start = []byte(after.Key())
	}

	var assets []*core.OracleAsset
	err := iterate(s.assetsDB, start, after != nil, limit, func(_, value []byte) error {
		var asset core.OracleAsset
		if err := json.Unmarshal(value, &asset); err != nil {
			return err
		}

		assets = append(assets, &asset)
		return nil
	})

	return assets, err
}

func (s *kvStore) FindLayer(ctx context.Context, complexity core.Complexity) ([]core.AssetInfo, bool, error) {
	var assets []core.AssetInfo
	found, err := get(s.complexDB, []byte{complexity}, &assets)
	if err != nil || !found {
		return nil, false, err
	}

	return assets, true, nil
}

func (s *kvStore) SaveLayer(ctx context.Context, complexity core.Complexity, assets []core.AssetInfo) error {
	if len(assets) == 0 {
		return s.complexDB.Delete([]byte{complexity})
	}

	return put(s.complexDB, []byte{complexity}, assets)
}

func (s *kvStore) Layers(ctx context.Context) ([]core.Complexity, error) {
	it := s.complexDB.NewIterator()
	defer it.Release()

	var layers []core.Complexity
	for it.Next() {
		if key := it.Key(); len(key) == 1 {
			layers = append(layers, key[0])
		}
	}

	return layers, it.Error()
}

func get(db database.KeyValueReader, key []byte, v interface{}) (bool, error) {
	value, err := db.Get(key)
	if err == database.ErrNotFound {
		return false, nil
	}

	if err != nil {
		return false, err
	}

	return true, json.Unmarshal(value, v)
}

func put(db database.KeyValueWriter, key []byte, v interface{}) error {
	value, err := json.Marshal(v)
	if err != nil {
		return err
	}

	return db.Put(key, value)
}

// iterate walks keys from start in ascending order, skipping start itself when exclusive
func iterate(db database.Iteratee, start []byte, exclusive bool, limit int, fn func(key, value []byte) error) error {
	it := db.NewIteratorWithStart(start)
	defer it.Release()

	count := 0
	for count < limit && it.Next() {
		if exclusive && bytes.Equal(it.Key(), start) {
			continue
		}

		if err := fn(it.Key(), it.Value()); err != nil {
			return err
		}
		count++
	}

	return it.Error()
}
