package oracle

import (
	"context"
	"encoding/json"
	"time"

	"oracle/core"

	"github.com/fox-one/pkg/store/db"
	"github.com/jinzhu/gorm"
	"github.com/jmoiron/sqlx/types"
)

// AssetConfigRecord config relation row
type AssetConfigRecord struct {
	ID        int64          `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id,omitempty"`
	Entry     string         `sql:"size:128;unique_index:idx_oracle_configs_entry" json:"entry,omitempty"`
	Source    types.JSONText `sql:"type:TEXT" json:"source,omitempty"`
	CreatedAt time.Time      `sql:"default:CURRENT_TIMESTAMP" json:"created_at,omitempty"`
	UpdatedAt time.Time      `sql:"default:CURRENT_TIMESTAMP" json:"updated_at,omitempty"`
}

// TableName gorm table name
func (AssetConfigRecord) TableName() string {
	return "oracle_configs"
}

// AssetRecord assets relation row
type AssetRecord struct {
	ID          int64          `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id,omitempty"`
	AssetKey    string         `sql:"size:160;unique_index:idx_oracle_assets_key" json:"asset_key,omitempty"`
	PriceSource types.JSONText `sql:"type:TEXT" json:"price_source,omitempty"`
	Complexity  uint8          `sql:"default:0" json:"complexity"`
	CreatedAt   time.Time      `sql:"default:CURRENT_TIMESTAMP" json:"created_at,omitempty"`
	UpdatedAt   time.Time      `sql:"default:CURRENT_TIMESTAMP" json:"updated_at,omitempty"`
}

// TableName gorm table name
func (AssetRecord) TableName() string {
	return "oracle_assets"
}

// LayerRecord complexity relation row
type LayerRecord struct {
	ID         int64          `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id,omitempty"`
	Complexity uint8          `sql:"unique_index:idx_oracle_complexities_complexity" json:"complexity"`
	Assets     types.JSONText `sql:"type:TEXT" json:"assets,omitempty"`
	UpdatedAt  time.Time      `sql:"default:CURRENT_TIMESTAMP" json:"updated_at,omitempty"`
}

// TableName gorm table name
func (LayerRecord) TableName() string {
	return "oracle_complexities"
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		for _, model := range []interface{}{AssetConfigRecord{}, AssetRecord{}, LayerRecord{}} {
			tx := db.Update().Model(model)
			if err := tx.AutoMigrate(model).Error; err != nil {
				return err
			}
		}

		return nil
	})
}

type oracleStore struct {
	db   *db.DB
	inTx bool
}

// New new sql oracle store
func New(db *db.DB) core.OracleStore {
	return &oracleStore{db: db}
}

func (s *oracleStore) Tx(ctx context.Context, fn func(tx core.OracleStore) error) error {
	if s.inTx {
		return fn(s)
	}

	return s.db.Tx(func(tx *db.DB) error {
		return fn(&oracleStore{db: tx, inTx: true})
	})
}

// view reads through the transaction when there is one, the read connection never sees its writes
func (s *oracleStore) view() *gorm.DB {
	if s.inTx {
		return s.db.Update()
	}

	return s.db.View()
}

func (s *oracleStore) CountConfigs(ctx context.Context) (int, error) {
	var count int
	if err := s.view().Model(AssetConfigRecord{}).Count(&count).Error; err != nil {
		return 0, err
	}

	return count, nil
}

func (s *oracleStore) FindConfig(ctx context.Context, entry core.AssetEntry) (*core.AssetConfig, bool, error) {
	var record AssetConfigRecord
	if err := s.view().Where("entry = ?", entry.String()).First(&record).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil, false, nil
		}
		return nil, false, err
	}

	config, err := record.config()
	return config, err == nil, err
}

func (s *oracleStore) SaveConfig(ctx context.Context, config *core.AssetConfig) error {
	source, err := json.Marshal(config.Source)
	if err != nil {
		return err
	}

	var record AssetConfigRecord
	return s.db.Update().Where("entry = ?", config.Entry.String()).
		Assign(AssetConfigRecord{Source: source}).
		FirstOrCreate(&record, AssetConfigRecord{Entry: config.Entry.String()}).Error
}

func (s *oracleStore) DeleteConfig(ctx context.Context, entry core.AssetEntry) error {
	return s.db.Update().Where("entry = ?", entry.String()).Delete(AssetConfigRecord{}).Error
}

func (s *oracleStore) ListConfigs(ctx context.Context, after core.AssetEntry, limit int) ([]*core.AssetConfig, error) {
	query := s.view().Order("entry").Limit(limit)
	if after != "" {
		query = query.Where("entry > ?", after.String())
	}

	var records []*AssetConfigRecord
	if err := query.Find(&records).Error; err != nil {
		return nil, err
	}

	configs := make([]*core.AssetConfig, 0, len(records))
	for _, record := range records {
		config, err := record.config()
		if err != nil {
			return nil, err
		}
		configs = append(configs, config)
	}

	return configs, nil
}

func (s *oracleStore) FindAsset(ctx context.Context, info core.AssetInfo) (*core.OracleAsset, bool, error) {
	var record AssetRecord
	if err := s.view().Where("asset_key = ?", info.Key()).First(&record).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil, false, nil
		}
		return nil, false, err
	}

	asset, err := record.asset()
	return asset, err == nil, err
}

func (s *oracleStore) SaveAsset(ctx context.Context, asset *core.OracleAsset) error {
	source, err := json.Marshal(asset.PriceSource)
	if err != nil {
		return err
	}

	key := asset.Info.Key()
	if err := s.db.Update().Where("asset_key = ?", key).Delete(AssetRecord{}).Error; err != nil {
		return err
	}

	return s.db.Update().Create(&AssetRecord{
		AssetKey:    key,
		PriceSource: source,
		Complexity:  asset.Complexity,
	}).Error
}

func (s *oracleStore) DeleteAsset(ctx context.Context, info core.AssetInfo) error {
	return s.db.Update().Where("asset_key = ?", info.Key()).Delete(AssetRecord{}).Error
}

func (s *oracleStore) ListAssets(ctx context.Context, after *core.AssetInfo, limit int) ([]*core.OracleAsset, error) {
	query := s.view().Order("asset_key").Limit(limit)
	if after != nil {
		query = query.Where("asset_key > ?", after.Key())
	}

	var records []*AssetRecord
	if err := query.Find(&records).Error; err != nil {
		return nil, err
	}

	assets := make([]*core.OracleAsset, 0, len(records))
	for _, record := range records {
		asset, err := record.asset()
		if err != nil {
			return nil, err
		}
		assets = append(assets, asset)
	}

	return assets, nil
}

func (s *oracleStore) FindLayer(ctx context.Context, complexity core.Complexity) ([]core.AssetInfo, bool, error) {
	var record LayerRecord
	if err := s.view().Where("complexity = ?", complexity).First(&record).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil, false, nil
		}
		return nil, false, err
	}

	var assets []core.AssetInfo
	if err := json.Unmarshal(record.Assets, &assets); err != nil {
		return nil, false, err
	}

	return assets, true, nil
}

func (s *oracleStore) SaveLayer(ctx context.Context, complexity core.Complexity, assets []core.AssetInfo) error {
	if err := s.db.Update().Where("complexity = ?", complexity).Delete(LayerRecord{}).Error; err != nil {
		return err
	}

	if len(assets) == 0 {
		return nil
	}

	data, err := json.Marshal(assets)
	if err != nil {
		return err
	}

	return s.db.Update().Create(&LayerRecord{
		Complexity: complexity,
		Assets:     data,
	}).Error
}

func (s *oracleStore) Layers(ctx context.Context) ([]core.Complexity, error) {
	var values []int
	if err := s.view().Model(LayerRecord{}).Order("complexity").Pluck("complexity", &values).Error; err != nil {
		return nil, err
	}

	layers := make([]core.Complexity, len(values))
	for idx, v := range values {
		layers[idx] = core.Complexity(v)
	}

	return layers, nil
}

func (r *AssetConfigRecord) config() (*core.AssetConfig, error) {
	config := core.AssetConfig{Entry: core.AssetEntry(r.Entry)}
	if err := json.Unmarshal(r.Source, &config.Source); err != nil {
		return nil, err
	}

	return &config, nil
}

func (r *AssetRecord) asset() (*core.OracleAsset, error) {
	info, err := core.ParseAssetInfo(r.AssetKey)
	if err != nil {
		return nil, err
	}

	asset := core.OracleAsset{
		Info:       info,
		Complexity: r.Complexity,
	}
	if err := json.Unmarshal(r.PriceSource, &asset.PriceSource); err != nil {
		return nil, err
	}

	return &asset, nil
}
