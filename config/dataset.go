package config

import (
	"context"

	"github.com/sirupsen/logrus"

	"audiodash/internal/dataset"
)

// LoadDataset opens the configured manifest source. Any failure is a
// *models.DatasetLoadError.
func LoadDataset(ctx context.Context, cfg DatasetConfig, log *logrus.Logger) (*dataset.Dataset, error) {
	fetcher := dataset.NewSourceFetcher(cfg.FetchTimeout)

	switch cfg.Source {
	case SourceSupabase:
		src, err := dataset.NewSupabaseSource(cfg.SupabaseURL, cfg.SupabaseKey, cfg.Table, cfg.Base)
		if err != nil {
			return nil, err
		}
		ds, err := src.Load(ctx, fetcher)
		if err != nil {
			return nil, err
		}
		log.WithFields(logrus.Fields{"source": "supabase", "table": src.Table, "tracks": ds.Len()}).
			Info("Dataset loaded")
		return ds, nil
	default:
		ds, err := dataset.LoadCSV(ctx, cfg.Manifest, fetcher)
		if err != nil {
			return nil, err
		}
		log.WithFields(logrus.Fields{"source": "csv", "manifest": cfg.Manifest, "tracks": ds.Len()}).
			Info("Dataset loaded")
		return ds, nil
	}
}
