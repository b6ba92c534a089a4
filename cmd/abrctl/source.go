package main

import (
	"fmt"
	"os"

	"github.com/Eyevinn/moqabr/internal"
	"github.com/Eyevinn/moqabr/internal/config"
)

// ladderSource is a loaded bitrate ladder together with the catalog that
// describes it.
type ladderSource struct {
	ladder  *internal.Ladder
	catalog *internal.Catalog
}

// loadLadder reads path as an asset directory of fragmented MP4 files or as
// a JSON catalog file.
func loadLadder(path string, cfg *config.Config) (*ladderSource, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("ladder source: %w", err)
	}
	if info.IsDir() {
		asset, err := internal.LoadAsset(path, cfg.Asset.AudioSampleBatch, cfg.Asset.VideoSampleBatch)
		if err != nil {
			return nil, fmt.Errorf("load asset %s: %w", path, err)
		}
		return &ladderSource{
			ladder:  internal.LadderFromAsset(asset),
			catalog: asset.GenCatalog(),
		}, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()
	cat, err := internal.ParseCatalog(f)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	ladder, err := internal.LadderFromCatalog(cat)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return &ladderSource{ladder: ladder, catalog: cat}, nil
}
