package muxvideo

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
)

// WaitForAsset polls the upload until Mux assigns an asset, then polls the
// asset until it is ready or errored. Both loops are bounded by maxAttempts
// at a fixed interval; there is no unbounded wait.
func WaitForAsset(ctx context.Context, client Client, uploadID string, interval time.Duration, maxAttempts int) (*Asset, error) {
	assetID := ""
	for attempt := 0; attempt < maxAttempts; attempt++ {
		up, err := client.GetUpload(ctx, uploadID)
		if err != nil {
			return nil, eris.Wrap(err, "mux: poll upload")
		}
		if up.Status == "errored" {
			return nil, eris.Errorf("mux: upload %s errored", uploadID)
		}
		if up.AssetID != "" {
			assetID = up.AssetID
			break
		}
		select {
		case <-ctx.Done():
			return nil, eris.Wrap(ctx.Err(), "mux: wait for asset id")
		case <-time.After(interval):
		}
	}
	if assetID == "" {
		return nil, eris.Errorf("mux: upload %s produced no asset after %d attempts", uploadID, maxAttempts)
	}

	for attempt := 0; attempt < maxAttempts; attempt++ {
		asset, err := client.GetAsset(ctx, assetID)
		if err != nil {
			return nil, eris.Wrap(err, "mux: poll asset")
		}
		switch asset.Status {
		case "ready":
			return asset, nil
		case "errored":
			return nil, eris.Errorf("mux: asset %s errored during processing", assetID)
		}
		select {
		case <-ctx.Done():
			return nil, eris.Wrap(ctx.Err(), "mux: wait for asset ready")
		case <-time.After(interval):
		}
	}
	return nil, eris.Errorf("mux: asset %s not ready after %d attempts", assetID, maxAttempts)
}
