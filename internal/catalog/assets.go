package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mranlett/ViLM/internal/metrics"
)

// InsertIfAbsent registers a new asset. If an asset with the same relative
// path already exists the call is a silent no-op and the existing row,
// including its id and tags, is untouched.
func (c *Catalog) InsertIfAbsent(ctx context.Context, asset *Asset) error {
	done := observeQuery("insert_if_absent")

	c.mu.Lock()
	defer c.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := c.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO assets (id, relative_path, file_name, status, created_at, tags)
		VALUES (?, ?, ?, ?, ?, ?)`,
		asset.ID,
		asset.RelativePath,
		asset.FileName,
		string(asset.Status),
		asset.CreatedAt.Unix(),
		encodeTags(asset.Tags),
	)
	done(err)
	if err != nil {
		return storageErr("insert", fmt.Errorf("failed to register asset %s: %w", asset.RelativePath, err))
	}
	return nil
}

// Update overwrites the stored record matched by the asset's id. The
// created_at column is immutable and never rewritten. Returns a
// StorageError wrapping ErrAssetNotFound when the id is unknown.
func (c *Catalog) Update(ctx context.Context, asset *Asset) error {
	done := observeQuery("update_asset")

	c.mu.Lock()
	defer c.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	result, err := c.db.ExecContext(ctx, `
		UPDATE assets
		SET relative_path = ?, file_name = ?, status = ?, tags = ?
		WHERE id = ?`,
		asset.RelativePath,
		asset.FileName,
		string(asset.Status),
		encodeTags(asset.Tags),
		asset.ID,
	)
	if err != nil {
		done(err)
		return storageErr("update", fmt.Errorf("failed to update asset %s: %w", asset.ID, err))
	}

	rows, err := result.RowsAffected()
	if err != nil {
		done(err)
		return storageErr("update", err)
	}
	if rows == 0 {
		err = fmt.Errorf("%w: %s", ErrAssetNotFound, asset.ID)
		done(err)
		return storageErr("update", err)
	}

	done(nil)
	return nil
}

// FetchAll returns every asset record. Order is unspecified; consumers
// must sort if order matters.
func (c *Catalog) FetchAll(ctx context.Context) ([]Asset, error) {
	done := observeQuery("fetch_all")

	c.mu.RLock()
	defer c.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	rows, err := c.db.QueryContext(ctx,
		"SELECT id, relative_path, file_name, status, created_at, tags FROM assets",
	)
	if err != nil {
		done(err)
		return nil, storageErr("fetch", err)
	}
	defer rows.Close()

	var assets []Asset
	for rows.Next() {
		asset, err := scanAsset(rows)
		if err != nil {
			done(err)
			return nil, storageErr("fetch", err)
		}
		assets = append(assets, asset)
	}
	if err := rows.Err(); err != nil {
		done(err)
		return nil, storageErr("fetch", err)
	}

	done(nil)
	return assets, nil
}

// FetchByID returns a single asset record, or a StorageError wrapping
// ErrAssetNotFound when the id is unknown.
func (c *Catalog) FetchByID(ctx context.Context, id string) (*Asset, error) {
	done := observeQuery("fetch_by_id")

	c.mu.RLock()
	defer c.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	row := c.db.QueryRowContext(ctx,
		"SELECT id, relative_path, file_name, status, created_at, tags FROM assets WHERE id = ?", id,
	)

	asset, err := scanAsset(row)
	if errors.Is(err, sql.ErrNoRows) {
		err = fmt.Errorf("%w: %s", ErrAssetNotFound, id)
		done(err)
		return nil, storageErr("fetch", err)
	}
	if err != nil {
		done(err)
		return nil, storageErr("fetch", err)
	}

	done(nil)
	return &asset, nil
}

// CountByStatus returns the number of assets per review status and
// refreshes the catalog gauge metrics.
func (c *Catalog) CountByStatus(ctx context.Context) (map[Status]int, error) {
	done := observeQuery("count_by_status")

	c.mu.RLock()
	defer c.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	rows, err := c.db.QueryContext(ctx,
		"SELECT status, COUNT(*) FROM assets GROUP BY status",
	)
	if err != nil {
		done(err)
		return nil, storageErr("count", err)
	}
	defer rows.Close()

	counts := make(map[Status]int)
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			done(err)
			return nil, storageErr("count", err)
		}
		counts[Status(status)] = n
		metrics.CatalogAssets.WithLabelValues(status).Set(float64(n))
	}
	if err := rows.Err(); err != nil {
		done(err)
		return nil, storageErr("count", err)
	}

	done(nil)
	return counts, nil
}

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAsset(row rowScanner) (Asset, error) {
	var asset Asset
	var status string
	var createdAt int64
	var rawTags string

	err := row.Scan(&asset.ID, &asset.RelativePath, &asset.FileName, &status, &createdAt, &rawTags)
	if err != nil {
		return Asset{}, err
	}

	asset.Status = Status(status)
	asset.CreatedAt = time.Unix(createdAt, 0).UTC()
	asset.Tags = decodeTags(rawTags)
	return asset, nil
}
