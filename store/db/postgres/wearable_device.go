package postgres

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"

	"github.com/neuroalign/neuroalign/store"
)

func (d *DB) UpsertWearableDevice(ctx context.Context, upsert *store.WearableDevice) (*store.WearableDevice, error) {
	stmt := `
		INSERT INTO wearable_device (uid, user_id, provider, access_token, refresh_token, token_expiry)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id, provider) DO UPDATE SET
			access_token = EXCLUDED.access_token,
			refresh_token = EXCLUDED.refresh_token,
			token_expiry = EXCLUDED.token_expiry,
			updated_at = NOW()
		RETURNING id, uid, created_at, updated_at`
	if err := d.db.QueryRowContext(ctx, stmt,
		upsert.UID, upsert.UserID, upsert.Provider,
		upsert.AccessToken, upsert.RefreshToken, upsert.TokenExpiry,
	).Scan(&upsert.ID, &upsert.UID, &upsert.CreatedAt, &upsert.UpdatedAt); err != nil {
		return nil, errors.Wrap(err, "failed to upsert wearable device")
	}
	return upsert, nil
}

func (d *DB) GetWearableDevice(ctx context.Context, userID int32, provider string) (*store.WearableDevice, error) {
	stmt := `
		SELECT id, uid, user_id, provider, access_token, refresh_token, token_expiry, created_at, updated_at
		FROM wearable_device
		WHERE user_id = $1 AND provider = $2`
	device := &store.WearableDevice{}
	err := d.db.QueryRowContext(ctx, stmt, userID, provider).Scan(
		&device.ID, &device.UID, &device.UserID, &device.Provider,
		&device.AccessToken, &device.RefreshToken, &device.TokenExpiry,
		&device.CreatedAt, &device.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to get wearable device")
	}
	return device, nil
}
