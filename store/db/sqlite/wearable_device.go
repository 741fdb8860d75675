package sqlite

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"

	"github.com/neuroalign/neuroalign/store"
)

func (d *DB) UpsertWearableDevice(ctx context.Context, upsert *store.WearableDevice) (*store.WearableDevice, error) {
	stmt := `
		INSERT INTO wearable_device (uid, user_id, provider, access_token, refresh_token, token_expiry_ts)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id, provider) DO UPDATE SET
			access_token = excluded.access_token,
			refresh_token = excluded.refresh_token,
			token_expiry_ts = excluded.token_expiry_ts,
			updated_ts = strftime('%s', 'now')
		RETURNING id, uid, created_ts, updated_ts`
	var createdTs, updatedTs int64
	if err := d.db.QueryRowContext(ctx, stmt,
		upsert.UID, upsert.UserID, upsert.Provider,
		upsert.AccessToken, upsert.RefreshToken, upsert.TokenExpiry.Unix(),
	).Scan(&upsert.ID, &upsert.UID, &createdTs, &updatedTs); err != nil {
		return nil, errors.Wrap(err, "failed to upsert wearable device")
	}
	upsert.CreatedAt = unixTime(createdTs)
	upsert.UpdatedAt = unixTime(updatedTs)
	return upsert, nil
}

func (d *DB) GetWearableDevice(ctx context.Context, userID int32, provider string) (*store.WearableDevice, error) {
	stmt := `
		SELECT id, uid, user_id, provider, access_token, refresh_token, token_expiry_ts, created_ts, updated_ts
		FROM wearable_device
		WHERE user_id = ? AND provider = ?`
	device := &store.WearableDevice{}
	var expiryTs, createdTs, updatedTs int64
	err := d.db.QueryRowContext(ctx, stmt, userID, provider).Scan(
		&device.ID, &device.UID, &device.UserID, &device.Provider,
		&device.AccessToken, &device.RefreshToken, &expiryTs, &createdTs, &updatedTs,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to get wearable device")
	}
	device.TokenExpiry = unixTime(expiryTs)
	device.CreatedAt = unixTime(createdTs)
	device.UpdatedAt = unixTime(updatedTs)
	return device, nil
}
