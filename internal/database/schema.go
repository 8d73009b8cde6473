package database

import (
	"context"
	"database/sql"
)

// Migrate creates the schema if it does not exist yet.  Statements are
// idempotent so Migrate is safe to run on every startup.
func Migrate(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS admins (
			id          BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
			email       VARCHAR(255)    NOT NULL,
			password    VARCHAR(255)    NOT NULL,
			name        VARCHAR(255)    NOT NULL,
			location    VARCHAR(64)     NULL,
			created_at  TIMESTAMP       NOT NULL DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (id),
			UNIQUE KEY uq_admins_email (email)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

		`CREATE TABLE IF NOT EXISTS time_slots (
			id               BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
			title            VARCHAR(255)    NOT NULL,
			description      TEXT            NULL,
			location         VARCHAR(64)     NOT NULL,
			starts_at        DATETIME        NOT NULL,
			ends_at          DATETIME        NOT NULL,
			max_bookings     INT UNSIGNED    NOT NULL DEFAULT 1,
			current_bookings INT UNSIGNED    NOT NULL DEFAULT 0,
			is_active        TINYINT(1)      NOT NULL DEFAULT 1,
			hold_by          VARCHAR(255)    NULL,
			hold_expires_at  DATETIME        NULL,
			created_by       BIGINT UNSIGNED NOT NULL,
			created_at       TIMESTAMP       NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at       TIMESTAMP       NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
			PRIMARY KEY (id),
			KEY idx_time_slots_location_starts (location, starts_at),
			KEY idx_time_slots_starts (starts_at)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

		`CREATE TABLE IF NOT EXISTS bookings (
			id           BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
			time_slot_id BIGINT UNSIGNED NOT NULL,
			parent_name  VARCHAR(255)    NOT NULL,
			child_name   VARCHAR(255)    NOT NULL,
			child_age    INT             NOT NULL,
			user_email   VARCHAR(255)    NOT NULL,
			user_phone   VARCHAR(64)     NULL,
			notes        TEXT            NULL,
			created_at   TIMESTAMP       NOT NULL DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (id),
			KEY idx_bookings_email (user_email),
			KEY idx_bookings_slot (time_slot_id),
			CONSTRAINT fk_bookings_slot FOREIGN KEY (time_slot_id)
				REFERENCES time_slots (id) ON DELETE CASCADE
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	}
	for _, s := range stmts {
		if _, err := db.ExecContext(ctx, s); err != nil {
			return err
		}
	}
	return nil
}
