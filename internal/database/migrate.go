package database

import (
    "context"
    "database/sql"
    "fmt"
)

// Migrate creates every table the application needs.  Statements are
// idempotent so the server can run them on every start.
//
// Both booking tables carry a composite unique key over the slot
// coordinates.  The application checks availability before inserting,
// but two requests can pass that check concurrently; the key turns the
// loser's insert into a duplicate-entry error that surfaces as a
// scheduling conflict instead of a double booking.
func Migrate(ctx context.Context, db *sql.DB) error {
    stmts := []string{
        `CREATE TABLE IF NOT EXISTS users (
            id            BIGINT PRIMARY KEY,
            email         VARCHAR(255) NOT NULL,
            password      VARCHAR(255) NOT NULL,
            full_name     VARCHAR(255) NOT NULL,
            date_of_birth DATETIME NOT NULL,
            gender        VARCHAR(32) NOT NULL DEFAULT '',
            image         TEXT,
            role          INT NOT NULL DEFAULT 10,
            UNIQUE KEY uq_users_email (email)
        ) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

        `CREATE TABLE IF NOT EXISTS refresh_tokens (
            id         BIGINT PRIMARY KEY AUTO_INCREMENT,
            user_id    BIGINT NOT NULL,
            token_hash CHAR(64) NOT NULL,
            expires_at DATETIME NOT NULL,
            revoked_at DATETIME NULL,
            created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
            UNIQUE KEY uq_refresh_tokens_hash (token_hash),
            KEY idx_refresh_tokens_user (user_id)
        ) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

        `CREATE TABLE IF NOT EXISTS buildings (
            id          BIGINT PRIMARY KEY,
            name        VARCHAR(255) NOT NULL,
            description TEXT,
            floors      INT NOT NULL DEFAULT 1
        ) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

        `CREATE TABLE IF NOT EXISTS rooms (
            id         BIGINT PRIMARY KEY,
            name       VARCHAR(255) NOT NULL,
            type       VARCHAR(64) NOT NULL,
            building   VARCHAR(255) NOT NULL,
            floor      INT NOT NULL DEFAULT 0,
            capacity   INT NOT NULL DEFAULT 0,
            status     INT NOT NULL DEFAULT 0,
            accessible BOOLEAN NOT NULL DEFAULT FALSE,
            KEY idx_rooms_building (building)
        ) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

        `CREATE TABLE IF NOT EXISTS auditoriums (
            id          BIGINT PRIMARY KEY,
            name        VARCHAR(255) NOT NULL,
            building_id BIGINT NOT NULL,
            capacity    INT NOT NULL DEFAULT 0,
            features    TEXT,
            is_active   BOOLEAN NOT NULL DEFAULT TRUE,
            KEY idx_auditoriums_building (building_id)
        ) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

        `CREATE TABLE IF NOT EXISTS time_slots (
            id            BIGINT PRIMARY KEY,
            start_time    CHAR(5) NOT NULL,
            end_time      CHAR(5) NOT NULL,
            display_name  VARCHAR(64) NOT NULL,
            is_active     BOOLEAN NOT NULL DEFAULT TRUE,
            display_order INT NOT NULL DEFAULT 0
        ) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

        `CREATE TABLE IF NOT EXISTS schedule_periods (
            id         VARCHAR(64) PRIMARY KEY,
            name       VARCHAR(255) NOT NULL,
            is_active  BOOLEAN NOT NULL DEFAULT FALSE,
            periods    TEXT NOT NULL,
            updated_at DATETIME NOT NULL,
            UNIQUE KEY uq_schedule_periods_name (name)
        ) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

        `CREATE TABLE IF NOT EXISTS bookings (
            id             BIGINT PRIMARY KEY,
            resource_id    BIGINT NOT NULL,
            user_id        BIGINT NOT NULL,
            booking_date   DATETIME NOT NULL,
            start_time     CHAR(5) NOT NULL,
            end_time       CHAR(5) NOT NULL,
            purpose        VARCHAR(255) NOT NULL DEFAULT '',
            attendee_count INT NOT NULL DEFAULT 0,
            notes          TEXT,
            booked_by      VARCHAR(255) NOT NULL DEFAULT '',
            status         VARCHAR(32) NOT NULL,
            created_at     DATETIME NOT NULL,
            updated_at     DATETIME NOT NULL,
            UNIQUE KEY uq_bookings_slot (resource_id, booking_date, start_time, end_time),
            KEY idx_bookings_user (user_id)
        ) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

        `CREATE TABLE IF NOT EXISTS auditorium_bookings (
            id             BIGINT PRIMARY KEY,
            resource_id    BIGINT NOT NULL,
            user_id        BIGINT NOT NULL,
            booking_date   DATETIME NOT NULL,
            start_time     CHAR(5) NOT NULL,
            end_time       CHAR(5) NOT NULL,
            purpose        VARCHAR(255) NOT NULL DEFAULT '',
            attendee_count INT NOT NULL DEFAULT 0,
            notes          TEXT,
            booked_by      VARCHAR(255) NOT NULL DEFAULT '',
            status         VARCHAR(32) NOT NULL,
            created_at     DATETIME NOT NULL,
            updated_at     DATETIME NOT NULL,
            UNIQUE KEY uq_auditorium_bookings_slot (resource_id, booking_date, start_time, end_time),
            KEY idx_auditorium_bookings_user (user_id)
        ) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

        `CREATE TABLE IF NOT EXISTS maintenance_windows (
            id          BIGINT PRIMARY KEY,
            title       VARCHAR(255) NOT NULL,
            description TEXT,
            starts_at   DATETIME NOT NULL,
            ends_at     DATETIME NOT NULL,
            is_active   BOOLEAN NOT NULL DEFAULT TRUE,
            created_by  VARCHAR(255) NOT NULL DEFAULT '',
            created_at  DATETIME NOT NULL,
            updated_at  DATETIME NOT NULL,
            KEY idx_maintenance_range (starts_at, ends_at)
        ) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

        `CREATE TABLE IF NOT EXISTS tickets (
            id          BIGINT PRIMARY KEY,
            title       VARCHAR(255) NOT NULL,
            description TEXT,
            category    VARCHAR(64) NOT NULL,
            priority    VARCHAR(32) NOT NULL,
            status      VARCHAR(32) NOT NULL,
            created_by  BIGINT NOT NULL,
            assigned_to BIGINT NULL,
            attachments TEXT,
            created_at  DATETIME NOT NULL,
            updated_at  DATETIME NOT NULL,
            KEY idx_tickets_created_by (created_by)
        ) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

        `CREATE TABLE IF NOT EXISTS messages (
            id          VARCHAR(36) PRIMARY KEY,
            sender_id   VARCHAR(64) NOT NULL,
            receiver_id VARCHAR(64) NOT NULL,
            content     TEXT NOT NULL,
            timestamp   DATETIME NOT NULL,
            is_read     BOOLEAN NOT NULL DEFAULT FALSE,
            KEY idx_messages_receiver (receiver_id),
            KEY idx_messages_sender (sender_id)
        ) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

        `CREATE TABLE IF NOT EXISTS audit_logs (
            id            BIGINT PRIMARY KEY,
            timestamp     DATETIME NOT NULL,
            action        VARCHAR(32) NOT NULL,
            entity        VARCHAR(32) NOT NULL,
            entity_id     VARCHAR(64),
            user_id       BIGINT NULL,
            user_email    VARCHAR(255),
            user_role     INT NOT NULL DEFAULT 0,
            ip_address    VARCHAR(64),
            user_agent    VARCHAR(512),
            details       TEXT,
            old_values    TEXT,
            new_values    TEXT,
            success       BOOLEAN NOT NULL DEFAULT TRUE,
            error_message TEXT,
            severity      VARCHAR(16) NOT NULL,
            KEY idx_audit_timestamp (timestamp),
            KEY idx_audit_entity (entity, entity_id)
        ) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
    }

    for _, stmt := range stmts {
        if _, err := db.ExecContext(ctx, stmt); err != nil {
            return fmt.Errorf("migrate: %w", err)
        }
    }
    return nil
}
