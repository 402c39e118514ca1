package sqlite

import "database/sql"

// migrations contains the SQL statements to set up the database schema.
// These run on startup to ensure tables exist.
const schema = `
CREATE TABLE IF NOT EXISTS mc_users (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    tower_no TEXT NOT NULL,
    unit_no TEXT NOT NULL,
    contact_number TEXT NOT NULL DEFAULT '',
    email TEXT NOT NULL,
    photo_url TEXT NOT NULL DEFAULT '',
    interest_groups TEXT NOT NULL DEFAULT '[]',
    status TEXT NOT NULL DEFAULT 'pending',
    login_username TEXT,
    temp_password TEXT NOT NULL DEFAULT '',
    password_hash TEXT NOT NULL DEFAULT '',
    approved_by TEXT NOT NULL DEFAULT '',
    approved_at INTEGER NOT NULL DEFAULT 0,
    rejection_reason TEXT NOT NULL DEFAULT '',
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_mc_users_login_username
    ON mc_users(login_username) WHERE login_username IS NOT NULL;
CREATE INDEX IF NOT EXISTS idx_mc_users_status ON mc_users(status);
CREATE INDEX IF NOT EXISTS idx_mc_users_email ON mc_users(email);

CREATE TABLE IF NOT EXISTS notifications (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL,
    type TEXT NOT NULL DEFAULT '',
    title TEXT NOT NULL,
    message TEXT NOT NULL,
    is_read INTEGER NOT NULL DEFAULT 0,
    created_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_notifications_user_id ON notifications(user_id);

CREATE TABLE IF NOT EXISTS user_roles (
    user_id TEXT PRIMARY KEY,
    role TEXT NOT NULL,
    created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS budget_master (
    id TEXT PRIMARY KEY,
    fiscal_year TEXT NOT NULL,
    serial_no INTEGER NOT NULL,
    item_name TEXT NOT NULL,
    category TEXT NOT NULL DEFAULT '',
    annual_budget REAL NOT NULL DEFAULT 0,
    monthly_budget REAL NOT NULL DEFAULT 0,
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL,
    UNIQUE (fiscal_year, serial_no)
);
`

// runMigrations executes the schema setup.
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
