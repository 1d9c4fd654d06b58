package sqlite

// Schema is the embedded SQLite schema. Every statement is idempotent so it
// can be applied on every startup. The INSERT OR IGNORE rows give a fresh
// database a usable reference set without an external seed file.
const Schema = `
CREATE TABLE IF NOT EXISTS islands (
	id   INTEGER PRIMARY KEY,
	name TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS characters (
	id   INTEGER PRIMARY KEY,
	name TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS readings (
	id               INTEGER PRIMARY KEY AUTOINCREMENT,
	ultrasonic_value REAL NOT NULL DEFAULT 0,
	lidar_value      REAL NOT NULL DEFAULT 0,
	island_id        INTEGER NOT NULL REFERENCES islands(id),
	character_id     INTEGER NOT NULL REFERENCES characters(id),
	created_at       TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_readings_island    ON readings(island_id);
CREATE INDEX IF NOT EXISTS idx_readings_character ON readings(character_id);

CREATE TABLE IF NOT EXISTS settings (
	key        TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

INSERT OR IGNORE INTO islands (id, name) VALUES
	(1, 'East Blue'),
	(2, 'Alabasta'),
	(3, 'Water 7'),
	(4, 'Dressrosa'),
	(5, 'Wano');

INSERT OR IGNORE INTO characters (id, name) VALUES
	(1, 'Luffy'),
	(2, 'Zoro'),
	(3, 'Nami'),
	(4, 'Sanji'),
	(5, 'Chopper');
`
