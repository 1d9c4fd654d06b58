package postgres

// Schema is the embedded PostgreSQL schema. All statements are idempotent
// (IF NOT EXISTS / ON CONFLICT DO NOTHING) so the schema is applied on
// every startup.
const Schema = `
CREATE TABLE IF NOT EXISTS islands (
	id   BIGINT PRIMARY KEY,
	name TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS characters (
	id   BIGINT PRIMARY KEY,
	name TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS readings (
	id               BIGSERIAL PRIMARY KEY,
	ultrasonic_value DOUBLE PRECISION NOT NULL DEFAULT 0,
	lidar_value      DOUBLE PRECISION NOT NULL DEFAULT 0,
	island_id        BIGINT NOT NULL REFERENCES islands(id),
	character_id     BIGINT NOT NULL REFERENCES characters(id),
	created_at       TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_readings_island    ON readings(island_id);
CREATE INDEX IF NOT EXISTS idx_readings_character ON readings(character_id);

CREATE TABLE IF NOT EXISTS settings (
	key        TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

INSERT INTO islands (id, name) VALUES
	(1, 'East Blue'),
	(2, 'Alabasta'),
	(3, 'Water 7'),
	(4, 'Dressrosa'),
	(5, 'Wano')
ON CONFLICT (id) DO NOTHING;

INSERT INTO characters (id, name) VALUES
	(1, 'Luffy'),
	(2, 'Zoro'),
	(3, 'Nami'),
	(4, 'Sanji'),
	(5, 'Chopper')
ON CONFLICT (id) DO NOTHING;
`
