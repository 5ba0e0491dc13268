package core

// schema sets up the tables on startup.
//
// Uniqueness invariants live here as constraints so that concurrent creates
// cannot both pass a check-then-insert:
//   - users.username (primary key)
//   - locations (username, name)
//   - records (location_id, date)
//
// Deleting a user removes its locations and records; deleting a location
// removes its records.
const schema = `
CREATE TABLE IF NOT EXISTS users (
    username VARCHAR(25) PRIMARY KEY,
    password TEXT NOT NULL,
    first_name TEXT NOT NULL,
    last_name TEXT NOT NULL,
    email TEXT NOT NULL CHECK (position('@' IN email) > 1),
    is_admin BOOLEAN NOT NULL DEFAULT FALSE
);

CREATE TABLE IF NOT EXISTS locations (
    id BIGSERIAL PRIMARY KEY,
    username VARCHAR(25) NOT NULL
        REFERENCES users(username) ON UPDATE CASCADE ON DELETE CASCADE,
    name TEXT NOT NULL,
    usgs_id TEXT,
    dec_lat DOUBLE PRECISION NOT NULL,
    dec_long DOUBLE PRECISION NOT NULL,
    fish TEXT,
    CONSTRAINT locations_username_name_key UNIQUE (username, name)
);

CREATE TABLE IF NOT EXISTS records (
    id BIGSERIAL PRIMARY KEY,
    username VARCHAR(25) NOT NULL
        REFERENCES users(username) ON UPDATE CASCADE ON DELETE CASCADE,
    location_id BIGINT NOT NULL
        REFERENCES locations(id) ON DELETE CASCADE,
    date DATE NOT NULL,
    rating INTEGER,
    description TEXT,
    flies TEXT,
    flow INTEGER,
    water_temp INTEGER,
    pressure DOUBLE PRECISION,
    weather TEXT,
    high_temp INTEGER,
    low_temp INTEGER,
    CONSTRAINT records_location_id_date_key UNIQUE (location_id, date)
);

CREATE INDEX IF NOT EXISTS idx_locations_username ON locations(username);
CREATE INDEX IF NOT EXISTS idx_records_username ON records(username);
`
