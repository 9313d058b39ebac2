package device

// migration holds a single schema migration with its target version and SQL.
type migration struct {
	version int
	sql     string
}

// migrations is the ordered list of schema migrations.
// Each migration's version must be sequential starting from 1.
var migrations = []migration{
	{
		version: 1,
		sql: `
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS notifications (
	handle       TEXT PRIMARY KEY,
	payload      TEXT NOT NULL,
	title        TEXT NOT NULL DEFAULT '',
	body         TEXT NOT NULL DEFAULT '',
	state        TEXT NOT NULL DEFAULT 'scheduled' CHECK(state IN ('scheduled', 'delivered')),
	fire_at      INTEGER NOT NULL,
	created_at   INTEGER NOT NULL,
	delivered_at INTEGER
);

CREATE INDEX IF NOT EXISTS idx_notifications_state ON notifications(state);
CREATE INDEX IF NOT EXISTS idx_notifications_fire_at ON notifications(fire_at);

INSERT INTO schema_version (version) VALUES (1);
`,
	},
}
