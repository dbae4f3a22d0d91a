package journal

// Schema holds every saved revision of the plan input. Ids are ULIDs, so
// ordering by id is ordering by save time.
const Schema = `
CREATE TABLE IF NOT EXISTS inputs (
	id TEXT PRIMARY KEY,
	saved_at DATETIME NOT NULL,
	payload TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_inputs_saved_at ON inputs(saved_at);
`
