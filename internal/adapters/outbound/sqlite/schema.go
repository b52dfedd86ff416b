package sqlite

const schema = `
CREATE TABLE IF NOT EXISTS conferences (
	id TEXT PRIMARY KEY,
	title TEXT NOT NULL,
	city TEXT NOT NULL DEFAULT '',
	start_date TEXT NOT NULL,
	end_date TEXT NOT NULL DEFAULT '',
	capacity INTEGER NOT NULL,
	currency TEXT NOT NULL DEFAULT '',
	sales_target_json TEXT NOT NULL,
	sponsor_ticket_allowance INTEGER NOT NULL DEFAULT 0,
	slack_channel TEXT NOT NULL DEFAULT '',
	organizer_emails_json TEXT NOT NULL DEFAULT '[]'
);

CREATE TABLE IF NOT EXISTS ticket_orders (
	seq INTEGER PRIMARY KEY AUTOINCREMENT,
	conference_id TEXT NOT NULL REFERENCES conferences(id),
	order_id INTEGER NOT NULL,
	ticket_id INTEGER NOT NULL,
	category TEXT NOT NULL,
	customer_name TEXT NOT NULL DEFAULT '',
	sum TEXT NOT NULL,
	sum_left TEXT NOT NULL,
	order_date TEXT NOT NULL
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_ticket_orders_ticket
	ON ticket_orders(conference_id, ticket_id) WHERE ticket_id != 0;
CREATE INDEX IF NOT EXISTS idx_ticket_orders_conference ON ticket_orders(conference_id, seq);

CREATE TABLE IF NOT EXISTS sponsor_deals (
	id TEXT PRIMARY KEY,
	conference_id TEXT NOT NULL REFERENCES conferences(id),
	sponsor_name TEXT NOT NULL,
	tier TEXT NOT NULL DEFAULT '',
	status TEXT NOT NULL,
	contract_status TEXT NOT NULL DEFAULT '',
	invoice_status TEXT NOT NULL DEFAULT '',
	contract_value TEXT NOT NULL,
	currency TEXT NOT NULL DEFAULT '',
	assigned_to TEXT NOT NULL DEFAULT '',
	updated_at TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_sponsor_deals_conference ON sponsor_deals(conference_id);

CREATE TABLE IF NOT EXISTS proposals (
	id TEXT PRIMARY KEY,
	conference_id TEXT NOT NULL,
	title TEXT NOT NULL,
	format TEXT NOT NULL DEFAULT '',
	speaker_name TEXT NOT NULL DEFAULT '',
	speaker_email TEXT NOT NULL DEFAULT '',
	status TEXT NOT NULL,
	updated_at TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_proposals_conference ON proposals(conference_id);
`
