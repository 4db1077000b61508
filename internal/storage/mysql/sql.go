package mysql

// SchemaStatements creates the run-audit tables. Statements are separate
// because the driver executes one statement per Exec by default.
var SchemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS runs (
  id         BIGINT AUTO_INCREMENT PRIMARY KEY,
  locality   VARCHAR(255) NOT NULL,
  query      TEXT NOT NULL,
  created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
  KEY idx_runs_created (created_at)
)`,
	`CREATE TABLE IF NOT EXISTS linked_hotels (
  run_id        BIGINT NOT NULL,
  offering_id   BIGINT NOT NULL,
  hotel_id      VARCHAR(64) NULL,
  score         DOUBLE NOT NULL,
  offering_name VARCHAR(512) NULL,
  hotel_name    VARCHAR(512) NULL,
  PRIMARY KEY (run_id, offering_id),
  CONSTRAINT fk_links_run FOREIGN KEY (run_id) REFERENCES runs (id)
)`,
	`CREATE TABLE IF NOT EXISTS ranked_hotels (
  run_id         BIGINT NOT NULL,
  position       INT NOT NULL,
  hotel_id       VARCHAR(64) NOT NULL,
  name           VARCHAR(512) NULL,
  score          DOUBLE NOT NULL,
  key_points     JSON NULL,
  price_total    VARCHAR(32) NULL,
  price_currency VARCHAR(8) NULL,
  PRIMARY KEY (run_id, position),
  CONSTRAINT fk_ranked_run FOREIGN KEY (run_id) REFERENCES runs (id)
)`,
}

const insertRunSQL = `
INSERT INTO runs (locality, query) VALUES (?, ?)
`

const insertLinksPrefix = "INSERT INTO linked_hotels\n  (run_id, offering_id, hotel_id, score, offering_name, hotel_name)\nVALUES "

const insertRankedPrefix = "INSERT INTO ranked_hotels\n  (run_id, position, hotel_id, name, score, key_points, price_total, price_currency)\nVALUES "

const latestRunSQL = `
SELECT id, locality, query, created_at
FROM runs
ORDER BY id DESC
LIMIT 1
`

const runExistsSQL = `
SELECT 1 FROM runs WHERE id = ?
`

const runResultsSQL = `
SELECT hotel_id, name, score, key_points, price_total, price_currency
FROM ranked_hotels
WHERE run_id = ?
ORDER BY position
`
