package mysql

// SchemaSQL creates the leads table. Applied by ops tooling in production
// and executed directly by the integration test.
const SchemaSQL = `
CREATE TABLE IF NOT EXISTS leads (
  id          VARCHAR(36)  NOT NULL,
  name        VARCHAR(255) NOT NULL,
  email       VARCHAR(255) NOT NULL,
  phone       VARCHAR(64)  NOT NULL,
  message     TEXT         NOT NULL,
  property_id VARCHAR(64)  NULL,
  lead_type   VARCHAR(16)  NULL,
  created_at  TIMESTAMP    NOT NULL DEFAULT CURRENT_TIMESTAMP,
  PRIMARY KEY (id),
  KEY idx_leads_created (created_at)
)
`

// Idempotent on id so a retried forward never duplicates a lead.
const insertLeadSQL = `
INSERT INTO leads
  (id, name, email, phone, message, property_id, lead_type)
VALUES
  (?, ?, ?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  id = leads.id
`

const getLeadSQL = `
SELECT id, name, email, phone, message, property_id, lead_type
FROM leads
WHERE id = ?
`
