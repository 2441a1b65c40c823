package mysql

// Correlation ids are unique per call; a replayed insert only refreshes seen_at.
const insertFailureSQL = `
INSERT INTO upstream_failures
  (operation, http_status, session_id, correlation_id, detail, seen_at)
VALUES
  (?, ?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE seen_at = VALUES(seen_at)
`

// Newest first; served by idx_op_seen.
const recentFailuresSQL = `
SELECT operation, http_status, session_id, correlation_id, COALESCE(detail, ''), seen_at
FROM upstream_failures
WHERE operation = ?
ORDER BY seen_at DESC, id DESC
LIMIT ?
`
