package store

import (
	"database/sql"
	"time"

	"github.com/blackwell-systems/teamlens/internal/aggregate"
)

// Snapshot is one recorded track run.
type Snapshot struct {
	ID      int64
	TakenAt time.Time
	Period  aggregate.Period
	Version string
}

// KPIMetricRow is one persisted KPI counter.
type KPIMetricRow struct {
	SnapshotID int64
	Metric     string
	Current    int
	Previous   int
	ChangeRate float64
}

// UserTotalRow is one persisted leaderboard row.
type UserTotalRow struct {
	SnapshotID int64
	UID        string
	Name       string
	Total      int
}

// CreateSnapshot inserts a new snapshot and returns its ID.
func (db *DB) CreateSnapshot(period aggregate.Period, version string) (int64, error) {
	result, err := db.conn.Exec(
		"INSERT INTO snapshots (taken_at, period, version) VALUES (?, ?, ?)",
		time.Now().UTC().Format(time.RFC3339), string(period), version,
	)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// GetLatestSnapshot returns the most recent snapshot, or nil if none exist.
func (db *DB) GetLatestSnapshot() (*Snapshot, error) {
	row := db.conn.QueryRow("SELECT id, taken_at, period, version FROM snapshots ORDER BY id DESC LIMIT 1")
	return scanSnapshot(row)
}

// GetSnapshotN returns the Nth most recent snapshot (1 = latest, 2 = previous, etc.).
func (db *DB) GetSnapshotN(n int) (*Snapshot, error) {
	row := db.conn.QueryRow(
		"SELECT id, taken_at, period, version FROM snapshots ORDER BY id DESC LIMIT 1 OFFSET ?",
		n-1,
	)
	return scanSnapshot(row)
}

func scanSnapshot(row *sql.Row) (*Snapshot, error) {
	var s Snapshot
	var takenAt, period string
	err := row.Scan(&s.ID, &takenAt, &period, &s.Version)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	s.TakenAt, _ = time.Parse(time.RFC3339, takenAt)
	s.Period = aggregate.Period(period)
	return &s, nil
}

// InsertKPIMetric persists one KPI counter for a snapshot.
func (db *DB) InsertKPIMetric(m *KPIMetricRow) error {
	_, err := db.conn.Exec(
		"INSERT INTO kpi_metrics (snapshot_id, metric, current, previous, change_rate) VALUES (?, ?, ?, ?, ?)",
		m.SnapshotID, m.Metric, m.Current, m.Previous, m.ChangeRate,
	)
	return err
}

// InsertUserTotal persists one leaderboard row for a snapshot.
func (db *DB) InsertUserTotal(u *UserTotalRow) error {
	_, err := db.conn.Exec(
		"INSERT INTO user_totals (snapshot_id, uid, name, total) VALUES (?, ?, ?, ?)",
		u.SnapshotID, u.UID, u.Name, u.Total,
	)
	return err
}

// KPIMetrics returns every KPI counter recorded for a snapshot.
func (db *DB) KPIMetrics(snapshotID int64) ([]KPIMetricRow, error) {
	rows, err := db.conn.Query(
		"SELECT snapshot_id, metric, current, previous, change_rate FROM kpi_metrics WHERE snapshot_id = ? ORDER BY metric",
		snapshotID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var metrics []KPIMetricRow
	for rows.Next() {
		var m KPIMetricRow
		if err := rows.Scan(&m.SnapshotID, &m.Metric, &m.Current, &m.Previous, &m.ChangeRate); err != nil {
			return nil, err
		}
		metrics = append(metrics, m)
	}
	return metrics, rows.Err()
}

// UserTotals returns every leaderboard row recorded for a snapshot, highest
// total first.
func (db *DB) UserTotals(snapshotID int64) ([]UserTotalRow, error) {
	rows, err := db.conn.Query(
		"SELECT snapshot_id, uid, name, total FROM user_totals WHERE snapshot_id = ? ORDER BY total DESC",
		snapshotID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var totals []UserTotalRow
	for rows.Next() {
		var u UserTotalRow
		if err := rows.Scan(&u.SnapshotID, &u.UID, &u.Name, &u.Total); err != nil {
			return nil, err
		}
		totals = append(totals, u)
	}
	return totals, rows.Err()
}

// SaveKPIs records a full KPI summary plus user totals as one snapshot.
func (db *DB) SaveKPIs(period aggregate.Period, version string, kpis aggregate.KPISummary, users []aggregate.UserSummary) (int64, error) {
	id, err := db.CreateSnapshot(period, version)
	if err != nil {
		return 0, err
	}

	metrics := []struct {
		name   string
		bucket aggregate.KPIBucket
	}{
		{"skills", kpis.Skills},
		{"subagents", kpis.Subagents},
		{"mcp_calls", kpis.MCPCalls},
		{"messages", kpis.Messages},
		{"sessions", kpis.Sessions},
	}
	for _, m := range metrics {
		if err := db.InsertKPIMetric(&KPIMetricRow{
			SnapshotID: id,
			Metric:     m.name,
			Current:    m.bucket.Current,
			Previous:   m.bucket.Previous,
			ChangeRate: m.bucket.ChangeRate,
		}); err != nil {
			return 0, err
		}
	}

	for _, u := range users {
		if err := db.InsertUserTotal(&UserTotalRow{
			SnapshotID: id,
			UID:        u.UID,
			Name:       u.Name,
			Total:      u.Total,
		}); err != nil {
			return 0, err
		}
	}

	return id, nil
}
