// Package snapshot keeps the envelopes returned by past fetches so the CLI
// can show them again without a session.
package snapshot

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
	"ucassist-backend/internal/components/assert"
	"ucassist-backend/internal/components/chrono"
	"ucassist-backend/internal/components/telemetry"
	"ucassist-backend/internal/db"
	"ucassist-backend/internal/models"
)

const (
	report_db_query      = "db.query"
	report_make_snapshot = "snapshot.make-snapshot"
)

var ErrNotFound = errors.New("snapshot not found")

type Snapshot struct {
	Id        int64
	Operation string
	Code      models.Code
	Data      json.RawMessage
	CreatedAt time.Time
}

// Envelope rebuilds the stored envelope, data stays raw json.
func (s Snapshot) Envelope() models.Envelope {
	return models.Envelope{Code: s.Code, Data: s.Data}
}

type Store struct {
	conn   *sql.DB
	makeTx db.MakeTx
	time   chrono.API
	// keep is the number of snapshots kept per operation, 0 keeps all of them.
	keep int
	tel  telemetry.API
}

func NewStore(conn *sql.DB, time chrono.API, keep int, tel telemetry.API) Store {
	assert.NotNil(conn, "db")
	assert.NotNil(time, "time")
	assert.NotNil(tel, "telemetry")

	return Store{
		conn:   conn,
		makeTx: db.NewMakeTx(conn),
		time:   time,
		keep:   keep,
		tel:    telemetry.NewScopedAPI("snapshot", tel),
	}
}

// Save stores env under operation and drops the oldest snapshots of that
// operation past the retention limit.
func (s Store) Save(ctx context.Context, operation string, env models.Envelope) (int64, error) {
	data, err := json.Marshal(env.Data)
	if err != nil {
		s.tel.ReportBroken(report_make_snapshot, fmt.Errorf("marshal: %w", err), operation)
		return 0, err
	}

	tx, discard, commit, err := s.makeTx(ctx)
	if err != nil {
		s.tel.ReportBroken(report_db_query, fmt.Errorf("make tx: %w", err))
		return 0, err
	}
	defer discard()

	res, err := tx.ExecContext(
		ctx,
		"insert into snapshot (operation, code, data, created_at) values (?, ?, ?, ?)",
		operation, int64(env.Code), string(data), s.time.Now().Unix(),
	)
	if err != nil {
		s.tel.ReportBroken(report_db_query, err, "InsertSnapshot", operation)
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		s.tel.ReportBroken(report_db_query, err, "LastInsertId", operation)
		return 0, err
	}

	if s.keep > 0 {
		_, err = tx.ExecContext(
			ctx,
			`delete from snapshot where operation = ? and id not in (
				select id from snapshot where operation = ? order by id desc limit ?
			)`,
			operation, operation, s.keep,
		)
		if err != nil {
			s.tel.ReportBroken(report_db_query, err, "PruneSnapshots", operation)
			return 0, err
		}
	}

	err = commit()
	if err != nil {
		s.tel.ReportBroken(report_db_query, fmt.Errorf("commit: %w", err))
		return 0, err
	}
	s.tel.ReportDebug("saved snapshot", operation, id)
	return id, nil
}

// List returns the latest snapshots of operation, newest first.
func (s Store) List(ctx context.Context, operation string, limit int) ([]Snapshot, error) {
	rows, err := s.conn.QueryContext(
		ctx,
		"select id, operation, code, data, created_at from snapshot where operation = ? order by id desc limit ?",
		operation, limit,
	)
	if err != nil {
		s.tel.ReportBroken(report_db_query, err, "ListSnapshots", operation)
		return nil, err
	}
	defer rows.Close()

	var out []Snapshot
	for rows.Next() {
		var (
			snap      Snapshot
			code      int64
			data      string
			createdAt int64
		)
		err = rows.Scan(&snap.Id, &snap.Operation, &code, &data, &createdAt)
		if err != nil {
			s.tel.ReportBroken(report_db_query, err, "ScanSnapshot", operation)
			return nil, err
		}
		snap.Code = models.Code(code)
		snap.Data = json.RawMessage(data)
		snap.CreatedAt = time.Unix(createdAt, 0).In(chrono.Campus())
		out = append(out, snap)
	}
	err = rows.Err()
	if err != nil {
		s.tel.ReportBroken(report_db_query, err, "ListSnapshots", operation)
		return nil, err
	}
	return out, nil
}

func (s Store) Latest(ctx context.Context, operation string) (Snapshot, error) {
	list, err := s.List(ctx, operation, 1)
	if err != nil {
		return Snapshot{}, err
	}
	if len(list) == 0 {
		return Snapshot{}, ErrNotFound
	}
	return list[0], nil
}
