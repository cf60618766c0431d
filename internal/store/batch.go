// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// batch.go implements deferred queries. Callers queue queries on a Batch
// and get back Futures; nothing touches the database until the batch is
// executed, either explicitly or by the first Future.Value call. All
// queries of one execution travel in a single pgx batch inside one
// read-only REPEATABLE READ transaction, so they share a snapshot.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
)

// ErrNoDatabase is returned when a batch with pending queries has no
// database to run against.
var ErrNoDatabase = errors.New("batch has no database")

// Batch collects deferred queries. A Batch is not safe for concurrent use;
// each request builds its own.
type Batch struct {
	db      *sql.DB
	pending []*pendingQuery
}

type pendingQuery struct {
	sql     string
	args    []any
	collect func(pgx.Rows) error
	fail    func(error)
	settled bool
}

// NewBatch returns an empty batch bound to db. db may be nil when every
// future the batch will see is already resolved.
func NewBatch(db *sql.DB) *Batch {
	return &Batch{db: db}
}

// Len returns the number of queries waiting for execution.
func (b *Batch) Len() int {
	return len(b.pending)
}

// Future is a value produced by a deferred query.
type Future[T any] struct {
	batch *Batch
	value T
	err   error
	ready bool
}

// Resolved returns a Future that already holds v.
func Resolved[T any](v T) *Future[T] {
	return &Future[T]{value: v, ready: true}
}

// Failed returns a Future that already holds err.
func Failed[T any](err error) *Future[T] {
	return &Future[T]{err: err, ready: true}
}

// Ready reports whether the value (or its error) is available without
// touching the database.
func (f *Future[T]) Ready() bool {
	return f.ready
}

// Value returns the result, executing the owning batch first if needed.
// Every pending query of that batch runs in the same round trip.
func (f *Future[T]) Value(ctx context.Context) (T, error) {
	if !f.ready {
		if f.batch == nil {
			var zero T
			return zero, fmt.Errorf("future: %w", ErrNoDatabase)
		}
		if err := f.batch.Execute(ctx); err != nil && !f.ready {
			var zero T
			return zero, err
		}
	}
	return f.value, f.err
}

// DeferRows queues a query whose rows are collected with fn.
func DeferRows[T any](b *Batch, query string, fn pgx.RowToFunc[T], args ...any) *Future[[]T] {
	f := &Future[[]T]{batch: b}
	q := &pendingQuery{sql: query, args: args}
	q.collect = func(rows pgx.Rows) error {
		items, err := pgx.CollectRows(rows, fn)
		if items == nil {
			items = []T{}
		}
		f.value, f.err, f.ready = items, err, true
		q.settled = true
		return err
	}
	q.fail = func(err error) {
		f.err, f.ready = err, true
		q.settled = true
	}
	b.pending = append(b.pending, q)
	return f
}

// DeferCount queues a query returning exactly one integer row, typically
// SELECT COUNT(*).
func DeferCount(b *Batch, query string, args ...any) *Future[int] {
	f := &Future[int]{batch: b}
	q := &pendingQuery{sql: query, args: args}
	q.collect = func(rows pgx.Rows) error {
		n, err := pgx.CollectExactlyOneRow(rows, pgx.RowTo[int])
		f.value, f.err, f.ready = n, err, true
		q.settled = true
		return err
	}
	q.fail = func(err error) {
		f.err, f.ready = err, true
		q.settled = true
	}
	b.pending = append(b.pending, q)
	return f
}

// Execute sends every pending query in one round trip. Queries queued
// after Execute returns wait for the next call. On error every future of
// the failed execution is settled with that error.
func (b *Batch) Execute(ctx context.Context) error {
	pending := b.pending
	b.pending = nil
	if len(pending) == 0 {
		return nil
	}

	err := b.run(ctx, pending)
	if err != nil {
		for _, q := range pending {
			if !q.settled {
				q.fail(err)
			}
		}
	}
	return err
}

func (b *Batch) run(ctx context.Context, pending []*pendingQuery) error {
	if b.db == nil {
		return fmt.Errorf("execute batch: %w", ErrNoDatabase)
	}

	conn, err := b.db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("batch acquire conn: %w", err)
	}
	defer conn.Close()

	return conn.Raw(func(driverConn any) error {
		sc, ok := driverConn.(*stdlib.Conn)
		if !ok {
			return fmt.Errorf("batch: unsupported driver connection %T", driverConn)
		}

		opts := pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly}
		return pgx.BeginTxFunc(ctx, sc.Conn(), opts, func(tx pgx.Tx) error {
			batch := &pgx.Batch{}
			for _, q := range pending {
				batch.Queue(q.sql, q.args...)
			}

			results := tx.SendBatch(ctx, batch)
			for i, q := range pending {
				rows, err := results.Query()
				if err != nil {
					results.Close()
					return fmt.Errorf("batch query %d: %w", i, err)
				}
				if err := q.collect(rows); err != nil {
					results.Close()
					return fmt.Errorf("batch query %d: %w", i, err)
				}
			}
			return results.Close()
		})
	})
}
