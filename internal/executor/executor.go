package executor

import (
	"context"

	"github.com/tuannm99/simpledb/internal/heap"
	"github.com/tuannm99/simpledb/internal/record"
)

// OpIterator is the contract every operator in a query plan implements.
type OpIterator interface {
	heap.DbFileIterator
	// Schema describes the tuples the operator produces.
	Schema() record.Schema
}

// Tables is the part of the catalog operators resolve tables through.
type Tables interface {
	DatabaseFile(id int32) (heap.DbFile, error)
	TableName(id int32) (string, error)
}

// Collect opens op, drains it and closes it.
func Collect(ctx context.Context, op OpIterator) (*Result, error) {
	if err := op.Open(ctx); err != nil {
		return nil, err
	}
	defer op.Close()

	res := &Result{}
	for _, c := range op.Schema().Columns() {
		res.Columns = append(res.Columns, c.DisplayName())
	}
	for {
		ok, err := op.HasNext(ctx)
		if err != nil {
			return nil, err
		}
		if !ok {
			return res, nil
		}
		t, err := op.Next(ctx)
		if err != nil {
			return nil, err
		}
		res.Rows = append(res.Rows, t.Values())
	}
}
