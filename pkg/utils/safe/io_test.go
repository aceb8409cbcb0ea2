package safe_test

import (
	"bytes"
	"database/sql"
	"errors"
	"testing"

	"github.com/lexdesk/casework/pkg/utils/safe"
	"github.com/m-mizutani/gt"
)

type failingCloser struct{ called bool }

func (c *failingCloser) Close() error {
	c.called = true
	return errors.New("close failed")
}

type fakeTx struct{ err error }

func (tx *fakeTx) Rollback() error { return tx.err }

func TestClose(t *testing.T) {
	c := &failingCloser{}
	safe.Close(t.Context(), c)
	gt.B(t, c.called).True()

	safe.Close(t.Context(), nil)
}

func TestWrite(t *testing.T) {
	var buf bytes.Buffer
	safe.Write(t.Context(), &buf, []byte("hello"))
	gt.String(t, buf.String()).Equal("hello")

	safe.Write(t.Context(), nil, []byte("ignored"))
}

func TestRollback(t *testing.T) {
	safe.Rollback(t.Context(), &fakeTx{err: sql.ErrTxDone})
	safe.Rollback(t.Context(), &fakeTx{err: errors.New("rollback failed")})
	safe.Rollback(t.Context(), nil)
}
