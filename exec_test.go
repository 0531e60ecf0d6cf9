package sqlbind_test

import (
	"context"
	"errors"
	"time"

	. "gopkg.in/check.v1"

	"github.com/pebblescale/sqlbind"
)

type ExecSuite struct{}

var _ = Suite(&ExecSuite{})

func (s *ExecSuite) TestInsertReturnsRowCount(c *C) {
	session, be := newFakeSession()
	be.count = 2
	n, err := session.Insert(context.Background(), peopleTable(), [][]sqlbind.Value{
		{sqlbind.Text("Link"), sqlbind.Int64(125)},
		{sqlbind.Text("Zelda"), sqlbind.Int64(119)},
	})
	c.Assert(err, IsNil)
	c.Assert(n, Equals, int64(2))
	c.Assert(be.calls, DeepEquals, []string{"insert people/2"})
	c.Assert(be.params[0], HasLen, 4)
}

func (s *ExecSuite) TestInsertEmptyBatchIsNoOp(c *C) {
	session, be := newFakeSession()
	n, err := session.Insert(context.Background(), peopleTable(), nil)
	c.Assert(err, IsNil)
	c.Assert(n, Equals, int64(0))
	c.Assert(be.calls, HasLen, 0)
}

func (s *ExecSuite) TestOperationOrderPreserved(c *C) {
	ctx := context.Background()
	session, be := newFakeSession()
	people := peopleTable()
	row := [][]sqlbind.Value{{sqlbind.Text("Link"), sqlbind.Int64(125)}}

	c.Assert(session.CreateTable(ctx, people), IsNil)
	_, err := session.Insert(ctx, people, row)
	c.Assert(err, IsNil)
	_, err = session.Query(ctx, fakeQuery{sql: "query people"})
	c.Assert(err, IsNil)
	_, err = session.Delete(ctx, people, "age > 200")
	c.Assert(err, IsNil)
	c.Assert(session.DropTable(ctx, people), IsNil)

	c.Assert(be.calls, DeepEquals, []string{
		"create fail people (id FAKEKEY, name default, age default)",
		"insert people/1",
		"query people",
		"delete people where=age > 200",
		"drop fail people",
	})
}

func (s *ExecSuite) TestInsertWithKey(c *C) {
	session, be := newFakeSession()
	be.key = 42
	key, err := session.InsertWithKey(context.Background(), peopleTable(), [][]sqlbind.Value{
		{sqlbind.Text("Link"), sqlbind.Int64(125)},
	})
	c.Assert(err, IsNil)
	c.Assert(key, Equals, int64(42))
	c.Assert(be.calls, DeepEquals, []string{"key:insert people/1"})
}

func (s *ExecSuite) TestInsertWithKeyRejectsMultiRow(c *C) {
	session, be := newFakeSession()
	_, err := session.InsertWithKey(context.Background(), peopleTable(), [][]sqlbind.Value{
		{sqlbind.Text("Link"), sqlbind.Int64(125)},
		{sqlbind.Text("Zelda"), sqlbind.Int64(119)},
	})
	c.Assert(err, Equals, sqlbind.ErrMultiRowKey)
	c.Assert(be.calls, HasLen, 0)
}

func (s *ExecSuite) TestInsertWithKeyNeedsAutoKeyColumn(c *C) {
	session, be := newFakeSession()
	plain := &sqlbind.Table{
		Name: "notes",
		Columns: []sqlbind.Column{
			{Name: "body", Type: sqlbind.KindText},
		},
	}
	_, err := session.InsertWithKey(context.Background(), plain, [][]sqlbind.Value{{sqlbind.Text("x")}})
	c.Assert(err, ErrorMatches, `cannot insert with key: table "notes" has no auto-incrementing primary key`)
	c.Assert(be.calls, HasLen, 0)
}

func (s *ExecSuite) TestInsertWithKeyNoGeneratedKey(c *C) {
	session, be := newFakeSession()
	be.keyErr = sqlbind.ErrNoGeneratedKey
	_, err := session.InsertWithKey(context.Background(), peopleTable(), [][]sqlbind.Value{
		{sqlbind.Text("Link"), sqlbind.Int64(125)},
	})
	c.Assert(err, Equals, sqlbind.ErrNoGeneratedKey)
}

func (s *ExecSuite) TestBackendErrorPropagatesVerbatim(c *C) {
	session, be := newFakeSession()
	boom := &sqlbind.BackendError{Err: errors.New("constraint violated")}
	be.execErr = boom
	_, err := session.Insert(context.Background(), peopleTable(), [][]sqlbind.Value{
		{sqlbind.Text("Link"), sqlbind.Int64(125)},
	})
	c.Assert(err, Equals, error(boom))
	c.Assert(err, ErrorMatches, "backend: constraint violated")
}

func (s *ExecSuite) TestUpdateReturnsRowCount(c *C) {
	session, be := newFakeSession()
	be.count = 3
	n, err := session.Update(context.Background(), peopleTable(), "age = age + 1", "age > 100")
	c.Assert(err, IsNil)
	c.Assert(n, Equals, int64(3))
	c.Assert(be.calls, DeepEquals, []string{"update people set=age = age + 1 where=age > 100"})
}

type DecodeSuite struct{}

var _ = Suite(&DecodeSuite{})

// queryWith runs a canned query against a backend scripted to return the
// given raw rows.
func queryWith(c *C, shape sqlbind.ResultShape, raw [][]sqlbind.Value) ([]sqlbind.Row, error) {
	session, be := newFakeSession()
	be.rows = raw
	be.count = int64(len(raw))
	return session.Query(context.Background(), fakeQuery{sql: "query people", shape: shape})
}

func (s *DecodeSuite) TestDecodeMatchingRow(c *C) {
	shape := sqlbind.ResultShape{
		sqlbind.Col(sqlbind.KindInt),
		sqlbind.Col(sqlbind.KindText),
		sqlbind.Col(sqlbind.KindInt),
	}
	rows, err := queryWith(c, shape, [][]sqlbind.Value{
		{sqlbind.Int64(1), sqlbind.Text("Link"), sqlbind.Int64(125)},
		{sqlbind.Int64(2), sqlbind.Text("Zelda"), sqlbind.Int64(119)},
	})
	c.Assert(err, IsNil)
	c.Assert(rows, HasLen, 2)
	c.Assert(rows[0][1].Text(), Equals, "Link")
	c.Assert(rows[1][2].Int64(), Equals, int64(119))
}

func (s *DecodeSuite) TestDecodeArityMismatch(c *C) {
	shape := sqlbind.ResultShape{
		sqlbind.Col(sqlbind.KindInt),
		sqlbind.Col(sqlbind.KindText),
	}
	_, err := queryWith(c, shape, [][]sqlbind.Value{
		{sqlbind.Int64(1), sqlbind.Text("Link"), sqlbind.Int64(125)},
	})
	var derr *sqlbind.DecodeError
	c.Assert(errors.As(err, &derr), Equals, true)
	c.Assert(derr.Column, Equals, 0)
	c.Assert(err, ErrorMatches, "cannot decode row: expected 2 columns, got 3")
}

func (s *DecodeSuite) TestDecodeKindMismatch(c *C) {
	shape := sqlbind.ResultShape{sqlbind.Col(sqlbind.KindInt)}
	_, err := queryWith(c, shape, [][]sqlbind.Value{{sqlbind.Text("not a number")}})
	var derr *sqlbind.DecodeError
	c.Assert(errors.As(err, &derr), Equals, true)
	c.Assert(derr.Column, Equals, 1)
	c.Assert(err, ErrorMatches, "cannot decode column 1: have text, want int")
}

func (s *DecodeSuite) TestDecodeNullability(c *C) {
	nullable := sqlbind.ResultShape{sqlbind.NullableCol(sqlbind.KindText)}
	rows, err := queryWith(c, nullable, [][]sqlbind.Value{{sqlbind.Null()}})
	c.Assert(err, IsNil)
	c.Assert(rows[0][0].IsNull(), Equals, true)

	required := sqlbind.ResultShape{sqlbind.Col(sqlbind.KindText)}
	_, err = queryWith(c, required, [][]sqlbind.Value{{sqlbind.Null()}})
	var derr *sqlbind.DecodeError
	c.Assert(errors.As(err, &derr), Equals, true)
}

func (s *DecodeSuite) TestDecodeDriverConversions(c *C) {
	when := time.Date(2024, 5, 17, 10, 30, 0, 0, time.UTC)
	shape := sqlbind.ResultShape{
		sqlbind.Col(sqlbind.KindBool),
		sqlbind.Col(sqlbind.KindFloat),
		sqlbind.Col(sqlbind.KindText),
		sqlbind.Col(sqlbind.KindTime),
	}
	rows, err := queryWith(c, shape, [][]sqlbind.Value{{
		sqlbind.Int64(1),
		sqlbind.Int64(3),
		sqlbind.Blob([]byte("Link")),
		sqlbind.Text(when.Format(time.RFC3339Nano)),
	}})
	c.Assert(err, IsNil)
	c.Assert(rows[0][0].Bool(), Equals, true)
	c.Assert(rows[0][1].Float64(), Equals, 3.0)
	c.Assert(rows[0][2].Text(), Equals, "Link")
	c.Assert(rows[0][3].Time().Equal(when), Equals, true)
}

func (s *DecodeSuite) TestDecodeRefusesLossyConversions(c *C) {
	// A float is not decodable as int even when it is integral: the
	// declared target type is the narrower one.
	shape := sqlbind.ResultShape{sqlbind.Col(sqlbind.KindInt)}
	_, err := queryWith(c, shape, [][]sqlbind.Value{{sqlbind.Float64(2.0)}})
	var derr *sqlbind.DecodeError
	c.Assert(errors.As(err, &derr), Equals, true)

	// Bools only come from 0 or 1.
	shape = sqlbind.ResultShape{sqlbind.Col(sqlbind.KindBool)}
	_, err = queryWith(c, shape, [][]sqlbind.Value{{sqlbind.Int64(2)}})
	c.Assert(errors.As(err, &derr), Equals, true)
}
