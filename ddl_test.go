package sqlbind_test

import (
	"context"

	. "gopkg.in/check.v1"
)

type DDLSuite struct{}

var _ = Suite(&DDLSuite{})

func (s *DDLSuite) TestCreateTableCompilesWithFailPolicy(c *C) {
	session, be := newFakeSession()
	err := session.CreateTable(context.Background(), peopleTable())
	c.Assert(err, IsNil)
	c.Assert(be.calls, DeepEquals, []string{"create fail people (id FAKEKEY, name default, age default)"})
}

func (s *DDLSuite) TestTryCreateTableCompilesWithIgnorePolicy(c *C) {
	session, be := newFakeSession()
	err := session.TryCreateTable(context.Background(), peopleTable())
	c.Assert(err, IsNil)
	c.Assert(be.calls, DeepEquals, []string{"create ignore people (id FAKEKEY, name default, age default)"})
}

func (s *DDLSuite) TestDropTablePolicies(c *C) {
	ctx := context.Background()
	session, be := newFakeSession()
	c.Assert(session.DropTable(ctx, peopleTable()), IsNil)
	c.Assert(session.TryDropTable(ctx, peopleTable()), IsNil)
	c.Assert(be.calls, DeepEquals, []string{"drop fail people", "drop ignore people"})
}

func (s *DDLSuite) TestColumnTypeHookReachesCompiler(c *C) {
	// The backend overrides the auto-key column; the compiled create must
	// carry that override, proving the hook was threaded through.
	session, be := newFakeSession()
	err := session.CreateTable(context.Background(), peopleTable())
	c.Assert(err, IsNil)
	c.Assert(be.calls[0], Matches, ".*id FAKEKEY.*")
}
