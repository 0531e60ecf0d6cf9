package demo

import (
	"context"
	"fmt"
	"os"

	"github.com/canonical/go-dqlite/app"

	"github.com/pebblescale/sqlbind"
	"github.com/pebblescale/sqlbind/backend/sqlite"
	"github.com/pebblescale/sqlbind/internal/ansi"
)

// example runs the usual walkthrough against a single-node dqlite cluster.
// dqlite speaks the sqlite dialect over its own replicated storage, so the
// handle it opens plugs straight into the sqlite backend.
func example() error {
	dir, err := os.MkdirTemp("", "sqlbind-demo")
	if err != nil {
		return err
	}
	defer os.RemoveAll(dir)

	node, err := app.New(dir, app.WithAddress("127.0.0.1:9001"))
	if err != nil {
		return err
	}
	defer node.Close()

	ctx := context.Background()
	if err := node.Ready(ctx); err != nil {
		return err
	}
	db, err := node.Open(ctx, "demo")
	if err != nil {
		return err
	}

	be := sqlite.New(db)
	defer be.Close()
	session := sqlbind.New(be, ansi.New())

	towns := &sqlbind.Table{
		Name: "towns",
		Columns: []sqlbind.Column{
			{Name: "id", Type: sqlbind.KindInt, Attrs: sqlbind.ColumnAttrs{PrimaryKey: true, AutoIncrement: true}},
			{Name: "name", Type: sqlbind.KindText},
			{Name: "population", Type: sqlbind.KindInt},
		},
	}
	if err := session.TryCreateTable(ctx, towns); err != nil {
		return err
	}

	_, err = session.Insert(ctx, towns, [][]sqlbind.Value{
		{sqlbind.Text("Kabul"), sqlbind.Int64(13000000)},
		{sqlbind.Text("Berlin"), sqlbind.Int64(3677472)},
		{sqlbind.Text("Brasília"), sqlbind.Int64(3039444)},
		{sqlbind.Text("Cape Town"), sqlbind.Int64(4710000)},
	})
	if err != nil {
		return err
	}

	// Towns with more than four million people.
	rows, err := session.Query(ctx, ansi.Select{
		Table: towns,
		Where: &ansi.Where{Cond: "population > ?", Args: []sqlbind.Value{sqlbind.Int64(4000000)}},
	})
	if err != nil {
		return err
	}
	for _, row := range rows {
		fmt.Printf("%s has %d people.\n", row[1].Text(), row[2].Int64())
	}

	// Writes replicate through the cluster before Transact returns.
	return session.Transact(ctx, func(ctx context.Context, tx *sqlbind.Session) error {
		_, err := tx.Update(ctx, towns,
			ansi.Set{Expr: "population = population + ?", Args: []sqlbind.Value{sqlbind.Int64(1)}},
			ansi.Where{Cond: "name = ?", Args: []sqlbind.Value{sqlbind.Text("Berlin")}},
		)
		return err
	})
}

func main() {
	err := example()
	if err != nil {
		panic(err)
	}
}
