package example

import (
	"context"
	"fmt"

	"github.com/pebblescale/sqlbind"
	"github.com/pebblescale/sqlbind/backend/sqlite"
	"github.com/pebblescale/sqlbind/internal/ansi"
)

func example() {
	be, err := sqlite.Open(":memory:")
	if err != nil {
		panic(err)
	}
	defer be.Close()
	// An in-memory database exists per connection; keep a single one.
	be.PlainDB().SetMaxOpenConns(1)

	ctx := context.Background()
	session := sqlbind.New(be, ansi.New())

	people := &sqlbind.Table{
		Name: "people",
		Columns: []sqlbind.Column{
			{Name: "id", Type: sqlbind.KindInt, Attrs: sqlbind.ColumnAttrs{PrimaryKey: true, AutoIncrement: true}},
			{Name: "name", Type: sqlbind.KindText},
			{Name: "team", Type: sqlbind.KindText},
		},
	}
	if err := session.CreateTable(ctx, people); err != nil {
		panic(err)
	}

	_, err = session.Insert(ctx, people, [][]sqlbind.Value{
		{sqlbind.Text("Alastair"), sqlbind.Text("engineering")},
		{sqlbind.Text("Ed"), sqlbind.Text("engineering")},
		{sqlbind.Text("Marco"), sqlbind.Text("engineering")},
		{sqlbind.Text("Pedro"), sqlbind.Text("management")},
		{sqlbind.Text("Joe"), sqlbind.Text("marketing")},
		{sqlbind.Text("Sam"), sqlbind.Text("hr")},
	})
	if err != nil {
		panic(err)
	}

	// Generated keys come back from the insert itself.
	key, err := session.InsertWithKey(ctx, people, [][]sqlbind.Value{
		{sqlbind.Text("Gustavo"), sqlbind.Text("leadership")},
	})
	if err != nil {
		panic(err)
	}
	fmt.Printf("Gustavo got id %d.\n", key)

	// Find everyone on the engineering team.
	rows, err := session.Query(ctx, ansi.Select{
		Table: people,
		Where: &ansi.Where{Cond: "team = ?", Args: []sqlbind.Value{sqlbind.Text("engineering")}},
	})
	if err != nil {
		panic(err)
	}
	for _, row := range rows {
		fmt.Printf("%s is on the engineering team.\n", row[1].Text())
	}

	// Promote Ed.
	n, err := session.Update(ctx, people,
		ansi.Set{Expr: "team = ?", Args: []sqlbind.Value{sqlbind.Text("management")}},
		ansi.Where{Cond: "name = ?", Args: []sqlbind.Value{sqlbind.Text("Ed")}},
	)
	if err != nil {
		panic(err)
	}
	fmt.Printf("%d person promoted.\n", n)

	if err := session.DropTable(ctx, people); err != nil {
		panic(err)
	}
}
