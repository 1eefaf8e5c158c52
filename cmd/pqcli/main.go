// Command pqcli is a thin smoke-test harness wiring db.Open against a
// real server: connect, run a statement, print results. It exists to
// exercise the library end to end, not as a feature surface in its own
// right (SPEC_FULL.md's Ambient Stack names it explicitly as such).
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	pqasync "github.com/pq-async/pqgo/async"
	pqcfg "github.com/pq-async/pqgo/config"
	pqdb "github.com/pq-async/pqgo/db"
	pqlog "github.com/pq-async/pqgo/logging"
	"github.com/pq-async/pqgo/pool"
	pqresult "github.com/pq-async/pqgo/result"
)

// Flag defaults below mirror config.DefaultOptions() (§4.G capacity 20,
// synchronous scheduling, 2-digit money); kong's default tag must be a
// literal, so they're restated rather than read from that struct.
var cli struct {
	DSN     string `help:"libpq-style connection string." default:"host=localhost port=5432 dbname=postgres user=postgres sslmode=disable" env:"PQGO_DSN"`
	Verbose bool   `help:"enable debug logging." short:"v"`

	PoolCapacity int  `help:"connection pool capacity." default:"20"`
	ThreadSafe   bool `help:"run the event queue in thread-safe (parallel) mode."`
	MoneyDigits  int  `help:"fractional digits assumed for money columns." default:"2"`

	Exec  execCmd  `cmd:"" help:"run a statement and print its command tag."`
	Query queryCmd `cmd:"" help:"run a query and print its rows as JSON."`
}

type execCmd struct {
	SQL string `arg:"" help:"statement to execute."`
}

type queryCmd struct {
	SQL string `arg:"" help:"query to run."`
}

func main() {
	ctx := kong.Parse(&cli, kong.Description("smoke-test client for a Postgres wire-protocol library"))

	if cli.Verbose {
		pqlog.SetLevel(pqlog.Debug)
	} else {
		pqlog.SetLevel(pqlog.Warning)
	}

	cfg, err := pqcfg.Parse(cli.DSN)
	ctx.FatalIfErrorf(err)

	opts := pqcfg.DefaultOptions()
	opts.PoolCapacity = cli.PoolCapacity
	opts.ThreadSafe = cli.ThreadSafe
	opts.MoneyFractionalDigits = cli.MoneyDigits
	pqresult.SetMoneyFractionalDigits(opts.MoneyFractionalDigits)

	p := pool.Init(cfg, opts.PoolCapacity)
	queue := pqasync.NewQueue(opts.ThreadSafe)

	bg := context.Background()
	h, err := pqdb.Open(bg, p, queue)
	ctx.FatalIfErrorf(err)
	defer h.Close()

	switch ctx.Command() {
	case "exec <sql>":
		tag, err := h.Execute(bg, cli.Exec.SQL)
		ctx.FatalIfErrorf(err)
		fmt.Fprintln(os.Stdout, tag.Tag)
	case "query <sql>":
		table, err := h.Query(bg, cli.Query.SQL)
		ctx.FatalIfErrorf(err)
		js, err := table.ToJSON()
		ctx.FatalIfErrorf(err)
		fmt.Fprintln(os.Stdout, js)
	default:
		ctx.Fatalf("unhandled command %q", ctx.Command())
	}
}
