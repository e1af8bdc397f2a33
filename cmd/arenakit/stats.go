package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/pavanmanishd/arena/v2"
	"github.com/pavanmanishd/arena/v2/internal/config"
	"github.com/pavanmanishd/arena/v2/internal/logger"
	"github.com/spf13/cobra"
	"github.com/vmihailenco/msgpack/v5"
	"golang.org/x/sync/errgroup"
)

type statsOptions struct {
	workers    int
	iterations int
	chunkSize  int
	source     string
	format     string
	out        string
}

type statsReport struct {
	Workers []arena.Metrics `json:"workers" msgpack:"workers"`
	Total   arena.Metrics   `json:"total" msgpack:"total"`
}

func newStatsCmd() *cobra.Command {
	var opts statsOptions
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Run a container workload on pooled arenas and report allocator metrics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.chunkSize == 0 {
				opts.chunkSize = cfg.Arena.ChunkSize
			}
			if opts.source == "" {
				opts.source = cfg.Arena.Source
			}
			opts.format = strings.ToLower(opts.format)

			w := cmd.OutOrStdout()
			if opts.out != "" {
				f, err := os.Create(opts.out)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}
			return runStats(cmd.Context(), w, opts)
		},
	}
	cmd.Flags().IntVar(&opts.workers, "workers", 4, "number of concurrent workers, each with its own arena")
	cmd.Flags().IntVar(&opts.iterations, "iterations", 100, "workload rounds per worker")
	cmd.Flags().IntVar(&opts.chunkSize, "chunk-size", 0, "arena chunk size in bytes (default from config)")
	cmd.Flags().StringVar(&opts.source, "source", "", "chunk source (heap|mmap)")
	cmd.Flags().StringVar(&opts.format, "format", "text", "output format (text|json|msgpack)")
	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "write the report to a file instead of stdout")
	return cmd
}

func runStats(ctx context.Context, w io.Writer, opts statsOptions) error {
	switch opts.format {
	case "text", "json", "msgpack":
	default:
		return fmt.Errorf("unsupported format %q (must be text, json or msgpack)", opts.format)
	}
	if opts.workers <= 0 || opts.iterations <= 0 {
		return fmt.Errorf("workers and iterations must be positive")
	}
	src, err := config.ArenaConfig{Source: opts.source}.ChunkSource()
	if err != nil {
		return err
	}
	if ctx == nil {
		ctx = context.Background()
	}

	pool := arena.NewPool(opts.chunkSize, arena.WithChunkSource(src), arena.WithLogger(logger.L))
	defer pool.Destroy()

	report := statsReport{Workers: make([]arena.Metrics, opts.workers)}
	g, ctx := errgroup.WithContext(ctx)
	for i := range opts.workers {
		g.Go(func() (err error) {
			defer recoverFatal(&err)
			a := pool.Get()
			defer pool.Put(a)
			report.Workers[i], err = workload(ctx, a, i, opts.iterations)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	for _, m := range report.Workers {
		report.Total = report.Total.Merge(m)
	}
	logger.Debug("stats finished", "workers", opts.workers, "idle_arenas", pool.Idle())
	return writeReport(w, opts.format, report)
}

// recoverFatal stores a *arena.FatalError raised on a worker goroutine in
// *err. Other panics keep propagating.
func recoverFatal(err *error) {
	r := recover()
	if r == nil {
		return
	}
	fe, ok := r.(*arena.FatalError)
	if !ok {
		panic(r)
	}
	*err = fe
}

// workload builds string maps, integer sequences and text in a, clearing it
// between rounds. It returns the metrics of the final round.
func workload(ctx context.Context, a *arena.Arena, worker, rounds int) (arena.Metrics, error) {
	defer a.Trace().Frame("stats worker %d", worker)()

	const keys = 17
	for round := range rounds {
		if err := ctx.Err(); err != nil {
			return arena.Metrics{}, err
		}
		if round > 0 {
			a.Clear()
		}
		var (
			words arena.StrMap
			nums  arena.Vec[int64]
			text  arena.Str
		)
		for j := range 64 {
			key := arena.F(a, "w%d-%02d", worker, j%keys)
			words.At(a, key).AppendF(a, "%d,", j)
			nums.Push(a, int64(j))
			text.Append(a, key.Bytes()...)
			text.Push(a, ' ')
		}
		if words.Len() != keys {
			return arena.Metrics{}, fmt.Errorf("worker %d: expected %d keys, got %d", worker, keys, words.Len())
		}
		words.Erase(arena.F(a, "w%d-%02d", worker, 0))
		if words.Len() != keys-1 || nums.Len() != 64 {
			return arena.Metrics{}, fmt.Errorf("worker %d: inconsistent containers after round %d", worker, round)
		}
	}
	return a.Metrics(), nil
}

func writeReport(w io.Writer, format string, report statsReport) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	case "msgpack":
		return msgpack.NewEncoder(w).Encode(report)
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	header := color.New(color.Bold)
	header.Fprintln(tw, "worker\tin use\tpeak\tcapacity\tchunks\tallocs\tgrown in place\trelocated\treused chunks")
	row := func(name string, m arena.Metrics) {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\t%d\t%d\t%d\t%d\n",
			name, m.SizeInUse, m.Peak, m.Capacity, m.NumChunks, m.Allocations, m.TailGrowths, m.Relocations, m.ChunkReuses)
	}
	for i, m := range report.Workers {
		row(fmt.Sprint(i), m)
	}
	row("total", report.Total)
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "utilization: %.2f%%\n", report.Total.Utilization*100)
	return err
}
