// Command lookup runs a single invoice search from the command line using
// the same environment configuration as the server.
//
//	lookup -q nicopel
//	lookup -json 12.345.678/0001-99
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/JonMunkholm/nflookup/internal/config"
	"github.com/JonMunkholm/nflookup/internal/core"
	_ "github.com/JonMunkholm/nflookup/internal/core/layouts" // Register all layouts
	"github.com/JonMunkholm/nflookup/internal/logging"
	"github.com/JonMunkholm/nflookup/internal/source"
	"github.com/joho/godotenv"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("lookup", flag.ContinueOnError)
	fs.SetOutput(stderr)
	query := fs.String("q", "", "search text (tax ID, name, invoice number, or carrier)")
	asJSON := fs.Bool("json", false, "print the result as JSON")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	q := *query
	if strings.TrimSpace(q) == "" {
		q = strings.Join(fs.Args(), " ")
	}
	if strings.TrimSpace(q) == "" {
		fmt.Fprintln(stderr, "usage: lookup [-json] -q <text>")
		fs.PrintDefaults()
		return 2
	}

	// .env is optional for the CLI
	_ = godotenv.Overload()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(stderr, "configuration error:", err)
		return 1
	}

	// Logs go to stderr so stdout stays parseable
	slog.SetDefault(logging.New(stderr, cfg.Logging.Level, cfg.Logging.Format))

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.RequestTimeout)
	defer cancel()

	src, layout, err := source.Open(ctx, &cfg.Source)
	if err != nil {
		return fail(ctx, stderr, err)
	}

	links, err := core.NewTrackingLinks(cfg.Search.DefaultTrackingURL, cfg.Search.TrackingURLs)
	if err != nil {
		fmt.Fprintln(stderr, "tracking configuration error:", err)
		return 1
	}

	result, err := core.NewService(src, layout, links).Search(ctx, q)
	if err != nil {
		return fail(ctx, stderr, err)
	}

	logging.WithFields(ctx, "search_id", result.ID.String()).Info("search",
		"query_len", len([]rune(q)),
		"scanned", result.Scanned,
		"matches", result.Count,
		"duration_ms", result.Duration.Milliseconds(),
	)

	if *asJSON {
		err = writeJSON(stdout, result)
	} else {
		err = writeText(stdout, result)
	}
	if err != nil {
		fmt.Fprintln(stderr, "write error:", err)
		return 1
	}
	return 0
}

// fail logs err and prints the user-facing message. Unclassified errors
// exit 1; source and search errors exit 3.
func fail(ctx context.Context, stderr io.Writer, err error) int {
	logging.FromContext(ctx).Error("search failed", "error", err, "kind", core.ErrorKind(err))
	fmt.Fprintln(stderr, core.FormatUserError(err))
	if !core.IsUserFacing(err) {
		fmt.Fprintln(stderr, "detail:", err)
	}

	var le *core.LoadError
	if errors.As(err, &le) || errors.Is(err, core.ErrColumnMissing) {
		return 3
	}
	return 1
}

func writeJSON(w io.Writer, result *core.SearchResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

func writeText(w io.Writer, result *core.SearchResult) error {
	if result.Count == 0 {
		fmt.Fprintf(w, "No records match %q (%d scanned)\n", result.Query, result.Scanned)
	} else {
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, strings.Join(result.Columns, "\t"))
		for _, rec := range result.Rows {
			cells := make([]string, len(result.Columns))
			for i, col := range result.Columns {
				cells[i] = rec[col]
			}
			fmt.Fprintln(tw, strings.Join(cells, "\t"))
		}
		if err := tw.Flush(); err != nil {
			return err
		}
		fmt.Fprintf(w, "\n%d of %d records match %q\n", result.Count, result.Scanned, result.Query)
	}

	if len(result.Tracking) > 0 {
		fmt.Fprintln(w, "\nTracking:")
		for _, link := range result.Tracking {
			name := link.Carrier
			if name == "" {
				name = "default"
			}
			fmt.Fprintf(w, "  %s: %s\n", name, link.URL)
		}
	}
	return nil
}
