package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/dmitrijs2005/soldbd/internal/buildinfo"
)

type healthResponse struct {
	OK      bool   `json:"ok"`
	Backend string `json:"backend"`
	DB      string `json:"db"`
	TS      string `json:"ts"`
}

type dbCheck struct {
	Key     string `json:"key"`
	Label   string `json:"label"`
	OK      bool   `json:"ok"`
	Message string `json:"message"`
}

// status prints public health first; diagnostics need a session and are
// skipped with a note when the call fails.
func (a *App) status(ctx context.Context, _ []string) error {
	var h healthResponse
	if err := a.api.Call(ctx, "health", callGet(), &h); err != nil {
		return err
	}
	a.printf("API:      ok=%t backend=%s db=%s ts=%s\n", h.OK, h.Backend, h.DB, h.TS)

	var d struct {
		OK     bool      `json:"ok"`
		Checks []dbCheck `json:"checks"`
	}
	if err := a.api.Call(ctx, "admin-db-status", callGet(), &d); err != nil {
		a.printf("Database: diagnostics unavailable (%v)\n", err)
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	defer tw.Flush()
	for _, c := range d.Checks {
		fprintRow(tw, c.Label, okMark(c.OK), c.Message)
	}
	return nil
}

func (a *App) signups(ctx context.Context, _ []string) error {
	var out struct {
		Signups []struct {
			ID        string `json:"id"`
			Email     string `json:"email"`
			CreatedAt string `json:"created_at"`
		} `json:"signups"`
	}
	if err := a.api.Call(ctx, "admin-early-access", callGet(), &out); err != nil {
		return err
	}
	if len(out.Signups) == 0 {
		a.printf("No signups yet\n")
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	defer tw.Flush()
	fprintRow(tw, "ID", "EMAIL", "CREATED")
	for _, s := range out.Signups {
		fprintRow(tw, s.ID, s.Email, s.CreatedAt)
	}
	return nil
}

func fprintRow(w io.Writer, cols ...string) {
	fmt.Fprintln(w, strings.Join(cols, "\t"))
}

func formatInt(n int64) string { return strconv.FormatInt(n, 10) }

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func okMark(b bool) string {
	if b {
		return "OK"
	}
	return "FAIL"
}

func (a *App) version(context.Context, []string) error {
	buildinfo.PrintBuildData(a.out)
	return nil
}

// IsUsage reports whether err came from bad command-line usage.
func IsUsage(err error) bool { return errors.Is(err, ErrUsage) }
