package cli

import (
	"context"
	"net/http"
	"strings"
	"text/tabwriter"

	"github.com/dmitrijs2005/soldbd/internal/client/api"
)

type dealRow struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Category string `json:"category"`
	PriceBDT *int64 `json:"priceBdt"`
	Stock    int64  `json:"stock"`
	EndsAt   string `json:"endsAt"`
	IsActive *bool  `json:"isActive"`
}

func callGet() api.CallOptions { return api.CallOptions{Method: http.MethodGet} }

func callPost(body any) api.CallOptions {
	return api.CallOptions{Method: http.MethodPost, Body: body}
}

func (a *App) deals(ctx context.Context, _ []string) error {
	var out struct {
		Deals []dealRow `json:"deals"`
	}
	if err := a.api.Call(ctx, "admin-deals", callGet(), &out); err != nil {
		return err
	}

	if len(out.Deals) == 0 {
		a.printf("No deals\n")
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	defer tw.Flush()
	fprintRow(tw, "ID", "TITLE", "PRICE", "STOCK", "ENDS", "ACTIVE")
	for _, d := range out.Deals {
		price := "-"
		if d.PriceBDT != nil {
			price = formatInt(*d.PriceBDT)
		}
		active := "-"
		if d.IsActive != nil {
			active = yesNo(*d.IsActive)
		}
		fprintRow(tw, d.ID, d.Title, price, formatInt(d.Stock), d.EndsAt, active)
	}
	return nil
}

func (a *App) dealToggle(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return usageError(usageDealToggle)
	}
	var active bool
	switch strings.ToLower(args[1]) {
	case "on", "true", "1":
		active = true
	case "off", "false", "0":
		active = false
	default:
		return usageError(usageDealToggle)
	}

	body := map[string]any{"id": args[0], "is_active": active}
	if err := a.api.Call(ctx, "admin-deals", api.CallOptions{Method: http.MethodPatch, Body: body}, nil); err != nil {
		return err
	}
	a.printf("Deal %s is now %s\n", args[0], map[bool]string{true: "active", false: "inactive"}[active])
	return nil
}

func (a *App) dealDelete(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usageError(usageDealDelete)
	}
	body := map[string]string{"id": args[0]}
	if err := a.api.Call(ctx, "admin-deals", api.CallOptions{Method: http.MethodDelete, Body: body}, nil); err != nil {
		return err
	}
	a.printf("Deal %s deleted\n", args[0])
	return nil
}
