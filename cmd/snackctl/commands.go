package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/vladislavdragonenkov/snackorders/internal/access"
	"github.com/vladislavdragonenkov/snackorders/internal/aggregate"
	"github.com/vladislavdragonenkov/snackorders/internal/audit"
	"github.com/vladislavdragonenkov/snackorders/internal/client"
	"github.com/vladislavdragonenkov/snackorders/internal/domain"
	"github.com/vladislavdragonenkov/snackorders/internal/money"
	"github.com/vladislavdragonenkov/snackorders/internal/ordering"
)

type cli struct {
	client *client.Client
	engine *ordering.Engine
	sess   *access.Session
	out    io.Writer
}

type command struct {
	args  string
	help  string
	admin bool // требует входа по админ-коду
	run   func(c *cli, ctx context.Context, args []string) error
}

var commandOrder = []string{
	"menu", "orders", "overview", "payments",
	"place", "set-qty", "delete-line", "delete-order", "paid",
	"edit-mode", "payment-link", "log", "reset", "seed-menu",
}

var commands = map[string]command{
	"menu":         {help: "show the menu grouped by category", run: (*cli).menu},
	"orders":       {help: "list all orders", run: (*cli).orders},
	"overview":     {help: "print the aggregated order", run: (*cli).overview},
	"payments":     {help: "show who has paid", run: (*cli).payments},
	"place":        {args: "NAME ITEM_ID=QTY...", help: "place an order", run: (*cli).place},
	"set-qty":      {args: "ORDER_ID LINE QTY", help: "change a line quantity (edit mode)", run: (*cli).setQuantity},
	"delete-line":  {args: "ORDER_ID LINE", help: "remove a line (edit mode)", run: (*cli).deleteLine},
	"delete-order": {args: "ORDER_ID", help: "remove an order", run: (*cli).deleteOrder},
	"paid":         {args: "ORDER_ID yes|no", help: "mark an order paid or unpaid", run: (*cli).setPaid},
	"edit-mode":    {args: "on|off", help: "toggle edit mode", run: (*cli).editMode},
	"payment-link": {args: "URL", help: "set the shared payment link", run: (*cli).paymentLink},
	"log":          {help: "show the activity log (admin)", admin: true, run: (*cli).activityLog},
	"reset":        {args: "--yes", help: "delete all orders (admin)", admin: true, run: (*cli).reset},
	"seed-menu":    {help: "replace the menu with the default one", run: (*cli).seedMenu},
}

func (c *cli) table() *tabwriter.Writer {
	return tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
}

func (c *cli) menu(_ context.Context, _ []string) error {
	for _, group := range c.engine.Catalog().Groups() {
		_, _ = fmt.Fprintf(c.out, "%s\n", group.Category)
		tw := c.table()
		for _, item := range group.Items {
			_, _ = fmt.Fprintf(tw, "  %s\t%s\t%s\n", item.Name, money.Format(item.Price), item.ID)
		}
		_ = tw.Flush()
	}
	return nil
}

func (c *cli) orders(_ context.Context, _ []string) error {
	orders := c.engine.Orders()
	if len(orders) == 0 {
		_, _ = fmt.Fprintln(c.out, "(no orders)")
		return nil
	}
	for _, order := range orders {
		_, _ = fmt.Fprintf(c.out, "%s  %s  %s  [%s]\n", order.ID, order.CustomerName,
			money.Format(order.TotalPrice), aggregate.PaidLabel(order.IsPaid))
		for i, line := range order.Items {
			_, _ = fmt.Fprintf(c.out, "  %d. %dx %s  %s\n", i, line.Quantity, line.Name, money.Format(line.Subtotal()))
		}
	}
	return nil
}

func (c *cli) overview(_ context.Context, _ []string) error {
	_, err := io.WriteString(c.out, c.engine.Overview().Text(money.Format))
	return err
}

func (c *cli) payments(_ context.Context, _ []string) error {
	tw := c.table()
	for _, row := range c.engine.PaymentChecklist() {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\n", row.CustomerName, money.Format(row.Total), row.Label())
	}
	_ = tw.Flush()
	_, _ = fmt.Fprintf(c.out, "outstanding: %s\n", money.Format(aggregate.Outstanding(c.engine.Orders())))
	return nil
}

func (c *cli) place(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return errUsage
	}
	drafts := make([]ordering.DraftLine, 0, len(args)-1)
	for _, arg := range args[1:] {
		id, qtyRaw, ok := strings.Cut(arg, "=")
		if !ok {
			qtyRaw = "1"
		}
		qty, err := strconv.Atoi(qtyRaw)
		if err != nil {
			return fmt.Errorf("invalid quantity in %q", arg)
		}
		drafts = append(drafts, ordering.DraftLine{MenuItemID: id, Quantity: qty})
	}

	order, err := c.engine.PlaceOrder(ctx, c.sess, args[0], drafts)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(c.out, "order %s placed for %s: %s\n", order.ID, order.CustomerName, money.Format(order.TotalPrice))
	return nil
}

func (c *cli) setQuantity(ctx context.Context, args []string) error {
	if len(args) != 3 {
		return errUsage
	}
	line, err := strconv.Atoi(args[1])
	if err != nil {
		return errUsage
	}
	qty, err := strconv.Atoi(args[2])
	if err != nil {
		return errUsage
	}
	outcome, err := c.engine.SetQuantity(ctx, c.sess, args[0], line, qty)
	if err != nil {
		return err
	}
	return c.printOutcome(outcome)
}

func (c *cli) deleteLine(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return errUsage
	}
	line, err := strconv.Atoi(args[1])
	if err != nil {
		return errUsage
	}
	outcome, err := c.engine.DeleteLine(ctx, c.sess, args[0], line)
	if err != nil {
		return err
	}
	return c.printOutcome(outcome)
}

func (c *cli) deleteOrder(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errUsage
	}
	if err := c.engine.DeleteOrder(ctx, c.sess, args[0]); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(c.out, "order %s removed\n", args[0])
	return nil
}

func (c *cli) setPaid(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return errUsage
	}
	paid, err := parseSwitch(args[1])
	if err != nil {
		return err
	}
	order, err := c.engine.SetPaid(ctx, c.sess, args[0], paid)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(c.out, "%s: %s\n", order.CustomerName, aggregate.PaidLabel(order.IsPaid))
	return nil
}

func (c *cli) editMode(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errUsage
	}
	on, err := parseSwitch(args[0])
	if err != nil {
		return err
	}
	settings, err := c.engine.Gate().SetEditMode(ctx, c.sess, on)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(c.out, "edit mode: %t\n", settings.IsEditMode)
	return nil
}

func (c *cli) paymentLink(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errUsage
	}
	settings, err := c.engine.Gate().SetPaymentLink(ctx, c.sess, args[0])
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(c.out, "payment link: %s\n", settings.PaymentLink)
	return nil
}

func (c *cli) activityLog(ctx context.Context, _ []string) error {
	entries, err := c.engine.AuditLog(ctx, c.sess, true)
	if err != nil {
		return err
	}
	tw := c.table()
	for _, e := range entries {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			e.Timestamp.Local().Format(time.DateTime), e.Action, e.Details, audit.Classify(e.DeviceInfo), e.ClientIP)
	}
	return tw.Flush()
}

func (c *cli) reset(ctx context.Context, args []string) error {
	confirmed := len(args) == 1 && (args[0] == "--yes" || args[0] == "-yes")
	if err := c.engine.ResetAll(ctx, c.sess, confirmed); err != nil {
		return err
	}
	_, _ = fmt.Fprintln(c.out, "all orders deleted")
	return nil
}

func (c *cli) seedMenu(ctx context.Context, _ []string) error {
	if err := c.client.SeedMenu(ctx); err != nil {
		return err
	}
	if err := c.engine.Load(ctx, c.sess); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(c.out, "menu seeded: %d items\n", c.engine.Catalog().Len())
	return nil
}

func (c *cli) printOutcome(outcome domain.Outcome) error {
	if outcome.IsDeleted() {
		_, _ = fmt.Fprintf(c.out, "order %s removed (no lines left)\n", outcome.OrderID)
		return nil
	}
	_, _ = fmt.Fprintf(c.out, "order %s updated: %s\n", outcome.OrderID, money.Format(outcome.Order.TotalPrice))
	return nil
}

func parseSwitch(v string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "on", "yes", "true", "1":
		return true, nil
	case "off", "no", "false", "0":
		return false, nil
	}
	return false, fmt.Errorf("expected on/off, got %q", v)
}
