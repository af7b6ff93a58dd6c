// Command snackctl - консольный клиент общего списка заказов.
//
//	snackctl [-server URL] [-admin-code CODE] <command> [args]
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/snackorders/internal/access"
	"github.com/vladislavdragonenkov/snackorders/internal/client"
	"github.com/vladislavdragonenkov/snackorders/internal/ordering"
	"github.com/vladislavdragonenkov/snackorders/internal/version"
)

const (
	defaultServer  = "http://localhost:8001"
	envServer      = "SNACK_SERVER_URL"
	envAdminCode   = "SNACK_ADMIN_CODE"
	defaultTimeout = 10 * time.Second
)

var errUsage = errors.New("usage")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.SetLevel(log.WarnLevel)
	if err := run(ctx, os.Args[1:], os.Getenv, os.Stdout); err != nil {
		if !errors.Is(err, errUsage) {
			_, _ = fmt.Fprintln(os.Stderr, "error:", err)
		}
		os.Exit(1)
	}
}

// env - доступ к переменным окружения; подменяется в тестах.
type env func(string) string

func run(ctx context.Context, args []string, getenv env, out io.Writer) error {
	fs := flag.NewFlagSet("snackctl", flag.ContinueOnError)
	fs.SetOutput(out)
	server := fs.String("server", "", "service base URL (fallback: "+envServer+", default "+defaultServer+")")
	adminCode := fs.String("admin-code", "", "admin code for admin-only commands (fallback: "+envAdminCode+")")
	timeout := fs.Duration("timeout", defaultTimeout, "per-request timeout")
	fs.Usage = func() { usage(fs, out) }
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return errUsage
	}

	baseURL := firstNonEmpty(*server, getenv(envServer), defaultServer)
	code := firstNonEmpty(*adminCode, getenv(envAdminCode))

	cmd, ok := commands[fs.Arg(0)]
	if !ok {
		_, _ = fmt.Fprintf(out, "unknown command %q\n\n", fs.Arg(0))
		fs.Usage()
		return errUsage
	}

	c, err := client.New(baseURL, client.WithTimeout(*timeout))
	if err != nil {
		return err
	}

	cli := &cli{
		client: c,
		engine: ordering.NewEngine(c),
		sess:   access.NewSession(deviceInfo()),
		out:    out,
	}
	if err := cli.engine.Load(ctx, cli.sess); err != nil {
		return err
	}
	// Вход пишет запись в журнал, поэтому выполняется только для админ-команд.
	if cmd.admin && code != "" {
		if err := cli.engine.Gate().Login(ctx, cli.sess, code); err != nil {
			return err
		}
	}

	if err := cmd.run(cli, ctx, fs.Args()[1:]); err != nil {
		if errors.Is(err, errUsage) {
			_, _ = fmt.Fprintf(out, "usage: snackctl %s %s\n", fs.Arg(0), cmd.args)
		}
		return err
	}
	return nil
}

// deviceInfo - строка клиента для журнала, аналог User-Agent браузера.
// Хранится как есть; классификация выполняется только при показе.
func deviceInfo() string {
	return fmt.Sprintf("snackctl/%s (%s; %s)", version.GetVersion(), runtime.GOOS, runtime.GOARCH)
}

func usage(fs *flag.FlagSet, out io.Writer) {
	_, _ = fmt.Fprintln(out, "usage: snackctl [flags] <command> [args]")
	_, _ = fmt.Fprintln(out, "\ncommands:")
	for _, name := range commandOrder {
		cmd := commands[name]
		_, _ = fmt.Fprintf(out, "  %-14s %s\n", name+" "+cmd.args, cmd.help)
	}
	_, _ = fmt.Fprintln(out, "\nflags:")
	fs.PrintDefaults()
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
