package main

import (
	"context"
	"github.com/PuerkitoBio/goquery"
	"github.com/myrjola/hotseat/internal/e2etest"
	"github.com/myrjola/hotseat/internal/errors"
	"github.com/myrjola/hotseat/internal/logging"
	"log/slog"
	"net/http"
	"os"
	"time"
)

// TestPages walks the public pages that do not spend LLM tokens. It proves
// the deployment serves the application, the database and the session
// cookies without kicking off a paid completion.
func TestPages(client *e2etest.Client) error {
	ctx := context.Background()
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second) //nolint:mnd // 10 seconds
	defer cancel()
	var (
		err  error
		resp *http.Response
		doc  *goquery.Document
	)

	if resp, err = client.Get(ctx, "/api/healthy"); err != nil {
		return errors.Wrap(err, "fetch health endpoint")
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return errors.New("health endpoint not ok", slog.Int("status", resp.StatusCode))
	}

	if doc, err = client.GetDoc(ctx, "/"); err != nil {
		return errors.Wrap(err, "fetch home page")
	}
	if doc.Find(`form[action="/interviews"]`).Length() != 1 {
		return errors.New("interview setup form missing from home page")
	}

	if doc, err = client.GetDoc(ctx, "/prep"); err != nil {
		return errors.Wrap(err, "fetch prep page")
	}
	if doc.Find(`form[action="/prep/research"]`).Length() != 1 {
		return errors.New("preparation form missing from prep page")
	}

	if _, err = client.GetDoc(ctx, "/prep/files"); err != nil {
		return errors.Wrap(err, "fetch files page")
	}

	return nil
}

func main() {
	loggerHandler := logging.NewContextHandler(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		AddSource:   false,
		Level:       slog.LevelDebug,
		ReplaceAttr: nil,
	}))
	logger := slog.New(loggerHandler)
	ctx := context.Background()

	if len(os.Args) != 2 { //nolint:mnd // we expect only hostname to be passed as argument.
		logger.LogAttrs(ctx, slog.LevelError, "usage: smoketest <hostname>")
		os.Exit(1)
	}

	var (
		hostname = os.Args[1]
		url      = "https://" + hostname
		client   *e2etest.Client
		err      error
	)
	ctx = logging.WithAttrs(ctx, slog.String("hostname", url))

	if client, err = e2etest.NewClient(url); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "error creating client", errors.SlogError(err))
		os.Exit(1)
	}
	if err = TestPages(client); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "error testing pages", errors.SlogError(err))
		os.Exit(1)
	}

	logger.LogAttrs(ctx, slog.LevelInfo, "Smoke test successful 🙌")
	os.Exit(0)
}
