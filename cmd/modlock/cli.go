package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/hpungsan/modlock/internal/config"
	"github.com/hpungsan/modlock/internal/db"
	"github.com/hpungsan/modlock/internal/errors"
	"github.com/hpungsan/modlock/internal/freeze"
	"github.com/hpungsan/modlock/internal/hook"
	"github.com/hpungsan/modlock/internal/ops"
	"github.com/hpungsan/modlock/internal/web"
)

// newCLIApp creates the CLI application with all commands.
// The CLI shares the host save path with the other surfaces, so the freeze
// interceptor is bound here too: a frozen item stays frozen on CLI edits.
func newCLIApp(database *sql.DB, cfg *config.Config) *cli.App {
	var hooks *hook.Registry
	if database != nil {
		store := db.Store{DB: database}
		ic := freeze.FromConfig(store, store, cfg, nil, nil)
		hooks = hook.NewRegistry()
		ic.Bind(hooks)
	}

	app := &cli.App{
		Name:    "modlock",
		Usage:   "Content item store with modified-date freeze",
		Version: Version,
		Commands: []*cli.Command{
			createCmd(database, cfg, hooks),
			fetchCmd(database),
			updateCmd(database, cfg, hooks),
			listCmd(database),
			freezeCmd(database),
			serveCmd(database, cfg),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// createCmd creates the create command.
func createCmd(database *sql.DB, cfg *config.Config, hooks *hook.Registry) *cli.Command {
	return &cli.Command{
		Name:  "create",
		Usage: "Create a new item (reads body from stdin)",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "type", Value: "post", Usage: "Content type"},
			&cli.StringFlag{Name: "title", Aliases: []string{"t"}, Usage: "Item title"},
			&cli.StringFlag{Name: "status", Aliases: []string{"s"}, Value: "draft", Usage: "Status: draft|published"},
			&cli.StringFlag{Name: "tags", Usage: "Comma-separated tags"},
		},
		Action: func(c *cli.Context) error {
			if !stdinHasData() {
				return outputError(errors.NewInvalidRequest("body must be piped via stdin"))
			}

			body, err := readStdin()
			if err != nil {
				return outputError(errors.NewInternal(err))
			}
			if body == "" {
				return outputError(errors.NewInvalidRequest("body is required"))
			}

			input := ops.CreateInput{
				Type:   c.String("type"),
				Body:   body,
				Status: c.String("status"),
			}
			if title := c.String("title"); title != "" {
				input.Title = &title
			}
			if tags := c.String("tags"); tags != "" {
				input.Tags = parseTags(tags)
			}

			output, err := ops.Create(database, cfg, hooks, input)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// fetchCmd creates the fetch command.
func fetchCmd(database *sql.DB) *cli.Command {
	return &cli.Command{
		Name:      "fetch",
		Usage:     "Fetch an item by ID",
		ArgsUsage: "<id>",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "no-body", Usage: "Exclude body from output"},
		},
		Action: func(c *cli.Context) error {
			input := ops.FetchInput{ID: c.Args().First()}

			if c.Bool("no-body") {
				includeBody := false
				input.IncludeBody = &includeBody
			}

			output, err := ops.Fetch(database, input)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// updateCmd creates the update command.
func updateCmd(database *sql.DB, cfg *config.Config, hooks *hook.Registry) *cli.Command {
	return &cli.Command{
		Name:      "update",
		Usage:     "Update an existing item (optionally reads body from stdin)",
		ArgsUsage: "<id>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "title", Aliases: []string{"t"}, Usage: "New title"},
			&cli.StringFlag{Name: "status", Aliases: []string{"s"}, Usage: "New status: draft|published"},
			&cli.StringFlag{Name: "tags", Usage: "New comma-separated tags"},
		},
		Action: func(c *cli.Context) error {
			input := ops.UpdateInput{
				ID: c.Args().First(),
			}

			// Read body from stdin if piped
			if stdinHasData() {
				body, err := readStdin()
				if err != nil {
					return outputError(errors.NewInternal(err))
				}
				if body != "" {
					input.Body = &body
				}
			}

			if title := c.String("title"); title != "" {
				input.Title = &title
			}
			if status := c.String("status"); status != "" {
				input.Status = &status
			}
			if c.IsSet("tags") {
				tags := parseTags(c.String("tags"))
				input.Tags = &tags
			}

			output, err := ops.Update(database, cfg, hooks, input)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// listCmd creates the list command.
func listCmd(database *sql.DB) *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List items, newest modified first",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "type", Usage: "Filter by content type"},
			&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Value: ops.DefaultListLimit, Usage: "Maximum items to return"},
			&cli.IntFlag{Name: "offset", Aliases: []string{"o"}, Value: 0, Usage: "Items to skip"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.List(database, ops.ListInput{
				Type:   c.String("type"),
				Limit:  c.Int("limit"),
				Offset: c.Int("offset"),
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// freezeCmd creates the freeze command.
func freezeCmd(database *sql.DB) *cli.Command {
	return &cli.Command{
		Name:      "freeze",
		Usage:     "Inspect or set an item's modified-date freeze",
		ArgsUsage: "<id>",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "on", Usage: "Set the freeze flag"},
			&cli.BoolFlag{Name: "off", Usage: "Clear the freeze flag"},
		},
		Action: func(c *cli.Context) error {
			id := c.Args().First()

			if c.Bool("on") && c.Bool("off") {
				return outputError(errors.NewInvalidRequest("cannot specify both --on and --off"))
			}

			if c.Bool("on") || c.Bool("off") {
				output, err := ops.SetFreeze(database, id, c.Bool("on"))
				if err != nil {
					return outputError(err)
				}
				return outputJSON(output)
			}

			output, err := ops.FreezeStatus(database, ops.StatusInput{ID: id})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// serveCmd creates the serve command for the web UI.
func serveCmd(database *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the web UI",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "bind", Value: "127.0.0.1", Usage: "Bind address"},
			&cli.IntFlag{Name: "port", Aliases: []string{"p"}, Value: 8487, Usage: "Listen port"},
		},
		Action: func(c *cli.Context) error {
			srv := web.NewServer(database, cfg, Version, c.String("bind"), c.Int("port"))
			return web.Run(srv)
		},
	}
}

// Helper functions

// outputJSON marshals result to stdout as JSON.
func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError formats error for CLI.
func outputError(err error) error {
	if mErr, ok := err.(*errors.ModlockError); ok {
		return cli.Exit(fmt.Sprintf("[%s] %s", mErr.Code, mErr.Message), 1)
	}
	return cli.Exit(err.Error(), 1)
}

// stdinHasData returns true if stdin has piped data (not a terminal).
func stdinHasData() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}

// readStdin reads all content from stdin.
func readStdin() (string, error) {
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// parseTags splits a comma-separated string into a slice of tags.
func parseTags(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		t := strings.TrimSpace(p)
		if t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
