// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/poiesic/enrichproxy"
	"github.com/poiesic/enrichproxy/backend"
	"github.com/poiesic/enrichproxy/core"
	"github.com/poiesic/enrichproxy/fieldconfig"
	"github.com/poiesic/enrichproxy/provision"
	"github.com/poiesic/enrichproxy/storage"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "enrichproxy",
		Usage: "Text-analysis enrichment proxy for a search cluster",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to a YAML settings file",
				EnvVars: []string{"ENRICHPROXY_CONFIG"},
			},
			&cli.StringFlag{
				Name:  "listen",
				Usage: "Listen address of the proxy",
			},
			&cli.StringFlag{
				Name:    "backend-url",
				Usage:   "Search cluster URL",
				EnvVars: []string{"ENRICHPROXY_BACKEND_URL"},
			},
			&cli.StringFlag{
				Name:  "store",
				Usage: "Configuration store (badger, cluster)",
			},
			&cli.StringFlag{
				Name:  "store-path",
				Usage: "Path to BadgerDB database directory",
			},
			&cli.StringFlag{
				Name:  "analyzer",
				Usage: "Analysis backend (openai, gemini)",
			},
			&cli.StringFlag{
				Name:  "analyzer-host",
				Usage: "Analysis service host URL",
			},
			&cli.StringFlag{
				Name:  "analyzer-model",
				Usage: "Analysis model name",
			},
			&cli.StringFlag{
				Name:    "analyzer-key",
				Usage:   "Analysis service API key",
				EnvVars: []string{"ENRICHPROXY_ANALYZER_KEY"},
			},
			&cli.IntFlag{
				Name:  "pool-size",
				Usage: "Number of concurrent analysis workers",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the proxy",
				Action: serveCommand,
			},
			{
				Name:  "config",
				Usage: "Manage the stored field configuration",
				Subcommands: []*cli.Command{
					{
						Name:   "show",
						Usage:  "Print the stored field configuration",
						Action: configShowCommand,
					},
					{
						Name:   "apply",
						Usage:  "Store a field configuration payload",
						Action: configApplyCommand,
						Flags: []cli.Flag{
							&cli.StringFlag{
								Name:     "file",
								Aliases:  []string{"f"},
								Usage:    "Path to the configuration payload (- for stdin)",
								Required: true,
							},
							&cli.BoolFlag{
								Name:  "update",
								Usage: "Merge into the stored configuration instead of replacing it",
							},
							&cli.BoolFlag{
								Name:  "provision",
								Usage: "Provision cluster mappings for new fields",
							},
						},
					},
					{
						Name:   "clear",
						Usage:  "Delete the stored field configuration",
						Action: configClearCommand,
					},
				},
			},
			{
				Name:      "analyze",
				Usage:     "Run one analysis operation on a text",
				ArgsUsage: "TEXT",
				Action:    analyzeCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "operation",
						Aliases:  []string{"o"},
						Usage:    "Operation name, e.g. DetectSentiment",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "language",
						Usage: "Language code of the text",
						Value: string(core.English),
					},
				},
			},
		},
	}
}

// loadSettings reads the settings file, if any, and applies flag overrides.
func loadSettings(c *cli.Context) (*enrichproxy.Settings, error) {
	settings := enrichproxy.DefaultSettings()
	if path := c.String("config"); path != "" {
		var err error
		settings, err = enrichproxy.LoadSettings(path)
		if err != nil {
			return nil, err
		}
	}

	overrides := []struct {
		flag   string
		target *string
	}{
		{"listen", &settings.Listen},
		{"backend-url", &settings.Backend.URL},
		{"store", &settings.Store.Kind},
		{"store-path", &settings.Store.Path},
		{"analyzer", &settings.Analyzer.Kind},
		{"analyzer-host", &settings.Analyzer.Host},
		{"analyzer-model", &settings.Analyzer.Model},
		{"analyzer-key", &settings.Analyzer.APIKey},
	}
	for _, o := range overrides {
		if c.IsSet(o.flag) {
			*o.target = c.String(o.flag)
		}
	}
	if c.IsSet("pool-size") {
		settings.Enrichment.PoolSize = c.Int("pool-size")
	}

	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}
	return settings, nil
}

func serveCommand(c *cli.Context) error {
	settings, err := loadSettings(c)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc, err := enrichproxy.NewService(ctx, settings)
	if err != nil {
		return fmt.Errorf("failed to start service: %w", err)
	}
	defer svc.Close()

	slog.Info("enrichment proxy starting",
		"listen", settings.Listen,
		"backend", settings.Backend.URL,
		"analyzer", settings.Analyzer.Kind,
		"model", settings.Analyzer.Model,
		"store", settings.Store.Kind,
	)
	return svc.Serve(ctx)
}

// openRepository opens the configured store together with the cluster
// client it may need.
func openRepository(c *cli.Context) (*enrichproxy.Settings, backend.Client, storage.ConfigRepository, error) {
	settings, err := loadSettings(c)
	if err != nil {
		return nil, nil, nil, err
	}
	client, err := enrichproxy.NewBackendClient(settings, slog.Default())
	if err != nil {
		return nil, nil, nil, err
	}
	repo, err := enrichproxy.OpenRepository(settings, client, slog.Default())
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to open configuration store: %w", err)
	}
	return settings, client, repo, nil
}

func configShowCommand(c *cli.Context) error {
	_, _, repo, err := openRepository(c)
	if err != nil {
		return err
	}
	defer repo.Close()

	set, err := storage.LoadOrEmpty(c.Context, repo)
	if err != nil {
		return err
	}
	payload, err := fieldconfig.Encode(set)
	if err != nil {
		return err
	}
	return printJSON(c, payload)
}

func configApplyCommand(c *cli.Context) error {
	var (
		body []byte
		err  error
	)
	if path := c.String("file"); path == "-" {
		body, err = io.ReadAll(c.App.Reader)
	} else {
		body, err = os.ReadFile(path)
	}
	if err != nil {
		return fmt.Errorf("failed to read configuration: %w", err)
	}

	set, err := fieldconfig.Decode(body)
	if err != nil {
		if msg := fieldconfig.CustomerMessage(err); msg != "" {
			return errors.New(msg)
		}
		return err
	}

	settings, client, repo, err := openRepository(c)
	if err != nil {
		return err
	}
	defer repo.Close()

	stored, err := storage.LoadOrEmpty(c.Context, repo)
	if err != nil {
		return err
	}

	if added := set.Missing(stored); c.Bool("provision") && len(added) > 0 {
		provisioner, err := provision.NewProvisioner(client, provision.WithTimeout(settings.Provisioning.Timeout))
		if err != nil {
			return err
		}
		report := provisioner.Provision(c.Context, added)
		for index, err := range report.Failed {
			fmt.Fprintf(c.App.ErrWriter, "mapping for %s not provisioned: %v\n", index, err)
		}
	}

	if c.Bool("update") && !stored.IsEmpty() {
		set = stored.Merge(set)
	}
	if err := repo.Save(c.Context, set); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	fmt.Fprintf(c.App.Writer, "stored %d configurations (fingerprint %s)\n", set.Len(), set.Fingerprint())
	return nil
}

func configClearCommand(c *cli.Context) error {
	_, _, repo, err := openRepository(c)
	if err != nil {
		return err
	}
	defer repo.Close()

	if err := repo.Delete(c.Context); err != nil {
		return fmt.Errorf("failed to clear configuration: %w", err)
	}
	fmt.Fprintln(c.App.Writer, "configuration cleared")
	return nil
}

func analyzeCommand(c *cli.Context) error {
	text := strings.Join(c.Args().Slice(), " ")
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("text is required")
	}
	op, err := core.ParseOperation(c.String("operation"))
	if err != nil {
		return err
	}
	var lang core.LanguageCode
	if op.NeedsLanguage() {
		lang, err = core.ParseLanguageCode(c.String("language"))
		if err != nil {
			return err
		}
	}

	settings, err := loadSettings(c)
	if err != nil {
		return err
	}
	provider, err := enrichproxy.NewProvider(c.Context, settings.AIConfig())
	if err != nil {
		return fmt.Errorf("failed to create analysis provider: %w", err)
	}
	defer provider.Close()

	value, err := provider.Analyzer().Analyze(c.Context, op, lang, text)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}
	return printJSON(c, value)
}

func printJSON(c *cli.Context, data []byte) error {
	var out bytes.Buffer
	if err := json.Indent(&out, data, "", "  "); err != nil {
		return err
	}
	out.WriteByte('\n')
	_, err := c.App.Writer.Write(out.Bytes())
	return err
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
