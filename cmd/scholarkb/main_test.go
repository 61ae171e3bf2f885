package main

import (
	"log/slog"
	"testing"
	"time"

	"github.com/poiesic/scholarkb/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func TestSetupLogger(t *testing.T) {
	t.Run("valid log levels", func(t *testing.T) {
		testCases := []struct {
			input    string
			expected slog.Level
		}{
			{"debug", slog.LevelDebug},
			{"info", slog.LevelInfo},
			{"warn", slog.LevelWarn},
			{"error", slog.LevelError},
		}

		for _, tc := range testCases {
			t.Run(tc.input, func(t *testing.T) {
				app := &cli.App{
					Name: "test",
					Flags: []cli.Flag{
						&cli.StringFlag{
							Name:  "log-level",
							Value: tc.input,
						},
					},
					Before: setupLogger,
					Action: func(c *cli.Context) error {
						return nil
					},
				}

				err := app.Run([]string{"test", "--log-level", tc.input})
				require.NoError(t, err)
			})
		}
	})

	t.Run("case insensitive log levels", func(t *testing.T) {
		for _, tc := range []string{"DEBUG", "Info", "WaRn", "ERROR"} {
			t.Run(tc, func(t *testing.T) {
				app := &cli.App{
					Name: "test",
					Flags: []cli.Flag{
						&cli.StringFlag{
							Name:  "log-level",
							Value: "info",
						},
					},
					Before: setupLogger,
					Action: func(c *cli.Context) error {
						return nil
					},
				}

				err := app.Run([]string{"test", "--log-level", tc})
				require.NoError(t, err)
			})
		}
	})

	t.Run("invalid log level returns error", func(t *testing.T) {
		app := &cli.App{
			Name: "test",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "log-level",
					Value: "info",
				},
			},
			Before: setupLogger,
			Action: func(c *cli.Context) error {
				return nil
			},
		}

		err := app.Run([]string{"test", "--log-level", "invalid"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid log level")
	})
}

func TestBuildReembedConfig(t *testing.T) {
	cfg := &config.AppConfig{
		Reembed: config.ReembedConfig{BatchSize: 250, Workers: 4},
	}

	newApp := func(check func(c *cli.Context)) *cli.App {
		return &cli.App{
			Name: "test",
			Flags: []cli.Flag{
				&cli.IntFlag{Name: "batch-size", Value: 100},
				&cli.IntFlag{Name: "report-interval", Value: 100},
				&cli.IntFlag{Name: "max-retries", Value: 3},
				&cli.DurationFlag{Name: "retry-delay", Value: time.Second},
				&cli.IntFlag{Name: "workers"},
			},
			Action: func(c *cli.Context) error {
				check(c)
				return nil
			},
		}
	}

	t.Run("config file supplies defaults", func(t *testing.T) {
		app := newApp(func(c *cli.Context) {
			rc := buildReembedConfig(c, cfg)
			assert.Equal(t, 250, rc.BatchSize)
			assert.Equal(t, 4, rc.Workers)
			assert.Equal(t, 3, rc.MaxRetries)
			assert.Equal(t, time.Second, rc.RetryDelay)
		})
		require.NoError(t, app.Run([]string{"test"}))
	})

	t.Run("explicit flags override the config file", func(t *testing.T) {
		app := newApp(func(c *cli.Context) {
			rc := buildReembedConfig(c, cfg)
			assert.Equal(t, 50, rc.BatchSize)
			assert.Equal(t, 2, rc.Workers)
		})
		require.NoError(t, app.Run([]string{"test", "--batch-size", "50", "--workers", "2"}))
	})
}

func TestSnippet(t *testing.T) {
	t.Run("short content unchanged", func(t *testing.T) {
		assert.Equal(t, "a short passage", snippet("a short passage", 100))
	})

	t.Run("long content cut at word boundary", func(t *testing.T) {
		out := snippet("one two three four five", 12)
		assert.Equal(t, "one two", out[:len(out)-3])
		assert.True(t, len(out) <= 15)
	})

	t.Run("whitespace collapsed", func(t *testing.T) {
		assert.Equal(t, "a b c", snippet("a\n\nb\t c", 100))
	})
}
