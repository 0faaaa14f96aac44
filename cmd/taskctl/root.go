package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"taskloop/internal/client"
	"taskloop/internal/config"
	"taskloop/internal/logging"
)

type app struct {
	configPath string
	apiURL     string

	cfg      *config.Config
	client   *client.Client
	logger   *slog.Logger
	closeLog io.Closer
	out      io.Writer
}

func newRootCmd() *cobra.Command {
	a := &app{out: os.Stdout}

	root := &cobra.Command{
		Use:           "taskctl",
		Short:         "Manage tasks on a taskloop server",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			if a.closeLog != nil {
				return a.closeLog.Close()
			}
			return nil
		},
	}
	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", os.Getenv("TASKLOOP_CONFIG"), "path to a YAML config file")
	root.PersistentFlags().StringVar(&a.apiURL, "api", "", "API base URL, overrides client.base_url")

	root.AddCommand(
		newListCmd(a),
		newAddCmd(a),
		newEditCmd(a),
		newToggleCmd(a),
		newDeleteCmd(a),
		newBrowseCmd(a),
	)
	return root
}

func (a *app) init(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.apiURL != "" {
		cfg.Client.BaseURL = a.apiURL
	}
	a.cfg = cfg
	a.out = cmd.OutOrStdout()

	// logs only go to a file; stderr belongs to the TUI
	a.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	if cfg.Log.File != "" {
		logger, closer, err := logging.New(cfg.Log, "taskctl")
		if err != nil {
			return err
		}
		a.logger, a.closeLog = logger, closer
	}

	a.client, err = client.New(cfg.Client.BaseURL, client.WithTimeout(cfg.Client.Timeout))
	return err
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(arg), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid task id %q", arg)
	}
	return id, nil
}
