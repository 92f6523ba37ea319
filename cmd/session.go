package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/grovetools/tapview/cli"
	"github.com/grovetools/tapview/config"
	"github.com/grovetools/tapview/errors"
	"github.com/grovetools/tapview/logging"
	"github.com/grovetools/tapview/pkg/api"
	"github.com/grovetools/tapview/pkg/profiling"
	"github.com/grovetools/tapview/pkg/store"
	"github.com/grovetools/tapview/tui"
	"github.com/grovetools/tapview/version"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// session is the per-invocation wiring of config, client and store.
type session struct {
	cfg    *config.Config
	client api.Client
	store  *store.Root
	logger *logrus.Entry
	out    io.Writer
	pretty *logging.PrettyLogger
}

// newSession loads the configuration and connects a client. opts are
// applied to the root store after the logger.
func newSession(cmd *cobra.Command, opts ...store.Option) (*session, error) {
	logger := cli.GetLogger(cmd)

	cfg, err := cli.LoadConfig(cli.GetOptions(cmd))
	if err != nil {
		return nil, err
	}

	tui.ConfigureColor(cfg.Output.Color, outFile(cmd))

	timeout, err := cfg.Server.TimeoutDuration()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeConfigValidation, "server.timeout is invalid")
	}

	userAgent := cfg.Server.UserAgent
	if userAgent == "" {
		userAgent = "tapctl/" + version.GetInfo().Short()
	}

	client, err := api.New(api.Config{
		BaseURL:    cfg.Server.URL,
		SocketPath: cfg.Server.Socket,
		Timeout:    timeout,
		UserAgent:  userAgent,
	})
	if err != nil {
		return nil, err
	}

	logger.WithFields(logrus.Fields{
		"url":    cfg.Server.URL,
		"socket": cfg.Server.Socket,
	}).Debug("Connected backend client")

	return &session{
		cfg:    cfg,
		client: client,
		store:  store.New(client, append([]store.Option{store.WithLogger(logging.NewLogger("store"))}, opts...)...),
		logger: logger,
		out:    cmd.OutOrStdout(),
		pretty: logging.NewPrettyLogger().WithWriter(cmd.ErrOrStderr()),
	}, nil
}

func (s *session) Close() {
	if err := s.client.Close(); err != nil {
		s.logger.WithError(err).Debug("Failed to close backend client")
	}
}

func (s *session) jsonOutput() bool {
	return s.cfg.Output.Format == "json"
}

// render writes v as indented JSON in json mode, otherwise the text
// produced by table.
func (s *session) render(v interface{}, table func() string) error {
	if s.jsonOutput() {
		enc := json.NewEncoder(s.out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	_, err := fmt.Fprintln(s.out, table())
	return err
}

// done reports a successful mutation. JSON mode stays silent so stdout
// remains machine readable.
func (s *session) done(format string, args ...interface{}) {
	if s.jsonOutput() {
		return
	}
	s.pretty.Success(fmt.Sprintf(format, args...))
}

// runE wraps a command body with session setup.
func runE(fn func(cmd *cobra.Command, s *session, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		defer profiling.Start(cmd.CommandPath()).Stop()

		s, err := newSession(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		return fn(cmd, s, args)
	}
}

// outFile returns the command's stdout when it is a file, or nil.
func outFile(cmd *cobra.Command) *os.File {
	f, _ := cmd.OutOrStdout().(*os.File)
	return f
}

// report prints err for the command that failed.
func report(cmd *cobra.Command, err error) error {
	handler := cli.NewErrorHandler(cli.GetOptions(cmd).Verbose)
	handler.Out = cmd.ErrOrStderr()
	return handler.Handle(err)
}
