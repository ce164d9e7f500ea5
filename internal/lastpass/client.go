// Package lastpass retrieves entries from a LastPass vault by driving the
// lpass command-line client.
//
// The package never handles credentials: lpass owns the session, and a
// Client only checks that one is open (Status) before reading entries
// (Show). Every call spawns one lpass process, waits for it to exit and
// parses what it printed.
package lastpass

import (
	"context"
	"os/exec"
	"strings"
	"time"
	"unicode"

	"github.com/awnumar/memguard"
	"github.com/systmms/lpass-lookup/internal/logging"
	"github.com/systmms/lpass-lookup/internal/metrics"
	pkgexec "github.com/systmms/lpass-lookup/pkg/exec"
)

// DefaultCommand is the executable looked up on PATH when no override is given.
const DefaultCommand = "lpass"

// Client runs lpass. It is stateless apart from the resolved executable
// path and is safe to reuse across calls.
type Client struct {
	builder  CommandBuilder
	executor pkgexec.CommandExecutor
	logger   *logging.Logger
	metrics  *metrics.LookupMetrics
}

type clientConfig struct {
	command  string
	executor pkgexec.CommandExecutor
	logger   *logging.Logger
	metrics  *metrics.LookupMetrics
	lookPath func(string) (string, error)
}

// ClientOption customizes New.
type ClientOption func(*clientConfig)

// WithCommand overrides the lpass executable. A value containing a path
// separator is used as is; a bare name is looked up on PATH.
func WithCommand(command string) ClientOption {
	return func(c *clientConfig) {
		c.command = command
	}
}

// WithExecutor replaces the process runner, mainly for tests.
func WithExecutor(executor pkgexec.CommandExecutor) ClientOption {
	return func(c *clientConfig) {
		c.executor = executor
	}
}

// WithLogger injects the logger used for EXEC and diagnostic messages.
func WithLogger(logger *logging.Logger) ClientOption {
	return func(c *clientConfig) {
		c.logger = logger
	}
}

// WithMetrics records every invocation in m.
func WithMetrics(m *metrics.LookupMetrics) ClientOption {
	return func(c *clientConfig) {
		c.metrics = m
	}
}

// New resolves the lpass executable and returns a ready client.
// It fails with ErrExecutableNotFound when resolution fails.
func New(opts ...ClientOption) (*Client, error) {
	cfg := clientConfig{
		command:  DefaultCommand,
		lookPath: exec.LookPath,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.executor == nil {
		cfg.executor = pkgexec.DefaultExecutor()
	}
	if cfg.logger == nil {
		cfg.logger = logging.Discard()
	}

	path, err := resolveCommand(cfg.command, cfg.lookPath)
	if err != nil {
		return nil, err
	}

	return &Client{
		builder:  CommandBuilder{Command: path},
		executor: cfg.executor,
		logger:   cfg.logger,
		metrics:  cfg.metrics,
	}, nil
}

func resolveCommand(command string, lookPath func(string) (string, error)) (string, error) {
	if command == "" {
		command = DefaultCommand
	}
	if strings.ContainsRune(command, '/') || strings.ContainsRune(command, '\\') {
		return command, nil
	}
	path, err := lookPath(command)
	if err != nil {
		return "", &LookupError{
			Kind:   ErrExecutableNotFound,
			Detail: command + " not found in PATH",
			Err:    err,
		}
	}
	return path, nil
}

// Command returns the resolved executable path.
func (c *Client) Command() string {
	return c.builder.Command
}

// Status runs lpass status. A nonzero exit means no usable session and
// yields ErrSessionNotReady with lpass's stdout as detail.
func (c *Client) Status(ctx context.Context) (string, error) {
	argv := c.builder.Build(ActionStatus)

	res, err := c.run(ctx, argv, -1)
	if err != nil {
		err = &LookupError{Kind: ErrSessionNotReady, Err: err}
		c.observe(ActionStatus, err, res.elapsed)
		return "", err
	}

	out := strings.TrimRightFunc(string(res.Stdout), unicode.IsSpace)
	if res.ExitCode != 0 {
		err = &LookupError{Kind: ErrSessionNotReady, Detail: out}
		c.observe(ActionStatus, err, res.elapsed)
		return "", err
	}

	c.observe(ActionStatus, nil, res.elapsed)
	return out, nil
}

// Show fetches target and parses the output according to opts. Invalid
// opts are rejected before lpass is started.
func (c *Client) Show(ctx context.Context, target string, opts LookupOptions) (Entry, error) {
	argv, err := c.builder.Show(target, opts)
	if err != nil {
		c.observe(ActionShow, err, 0)
		return Entry{}, err
	}

	res, err := c.run(ctx, argv, len(argv)-1)
	if err != nil {
		err = &LookupError{Kind: ErrProcessFailed, Target: target, Err: err}
		c.observe(ActionShow, err, res.elapsed)
		return Entry{}, err
	}
	defer memguard.WipeBytes(res.Stdout)

	if res.ExitCode != 0 {
		err = &LookupError{
			Kind:   ErrProcessFailed,
			Target: target,
			Detail: strings.TrimSpace(string(res.Stderr)),
		}
		c.observe(ActionShow, err, res.elapsed)
		return Entry{}, err
	}

	entry, err := parseShow(target, res.Stdout, opts)
	c.observe(ActionShow, err, res.elapsed)
	if err != nil {
		return Entry{}, err
	}

	c.logger.Debug("Retrieved %s entry for %s", entry.Kind, logging.Secret(target))
	return entry, nil
}

type runResult struct {
	pkgexec.Result
	elapsed time.Duration
}

// run executes argv and logs it, hiding the argument at redactPos.
func (c *Client) run(ctx context.Context, argv []string, redactPos int) (runResult, error) {
	c.logger.Debug("EXEC %s", logging.RedactArgs(argv, redactPos))

	start := time.Now()
	res, err := c.executor.Execute(ctx, nil, argv[0], argv[1:]...)
	return runResult{Result: res, elapsed: time.Since(start)}, err
}

func (c *Client) observe(action string, err error, elapsed time.Duration) {
	c.metrics.ObserveInvocation(action, KindName(err), elapsed)
}
