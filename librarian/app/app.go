// Package app wires the librarian command tree.
package app

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Astemirdum/library-rental/librarian/internal/cache"
	"github.com/Astemirdum/library-rental/librarian/internal/client"
	"github.com/Astemirdum/library-rental/librarian/internal/i18n"
	"github.com/Astemirdum/library-rental/librarian/internal/session"
	cb "github.com/Astemirdum/library-rental/pkg/circuit_breaker"
	"github.com/Astemirdum/library-rental/pkg/logger"
	"github.com/juju/clock"
	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"
)

const defaultServer = "http://localhost:8080"

// Config is read from LIBRARIAN_* variables.
type Config struct {
	Server  string        `envconfig:"SERVER"`
	Timeout time.Duration `envconfig:"TIMEOUT" default:"30s"`
	Breaker cb.Config
}

// Paths locates the files the CLI keeps between runs.
type Paths struct {
	Session string
	Cache   string
}

func DefaultPaths() (Paths, error) {
	dir, err := session.Dir()
	if err != nil {
		return Paths{}, err
	}
	return Paths{
		Session: filepath.Join(dir, "session.json"),
		Cache:   filepath.Join(dir, "books-cache.json"),
	}, nil
}

type App struct {
	cfg   Config
	paths Paths
	in    *bufio.Reader
	inFd  int
	out   io.Writer
	errW  io.Writer

	// set in PersistentPreRunE
	sess   session.Session
	tr     *i18n.Translator
	api    *client.Client
	cache  *cache.Store
	log    *zap.Logger
	clock  clock.Clock
	server string
	lang   string
	debug  bool
}

func New(cfg Config, paths Paths, in io.Reader, out, errW io.Writer) *App {
	a := &App{
		cfg:   cfg,
		paths: paths,
		in:    bufio.NewReader(in),
		inFd:  -1,
		out:   out,
		errW:  errW,
		clock: clock.WallClock,
	}
	if f, ok := in.(*os.File); ok {
		a.inFd = int(f.Fd())
	}
	return a
}

// Execute runs the CLI with process defaults and returns the exit code.
func Execute(ctx context.Context) int {
	var cfg Config
	if err := envconfig.Process("LIBRARIAN", &cfg); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	paths, err := DefaultPaths()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	a := New(cfg, paths, os.Stdin, os.Stdout, os.Stderr)
	if err = a.Root().ExecuteContext(ctx); err != nil {
		return 1
	}
	return 0
}

func (a *App) Root() *cobra.Command {
	root := &cobra.Command{
		Use:           "librarian",
		Short:         "Browse, borrow and manage books of the library",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup()
		},
	}
	root.PersistentFlags().StringVar(&a.server, "server", "", "library API base url")
	root.PersistentFlags().StringVar(&a.lang, "lang", "", "interface language (en, fr)")
	root.PersistentFlags().BoolVarP(&a.debug, "verbose", "v", false, "log API calls to stderr")

	root.AddCommand(
		a.loginCmd(),
		a.registerCmd(),
		a.logoutCmd(),
		a.langCmd(),
		a.healthCmd(),
		a.booksCmd(),
		a.borrowCmd(),
		a.mineCmd(),
		a.returnCmd(),
		a.adminCmd(),
	)
	return root
}

func (a *App) setup() error {
	sess, err := session.Load(a.paths.Session)
	if err != nil {
		return a.fail(err)
	}
	a.sess = sess

	level := zapcore.WarnLevel
	if a.debug {
		level = zapcore.DebugLevel
	}
	a.log = logger.NewLogger(logger.Log{LogLevel: level, Sink: "stderr"}, "librarian")

	lang := a.lang
	if lang == "" {
		lang = sess.Language
	}
	if lang == "" {
		lang = i18n.Negotiate(os.Getenv("LANGUAGE"), os.Getenv("LC_ALL"), os.Getenv("LANG"))
	}
	a.tr = i18n.New(lang)

	server := firstNonEmpty(a.server, a.cfg.Server, sess.Server, defaultServer)
	a.sess.Server = server
	opts := []client.Option{client.WithToken(sess.Token)}
	if a.cfg.Breaker.RecordLength > 0 {
		opts = append(opts, client.WithBreaker(a.cfg.Breaker, a.clock))
	}
	if a.cfg.Timeout > 0 {
		opts = append(opts, client.WithHTTPClient(newHTTPClient(a.cfg.Timeout)))
	}
	a.api = client.New(strings.TrimRight(server, "/"), a.log, opts...)
	a.cache = cache.New(a.paths.Cache)
	return nil
}

func (a *App) saveSession() error {
	return session.Save(a.paths.Session, a.sess)
}

func (a *App) requireLogin() error {
	if !a.sess.LoggedIn(a.clock.Now()) {
		return a.fail(errors.New(a.tr.T("auth.errors.login_required")))
	}
	return nil
}

func (a *App) prompt(label string) (string, error) {
	fmt.Fprintf(a.out, "%s: ", label)
	line, err := a.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// promptPassword masks input on a terminal and reads a plain line otherwise.
func (a *App) promptPassword(label string) (string, error) {
	if a.inFd >= 0 && term.IsTerminal(a.inFd) {
		fmt.Fprintf(a.out, "%s: ", label)
		b, err := term.ReadPassword(a.inFd)
		fmt.Fprintln(a.out)
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(b)), nil
	}
	return a.prompt(label)
}

// fail prints err in the user's language and returns it so cobra exits non zero.
func (a *App) fail(err error) error {
	if a.tr == nil {
		fmt.Fprintln(a.errW, err)
		return err
	}
	if apiErr, ok := client.AsAPIError(err); ok {
		if apiErr.StoreDown() {
			fmt.Fprintln(a.errW, a.tr.T("errors.store_down"), a.tr.T("common.retry"))
			return err
		}
		fmt.Fprintln(a.errW, a.tr.T("errors.request", i18n.P("message", apiErr.Message)))
		return err
	}
	if errors.Is(err, client.ErrUnavailable) {
		fmt.Fprintln(a.errW, a.tr.T("errors.unavailable"), a.tr.T("common.retry"))
		a.log.Debug("unavailable", zap.Error(err))
		return err
	}
	fmt.Fprintln(a.errW, a.tr.T("errors.request", i18n.P("message", err.Error())))
	return err
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
