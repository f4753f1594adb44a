// Package cli - команды клиента issuekeeper на cobra.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/iudanet/issuekeeper/internal/client/api"
	"github.com/iudanet/issuekeeper/internal/client/auth"
	"github.com/iudanet/issuekeeper/internal/client/iocli"
	"github.com/iudanet/issuekeeper/internal/client/storage/boltdb"
)

// EnvPrefix - префикс переменных окружения клиента
const EnvPrefix = "ISSUEKEEPER_"

// Defaults are read from the environment before flags are parsed.
type Defaults struct {
	Server   string `env:"SERVER" envDefault:"http://localhost:8080"`
	DBPath   string `env:"CLIENT_DB"`
	Password string `env:"PASSWORD"`
}

// LoadDefaults reads ISSUEKEEPER_* variables from environ.
func LoadDefaults(environ map[string]string) (Defaults, error) {
	var d Defaults
	if err := env.ParseWithOptions(&d, env.Options{Prefix: EnvPrefix, Environment: environ}); err != nil {
		return Defaults{}, fmt.Errorf("parse client env: %w", err)
	}
	if d.DBPath == "" {
		d.DBPath = defaultDBPath()
	}
	return d, nil
}

func defaultDBPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "issuekeeper-client.db"
	}
	return filepath.Join(dir, "issuekeeper", "client.db")
}

// AuthRequiredError means the command needs a fresh login.
type AuthRequiredError struct {
	Err error
}

func (e *AuthRequiredError) Error() string {
	return fmt.Sprintf("%v (run 'issuekeeper login')", e.Err)
}

func (e *AuthRequiredError) Unwrap() error {
	return e.Err
}

// app - состояние одного запуска команды
type app struct {
	defaults  Defaults
	serverURL string
	dbPath    string
	noColor   bool
	verbose   bool

	io     iocli.IO
	out    io.Writer
	color  bool
	logger *slog.Logger
	store  *boltdb.Storage
	client *api.Client
	auth   *auth.Service
}

// NewRootCmd builds the client command tree.
func NewRootCmd(version string, defaults Defaults) *cobra.Command {
	a := &app{defaults: defaults}

	root := &cobra.Command{
		Use:   "issuekeeper",
		Short: "Command line client for the IssueKeeper security issue tracker",
		Long: `issuekeeper talks to an IssueKeeper server: register or log in once,
then manage your security issues. The session token is cached locally.`,
		Version:           version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.open,
	}
	root.SetVersionTemplate(`{{printf "issuekeeper client version %s\n" .Version}}`)

	flags := root.PersistentFlags()
	flags.StringVar(&a.serverURL, "server", defaults.Server, "server base URL (env "+EnvPrefix+"SERVER)")
	flags.StringVar(&a.dbPath, "db", defaults.DBPath, "path to the local session database (env "+EnvPrefix+"CLIENT_DB)")
	flags.BoolVar(&a.noColor, "no-color", false, "disable colored output")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "log debug messages to stderr")

	root.AddCommand(
		newRegisterCmd(a),
		newLoginCmd(a),
		newLogoutCmd(a),
		newWhoamiCmd(a),
		newHealthCmd(a),
		newIssuesCmd(a),
		newProfileCmd(a),
	)

	return root
}

// open поднимает хранилище и клиентов перед любой подкомандой
func (a *app) open(cmd *cobra.Command, args []string) error {
	level := slog.LevelWarn
	if a.verbose {
		level = slog.LevelDebug
	}
	a.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	a.out = cmd.OutOrStdout()
	a.io = iocli.NewTerminal(cmd.InOrStdin(), a.out)
	a.color = !a.noColor && isTerminal(a.out)

	serverURL := strings.TrimRight(strings.TrimSpace(a.serverURL), "/")
	if serverURL == "" {
		return errors.New("--server must not be empty")
	}

	store, err := boltdb.New(cmd.Context(), a.dbPath)
	if err != nil {
		return fmt.Errorf("open session storage: %w", err)
	}
	a.store = store
	a.client = api.NewClient(serverURL)
	a.auth = auth.NewService(a.client, store, a.logger)

	a.logger.DebugContext(cmd.Context(), "client ready", slog.String("server", serverURL), slog.String("db", a.dbPath))
	return nil
}

// run оборачивает RunE: хранилище закрывается и при ошибке команды,
// иначе следующий запуск упрется в блокировку файла bbolt
func (a *app) run(fn func(cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) (err error) {
		defer func() {
			err = errors.Join(err, a.close())
		}()
		return fn(cmd, args)
	}
}

func (a *app) close() error {
	if a.store == nil {
		return nil
	}
	err := a.store.Close()
	a.store = nil
	return err
}

// token возвращает токен текущей сессии или AuthRequiredError
func (a *app) token(ctx context.Context) (string, error) {
	token, err := a.auth.Token(ctx)
	if err != nil {
		if errors.Is(err, auth.ErrNotAuthenticated) {
			return "", &AuthRequiredError{Err: err}
		}
		return "", err
	}
	return token, nil
}

// authed вызывает fn с токеном; 401 от сервера означает, что сессия больше не действует
func (a *app) authed(ctx context.Context, fn func(token string) error) error {
	token, err := a.token(ctx)
	if err != nil {
		return err
	}
	if err := fn(token); err != nil {
		if api.StatusCode(err) == http.StatusUnauthorized {
			return &AuthRequiredError{Err: err}
		}
		return err
	}
	return nil
}

// readPassword берет пароль из ISSUEKEEPER_PASSWORD, файла или спрашивает интерактивно
func (a *app) readPassword(file, prompt string) (string, error) {
	if a.defaults.Password != "" {
		return a.defaults.Password, nil
	}

	if file != "" {
		content, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("failed to read password file: %w", err)
		}
		password := strings.TrimRight(string(content), "\r\n")
		if password == "" {
			return "", errors.New("password file is empty")
		}
		return password, nil
	}

	password, err := a.io.ReadPassword(prompt)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return password, nil
}

// prompt возвращает value, а если оно пустое - спрашивает пользователя
func (a *app) prompt(value, prompt string) (string, error) {
	if value != "" {
		return value, nil
	}
	input, err := a.io.ReadInput(prompt)
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return input, nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
