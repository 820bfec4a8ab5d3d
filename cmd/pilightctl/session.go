package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/muurk/pilightctl/internal/api"
	"github.com/muurk/pilightctl/internal/config"
	"github.com/muurk/pilightctl/internal/logging"
	"github.com/muurk/pilightctl/internal/store"
	"github.com/muurk/pilightctl/internal/ui"
)

// PasswordEnvVar supplies the login password for non-interactive use.
const PasswordEnvVar = "PILIGHT_PASSWORD"

var (
	// errReported marks an error whose details were already printed.
	errReported = errors.New("command failed")

	errNoServer = errors.New("no server given and no default server registered; use --server or 'pilightctl server add'")
)

// session is a resolved backend and the client that talks to it.
type session struct {
	name    string // Registry name; empty for an ad-hoc URL
	url     string
	client  *api.Client
	timeout time.Duration
}

// requestTimeout is --timeout when given, else the registry preference.
func requestTimeout(reg *config.Registry) time.Duration {
	if timeoutSecs > 0 {
		return time.Duration(timeoutSecs) * time.Second
	}
	return reg.Preferences.RequestTimeoutDuration()
}

// openSession resolves arg against the registry. It does not contact the
// backend.
func openSession(reg *config.Registry, arg string) (*session, error) {
	name, url, ok := reg.Resolve(arg)
	if !ok {
		if arg == "" {
			return nil, errNoServer
		}
		return nil, fmt.Errorf("unknown server %q: use a registered name or an http:// URL", arg)
	}

	timeout := requestTimeout(reg)
	client := api.NewClient(url)
	client.SetTimeout(timeout)
	return &session{name: name, url: url, client: client, timeout: timeout}, nil
}

// label is how the session is shown to the user.
func (s *session) label() string {
	if s.name == "" {
		return s.url
	}
	return s.name
}

// user is the login name from --user or the registry.
func (s *session) user(reg *config.Registry) string {
	if username != "" {
		return username
	}
	if srv := reg.GetServer(s.name); srv != nil {
		return srv.Username
	}
	return ""
}

// connect logs in when a user is known and checks that the backend answers.
// A successful connect marks the server as seen.
func (s *session) connect(ctx context.Context, reg *config.Registry) error {
	if user := s.user(reg); user != "" {
		password, err := readPassword(os.Stdin, user)
		if err != nil {
			return err
		}
		if err := s.client.Login(ctx, user, password); err != nil {
			return err
		}
		logging.Info("Logged in", zap.String("server", s.label()), zap.String("user", user))
	}

	if err := s.client.Ping(ctx); err != nil {
		return err
	}

	if s.name != "" {
		reg.MarkSeen(s.name)
		if err := reg.Save(); err != nil {
			logging.Warn("Failed to save registry", zap.Error(err))
		}
	}
	return nil
}

// newStore creates a store bound to the session's client.
func (s *session) newStore(ctx context.Context) store.Store {
	return store.New(s.client, store.WithContext(ctx), store.WithRequestTimeout(s.timeout))
}

// run feeds each message through the store in order and stops at the first
// surfaced error.
func run(s store.Store, msgs ...tea.Msg) (store.Store, error) {
	for _, msg := range msgs {
		s = store.Drain(s, msg)
		if st := s.State(); st.HasError() {
			return s, errors.New(st.ErrorMessage)
		}
	}
	return s, nil
}

// bootstrap connects and loads the session state.
func (s *session) bootstrap(ctx context.Context, reg *config.Registry) (store.Store, error) {
	if err := s.connect(ctx, reg); err != nil {
		return store.Store{}, err
	}
	return run(s.newStore(ctx), store.Bootstrap{})
}

// readPassword takes the password from PILIGHT_PASSWORD, a terminal prompt,
// or the first line of in.
func readPassword(in *os.File, user string) (string, error) {
	if pw := os.Getenv(PasswordEnvVar); pw != "" {
		return pw, nil
	}

	fd := int(in.Fd())
	if term.IsTerminal(fd) {
		fmt.Fprintf(os.Stderr, "Password for %s: ", user)
		pw, err := term.ReadPassword(fd)
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", fmt.Errorf("failed to read password: %w", err)
		}
		return string(pw), nil
	}
	return readLine(in)
}

func readLine(in io.Reader) (string, error) {
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// hintTips splits api.Hint output into bullet tips. A hint without bullets
// becomes a single tip.
func hintTips(hint string) []string {
	var tips, summary []string
	for _, line := range strings.Split(hint, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == "", trimmed == "Troubleshooting:":
		case strings.HasPrefix(trimmed, "•"):
			tips = append(tips, strings.TrimSpace(strings.TrimPrefix(trimmed, "•")))
		default:
			summary = append(summary, trimmed)
		}
	}
	if len(tips) == 0 {
		return summary
	}
	return tips
}

// fail prints err in an error box and returns errReported.
func fail(p *ui.Printer, title string, err error) error {
	var apiErr *api.Error
	var tips []string
	if errors.As(err, &apiErr) {
		tips = hintTips(api.Hint(err))
	}
	logging.Error(title, zap.Error(err))
	p.PrintError(title, err, tips)
	return errReported
}
