package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"lawfirm-cms/internal/config"
	"lawfirm-cms/internal/credentials"
	"lawfirm-cms/internal/resource"
	"lawfirm-cms/pkg/logger"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

var version = "dev"

var (
	stdout io.Writer = os.Stdout
	stdin  io.Reader = os.Stdin
)

var commands = map[string]func([]string) error{
	"login":     runLogin,
	"logout":    runLogout,
	"signup":    runSignup,
	"whoami":    runWhoami,
	"resources": runResources,
	"list":      runList,
	"get":       runGet,
	"create":    runCreate,
	"update":    runUpdate,
	"delete":    runDelete,
	"dashboard": runDashboard,
	"activity":  runActivity,
}

func usage() {
	fmt.Fprintf(os.Stderr, `lawctl - law firm CMS admin CLI (version %s)

Usage:
  lawctl <command> [options]

Commands:
  login      Log in and store the token
  logout     Forget the stored token
  signup     Register an admin account
  whoami     Show the stored login and when it expires
  resources  List the managed resources
  list       List a resource's entities
  get        Show one entity
  create     Create an entity from field=value pairs
  update     Update an entity from field=value pairs
  delete     Delete an entity
  dashboard  Show how many entities each resource holds
  activity   Show recent changes and sign-ins

Environment:
  LAWCMS_API_URL           backend base URL (default http://localhost:8080)
  LAWCMS_TIMEOUT           request timeout (default 30s)
  LAWCMS_CREDENTIALS_FILE  token file (default ~/.lawcms/credentials.json)

Run 'lawctl <command> -h' for command-specific help.
`, version)
}

func main() {
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	if cmd == "-h" || cmd == "--help" || cmd == "help" {
		usage()
		os.Exit(0)
	}
	if cmd == "-v" || cmd == "--version" || cmd == "version" {
		fmt.Println(version)
		os.Exit(0)
	}

	fn, ok := commands[cmd]
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", cmd)
		usage()
		os.Exit(1)
	}

	if err := fn(os.Args[2:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "error: %s\n", describe(err))
		os.Exit(1)
	}
}

// session is what every networked command needs.
type session struct {
	store  *credentials.FileStore
	client *resource.Client
	log    *logrus.Logger
}

func newSession() (*session, error) {
	cfg, err := config.LoadClient()
	if err != nil {
		return nil, err
	}

	log := logger.New(os.Stderr)
	log.SetLevel(logrus.WarnLevel)
	store := credentials.NewFileStore(cfg.CredentialsFile)
	client, err := resource.New(cfg.APIURL, credentials.WithExpiry(store),
		resource.WithTimeout(cfg.Timeout),
		resource.WithLogger(log),
	)
	if err != nil {
		return nil, err
	}

	return &session{store: store, client: client, log: log}, nil
}
