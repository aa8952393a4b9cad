package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"strings"
	"time"

	"lawfirm-cms/internal/config"
	"lawfirm-cms/internal/credentials"
	"lawfirm-cms/internal/resource"

	"github.com/golang-jwt/jwt/v5"
)

var errEmailRequired = errors.New("email is required")

func credentialFlags(name, help string) (*flag.FlagSet, *string, *string) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	email := fs.String("email", "", "Account email")
	password := fs.String("password", "", "Account password (read from stdin when omitted)")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: lawctl %s --email <email> [--password <password>]\n\n%s\n\nOptions:\n", name, help)
		fs.PrintDefaults()
	}
	return fs, email, password
}

func readCredentials(email, password string) (resource.Credentials, error) {
	if strings.TrimSpace(email) == "" {
		return resource.Credentials{}, errEmailRequired
	}
	if password == "" {
		fmt.Fprint(stdout, "Password: ")
		line, err := bufio.NewReader(stdin).ReadString('\n')
		if err != nil && line == "" {
			return resource.Credentials{}, fmt.Errorf("failed to read password: %w", err)
		}
		password = strings.TrimRight(line, "\r\n")
		fmt.Fprintln(stdout)
	}
	return resource.Credentials{Email: strings.TrimSpace(email), Password: password}, nil
}

func runLogin(args []string) error {
	fs, email, password := credentialFlags("login", "Log in and store the token for later commands.")
	if err := fs.Parse(args); err != nil {
		return err
	}
	creds, err := readCredentials(*email, *password)
	if err != nil {
		return err
	}

	s, err := newSession()
	if err != nil {
		return err
	}
	result, err := s.client.Login(context.Background(), creds)
	if err != nil {
		return err
	}
	if err := s.store.Set(result.Token); err != nil {
		return err
	}

	fmt.Fprintf(stdout, "Logged in as %s\n", creds.Email)
	return nil
}

func runSignup(args []string) error {
	fs, email, password := credentialFlags("signup", "Register an admin account. Run login afterwards.")
	if err := fs.Parse(args); err != nil {
		return err
	}
	creds, err := readCredentials(*email, *password)
	if err != nil {
		return err
	}

	s, err := newSession()
	if err != nil {
		return err
	}
	msg, err := s.client.Signup(context.Background(), creds)
	if err != nil {
		return err
	}

	fmt.Fprintln(stdout, msg)
	return nil
}

func runLogout(args []string) error {
	cfg, err := config.LoadClient()
	if err != nil {
		return err
	}
	if err := credentials.NewFileStore(cfg.CredentialsFile).Clear(); err != nil {
		return err
	}
	fmt.Fprintln(stdout, "Logged out")
	return nil
}

// runWhoami reads the stored token locally. It does not contact the backend.
func runWhoami(args []string) error {
	cfg, err := config.LoadClient()
	if err != nil {
		return err
	}
	token, ok := credentials.NewFileStore(cfg.CredentialsFile).Token()
	if !ok {
		fmt.Fprintln(stdout, "Not logged in")
		return nil
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		fmt.Fprintln(stdout, "Logged in (opaque token)")
		return nil
	}

	email, _ := claims["email"].(string)
	exp, err := claims.GetExpirationTime()
	switch {
	case err != nil || exp == nil:
		fmt.Fprintf(stdout, "Logged in as %s\n", email)
	case credentials.Expired(token, time.Now()):
		fmt.Fprintf(stdout, "Session for %s expired at %s; run lawctl login\n", email, exp.Local().Format(time.RFC1123))
	default:
		fmt.Fprintf(stdout, "Logged in as %s until %s\n", email, exp.Local().Format(time.RFC1123))
	}
	return nil
}
