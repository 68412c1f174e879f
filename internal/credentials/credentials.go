// Package credentials resolves the SYSTM account username/password pair,
// preferring 1Password secret references over plain environment variables.
package credentials

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// Recognized environment variables.
const (
	EnvUsername      = "SYSTM_USERNAME"
	EnvPassword      = "SYSTM_PASSWORD"
	EnvUsernameOpRef = "SYSTM_USERNAME_OP_REF"
	EnvPasswordOpRef = "SYSTM_PASSWORD_OP_REF"
)

var (
	// ErrToolNotFound means the `op` CLI is not installed or not on PATH.
	ErrToolNotFound = errors.New("1password cli not found, install the `op` cli and enable app integration")

	// ErrNoCredentials means neither the secret-reference pair nor the
	// plain variable pair is fully set.
	ErrNoCredentials = fmt.Errorf(
		"no credentials found, set either %s and %s for 1password integration, or %s and %s",
		EnvUsernameOpRef, EnvPasswordOpRef, EnvUsername, EnvPassword,
	)
)

// RetrievalError means the secret tool ran but failed; Output carries its
// diagnostic output.
type RetrievalError struct {
	Output string
	Err    error
}

func (e *RetrievalError) Error() string {
	return fmt.Sprintf("failed to retrieve credentials from 1password: %s", e.Output)
}

func (e *RetrievalError) Unwrap() error {
	return e.Err
}

// commandRunner runs an external command and returns its stdout. Injectable
// so tests need no `op` binary.
type commandRunner interface {
	Run(name string, args ...string) (stdout string, err error)
}

type execRunner struct{}

func (execRunner) Run(name string, args ...string) (string, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.Command(name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return "", fmt.Errorf("%w: %s", ErrToolNotFound, name)
		}
		diagnostic := strings.TrimSpace(stderr.String())
		if diagnostic == "" {
			diagnostic = err.Error()
		}
		return "", &RetrievalError{Output: diagnostic, Err: err}
	}
	return stdout.String(), nil
}

// Resolver resolves credentials from the environment.
type Resolver struct {
	runner commandRunner
}

// NewResolver builds a resolver backed by the real `op` CLI.
func NewResolver() *Resolver {
	return &Resolver{runner: execRunner{}}
}

// Resolve returns the username/password pair. The secret-reference path
// takes precedence even when plain variables are also set: an explicit
// secret reference must never be silently bypassed.
func (r *Resolver) Resolve() (username, password string, err error) {
	usernameRef := os.Getenv(EnvUsernameOpRef)
	passwordRef := os.Getenv(EnvPasswordOpRef)
	if usernameRef != "" && passwordRef != "" {
		return r.fromSecretRefs(usernameRef, passwordRef)
	}

	username = os.Getenv(EnvUsername)
	password = os.Getenv(EnvPassword)
	if username != "" && password != "" {
		return username, password, nil
	}

	return "", "", ErrNoCredentials
}

func (r *Resolver) fromSecretRefs(usernameRef, passwordRef string) (string, string, error) {
	username, err := r.runner.Run("op", "read", usernameRef)
	if err != nil {
		return "", "", err
	}
	password, err := r.runner.Run("op", "read", passwordRef)
	if err != nil {
		return "", "", err
	}
	return strings.TrimRight(username, "\r\n \t"), strings.TrimRight(password, "\r\n \t"), nil
}
