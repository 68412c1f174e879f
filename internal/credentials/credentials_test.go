package credentials

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRunner struct {
	outputs map[string]string
	err     error
	calls   [][]string
}

func (s *stubRunner) Run(name string, args ...string) (string, error) {
	s.calls = append(s.calls, append([]string{name}, args...))
	if s.err != nil {
		return "", s.err
	}
	ref := args[len(args)-1]
	out, ok := s.outputs[ref]
	if !ok {
		return "", fmt.Errorf("unexpected ref: %s", ref)
	}
	return out, nil
}

func clearCredentialEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{EnvUsername, EnvPassword, EnvUsernameOpRef, EnvPasswordOpRef} {
		t.Setenv(key, "")
	}
}

func TestResolve_plainEnvVars(t *testing.T) {
	clearCredentialEnv(t)
	t.Setenv(EnvUsername, "grimpeur@example.com")
	t.Setenv(EnvPassword, "hunter2")

	r := &Resolver{runner: &stubRunner{}}
	username, password, err := r.Resolve()
	require.NoError(t, err)
	assert.Equal(t, "grimpeur@example.com", username)
	assert.Equal(t, "hunter2", password)
}

func TestResolve_secretRefsWinOverPlainVars(t *testing.T) {
	clearCredentialEnv(t)
	t.Setenv(EnvUsername, "plain-user")
	t.Setenv(EnvPassword, "plain-pass")
	t.Setenv(EnvUsernameOpRef, "op://vault/systm/username")
	t.Setenv(EnvPasswordOpRef, "op://vault/systm/password")

	runner := &stubRunner{outputs: map[string]string{
		"op://vault/systm/username": "vault-user\n",
		"op://vault/systm/password": "vault-pass\r\n",
	}}
	r := &Resolver{runner: runner}

	username, password, err := r.Resolve()
	require.NoError(t, err)
	// secret references take precedence, and trailing newlines from the
	// cli output are stripped
	assert.Equal(t, "vault-user", username)
	assert.Equal(t, "vault-pass", password)

	require.Len(t, runner.calls, 2)
	assert.Equal(t, []string{"op", "read", "op://vault/systm/username"}, runner.calls[0])
}

func TestResolve_noCredentials(t *testing.T) {
	clearCredentialEnv(t)
	t.Setenv(EnvUsername, "only-username")

	r := &Resolver{runner: &stubRunner{}}
	_, _, err := r.Resolve()
	require.ErrorIs(t, err, ErrNoCredentials)

	// the error must name every recognized variable, it doubles as the
	// setup documentation users see
	for _, key := range []string{EnvUsername, EnvPassword, EnvUsernameOpRef, EnvPasswordOpRef} {
		assert.Contains(t, err.Error(), key)
	}
}

func TestResolve_opToolMissing(t *testing.T) {
	clearCredentialEnv(t)
	t.Setenv(EnvUsernameOpRef, "op://vault/systm/username")
	t.Setenv(EnvPasswordOpRef, "op://vault/systm/password")

	r := &Resolver{runner: &stubRunner{err: fmt.Errorf("%w: op", ErrToolNotFound)}}
	_, _, err := r.Resolve()
	assert.ErrorIs(t, err, ErrToolNotFound)
}

func TestResolve_opReadFails(t *testing.T) {
	clearCredentialEnv(t)
	t.Setenv(EnvUsernameOpRef, "op://vault/systm/username")
	t.Setenv(EnvPasswordOpRef, "op://vault/systm/password")

	retrievalErr := &RetrievalError{Output: "vault is locked", Err: errors.New("exit status 1")}
	r := &Resolver{runner: &stubRunner{err: retrievalErr}}

	_, _, err := r.Resolve()
	var re *RetrievalError
	require.ErrorAs(t, err, &re)
	assert.Contains(t, re.Error(), "vault is locked")
}
