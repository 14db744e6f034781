// Package vcs executes the version-control operations the orchestrator
// requests. It never implements merge/diff/history logic itself; it only
// shells out to the git, svn and git-svn binaries.
package vcs

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sort"
	"strings"

	"github.com/stettberger/git-external/internal/external"
)

// Result holds the captured output of an executed command.
type Result struct {
	Stdout string
	Stderr string
}

// Runner executes external commands and reports their exit status.
type Runner interface {
	// Run runs a command in dir with captured output.
	Run(dir, name string, args ...string) (Result, error)

	// RunVerbose runs a command in dir, streaming output to the terminal
	// while also capturing it.
	RunVerbose(dir, name string, args ...string) (Result, error)
}

// ExecError is returned when an invoked command exits non-zero.
type ExecError struct {
	Name     string
	Args     []string
	ExitCode int
	Stderr   string
	Err      error
}

func (e *ExecError) Error() string {
	b := new(strings.Builder)
	fmt.Fprintf(b, "%s %s: %v", e.Name, strings.Join(e.Args, " "), e.Err)
	if stderr := strings.TrimSpace(e.Stderr); stderr != "" {
		b.WriteString(": ")
		b.WriteString(stderr)
	}
	return b.String()
}

// Unwrap classifies every command failure as a collaborator failure while
// keeping the underlying exec error reachable.
func (e *ExecError) Unwrap() []error {
	return []error{external.ErrCollaborator, e.Err}
}

// ExecRunner implements Runner using os/exec.
type ExecRunner struct{}

// NewExecRunner creates a new ExecRunner.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

// Run runs a command in dir with captured output.
func (r *ExecRunner) Run(dir, name string, args ...string) (Result, error) {
	return r.run(false, dir, name, args...)
}

// RunVerbose runs a command in dir, streaming output to the terminal.
func (r *ExecRunner) RunVerbose(dir, name string, args ...string) (Result, error) {
	return r.run(true, dir, name, args...)
}

func (r *ExecRunner) run(verbose bool, dir, name string, args ...string) (Result, error) {
	cmd := exec.Command(name, args...)
	cmd.Dir = dir
	cmd.Env = os.Environ()

	cmdStdout := &bytes.Buffer{}
	cmdStderr := &bytes.Buffer{}
	if verbose {
		cmd.Stdout = io.MultiWriter(cmdStdout, os.Stdout)
		cmd.Stderr = io.MultiWriter(cmdStderr, os.Stderr)
	} else {
		cmd.Stdout = cmdStdout
		cmd.Stderr = cmdStderr
	}

	if err := cmd.Run(); err != nil {
		exitCode := 1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		}
		return Result{}, &ExecError{
			Name:     name,
			Args:     args,
			ExitCode: exitCode,
			Stderr:   cmdStderr.String(),
			Err:      err,
		}
	}
	return Result{
		Stdout: cmdStdout.String(),
		Stderr: cmdStderr.String(),
	}, nil
}

// FakeRunner implements Runner with scripted results for testing. Commands
// are keyed by their full command line ("git pull --ff-only").
type FakeRunner struct {
	// Calls records every executed command line in order.
	Calls []string

	// Dirs records the working directory of each call.
	Dirs []string

	// Results maps command lines to canned output. Unscripted commands
	// succeed with empty output.
	Results map[string]Result

	// Fail maps command lines to exit codes.
	Fail map[string]int
}

// NewFakeRunner creates an empty FakeRunner.
func NewFakeRunner() *FakeRunner {
	return &FakeRunner{
		Results: make(map[string]Result),
		Fail:    make(map[string]int),
	}
}

// Run records the command and returns its scripted result.
func (f *FakeRunner) Run(dir, name string, args ...string) (Result, error) {
	cmdline := name
	if len(args) > 0 {
		cmdline += " " + strings.Join(args, " ")
	}
	f.Calls = append(f.Calls, cmdline)
	f.Dirs = append(f.Dirs, dir)

	if code, ok := f.Fail[cmdline]; ok {
		return Result{}, &ExecError{
			Name:     name,
			Args:     args,
			ExitCode: code,
			Err:      fmt.Errorf("exit status %d", code),
		}
	}
	if r, ok := f.Results[cmdline]; ok {
		return r, nil
	}
	return Result{}, nil
}

// RunVerbose behaves like Run.
func (f *FakeRunner) RunVerbose(dir, name string, args ...string) (Result, error) {
	return f.Run(dir, name, args...)
}

// CalledPrefixes returns the distinct first tokens of all recorded calls,
// sorted. Handy for asserting "no git command ran".
func (f *FakeRunner) CalledPrefixes() []string {
	seen := make(map[string]struct{})
	for _, c := range f.Calls {
		prefix, _, _ := strings.Cut(c, " ")
		seen[prefix] = struct{}{}
	}
	prefixes := make([]string, 0, len(seen))
	for p := range seen {
		prefixes = append(prefixes, p)
	}
	sort.Strings(prefixes)
	return prefixes
}
