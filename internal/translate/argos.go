package translate

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

type commandRunner func(ctx context.Context, name string, args ...string) (stdout []byte, stderr []byte, err error)

// ArgosEngine shells out to the argos-translate CLI.
type ArgosEngine struct {
	translateBinary string
	packageBinary   string
	run             commandRunner
}

// NewArgosEngine returns an engine using argos-translate and argospm.
func NewArgosEngine(translateBinary, packageBinary string) *ArgosEngine {
	if strings.TrimSpace(translateBinary) == "" {
		translateBinary = "argos-translate"
	}
	if strings.TrimSpace(packageBinary) == "" {
		packageBinary = "argospm"
	}
	return &ArgosEngine{
		translateBinary: translateBinary,
		packageBinary:   packageBinary,
		run:             runCommand,
	}
}

// WithCommandRunner sets a custom command runner (for testing).
func (a *ArgosEngine) WithCommandRunner(runner func(ctx context.Context, name string, args ...string) ([]byte, []byte, error)) {
	a.run = runner
}

// Name implements Engine.
func (a *ArgosEngine) Name() string { return "argos" }

// Setup refreshes the package index and installs the language pair model.
func (a *ArgosEngine) Setup(ctx context.Context, from, to string) error {
	if _, stderr, err := a.run(ctx, a.packageBinary, "update"); err != nil {
		return fmt.Errorf("argospm update: %w: %s", err, strings.TrimSpace(string(stderr)))
	}
	pkg := fmt.Sprintf("translate-%s_%s", from, to)
	if _, stderr, err := a.run(ctx, a.packageBinary, "install", pkg); err != nil {
		return Permanent(fmt.Errorf("argospm install %s: %w: %s", pkg, err, strings.TrimSpace(string(stderr))))
	}
	return nil
}

// Translate implements Engine.
func (a *ArgosEngine) Translate(ctx context.Context, text, from, to string) (string, error) {
	stdout, stderr, err := a.run(ctx, a.translateBinary, "--from-lang", from, "--to-lang", to, text)
	if err != nil {
		return "", fmt.Errorf("argos-translate: %w: %s", err, strings.TrimSpace(string(stderr)))
	}
	return string(stdout), nil
}

// Close implements Engine.
func (a *ArgosEngine) Close() error { return nil }

func runCommand(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.Bytes(), stderr.Bytes(), err
}
