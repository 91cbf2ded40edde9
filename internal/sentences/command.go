package sentences

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// CommandSplitter pipes text to an external tokenizer on stdin and reads one
// sentence per stdout line. The literal argument "{lang}" is replaced with the
// input language.
type CommandSplitter struct {
	argv []string
	run  func(ctx context.Context, name string, args []string, stdin string) (string, error)
}

// NewCommandSplitter validates argv and returns a splitter that executes it.
func NewCommandSplitter(argv []string, lang string) (*CommandSplitter, error) {
	if len(argv) == 0 {
		return nil, errors.New("sentence splitter command is empty")
	}
	resolved := make([]string, len(argv))
	for i, arg := range argv {
		resolved[i] = strings.ReplaceAll(arg, "{lang}", lang)
	}
	return &CommandSplitter{argv: resolved, run: runCommand}, nil
}

// WithRunner overrides process execution (for tests).
func (s *CommandSplitter) WithRunner(run func(ctx context.Context, name string, args []string, stdin string) (string, error)) {
	s.run = run
}

// Split implements Splitter.
func (s *CommandSplitter) Split(ctx context.Context, text string) ([]string, error) {
	output, err := s.run(ctx, s.argv[0], s.argv[1:], text)
	if err != nil {
		return nil, fmt.Errorf("sentence splitter %s: %w", s.argv[0], err)
	}
	var lines []string
	scanner := bufio.NewScanner(strings.NewReader(output))
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("sentence splitter %s: read output: %w", s.argv[0], err)
	}
	return compact(lines), nil
}

func runCommand(ctx context.Context, name string, args []string, stdin string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
	cmd.Stdin = strings.NewReader(stdin)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("%w: %s", err, strings.TrimSpace(stderr.String()))
	}
	return stdout.String(), nil
}
