package hooks

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/mark3labs/planr/internal/logger"
	"gopkg.in/yaml.v3"
)

// ConfigFileName is the name of the hooks configuration file.
const ConfigFileName = ".planr.hooks.yml"

// LoadConfig loads the hooks configuration from dir.
// Returns nil if the file doesn't exist.
func LoadConfig(dir string) (*Config, error) {
	path := filepath.Join(dir, ConfigFileName)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Debug("No hooks config found at %s", path)
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read hooks config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse hooks config: %w", err)
	}

	logger.Debug("Loaded hooks config from %s (version: %d, on_complete: %d)", path, cfg.Version, len(cfg.Hooks.OnComplete))
	return &cfg, nil
}

// Variables are passed to hook commands as PLANR_SESSION, PLANR_PLAN_NAME,
// PLANR_PLAN_FILE and PLANR_PERIOD. The placeholders {{session}},
// {{plan_name}}, {{plan_file}} and {{period}} expand to double-quoted
// references to those variables, so values never become shell syntax.
type Variables struct {
	Session  string
	PlanName string
	PlanFile string
	Period   string
}

// Execute runs one hook command through sh and returns its output.
// A failing or timed out command is reported in the output, not as an error.
// Only context cancellation returns an error.
func Execute(ctx context.Context, hook *HookConfig, dir string, vars Variables) (string, error) {
	if hook == nil || hook.Command == "" {
		return "", nil
	}

	command := expandVariables(hook.Command)
	logger.Debug("Executing hook command: %s", command)

	timeout := hook.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	execCtx, cancel := context.WithTimeout(ctx, time.Duration(timeout)*time.Second)
	defer cancel()

	cmd := exec.CommandContext(execCtx, "sh", "-c", command)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), vars.env()...)
	cmd.WaitDelay = time.Second

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	if ctx.Err() != nil {
		return "", ctx.Err()
	}

	if execCtx.Err() == context.DeadlineExceeded {
		logger.Warn("Hook command timed out after %ds: %s", timeout, command)
		return fmt.Sprintf("[hook timed out after %ds]\n%s", timeout, stdout.String()), nil
	}

	output := stdout.String()
	if stderr.Len() > 0 {
		output += "\n[stderr]\n" + stderr.String()
	}
	if err != nil {
		logger.Warn("Hook command failed: %v", err)
		return fmt.Sprintf("[hook failed: %v]\n%s", err, output), nil
	}

	logger.Debug("Hook finished, output length: %d bytes", len(output))
	return output, nil
}

// ExecuteAll runs hooks in order and joins the output of those with
// PipeOutput set, separated by blank lines.
func ExecuteAll(ctx context.Context, hooks []*HookConfig, dir string, vars Variables) (string, error) {
	var outputs []string
	for _, hook := range hooks {
		if hook == nil {
			continue
		}
		out, err := Execute(ctx, hook, dir, vars)
		if err != nil {
			return "", err
		}
		if hook.PipeOutput && out != "" {
			outputs = append(outputs, out)
		}
	}
	return strings.Join(outputs, "\n"), nil
}

func (v Variables) env() []string {
	return []string{
		"PLANR_SESSION=" + v.Session,
		"PLANR_PLAN_NAME=" + v.PlanName,
		"PLANR_PLAN_FILE=" + v.PlanFile,
		"PLANR_PERIOD=" + v.Period,
	}
}

func expandVariables(command string) string {
	r := strings.NewReplacer(
		"{{session}}", `"$PLANR_SESSION"`,
		"{{plan_name}}", `"$PLANR_PLAN_NAME"`,
		"{{plan_file}}", `"$PLANR_PLAN_FILE"`,
		"{{period}}", `"$PLANR_PERIOD"`,
	)
	return r.Replace(command)
}
