package hooks

// Config is the top-level configuration for hooks loaded from .planr.hooks.yml.
type Config struct {
	Version int         `yaml:"version"`
	Hooks   HooksConfig `yaml:"hooks"`
}

// HooksConfig contains all hook configurations.
type HooksConfig struct {
	// OnComplete runs, in order, after a wizard completes.
	OnComplete []*HookConfig `yaml:"on_complete"`
}

// HookConfig defines a single hook's configuration.
type HookConfig struct {
	Command string `yaml:"command"`
	Timeout int    `yaml:"timeout"` // seconds, default 30
	// PipeOutput includes the command's output in what ExecuteAll returns.
	PipeOutput bool `yaml:"pipe_output"`
}

// DefaultTimeout is the default timeout for hook execution in seconds.
const DefaultTimeout = 30
