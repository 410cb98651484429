package adapter

import (
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"runtime"
)

// Opener opens catalog web pages and posters in a browser
type Opener struct {
	command string   // configured browser command, empty for system default
	args    []string // additional arguments for the browser
	logger  *slog.Logger

	// start launches a command without waiting for it
	start func(name string, args ...string) error
}

// NewOpener creates an Opener from the browser config
func NewOpener(cfg *BrowserConfig, logger *slog.Logger) *Opener {
	if logger == nil {
		logger = slog.Default()
	}
	o := &Opener{logger: logger, start: startCommand}
	if cfg != nil {
		o.command = cfg.Command
		o.args = cfg.Args
	}
	return o
}

func startCommand(name string, args ...string) error {
	return exec.Command(name, args...).Start() // Start async, don't wait
}

// Open opens url in the configured browser or the system default handler
func (o *Opener) Open(url string) error {
	if url == "" {
		return errors.New("nothing to open")
	}

	if o.command != "" {
		args := append(append([]string{}, o.args...), url)
		o.logger.Info("opening with configured browser", "command", o.command, "url", url)
		if err := o.start(o.command, args...); err != nil {
			return fmt.Errorf("failed to launch %s: %w", o.command, err)
		}
		return nil
	}

	name, args := defaultHandler(runtime.GOOS, url)
	o.logger.Info("opening with system default", "os", runtime.GOOS, "url", url)
	if err := o.start(name, args...); err != nil {
		return fmt.Errorf("failed to open %s: %w", url, err)
	}
	return nil
}

// defaultHandler returns the command that opens url on goos
func defaultHandler(goos, url string) (string, []string) {
	switch goos {
	case "darwin":
		return "open", []string{url}
	case "windows":
		return "cmd", []string{"/c", "start", "", url}
	default:
		// Linux and other Unix-like systems
		return "xdg-open", []string{url}
	}
}
