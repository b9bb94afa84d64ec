package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/Saikiran1923/Aura-x/pkg/config"
	"github.com/Saikiran1923/Aura-x/pkg/prompts"
	"github.com/Saikiran1923/Aura-x/pkg/utils"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// ErrReported marks a failure whose details were already printed.
var ErrReported = errors.New("run failed")

const configEnv = "AURAX_CONFIG"

func defaultConfigPath() string {
	if p := os.Getenv(configEnv); p != "" {
		return p
	}
	return config.DefaultConfigPath
}

// loadConfig builds the configuration: defaults, config file, environment,
// then any flags given on the command line.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(configPathFlag)
	if err != nil {
		return nil, err
	}
	flags := cmd.Flags()
	if flags.Changed("model") {
		cfg.Model = modelFlag
	}
	if flags.Changed("base-url") {
		cfg.OllamaBaseURL = strings.TrimRight(strings.TrimSpace(baseURLFlag), "/")
	}
	if f := flags.Lookup("projects-root"); f != nil && f.Changed {
		cfg.ProjectsRoot = f.Value.String()
	}
	if f := flags.Lookup("exec-timeout"); f != nil && f.Changed {
		seconds, err := flags.GetInt("exec-timeout")
		if err != nil {
			return nil, err
		}
		cfg.ExecTimeoutSeconds = seconds
	}
	if f := flags.Lookup("python"); f != nil && f.Changed {
		cfg.PythonPath = f.Value.String()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	warn := color.New(color.FgYellow)
	for _, w := range cfg.Warnings {
		warn.Fprintln(os.Stderr, prompts.ConfigWarning(w))
	}
	return cfg, nil
}

// newLogger opens the run log and echoes process steps to stdout.
func newLogger(cfg *config.Config) *utils.Logger {
	logger := utils.NewLogger(cfg.LogFile, cfg.JSONLogs)
	logger.SetConsole(os.Stdout)
	return logger
}

// signalContext is cancelled on SIGINT or SIGTERM so in-flight requests and
// child processes are torn down.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func stdinIsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// readRequest returns the request given as arguments, or else the first line
// of in. The prompt is only shown when interactive is set.
func readRequest(args []string, in io.Reader, out io.Writer, interactive bool) (string, error) {
	request := strings.TrimSpace(strings.Join(args, " "))
	if request != "" {
		return request, nil
	}
	if interactive {
		fmt.Fprint(out, prompts.EnterProjectRequest())
	}
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read request: %w", err)
	}
	request = strings.TrimSpace(line)
	if request == "" {
		return "", errors.New(prompts.RequestRequired())
	}
	return request, nil
}
