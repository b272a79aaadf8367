package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"
	"runtime/debug"
	"strings"

	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	"github.com/bft-labs/handoff/internal/adapters/fs"
	"github.com/bft-labs/handoff/internal/app"
	"github.com/bft-labs/handoff/internal/cliconfig"
	"github.com/bft-labs/handoff/internal/ports"
)

const longHelp = `Shared clipboard for humans and AI agents.

Items pushed from any terminal land on a stack of the 50 most recent entries
and can be read back by position (1 = newest) from any other terminal.
Named slots keep content under a stable name. Everything lives in
~/.handoff as plain JSON files.`

var exampleUsage = strings.TrimSpace(`
  handoff push "text"      add to the stack
  git diff | handoff push  push piped input
  handoff 1                print item #1 (newest)
  handoff pop              print and remove the newest item
  handoff save ticket      save item #1 as 'ticket'
  handoff ticket           print the slot named 'ticket'
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return "dev"
}

func versionString() string {
	return fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH)
}

// cli carries configuration and I/O shared by all commands.
type cli struct {
	cfg     cliconfig.Config
	cfgPath string

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	logger ports.Logger
}

func newCLI(stdin io.Reader, stdout, stderr io.Writer) *cli {
	return &cli{
		cfg:    cliconfig.DefaultConfig(),
		stdin:  stdin,
		stdout: stdout,
		stderr: stderr,
		logger: cliconfig.Logger(stderr, "warn"),
	}
}

// load resolves configuration for cmd: defaults, then the TOML file, then
// HANDOFF_* variables, then explicitly set flags. defaultLevel applies when
// no source sets a log level.
func (c *cli) load(cmd *cobra.Command, defaultLevel string) error {
	changed := map[string]bool{}
	cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

	cfgFile := c.cfgPath
	if cfgFile == "" {
		cfgFile = cliconfig.DefaultConfigPath()
	}
	if cfgFile != "" && cliconfig.FileExists(cfgFile) {
		fc, err := cliconfig.LoadFileConfig(cfgFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if err := cliconfig.ApplyFileConfig(&c.cfg, fc, changed); err != nil {
			return err
		}
	}

	if err := cliconfig.ApplyEnvConfig(&c.cfg, changed); err != nil {
		return err
	}
	if err := c.cfg.Validate(); err != nil {
		return err
	}

	level := c.cfg.LogLevel
	if level == "" {
		level = defaultLevel
	}
	c.logger = cliconfig.Logger(c.stderr, level)
	c.logger.Debug("configuration", ports.Any("config", c.cfg))
	return nil
}

// store returns the file store for the configured base directory.
func (c *cli) store() *fs.Store {
	return fs.NewStore(c.cfg.BaseDir, c.logger)
}

// open loads configuration and returns a manager for a one-shot command.
func (c *cli) open(cmd *cobra.Command) (*app.Manager, error) {
	if err := c.load(cmd, "warn"); err != nil {
		return nil, err
	}
	return app.NewManager(c.store(), app.WithLogger(c.logger)), nil
}

func newRootCmd(c *cli) *cobra.Command {
	root := &cobra.Command{
		Use:           "handoff [position | slot]",
		Short:         "Shared clipboard for humans and AI agents",
		Long:          longHelp,
		Example:       exampleUsage,
		Version:       versionString(),
		Args:          cobra.ArbitraryArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			if len(args) > 1 {
				return usageErrorf("unknown command %q for %q", args[0], cmd.CommandPath())
			}
			return c.runGet(cmd, args[0])
		},
	}
	root.SetIn(c.stdin)
	root.SetOut(c.stdout)
	root.SetErr(c.stderr)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageErrorf("%v", err)
	})

	root.PersistentFlags().StringVar(&c.cfgPath, "config", "", "path to config file (default: $HOME/.handoff/config.toml)")
	root.PersistentFlags().StringVar(&c.cfg.BaseDir, "home", c.cfg.BaseDir, "storage directory")
	root.PersistentFlags().StringVar(&c.cfg.LogLevel, "log-level", c.cfg.LogLevel, "log level: debug, info, warn, error, disabled (default warn, info for watch)")

	root.AddCommand(
		newPushCmd(c),
		newPopCmd(c),
		newListCmd(c),
		newSaveCmd(c),
		newDeleteCmd(c),
		newSlotsCmd(c),
		newClearCmd(c),
		newGetCmd(c),
		newWatchCmd(c),
		newVersionCmd(c),
	)
	return root
}

// run executes the command line and returns the process exit code.
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	c := newCLI(stdin, stdout, stderr)
	root := newRootCmd(c)
	root.SetArgs(args)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return 0
	}
	if msg, ok := userMessage(err); ok {
		fmt.Fprintf(stderr, "Error: %s\n", msg)
		return 1
	}
	c.logger.Error("handoff", ports.Err(err))
	return 2
}

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}
