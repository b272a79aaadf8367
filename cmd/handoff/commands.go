package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/bft-labs/handoff/internal/domain"
)

// exactArgs is cobra.ExactArgs reporting a handled usage error.
func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != n {
			return usageErrorf("%s accepts %d arg(s), received %d", cmd.CommandPath(), n, len(args))
		}
		return nil
	}
}

func rangeArgs(lo, hi int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) < lo || len(args) > hi {
			return usageErrorf("%s accepts between %d and %d arg(s), received %d", cmd.CommandPath(), lo, hi, len(args))
		}
		return nil
	}
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func newPushCmd(c *cli) *cobra.Command {
	var fromStdin bool

	cmd := &cobra.Command{
		Use:     "push [content]",
		Aliases: []string{"p"},
		Short:   "Add content to stack (or pipe to stdin)",
		Args:    rangeArgs(0, 1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var text string
			switch {
			case (fromStdin || len(args) == 0) && !isTerminal(c.stdin):
				b, err := io.ReadAll(c.stdin)
				if err != nil {
					return fmt.Errorf("read stdin: %w", err)
				}
				text = strings.TrimSuffix(string(b), "\n")
				if text == "" {
					return usageErrorf("No content provided")
				}
			case len(args) == 1:
				text = args[0]
			default:
				return usageErrorf(`No content provided. Use: handoff push "content" or pipe content via stdin`)
			}

			m, err := c.open(cmd)
			if err != nil {
				return err
			}
			return m.Push(cmd.Context(), text)
		},
	}
	cmd.Flags().BoolVar(&fromStdin, "stdin", false, "read content from stdin")
	return cmd
}

func newPopCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:     "pop",
		Aliases: []string{"o"},
		Short:   "Get and remove newest item",
		Args:    exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := c.open(cmd)
			if err != nil {
				return err
			}
			content, err := m.Pop(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprint(c.stdout, content)
			return nil
		},
	}
}

func newListCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"l", "ls"},
		Short:   "Show all stack items",
		Args:    exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := c.open(cmd)
			if err != nil {
				return err
			}
			items := m.List(cmd.Context())
			if len(items) == 0 {
				fmt.Fprintln(c.stdout, "Stack is empty")
				return nil
			}

			now := time.Now()
			fmt.Fprintln(c.stdout, "#   Age        Preview")
			for i, it := range items {
				fmt.Fprintf(c.stdout, "%s %s %s\n",
					pad(strconv.Itoa(i+1), 3),
					pad(formatAge(it.CreatedAt, now), 10),
					formatPreview(it.Content, 40))
			}
			return nil
		},
	}
}

func newSaveCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:     "save <name> [content]",
		Aliases: []string{"s"},
		Short:   "Save #1 (or the given content) to a named slot",
		Args:    rangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			if err := domain.ValidateSlotName(name); err != nil {
				return err
			}

			m, err := c.open(cmd)
			if err != nil {
				return err
			}

			var content string
			if len(args) == 2 {
				content = args[1]
			} else {
				items := m.List(cmd.Context())
				if len(items) == 0 {
					return usageErrorf("Stack is empty, nothing to save")
				}
				content = items[0].Content
			}

			if err := m.Save(cmd.Context(), name, content); err != nil {
				return err
			}
			fmt.Fprintf(c.stdout, "Saved to '%s'\n", name)
			return nil
		},
	}
}

func newDeleteCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <name>",
		Aliases: []string{"d", "rm"},
		Short:   "Delete named slot",
		Args:    exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := c.open(cmd)
			if err != nil {
				return err
			}
			if err := m.DeleteSlot(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(c.stdout, "Deleted '%s'\n", args[0])
			return nil
		},
	}
}

func newSlotsCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "slots",
		Short: "List named slots",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := c.open(cmd)
			if err != nil {
				return err
			}
			slots := m.ListSlots(cmd.Context())
			if len(slots) == 0 {
				fmt.Fprintln(c.stdout, "No named slots")
				return nil
			}

			now := time.Now()
			fmt.Fprintln(c.stdout, "Name        Age        Preview")
			for _, s := range slots {
				fmt.Fprintf(c.stdout, "%s %s %s\n",
					pad(s.Name, 11),
					pad(formatAge(s.UpdatedAt, now), 10),
					formatPreview(s.Content, 35))
			}
			return nil
		},
	}
}

func newClearCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Clear the stack",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := c.open(cmd)
			if err != nil {
				return err
			}
			count := len(m.List(cmd.Context()))
			if err := m.ClearStack(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(c.stdout, "Cleared stack (removed %d items)\n", count)
			return nil
		},
	}
}

func newGetCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "get <position | name>",
		Short: "Get stack item by position or named slot",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runGet(cmd, args[0])
		},
	}
}

// runGet resolves target as a stack position when it parses as an integer
// and as a slot name otherwise.
func (c *cli) runGet(cmd *cobra.Command, target string) error {
	m, err := c.open(cmd)
	if err != nil {
		return err
	}

	var content string
	if index, convErr := strconv.Atoi(target); convErr == nil {
		content, err = m.Get(cmd.Context(), index)
	} else {
		content, err = m.GetSlot(cmd.Context(), target)
	}
	if err != nil {
		return err
	}
	fmt.Fprint(c.stdout, content)
	return nil
}

func newVersionCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Aliases: []string{"v"},
		Short:   "Print the version",
		Args:    exactArgs(0),
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(c.stdout, "handoff %s\n", versionString())
		},
	}
}
