// Package topics adds a topic-based help system to a Cobra CLI: help
// pages loaded from an fs.FS (usually an embedded docs directory) that
// "help <name>" and a "topics" command serve alongside regular command
// help.
package topics

import (
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/spf13/cobra"
)

// Topic is one help page.
type Topic struct {
	Name    string
	Ext     string // source file extension, drives rendering
	Content string
}

// Renderer formats topic content for the terminal. The extension of
// the source file is passed along so a renderer can limit itself to
// the formats it understands.
type Renderer interface {
	Render(content string, format string) string
}

// PlainRenderer prints topics verbatim.
type PlainRenderer struct{}

func (r *PlainRenderer) Render(content string, format string) string {
	return content
}

// Manager holds the loaded topics and the renderer used to display
// them.
type Manager struct {
	topics       map[string]*Topic
	originalHelp func(*cobra.Command, []string)
	renderer     Renderer
}

// Options configures Initialize.
type Options struct {
	// Extensions limits which files count as topics. Defaults to
	// [".txt", ".md"].
	Extensions []string
	// Renderer formats topic content. Defaults to PlainRenderer.
	Renderer Renderer
}

func newManager(docs fs.FS, opts Options) (*Manager, error) {
	exts := opts.Extensions
	if len(exts) == 0 {
		exts = []string{".txt", ".md"}
	}
	renderer := opts.Renderer
	if renderer == nil {
		renderer = &PlainRenderer{}
	}

	m := &Manager{topics: make(map[string]*Topic), renderer: renderer}
	err := fs.WalkDir(docs, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		ext := path.Ext(p)
		ok := false
		for _, e := range exts {
			if e == ext {
				ok = true
				break
			}
		}
		if !ok {
			return nil
		}
		content, err := fs.ReadFile(docs, p)
		if err != nil {
			return err
		}
		name := strings.TrimSuffix(path.Base(p), ext)
		m.topics[name] = &Topic{Name: name, Ext: ext, Content: string(content)}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan help topics: %w", err)
	}
	return m, nil
}

// Get retrieves a topic by name. Flag spellings are accepted:
// "--strategy" finds the "strategy" or "option-strategy" topic.
func (m *Manager) Get(name string) (*Topic, bool) {
	name = strings.TrimLeft(name, "-")
	if t, ok := m.topics[name]; ok {
		return t, true
	}
	t, ok := m.topics["option-"+name]
	return t, ok
}

// Names returns all topic names, sorted.
func (m *Manager) Names() []string {
	names := make([]string, 0, len(m.topics))
	for name := range m.topics {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Initialize wires the topic system into rootCmd: it replaces the help
// command and the --help function with versions that also know the
// topics found in docs.
func Initialize(rootCmd *cobra.Command, docs fs.FS, opts Options) error {
	m, err := newManager(docs, opts)
	if err != nil {
		return err
	}
	m.originalHelp = rootCmd.HelpFunc()

	helpCmd := &cobra.Command{
		Use:   "help [command or topic]",
		Short: "Help about any command or topic",
		Long: `Help provides help for any command or topic in the application.
Type ` + rootCmd.Name() + ` help [command or topic] for full details.

To see all available help topics:
  ` + rootCmd.Name() + ` help topics`,
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			completions := []string{"topics"}
			for _, c := range rootCmd.Commands() {
				if !c.Hidden {
					completions = append(completions, c.Name())
				}
			}
			completions = append(completions, m.Names()...)
			return completions, cobra.ShellCompDirectiveNoFileComp
		},
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) == 0 {
				m.originalHelp(rootCmd, nil)
				return
			}
			if args[0] == "topics" {
				m.printTopicList(cmd, rootCmd.Name())
				return
			}
			if t, ok := m.Get(args[0]); ok {
				fmt.Fprint(cmd.OutOrStdout(), m.renderer.Render(t.Content, t.Ext))
				return
			}
			m.originalHelp(rootCmd, args)
		},
	}

	topicsCmd := &cobra.Command{
		Use:   "topics [topic]",
		Short: "List help topics or show one",
		Args:  cobra.MaximumNArgs(1),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			return m.Names(), cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				m.printTopicList(cmd, rootCmd.Name())
				return nil
			}
			t, ok := m.Get(args[0])
			if !ok {
				return fmt.Errorf("unknown help topic %q", args[0])
			}
			fmt.Fprint(cmd.OutOrStdout(), m.renderer.Render(t.Content, t.Ext))
			return nil
		},
	}

	for _, cmd := range rootCmd.Commands() {
		if cmd.Name() == "help" {
			rootCmd.RemoveCommand(cmd)
			break
		}
	}
	rootCmd.AddCommand(helpCmd)
	rootCmd.AddCommand(topicsCmd)

	// --help on the root must also resolve topics.
	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		if len(args) > 0 {
			if t, ok := m.Get(args[0]); ok {
				fmt.Fprint(cmd.OutOrStdout(), m.renderer.Render(t.Content, t.Ext))
				return
			}
		}
		m.originalHelp(cmd, args)
	})
	return nil
}

func (m *Manager) printTopicList(cmd *cobra.Command, appName string) {
	names := m.Names()
	if len(names) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No help topics available.")
		return
	}
	var general, options []string
	for _, name := range names {
		if strings.HasPrefix(name, "option-") {
			options = append(options, strings.TrimPrefix(name, "option-"))
		} else {
			general = append(general, name)
		}
	}
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Available help topics:")
	for _, name := range general {
		fmt.Fprintf(out, "  %s\n", name)
	}
	if len(options) > 0 {
		fmt.Fprintln(out, "\nOption topics:")
		for _, name := range options {
			fmt.Fprintf(out, "  --%s\n", name)
		}
	}
	fmt.Fprintf(out, "\nUse '%s help <topic>' to read about a specific topic.\n", appName)
}
