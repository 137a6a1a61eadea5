package main

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/baxromumarov/campus-faq/internal/core"
	"github.com/baxromumarov/campus-faq/internal/knowledge"
)

type cliOptions struct {
	kbPath  string
	explain bool
	noColor bool
	verbose bool
}

func newRootCmd() *cobra.Command {
	opts := &cliOptions{}

	root := &cobra.Command{
		Use:           "faq",
		Short:         "Ask the college FAQ responder from the terminal",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if opts.noColor {
				color.NoColor = true
			}
		},
	}

	root.PersistentFlags().StringVar(&opts.kbPath, "kb", "", "knowledge base YAML file (defaults to the built-in one)")
	root.PersistentFlags().BoolVar(&opts.explain, "explain", false, "show the matched topic and score")
	root.PersistentFlags().BoolVar(&opts.noColor, "no-color", false, "disable colored output")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(newAskCmd(opts), newChatCmd(opts), newTopicsCmd(opts))
	return root
}

func newAskCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "ask [question...]",
		Short: "Answer a single question",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			responder, _, err := opts.responder(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			printAnswer(cmd.OutOrStdout(), responder.Answer(strings.Join(args, " ")), opts.explain)
			return nil
		},
	}
}

func newChatCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive question loop (type 'exit' to quit)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			responder, _, err := opts.responder(cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			prompt := color.New(color.FgGreen, color.Bold)
			scanner := bufio.NewScanner(cmd.InOrStdin())

			fmt.Fprintln(out, "Ask me about admissions, courses, fees or facilities.")
			for {
				prompt.Fprint(out, "You: ")
				if !scanner.Scan() {
					fmt.Fprintln(out)
					return scanner.Err()
				}
				line := strings.TrimSpace(scanner.Text())
				switch strings.ToLower(line) {
				case "":
					continue
				case "exit", "quit":
					return nil
				}
				printAnswer(out, responder.Answer(line), opts.explain)
			}
		},
	}
}

func newTopicsCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "topics",
		Short: "List knowledge base topics in evaluation order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, base, err := opts.responder(cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			id := color.New(color.FgCyan, color.Bold)
			for i, t := range base.Topics() {
				fmt.Fprintf(out, "%2d. ", i+1)
				id.Fprint(out, t.ID)
				fmt.Fprintf(out, ": %s\n", strings.Join(t.Keywords, ", "))
			}
			fmt.Fprintf(out, "%d fallback replies\n", len(base.Fallbacks()))
			return nil
		},
	}
}

func (o *cliOptions) responder(logOut io.Writer) (*core.Responder, *knowledge.Base, error) {
	var (
		base *knowledge.Base
		err  error
	)
	if o.kbPath != "" {
		base, err = knowledge.Load(o.kbPath)
	} else {
		base, err = knowledge.Default()
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load knowledge base: %w", err)
	}

	level := slog.LevelWarn
	if o.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(logOut, &slog.HandlerOptions{Level: level}))

	return core.NewResponder(base, core.WithLogger(logger)), base, nil
}

func printAnswer(w io.Writer, a core.Answer, explain bool) {
	color.New(color.FgBlue, color.Bold).Fprint(w, "Bot: ")
	fmt.Fprintln(w, a.Reply)
	if !explain {
		return
	}
	if a.Fallback() {
		color.New(color.FgYellow).Fprintln(w, "(fallback: no topic reached the confidence threshold)")
		return
	}
	color.New(color.FgYellow).Fprintf(w, "(topic=%s score=%d)\n", a.Topic, a.Score)
}
