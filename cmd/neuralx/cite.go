package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vanderheijden86/neuralx/internal/content"
)

// copyToClipboard is replaced in tests.
var copyToClipboard = clipboard.WriteAll

func newCiteCmd() *cobra.Command {
	var (
		format      string
		toClipboard bool
		share       bool
	)

	names := make([]string, 0, len(content.CiteFormats()))
	for _, f := range content.CiteFormats() {
		names = append(names, string(f))
	}

	cmd := &cobra.Command{
		Use:   "cite",
		Short: "Muestra la cita del paper",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			paper, err := content.Load()
			if err != nil {
				return err
			}

			var text string
			if share {
				text = paper.ShareText()
			} else {
				if format == "" {
					format = string(content.CiteAPA)
					if !cmd.Flags().Changed("format") && term.IsTerminal(0) {
						if format, err = pickCiteFormat(); err != nil {
							if errors.Is(err, huh.ErrUserAborted) {
								return nil
							}
							return err
						}
					}
				}
				if text, err = paper.Cite(content.CiteFormat(strings.ToLower(format))); err != nil {
					return err
				}
			}

			return emitCitation(cmd.OutOrStdout(), cmd.ErrOrStderr(), text, toClipboard)
		},
	}

	cmd.Flags().StringVar(&format, "format", "", "citation style: "+strings.Join(names, ", "))
	cmd.Flags().BoolVar(&toClipboard, "copy", false, "also copy the result to the clipboard")
	cmd.Flags().BoolVar(&share, "share", false, "print the share text instead of a citation")
	return cmd
}

func emitCitation(out, errOut io.Writer, text string, toClipboard bool) error {
	fmt.Fprintln(out, text)
	if !toClipboard {
		return nil
	}
	if err := copyToClipboard(text); err != nil {
		return fmt.Errorf("copy to clipboard: %w", err)
	}
	fmt.Fprintln(errOut, "Cita copiada al portapapeles")
	return nil
}

func pickCiteFormat() (string, error) {
	choice := string(content.CiteAPA)
	opts := make([]huh.Option[string], 0, len(content.CiteFormats()))
	for _, f := range content.CiteFormats() {
		opts = append(opts, huh.NewOption(strings.ToUpper(string(f)), string(f)))
	}
	err := huh.NewForm(huh.NewGroup(
		huh.NewSelect[string]().
			Title("Formato de cita").
			Options(opts...).
			Value(&choice),
	)).WithTheme(huh.ThemeDracula()).Run()
	return choice, err
}
