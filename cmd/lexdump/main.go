// Command lexdump deserializes an ATN, lexes an input file against a host
// config, and prints the resulting token table.
package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/RafaelSantosBraz/antlr4"
	"github.com/spf13/cobra"
	"golang.org/x/text/width"
)

func main() {
	var configFile, modeName string
	var showHidden bool

	cmd := &cobra.Command{
		Use:   "lexdump INPUT_FILE",
		Short: "Lex a file against a host config and print its token table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := antlr4.LoadHostConfig(configFile)
			if err != nil {
				return err
			}
			atn, err := antlr4.LoadAtnFile(cfg.AtnFile)
			if err != nil {
				return err
			}

			mode := 0
			if modeName != "" {
				mode = cfg.ModeIndex(modeName)
				if mode < 0 {
					return fmt.Errorf("host config has no mode named %q", modeName)
				}
			}

			input, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}

			shared := antlr4.NewSharedLexerAtn(atn)
			lexer := antlr4.NewBaseLexer(shared, antlr4.NewRuneStream(string(input)))
			lexer.SetMode(mode)

			var rows [][]string
			for {
				tok := lexer.NextToken()
				if tok.IsEOF() {
					break
				}
				if !showHidden && cfg.IsHiddenChannel(tok.Channel) {
					continue
				}
				rows = append(rows, []string{
					strconv.Itoa(tok.Type),
					strconv.Itoa(tok.Channel),
					strconv.Itoa(tok.Line),
					strconv.Itoa(tok.Column),
					displayWidth(tok.Text),
				})
			}
			printTable(cmd, []string{"type", "channel", "line", "col", "text"}, rows)
			return nil
		},
	}

	cmd.Flags().StringVar(&configFile, "config", "lexdump.yaml", "host config YAML file")
	cmd.Flags().StringVar(&modeName, "mode", "", "mode to start lexing in (default: the config's first mode)")
	cmd.Flags().BoolVar(&showHidden, "show-hidden", false, "include tokens on channels the config marks hidden")

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// displayWidth folds token text into narrow/halfwidth form before display,
// so a fullwidth punctuation character (common in lexed source that mixes
// CJK text) does not throw off the fixed-width columns below.
func displayWidth(s string) string {
	return width.Narrow.String(strings.ReplaceAll(s, "\n", "\\n"))
}

func printTable(cmd interface{ Printf(string, ...interface{}) }, header []string, rows [][]string) {
	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = utf8.RuneCountInString(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if n := utf8.RuneCountInString(cell); n > widths[i] {
				widths[i] = n
			}
		}
	}
	printRow(cmd, header, widths)
	for _, row := range rows {
		printRow(cmd, row, widths)
	}
}

func printRow(cmd interface{ Printf(string, ...interface{}) }, row []string, widths []int) {
	var b strings.Builder
	for i, cell := range row {
		pad := widths[i] - utf8.RuneCountInString(cell)
		b.WriteString(cell)
		b.WriteString(strings.Repeat(" ", pad+2))
	}
	cmd.Printf("%s\n", strings.TrimRight(b.String(), " "))
}
