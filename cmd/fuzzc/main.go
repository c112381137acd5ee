// Command fuzzc drives one request against a running fuzzd server:
// crossover two inputs, mutate one, lex one, or any combination, reading
// the primary input from stdin when no --in flag is given.
package main

import (
	"bufio"
	"io"
	"os"
	"time"

	"github.com/RafaelSantosBraz/antlr4"
	"github.com/spf13/cobra"
)

func main() {
	var socketFile, inFile, crossoverFile string
	var timeout, mode int
	var seedCrossover, seedMutation uint64
	var doCrossover, doMutate, doLex bool

	cmd := &cobra.Command{
		Use:   "fuzzc",
		Short: "Send one crossover/mutate/lex request to a fuzzd server",
		RunE: func(cmd *cobra.Command, args []string) error {
			var data1, data2 []byte
			var err error

			if inFile != "" {
				data1, err = os.ReadFile(inFile)
				if err != nil {
					return err
				}
			} else {
				data1, err = io.ReadAll(bufio.NewReader(os.Stdin))
				if err != nil {
					return err
				}
				if len(data1) == 0 {
					return nil
				}
			}

			var wanted byte
			if doCrossover {
				wanted |= antlr4.CrossoverBit
				data2, err = os.ReadFile(crossoverFile)
				if err != nil {
					return err
				}
			}
			if doMutate {
				wanted |= antlr4.MutateBit
			}
			if doLex {
				wanted |= antlr4.LexBit
			}

			encoded, lexed := &[]byte{}, &[]antlr4.TokenSummary{}
			for !antlr4.SendRequest(socketFile, timeout, data1, data2, wanted, seedCrossover, seedMutation, mode, encoded, lexed) {
				time.Sleep(50 * time.Millisecond)
			}

			if doLex {
				for _, tok := range *lexed {
					cmd.Printf("type=%d channel=%d start=%d stop=%d\n", tok.Type, tok.Channel, tok.Start, tok.Stop)
				}
				return nil
			}
			if doCrossover || doMutate {
				os.Stdout.Write(*encoded)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&socketFile, "socket-file", "./fuzzd.socket", "unix socket of the fuzzd server to talk to")
	cmd.Flags().StringVar(&inFile, "in", "", "primary input file (reads stdin if omitted)")
	cmd.Flags().IntVar(&timeout, "timeout", 500, "request deadline in milliseconds")
	cmd.Flags().BoolVar(&doCrossover, "crossover", false, "crossover the primary input with --crossover-with")
	cmd.Flags().StringVar(&crossoverFile, "crossover-with", "", "second input file for --crossover")
	cmd.Flags().Uint64Var(&seedCrossover, "crossover-seed", 0, "PRNG seed for --crossover")
	cmd.Flags().BoolVar(&doMutate, "mutate", false, "mutate the (possibly crossed-over) result")
	cmd.Flags().Uint64Var(&seedMutation, "mutate-seed", 0, "PRNG seed for --mutate")
	cmd.Flags().BoolVar(&doLex, "lex", false, "lex the (possibly mutated) result instead of printing bytes")
	cmd.Flags().IntVar(&mode, "mode", 0, "lexer mode to start in, for --lex")

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
