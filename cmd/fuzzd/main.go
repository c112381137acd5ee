// Command fuzzd runs a unix-socket lexing/mutation oracle for one ATN, so
// an external fuzzer can ask it to crossover, mutate, or lex a byte
// payload without paying a process-startup cost per request.
package main

import (
	"net"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/RafaelSantosBraz/antlr4"
	"github.com/spf13/cobra"
)

func main() {
	var pidFile, socketFile, dfaCacheFile string
	var timeout int

	cmd := &cobra.Command{
		Use:   "fuzzd ATN_FILE",
		Short: "Serve crossover/mutate/lex requests for an ATN over a unix socket",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			atn, err := antlr4.LoadAtnFile(args[0])
			if err != nil {
				return err
			}

			antlr4.InitServerProcess(pidFile, socketFile)
			if err := os.RemoveAll(socketFile); err != nil {
				return err
			}

			shared := antlr4.NewSharedLexerAtn(atn)
			if dfaCacheFile != "" {
				if dfas, err := antlr4.LoadDfaCache(dfaCacheFile, len(atn.ModeToStartState)); err != nil {
					cmd.PrintErrf("warm start from %s failed, starting cold: %v\n", dfaCacheFile, err)
				} else if dfas != nil {
					shared = antlr4.NewSharedLexerAtnWithDfas(atn, dfas)
				}
			}
			oracle := antlr4.NewOracleFromShared(shared)

			if dfaCacheFile != "" {
				sig := make(chan os.Signal, 1)
				signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
				go func() {
					<-sig
					if err := antlr4.SaveDfaCache(dfaCacheFile, shared.Dfas()); err != nil {
						cmd.PrintErrf("failed to save dfa cache: %v\n", err)
					}
					os.Exit(0)
				}()
			}

			listener, err := net.Listen("unix", socketFile)
			if err != nil {
				return err
			}
			defer listener.Close()

			semaphore := make(chan struct{}, runtime.NumCPU())
			for {
				semaphore <- struct{}{}
				conn, err := listener.Accept()
				if err != nil {
					return err
				}
				go func() {
					oracle.HandleRequest(conn, timeout)
					<-semaphore
				}()
			}
		},
	}

	cmd.Flags().StringVar(&pidFile, "pid-file", "./fuzzd.pid", "path to this server's PID file")
	cmd.Flags().StringVar(&socketFile, "socket-file", "./fuzzd.socket", "path of the unix socket to listen on")
	cmd.Flags().IntVar(&timeout, "timeout", 500, "per-connection read/write deadline in milliseconds")
	cmd.Flags().StringVar(&dfaCacheFile, "dfa-cache", "", "warm-start the per-mode DFAs from this file, and save them back to it on shutdown")

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
