/*
 * mscp11 - Main process.
 *
 * Copyright 2024, Richard Cornwell
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in
 * all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	getopt "github.com/pborman/getopt/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/rcornwell/mscp11/command/reader"
	config "github.com/rcornwell/mscp11/config/configparser"
	"github.com/rcornwell/mscp11/config/unitconfig"
	logger "github.com/rcornwell/mscp11/util/logger"

	_ "github.com/rcornwell/mscp11/config/debugconfig"
)

func main() {
	// A bare "-c file.cfg"-style invocation, with no subcommand, is the
	// teacher's classic SIMH-era calling convention (main.go). Recognize
	// it before handing argv to cobra so existing config-driven launchers
	// keep working without modification.
	if len(os.Args) > 1 && strings.HasPrefix(os.Args[1], "-") {
		runLegacy()
		return
	}

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error: "+err.Error())
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var cfgFile string

	root := &cobra.Command{
		Use:   "mscpctl",
		Short: "MSCP/TMSCP controller and RT-11 filesystem toolkit",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			initLogging()
			if cfgFile == "" {
				return nil
			}
			viper.SetConfigFile(cfgFile)
			if err := viper.ReadInConfig(); err != nil {
				return fmt.Errorf("reading config: %w", err)
			}
			return nil
		},
	}
	root.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "server config file")

	root.AddCommand(
		newServeCmd(),
		newMkfsCmd(),
		newDirCmd(),
		newImportCmd(),
		newExportCmd(),
		newConfigInitCmd(),
	)
	return root
}

func initLogging() {
	programLevel := new(slog.LevelVar)
	programLevel.Set(slog.LevelInfo)
	debugOn := false
	handler := logger.NewHandler(os.Stderr, &slog.HandlerOptions{Level: programLevel}, &debugOn)
	slog.SetDefault(slog.New(handler))
}

// runLegacy parses the old getopt-style flags directly (-c/-config,
// -l/-log, -d/-debug, -h/-help) for launchers that predate the cobra
// subcommand tree, then starts a serve session exactly as "mscpctl serve"
// would.
func runLegacy() {
	optConfig := getopt.StringLong("config", 'c', "mscp11.cfg", "Configuration file")
	optLogFile := getopt.StringLong("log", 'l', "", "Log file")
	optDebug := getopt.BoolLong("debug", 'd', "Log debug to console")
	optHelp := getopt.BoolLong("help", 'h', "Help")
	getopt.Parse()

	if *optHelp {
		getopt.Usage()
		return
	}

	var out *os.File = os.Stderr
	if *optLogFile != "" {
		f, err := os.Create(*optLogFile)
		if err == nil {
			out = f
		}
	}
	programLevel := new(slog.LevelVar)
	programLevel.Set(slog.LevelDebug)
	slog.SetDefault(slog.New(logger.NewHandler(out, &slog.HandlerOptions{Level: programLevel}, optDebug)))

	if err := config.LoadConfigFile(*optConfig); err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}
	serve()
}

// serve is the shared body of "mscpctl serve" and the legacy getopt
// launcher: start the polling threads for every configured class, run the
// console REPL, then stop them on exit.
func serve() {
	disks := unitconfig.Disks()
	tapes := unitconfig.Tapes()

	diskServer, tapeServer := startServers(disks, tapes)
	defer func() {
		if diskServer != nil {
			diskServer.Stop()
		}
		if tapeServer != nil {
			tapeServer.Stop()
		}
	}()

	units := allUnits()
	console := reader.NewConsole(units)
	slog.Info("mscp11 controller started", "disks", len(disks), "tapes", len(tapes))
	reader.ConsoleReader(console)
}
