/*
 * mscp11 - Command reader.
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

// Package reader implements the interactive console: a liner-backed REPL
// that drives a running controller's drives (attach/detach/show) and the
// RT-11 codec (directory listing, host import/export) without bringing
// down the polling thread.
package reader

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/peterh/liner"

	cmd "github.com/rcornwell/mscp11/command/command"
	"github.com/rcornwell/mscp11/command/drivecmd"
	"github.com/rcornwell/mscp11/rt11"
)

// Console is the set of units the reader can address by number.
type Console struct {
	Units map[uint16]*drivecmd.DriveCommand
}

// NewConsole builds a Console over units, keyed by their protocol unit
// number.
func NewConsole(units []*drivecmd.DriveCommand) *Console {
	c := &Console{Units: make(map[uint16]*drivecmd.DriveCommand)}
	for _, u := range units {
		c.Units[u.Drive.Number] = u
	}
	return c
}

var commandWords = []string{
	"attach", "detach", "show", "dir", "import", "export", "help", "quit", "exit",
}

// CompleteCmd offers the first-word command completions liner displays on
// tab, mirroring the teacher's command/parser.CompleteCmd contract.
func CompleteCmd(line string) []string {
	var out []string
	for _, w := range commandWords {
		if strings.HasPrefix(w, strings.ToLower(line)) {
			out = append(out, w)
		}
	}
	return out
}

// ConsoleReader runs the REPL until the user quits or aborts (Ctrl-D).
func ConsoleReader(console *Console) {
	line := liner.NewLiner()
	defer line.Close()

	line.SetCtrlCAborts(true)
	line.SetCompleter(CompleteCmd)

	for {
		command, err := line.Prompt("mscp11> ")
		if err == nil {
			line.AppendHistory(command)
			quit, perr := console.ProcessCommand(command)
			if perr != nil {
				fmt.Println("Error: " + perr.Error())
			}
			if quit {
				return
			}
			continue
		}

		if errors.Is(err, liner.ErrPromptAborted) {
			return
		}
		slog.Error("error reading line: " + err.Error())
	}
}

// ProcessCommand parses and executes a single console line. quit reports
// whether the REPL should exit.
func (c *Console) ProcessCommand(line string) (quit bool, err error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false, nil
	}

	verb := strings.ToLower(fields[0])
	args := fields[1:]

	switch verb {
	case "quit", "exit":
		return true, nil

	case "help":
		fmt.Println("commands: attach <unit> <file> [size=<blocks>] [create] [readonly]")
		fmt.Println("          detach <unit>")
		fmt.Println("          show <unit>")
		fmt.Println("          dir <unit>")
		fmt.Println("          import <unit> <hostfile> [readonly]")
		fmt.Println("          export <unit> <rt11name> <hostfile>")
		return false, nil

	case "attach":
		return false, c.attach(args)

	case "detach":
		return false, c.detach(args)

	case "show":
		return false, c.show(args)

	case "dir":
		return false, c.dir(args)

	case "import":
		return false, c.importFile(args)

	case "export":
		return false, c.export(args)

	default:
		return false, fmt.Errorf("unknown command: %s", verb)
	}
}

func (c *Console) unit(arg string) (*drivecmd.DriveCommand, error) {
	n, err := strconv.ParseUint(arg, 10, 16)
	if err != nil {
		return nil, fmt.Errorf("invalid unit number: %s", arg)
	}
	u, ok := c.Units[uint16(n)]
	if !ok {
		return nil, fmt.Errorf("no such unit: %s", arg)
	}
	return u, nil
}

func (c *Console) attach(args []string) error {
	if len(args) < 2 {
		return errors.New("usage: attach <unit> <file> [size=<blocks>] [create] [readonly]")
	}
	u, err := c.unit(args[0])
	if err != nil {
		return err
	}

	options := []*cmd.CmdOption{{Name: "FILE", EqualOpt: args[1]}}
	for _, opt := range args[2:] {
		switch {
		case strings.HasPrefix(opt, "size="):
			n, err := strconv.Atoi(strings.TrimPrefix(opt, "size="))
			if err != nil {
				return fmt.Errorf("invalid size: %s", opt)
			}
			options = append(options, &cmd.CmdOption{Name: "SIZE", Value: n})
		case strings.EqualFold(opt, "create"):
			options = append(options, &cmd.CmdOption{Name: "CREATE"})
		case strings.EqualFold(opt, "readonly"):
			options = append(options, &cmd.CmdOption{Name: "READONLY"})
		default:
			return fmt.Errorf("unknown attach option: %s", opt)
		}
	}
	return u.Attach(options)
}

func (c *Console) detach(args []string) error {
	if len(args) < 1 {
		return errors.New("usage: detach <unit>")
	}
	u, err := c.unit(args[0])
	if err != nil {
		return err
	}
	return u.Detach()
}

func (c *Console) show(args []string) error {
	if len(args) < 1 {
		return errors.New("usage: show <unit>")
	}
	u, err := c.unit(args[0])
	if err != nil {
		return err
	}
	s, err := u.Show(nil)
	if err != nil {
		return err
	}
	fmt.Println(s)
	return nil
}

// dir parses the attached unit's volume and prints its directory listing,
// without writing anything back.
func (c *Console) dir(args []string) error {
	if len(args) < 1 {
		return errors.New("usage: dir <unit>")
	}
	u, err := c.unit(args[0])
	if err != nil {
		return err
	}

	img := u.Drive.Image()
	if img == nil {
		return errors.New("dir: unit has no image attached")
	}

	fs, perr := rt11.Parse(img)
	if perr != nil {
		return perr
	}
	fmt.Print(rt11.FormatDirListing(fs))
	return nil
}

func (c *Console) importFile(args []string) error {
	if len(args) < 2 {
		return errors.New("usage: import <unit> <hostfile> [readonly]")
	}
	u, err := c.unit(args[0])
	if err != nil {
		return err
	}
	readOnly := len(args) > 2 && strings.EqualFold(args[2], "readonly")

	data, err := os.ReadFile(args[1])
	if err != nil {
		return fmt.Errorf("import: %w", err)
	}

	img := u.Drive.Image()
	if img == nil {
		return errors.New("import: unit has no image attached")
	}

	fs, perr := rt11.Parse(img)
	if perr != nil {
		return perr
	}

	im := rt11.NewImporter(fs)
	info, err := os.Stat(args[1])
	if err != nil {
		return err
	}
	y, m, d := info.ModTime().Date()
	if perr := im.ImportFile(args[1], data, y-1900, int(m)-1, d, readOnly, rt11.GenericLayout.DirSegCount); perr != nil {
		return perr
	}

	return rt11.RenderToImage(fs, rt11.GenericLayout.DirSegCount, img)
}

func (c *Console) export(args []string) error {
	if len(args) < 3 {
		return errors.New("usage: export <unit> <rt11name> <hostfile>")
	}
	u, err := c.unit(args[0])
	if err != nil {
		return err
	}

	img := u.Drive.Image()
	if img == nil {
		return errors.New("export: unit has no image attached")
	}

	fs, perr := rt11.Parse(img)
	if perr != nil {
		return perr
	}

	name := strings.ToUpper(args[1])
	for _, f := range fs.Files {
		if f.Name() == name {
			return os.WriteFile(args[2], f.Data.Data, 0o644)
		}
	}
	return fmt.Errorf("export: no such file on volume: %s", name)
}
