/*
 * mscp11 - serve subcommand
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
	"github.com/spf13/cobra"

	"github.com/rcornwell/mscp11/command/drivecmd"
	"github.com/rcornwell/mscp11/mscp/drive"
	"github.com/rcornwell/mscp11/mscp/port"
	"github.com/rcornwell/mscp11/mscp/server"
)

const hostMemorySize = 16 * 1024 * 1024

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the controller polling threads and the console REPL",
		RunE: func(cmd *cobra.Command, args []string) error {
			serve()
			return nil
		},
	}
}

// startServers wires a MemPort per class (disk units share one controller,
// tape units share another, §1) and starts their polling threads.
func startServers(disks, tapes []*drivecmd.DriveCommand) (*server.Disk, *server.Tape) {
	var diskServer *server.Disk
	var tapeServer *server.Tape

	if len(disks) > 0 {
		p := port.NewMemPort(hostMemorySize, toDrives(disks), server.DiskClassModel, controllerID("MSCP"))
		diskServer = server.NewDisk(p, controllerID("MSCP"))
		diskServer.Start()
	}
	if len(tapes) > 0 {
		p := port.NewMemPort(hostMemorySize, toDrives(tapes), server.TapeClassModel, controllerID("TMSCP"))
		tapeServer = server.NewTape(p, controllerID("TMSCP"))
		tapeServer.Start()
	}
	return diskServer, tapeServer
}

func toDrives(units []*drivecmd.DriveCommand) []*drive.Drive {
	out := make([]*drive.Drive, len(units))
	for i, u := range units {
		out[i] = u.Drive
	}
	return out
}

func controllerID(name string) [8]byte {
	var id [8]byte
	copy(id[:], name)
	return id
}
