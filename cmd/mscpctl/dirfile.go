/*
 * mscp11 - dir/import/export subcommands
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
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rcornwell/mscp11/rt11"
	"github.com/rcornwell/mscp11/storage/image"
)

func openExisting(path string, readOnly bool) (*image.FileImage, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	return image.OpenFileImage(path, info.Size(), readOnly, false)
}

func newDirCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dir <file>",
		Short: "List an RT-11 volume's directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			img, err := openExisting(args[0], true)
			if err != nil {
				return err
			}
			defer img.Close()

			fs, perr := rt11.Parse(img)
			if perr != nil {
				return perr
			}
			fmt.Print(rt11.FormatDirListing(fs))
			return nil
		},
	}
}

func newImportCmd() *cobra.Command {
	var readOnly bool

	c := &cobra.Command{
		Use:   "import <volume> <hostfile>",
		Short: "Import a host file into an RT-11 volume",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			img, err := openExisting(args[0], false)
			if err != nil {
				return err
			}
			defer img.Close()

			fs, perr := rt11.Parse(img)
			if perr != nil {
				return perr
			}

			data, err := os.ReadFile(args[1])
			if err != nil {
				return err
			}
			info, err := os.Stat(args[1])
			if err != nil {
				return err
			}
			y, m, d := info.ModTime().Date()

			im := rt11.NewImporter(fs)
			if perr := im.ImportFile(args[1], data, y-1900, int(m)-1, d, readOnly, rt11.GenericLayout.DirSegCount); perr != nil {
				return perr
			}
			return rt11.RenderToImage(fs, rt11.GenericLayout.DirSegCount, img)
		},
	}
	c.Flags().BoolVar(&readOnly, "readonly", false, "import the file as RT-11 read-only (EPROT)")
	return c
}

func newExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export <volume> <rt11name> <hostfile>",
		Short: "Export an RT-11 file to the host filesystem",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			img, err := openExisting(args[0], true)
			if err != nil {
				return err
			}
			defer img.Close()

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
		},
	}
}
