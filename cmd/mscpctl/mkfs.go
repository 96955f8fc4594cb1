/*
 * mscp11 - mkfs subcommand
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

	"github.com/spf13/cobra"

	"github.com/rcornwell/mscp11/rt11"
	"github.com/rcornwell/mscp11/storage/image"
)

func newMkfsCmd() *cobra.Command {
	var layoutName string
	var blocks int

	c := &cobra.Command{
		Use:   "mkfs <file>",
		Short: "Create a blank RT-11 volume",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			layout := rt11.LookupLayout(layoutName, blocks)
			if blocks == 0 {
				blocks = layout.BlockCount
			}

			vol := &rt11.Volume{
				BlockCount:      blocks,
				FirstDirBlockNr: 6,
				VolumeID:        "MSCP11",
				OwnerName:       "MSCP11",
				SystemID:        "DECRT11A",
				SystemVersion:   "V05",
				Dirty:           rt11.NewBoolArray(blocks),
			}
			fs := &rt11.FileSystem{Volume: vol}

			buf, perr := rt11.Render(fs, layout.DirSegCount)
			if perr != nil {
				return perr
			}

			img, err := image.OpenFileImage(args[0], int64(len(buf)), false, true)
			if err != nil {
				return err
			}
			defer img.Close()
			if err := img.SetBytes(0, buf); err != nil {
				return err
			}

			fmt.Printf("created %s: %d blocks, layout %s\n", args[0], blocks, layout.Name)
			return nil
		},
	}
	c.Flags().StringVar(&layoutName, "layout", "RX01", "drive-type layout name (RX01, RX02, RL01, RL02, RK05)")
	c.Flags().IntVar(&blocks, "blocks", 0, "override the layout's default block count")
	return c
}
