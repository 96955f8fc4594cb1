/*
 * mscp11 - config-init subcommand
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
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// serverConfig is the layout of the starter YAML file config-init writes.
// Nothing in mscpctl decodes a file back into it: the --config flag only
// loads the file into viper, and units are registered solely by
// config/configparser's DISK/TAPE directives (the legacy -c launcher).
type serverConfig struct {
	Disks []unitConfig `yaml:"disks"`
	Tapes []unitConfig `yaml:"tapes"`
	Log   logConfig    `yaml:"log"`
}

type unitConfig struct {
	Unit     uint16 `yaml:"unit"`
	File     string `yaml:"file"`
	Blocks   int    `yaml:"blocks,omitempty"`
	Create   bool   `yaml:"create,omitempty"`
	ReadOnly bool   `yaml:"readonly,omitempty"`
}

type logConfig struct {
	File  string `yaml:"file,omitempty"`
	Debug bool   `yaml:"debug,omitempty"`
}

func newConfigInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config-init <file>",
		Short: "Write a starter YAML server config",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := serverConfig{
				Disks: []unitConfig{{Unit: 0, File: "disk0.dsk", Blocks: 494, Create: true}},
				Log:   logConfig{File: "mscp11.log"},
			}
			out, err := yaml.Marshal(&cfg)
			if err != nil {
				return err
			}
			return os.WriteFile(args[0], out, 0o644)
		},
	}
}
