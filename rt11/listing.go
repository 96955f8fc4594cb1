/*
 * mscp11 - Directory sort order and DIR-style listing
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

package rt11

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// sortGroupPatterns mirrors the original's sort-group regex list (§4.6):
// boot-critical system files sort first, in priority order, so they land
// in predictable early directory segments; everything else keeps import
// order.
var sortGroupPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^RT11.*\.SYS$`),
	regexp.MustCompile(`(?i)^DD\.SYS$`),
	regexp.MustCompile(`(?i)^SWAP\.SYS$`),
	regexp.MustCompile(`(?i)^TT\.SYS$`),
	regexp.MustCompile(`(?i)^DL\.SYS$`),
	regexp.MustCompile(`(?i)^STARTS\.COM$`),
	regexp.MustCompile(`(?i)^DIR\.SAV$`),
	regexp.MustCompile(`(?i)^DUP\.SAV$`),
}

// sortGroup returns a file's sort priority: the index of the first
// matching system-file pattern, or len(sortGroupPatterns) for everything
// else (which then sorts by original import order).
func sortGroup(f *File) int {
	name := f.Name()
	for i, re := range sortGroupPatterns {
		if re.MatchString(name) {
			return i
		}
	}
	return len(sortGroupPatterns)
}

// SortFilesForDirectory orders files the way the directory writer lays
// them into segments (§4.6): system files first in priority order, then
// the rest in original (import) order. files is sorted in place using a
// stable sort so import order is preserved within a group.
func SortFilesForDirectory(files []*File) {
	sort.SliceStable(files, func(i, j int) bool {
		return sortGroup(files[i]) < sortGroup(files[j])
	})
}

var monthAbbrev = []string{
	"JAN", "FEB", "MAR", "APR", "MAY", "JUN",
	"JUL", "AUG", "SEP", "OCT", "NOV", "DEC",
}

// FormatDirListing renders the classic RT-11 DIR-command text table (§4.6):
// one line per non-internal file (NAME.EXT, size in blocks, date), then a
// summary line.
func FormatDirListing(fs *FileSystem) string {
	var b strings.Builder

	fmt.Fprintf(&b, "\n")
	count := 0
	usedBlocks := 0

	for _, f := range fs.Files {
		if f.Internal {
			continue
		}
		count++
		usedBlocks += f.BlockCount

		month := ""
		if f.ModMonth >= 0 && f.ModMonth < 12 {
			month = monthAbbrev[f.ModMonth]
		}
		fmt.Fprintf(&b, "%-6s.%-3s %5d  %02d-%s-%02d\n", f.Basename, f.Ext, f.BlockCount, f.ModDay, month, f.ModYear%100)
	}

	fmt.Fprintf(&b, "\n %d FILES, %d BLOCKS\n %d FREE BLOCKS\n", count, usedBlocks, fs.Volume.FreeBlocks)
	return b.String()
}
