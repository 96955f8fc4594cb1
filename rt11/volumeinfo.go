/*
 * mscp11 - $VOLUM.INF synthesis
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
	"strings"
)

// buildVolumeInfoFile regenerates the synthetic $VOLUM.INF file (§4.3
// step 6): a human-readable text dump of volume parameters plus a DIR
// listing.
func buildVolumeInfoFile(fs *FileSystem) *File {
	var b strings.Builder

	vol := fs.Volume
	fmt.Fprintf(&b, "Volume ID:          %s\n", vol.VolumeID)
	fmt.Fprintf(&b, "Owner name:         %s\n", vol.OwnerName)
	fmt.Fprintf(&b, "System ID:          %s\n", vol.SystemID)
	fmt.Fprintf(&b, "System version:     %s\n", vol.SystemVersion)
	fmt.Fprintf(&b, "Block count:        %d\n", vol.BlockCount)
	fmt.Fprintf(&b, "Pack cluster size:  %d\n", vol.PackClusterSize)
	fmt.Fprintf(&b, "First dir block:    %d\n", vol.FirstDirBlockNr)
	fmt.Fprintf(&b, "Dir segments:       %d\n", vol.DirTotalSegNum)
	fmt.Fprintf(&b, "Dir extra bytes:    %d\n", vol.DirEntryExtraBytes)
	fmt.Fprintf(&b, "File space block:   %d\n", vol.FileSpaceBlockNr)
	fmt.Fprintf(&b, "Used file blocks:   %d\n", vol.UsedFileBlocks)
	fmt.Fprintf(&b, "Free blocks:        %d\n", vol.FreeBlocks)
	b.WriteString(FormatDirListing(fs))

	data := []byte(b.String())
	return &File{
		Basename: "$VOLUM", Ext: "INF", Internal: true, ReadOnly: true,
		BlockCount: (len(data) + BlockSize - 1) / BlockSize,
		Data:       &Stream{Size: len(data), Data: data},
	}
}
