/*
 * mscp11 - RAD50 name encoding
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

import "strings"

// rad50Alphabet is the 40-symbol RAD50 alphabet: space, A-Z, $, ., 0-9, ?
// — the trailing '?' is the toolchain's stand-in for any character outside
// the alphabet (§3).
const rad50Alphabet = " ABCDEFGHIJKLMNOPQRSTUVWXYZ$.0123456789?"

var rad50Index = func() map[byte]int {
	m := make(map[byte]int, len(rad50Alphabet))
	for i := 0; i < len(rad50Alphabet); i++ {
		m[rad50Alphabet[i]] = i
	}
	return m
}()

// EncodeRad50 packs up to 3 characters of s into one RAD50 word:
// (c1*40 + c2)*40 + c3. Characters beyond 3 are ignored; s shorter than 3
// is space-padded. Characters outside the alphabet map to '?'.
func EncodeRad50(s string) uint16 {
	var c [3]byte
	for i := range c {
		if i < len(s) {
			c[i] = rad50Char(s[i])
		} else {
			c[i] = ' '
		}
	}
	var word int
	for _, ch := range c {
		idx, ok := rad50Index[ch]
		if !ok {
			idx = rad50Index['?']
		}
		word = word*40 + idx
	}
	return uint16(word)
}

func rad50Char(b byte) byte {
	if b >= 'a' && b <= 'z' {
		return b - 'a' + 'A'
	}
	return b
}

// DecodeRad50 unpacks one RAD50 word back into its 3-character string,
// trailing spaces intact.
func DecodeRad50(word uint16) string {
	var buf [3]byte
	w := int(word)
	for i := 2; i >= 0; i-- {
		idx := w % 40
		w /= 40
		buf[i] = rad50Alphabet[idx]
	}
	return string(buf[:])
}

// EncodeRad50Name packs a basename (<=6 chars) and extension (<=3 chars)
// into three RAD50 words: basename[0:3], basename[3:6], ext.
func EncodeRad50Name(basename, ext string) [3]uint16 {
	basename = padTrunc(basename, 6)
	return [3]uint16{
		EncodeRad50(basename[0:3]),
		EncodeRad50(basename[3:6]),
		EncodeRad50(padTrunc(ext, 3)),
	}
}

// DecodeRad50Name unpacks three RAD50 words into basename and extension,
// trimmed of trailing spaces.
func DecodeRad50Name(words [3]uint16) (basename, ext string) {
	basename = strings.TrimRight(DecodeRad50(words[0])+DecodeRad50(words[1]), " ")
	ext = strings.TrimRight(DecodeRad50(words[2]), " ")
	return basename, ext
}

func padTrunc(s string, n int) string {
	if len(s) >= n {
		return s[:n]
	}
	return s + strings.Repeat(" ", n-len(s))
}
