package index

import (
	"bytes"
	"encoding/binary"
	"strconv"
	"strings"
)

// dateOrdinal turns YYYY-MM-DD into YYYYMMDD. Malformed dates sort last.
func dateOrdinal(date string) uint32 {
	n, err := strconv.ParseUint(strings.ReplaceAll(date, "-", ""), 10, 32)
	if err != nil || len(date) != 10 {
		return 0
	}
	return uint32(n)
}

// key = invDate(4) + seq(4) + 0x00 + slug
//
// Cursor order is newest date first; seq keeps the caller's order for posts
// sharing a date.
func makeDateKey(date string, seq int, slug string) []byte {
	buf := make([]byte, 0, 4+4+1+len(slug))
	buf = binary.BigEndian.AppendUint32(buf, ^dateOrdinal(date))
	buf = binary.BigEndian.AppendUint32(buf, uint32(seq))
	buf = append(buf, 0x00)
	buf = append(buf, slug...)
	return buf
}

func slugFromDateKey(k []byte) string {
	if len(k) < 4+4+2 {
		return ""
	}
	i := bytes.IndexByte(k[8:], 0x00)
	if i < 0 {
		return ""
	}
	return string(k[8+i+1:])
}
