// Package resp is a minimal client for RESP speaking cache servers.
//
// It frames commands as arrays of bulk strings and reads back whatever the
// server answers in a single read of at most ReplyBufferSize bytes. Replies
// are not parsed: the only interpretation offered is IsNull, which detects
// the null bulk string a server sends for a missing key. A reply larger than
// the buffer is truncated without notice; callers that need complete replies
// must not use this package.
package resp

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
)

// ReplyBufferSize bounds the bytes read back per command.
const ReplyBufferSize = 4096

// ErrEmptyCommand is returned when Send is called without arguments.
var ErrEmptyCommand = errors.New("resp: empty command")

var nullBulk = []byte("$-1")

// Encode serializes parts as `*<n>\r\n` followed by one `$<len>\r\n<bytes>\r\n`
// per part. Each part is rendered with its default string form; byte slices
// are written verbatim.
func Encode(parts ...interface{}) []byte {
	return AppendCommand(make([]byte, 0, 16*(len(parts)+1)), parts...)
}

// AppendCommand appends the encoding of parts to dst.
func AppendCommand(dst []byte, parts ...interface{}) []byte {
	dst = append(dst, '*')
	dst = strconv.AppendInt(dst, int64(len(parts)), 10)
	dst = append(dst, '\r', '\n')

	for _, p := range parts {
		dst = appendBulk(dst, p)
	}

	return dst
}

func appendBulk(dst []byte, p interface{}) []byte {
	var b []byte
	switch v := p.(type) {
	case []byte:
		b = v
	case string:
		b = []byte(v)
	case int:
		b = strconv.AppendInt(nil, int64(v), 10)
	case int64:
		b = strconv.AppendInt(nil, v, 10)
	default:
		b = []byte(fmt.Sprint(v))
	}

	dst = append(dst, '$')
	dst = strconv.AppendInt(dst, int64(len(b)), 10)
	dst = append(dst, '\r', '\n')
	dst = append(dst, b...)

	return append(dst, '\r', '\n')
}

// IsNull reports whether reply is a null bulk string, which the cache uses
// to signal a miss. Any other reply, including errors, counts as present.
func IsNull(reply []byte) bool {
	return bytes.HasPrefix(reply, nullBulk)
}
