package daemon

import (
	"encoding/json"
	"errors"
	"strconv"
)

// ErrSecretMarshal is returned when a Secret reaches encoding/json.
var ErrSecretMarshal = errors.New("daemon.Secret must be encoded by a transport")

// ErrSecretNewline is returned by the CLI transport for secrets it cannot pass on one stdin line.
var ErrSecretNewline = errors.New("secret contains a line break")

// Secret is a sensitive string parameter such as a wallet passphrase.
// Transports copy it straight into their request buffer, which they wipe
// after the call, so no Go string holding the value is ever created.
// The caller owns the backing array and is responsible for wiping it.
type Secret []byte

// String keeps secrets out of fmt output and logs.
func (Secret) String() string { return "[redacted]" }

// GoString keeps secrets out of %#v output.
func (Secret) GoString() string { return "[redacted]" }

// MarshalJSON refuses to encode, so a Secret never lands in encoding/json's
// pooled buffers by accident.
func (Secret) MarshalJSON() ([]byte, error) { return nil, ErrSecretMarshal }

const hexDigits = "0123456789abcdef"

// jsonLen returns the length of s encoded as a JSON string including quotes.
func (s Secret) jsonLen() int {
	n := 2
	for _, c := range s {
		switch {
		case c == '"' || c == '\\':
			n += 2
		case c < 0x20:
			n += 6
		default:
			n++
		}
	}
	return n
}

// appendJSON appends s as a quoted JSON string.
func (s Secret) appendJSON(dst []byte) []byte {
	dst = append(dst, '"')
	for _, c := range s {
		switch {
		case c == '"' || c == '\\':
			dst = append(dst, '\\', c)
		case c < 0x20:
			dst = append(dst, '\\', 'u', '0', '0', hexDigits[c>>4], hexDigits[c&0xf])
		default:
			dst = append(dst, c)
		}
	}
	return append(dst, '"')
}

// encodeParams renders params as the body of a JSON array.
// Secrets are written into a buffer sized up front so the slice never
// regrows and leaves partial copies behind.
func encodeParams(params []any) ([]byte, error) {
	parts := make([][]byte, len(params))
	size := 2 + max(len(params)-1, 0)

	for i, p := range params {
		if s, ok := p.(Secret); ok {
			size += s.jsonLen()
			continue
		}
		b, err := json.Marshal(p)
		if err != nil {
			return nil, err
		}
		parts[i] = b
		size += len(b)
	}

	out := make([]byte, 0, size)
	out = append(out, '[')
	for i, p := range params {
		if i > 0 {
			out = append(out, ',')
		}
		if s, ok := p.(Secret); ok {
			out = s.appendJSON(out)
			continue
		}
		out = append(out, parts[i]...)
	}
	return append(out, ']'), nil
}

// stdinLines renders params one per line the way the command-line tool
// reads them with -stdin: strings raw, everything else as JSON.
func stdinLines(params []any) ([]byte, error) {
	parts := make([][]byte, len(params))
	size := 0

	for i, p := range params {
		switch v := p.(type) {
		case Secret:
			for _, c := range v {
				if c == '\n' || c == '\r' {
					return nil, ErrSecretNewline
				}
			}
			size += len(v) + 1
			continue
		case string:
			parts[i] = []byte(v)
		case int:
			parts[i] = strconv.AppendInt(nil, int64(v), 10)
		case int64:
			parts[i] = strconv.AppendInt(nil, v, 10)
		case bool:
			parts[i] = strconv.AppendBool(nil, v)
		default:
			b, err := json.Marshal(v)
			if err != nil {
				return nil, err
			}
			parts[i] = b
		}
		size += len(parts[i]) + 1
	}

	out := make([]byte, 0, size)
	for i, p := range params {
		if s, ok := p.(Secret); ok {
			out = append(out, s...)
		} else {
			out = append(out, parts[i]...)
		}
		out = append(out, '\n')
	}
	return out, nil
}
