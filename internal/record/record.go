// Package record defines the on-disk shape of a single log entry and the
// codec that frames it for writing and recovers it on read. Every entry
// appended to a segment is one of two kinds: a Set that carries a value, or
// a Delete tombstone that carries only a key.
//
// Frame layout, in order:
//
//	4 bytes  little-endian total frame length, including this field
//	1 byte   tag: 0 = Set, 1 = Delete
//	4 bytes  little-endian key length
//	N bytes  key
//	4 bytes  little-endian value length (0 for Delete)
//	M bytes  value (absent for Delete)
//	4 bytes  little-endian CRC-32 (IEEE) over the tag through the value
//
// A reader that hits EOF exactly where the next frame's length prefix would
// begin has reached the clean end of the segment. Any other EOF, or a CRC
// mismatch, is a decoding failure.
package record

import (
	"bufio"
	"encoding/binary"
	"hash/crc32"
	"io"

	kvserrors "github.com/iamNilotpal/kvs/pkg/errors"
)

const (
	tagSet    byte = 0
	tagDelete byte = 1

	// lengthFieldSize is the size in bytes of the leading total-frame-length
	// field.
	lengthFieldSize = 4
	// headerSize is the size in bytes of everything between the length
	// field and the key bytes: the tag plus the key-length field.
	headerSize = 1 + 4
	// crcSize is the size in bytes of the trailing checksum.
	crcSize = 4
)

// Record is the tagged union of operations a segment entry can represent.
// Exactly one of the two constructors below should be used to build one;
// the zero value is not a valid Record.
type Record struct {
	isDelete bool
	Key      string
	Value    string
}

// NewSet builds a Record representing a write of value under key.
func NewSet(key, value string) Record {
	return Record{Key: key, Value: value}
}

// NewDelete builds a Record representing a tombstone for key.
func NewDelete(key string) Record {
	return Record{isDelete: true, Key: key}
}

// IsDelete reports whether this Record is a tombstone.
func (r Record) IsDelete() bool {
	return r.isDelete
}

// Encode writes a framed Record to w and returns the number of bytes
// written, which is exactly the size the Record occupies on disk.
func Encode(w io.Writer, rec Record) (int64, error) {
	keyBytes := []byte(rec.Key)
	var valueBytes []byte
	tag := tagSet
	if rec.isDelete {
		tag = tagDelete
	} else {
		valueBytes = []byte(rec.Value)
	}

	total := lengthFieldSize + headerSize + len(keyBytes) + 4 + len(valueBytes) + crcSize
	buf := make([]byte, total)

	binary.LittleEndian.PutUint32(buf[0:4], uint32(total))
	buf[4] = tag
	binary.LittleEndian.PutUint32(buf[5:9], uint32(len(keyBytes)))
	copy(buf[9:9+len(keyBytes)], keyBytes)

	valLenOffset := 9 + len(keyBytes)
	binary.LittleEndian.PutUint32(buf[valLenOffset:valLenOffset+4], uint32(len(valueBytes)))
	copy(buf[valLenOffset+4:valLenOffset+4+len(valueBytes)], valueBytes)

	crc := crc32.ChecksumIEEE(buf[4 : total-crcSize])
	binary.LittleEndian.PutUint32(buf[total-crcSize:total], crc)

	n, err := w.Write(buf)
	if err != nil {
		return int64(n), kvserrors.NewEncoderError(err, "failed to write record frame").
			WithDetail("key", rec.Key).WithDetail("frameSize", total)
	}
	return int64(n), nil
}

// Decode reads one framed Record from r. A clean EOF at the start of a
// frame (no bytes read yet) is reported as io.EOF and signals the normal
// end of a scan; any other failure is a *kvserrors.CodecError.
func Decode(r io.Reader) (Record, error) {
	var lenBuf [lengthFieldSize]byte
	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		if err == io.EOF {
			return Record{}, io.EOF
		}
		return Record{}, kvserrors.NewDecoderError(err, "failed to read frame length").WithDetail("stage", "length")
	}

	total := binary.LittleEndian.Uint32(lenBuf[:])
	if total < lengthFieldSize+headerSize+4+crcSize {
		return Record{}, kvserrors.NewDecoderError(nil, "frame length shorter than minimum frame size").
			WithDetail("frameLength", total)
	}

	rest := make([]byte, total-lengthFieldSize)
	if _, err := io.ReadFull(r, rest); err != nil {
		return Record{}, kvserrors.NewDecoderError(err, "frame truncated before end of stream").
			WithDetail("expectedBytes", len(rest))
	}

	payload := rest[:len(rest)-crcSize]
	wantCRC := binary.LittleEndian.Uint32(rest[len(rest)-crcSize:])
	if gotCRC := crc32.ChecksumIEEE(payload); gotCRC != wantCRC {
		return Record{}, kvserrors.NewDecoderError(nil, "frame failed checksum validation").
			WithDetail("want", wantCRC).WithDetail("got", gotCRC)
	}

	tag := payload[0]
	keyLen := binary.LittleEndian.Uint32(payload[1:5])
	if int(5+keyLen+4) > len(payload) {
		return Record{}, kvserrors.NewDecoderError(nil, "key length exceeds frame bounds").
			WithDetail("keyLen", keyLen)
	}
	key := string(payload[5 : 5+keyLen])

	valLenOffset := 5 + keyLen
	valueLen := binary.LittleEndian.Uint32(payload[valLenOffset : valLenOffset+4])
	valueStart := valLenOffset + 4
	if int(valueStart+valueLen) != len(payload) {
		return Record{}, kvserrors.NewDecoderError(nil, "value length does not match frame bounds").
			WithDetail("valueLen", valueLen)
	}
	value := string(payload[valueStart : valueStart+valueLen])

	switch tag {
	case tagSet:
		return NewSet(key, value), nil
	case tagDelete:
		return NewDelete(key), nil
	default:
		return Record{}, kvserrors.NewDecoderError(nil, "unrecognized record tag").WithDetail("tag", tag)
	}
}

// NewReader wraps r with the buffering Decode expects when scanning many
// frames in sequence.
func NewReader(r io.Reader) *bufio.Reader {
	return bufio.NewReader(r)
}
