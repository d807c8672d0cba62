package bytecode

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"

	"github.com/atlas-lang/atlas/internal/token"
	"github.com/atlas-lang/atlas/internal/value"
)

// atbMagic and atbVersion frame the `.atb` artifact: a 4-byte magic
// followed by a 2-byte version. The payload is encoded field by field
// with encoding/binary (length-prefixed strings, tagged constant
// entries) rather than a Go-specific codec, so the byte layout is fixed
// and other tooling can read it.
var atbMagic = [4]byte{'A', 'T', 'B', 0}

const atbVersion uint16 = 1

// constant pool tag bytes.
const (
	tagNumber byte = iota
	tagString
	tagBool
	tagNull
)

// Marshal serializes bc into the `.atb` binary format.
func Marshal(bc *Bytecode) ([]byte, error) {
	var buf bytes.Buffer
	buf.Write(atbMagic[:])
	writeUint16(&buf, atbVersion)
	writeUint32(&buf, uint32(bc.TopLevelLocals))

	writeUint32(&buf, uint32(len(bc.Constants)))
	for _, c := range bc.Constants {
		if err := writeConstant(&buf, c); err != nil {
			return nil, err
		}
	}

	writeUint32(&buf, uint32(len(bc.Functions)))
	for _, fn := range bc.Functions {
		writeString(&buf, fn.Name)
		writeUint32(&buf, uint32(fn.EntryOffset))
		writeUint32(&buf, uint32(fn.Arity))
		writeUint32(&buf, uint32(fn.LocalCount))
	}

	writeUint32(&buf, uint32(len(bc.Code)))
	buf.Write(bc.Code)

	writeUint32(&buf, uint32(len(bc.Debug)))
	for _, d := range bc.Debug {
		writeUint32(&buf, uint32(d.ByteOffset))
		writeUint32(&buf, uint32(d.Span.FileID))
		writeUint32(&buf, uint32(d.Span.StartOffset))
		writeUint32(&buf, uint32(d.Span.Length))
	}

	writeUint32(&buf, uint32(len(bc.Files)))
	for id, name := range bc.Files {
		writeUint32(&buf, uint32(id))
		writeString(&buf, name)
	}

	return buf.Bytes(), nil
}

// Unmarshal deserializes the `.atb` format produced by Marshal.
func Unmarshal(data []byte) (*Bytecode, error) {
	r := bytes.NewReader(data)

	var magic [4]byte
	if _, err := r.Read(magic[:]); err != nil || magic != atbMagic {
		return nil, fmt.Errorf("bytecode: bad magic %v", magic)
	}
	version, err := readUint16(r)
	if err != nil {
		return nil, err
	}
	if version != atbVersion {
		return nil, fmt.Errorf("bytecode: unsupported version %d", version)
	}

	bc := NewBytecode()

	topLocals, err := readUint32(r)
	if err != nil {
		return nil, err
	}
	bc.TopLevelLocals = int(topLocals)

	nConsts, err := readUint32(r)
	if err != nil {
		return nil, err
	}
	for i := uint32(0); i < nConsts; i++ {
		c, err := readConstant(r)
		if err != nil {
			return nil, err
		}
		bc.Constants = append(bc.Constants, c)
	}

	nFns, err := readUint32(r)
	if err != nil {
		return nil, err
	}
	for i := uint32(0); i < nFns; i++ {
		name, err := readString(r)
		if err != nil {
			return nil, err
		}
		entry, _ := readUint32(r)
		arity, _ := readUint32(r)
		locals, err := readUint32(r)
		if err != nil {
			return nil, err
		}
		bc.Functions = append(bc.Functions, FunctionMeta{
			Name: name, EntryOffset: int(entry), Arity: int(arity), LocalCount: int(locals),
		})
	}

	codeLen, err := readUint32(r)
	if err != nil {
		return nil, err
	}
	code := make([]byte, codeLen)
	if _, err := r.Read(code); err != nil && codeLen > 0 {
		return nil, err
	}
	bc.Code = code

	nDebug, err := readUint32(r)
	if err != nil {
		return nil, err
	}
	for i := uint32(0); i < nDebug; i++ {
		offset, _ := readUint32(r)
		fileID, _ := readUint32(r)
		start, _ := readUint32(r)
		length, err := readUint32(r)
		if err != nil {
			return nil, err
		}
		bc.Debug = append(bc.Debug, DebugEntry{
			ByteOffset: int(offset),
			Span:       token.Span{FileID: int(fileID), StartOffset: int(start), Length: int(length)},
		})
	}

	nFiles, err := readUint32(r)
	if err != nil {
		return nil, err
	}
	for i := uint32(0); i < nFiles; i++ {
		id, _ := readUint32(r)
		name, err := readString(r)
		if err != nil {
			return nil, err
		}
		bc.Files[int(id)] = name
	}

	return bc, nil
}

func writeConstant(buf *bytes.Buffer, v value.Value) error {
	switch v.Kind() {
	case value.KindNumber:
		buf.WriteByte(tagNumber)
		var b [8]byte
		binary.BigEndian.PutUint64(b[:], math.Float64bits(v.AsNumber()))
		buf.Write(b[:])
	case value.KindString:
		buf.WriteByte(tagString)
		writeString(buf, v.AsString())
	case value.KindBool:
		buf.WriteByte(tagBool)
		if v.AsBool() {
			buf.WriteByte(1)
		} else {
			buf.WriteByte(0)
		}
	case value.KindNull:
		buf.WriteByte(tagNull)
	default:
		return fmt.Errorf("bytecode: value kind %v is not a valid constant", v.Kind())
	}
	return nil
}

func readConstant(r *bytes.Reader) (value.Value, error) {
	tag, err := r.ReadByte()
	if err != nil {
		return value.Value{}, err
	}
	switch tag {
	case tagNumber:
		var b [8]byte
		if _, err := r.Read(b[:]); err != nil {
			return value.Value{}, err
		}
		return value.Number(math.Float64frombits(binary.BigEndian.Uint64(b[:]))), nil
	case tagString:
		s, err := readString(r)
		if err != nil {
			return value.Value{}, err
		}
		return value.String(s), nil
	case tagBool:
		b, err := r.ReadByte()
		if err != nil {
			return value.Value{}, err
		}
		return value.Bool(b != 0), nil
	case tagNull:
		return value.Null, nil
	default:
		return value.Value{}, fmt.Errorf("bytecode: unknown constant tag %d", tag)
	}
}

func writeUint16(buf *bytes.Buffer, v uint16) {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], v)
	buf.Write(b[:])
}

func writeUint32(buf *bytes.Buffer, v uint32) {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	buf.Write(b[:])
}

func writeString(buf *bytes.Buffer, s string) {
	writeUint32(buf, uint32(len(s)))
	buf.WriteString(s)
}

func readUint16(r *bytes.Reader) (uint16, error) {
	var b [2]byte
	if _, err := r.Read(b[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(b[:]), nil
}

func readUint32(r *bytes.Reader) (uint32, error) {
	var b [4]byte
	if _, err := r.Read(b[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b[:]), nil
}

func readString(r *bytes.Reader) (string, error) {
	n, err := readUint32(r)
	if err != nil {
		return "", err
	}
	b := make([]byte, n)
	if n > 0 {
		if _, err := r.Read(b); err != nil {
			return "", err
		}
	}
	return string(b), nil
}
