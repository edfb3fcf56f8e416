package serializer

import (
	"encoding/binary"
	"fmt"

	"github.com/ValentinKolb/qkv/lib/kv"
	"github.com/ValentinKolb/qkv/rpc/common"
)

// NewBinarySerializer creates a new serializer using a custom binary format
// optimized for speed and efficiency
func NewBinarySerializer() IRPCSerializer {
	return &binarySerializerImpl{}
}

// binarySerializerImpl implements IRPCSerializer using a custom binary format
type binarySerializerImpl struct {
}

// Bit flags to indicate which optional field groups are present
const (
	hasNamespace  uint16 = 1 << 0
	hasBucket     uint16 = 1 << 1
	hasKey        uint16 = 1 << 2
	hasIndex      uint16 = 1 << 3
	hasOptions    uint16 = 1 << 4 // OptMask, OptFlags and the eight numeric option fields
	hasObjects    uint16 = 1 << 5
	hasVClock     uint16 = 1 << 6
	hasCondVClock uint16 = 1 << 7
	hasSchema     uint16 = 1 << 8
	hasErr        uint16 = 1 << 9 // ErrCode byte plus error string
	hasNotFound   uint16 = 1 << 10
	hasUnchanged  uint16 = 1 << 11
)

// Bit flags for the per-object header byte
const (
	objHasValue       byte = 1 << 0
	objHasContentType byte = 1 << 1
	objHasVTag        byte = 1 << 2
	objHasLastMod     byte = 1 << 3
	objDeleted        byte = 1 << 4
)

// --------------------------------------------------------------------------
// Interface Methods (docu see serializer.IRPCSerializer)
// --------------------------------------------------------------------------

func (s binarySerializerImpl) Serialize(msg common.Message) ([]byte, error) {
	w := &binaryWriter{buf: make([]byte, 0, 64)}

	// Message type plus a placeholder for the field bitmap
	w.writeByte(byte(msg.MsgType))
	w.writeUint16(0)

	var flags uint16

	if msg.Namespace != "" {
		flags |= hasNamespace
		w.writeString(msg.Namespace)
	}
	if msg.Bucket != "" {
		flags |= hasBucket
		w.writeString(msg.Bucket)
	}
	if msg.Key != "" {
		flags |= hasKey
		w.writeString(msg.Key)
	}
	if msg.Index != "" {
		flags |= hasIndex
		w.writeString(msg.Index)
	}
	if msg.OptMask != 0 || msg.NVal != 0 {
		flags |= hasOptions
		w.writeUint32(msg.OptMask)
		w.writeUint32(msg.OptFlags)
		w.writeUint32(msg.R)
		w.writeUint32(msg.PR)
		w.writeUint32(msg.W)
		w.writeUint32(msg.PW)
		w.writeUint32(msg.DW)
		w.writeUint32(msg.RW)
		w.writeUint32(msg.NVal)
		w.writeUint32(msg.TimeoutMs)
	}
	if msg.Objects != nil {
		flags |= hasObjects
		w.writeUint32(uint32(len(msg.Objects)))
		for _, obj := range msg.Objects {
			writeObject(w, obj)
		}
	}
	if msg.VClock != nil {
		flags |= hasVClock
		w.writeBytes(msg.VClock)
	}
	if msg.CondVClock != nil {
		flags |= hasCondVClock
		w.writeBytes(msg.CondVClock)
	}
	if msg.Schema != "" {
		flags |= hasSchema
		w.writeString(msg.Schema)
	}
	if msg.Err != "" || msg.ErrCode != common.ErrCodeNone {
		flags |= hasErr
		w.writeByte(msg.ErrCode)
		w.writeString(msg.Err)
	}
	if msg.NotFound {
		flags |= hasNotFound
	}
	if msg.Unchanged {
		flags |= hasUnchanged
	}

	// Patch the bitmap now that all fields are known
	binary.BigEndian.PutUint16(w.buf[1:3], flags)

	return w.buf, nil
}

func (s binarySerializerImpl) Deserialize(data []byte, msg *common.Message) error {
	if len(data) < 3 {
		return fmt.Errorf("data too short for message header")
	}

	r := &binaryReader{data: data, pos: 3}
	flags := binary.BigEndian.Uint16(data[1:3])

	*msg = common.Message{MsgType: common.MessageType(data[0])}

	if flags&hasNamespace != 0 {
		msg.Namespace = r.readString()
	}
	if flags&hasBucket != 0 {
		msg.Bucket = r.readString()
	}
	if flags&hasKey != 0 {
		msg.Key = r.readString()
	}
	if flags&hasIndex != 0 {
		msg.Index = r.readString()
	}
	if flags&hasOptions != 0 {
		msg.OptMask = r.readUint32()
		msg.OptFlags = r.readUint32()
		msg.R = r.readUint32()
		msg.PR = r.readUint32()
		msg.W = r.readUint32()
		msg.PW = r.readUint32()
		msg.DW = r.readUint32()
		msg.RW = r.readUint32()
		msg.NVal = r.readUint32()
		msg.TimeoutMs = r.readUint32()
	}
	if flags&hasObjects != 0 {
		count := r.readUint32()
		if r.err == nil && count > uint32(len(data)) {
			return fmt.Errorf("object count %d exceeds message size", count)
		}
		msg.Objects = make([]kv.Object, 0, count)
		for i := uint32(0); i < count && r.err == nil; i++ {
			msg.Objects = append(msg.Objects, readObject(r))
		}
	}
	if flags&hasVClock != 0 {
		msg.VClock = r.readBytes()
	}
	if flags&hasCondVClock != 0 {
		msg.CondVClock = r.readBytes()
	}
	if flags&hasSchema != 0 {
		msg.Schema = r.readString()
	}
	if flags&hasErr != 0 {
		msg.ErrCode = r.readByte()
		msg.Err = r.readString()
	}
	msg.NotFound = flags&hasNotFound != 0
	msg.Unchanged = flags&hasUnchanged != 0

	return r.err
}

// --------------------------------------------------------------------------
// Object Encoding
// --------------------------------------------------------------------------

func writeObject(w *binaryWriter, obj kv.Object) {
	var header byte
	if obj.Value != nil {
		header |= objHasValue
	}
	if obj.ContentType != "" {
		header |= objHasContentType
	}
	if obj.VTag != "" {
		header |= objHasVTag
	}
	if obj.LastModified != 0 {
		header |= objHasLastMod
	}
	if obj.Deleted {
		header |= objDeleted
	}
	w.writeByte(header)

	if header&objHasValue != 0 {
		w.writeBytes(obj.Value)
	}
	if header&objHasContentType != 0 {
		w.writeString(obj.ContentType)
	}
	if header&objHasVTag != 0 {
		w.writeString(obj.VTag)
	}
	if header&objHasLastMod != 0 {
		w.writeUint64(uint64(obj.LastModified))
	}
}

func readObject(r *binaryReader) kv.Object {
	var obj kv.Object
	header := r.readByte()

	if header&objHasValue != 0 {
		obj.Value = r.readBytes()
	}
	if header&objHasContentType != 0 {
		obj.ContentType = r.readString()
	}
	if header&objHasVTag != 0 {
		obj.VTag = r.readString()
	}
	if header&objHasLastMod != 0 {
		obj.LastModified = int64(r.readUint64())
	}
	obj.Deleted = header&objDeleted != 0

	return obj
}

// --------------------------------------------------------------------------
// Low-Level Writer / Reader
// --------------------------------------------------------------------------

// binaryWriter appends big-endian encoded fields to a growing buffer.
type binaryWriter struct {
	buf []byte
}

func (w *binaryWriter) writeByte(b byte) {
	w.buf = append(w.buf, b)
}

func (w *binaryWriter) writeUint16(v uint16) {
	w.buf = binary.BigEndian.AppendUint16(w.buf, v)
}

func (w *binaryWriter) writeUint32(v uint32) {
	w.buf = binary.BigEndian.AppendUint32(w.buf, v)
}

func (w *binaryWriter) writeUint64(v uint64) {
	w.buf = binary.BigEndian.AppendUint64(w.buf, v)
}

func (w *binaryWriter) writeBytes(b []byte) {
	w.writeUint32(uint32(len(b)))
	w.buf = append(w.buf, b...)
}

func (w *binaryWriter) writeString(s string) {
	w.writeUint32(uint32(len(s)))
	w.buf = append(w.buf, s...)
}

// binaryReader decodes big-endian encoded fields, remembering the first
// error. After an error all reads return zero values.
type binaryReader struct {
	data []byte
	pos  int
	err  error
}

func (r *binaryReader) fail(what string) {
	if r.err == nil {
		r.err = fmt.Errorf("data too short for %s", what)
	}
}

func (r *binaryReader) readByte() byte {
	if r.err != nil || r.pos+1 > len(r.data) {
		r.fail("byte")
		return 0
	}
	b := r.data[r.pos]
	r.pos++
	return b
}

func (r *binaryReader) readUint32() uint32 {
	if r.err != nil || r.pos+4 > len(r.data) {
		r.fail("uint32")
		return 0
	}
	v := binary.BigEndian.Uint32(r.data[r.pos : r.pos+4])
	r.pos += 4
	return v
}

func (r *binaryReader) readUint64() uint64 {
	if r.err != nil || r.pos+8 > len(r.data) {
		r.fail("uint64")
		return 0
	}
	v := binary.BigEndian.Uint64(r.data[r.pos : r.pos+8])
	r.pos += 8
	return v
}

func (r *binaryReader) readBytes() []byte {
	length := int(r.readUint32())
	if r.err != nil || r.pos+length > len(r.data) {
		r.fail("bytes")
		return nil
	}
	b := make([]byte, length)
	copy(b, r.data[r.pos:r.pos+length])
	r.pos += length
	return b
}

func (r *binaryReader) readString() string {
	length := int(r.readUint32())
	if r.err != nil || r.pos+length > len(r.data) {
		r.fail("string")
		return ""
	}
	s := string(r.data[r.pos : r.pos+length])
	r.pos += length
	return s
}
