package common

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ValentinKolb/qkv/lib/cluster"
	"github.com/ValentinKolb/qkv/lib/kv"
)

// --------------------------------------------------------------------------
// Message Structure
// --------------------------------------------------------------------------

// Message represents a single wire message used for both requests and
// responses. Which fields are used depends on the type of message.
//
// Option presence is carried in OptMask (bit positions from
// cluster.OptionMask); the values of boolean options are bit-packed into
// OptFlags using the same positions. A field whose presence bit is clear
// must be ignored by the receiver.
type Message struct {
	// Type of message
	MsgType MessageType `json:"msg_type"`

	// Addressing
	Namespace string `json:"namespace,omitempty"` // Used for: Fetch, Store, Delete
	Bucket    string `json:"bucket,omitempty"`    // Used for: Fetch, Store, Delete
	Key       string `json:"key,omitempty"`       // Used for: Fetch, Store, Delete
	Index     string `json:"index,omitempty"`     // Used for: FetchIndex (request and response)

	// Request options
	OptMask   uint32 `json:"opt_mask,omitempty"`   // Which options are present
	OptFlags  uint32 `json:"opt_flags,omitempty"`  // Values of the boolean options
	R         uint32 `json:"r,omitempty"`          // Read quorum
	PR        uint32 `json:"pr,omitempty"`         // Primary read quorum
	W         uint32 `json:"w,omitempty"`          // Write quorum
	PW        uint32 `json:"pw,omitempty"`         // Primary write quorum
	DW        uint32 `json:"dw,omitempty"`         // Durable write quorum
	RW        uint32 `json:"rw,omitempty"`         // Delete quorum
	NVal      uint32 `json:"n_val,omitempty"`      // Replication factor override; also: FetchIndex response
	TimeoutMs uint32 `json:"timeout_ms,omitempty"` // Per-request timeout

	// Object payload: the object being stored (request) or the returned
	// sibling values (response)
	Objects []kv.Object `json:"objects,omitempty"`

	// Version tokens: VClock is the record token (request: causal context,
	// response: current token); CondVClock carries the conditional-fetch
	// token (IF_MODIFIED)
	VClock     []byte `json:"vclock,omitempty"`
	CondVClock []byte `json:"cond_vclock,omitempty"`

	// Response only fields
	NotFound  bool   `json:"not_found,omitempty"` // Fetch: record absent
	Unchanged bool   `json:"unchanged,omitempty"` // Fetch: token matched
	Schema    string `json:"schema,omitempty"`    // FetchIndex: schema name
	Err       string `json:"err,omitempty"`       // Empty if no error
	ErrCode   uint8  `json:"err_code,omitempty"`  // Machine-readable error kind
}

// Error codes carried in Message.ErrCode so that sentinel errors survive
// the wire round trip.
const (
	ErrCodeNone uint8 = iota
	ErrCodeGeneric
	ErrCodeIndexNotFound
)

// --------------------------------------------------------------------------
// Message Factory Functions (requests)
// --------------------------------------------------------------------------

// NewFetchRequest translates a fetch operation into a wire message. Every
// set option is copied one-to-one; unset options leave the message fields
// at their zero value with the presence bit clear.
func NewFetchRequest(op *cluster.FetchOperation) *Message {
	msg := &Message{
		MsgType:   MsgTKVFetch,
		Namespace: op.Location.Namespace,
		Bucket:    op.Location.Bucket,
		Key:       op.Location.Key,
		OptMask:   uint32(op.Mask),
		R:         op.R,
		PR:        op.PR,
		NVal:      op.NVal,
		TimeoutMs: op.TimeoutMs,
	}
	msg.setFlag(cluster.OptBasicQuorum, op.BasicQuorum)
	msg.setFlag(cluster.OptNotFoundOK, op.NotFoundOK)
	msg.setFlag(cluster.OptSloppyQuorum, op.SloppyQuorum)
	msg.setFlag(cluster.OptHead, op.HeadOnly)
	msg.setFlag(cluster.OptDeletedVClock, op.DeletedVClock)
	if op.Mask.Has(cluster.OptIfModified) {
		msg.CondVClock = op.IfModified.Bytes()
	}
	return msg
}

// NewStoreRequest translates a store operation into a wire message.
func NewStoreRequest(op *cluster.StoreOperation) *Message {
	msg := &Message{
		MsgType:   MsgTKVStore,
		Namespace: op.Location.Namespace,
		Bucket:    op.Location.Bucket,
		Key:       op.Location.Key,
		OptMask:   uint32(op.Mask),
		W:         op.W,
		PW:        op.PW,
		DW:        op.DW,
		NVal:      op.NVal,
		TimeoutMs: op.TimeoutMs,
		Objects:   []kv.Object{op.Object},
	}
	msg.setFlag(cluster.OptSloppyQuorum, op.SloppyQuorum)
	msg.setFlag(cluster.OptReturnBody, op.ReturnBody)
	msg.setFlag(cluster.OptIfNotModified, op.IfNotModified)
	msg.setFlag(cluster.OptIfNoneMatch, op.IfNoneMatch)
	if op.Mask.Has(cluster.OptVClock) {
		msg.VClock = op.VClock.Bytes()
	}
	return msg
}

// NewDeleteRequest translates a delete operation into a wire message.
func NewDeleteRequest(op *cluster.DeleteOperation) *Message {
	msg := &Message{
		MsgType:   MsgTKVDelete,
		Namespace: op.Location.Namespace,
		Bucket:    op.Location.Bucket,
		Key:       op.Location.Key,
		OptMask:   uint32(op.Mask),
		RW:        op.RW,
		W:         op.W,
		PW:        op.PW,
		DW:        op.DW,
		NVal:      op.NVal,
		TimeoutMs: op.TimeoutMs,
	}
	msg.setFlag(cluster.OptSloppyQuorum, op.SloppyQuorum)
	if op.Mask.Has(cluster.OptVClock) {
		msg.VClock = op.VClock.Bytes()
	}
	return msg
}

// NewFetchIndexRequest translates a search-index read into a wire message.
func NewFetchIndexRequest(op *cluster.FetchIndexOperation) *Message {
	return &Message{
		MsgType: MsgTIdxFetch,
		Index:   op.Name,
	}
}

// --------------------------------------------------------------------------
// Message Factory Functions (responses)
// --------------------------------------------------------------------------

// NewFetchResponse creates the response for a fetch request.
func NewFetchResponse(result *cluster.FetchResult, err error) *Message {
	if err != nil {
		return newErrorMessage(MsgTKVFetch, err)
	}
	return &Message{
		MsgType:   MsgTKVFetch,
		NotFound:  result.NotFound,
		Unchanged: result.Unchanged,
		Objects:   result.Objects,
		VClock:    result.VClock.Bytes(),
	}
}

// NewStoreResponse creates the response for a store request.
func NewStoreResponse(result *cluster.StoreResult, err error) *Message {
	if err != nil {
		return newErrorMessage(MsgTKVStore, err)
	}
	return &Message{
		MsgType: MsgTKVStore,
		Objects: result.Objects,
		VClock:  result.VClock.Bytes(),
	}
}

// NewDeleteResponse creates the response for a delete request.
func NewDeleteResponse(err error) *Message {
	if err != nil {
		return newErrorMessage(MsgTKVDelete, err)
	}
	return &Message{MsgType: MsgTKVDelete}
}

// NewFetchIndexResponse creates the response for a search-index request.
func NewFetchIndexResponse(desc *cluster.IndexDescription, err error) *Message {
	if err != nil {
		return newErrorMessage(MsgTIdxFetch, err)
	}
	return &Message{
		MsgType: MsgTIdxFetch,
		Index:   desc.Name,
		Schema:  desc.Schema,
		NVal:    desc.NVal,
	}
}

// NewErrorResponse creates a generic error response.
func NewErrorResponse(err string) *Message {
	return &Message{
		MsgType: MsgTError,
		Err:     err,
		ErrCode: ErrCodeGeneric,
	}
}

// newErrorMessage attaches an error to a typed response, mapping sentinel
// errors to their wire code.
func newErrorMessage(t MessageType, err error) *Message {
	return &Message{
		MsgType: t,
		Err:     err.Error(),
		ErrCode: errCodeFor(err),
	}
}

// --------------------------------------------------------------------------
// Translation Helpers
// --------------------------------------------------------------------------

// ToFetchResult decodes a fetch response.
func (m *Message) ToFetchResult() *cluster.FetchResult {
	return &cluster.FetchResult{
		NotFound:  m.NotFound,
		Unchanged: m.Unchanged,
		Objects:   m.Objects,
		VClock:    m.VClock,
	}
}

// ToStoreResult decodes a store response.
func (m *Message) ToStoreResult() *cluster.StoreResult {
	return &cluster.StoreResult{
		Objects: m.Objects,
		VClock:  m.VClock,
	}
}

// ToIndexDescription decodes a search-index response.
func (m *Message) ToIndexDescription() *cluster.IndexDescription {
	return &cluster.IndexDescription{
		Name:   m.Index,
		Schema: m.Schema,
		NVal:   m.NVal,
	}
}

// ToLocation decodes the addressing fields of a request.
func (m *Message) ToLocation() kv.Location {
	return kv.Location{Namespace: m.Namespace, Bucket: m.Bucket, Key: m.Key}
}

// ToFetchOperation decodes a fetch request (inverse of NewFetchRequest).
func (m *Message) ToFetchOperation() *cluster.FetchOperation {
	return &cluster.FetchOperation{
		Location:      m.ToLocation(),
		R:             m.R,
		PR:            m.PR,
		NVal:          m.NVal,
		TimeoutMs:     m.TimeoutMs,
		BasicQuorum:   m.Flag(cluster.OptBasicQuorum),
		NotFoundOK:    m.Flag(cluster.OptNotFoundOK),
		SloppyQuorum:  m.Flag(cluster.OptSloppyQuorum),
		HeadOnly:      m.Flag(cluster.OptHead),
		DeletedVClock: m.Flag(cluster.OptDeletedVClock),
		IfModified:    m.CondVClock,
		Mask:          m.Mask(),
	}
}

// ToStoreOperation decodes a store request (inverse of NewStoreRequest).
func (m *Message) ToStoreOperation() *cluster.StoreOperation {
	op := &cluster.StoreOperation{
		Location:      m.ToLocation(),
		W:             m.W,
		PW:            m.PW,
		DW:            m.DW,
		NVal:          m.NVal,
		TimeoutMs:     m.TimeoutMs,
		SloppyQuorum:  m.Flag(cluster.OptSloppyQuorum),
		ReturnBody:    m.Flag(cluster.OptReturnBody),
		IfNotModified: m.Flag(cluster.OptIfNotModified),
		IfNoneMatch:   m.Flag(cluster.OptIfNoneMatch),
		VClock:        m.VClock,
		Mask:          m.Mask(),
	}
	if len(m.Objects) > 0 {
		op.Object = m.Objects[0]
	}
	return op
}

// ToDeleteOperation decodes a delete request (inverse of NewDeleteRequest).
func (m *Message) ToDeleteOperation() *cluster.DeleteOperation {
	return &cluster.DeleteOperation{
		Location:     m.ToLocation(),
		RW:           m.RW,
		W:            m.W,
		PW:           m.PW,
		DW:           m.DW,
		NVal:         m.NVal,
		TimeoutMs:    m.TimeoutMs,
		SloppyQuorum: m.Flag(cluster.OptSloppyQuorum),
		VClock:       m.VClock,
		Mask:         m.Mask(),
	}
}

// ToFetchIndexOperation decodes a search-index request.
func (m *Message) ToFetchIndexOperation() *cluster.FetchIndexOperation {
	return &cluster.FetchIndexOperation{Name: m.Index}
}

// Mask returns the option presence mask.
func (m *Message) Mask() cluster.OptionMask {
	return cluster.OptionMask(m.OptMask)
}

// Flag returns the value of a boolean option.
func (m *Message) Flag(opt cluster.OptionMask) bool {
	return cluster.OptionMask(m.OptFlags).Has(opt)
}

// setFlag stores a boolean option value if its presence bit is set.
func (m *Message) setFlag(opt cluster.OptionMask, value bool) {
	if cluster.OptionMask(m.OptMask).Has(opt) && value {
		m.OptFlags |= uint32(opt)
	}
}

// WireError reconstructs the error carried in a response, restoring
// sentinel errors from the wire code. Returns nil if the message carries
// no error.
func (m *Message) WireError() error {
	if m.MsgType != MsgTError && m.Err == "" {
		return nil
	}
	switch m.ErrCode {
	case ErrCodeIndexNotFound:
		return fmt.Errorf("%w (%s)", cluster.ErrIndexNotFound, m.Err)
	default:
		return fmt.Errorf("remote error: %s", m.Err)
	}
}

// errCodeFor maps sentinel errors to their wire code.
func errCodeFor(err error) uint8 {
	if errors.Is(err, cluster.ErrIndexNotFound) {
		return ErrCodeIndexNotFound
	}
	return ErrCodeGeneric
}

// --------------------------------------------------------------------------
// Message Type Definition
// --------------------------------------------------------------------------

// MessageType defines the type of message used in RPC communication.
type MessageType uint8

// String returns the string representation of a MessageType.
func (t MessageType) String() string {
	switch t {
	case MsgTSuccess:
		return "success"
	case MsgTError:
		return "error"
	case MsgTKVFetch:
		return "fetch"
	case MsgTKVStore:
		return "store"
	case MsgTKVDelete:
		return "delete"
	case MsgTIdxFetch:
		return "fetchIndex"
	default:
		return "unknown"
	}
}

// MarshalJSON implements the json.Marshaller interface for MessageType.
// This allows MessageType to be serialized as a string in JSON.
func (t MessageType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON implements the json.Unmarshaler interface for MessageType.
// This allows MessageType to be deserialized from a string in JSON.
func (t *MessageType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}

	switch s {
	case "success":
		*t = MsgTSuccess
	case "error":
		*t = MsgTError
	case "fetch":
		*t = MsgTKVFetch
	case "store":
		*t = MsgTKVStore
	case "delete":
		*t = MsgTKVDelete
	case "fetchIndex":
		*t = MsgTIdxFetch
	default:
		return fmt.Errorf("unknown message type: %s", s)
	}

	return nil
}

// --------------------------------------------------------------------------
// Message Type Constants
// --------------------------------------------------------------------------

const (
	// General message types

	MsgTUnknown MessageType = iota
	MsgTSuccess             // Indicates a successful operation
	MsgTError               // Indicates an error occurred

	// Key-value operations

	MsgTKVFetch  // Fetch a value by location
	MsgTKVStore  // Store a value at a location
	MsgTKVDelete // Delete a value at a location

	// Search index operations

	MsgTIdxFetch // Fetch a search index description
)
