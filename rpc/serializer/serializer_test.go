package serializer

import (
	"reflect"
	"testing"

	"github.com/ValentinKolb/qkv/lib/cluster"
	"github.com/ValentinKolb/qkv/lib/kv"
	"github.com/ValentinKolb/qkv/rpc/common"
)

// testSerializers is a map of serializer name to factory function
var testSerializers = map[string]func() IRPCSerializer{
	"JSON":   NewJSONSerializer,
	"GOB":    NewGOBSerializer,
	"Binary": NewBinarySerializer,
}

// testMessages creates a set of test messages with different fields filled
func testMessages() []common.Message {
	return []common.Message{
		// Basic message with just a type
		{MsgType: common.MsgTSuccess},

		// Fetch request with quorum options
		{
			MsgType:   common.MsgTKVFetch,
			Namespace: "default",
			Bucket:    "users",
			Key:       "alice",
			OptMask:   uint32(cluster.OptR | cluster.OptNotFoundOK | cluster.OptTimeout),
			OptFlags:  uint32(cluster.OptNotFoundOK),
			R:         2,
			TimeoutMs: 2500,
		},

		// Fetch response with siblings
		{
			MsgType: common.MsgTKVFetch,
			Objects: []kv.Object{
				{Value: []byte("v1"), ContentType: "text/plain", VTag: "a", LastModified: 1700000000000},
				{Value: []byte("v2"), ContentType: "text/plain", VTag: "b", LastModified: 1700000000001},
			},
			VClock: []byte{0, 0, 0, 0, 0, 0, 0, 7},
		},

		// Store request with causal context
		{
			MsgType:   common.MsgTKVStore,
			Namespace: "default",
			Bucket:    "users",
			Key:       "alice",
			OptMask:   uint32(cluster.OptW | cluster.OptReturnBody | cluster.OptVClock),
			OptFlags:  uint32(cluster.OptReturnBody),
			W:         3,
			Objects:   []kv.Object{{Value: []byte("payload"), ContentType: "application/json"}},
			VClock:    []byte{0, 0, 0, 0, 0, 0, 0, 3},
		},

		// Conditional fetch request
		{
			MsgType:    common.MsgTKVFetch,
			Bucket:     "b",
			Key:        "k",
			OptMask:    uint32(cluster.OptIfModified),
			CondVClock: []byte{1, 2, 3},
		},

		// Not-found fetch response
		{
			MsgType:  common.MsgTKVFetch,
			NotFound: true,
		},

		// Index response
		{
			MsgType: common.MsgTIdxFetch,
			Index:   "famous",
			Schema:  "_yz_default",
			NVal:    3,
		},

		// Error response with a wire code
		{
			MsgType: common.MsgTIdxFetch,
			Err:     "search index not found (famous)",
			ErrCode: common.ErrCodeIndexNotFound,
		},
	}
}

// TestSerializerRoundTrip tests that messages can be serialized and deserialized correctly
func TestSerializerRoundTrip(t *testing.T) {
	messages := testMessages()

	for name, factory := range testSerializers {
		t.Run(name, func(t *testing.T) {
			serializer := factory()

			for i, msg := range messages {
				// Serialize
				data, err := serializer.Serialize(msg)
				if err != nil {
					t.Errorf("Failed to serialize message %d: %v", i, err)
					continue
				}

				// Deserialize
				var result common.Message
				err = serializer.Deserialize(data, &result)
				if err != nil {
					t.Errorf("Failed to deserialize message %d: %v", i, err)
					continue
				}

				// Compare
				if !reflect.DeepEqual(msg, result) {
					t.Errorf("Message %d doesn't match after round trip:\nOriginal: %+v\nResult: %+v",
						i, msg, result)
				}
			}
		})
	}
}

// TestMessageTypes tests each message type with each serializer
func TestMessageTypes(t *testing.T) {
	for name, factory := range testSerializers {
		t.Run(name, func(t *testing.T) {
			serializer := factory()

			// Test each message type (don't test for MsgTUnknown since this should raise an error)
			for msgType := common.MsgTSuccess; msgType <= common.MsgTIdxFetch; msgType++ {
				msg := common.Message{MsgType: msgType}

				// Serialize
				data, err := serializer.Serialize(msg)
				if err != nil {
					t.Errorf("Failed to serialize message type %s: %v", msgType.String(), err)
					continue
				}

				// Deserialize
				var result common.Message
				err = serializer.Deserialize(data, &result)
				if err != nil {
					t.Errorf("Failed to deserialize message type %s: %v", msgType.String(), err)
					continue
				}

				// Check type
				if result.MsgType != msgType {
					t.Errorf("Message type doesn't match after round trip: Expected %s, got %s",
						msgType.String(), result.MsgType.String())
				}
			}
		})
	}
}

// TestInvalidBinaryData tests how the binary serializer handles corrupt or invalid data
func TestInvalidBinaryData(t *testing.T) {
	serializer := NewBinarySerializer()

	testCases := []struct {
		name        string
		data        []byte
		expectError bool
	}{
		{
			name:        "Empty data",
			data:        []byte{},
			expectError: true,
		},
		{
			name:        "Too short header",
			data:        []byte{1}, // Only message type, no flags
			expectError: true,
		},
		{
			name:        "Valid header only",
			data:        []byte{1, 0, 0}, // Message type 1, no flags
			expectError: false,
		},
		{
			name:        "Invalid length for namespace",
			data:        []byte{1, 0, 1, 0, 0, 0, 5, 'a', 'b', 'c'}, // Claims length 5 but only 3 bytes provided
			expectError: true,
		},
		{
			name:        "Truncated option block",
			data:        []byte{3, 0, 16, 0, 0, 0, 1}, // Options flag set but block missing
			expectError: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var msg common.Message
			err := serializer.Deserialize(tc.data, &msg)

			if tc.expectError && err == nil {
				t.Errorf("Expected error but got none")
			} else if !tc.expectError && err != nil {
				t.Errorf("Did not expect error but got: %v", err)
			}
		})
	}
}
