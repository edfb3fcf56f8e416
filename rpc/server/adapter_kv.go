package server

import (
	"fmt"

	"github.com/ValentinKolb/qkv/lib/bucketstore"
	"github.com/ValentinKolb/qkv/rpc/common"
)

func NewKVServerAdapter() IRPCServerAdapter {
	return &kvServerAdapterImpl{}
}

type kvServerAdapterImpl struct{}

func (adapter *kvServerAdapterImpl) Handle(req *common.Message, store *bucketstore.Store) *common.Message {
	// Check for nil store
	if store == nil {
		return common.NewErrorResponse("handler: store is nil")
	}

	// Handle different message types
	switch req.MsgType {
	case common.MsgTKVFetch:
		result, err := store.Fetch(req.ToFetchOperation())
		return common.NewFetchResponse(result, err)
	case common.MsgTKVStore:
		result, err := store.Put(req.ToStoreOperation())
		return common.NewStoreResponse(result, err)
	case common.MsgTKVDelete:
		_, err := store.Delete(req.ToDeleteOperation())
		return common.NewDeleteResponse(err)
	case common.MsgTIdxFetch:
		desc, err := store.FetchIndex(req.ToFetchIndexOperation())
		return common.NewFetchIndexResponse(desc, err)
	default:
		return common.NewErrorResponse(
			fmt.Sprintf("rpc kv adapter - unsupported message type: %s", req.MsgType),
		)
	}
}
