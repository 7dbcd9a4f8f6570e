package bootstrap

import "tezgo/infrastructure/encoding"

// Requests filters the sub-messages a peer may ask of us.
func Requests(envelope *encoding.PeerMessageResponse) []encoding.PeerMessage {
	return filterByTag(envelope,
		encoding.TagGetCurrentBranch,
		encoding.TagGetCurrentHead,
		encoding.TagGetBlockHeaders,
		encoding.TagGetOperations,
		encoding.TagGetProtocols,
		encoding.TagGetOperationHashesForBlocks,
		encoding.TagGetOperationsForBlocks,
	)
}

// Responses filters the sub-messages a peer may answer with.
func Responses(envelope *encoding.PeerMessageResponse) []encoding.PeerMessage {
	return filterByTag(envelope,
		encoding.TagCurrentBranch,
		encoding.TagCurrentHead,
		encoding.TagBlockHeader,
		encoding.TagOperation,
		encoding.TagProtocol,
		encoding.TagOperationHashesForBlock,
		encoding.TagOperationsForBlocks,
	)
}

func filterByTag(envelope *encoding.PeerMessageResponse, tags ...uint16) []encoding.PeerMessage {
	var out []encoding.PeerMessage
	for _, message := range envelope.Messages {
		for _, tag := range tags {
			if message.Tag() == tag {
				out = append(out, message)
				break
			}
		}
	}
	return out
}
