package chain

import "encoding/hex"

// GenesisChainID identifies the chain this node bootstraps against.
var GenesisChainID = ChainID{0x9c, 0xae, 0xca, 0xb9}

// GenesisChainName is the network version name announced during the
// connection exchange.
const GenesisChainName = "TEZOS_ALPHANET_CARTHAGE_2019-11-28T13:02:13Z"

const genesisTime = 1574946133

var (
	genesisHash              = mustHash32("8fcf233671b6a04fcf679d2a381c2544ea6c1ea29ba6157776ed8424bbcacb48")
	genesisOperationListHash = mustHash32("0e5751c026e543b2e8ab2eb06099daa1d1e5df47778f7787faab45cdf12fe3a8")
	genesisContextHash       = mustHash32("fc73e5a7e0733387f86ad1b704121b81835c9a510a529ed96ecb9c34b732231b")
)

// GenesisBlockHeader builds the level-0 header of the genesis chain.
func GenesisBlockHeader() BlockHeader {
	return BlockHeader{
		Level:          0,
		Proto:          0,
		Predecessor:    BlockHash(genesisHash),
		Timestamp:      genesisTime,
		ValidationPass: 0,
		OperationsHash: genesisOperationListHash,
		Fitness:        nil,
		Context:        genesisContextHash,
		ProtocolData:   nil,
	}
}

func mustHash32(s string) [32]byte {
	raw, err := hex.DecodeString(s)
	if err != nil || len(raw) != 32 {
		panic("malformed genesis constant: " + s)
	}
	var h [32]byte
	copy(h[:], raw)
	return h
}
