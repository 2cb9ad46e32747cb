package domain

const (
	// ETHEREUM_ZERO_ADDRESS is the reserved null address signaling mint/burn transfers
	ETHEREUM_ZERO_ADDRESS = "0x0000000000000000000000000000000000000000"

	// DEFAULT_IPFS_GATEWAY is the canonical public gateway used to rewrite ipfs locators
	DEFAULT_IPFS_GATEWAY = "https://ipfs.io"
)
