package config

// Config holds the CLI settings stored in config.json.
type Config struct {
	DefaultWallet  string `json:"default_wallet"`
	DefaultProfile string `json:"default_profile"`
	DefaultNetwork string `json:"default_network"`
	NetworkMode    string `json:"network_mode"` // "mainnet" | "testnet"

	// internal: config dir path used for Save()
	configDir string
}

// ChannelProfile configures one issuance channel. Prices accept unit suffixes ("0.05ether").
type ChannelProfile struct {
	Active bool   `json:"active"`
	Price  string `json:"price,omitempty"`
	Cap    uint64 `json:"cap,omitempty"`   // gated channels only; 0 means max supply
	Quota  uint64 `json:"quota,omitempty"` // per address; 0 means unlimited
	Root   string `json:"root,omitempty"`

	// Allowlist is used to build Root when Root is empty.
	Allowlist []string `json:"allowlist,omitempty"`
}

// RoyaltyProfile is a receiver and a numerator over 100000.
type RoyaltyProfile struct {
	Receiver  string `json:"receiver"`
	Numerator uint64 `json:"numerator"`
}

// Profile is a deployment profile stored under profiles/<name>.json.
type Profile struct {
	Name          string `json:"name"`
	Symbol        string `json:"symbol"`
	DomainVersion string `json:"domain_version"`
	Contract      string `json:"contract"`
	Owner         string `json:"owner"`
	Network       string `json:"network,omitempty"`
	Testnet       bool   `json:"testnet,omitempty"`
	MaxSupply     uint64 `json:"max_supply"`

	Public  ChannelProfile `json:"public"`
	Presale ChannelProfile `json:"presale"`
	Free    ChannelProfile `json:"free"`
	Reserve ChannelProfile `json:"reserve"`

	Payment        string          `json:"payment"` // "refund" | "forward"
	Beneficiary    string          `json:"beneficiary,omitempty"`
	RoyaltyOnMint  bool            `json:"royalty_on_mint,omitempty"`
	DefaultRoyalty *RoyaltyProfile `json:"default_royalty,omitempty"`

	BaseURI         string `json:"base_uri,omitempty"`
	URISuffix       string `json:"uri_suffix,omitempty"`
	PreRevealURI    string `json:"pre_reveal_uri,omitempty"`
	RevealThreshold uint64 `json:"reveal_threshold,omitempty"`
}
