package model

type VaultStore string

const (
	KVConfig    VaultStore = "kvConfig"
	RemoteFiles VaultStore = "remoteFiles"
	StagedItems VaultStore = "stagedItems"
	WatchStates VaultStore = "watchStates"
	WatchFiles  VaultStore = "watchFiles"
)

const (
	// MaxUploadFiles is the server-enforced cap on files per submission.
	MaxUploadFiles = 15

	// DefaultAPIPort is used when no endpoint override is configured.
	DefaultAPIPort = 8000
)

const (
	// CatalogSyncKey stores the timestamp of the last successful
	// catalog refresh in the config bucket.
	CatalogSyncKey = "lastCatalogSync"
)
