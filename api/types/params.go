package types

// Resource presence values accepted by the state parameter.
const (
	StatePresent = "present"
	StateAbsent  = "absent"
)

// ConnParams are the cluster client settings shared by the modules that open a cluster handle.
type ConnParams struct {
	ClientName     string `json:"client_name" validate:"required"`
	Cluster        string `json:"cluster" validate:"required"`
	Conf           string `json:"conf"`
	ConnectTimeout int    `json:"connect_timeout" validate:"gte=0"`
}

// DefaultConnParams returns the connection settings used when the caller does not supply any.
func DefaultConnParams() ConnParams {
	return ConnParams{
		ClientName:     "client.admin",
		Cluster:        "ceph",
		ConnectTimeout: 5,
	}
}

// StatusParams are the parameters of the status module.
type StatusParams struct {
	Cmd string `json:"cmd" validate:"required,oneof=status quorum_status"`

	ConnParams
}

// PoolParams are the parameters of the pool module.
type PoolParams struct {
	Name               string `json:"name" validate:"required"`
	State              string `json:"state" validate:"oneof=present absent"`
	PgNum              *int   `json:"pgnum" validate:"omitempty,gt=0"`
	PgpNum             *int   `json:"pgpnum" validate:"omitempty,gt=0"`
	Type               string `json:"type" validate:"oneof=replicated erasure"`
	ErasureCodeProfile string `json:"erasure_code_profile"`
	Ruleset            string `json:"ruleset"`

	ConnParams
}

// TierParams are the parameters of the tier module.
type TierParams struct {
	StoragePool   string `json:"storage_pool" validate:"required"`
	CachePool     string `json:"cache_pool" validate:"required"`
	State         string `json:"state" validate:"oneof=present absent"`
	CacheMode     string `json:"cache_mode" validate:"oneof=none writeback forward readonly"`
	SetOverlay    bool   `json:"set_overlay"`
	ForceNonempty bool   `json:"force_nonempty"`

	ConnParams
}

// ImageParams are the parameters of the image module. Size is in megabytes.
type ImageParams struct {
	Name        string `json:"name" validate:"required"`
	State       string `json:"state" validate:"oneof=present absent"`
	Pool        string `json:"pool"`
	Size        *int   `json:"size" validate:"omitempty,gt=0"`
	AllowShrink bool   `json:"allow_shrink"`
	ImageFormat *int   `json:"image_format" validate:"omitempty,oneof=1 2"`
	ImageShared bool   `json:"image_shared"`

	ConnParams
}

// MapParams are the parameters of the map module.
type MapParams struct {
	Name     string `json:"name" validate:"required"`
	State    string `json:"state" validate:"oneof=present absent"`
	Pool     string `json:"pool"`
	ID       string `json:"id"`
	Options  string `json:"options"`
	ReadOnly bool   `json:"read_only"`
}
