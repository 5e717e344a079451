package ceph

import "github.com/cephmod/cephmod/api/types"

var stateParam = types.ParamInfo{
	Name:    "state",
	Default: types.StatePresent,
	Choices: []string{types.StatePresent, types.StateAbsent},
	Help:    "Whether the resource should exist.",
}

var connParams = []types.ParamInfo{
	{Name: "client_name", Default: "client.admin", Help: "Client name used to authenticate."},
	{Name: "cluster", Default: "ceph", Help: "Cluster name."},
	{Name: "conf", Help: "Ceph configuration file; the client library default search is used when empty."},
	{Name: "connect_timeout", Default: "5", Help: "Seconds to wait when connecting to the cluster."},
}

// ListModules describes every module and its parameters.
func ListModules() types.Modules {
	return types.Modules{
		{
			Name:        types.ModuleStatus,
			Description: "Query the cluster status or the monitor quorum.",
			Params: append([]types.ParamInfo{
				{Name: "cmd", Required: true, Choices: []string{"status", "quorum_status"}, Help: "Query to run."},
			}, connParams...),
		},
		{
			Name:        types.ModulePool,
			Description: "Create, grow or delete a storage pool.",
			Params: append([]types.ParamInfo{
				{Name: "name", Required: true, Help: "Pool name."},
				stateParam,
				{Name: "pgnum", Help: "Placement group count. Required to create a pool; can only grow."},
				{Name: "pgpnum", Help: "Placement group count for placement. Required with ruleset or type=erasure; can only grow."},
				{Name: "type", Default: "replicated", Choices: []string{"replicated", "erasure"}, Help: "Pool type."},
				{Name: "erasure_code_profile", Help: "Erasure code profile of an erasure pool."},
				{Name: "ruleset", Help: "Crush rule of the pool."},
			}, connParams...),
		},
		{
			Name:        types.ModuleTier,
			Description: "Put a cache pool in front of a storage pool, or remove it.",
			Params: append([]types.ParamInfo{
				{Name: "storage_pool", Required: true, Help: "Existing pool that stores the data."},
				{Name: "cache_pool", Required: true, Help: "Existing pool used as cache."},
				stateParam,
				{Name: "cache_mode", Default: "writeback", Choices: []string{"none", "writeback", "forward", "readonly"}, Help: "Cache mode of the tier."},
				{Name: "set_overlay", Default: "no", Choices: []string{"yes", "no"}, Help: "Route client traffic through the cache pool."},
				{Name: "force_nonempty", Default: "no", Choices: []string{"yes", "no"}, Help: "Attach the cache pool even if it holds data."},
			}, connParams...),
		},
		{
			Name:        types.ModuleImage,
			Description: "Create, resize or remove a block device image.",
			Params: append([]types.ParamInfo{
				{Name: "name", Required: true, Help: "Image name."},
				stateParam,
				{Name: "pool", Default: defaultImagePool, Help: "Pool holding the image."},
				{Name: "size", Help: "Size in megabytes. Required to create an image."},
				{Name: "allow_shrink", Default: "no", Choices: []string{"yes", "no"}, Help: "Allow resizing to a smaller size."},
				{Name: "image_format", Choices: []string{"1", "2"}, Help: "Object layout of a new image."},
				{Name: "image_shared", Choices: []string{"yes", "no"}, Help: "Disable features that need exclusive ownership."},
			}, connParams...),
		},
		{
			Name:        types.ModuleMap,
			Description: "Map or unmap an image on this host.",
			Params: []types.ParamInfo{
				{Name: "name", Required: true, Help: "Image name."},
				stateParam,
				{Name: "pool", Help: "Pool holding the image."},
				{Name: "id", Help: "User name, without the client. prefix, used to map."},
				{Name: "options", Help: "Comma separated map options."},
				{Name: "read_only", Choices: []string{"yes", "no"}, Help: "Map the image read-only."},
			},
		},
	}
}
