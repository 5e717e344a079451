package ceph

import (
	"context"
	"fmt"
	"strings"
	"syscall"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
	"golang.org/x/sys/unix"

	"github.com/cephmod/cephmod/api/types"
)

// Cluster is an open client handle to a ceph cluster.
type Cluster interface {
	// MonCommand sends a JSON command to the monitors. RC holds the (negative) errno returned
	// by the cluster, Stdout the output buffer and Stderr the status string.
	MonCommand(args []byte) (types.CommandOutput, error)

	// ListPools returns the names of all pools.
	ListPools() ([]string, error)

	// ListImages returns the names of the images in a pool.
	ListImages(pool string) ([]string, error)

	// ImageSize returns the size of an image in bytes.
	ImageSize(pool string, image string) (uint64, error)

	// Shutdown releases the handle.
	Shutdown()
}

// Connector opens a cluster handle.
type Connector func(ctx context.Context, params types.ConnParams) (Cluster, error)

// monCommand builds the argument document of a mon command. Values are set in the given order
// so the rendered command is stable.
func monCommand(prefix string, kv ...any) ([]byte, error) {
	if len(kv)%2 != 0 {
		return nil, fmt.Errorf("odd number of arguments for mon command %q", prefix)
	}

	doc, err := sjson.SetBytes([]byte("{}"), "prefix", prefix)
	if err != nil {
		return nil, err
	}

	for i := 0; i < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			return nil, fmt.Errorf("mon command %q: argument name %v is not a string", prefix, kv[i])
		}

		doc, err = sjson.SetBytes(doc, key, kv[i+1])
		if err != nil {
			return nil, fmt.Errorf("mon command %q: failed setting %q: %w", prefix, key, err)
		}
	}

	return doc, nil
}

// describeMonCommand renders a mon command document the way the ceph CLI would be invoked.
func describeMonCommand(args []byte) string {
	parts := []string{"ceph", gjson.GetBytes(args, "prefix").String()}
	gjson.ParseBytes(args).ForEach(func(key, value gjson.Result) bool {
		if key.String() != "prefix" {
			parts = append(parts, fmt.Sprintf("%s=%s", key.String(), value.String()))
		}
		return true
	})
	return strings.Join(parts, " ")
}

// errnoName returns the symbolic name of a (possibly negative) errno, e.g. ENOENT.
func errnoName(rc int) string {
	if rc < 0 {
		rc = -rc
	}
	name := unix.ErrnoName(syscall.Errno(rc))
	if name == "" {
		return fmt.Sprintf("errno %d", rc)
	}
	return name
}
