// Package rados opens cluster handles through librados and librbd.
package rados

import (
	"context"
	"errors"
	"strconv"

	"github.com/canonical/lxd/shared/logger"
	"github.com/ceph/go-ceph/rados"
	"github.com/ceph/go-ceph/rbd"

	"github.com/cephmod/cephmod/api/types"
	"github.com/cephmod/cephmod/ceph"
)

// timeoutOptions bound how long connecting and each request may take.
var timeoutOptions = []string{"client_mount_timeout", "rados_mon_op_timeout", "rados_osd_op_timeout"}

// Conn is an open cluster handle.
type Conn struct {
	conn *rados.Conn
}

// Connect creates a handle for the given client and cluster and connects it.
func Connect(ctx context.Context, params types.ConnParams) (ceph.Cluster, error) {
	conn, err := rados.NewConnWithClusterAndUser(params.Cluster, params.ClientName)
	if err != nil {
		return nil, &ceph.ConnectionError{Stage: "initializing cluster client", Err: err}
	}

	if params.Conf != "" {
		err = conn.ReadConfigFile(params.Conf)
	} else {
		err = conn.ReadDefaultConfigFile()
	}
	if err != nil {
		conn.Shutdown()
		return nil, &ceph.ConnectionError{Stage: "initializing cluster client", Err: err}
	}

	if params.ConnectTimeout > 0 {
		timeout := strconv.Itoa(params.ConnectTimeout)
		for _, option := range timeoutOptions {
			err = conn.SetConfigOption(option, timeout)
			if err != nil {
				conn.Shutdown()
				return nil, &ceph.ConnectionError{Stage: "initializing cluster client", Err: err}
			}
		}
	}

	err = conn.Connect()
	if err != nil {
		conn.Shutdown()
		return nil, &ceph.ConnectionError{Stage: "connecting to cluster", Err: err}
	}

	logger.Debug("Connected to cluster", logger.Ctx{"cluster": params.Cluster, "client": params.ClientName})
	return &Conn{conn: conn}, nil
}

// MonCommand sends a command to the monitors. Errors reported by the cluster are returned as
// a negative RC rather than an error.
func (c *Conn) MonCommand(args []byte) (types.CommandOutput, error) {
	buf, info, err := c.conn.MonCommand(args)
	out := types.CommandOutput{Stdout: string(buf), Stderr: info}
	if err == nil {
		return out, nil
	}

	var coded interface{ ErrorCode() int }
	if errors.As(err, &coded) {
		out.RC = coded.ErrorCode()
		return out, nil
	}

	return out, err
}

// ListPools returns the names of all pools.
func (c *Conn) ListPools() ([]string, error) {
	return c.conn.ListPools()
}

// ListImages returns the names of the images in a pool.
func (c *Conn) ListImages(pool string) ([]string, error) {
	ioctx, err := c.conn.OpenIOContext(pool)
	if err != nil {
		return nil, err
	}
	defer ioctx.Destroy()

	return rbd.GetImageNames(ioctx)
}

// ImageSize returns the size of an image in bytes.
func (c *Conn) ImageSize(pool string, image string) (uint64, error) {
	ioctx, err := c.conn.OpenIOContext(pool)
	if err != nil {
		return 0, err
	}
	defer ioctx.Destroy()

	img, err := rbd.OpenImageReadOnly(ioctx, image, rbd.NoSnapshot)
	if err != nil {
		return 0, err
	}
	defer func() { _ = img.Close() }()

	return img.GetSize()
}

// Shutdown releases the handle.
func (c *Conn) Shutdown() {
	c.conn.Shutdown()
}
