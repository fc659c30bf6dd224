//go:build !linux

package xserial

import "os"

const openFlags = os.O_WRONLY

// configure 非 Linux 平台不做终端配置
func configure(*os.File, int) (bool, error) {
	return false, nil
}
