//go:build linux

package xserial

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

const openFlags = os.O_WRONLY | unix.O_NOCTTY

var baudRates = map[int]uint32{
	9600:   unix.B9600,
	19200:  unix.B19200,
	38400:  unix.B38400,
	57600:  unix.B57600,
	115200: unix.B115200,
	230400: unix.B230400,
	460800: unix.B460800,
	921600: unix.B921600,
}

// configure 把终端设置为 8N1 raw 模式并设置波特率
//
// 返回值报告 f 是否为终端；不是终端时不做任何设置。
func configure(f *os.File, baud int) (bool, error) {
	speed, ok := baudRates[baud]
	if !ok {
		return false, fmt.Errorf("%w: %d", ErrUnsupportedBaud, baud)
	}

	fd := int(f.Fd())
	t, err := unix.IoctlGetTermios(fd, unix.TCGETS)
	if err != nil {
		if errors.Is(err, unix.ENOTTY) || errors.Is(err, unix.EINVAL) {
			return false, nil
		}
		return false, err
	}

	// 与 cfmakeraw 相同的标志位
	t.Iflag &^= unix.IGNBRK | unix.BRKINT | unix.PARMRK | unix.ISTRIP |
		unix.INLCR | unix.IGNCR | unix.ICRNL | unix.IXON
	t.Oflag &^= unix.OPOST
	t.Lflag &^= unix.ECHO | unix.ECHONL | unix.ICANON | unix.ISIG | unix.IEXTEN
	t.Cflag &^= unix.CSIZE | unix.PARENB | unix.CBAUD
	t.Cflag |= unix.CS8 | unix.CLOCAL | unix.CREAD | speed
	t.Ispeed = speed
	t.Ospeed = speed

	if err := unix.IoctlSetTermios(fd, unix.TCSETS, t); err != nil {
		return false, err
	}
	return true, nil
}
