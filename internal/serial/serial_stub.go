//go:build !linux

package serial

import "fmt"

func Open(opts Options) (Port, error) {
	return nil, fmt.Errorf("serial not supported on this platform")
}
