//go:build !linux

package player

func RawMode(int) (func() error, error) {
	return nil, ErrNoRawMode
}
