//go:build unix

package source

import (
	"fmt"

	"golang.org/x/sys/unix"
)

func mapFile(path string) ([]byte, func() error, error) {
	fd, err := unix.Open(path, unix.O_RDONLY|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", path, err)
	}
	// The mapping stays valid after the descriptor is closed.
	defer unix.Close(fd)

	var st unix.Stat_t
	if err := unix.Fstat(fd, &st); err != nil {
		return nil, nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if st.Mode&unix.S_IFMT != unix.S_IFREG {
		return nil, nil, fmt.Errorf("%s: %w", path, ErrNotRegular)
	}

	size := int(st.Size)
	if size == 0 {
		// mmap rejects zero-length mappings.
		return []byte{}, func() error { return nil }, nil
	}

	data, err := unix.Mmap(fd, 0, size, unix.PROT_READ, unix.MAP_PRIVATE)
	if err != nil {
		return nil, nil, fmt.Errorf("mmap %s: %w", path, err)
	}

	return data, func() error { return unix.Munmap(data) }, nil
}
