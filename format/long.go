//go:build !windows

package format

import "strconv"

// C long is as wide as a pointer on LP64 and ILP32 hosts.
const sizeLong = strconv.IntSize / 8
