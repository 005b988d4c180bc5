//go:build !unix

package procfs

func isExited(error) bool { return false }
