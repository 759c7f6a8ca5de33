//go:build !unix

package platform

import "runtime"

// Native Windows has no uname; report the name its own tooling uses.
func uname() (sysname, release, machine string, err error) {
	if runtime.GOOS == "windows" {
		return "Windows_NT", "", runtime.GOARCH, nil
	}
	return runtime.GOOS, "", runtime.GOARCH, nil
}
