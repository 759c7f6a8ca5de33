// Package platform resolves the operating-system family hostfetch is running on.
package platform

import (
	"errors"
	"fmt"
	"strings"
)

// Family is the operating-system family every probe branches on
type Family string

// Known families
const (
	Linux    Family = "Linux"
	BSD      Family = "BSD"
	Darwin   Family = "Darwin"
	Windows  Family = "Windows"
	Solaris  Family = "Solaris"
	Haiku    Family = "Haiku"
	AIX      Family = "AIX"
	MINIX    Family = "MINIX"
	FreeMiNT Family = "FreeMiNT"
)

// ErrUnsupported is matched by every UnsupportedError
var ErrUnsupported = errors.New("unsupported platform")

// UnsupportedError reports a system name no classification rule matched
type UnsupportedError struct {
	Name string
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("unexpected OS %q, support needed", e.Name)
}

// Is makes errors.Is(err, ErrUnsupported) hold for every UnsupportedError
func (e *UnsupportedError) Is(target error) bool {
	return target == ErrUnsupported
}

// Identity is the resolved platform of the running host. It is created once per run.
type Identity struct {
	Family Family
	// Sysname is the raw system name reported by uname.
	Sysname string
	// Release is the kernel release.
	Release string
	// Machine is the hardware architecture.
	Machine string
}

var exactNames = map[string]Family{
	"Darwin":    Darwin,
	"SunOS":     Solaris,
	"Haiku":     Haiku,
	"MINIX":     MINIX,
	"AIX":       AIX,
	"FreeMiNT":  FreeMiNT,
	"Linux":     Linux,
	"DragonFly": BSD,
	"Bitrig":    BSD,
}

// Classify maps a raw system name to its family.
func Classify(sysname string) (Family, error) {
	if family, ok := exactNames[sysname]; ok {
		return family, nil
	}

	switch {
	case strings.HasPrefix(sysname, "GNU"):
		return Linux, nil
	case strings.HasSuffix(sysname, "BSD"):
		return BSD, nil
	case strings.HasPrefix(sysname, "CYGWIN"),
		strings.HasPrefix(sysname, "MSYS"),
		strings.HasPrefix(sysname, "MINGW"),
		strings.HasPrefix(sysname, "Windows"):
		return Windows, nil
	}

	return "", &UnsupportedError{Name: sysname}
}

// Resolve reads the system identity from uname and classifies it.
func Resolve() (Identity, error) {
	sysname, release, machine, err := uname()
	if err != nil {
		return Identity{}, fmt.Errorf("failed to run uname: %w", err)
	}
	return FromUname(sysname, release, machine)
}

// FromUname builds an Identity from already-read uname fields.
func FromUname(sysname, release, machine string) (Identity, error) {
	family, err := Classify(sysname)
	if err != nil {
		return Identity{}, err
	}
	return Identity{
		Family:  family,
		Sysname: sysname,
		Release: release,
		Machine: machine,
	}, nil
}
