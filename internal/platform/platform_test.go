package platform

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		sysname string
		want    Family
	}{
		{"Linux", Linux},
		{"GNU", Linux},
		{"GNU/kFreeBSD", Linux},
		{"Darwin", Darwin},
		{"SunOS", Solaris},
		{"Haiku", Haiku},
		{"MINIX", MINIX},
		{"AIX", AIX},
		{"FreeMiNT", FreeMiNT},
		{"FreeBSD", BSD},
		{"OpenBSD", BSD},
		{"NetBSD", BSD},
		{"DragonFly", BSD},
		{"Bitrig", BSD},
		{"CYGWIN_NT-10.0", Windows},
		{"MSYS_NT-10.0-19045", Windows},
		{"MINGW64_NT-10.0", Windows},
		{"Windows_NT", Windows},
	}

	for _, tt := range tests {
		t.Run(tt.sysname, func(t *testing.T) {
			got, err := Classify(tt.sysname)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClassifyAnyBSDSuffix(t *testing.T) {
	for _, name := range []string{"BSD", "MidnightBSD", "GhostBSD", "xBSD"} {
		got, err := Classify(name)
		require.NoError(t, err, name)
		assert.Equal(t, BSD, got, name)
	}
}

func TestClassifyUnsupported(t *testing.T) {
	_, err := Classify("PlayStation5")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnsupported))

	var unsupported *UnsupportedError
	require.True(t, errors.As(err, &unsupported))
	assert.Equal(t, "PlayStation5", unsupported.Name)
	assert.Contains(t, err.Error(), "PlayStation5")
}

func TestFromUname(t *testing.T) {
	id, err := FromUname("FreeBSD", "14.0-RELEASE", "amd64")
	require.NoError(t, err)
	assert.Equal(t, Identity{Family: BSD, Sysname: "FreeBSD", Release: "14.0-RELEASE", Machine: "amd64"}, id)

	_, err = FromUname("PlayStation5", "1.0", "x86_64")
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestResolveHost(t *testing.T) {
	id, err := Resolve()
	if errors.Is(err, ErrUnsupported) {
		t.Skipf("host platform not supported: %v", err)
	}
	require.NoError(t, err)
	assert.NotEmpty(t, id.Family)
	assert.NotEmpty(t, id.Sysname)
}
