package probe

import (
	"context"
	"errors"
	"io/fs"
	"strings"

	hostos "github.com/ilexum-group/hostfetch/internal/os"
)

func exists(sys hostos.SystemPrimitives, path string) bool {
	_, err := sys.OSStat(path)
	return err == nil
}

func isDir(sys hostos.SystemPrimitives, path string) bool {
	info, err := sys.OSStat(path)
	return err == nil && info.IsDir()
}

func isFile(sys hostos.SystemPrimitives, path string) bool {
	info, err := sys.OSStat(path)
	return err == nil && info.Mode().IsRegular()
}

// readTrimmed returns the file content with surrounding whitespace removed
func readTrimmed(sys hostos.SystemPrimitives, path string) (string, error) {
	data, err := sys.OSReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// readOptional is readTrimmed that treats any error as an empty value
func readOptional(sys hostos.SystemPrimitives, path string) string {
	v, _ := readTrimmed(sys, path)
	return v
}

func isNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}

func hasCommand(sys hostos.SystemPrimitives, name string) bool {
	_, err := sys.ExecLookPath(name)
	return err == nil
}

func run(ctx context.Context, sys hostos.SystemPrimitives, name string, args ...string) (string, error) {
	out, err := sys.ExecOutput(ctx, name, args...)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func envSet(sys hostos.SystemPrimitives, key string) bool {
	v, ok := sys.OSLookupEnv(key)
	return ok && v != ""
}

func ptr[T any](v T) *T {
	return &v
}
