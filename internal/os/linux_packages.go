// Package os provides host access for hostfetch probes
//
//nolint:revive // Package name 'os' is intentional, in separate namespace 'internal/os'
package os

import (
	"bufio"
	"bytes"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"
)

const (
	pacmanLocalDir = "/var/lib/pacman/local"
	rpmSQLitePath  = "/var/lib/rpm/rpmdb.sqlite"
	dpkgStatusPath = "/var/lib/dpkg/status"
)

// CountPacmanPackages counts installed pacman packages from the local database directory
func CountPacmanPackages(collector SystemPrimitives) (int, error) {
	entries, err := collector.OSReadDir(pacmanLocalDir)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if _, err := collector.OSStat(filepath.Join(pacmanLocalDir, entry.Name(), "desc")); err != nil {
			continue
		}
		count++
	}
	return count, nil
}

// CountRpmPackages counts rows of the Packages table in the rpm sqlite database
func CountRpmPackages(collector SystemPrimitives) (int, error) {
	data, err := collector.OSReadFile(rpmSQLitePath)
	if err != nil {
		return 0, err
	}

	tmpFile, err := os.CreateTemp("", "hostfetch_rpmdb_*.sqlite")
	if err != nil {
		return 0, err
	}
	defer func() { _ = os.Remove(tmpFile.Name()) }()

	if _, err := tmpFile.Write(data); err != nil {
		_ = tmpFile.Close()
		return 0, err
	}
	_ = tmpFile.Close()

	db, err := sql.Open("sqlite", tmpFile.Name())
	if err != nil {
		return 0, err
	}
	defer func() { _ = db.Close() }()

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM Packages").Scan(&count); err != nil {
		return 0, fmt.Errorf("query %s: %w", rpmSQLitePath, err)
	}
	return count, nil
}

// CountDpkgPackages counts installed entries in the dpkg status file
func CountDpkgPackages(collector SystemPrimitives) (int, error) {
	data, err := collector.OSReadFile(dpkgStatusPath)
	if err != nil {
		return 0, err
	}
	return countDpkgStatus(data), nil
}

func countDpkgStatus(data []byte) int {
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	count := 0
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "Status:") {
			continue
		}
		if strings.HasSuffix(strings.TrimSpace(line), " installed") {
			count++
		}
	}
	return count
}
