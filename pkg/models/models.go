// Package models defines the records collected by hostfetch probes and the snapshot that
// aggregates them for one run.
package models

import "errors"

// ErrSlotFilled is returned when a snapshot slot is written twice during one run.
var ErrSlotFilled = errors.New("snapshot slot already populated")

// ErrSnapshotFrozen is returned when a frozen snapshot is written to.
var ErrSnapshotFrozen = errors.New("snapshot is frozen")

// Kernel holds the resolved platform identity as exposed to templates
type Kernel struct {
	Name         string `json:"name"`
	Sysname      string `json:"sysname"`
	Version      string `json:"version"`
	Architecture string `json:"architecture"`
}

// Context holds the current user and host name
type Context struct {
	User string `json:"user"`
	Host string `json:"host"`
}

// Distro holds the distribution identity
type Distro struct {
	LongName     string `json:"long_name"`
	ShortName    string `json:"short_name"`
	Architecture string `json:"architecture"`
}

// Uptime holds the system uptime
type Uptime struct {
	Seconds int64 `json:"seconds"`
}

// PackageManager holds the installed package count of one package manager
type PackageManager struct {
	Name     string `json:"name"`
	Packages int    `json:"packages"`
}

// PackageManagers holds every package manager found on the host
type PackageManagers struct {
	Managers []PackageManager `json:"managers"`
}

// Shell holds the login shell and its version
type Shell struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// Resolution holds the current display mode
type Resolution struct {
	Width   int      `json:"width"`
	Height  int      `json:"height"`
	Refresh *float64 `json:"refresh,omitempty"`
}

// DesktopEnvironment holds the running desktop environment
type DesktopEnvironment struct {
	Name    string `json:"name"`
	Version string `json:"version,omitempty"`
}

// WindowManager holds the running window manager or compositor
type WindowManager struct {
	Name string `json:"name"`
}

// CPU holds processor information
type CPU struct {
	// Name is the marketing name with vendor noise removed.
	Name string `json:"name"`
	// FullName is the name exactly as reported by the system.
	FullName string `json:"full_name"`
	// Freq is the maximum frequency in GHz.
	Freq  float64 `json:"freq"`
	Cores int     `json:"cores"`
}

// GPU holds one graphics adapter
type GPU struct {
	Name   string `json:"name"`
	Vendor string `json:"vendor"`
}

// GPUs holds every graphics adapter found on the host
type GPUs struct {
	Devices []GPU `json:"devices"`
}

// Memory holds physical memory usage in bytes
type Memory struct {
	Max  uint64 `json:"max"`
	Used uint64 `json:"used"`
}

// Motherboard holds baseboard information
type Motherboard struct {
	Name     string `json:"name"`
	Vendor   string `json:"vendor"`
	Revision string `json:"revision"`
}

// Host holds the machine model
type Host struct {
	Model   string `json:"model"`
	Version string `json:"version,omitempty"`
}

// Battery holds the state of the first battery
type Battery struct {
	Capacity   int    `json:"capacity"`
	Status     string `json:"status"`
	CycleCount *int   `json:"cycle_count,omitempty"`
	// Health is the percentage of design capacity still available.
	Health *int `json:"health,omitempty"`
	// PowerDraw is the current draw in watts.
	PowerDraw *float64 `json:"power_draw,omitempty"`
}

// Disk holds usage of the root filesystem
type Disk struct {
	Name       string `json:"name"`
	MountPoint string `json:"mount_point"`
	FSType     string `json:"fs_type"`
	Total      uint64 `json:"total"`
	Used       uint64 `json:"used"`
}

// Network holds the primary network interface
type Network struct {
	Interface string `json:"interface"`
	IP        string `json:"ip"`
}

// TempSensor holds one temperature reading in degrees Celsius
type TempSensor struct {
	Label    string   `json:"label"`
	Temp     float64  `json:"temp"`
	Max      *float64 `json:"max,omitempty"`
	Critical *float64 `json:"critical,omitempty"`
}

// Temperature holds every temperature sensor found on the host
type Temperature struct {
	Sensors []TempSensor `json:"sensors"`
}

// BluetoothDevice holds one paired bluetooth device
type BluetoothDevice struct {
	Name      string `json:"name"`
	MAC       string `json:"mac"`
	Connected bool   `json:"connected"`
}

// Bluetooth holds the bluetooth adapter and its paired devices
type Bluetooth struct {
	Adapter *string           `json:"adapter,omitempty"`
	Devices []BluetoothDevice `json:"devices"`
}

// Monitor holds one connected display parsed from EDID
type Monitor struct {
	Name     string `json:"name"`
	WidthMM  *int   `json:"width_mm,omitempty"`
	HeightMM *int   `json:"height_mm,omitempty"`
}

// Monitors holds every connected display
type Monitors struct {
	Monitors []Monitor `json:"monitors"`
}

// RenderedBlock is template output together with its visual dimensions
type RenderedBlock struct {
	Text   string `json:"text"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}
