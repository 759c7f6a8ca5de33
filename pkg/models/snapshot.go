package models

// Snapshot aggregates every record collected during one run. Slots are filled at most once
// and the snapshot is read-only after Freeze.
type Snapshot struct {
	Kernel Kernel `json:"kernel"`

	Context         *Context            `json:"context,omitempty"`
	Distro          *Distro             `json:"distro,omitempty"`
	Uptime          *Uptime             `json:"uptime,omitempty"`
	PackageManagers *PackageManagers    `json:"package_managers,omitempty"`
	Shell           *Shell              `json:"shell,omitempty"`
	Memory          *Memory             `json:"memory,omitempty"`
	Monitors        *Monitors           `json:"monitors,omitempty"`
	Resolution      *Resolution         `json:"resolution,omitempty"`
	DE              *DesktopEnvironment `json:"de,omitempty"`
	WM              *WindowManager      `json:"wm,omitempty"`
	CPU             *CPU                `json:"cpu,omitempty"`
	GPUs            *GPUs               `json:"gpus,omitempty"`
	Motherboard     *Motherboard        `json:"motherboard,omitempty"`
	Host            *Host               `json:"host,omitempty"`
	Battery         *Battery            `json:"battery,omitempty"`
	Disk            *Disk               `json:"disk,omitempty"`
	Network         *Network            `json:"network,omitempty"`
	Temperature     *Temperature        `json:"temperature,omitempty"`
	Bluetooth       *Bluetooth          `json:"bluetooth,omitempty"`

	frozen bool
}

// NewSnapshot creates an empty snapshot for the given kernel identity
func NewSnapshot(kernel Kernel) *Snapshot {
	return &Snapshot{Kernel: kernel}
}

// Freeze marks the snapshot read-only
func (s *Snapshot) Freeze() {
	s.frozen = true
}

// Frozen reports whether Freeze has been called
func (s *Snapshot) Frozen() bool {
	return s.frozen
}

// Fill stores rec in the slot selected by field. It fails if the snapshot is frozen or the
// slot already holds a record.
func Fill[R any](s *Snapshot, field func(*Snapshot) **R, rec *R) error {
	if s.frozen {
		return ErrSnapshotFrozen
	}
	slot := field(s)
	if *slot != nil {
		return ErrSlotFilled
	}
	*slot = rec
	return nil
}
