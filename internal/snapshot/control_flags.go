package snapshot

// ControlFlag is one bit of a security descriptor's 16-bit control word.
// https://learn.microsoft.com/en-us/openspecs/windows_protocols/ms-dtyp/7d4dac05-9cef-4563-a058-f108abecce1d
type ControlFlag uint16

const (
	ControlOD ControlFlag = 0x0001 // Owner Defaulted
	ControlGD ControlFlag = 0x0002 // Group Defaulted
	ControlDP ControlFlag = 0x0004 // DACL Present
	ControlDD ControlFlag = 0x0008 // DACL Defaulted
	ControlSP ControlFlag = 0x0010 // SACL Present
	ControlSD ControlFlag = 0x0020 // SACL Defaulted
	ControlDT ControlFlag = 0x0040 // DACL Trusted
	ControlSS ControlFlag = 0x0080 // Server Security
	ControlDC ControlFlag = 0x0100 // DACL Computed Inheritance Required
	ControlSC ControlFlag = 0x0200 // SACL Computed Inheritance Required
	ControlDI ControlFlag = 0x0400 // DACL Auto-Inherited
	ControlSI ControlFlag = 0x0800 // SACL Auto-Inherited
	ControlPD ControlFlag = 0x1000 // DACL Protected
	ControlPS ControlFlag = 0x2000 // SACL Protected
	ControlRM ControlFlag = 0x4000 // RM Control Valid
	ControlSR ControlFlag = 0x8000 // Self Relative
)

// ControlFlags is the 16-bit control word of a self-relative security
// descriptor.
type ControlFlags uint16

// IsSet reports whether flag is present in the control word.
func (f ControlFlags) IsSet(flag ControlFlag) bool {
	return uint16(f)&uint16(flag) != 0
}
