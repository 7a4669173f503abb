// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package gpt

import "github.com/google/uuid"

// Well-known partition types.
var (
	TypeEFISystem       = uuid.MustParse("C12A7328-F81F-11D2-BA4B-00A0C93EC93B")
	TypeBIOSBoot        = uuid.MustParse("21686148-6449-6E6F-744E-656564454649")
	TypeLinuxFilesystem = uuid.MustParse("0FC63DAF-8483-4772-8E79-3D69D8477DE4")
	TypeLinuxSwap       = uuid.MustParse("0657FD6D-A4AB-43C4-84E5-0933C84B4F4F")
	TypeLinuxLVM        = uuid.MustParse("E6D6D379-F507-44C2-A23C-238F2A3DF928")
	TypeLinuxRAID       = uuid.MustParse("A19D880F-05FC-4D3B-A006-743F0F84911E")
	TypeLinuxHome       = uuid.MustParse("933AC7E1-2EB4-4F13-B844-0E14E2AEF915")
	TypeLinuxRootX86_64 = uuid.MustParse("4F68BCE3-E8CD-4DB1-96E7-FBCAF984B709")
	TypeMicrosoftBasic  = uuid.MustParse("EBD0A0A2-B9E5-4433-87C0-68B6B72699C7")
	TypeMicrosoftReserv = uuid.MustParse("E3C9E316-0B5C-4DB8-817D-F92DF00215AE")
	TypeWindowsRecovery = uuid.MustParse("DE94BBA4-06D1-4D40-A16A-BFD50179D6AC")
	TypeAppleHFSPlus    = uuid.MustParse("48465300-0000-11AA-AA11-00306543ECAC")
	TypeAppleAPFS       = uuid.MustParse("7C3457EF-0000-11AA-AA11-00306543ECAC")
	TypeMBRScheme       = uuid.MustParse("024DEE41-33E7-11D3-9D69-0008C781F39F")
)

var typeNames = map[uuid.UUID]string{
	TypeEFISystem:       "EFI System",
	TypeBIOSBoot:        "BIOS boot",
	TypeLinuxFilesystem: "Linux filesystem",
	TypeLinuxSwap:       "Linux swap",
	TypeLinuxLVM:        "Linux LVM",
	TypeLinuxRAID:       "Linux RAID",
	TypeLinuxHome:       "Linux home",
	TypeLinuxRootX86_64: "Linux root (x86-64)",
	TypeMicrosoftBasic:  "Microsoft basic data",
	TypeMicrosoftReserv: "Microsoft reserved",
	TypeWindowsRecovery: "Windows recovery environment",
	TypeAppleHFSPlus:    "Apple HFS/HFS+",
	TypeAppleAPFS:       "Apple APFS",
	TypeMBRScheme:       "MBR partition scheme",
}

// TypeName returns the name of a well-known partition type, or an empty string.
func TypeName(t uuid.UUID) string {
	return typeNames[t]
}
