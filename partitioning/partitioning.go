// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

// Package partitioning implements common partitioning functions.
package partitioning

import "strconv"

// DevName returns the Linux device name for the 1-based partition index on a disk.
//
// Disks with names ending in a digit (nvme0n1, loop0, mmcblk0) get a "p" separator.
func DevName(device string, index int) string {
	result := device

	if len(result) > 0 && result[len(result)-1] >= '0' && result[len(result)-1] <= '9' {
		result += "p"
	}

	return result + strconv.Itoa(index)
}
