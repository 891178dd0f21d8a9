package common

import "github.com/howeyc/crc16"

// SettingCRCTable is the CRC-16/ANSI (IBM) table used by *SETTING.DAT
// trailers: polynomial 0xA001 reversed, initial value 0 (spec §6.1).
var SettingCRCTable = crc16.IBMTable

// ChecksumIBM computes the CRC-16/ANSI checksum of data the same way the
// device firmware does, over whatever byte range the caller has already
// sliced out (spec §3.1: from the length field through the last payload
// byte).
func ChecksumIBM(data []byte) uint16 {
	return crc16.Checksum(data, SettingCRCTable)
}
