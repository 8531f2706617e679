// Package dlpc900 provides a Go library for controlling DLPC900-family
// digital micromirror device (DMD) controllers over their USB HID command
// interface.
//
// # Overview
//
// This library implements the DLPC900 USB command protocol in Go. It allows
// you to switch display modes, define and run pattern sequences, put the
// device into idle or standby, reset it, and query firmware version and
// hardware/main status: everything needed to drive a projector-class
// spatial light modulator from a host application.
//
// # Protocol Architecture
//
// The DLPC900 is reached over USB HID with 64-byte reports:
//
//   - Each command carries a flag byte (read/write + reply request), a
//     wrapping 1..255 sequence number, a little-endian length field, a
//     two-byte sub-address and an optional payload
//   - Commands longer than one report are fragmented into consecutive
//     64-byte writes
//   - Replies arrive as a single report: a 4-byte header followed by data
//
// # Quick Start
//
//	dev, err := dlpc900.Open(dlpc900.DefaultVendorID, dlpc900.DefaultProductID)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer dev.Close()
//
//	info, err := dev.GetFirmwareVersion()
//	seq := dlpc900.NewPatternSequence("test")
//	seq.AddPattern(1000000, 500000, 1)
//	err = dev.SendSequence(seq)
//
// # Supported Features
//
//   - Display mode selection (video, pre-stored pattern, video pattern,
//     pattern-on-the-fly) with automatic receiver routing for video modes
//   - Pattern LUT definition, pattern count/repeat configuration and
//     sequencer start/pause/stop
//   - Idle and standby power management with idempotent transitions
//   - Firmware version, hardware status and main status queries
//   - Pattern sequence builder and YAML sequence files
//   - Debug levels with raw packet hex dumps and a device-free dry-run mode
//
// # Thread Safety
//
// A Device represents a single logical session and is not safe for
// concurrent use; callers needing multiple goroutines must provide their
// own mutual exclusion or use one Device per goroutine.
package dlpc900
