// Package ads1115 implements a driver for the ADS1115 16-bit I2C analog to
// digital converter, in single-shot mode.
//
// Datasheet: https://www.ti.com/lit/ds/symlink/ads1115.pdf
package ads1115

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tinygo.org/x/drivers"

	"github.com/sweeney/rgbcal/internal/clock"
)

// DefaultAddress is the address with ADDR tied to GND.
const DefaultAddress = 0x48

// Registers.
const (
	regConversion = 0x00
	regConfig     = 0x01
)

// Config register fields.
const (
	cfgStart      = 1 << 15 // OS: write 1 to start, reads 1 when idle
	cfgSingleShot = 1 << 8
	cfgNoCompare  = 0b11
)

// Mux selects the input. Single-ended inputs are measured against GND.
type Mux uint16

const (
	MuxAIN0 Mux = 0b100
	MuxAIN1 Mux = 0b101
	MuxAIN2 Mux = 0b110
	MuxAIN3 Mux = 0b111
)

// Gain selects the full-scale range of the programmable amplifier.
type Gain uint16

const (
	Gain6V144 Gain = 0b000
	Gain4V096 Gain = 0b001
	Gain2V048 Gain = 0b010
)

// DataRate selects samples per second.
type DataRate uint16

const (
	Rate8   DataRate = 0b000
	Rate128 DataRate = 0b100
	Rate860 DataRate = 0b111
)

// ErrTimeout is returned when a conversion does not finish in time.
var ErrTimeout = errors.New("ads1115: conversion timeout")

// Config is the converter setup. Zero fields take defaults.
type Config struct {
	Mux  Mux
	Gain Gain
	Rate DataRate
	// Poll is how long to wait between conversion-ready checks.
	Poll time.Duration
	// Timeout bounds one conversion.
	Timeout time.Duration
}

// Device wraps an I2C connection to an ADS1115.
type Device struct {
	bus     drivers.I2C
	Address uint16
	sleeper clock.Sleeper

	config uint16
	poll   time.Duration
	limit  time.Duration
	buf    [3]byte
}

// New returns a new ADS1115 driver. Pass in a fully configured I2C bus.
func New(bus drivers.I2C, sleeper clock.Sleeper) *Device {
	return &Device{
		bus:     bus,
		Address: DefaultAddress,
		sleeper: sleeper,
	}
}

// Configure sets up the device. Defaults: AIN0, ±6.144 V, 128 SPS,
// 1 ms poll, 100 ms timeout.
func (d *Device) Configure(cfg Config) {
	if cfg.Mux == 0 {
		cfg.Mux = MuxAIN0
	}
	if cfg.Rate == 0 {
		cfg.Rate = Rate128
	}
	if cfg.Poll <= 0 {
		cfg.Poll = time.Millisecond
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 100 * time.Millisecond
	}
	d.config = uint16(cfg.Mux)<<12 | uint16(cfg.Gain)<<9 | cfgSingleShot | uint16(cfg.Rate)<<5 | cfgNoCompare
	d.poll = cfg.Poll
	d.limit = cfg.Timeout
}

// Calibrate applies the configuration and runs one conversion, discarding
// the result. The ADS1115 needs no offset calibration; this proves the
// device answers and lets the input settle.
func (d *Device) Calibrate(ctx context.Context) error {
	if d.config == 0 {
		d.Configure(Config{})
	}
	if _, err := d.Sample(ctx); err != nil {
		return fmt.Errorf("ads1115: first conversion: %w", err)
	}
	return nil
}

// Sample starts a single-shot conversion and waits for its result.
func (d *Device) Sample(ctx context.Context) (int16, error) {
	if d.config == 0 {
		d.Configure(Config{})
	}
	if err := d.writeReg(regConfig, d.config|cfgStart); err != nil {
		return 0, err
	}

	for waited := time.Duration(0); ; waited += d.poll {
		cfg, err := d.readReg(regConfig)
		if err != nil {
			return 0, err
		}
		if cfg&cfgStart != 0 {
			break
		}
		if waited >= d.limit {
			return 0, ErrTimeout
		}
		if err := d.sleeper.Sleep(ctx, d.poll); err != nil {
			return 0, err
		}
	}

	v, err := d.readReg(regConversion)
	if err != nil {
		return 0, err
	}
	return int16(v), nil
}

func (d *Device) writeReg(reg uint8, v uint16) error {
	d.buf[0] = reg
	d.buf[1] = byte(v >> 8)
	d.buf[2] = byte(v)
	if err := d.bus.Tx(d.Address, d.buf[:3], nil); err != nil {
		return fmt.Errorf("ads1115: write reg %d: %w", reg, err)
	}
	return nil
}

func (d *Device) readReg(reg uint8) (uint16, error) {
	d.buf[0] = reg
	if err := d.bus.Tx(d.Address, d.buf[:1], d.buf[1:3]); err != nil {
		return 0, fmt.Errorf("ads1115: read reg %d: %w", reg, err)
	}
	return uint16(d.buf[1])<<8 | uint16(d.buf[2]), nil
}
