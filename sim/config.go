// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package sim implements the core simulation loop (§4.7) and the driver
// contract of §6: Config, the Sim aggregate, SetupSolve and
// UpdateAtEndOfTimeStep.
package sim

import (
	"github.com/martinjrobins/ImmersedBoundary/simerrors"
)

// Config holds every enumerated configuration scalar of §6 "Configuration
// (enumerated)". It is loaded (by the caller) with encoding/json, mirroring
// inp.Data's json-tagged struct.
type Config struct {
	Nx     int     `json:"nx"` // doubly-periodic grid dimensions; positive even integers
	Ny     int     `json:"ny"`
	Dt     float64 `json:"dt"` // time step, positive real
	Re     float64 `json:"re"` // Reynolds number, positive real

	NodeNeighbourUpdateFrequency int `json:"node_neighbour_update_frequency"` // positive integer, default 1
	FftThreads                   int `json:"fft_threads"`                     // positive integer, default 2

	InteractionDistance     float64 `json:"interaction_distance"`      // population-level r_int
	IntrinsicSpacing        float64 `json:"intrinsic_spacing"`         // population-level s_0
	ElementDivisionSpacing  float64 `json:"element_division_spacing"`  // required positive before any division

	MembraneSpringConstant float64 `json:"membrane_spring_constant"`
	MembraneRestLength     float64 `json:"membrane_rest_length"`

	CellCellSpringConstant float64 `json:"cellcell_spring_constant"`
	CellCellUseMorse       bool    `json:"cellcell_use_morse"` // false => linear spring, true => Morse potential
}

// SetDefault applies §6's stated defaults to any zero-valued field that has
// one (Re, node_neighbour_update_frequency, fft_threads); it does not touch
// fields the caller must set explicitly (Nx, Ny, Dt, ...).
func (c *Config) SetDefault() {
	if c.Re == 0 {
		c.Re = 1e-4
	}
	if c.NodeNeighbourUpdateFrequency == 0 {
		c.NodeNeighbourUpdateFrequency = 1
	}
	if c.FftThreads == 0 {
		c.FftThreads = 2
	}
}

// Validate checks every enumerated configuration scalar of §6, returning a
// ConfigError naming the first violation found
func (c *Config) Validate() error {
	if c.Nx <= 0 || c.Ny <= 0 || c.Nx%2 != 0 || c.Ny%2 != 0 {
		return simerrors.New(simerrors.ConfigError, "Nx and Ny must be positive even integers, got %d, %d", c.Nx, c.Ny)
	}
	if c.Dt <= 0 {
		return simerrors.New(simerrors.ConfigError, "dt must be positive, got %v", c.Dt)
	}
	if c.Re <= 0 {
		return simerrors.New(simerrors.ConfigError, "Re must be positive, got %v", c.Re)
	}
	if c.NodeNeighbourUpdateFrequency <= 0 {
		return simerrors.New(simerrors.ConfigError, "node_neighbour_update_frequency must be positive, got %d", c.NodeNeighbourUpdateFrequency)
	}
	if c.FftThreads <= 0 {
		return simerrors.New(simerrors.ConfigError, "fft_threads must be positive, got %d", c.FftThreads)
	}
	if c.InteractionDistance <= 0 {
		return simerrors.New(simerrors.ConfigError, "interaction_distance must be positive, got %v", c.InteractionDistance)
	}
	if c.IntrinsicSpacing <= 0 {
		return simerrors.New(simerrors.ConfigError, "intrinsic_spacing must be positive, got %v", c.IntrinsicSpacing)
	}
	if c.ElementDivisionSpacing <= 0 {
		return simerrors.New(simerrors.ConfigError, "element_division_spacing must be positive, got %v", c.ElementDivisionSpacing)
	}
	return nil
}
