// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package fluid implements the spectral, doubly-periodic Navier-Stokes step
// of §4.5: explicit upwind advection, a Fourier-space pressure solve, and a
// combined viscous/pressure-correction Helmholtz solve.
package fluid

import (
	"math"

	"github.com/cpmech/gosl/fun/fftw"
	"github.com/martinjrobins/ImmersedBoundary/mesh"
	"github.com/martinjrobins/ImmersedBoundary/simerrors"
)

// gaugeMode identifies the four modes the pressure gauge/Nyquist condition
// forces to zero: (0,0), (0,Nx/2), (Ny/2,0), (Ny/2,Nx/2) (§4.5 step 4)
func gaugeMode(kx, ky, nx, ny int) bool {
	return (kx == 0 && ky == 0) ||
		(kx == nx/2 && ky == 0) ||
		(kx == 0 && ky == ny/2) ||
		(kx == nx/2 && ky == ny/2)
}

// Solver advances the (u,v) grid velocity field one step at a time; it owns
// only Re (the FFT thread count is applied process-wide by NewSolver and not
// stored), never grid state (the grid is owned by mesh.Mesh and mutated in
// place by Step).
type Solver struct {
	Re float64
}

// NewSolver builds a Solver with the given Reynolds number and applies the
// FFT thread count once at construction (§5 "a thread count chosen at
// startup"), not per step.
func NewSolver(re float64, fftThreads int) (*Solver, error) {
	if re <= 0 {
		return nil, simerrors.New(simerrors.ConfigError, "Re must be positive, got %v", re)
	}
	if fftThreads <= 0 {
		return nil, simerrors.New(simerrors.ConfigError, "fft_threads must be positive, got %v", fftThreads)
	}
	fftw.SetNumThreads(fftThreads)
	return &Solver{Re: re}, nil
}

// Step advances g.U, g.V in place by dt using the current g.Fx, g.Fy force
// arrays (§4.5). The two grid force arrays are left untouched; the caller
// clears them at the start of the next step per §4.7 step 2.
func (s *Solver) Step(g *mesh.Grid, dt float64) error {
	nx, ny := g.Nx, g.Ny
	dx, dy := g.Dx, g.Dy

	advU, advV := upwindAdvection(g)

	ru := make([][]complex128, ny)
	rv := make([][]complex128, ny)
	for j := 0; j < ny; j++ {
		ru[j] = make([]complex128, nx)
		rv[j] = make([]complex128, nx)
		for i := 0; i < nx; i++ {
			ru[j][i] = complex(g.U[j][i]+dt*(g.Fx[j][i]-advU[j][i]), 0)
			rv[j][i] = complex(g.V[j][i]+dt*(g.Fy[j][i]-advV[j][i]), 0)
		}
	}

	if err := transform(ru, false); err != nil {
		return err
	}
	if err := transform(rv, false); err != nil {
		return err
	}

	sx := make([]float64, nx)
	s2x := make([]float64, nx)
	for i := 0; i < nx; i++ {
		sx[i] = math.Sin(math.Pi * float64(i) / float64(nx))
		s2x[i] = math.Sin(2 * math.Pi * float64(i) / float64(nx))
	}
	sy := make([]float64, ny)
	s2y := make([]float64, ny)
	for j := 0; j < ny; j++ {
		sy[j] = math.Sin(math.Pi * float64(j) / float64(ny))
		s2y[j] = math.Sin(2 * math.Pi * float64(j) / float64(ny))
	}

	phat := make([][]complex128, ny)
	for ky := 0; ky < ny; ky++ {
		phat[ky] = make([]complex128, nx)
		for kx := 0; kx < nx; kx++ {
			if gaugeMode(kx, ky, nx, ny) {
				phat[ky][kx] = 0
				continue
			}
			a := s2x[kx] / dx
			b := s2y[ky] / dy
			denom := (dt / s.Re) * (a*a + b*b)
			if denom == 0 {
				return simerrors.New(simerrors.NumericError,
					"pressure solve: zero denominator at non-gauge mode (kx=%d, ky=%d)", kx, ky)
			}
			numer := -1i * (complex(a, 0)*ru[ky][kx] + complex(b, 0)*rv[ky][kx])
			phat[ky][kx] = numer / complex(denom, 0)
		}
	}

	uhat := make([][]complex128, ny)
	vhat := make([][]complex128, ny)
	for ky := 0; ky < ny; ky++ {
		uhat[ky] = make([]complex128, nx)
		vhat[ky] = make([]complex128, nx)
		for kx := 0; kx < nx; kx++ {
			a := sx[kx] / dx
			b := sy[ky] / dy
			op := 1 + (4*dt/s.Re)*(a*a+b*b)
			ucorr := (1i * complex(dt/(s.Re*dx), 0)) * complex(s2x[kx], 0) * phat[ky][kx]
			vcorr := (1i * complex(dt/(s.Re*dy), 0)) * complex(s2y[ky], 0) * phat[ky][kx]
			uhat[ky][kx] = (ru[ky][kx] - ucorr) / complex(op, 0)
			vhat[ky][kx] = (rv[ky][kx] - vcorr) / complex(op, 0)
		}
	}

	if err := transform(uhat, true); err != nil {
		return err
	}
	if err := transform(vhat, true); err != nil {
		return err
	}

	norm := float64(nx * ny)
	for j := 0; j < ny; j++ {
		for i := 0; i < nx; i++ {
			g.U[j][i] = real(uhat[j][i]) / norm
			g.V[j][i] = real(vhat[j][i]) / norm
		}
	}
	return nil
}

// transform runs one 2-D FFTW plan (forward if !inverse, inverse otherwise)
// over data in place, using the "estimate" planner (measure=false) per §5,
// guaranteeing the plan is freed on every exit path.
func transform(data [][]complex128, inverse bool) (err error) {
	plan := fftw.NewPlan2d(data, inverse, false)
	defer plan.Free()
	plan.Execute()
	return nil
}

// upwindAdvection computes A_u, A_v via first-order upwind differencing,
// picking the upwind direction independently for each advecting velocity
// component (§4.5 step 1).
func upwindAdvection(g *mesh.Grid) (au, av [][]float64) {
	nx, ny := g.Nx, g.Ny
	dx, dy := g.Dx, g.Dy
	au = make([][]float64, ny)
	av = make([][]float64, ny)
	for j := 0; j < ny; j++ {
		au[j] = make([]float64, nx)
		av[j] = make([]float64, nx)
		jm, jp := wrapIdx(j-1, ny), wrapIdx(j+1, ny)
		for i := 0; i < nx; i++ {
			im, ip := wrapIdx(i-1, nx), wrapIdx(i+1, nx)
			u, v := g.U[j][i], g.V[j][i]

			var dudx, dvdx float64
			if u > 0 {
				dudx = (u - g.U[j][im]) / dx
				dvdx = (v - g.V[j][im]) / dx
			} else {
				dudx = (g.U[j][ip] - u) / dx
				dvdx = (g.V[j][ip] - v) / dx
			}

			var dudy, dvdy float64
			if v > 0 {
				dudy = (u - g.U[jm][i]) / dy
				dvdy = (v - g.V[jm][i]) / dy
			} else {
				dudy = (g.U[jp][i] - u) / dy
				dvdy = (g.V[jp][i] - v) / dy
			}

			au[j][i] = u*dudx + v*dudy
			av[j][i] = u*dvdx + v*dvdy
		}
	}
	return
}

func wrapIdx(i, n int) int {
	i %= n
	if i < 0 {
		i += n
	}
	return i
}
