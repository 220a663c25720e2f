// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package clock provides the wall clock readings transitions are evaluated at.
package clock

import (
	"sync/atomic"
	"time"

	"github.com/beevik/ntp"
	"github.com/ethereum/go-ethereum/common"

	"github.com/fctrlabs/fstake/log"
)

var logger = log.WithContext("pkg", "clock")

// Clock returns the current unix time in seconds.
type Clock interface {
	Now() uint64
}

// System reads the local clock, corrected by the offset learned from NTP.
type System struct {
	offset atomic.Int64 // nanoseconds
}

func NewSystem() *System {
	return &System{}
}

func (s *System) Now() uint64 {
	now := time.Now().Add(time.Duration(s.offset.Load())).Unix()
	if now < 0 {
		return 0
	}
	return uint64(now)
}

// Offset returns the correction currently applied.
func (s *System) Offset() time.Duration {
	return time.Duration(s.offset.Load())
}

// Sync queries host and adopts its offset when it exceeds tolerance.
func (s *System) Sync(host string, tolerance time.Duration) error {
	resp, err := ntp.Query(host)
	if err != nil {
		logger.Debug("failed to access NTP", "err", err)
		return err
	}
	s.adopt(resp.ClockOffset, tolerance)
	return nil
}

// adopt stores offset, measured against the local clock, or clears the
// correction when the local clock is within tolerance.
func (s *System) adopt(offset, tolerance time.Duration) {
	if offset > tolerance || offset < -tolerance {
		logger.Warn("clock offset detected", "offset", common.PrettyDuration(offset))
		s.offset.Store(int64(offset))
		return
	}
	if prev := s.offset.Swap(0); prev != 0 {
		logger.Info("clock offset cleared", "previous", common.PrettyDuration(prev))
	}
}

// Fixed always reads the same instant. Transitions run against a Fixed
// clock so every step observes one time.
type Fixed uint64

func (f Fixed) Now() uint64 {
	return uint64(f)
}

// Mock is a manually driven clock for tests.
type Mock struct {
	now atomic.Uint64
}

func NewMock(now uint64) *Mock {
	m := &Mock{}
	m.now.Store(now)
	return m
}

func (m *Mock) Now() uint64 {
	return m.now.Load()
}

func (m *Mock) Set(now uint64) {
	m.now.Store(now)
}

// Advance moves the clock forward by secs.
func (m *Mock) Advance(secs uint64) {
	m.now.Add(secs)
}
